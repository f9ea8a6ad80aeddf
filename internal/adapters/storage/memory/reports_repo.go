package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"huella-urbana/internal/domain/reports"
)

type reportsRepo struct {
	mu   sync.RWMutex
	byID map[string]reports.Report
}

func NewReportsRepo() reports.Repository {
	return &reportsRepo{
		byID: make(map[string]reports.Report),
	}
}

func (r *reportsRepo) Create(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.byID[rep.ID]; exists {
		return fmt.Errorf("report %s: %w", rep.ID, ErrDuplicate)
	}
	r.byID[rep.ID] = clone(rep)
	return nil
}

func (r *reportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.byID[id]
	if !ok {
		return reports.Report{}, reports.ErrNotFound
	}
	return clone(rep), nil
}

func (r *reportsRepo) List(ctx context.Context, f reports.ListFilter) ([]reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.filtered(f)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []reports.Report{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *reportsRepo) Count(ctx context.Context, f reports.ListFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.filtered(f)), nil
}

func (r *reportsRepo) CountByStatus(ctx context.Context) (map[reports.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[reports.Status]int)
	for _, rep := range r.byID {
		out[rep.Status]++
	}
	return out, nil
}

func (r *reportsRepo) UpdateModeration(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[rep.ID]
	if !ok {
		return reports.ErrNotFound
	}
	cur.Status = rep.Status
	cur.ModeratorID = rep.ModeratorID
	if rep.ModeratedAt != nil {
		t := *rep.ModeratedAt
		cur.ModeratedAt = &t
	}
	cur.ModerationComment = rep.ModerationComment
	cur.UpdatedAt = rep.UpdatedAt
	r.byID[rep.ID] = cur
	return nil
}

// filtered asume el lock tomado.
func (r *reportsRepo) filtered(f reports.ListFilter) []reports.Report {
	out := make([]reports.Report, 0)
	for _, rep := range r.byID {
		if f.Status != "" && rep.Status != f.Status {
			continue
		}
		if f.Severity != "" && rep.Severity != f.Severity {
			continue
		}
		if f.Animal != "" && rep.AnimalType != f.Animal {
			continue
		}
		if f.Anonymous != nil && rep.Anonymous != *f.Anonymous {
			continue
		}
		out = append(out, clone(rep))
	}
	return out
}

// clone evita compartir slices/punteros con quien llama.
func clone(rep reports.Report) reports.Report {
	rep.Photos = append([]reports.Photo(nil), rep.Photos...)
	if rep.ModeratedAt != nil {
		t := *rep.ModeratedAt
		rep.ModeratedAt = &t
	}
	return rep
}
