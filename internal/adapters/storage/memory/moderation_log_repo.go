package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"huella-urbana/internal/domain/moderation"
)

type moderationLogRepo struct {
	mu       sync.RWMutex
	byReport map[string][]moderation.LogEntry
}

func NewModerationLogRepo() moderation.LogRepository {
	return &moderationLogRepo{
		byReport: make(map[string][]moderation.LogEntry),
	}
}

func (r *moderationLogRepo) Append(ctx context.Context, e moderation.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.ReportID) == "" {
		return errors.New("log entry id and report id required")
	}
	r.byReport[e.ReportID] = append(r.byReport[e.ReportID], e)
	return nil
}

func (r *moderationLogRepo) ListByReport(ctx context.Context, reportID string) ([]moderation.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.byReport[reportID]
	out := make([]moderation.LogEntry, len(src))
	copy(out, src)

	// más reciente primero; a igual fecha, el último agregado primero
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.After(out[j].At)
	})
	return out, nil
}
