package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"huella-urbana/internal/domain/wizard"
)

// wizardSessionsRepo guarda sesiones vivas del asistente. Solo existe en
// memoria: una sesión tiene estado de proceso (controlador, miniaturas).
type wizardSessionsRepo struct {
	mu   sync.RWMutex
	byID map[string]*wizard.Session
}

func NewWizardSessionsRepo() wizard.SessionRepository {
	return &wizardSessionsRepo{
		byID: make(map[string]*wizard.Session),
	}
}

func (r *wizardSessionsRepo) Create(ctx context.Context, s *wizard.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s == nil || strings.TrimSpace(s.ID) == "" {
		return errors.New("session id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return fmt.Errorf("session %s: %w", s.ID, ErrDuplicate)
	}
	r.byID[s.ID] = s
	return nil
}

func (r *wizardSessionsRepo) Get(ctx context.Context, id string) (*wizard.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, wizard.ErrSessionNotFound
	}
	return s, nil
}

func (r *wizardSessionsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return wizard.ErrSessionNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *wizardSessionsRepo) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.byID {
		if s.LastSeen().Before(cutoff) {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
