package wizard

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("wizard session not found")

// Session es un asistente en curso del lado servidor. Vive solo en memoria:
// se descarta al enviar o al expirar.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	updatedAt time.Time
	// submitted queda en true tras un envío aceptado; la sesión ya no sirve
	// aunque siga en el repositorio.
	submitted bool

	ctrl     *Controller
	form     *Values
	screen   *ViewScreen
	mapState *MapState
	input    *stagedInput
}

func newSession(id string, now time.Time, target SubmissionTarget, previews *PreviewRenderer, clock func() time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		updatedAt: now,
		form:      NewValues(nil),
		screen:    &ViewScreen{},
		mapState:  &MapState{},
		input:     &stagedInput{},
	}
	s.ctrl = NewController(Deps{
		Form:      s.form,
		Screen:    s.screen,
		Map:       s.mapState,
		FileInput: s.input,
		Previews:  previews,
		Target:    target,
		Now:       clock,
	})
	return s
}

// LastSeen devuelve la última actividad de la sesión.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteIdleSince borra las sesiones sin actividad desde cutoff.
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error)
}
