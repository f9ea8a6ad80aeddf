package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"huella-urbana/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownField       = errors.New("unknown field")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

const DefaultSessionTTL = 2 * time.Hour

type Service struct {
	repo     SessionRepository
	target   SubmissionTarget
	previews *PreviewRenderer
	ttl      time.Duration
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo SessionRepository, target SubmissionTarget, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		target:   target,
		previews: NewPreviewRenderer(),
		ttl:      ttl,
		log:      log.With(map[string]any{"component": "wizard"}),
		now:      time.Now,
	}
}

// Start crea una sesión nueva en el paso 1.
func (s *Service) Start(ctx context.Context) (View, error) {
	sess := newSession(uuid.NewString(), s.now(), s.target, s.previews, s.now)
	if err := s.repo.Create(ctx, sess); err != nil {
		return View{}, fmt.Errorf("create session: %w", err)
	}
	s.log.Debug("wizard session started", map[string]any{"session_id": sess.ID})

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(s.ttl), nil
}

func (s *Service) View(ctx context.Context, id string) (View, error) {
	return s.with(ctx, id, func(*Session) error { return nil })
}

// SetFields actualiza campos del borrador. Rechaza nombres desconocidos
// antes de tocar nada.
func (s *Service) SetFields(ctx context.Context, id string, fields map[string]string) (View, error) {
	for name := range fields {
		if !isKnownField(name) {
			return View{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	return s.with(ctx, id, func(sess *Session) error {
		// orden estable: la descripción y la fecha tienen efectos en la vista
		for _, name := range FormFields {
			if v, ok := fields[name]; ok {
				sess.ctrl.SetField(name, v)
			}
		}
		return nil
	})
}

func (s *Service) Next(ctx context.Context, id string) (View, error) {
	return s.with(ctx, id, func(sess *Session) error {
		sess.ctrl.Next()
		return nil
	})
}

func (s *Service) Prev(ctx context.Context, id string) (View, error) {
	return s.with(ctx, id, func(sess *Session) error {
		sess.ctrl.Prev()
		return nil
	})
}

// PickLocation es un clic en el mapa.
func (s *Service) PickLocation(ctx context.Context, id string, at LatLng) (View, error) {
	if at.Lat < -90 || at.Lat > 90 || at.Lng < -180 || at.Lng > 180 {
		return View{}, ErrInvalidInput
	}
	return s.with(ctx, id, func(sess *Session) error {
		sess.ctrl.MapClick(at)
		return nil
	})
}

func (s *Service) AddAttachments(ctx context.Context, id string, files []Attachment) (View, error) {
	return s.with(ctx, id, func(sess *Session) error {
		added, err := sess.ctrl.AddFiles(ctx, files...)
		if dropped := len(files) - added; dropped > 0 {
			// el usuario no ve los descartes; quedan solo en el log
			s.log.Info("attachments dropped", map[string]any{
				"session_id": sess.ID,
				"offered":    len(files),
				"dropped":    dropped,
			})
		}
		return err
	})
}

func (s *Service) RemoveAttachment(ctx context.Context, id string, index int) (View, error) {
	return s.with(ctx, id, func(sess *Session) error {
		ok, err := sess.ctrl.RemoveFile(ctx, index)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAttachmentNotFound
		}
		return nil
	})
}

// Submit entrega el formulario. Si el destino lo acepta, la sesión se descarta.
func (s *Service) Submit(ctx context.Context, id string) (SubmitResult, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return SubmitResult{}, err
	}

	sess.mu.Lock()
	if sess.submitted || s.now().Sub(sess.updatedAt) > s.ttl {
		sess.mu.Unlock()
		return SubmitResult{}, ErrSessionNotFound
	}
	res, err := sess.ctrl.Submit(ctx)
	sess.updatedAt = s.now()
	if err == nil {
		sess.submitted = true
	}
	sess.mu.Unlock()
	if err != nil {
		return SubmitResult{}, err
	}

	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		s.log.Warn("could not discard submitted session", map[string]any{
			"session_id": id,
			"error":      err.Error(),
		})
	}
	s.log.Info("wizard submitted", map[string]any{"session_id": id, "report_id": res.ReportID})
	return res, nil
}

// Sweep borra las sesiones expiradas.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteIdleSince(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug("wizard sessions expired", map[string]any{"count": n})
	}
	return n, nil
}

// RunJanitor ejecuta Sweep cada interval hasta que ctx termine.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Warn("wizard sweep failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

func (s *Service) with(ctx context.Context, id string, fn func(*Session) error) (View, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.submitted || s.now().Sub(sess.updatedAt) > s.ttl {
		return View{}, ErrSessionNotFound
	}

	sess.screen.beginAction()
	if err := fn(sess); err != nil {
		return View{}, err
	}
	sess.updatedAt = s.now()
	return sess.snapshot(s.ttl), nil
}
