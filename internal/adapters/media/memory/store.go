package memory

import (
	"context"
	"sync"

	"huella-urbana/internal/ports/media"
)

// Store guarda en memoria. Para dev y tests.
type Store struct {
	mu    sync.RWMutex
	byKey map[string]entry
}

type entry struct {
	contentType string
	data        []byte
}

func New() *Store {
	return &Store{byKey: make(map[string]entry)}
}

func (s *Store) Put(_ context.Context, key, contentType string, data []byte) (media.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKey[key] = entry{contentType: contentType, data: append([]byte(nil), data...)}
	return media.Object{
		Key:         key,
		URL:         "/uploads/" + key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byKey[key]
	if !ok {
		return nil, media.ErrNotFound
	}
	return append([]byte(nil), e.data...), nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[key]; !ok {
		return media.ErrNotFound
	}
	delete(s.byKey, key)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}
