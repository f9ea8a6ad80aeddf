package media

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("media not found")

// Object es un archivo guardado.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Store guarda las fotos de los reportes. Key la decide quien llama.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (Object, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
