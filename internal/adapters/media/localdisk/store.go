package localdisk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"huella-urbana/internal/ports/media"
)

var ErrInvalidKey = errors.New("invalid media key")

// Store guarda archivos bajo Dir y los expone bajo PublicPath
// (el router sirve PublicPath como estático).
type Store struct {
	dir        string
	publicPath string
}

func New(dir, publicPath string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	publicPath = "/" + strings.Trim(strings.TrimSpace(publicPath), "/")
	if publicPath == "/" {
		publicPath = "/uploads"
	}
	return &Store{dir: dir, publicPath: publicPath}, nil
}

func (s *Store) Dir() string        { return s.dir }
func (s *Store) PublicPath() string { return s.publicPath }

func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) (media.Object, error) {
	if err := ctx.Err(); err != nil {
		return media.Object{}, err
	}
	dst, err := s.resolve(key)
	if err != nil {
		return media.Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return media.Object{}, err
	}

	// escribir a temporal y renombrar: nadie ve archivos a medias
	tmp := dst + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return media.Object{}, err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return media.Object{}, err
	}

	return media.Object{
		Key:         key,
		URL:         path.Join(s.publicPath, filepath.ToSlash(key)),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	src, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(src)
	if errors.Is(err, os.ErrNotExist) {
		return nil, media.ErrNotFound
	}
	return b, err
}

func (s *Store) Delete(_ context.Context, key string) error {
	dst, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return media.ErrNotFound
		}
		return err
	}
	return nil
}

// resolve no permite salir de dir.
func (s *Store) resolve(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, clean), nil
}
