package localdisk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"huella-urbana/internal/ports/media"
)

func TestStore_PutGetDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, "uploads/")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	ctx := context.Background()

	obj, err := s.Put(ctx, "reports/r-1/1.png", "image/png", []byte("png"))
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if obj.URL != "/uploads/reports/r-1/1.png" || obj.Size != 3 {
		t.Fatalf("unexpected object %+v", obj)
	}
	if _, err := os.Stat(filepath.Join(dir, "reports", "r-1", "1.png")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	b, err := s.Get(ctx, "reports/r-1/1.png")
	if err != nil || string(b) != "png" {
		t.Fatalf("Get: %q %v", b, err)
	}

	if err := s.Delete(ctx, "reports/r-1/1.png"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, "reports/r-1/1.png"); !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	s, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for _, key := range []string{"", "../x.png", "/etc/passwd", "a/../../x"} {
		if _, err := s.Put(context.Background(), key, "image/png", nil); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}
