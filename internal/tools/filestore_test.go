package tools

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileStoreRewriteTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	s := OSFileStore{Mode: 0o600}
	if err := s.WriteFile(path, []byte("a longer first payload")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := s.WriteFile(path, []byte("short")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "short" {
		t.Fatalf("file not truncated: %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected mode: %v", info.Mode().Perm())
	}
}

func TestOSFileStoreMissingFile(t *testing.T) {
	_, err := OSFileStore{}.ReadFile(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestMemFileStoreCopies(t *testing.T) {
	s := NewMemFileStore()
	in := []byte{1, 2, 3}
	if err := s.WriteFile("a", in); err != nil {
		t.Fatalf("write: %v", err)
	}
	in[0] = 9
	out, err := s.ReadFile("a")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(out, []byte{1, 2, 3}) {
		t.Fatalf("store aliased caller buffer: %v", out)
	}
	if s.Writes() != 1 {
		t.Fatalf("unexpected write count: %d", s.Writes())
	}
	if _, err := s.ReadFile("b"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}
