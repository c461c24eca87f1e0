package tools

import (
	"fmt"
	"os"
	"sync"
)

// FileStore abstracts whole-file reads and truncating writes.
type FileStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// OSFileStore reads and writes files on the local host.
type OSFileStore struct {
	// Mode is used when WriteFile creates a file. Zero means 0o644.
	Mode os.FileMode
}

func (s OSFileStore) ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

// WriteFile creates or truncates path, leaving the mode of existing files alone.
func (s OSFileStore) WriteFile(path string, data []byte) error {
	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("open %s for rewrite: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// MemFileStore is an in-memory FileStore for tests and dry runs.
type MemFileStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes int
}

func NewMemFileStore() *MemFileStore {
	return &MemFileStore{files: make(map[string][]byte)}
}

func (s *MemFileStore) ReadFile(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), b...), nil
}

func (s *MemFileStore) WriteFile(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Writes counts WriteFile calls.
func (s *MemFileStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
