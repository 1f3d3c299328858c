package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zjrosen/clientbook/internal/log"
)

// Slot is a single named storage location holding one opaque blob.
type Slot interface {
	// Load returns the stored blob. ok is false when nothing is stored.
	Load(ctx context.Context) (data []byte, ok bool, err error)
	// Save replaces the stored blob.
	Save(ctx context.Context, data []byte) error
	// Remove deletes the blob. Removing an empty slot is not an error.
	Remove(ctx context.Context) error
	// Path returns the backing location, or "" when there is none.
	Path() string
}

// MemorySlot keeps the blob in memory.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Load implements Slot.
func (s *MemorySlot) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, false, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, true, nil
}

// Save implements Slot.
func (s *MemorySlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data[:0], data...)
	s.set = true
	return nil
}

// Remove implements Slot.
func (s *MemorySlot) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.set = false
	return nil
}

// Path implements Slot.
func (s *MemorySlot) Path() string { return "" }

// FileSlot stores the blob in a single file, replaced atomically on save.
type FileSlot struct {
	mu   sync.Mutex
	path string
}

// DefaultFileName is the file used inside the data directory.
const DefaultFileName = "clients.json"

// NewFileSlot creates a slot backed by path. The file need not exist.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Load implements Slot.
func (s *FileSlot) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return data, true, nil
}

// Save implements Slot. Writes go to a temp file that is renamed over the
// target so readers never observe a partial blob.
func (s *FileSlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".clients.json.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debug(log.CatStore, "Wrote slot file", "path", s.path, "bytes", len(data))
	return nil
}

// Remove implements Slot.
func (s *FileSlot) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", s.path, err)
	}
	return nil
}

// Path implements Slot.
func (s *FileSlot) Path() string { return s.path }
