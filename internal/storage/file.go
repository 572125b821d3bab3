package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// FileStore keeps a single saved game in one YAML file.
// Each call opens, reads or writes, and closes the file.
type FileStore struct {
	path string
}

var _ t2048.RecordStore = (*FileStore)(nil)

// NewFileStore creates a store for the file at path. The file is created on first save.
func NewFileStore(path string) (*FileStore, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.New("storage: empty save file path")
	}
	return &FileStore{path: path}, nil
}

// Path returns the resolved save file path.
func (f *FileStore) Path() string { return f.path }

// Put writes rec to the save file, replacing it atomically.
func (f *FileStore) Put(_ context.Context, rec t2048.SaveRecord) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".save-*.yaml")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := t2048.EncodeRecord(tmp, rec); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot write save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("storage: cannot replace save file: %w", err)
	}
	return nil
}

// Get reads the save file.
func (f *FileStore) Get(_ context.Context) (t2048.SaveRecord, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return t2048.SaveRecord{}, fmt.Errorf("storage: %s: %w", f.path, t2048.ErrNoSavedGame)
	}
	if err != nil {
		return t2048.SaveRecord{}, fmt.Errorf("storage: cannot open save file: %w", err)
	}
	defer file.Close()

	rec, err := t2048.DecodeRecord(file)
	if err != nil {
		return t2048.SaveRecord{}, fmt.Errorf("storage: %s: %w", f.path, err)
	}
	return rec, nil
}
