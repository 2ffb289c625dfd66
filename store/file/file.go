// Package file implements store.Store as a JSON document on disk.
package file

import (
	"cflow/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore writes each revision over a single JSON file.
type FileStore struct {
	path string
}

// New creates a FileStore backed by path.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements store.Store.
func (s *FileStore) Load(ctx context.Context) (store.Revision, error) {
	if err := ctx.Err(); err != nil {
		return store.Revision{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store.Revision{}, store.ErrEmpty
		}
		return store.Revision{}, fmt.Errorf("store: read %s: %w", s.path, err)
	}

	var rev store.Revision
	if err := json.Unmarshal(data, &rev); err != nil {
		return store.Revision{}, fmt.Errorf("store: decode %s: %w", s.path, err)
	}
	return rev, nil
}

// Save implements store.Store. The file is replaced atomically through a
// temporary sibling.
func (s *FileStore) Save(ctx context.Context, rev store.Revision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rev, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cflow-*.json")
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", s.path, err)
	}
	return nil
}

// Reset implements store.Resetter by removing the backing file.
func (s *FileStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: reset %s: %w", s.path, err)
	}
	return nil
}
