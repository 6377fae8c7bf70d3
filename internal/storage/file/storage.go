package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mcoot/bakery2048/internal/storage"
)

// Backend persists a document as a single file.
// Writes overwrite the whole file in place; a crash mid-write can leave it truncated.
type Backend struct {
	path string
}

// New creates a backend for the file at path
func New(path string) *Backend {
	return &Backend{path: path}
}

// Ensure Backend implements the interface
var _ storage.Backend = (*Backend)(nil)

func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

func (b *Backend) Write(ctx context.Context, data []byte) error {
	if dir := filepath.Dir(b.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(b.path, data, 0o644)
}

func (b *Backend) Location() string {
	return b.path
}

// Path returns the backing file path
func (b *Backend) Path() string {
	return b.path
}
