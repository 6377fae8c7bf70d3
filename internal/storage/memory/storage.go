package memory

import (
	"context"
	"sync"

	"github.com/mcoot/bakery2048/internal/storage"
)

// Backend is an in-memory implementation of the storage backend interface
type Backend struct {
	mu sync.RWMutex

	name   string
	data   []byte
	stored bool

	// Injected failures for tests
	readErr  error
	writeErr error
}

// New creates an empty in-memory backend
func New(name string) *Backend {
	return &Backend{name: name}
}

// Ensure Backend implements the interface
var _ storage.Backend = (*Backend)(nil)

func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.readErr != nil {
		return nil, b.readErr
	}
	if !b.stored {
		return nil, storage.ErrNotExist
	}
	result := make([]byte, len(b.data))
	copy(result, b.data)
	return result, nil
}

func (b *Backend) Write(ctx context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writeErr != nil {
		return b.writeErr
	}
	b.data = make([]byte, len(data))
	copy(b.data, data)
	b.stored = true
	return nil
}

func (b *Backend) Location() string {
	return "memory:" + b.name
}

// Data returns the last written document, or nil if none
func (b *Backend) Data() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.stored {
		return nil
	}
	result := make([]byte, len(b.data))
	copy(result, b.data)
	return result
}

// SetData replaces the stored document directly
func (b *Backend) SetData(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make([]byte, len(data))
	copy(b.data, data)
	b.stored = true
}

// FailReads makes every Read return err until cleared with nil
func (b *Backend) FailReads(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readErr = err
}

// FailWrites makes every Write return err until cleared with nil
func (b *Backend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}
