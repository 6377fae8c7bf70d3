package storage

import (
	"context"
	"errors"

	"github.com/mcoot/bakery2048/internal/model"
)

// ErrNotExist is returned by a Backend that holds no data yet
var ErrNotExist = errors.New("no stored data")

// Backend defines where a serialized entity list is persisted
type Backend interface {
	// Read returns the stored document, or ErrNotExist if nothing has been written
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored document
	Write(ctx context.Context, data []byte) error

	// Location describes the backend for logs and messages
	Location() string
}

// Entity is any stored type that embeds model.Record.
// Implementations are pointer types so lookups can be mutated in place.
type Entity interface {
	comparable
	Meta() *model.Record
}
