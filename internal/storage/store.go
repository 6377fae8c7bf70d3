package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Store owns the in-memory list of one entity kind and its persisted copy.
// It is not safe for concurrent use.
type Store[T Entity] struct {
	kind    string
	backend Backend
	logger  *slog.Logger
	items   []T
}

// New creates an empty store bound to a backend
func New[T Entity](kind string, backend Backend, logger *slog.Logger) *Store[T] {
	return &Store[T]{
		kind:    kind,
		backend: backend,
		logger:  logger,
	}
}

// Kind returns the entity kind name, e.g. "player"
func (s *Store[T]) Kind() string {
	return s.kind
}

// Location describes where the store persists to
func (s *Store[T]) Location() string {
	return s.backend.Location()
}

// Load replaces the in-memory list with the persisted one and returns how many entities were loaded.
// Missing data is not an error and leaves the list untouched, as does any read or parse failure.
func (s *Store[T]) Load(ctx context.Context) (int, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			s.logger.Debug("no stored data", slog.String("kind", s.kind), slog.String("location", s.backend.Location()))
			return 0, nil
		}
		return 0, fmt.Errorf("read %s data from %s: %w", s.kind, s.backend.Location(), err)
	}

	var loaded []T
	if err := json.Unmarshal(data, &loaded); err != nil {
		return 0, fmt.Errorf("parse %s data from %s: %w", s.kind, s.backend.Location(), err)
	}
	if loaded == nil {
		return 0, nil
	}

	var zero T
	items := make([]T, 0, len(loaded))
	for _, item := range loaded {
		if item == zero {
			continue // null entries carry nothing to restore
		}
		items = append(items, item)
	}

	s.items = items
	s.logger.Info("loaded entities",
		slog.String("kind", s.kind),
		slog.Int("count", len(items)),
		slog.String("location", s.backend.Location()),
	)
	return len(items), nil
}

// Save writes the whole list, in order, over the persisted copy.
// The in-memory list stays authoritative if the write fails.
func (s *Store[T]) Save(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s data: %w", s.kind, err)
	}

	if err := s.backend.Write(ctx, data); err != nil {
		return fmt.Errorf("write %s data to %s: %w", s.kind, s.backend.Location(), err)
	}

	s.logger.Debug("saved entities",
		slog.String("kind", s.kind),
		slog.Int("count", len(s.items)),
		slog.String("location", s.backend.Location()),
	)
	return nil
}

// Add appends an entity. Callers persist with Save.
func (s *Store[T]) Add(item T) {
	s.items = append(s.items, item)
}

// Remove deletes the first entity with the same ID and reports whether one was found
func (s *Store[T]) Remove(item T) bool {
	id := item.Meta().ID
	idx := slices.IndexFunc(s.items, func(candidate T) bool {
		return candidate.Meta().ID == id
	})
	if idx < 0 {
		return false
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	return true
}

// FindFirst returns the first entity matching pred
func (s *Store[T]) FindFirst(pred func(T) bool) (T, bool) {
	for _, item := range s.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns every entity matching pred, in list order.
// The result is never nil.
func (s *Store[T]) FindAll(pred func(T) bool) []T {
	matches := []T{}
	for _, item := range s.items {
		if pred(item) {
			matches = append(matches, item)
		}
	}
	return matches
}

// All returns a copy of the list, empty rather than nil
func (s *Store[T]) All() []T {
	return append(make([]T, 0, len(s.items)), s.items...)
}

// Len returns the number of entities held
func (s *Store[T]) Len() int {
	return len(s.items)
}
