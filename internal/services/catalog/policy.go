// Package catalog holds the natural-key rules shared by the tile and power-up catalogs.
//
// Only active entries reserve a key: deactivating an entry frees its name for reuse.
// Reactivation does not re-check keys, so two active entries can end up sharing one.
package catalog

import (
	"strings"

	"github.com/mcoot/bakery2048/internal/storage"
)

// Key describes one natural key of an entity
type Key[T storage.Entity] struct {
	// Matches reports whether two entities hold the same key value
	Matches func(a, b T) bool
	// Conflict is returned when an active entry already holds the key
	Conflict error
}

// Check returns the Conflict error of the first key that candidate shares with
// another active item. The candidate itself is ignored, so edits can be checked in place.
func Check[T storage.Entity](items []T, candidate T, keys ...Key[T]) error {
	id := candidate.Meta().ID
	for _, key := range keys {
		for _, item := range items {
			meta := item.Meta()
			if !meta.IsActive || meta.ID == id {
				continue
			}
			if key.Matches(item, candidate) {
				return key.Conflict
			}
		}
	}
	return nil
}

// SameName builds a case-insensitive name matcher
func SameName[T storage.Entity](name func(T) string) func(a, b T) bool {
	return func(a, b T) bool {
		return strings.EqualFold(strings.TrimSpace(name(a)), strings.TrimSpace(name(b)))
	}
}
