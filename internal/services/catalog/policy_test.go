package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/bakery2048/internal/model"
)

var errDupName = errors.New("duplicate name")
var errDupValue = errors.New("duplicate value")

func tileKeys() []Key[*model.Tile] {
	return []Key[*model.Tile]{
		{
			Matches:  SameName(func(t *model.Tile) string { return t.ItemName }),
			Conflict: errDupName,
		},
		{
			Matches:  func(a, b *model.Tile) bool { return a.TileValue == b.TileValue },
			Conflict: errDupValue,
		},
	}
}

func TestCheck(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cookie := model.NewTile("Cookie", 2, now)
	cupcake := model.NewTile("Cupcake", 4, now)
	items := []*model.Tile{cookie, cupcake}

	tests := []struct {
		name      string
		candidate *model.Tile
		want      error
	}{
		{"unique", model.NewTile("Donut", 8, now), nil},
		{"same name different case", model.NewTile("  cOOkie ", 8, now), errDupName},
		{"same value", model.NewTile("Donut", 4, now), errDupValue},
		{"name checked before value", model.NewTile("Cupcake", 2, now), errDupName},
		{"candidate ignores itself", cookie, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(items, tt.candidate, tileKeys()...))
		})
	}
}

func TestCheckIgnoresInactiveEntries(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cookie := model.NewTile("Cookie", 2, now)
	cookie.Deactivate(now)

	err := Check([]*model.Tile{cookie}, model.NewTile("Cookie", 2, now), tileKeys()...)
	assert.NoError(t, err)
}

func TestCheckWithoutKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cookie := model.NewTile("Cookie", 2, now)
	assert.NoError(t, Check([]*model.Tile{cookie}, model.NewTile("Cookie", 2, now)))
}
