package model

import (
	"regexp"
	"time"
)

// DefaultTileColor is used when a tile is created without a color
const DefaultTileColor = "#FFFFFF"

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// Tile is a collectible item that appears on the board at a given value
type Tile struct {
	Record

	ItemName      string
	TileValue     int
	Icon          string
	Color         string // hex code, e.g. #FFD700
	IsSpecialItem bool
}

// NewTile creates an active tile with the default color
func NewTile(itemName string, tileValue int, now time.Time) *Tile {
	return &Tile{
		Record:    NewRecord(now),
		ItemName:  itemName,
		TileValue: tileValue,
		Color:     DefaultTileColor,
	}
}

// IsValidColor reports whether c is a #RGB or #RRGGBB hex code
func IsValidColor(c string) bool {
	return hexColorPattern.MatchString(c)
}
