package model

import (
	"strings"
	"time"
)

// PowerUpType categorises what a power-up does
type PowerUpType string

const (
	PowerUpScoreBoost    PowerUpType = "ScoreBoost"    // Multiplies score earned
	PowerUpTimeExtension PowerUpType = "TimeExtension" // Extends gameplay time
	PowerUpUndo          PowerUpType = "Undo"          // Undoes previous moves
	PowerUpSwapTiles     PowerUpType = "SwapTiles"     // Swaps tile positions
)

// PowerUpTypes lists every known type in menu order
var PowerUpTypes = []PowerUpType{
	PowerUpScoreBoost,
	PowerUpTimeExtension,
	PowerUpUndo,
	PowerUpSwapTiles,
}

// ParsePowerUpType matches a type name case-insensitively
func ParsePowerUpType(s string) (PowerUpType, error) {
	for _, t := range PowerUpTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", ErrInvalidPowerUpType
}

// Valid reports whether t is one of the known types
func (t PowerUpType) Valid() bool {
	_, err := ParsePowerUpType(string(t))
	return err == nil
}

// Defaults applied by NewPowerUp
const (
	DefaultPowerUpDuration  = 1
	DefaultPowerUpCooldown  = 3
	DefaultEffectMultiplier = 1.0
)

// PowerUp is a purchasable in-game boost
type PowerUp struct {
	Record

	Name             string
	Type             PowerUpType
	Description      string
	Duration         int // moves
	Cost             int // points
	Cooldown         int // moves
	IsUnlocked       bool
	UsageCount       int
	EffectMultiplier float64
	IconURL          string
}

// NewPowerUp creates an unlocked power-up with default duration, cooldown and multiplier
func NewPowerUp(name string, typ PowerUpType, cost int, now time.Time) *PowerUp {
	return &PowerUp{
		Record:           NewRecord(now),
		Name:             name,
		Type:             typ,
		Duration:         DefaultPowerUpDuration,
		Cost:             cost,
		Cooldown:         DefaultPowerUpCooldown,
		IsUnlocked:       true,
		EffectMultiplier: DefaultEffectMultiplier,
	}
}

// RecordUsage counts one use of the power-up
func (p *PowerUp) RecordUsage(now time.Time) {
	p.UsageCount++
	p.Touch(now)
}
