package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrInvalidTileValue   = errors.New("tile value must be positive")
	ErrInvalidColor       = errors.New("color must be a hex code like #FFF or #FFFFFF")
	ErrInvalidPowerUpType = errors.New("unknown power-up type")
	ErrInvalidDuration    = errors.New("duration must be positive")
	ErrInvalidCost        = errors.New("cost must not be negative")
	ErrInvalidCooldown    = errors.New("cooldown must not be negative")
	ErrInvalidMultiplier  = errors.New("effect multiplier must not be negative")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already registered")

	// Tile errors
	ErrTileNotFound       = errors.New("tile not found")
	ErrDuplicateTileName  = errors.New("an active tile with this name already exists")
	ErrDuplicateTileValue = errors.New("an active tile with this value already exists")

	// Power-up errors
	ErrPowerUpNotFound      = errors.New("power-up not found")
	ErrDuplicatePowerUpName = errors.New("an active power-up with this name already exists")

	// Persistence errors
	ErrPersistFailed = errors.New("changes kept in memory but could not be saved")
)
