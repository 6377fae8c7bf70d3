package cli

import (
	"errors"

	"github.com/mcoot/bakery2048/internal/model"
)

// Error codes reported in JSON error output
const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeNotSaved       = "NOT_SAVED"
	CodeCommandFailure = "COMMAND_FAILED"
)

// Process exit statuses
const (
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitNotSaved = 5
	ExitInternal = 70
)

// cliError pairs an error code with the exit status it produces
type cliError struct {
	code string
	exit int
}

// classify maps an error to its code and exit status.
// A save failure wins over anything joined with it.
func classify(err error) cliError {
	switch {
	case errors.Is(err, model.ErrPersistFailed):
		return cliError{CodeNotSaved, ExitNotSaved}

	case errors.Is(err, model.ErrPlayerNotFound),
		errors.Is(err, model.ErrTileNotFound),
		errors.Is(err, model.ErrPowerUpNotFound):
		return cliError{CodeNotFound, ExitNotFound}

	case errors.Is(err, model.ErrPlayerExists),
		errors.Is(err, model.ErrDuplicateTileName),
		errors.Is(err, model.ErrDuplicateTileValue),
		errors.Is(err, model.ErrDuplicatePowerUpName):
		return cliError{CodeConflict, ExitConflict}

	case errors.Is(err, model.ErrEmptyName),
		errors.Is(err, model.ErrInvalidTileValue),
		errors.Is(err, model.ErrInvalidColor),
		errors.Is(err, model.ErrInvalidPowerUpType),
		errors.Is(err, model.ErrInvalidDuration),
		errors.Is(err, model.ErrInvalidCost),
		errors.Is(err, model.ErrInvalidCooldown),
		errors.Is(err, model.ErrInvalidMultiplier):
		return cliError{CodeInvalidInput, ExitInvalid}

	default:
		return cliError{CodeCommandFailure, ExitFailure}
	}
}
