package entity

import "github.com/rocketscienceinc/boardgame-backend/internal/apperror"

const (
	maxNameLength         = 64
	maxDefaultStateLength = 256
)

// GameType is a named ruleset: a default starting state plus the name an
// engine is registered under.
type GameType struct {
	Name         string `json:"name"`
	DefaultState string `json:"default_state"`
	Capacity     int    `json:"capacity,omitempty"`
}

// Validate - checks catalog constraints before a game type is saved.
func (that *GameType) Validate() error {
	if that.Name == "" || len(that.Name) > maxNameLength {
		return apperror.ErrInvalidInput
	}

	if len(that.DefaultState) > maxDefaultStateLength {
		return apperror.ErrInvalidInput
	}

	if that.Capacity < 0 {
		return apperror.ErrInvalidInput
	}

	return nil
}
