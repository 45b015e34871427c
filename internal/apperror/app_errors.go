package apperror

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrGameTypeNotFound = errors.New("game type does not exist")
	ErrConflict         = errors.New("conflicting concurrent update")
	ErrAlreadyFull      = errors.New("game already has all players")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrInvalidPlayer    = errors.New("player has not joined this game")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoOpenGames      = errors.New("no open games")
)
