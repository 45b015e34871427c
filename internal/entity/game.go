package entity

import (
	"encoding/json"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
)

// Result is the outcome of a game instance. Anything other than
// ResultOngoing is terminal and locks the instance.
type Result int

const (
	ResultOngoing Result = -1
	ResultDraw    Result = 0
	ResultTeamOne Result = 1
	ResultTeamTwo Result = 2
)

// DefaultCapacity is the player capacity used when a game type does not set one.
const DefaultCapacity = 2

// GameInstance is one play-through of a game type. State is opaque to the
// core; only the matching engine interprets it.
type GameInstance struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	State         string         `json:"state"`
	Result        Result         `json:"result"`
	Players       []string       `json:"players,omitempty"`
	Capacity      int            `json:"capacity"`
	CurrentPlayer string         `json:"current_player,omitempty"`
	Moves         []Move         `json:"moves,omitempty"`
	Teams         map[string]int `json:"teams,omitempty"`
}

// Move is one accepted move. Sequence is assigned by the arbiter and is
// contiguous from 0 per instance.
type Move struct {
	GameID   string          `json:"game_id"`
	Player   string          `json:"player"`
	Payload  json.RawMessage `json:"payload"`
	MoveTime int             `json:"move_time"`
	Sequence int             `json:"sequence"`
}

func NewGameInstance(id string, gameType *GameType) *GameInstance {
	capacity := gameType.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &GameInstance{
		ID:       id,
		Type:     gameType.Name,
		State:    gameType.DefaultState,
		Result:   ResultOngoing,
		Capacity: capacity,
	}
}

func (that *GameInstance) IsFinished() bool {
	return that.Result != ResultOngoing
}

func (that *GameInstance) IsFull() bool {
	return len(that.Players) >= that.Capacity
}

func (that *GameInstance) HasPlayer(name string) bool {
	for _, player := range that.Players {
		if player == name {
			return true
		}
	}
	return false
}

// IsOpen reports whether the instance is eligible for random matchmaking.
func (that *GameInstance) IsOpen() bool {
	return !that.IsFinished() && !that.IsFull() && that.CurrentPlayer == ""
}

// ConfirmOngoing - returns an error if the instance no longer accepts transitions.
func (that *GameInstance) ConfirmOngoing() error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}
	return nil
}

// AdmitPlayer - appends a player if the instance is ongoing and a slot is free.
// Joining grants no turn rights; those are handed out by SetCurrentPlayer.
func (that *GameInstance) AdmitPlayer(name string) error {
	if err := that.ConfirmOngoing(); err != nil {
		return err
	}

	if that.HasPlayer(name) || that.IsFull() {
		return apperror.ErrAlreadyFull
	}

	that.Players = append(that.Players, name)

	return nil
}

// SetCurrentPlayer - hands turn rights to an admitted player.
func (that *GameInstance) SetCurrentPlayer(name string) error {
	if err := that.ConfirmOngoing(); err != nil {
		return err
	}

	if !that.HasPlayer(name) {
		return apperror.ErrInvalidPlayer
	}

	that.CurrentPlayer = name

	return nil
}

// ClearCurrentPlayer - releases turn rights held by the given player.
func (that *GameInstance) ClearCurrentPlayer(name string) error {
	if err := that.ConfirmOngoing(); err != nil {
		return err
	}

	if that.CurrentPlayer == "" || that.CurrentPlayer != name {
		return apperror.ErrNotYourTurn
	}

	that.CurrentPlayer = ""

	return nil
}

// NextSequence - the sequence number the next accepted move will get.
func (that *GameInstance) NextSequence() int {
	return len(that.Moves)
}

// CurrentTeam - the team to move, read from the leading state digit. The
// encoding is shared by every engine; anything else yields 0.
func (that *GameInstance) CurrentTeam() int {
	if len(that.State) == 0 || that.State[0] < '0' || that.State[0] > '9' {
		return 0
	}
	return int(that.State[0] - '0')
}
