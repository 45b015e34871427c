package checkers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boardWith builds an empty 64-cell board with the given marks placed.
func boardWith(marks map[int]string) string {
	board := strings.Repeat("-", 64)
	for index, mark := range marks {
		board = board[:index] + mark + board[index+1:]
	}
	return board
}

func TestEngine_Apply(t *testing.T) {
	eng := New()

	t.Run("Black steps diagonally towards the top", func(t *testing.T) {
		// Given: the initial board with team 1 (black) to move
		// When: the mark at 40 steps to 33
		newState, result, err := eng.Apply(eng.InitialState(), json.RawMessage(`[40, 33]`))

		// Then: the mark moved and team 2 is up next
		require.NoError(t, err)
		assert.Equal(t, byte('2'), newState[0])
		assert.Equal(t, byte('-'), newState[1+40])
		assert.Equal(t, byte('b'), newState[1+33])
		assert.Equal(t, entity.ResultOngoing, result)
	})

	t.Run("White steps diagonally towards the bottom", func(t *testing.T) {
		state := "2" + boardWith(map[int]string{17: "w", 44: "b"})

		newState, result, err := eng.Apply(state, json.RawMessage(`[17, 26]`))

		require.NoError(t, err)
		assert.Equal(t, byte('1'), newState[0])
		assert.Equal(t, byte('w'), newState[1+26])
		assert.Equal(t, entity.ResultOngoing, result)
	})

	t.Run("A jump captures the enemy mark and keeps the turn", func(t *testing.T) {
		// Given: a black mark at 44 with the last white mark at 35 and an
		// empty landing square at 26
		state := "1" + boardWith(map[int]string{44: "b", 35: "w"})

		// When: black jumps 44 -> 26
		newState, result, err := eng.Apply(state, json.RawMessage(`[44, 26]`))

		// Then: the white mark is gone, the same team stays on turn and
		// black wins by elimination
		require.NoError(t, err)
		assert.Equal(t, byte('1'), newState[0])
		assert.Equal(t, byte('-'), newState[1+35])
		assert.Equal(t, byte('-'), newState[1+44])
		assert.Equal(t, byte('b'), newState[1+26])
		assert.Equal(t, entity.ResultTeamOne, result)
	})

	t.Run("A mark reaching the far row becomes a king", func(t *testing.T) {
		state := "1" + boardWith(map[int]string{9: "b", 63: "w"})

		newState, result, err := eng.Apply(state, json.RawMessage(`[9, 0]`))

		require.NoError(t, err)
		assert.Equal(t, byte('B'), newState[1+0])
		assert.Equal(t, entity.ResultOngoing, result)
	})

	t.Run("Plain marks cannot step backwards", func(t *testing.T) {
		state := "1" + boardWith(map[int]string{20: "b", 63: "w"})

		_, _, err := eng.Apply(state, json.RawMessage(`[20, 29]`))

		assert.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Kings step backwards", func(t *testing.T) {
		state := "1" + boardWith(map[int]string{20: "B", 63: "w"})

		newState, _, err := eng.Apply(state, json.RawMessage(`[20, 29]`))

		require.NoError(t, err)
		assert.Equal(t, byte('B'), newState[1+29])
	})

	t.Run("Rejects moving an enemy mark", func(t *testing.T) {
		_, _, err := eng.Apply(eng.InitialState(), json.RawMessage(`[17, 26]`))

		assert.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Rejects a non-diagonal move", func(t *testing.T) {
		_, _, err := eng.Apply(eng.InitialState(), json.RawMessage(`[40, 32]`))

		assert.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Rejects an out of range index", func(t *testing.T) {
		_, _, err := eng.Apply(eng.InitialState(), json.RawMessage(`[40, 72]`))

		assert.ErrorIs(t, err, apperror.ErrIllegalMove)
	})

	t.Run("Rejects a malformed payload", func(t *testing.T) {
		_, _, err := eng.Apply(eng.InitialState(), json.RawMessage(`"forward"`))

		assert.ErrorIs(t, err, apperror.ErrIllegalMove)
	})
}

func TestEngine_InitialState(t *testing.T) {
	eng := New()

	state := eng.InitialState()

	// 1 team digit + 64 board cells, 12 marks per side
	require.Len(t, state, 65)
	assert.Equal(t, byte('1'), state[0])
	assert.Equal(t, 12, strings.Count(state, "b"))
	assert.Equal(t, 12, strings.Count(state, "w"))
	assert.Equal(t, "checkers", eng.Name())
}
