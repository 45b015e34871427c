// Package tictactoe implements the rules engine for tic-tac-toe.
//
// State encoding: the team to move at index 0 ("1" or "2") followed by the
// 3x3 board flattened to 9 characters, "-" for an empty cell. The empty
// board is "1---------". A move payload is the board index to mark.
package tictactoe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const (
	gameName     = "tictactoe"
	initialState = "1---------"

	boardSize = 9

	markTeamOne = "X"
	markTeamTwo = "O"
	emptyCell   = "-"
)

var winningLines = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

func (that *Engine) Name() string {
	return gameName
}

func (that *Engine) InitialState() string {
	return initialState
}

// Apply - places the mark of the team to move at the requested cell and
// returns the new state plus the game result.
func (that *Engine) Apply(state string, payload json.RawMessage) (string, entity.Result, error) {
	if len(state) != boardSize+1 {
		return "", entity.ResultOngoing, fmt.Errorf("%w: malformed state %q", apperror.ErrIllegalMove, state)
	}

	team := int(state[0] - '0')
	board := state[1:]

	if team != 1 && team != 2 {
		return "", entity.ResultOngoing, fmt.Errorf("%w: malformed state %q", apperror.ErrIllegalMove, state)
	}

	var cell int
	if err := json.Unmarshal(payload, &cell); err != nil {
		return "", entity.ResultOngoing, fmt.Errorf("%w: move must be a board index", apperror.ErrIllegalMove)
	}

	if cell < 0 || cell >= boardSize || board[cell] != emptyCell[0] {
		return "", entity.ResultOngoing, fmt.Errorf("%w: cell %d", apperror.ErrIllegalMove, cell)
	}

	mark := markTeamOne
	if team == 2 {
		mark = markTeamTwo
	}
	board = board[:cell] + mark + board[cell+1:]

	result := determineResult(board)

	nextTeam := "2"
	if team == 2 {
		nextTeam = "1"
	}

	return nextTeam + board, result, nil
}

// determineResult - a filled line wins; a board with no line completable by
// a single team is a draw; otherwise the game continues.
func determineResult(board string) entity.Result {
	result := entity.ResultDraw

	for _, line := range winningLines {
		a, b, c := string(board[line[0]]), string(board[line[1]]), string(board[line[2]])

		if a == b && b == c && a != emptyCell {
			if a == markTeamOne {
				return entity.ResultTeamOne
			}
			return entity.ResultTeamTwo
		}

		marks := a + b + c
		if !(strings.Contains(marks, markTeamOne) && strings.Contains(marks, markTeamTwo)) {
			result = entity.ResultOngoing
		}
	}

	return result
}
