// Package checkers implements the rules engine for checkers.
//
// State encoding: the team to move at index 0 ("1" or "2") followed by the
// 8x8 board flattened to 64 characters. Team 1 plays "b" (kings "B") from
// the bottom rows, team 2 plays "w" (kings "W") from the top. A move payload
// is a [from, to] pair of board indexes; a distance-two diagonal move jumps
// over and captures an enemy mark.
package checkers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

const (
	gameName = "checkers"

	boardSize = 64
	rowSize   = 8

	markTeamOne = "b"
	markTeamTwo = "w"
	emptyCell   = "-"
)

const initialState = "1" +
	"-w-w-w-w" +
	"w-w-w-w-" +
	"-w-w-w-w" +
	"--------" +
	"--------" +
	"b-b-b-b-" +
	"-b-b-b-b" +
	"b-b-b-b-"

// jumpOffsets are every step and jump a mark could make on a flattened board.
var jumpOffsets = []int{-18, 18, -14, 14, -9, 9, -7, 7}

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

// Apply - moves a mark, resolves captures and kinging, and returns the new
// state plus the game result. The team only changes when the move was not a
// jump, so multi-captures stay possible.
func (that *Engine) Apply(state string, payload json.RawMessage) (string, entity.Result, error) {
	if len(state) != boardSize+1 {
		return "", entity.ResultOngoing, fmt.Errorf("%w: malformed state", apperror.ErrIllegalMove)
	}

	team := int(state[0] - '0')
	board := state[1:]

	if team != 1 && team != 2 {
		return "", entity.ResultOngoing, fmt.Errorf("%w: malformed state", apperror.ErrIllegalMove)
	}

	var move [2]int
	if err := json.Unmarshal(payload, &move); err != nil {
		return "", entity.ResultOngoing, fmt.Errorf("%w: move must be a [from, to] pair", apperror.ErrIllegalMove)
	}

	from, to := move[0], move[1]
	if !isValidMove(board, team, from, to) {
		return "", entity.ResultOngoing, fmt.Errorf("%w: %d -> %d", apperror.ErrIllegalMove, from, to)
	}

	// A jump lands two rows away; the captured mark sits halfway between.
	if (from+to)%2 == 0 {
		board = replaceAt(board, (from+to)/2, emptyCell)
	}

	mark := string(board[from])

	kingRow := 0
	if team == 2 {
		kingRow = rowSize - 1
	}
	if to/rowSize == kingRow {
		mark = strings.ToUpper(mark)
	}

	board = replaceAt(board, to, mark)
	board = replaceAt(board, from, emptyCell)

	result := determineResult(board, team)

	nextTeam := team
	if (to-from)%18 != 0 && (to-from)%14 != 0 {
		if team == 1 {
			nextTeam = 2
		} else {
			nextTeam = 1
		}
	}

	return fmt.Sprintf("%d%s", nextTeam, board), result, nil
}

func replaceAt(board string, index int, replacement string) string {
	return board[:index] + replacement + board[index+1:]
}

func teamMark(team int) string {
	if team == 1 {
		return markTeamOne
	}
	return markTeamTwo
}

// isValidMove - a mark moves one diagonal step onto an empty cell, or jumps
// two diagonal steps over an enemy mark. Plain marks only step towards the
// opponent side; kings and jumps also go backwards.
func isValidMove(board string, team, from, to int) bool {
	if from < 0 || from >= boardSize || to < 0 || to >= boardSize {
		return false
	}

	friendMark := teamMark(team)
	enemyMark := teamMark(3 - team)

	if string(board[to]) != emptyCell || strings.ToLower(string(board[from])) != friendMark {
		return false
	}

	rowChange := from/rowSize - to/rowSize
	colChange := to%rowSize - from%rowSize

	isStep := (rowChange == 1 || rowChange == -1) && (colChange == 1 || colChange == -1)
	isJump := (rowChange == 2 || rowChange == -2) && (colChange == 2 || colChange == -2) &&
		strings.ToLower(string(board[(from+to)/2])) == enemyMark

	if !isStep && !isJump {
		return false
	}

	isKing := board[from] >= 'A' && board[from] <= 'Z'
	isBackwardStep := (rowChange == -1 && friendMark == markTeamOne) ||
		(rowChange == 1 && friendMark == markTeamTwo)

	return isKing || !isBackwardStep
}

// determineResult - a team with no marks left loses; a team that cannot move
// loses; otherwise the game continues.
func determineResult(board string, team int) entity.Result {
	lowered := strings.ToLower(board)
	blackExists := strings.Contains(lowered, markTeamOne)
	whiteExists := strings.Contains(lowered, markTeamTwo)

	if blackExists && !whiteExists {
		return entity.ResultTeamOne
	}
	if whiteExists && !blackExists {
		return entity.ResultTeamTwo
	}

	if moveExists(board, team) {
		return entity.ResultOngoing
	}

	if team == 1 {
		return entity.ResultTeamTwo
	}
	return entity.ResultTeamOne
}

func moveExists(board string, team int) bool {
	friendMark := teamMark(team)

	for index := range board {
		if strings.ToLower(string(board[index])) != friendMark {
			continue
		}

		for _, offset := range jumpOffsets {
			if isValidMove(board, team, index, index+offset) {
				return true
			}
		}
	}

	return false
}
