package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const (
	StatusInProgress = "in_progress"
	StatusXWins      = "x_wins"
	StatusOWins      = "o_wins"
	StatusDraw       = "draw"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID       string `json:"id"`
	Board    Board  `json:"board"`
	Turn     Mark   `json:"player_turn"`
	Status   string `json:"status"`
	Winner   Mark   `json:"winner,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
}

// NewGame - empty board, human to move.
func NewGame(id, playerID string) *Game {
	return &Game{
		ID:       id,
		Board:    Board{},
		Turn:     MarkX,
		Status:   StatusInProgress,
		PlayerID: playerID,
	}
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Game) IsFinished() bool {
	switch that.Status {
	case StatusXWins, StatusOWins, StatusDraw:
		return true
	default:
		return false
	}
}

func (that *Game) IsComputerTurn() bool {
	return that.IsInProgress() && that.Turn == MarkO
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsInProgress():
		return nil
	case that.IsFinished():
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
