package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type GameController struct {
	engine *Engine
}

func NewGameController(engine *Engine) *GameController {
	return &GameController{engine: engine}
}

// HumanTurn - X places a mark on cell.
func (that *GameController) HumanTurn(game *entity.Game, cell int) error {
	return MakeTurn(game, entity.MarkX, cell)
}

// ComputerTurn - O searches and plays. The returned record is built from the
// same search that chose the move.
func (that *GameController) ComputerTurn(game *entity.Game, moveNumber int) (*entity.MoveRecord, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	if game.Turn != entity.MarkO {
		return nil, apperror.ErrNotYourTurn
	}

	decision := that.engine.Decide(game.Board)
	if decision.Move == entity.NoMove {
		return nil, apperror.ErrNoAvailableMoves
	}

	record := decision.Record(moveNumber)

	if err := MakeTurn(game, entity.MarkO, int(decision.Move)); err != nil {
		return nil, fmt.Errorf("computer failed to make turn: %w", err)
	}

	return &record, nil
}

// Analyze - evaluation digest for the board; nothing is applied.
func (that *GameController) Analyze(board entity.Board) Decision {
	return that.engine.Decide(board)
}

func MakeTurn(game *entity.Game, mark entity.Mark, cell int) error {
	if err := game.ConfirmOngoingState(); err != nil {
		return err
	}

	if err := validateMove(game, mark, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board[cell] = mark
	updateGameStatus(game, mark)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, mark entity.Mark, cell int) error {
	if !entity.Move(cell).Valid() {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if game.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - moves the session to its next state after mark played.
func updateGameStatus(game *entity.Game, mark entity.Mark) {
	game.Status = Status(game.Board)

	switch game.Status {
	case entity.StatusXWins:
		game.Winner = entity.MarkX
		game.Turn = entity.EmptyCell
	case entity.StatusOWins:
		game.Winner = entity.MarkO
		game.Turn = entity.EmptyCell
	case entity.StatusDraw:
		game.Turn = entity.EmptyCell
	default:
		game.Turn = Opponent(mark)
	}
}
