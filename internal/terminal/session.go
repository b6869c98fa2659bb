package terminal

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const side = 3

// Session - a local game against the computer. The UI goroutine and the
// delayed computer move share it, so every method locks.
type Session struct {
	controller *tictactoe.GameController

	mu      sync.Mutex
	game    *entity.Game
	history []entity.MoveRecord
	cursor  int
}

func NewSession(controller *tictactoe.GameController) *Session {
	return &Session{
		controller: controller,
		game:       entity.NewGame(pkg.GenerateGameID(), ""),
		cursor:     side + 1,
	}
}

func (that *Session) Game() entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return *that.game
}

// History - the computer's decisions, oldest first.
func (that *Session) History() []entity.MoveRecord {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.MoveRecord(nil), that.history...)
}

func (that *Session) Cursor() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.cursor
}

// Move shifts the cursor, stopping at the board edges.
func (that *Session) Move(dx, dy int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	col := clamp(that.cursor%side+dx, 0, side-1)
	row := clamp(that.cursor/side+dy, 0, side-1)

	that.cursor = row*side + col
}

// Select puts the cursor on cell.
func (that *Session) Select(cell int) {
	if !entity.Move(cell).Valid() {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.cursor = cell
}

// Place - the human plays the cell under the cursor.
func (that *Session) Place() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.controller.HumanTurn(that.game, that.cursor)
}

// WaitingForComputer reports whether the computer has a move to make.
func (that *Session) WaitingForComputer() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.IsComputerTurn()
}

// ComputerTurn - the computer replies and its decision joins the history.
func (that *Session) ComputerTurn() (*entity.MoveRecord, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	record, err := that.controller.ComputerTurn(that.game, len(that.history)+1)
	if err != nil {
		return nil, err
	}

	that.history = append(that.history, *record)

	return record, nil
}

// Restart - empty board, empty history, human to move.
func (that *Session) Restart() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.game = entity.NewGame(pkg.GenerateGameID(), "")
	that.history = nil
	that.cursor = side + 1
}

func (that *Session) Status() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.game.Status {
	case entity.StatusXWins, entity.StatusOWins:
		return fmt.Sprintf("Winner: %s", that.game.Winner)
	case entity.StatusDraw:
		return "Game ended in a draw!"
	}

	if that.game.Turn == entity.MarkO {
		return "Computer is thinking..."
	}

	return "Your turn (X)"
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
