package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTurn(t *testing.T) {
	t.Run("MakeTurn", func(t *testing.T) {
		// Given: a new game
		game := entity.NewGame("123", "p1")

		// When: player X makes a turn
		err := MakeTurn(game, entity.MarkX, 0)
		require.NoError(t, err)

		// Then: the game state should reflect the turn and the turn should pass to O
		expectedGame := &entity.Game{
			ID:       "123",
			Board:    entity.Board{entity.MarkX},
			Turn:     entity.MarkO,
			Status:   entity.StatusInProgress,
			PlayerID: "p1",
		}

		require.Equal(t, expectedGame, game)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X already took cell 0
		game := entity.NewGame("123", "p1")
		require.NoError(t, MakeTurn(game, entity.MarkX, 0))

		// When: O tries the same cell
		err := MakeTurn(game, entity.MarkO, 0)

		// Then: ErrCellOccupied is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.MarkO, game.Turn)
		assert.Equal(t, entity.MarkX, game.Board[0])
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a new game where X moves first
		game := entity.NewGame("123", "p1")

		// When: O tries to move
		err := MakeTurn(game, entity.MarkO, 1)

		// Then: ErrNotYourTurn is returned and the board stays empty
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.Board{}, game.Board)
	})

	t.Run("Error on invalid cell index", func(t *testing.T) {
		game := entity.NewGame("123", "p1")

		assert.ErrorIs(t, MakeTurn(game, entity.MarkX, 20), apperror.ErrInvalidCell)
		assert.ErrorIs(t, MakeTurn(game, entity.MarkX, -1), apperror.ErrInvalidCell)
	})

	t.Run("Winning move finishes the game", func(t *testing.T) {
		// Given: X can complete the top row
		game := &entity.Game{ID: "1", Board: mustBoard(t, "XX./OO./..."), Turn: entity.MarkX, Status: entity.StatusInProgress}

		// When: X plays cell 2
		require.NoError(t, MakeTurn(game, entity.MarkX, 2))

		// Then: X wins and nobody is to move
		assert.Equal(t, entity.StatusXWins, game.Status)
		assert.Equal(t, entity.MarkX, game.Winner)
		assert.Equal(t, entity.EmptyCell, game.Turn)

		// And: further moves are refused
		assert.ErrorIs(t, MakeTurn(game, entity.MarkO, 5), apperror.ErrGameFinished)
	})

	t.Run("Filling the last cell without a line is a draw", func(t *testing.T) {
		// Given: one empty cell left
		game := &entity.Game{ID: "1", Board: mustBoard(t, "XOX/XOO/OX."), Turn: entity.MarkX, Status: entity.StatusInProgress}

		// When: X fills it
		require.NoError(t, MakeTurn(game, entity.MarkX, 8))

		// Then: the game is drawn
		assert.Equal(t, entity.StatusDraw, game.Status)
		assert.Equal(t, entity.EmptyCell, game.Winner)
		assert.Equal(t, entity.EmptyCell, game.Turn)
	})
}

func TestGameController_ComputerTurn(t *testing.T) {
	controller := NewGameController(NewEngine(DepthWeighted))

	t.Run("Answers the human and records the decision", func(t *testing.T) {
		// Given: the human opened in the corner
		game := entity.NewGame("123", "p1")
		require.NoError(t, controller.HumanTurn(game, 0))

		// When: the computer plays
		record, err := controller.ComputerTurn(game, 1)
		require.NoError(t, err)

		// Then: it takes the center and the record describes the board it saw
		assert.Equal(t, 1, record.MoveNumber)
		assert.Equal(t, entity.Move(4), record.Move)
		assert.Equal(t, 0, record.Score)
		assert.Equal(t, mustBoard(t, "X../.../..."), record.Board)
		assert.Len(t, record.Candidates, 8)

		assert.Equal(t, entity.MarkO, game.Board[4])
		assert.Equal(t, entity.MarkX, game.Turn)
		assert.Equal(t, entity.StatusInProgress, game.Status)
	})

	t.Run("Wins when it can", func(t *testing.T) {
		// Given: O to move with a line to complete
		game := &entity.Game{ID: "1", Board: mustBoard(t, "XX./OO./X.."), Turn: entity.MarkO, Status: entity.StatusInProgress}

		// When: the computer plays
		record, err := controller.ComputerTurn(game, 2)
		require.NoError(t, err)

		// Then: the game ends with O winning
		assert.Equal(t, entity.Move(5), record.Move)
		assert.Equal(t, entity.StatusOWins, game.Status)
		assert.Equal(t, entity.MarkO, game.Winner)
	})

	t.Run("Refuses to move on the human's turn", func(t *testing.T) {
		game := entity.NewGame("123", "p1")

		_, err := controller.ComputerTurn(game, 1)

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.Board{}, game.Board)
	})

	t.Run("Refuses to move in a finished game", func(t *testing.T) {
		game := &entity.Game{ID: "1", Board: mustBoard(t, "XXX/OO./..."), Status: entity.StatusXWins, Winner: entity.MarkX}

		_, err := controller.ComputerTurn(game, 3)

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Reports no available moves on an inconsistent full board", func(t *testing.T) {
		// Given: a session that claims to be in progress on a full board
		game := &entity.Game{ID: "1", Board: mustBoard(t, "XOX/XOO/OXX"), Turn: entity.MarkO, Status: entity.StatusInProgress}

		_, err := controller.ComputerTurn(game, 5)

		assert.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
	})
}

func TestGameController_Analyze(t *testing.T) {
	controller := NewGameController(NewEngine(DepthWeighted))

	// Given: a game waiting for the computer
	game := &entity.Game{ID: "1", Board: mustBoard(t, "XX./OO./..."), Turn: entity.MarkO, Status: entity.StatusInProgress}
	before := *game

	// When: the digest is requested
	decision := controller.Analyze(game.Board)

	// Then: it matches what ComputerTurn will play and the game is untouched
	assert.Equal(t, entity.Move(5), decision.Move)
	assert.Equal(t, before, *game)

	record, err := controller.ComputerTurn(game, 1)
	require.NoError(t, err)
	assert.Equal(t, decision.Move, record.Move)
	assert.Equal(t, decision.Score, record.Score)
}
