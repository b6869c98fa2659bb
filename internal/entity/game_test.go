package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// When: a new game is created
	game := NewGame("123", "player-1")

	// Then: the board is empty, the human moves first and the game is in progress
	expectedGame := &Game{
		ID:       "123",
		Board:    Board{},
		Turn:     MarkX,
		Status:   StatusInProgress,
		PlayerID: "player-1",
	}

	require.Equal(t, expectedGame, game)
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsInProgress returns true only for in-progress games", func(t *testing.T) {
		// Given: an in-progress game and a finished one
		ongoing := &Game{Status: StatusInProgress}
		finished := &Game{Status: StatusDraw}

		// Then: only the first one is in progress
		assert.True(t, ongoing.IsInProgress())
		assert.False(t, finished.IsInProgress())
	})

	t.Run("IsFinished returns true for every terminal state", func(t *testing.T) {
		for _, status := range []string{StatusXWins, StatusOWins, StatusDraw} {
			// Given: a game in a terminal state
			game := &Game{Status: status}

			// Then: it is finished
			assert.True(t, game.IsFinished(), status)
		}

		assert.False(t, (&Game{Status: StatusInProgress}).IsFinished())
	})

	t.Run("IsComputerTurn requires O to move in an ongoing game", func(t *testing.T) {
		assert.True(t, (&Game{Status: StatusInProgress, Turn: MarkO}).IsComputerTurn())
		assert.False(t, (&Game{Status: StatusInProgress, Turn: MarkX}).IsComputerTurn())
		assert.False(t, (&Game{Status: StatusOWins, Turn: MarkO}).IsComputerTurn())
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is in progress", func(t *testing.T) {
		// Given: a game in progress
		game := &Game{Status: StatusInProgress}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return nil error
		assert.NoError(t, err)
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		// Given: a game won by X
		game := &Game{Status: StatusXWins}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return ErrGameFinished
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		// Given: a game with unknown status
		game := &Game{Status: "unknown"}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return an error
		require.ErrorIs(t, err, ErrUnknownGameStatus)
		assert.Contains(t, err.Error(), "unknown")
	})
}

func TestBoard_With(t *testing.T) {
	// Given: an empty board
	board := Board{}

	// When: a mark is placed on a copy
	next := board.With(4, MarkO)

	// Then: the copy changes and the original does not
	assert.Equal(t, MarkO, next[4])
	assert.Equal(t, EmptyCell, board[4])
	assert.Equal(t, 1, next.Occupied())
	assert.Equal(t, 0, board.Occupied())
}

func TestBoard_StringAndParse(t *testing.T) {
	// Given: a board with both marks
	board := Board{MarkX, MarkX, EmptyCell, MarkO, MarkO, EmptyCell, EmptyCell, EmptyCell, EmptyCell}

	// When: it is rendered and parsed back
	text := board.String()
	parsed, ok := ParseBoard(text)

	// Then: the compact form is stable
	assert.Equal(t, "XX./OO./...", text)
	require.True(t, ok)
	assert.Equal(t, board, parsed)

	_, ok = ParseBoard("XX")
	assert.False(t, ok)

	_, ok = ParseBoard("XX?/OO./...")
	assert.False(t, ok)
}

func TestMove_Valid(t *testing.T) {
	assert.True(t, Move(0).Valid())
	assert.True(t, Move(8).Valid())
	assert.False(t, Move(9).Valid())
	assert.False(t, NoMove.Valid())
}

func TestMoveRecord_Scores(t *testing.T) {
	// Given: a record with two candidates
	record := &MoveRecord{
		Candidates: []EvaluationNode{
			{Move: 2, Score: -8},
			{Move: 5, Score: 10},
		},
	}

	// Then: the flat view keeps the candidate order
	assert.Equal(t, []ScoredMove{{Move: 2, Score: -8}, {Move: 5, Score: 10}}, record.Scores())
}
