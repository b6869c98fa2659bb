package tictactoe

import "github.com/rocketscienceinc/tictactoe-minimax/internal/entity"

// Lines - rows, columns and diagonals, in the order winners are reported.
var Lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Winner - mark of the first fully occupied line, or EmptyCell.
func Winner(board entity.Board) entity.Mark {
	for _, line := range Lines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

func IsDraw(board entity.Board) bool {
	return IsFull(board) && Winner(board) == entity.EmptyCell
}

// AvailableMoves - empty cells in ascending order.
func AvailableMoves(board entity.Board) []entity.Move {
	moves := make([]entity.Move, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			moves = append(moves, entity.Move(i))
		}
	}

	return moves
}

func Opponent(mark entity.Mark) entity.Mark {
	if mark == entity.MarkX {
		return entity.MarkO
	}

	return entity.MarkX
}

// Status - session status implied by the board alone.
func Status(board entity.Board) string {
	switch Winner(board) {
	case entity.MarkX:
		return entity.StatusXWins
	case entity.MarkO:
		return entity.StatusOWins
	}

	if IsFull(board) {
		return entity.StatusDraw
	}

	return entity.StatusInProgress
}
