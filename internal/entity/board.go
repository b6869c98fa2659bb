package entity

import "strings"

const (
	MarkX     Mark = "X"
	MarkO     Mark = "O"
	EmptyCell Mark = ""
)

const (
	BoardSize = 9

	// NoMove is returned by the search when the board has no empty cell.
	NoMove Move = -1
)

// Mark - the symbol a cell holds. X is the human, O is the computer.
type Mark string

// Board - 3x3 cells in row-major order (index = row*3 + col).
// It is an array, so assignment and value receivers always work on a copy.
type Board [BoardSize]Mark

// Move - index of the cell to fill.
type Move int

func (that Move) Valid() bool {
	return that >= 0 && that < BoardSize
}

// With returns a copy of the board with mark placed at move.
func (that Board) With(move Move, mark Mark) Board {
	that[move] = mark
	return that
}

func (that Board) Occupied() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}

	return count
}

func (that Board) String() string {
	var sb strings.Builder

	for i, cell := range that {
		if cell == EmptyCell {
			sb.WriteByte('.')
		} else {
			sb.WriteString(string(cell))
		}

		if i%3 == 2 && i != BoardSize-1 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}

// ParseBoard - reads the compact form produced by Board.String.
func ParseBoard(s string) (Board, bool) {
	var board Board

	cells := strings.ReplaceAll(s, "/", "")
	if len(cells) != BoardSize {
		return board, false
	}

	for i, ch := range cells {
		switch ch {
		case 'X', 'x':
			board[i] = MarkX
		case 'O', 'o':
			board[i] = MarkO
		case '.', '_', '-':
			board[i] = EmptyCell
		default:
			return Board{}, false
		}
	}

	return board, true
}
