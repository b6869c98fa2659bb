package terminal

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	title     = "Tic Tac Toe AI"
	help      = "arrows/1-9 move, enter places, r restarts, q quits"
	panelX    = 34
	boardTop  = 2
	boardLeft = 2
)

// boardLines renders the grid; the cursor cell is bracketed.
func boardLines(board entity.Board, cursor int) []string {
	lines := make([]string, 0, 2*side-1)

	for row := 0; row < side; row++ {
		var sb strings.Builder

		for col := 0; col < side; col++ {
			cell := row*side + col

			mark := string(board[cell])
			if mark == "" {
				mark = " "
			}

			if cell == cursor {
				sb.WriteString("[" + mark + "]")
			} else {
				sb.WriteString(" " + mark + " ")
			}

			if col < side-1 {
				sb.WriteString("|")
			}
		}

		lines = append(lines, sb.String())

		if row < side-1 {
			lines = append(lines, "---+---+---")
		}
	}

	return lines
}

// historyLines - the "AI Move History" panel. Positions are 1-based.
func historyLines(records []entity.MoveRecord) []string {
	lines := []string{"AI Move History", ""}

	for i := range records {
		record := &records[i]

		lines = append(lines,
			fmt.Sprintf("AI Move #%d", record.MoveNumber),
			fmt.Sprintf("Selected Move: Position %d", record.Move+1),
			fmt.Sprintf("Score: %d", record.Score),
			"Evaluated Positions:",
		)

		for _, scored := range record.Scores() {
			line := fmt.Sprintf("  Position %d  Score: %d", scored.Move+1, scored.Score)
			if scored.Move == record.Move {
				line += "  <- best"
			}
			lines = append(lines, line)
		}

		lines = append(lines, "")
	}

	return lines
}

// tail keeps the last n lines.
func tail(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}

	if len(lines) <= n {
		return lines
	}

	return lines[len(lines)-n:]
}

func draw(session *Session) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return fmt.Errorf("failed to clear screen: %w", err)
	}

	_, height := termbox.Size()
	game := session.Game()

	printText(boardLeft, 0, termbox.ColorDefault|termbox.AttrBold, title)

	for i, line := range boardLines(game.Board, session.Cursor()) {
		printBoardLine(boardLeft, boardTop+i, line)
	}

	statusY := boardTop + 2*side
	printText(boardLeft, statusY, termbox.ColorYellow, session.Status())
	printText(boardLeft, statusY+2, termbox.ColorDefault, help)

	for i, line := range tail(historyLines(session.History()), height) {
		fg := termbox.ColorDefault
		if strings.HasSuffix(line, "<- best") {
			fg = termbox.ColorGreen
		}
		printText(panelX, i, fg, line)
	}

	if err := termbox.Flush(); err != nil {
		return fmt.Errorf("failed to flush screen: %w", err)
	}

	return nil
}

func printBoardLine(x, y int, line string) {
	for _, r := range line {
		fg := termbox.ColorDefault
		switch r {
		case 'X':
			fg = termbox.ColorBlue | termbox.AttrBold
		case 'O':
			fg = termbox.ColorRed | termbox.AttrBold
		}

		termbox.SetCell(x, y, r, fg, termbox.ColorDefault)
		x += runewidth.RuneWidth(r)
	}
}

func printText(x, y int, fg termbox.Attribute, text string) {
	for _, r := range text {
		termbox.SetCell(x, y, r, fg, termbox.ColorDefault)
		x += runewidth.RuneWidth(r)
	}
}
