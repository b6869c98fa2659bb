package terminal

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nsf/termbox-go"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/scheduler"
)

const computerTask = "computer"

// App - the interactive loop. Keys drive the session, the computer reply
// arrives on the scheduler and wakes the loop through termbox.Interrupt.
type App struct {
	logger    *slog.Logger
	session   *Session
	scheduler *scheduler.Scheduler
}

func NewApp(logger *slog.Logger, session *Session, scheduler *scheduler.Scheduler) *App {
	return &App{
		logger:    logger.With("component", "terminal"),
		session:   session,
		scheduler: scheduler,
	}
}

func (that *App) Run() error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer termbox.Close()
	defer that.scheduler.Stop()

	for {
		if err := draw(that.session); err != nil {
			return err
		}

		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventError:
			return fmt.Errorf("terminal event: %w", ev.Err)
		case termbox.EventKey:
			if !that.handleKey(ev) {
				return nil
			}
		case termbox.EventInterrupt, termbox.EventResize:
		}
	}
}

// handleKey returns false when the player quits.
func (that *App) handleKey(ev termbox.Event) bool {
	switch {
	case ev.Key == termbox.KeyEsc, ev.Key == termbox.KeyCtrlC, ev.Ch == 'q':
		return false
	case ev.Key == termbox.KeyArrowUp:
		that.session.Move(0, -1)
	case ev.Key == termbox.KeyArrowDown:
		that.session.Move(0, 1)
	case ev.Key == termbox.KeyArrowLeft:
		that.session.Move(-1, 0)
	case ev.Key == termbox.KeyArrowRight:
		that.session.Move(1, 0)
	case ev.Key == termbox.KeyEnter, ev.Key == termbox.KeySpace:
		that.place()
	case ev.Ch >= '1' && ev.Ch <= '9':
		that.session.Select(int(ev.Ch - '1'))
		that.place()
	case ev.Ch == 'r':
		that.scheduler.Cancel(computerTask)
		that.session.Restart()
		that.logger.Info("game restarted")
	}

	return true
}

func (that *App) place() {
	log := that.logger.With("method", "place", "cell", that.session.Cursor())

	if err := that.session.Place(); err != nil {
		log.Debug("move refused", "error", err)
		return
	}

	if !that.session.WaitingForComputer() {
		log.Info("game over", "status", that.session.Status())
		return
	}

	that.scheduler.Schedule(computerTask, that.computerTurn)
}

func (that *App) computerTurn() {
	// Interrupt blocks until PollEvent takes it, and a zero delay runs this on the UI goroutine
	defer func() { go termbox.Interrupt() }()

	record, err := that.session.ComputerTurn()
	switch {
	case err == nil:
		that.logger.Info("computer moved", "moveNumber", record.MoveNumber, "move", record.Move, "score", record.Score)
	case errors.Is(err, apperror.ErrNotYourTurn):
		// restarted while the move was firing
		that.logger.Debug("computer turn dropped", "error", err)
	default:
		that.logger.Error("computer failed to make turn", "error", err)
	}
}
