package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const computerTurnTimeout = 10 * time.Second

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type historyRepo interface {
	Append(ctx context.Context, gameID string, record *entity.MoveRecord) error
	List(ctx context.Context, gameID string) ([]entity.MoveRecord, error)
	Count(ctx context.Context, gameID string) (int, error)
	DropLast(ctx context.Context, gameID string) error
	Clear(ctx context.Context, gameID string) error
}

type turnScheduler interface {
	Schedule(key string, fn func()) *scheduler.Task
	Cancel(key string) bool
	Stop()
}

// TurnListener - is told about every computer move once it is stored.
type TurnListener interface {
	ComputerMoved(game *entity.Game, record *entity.MoveRecord)
}

// GameManager - owns the game sessions. Turns of all games are serialized,
// the engines only ever see board snapshots.
type GameManager struct {
	logger *slog.Logger

	playerRepo  playerRepo
	gameRepo    gameRepo
	historyRepo historyRepo

	controller *tictactoe.GameController
	scheduler  turnScheduler

	turnMu sync.Mutex

	listenerMu sync.RWMutex
	listener   TurnListener
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	gameRepo gameRepo,
	historyRepo historyRepo,
	controller *tictactoe.GameController,
	scheduler turnScheduler,
) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo:  playerRepo,
		gameRepo:    gameRepo,
		historyRepo: historyRepo,

		controller: controller,
		scheduler:  scheduler,
	}
}

func (that *GameManager) SetListener(listener TurnListener) {
	that.listenerMu.Lock()
	defer that.listenerMu.Unlock()

	that.listener = listener
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		id = pkg.GenerateNewSessionID()
		return that.createPlayer(ctx, id)
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return that.createPlayer(ctx, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// NewGame - starts a fresh session for the player. The previous game, its
// history and any pending computer move are discarded.
func (that *GameManager) NewGame(ctx context.Context, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "NewGame", "playerID", playerID)

	that.turnMu.Lock()
	defer that.turnMu.Unlock()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.InGame() {
		that.scheduler.Cancel(player.GameID)

		if err = that.deleteGame(ctx, player.GameID); err != nil {
			return nil, err
		}
	}

	game := entity.NewGame(pkg.GenerateGameID(), player.ID)
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	player.GameID = game.ID
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	log.Info("game started", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InGame() {
		return nil, apperror.ErrNoActiveGames
	}

	return that.getGameByID(ctx, player.GameID)
}

// MakeTurn - applies the human move and, if the game goes on, schedules the reply.
// With a zero delay the reply is played before MakeTurn returns; transports that
// answer the human move use HumanTurn and ScheduleComputerTurn instead.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	game, err := that.HumanTurn(ctx, playerID, cell)
	if err != nil {
		return game, err
	}

	that.ScheduleComputerTurn(game)

	return game, nil
}

// HumanTurn - applies and stores the human move only. The returned game is a snapshot.
func (that *GameManager) HumanTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	that.turnMu.Lock()
	defer that.turnMu.Unlock()

	game, err := that.GetGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = that.controller.HumanTurn(game, cell); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	// snapshot, the stored game may change under the computer's move
	snapshot := *game

	return &snapshot, nil
}

// ScheduleComputerTurn - queues the computer reply when the game waits for it.
func (that *GameManager) ScheduleComputerTurn(game *entity.Game) {
	if !game.IsComputerTurn() {
		return
	}

	gameID := game.ID

	that.scheduler.Schedule(gameID, func() {
		log := that.logger.With("method", "computerTurn", "gameID", gameID)

		ctx, cancel := context.WithTimeout(context.Background(), computerTurnTimeout)
		defer cancel()

		_, _, err := that.PlayComputerTurn(ctx, gameID)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrGameNotFound),
			errors.Is(err, apperror.ErrGameFinished),
			errors.Is(err, apperror.ErrNotYourTurn):
			// the session was restarted while the timer was firing
			log.Debug("computer turn dropped", "reason", err)
		default:
			log.Error("computer failed to make turn", "error", err)
		}
	})
}

// PlayComputerTurn - runs the computer's move for the game right away.
func (that *GameManager) PlayComputerTurn(ctx context.Context, gameID string) (*entity.Game, *entity.MoveRecord, error) {
	game, record, err := that.computerTurn(ctx, gameID)
	if err != nil {
		return game, nil, err
	}

	that.listenerMu.RLock()
	listener := that.listener
	that.listenerMu.RUnlock()

	if listener != nil {
		listener.ComputerMoved(game, record)
	}

	return game, record, nil
}

func (that *GameManager) computerTurn(ctx context.Context, gameID string) (*entity.Game, *entity.MoveRecord, error) {
	log := that.logger.With("method", "computerTurn", "gameID", gameID)

	that.turnMu.Lock()
	defer that.turnMu.Unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	played, err := that.historyRepo.Count(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count computer moves: %w", err)
	}

	record, err := that.controller.ComputerTurn(game, played+1)
	if err != nil {
		return game, nil, fmt.Errorf("failed to make computer turn: %w", err)
	}

	// the record goes first, so a stored move always has its record
	if err = that.historyRepo.Append(ctx, gameID, record); err != nil {
		return nil, nil, fmt.Errorf("failed to append move record: %w", err)
	}

	if err = that.updateGame(ctx, game); err != nil {
		if dropErr := that.historyRepo.DropLast(ctx, gameID); dropErr != nil {
			log.Error("failed to drop record of unsaved move", "error", dropErr)
		}

		return nil, nil, err
	}

	log.Debug("computer moved", "move", record.Move, "score", record.Score, "board", game.Board.String())

	return game, record, nil
}

// History - the computer's decisions in the player's current game, oldest first.
func (that *GameManager) History(ctx context.Context, playerID string) ([]entity.MoveRecord, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InGame() {
		return nil, apperror.ErrNoActiveGames
	}

	records, err := that.historyRepo.List(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return records, nil
}

// Analyze - evaluation digest of the player's current board. Read only.
func (that *GameManager) Analyze(ctx context.Context, playerID string) (*tictactoe.Decision, error) {
	game, err := that.GetGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	decision := that.controller.Analyze(game.Board)

	return &decision, nil
}

// Stop - drops every pending computer move.
func (that *GameManager) Stop() {
	that.scheduler.Stop()
}

func (that *GameManager) createPlayer(ctx context.Context, id string) (*entity.Player, error) {
	player := &entity.Player{
		ID: id,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) deleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	if err := that.historyRepo.Clear(ctx, gameID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}
