package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type mockPlayerRepo struct {
	mock.Mock
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	args := that.Called(ctx, player)
	return args.Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockHistoryRepo struct {
	mock.Mock
}

func (that *mockHistoryRepo) Append(ctx context.Context, gameID string, record *entity.MoveRecord) error {
	args := that.Called(ctx, gameID, record)
	return args.Error(0)
}

func (that *mockHistoryRepo) List(ctx context.Context, gameID string) ([]entity.MoveRecord, error) {
	args := that.Called(ctx, gameID)
	records, _ := args.Get(0).([]entity.MoveRecord)
	return records, args.Error(1)
}

func (that *mockHistoryRepo) Count(ctx context.Context, gameID string) (int, error) {
	args := that.Called(ctx, gameID)
	return args.Int(0), args.Error(1)
}

func (that *mockHistoryRepo) DropLast(ctx context.Context, gameID string) error {
	args := that.Called(ctx, gameID)
	return args.Error(0)
}

func (that *mockHistoryRepo) Clear(ctx context.Context, gameID string) error {
	args := that.Called(ctx, gameID)
	return args.Error(0)
}

type mockListener struct {
	mock.Mock
}

func (that *mockListener) ComputerMoved(game *entity.Game, record *entity.MoveRecord) {
	that.Called(game, record)
}
