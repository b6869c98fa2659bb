package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrEmptyPlayerID  = errors.New("player id is empty")
)

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func playerKey(id string) string {
	return "player:" + id
}

// CreateOrUpdate - stores the player together with the id of its current game.
func (that *dbPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	if player.ID == "" {
		return ErrEmptyPlayerID
	}

	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	if err = that.client.Set(ctx, playerKey(player.ID), playerJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set player %s: %w", player.ID, err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		return nil, ErrPlayerNotFound
	}

	data, err := that.client.Get(ctx, playerKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}

	var player entity.Player
	if err = json.Unmarshal(data, &player); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player %s: %w", id, err)
	}

	return &player, nil
}
