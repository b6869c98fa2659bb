package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// HistoryRepository - append-only list of the computer's decisions per game.
type HistoryRepository interface {
	Append(ctx context.Context, gameID string, record *entity.MoveRecord) error
	List(ctx context.Context, gameID string) ([]entity.MoveRecord, error)
	Count(ctx context.Context, gameID string) (int, error)
	DropLast(ctx context.Context, gameID string) error
	Clear(ctx context.Context, gameID string) error
}

type dbHistory struct {
	client *redis.Client
}

func NewHistoryRepository(client *redis.Client) HistoryRepository {
	return &dbHistory{
		client: client,
	}
}

func historyKey(gameID string) string {
	return "history:" + gameID
}

func (that *dbHistory) Append(ctx context.Context, gameID string, record *entity.MoveRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal move record: %w", err)
	}

	if err = that.client.RPush(ctx, historyKey(gameID), recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to append move record: %w", err)
	}

	return nil
}

func (that *dbHistory) List(ctx context.Context, gameID string) ([]entity.MoveRecord, error) {
	items, err := that.client.LRange(ctx, historyKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	records := make([]entity.MoveRecord, 0, len(items))
	for _, item := range items {
		var record entity.MoveRecord
		if err = json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal move record: %w", err)
		}

		records = append(records, record)
	}

	return records, nil
}

func (that *dbHistory) Count(ctx context.Context, gameID string) (int, error) {
	count, err := that.client.LLen(ctx, historyKey(gameID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}

	return int(count), nil
}

// DropLast - removes the newest record; undoes an Append whose move was not stored.
func (that *dbHistory) DropLast(ctx context.Context, gameID string) error {
	if err := that.client.RPop(ctx, historyKey(gameID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to drop move record: %w", err)
	}

	return nil
}

func (that *dbHistory) Clear(ctx context.Context, gameID string) error {
	if err := that.client.Del(ctx, historyKey(gameID)).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}
