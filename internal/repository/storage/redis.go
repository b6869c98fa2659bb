package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
)

const defaultTimeout = 3 * time.Second

// New - connects to redis and waits at most conf.Timeout for it to answer.
func New(ctx context.Context, conf config.Redis) (*redis.Client, error) {
	if conf.Timeout <= 0 {
		conf.Timeout = defaultTimeout
	}

	client := redis.NewClient(options(conf))

	pingCtx, cancel := context.WithTimeout(ctx, conf.Timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", conf.GetRedisAddr(), err)
	}

	return client, nil
}

func options(conf config.Redis) *redis.Options {
	return &redis.Options{
		Addr:         conf.GetRedisAddr(),
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  conf.Timeout,
		ReadTimeout:  conf.Timeout,
		WriteTimeout: conf.Timeout,
	}
}
