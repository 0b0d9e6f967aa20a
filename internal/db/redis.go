package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PingRedis connects with go-redis and issues PING.
func PingRedis(ctx context.Context, t *Target) (any, error) {
	opts, err := redis.ParseURL(t.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	// One attempt per call; retries belong to the executor
	opts.MaxRetries = -1

	rdb := redis.NewClient(opts)
	defer rdb.Close()

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"ping": pong,
		"db":   opts.DB,
	}, nil
}
