package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/connect"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// ConnectOptions defines the Redis client and its connection retry behavior.
type ConnectOptions struct {
	Addr         string        // Redis address (ex: "localhost:6379")
	User         string        // Optional username
	Password     string        // Optional password
	RedisDB      int           // Redis DB number
	DialTimeout  time.Duration // Redis dial timeout
	ReadTimeout  time.Duration // Redis read timeout
	WriteTimeout time.Duration // Redis write timeout
	PoolSize     int           // Redis connection pool size

	Retry connect.Policy
}

// New creates a Redis client and blocks until it answers PING or the retry
// policy gives up. The client is closed when no connection could be made.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.RedisDB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := connect.Retry(ctx, "redis", opts.Addr, opts.Retry, ping, log); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	return client, nil
}
