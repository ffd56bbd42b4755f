package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/devworkshop/usersvc/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection settings. Enabled=false yields a client
// whose callers fall back to in-process behavior.
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Client struct {
	rdb     *redis.Client
	enabled bool
}

func NewClient(cfg Config) *Client {
	if !cfg.Enabled {
		logger.GetLogger().Info("Redis disabled by configuration")
		return &Client{enabled: false}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	client := &Client{rdb: rdb, enabled: true}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		// Keep running without Redis; the rate limiter degrades to
		// its local window
		logger.GetLogger().Warn("Redis unreachable, continuing without it",
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		client.enabled = false
		return client
	}

	logger.GetLogger().Info("Connected to Redis",
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("database", cfg.DB),
	)

	return client
}

func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled && c.rdb != nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return fmt.Errorf("redis client not configured")
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// IncrementWindow bumps the fixed-window counter for key and returns the
// new count. The expiry is set when the window opens.
func (c *Client) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	if !c.IsEnabled() {
		return 0, fmt.Errorf("redis client not enabled")
	}

	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment window counter: %w", err)
	}

	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}

	return count, nil
}
