package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/config"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
)

const keyPrefix = "authlog:stats:"

// StatsCache keeps per-app status aggregates in Redis as JSON.
type StatsCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewClient builds a Redis client from config.
func NewClient(cfg *config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:            cfg.RedisAddr,
		Password:        cfg.RedisPassword,
		DB:              cfg.RedisDB,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: time.Second,
	})
}

func NewStatsCache(rdb *goredis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

func (c *StatsCache) Get(ctx context.Context, appID string) (authlog.StatsSnapshot, bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+appID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return authlog.StatsSnapshot{}, false, nil
		}
		return authlog.StatsSnapshot{}, false, fmt.Errorf("redis get: %w", err)
	}

	var snap authlog.StatsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return authlog.StatsSnapshot{}, false, fmt.Errorf("decode cached stats: %w", err)
	}
	return snap, true, nil
}

func (c *StatsCache) Set(ctx context.Context, appID string, snap authlog.StatsSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+appID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *StatsCache) Close() error {
	return c.rdb.Close()
}
