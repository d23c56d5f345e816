// Package cache provides the redis-backed access-check cache used on the
// ledger's hot read path.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"beatrush/internal/shared/config"
	"beatrush/internal/shared/logger"
)

const accessTTL = 5 * time.Minute

// AccessCache memoizes HasAccess answers per (user, song) pair. A nil client
// disables caching; every method degrades to a miss/no-op so the ledger does
// not need to care whether redis is configured.
type AccessCache struct {
	client *redis.Client
	logger logger.Interface
}

// NewAccessCache connects to redis when enabled and returns a disabled cache
// otherwise. Connection failures disable the cache rather than failing boot.
func NewAccessCache(cfg *config.RedisConfig, log logger.Interface) *AccessCache {
	if cfg == nil || !cfg.Enabled {
		return &AccessCache{logger: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("redis unavailable, access cache disabled", "addr", cfg.GetAddr(), "error", err)
		return &AccessCache{logger: log}
	}

	log.Infow("access cache connected", "addr", cfg.GetAddr())
	return &AccessCache{client: client, logger: log}
}

// Enabled reports whether a redis backend is attached.
func (c *AccessCache) Enabled() bool {
	return c != nil && c.client != nil
}

func accessKey(userID, songID uint) string {
	return fmt.Sprintf("access:%d:%d", userID, songID)
}

// Get returns the cached access decision and whether the cache held one.
func (c *AccessCache) Get(ctx context.Context, userID, songID uint) (bool, bool) {
	if !c.Enabled() {
		return false, false
	}

	val, err := c.client.Get(ctx, accessKey(userID, songID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnw("access cache read failed", "error", err)
		}
		return false, false
	}
	return val == "1", true
}

// Set stores an access decision.
func (c *AccessCache) Set(ctx context.Context, userID, songID uint, hasAccess bool) {
	if !c.Enabled() {
		return
	}

	val := "0"
	if hasAccess {
		val = "1"
	}
	if err := c.client.Set(ctx, accessKey(userID, songID), val, accessTTL).Err(); err != nil {
		c.logger.Warnw("access cache write failed", "error", err)
	}
}

// Invalidate drops the cached decision for a pair. Called after every grant
// or revoke commit so readers never see stale access for longer than one
// round trip.
func (c *AccessCache) Invalidate(ctx context.Context, userID, songID uint) {
	if !c.Enabled() {
		return
	}

	if err := c.client.Del(ctx, accessKey(userID, songID)).Err(); err != nil {
		c.logger.Warnw("access cache invalidation failed", "error", err)
	}
}

// Close releases the redis connection.
func (c *AccessCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
