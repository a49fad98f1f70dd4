// Package positioncache is a Redis write-through cache in front of the
// position store. Proximity checks read the position on every call, so
// keeping the hot copy out of Postgres is worth the extra hop.
package positioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soa-tours/platform/internal/pkg/envutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/types"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New connects to Redis using REDIS_ADDR. It returns nil when the
// variable is unset so callers can run without a cache.
func New(log *logger.Logger) *Cache {
	addr := envutil.Get("REDIS_ADDR", "", log)
	if addr == "" {
		log.Info("REDIS_ADDR not set, position cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envutil.Get("REDIS_PASSWORD", "", log),
		DB:       envutil.GetInt("REDIS_DB", 0, log),
	})
	ttl := envutil.GetDuration("POSITION_CACHE_TTL", 5*time.Minute, log)
	return &Cache{client: client, ttl: ttl, log: log.With("client", "positioncache")}
}

func key(userID int64) string {
	return fmt.Sprintf("position:%d", userID)
}

// Get returns (nil, nil) on a cache miss.
func (c *Cache) Get(ctx context.Context, userID int64) (*types.Position, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var position types.Position
	if err := json.Unmarshal(raw, &position); err != nil {
		return nil, err
	}
	return &position, nil
}

func (c *Cache) Set(ctx context.Context, position *types.Position) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(position)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(position.UserID), raw, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, userID int64) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, key(userID)).Err()
}
