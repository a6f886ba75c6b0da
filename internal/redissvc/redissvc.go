package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
)

const opTimeout = 500 * time.Millisecond

// RedisService drops cached views when the catalog changes.
type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{
		rdb: rdb,
	}
}

// Connect builds a client for addr and verifies it answers PING.
func Connect(ctx context.Context, addr string) (*RedisService, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return NewRedisService(rdb), nil
}

func (a *RedisService) Rdb() *redis.Client {
	return a.rdb
}

// Invalidate deletes key. It is bounded by a short timeout so a slow cache
// never stalls a write.
func (a *RedisService) Invalidate(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	removed, err := a.rdb.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	logging.FromContext(ctx).Debug("cache key deleted",
		logging.Event(logging.EventCacheOperationPerformed),
		zap.String("cache_key", key),
		zap.Int64("removed", removed))
	return nil
}

func (a *RedisService) Close() error {
	return a.rdb.Close()
}
