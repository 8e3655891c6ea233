package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisReportCache implements ReportCache on Redis.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl, logger: logger.Named("report_cache")}
}

func (c *RedisReportCache) epochKey() string {
	return keyPrefix + ":epoch"
}

func (c *RedisReportCache) entryKey(ctx context.Context, key string) (string, error) {
	epoch, err := c.client.Get(ctx, c.epochKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("read cache epoch: %w", err)
	}
	return fmt.Sprintf("%s:%d:%s", keyPrefix, epoch, key), nil
}

func (c *RedisReportCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	k, err := c.entryKey(ctx, key)
	if err != nil {
		return false, err
	}
	data, err := c.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get cached report: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// A stale encoding is treated as a miss and overwritten on the next Set.
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	k, err := c.entryKey(ctx, key)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, k, data, c.ttl).Err()
}

func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.epochKey()).Err()
}
