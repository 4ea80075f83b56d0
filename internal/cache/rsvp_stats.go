package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wedding-site-api/internal/model"
	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

const rsvpStatsKey = "rsvp:stats"

type RsvpStatsCache interface {
	// 取得快取的統計；不存在時回傳 apperrors.ErrStatsNotCached
	Get(ctx context.Context) (*model.RsvpStats, error)
	// 寫入統計並設定 TTL
	Set(ctx context.Context, stats *model.RsvpStats) error
	// 任何寫入後清除快取
	Invalidate(ctx context.Context) error
}

type RedisRsvpStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRsvpStatsCache(client *redis.Client, ttl time.Duration) RsvpStatsCache {
	return &RedisRsvpStatsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisRsvpStatsCache) Get(ctx context.Context) (*model.RsvpStats, error) {
	raw, err := c.client.Get(ctx, rsvpStatsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrStatsNotCached
	}
	if err != nil {
		return nil, err
	}

	var stats model.RsvpStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("invalid cached stats: %w", err)
	}
	return &stats, nil
}

func (c *RedisRsvpStatsCache) Set(ctx context.Context, stats *model.RsvpStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rsvpStatsKey, raw, c.ttl).Err()
}

func (c *RedisRsvpStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, rsvpStatsKey).Err()
}

// NopRsvpStatsCache 未啟用 Redis 時使用，每次都從資料庫計算
type NopRsvpStatsCache struct{}

func NewNopRsvpStatsCache() RsvpStatsCache {
	return NopRsvpStatsCache{}
}

func (NopRsvpStatsCache) Get(context.Context) (*model.RsvpStats, error) {
	return nil, apperrors.ErrStatsNotCached
}

func (NopRsvpStatsCache) Set(context.Context, *model.RsvpStats) error { return nil }

func (NopRsvpStatsCache) Invalidate(context.Context) error { return nil }
