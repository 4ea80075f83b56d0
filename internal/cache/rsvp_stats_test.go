package cache_test

import (
	"context"
	"testing"
	"time"

	"wedding-site-api/internal/cache"
	"wedding-site-api/internal/model"
	"wedding-site-api/internal/testutil"
	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRsvpStatsCache(t *testing.T) {
	ctx := context.Background()

	t.Run("MissReturnsNotCached", func(t *testing.T) {
		rdb, _ := testutil.NewRedis(t)
		c := cache.NewRedisRsvpStatsCache(rdb, time.Minute)

		_, err := c.Get(ctx)

		assert.ErrorIs(t, err, apperrors.ErrStatsNotCached)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		rdb, mr := testutil.NewRedis(t)
		c := cache.NewRedisRsvpStatsCache(rdb, time.Minute)
		want := &model.RsvpStats{TotalResponses: 3, TotalGuests: 7, PlusOnes: 2}

		require.NoError(t, c.Set(ctx, want))
		got, err := c.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, time.Minute, mr.TTL("rsvp:stats"))
	})

	t.Run("ExpiresAfterTTL", func(t *testing.T) {
		rdb, mr := testutil.NewRedis(t)
		c := cache.NewRedisRsvpStatsCache(rdb, time.Minute)
		require.NoError(t, c.Set(ctx, &model.RsvpStats{TotalResponses: 1}))

		mr.FastForward(2 * time.Minute)
		_, err := c.Get(ctx)

		assert.ErrorIs(t, err, apperrors.ErrStatsNotCached)
	})

	t.Run("Invalidate", func(t *testing.T) {
		rdb, mr := testutil.NewRedis(t)
		c := cache.NewRedisRsvpStatsCache(rdb, time.Minute)
		require.NoError(t, c.Set(ctx, &model.RsvpStats{TotalResponses: 1}))

		require.NoError(t, c.Invalidate(ctx))

		assert.False(t, mr.Exists("rsvp:stats"))
		_, err := c.Get(ctx)
		assert.ErrorIs(t, err, apperrors.ErrStatsNotCached)
	})

	t.Run("CorruptValue", func(t *testing.T) {
		rdb, mr := testutil.NewRedis(t)
		c := cache.NewRedisRsvpStatsCache(rdb, time.Minute)
		require.NoError(t, mr.Set("rsvp:stats", "not-json"))

		_, err := c.Get(ctx)

		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrStatsNotCached)
	})

	t.Run("RedisDown", func(t *testing.T) {
		rdb, mr := testutil.NewRedis(t)
		c := cache.NewRedisRsvpStatsCache(rdb, time.Minute)
		mr.Close()

		_, err := c.Get(ctx)

		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrStatsNotCached)
	})
}

func TestNopRsvpStatsCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewNopRsvpStatsCache()

	require.NoError(t, c.Set(ctx, &model.RsvpStats{TotalResponses: 1}))
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, apperrors.ErrStatsNotCached)
	assert.NoError(t, c.Invalidate(ctx))
}
