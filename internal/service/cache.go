package service

import (
	"context"
	"time"

	"github.com/gunnishmehta/youtube-backend/internal/dto"
	ctxutil "github.com/gunnishmehta/youtube-backend/pkg/context"
	"github.com/gunnishmehta/youtube-backend/pkg/logger"
	"github.com/gunnishmehta/youtube-backend/pkg/redis"
)

// RedisProfileCache backs ProfileCache with Redis. Cache failures are logged
// and swallowed so a Redis outage degrades to uncached reads.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func (c *RedisProfileCache) GetChannelProfile(ctx context.Context, key string) (*dto.ChannelProfileResponse, bool) {
	var profile dto.ChannelProfileResponse
	found, err := c.client.GetJSON(ctx, key, &profile)
	if err != nil {
		logger.WarnWithContext(ctxutil.WithModuleFunction(ctx, "cache", "GetChannelProfile"), "Channel profile cache read failed").
			String("key", key).
			Err(err).
			Log()
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &profile, true
}

func (c *RedisProfileCache) SetChannelProfile(ctx context.Context, key string, profile *dto.ChannelProfileResponse) {
	if err := c.client.SetJSON(ctx, key, profile, c.ttl); err != nil {
		logger.WarnWithContext(ctxutil.WithModuleFunction(ctx, "cache", "SetChannelProfile"), "Channel profile cache write failed").
			String("key", key).
			Err(err).
			Log()
	}
}

func (c *RedisProfileCache) InvalidateChannelProfile(ctx context.Context, key string) {
	if err := c.client.Delete(ctx, key); err != nil {
		logger.WarnWithContext(ctxutil.WithModuleFunction(ctx, "cache", "InvalidateChannelProfile"), "Channel profile cache invalidation failed").
			String("key", key).
			Err(err).
			Log()
	}
}

// NoopProfileCache is used when Redis is disabled; every read is a miss
type NoopProfileCache struct{}

func (NoopProfileCache) GetChannelProfile(context.Context, string) (*dto.ChannelProfileResponse, bool) {
	return nil, false
}

func (NoopProfileCache) SetChannelProfile(context.Context, string, *dto.ChannelProfileResponse) {}

func (NoopProfileCache) InvalidateChannelProfile(context.Context, string) {}
