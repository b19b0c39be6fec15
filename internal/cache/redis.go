package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/skybooking/config"
	"github.com/Domenick1991/skybooking/internal/service/flights"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps generated search results warm so repeated searches for
// the same route and date see the same flights while the TTL lasts.
type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) GetSearch(ctx context.Context, key string) (*flights.SearchResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result flights.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, key string, result *flights.SearchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.searchTTL).Err()
}

var _ flights.Cache = (*RedisCache)(nil)
