package cache

import (
	"context"
	"encoding/json"
	"time"

	"AccountAPI/internal/dto"

	"github.com/redis/go-redis/v9"
)

const keyList = "user:list"

// UserCache caches the mapped user list in Redis. Only read representations
// are cached; password hashes never leave Postgres. Writes invalidate it.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache returns a new UserCache.
func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list or nil on miss.
func (c *UserCache) GetList(ctx context.Context) ([]dto.UserResponse, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dto.UserResponse
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list in cache.
func (c *UserCache) SetList(ctx context.Context, list []dto.UserResponse) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// Invalidate drops the cached list (called after every write).
func (c *UserCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList).Err()
}
