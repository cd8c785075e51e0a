package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/smartblog/internal/model"
)

const listKeyPrefix = "posts:list:"

// PostCache keeps per-user post listings in Redis. Entries are short-lived and
// invalidated wholesale on any write by the same user, so readers never see a
// stale list longer than the TTL after a concurrent write slips past the
// invalidation.
type PostCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPostCache(rdb *redis.Client, ttl time.Duration) *PostCache {
	return &PostCache{rdb: rdb, ttl: ttl}
}

func listKey(userID, status string, skip, limit int) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", listKeyPrefix, userID, status, skip, limit)
}

// GetList returns the cached listing, or nil on miss.
func (c *PostCache) GetList(ctx context.Context, userID, status string, skip, limit int) ([]*model.Post, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, status, skip, limit)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []*model.Post
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.Post{}
	}
	return list, nil
}

// SetList stores a listing under its exact query key.
func (c *PostCache) SetList(ctx context.Context, userID, status string, skip, limit int, list []*model.Post) error {
	if list == nil {
		list = []*model.Post{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, status, skip, limit), b, c.ttl).Err()
}

// Invalidate drops every cached listing belonging to the user.
func (c *PostCache) Invalidate(ctx context.Context, userID string) error {
	iter := c.rdb.Scan(ctx, 0, listKeyPrefix+userID+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
