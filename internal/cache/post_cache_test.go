package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/smartblog/internal/model"
)

func newTestCache(t *testing.T) (*PostCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewPostCache(rdb, time.Minute), mr
}

func samplePosts() []*model.Post {
	now := time.Now().UTC()
	return []*model.Post{
		{ID: "p1", Title: "One", Status: model.StatusDraft, AuthorID: "u1", CreatedAt: now, UpdatedAt: now},
		{ID: "p2", Title: "Two", Status: model.StatusPublished, AuthorID: "u1", CreatedAt: now, UpdatedAt: now},
	}
}

func TestPostCacheMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	got, err := c.GetList(ctx, "u1", "", 0, 50)
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, c.SetList(ctx, "u1", "", 0, 50, samplePosts()))

	got, err = c.GetList(ctx, "u1", "", 0, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "p1", got[0].ID)
}

func TestPostCacheEmptyListIsCached(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, "u1", "draft", 0, 50, nil))
	got, err := c.GetList(ctx, "u1", "draft", 0, 50)
	require.NoError(t, err)
	require.NotNil(t, got, "a cached empty list must be a hit, not a miss")
	require.Empty(t, got)
}

func TestPostCacheKeysAreQueryScoped(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, "u1", "draft", 0, 50, samplePosts()))

	got, err := c.GetList(ctx, "u1", "published", 0, 50)
	require.NoError(t, err)
	require.Nil(t, got)
	got, err = c.GetList(ctx, "u1", "draft", 10, 50)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPostCacheInvalidateIsPerUser(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, "u1", "", 0, 50, samplePosts()))
	require.NoError(t, c.SetList(ctx, "u1", "draft", 0, 50, samplePosts()))
	require.NoError(t, c.SetList(ctx, "u2", "", 0, 50, samplePosts()))

	require.NoError(t, c.Invalidate(ctx, "u1"))

	got, err := c.GetList(ctx, "u1", "", 0, 50)
	require.NoError(t, err)
	require.Nil(t, got)
	got, err = c.GetList(ctx, "u1", "draft", 0, 50)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = c.GetList(ctx, "u2", "", 0, 50)
	require.NoError(t, err)
	require.Len(t, got, 2, "other users' entries must survive")
}

func TestPostCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, "u1", "", 0, 50, samplePosts()))
	mr.FastForward(2 * time.Minute)

	got, err := c.GetList(ctx, "u1", "", 0, 50)
	require.NoError(t, err)
	require.Nil(t, got)
}
