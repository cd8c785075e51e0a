package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/d60-Lab/smartblog/internal/cache"
	"github.com/d60-Lab/smartblog/internal/model"
	"github.com/d60-Lab/smartblog/internal/repository"
)

var (
	ErrInvalidPostID = errors.New("invalid post ID")
	ErrPostNotFound  = errors.New("post not found")
	ErrNotOwner      = errors.New("not authorized to access this post")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// PostService wraps the post store with per-resource authorization: every
// single-post operation resolves the identifier and proves the caller owns the
// post before touching it.
type PostService struct {
	posts repository.PostRepository
	cache *cache.PostCache
	sf    singleflight.Group
}

// NewPostService creates a PostService. A nil cache disables list caching.
func NewPostService(posts repository.PostRepository, c *cache.PostCache) *PostService {
	return &PostService{posts: posts, cache: c}
}

// getOwned is the shared authorization guard. It validates the identifier,
// fetches the post and compares its owner against the caller. Read, update,
// publish and delete all pass through here; nothing bypasses it.
func (s *PostService) getOwned(ctx context.Context, userID, postID string) (*model.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, ErrInvalidPostID
	}
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if p.AuthorID != userID {
		return nil, ErrNotOwner
	}
	return p, nil
}

// Create inserts a new draft owned by the caller. Both timestamps are set to
// the creation instant.
func (s *PostService) Create(ctx context.Context, userID, title string, content model.PostContent) (*model.Post, error) {
	if strings.TrimSpace(title) == "" {
		title = model.DefaultTitle
	}
	p, err := s.posts.Create(ctx, userID, title, content)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return p, nil
}

// Get returns a single post after the ownership check.
func (s *PostService) Get(ctx context.Context, userID, postID string) (*model.Post, error) {
	return s.getOwned(ctx, userID, postID)
}

// List returns the caller's posts, most recently touched first. The owner
// filter is applied at query time, so no post-hoc authorization is needed.
func (s *PostService) List(ctx context.Context, userID, status string, skip, limit int) ([]*model.Post, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	f := repository.PostFilter{AuthorID: userID, Status: status, Skip: skip, Limit: limit}
	if s.cache == nil {
		return s.posts.List(ctx, f)
	}

	key := fmt.Sprintf("%s:%s:%d:%d", userID, status, skip, limit)
	v, err, _ := s.sf.Do(key, func() (any, error) {
		if list, err := s.cache.GetList(ctx, userID, status, skip, limit); err == nil && list != nil {
			return list, nil
		}
		list, err := s.posts.List(ctx, f)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, userID, status, skip, limit, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*model.Post), nil
}

// Update applies a merge-patch: only fields present in the patch change, and
// updated_at is refreshed even for an empty patch (autosave heartbeat).
func (s *PostService) Update(ctx context.Context, userID, postID string, patch repository.PostPatch) (*model.Post, error) {
	if _, err := s.getOwned(ctx, userID, postID); err != nil {
		return nil, err
	}
	p, err := s.posts.Update(ctx, postID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, userID)
	return p, nil
}

// Publish sets the post to published regardless of its current status, so
// publishing twice is not an error.
func (s *PostService) Publish(ctx context.Context, userID, postID string) (*model.Post, error) {
	if _, err := s.getOwned(ctx, userID, postID); err != nil {
		return nil, err
	}
	p, err := s.posts.SetStatus(ctx, postID, model.StatusPublished)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, userID)
	return p, nil
}

// Delete removes the post permanently. A later read yields not-found.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	if _, err := s.getOwned(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *PostService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
