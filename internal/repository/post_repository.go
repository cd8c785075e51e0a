package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/smartblog/internal/model"
)

// ErrPostNotFound is returned when no post matches the given ID.
var ErrPostNotFound = errors.New("post not found")

// PostFilter narrows List results. Status is an exact match when non-empty.
type PostFilter struct {
	AuthorID string
	Status   string
	Skip     int
	Limit    int
}

// PostPatch carries the fields of a merge-patch update. Nil means "leave the
// stored value untouched".
type PostPatch struct {
	Title   *string
	Content *model.PostContent
}

type PostRepository interface {
	Create(ctx context.Context, authorID, title string, content model.PostContent) (*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, f PostFilter) ([]*model.Post, error)
	Update(ctx context.Context, id string, patch PostPatch) (*model.Post, error)
	SetStatus(ctx context.Context, id, status string) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, authorID, title string, content model.PostContent) (*model.Post, error) {
	now := time.Now().UTC()
	p := &model.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Status:    model.StatusDraft,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context, f PostFilter) ([]*model.Post, error) {
	q := r.db.WithContext(ctx).Where("author_id = ?", f.AuthorID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var res []*model.Post
	err := q.Order("updated_at DESC").Offset(f.Skip).Limit(f.Limit).Find(&res).Error
	return res, err
}

// Update applies a merge-patch and always refreshes updated_at, so the update
// endpoint can double as an autosave heartbeat even for empty patches.
func (r *postRepository) Update(ctx context.Context, id string, patch PostPatch) (*model.Post, error) {
	values := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Content != nil {
		values["content"] = *patch.Content
	}
	tx := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(values)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) SetStatus(ctx context.Context, id, status string) (*model.Post, error) {
	values := map[string]any{"status": status, "updated_at": time.Now().UTC()}
	tx := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(values)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}
