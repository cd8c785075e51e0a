package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// DefaultTitle is used when a post is created without a title.
const DefaultTitle = "Untitled"

// PostContent is the dual representation of a post body: the editor's
// structured rich-text tree (opaque here) and its denormalized flat rendering.
// The two are kept in sync by the editor, not by this service.
type PostContent struct {
	Structured map[string]any `json:"structured"`
	Flat       string         `json:"flat"`
}

// Value serializes the content as a single JSON column.
func (c PostContent) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal post content: %w", err)
	}
	return string(b), nil
}

// Scan restores the content from its JSON column.
func (c *PostContent) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = PostContent{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("post content: unsupported column type")
	}
}

// Post is a blog document owned by a single user. AuthorID is immutable after
// creation and every single-post operation is authorized against it.
type Post struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)"`
	Title     string      `gorm:"type:varchar(255);not null"`
	Content   PostContent `gorm:"type:json"`
	Status    string      `gorm:"type:varchar(16);index:idx_posts_status;not null"`
	AuthorID  string      `gorm:"type:varchar(36);index:idx_posts_author;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index:idx_posts_updated"`
}

func (Post) TableName() string { return "posts" }
