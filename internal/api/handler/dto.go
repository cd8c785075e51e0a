package handler

import (
	"time"

	"github.com/d60-Lab/smartblog/internal/model"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	CreatedAt string `json:"created_at"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: isoUTC(u.CreatedAt),
	}
}

type createPostRequest struct {
	Title   string             `json:"title"`
	Content *model.PostContent `json:"content"`
}

// updatePostRequest is a merge-patch: nil fields leave the stored value alone.
type updatePostRequest struct {
	Title   *string            `json:"title"`
	Content *model.PostContent `json:"content"`
}

type listPostsQuery struct {
	Status string `form:"status" binding:"omitempty,poststatus"`
	Skip   int    `form:"skip" binding:"omitempty,min=0"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
}

type postResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   model.PostContent `json:"content"`
	Status    string            `json:"status"`
	AuthorID  string            `json:"author_id"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

func newPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Status:    p.Status,
		AuthorID:  p.AuthorID,
		CreatedAt: isoUTC(p.CreatedAt),
		UpdatedAt: isoUTC(p.UpdatedAt),
	}
}

func newPostResponses(list []*model.Post) []postResponse {
	out := make([]postResponse, len(list))
	for i := range list {
		out[i] = newPostResponse(list[i])
	}
	return out
}

type generateRequest struct {
	Text      string `json:"text"`
	Action    string `json:"action"`
	MaxTokens int    `json:"max_tokens"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
	Action        string `json:"action"`
}

// isoUTC renders a timestamp as ISO-8601 with an explicit UTC marker, the
// format the editor frontend expects.
func isoUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
