package handler

import (
	"go.uber.org/zap"

	"github.com/d60-Lab/smartblog/internal/service"
)

// Handler bundles the request handlers for the whole API surface.
type Handler struct {
	log   *zap.Logger
	auth  *service.AuthService
	posts *service.PostService
	ai    *service.AIService
}

func New(log *zap.Logger, auth *service.AuthService, posts *service.PostService, ai *service.AIService) *Handler {
	return &Handler{log: log, auth: auth, posts: posts, ai: ai}
}
