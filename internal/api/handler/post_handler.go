package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/smartblog/internal/api/middleware"
	"github.com/d60-Lab/smartblog/internal/model"
	"github.com/d60-Lab/smartblog/internal/repository"
	"github.com/d60-Lab/smartblog/internal/service"
	"github.com/d60-Lab/smartblog/pkg/response"
)

// CreatePost godoc
// @Summary      Create a draft post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      handler.createPostRequest  true  "Post body"
// @Success      201   {object}  handler.postResponse
// @Failure      400   {object}  response.Error
// @Router       /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	content := model.PostContent{}
	if req.Content != nil {
		content = *req.Content
	}
	u := middleware.CurrentUser(c)
	p, err := h.posts.Create(c.Request.Context(), u.ID, req.Title, content)
	if err != nil {
		h.log.Error("create post failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostResponse(p))
}

// ListPosts godoc
// @Summary      List own posts, most recently updated first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"  Enums(draft, published)
// @Param        skip    query     int     false  "Offset"
// @Param        limit   query     int     false  "Page size (default 50)"
// @Success      200     {array}   handler.postResponse
// @Failure      400     {object}  response.Error
// @Router       /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	var q listPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u := middleware.CurrentUser(c)
	list, err := h.posts.List(c.Request.Context(), u.ID, q.Status, q.Skip, q.Limit)
	if err != nil {
		h.log.Error("list posts failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponses(list))
}

// GetPost godoc
// @Summary      Get a post by ID
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  handler.postResponse
// @Failure      400  {object}  response.Error
// @Failure      403  {object}  response.Error
// @Failure      404  {object}  response.Error
// @Router       /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	u := middleware.CurrentUser(c)
	p, err := h.posts.Get(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		h.postError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(p))
}

// UpdatePost godoc
// @Summary      Merge-patch a post (autosave)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Post ID"
// @Param        body  body      handler.updatePostRequest  true  "Fields to change"
// @Success      200   {object}  handler.postResponse
// @Failure      400   {object}  response.Error
// @Failure      403   {object}  response.Error
// @Failure      404   {object}  response.Error
// @Router       /posts/{id} [patch]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u := middleware.CurrentUser(c)
	patch := repository.PostPatch{Title: req.Title, Content: req.Content}
	p, err := h.posts.Update(c.Request.Context(), u.ID, c.Param("id"), patch)
	if err != nil {
		h.postError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(p))
}

// PublishPost godoc
// @Summary      Publish a post (idempotent)
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  handler.postResponse
// @Failure      400  {object}  response.Error
// @Failure      403  {object}  response.Error
// @Failure      404  {object}  response.Error
// @Router       /posts/{id}/publish [post]
func (h *Handler) PublishPost(c *gin.Context) {
	u := middleware.CurrentUser(c)
	p, err := h.posts.Publish(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		h.postError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(p))
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      204
// @Failure      400  {object}  response.Error
// @Failure      403  {object}  response.Error
// @Failure      404  {object}  response.Error
// @Router       /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.posts.Delete(c.Request.Context(), u.ID, c.Param("id")); err != nil {
		h.postError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) postError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPostID):
		response.BadRequest(c, "Invalid post ID")
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, "Post not found")
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, "Not authorized to access this post")
	default:
		h.log.Error("post operation failed", zap.Error(err))
		response.InternalError(c, err)
	}
}
