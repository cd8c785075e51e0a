package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/smartblog/internal/service"
	"github.com/d60-Lab/smartblog/pkg/response"
)

const (
	defaultMaxTokens = 500
	doneMarker       = "[DONE]"
)

// Generate godoc
// @Summary      Generate text (streaming)
// @Description  Streams generated fragments as server-sent events, terminated
// @Description  by a [DONE] marker. Mid-stream failures arrive as in-band
// @Description  error events.
// @Tags         ai
// @Accept       json
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        body  body  handler.generateRequest  true  "Source text and action"
// @Success      200
// @Failure      400  {object}  response.Error
// @Failure      503  {object}  response.Error
// @Router       /ai/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	stream, err := h.ai.Stream(c.Request.Context(), req.Text, req.Action, req.MaxTokens)
	if err != nil {
		h.aiError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Content-Type", sse.ContentType)
	// c.Stream stops iterating when the client detaches; the request context
	// is canceled then, which releases the upstream connection.
	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-stream
		if !ok {
			_ = sse.Encode(w, sse.Event{Data: doneMarker})
			return false
		}
		if chunk.Err != nil {
			_ = sse.Encode(w, sse.Event{Data: "Error: " + chunk.Err.Error()})
			_ = sse.Encode(w, sse.Event{Data: doneMarker})
			return false
		}
		_ = sse.Encode(w, sse.Event{Data: chunk.Text})
		return true
	})
}

// GenerateSync godoc
// @Summary      Generate text (single response)
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      handler.generateRequest  true  "Source text and action"
// @Success      200   {object}  handler.generateResponse
// @Failure      400   {object}  response.Error
// @Failure      503   {object}  response.Error
// @Router       /ai/generate-sync [post]
func (h *Handler) GenerateSync(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
	}

	text, err := h.ai.Generate(c.Request.Context(), req.Text, req.Action, req.MaxTokens)
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, generateResponse{GeneratedText: text, Action: req.Action})
}

func (h *Handler) aiError(c *gin.Context, err error) {
	var upstream *service.UpstreamError
	switch {
	case errors.Is(err, service.ErrEmptyText):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrAINotConfigured):
		response.ServiceUnavailable(c, err.Error())
	case errors.As(err, &upstream):
		response.ServiceUnavailable(c, upstream.Detail)
	default:
		response.InternalError(c, err)
	}
}
