// Package response centralizes the JSON error shape returned by all handlers.
// Errors carry a single "detail" field with a human-readable message, which the
// editor frontend displays as-is.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is the wire shape of every non-2xx response.
type Error struct {
	Detail string `json:"detail"`
}

func Fail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, Error{Detail: detail})
}

func BadRequest(c *gin.Context, detail string) { Fail(c, http.StatusBadRequest, detail) }

func Unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	Fail(c, http.StatusUnauthorized, detail)
}

func Forbidden(c *gin.Context, detail string) { Fail(c, http.StatusForbidden, detail) }

func NotFound(c *gin.Context, detail string) { Fail(c, http.StatusNotFound, detail) }

func TooManyRequests(c *gin.Context, detail string) { Fail(c, http.StatusTooManyRequests, detail) }

func ServiceUnavailable(c *gin.Context, detail string) {
	Fail(c, http.StatusServiceUnavailable, detail)
}

func InternalError(c *gin.Context, err error) {
	Fail(c, http.StatusInternalServerError, err.Error())
}
