package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/smartblog/internal/model"
	"github.com/d60-Lab/smartblog/internal/service"
	"github.com/d60-Lab/smartblog/pkg/response"
)

const contextKeyUser = "current_user"

// CurrentUser returns the authenticated user set by RequireAuth. It is only
// valid on routes behind that middleware.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// RequireAuth verifies the bearer token in the Authorization header and stores
// the resolved user in the request context. Missing or invalid tokens end the
// request with 401.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, "Not authenticated")
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "Could not validate credentials")
			return
		}
		c.Set(contextKeyUser, u)
		c.Next()
	}
}
