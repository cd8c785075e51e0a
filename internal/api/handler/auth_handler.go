package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/smartblog/internal/api/middleware"
	"github.com/d60-Lab/smartblog/internal/service"
	"github.com/d60-Lab/smartblog/pkg/response"
)

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      handler.registerRequest  true  "New account"
// @Success      201   {object}  handler.userResponse
// @Failure      400   {object}  response.Error
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(c, "Email already registered")
			return
		}
		h.log.Error("register failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(u))
}

// Login godoc
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      handler.loginRequest  true  "Credentials"
// @Success      200   {object}  handler.tokenResponse
// @Failure      401   {object}  response.Error
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Incorrect email or password")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handler.userResponse
// @Failure      401  {object}  response.Error
// @Router       /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, newUserResponse(u))
}
