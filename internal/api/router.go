package api

import (
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	_ "github.com/d60-Lab/smartblog/docs"
	"github.com/d60-Lab/smartblog/internal/api/handler"
	"github.com/d60-Lab/smartblog/internal/api/middleware"
	"github.com/d60-Lab/smartblog/internal/config"
	"github.com/d60-Lab/smartblog/internal/model"
	"github.com/d60-Lab/smartblog/internal/service"
)

// NewRouter assembles the gin engine: ambient middleware, health endpoints,
// swagger and the versioned API routes.
func NewRouter(cfg *config.Config, log *zap.Logger, h *handler.Handler, auth *service.AuthService) *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(otelgin.Middleware("smartblog"))
	// The SSE endpoint must not be buffered by the compressor.
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/api/ai/generate"})))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Smart Blog Editor API", "status": "running"})
	})
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	protected := api.Group("", middleware.RequireAuth(auth))
	protected.GET("/auth/me", h.Me)

	protected.POST("/posts", h.CreatePost)
	protected.GET("/posts", h.ListPosts)
	protected.GET("/posts/:id", h.GetPost)
	protected.PATCH("/posts/:id", h.UpdatePost)
	protected.POST("/posts/:id/publish", h.PublishPost)
	protected.DELETE("/posts/:id", h.DeletePost)

	limiter := middleware.NewRateLimiter(cfg.AI.RateLimit, cfg.AI.RateBurst)
	ai := protected.Group("/ai", limiter.Middleware())
	ai.POST("/generate", h.Generate)
	ai.POST("/generate-sync", h.GenerateSync)

	return r
}

func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("poststatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == model.StatusDraft || s == model.StatusPublished
	})
}
