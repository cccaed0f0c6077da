package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civicresolve/backend/internal/container"
	handlers "github.com/civicresolve/backend/internal/interface/http"
	"github.com/civicresolve/backend/internal/interface/middleware"
	"github.com/civicresolve/backend/pkg/helpers"
)

// IssueModule wires the issue feed.
// Public reads: GET /api/issues, GET /api/issues/search, GET /api/issues/:id.
// Protected writes: POST /api/issues, POST /api/issues/images,
// POST /api/issues/:id/upvote, POST /api/issues/:id/repost,
// PATCH /api/issues/:id/status.
type IssueModule struct {
	Handler *handlers.IssueHandler
	JWT     *helpers.JWTManager
}

func NewIssueModule(h *handlers.IssueHandler, jwt *helpers.JWTManager) *IssueModule {
	return &IssueModule{Handler: h, JWT: jwt}
}

func (m *IssueModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/issues", readLimiter, m.Handler.List)
	rg.GET("/issues/search", searchLimiter, m.Handler.Search)
	rg.GET("/issues/:id", readLimiter, m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/issues", m.Handler.Create)
		auth.POST("/issues/images", m.Handler.UploadImage)
		auth.POST("/issues/:id/upvote", m.Handler.Upvote)
		auth.POST("/issues/:id/repost", m.Handler.Repost)
		auth.PATCH("/issues/:id/status", m.Handler.UpdateStatus)
	}
}
