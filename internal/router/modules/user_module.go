package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civicresolve/backend/internal/container"
	handlers "github.com/civicresolve/backend/internal/interface/http"
	"github.com/civicresolve/backend/internal/interface/middleware"
	"github.com/civicresolve/backend/pkg/helpers"
)

// UserModule wires session and profile routes.
// Public: POST /api/sessions, POST /api/sessions/refresh, GET /api/users/:id,
// GET /api/users/:id/issues, GET /api/authorities/:id/issues,
// GET /api/users/availability.
// Protected: DELETE /api/sessions, GET/PUT /api/profile, POST /api/profile/avatar.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	lookupLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/sessions", loginLimiter, m.Handler.Login)
	rg.POST("/sessions/refresh", refreshLimiter, m.Handler.Refresh)

	rg.GET("/users/availability", lookupLimiter, m.Handler.Availability)
	rg.GET("/users/:id", lookupLimiter, m.Handler.GetUser)
	rg.GET("/users/:id/issues", lookupLimiter, m.Handler.ListUserIssues)
	rg.GET("/authorities/:id/issues", lookupLimiter, m.Handler.ListAuthorityIssues)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.DELETE("/sessions", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}
}
