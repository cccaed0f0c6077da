package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civicresolve/backend/internal/container"
	handlers "github.com/civicresolve/backend/internal/interface/http"
	"github.com/civicresolve/backend/internal/interface/middleware"
)

// RegistrationModule wires the public signup workflow.
// POST /api/users, POST /api/users/:id/verify-otp,
// POST /api/users/:id/verify-aadhaar, GET /api/users/:id/registration.
// All of it is pre-auth by nature, so every route is rate limited per IP;
// the verify endpoints additionally rely on the workflow's own attempt caps.
type RegistrationModule struct {
	Handler *handlers.RegistrationHandler
}

func NewRegistrationModule(h *handlers.RegistrationHandler) *RegistrationModule {
	return &RegistrationModule{Handler: h}
}

func (m *RegistrationModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/users/:id/verify-otp", verifyLimiter, m.Handler.VerifyOTP)
	rg.POST("/users/:id/verify-aadhaar", verifyLimiter, m.Handler.VerifyAadhaar)
	rg.GET("/users/:id/registration", verifyLimiter, m.Handler.Status)
}
