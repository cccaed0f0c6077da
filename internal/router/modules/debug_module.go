package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civicresolve/backend/internal/container"
	"github.com/civicresolve/backend/internal/interface/middleware"
)

// DebugModule exposes expvar counters at /api/debug/vars when enabled.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	if cfg := container.GetConfig(); cfg != nil && !cfg.DebugMetricsEnabled {
		return
	}
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
