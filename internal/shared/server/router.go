package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplan-backend/internal/exports"
	"mealplan-backend/internal/services/health"
	"mealplan-backend/internal/sessions"
	"mealplan-backend/internal/shared/config"
	"mealplan-backend/internal/shared/metrics"
	"mealplan-backend/internal/shared/server/middleware"
	"mealplan-backend/internal/shared/server/respond"
)

// Rate limit groups.
const (
	GroupDefault = "DEFAULT"
	GroupUpload  = "UPLOAD"
	GroupRun     = "RUN"
)

// RouterDeps are the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	SessionHandler *sessions.Handler
	ExportHandler  *exports.Handler
	// Health is optional; nil reports a static ok.
	Health *health.Service
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})

	if deps.RateLimiter != nil {
		api.Use(middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: GroupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.RateLimiter,
			Rules:        DefaultRateLimitRules(),
		}))
	}
	if deps.SessionHandler != nil {
		deps.SessionHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}

	return r
}

// DefaultRateLimitRules bounds uploads and pipeline runs per session.
func DefaultRateLimitRules() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		GroupDefault: {Rate: 10, Burst: 30},
		GroupUpload:  {Rate: 1, Burst: 10},
		GroupRun:     {Rate: 0.5, Burst: 5},
	}
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return GroupDefault
	}
	switch c.FullPath() {
	case "/api/v1/sessions/:id/menu", "/api/v1/sessions/:id/residents", "/api/v1/sessions/:id/standards":
		return GroupUpload
	case "/api/v1/sessions/:id/plans", "/api/v1/sessions/:id/exports":
		return GroupRun
	default:
		return GroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
