package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/config"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/metrics"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/server/middleware"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/server/respond"
)

const (
	rateLimitGroupAudit = "AUDIT"
	rateLimitGroupRead  = "READ"
)

// publicPrefixes skip the identity check.
var publicPrefixes = []string{
	"/api/v1/health",
	"/api/v1/metrics",
	"/api/v1/auth/google/",
}

// RouteRegistrar attaches routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps collects the handlers mounted under /api/v1. Nil handlers are
// skipped.
type RouterDeps struct {
	Config        config.Config
	AuditHandler  RouteRegistrar
	LedgerHandler RouteRegistrar
	GoogleAuth    RouteRegistrar
	Limiter       *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(publicPrefixes...),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateLimitGroupRead,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				rateLimitGroupAudit: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
				rateLimitGroupRead:  {Rate: cfg.RateLimitRPS * 10, Burst: cfg.RateLimitBurst * 4},
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	for _, h := range []RouteRegistrar{deps.GoogleAuth, deps.LedgerHandler, deps.AuditHandler} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/audits" {
		return rateLimitGroupAudit
	}
	return rateLimitGroupRead
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
