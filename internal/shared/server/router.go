package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/ats"
	"resume-builder/internal/compile"
	"resume-builder/internal/profiles"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const compileRateGroup = "COMPILE"

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are
// skipped.
type RouterDeps struct {
	Config         config.Config
	Verifier       middleware.TokenVerifier
	Health         *health.Service
	CompileHandler *compile.Handler
	ProfileHandler *profiles.Handler
	ATSHandler     *ats.Handler
	RateLimiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil, deps.Config.Compiler.Mode)
	}
	healthHandler := func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)

	protected := []gin.HandlerFunc{
		middleware.Auth(deps.Verifier),
		middleware.RateLimit(compileRateLimit(deps)),
	}

	authed := api.Group("", protected...)
	registerMeRoutes(authed)
	if deps.CompileHandler != nil {
		deps.CompileHandler.RegisterRoutes(authed)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(authed)
	}
	if deps.ATSHandler != nil {
		deps.ATSHandler.RegisterRoutes(authed)
	}

	// Older clients post to /compile at the root.
	if deps.CompileHandler != nil {
		r.Group("", protected...).POST("/compile", deps.CompileHandler.Compile)
	}

	return r
}

func compileRateLimit(deps RouterDeps) middleware.RateLimitConfig {
	cfg := middleware.RateLimitConfig{
		Limiter: deps.RateLimiter,
		GroupFor: middleware.GroupByRoute(map[string]string{
			"/compile":          compileRateGroup,
			"/api/v1/compile":   compileRateGroup,
			"/api/v1/ats-score": compileRateGroup,
		}),
		Rules: map[string]middleware.RateLimitRule{},
	}
	if n := deps.Config.CompileRatePerMinute; n > 0 {
		cfg.Rules[compileRateGroup] = middleware.PerMinute(n)
	}
	return cfg
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
