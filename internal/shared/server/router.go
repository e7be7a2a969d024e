package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "jobpass-backend/internal/auth"
	"jobpass-backend/internal/feedback"
	"jobpass-backend/internal/resumes"
	"jobpass-backend/internal/shared/config"
	"jobpass-backend/internal/shared/metrics"
	"jobpass-backend/internal/shared/server/middleware"
	"jobpass-backend/internal/shared/server/respond"
)

// RouterDeps bundles the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	ResumeHandler   *resumes.Handler
	FeedbackHandler *feedback.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(
		middleware.Auth(),
		middleware.RateLimit(analyzeRateLimit()),
	)

	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	registerMeRoutes(api)
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterRoutes(api)
	}

	return r
}

// analyzeRateLimit throttles the analysis endpoint per user. Other routes
// pass through untouched.
func analyzeRateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"ANALYZE": {Rate: 0.2, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/resumes/:id/analyze" {
				return "ANALYZE"
			}
			return ""
		},
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
