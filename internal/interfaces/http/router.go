package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/prometheus"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/handlers"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers and middleware are skipped.
type RouterConfig struct {
	ClaimsHandler *handlers.ClaimsHandler
	HealthHandler *handlers.HealthHandler

	RateLimiter     *middleware.RateLimiter
	RateLimitConfig middleware.RateLimitConfig
	LoggingConfig   middleware.LoggingConfig

	// MaxBodySize caps request bodies in bytes.  Zero disables the cap.
	MaxBodySize int64

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter builds the gin engine: global middleware, public probes and
// metrics, then the versioned API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger, cfg.LoggingConfig))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimitConfig))
	}
	if cfg.MaxBodySize > 0 {
		limit := cfg.MaxBodySize
		r.Use(func(c *gin.Context) {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
			c.Next()
		})
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	if cfg.ClaimsHandler != nil {
		cfg.ClaimsHandler.RegisterRoutes(api)
	}
	return r
}

//Personal.AI order the ending
