// Command apiserver serves the claim analysis HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/milo0914/ChemPatent-Pro/internal/application/claims"
	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/stack"
	httpserver "github.com/milo0914/ChemPatent-Pro/internal/interfaces/http"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/handlers"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: CHEMPATENT_* environment)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := stack.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)
	gin.SetMode(cfg.Server.Mode)

	logger.Info("starting ChemPatent-Pro API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := stack.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	analyzer, err := claims.NewAnalyzer(cfg.Analysis, logger, infra.Metrics)
	if err != nil {
		return err
	}
	logger.Info("claim analyzer ready",
		logging.String("fingerprint", analyzer.Fingerprint()),
		logging.Any("languages", analyzer.Languages()),
	)
	svc := claims.NewService(analyzer, logger, serviceOptions(cfg, infra)...)

	routerCfg := httpserver.RouterConfig{
		ClaimsHandler:    handlers.NewClaimsHandler(svc),
		HealthHandler:    handlers.NewHealthHandler(version, infra.Metrics, healthCheckers(infra)...),
		LoggingConfig:    middleware.DefaultLoggingConfig(),
		MaxBodySize:      cfg.Server.MaxBodySize,
		Logger:           logger,
		Metrics:          infra.Metrics,
		MetricsCollector: infra.Collector,
		MetricsPath:      cfg.Metrics.Path,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimitConfig = rateLimitConfig(cfg.RateLimit)
		routerCfg.RateLimiter = middleware.NewRateLimiter(routerCfg.RateLimitConfig)
	}
	server := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	if configPath != "" {
		watchConfig(configPath, routerCfg.RateLimiter, logger)
	}
	go infra.RunRetention(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if err := server.Stop(context.Background()); err != nil {
		logger.Error("graceful shutdown failed", logging.Err(err))
		return err
	}
	logger.Info("API server stopped")
	return nil
}

// watchConfig applies rate limit changes from the config file without a
// restart.  Other settings need one.
func watchConfig(path string, limiter *middleware.RateLimiter, logger logging.Logger) {
	err := config.Watch(path, func(next *config.Config) {
		if limiter == nil || !next.RateLimit.Enabled {
			logger.Info("config file changed; restart to apply")
			return
		}
		limiter.SetRate(next.RateLimit.RPS, next.RateLimit.Burst)
		logger.Info("rate limit updated",
			logging.Float64("rps", next.RateLimit.RPS),
			logging.Int("burst", next.RateLimit.Burst),
		)
	}, func(err error) {
		logger.Warn("ignoring invalid config change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
