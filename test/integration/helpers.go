// Package integration drives the claim analysis API end to end: the real
// router, service and infrastructure stack behind an httptest server,
// called through the Go SDK.
package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/internal/application/claims"
	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/stack"
	httpserver "github.com/milo0914/ChemPatent-Pro/internal/interfaces/http"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/handlers"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/middleware"
	"github.com/milo0914/ChemPatent-Pro/internal/testutil"
	"github.com/milo0914/ChemPatent-Pro/pkg/client"
)

const (
	englishClaims = "1. A compound comprising a benzene ring.\n" +
		"2. The compound of claim 1, wherein the ring is substituted.\n" +
		"3. A method of preparing a compound, comprising heating benzene."
	danglingClaims = "1. A compound comprising X.\n2. The compound of claim 5, wherein X is halogen."
)

// testEnv is one running API server.
type testEnv struct {
	Config *config.Config
	Infra  *stack.Infrastructure
	Logger *testutil.MockLogger
	Server *httptest.Server
	Client *client.Client
}

// baseConfig returns the file defaults with every external backend off.
// ApplyDefaults leaves booleans alone, so the defaulted ones are set here.
func baseConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Analysis.AutoDetect = true
	cfg.Analysis.InheritParentType = true
	cfg.Analysis.CoverageAdvice = true
	cfg.Postgres.Enabled = false
	cfg.Kafka.Enabled = false
	cfg.Cache.Backend = stack.CacheMemory
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "itest"
	return cfg
}

// startServer wires cfg the way cmd/apiserver does and serves it.
func startServer(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	logger := testutil.NewMockLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	infra, err := stack.New(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(infra.Close)

	analyzer, err := claims.NewAnalyzer(cfg.Analysis, logger, infra.Metrics)
	require.NoError(t, err)

	opts := []claims.Option{
		claims.WithTimeout(cfg.Analysis.Timeout),
		claims.WithBatchConcurrency(cfg.Analysis.BatchConcurrency),
		claims.WithMetrics(infra.Metrics),
	}
	if infra.Cache != nil {
		opts = append(opts, claims.WithCache(infra.Cache, infra.CacheName, cfg.Cache.TTL))
	}
	if infra.Repository != nil {
		opts = append(opts, claims.WithRepository(infra.Repository))
	}
	svc := claims.NewService(analyzer, logger, opts...)

	checks := make([]handlers.HealthChecker, 0)
	for _, c := range infra.Checks() {
		checks = append(checks, handlers.CheckFunc{ComponentName: c.Name, Fn: c.Fn})
	}
	router := httpserver.NewRouter(httpserver.RouterConfig{
		ClaimsHandler:    handlers.NewClaimsHandler(svc),
		HealthHandler:    handlers.NewHealthHandler("itest", infra.Metrics, checks...),
		LoggingConfig:    middleware.DefaultLoggingConfig(),
		MaxBodySize:      cfg.Server.MaxBodySize,
		Logger:           logger,
		Metrics:          infra.Metrics,
		MetricsCollector: infra.Collector,
		MetricsPath:      cfg.Metrics.Path,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := client.NewClient(srv.URL, client.WithRetryMax(0))
	require.NoError(t, err)

	return &testEnv{Config: cfg, Infra: infra, Logger: logger, Server: srv, Client: c}
}

//Personal.AI order the ending
