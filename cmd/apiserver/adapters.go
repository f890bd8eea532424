package main

import (
	"github.com/milo0914/ChemPatent-Pro/internal/application/claims"
	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/stack"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/handlers"
	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/middleware"
)

// healthCheckers adapts the infrastructure probes for the readiness handler.
func healthCheckers(infra *stack.Infrastructure) []handlers.HealthChecker {
	checks := infra.Checks()
	out := make([]handlers.HealthChecker, 0, len(checks))
	for _, c := range checks {
		out = append(out, handlers.CheckFunc{ComponentName: c.Name, Fn: c.Fn})
	}
	return out
}

// serviceOptions wires the enabled backends into the claims service.
func serviceOptions(cfg *config.Config, infra *stack.Infrastructure) []claims.Option {
	opts := []claims.Option{
		claims.WithTimeout(cfg.Analysis.Timeout),
		claims.WithBatchConcurrency(cfg.Analysis.BatchConcurrency),
	}
	if infra.Cache != nil {
		opts = append(opts, claims.WithCache(infra.Cache, infra.CacheName, cfg.Cache.TTL))
	}
	if infra.Repository != nil {
		opts = append(opts, claims.WithRepository(infra.Repository))
	}
	if infra.Metrics != nil {
		opts = append(opts, claims.WithMetrics(infra.Metrics))
	}
	return opts
}

// rateLimitConfig maps the rate_limit section onto the middleware settings.
func rateLimitConfig(c config.RateLimitConfig) middleware.RateLimitConfig {
	rl := middleware.DefaultRateLimitConfig()
	rl.RequestsPerSecond = c.RPS
	rl.BurstSize = c.Burst
	return rl
}

//Personal.AI order the ending
