// Package stack assembles the infrastructure shared by the API server and the
// worker from one Config: logger, metrics registry, report cache and the
// optional analysis history store.
package stack

import (
	"context"
	"fmt"
	"time"

	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/memory"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/postgres"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/postgres/repositories"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/database/redis"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/prometheus"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// retentionInterval is how often expired analyses are pruned.
const retentionInterval = time.Hour

// Cache is the subset of the memory and redis caches the services use.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
}

// Check is a named readiness probe.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Infrastructure holds the clients built from configuration.  Fields of
// disabled backends are nil.
type Infrastructure struct {
	Logger     logging.Logger
	Collector  prometheus.MetricsCollector
	Metrics    *prometheus.AppMetrics
	Cache      Cache
	CacheName  string
	Redis      *redis.Client
	Postgres   *postgres.Connection
	Repository *repositories.AnalysisRepository

	retention time.Duration
}

// NewLogger builds the process logger from the log section.
func NewLogger(c config.LogConfig) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:       c.Level,
		Format:      c.Format,
		OutputPaths: c.OutputPaths,
	})
}

// New connects every enabled backend.  On error, whatever was opened is closed.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Infrastructure, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	infra := &Infrastructure{Logger: logger, retention: cfg.Postgres.Retention}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: cfg.Metrics.Namespace}, logger)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		infra.Collector = collector
		infra.Metrics = prometheus.NewAppMetrics(collector)
	}

	if err := infra.openCache(ctx, cfg.Cache); err != nil {
		infra.Close()
		return nil, fmt.Errorf("cache: %w", err)
	}

	if cfg.Postgres.Enabled {
		if err := infra.openPostgres(ctx, cfg.Postgres); err != nil {
			infra.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
	}

	logger.Info("infrastructure initialized",
		logging.String("cache", infra.CacheName),
		logging.Bool("history", infra.Repository != nil),
		logging.Bool("metrics", infra.Metrics != nil),
	)
	return infra, nil
}

func (i *Infrastructure) openCache(ctx context.Context, c config.CacheConfig) error {
	i.CacheName = c.Backend
	switch c.Backend {
	case "", CacheNone:
		i.CacheName = CacheNone
		return nil
	case CacheMemory:
		cache, err := memory.NewCache(c.Size, c.TTL)
		if err != nil {
			return err
		}
		i.Cache = cache
		return nil
	case CacheRedis:
		client, err := redis.NewClient(ctx, RedisConfig(c.Redis), i.Logger)
		if err != nil {
			return err
		}
		i.Redis = client
		opts := []redis.CacheOption{redis.WithDefaultTTL(c.TTL)}
		if c.KeyPrefix != "" {
			opts = append(opts, redis.WithPrefix(c.KeyPrefix))
		}
		i.Cache = redis.NewRedisCache(client, i.Logger, opts...)
		return nil
	default:
		return fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}

func (i *Infrastructure) openPostgres(ctx context.Context, c config.PostgresConfig) error {
	if c.AutoMigrate {
		if err := postgres.RunMigrations(c.DSN(), c.MigrationPath); err != nil {
			return err
		}
		i.Logger.Info("database migrations applied", logging.String("path", c.MigrationPath))
	}
	conn, err := postgres.NewConnection(ctx, c, i.Logger)
	if err != nil {
		return err
	}
	i.Postgres = conn
	i.Repository = repositories.NewAnalysisRepository(conn.Pool(), i.Logger, i.Metrics)
	return nil
}

// RedisConfig maps the cache redis section onto the client settings.
func RedisConfig(c config.RedisConfig) redis.RedisConfig {
	return redis.RedisConfig{
		Addrs:        []string{c.Addr},
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// Checks returns a readiness probe per connected backend.
func (i *Infrastructure) Checks() []Check {
	var checks []Check
	if i.Redis != nil {
		checks = append(checks, Check{Name: "redis", Fn: i.Redis.Ping})
	}
	if i.Postgres != nil {
		checks = append(checks, Check{Name: "postgres", Fn: i.Postgres.HealthCheck})
	}
	return checks
}

// RunRetention prunes analyses older than the configured retention every
// hour until ctx ends.  It returns immediately when retention is off.
func (i *Infrastructure) RunRetention(ctx context.Context) {
	if i.Repository == nil || i.retention <= 0 {
		return
	}
	ticker := time.NewTicker(retentionInterval)
	defer ticker.Stop()
	for {
		i.PruneHistory(ctx, time.Now())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PruneHistory deletes analyses created before now minus the retention.
func (i *Infrastructure) PruneHistory(ctx context.Context, now time.Time) int64 {
	if i.Repository == nil || i.retention <= 0 {
		return 0
	}
	n, err := i.Repository.DeleteOlderThan(ctx, now.Add(-i.retention))
	if err != nil {
		i.Logger.Warn("analysis history pruning failed", logging.Err(err))
		return 0
	}
	if n > 0 {
		i.Logger.Info("analysis history pruned", logging.Int64("deleted", n))
	}
	return n
}

// Close releases every open client.
func (i *Infrastructure) Close() {
	if i.Postgres != nil {
		i.Postgres.Close()
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.Logger.Warn("redis close failed", logging.Err(err))
		}
	}
}

//Personal.AI order the ending
