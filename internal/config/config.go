// Package config defines the configuration structures of the ChemPatent-Pro
// services.  Parsing lives in loader.go and defaults in defaults.go; this file
// holds plain data types and validation only.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// AnalysisConfig holds the claim pipeline settings.
type AnalysisConfig struct {
	WordWeight           float64 `mapstructure:"word_weight"`
	ClauseWeight         float64 `mapstructure:"clause_weight"`
	DependencyWeight     float64 `mapstructure:"dependency_weight"`
	LengthThreshold      int     `mapstructure:"length_threshold"`
	OutlierSigma         float64 `mapstructure:"outlier_sigma"`
	MaxIndependentClaims int     `mapstructure:"max_independent_claims"`
	CoverageAdvice       bool    `mapstructure:"coverage_advice"`
	MinClaimsAdvisory    int     `mapstructure:"min_claims_advisory"`
	MaxRangeSpan         int     `mapstructure:"max_range_span"`
	InheritParentType    bool    `mapstructure:"inherit_parent_type"`
	DefaultLanguage      string  `mapstructure:"default_language"`
	AutoDetect           bool    `mapstructure:"auto_detect"`
	Workers              int     `mapstructure:"workers"`
	ParallelThreshold    int     `mapstructure:"parallel_threshold"`
	// PhraseTablesPath optionally points at a YAML file of phrase tables that
	// replace the built-in ones per language.
	PhraseTablesPath string        `mapstructure:"phrase_tables_path"`
	Timeout          time.Duration `mapstructure:"timeout"`
	BatchConcurrency int           `mapstructure:"batch_concurrency"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CacheConfig selects the report cache.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"` // "none" | "memory" | "redis"
	TTL       time.Duration `mapstructure:"ttl"`
	Size      int           `mapstructure:"size"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Redis     RedisConfig   `mapstructure:"redis"`
}

// PostgresConfig holds the analysis history store parameters.
type PostgresConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	// Retention prunes stored analyses older than this.  Zero keeps them.
	Retention time.Duration `mapstructure:"retention"`
}

// KafkaConfig holds the message bus parameters.
type KafkaConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	ClientID        string        `mapstructure:"client_id"`
	RequestTopic    string        `mapstructure:"request_topic"`
	CompletedTopic  string        `mapstructure:"completed_topic"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// MetricsConfig holds the Prometheus exporter parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// RateLimitConfig holds the per-client token bucket.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration shared by the API server, the worker and
// the CLI.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	a := c.Analysis
	if a.WordWeight < 0 || a.ClauseWeight < 0 || a.DependencyWeight < 0 {
		return fmt.Errorf("config: analysis weights must be non-negative")
	}
	if a.LengthThreshold < 1 {
		return fmt.Errorf("config: analysis.length_threshold must be ≥ 1, got %d", a.LengthThreshold)
	}
	if a.OutlierSigma <= 0 {
		return fmt.Errorf("config: analysis.outlier_sigma must be positive, got %g", a.OutlierSigma)
	}
	if a.BatchConcurrency < 1 {
		return fmt.Errorf("config: analysis.batch_concurrency must be ≥ 1, got %d", a.BatchConcurrency)
	}
	if a.Workers < 0 {
		return fmt.Errorf("config: analysis.workers must be ≥ 0, got %d", a.Workers)
	}

	switch c.Cache.Backend {
	case "none":
	case "memory":
		if c.Cache.Size < 1 {
			return fmt.Errorf("config: cache.size must be ≥ 1 for the memory backend, got %d", c.Cache.Size)
		}
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("config: cache.redis.addr is required for the redis backend")
		}
		if c.Cache.Redis.DB < 0 {
			return fmt.Errorf("config: cache.redis.db must be ≥ 0, got %d", c.Cache.Redis.DB)
		}
	default:
		return fmt.Errorf("config: cache.backend %q is invalid; expected none|memory|redis", c.Cache.Backend)
	}

	if c.Postgres.Enabled {
		if c.Postgres.Host == "" {
			return fmt.Errorf("config: postgres.host is required")
		}
		if c.Postgres.Port < 1 || c.Postgres.Port > 65535 {
			return fmt.Errorf("config: postgres.port %d is out of range [1, 65535]", c.Postgres.Port)
		}
		if c.Postgres.User == "" {
			return fmt.Errorf("config: postgres.user is required")
		}
		if c.Postgres.DBName == "" {
			return fmt.Errorf("config: postgres.db_name is required")
		}
		if c.Postgres.MaxConns < 1 {
			return fmt.Errorf("config: postgres.max_conns must be ≥ 1, got %d", c.Postgres.MaxConns)
		}
		if c.Postgres.Retention < 0 {
			return fmt.Errorf("config: postgres.retention must be ≥ 0, got %s", c.Postgres.Retention)
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("config: kafka.group_id is required")
		}
		if c.Kafka.RequestTopic == "" || c.Kafka.CompletedTopic == "" {
			return fmt.Errorf("config: kafka.request_topic and kafka.completed_topic are required")
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config: rate_limit needs rps > 0 and burst ≥ 1")
	}
	return nil
}

// DSN renders the pgx connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

//Personal.AI order the ending
