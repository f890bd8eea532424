// Package config provides configuration loading, defaults, and validation for
// the ChemPatent-Pro services.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerMaxBodySize     = 4 << 20
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWordWeight           = 1.0
	DefaultClauseWeight         = 2.0
	DefaultDependencyWeight     = 1.5
	DefaultLengthThreshold      = 250
	DefaultOutlierSigma         = 2.0
	DefaultMaxIndependentClaims = 3
	DefaultMinClaimsAdvisory    = 5
	DefaultMaxRangeSpan         = 100
	DefaultParallelThreshold    = 32
	DefaultLanguage             = "en"
	DefaultAnalysisTimeout      = 10 * time.Second
	DefaultBatchConcurrency     = 5

	DefaultCacheBackend   = "memory"
	DefaultCacheTTL       = time.Hour
	DefaultCacheSize      = 1024
	DefaultCacheKeyPrefix = "chempatent:analysis:"

	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPoolSize = 10

	DefaultDBHost          = "localhost"
	DefaultDBPort          = 5432
	DefaultDBUser          = "chempatent"
	DefaultDBName          = "chempatent"
	DefaultDBMaxConns      = 10
	DefaultDBMinConns      = 1
	DefaultDBConnLifetime  = time.Hour
	DefaultDBConnIdleTime  = 30 * time.Minute
	DefaultDBMigrationPath = "file://migrations"

	DefaultKafkaBroker          = "localhost:9092"
	DefaultKafkaGroupID         = "chempatent-worker"
	DefaultKafkaClientID        = "chempatent"
	DefaultKafkaRequestTopic    = "claims.analysis.requested"
	DefaultKafkaCompletedTopic  = "claims.analysis.completed"
	DefaultKafkaDeadLetterTopic = "dead_letter.claims"
	DefaultKafkaMaxRetries      = 3
	DefaultKafkaRetryBackoff    = time.Second
	DefaultKafkaWriteTimeout    = 10 * time.Second

	DefaultMetricsNamespace = "chempatent"
	DefaultMetricsPath      = "/metrics"

	DefaultRateLimitRPS   = 20.0
	DefaultRateLimitBurst = 40
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  Booleans cannot be
// told apart from "unset" here; file and env loading seed them through
// registerDefaults instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	a := &cfg.Analysis
	if a.WordWeight == 0 && a.ClauseWeight == 0 && a.DependencyWeight == 0 {
		a.WordWeight = DefaultWordWeight
		a.ClauseWeight = DefaultClauseWeight
		a.DependencyWeight = DefaultDependencyWeight
	}
	if a.LengthThreshold == 0 {
		a.LengthThreshold = DefaultLengthThreshold
	}
	if a.OutlierSigma == 0 {
		a.OutlierSigma = DefaultOutlierSigma
	}
	if a.MaxIndependentClaims == 0 {
		a.MaxIndependentClaims = DefaultMaxIndependentClaims
	}
	if a.MinClaimsAdvisory == 0 {
		a.MinClaimsAdvisory = DefaultMinClaimsAdvisory
	}
	if a.MaxRangeSpan == 0 {
		a.MaxRangeSpan = DefaultMaxRangeSpan
	}
	if a.ParallelThreshold == 0 {
		a.ParallelThreshold = DefaultParallelThreshold
	}
	if a.DefaultLanguage == "" {
		a.DefaultLanguage = DefaultLanguage
	}
	if a.Timeout == 0 {
		a.Timeout = DefaultAnalysisTimeout
	}
	if a.BatchConcurrency == 0 {
		a.BatchConcurrency = DefaultBatchConcurrency
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = DefaultCacheSize
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Cache.Redis.PoolSize == 0 {
		cfg.Cache.Redis.PoolSize = DefaultRedisPoolSize
	}

	// ── Postgres ──────────────────────────────────────────────────────────────
	if cfg.Postgres.Host == "" {
		cfg.Postgres.Host = DefaultDBHost
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = DefaultDBPort
	}
	if cfg.Postgres.User == "" {
		cfg.Postgres.User = DefaultDBUser
	}
	if cfg.Postgres.DBName == "" {
		cfg.Postgres.DBName = DefaultDBName
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = DefaultDBMaxConns
	}
	if cfg.Postgres.MinConns == 0 {
		cfg.Postgres.MinConns = DefaultDBMinConns
	}
	if cfg.Postgres.ConnMaxLifetime == 0 {
		cfg.Postgres.ConnMaxLifetime = DefaultDBConnLifetime
	}
	if cfg.Postgres.ConnMaxIdleTime == 0 {
		cfg.Postgres.ConnMaxIdleTime = DefaultDBConnIdleTime
	}
	if cfg.Postgres.MigrationPath == "" {
		cfg.Postgres.MigrationPath = DefaultDBMigrationPath
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.RequestTopic == "" {
		cfg.Kafka.RequestTopic = DefaultKafkaRequestTopic
	}
	if cfg.Kafka.CompletedTopic == "" {
		cfg.Kafka.CompletedTopic = DefaultKafkaCompletedTopic
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = DefaultKafkaDeadLetterTopic
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = DefaultKafkaMaxRetries
	}
	if cfg.Kafka.RetryBackoff == 0 {
		cfg.Kafka.RetryBackoff = DefaultKafkaRetryBackoff
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = DefaultKafkaWriteTimeout
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Rate limit ────────────────────────────────────────────────────────────
	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}
}

// registerDefaults seeds viper with every key so that AutomaticEnv can
// override keys absent from the file and booleans get their intended default.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.max_body_size", DefaultServerMaxBodySize)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stdout"})

	v.SetDefault("analysis.word_weight", DefaultWordWeight)
	v.SetDefault("analysis.clause_weight", DefaultClauseWeight)
	v.SetDefault("analysis.dependency_weight", DefaultDependencyWeight)
	v.SetDefault("analysis.length_threshold", DefaultLengthThreshold)
	v.SetDefault("analysis.outlier_sigma", DefaultOutlierSigma)
	v.SetDefault("analysis.max_independent_claims", DefaultMaxIndependentClaims)
	v.SetDefault("analysis.coverage_advice", true)
	v.SetDefault("analysis.min_claims_advisory", DefaultMinClaimsAdvisory)
	v.SetDefault("analysis.max_range_span", DefaultMaxRangeSpan)
	v.SetDefault("analysis.inherit_parent_type", true)
	v.SetDefault("analysis.default_language", DefaultLanguage)
	v.SetDefault("analysis.auto_detect", true)
	v.SetDefault("analysis.workers", 0)
	v.SetDefault("analysis.parallel_threshold", DefaultParallelThreshold)
	v.SetDefault("analysis.phrase_tables_path", "")
	v.SetDefault("analysis.timeout", DefaultAnalysisTimeout)
	v.SetDefault("analysis.batch_concurrency", DefaultBatchConcurrency)

	v.SetDefault("cache.backend", DefaultCacheBackend)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.size", DefaultCacheSize)
	v.SetDefault("cache.key_prefix", DefaultCacheKeyPrefix)
	v.SetDefault("cache.redis.addr", DefaultRedisAddr)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.pool_size", DefaultRedisPoolSize)
	v.SetDefault("cache.redis.min_idle_conns", 0)
	v.SetDefault("cache.redis.dial_timeout", 5*time.Second)
	v.SetDefault("cache.redis.read_timeout", 3*time.Second)
	v.SetDefault("cache.redis.write_timeout", 3*time.Second)

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", DefaultDBHost)
	v.SetDefault("postgres.port", DefaultDBPort)
	v.SetDefault("postgres.user", DefaultDBUser)
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", DefaultDBName)
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", DefaultDBMaxConns)
	v.SetDefault("postgres.min_conns", DefaultDBMinConns)
	v.SetDefault("postgres.conn_max_lifetime", DefaultDBConnLifetime)
	v.SetDefault("postgres.conn_max_idle_time", DefaultDBConnIdleTime)
	v.SetDefault("postgres.migration_path", DefaultDBMigrationPath)
	v.SetDefault("postgres.auto_migrate", true)
	v.SetDefault("postgres.retention", 0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("kafka.group_id", DefaultKafkaGroupID)
	v.SetDefault("kafka.client_id", DefaultKafkaClientID)
	v.SetDefault("kafka.request_topic", DefaultKafkaRequestTopic)
	v.SetDefault("kafka.completed_topic", DefaultKafkaCompletedTopic)
	v.SetDefault("kafka.dead_letter_topic", DefaultKafkaDeadLetterTopic)
	v.SetDefault("kafka.max_retries", DefaultKafkaMaxRetries)
	v.SetDefault("kafka.retry_backoff", DefaultKafkaRetryBackoff)
	v.SetDefault("kafka.write_timeout", DefaultKafkaWriteTimeout)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.path", DefaultMetricsPath)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
}

//Personal.AI order the ending
