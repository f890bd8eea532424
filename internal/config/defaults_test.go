package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultWordWeight, cfg.Analysis.WordWeight)
	assert.Equal(t, DefaultClauseWeight, cfg.Analysis.ClauseWeight)
	assert.Equal(t, DefaultDependencyWeight, cfg.Analysis.DependencyWeight)
	assert.Equal(t, DefaultLengthThreshold, cfg.Analysis.LengthThreshold)
	assert.Equal(t, DefaultCacheBackend, cfg.Cache.Backend)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaDeadLetterTopic, cfg.Kafka.DeadLetterTopic)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Analysis.ClauseWeight = 3
	cfg.Cache.Backend = "redis"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 3.0, cfg.Analysis.ClauseWeight)
	// A partially set weight triple is kept as given.
	assert.Equal(t, 0.0, cfg.Analysis.WordWeight)
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
