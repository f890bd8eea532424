package claim_analyzer

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultScoringWeights(), cfg.Weights)
	assert.Equal(t, 250, cfg.LengthThreshold)
	assert.Equal(t, 3, cfg.MaxIndependentClaims)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative weight", func(c *Config) { c.Weights.ClauseWeight = -1 }},
		{"zero length threshold", func(c *Config) { c.LengthThreshold = 0 }},
		{"zero sigma", func(c *Config) { c.OutlierSigma = 0 }},
		{"zero range span", func(c *Config) { c.MaxRangeSpan = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"negative parallel threshold", func(c *Config) { c.ParallelThreshold = -1 }},
		{"no default language", func(c *Config) { c.DefaultLanguage = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
		})
	}
}

func TestConfig_Workers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.workers())
	cfg.Workers = 3
	assert.Equal(t, 3, cfg.workers())
}

func TestConfig_Fingerprint(t *testing.T) {
	base := DefaultConfig()
	assert.Equal(t, base.fingerprint("d"), base.fingerprint("d"))
	assert.NotEqual(t, base.fingerprint("d"), base.fingerprint("e"))

	tuned := base
	tuned.Weights.WordWeight = 1.2
	assert.NotEqual(t, base.fingerprint("d"), tuned.fingerprint("d"))

	parallel := base
	parallel.Workers = 8
	parallel.ParallelThreshold = 1
	assert.Equal(t, base.fingerprint("d"), parallel.fingerprint("d"))
}

//Personal.AI order the ending
