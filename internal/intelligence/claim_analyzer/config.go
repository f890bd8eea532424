package claim_analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// Default analysis settings.
const (
	DefaultLengthThreshold      = 250
	DefaultOutlierSigma         = 2.0
	DefaultMaxIndependentClaims = 3
	DefaultMinClaimsAdvisory    = 5
	DefaultMaxRangeSpan         = 100
	DefaultParallelThreshold    = 32
	DefaultLanguage             = "en"
	LanguageAuto                = "auto"
)

// Config is passed explicitly into every Analyzer; the pipeline holds no
// global state.
type Config struct {
	Weights ScoringWeights

	LengthThreshold      int
	OutlierSigma         float64
	MaxIndependentClaims int

	// CoverageAdvice adds the "few claims" and "single category" suggestions.
	CoverageAdvice    bool
	MinClaimsAdvisory int

	MaxRangeSpan int
	// InheritParentType lets a dependent claim classified Other take the type
	// of its lowest-numbered parent.
	InheritParentType bool

	// DefaultLanguage is used when the tag is empty and detection is off, and
	// as the fallback for tags without a phrase table.
	DefaultLanguage string
	// AutoDetect enables language detection for empty or "auto" tags.
	AutoDetect bool

	// Workers bounds per-claim parallelism; 0 means GOMAXPROCS.
	Workers int
	// ParallelThreshold is the claim count from which classification and
	// scoring run in parallel.
	ParallelThreshold int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Weights:              DefaultScoringWeights(),
		LengthThreshold:      DefaultLengthThreshold,
		OutlierSigma:         DefaultOutlierSigma,
		MaxIndependentClaims: DefaultMaxIndependentClaims,
		CoverageAdvice:       true,
		MinClaimsAdvisory:    DefaultMinClaimsAdvisory,
		MaxRangeSpan:         DefaultMaxRangeSpan,
		InheritParentType:    true,
		DefaultLanguage:      DefaultLanguage,
		AutoDetect:           true,
		Workers:              0,
		ParallelThreshold:    DefaultParallelThreshold,
	}
}

// Validate rejects settings that would break the scoring or detection rules.
func (c Config) Validate() error {
	switch {
	case c.Weights.WordWeight < 0 || c.Weights.ClauseWeight < 0 || c.Weights.DependencyWeight < 0:
		return errors.New(errors.ErrCodeConfigInvalid, "scoring weights must be non-negative")
	case c.LengthThreshold <= 0:
		return errors.New(errors.ErrCodeConfigInvalid, "length threshold must be positive")
	case c.OutlierSigma <= 0:
		return errors.New(errors.ErrCodeConfigInvalid, "outlier sigma must be positive")
	case c.MaxRangeSpan <= 0:
		return errors.New(errors.ErrCodeConfigInvalid, "max range span must be positive")
	case c.Workers < 0:
		return errors.New(errors.ErrCodeConfigInvalid, "workers must not be negative")
	case c.ParallelThreshold < 0:
		return errors.New(errors.ErrCodeConfigInvalid, "parallel threshold must not be negative")
	case strings.TrimSpace(c.DefaultLanguage) == "":
		return errors.New(errors.ErrCodeConfigInvalid, "default language is required")
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// fingerprint identifies every setting that changes analysis output.  Worker
// settings are excluded because they never change the result.
func (c Config) fingerprint(tableDigest string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%v|%d|%v|%d|%t|%d|%d|%t|%s|%t|%s",
		c.Weights, c.LengthThreshold, c.OutlierSigma, c.MaxIndependentClaims,
		c.CoverageAdvice, c.MinClaimsAdvisory, c.MaxRangeSpan, c.InheritParentType,
		c.DefaultLanguage, c.AutoDetect, tableDigest)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

//Personal.AI order the ending
