package claims

import (
	"github.com/milo0914/ChemPatent-Pro/internal/config"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/prometheus"
	"github.com/milo0914/ChemPatent-Pro/internal/intelligence/claim_analyzer"
)

// AnalyzerConfig maps the analysis section of the service configuration onto
// the analyzer settings.
func AnalyzerConfig(c config.AnalysisConfig) claim_analyzer.Config {
	return claim_analyzer.Config{
		Weights: claim_analyzer.ScoringWeights{
			WordWeight:       c.WordWeight,
			ClauseWeight:     c.ClauseWeight,
			DependencyWeight: c.DependencyWeight,
		},
		LengthThreshold:      c.LengthThreshold,
		OutlierSigma:         c.OutlierSigma,
		MaxIndependentClaims: c.MaxIndependentClaims,
		CoverageAdvice:       c.CoverageAdvice,
		MinClaimsAdvisory:    c.MinClaimsAdvisory,
		MaxRangeSpan:         c.MaxRangeSpan,
		InheritParentType:    c.InheritParentType,
		DefaultLanguage:      c.DefaultLanguage,
		AutoDetect:           c.AutoDetect,
		Workers:              c.Workers,
		ParallelThreshold:    c.ParallelThreshold,
	}
}

// NewAnalyzer builds an analyzer from configuration, loading the phrase table
// file when one is configured.  metrics may be nil.
func NewAnalyzer(c config.AnalysisConfig, logger logging.Logger, metrics *prometheus.AppMetrics) (*claim_analyzer.Analyzer, error) {
	opts := []claim_analyzer.Option{claim_analyzer.WithLogger(logger)}
	if c.PhraseTablesPath != "" {
		tables, err := claim_analyzer.LoadPhraseTables(c.PhraseTablesPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, claim_analyzer.WithPhraseTables(tables))
	}
	if metrics != nil {
		opts = append(opts, claim_analyzer.WithStageObserver(prometheus.StageObserver(metrics)))
	}
	return claim_analyzer.NewAnalyzer(AnalyzerConfig(c), opts...)
}

//Personal.AI order the ending
