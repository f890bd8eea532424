// Package claim_analyzer implements the structural analysis of patent claim
// sets: segmentation, classification, dependency resolution, complexity
// scoring, issue detection and report aggregation, followed by the technical
// insights (features, innovation wording, coverage and summary).
//
// The pipeline is pure and deterministic.  Per-claim classification and
// scoring may run in parallel; dependency resolution runs sequentially in
// between.  The only fatal error is ErrEmptyClaimText; every other anomaly is
// reported as a patent.Issue.
package claim_analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// Pipeline stage names passed to a StageObserver.
const (
	StageSegment   = "segment"
	StageClassify  = "classify"
	StageResolve   = "resolve"
	StageScore     = "score"
	StageDetect    = "detect"
	StageAggregate = "aggregate"
	StageInsights  = "insights"
)

// StageObserver receives the duration of each pipeline stage.
type StageObserver func(stage string, elapsed time.Duration)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.  The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPhraseTables replaces the built-in phrase tables.
func WithPhraseTables(tables map[string]*PhraseTable) Option {
	return func(a *Analyzer) {
		if len(tables) > 0 {
			a.tables = tables
		}
	}
}

// WithTokenizer sets the word counter for one language.
func WithTokenizer(language string, t Tokenizer) Option {
	return func(a *Analyzer) {
		if t != nil {
			a.tokenizers[canonicalLanguage(language)] = t
		}
	}
}

// WithStageObserver installs a per-stage timing callback.
func WithStageObserver(o StageObserver) Option {
	return func(a *Analyzer) { a.observe = o }
}

// languagePipeline bundles the components compiled for one phrase table.
type languagePipeline struct {
	segmenter  *segmenter
	classifier *Classifier
	resolver   *Resolver
	scorer     *Scorer
	insights   *insightExtractor
	tokenizer  Tokenizer
}

// Analyzer runs the claim analysis pipeline.  It is immutable after
// construction and safe for concurrent use; each call owns its claim set.
type Analyzer struct {
	cfg         Config
	tables      map[string]*PhraseTable
	tokenizers  map[string]Tokenizer
	pipelines   map[string]*languagePipeline
	detector    *Detector
	aggregator  aggregator
	logger      logging.Logger
	observe     StageObserver
	fingerprint string
}

// NewAnalyzer validates cfg and compiles every phrase table.
func NewAnalyzer(cfg Config, opts ...Option) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{
		cfg:        cfg,
		tables:     DefaultPhraseTables(),
		tokenizers: map[string]Tokenizer{"zh": CJKTokenizer},
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.pipelines = make(map[string]*languagePipeline, len(a.tables))
	for lang, t := range a.tables {
		ct, err := compileTable(t)
		if err != nil {
			return nil, err
		}
		lang = canonicalLanguage(lang)
		tok, ok := a.tokenizers[lang]
		if !ok {
			tok = WhitespaceTokenizer
		}
		a.pipelines[lang] = &languagePipeline{
			segmenter:  newSegmenter(ct),
			classifier: newClassifier(ct),
			resolver:   newResolver(ct, cfg.MaxRangeSpan),
			scorer:     newScorer(ct, cfg.Weights),
			insights:   newInsightExtractor(t),
			tokenizer:  tok,
		}
	}
	if _, ok := a.pipelines[canonicalLanguage(cfg.DefaultLanguage)]; !ok {
		return nil, errors.Newf(errors.ErrCodeConfigInvalid, "no phrase table for default language %q", cfg.DefaultLanguage)
	}

	a.detector = NewDetector(DetectorConfig{
		LengthThreshold:      cfg.LengthThreshold,
		OutlierSigma:         cfg.OutlierSigma,
		MaxIndependentClaims: cfg.MaxIndependentClaims,
	})
	a.aggregator = aggregator{coverageAdvice: cfg.CoverageAdvice, minClaimsAdvisory: cfg.MinClaimsAdvisory}

	encoded, err := MarshalPhraseTables(a.tables)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(encoded)
	a.fingerprint = cfg.fingerprint(hex.EncodeToString(digest[:]))
	return a, nil
}

// Fingerprint identifies the configuration and phrase tables.  Two analyzers
// with equal fingerprints produce identical reports for identical input.
func (a *Analyzer) Fingerprint() string { return a.fingerprint }

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// Languages lists the languages with a phrase table.
func (a *Analyzer) Languages() []string {
	out := make([]string, 0, len(a.pipelines))
	for l := range a.pipelines {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// PhraseTables returns the tables in use.
func (a *Analyzer) PhraseTables() map[string]*PhraseTable {
	out := make(map[string]*PhraseTable, len(a.tables))
	for l, t := range a.tables {
		out[l] = t
	}
	return out
}

// ResolveLanguage maps a tag to a supported language.  Empty and "auto" tags
// are detected from the text when detection is enabled.  fallback reports
// that the tag had no phrase table and the default language was used.
func (a *Analyzer) ResolveLanguage(tag, text string) (lang string, fallback bool) {
	lang = canonicalLanguage(tag)
	if lang == "" || lang == LanguageAuto {
		if a.cfg.AutoDetect {
			lang = DetectLanguage(text)
		} else {
			lang = canonicalLanguage(a.cfg.DefaultLanguage)
		}
	}
	if _, ok := a.pipelines[lang]; ok {
		return lang, false
	}
	return canonicalLanguage(a.cfg.DefaultLanguage), true
}

// Analyze runs the whole pipeline over one claim text.
func (a *Analyzer) Analyze(ctx context.Context, text, language string) (*patent.AnalysisReport, error) {
	started := time.Now()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyClaimText
	}

	lang, fallback := a.ResolveLanguage(language, text)
	p := a.pipelines[lang]
	var langIssues []patent.Issue
	if fallback {
		langIssues = append(langIssues, patent.NewSetIssue(
			patent.IssueLanguageFallback,
			fmt.Sprintf("no phrase table for language %q; %q was used", language, lang),
			"",
		))
	}

	var (
		claims    patent.ClaimSet
		segIssues []patent.Issue
		err       error
	)
	a.timed(StageSegment, func() { claims, segIssues, err = p.segmenter.Segment(text) })
	if err != nil {
		return nil, err
	}
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	a.timed(StageClassify, func() {
		err = a.forEachClaim(ctx, len(claims), func(i int) {
			c := &claims[i]
			cl := p.classifier.Classify(c.NormalizedText)
			c.Type, c.ClassificationRule, c.DependentHint = cl.Type, cl.Rule, cl.DependentHint
			c.WordCount = p.tokenizer.CountWords(c.NormalizedText)
		})
	})
	if err != nil {
		return nil, err
	}

	var (
		graph     *patent.DependencyGraph
		refIssues []patent.Issue
	)
	a.timed(StageResolve, func() { graph, refIssues, err = p.resolver.Resolve(claims) })
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeClaimAnalysisFailed, "dependency resolution failed")
	}
	if a.cfg.InheritParentType {
		inheritParentTypes(claims)
	}
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	a.timed(StageScore, func() {
		err = a.forEachClaim(ctx, len(claims), func(i int) {
			c := &claims[i]
			c.ClauseCount, c.ComplexityScore = p.scorer.Score(c)
		})
	})
	if err != nil {
		return nil, err
	}

	var detected []patent.Issue
	a.timed(StageDetect, func() { detected = a.detector.Detect(claims, graph) })
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	var report *patent.AnalysisReport
	a.timed(StageAggregate, func() {
		report = a.aggregator.Aggregate(lang, claims, graph, segIssues, refIssues, detected, langIssues)
	})
	a.timed(StageInsights, func() {
		report = report.WithInsights(p.insights.Extract(claims, report.Statistics()))
	})

	a.logger.Debug("claim analysis completed",
		logging.String("language", lang),
		logging.Int("claims", report.TotalClaims()),
		logging.Int("independent", report.IndependentCount()),
		logging.Int("issues", len(report.Issues())),
		logging.Duration("elapsed", time.Since(started)),
	)
	return report, nil
}

// forEachClaim applies fn to every index.  Small sets run inline; larger sets
// fan out over a bounded errgroup.  fn must only write to slot i.
func (a *Analyzer) forEachClaim(ctx context.Context, n int, fn func(i int)) error {
	if n < a.cfg.ParallelThreshold || a.cfg.workers() == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return checkCancelled(ctx)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.workers())
	for i := 0; i < n; i++ {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTimeout, "claim analysis cancelled")
	}
	return checkCancelled(ctx)
}

func (a *Analyzer) timed(stage string, fn func()) {
	if a.observe == nil {
		fn()
		return
	}
	start := time.Now()
	fn()
	a.observe(stage, time.Since(start))
}

func checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTimeout, "claim analysis cancelled")
	}
	return nil
}

// inheritParentTypes gives dependent claims classified Other the type of their
// lowest-numbered parent.  Document order guarantees parents are final first.
func inheritParentTypes(claims patent.ClaimSet) {
	for i := range claims {
		c := &claims[i]
		if c.IsIndependent || c.Type != patent.ClaimTypeOther || len(c.References) == 0 {
			continue
		}
		parent, ok := claims.FindByNumber(c.References[0])
		if !ok || parent.Type == patent.ClaimTypeOther {
			continue
		}
		c.Type, c.ClassificationRule = parent.Type, RuleInherited
	}
}

//Personal.AI order the ending
