// Package claims provides the application service for claim analysis.  It
// sits between the HTTP handlers, the CLI and the worker on one side and the
// analyzer, the report cache and the history store on the other.
package claims

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/prometheus"
	"github.com/milo0914/ChemPatent-Pro/internal/intelligence/claim_analyzer"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

// Service defines the claim analysis use cases.
type Service interface {
	Analyze(ctx context.Context, req patent.AnalyzeRequest) (*patent.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, req patent.BatchAnalyzeRequest) (*patent.BatchAnalyzeResponse, error)
	GetAnalysis(ctx context.Context, id string) (*patent.AnalysisResult, error)
	ListAnalyses(ctx context.Context, limit, offset int) (*patent.AnalysisListResponse, error)
}

// ReportCache stores finished analyses by content key.  A miss must be
// reported as a NotFound-coded error.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Repository persists analyses for later lookup.
type Repository interface {
	Save(ctx context.Context, res *patent.AnalysisResult) error
	FindByID(ctx context.Context, id string) (*patent.AnalysisResult, error)
	List(ctx context.Context, limit, offset int) ([]patent.AnalysisSummary, error)
}

// Option configures the service.
type Option func(*service)

// WithCache enables report caching for ttl.  A nil cache disables it.
func WithCache(c ReportCache, name string, ttl time.Duration) Option {
	return func(s *service) {
		s.cache, s.cacheName, s.cacheTTL = c, name, ttl
	}
}

// WithRepository enables persistence of every fresh analysis.
func WithRepository(r Repository) Option {
	return func(s *service) { s.repo = r }
}

// WithMetrics records analysis and cache metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *service) { s.metrics = m }
}

// WithTimeout bounds each analysis.  Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *service) { s.timeout = d }
}

// WithBatchConcurrency bounds the number of batch items analysed at once.
func WithBatchConcurrency(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

type service struct {
	analyzer *claim_analyzer.Analyzer
	logger   logging.Logger

	cache     ReportCache
	cacheName string
	cacheTTL  time.Duration
	repo      Repository
	metrics   *prometheus.AppMetrics

	timeout          time.Duration
	batchConcurrency int

	group singleflight.Group
	now   func() time.Time
	newID func() string
}

// NewService builds the service around a configured analyzer.
func NewService(analyzer *claim_analyzer.Analyzer, logger logging.Logger, opts ...Option) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &service{
		analyzer:         analyzer,
		logger:           logger,
		batchConcurrency: patent.DefaultBatchConcurrency,
		now:              func() time.Time { return time.Now().UTC() },
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheKey derives the content key of a request.  The analyzer fingerprint
// is part of the key so a configuration or phrase table change never serves
// stale reports.
func CacheKey(language, text, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(language))))
	h.Write([]byte{0})
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(fingerprint))
	return "analysis:" + hex.EncodeToString(h.Sum(nil))
}

func (s *service) Analyze(ctx context.Context, req patent.AnalyzeRequest) (*patent.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		s.recordFailure(err)
		return nil, err
	}
	key := CacheKey(req.Language, req.Text, s.analyzer.Fingerprint())

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "analysis cancelled")
	}
	// The shared call outlives any single caller; each caller only stops
	// waiting when its own context ends.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.analyzeFresh(context.WithoutCancel(ctx), key, req)
	})
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "analysis cancelled")
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res := r.Val.(*patent.AnalysisResult)
		if r.Shared {
			copied := *res
			return &copied, nil
		}
		return res, nil
	}
}

func (s *service) fromCache(ctx context.Context, key string) (*patent.AnalysisResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	var res patent.AnalysisResult
	err := s.cache.Get(ctx, key, &res)
	hit := err == nil && res.AnalysisResponse != nil
	if s.metrics != nil {
		prometheus.RecordCacheAccess(s.metrics, s.cacheName, hit)
	}
	if err != nil && !errors.IsNotFound(err) {
		s.logger.Warn("report cache read failed", logging.String("key", key), logging.Err(err))
	}
	if !hit {
		return nil, false
	}
	res.Cached = true
	return &res, true
}

func (s *service) analyzeFresh(ctx context.Context, key string, req patent.AnalyzeRequest) (*patent.AnalysisResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	report, err := s.analyzer.Analyze(ctx, req.Text, req.Language)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	resp := ToResponse(report)
	res := &patent.AnalysisResult{
		AnalysisID:       s.newID(),
		CreatedAt:        s.now(),
		Fingerprint:      s.analyzer.Fingerprint(),
		AnalysisResponse: resp,
	}
	if s.metrics != nil {
		prometheus.RecordAnalysis(s.metrics, resp.Language, "success", time.Since(start), resp.TotalClaims, issueKinds(resp))
	}

	// Persistence and caching are best effort: the caller still gets the
	// report when either store is down.
	if s.repo != nil {
		if err := s.repo.Save(ctx, res); err != nil {
			s.logger.Error("failed to persist analysis", logging.String("analysis_id", res.AnalysisID), logging.Err(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res, s.cacheTTL); err != nil {
			s.logger.Warn("report cache write failed", logging.String("key", key), logging.Err(err))
		}
	}

	s.logger.Info("claims analysed",
		logging.String("analysis_id", res.AnalysisID),
		logging.String("language", resp.Language),
		logging.Int("claims", resp.TotalClaims),
		logging.Int("issues", len(resp.Issues)),
		logging.Duration("elapsed", time.Since(start)))
	return res, nil
}

// recordFailure counts a failed analysis.  The language label is fixed so that
// arbitrary client tags never reach the metric cardinality.
func (s *service) recordFailure(err error) {
	if s.metrics == nil {
		return
	}
	status := "error"
	if errors.IsCode(err, errors.ErrCodeClaimTextEmpty) {
		status = "rejected"
	}
	prometheus.RecordAnalysis(s.metrics, "unknown", status, 0, 0, nil)
	prometheus.RecordError(s.metrics, "claims", string(errors.GetCode(err)))
}

func (s *service) AnalyzeBatch(ctx context.Context, req patent.BatchAnalyzeRequest) (*patent.BatchAnalyzeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results := make([]patent.BatchItemResult, len(req.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, item := range req.Items {
		i, item := i, item
		g.Go(func() error {
			res, err := s.Analyze(gctx, item)
			results[i] = patent.BatchItemResult{Index: i, Result: res}
			if err != nil {
				results[i].Error = ToErrorDetail(err)
			}
			// Item failures are reported per item and never cancel siblings.
			return nil
		})
	}
	_ = g.Wait()

	out := &patent.BatchAnalyzeResponse{Results: results}
	for _, r := range results {
		if r.Error != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	return out, nil
}

func (s *service) GetAnalysis(ctx context.Context, id string) (*patent.AnalysisResult, error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "analysis history is not enabled")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.Newf(errors.ErrCodeAnalysisNotFound, "analysis %q not found", id)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListAnalyses(ctx context.Context, limit, offset int) (*patent.AnalysisListResponse, error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "analysis history is not enabled")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []patent.AnalysisSummary{}
	}
	return &patent.AnalysisListResponse{Items: items, Limit: limit, Offset: offset}, nil
}

// ToErrorDetail converts err to its wire form.
func ToErrorDetail(err error) *common.ErrorDetail {
	if err == nil {
		return nil
	}
	code := errors.GetCode(err)
	msg := err.Error()
	var appErr *errors.AppError
	if stdErrors.As(err, &appErr) {
		msg = appErr.Message
	}
	return &common.ErrorDetail{Code: string(code), Message: msg}
}

func issueKinds(r *patent.AnalysisResponse) []string {
	kinds := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		kinds = append(kinds, is.Kind)
	}
	return kinds
}

//Personal.AI order the ending
