// Package repositories provides the PostgreSQL-backed analysis history.
package repositories

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/logging"
	"github.com/milo0914/ChemPatent-Pro/internal/infrastructure/monitoring/prometheus"
	appErrors "github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

// Querier is the subset of pgxpool.Pool and pgx.Tx the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// MaxListLimit caps one page of List.
const MaxListLimit = 200

// AnalysisRepository stores finished reports as JSONB next to a few
// searchable columns.
type AnalysisRepository struct {
	db      Querier
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewAnalysisRepository wires the repository.  metrics may be nil.
func NewAnalysisRepository(db Querier, log logging.Logger, metrics *prometheus.AppMetrics) *AnalysisRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &AnalysisRepository{db: db, logger: log.Named("analysis_repo"), metrics: metrics}
}

func (r *AnalysisRepository) observe(op string, start time.Time, err error) {
	if r.metrics != nil {
		prometheus.RecordDBQuery(r.metrics, op, time.Since(start), err)
	}
}

const insertAnalysisSQL = `
	INSERT INTO claim_analyses (id, fingerprint, language, total_claims, issue_count, issue_kinds, report, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING`

// Save inserts res.  Saving the same analysis ID twice is a no-op.
func (r *AnalysisRepository) Save(ctx context.Context, res *patent.AnalysisResult) (err error) {
	start := time.Now()
	defer func() { r.observe("save", start, err) }()

	if res == nil || res.AnalysisResponse == nil || res.AnalysisID == "" {
		return appErrors.New(appErrors.ErrCodeValidation, "analysis result is incomplete")
	}
	report, err := json.Marshal(res.AnalysisResponse)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to encode report")
	}

	_, err = r.db.Exec(ctx, insertAnalysisSQL,
		res.AnalysisID, res.Fingerprint, res.Language, res.TotalClaims,
		len(res.Issues), issueKinds(res.AnalysisResponse), report, res.CreatedAt)
	if err != nil {
		r.logger.Error("failed to insert analysis", logging.String("analysis_id", res.AnalysisID), logging.Err(err))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to store analysis")
	}
	return nil
}

const selectAnalysisSQL = `
	SELECT id::text, fingerprint, report, created_at
	FROM claim_analyses
	WHERE id = $1`

// FindByID loads one stored analysis.  An unknown ID yields
// ErrCodeAnalysisNotFound.
func (r *AnalysisRepository) FindByID(ctx context.Context, id string) (res *patent.AnalysisResult, err error) {
	start := time.Now()
	defer func() {
		if appErrors.IsNotFound(err) {
			r.observe("find_by_id", start, nil)
			return
		}
		r.observe("find_by_id", start, err)
	}()

	var (
		out    patent.AnalysisResult
		report []byte
	)
	err = r.db.QueryRow(ctx, selectAnalysisSQL, id).Scan(&out.AnalysisID, &out.Fingerprint, &report, &out.CreatedAt)
	if err != nil {
		if stdErrors.Is(err, pgx.ErrNoRows) {
			return nil, appErrors.New(appErrors.ErrCodeAnalysisNotFound, "analysis not found").WithDetail("id=" + id)
		}
		// An ID that is not a UUID cannot exist.
		var pgErr *pgconn.PgError
		if stdErrors.As(err, &pgErr) && pgErr.Code == "22P02" {
			return nil, appErrors.New(appErrors.ErrCodeAnalysisNotFound, "analysis not found").WithDetail("id=" + id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load analysis")
	}

	out.AnalysisResponse = &patent.AnalysisResponse{}
	if err := json.Unmarshal(report, out.AnalysisResponse); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSerialization, "stored report is corrupt")
	}
	return &out, nil
}

const listAnalysesSQL = `
	SELECT id::text, language, total_claims, issue_count, created_at
	FROM claim_analyses
	ORDER BY created_at DESC, id
	LIMIT $1 OFFSET $2`

// List returns summaries newest first.  limit is clamped to [1, MaxListLimit].
func (r *AnalysisRepository) List(ctx context.Context, limit, offset int) (items []patent.AnalysisSummary, err error) {
	start := time.Now()
	defer func() { r.observe("list", start, err) }()

	if limit < 1 {
		limit = 20
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, listAnalysesSQL, limit, offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	items = make([]patent.AnalysisSummary, 0, limit)
	for rows.Next() {
		var s patent.AnalysisSummary
		if err := rows.Scan(&s.AnalysisID, &s.Language, &s.TotalClaims, &s.IssueCount, &s.CreatedAt); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to scan analysis row")
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to list analyses")
	}
	return items, nil
}

const deleteOlderSQL = `DELETE FROM claim_analyses WHERE created_at < $1`

// DeleteOlderThan prunes history and returns the number of removed rows.
func (r *AnalysisRepository) DeleteOlderThan(ctx context.Context, before time.Time) (n int64, err error) {
	start := time.Now()
	defer func() { r.observe("delete_older_than", start, err) }()

	tag, err := r.db.Exec(ctx, deleteOlderSQL, before)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to prune analyses")
	}
	return tag.RowsAffected(), nil
}

func issueKinds(r *patent.AnalysisResponse) []string {
	seen := make(map[string]bool, len(r.Issues))
	kinds := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		if !seen[is.Kind] {
			seen[is.Kind] = true
			kinds = append(kinds, is.Kind)
		}
	}
	return kinds
}

//Personal.AI order the ending
