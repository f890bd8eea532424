// Package patent holds the wire types of the claim analysis API.  They are
// shared by the HTTP handlers, the message bus payloads, the repository and
// the Go client.
package patent

import (
	"strings"
	"time"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
)

// Batch limits.
const (
	MaxBatchSize            = 50
	DefaultBatchConcurrency = 5
)

// Claim type names as they appear on the wire.
const (
	ClaimTypeProduct     = "Product"
	ClaimTypeMethod      = "Method"
	ClaimTypeUse         = "Use"
	ClaimTypeComposition = "Composition"
	ClaimTypeOther       = "Other"
)

// AnalyzeRequest asks for the analysis of one claim text.
type AnalyzeRequest struct {
	Text string `json:"text"`
	// Language is a BCP 47 tag ("en", "zh-CN") or "auto".  Empty means auto.
	Language string `json:"language,omitempty"`
}

// Validate rejects blank text.
func (r AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New(errors.ErrCodeClaimTextEmpty, "no text provided")
	}
	return nil
}

// ClaimDTO is one analysed claim.
type ClaimDTO struct {
	Number             int     `json:"number"`
	Label              string  `json:"label,omitempty"`
	Type               string  `json:"type"`
	IsIndependent      bool    `json:"is_independent"`
	WordCount          int     `json:"word_count"`
	ClauseCount        int     `json:"clause_count"`
	ComplexityScore    float64 `json:"complexity_score"`
	Text               string  `json:"text"`
	ClassificationRule string  `json:"classification_rule"`
	References         []int   `json:"references"`
}

// IssueDTO is one drafting finding.  ClaimNumber is absent for issues that
// concern the whole set.
type IssueDTO struct {
	Kind        string `json:"kind"`
	ClaimNumber *int   `json:"claim_number,omitempty"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// ReferenceDTO is a reference to a claim number absent from the set.
type ReferenceDTO struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// StatisticsDTO summarises the claim set.
type StatisticsDTO struct {
	MinWords           int            `json:"min_words"`
	MaxWords           int            `json:"max_words"`
	AvgWords           float64        `json:"avg_words"`
	MedianWords        int            `json:"median_words"`
	MinComplexity      float64        `json:"min_complexity"`
	MaxComplexity      float64        `json:"max_complexity"`
	AvgComplexity      float64        `json:"avg_complexity"`
	TypeDistribution   map[string]int `json:"type_distribution"`
	MainProtectionType string         `json:"main_protection_type"`
	MaxDependencyDepth int            `json:"max_dependency_depth"`
	DependencyLevels   map[int]int    `json:"dependency_levels"`
}

// ParameterDTO is a number with a unit found in a claim.
type ParameterDTO struct {
	Kind        string  `json:"kind"`
	ClaimNumber int     `json:"claim_number"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
}

// TechnicalFeaturesDTO lists the technical terms and parameters of the set.
type TechnicalFeaturesDTO struct {
	ChemicalEntities []string       `json:"chemical_entities"`
	Processes        []string       `json:"processes"`
	Parameters       []ParameterDTO `json:"parameters"`
}

// KeywordHitDTO is one novelty or advantage keyword with its context.
type KeywordHitDTO struct {
	ClaimNumber int    `json:"claim_number"`
	Keyword     string `json:"keyword"`
	Context     string `json:"context"`
}

// InnovationsDTO collects novelty and advantage wording.
type InnovationsDTO struct {
	NovelFeatures       []KeywordHitDTO `json:"novel_features"`
	TechnicalAdvantages []KeywordHitDTO `json:"technical_advantages"`
	Score               float64         `json:"innovation_score"`
	Level               string          `json:"innovation_level"`
}

// CoverageDTO describes the breadth and depth of protection.
type CoverageDTO struct {
	BreadthScore    float64        `json:"breadth_score"`
	DepthScore      float64        `json:"depth_score"`
	ProtectionAreas map[string]int `json:"protection_areas"`
}

// SummaryDTO is the headline view of a report.
type SummaryDTO struct {
	TotalClaims         int    `json:"total_claims"`
	IndependentClaims   int    `json:"independent_claims"`
	MainProtectionType  string `json:"main_protection_type"`
	InnovationLevel     string `json:"innovation_level"`
	TechnicalComplexity string `json:"technical_complexity"`
	KeyFeaturesCount    int    `json:"key_features_count"`
}

// InsightsDTO is the technical reading of a claim set.
type InsightsDTO struct {
	TechnicalFeatures TechnicalFeaturesDTO `json:"technical_features"`
	Innovations       InnovationsDTO       `json:"innovations"`
	Coverage          CoverageDTO          `json:"coverage_scope"`
	Summary           SummaryDTO           `json:"analysis_summary"`
}

// AnalysisResponse is the structural report of one claim set.
type AnalysisResponse struct {
	TotalClaims        int            `json:"total_claims"`
	Claims             []ClaimDTO     `json:"claims"`
	IndependentClaims  []int          `json:"independent_claims"`
	DependentClaims    []int          `json:"dependent_claims"`
	Issues             []IssueDTO     `json:"issues"`
	Suggestions        []string       `json:"suggestions"`
	DanglingReferences []ReferenceDTO `json:"dangling_references,omitempty"`
	Language           string         `json:"language"`
	Statistics         StatisticsDTO  `json:"statistics"`
	// Insights is absent from reports stored before it existed.
	Insights *InsightsDTO `json:"insights,omitempty"`
}

// HasIssue reports whether an issue of kind was raised.
func (r *AnalysisResponse) HasIssue(kind string) bool {
	for _, is := range r.Issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}

// AnalysisResult is an AnalysisResponse plus the service bookkeeping.
type AnalysisResult struct {
	AnalysisID  string    `json:"analysis_id"`
	CreatedAt   time.Time `json:"created_at"`
	Cached      bool      `json:"cached"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	*AnalysisResponse
}

// AnalysisSummary is one row of the stored analysis history.
type AnalysisSummary struct {
	AnalysisID  string    `json:"analysis_id"`
	Language    string    `json:"language"`
	TotalClaims int       `json:"total_claims"`
	IssueCount  int       `json:"issue_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnalysisListResponse pages through the stored history, newest first.
type AnalysisListResponse struct {
	Items  []AnalysisSummary `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// BatchAnalyzeRequest analyses several independent claim sets.
type BatchAnalyzeRequest struct {
	Items []AnalyzeRequest `json:"items"`
}

// Validate checks the batch size.  Individual items are validated one by one
// during processing so a blank item fails alone.
func (r BatchAnalyzeRequest) Validate() error {
	switch {
	case len(r.Items) == 0:
		return errors.New(errors.ErrCodeAnalysisRequestInvalid, "batch has no items")
	case len(r.Items) > MaxBatchSize:
		return errors.Newf(errors.ErrCodeBatchTooLarge, "batch has %d items, the limit is %d", len(r.Items), MaxBatchSize)
	}
	return nil
}

// BatchItemResult is the outcome of one batch item, in request order.
type BatchItemResult struct {
	Index  int                 `json:"index"`
	Result *AnalysisResult     `json:"result,omitempty"`
	Error  *common.ErrorDetail `json:"error,omitempty"`
}

// BatchAnalyzeResponse collects every item result.
type BatchAnalyzeResponse struct {
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

//Personal.AI order the ending
