package patent

import (
	"math"
	"sort"
)

// Statistics summarises a claim set.
type Statistics struct {
	MinWords    int
	MaxWords    int
	AvgWords    float64
	MedianWords int

	MinComplexity float64
	MaxComplexity float64
	AvgComplexity float64

	TypeDistribution   map[ClaimType]int
	MainProtectionType ClaimType

	MaxDependencyDepth int
	DependencyLevels   map[int]int
}

// NewStatistics computes the statistics block for a resolved, scored set.
func NewStatistics(claims ClaimSet, graph *DependencyGraph) Statistics {
	st := Statistics{
		TypeDistribution: make(map[ClaimType]int),
		DependencyLevels: make(map[int]int),
	}
	if len(claims) == 0 {
		return st
	}

	words := make([]int, len(claims))
	var wordSum int
	var scoreSum float64
	st.MinWords, st.MinComplexity = math.MaxInt, math.MaxFloat64
	for i, c := range claims {
		words[i] = c.WordCount
		wordSum += c.WordCount
		scoreSum += c.ComplexityScore
		if c.WordCount < st.MinWords {
			st.MinWords = c.WordCount
		}
		if c.WordCount > st.MaxWords {
			st.MaxWords = c.WordCount
		}
		if c.ComplexityScore < st.MinComplexity {
			st.MinComplexity = c.ComplexityScore
		}
		if c.ComplexityScore > st.MaxComplexity {
			st.MaxComplexity = c.ComplexityScore
		}
		st.TypeDistribution[c.Type]++
	}
	sort.Ints(words)
	n := float64(len(claims))
	st.MedianWords = words[len(words)/2]
	st.AvgWords = round(float64(wordSum)/n, 1)
	st.AvgComplexity = round(scoreSum/n, 2)

	best := -1
	for _, t := range AllClaimTypes {
		if cnt := st.TypeDistribution[t]; cnt > best {
			best, st.MainProtectionType = cnt, t
		}
	}

	if graph != nil {
		st.DependencyLevels = graph.Levels()
		st.MaxDependencyDepth = graph.MaxDepth()
	}
	return st
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// AnalysisReport is the result of one analysis call.  It is immutable: every
// accessor returns a copy.
type AnalysisReport struct {
	language    string
	claims      ClaimSet
	graph       *DependencyGraph
	issues      []Issue
	suggestions []string
	stats       Statistics
	insights    Insights
}

// NewAnalysisReport assembles a report.  issues and suggestions are taken in
// the order given; the caller is responsible for ordering them.
func NewAnalysisReport(language string, claims ClaimSet, graph *DependencyGraph, issues []Issue, suggestions []string) *AnalysisReport {
	return &AnalysisReport{
		language:    language,
		claims:      claims.Clone(),
		graph:       graph,
		issues:      append([]Issue(nil), issues...),
		suggestions: append([]string(nil), suggestions...),
		stats:       NewStatistics(claims, graph),
	}
}

func (r *AnalysisReport) Language() string { return r.language }

func (r *AnalysisReport) Claims() ClaimSet { return r.claims.Clone() }

func (r *AnalysisReport) Graph() *DependencyGraph { return r.graph }

func (r *AnalysisReport) Issues() []Issue { return append([]Issue(nil), r.issues...) }

func (r *AnalysisReport) Suggestions() []string { return append([]string(nil), r.suggestions...) }

func (r *AnalysisReport) TotalClaims() int { return len(r.claims) }

func (r *AnalysisReport) IndependentCount() int { return len(r.claims.IndependentClaims()) }

func (r *AnalysisReport) DependentCount() int { return len(r.claims.DependentClaims()) }

func (r *AnalysisReport) IndependentClaims() []int { return r.claims.IndependentClaims() }

func (r *AnalysisReport) DependentClaims() []int { return r.claims.DependentClaims() }

// Statistics returns a copy of the statistics block.
func (r *AnalysisReport) Statistics() Statistics {
	st := r.stats
	st.TypeDistribution = make(map[ClaimType]int, len(r.stats.TypeDistribution))
	for k, v := range r.stats.TypeDistribution {
		st.TypeDistribution[k] = v
	}
	st.DependencyLevels = make(map[int]int, len(r.stats.DependencyLevels))
	for k, v := range r.stats.DependencyLevels {
		st.DependencyLevels[k] = v
	}
	return st
}

// WithInsights returns a copy of the report carrying in.
func (r *AnalysisReport) WithInsights(in Insights) *AnalysisReport {
	cp := *r
	cp.insights = in.clone()
	return &cp
}

// Insights returns a copy of the insights block.
func (r *AnalysisReport) Insights() Insights { return r.insights.clone() }

// HasIssue reports whether any issue of kind is present.
func (r *AnalysisReport) HasIssue(kind IssueKind) bool {
	for _, is := range r.issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}

// IssuesFor returns the issues attached to one claim.
func (r *AnalysisReport) IssuesFor(claim int) []Issue {
	var out []Issue
	for _, is := range r.issues {
		if is.ClaimNumber == claim {
			out = append(out, is)
		}
	}
	return out
}

//Personal.AI order the ending
