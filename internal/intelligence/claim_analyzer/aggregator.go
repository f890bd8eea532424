package claim_analyzer

import (
	"sort"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

const (
	adviceMoreDependents = "Consider adding dependent claims to build fallback positions."
	adviceMoreCategories = "Consider adding claims of other categories (for example method or use claims) to cover the invention more fully."
)

// aggregator composes the final report.
type aggregator struct {
	coverageAdvice    bool
	minClaimsAdvisory int
}

// Aggregate orders issues (claim issues by claim number, then set-level
// issues, each group stable in stage order), collects distinct suggestions in
// the same order and freezes everything into a report.
func (a aggregator) Aggregate(language string, claims patent.ClaimSet, graph *patent.DependencyGraph, stages ...[]patent.Issue) *patent.AnalysisReport {
	issues := orderIssues(stages...)

	seen := make(map[string]struct{})
	var suggestions []string
	add := func(s string) {
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		suggestions = append(suggestions, s)
	}
	for _, is := range issues {
		add(is.Suggestion)
	}
	if a.coverageAdvice {
		for _, s := range a.coverageSuggestions(claims) {
			add(s)
		}
	}
	return patent.NewAnalysisReport(language, claims, graph, issues, suggestions)
}

func (a aggregator) coverageSuggestions(claims patent.ClaimSet) []string {
	var out []string
	if len(claims) < a.minClaimsAdvisory {
		out = append(out, adviceMoreDependents)
	}
	if len(claims) > 1 {
		types := make(map[patent.ClaimType]struct{})
		for _, c := range claims {
			types[c.Type] = struct{}{}
		}
		if len(types) == 1 {
			out = append(out, adviceMoreCategories)
		}
	}
	return out
}

func orderIssues(stages ...[]patent.Issue) []patent.Issue {
	var all []patent.Issue
	for _, s := range stages {
		all = append(all, s...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.IsSetLevel() != b.IsSetLevel() {
			return !a.IsSetLevel()
		}
		return a.ClaimNumber < b.ClaimNumber
	})
	return all
}

//Personal.AI order the ending
