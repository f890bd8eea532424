package claim_analyzer

import (
	"fmt"
	"math"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

// detectionRule inspects a resolved, scored claim set.  Rules are stateless
// and independent of each other.
type detectionRule struct {
	name  string
	check func(claims patent.ClaimSet, graph *patent.DependencyGraph) []patent.Issue
}

// Detector runs the drafting-issue rules.
type Detector struct {
	rules []detectionRule
}

// DetectorConfig carries the detector thresholds.
type DetectorConfig struct {
	LengthThreshold      int
	OutlierSigma         float64
	MaxIndependentClaims int
}

// NewDetector wires the rule list in evaluation order.
func NewDetector(cfg DetectorConfig) *Detector {
	return &Detector{rules: []detectionRule{
		{name: "excessive-length", check: excessiveLength(cfg.LengthThreshold)},
		{name: "no-independent-claim", check: noIndependentClaim},
		{name: "orphan-independent-cluster", check: orphanIndependentCluster},
		{name: "high-complexity-outlier", check: highComplexityOutlier(cfg.OutlierSigma)},
		{name: "too-many-independent-claims", check: tooManyIndependentClaims(cfg.MaxIndependentClaims)},
	}}
}

// Detect runs every rule and returns the issues in rule order.
func (d *Detector) Detect(claims patent.ClaimSet, graph *patent.DependencyGraph) []patent.Issue {
	var out []patent.Issue
	for _, r := range d.rules {
		out = append(out, r.check(claims, graph)...)
	}
	return out
}

func excessiveLength(threshold int) func(patent.ClaimSet, *patent.DependencyGraph) []patent.Issue {
	return func(claims patent.ClaimSet, _ *patent.DependencyGraph) []patent.Issue {
		var out []patent.Issue
		for _, c := range claims {
			if c.WordCount > threshold {
				out = append(out, patent.NewClaimIssue(
					patent.IssueExcessiveLength, c.Number,
					fmt.Sprintf("claim %d has %d words, above the limit of %d", c.Number, c.WordCount, threshold),
					fmt.Sprintf("Consider splitting claim %d into an independent claim and dependent claims.", c.Number),
				))
			}
		}
		return out
	}
}

func noIndependentClaim(claims patent.ClaimSet, _ *patent.DependencyGraph) []patent.Issue {
	if len(claims) == 0 || len(claims.IndependentClaims()) > 0 {
		return nil
	}
	return []patent.Issue{patent.NewSetIssue(
		patent.IssueNoIndependentClaim,
		"the claim set has no independent claim",
		"Add at least one independent claim defining the core protection.",
	)}
}

// orphanIndependentCluster flags independent claims nobody depends on, but
// only when other claims in the set do have dependents.
func orphanIndependentCluster(claims patent.ClaimSet, graph *patent.DependencyGraph) []patent.Issue {
	if graph == nil || graph.EdgeCount() == 0 {
		return nil
	}
	var out []patent.Issue
	for _, c := range claims {
		if c.IsIndependent && len(graph.Children(c.Number)) == 0 {
			out = append(out, patent.NewClaimIssue(
				patent.IssueOrphanIndependentCluster, c.Number,
				fmt.Sprintf("independent claim %d has no dependent claims while other claims in the set do", c.Number),
				fmt.Sprintf("Review whether claim %d needs dependent claims covering fallback positions.", c.Number),
			))
		}
	}
	return out
}

// highComplexityOutlier flags scores above mean + sigma standard deviations
// (population deviation over the whole set).
func highComplexityOutlier(sigma float64) func(patent.ClaimSet, *patent.DependencyGraph) []patent.Issue {
	return func(claims patent.ClaimSet, _ *patent.DependencyGraph) []patent.Issue {
		if len(claims) < 2 {
			return nil
		}
		mean, std := meanStd(claims)
		if std == 0 {
			return nil
		}
		limit := mean + sigma*std
		var out []patent.Issue
		for _, c := range claims {
			if c.ComplexityScore > limit {
				out = append(out, patent.NewClaimIssue(
					patent.IssueHighComplexityOutlier, c.Number,
					fmt.Sprintf("claim %d has complexity %.2f, above the set threshold %.2f", c.Number, c.ComplexityScore, limit),
					fmt.Sprintf("Simplify the wording of claim %d or move features into dependent claims.", c.Number),
				))
			}
		}
		return out
	}
}

func meanStd(claims patent.ClaimSet) (float64, float64) {
	var sum float64
	for _, c := range claims {
		sum += c.ComplexityScore
	}
	mean := sum / float64(len(claims))
	var sq float64
	for _, c := range claims {
		d := c.ComplexityScore - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(claims)))
}

func tooManyIndependentClaims(limit int) func(patent.ClaimSet, *patent.DependencyGraph) []patent.Issue {
	return func(claims patent.ClaimSet, _ *patent.DependencyGraph) []patent.Issue {
		n := len(claims.IndependentClaims())
		if limit <= 0 || n <= limit {
			return nil
		}
		return []patent.Issue{patent.NewSetIssue(
			patent.IssueTooManyIndependentClaims,
			fmt.Sprintf("the claim set has %d independent claims, more than %d", n, limit),
			"Consider consolidating the independent claims.",
		)}
	}
}

//Personal.AI order the ending
