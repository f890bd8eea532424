package claim_analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

// Resolver extracts backward references and builds the dependency graph.
type Resolver struct {
	ct           *compiledTable
	maxRangeSpan int
}

func newResolver(ct *compiledTable, maxRangeSpan int) *Resolver {
	return &Resolver{ct: ct, maxRangeSpan: maxRangeSpan}
}

// Extract returns the distinct candidate reference numbers in ascending order
// for the claim numbered number.  Ranges expand inclusively.  A range wider
// than the configured span expands only below number and keeps its upper
// endpoint, so an out-of-range end is still validated.  A range written
// backwards contributes only its endpoints.
func (r *Resolver) Extract(normalized string, number int) []int {
	seen := make(map[int]struct{})
	r.collect(r.ct.reference, normalized, number, seen)
	if r.ct.single != nil {
		r.collect(r.ct.single, normalized, number, seen)
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (r *Resolver) collect(re *regexp.Regexp, normalized string, number int, seen map[int]struct{}) {
	for _, m := range re.FindAllStringSubmatch(normalized, -1) {
		for _, part := range r.ct.numberRange.FindAllStringSubmatch(m[1], -1) {
			lo, err := strconv.Atoi(part[1])
			if err != nil {
				continue
			}
			seen[lo] = struct{}{}
			if part[2] == "" {
				continue
			}
			hi, err := strconv.Atoi(part[2])
			if err != nil {
				continue
			}
			seen[hi] = struct{}{}
			if lo >= hi {
				continue
			}
			upper := hi - 1
			if hi-lo > r.maxRangeSpan && upper > number-1 {
				upper = number - 1
			}
			for n := lo + 1; n <= upper; n++ {
				seen[n] = struct{}{}
			}
		}
	}
}

// precedingReferences resolves "any preceding claim" style phrasing that
// carries no claim numbers.
func (r *Resolver) precedingReferences(lower string, number int) ([]int, bool) {
	for _, p := range r.ct.precedingAll {
		if strings.Contains(lower, p) {
			refs := make([]int, 0, number-1)
			for n := 1; n < number; n++ {
				refs = append(refs, n)
			}
			return refs, true
		}
	}
	for _, p := range r.ct.precedingOne {
		if strings.Contains(lower, p) {
			if number > 1 {
				return []int{number - 1}, true
			}
			return nil, true
		}
	}
	return nil, false
}

// Resolve validates every candidate reference, stores the surviving ones on
// the claims and returns the graph with the reference issues in claim order.
// Each candidate r of claim c is checked in turn: r == c is a self reference;
// r outside the set is dangling; r > c is a forward reference.  A reference
// to a missing later claim is reported both as dangling and as forward.
func (r *Resolver) Resolve(claims patent.ClaimSet) (*patent.DependencyGraph, []patent.Issue, error) {
	var (
		issues   []patent.Issue
		dangling []patent.DanglingReference
	)
	for i := range claims {
		c := &claims[i]
		candidates := r.Extract(c.NormalizedText, c.Number)
		if len(candidates) == 0 {
			refs, found := r.precedingReferences(strings.ToLower(c.NormalizedText), c.Number)
			switch {
			case found && len(refs) > 0:
				candidates = refs
			case found || c.DependentHint:
				issues = append(issues, patent.NewClaimIssue(
					patent.IssueUnresolvedReference, c.Number,
					fmt.Sprintf("claim %d reads as dependent but no earlier claim number could be resolved", c.Number),
					fmt.Sprintf("State the claim number that claim %d depends on.", c.Number),
				))
			}
		}

		valid := make([]int, 0, len(candidates))
		for _, ref := range candidates {
			switch {
			case ref == c.Number:
				issues = append(issues, patent.NewClaimIssue(
					patent.IssueSelfReference, c.Number,
					fmt.Sprintf("claim %d references itself", c.Number),
					fmt.Sprintf("Remove the self-reference from claim %d.", c.Number),
				))
			case !claims.Contains(ref):
				dangling = append(dangling, patent.DanglingReference{From: c.Number, To: ref})
				issues = append(issues, patent.NewClaimIssue(
					patent.IssueDanglingReference, c.Number,
					fmt.Sprintf("claim %d references claim %d, which does not exist", c.Number, ref),
					fmt.Sprintf("Correct the reference to claim %d in claim %d.", ref, c.Number),
				))
				if ref > c.Number {
					issues = append(issues, forwardIssue(c.Number, ref))
				}
			case ref > c.Number:
				issues = append(issues, forwardIssue(c.Number, ref))
			default:
				valid = append(valid, ref)
			}
		}
		if err := c.SetReferences(valid); err != nil {
			return nil, nil, err
		}
	}

	graph, err := patent.NewDependencyGraph(claims, dangling)
	if err != nil {
		return nil, nil, err
	}
	return graph, issues, nil
}

func forwardIssue(claim, ref int) patent.Issue {
	return patent.NewClaimIssue(
		patent.IssueForwardReference, claim,
		fmt.Sprintf("claim %d references later claim %d", claim, ref),
		"Make each dependent claim refer only to earlier claims.",
	)
}

//Personal.AI order the ending
