package claim_analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

func TestOrderIssues_ClaimIssuesFirstThenSetLevel(t *testing.T) {
	seg := []patent.Issue{
		patent.NewSetIssue(patent.IssueNoNumberingDetected, "m", "s1"),
		patent.NewClaimIssue(patent.IssueEmptyClaim, 3, "m", "s2"),
	}
	ref := []patent.Issue{
		patent.NewClaimIssue(patent.IssueDanglingReference, 1, "m", "s3"),
		patent.NewClaimIssue(patent.IssueForwardReference, 1, "m", "s4"),
	}
	det := []patent.Issue{
		patent.NewClaimIssue(patent.IssueExcessiveLength, 2, "m", "s5"),
		patent.NewSetIssue(patent.IssueTooManyIndependentClaims, "m", "s6"),
	}

	got := orderIssues(seg, ref, det)
	assert.Equal(t, []patent.IssueKind{
		patent.IssueDanglingReference,
		patent.IssueForwardReference,
		patent.IssueExcessiveLength,
		patent.IssueEmptyClaim,
		patent.IssueNoNumberingDetected,
		patent.IssueTooManyIndependentClaims,
	}, issueKinds(got))
}

func TestAggregate_SuggestionsAreDistinctAndOrdered(t *testing.T) {
	cs := independentSet(1, 1)
	cs[1].Type = patent.ClaimTypeMethod
	issues := []patent.Issue{
		patent.NewClaimIssue(patent.IssueForwardReference, 2, "m", "fix forward"),
		patent.NewClaimIssue(patent.IssueForwardReference, 1, "m", "fix forward"),
		patent.NewSetIssue(patent.IssueLanguageFallback, "m", ""),
	}
	report := aggregator{}.Aggregate("en", cs, nil, issues)

	assert.Equal(t, []string{"fix forward"}, report.Suggestions())
	assert.Equal(t, 1, report.Issues()[0].ClaimNumber)
	assert.Equal(t, "en", report.Language())
}

func TestAggregate_CoverageAdvice(t *testing.T) {
	a := aggregator{coverageAdvice: true, minClaimsAdvisory: DefaultMinClaimsAdvisory}

	few := independentSet(1, 1)
	report := a.Aggregate("en", few, nil)
	assert.Equal(t, []string{adviceMoreDependents, adviceMoreCategories}, report.Suggestions())
	assert.Empty(t, report.Issues())

	mixed := independentSet(1, 1, 1, 1, 1)
	mixed[4].Type = patent.ClaimTypeUse
	assert.Empty(t, a.Aggregate("en", mixed, nil).Suggestions())

	single := independentSet(1)
	assert.Equal(t, []string{adviceMoreDependents}, a.Aggregate("en", single, nil).Suggestions())
}

func TestAggregate_CoverageAdviceDisabled(t *testing.T) {
	report := aggregator{}.Aggregate("en", independentSet(1), nil)
	assert.Empty(t, report.Suggestions())
}

//Personal.AI order the ending
