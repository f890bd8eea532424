package patent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredSet() ClaimSet {
	cs := newResolvedSet()
	for i := range cs {
		cs[i].WordCount = (i + 1) * 10
		cs[i].ComplexityScore = float64(i + 1)
	}
	return cs
}

func TestNewStatistics(t *testing.T) {
	cs := scoredSet()
	g, err := NewDependencyGraph(cs, nil)
	require.NoError(t, err)

	st := NewStatistics(cs, g)
	assert.Equal(t, 10, st.MinWords)
	assert.Equal(t, 40, st.MaxWords)
	assert.Equal(t, 25.0, st.AvgWords)
	assert.Equal(t, 30, st.MedianWords)
	assert.Equal(t, 1.0, st.MinComplexity)
	assert.Equal(t, 4.0, st.MaxComplexity)
	assert.Equal(t, 2.5, st.AvgComplexity)
	assert.Equal(t, map[ClaimType]int{ClaimTypeComposition: 2, ClaimTypeMethod: 2}, st.TypeDistribution)
	// Method precedes Composition in canonical order, so it wins the tie.
	assert.Equal(t, ClaimTypeMethod, st.MainProtectionType)
	assert.Equal(t, 2, st.MaxDependencyDepth)
}

func TestNewStatistics_Empty(t *testing.T) {
	st := NewStatistics(nil, nil)
	assert.Zero(t, st.MaxWords)
	assert.Empty(t, st.TypeDistribution)
}

func TestAnalysisReport_CountsAndCopies(t *testing.T) {
	cs := scoredSet()
	g, err := NewDependencyGraph(cs, nil)
	require.NoError(t, err)

	issues := []Issue{
		NewClaimIssue(IssueExcessiveLength, 4, "long", "split it"),
		NewSetIssue(IssueTooManyIndependentClaims, "many", ""),
	}
	r := NewAnalysisReport("en", cs, g, issues, []string{"split it"})

	assert.Equal(t, "en", r.Language())
	assert.Equal(t, 4, r.TotalClaims())
	assert.Equal(t, 2, r.IndependentCount())
	assert.Equal(t, 2, r.DependentCount())
	assert.Equal(t, r.TotalClaims(), r.IndependentCount()+r.DependentCount())
	assert.Equal(t, []int{1, 3}, r.IndependentClaims())
	assert.Equal(t, []int{2, 4}, r.DependentClaims())
	assert.True(t, r.HasIssue(IssueExcessiveLength))
	assert.False(t, r.HasIssue(IssueSelfReference))
	assert.Len(t, r.IssuesFor(4), 1)

	// Mutating the inputs or the returned copies must not leak into the report.
	cs[0].Type = ClaimTypeUse
	issues[0].Message = "changed"
	got := r.Claims()
	got[1].References[0] = 3
	r.Suggestions()[0] = "changed"
	r.Statistics().TypeDistribution[ClaimTypeUse] = 9

	assert.Equal(t, ClaimTypeComposition, r.Claims()[0].Type)
	assert.Equal(t, "long", r.Issues()[0].Message)
	assert.Equal(t, []int{1}, r.Claims()[1].References)
	assert.Equal(t, []string{"split it"}, r.Suggestions())
	assert.NotContains(t, r.Statistics().TypeDistribution, ClaimTypeUse)
}

func TestIssue_Constructors(t *testing.T) {
	ci := NewClaimIssue(IssueForwardReference, 2, "m", "s")
	assert.False(t, ci.IsSetLevel())
	assert.Equal(t, SeverityWarning, ci.Severity)

	si := NewSetIssue(IssueNoIndependentClaim, "m", "s")
	assert.True(t, si.IsSetLevel())
	assert.Equal(t, SeverityError, si.Severity)

	assert.Equal(t, SeverityInfo, IssueOrphanIndependentCluster.DefaultSeverity())
	assert.Equal(t, SeverityInfo, IssueHighComplexityOutlier.DefaultSeverity())
}

//Personal.AI order the ending
