package claim_analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

func claimSet(texts ...string) patent.ClaimSet {
	cs := make(patent.ClaimSet, len(texts))
	for i, text := range texts {
		cs[i] = patent.Claim{Number: i + 1, RawText: text, NormalizedText: text}
	}
	return cs
}

func numbers(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}
	return out
}

func TestResolver_Extract(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)

	tests := []struct {
		name string
		text string
		want []int
	}{
		{"single", "The compound of claim 1, wherein X is F.", []int{1}},
		{"range", "The compound of any one of claims 1 to 3.", []int{1, 2, 3}},
		{"hyphen range", "The kit of claims 2-4.", []int{2, 3, 4}},
		{"list", "The kit of claims 1, 2 or 5.", []int{1, 2, 5}},
		{"comma or", "The kit of claims 1, or 2.", []int{1, 2}},
		{"and/or", "The kit of claims 1 and/or 3.", []int{1, 3}},
		{"repeated claim word", "The kit of claim 1 or claim 2.", []int{1, 2}},
		{"mixed range and list", "The kit of claims 1 to 3 and 6.", []int{1, 2, 3, 6}},
		{"reversed range keeps endpoints", "The kit of claims 5 to 3.", []int{3, 5}},
		{"wide range expands below the claim", "The kit of claims 1 to 500.", append(numbers(1, 49), 500)},
		{"wide range from a later start", "The kit of claims 60 to 500.", []int{60, 500}},
		{"singular claim word takes one number", "The composition of claim 1 and 2 wt% of water.", []int{1}},
		{"singular claim word with range", "The kit of claim 1 to 3.", []int{1, 2, 3}},
		{"plural list with units", "The composition of claims 1 and 2 with 5 wt% water.", []int{1, 2}},
		{"claimed is not claim", "A kit as claimed in claim 2.", []int{2}},
		{"case insensitive", "The kit of CLAIM 4.", []int{4}},
		{"duplicates collapse", "The kit of claim 2 and of claim 2.", []int{2}},
		{"no reference", "A kit comprising 3 parts.", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Extract(tt.text, 50))
		})
	}
}

func TestResolver_ExtractChinese(t *testing.T) {
	r := newResolver(mustCompile(t, chineseTable()), DefaultMaxRangeSpan)
	assert.Equal(t, []int{1}, r.Extract("根据权利要求1所述的化合物", 5))
	assert.Equal(t, []int{1, 2, 3}, r.Extract("根据权利要求1至3任一项所述的方法", 5))
	assert.Equal(t, []int{1, 4}, r.Extract("如权利要求1或4所述的装置", 5))
}

func TestResolver_Resolve_BuildsBackwardGraph(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet(
		"A compound comprising X.",
		"The compound of claim 1, wherein X is F.",
		"The compound of claim 1 or 2, wherein Y is Cl.",
		"A method of making the compound of claim 1.",
	)
	graph, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	assert.Empty(t, issues)

	assert.True(t, claims[0].IsIndependent)
	assert.Equal(t, []int{1}, claims[1].References)
	assert.Equal(t, []int{1, 2}, claims[2].References)
	assert.False(t, claims[3].IsIndependent)

	assert.Equal(t, 4, graph.EdgeCount())
	assert.Equal(t, []int{2, 3, 4}, graph.Children(1))
	for _, e := range graph.Edges() {
		assert.Less(t, e.To, e.From)
	}
	assert.False(t, graph.HasCycle())
}

func TestResolver_Resolve_ForwardToMissingClaim(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet("A method of claim 5.")
	graph, issues, err := r.Resolve(claims)
	require.NoError(t, err)

	assert.Equal(t, []patent.IssueKind{patent.IssueDanglingReference, patent.IssueForwardReference}, issueKinds(issues))
	assert.True(t, claims[0].IsIndependent)
	assert.Empty(t, claims[0].References)
	assert.Equal(t, []patent.DanglingReference{{From: 1, To: 5}}, graph.Dangling())
	assert.Zero(t, graph.EdgeCount())
}

func TestResolver_Resolve_ForwardToExistingClaim(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet("A kit of claim 2.", "A kit.")
	_, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	assert.Equal(t, []patent.IssueKind{patent.IssueForwardReference}, issueKinds(issues))
	assert.True(t, claims[0].IsIndependent)
}

func TestResolver_Resolve_SelfReference(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet("A kit.", "The kit of claim 1.", "The kit of claim 3.")
	_, issues, err := r.Resolve(claims)
	require.NoError(t, err)

	require.Len(t, issues, 1)
	assert.Equal(t, patent.IssueSelfReference, issues[0].Kind)
	assert.Equal(t, 3, issues[0].ClaimNumber)
	assert.True(t, claims[2].IsIndependent)
}

func TestResolver_Resolve_SelfReferenceKeepsOtherReferences(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet("A kit.", "The kit of claim 1 or 2.")
	_, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	assert.Equal(t, []patent.IssueKind{patent.IssueSelfReference}, issueKinds(issues))
	assert.Equal(t, []int{1}, claims[1].References)
}

func TestResolver_Resolve_PrecedingClaimPhrases(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet(
		"A kit.",
		"The kit of the preceding claim, wherein the lid is red.",
		"The kit of any preceding claim, wherein the box is blue.",
	)
	_, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, []int{1}, claims[1].References)
	assert.Equal(t, []int{1, 2}, claims[2].References)
}

func TestResolver_Resolve_UnresolvedHint(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet("A kit.", "The kit as described above.")
	claims[1].DependentHint = true

	_, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, patent.IssueUnresolvedReference, issues[0].Kind)
	assert.Equal(t, 2, issues[0].ClaimNumber)
	assert.True(t, claims[1].IsIndependent)
}

func TestResolver_Resolve_PrecedingClaimOnFirstClaim(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet("The kit of the preceding claim.")
	_, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	assert.Equal(t, []patent.IssueKind{patent.IssueUnresolvedReference}, issueKinds(issues))
	assert.True(t, claims[0].IsIndependent)
}

func TestResolver_Resolve_WideRangeWithinSet(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	texts := make([]string, 120)
	for i := range texts {
		texts[i] = "A compound."
	}
	texts[119] = "The compound according to any one of claims 1 to 110."
	claims := claimSet(texts...)

	graph, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, numbers(1, 110), claims[119].References)
	assert.Equal(t, 110, graph.EdgeCount())
}

func TestResolver_Resolve_WideRangePastSet(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet("A kit.", "A kit.", "A kit.", "A kit.", "The kit of any one of claims 1 to 300.")

	graph, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, claims[4].References)
	assert.Equal(t, []patent.IssueKind{patent.IssueDanglingReference, patent.IssueForwardReference}, issueKinds(issues))
	assert.Equal(t, []patent.DanglingReference{{From: 5, To: 300}}, graph.Dangling())
}

func TestResolver_Resolve_SingularClaimWithUnits(t *testing.T) {
	r := newResolver(mustCompile(t, englishTable()), DefaultMaxRangeSpan)
	claims := claimSet("A composition.", "A composition.", "The composition of claim 1 and 2 wt% of water.")

	_, issues, err := r.Resolve(claims)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, []int{1}, claims[2].References)
}

//Personal.AI order the ending
