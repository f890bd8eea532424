package claims

import (
	"sort"

	domain "github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

// ToResponse converts a domain report to its wire form.  Slices are never
// nil so that JSON always carries arrays.
func ToResponse(r *domain.AnalysisReport) *patent.AnalysisResponse {
	claims := r.Claims()
	resp := &patent.AnalysisResponse{
		TotalClaims:       r.TotalClaims(),
		Claims:            make([]patent.ClaimDTO, 0, len(claims)),
		IndependentClaims: nonNil(r.IndependentClaims()),
		DependentClaims:   nonNil(r.DependentClaims()),
		Issues:            []patent.IssueDTO{},
		Suggestions:       r.Suggestions(),
		Language:          r.Language(),
		Statistics:        toStatistics(r.Statistics()),
		Insights:          toInsights(r.Insights()),
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}

	for _, c := range claims {
		resp.Claims = append(resp.Claims, patent.ClaimDTO{
			Number:             c.Number,
			Label:              c.Label,
			Type:               c.Type.String(),
			IsIndependent:      c.IsIndependent,
			WordCount:          c.WordCount,
			ClauseCount:        c.ClauseCount,
			ComplexityScore:    c.ComplexityScore,
			Text:               c.NormalizedText,
			ClassificationRule: c.ClassificationRule,
			References:         nonNil(c.References),
		})
	}

	for _, is := range r.Issues() {
		dto := patent.IssueDTO{
			Kind:       string(is.Kind),
			Severity:   string(is.Severity),
			Message:    is.Message,
			Suggestion: is.Suggestion,
		}
		if !is.IsSetLevel() {
			n := is.ClaimNumber
			dto.ClaimNumber = &n
		}
		resp.Issues = append(resp.Issues, dto)
	}

	if g := r.Graph(); g != nil {
		for _, d := range g.Dangling() {
			resp.DanglingReferences = append(resp.DanglingReferences, patent.ReferenceDTO{From: d.From, To: d.To})
		}
	}
	return resp
}

func toStatistics(st domain.Statistics) patent.StatisticsDTO {
	out := patent.StatisticsDTO{
		MinWords:           st.MinWords,
		MaxWords:           st.MaxWords,
		AvgWords:           st.AvgWords,
		MedianWords:        st.MedianWords,
		MinComplexity:      st.MinComplexity,
		MaxComplexity:      st.MaxComplexity,
		AvgComplexity:      st.AvgComplexity,
		TypeDistribution:   make(map[string]int, len(st.TypeDistribution)),
		MainProtectionType: st.MainProtectionType.String(),
		MaxDependencyDepth: st.MaxDependencyDepth,
		DependencyLevels:   st.DependencyLevels,
	}
	for t, n := range st.TypeDistribution {
		out.TypeDistribution[t.String()] = n
	}
	if out.DependencyLevels == nil {
		out.DependencyLevels = map[int]int{}
	}
	return out
}

func toInsights(in domain.Insights) *patent.InsightsDTO {
	out := &patent.InsightsDTO{
		TechnicalFeatures: patent.TechnicalFeaturesDTO{
			ChemicalEntities: nonNilStrings(in.Features.ChemicalEntities),
			Processes:        nonNilStrings(in.Features.Processes),
			Parameters:       make([]patent.ParameterDTO, 0, len(in.Features.Parameters)),
		},
		Innovations: patent.InnovationsDTO{
			NovelFeatures:       toHits(in.Innovations.NovelFeatures),
			TechnicalAdvantages: toHits(in.Innovations.TechnicalAdvantages),
			Score:               in.Innovations.Score,
			Level:               in.Innovations.Level(),
		},
		Coverage: patent.CoverageDTO{
			BreadthScore:    in.Coverage.BreadthScore,
			DepthScore:      in.Coverage.DepthScore,
			ProtectionAreas: make(map[string]int, len(in.Coverage.ProtectionAreas)),
		},
		Summary: patent.SummaryDTO{
			TotalClaims:         in.Summary.TotalClaims,
			IndependentClaims:   in.Summary.IndependentClaims,
			MainProtectionType:  in.Summary.MainProtectionType.String(),
			InnovationLevel:     in.Summary.InnovationLevel,
			TechnicalComplexity: in.Summary.TechnicalComplexity,
			KeyFeaturesCount:    in.Summary.KeyFeaturesCount,
		},
	}
	for _, p := range in.Features.Parameters {
		out.TechnicalFeatures.Parameters = append(out.TechnicalFeatures.Parameters, patent.ParameterDTO{
			Kind:        string(p.Kind),
			ClaimNumber: p.ClaimNumber,
			Value:       p.Value,
			Unit:        p.Unit,
		})
	}
	for t, n := range in.Coverage.ProtectionAreas {
		out.Coverage.ProtectionAreas[t.String()] = n
	}
	return out
}

func toHits(hits []domain.KeywordHit) []patent.KeywordHitDTO {
	out := make([]patent.KeywordHitDTO, 0, len(hits))
	for _, h := range hits {
		out = append(out, patent.KeywordHitDTO{ClaimNumber: h.ClaimNumber, Keyword: h.Keyword, Context: h.Context})
	}
	return out
}

func nonNilStrings(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

func nonNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	out := append([]int(nil), xs...)
	sort.Ints(out)
	return out
}

//Personal.AI order the ending
