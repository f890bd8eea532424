package patent

import "math"

// ParameterKind classifies a quantitative process parameter.
type ParameterKind string

const (
	ParameterTemperature ParameterKind = "temperature"
	ParameterTime        ParameterKind = "time"
	ParameterPercentage  ParameterKind = "percentage"
	ParameterPressure    ParameterKind = "pressure"
)

// AllParameterKinds lists the kinds in report order.
var AllParameterKinds = []ParameterKind{ParameterTemperature, ParameterTime, ParameterPercentage, ParameterPressure}

// Parameter is a number with a unit found in a claim, e.g. "80 °C".
type Parameter struct {
	Kind        ParameterKind
	ClaimNumber int
	Value       float64
	Unit        string
}

// TechnicalFeatures are the technical terms and parameters of a claim set.
// Entity and process lists are distinct and sorted.
type TechnicalFeatures struct {
	ChemicalEntities []string
	Processes        []string
	Parameters       []Parameter
}

// KeywordHit records one keyword in one claim with the surrounding text.
type KeywordHit struct {
	ClaimNumber int
	Keyword     string
	Context     string
}

// Innovation levels.
const (
	InnovationHigh   = "high"
	InnovationMedium = "medium"
	InnovationLow    = "low"
)

// Innovations collects novelty and advantage wording.  Score is the weighted
// hit count per claim: a novelty keyword counts 1, an advantage keyword 0.5.
type Innovations struct {
	NovelFeatures       []KeywordHit
	TechnicalAdvantages []KeywordHit
	Score               float64
}

// InnovationLevel buckets a score: above 0.5 is high, above 0.2 medium.
func InnovationLevel(score float64) string {
	switch {
	case score > 0.5:
		return InnovationHigh
	case score > 0.2:
		return InnovationMedium
	default:
		return InnovationLow
	}
}

// Level returns the bucket of Score.
func (in Innovations) Level() string { return InnovationLevel(in.Score) }

// NewInnovationScore weighs the hits over the claim count.
func NewInnovationScore(novel, advantages, claims int) float64 {
	if claims < 1 {
		claims = 1
	}
	return round((float64(novel)+0.5*float64(advantages))/float64(claims), 2)
}

// depthScale maps the highest complexity score onto the 0..1 depth range.
const depthScale = 20.0

// CoverageScope describes how widely and deeply the set protects the invention.
type CoverageScope struct {
	// BreadthScore is the share of the four substantive claim types present.
	BreadthScore float64
	// DepthScore is the highest complexity score over 20, capped at 1.
	DepthScore      float64
	ProtectionAreas map[ClaimType]int
}

// NewCoverageScope derives the coverage block from scored claims.
func NewCoverageScope(claims ClaimSet) CoverageScope {
	cs := CoverageScope{ProtectionAreas: make(map[ClaimType]int)}
	var maxScore float64
	for _, c := range claims {
		cs.ProtectionAreas[c.Type]++
		if c.ComplexityScore > maxScore {
			maxScore = c.ComplexityScore
		}
	}
	substantive := 0
	for _, t := range AllClaimTypes {
		if t != ClaimTypeOther && cs.ProtectionAreas[t] > 0 {
			substantive++
		}
	}
	cs.BreadthScore = round(float64(substantive)/4, 2)
	cs.DepthScore = round(math.Min(maxScore/depthScale, 1), 2)
	return cs
}

// Technical complexity levels.
const (
	ComplexityHigh   = "high"
	ComplexityMedium = "medium"
)

// highComplexityScore marks a claim as technically complex.
const highComplexityScore = 10.0

// Summary is the headline view of a report.
type Summary struct {
	TotalClaims         int
	IndependentClaims   int
	MainProtectionType  ClaimType
	InnovationLevel     string
	TechnicalComplexity string
	KeyFeaturesCount    int
}

// NewSummary condenses a claim set and its insights.
func NewSummary(claims ClaimSet, stats Statistics, features TechnicalFeatures, innovations Innovations) Summary {
	s := Summary{
		TotalClaims:         len(claims),
		IndependentClaims:   len(claims.IndependentClaims()),
		MainProtectionType:  stats.MainProtectionType,
		InnovationLevel:     innovations.Level(),
		TechnicalComplexity: ComplexityMedium,
		KeyFeaturesCount:    len(features.ChemicalEntities) + len(features.Processes),
	}
	for _, c := range claims {
		if c.ComplexityScore > highComplexityScore {
			s.TechnicalComplexity = ComplexityHigh
			break
		}
	}
	return s
}

// Insights is the technical reading of a claim set next to its structure.
type Insights struct {
	Features    TechnicalFeatures
	Innovations Innovations
	Coverage    CoverageScope
	Summary     Summary
}

func (in Insights) clone() Insights {
	out := in
	out.Features.ChemicalEntities = append([]string(nil), in.Features.ChemicalEntities...)
	out.Features.Processes = append([]string(nil), in.Features.Processes...)
	out.Features.Parameters = append([]Parameter(nil), in.Features.Parameters...)
	out.Innovations.NovelFeatures = append([]KeywordHit(nil), in.Innovations.NovelFeatures...)
	out.Innovations.TechnicalAdvantages = append([]KeywordHit(nil), in.Innovations.TechnicalAdvantages...)
	out.Coverage.ProtectionAreas = make(map[ClaimType]int, len(in.Coverage.ProtectionAreas))
	for k, v := range in.Coverage.ProtectionAreas {
		out.Coverage.ProtectionAreas[k] = v
	}
	return out
}

//Personal.AI order the ending
