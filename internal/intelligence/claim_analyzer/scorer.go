package claim_analyzer

import (
	"math"
	"strings"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

// ScoringWeights are the coefficients of the complexity formula
//
//	score = word_weight*ln(1+words) + clause_weight*clauses + dependency_weight*references
type ScoringWeights struct {
	WordWeight       float64 `mapstructure:"word_weight" yaml:"word_weight" json:"word_weight"`
	ClauseWeight     float64 `mapstructure:"clause_weight" yaml:"clause_weight" json:"clause_weight"`
	DependencyWeight float64 `mapstructure:"dependency_weight" yaml:"dependency_weight" json:"dependency_weight"`
}

// DefaultScoringWeights returns 1.0 / 2.0 / 1.5.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		WordWeight:       1.0,
		ClauseWeight:     2.0,
		DependencyWeight: 1.5,
	}
}

// Scorer computes claim complexity.  It is pure and safe for concurrent use.
type Scorer struct {
	ct      *compiledTable
	weights ScoringWeights
}

func newScorer(ct *compiledTable, w ScoringWeights) *Scorer {
	return &Scorer{ct: ct, weights: w}
}

// CountClauses counts structural markers ("wherein", "further comprising",
// "and/or", ...) plus clause separators such as semicolons.
func (s *Scorer) CountClauses(normalized string) int {
	n := 0
	if s.ct.clause != nil {
		n += len(s.ct.clause.FindAllStringIndex(normalized, -1))
	}
	for _, sep := range s.ct.table.ClauseSeparators {
		if sep != "" {
			n += strings.Count(normalized, sep)
		}
	}
	return n
}

// Score returns the clause count and the complexity score of c, using its
// validated reference count.
func (s *Scorer) Score(c *patent.Claim) (int, float64) {
	clauses := s.CountClauses(c.NormalizedText)
	return clauses, ComplexityScore(s.weights, c.WordCount, clauses, len(c.References))
}

// ComplexityScore evaluates the formula and rounds to four decimals.
func ComplexityScore(w ScoringWeights, words, clauses, references int) float64 {
	score := w.WordWeight*math.Log1p(float64(words)) +
		w.ClauseWeight*float64(clauses) +
		w.DependencyWeight*float64(references)
	if score < 0 {
		return 0
	}
	return math.Round(score*1e4) / 1e4
}

//Personal.AI order the ending
