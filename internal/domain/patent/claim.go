package patent

import (
	"sort"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// ClaimType classifies the subject matter of a claim.
type ClaimType uint8

const (
	ClaimTypeOther       ClaimType = 0
	ClaimTypeProduct     ClaimType = 1 // Devices, apparatus, systems
	ClaimTypeMethod      ClaimType = 2 // Methods and processes
	ClaimTypeUse         ClaimType = 3 // Use of a thing for a purpose
	ClaimTypeComposition ClaimType = 4 // Compounds, compositions, formulations
)

// AllClaimTypes lists every claim type in canonical order.
var AllClaimTypes = []ClaimType{
	ClaimTypeProduct,
	ClaimTypeMethod,
	ClaimTypeUse,
	ClaimTypeComposition,
	ClaimTypeOther,
}

func (t ClaimType) String() string {
	switch t {
	case ClaimTypeProduct:
		return "Product"
	case ClaimTypeMethod:
		return "Method"
	case ClaimTypeUse:
		return "Use"
	case ClaimTypeComposition:
		return "Composition"
	default:
		return "Other"
	}
}

func (t ClaimType) IsValid() bool {
	return t <= ClaimTypeComposition
}

// ParseClaimType is the inverse of String.  Unknown names map to Other.
func ParseClaimType(s string) ClaimType {
	for _, t := range AllClaimTypes {
		if t.String() == s {
			return t
		}
	}
	return ClaimTypeOther
}

// Claim is a single segmented claim together with everything the analysis
// pipeline learns about it.
type Claim struct {
	// Number is positional and 1-based; it never reflects the source label.
	Number int
	// Label is the literal numbering label found in the source text.  It is
	// empty when the input carried no numbering.
	Label          string
	RawText        string
	NormalizedText string
	WordCount      int

	Type ClaimType
	// ClassificationRule names the rule that decided Type.
	ClassificationRule string
	// DependentHint is set when a backward-reference phrase opens the claim.
	DependentHint bool

	IsIndependent bool
	// References holds validated parent claim numbers, ascending and distinct.
	References []int

	ClauseCount     int
	ComplexityScore float64
}

// IsDependent is the negation of IsIndependent.
func (c *Claim) IsDependent() bool {
	return !c.IsIndependent
}

// SetReferences stores refs sorted and de-duplicated and derives
// IsIndependent from them.
func (c *Claim) SetReferences(refs []int) error {
	seen := make(map[int]struct{}, len(refs))
	out := make([]int, 0, len(refs))
	for _, r := range refs {
		if r <= 0 || r >= c.Number {
			return errors.Newf(errors.ErrCodeValidation, "claim %d cannot reference claim %d", c.Number, r)
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Ints(out)
	c.References = out
	c.IsIndependent = len(out) == 0
	return nil
}

// Clone returns a deep copy of the claim.
func (c Claim) Clone() Claim {
	if c.References != nil {
		c.References = append([]int(nil), c.References...)
	}
	return c
}

// ClaimSet is an ordered sequence of claims in document order.
type ClaimSet []Claim

// Numbers returns the claim numbers in order.
func (cs ClaimSet) Numbers() []int {
	out := make([]int, len(cs))
	for i := range cs {
		out[i] = cs[i].Number
	}
	return out
}

// Contains reports whether a claim with the given number exists.
func (cs ClaimSet) Contains(number int) bool {
	_, ok := cs.FindByNumber(number)
	return ok
}

// FindByNumber looks a claim up by number.  Positional numbering makes this
// an index lookup, with a linear fallback for hand-built sets.
func (cs ClaimSet) FindByNumber(number int) (*Claim, bool) {
	if number >= 1 && number <= len(cs) && cs[number-1].Number == number {
		return &cs[number-1], true
	}
	for i := range cs {
		if cs[i].Number == number {
			return &cs[i], true
		}
	}
	return nil, false
}

// IndependentClaims returns the numbers of all independent claims.
func (cs ClaimSet) IndependentClaims() []int {
	var out []int
	for _, c := range cs {
		if c.IsIndependent {
			out = append(out, c.Number)
		}
	}
	return out
}

// DependentClaims returns the numbers of all dependent claims.
func (cs ClaimSet) DependentClaims() []int {
	var out []int
	for _, c := range cs {
		if !c.IsIndependent {
			out = append(out, c.Number)
		}
	}
	return out
}

// Clone deep-copies the set.
func (cs ClaimSet) Clone() ClaimSet {
	if cs == nil {
		return nil
	}
	out := make(ClaimSet, len(cs))
	for i := range cs {
		out[i] = cs[i].Clone()
	}
	return out
}

// Validate checks the structural invariants of a resolved set: positional
// numbering, backward-only references, and independence consistent with
// references.
func (cs ClaimSet) Validate() error {
	if len(cs) == 0 {
		return errors.New(errors.ErrCodeValidation, "claim set is empty")
	}
	for i, c := range cs {
		if c.Number != i+1 {
			return errors.Newf(errors.ErrCodeValidation, "claim at position %d has number %d", i+1, c.Number)
		}
		if !c.Type.IsValid() {
			return errors.Newf(errors.ErrCodeValidation, "claim %d has invalid type", c.Number)
		}
		if c.ComplexityScore < 0 {
			return errors.Newf(errors.ErrCodeValidation, "claim %d has negative complexity score", c.Number)
		}
		for _, r := range c.References {
			if r < 1 || r >= c.Number {
				return errors.Newf(errors.ErrCodeValidation, "claim %d has invalid reference to %d", c.Number, r)
			}
		}
		if c.IsIndependent != (len(c.References) == 0) {
			return errors.Newf(errors.ErrCodeValidation, "claim %d independence does not match its references", c.Number)
		}
	}
	return nil
}

//Personal.AI order the ending
