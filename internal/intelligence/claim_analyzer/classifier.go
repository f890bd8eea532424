package claim_analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

// Rule names reported in Claim.ClassificationRule.
const (
	RuleComposition = "composition-opening"
	RuleMethod      = "method-opening"
	RuleUse         = "use-opening"
	RuleProduct     = "product-opening"
	RuleDefault     = "default"
	RuleInherited   = "inherited"
)

// Classification is the classifier's verdict for one claim.
type Classification struct {
	Type          patent.ClaimType
	Rule          string
	DependentHint bool
}

// classificationRule pairs a predicate over lower-cased normalized text with
// the claim type it assigns.
type classificationRule struct {
	name      string
	claimType patent.ClaimType
	matches   func(lower string) bool
}

// Classifier assigns claim types by evaluating an ordered rule list; the
// first matching rule wins.
type Classifier struct {
	ct    *compiledTable
	rules []classificationRule
}

func newClassifier(ct *compiledTable) *Classifier {
	t := ct.table
	opening := func(phrases []string) func(string) bool {
		lowered := make([]string, len(phrases))
		for i, p := range phrases {
			lowered[i] = strings.ToLower(p)
		}
		if t.OpeningMode == OpeningPreambleSuffix {
			return func(lower string) bool { return preambleEndsWith(lower, t.PreambleDelimiters, lowered) }
		}
		return func(lower string) bool { return opensWith(lower, t.Articles, lowered) }
	}
	return &Classifier{
		ct: ct,
		rules: []classificationRule{
			{name: RuleComposition, claimType: patent.ClaimTypeComposition, matches: opening(t.CompositionOpenings)},
			{name: RuleMethod, claimType: patent.ClaimTypeMethod, matches: opening(t.MethodOpenings)},
			{name: RuleUse, claimType: patent.ClaimTypeUse, matches: opening(t.UseOpenings)},
			{name: RuleProduct, claimType: patent.ClaimTypeProduct, matches: opening(t.ProductOpenings)},
		},
	}
}

// Classify returns the type and the dependent hint for normalized claim text.
func (c *Classifier) Classify(normalized string) Classification {
	lower := strings.ToLower(normalized)
	out := Classification{Type: patent.ClaimTypeOther, Rule: RuleDefault}
	if c.ct.hint != nil {
		out.DependentHint = c.ct.hint.MatchString(runePrefix(lower, c.ct.table.ReferenceWindow))
	}
	for _, r := range c.rules {
		if r.matches(lower) {
			out.Type, out.Rule = r.claimType, r.name
			break
		}
	}
	return out
}

// opensWith strips one leading article and reports whether the remainder
// starts with one of phrases at a word boundary.
func opensWith(lower string, articles, phrases []string) bool {
	rest := lower
	for _, a := range articles {
		a = strings.ToLower(a) + " "
		if strings.HasPrefix(lower, a) {
			rest = strings.TrimLeft(lower[len(a):], " ")
			break
		}
	}
	for _, p := range phrases {
		if p != "" && strings.HasPrefix(rest, p) && atWordBoundary(rest[len(p):]) {
			return true
		}
	}
	return false
}

// preambleEndsWith reports whether the text before the first delimiter ends
// with one of phrases.
func preambleEndsWith(lower string, delimiters, phrases []string) bool {
	preamble := lower
	for _, d := range delimiters {
		if i := strings.Index(preamble, d); i >= 0 {
			preamble = preamble[:i]
		}
	}
	preamble = strings.TrimSpace(preamble)
	for _, p := range phrases {
		if p != "" && strings.HasSuffix(preamble, p) {
			return true
		}
	}
	return false
}

func atWordBoundary(rest string) bool {
	r, _ := utf8.DecodeRuneInString(rest)
	return rest == "" || !(unicode.IsLetter(r) || unicode.IsDigit(r))
}

//Personal.AI order the ending
