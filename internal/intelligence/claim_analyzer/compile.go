package claim_analyzer

import (
	"regexp"
	"sort"
	"strings"
)

// compiledTable holds the regular expressions derived from a PhraseTable.
// It is built once per table and shared read-only by every analysis.
type compiledTable struct {
	table *PhraseTable

	lineLabel   *regexp.Regexp
	inlineLabel *regexp.Regexp
	labelDigits *regexp.Regexp
	hint        *regexp.Regexp
	reference   *regexp.Regexp
	single      *regexp.Regexp
	numberRange *regexp.Regexp
	clause      *regexp.Regexp

	precedingAll []string
	precedingOne []string
}

// alternation quotes phrases, longest first, and joins them with "|".
// Spaces inside a phrase match any whitespace run.
func alternation(phrases []string) string {
	sorted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			sorted = append(sorted, p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	return strings.Join(parts, "|")
}

// charClass builds a bracket expression matching any rune of set.
func charClass(set string) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range set {
		if strings.ContainsRune(`\]^-[`, r) {
			b.WriteByte('\\')
			b.WriteRune(r)
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteByte(']')
	return b.String()
}

func compileTable(t *PhraseTable) (*compiledTable, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	wb := ""
	if t.WordBoundaries {
		wb = `\b`
	}

	label := `\p{Nd}+[ \t]*` + charClass(t.NumberingSeparators)
	if len(t.NumberingPrefixes) > 0 {
		prefixSeps := t.PrefixedSeparators
		if prefixSeps == "" {
			prefixSeps = t.NumberingSeparators
		}
		label = `(?:` + alternation(t.NumberingPrefixes) + `)[ \t]*\p{Nd}+[ \t]*` + charClass(prefixSeps) + `|` + label
	}

	claimWords := append(append([]string{}, t.ClaimsWords...), t.ClaimWords...)
	claimAlt := `(?:` + alternation(claimWords) + `)`
	connAlt := alternation(append(append([]string{}, t.ListConnectors...), t.RangeConnectors...))
	numberList := `(\d+(?:(?:\s*(?:` + connAlt + `))+\s*(?:` + claimAlt + `\s*)?\d+)*)`

	ct := &compiledTable{
		table:       t,
		lineLabel:   regexp.MustCompile(`(?m)^[ \t\x{3000}]*(` + label + `)`),
		labelDigits: regexp.MustCompile(`\p{Nd}+`),
		reference:   regexp.MustCompile(`(?i)` + wb + claimAlt + `\s*` + numberList),
		numberRange: regexp.MustCompile(`(?i)(\d+)(?:\s*(?:` + alternation(t.RangeConnectors) + `)\s*(?:` + claimAlt + `\s*)?(\d+))?`),
	}
	if len(t.ClaimsWords) > 0 {
		// A singular claim word takes one number or range; further list
		// items must repeat the claim word, so "claim 1 and 2 wt%" stays {1}.
		item := `\d+`
		if rangeAlt := alternation(t.RangeConnectors); rangeAlt != "" {
			item += `(?:\s*(?:` + rangeAlt + `)\s*\d+)?`
		}
		ct.reference = regexp.MustCompile(`(?i)` + wb + `(?:` + alternation(t.ClaimsWords) + `)\s*` + numberList)
		ct.single = regexp.MustCompile(`(?i)` + wb + `(?:` + alternation(t.ClaimWords) + `)\s*(` +
			item + `(?:(?:\s*(?:` + connAlt + `))+\s*` + claimAlt + `\s*` + item + `)*)`)
	}
	if t.SentenceTerminators != "" {
		// Alphabetic scripts separate sentences with spaces; CJK text does not.
		spacing := `[ \t\x{3000}]*`
		if t.WordBoundaries {
			spacing = `[ \t\x{3000}]+`
		}
		ct.inlineLabel = regexp.MustCompile(charClass(t.SentenceTerminators) + spacing + `(` + label + `)`)
	}
	if len(t.ReferencePhrases) > 0 {
		ct.hint = regexp.MustCompile(`(?i)` + wb + `(?:` + alternation(t.ReferencePhrases) + `)`)
	}
	if len(t.ClauseMarkers) > 0 {
		ct.clause = regexp.MustCompile(`(?i)` + wb + `(?:` + alternation(t.ClauseMarkers) + `)` + wb)
	}
	for _, p := range t.PrecedingAllPhrases {
		ct.precedingAll = append(ct.precedingAll, strings.ToLower(p))
	}
	for _, p := range t.PrecedingOnePhrases {
		ct.precedingOne = append(ct.precedingOne, strings.ToLower(p))
	}
	return ct, nil
}

//Personal.AI order the ending
