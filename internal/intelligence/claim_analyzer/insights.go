package claim_analyzer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

// DefaultContextWindow is how many runes of text surround a keyword hit.
const DefaultContextWindow = 50

// formulaPattern matches molecular formulas such as H2O or C6H12O6.  At least
// one element must carry a count, so plain capitalised words do not match.
var formulaPattern = regexp.MustCompile(`\b(?:[A-Z][a-z]?\d*)*[A-Z][a-z]?\d+(?:[A-Z][a-z]?\d*)*\b`)

type parameterPattern struct {
	kind patent.ParameterKind
	re   *regexp.Regexp
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// insightExtractor reads technical features and innovation wording out of a
// scored claim set.  It is compiled once per phrase table.
type insightExtractor struct {
	parameters []parameterPattern
	entity     *regexp.Regexp
	process    *regexp.Regexp
	innovation []keywordPattern
	advantage  []keywordPattern
	window     int
}

func newInsightExtractor(t *PhraseTable) *insightExtractor {
	x := &insightExtractor{window: DefaultContextWindow}
	for _, kind := range patent.AllParameterKinds {
		if re := unitPattern(t.ParameterUnits[string(kind)], t.WordBoundaries); re != nil {
			x.parameters = append(x.parameters, parameterPattern{kind: kind, re: re})
		}
	}
	x.entity = termPattern(t.EntityTerms, t.WordBoundaries, true)
	x.process = termPattern(t.ProcessTerms, t.WordBoundaries, false)
	x.innovation = keywordPatterns(t.InnovationKeywords, t.WordBoundaries)
	x.advantage = keywordPatterns(t.AdvantageKeywords, t.WordBoundaries)
	return x
}

// unitPattern matches a number followed by one of units.  With word
// boundaries, alphabetic units must end at a boundary so "5 h" matches and
// "5 hexane" does not.
func unitPattern(units []string, wb bool) *regexp.Regexp {
	var word, symbol []string
	for _, u := range units {
		if u = strings.TrimSpace(u); u == "" {
			continue
		}
		r, _ := utf8.DecodeLastRuneInString(u)
		if wb && (r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			word = append(word, u)
		} else {
			symbol = append(symbol, u)
		}
	}
	var alts []string
	if len(word) > 0 {
		alts = append(alts, `(?:`+alternation(word)+`)\b`)
	}
	if len(symbol) > 0 {
		alts = append(alts, `(?:`+alternation(symbol)+`)`)
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(` + strings.Join(alts, "|") + `)`)
}

// termPattern matches the terms.  For alphabetic scripts, inflect lets a
// term sit inside a longer word ("compounds", "alkylgroup").
func termPattern(terms []string, wb, inflect bool) *regexp.Regexp {
	alt := alternation(terms)
	if alt == "" {
		return nil
	}
	switch {
	case wb && inflect:
		return regexp.MustCompile(`(?i)\b\w*(?:` + alt + `)\w*\b`)
	case wb:
		return regexp.MustCompile(`(?i)\b(?:` + alt + `)\b`)
	default:
		return regexp.MustCompile(`(?i)(?:` + alt + `)`)
	}
}

func keywordPatterns(keywords []string, wb bool) []keywordPattern {
	var out []keywordPattern
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw == "" {
			continue
		}
		expr := alternation([]string{kw})
		if wb {
			expr = `\b` + expr + `\b`
		}
		out = append(out, keywordPattern{keyword: strings.ToLower(kw), re: regexp.MustCompile(`(?i)` + expr)})
	}
	return out
}

// Extract builds the insights block.  stats must belong to claims.
func (x *insightExtractor) Extract(claims patent.ClaimSet, stats patent.Statistics) patent.Insights {
	in := patent.Insights{
		Features:    x.features(claims),
		Innovations: x.innovations(claims),
		Coverage:    patent.NewCoverageScope(claims),
	}
	in.Summary = patent.NewSummary(claims, stats, in.Features, in.Innovations)
	return in
}

func (x *insightExtractor) features(claims patent.ClaimSet) patent.TechnicalFeatures {
	entities := make(map[string]struct{})
	processes := make(map[string]struct{})
	var params []patent.Parameter
	for _, c := range claims {
		text := c.NormalizedText
		for _, f := range formulaPattern.FindAllString(text, -1) {
			entities[f] = struct{}{}
		}
		if x.entity != nil {
			for _, e := range x.entity.FindAllString(text, -1) {
				entities[strings.ToLower(e)] = struct{}{}
			}
		}
		if x.process != nil {
			for _, p := range x.process.FindAllString(text, -1) {
				processes[strings.ToLower(p)] = struct{}{}
			}
		}
		params = append(params, x.parametersOf(c.Number, text)...)
	}
	return patent.TechnicalFeatures{
		ChemicalEntities: sortedKeys(entities),
		Processes:        sortedKeys(processes),
		Parameters:       params,
	}
}

// parametersOf returns the parameters of one claim in text order, each
// distinct (kind, value, unit) once.
func (x *insightExtractor) parametersOf(claim int, text string) []patent.Parameter {
	type found struct {
		pos int
		p   patent.Parameter
	}
	var hits []found
	seen := make(map[patent.Parameter]struct{})
	for _, pp := range x.parameters {
		for _, m := range pp.re.FindAllStringSubmatchIndex(text, -1) {
			v, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
			if err != nil {
				continue
			}
			p := patent.Parameter{Kind: pp.kind, ClaimNumber: claim, Value: v, Unit: text[m[4]:m[5]]}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			hits = append(hits, found{pos: m[0], p: p})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]patent.Parameter, len(hits))
	for i, h := range hits {
		out[i] = h.p
	}
	return out
}

func (x *insightExtractor) innovations(claims patent.ClaimSet) patent.Innovations {
	var in patent.Innovations
	for _, c := range claims {
		in.NovelFeatures = append(in.NovelFeatures, x.hits(c, x.innovation)...)
		in.TechnicalAdvantages = append(in.TechnicalAdvantages, x.hits(c, x.advantage)...)
	}
	in.Score = patent.NewInnovationScore(len(in.NovelFeatures), len(in.TechnicalAdvantages), len(claims))
	return in
}

// hits reports each keyword at most once per claim, at its first occurrence.
func (x *insightExtractor) hits(c patent.Claim, patterns []keywordPattern) []patent.KeywordHit {
	var out []patent.KeywordHit
	for _, kp := range patterns {
		loc := kp.re.FindStringIndex(c.NormalizedText)
		if loc == nil {
			continue
		}
		out = append(out, patent.KeywordHit{
			ClaimNumber: c.Number,
			Keyword:     kp.keyword,
			Context:     contextWindow(c.NormalizedText, loc[0], loc[1], x.window),
		})
	}
	return out
}

// contextWindow returns text[start:end] widened by window runes on each side.
func contextWindow(text string, start, end, window int) string {
	lo, hi := start, end
	for i := 0; i < window && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	for i := 0; i < window && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return strings.TrimSpace(text[lo:hi])
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
