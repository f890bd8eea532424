package claim_analyzer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// ErrEmptyClaimText is returned when the input has no content after trimming.
// It is the only error that aborts an analysis.
var ErrEmptyClaimText = errors.New(errors.ErrCodeClaimTextEmpty, "no text provided")

// labelMatch is one accepted claim-number label.
type labelMatch struct {
	literal string // digits as written in the source
	value   int    // parsed label, -1 when unparseable
	start   int    // byte offset of the label
	end     int    // byte offset just past the label
}

// segmenter splits folded input text into claims at numbering labels.
type segmenter struct {
	ct *compiledTable
}

func newSegmenter(ct *compiledTable) *segmenter {
	return &segmenter{ct: ct}
}

// Segment returns the claims in document order plus the numbering issues.
func (s *segmenter) Segment(text string) (patent.ClaimSet, []patent.Issue, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyClaimText
	}
	folded := foldText(text)
	labels := s.findLabels(folded)

	if len(labels) == 0 {
		raw := strings.TrimSpace(folded)
		claims := patent.ClaimSet{{
			Number:         1,
			RawText:        raw,
			NormalizedText: normalizeText(raw),
		}}
		issues := []patent.Issue{patent.NewSetIssue(
			patent.IssueNoNumberingDetected,
			"no claim numbering detected; the whole input was treated as claim 1",
			`Number each claim ("1.", "2.", ...) so the claims can be separated.`,
		)}
		return claims, issues, nil
	}

	claims := make(patent.ClaimSet, len(labels))
	var issues []patent.Issue
	for i, lm := range labels {
		end := len(folded)
		if i+1 < len(labels) {
			end = labels[i+1].start
		}
		raw := strings.TrimSpace(folded[lm.end:end])
		number := i + 1
		claims[i] = patent.Claim{
			Number:         number,
			Label:          lm.literal,
			RawText:        raw,
			NormalizedText: normalizeText(raw),
		}
		if lm.value != number {
			issues = append(issues, patent.NewClaimIssue(
				patent.IssueUnexpectedNumbering, number,
				fmt.Sprintf("claim %d is labelled %q in the source text", number, lm.literal),
				"Renumber the claims consecutively starting from 1.",
			))
		}
		if raw == "" {
			issues = append(issues, patent.NewClaimIssue(
				patent.IssueEmptyClaim, number,
				fmt.Sprintf("claim %d has no text", number),
				"Remove empty claim numbers or supply the missing claim text.",
			))
		}
	}
	return claims, issues, nil
}

// findLabels collects numbering labels.  A label at the start of a line always
// opens a claim.  A label right after a sentence terminator opens a claim only
// when it continues the running sequence, which keeps "heated to 5. Then" from
// splitting a claim while still handling claims run together on one line.
func (s *segmenter) findLabels(text string) []labelMatch {
	type candidate struct {
		labelMatch
		lineStart bool
	}
	var cands []candidate
	collect := func(locs [][]int, lineStart bool) {
		for _, loc := range locs {
			start, end := loc[2], loc[3]
			if r, _ := utf8.DecodeRuneInString(text[end:]); end < len(text) && unicode.IsDigit(r) {
				continue // "1.5 mg" is a number, not a label
			}
			cands = append(cands, candidate{labelMatch: s.parseLabel(text, start, end), lineStart: lineStart})
		}
	}
	collect(s.ct.lineLabel.FindAllStringSubmatchIndex(text, -1), true)
	if s.ct.inlineLabel != nil {
		collect(s.ct.inlineLabel.FindAllStringSubmatchIndex(text, -1), false)
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].start < cands[j].start })

	var out []labelMatch
	expected := 1
	lastEnd := -1
	for _, c := range cands {
		if c.start < lastEnd {
			continue
		}
		if !c.lineStart && c.value != expected {
			continue
		}
		out = append(out, c.labelMatch)
		lastEnd = c.end
		expected = c.value + 1
	}
	return out
}

func (s *segmenter) parseLabel(text string, start, end int) labelMatch {
	lm := labelMatch{start: start, end: end, value: -1}
	lm.literal = s.ct.labelDigits.FindString(text[start:end])
	if v, err := strconv.Atoi(lm.literal); err == nil {
		lm.value = v
	}
	return lm
}

//Personal.AI order the ending
