package claim_analyzer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// punctuationReplacer maps typographic punctuation to ASCII equivalents.
// Full-width forms are already handled by NFKC folding.
var punctuationReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", "\"", "”", "\"",
	"–", "-", "—", "-", "−", "-",
	"≤", "<=", "≥", ">=",
)

// foldText applies Unicode compatibility folding (NFKC) so that full-width
// digits and punctuation behave like their ASCII forms.
func foldText(text string) string {
	return norm.NFKC.String(text)
}

// normalizeText folds, replaces typographic punctuation and collapses every
// whitespace run into a single space.
func normalizeText(text string) string {
	text = punctuationReplacer.Replace(foldText(text))

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Tokenizer counts words.  Word segmentation is language specific and is
// supplied from outside the pipeline.
type Tokenizer interface {
	CountWords(text string) int
}

// TokenizerFunc adapts a plain function to Tokenizer.
type TokenizerFunc func(text string) int

func (f TokenizerFunc) CountWords(text string) int { return f(text) }

// WhitespaceTokenizer counts whitespace-separated fields.
var WhitespaceTokenizer Tokenizer = TokenizerFunc(func(text string) int {
	return len(strings.Fields(text))
})

// CJKTokenizer counts each Han ideograph as one word and every run of other
// letters or digits as one word.
var CJKTokenizer Tokenizer = TokenizerFunc(func(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			count++
			inWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if !inWord {
				count++
				inWord = true
			}
		default:
			inWord = false
		}
	}
	return count
})

// cjkThreshold is the share of Han runes above which text is treated as Chinese.
const cjkThreshold = 0.1

// DetectLanguage returns "zh" when more than 10% of the runes are Han
// ideographs and "en" otherwise.
func DetectLanguage(text string) string {
	han, total := 0, 0
	for _, r := range text {
		total++
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}
	if total > 0 && float64(han)/float64(total) > cjkThreshold {
		return "zh"
	}
	return "en"
}

// canonicalLanguage lower-cases a tag and drops its region ("zh-TW" -> "zh").
func canonicalLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}

// runePrefix returns at most n runes from the start of s.
func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

//Personal.AI order the ending
