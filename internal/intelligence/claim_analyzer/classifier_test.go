package claim_analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
)

func TestClassifier_English(t *testing.T) {
	c := newClassifier(mustCompile(t, englishTable()))

	tests := []struct {
		name string
		text string
		typ  patent.ClaimType
		rule string
		hint bool
	}{
		{"compound", "A compound comprising X.", patent.ClaimTypeComposition, RuleComposition, false},
		{"pharmaceutical composition", "A pharmaceutical composition comprising X and a carrier.", patent.ClaimTypeComposition, RuleComposition, false},
		{"method", "A method for preparing X, comprising heating.", patent.ClaimTypeMethod, RuleMethod, false},
		{"process", "A process for purifying X.", patent.ClaimTypeMethod, RuleMethod, false},
		{"use", "Use of compound X for treating pain.", patent.ClaimTypeUse, RuleUse, false},
		{"apparatus", "An apparatus comprising a pump.", patent.ClaimTypeProduct, RuleProduct, false},
		{"dependent method", "The method of claim 1, further comprising cooling.", patent.ClaimTypeMethod, RuleMethod, true},
		{"dependent any preceding", "A process according to any preceding claim.", patent.ClaimTypeMethod, RuleMethod, true},
		{"no opening", "Wherein X is blue.", patent.ClaimTypeOther, RuleDefault, false},
		{"prefix inside a longer word", "A compounding machine.", patent.ClaimTypeOther, RuleDefault, false},
		{"case insensitive", "A METHOD OF TREATMENT.", patent.ClaimTypeMethod, RuleMethod, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.typ, got.Type)
			assert.Equal(t, tt.rule, got.Rule)
			assert.Equal(t, tt.hint, got.DependentHint)
		})
	}
}

func TestClassifier_CompositionBeatsLaterRules(t *testing.T) {
	c := newClassifier(mustCompile(t, englishTable()))
	got := c.Classify("A composition for use in a method of treatment.")
	assert.Equal(t, patent.ClaimTypeComposition, got.Type)
}

func TestClassifier_HintOnlyNearTheStart(t *testing.T) {
	c := newClassifier(mustCompile(t, englishTable()))
	text := "A device comprising " + strings.Repeat("x ", 100) + "as in claim 1."
	got := c.Classify(text)
	assert.False(t, got.DependentHint)
	assert.Equal(t, patent.ClaimTypeProduct, got.Type)
}

func TestClassifier_Chinese(t *testing.T) {
	c := newClassifier(mustCompile(t, chineseTable()))

	tests := []struct {
		name string
		text string
		typ  patent.ClaimType
		hint bool
	}{
		{"compound", "一种化合物,包括X。", patent.ClaimTypeComposition, false},
		{"method ends the preamble", "一种制备化合物的方法,包括加热。", patent.ClaimTypeMethod, false},
		{"dependent method", "根据权利要求1所述的方法,其中温度为50度。", patent.ClaimTypeMethod, true},
		{"use", "化合物X在制备药物中的用途。", patent.ClaimTypeUse, false},
		{"device", "一种反应装置,包括反应釜。", patent.ClaimTypeProduct, false},
		{"unknown", "如上所述。", patent.ClaimTypeOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.typ, got.Type)
			assert.Equal(t, tt.hint, got.DependentHint)
		})
	}
}

func TestOpensWith(t *testing.T) {
	assert.True(t, opensWith("the method", []string{"a", "the"}, []string{"method"}))
	assert.True(t, opensWith("method", []string{"a"}, []string{"method"}))
	assert.False(t, opensWith("methods", []string{"a"}, []string{"method"}))
	assert.False(t, opensWith("a", []string{"a"}, []string{"method"}))
}

func TestPreambleEndsWith(t *testing.T) {
	assert.True(t, preambleEndsWith("一种方法,包括", []string{","}, []string{"方法"}))
	assert.False(t, preambleEndsWith("一种方法的装置,包括", []string{","}, []string{"方法"}))
}

//Personal.AI order the ending
