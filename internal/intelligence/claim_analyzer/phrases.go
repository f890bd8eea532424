package claim_analyzer

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milo0914/ChemPatent-Pro/internal/domain/patent"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
)

// OpeningMode selects how claim-type openings are matched.
type OpeningMode string

const (
	// OpeningPrefix strips one leading article and matches the start of the claim.
	OpeningPrefix OpeningMode = "prefix"
	// OpeningPreambleSuffix matches the end of the preamble, i.e. the text up to
	// the first preamble delimiter.  Used for languages that put the subject
	// noun last ("一种制备化合物的方法，包括").
	OpeningPreambleSuffix OpeningMode = "preamble_suffix"
)

// PhraseTable is the locale-specific vocabulary consumed by the pipeline.
// Tables are configuration: the built-in ones can be replaced from YAML.
type PhraseTable struct {
	Language string `yaml:"language"`

	// ClaimWords/ClaimsWords are the singular and plural words for "claim".
	ClaimWords  []string `yaml:"claim_words,omitempty"`
	ClaimsWords []string `yaml:"claims_words,omitempty"`
	// WordBoundaries enables \b anchoring for alphabetic scripts.
	WordBoundaries bool `yaml:"word_boundaries,omitempty"`

	// NumberingPrefixes may precede a claim label ("Claim 1.", "权利要求1：").
	// They match case-sensitively so a wrapped "claim 1." line is not a label.
	NumberingPrefixes []string `yaml:"numbering_prefixes,omitempty"`
	// NumberingSeparators may follow a bare label ("1." "1)" "1、").
	NumberingSeparators string `yaml:"numbering_separators,omitempty"`
	// PrefixedSeparators may follow a prefixed label.
	PrefixedSeparators string `yaml:"prefixed_separators,omitempty"`
	// SentenceTerminators end a sentence; a label right after one starts a
	// claim only when it continues the running sequence.
	SentenceTerminators string `yaml:"sentence_terminators,omitempty"`

	// ReferencePhrases mark a dependent claim when found near the start.
	ReferencePhrases []string `yaml:"reference_phrases,omitempty"`
	// ReferenceWindow is how many runes count as "near the start".
	ReferenceWindow int `yaml:"reference_window,omitempty"`
	// PrecedingAllPhrases refer to every earlier claim.
	PrecedingAllPhrases []string `yaml:"preceding_all_phrases,omitempty"`
	// PrecedingOnePhrases refer to the immediately preceding claim.
	PrecedingOnePhrases []string `yaml:"preceding_one_phrases,omitempty"`
	RangeConnectors     []string `yaml:"range_connectors,omitempty"`
	ListConnectors      []string `yaml:"list_connectors,omitempty"`

	OpeningMode         OpeningMode `yaml:"opening_mode,omitempty"`
	Articles            []string    `yaml:"articles,omitempty"`
	PreambleDelimiters  []string    `yaml:"preamble_delimiters,omitempty"`
	CompositionOpenings []string    `yaml:"composition_openings,omitempty"`
	MethodOpenings      []string    `yaml:"method_openings,omitempty"`
	UseOpenings         []string    `yaml:"use_openings,omitempty"`
	ProductOpenings     []string    `yaml:"product_openings,omitempty"`

	// ClauseMarkers and ClauseSeparators feed the clause count.
	ClauseMarkers    []string `yaml:"clause_markers,omitempty"`
	ClauseSeparators []string `yaml:"clause_separators,omitempty"`

	// ParameterUnits lists unit spellings per parameter kind (temperature,
	// time, percentage, pressure).
	ParameterUnits map[string][]string `yaml:"parameter_units,omitempty"`
	// EntityTerms and ProcessTerms feed the technical feature lists.
	EntityTerms  []string `yaml:"entity_terms,omitempty"`
	ProcessTerms []string `yaml:"process_terms,omitempty"`
	// InnovationKeywords and AdvantageKeywords feed the innovation score.
	InnovationKeywords []string `yaml:"innovation_keywords,omitempty"`
	AdvantageKeywords  []string `yaml:"advantage_keywords,omitempty"`
}

// Validate checks that a table carries the minimum vocabulary.
func (t *PhraseTable) Validate() error {
	switch {
	case t == nil:
		return errors.New(errors.ErrCodePhraseTableInvalid, "phrase table is nil")
	case strings.TrimSpace(t.Language) == "":
		return errors.New(errors.ErrCodePhraseTableInvalid, "phrase table language is required")
	case len(t.ClaimWords) == 0:
		return errors.New(errors.ErrCodePhraseTableInvalid, "claim_words is required").WithDetail(t.Language)
	case t.NumberingSeparators == "":
		return errors.New(errors.ErrCodePhraseTableInvalid, "numbering_separators is required").WithDetail(t.Language)
	case t.OpeningMode != OpeningPrefix && t.OpeningMode != OpeningPreambleSuffix:
		return errors.Newf(errors.ErrCodePhraseTableInvalid, "unknown opening_mode %q", t.OpeningMode).WithDetail(t.Language)
	case t.ReferenceWindow <= 0:
		return errors.New(errors.ErrCodePhraseTableInvalid, "reference_window must be positive").WithDetail(t.Language)
	}
	for kind := range t.ParameterUnits {
		if !knownParameterKind(kind) {
			return errors.Newf(errors.ErrCodePhraseTableInvalid, "unknown parameter kind %q", kind).WithDetail(t.Language)
		}
	}
	return nil
}

func knownParameterKind(kind string) bool {
	for _, k := range patent.AllParameterKinds {
		if string(k) == kind {
			return true
		}
	}
	return false
}

func englishTable() *PhraseTable {
	return &PhraseTable{
		Language:            "en",
		ClaimWords:          []string{"claim"},
		ClaimsWords:         []string{"claims"},
		WordBoundaries:      true,
		NumberingPrefixes:   []string{"Claim", "CLAIM"},
		NumberingSeparators: ".)",
		PrefixedSeparators:  ".:)",
		SentenceTerminators: ".;",
		ReferencePhrases: []string{
			"according to claim", "according to any", "according to one of claims",
			"as claimed in claim", "as claimed in any", "as claimed in one of claims",
			"as defined in claim", "as defined in any", "as recited in claim",
			"as set forth in claim", "as described in claim", "as in claim",
			"of claim", "of any one of claims", "of any of claims", "of any preceding claim",
			"in accordance with claim",
		},
		ReferenceWindow: 160,
		PrecedingAllPhrases: []string{
			"any preceding claim", "any one of the preceding claims", "any of the preceding claims",
			"any previous claim", "any one of the previous claims", "any foregoing claim",
		},
		PrecedingOnePhrases: []string{"the preceding claim", "the previous claim", "the foregoing claim"},
		RangeConnectors:     []string{"to", "through", "-", "–"},
		ListConnectors:      []string{",", "and/or", "and", "or"},
		OpeningMode:         OpeningPrefix,
		Articles:            []string{"a", "an", "the"},
		CompositionOpenings: []string{
			"compound", "compounds", "composition", "pharmaceutical composition",
			"formulation", "pharmaceutical formulation", "product comprising",
			"salt", "crystalline form", "mixture",
		},
		MethodOpenings: []string{"method", "process", "procedure"},
		UseOpenings:    []string{"use of", "use"},
		ProductOpenings: []string{
			"device", "apparatus", "system", "kit", "assembly", "instrument", "machine", "product",
		},
		ClauseMarkers:    []string{"wherein", "further comprising", "and/or", "characterized in that", "characterised in that", "whereby"},
		ClauseSeparators: []string{";"},
		ParameterUnits: map[string][]string{
			"temperature": {"°C", "℃", "°F", "degrees Celsius"},
			"time":        {"hours", "hour", "hrs", "h", "minutes", "min"},
			"percentage":  {"%", "wt%", "mol%", "percent"},
			"pressure":    {"MPa", "kPa", "Pa", "bar", "atm", "psi"},
		},
		EntityTerms: []string{"compound", "molecule", "group", "radical", "salt", "ester", "solvate", "catalyst"},
		ProcessTerms: []string{
			"reacting", "heating", "cooling", "mixing", "stirring", "filtering",
			"drying", "crystallizing", "distilling", "dissolving", "purifying",
		},
		InnovationKeywords: []string{
			"novel", "innovative", "improved", "enhanced", "new",
			"significantly", "substantially", "better", "superior",
		},
		AdvantageKeywords: []string{"advantage", "benefit", "improvement", "enhancement", "effect"},
	}
}

func chineseTable() *PhraseTable {
	return &PhraseTable{
		Language:            "zh",
		ClaimWords:          []string{"权利要求", "權利要求", "请求项", "請求項"},
		NumberingPrefixes:   []string{"权利要求", "權利要求", "请求项", "請求項"},
		NumberingSeparators: ".)、",
		PrefixedSeparators:  ".:)、",
		SentenceTerminators: ".;。",
		ReferencePhrases: []string{
			"根据权利要求", "如权利要求", "依照权利要求", "按照权利要求",
			"根據權利要求", "如權利要求", "依照權利要求", "如請求項", "依請求項", "如请求项",
		},
		ReferenceWindow:     40,
		PrecedingAllPhrases: []string{"前述任一项权利要求", "前述任一項權利要求", "任一前述权利要求"},
		PrecedingOnePhrases: []string{"前一项权利要求", "前一項權利要求"},
		RangeConnectors:     []string{"至", "到", "-", "~"},
		ListConnectors:      []string{"、", ",", "和", "或", "及"},
		OpeningMode:         OpeningPreambleSuffix,
		PreambleDelimiters:  []string{",", ":", "其特征在于", "其特徵在於", "包括", "包含", "含有", "。"},
		CompositionOpenings: []string{"化合物", "组合物", "組成物", "组成物", "制剂", "製劑", "配方", "盐", "晶型"},
		MethodOpenings:      []string{"方法", "工艺", "工藝", "过程"},
		UseOpenings:         []string{"用途", "应用", "應用"},
		ProductOpenings:     []string{"装置", "裝置", "设备", "設備", "系统", "系統", "试剂盒", "产品"},
		ClauseMarkers:       []string{"其中", "还包括", "還包括", "进一步包括", "其特征在于", "其特徵在於"},
		ClauseSeparators:    []string{";"},
		ParameterUnits: map[string][]string{
			"temperature": {"℃", "°C", "度"},
			"time":        {"小时", "小時", "分钟", "分鐘", "h"},
			"percentage":  {"%", "百分比"},
			"pressure":    {"MPa", "kPa", "Pa", "大气压", "大氣壓"},
		},
		EntityTerms:  []string{"化合物", "分子", "基团", "基團", "盐", "鹽", "酯", "催化剂", "催化劑"},
		ProcessTerms: []string{"反应", "反應", "加热", "加熱", "冷却", "冷卻", "混合", "搅拌", "攪拌", "过滤", "過濾", "干燥", "结晶", "結晶", "蒸馏", "蒸餾", "溶解", "纯化", "純化"},
		InnovationKeywords: []string{
			"新颖", "新穎", "创新", "創新", "改进", "改進", "优化", "優化", "突破", "首次",
			"显著", "顯著", "明显", "明顯", "更好", "提高", "增强", "增強", "减少", "減少",
		},
		AdvantageKeywords: []string{"优点", "優點", "优势", "優勢", "有益效果", "技术效果", "技術效果", "改善", "提升"},
	}
}

// DefaultPhraseTables returns fresh copies of the built-in tables keyed by language.
func DefaultPhraseTables() map[string]*PhraseTable {
	return map[string]*PhraseTable{
		"en": englishTable(),
		"zh": chineseTable(),
	}
}

// phraseFile is the on-disk layout of a phrase table file.
type phraseFile struct {
	Tables []*PhraseTable `yaml:"tables"`
}

// LoadPhraseTables reads tables from a YAML file.  Tables in the file replace
// the built-in table of the same language; the rest of the built-ins stay.
func LoadPhraseTables(path string) (map[string]*PhraseTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePhraseTableInvalid, "failed to read phrase table file").WithDetail(path)
	}
	return ParsePhraseTables(data)
}

// ParsePhraseTables decodes YAML phrase tables and merges them over the built-ins.
func ParsePhraseTables(data []byte) (map[string]*PhraseTable, error) {
	var f phraseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePhraseTableInvalid, "failed to parse phrase table file")
	}
	tables := DefaultPhraseTables()
	for _, t := range f.Tables {
		if t != nil && t.OpeningMode == "" {
			t.OpeningMode = OpeningPrefix
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		tables[strings.ToLower(t.Language)] = t
	}
	return tables, nil
}

// MarshalPhraseTables encodes tables to YAML in language order.
func MarshalPhraseTables(tables map[string]*PhraseTable) ([]byte, error) {
	langs := make([]string, 0, len(tables))
	for l := range tables {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	f := phraseFile{}
	for _, l := range langs {
		f.Tables = append(f.Tables, tables[l])
	}
	out, err := yaml.Marshal(&f)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode phrase tables")
	}
	return out, nil
}

//Personal.AI order the ending
