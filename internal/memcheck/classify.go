package memcheck

import (
	"fmt"
	"slices"
)

// Classification is the verdict on a memcheck log.
type Classification int

// Verdicts.
const (
	// Pass: the log matches a recognized clean shape.
	Pass Classification = iota
	// UninitializedValueUse: memcheck saw a use of an uninitialised value.
	UninitializedValueUse
	// LeaksDetected is part of the verdict vocabulary but not produced by the
	// rule table; a log with nonzero leaks classifies as Ambiguous.
	LeaksDetected
	// Ambiguous: the log matches no recognized clean shape.
	Ambiguous
)

var classificationNames = map[Classification]string{ //nolint:gochecknoglobals // Lookup table
	Pass:                  "pass",
	UninitializedValueUse: "uninitialized_value_use",
	LeaksDetected:         "leaks_detected",
	Ambiguous:             "ambiguous",
}

// String returns the classification's snake_case name.
func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return fmt.Sprintf("classification(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler for JSON and YAML output.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Passed reports whether c is a clean verdict.
func (c Classification) Passed() bool {
	return c == Pass
}

// Rule is one entry of the classification policy.
type Rule struct {
	Name    string
	Matches func(CategorySet) bool
	Result  Classification
}

// AmbiguousRuleName names the fallback applied when no rule matches.
const AmbiguousRuleName = "no recognized clean shape"

// rules is evaluated in order; the first match decides. Uninitialised use comes
// first so a clean leak summary can never mask it.
//
//nolint:gochecknoglobals // Policy table
var rules = []Rule{
	{
		Name:    "uninitialised value used",
		Matches: func(s CategorySet) bool { return s.Has(UninitializedUse) },
		Result:  UninitializedValueUse,
	},
	{
		Name:    "all leak summary lines report zero bytes",
		Matches: func(s CategorySet) bool { return s.HasAll(ZeroLeakCategories()...) },
		Result:  Pass,
	},
	{
		Name:    "all heap blocks were freed",
		Matches: func(s CategorySet) bool { return s.Has(NoLeaksPossible) },
		Result:  Pass,
	},
}

// Rules returns a copy of the ordered policy table.
func Rules() []Rule {
	return slices.Clone(rules)
}

// Classify applies the rule table to set.
func Classify(set CategorySet) Classification {
	c, _ := classify(set)
	return c
}

func classify(set CategorySet) (Classification, string) {
	for _, r := range rules {
		if r.Matches(set) {
			return r.Result, r.Name
		}
	}
	return Ambiguous, AmbiguousRuleName
}

// Report is the full analysis of one memcheck log.
type Report struct {
	Classification Classification `json:"classification" yaml:"classification"`
	Rule           string         `json:"rule" yaml:"rule"`
	Categories     []Category     `json:"categories" yaml:"categories"`
	Summary        LeakSummary    `json:"summary" yaml:"summary"`
	Text           string         `json:"-" yaml:"-"`
}

// Passed reports whether the log was clean.
func (r *Report) Passed() bool {
	return r != nil && r.Classification.Passed()
}

// Analyze parses and classifies text.
func Analyze(text string) *Report {
	set := Parse(text)
	classification, rule := classify(set)
	return &Report{
		Classification: classification,
		Rule:           rule,
		Categories:     set.Sorted(),
		Summary:        ParseLeakSummary(text),
		Text:           text,
	}
}
