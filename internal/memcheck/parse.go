package memcheck

import (
	"regexp"
	"strconv"
	"strings"
)

// marker maps a log pattern to the category it signals.
type marker struct {
	category Category
	pattern  *regexp.Regexp
}

// markers is the fixed set of recognized log shapes. Matching is
// case-insensitive and tolerant of valgrind's "==pid==" prefixes and padding.
// The zero-leak patterns only match an exact 0 count; "10 bytes" and
// "0,512 bytes" do not match.
//
//nolint:gochecknoglobals // Compiled once
var markers = []marker{
	{UninitializedUse, regexp.MustCompile(`(?i)conditional jump or move depends on uninitialised value`)},
	{ZeroDefinitelyLost, regexp.MustCompile(`(?i)definitely lost:\s+0 bytes\b`)},
	{ZeroIndirectlyLost, regexp.MustCompile(`(?i)indirectly lost:\s+0 bytes\b`)},
	{ZeroPossiblyLost, regexp.MustCompile(`(?i)possibly lost:\s+0 bytes\b`)},
	{ZeroStillReachable, regexp.MustCompile(`(?i)still reachable:\s+0 bytes\b`)},
	{NoLeaksPossible, regexp.MustCompile(`(?i)all heap blocks were freed -- no leaks are possible`)},
}

// Parse returns the set of recognized categories present anywhere in text.
func Parse(text string) CategorySet {
	set := make(CategorySet)
	for _, m := range markers {
		if m.pattern.MatchString(text) {
			set.Add(m.category)
		}
	}
	return set
}

// LeakKind names one line of the leak summary.
type LeakKind string

// Leak summary lines.
const (
	DefinitelyLost LeakKind = "definitely_lost"
	IndirectlyLost LeakKind = "indirectly_lost"
	PossiblyLost   LeakKind = "possibly_lost"
	StillReachable LeakKind = "still_reachable"
)

// LeakCount is the byte and block count of one leak summary line.
type LeakCount struct {
	Bytes  int64 `json:"bytes" yaml:"bytes"`
	Blocks int64 `json:"blocks" yaml:"blocks"`
}

// LeakSummary holds the counts valgrind reported. It is informational and
// never affects classification.
type LeakSummary struct {
	Leaks          map[LeakKind]LeakCount `json:"leaks,omitempty" yaml:"leaks,omitempty"`
	Errors         int64                  `json:"errors" yaml:"errors"`
	ErrorsReported bool                   `json:"errors_reported" yaml:"errors_reported"`
}

//nolint:gochecknoglobals // Compiled once
var (
	leakLinePattern  = regexp.MustCompile(`(?i)(definitely lost|indirectly lost|possibly lost|still reachable):\s+([\d,]+) bytes in ([\d,]+) blocks`)
	errorLinePattern = regexp.MustCompile(`(?i)ERROR SUMMARY:\s+([\d,]+) errors`)
)

// ParseLeakSummary extracts the leak and error counts from text. When a line
// appears more than once (e.g. with --trace-children), the last one wins.
func ParseLeakSummary(text string) LeakSummary {
	var summary LeakSummary

	for _, m := range leakLinePattern.FindAllStringSubmatch(text, -1) {
		if summary.Leaks == nil {
			summary.Leaks = make(map[LeakKind]LeakCount, 4)
		}
		kind := LeakKind(strings.ReplaceAll(strings.ToLower(m[1]), " ", "_"))
		summary.Leaks[kind] = LeakCount{Bytes: parseCount(m[2]), Blocks: parseCount(m[3])}
	}

	if all := errorLinePattern.FindAllStringSubmatch(text, -1); len(all) > 0 {
		summary.Errors = parseCount(all[len(all)-1][1])
		summary.ErrorsReported = true
	}

	return summary
}

// parseCount parses valgrind's comma-grouped numbers ("1,024").
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
