// Package memcheck parses valgrind memcheck logs and decides whether a run was
// clean.
//
// Parsing and classification are separate steps. Parse reduces the log text to
// the set of recognized markers it contains; Classify applies an ordered rule
// table to that set. Keeping the policy in a table makes it auditable and
// testable without log fixtures.
package memcheck

import (
	"fmt"
	"sort"
)

// Category is one recognized marker in a memcheck log.
type Category int

// Recognized markers.
const (
	// UninitializedUse: a conditional jump or move depended on an
	// uninitialised value.
	UninitializedUse Category = iota + 1
	// ZeroDefinitelyLost: the leak summary reports 0 bytes definitely lost.
	ZeroDefinitelyLost
	// ZeroIndirectlyLost: the leak summary reports 0 bytes indirectly lost.
	ZeroIndirectlyLost
	// ZeroPossiblyLost: the leak summary reports 0 bytes possibly lost.
	ZeroPossiblyLost
	// ZeroStillReachable: the leak summary reports 0 bytes still reachable.
	ZeroStillReachable
	// NoLeaksPossible: all heap blocks were freed.
	NoLeaksPossible
)

var categoryNames = map[Category]string{ //nolint:gochecknoglobals // Lookup table
	UninitializedUse:   "uninitialized_use",
	ZeroDefinitelyLost: "zero_definitely_lost",
	ZeroIndirectlyLost: "zero_indirectly_lost",
	ZeroPossiblyLost:   "zero_possibly_lost",
	ZeroStillReachable: "zero_still_reachable",
	NoLeaksPossible:    "no_leaks_possible",
}

// String returns the category's snake_case name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler for JSON and YAML output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ZeroLeakCategories are the four leak-summary lines that together describe a
// clean heap.
func ZeroLeakCategories() []Category {
	return []Category{ZeroDefinitelyLost, ZeroIndirectlyLost, ZeroPossiblyLost, ZeroStillReachable}
}

// CategorySet holds each category at most once.
type CategorySet map[Category]struct{}

// NewCategorySet builds a set from categories.
func NewCategorySet(categories ...Category) CategorySet {
	s := make(CategorySet, len(categories))
	for _, c := range categories {
		s.Add(c)
	}
	return s
}

// Add inserts c.
func (s CategorySet) Add(c Category) {
	s[c] = struct{}{}
}

// Has reports whether c is present.
func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// HasAll reports whether every category in cs is present.
func (s CategorySet) HasAll(cs ...Category) bool {
	for _, c := range cs {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// Sorted returns the categories in declaration order.
func (s CategorySet) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
