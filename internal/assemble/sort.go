package assemble

import (
	"cmp"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

// SortMode selects the primary ordering of output entries.
type SortMode string

const (
	// SortByPriority orders by the first key's (priority, length, text).
	SortByPriority SortMode = "priority"
	// SortByLength orders by the first key's length only, names last.
	SortByLength SortMode = "length"
)

func (m SortMode) String() string { return string(m) }

func (m SortMode) IsValid() bool {
	return m == SortByPriority || m == SortByLength
}

// ParseSortMode converts a config value to a SortMode. Empty means priority.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortByPriority, nil
	}
	m := SortMode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
	return m, nil
}

// Sort orders entries in place. Entries that compare equal on their first
// key fall back to headword text and then definition, so the result does
// not depend on input order.
func Sort(entries []domain.OutputEntry, mode SortMode) {
	slices.SortStableFunc(entries, func(a, b domain.OutputEntry) int {
		if c := comparePrimary(a, b, mode); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Headword(), b.Headword()); c != 0 {
			return c
		}
		return cmp.Compare(a.Definition, b.Definition)
	})
}

func comparePrimary(a, b domain.OutputEntry, mode SortMode) int {
	if len(a.Keys) == 0 || len(b.Keys) == 0 {
		return cmp.Compare(len(b.Keys), len(a.Keys))
	}
	if mode == SortByLength {
		if c := cmp.Compare(isName(a), isName(b)); c != 0 {
			return c
		}
		return cmp.Compare(utf8.RuneCountInString(a.Keys[0].Text), utf8.RuneCountInString(b.Keys[0].Text))
	}
	return a.Keys[0].SortKey().Compare(b.Keys[0].SortKey())
}

func isName(e domain.OutputEntry) int {
	if e.Kind == domain.EntryKindName {
		return 1
	}
	return 0
}
