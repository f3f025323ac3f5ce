package domain

import (
	"cmp"
	"math"
	"unicode/utf8"
)

// MaxPriority is the lowest possible rank. Name entries use it so they
// sort after every other entry.
const MaxPriority = math.MaxInt32

// LookupKey is a surface string a reader may search for, with its rank.
// Lower priorities are found first.
type LookupKey struct {
	Text     string
	Priority int
}

// SortKey returns the comparison key of k.
func (k LookupKey) SortKey() SortKey {
	return SortKey{Priority: k.Priority, Length: utf8.RuneCountInString(k.Text), Text: k.Text}
}

// SortKey orders lookup keys by priority, then length in runes, then text.
type SortKey struct {
	Priority int
	Length   int
	Text     string
}

// Compare returns -1, 0 or +1 as a sorts before, equal to or after b.
func (a SortKey) Compare(b SortKey) int {
	if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Length, b.Length); c != 0 {
		return c
	}
	return cmp.Compare(a.Text, b.Text)
}

// CompareLookupKeys orders two keys by their SortKey.
func CompareLookupKeys(a, b LookupKey) int {
	return a.SortKey().Compare(b.SortKey())
}

// EntryKind records which source produced an OutputEntry.
type EntryKind int

const (
	EntryKindKanji EntryKind = iota
	EntryKindWord
	EntryKindName
)

// OutputEntry is one finished dictionary entry. Keys are ordered and
// deduplicated; Keys[0] is the primary key used for global ordering.
type OutputEntry struct {
	Kind       EntryKind
	Keys       []LookupKey
	Definition string
}

// Headword returns the primary key text, or "" for an entry without keys.
func (e OutputEntry) Headword() string {
	if len(e.Keys) == 0 {
		return ""
	}
	return e.Keys[0].Text
}
