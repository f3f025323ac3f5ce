// Package index groups source records by a common (writing, reading) key.
// An Index is built once and is read-only afterwards, so it can be shared
// by concurrent readers without locking. Slices returned by lookups are
// shared with the index and must not be modified.
package index

import (
	"slices"
	"strings"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/kana"
)

// Key identifies a headword: its writing and its reading in katakana.
type Key struct {
	Writing string
	Reading string
}

// Sources holds every parsed record in source order.
// Any slice may be nil when the source was not supplied.
type Sources struct {
	Words   []domain.WordEntry
	Pitch   []domain.PitchAccent
	Terms   []domain.TermEntry
	Names   []domain.NameEntry
	Kanji   []domain.KanjiEntry
	Natives []domain.NativeEntry
}

// Stats reports the number of distinct keys per table.
type Stats struct {
	WordKeys   int
	PitchKeys  int
	TermKeys   int
	NameKeys   int
	KanjiKeys  int
	NativeKeys int
}

// Index maps derived keys to the records of each source.
type Index struct {
	words   map[Key][]domain.WordEntry
	pitch   map[Key][]int
	terms   map[Key][]domain.TermEntry
	names   map[Key][]domain.NameEntry
	kanji   map[string][]domain.KanjiEntry
	natives map[Key][]domain.NativeEntry

	// insertion order of the enumerable tables
	wordList   []domain.WordEntry
	nameOrder  []Key
	kanjiOrder []string
}

// WordKey derives the key of a primary entry.
// The writing falls back to the trimmed first reading when there are no writings.
func WordKey(e domain.WordEntry) Key {
	assert(len(e.Readings) > 0, "word entry without readings")
	reading := strings.TrimSpace(e.Readings[0])
	writing := reading
	if len(e.Writings) > 0 {
		writing = e.Writings[0]
	}
	return Key{Writing: writing, Reading: kana.NormalizeReading(reading)}
}

// AuxKey derives the key of an auxiliary term or name record.
func AuxKey(writing, reading string) Key {
	reading = strings.TrimSpace(reading)
	if strings.TrimSpace(writing) == "" {
		writing = reading
	}
	return Key{Writing: writing, Reading: kana.NormalizeReading(reading)}
}

// Build indexes all sources. Lists keep source order.
func Build(src Sources) *Index {
	idx := &Index{
		words:   make(map[Key][]domain.WordEntry, len(src.Words)),
		pitch:   make(map[Key][]int, len(src.Pitch)),
		terms:   make(map[Key][]domain.TermEntry, len(src.Terms)),
		names:   make(map[Key][]domain.NameEntry, len(src.Names)),
		kanji:   make(map[string][]domain.KanjiEntry, len(src.Kanji)),
		natives: make(map[Key][]domain.NativeEntry, len(src.Natives)),
	}

	for _, w := range src.Words {
		k := WordKey(w)
		idx.words[k] = append(idx.words[k], w)
	}
	idx.wordList = src.Words

	for _, p := range src.Pitch {
		k := Key{Writing: p.Writing, Reading: kana.NormalizeReading(p.Reading)}
		for _, a := range p.Accents {
			if !slices.Contains(idx.pitch[k], a) {
				idx.pitch[k] = append(idx.pitch[k], a)
			}
		}
	}

	for _, t := range src.Terms {
		k := AuxKey(t.Writing, t.Reading)
		idx.terms[k] = append(idx.terms[k], t)
	}

	for _, n := range src.Names {
		k := AuxKey(n.Writing, n.Reading)
		if _, ok := idx.names[k]; !ok {
			idx.nameOrder = append(idx.nameOrder, k)
		}
		idx.names[k] = append(idx.names[k], n)
	}

	for _, c := range src.Kanji {
		if _, ok := idx.kanji[c.Character]; !ok {
			idx.kanjiOrder = append(idx.kanjiOrder, c.Character)
		}
		idx.kanji[c.Character] = append(idx.kanji[c.Character], c)
	}

	for _, n := range src.Natives {
		k := Key{Writing: n.Key, Reading: kana.NormalizeReading(n.Kana)}
		idx.natives[k] = append(idx.natives[k], n)
	}

	return idx
}

// Words returns the primary entries sharing key k.
func (idx *Index) Words(k Key) []domain.WordEntry { return orEmpty(idx.words[k]) }

// Pitch returns the accent positions recorded for k.
func (idx *Index) Pitch(k Key) []int { return orEmpty(idx.pitch[k]) }

// Terms returns the auxiliary term entries recorded for k.
func (idx *Index) Terms(k Key) []domain.TermEntry { return orEmpty(idx.terms[k]) }

// Names returns the name entries recorded for k.
func (idx *Index) Names(k Key) []domain.NameEntry { return orEmpty(idx.names[k]) }

// Kanji returns the kanji records for a single character.
func (idx *Index) Kanji(char string) []domain.KanjiEntry { return orEmpty(idx.kanji[char]) }

// Native returns the native-language entries recorded for k.
func (idx *Index) Native(k Key) []domain.NativeEntry { return orEmpty(idx.natives[k]) }

// AllWords returns every primary entry in source order.
func (idx *Index) AllWords() []domain.WordEntry { return orEmpty(idx.wordList) }

// NameKeys returns every name key in first-seen order.
func (idx *Index) NameKeys() []Key { return slices.Clone(idx.nameOrder) }

// KanjiCharacters returns every indexed character in first-seen order.
func (idx *Index) KanjiCharacters() []string { return slices.Clone(idx.kanjiOrder) }

// Stats returns the number of distinct keys per table.
func (idx *Index) Stats() Stats {
	return Stats{
		WordKeys:   len(idx.words),
		PitchKeys:  len(idx.pitch),
		TermKeys:   len(idx.terms),
		NameKeys:   len(idx.names),
		KanjiKeys:  len(idx.kanji),
		NativeKeys: len(idx.natives),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func assert(cond bool, msg string) {
	if !cond {
		panic("index: " + msg)
	}
}
