package domain

// WordEntry is one sense-group of the primary dictionary.
// Readings is never empty; the first reading is canonical.
type WordEntry struct {
	Sequence     int
	Writings     []string
	Readings     []string
	Glosses      []string
	PartOfSpeech PartOfSpeech
	Conjugation  ConjugationClass
	UsuallyKana  bool
	Tags         map[string]struct{}
	// Priority is a rank: lower values are more common words.
	Priority int
}

// HasTag reports whether the entry carries tag.
func (e WordEntry) HasTag(tag string) bool {
	_, ok := e.Tags[tag]
	return ok
}

// Transitivity returns the (transitive, intransitive) flags derived from tags.
func (e WordEntry) Transitivity() (bool, bool) {
	return e.HasTag(TagTransitive), e.HasTag(TagIntransitive)
}

// PitchAccent lists the accepted downstep positions for a (writing, reading) pair.
type PitchAccent struct {
	Writing string
	Reading string
	Accents []int
}

// TermEntry is a definition from an auxiliary term dictionary.
type TermEntry struct {
	Writing    string
	Reading    string
	Glosses    []string
	Dictionary string
	Tags       []string
}

// NameEntry is a proper noun from an auxiliary name dictionary.
type NameEntry struct {
	Writing    string
	Reading    string
	Glosses    []string
	Dictionary string
	Tags       []string
}

// KanjiEntry describes a single character.
type KanjiEntry struct {
	Character  string
	Meanings   []string
	Onyomi     []string
	Kunyomi    []string
	Dictionary string
}

// NativeEntry is a pre-rendered monolingual definition.
type NativeEntry struct {
	Key        string
	Kana       string
	Definition string
}
