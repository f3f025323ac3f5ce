package render

import "github.com/heartmarshall/kobo-jadict/internal/domain"

// LabelSet holds the wording of grammatical tags in entry headers.
type LabelSet struct {
	Verb         string
	Transitive   string
	Intransitive string
	Families     map[domain.VerbFamily]string
}

// GrammarLabels uses conventional grammatical terms.
var GrammarLabels = LabelSet{
	Verb:         "verb",
	Transitive:   "transitive",
	Intransitive: "intransitive",
	Families: map[domain.VerbFamily]string{
		domain.VerbFamilyIchidan:   "ichidan",
		domain.VerbFamilyGodan:     "godan",
		domain.VerbFamilyIrregular: "irregular",
	},
}

// MovementLabels describes transitivity as whether the action moves
// something else or the subject itself.
var MovementLabels = LabelSet{
	Verb:         "verb",
	Transitive:   "other-move",
	Intransitive: "self-move",
	Families:     GrammarLabels.Families,
}

// Options controls how entries are rendered.
type Options struct {
	// Katakana renders header readings in katakana instead of hiragana.
	Katakana bool
	Labels   LabelSet
}

// DefaultOptions renders hiragana readings with grammatical labels.
func DefaultOptions() Options {
	return Options{Labels: GrammarLabels}
}
