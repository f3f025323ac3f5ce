package domain

// PartOfSpeech is the coarse grammatical category used for header tags.
type PartOfSpeech string

const (
	PartOfSpeechVerb       PartOfSpeech = "VERB"
	PartOfSpeechAdjective  PartOfSpeech = "ADJECTIVE"
	PartOfSpeechExpression PartOfSpeech = "EXPRESSION"
	PartOfSpeechOther      PartOfSpeech = "OTHER"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechExpression, PartOfSpeechOther:
		return true
	}
	return false
}

// ConjugationClass is the inflection pattern of a verb or adjective.
type ConjugationClass string

const (
	ConjugationNone          ConjugationClass = "NONE"
	ConjugationIchidan       ConjugationClass = "ICHIDAN"
	ConjugationGodanU        ConjugationClass = "GODAN_U"
	ConjugationGodanTsu      ConjugationClass = "GODAN_TSU"
	ConjugationGodanRu       ConjugationClass = "GODAN_RU"
	ConjugationGodanKu       ConjugationClass = "GODAN_KU"
	ConjugationGodanGu       ConjugationClass = "GODAN_GU"
	ConjugationGodanNu       ConjugationClass = "GODAN_NU"
	ConjugationGodanBu       ConjugationClass = "GODAN_BU"
	ConjugationGodanMu       ConjugationClass = "GODAN_MU"
	ConjugationGodanSu       ConjugationClass = "GODAN_SU"
	ConjugationGodanHu       ConjugationClass = "GODAN_HU"
	ConjugationIku           ConjugationClass = "IKU"
	ConjugationKuru          ConjugationClass = "KURU"
	ConjugationSuru          ConjugationClass = "SURU"
	ConjugationSuruSC        ConjugationClass = "SURU_SC"
	ConjugationKureru        ConjugationClass = "KURERU"
	ConjugationAru           ConjugationClass = "ARU"
	ConjugationSharu         ConjugationClass = "SHARU"
	ConjugationIrregularVerb ConjugationClass = "IRREGULAR_VERB"
	ConjugationIAdjective    ConjugationClass = "I_ADJECTIVE"
	ConjugationIrregularIAdj ConjugationClass = "IRREGULAR_I_ADJECTIVE"
)

func (c ConjugationClass) String() string { return string(c) }

func (c ConjugationClass) IsValid() bool {
	return c.Family() != "" || c == ConjugationNone || c == ConjugationIAdjective || c == ConjugationIrregularIAdj
}

// VerbFamily groups verb conjugation classes for display.
type VerbFamily string

const (
	VerbFamilyIchidan   VerbFamily = "ichidan"
	VerbFamilyGodan     VerbFamily = "godan"
	VerbFamilyIrregular VerbFamily = "irregular"
)

// Family returns the verb family of c, or "" for non-verb classes.
func (c ConjugationClass) Family() VerbFamily {
	switch c {
	case ConjugationIchidan:
		return VerbFamilyIchidan
	case ConjugationGodanU, ConjugationGodanTsu, ConjugationGodanRu, ConjugationGodanKu,
		ConjugationGodanGu, ConjugationGodanNu, ConjugationGodanBu, ConjugationGodanMu,
		ConjugationGodanSu:
		return VerbFamilyGodan
	case ConjugationGodanHu, ConjugationIku, ConjugationKuru, ConjugationSuru, ConjugationSuruSC,
		ConjugationKureru, ConjugationAru, ConjugationSharu, ConjugationIrregularVerb:
		return VerbFamilyIrregular
	}
	return ""
}

// Tags marking verb transitivity on a WordEntry.
const (
	TagTransitive   = "vt"
	TagIntransitive = "vi"
)
