package conjugate

import "github.com/heartmarshall/kobo-jadict/internal/domain"

// Rule strips Suffix from a dictionary form and appends each replacement.
// An empty Suffix means the class does not inflect.
type Rule struct {
	Suffix       string
	Replacements []string
}

// godan builds the rule for a godan row: the a-, i-, e- and o-stems
// followed by the te and ta forms.
func godan(suffix, a, i, e, o, te, ta string) []Rule {
	return []Rule{{Suffix: suffix, Replacements: []string{a, i, e, o, te, ta}}}
}

// kuruForms are appended after the stem of くる/来る; root is こ/き or 来.
func kuruForms(ko, ki string) []string {
	return []string{
		ko + "ない", ko + "なかった", ko + "なくて",
		ki + "て", ki + "た",
		ko + "られ", ko + "させ", ko + "い",
		ki + "ます", ki + "ません", ki + "ました",
	}
}

// rules maps a conjugation class to its suffix rules. Classes missing from
// the table are passed through unchanged. Kuru carries two spellings.
var rules = map[domain.ConjugationClass][]Rule{
	domain.ConjugationIchidan: {{Suffix: "る", Replacements: []string{"", "られ", "させ", "ろ", "て", "た"}}},

	domain.ConjugationGodanU:   godan("う", "わ", "い", "え", "お", "って", "った"),
	domain.ConjugationGodanTsu: godan("つ", "た", "ち", "て", "と", "って", "った"),
	domain.ConjugationGodanRu:  godan("る", "ら", "り", "れ", "ろ", "って", "った"),
	domain.ConjugationGodanKu:  godan("く", "か", "き", "け", "こ", "いて", "いた"),
	domain.ConjugationGodanGu:  godan("ぐ", "が", "ぎ", "げ", "ご", "いで", "いだ"),
	domain.ConjugationGodanNu:  godan("ぬ", "な", "に", "ね", "の", "んで", "んだ"),
	domain.ConjugationGodanBu:  godan("ぶ", "ば", "び", "べ", "ぼ", "んで", "んだ"),
	domain.ConjugationGodanMu:  godan("む", "ま", "み", "め", "も", "んで", "んだ"),
	domain.ConjugationGodanSu:  godan("す", "さ", "し", "せ", "そ", "して", "した"),
	domain.ConjugationIku:      godan("く", "か", "き", "け", "こ", "って", "った"),

	domain.ConjugationKuru: {
		{Suffix: "くる", Replacements: kuruForms("こ", "き")},
		{Suffix: "来る", Replacements: kuruForms("来", "来")},
	},

	domain.ConjugationSuru: {{Suffix: "する", Replacements: []string{
		"しな", "しろ", "させ", "され", "でき", "した", "して", "します", "しません",
	}}},

	domain.ConjugationIAdjective: {{Suffix: "い", Replacements: []string{"", "く", "け", "かった", "かって"}}},
}

// RulesFor returns the rules of class c, or nil for a passthrough class.
func RulesFor(c domain.ConjugationClass) []Rule {
	return rules[c]
}
