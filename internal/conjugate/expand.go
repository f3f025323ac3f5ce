// Package conjugate expands a dictionary headword into every surface form a
// reader may look up: the base forms, their inflections according to the
// entry's conjugation class, and the hiragana/katakana twins of kana forms.
package conjugate

import (
	"slices"
	"strings"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/kana"
)

// kanaPriorityDivisor boosts kana keys of words usually written in kana.
const kanaPriorityDivisor = 8

// Expand returns the lookup keys of e, deduplicated by (text, priority)
// and ordered by domain.SortKey.
func Expand(e domain.WordEntry) []domain.LookupKey {
	if len(e.Readings) == 0 {
		panic("conjugate: word entry without readings")
	}

	ruleSet := RulesFor(e.Conjugation)
	seen := make(map[domain.LookupKey]struct{})
	var keys []domain.LookupKey

	add := func(text string, priority int) {
		k := domain.LookupKey{Text: text, Priority: priority}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	for _, base := range BaseForms(e) {
		for _, form := range Inflect(base, ruleSet) {
			if form == "" {
				continue
			}
			priority := Priority(e, form)
			add(form, priority)
			if kana.IsAllKana(form) {
				add(kana.ToHiragana(form), priority)
				add(kana.ToKatakana(form), priority)
			}
		}
	}

	slices.SortFunc(keys, domain.CompareLookupKeys)
	return keys
}

// BaseForms returns the sorted, deduplicated forms to inflect. Entries
// usually written in kana use every reading; others only the canonical one.
func BaseForms(e domain.WordEntry) []string {
	var forms []string
	if e.UsuallyKana {
		forms = append(forms, e.Readings...)
	} else if len(e.Readings) > 0 {
		forms = append(forms, e.Readings[0])
	}
	forms = append(forms, e.Writings...)

	out := forms[:0]
	for _, f := range forms {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Inflect applies ruleSet to base. The base form is always kept; a rule
// whose suffix does not match contributes nothing.
func Inflect(base string, ruleSet []Rule) []string {
	forms := []string{base}
	for _, r := range ruleSet {
		if r.Suffix == "" || !strings.HasSuffix(base, r.Suffix) {
			continue
		}
		stem := strings.TrimSuffix(base, r.Suffix)
		for _, repl := range r.Replacements {
			forms = append(forms, stem+repl)
		}
	}
	return forms
}

// Priority returns the rank of surface form for entry e.
func Priority(e domain.WordEntry, form string) int {
	if e.UsuallyKana && kana.IsAllKana(form) {
		return e.Priority / kanaPriorityDivisor
	}
	return e.Priority
}
