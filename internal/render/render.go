// Package render builds the HTML definition text of dictionary entries.
// Rendering is plain string construction over fixed templates.
package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/kana"
)

const (
	entrySeparator  = "<hr/>"
	headSeparator   = " &nbsp;&nbsp;&mdash; "
	headwordOpen    = "【"
	headwordClose   = "】"
	headwordJoin    = "／"
	labelJoin       = ",&nbsp;"
	wordTypeStart   = ` <span style="font-size: 0.8em; font-style: italic; margin-left: 0;">`
	wordTypeEnd     = `</span>`
	glossBlockStart = `<p style="margin-top: 0.7em; margin-bottom: 0.7em;">`
	glossBlockEnd   = `</p>`
)

// Matches are the auxiliary records that matched a word entry.
type Matches struct {
	Accents []int
	Terms   []domain.TermEntry
	Natives []domain.NativeEntry
}

// Word renders the full definition of a primary entry: header, numbered
// glosses, auxiliary term blocks and at most one native definition.
func Word(e domain.WordEntry, m Matches, opts Options) string {
	var b strings.Builder
	b.WriteString(entrySeparator)
	b.WriteString(Header(e, m.Accents, opts))
	b.WriteString(Body(e, m))
	return b.String()
}

// Header renders the reading, pitch accents, headwords and word-type tag.
func Header(e domain.WordEntry, accents []int, opts Options) string {
	var b strings.Builder

	reading := e.Readings[0]
	if opts.Katakana {
		b.WriteString(kana.ToKatakana(reading))
	} else {
		b.WriteString(kana.ToHiragana(reading))
	}

	if len(accents) > 0 {
		b.WriteByte(' ')
		for _, a := range accents {
			b.WriteString("[" + strconv.Itoa(a) + "]")
		}
	}

	b.WriteString(headSeparator)
	b.WriteString(headwordOpen)
	if e.UsuallyKana || len(e.Writings) == 0 {
		b.WriteString(reading)
	} else {
		b.WriteString(strings.Join(e.Writings, headwordJoin))
	}
	b.WriteString(headwordClose)

	if tag := wordType(e, opts.Labels); tag != "" {
		b.WriteString(wordTypeStart + tag + wordTypeEnd)
	}
	return b.String()
}

// wordType returns the tag text for e, or "" when no tag applies.
func wordType(e domain.WordEntry, labels LabelSet) string {
	switch e.PartOfSpeech {
	case domain.PartOfSpeechVerb:
		parts := []string{labels.Verb}
		if family, ok := labels.Families[e.Conjugation.Family()]; ok {
			parts = append(parts, family)
		}
		switch vt, vi := e.Transitivity(); {
		case vt && !vi:
			parts = append(parts, labels.Transitive)
		case vi && !vt:
			parts = append(parts, labels.Intransitive)
		}
		return strings.Join(parts, labelJoin)
	case domain.PartOfSpeechAdjective:
		switch e.Conjugation {
		case domain.ConjugationIAdjective:
			return "i-adjective"
		case domain.ConjugationIrregularIAdj:
			return "i-adjective" + labelJoin + "irregular"
		default:
			return "adjective"
		}
	case domain.PartOfSpeechExpression:
		return "expression"
	}
	return ""
}

// Body renders the numbered gloss list, one labelled block per matched
// term entry and the first native definition verbatim.
func Body(e domain.WordEntry, m Matches) string {
	var b strings.Builder
	b.WriteString(glossBlockStart)
	writeNumbered(&b, e.Glosses)
	b.WriteString(glossBlockEnd)

	for _, t := range m.Terms {
		b.WriteString("<p><b>" + html.EscapeString(t.Dictionary) + "</b><br/>")
		writeNumbered(&b, t.Glosses)
		b.WriteString("</p>")
	}

	// Only the first native match is shown.
	if len(m.Natives) > 0 {
		b.WriteString(m.Natives[0].Definition)
	}
	return b.String()
}

func writeNumbered(b *strings.Builder, glosses []string) {
	for i, g := range glosses {
		b.WriteString("<b>" + strconv.Itoa(i+1) + ".</b> " + html.EscapeString(g) + "<br/>")
	}
}

// Name renders a proper-noun entry.
func Name(n domain.NameEntry) string {
	var b strings.Builder
	b.WriteString(entrySeparator)
	if n.Reading != "" {
		b.WriteString(html.EscapeString(n.Reading))
	}
	b.WriteString(headSeparator + headwordOpen + html.EscapeString(n.Writing) + headwordClose)

	tag := "name"
	for _, t := range n.Tags {
		tag += labelJoin + html.EscapeString(t)
	}
	b.WriteString(wordTypeStart + tag + wordTypeEnd)

	if len(n.Glosses) > 0 {
		b.WriteString("<ul>")
		for _, g := range n.Glosses {
			b.WriteString("<li>" + html.EscapeString(g) + "</li>")
		}
		b.WriteString("</ul>")
	}
	return b.String()
}

// Kanji renders a single-character entry.
func Kanji(k domain.KanjiEntry) string {
	var b strings.Builder
	b.WriteString(entrySeparator)
	b.WriteString(`<span style="font-size: 2em;">` + html.EscapeString(k.Character) + `</span> `)
	b.WriteString(html.EscapeString(strings.Join(k.Meanings, ", ")))
	if len(k.Onyomi) > 0 {
		b.WriteString("<br/>音: " + html.EscapeString(strings.Join(k.Onyomi, headwordJoin)))
	}
	if len(k.Kunyomi) > 0 {
		b.WriteString("<br/>訓: " + html.EscapeString(strings.Join(k.Kunyomi, headwordJoin)))
	}
	return b.String()
}
