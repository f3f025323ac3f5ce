package render

import (
	"strings"
	"testing"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

func verb(class domain.ConjugationClass, tags ...string) domain.WordEntry {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return domain.WordEntry{
		Writings:     []string{"食べる"},
		Readings:     []string{"たべる"},
		Glosses:      []string{"to eat"},
		PartOfSpeech: domain.PartOfSpeechVerb,
		Conjugation:  class,
		Tags:         set,
	}
}

func TestHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entry   domain.WordEntry
		accents []int
		opts    Options
		want    string
	}{
		{
			name:  "ichidan transitive",
			entry: verb(domain.ConjugationIchidan, domain.TagTransitive),
			opts:  DefaultOptions(),
			want: "たべる &nbsp;&nbsp;&mdash; 【食べる】" + wordTypeStart +
				"verb,&nbsp;ichidan,&nbsp;transitive" + wordTypeEnd,
		},
		{
			name:    "accents and katakana display",
			entry:   verb(domain.ConjugationIchidan),
			accents: []int{2, 0},
			opts:    Options{Katakana: true, Labels: GrammarLabels},
			want: "タベル [2][0] &nbsp;&nbsp;&mdash; 【食べる】" + wordTypeStart +
				"verb,&nbsp;ichidan" + wordTypeEnd,
		},
		{
			name:  "movement labels",
			entry: verb(domain.ConjugationGodanRu, domain.TagIntransitive),
			opts:  Options{Labels: MovementLabels},
			want: "たべる &nbsp;&nbsp;&mdash; 【食べる】" + wordTypeStart +
				"verb,&nbsp;godan,&nbsp;self-move" + wordTypeEnd,
		},
		{
			name:  "both transitivity tags yield no label",
			entry: verb(domain.ConjugationKuru, domain.TagTransitive, domain.TagIntransitive),
			opts:  DefaultOptions(),
			want: "たべる &nbsp;&nbsp;&mdash; 【食べる】" + wordTypeStart +
				"verb,&nbsp;irregular" + wordTypeEnd,
		},
		{
			name: "usually kana shows reading only",
			entry: domain.WordEntry{
				Writings:     []string{"流石"},
				Readings:     []string{"さすが"},
				UsuallyKana:  true,
				PartOfSpeech: domain.PartOfSpeechOther,
			},
			opts: DefaultOptions(),
			want: "さすが &nbsp;&nbsp;&mdash; 【さすが】",
		},
		{
			name: "multiple writings joined",
			entry: domain.WordEntry{
				Writings:     []string{"高い", "貴い"},
				Readings:     []string{"たかい"},
				PartOfSpeech: domain.PartOfSpeechAdjective,
				Conjugation:  domain.ConjugationIAdjective,
			},
			opts: DefaultOptions(),
			want: "たかい &nbsp;&nbsp;&mdash; 【高い／貴い】" + wordTypeStart + "i-adjective" + wordTypeEnd,
		},
		{
			name: "irregular adjective",
			entry: domain.WordEntry{
				Readings:     []string{"いい"},
				PartOfSpeech: domain.PartOfSpeechAdjective,
				Conjugation:  domain.ConjugationIrregularIAdj,
			},
			opts: DefaultOptions(),
			want: "いい &nbsp;&nbsp;&mdash; 【いい】" + wordTypeStart + "i-adjective,&nbsp;irregular" + wordTypeEnd,
		},
		{
			name: "expression",
			entry: domain.WordEntry{
				Writings:     []string{"お早う"},
				Readings:     []string{"おはよう"},
				PartOfSpeech: domain.PartOfSpeechExpression,
			},
			opts: DefaultOptions(),
			want: "おはよう &nbsp;&nbsp;&mdash; 【お早う】" + wordTypeStart + "expression" + wordTypeEnd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Header(tt.entry, tt.accents, tt.opts); got != tt.want {
				t.Errorf("Header()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestBody_NoAuxiliaryMatches(t *testing.T) {
	t.Parallel()

	e := domain.WordEntry{Readings: []string{"たべる"}, Glosses: []string{"to eat", "to live on"}}
	got := Body(e, Matches{})
	want := glossBlockStart + "<b>1.</b> to eat<br/><b>2.</b> to live on<br/>" + glossBlockEnd
	if got != want {
		t.Errorf("Body()\n got: %s\nwant: %s", got, want)
	}
}

func TestBody_AuxiliaryBlocks(t *testing.T) {
	t.Parallel()

	e := domain.WordEntry{Readings: []string{"たべる"}, Glosses: []string{"to eat"}}
	m := Matches{
		Terms: []domain.TermEntry{
			{Dictionary: "JMdict (French)", Glosses: []string{"manger"}},
		},
		Natives: []domain.NativeEntry{
			{Definition: "<p>first</p>"},
			{Definition: "<p>second</p>"},
		},
	}
	got := Body(e, m)

	if !strings.Contains(got, "<p><b>JMdict (French)</b><br/><b>1.</b> manger<br/></p>") {
		t.Errorf("term block missing: %s", got)
	}
	if !strings.HasSuffix(got, "<p>first</p>") {
		t.Errorf("first native definition should be appended: %s", got)
	}
	if strings.Contains(got, "second") {
		t.Error("only the first native definition is rendered")
	}
}

func TestBody_EscapesGlosses(t *testing.T) {
	t.Parallel()

	e := domain.WordEntry{Readings: []string{"あ"}, Glosses: []string{"a <b> & c"}}
	if got := Body(e, Matches{}); !strings.Contains(got, "a &lt;b&gt; &amp; c") {
		t.Errorf("gloss not escaped: %s", got)
	}
}

func TestWord_StartsWithSeparator(t *testing.T) {
	t.Parallel()

	got := Word(verb(domain.ConjugationIchidan), Matches{}, DefaultOptions())
	if !strings.HasPrefix(got, "<hr/>たべる") {
		t.Errorf("Word() = %s", got)
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	got := Name(domain.NameEntry{
		Writing: "田中",
		Reading: "たなか",
		Glosses: []string{"Tanaka"},
		Tags:    []string{"surname"},
	})
	want := "<hr/>たなか &nbsp;&nbsp;&mdash; 【田中】" + wordTypeStart + "name,&nbsp;surname" + wordTypeEnd +
		"<ul><li>Tanaka</li></ul>"
	if got != want {
		t.Errorf("Name()\n got: %s\nwant: %s", got, want)
	}

	bare := Name(domain.NameEntry{Writing: "ヤマダ"})
	if strings.Contains(bare, "<ul>") {
		t.Errorf("no glosses should render no list: %s", bare)
	}
}

func TestKanji(t *testing.T) {
	t.Parallel()

	got := Kanji(domain.KanjiEntry{
		Character: "食",
		Meanings:  []string{"eat", "food"},
		Onyomi:    []string{"ショク", "ジキ"},
		Kunyomi:   []string{"く.う", "た.べる"},
	})
	want := `<hr/><span style="font-size: 2em;">食</span> eat, food<br/>音: ショク／ジキ<br/>訓: く.う／た.べる`
	if got != want {
		t.Errorf("Kanji()\n got: %s\nwant: %s", got, want)
	}

	noReadings := Kanji(domain.KanjiEntry{Character: "〆", Meanings: []string{"closing"}})
	if strings.Contains(noReadings, "<br/>") {
		t.Errorf("empty reading lists should be omitted: %s", noReadings)
	}
}
