package assemble

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/index"
	"github.com/heartmarshall/kobo-jadict/internal/render"
)

func testSources() index.Sources {
	return index.Sources{
		Words: []domain.WordEntry{
			{
				Writings:     []string{"食べる"},
				Readings:     []string{"たべる"},
				Glosses:      []string{"to eat"},
				PartOfSpeech: domain.PartOfSpeechVerb,
				Conjugation:  domain.ConjugationIchidan,
				Priority:     20,
			},
			{
				Readings: []string{"ねこ"},
				Glosses:  []string{"cat"},
				Priority: 30,
			},
			{
				Writings: []string{"長い長い単語"},
				Readings: []string{"ながいながいたんご"},
				Glosses:  []string{"a long word"},
				Priority: 100,
			},
		},
		Pitch: []domain.PitchAccent{
			{Writing: "食べる", Reading: "たべる", Accents: []int{2}},
			{Writing: "ねこ", Reading: "ねこ", Accents: []int{1}},
		},
		Terms: []domain.TermEntry{
			{Writing: "食べる", Reading: "たべる", Glosses: []string{"manger"}, Dictionary: "FR"},
			{Writing: "ねこ", Reading: "ねこ", Glosses: []string{"chat"}, Dictionary: "FR"},
		},
		Natives: []domain.NativeEntry{
			{Key: "食べる", Kana: "たべる", Definition: "<p>native one</p>"},
			{Key: "食べる", Kana: "たべる", Definition: "<p>native two</p>"},
		},
		Names: []domain.NameEntry{
			{Writing: "田", Reading: "た", Glosses: []string{"Ta"}, Tags: []string{"surname"}},
		},
		Kanji: []domain.KanjiEntry{
			{Character: "食", Meanings: []string{"eat"}},
			{Character: "食", Meanings: []string{"food"}},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	idx := index.Build(testSources())
	entries, stats, err := Build(context.Background(), idx, Options{Render: render.DefaultOptions(), Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, Stats{Words: 3, Names: 1, Kanji: 1}, stats)
	require.Len(t, entries, 5)

	// Kanji first at priority 0, names last regardless of length.
	assert.Equal(t, domain.EntryKindKanji, entries[0].Kind)
	assert.Equal(t, "食", entries[0].Headword())
	assert.Contains(t, entries[0].Definition, "eat")
	assert.Contains(t, entries[0].Definition, "food")

	last := entries[len(entries)-1]
	assert.Equal(t, domain.EntryKindName, last.Kind)
	assert.Equal(t, []domain.LookupKey{{Text: "田", Priority: domain.MaxPriority}}, last.Keys)

	var eat domain.OutputEntry
	for _, e := range entries {
		if e.Kind == domain.EntryKindWord && strings.Contains(e.Definition, "to eat") {
			eat = e
		}
	}
	require.NotEmpty(t, eat.Keys)
	assert.Contains(t, eat.Definition, "たべる [2]")
	assert.Contains(t, eat.Definition, "<b>FR</b>")
	assert.Contains(t, eat.Definition, "native one")
	assert.NotContains(t, eat.Definition, "native two")
}

func TestMatch_KanaOnlyWordsSkipAccentAndNative(t *testing.T) {
	t.Parallel()

	idx := index.Build(testSources())
	cat := domain.WordEntry{Readings: []string{"ねこ"}}

	m := Match(idx, cat)
	assert.Empty(t, m.Accents)
	assert.Empty(t, m.Natives)
	// Terms are keyed by their own writing and match kana-only words too.
	require.Len(t, m.Terms, 1)
	assert.Equal(t, []string{"chat"}, m.Terms[0].Glosses)
}

func TestBuild_Ordering(t *testing.T) {
	t.Parallel()

	idx := index.Build(testSources())
	entries, _, err := Build(context.Background(), idx, Options{Render: render.DefaultOptions()})
	require.NoError(t, err)

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if c := prev.Keys[0].SortKey().Compare(cur.Keys[0].SortKey()); c > 0 {
			t.Errorf("entries out of order at %d: %+v before %+v", i, prev.Keys[0], cur.Keys[0])
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	src := testSources()
	idx := index.Build(src)
	first, _, err := Build(context.Background(), idx, Options{Render: render.DefaultOptions(), Workers: 1})
	require.NoError(t, err)

	for range 5 {
		again, _, err := Build(context.Background(), idx, Options{Render: render.DefaultOptions(), Workers: 8})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuild_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Build(ctx, index.Build(testSources()), Options{Workers: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSort_LengthMode(t *testing.T) {
	t.Parallel()

	entries := []domain.OutputEntry{
		{Kind: domain.EntryKindName, Keys: []domain.LookupKey{{Text: "A", Priority: domain.MaxPriority}}},
		{Kind: domain.EntryKindWord, Keys: []domain.LookupKey{{Text: "ccc", Priority: 0}}},
		{Kind: domain.EntryKindWord, Keys: []domain.LookupKey{{Text: "bb", Priority: 90}}},
	}
	Sort(entries, SortByLength)

	got := []string{entries[0].Headword(), entries[1].Headword(), entries[2].Headword()}
	assert.Equal(t, []string{"bb", "ccc", "A"}, got)
}

func TestSort_TiesBreakOnDefinition(t *testing.T) {
	t.Parallel()

	key := []domain.LookupKey{{Text: "同じ", Priority: 5}}
	a := []domain.OutputEntry{{Keys: key, Definition: "b"}, {Keys: key, Definition: "a"}}
	b := []domain.OutputEntry{{Keys: key, Definition: "a"}, {Keys: key, Definition: "b"}}
	Sort(a, SortByPriority)
	Sort(b, SortByPriority)
	assert.Equal(t, a, b)
}

func TestParseSortMode(t *testing.T) {
	t.Parallel()

	m, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortByPriority, m)

	m, err = ParseSortMode("length")
	require.NoError(t, err)
	assert.Equal(t, SortByLength, m)

	_, err = ParseSortMode("random")
	assert.Error(t, err)
}
