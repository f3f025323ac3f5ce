// Package assemble turns an index into the final, ordered list of
// dictionary entries: one per primary word, one per name record and one
// per kanji character.
package assemble

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/kobo-jadict/internal/conjugate"
	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/index"
	"github.com/heartmarshall/kobo-jadict/internal/kana"
	"github.com/heartmarshall/kobo-jadict/internal/render"
)

// Options configures assembly.
type Options struct {
	Render   render.Options
	SortMode SortMode
	// Workers bounds the number of entries synthesized concurrently.
	// Zero means runtime.GOMAXPROCS.
	Workers int
}

// Stats counts the entries produced per kind.
type Stats struct {
	Words int
	Names int
	Kanji int
}

// Build synthesizes every output entry from idx and returns them sorted.
func Build(ctx context.Context, idx *index.Index, opts Options) ([]domain.OutputEntry, Stats, error) {
	words, err := buildWords(ctx, idx, opts)
	if err != nil {
		return nil, Stats{}, err
	}
	names := buildNames(idx)
	kanji := buildKanji(idx)

	out := make([]domain.OutputEntry, 0, len(words)+len(names)+len(kanji))
	out = append(out, kanji...)
	out = append(out, words...)
	out = append(out, names...)

	Sort(out, opts.SortMode)

	return out, Stats{Words: len(words), Names: len(names), Kanji: len(kanji)}, nil
}

// buildWords renders primary entries concurrently. Each goroutine owns
// one slot of the result slice.
func buildWords(ctx context.Context, idx *index.Index, opts Options) ([]domain.OutputEntry, error) {
	words := idx.AllWords()
	out := make([]domain.OutputEntry, len(words))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, w := range words {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = WordEntry(idx, w, opts.Render)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("synthesize word entries: %w", err)
	}

	// An entry whose forms are all blank has nothing to look up.
	return slices.DeleteFunc(out, func(e domain.OutputEntry) bool { return len(e.Keys) == 0 }), nil
}

// WordEntry builds the output entry of one primary word.
func WordEntry(idx *index.Index, w domain.WordEntry, opts render.Options) domain.OutputEntry {
	return domain.OutputEntry{
		Kind:       domain.EntryKindWord,
		Keys:       conjugate.Expand(w),
		Definition: render.Word(w, Match(idx, w), opts),
	}
}

// Match collects the auxiliary records of w. Terms always match on the word
// key. Accents and native definitions only attach to words with a non-kana
// writing, because kana-only keys collide across homophones.
func Match(idx *index.Index, w domain.WordEntry) render.Matches {
	key := index.WordKey(w)
	m := render.Matches{Terms: idx.Terms(key)}
	if strings.TrimSpace(key.Writing) != "" && !kana.IsAllKana(key.Writing) {
		m.Accents = idx.Pitch(key)
		m.Natives = idx.Native(key)
	}
	return m
}

func buildNames(idx *index.Index) []domain.OutputEntry {
	var out []domain.OutputEntry
	for _, k := range idx.NameKeys() {
		for _, n := range idx.Names(k) {
			out = append(out, domain.OutputEntry{
				Kind:       domain.EntryKindName,
				Keys:       []domain.LookupKey{{Text: k.Writing, Priority: domain.MaxPriority}},
				Definition: render.Name(n),
			})
		}
	}
	return out
}

func buildKanji(idx *index.Index) []domain.OutputEntry {
	var out []domain.OutputEntry
	for _, char := range idx.KanjiCharacters() {
		var def strings.Builder
		for _, k := range idx.Kanji(char) {
			def.WriteString(render.Kanji(k))
		}
		out = append(out, domain.OutputEntry{
			Kind:       domain.EntryKindKanji,
			Keys:       []domain.LookupKey{{Text: char, Priority: 0}},
			Definition: def.String(),
		})
	}
	return out
}
