// Package jmdict parses the JMdict XML dictionary into primary word entries.
// Pure function: file path in, domain structs out.
package jmdict

import (
	"fmt"
	"io"
	"os"
	"strings"

	jmdict "github.com/yomidevs/jmdict-go"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/kana"
)

const (
	glossJoin = "; "
	glossLang = "eng"
)

// Stats holds parser statistics for logging.
type Stats struct {
	TotalEntries int
	NoReadings   int
	NoGlosses    int
	Parsed       int
}

// Result holds the parsed entries in file order.
type Result struct {
	Entries []domain.WordEntry
	Stats   Stats
}

// Parse reads a JMdict XML file.
func Parse(filePath string) (Result, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses JMdict XML from r.
func Read(r io.Reader) (Result, error) {
	dict, entities, err := jmdict.LoadJmdict(r)
	if err != nil {
		return Result{}, fmt.Errorf("load jmdict: %w", err)
	}

	codes := entityCodes(entities)
	result := Result{Entries: make([]domain.WordEntry, 0, len(dict.Entries))}

	for _, e := range dict.Entries {
		result.Stats.TotalEntries++

		entry, ok := convert(e, codes)
		if !ok {
			result.Stats.NoReadings++
			continue
		}
		if len(entry.Glosses) == 0 {
			result.Stats.NoGlosses++
			continue
		}
		result.Entries = append(result.Entries, entry)
		result.Stats.Parsed++
	}

	return result, nil
}

// entityCodes maps expanded entity text back to its short name, so that
// tags compare equal whether the loader kept "v1" or expanded it.
func entityCodes(entities map[string]string) map[string]string {
	codes := make(map[string]string, len(entities))
	for name, text := range entities {
		codes[text] = name
	}
	return codes
}

func code(codes map[string]string, tag string) string {
	if name, ok := codes[tag]; ok {
		return name
	}
	return tag
}

// convert maps one JMdict entry. It reports false for entries without
// a usable reading; every WordEntry must have one.
func convert(e jmdict.JmdictEntry, codes map[string]string) (domain.WordEntry, bool) {
	entry := domain.WordEntry{
		Sequence: e.Sequence,
		Tags:     make(map[string]struct{}),
		Priority: rankUnlisted,
	}

	for _, k := range e.Kanji {
		if w := kana.NormalizeText(k.Expression); w != "" {
			entry.Writings = append(entry.Writings, w)
		}
		entry.Priority = min(entry.Priority, rank(k.Priorities))
	}
	for _, r := range e.Readings {
		if rd := kana.NormalizeText(r.Reading); rd != "" {
			entry.Readings = append(entry.Readings, rd)
		}
		entry.Priority = min(entry.Priority, rank(r.Priorities))
	}
	if len(entry.Readings) == 0 {
		return domain.WordEntry{}, false
	}

	var pos []string
	for i, s := range e.Sense {
		for _, p := range s.PartsOfSpeech {
			c := code(codes, p)
			pos = append(pos, c)
			entry.Tags[c] = struct{}{}
		}
		for _, m := range s.Misc {
			c := code(codes, m)
			entry.Tags[c] = struct{}{}
			if i == 0 && c == miscUsuallyKana {
				entry.UsuallyKana = true
			}
		}

		var glosses []string
		for _, g := range s.Glossary {
			if g.Language != nil && *g.Language != glossLang {
				continue
			}
			if c := strings.TrimSpace(g.Content); c != "" {
				glosses = append(glosses, c)
			}
		}
		if len(glosses) > 0 {
			entry.Glosses = append(entry.Glosses, strings.Join(glosses, glossJoin))
		}
	}

	entry.Conjugation, entry.PartOfSpeech = classify(pos)
	return entry, true
}
