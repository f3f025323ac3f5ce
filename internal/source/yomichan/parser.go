// Package yomichan parses Yomichan-format dictionary archives into
// auxiliary term, name and kanji records.
// Pure function: file path in, domain structs out.
package yomichan

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/kana"
)

const (
	indexFile   = "index.json"
	termPrefix  = "term_bank_"
	kanjiPrefix = "kanji_bank_"
)

// nameTags mark a term row as a proper noun (JMnedict name types).
var nameTags = map[string]bool{
	"name": true, "surname": true, "given": true, "fem": true, "masc": true,
	"place": true, "person": true, "company": true, "product": true,
	"organization": true, "station": true, "unclass": true, "group": true,
}

// Stats holds parser statistics for logging.
type Stats struct {
	TermBanks  int
	KanjiBanks int
	Terms      int
	Names      int
	Kanji      int
}

// Result holds one archive's records in bank order.
type Result struct {
	Title string
	Terms []domain.TermEntry
	Names []domain.NameEntry
	Kanji []domain.KanjiEntry
	Stats Stats
}

type indexJSON struct {
	Title    string `json:"title"`
	Revision string `json:"revision"`
	Format   int    `json:"format"`
	Version  int    `json:"version"`
}

// Parse reads a Yomichan dictionary archive. Malformed JSON in any bank
// is a *domain.ParseError.
func Parse(filePath string) (Result, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	var termBanks, kanjiBanks []string
	for _, f := range zr.File {
		name := path.Base(f.Name)
		files[name] = f
		switch {
		case isBank(name, termPrefix):
			termBanks = append(termBanks, name)
		case isBank(name, kanjiPrefix):
			kanjiBanks = append(kanjiBanks, name)
		}
	}
	sortBanks(termBanks)
	sortBanks(kanjiBanks)

	idxFile, ok := files[indexFile]
	if !ok {
		return Result{}, &domain.ParseError{Source: filePath, Reason: "missing index.json"}
	}
	var idx indexJSON
	if err := decodeFile(idxFile, &idx); err != nil {
		return Result{}, &domain.ParseError{Source: filePath + "/" + indexFile, Reason: err.Error()}
	}

	result := Result{Title: strings.TrimSpace(idx.Title)}
	if result.Title == "" {
		result.Title = strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	}

	for _, name := range termBanks {
		var rows [][]json.RawMessage
		if err := decodeFile(files[name], &rows); err != nil {
			return Result{}, &domain.ParseError{Source: filePath + "/" + name, Reason: err.Error()}
		}
		for i, row := range rows {
			if err := result.addTerm(row); err != nil {
				return Result{}, domain.NewParseError(filePath+"/"+name, i+1, "%s", err)
			}
		}
		result.Stats.TermBanks++
	}

	for _, name := range kanjiBanks {
		var rows [][]json.RawMessage
		if err := decodeFile(files[name], &rows); err != nil {
			return Result{}, &domain.ParseError{Source: filePath + "/" + name, Reason: err.Error()}
		}
		for i, row := range rows {
			if err := result.addKanji(row); err != nil {
				return Result{}, domain.NewParseError(filePath+"/"+name, i+1, "%s", err)
			}
		}
		result.Stats.KanjiBanks++
	}

	result.Stats.Terms = len(result.Terms)
	result.Stats.Names = len(result.Names)
	result.Stats.Kanji = len(result.Kanji)
	return result, nil
}

// addTerm decodes [expression, reading, defTags, rules, score, glossary, sequence, termTags].
func (r *Result) addTerm(row []json.RawMessage) error {
	if len(row) < 6 {
		return fmt.Errorf("term row has %d fields, want at least 6", len(row))
	}

	var expression, reading string
	if err := json.Unmarshal(row[0], &expression); err != nil {
		return fmt.Errorf("expression: %w", err)
	}
	if err := json.Unmarshal(row[1], &reading); err != nil {
		return fmt.Errorf("reading: %w", err)
	}
	tags := splitTags(optionalString(row[2]))
	if len(row) > 7 {
		tags = append(tags, splitTags(optionalString(row[7]))...)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(row[5], &items); err != nil {
		return fmt.Errorf("glossary: %w", err)
	}
	glosses := make([]string, 0, len(items))
	for _, item := range items {
		if g := strings.TrimSpace(glossText(item)); g != "" {
			glosses = append(glosses, g)
		}
	}

	expression = kana.NormalizeText(expression)
	reading = kana.NormalizeText(reading)
	if reading == "" {
		reading = expression
	}

	if slices.ContainsFunc(tags, func(t string) bool { return nameTags[t] }) {
		r.Names = append(r.Names, domain.NameEntry{
			Writing:    expression,
			Reading:    reading,
			Glosses:    glosses,
			Dictionary: r.Title,
			Tags:       tags,
		})
		return nil
	}

	r.Terms = append(r.Terms, domain.TermEntry{
		Writing:    expression,
		Reading:    reading,
		Glosses:    glosses,
		Dictionary: r.Title,
		Tags:       tags,
	})
	return nil
}

// addKanji decodes [character, onyomi, kunyomi, tags, meanings, stats].
func (r *Result) addKanji(row []json.RawMessage) error {
	if len(row) < 5 {
		return fmt.Errorf("kanji row has %d fields, want at least 5", len(row))
	}

	var char string
	if err := json.Unmarshal(row[0], &char); err != nil {
		return fmt.Errorf("character: %w", err)
	}
	var meanings []string
	if err := json.Unmarshal(row[4], &meanings); err != nil {
		return fmt.Errorf("meanings: %w", err)
	}

	r.Kanji = append(r.Kanji, domain.KanjiEntry{
		Character:  kana.NormalizeText(char),
		Meanings:   meanings,
		Onyomi:     strings.Fields(optionalString(row[1])),
		Kunyomi:    strings.Fields(optionalString(row[2])),
		Dictionary: r.Title,
	})
	return nil
}

func decodeFile(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// optionalString decodes a JSON string, treating null and non-strings as "".
func optionalString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func splitTags(s string) []string {
	return strings.Fields(s)
}

// glossText flattens a glossary item: a plain string, a {"type":"text"}
// object or structured content.
func glossText(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	var b strings.Builder
	flatten(&b, v)
	return b.String()
}

func flatten(b *strings.Builder, v any) {
	switch t := v.(type) {
	case string:
		b.WriteString(t)
	case []any:
		for _, item := range t {
			flatten(b, item)
		}
	case map[string]any:
		if text, ok := t["text"].(string); ok {
			b.WriteString(text)
			return
		}
		if tag, _ := t["tag"].(string); tag == "rt" || tag == "rp" {
			return
		}
		flatten(b, t["content"])
	}
}

func isBank(name, prefix string) bool {
	_, ok := bankNumber(name, prefix)
	return ok
}

func bankNumber(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"))
	return n, err == nil
}

// sortBanks orders bank files by their number, so term_bank_2 precedes term_bank_10.
func sortBanks(names []string) {
	slices.SortFunc(names, func(a, b string) int {
		na, _ := bankNumber(a, prefixOf(a))
		nb, _ := bankNumber(b, prefixOf(b))
		return na - nb
	})
}

func prefixOf(name string) string {
	if strings.HasPrefix(name, kanjiPrefix) {
		return kanjiPrefix
	}
	return termPrefix
}
