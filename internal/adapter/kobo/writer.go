// Package kobo packages dictionary entries as a Kobo dicthtml archive.
//
// The archive holds one gzip-compressed html file per lookup prefix and a
// "words" SQLite database listing every lookup key. An entry is written to
// the file of each distinct prefix among its keys.
package kobo

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"golang.org/x/net/html"
	_ "modernc.org/sqlite" // sqlite driver for the words database

	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

const wordsMember = "words"

// Stats describes a written archive.
type Stats struct {
	Files   int
	Entries int
	Words   int
}

// Writer writes a dicthtml archive to Path. The file is replaced
// atomically: a failed write leaves any previous archive intact.
type Writer struct {
	Path  string
	log   *slog.Logger
	stats Stats
}

// NewWriter creates a Writer for path.
func NewWriter(log *slog.Logger, path string) *Writer {
	return &Writer{Path: path, log: log}
}

// Name identifies the sink in pipeline logs.
func (w *Writer) Name() string { return "kobo" }

// Stats returns the counts of the last successful Write.
func (w *Writer) Stats() Stats { return w.stats }

// Write packages entries in the given order.
func (w *Writer) Write(ctx context.Context, entries []domain.OutputEntry) (err error) {
	dir := filepath.Dir(w.Path)
	tmp, err := os.CreateTemp(dir, ".dicthtml-*.zip")
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	stats, err := writeArchive(ctx, tmp, entries)
	if err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}

	w.stats = stats
	w.log.Info("kobo archive written",
		slog.String("path", w.Path),
		slog.Int("files", stats.Files),
		slog.Int("entries", stats.Entries),
		slog.Int("words", stats.Words),
	)
	return nil
}

func writeArchive(ctx context.Context, out io.Writer, entries []domain.OutputEntry) (Stats, error) {
	groups, prefixes := groupByPrefix(entries)
	zw := zip.NewWriter(out)

	for _, prefix := range prefixes {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		if err := writeHTML(zw, prefix, entries, groups[prefix]); err != nil {
			return Stats{}, fmt.Errorf("write %s.html: %w", prefix, err)
		}
	}

	words := distinctKeys(entries)
	if err := writeWords(ctx, zw, words); err != nil {
		return Stats{}, fmt.Errorf("write words: %w", err)
	}

	if err := zw.Close(); err != nil {
		return Stats{}, fmt.Errorf("finish archive: %w", err)
	}
	return Stats{Files: len(prefixes), Entries: len(entries), Words: len(words)}, nil
}

// groupByPrefix maps each prefix to the indices of the entries filed
// under it, in entry order. Prefixes are returned sorted.
func groupByPrefix(entries []domain.OutputEntry) (map[string][]int, []string) {
	groups := make(map[string][]int)
	for i, e := range entries {
		seen := make(map[string]bool, len(e.Keys))
		for _, k := range e.Keys {
			p := Prefix(k.Text)
			if seen[p] {
				continue
			}
			seen[p] = true
			groups[p] = append(groups[p], i)
		}
	}

	prefixes := make([]string, 0, len(groups))
	for p := range groups {
		prefixes = append(prefixes, p)
	}
	slices.Sort(prefixes)
	return groups, prefixes
}

func writeHTML(zw *zip.Writer, prefix string, entries []domain.OutputEntry, indices []int) error {
	member, err := zw.CreateHeader(&zip.FileHeader{Name: prefix + ".html", Method: zip.Store})
	if err != nil {
		return err
	}
	gz, err := gzip.NewWriterLevel(member, gzip.BestCompression)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(gz)

	bw.WriteString("<html>")
	for _, i := range indices {
		writeEntry(bw, entries[i])
	}
	bw.WriteString("</html>")

	if err := bw.Flush(); err != nil {
		return err
	}
	return gz.Close()
}

// writeEntry emits <w><a name="KEY"/><var><variant name="KEY"/>...</var>DEF</w>.
func writeEntry(bw *bufio.Writer, e domain.OutputEntry) {
	bw.WriteString(`<w><a name="`)
	bw.WriteString(html.EscapeString(e.Headword()))
	bw.WriteString(`"/>`)
	if len(e.Keys) > 1 {
		bw.WriteString("<var>")
		for _, k := range e.Keys[1:] {
			bw.WriteString(`<variant name="`)
			bw.WriteString(html.EscapeString(k.Text))
			bw.WriteString(`"/>`)
		}
		bw.WriteString("</var>")
	}
	bw.WriteString(e.Definition)
	bw.WriteString("</w>")
}

func distinctKeys(entries []domain.OutputEntry) []string {
	seen := make(map[string]bool)
	var words []string
	for _, e := range entries {
		for _, k := range e.Keys {
			if k.Text != "" && !seen[k.Text] {
				seen[k.Text] = true
				words = append(words, k.Text)
			}
		}
	}
	slices.Sort(words)
	return words
}

// writeWords builds the SQLite words table in a temporary file and copies
// it into the archive.
func writeWords(ctx context.Context, zw *zip.Writer, words []string) error {
	dir, err := os.MkdirTemp("", "jadict-words-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	dbPath := filepath.Join(dir, wordsMember)
	if err := buildWordsDB(ctx, dbPath, words); err != nil {
		return err
	}

	f, err := os.Open(dbPath)
	if err != nil {
		return err
	}
	defer f.Close()

	member, err := zw.Create(wordsMember)
	if err != nil {
		return err
	}
	_, err = io.Copy(member, f)
	return err
}

func buildWordsDB(ctx context.Context, path string, words []string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `CREATE TABLE WORDS (text TEXT PRIMARY KEY NOT NULL)`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO WORDS (text) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range words {
		if _, err := stmt.ExecContext(ctx, w); err != nil {
			return fmt.Errorf("insert %q: %w", w, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return db.Close()
}
