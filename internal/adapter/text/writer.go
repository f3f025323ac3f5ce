// Package text dumps dictionary entries as tab-separated lines, one entry
// per line, for inspection and diffing between builds:
//
//	key1|key2<TAB>priority1|priority2<TAB>definition
package text

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

// Stdout as Path writes to standard output.
const Stdout = "-"

var lineEscaper = strings.NewReplacer("\\", `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// Writer writes the dump to Path.
type Writer struct {
	Path string
}

// NewWriter creates a Writer for path.
func NewWriter(path string) *Writer {
	return &Writer{Path: path}
}

// Name identifies the sink in pipeline logs.
func (w *Writer) Name() string { return "text" }

// Write dumps entries in the given order.
func (w *Writer) Write(ctx context.Context, entries []domain.OutputEntry) error {
	if w.Path == Stdout {
		return Encode(ctx, os.Stdout, entries)
	}

	f, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.Path, err)
	}
	if err := Encode(ctx, f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes entries to out. Control characters inside definitions are
// escaped so every entry stays on one line.
func Encode(ctx context.Context, out io.Writer, entries []domain.OutputEntry) error {
	bw := bufio.NewWriter(out)
	for i, e := range entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, k := range e.Keys {
			if j > 0 {
				bw.WriteByte('|')
			}
			bw.WriteString(k.Text)
		}
		bw.WriteByte('\t')
		for j, k := range e.Keys {
			if j > 0 {
				bw.WriteByte('|')
			}
			bw.WriteString(strconv.Itoa(k.Priority))
		}
		bw.WriteByte('\t')
		lineEscaper.WriteString(bw, e.Definition)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write text dump: %w", err)
	}
	return nil
}
