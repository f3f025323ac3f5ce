// Package kobo reads an installed Kobo dicthtml dictionary (typically a
// Japanese monolingual one) into pre-rendered native definitions.
// Pure function: file path in, domain structs out.
package kobo

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"golang.org/x/net/html"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/kana"
)

const (
	headwordOpen  = "【"
	headwordClose = "】"
	writingSep    = "・"
)

// Stats holds parser statistics for logging.
type Stats struct {
	Files     int
	Blocks    int
	Entries   int
	Anonymous int
}

// Result holds native entries in archive order.
type Result struct {
	Entries []domain.NativeEntry
	Stats   Stats
}

// Parse reads every html member of a dicthtml archive. Members may be
// gzip-compressed (the Kobo default) or plain.
func Parse(filePath string) (Result, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	members := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if path.Ext(f.Name) == ".html" {
			members = append(members, f)
		}
	}
	slices.SortFunc(members, func(a, b *zip.File) int { return strings.Compare(a.Name, b.Name) })

	var result Result
	for _, f := range members {
		if err := result.readMember(f); err != nil {
			return Result{}, &domain.ParseError{Source: filePath + "/" + f.Name, Reason: err.Error()}
		}
		result.Stats.Files++
	}
	result.Stats.Entries = len(result.Entries)
	return result, nil
}

func (r *Result) readMember(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	}
	return r.readHTML(src)
}

// block is one <w> element being collected.
type block struct {
	anchor string
	text   strings.Builder
	def    bytes.Buffer
}

// readHTML tokenizes the stream. Each <w> element is one dictionary block;
// its <a name> anchor and <var> variant list are lookup metadata and are
// left out of the definition. The definition keeps the source markup as is.
func (r *Result) readHTML(src io.Reader) error {
	z := html.NewTokenizer(src)
	var cur *block
	skip := "" // element whose content is being dropped

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				return nil
			}
			return z.Err()
		}

		raw := string(z.Raw())
		tok := z.Token()
		if cur == nil {
			if tt == html.StartTagToken && tok.Data == "w" {
				cur = &block{}
			}
			continue
		}

		if skip != "" {
			if tt == html.EndTagToken && tok.Data == skip {
				skip = ""
			}
			continue
		}

		switch {
		case tt == html.EndTagToken && tok.Data == "w":
			r.addBlock(cur)
			cur = nil
		case tok.Data == "a" && (tt == html.StartTagToken || tt == html.SelfClosingTagToken):
			if name := attr(tok, "name"); name != "" && cur.anchor == "" {
				cur.anchor = name
			}
			if tt == html.StartTagToken {
				skip = "a"
			}
		case tok.Data == "a" && tt == html.EndTagToken:
		case tok.Data == "var" && tt == html.StartTagToken:
			skip = "var"
		case tok.Data == "var":
		default:
			cur.def.WriteString(raw)
			if tt == html.TextToken {
				cur.text.WriteString(tok.Data)
			}
		}
	}
}

func (r *Result) addBlock(b *block) {
	r.Stats.Blocks++
	def := strings.TrimSpace(b.def.String())
	reading, writings := splitHeadword(b.text.String(), b.anchor)
	if reading == "" {
		r.Stats.Anonymous++
		return
	}

	if len(writings) == 0 {
		r.Entries = append(r.Entries, domain.NativeEntry{Key: reading, Kana: reading, Definition: def})
		return
	}
	for _, w := range writings {
		r.Entries = append(r.Entries, domain.NativeEntry{Key: w, Kana: reading, Definition: def})
	}
}

// splitHeadword parses a headline of the form かな【漢字・漢字】.
// Without brackets the anchor (or first word) is both key and reading.
func splitHeadword(text, anchor string) (string, []string) {
	text = strings.TrimSpace(text)
	open := strings.Index(text, headwordOpen)
	end := strings.Index(text, headwordClose)

	if open < 0 || end < open {
		if anchor != "" {
			return kana.NormalizeText(anchor), nil
		}
		if fields := strings.Fields(text); len(fields) > 0 {
			return kana.NormalizeText(fields[0]), nil
		}
		return "", nil
	}

	reading := kana.NormalizeText(anchor)
	if fields := strings.Fields(text[:open]); len(fields) > 0 {
		reading = kana.NormalizeText(fields[0])
	}

	var writings []string
	for _, w := range strings.Split(text[open+len(headwordOpen):end], writingSep) {
		if w = kana.NormalizeText(w); w != "" {
			writings = append(writings, w)
		}
	}
	return reading, writings
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
