// Package accent parses pitch-accent tables into domain records.
// Pure function: file path in, domain structs out.
//
// The table is tab separated. Only lines starting with a digit are data;
// every data line must have exactly seven fields:
//
//	id  writing  reading  -  -  accents  -
//
// where accents is a comma-separated list of downstep positions.
package accent

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/kana"
)

const fieldCount = 7

const (
	fieldWriting = 1
	fieldReading = 2
	fieldAccents = 5
)

// Stats holds parser statistics for logging.
type Stats struct {
	TotalLines   int
	SkippedLines int
	ParsedLines  int
	BadAccents   int
}

// Result holds the parsed accents in file order.
type Result struct {
	Accents []domain.PitchAccent
	Stats   Stats
}

// Parse reads a pitch-accent table. A data line with the wrong number of
// fields is a *domain.ParseError and aborts the parse.
func Parse(filePath string) (Result, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var result Result
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		result.Stats.TotalLines++
		line := strings.TrimRight(scanner.Text(), "\r")

		if !isDataLine(line) {
			result.Stats.SkippedLines++
			continue
		}

		pa, bad, err := parseLine(line)
		if err != nil {
			return Result{}, domain.NewParseError(filePath, result.Stats.TotalLines, "%s", err)
		}
		result.Stats.BadAccents += bad
		result.Stats.ParsedLines++
		if len(pa.Accents) > 0 {
			result.Accents = append(result.Accents, pa)
		}
	}

	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("scanner error: %w", err)
	}

	return result, nil
}

func isDataLine(line string) bool {
	return line != "" && line[0] >= '0' && line[0] <= '9'
}

// parseLine splits a data line. Accent tokens that are not integers are
// dropped and counted.
func parseLine(line string) (domain.PitchAccent, int, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != fieldCount {
		return domain.PitchAccent{}, 0, fmt.Errorf("expected %d tab-separated fields, got %d", fieldCount, len(parts))
	}

	pa := domain.PitchAccent{
		Writing: kana.NormalizeText(parts[fieldWriting]),
		Reading: strings.TrimSpace(parts[fieldReading]),
	}

	bad := 0
	for _, tok := range strings.Split(parts[fieldAccents], ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 0 {
			bad++
			continue
		}
		pa.Accents = append(pa.Accents, n)
	}

	return pa, bad, nil
}
