package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/kobo-jadict/internal/assemble"
	"github.com/heartmarshall/kobo-jadict/internal/config"
	"github.com/heartmarshall/kobo-jadict/internal/domain"
	"github.com/heartmarshall/kobo-jadict/internal/index"
	"github.com/heartmarshall/kobo-jadict/internal/render"
	"github.com/heartmarshall/kobo-jadict/internal/source/accent"
	"github.com/heartmarshall/kobo-jadict/internal/source/jmdict"
	"github.com/heartmarshall/kobo-jadict/internal/source/kobo"
	"github.com/heartmarshall/kobo-jadict/internal/source/yomichan"
)

const (
	PhaseLoad     = "load"
	PhaseIndex    = "index"
	PhaseAssemble = "assemble"
	PhaseWrite    = "write"
	PhaseExport   = "export"
)

// allPhases defines the canonical execution order.
var allPhases = []string{PhaseLoad, PhaseIndex, PhaseAssemble, PhaseWrite, PhaseExport}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Records  int
	Inserted int
	Deleted  int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Pipeline runs one dictionary build. It stops at the first failing
// phase, so a malformed source never reaches a sink.
type Pipeline struct {
	log  *slog.Logger
	cfg  config.Config
	sink Sink
	repo EntryRepo
	txm  TxRunner

	results map[string]PhaseResult
	sources index.Sources
	idx     *index.Index
	entries []domain.OutputEntry
}

// NewPipeline creates a new Pipeline writing to sink.
func NewPipeline(log *slog.Logger, cfg config.Config, sink Sink) *Pipeline {
	return &Pipeline{
		log:     log,
		cfg:     cfg,
		sink:    sink,
		results: make(map[string]PhaseResult),
	}
}

// WithExport enables the database export phase.
func (p *Pipeline) WithExport(repo EntryRepo, txm TxRunner) *Pipeline {
	p.repo = repo
	p.txm = txm
	return p
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// Entries returns the assembled entries after Run completes.
func (p *Pipeline) Entries() []domain.OutputEntry {
	return p.entries
}

// HasErrors returns true if any phase failed.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run executes every phase in order.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, phase := range allPhases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("before %s: %w", phase, err)
		}

		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case PhaseLoad:
			result = p.runLoad(ctx)
		case PhaseIndex:
			result = p.runIndex()
		case PhaseAssemble:
			result = p.runAssemble(ctx)
		case PhaseWrite:
			result = p.runWrite(ctx)
		case PhaseExport:
			result = p.runExport(ctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Error("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			return fmt.Errorf("%s: %w", phase, result.Err)
		}
		p.log.Info("phase completed",
			slog.String("phase", phase),
			slog.Int("records", result.Records),
			slog.Int("inserted", result.Inserted),
			slog.Int("skipped", result.Skipped),
			slog.Duration("duration", result.Duration),
		)
	}

	p.log.Info("pipeline completed", slog.Int("entries", len(p.entries)))
	return nil
}

// runLoad parses every configured source concurrently. Optional sources
// with an empty path are skipped; a configured path must exist.
func (p *Pipeline) runLoad(ctx context.Context) PhaseResult {
	src := p.cfg.Sources
	if src.JMdict == "" {
		return PhaseResult{Err: fmt.Errorf("jmdict: %w", domain.ErrMissingSource)}
	}

	var (
		words    jmdict.Result
		accents  accent.Result
		natives  kobo.Result
		archives = make([]yomichan.Result, len(src.Yomichan))
		result   PhaseResult
	)

	g, gctx := errgroup.WithContext(ctx)
	load := func(name, path string, parse func(string) error) {
		if path == "" {
			p.log.Info("source not configured", slog.String("source", name))
			result.Skipped++
			return
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := checkSource(path); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := parse(path); err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}
			return nil
		})
	}

	load("jmdict", src.JMdict, func(path string) (err error) {
		words, err = jmdict.Parse(path)
		return err
	})
	load("pitch_accent", src.PitchAccent, func(path string) (err error) {
		accents, err = accent.Parse(path)
		return err
	})
	load("kobo_ja_dict", src.KoboJaDict, func(path string) (err error) {
		natives, err = kobo.Parse(path)
		return err
	})
	if len(src.Yomichan) == 0 {
		load("yomichan", "", nil)
	}
	for i, archive := range src.Yomichan {
		load("yomichan", archive, func(path string) (err error) {
			archives[i], err = yomichan.Parse(path)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return PhaseResult{Err: err}
	}

	p.sources = index.Sources{
		Words:   words.Entries,
		Pitch:   accents.Accents,
		Natives: natives.Entries,
	}
	for _, a := range archives {
		p.sources.Terms = append(p.sources.Terms, a.Terms...)
		p.sources.Names = append(p.sources.Names, a.Names...)
		p.sources.Kanji = append(p.sources.Kanji, a.Kanji...)
		p.log.Info("yomichan archive parsed",
			slog.String("title", a.Title),
			slog.Int("terms", a.Stats.Terms),
			slog.Int("names", a.Stats.Names),
			slog.Int("kanji", a.Stats.Kanji),
		)
	}

	p.log.Info("sources parsed",
		slog.Int("jmdict_entries", words.Stats.Parsed),
		slog.Int("jmdict_dropped", words.Stats.NoReadings+words.Stats.NoGlosses),
		slog.Int("pitch_accents", accents.Stats.ParsedLines),
		slog.Int("native_entries", natives.Stats.Entries),
	)

	result.Records = len(p.sources.Words) + len(p.sources.Pitch) + len(p.sources.Natives) +
		len(p.sources.Terms) + len(p.sources.Names) + len(p.sources.Kanji)
	return result
}

func (p *Pipeline) runIndex() PhaseResult {
	p.idx = index.Build(p.sources)
	p.sources = index.Sources{}

	stats := p.idx.Stats()
	p.log.Info("index built",
		slog.Int("word_keys", stats.WordKeys),
		slog.Int("pitch_keys", stats.PitchKeys),
		slog.Int("term_keys", stats.TermKeys),
		slog.Int("name_keys", stats.NameKeys),
		slog.Int("kanji_keys", stats.KanjiKeys),
		slog.Int("native_keys", stats.NativeKeys),
	)
	return PhaseResult{Records: stats.WordKeys}
}

func (p *Pipeline) runAssemble(ctx context.Context) PhaseResult {
	mode, err := assemble.ParseSortMode(p.cfg.Build.SortMode)
	if err != nil {
		return PhaseResult{Err: err}
	}

	opts := assemble.Options{
		Render:   render.Options{Katakana: p.cfg.Render.Katakana, Labels: render.GrammarLabels},
		SortMode: mode,
		Workers:  p.cfg.Build.Workers,
	}
	if p.cfg.Render.MoveTerms {
		opts.Render.Labels = render.MovementLabels
	}

	entries, stats, err := assemble.Build(ctx, p.idx, opts)
	if err != nil {
		return PhaseResult{Err: err}
	}
	p.entries = entries

	p.log.Info("entries assembled",
		slog.Int("words", stats.Words),
		slog.Int("names", stats.Names),
		slog.Int("kanji", stats.Kanji),
		slog.String("sort", mode.String()),
	)
	return PhaseResult{Records: len(entries)}
}

func (p *Pipeline) runWrite(ctx context.Context) PhaseResult {
	if err := p.sink.Write(ctx, p.entries); err != nil {
		return PhaseResult{Err: fmt.Errorf("sink %s: %w", p.sink.Name(), err)}
	}
	return PhaseResult{Records: len(p.entries)}
}

// runExport replaces the dictionary in the database within one transaction.
func (p *Pipeline) runExport(ctx context.Context) PhaseResult {
	if p.repo == nil {
		return PhaseResult{Skipped: 1}
	}

	name := p.cfg.Output.Name
	var result PhaseResult

	err := p.txm.RunInTx(ctx, func(ctx context.Context) error {
		deleted, err := p.repo.DeleteDictionary(ctx, name)
		if err != nil {
			return fmt.Errorf("delete previous export: %w", err)
		}
		result.Deleted = deleted

		position := 0
		inserted, err := batchProcess(p.entries, p.cfg.Database.BatchSize, func(batch []domain.OutputEntry) (int, error) {
			n, err := p.repo.BulkInsert(ctx, name, position, batch)
			position += len(batch)
			return n, err
		})
		if err != nil {
			return fmt.Errorf("insert entries: %w", err)
		}
		result.Inserted = inserted
		return nil
	})
	if err != nil {
		return PhaseResult{Err: err}
	}

	result.Records = len(p.entries)
	return result
}

// checkSource reports a configured but absent file as ErrMissingSource.
func checkSource(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrMissingSource, path)
		}
		return err
	}
	return nil
}

// batchProcess splits items into batches and calls fn for each.
// Returns the total count from all fn calls.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
