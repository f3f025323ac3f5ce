package builder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/kobo-jadict/internal/config"
	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

// sourcePath resolves a testdata file of a source parser package.
func sourcePath(t *testing.T, pkg, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "source", pkg, "testdata", name)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func findByKey(entries []domain.OutputEntry, key string) *domain.OutputEntry {
	for i := range entries {
		for _, k := range entries[i].Keys {
			if k.Text == key {
				return &entries[i]
			}
		}
	}
	return nil
}

type mockSink struct {
	entries []domain.OutputEntry
	calls   int
	err     error
}

func (s *mockSink) Name() string { return "mock" }

func (s *mockSink) Write(_ context.Context, entries []domain.OutputEntry) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.entries = entries
	return nil
}

type mockRepo struct {
	mu        sync.Mutex
	deleted   []string
	positions []int
	inserted  int
	insertErr error
}

func (m *mockRepo) DeleteDictionary(_ context.Context, dictionary string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, dictionary)
	return 9, nil
}

func (m *mockRepo) BulkInsert(_ context.Context, _ string, position int, entries []domain.OutputEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.positions = append(m.positions, position)
	m.inserted += len(entries)
	return len(entries), nil
}

type mockTx struct{ calls int }

func (m *mockTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Sources: config.SourcesConfig{
			JMdict:      sourcePath(t, "jmdict", "sample.xml"),
			PitchAccent: sourcePath(t, "accent", "accents.tsv"),
		},
		Build:    config.BuildConfig{SortMode: "priority", Workers: 2},
		Output:   config.OutputConfig{Path: "unused", Format: "kobo", Name: "jmdict"},
		Database: config.DatabaseConfig{BatchSize: 3},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	sink := &mockSink{}
	p := NewPipeline(discardLogger(), baseConfig(t), sink)

	require.NoError(t, p.Run(context.Background()))
	assert.False(t, p.HasErrors())
	assert.Equal(t, 1, sink.calls)
	require.Len(t, sink.entries, 4)
	assert.Equal(t, p.Entries(), sink.entries)

	results := p.Results()
	for _, phase := range allPhases {
		assert.Contains(t, results, phase)
	}
	assert.Equal(t, 2, results[PhaseLoad].Skipped, "kobo_ja_dict and yomichan are not configured")
	assert.Equal(t, 4+4, results[PhaseLoad].Records, "four words and four accent rows")
	assert.Equal(t, 1, results[PhaseExport].Skipped)

	eat := findByKey(sink.entries, "食べる")
	require.NotNil(t, eat, "食べる should be a lookup key")
	assert.Equal(t, domain.EntryKindWord, eat.Kind)
	assert.Contains(t, eat.Definition, "[2]", "pitch accent is merged")
	assert.Contains(t, eat.Definition, "transitive")
}

func TestPipeline_MoveTermsAndKatakana(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Render = config.RenderConfig{Katakana: true, MoveTerms: true}
	sink := &mockSink{}

	require.NoError(t, NewPipeline(discardLogger(), cfg, sink).Run(context.Background()))

	eat := findByKey(sink.entries, "食べる")
	require.NotNil(t, eat)
	assert.True(t, strings.HasPrefix(eat.Definition, "<hr/>タベル"), eat.Definition)
	assert.Contains(t, eat.Definition, "other-move")
}

func TestPipeline_Export(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	tx := &mockTx{}
	p := NewPipeline(discardLogger(), baseConfig(t), &mockSink{}).WithExport(repo, tx)

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, []string{"jmdict"}, repo.deleted)
	assert.Equal(t, []int{0, 3}, repo.positions, "batches of three carry their offsets")
	assert.Equal(t, 4, repo.inserted)

	res := p.Results()[PhaseExport]
	assert.Equal(t, 4, res.Inserted)
	assert.Equal(t, 9, res.Deleted)
}

func TestPipeline_ExportError(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{insertErr: domain.ErrValidation}
	p := NewPipeline(discardLogger(), baseConfig(t), &mockSink{}).WithExport(repo, &mockTx{})

	err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, p.HasErrors())
}

func TestPipeline_MissingConfiguredSource(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Sources.KoboJaDict = filepath.Join(t.TempDir(), "absent.zip")
	sink := &mockSink{}
	p := NewPipeline(discardLogger(), cfg, sink)

	err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingSource)
	assert.True(t, p.HasErrors())
	assert.Zero(t, sink.calls, "no sink runs after a failed phase")
	assert.NotContains(t, p.Results(), PhaseIndex)
}

func TestPipeline_MissingJMdict(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Sources.JMdict = ""

	err := NewPipeline(discardLogger(), cfg, &mockSink{}).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingSource)
}

func TestPipeline_MalformedSourceAborts(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Sources.PitchAccent = sourcePath(t, "accent", "malformed.tsv")
	sink := &mockSink{}

	err := NewPipeline(discardLogger(), cfg, sink).Run(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedRecord)

	var pe *domain.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Zero(t, sink.calls)
}

func TestPipeline_SinkError(t *testing.T) {
	t.Parallel()

	sinkErr := errors.New("disk full")
	repo := &mockRepo{}
	p := NewPipeline(discardLogger(), baseConfig(t), &mockSink{err: sinkErr}).WithExport(repo, &mockTx{})

	err := p.Run(context.Background())
	require.ErrorIs(t, err, sinkErr)
	assert.Empty(t, repo.deleted, "export does not run after a failed write")
}

func TestPipeline_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &mockSink{}
	p := NewPipeline(discardLogger(), baseConfig(t), sink)

	require.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.Empty(t, p.Results())
	assert.Zero(t, sink.calls)
}

func TestPipeline_BadSortMode(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Build.SortMode = "alphabetical"

	err := NewPipeline(discardLogger(), cfg, &mockSink{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), PhaseAssemble)
}

func TestBatchProcess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     []int
		batchSize int
		wantCalls int
		wantTotal int
	}{
		{"empty", nil, 2, 0, 0},
		{"exact", []int{1, 2, 3, 4}, 2, 2, 4},
		{"remainder", []int{1, 2, 3, 4, 5}, 2, 3, 5},
		{"default size", []int{1, 2, 3}, 0, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calls := 0
			total, err := batchProcess(tt.items, tt.batchSize, func(batch []int) (int, error) {
				calls++
				return len(batch), nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestBatchProcess_StopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	total, err := batchProcess([]int{1, 2, 3, 4, 5}, 2, func(batch []int) (int, error) {
		calls++
		if calls == 2 {
			return 0, boom
		}
		return len(batch), nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, calls)
}
