// Package builder orchestrates a dictionary build: load sources, index
// them, synthesize entries, write the output and optionally export it.
package builder

import (
	"context"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

// Sink consumes the finished, ordered entry list.
// Implemented by the kobo and text writers.
type Sink interface {
	Name() string
	Write(ctx context.Context, entries []domain.OutputEntry) error
}

// EntryRepo is the export contract consumed by the pipeline.
// Implemented by dictentry.Repo.
type EntryRepo interface {
	DeleteDictionary(ctx context.Context, dictionary string) (int, error)
	BulkInsert(ctx context.Context, dictionary string, position int, entries []domain.OutputEntry) (int, error)
}

// TxRunner runs fn in one transaction. Implemented by postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
