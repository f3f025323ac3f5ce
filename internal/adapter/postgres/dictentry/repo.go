// Package dictentry exports finished dictionary entries to PostgreSQL.
// Rows are immutable: a re-export deletes the dictionary and inserts it again.
package dictentry

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/kobo-jadict/internal/adapter/postgres"
	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

const table = "dict_entries"

var columns = []string{"id", "dictionary", "kind", "headword", "keys", "priorities", "definition", "position"}

// MaxBatch is the most entries one INSERT can carry within the 65535 bind
// parameter limit of the postgres protocol.
const MaxBatch = 65535 / 8

// namespace seeds the name-based entry ids.
var namespace = uuid.MustParse("6f0e8a4c-3b1d-4c59-9a57-0f2f3f6b1c8e")

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Repo provides dictionary entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a repository. db is used outside transactions; inside
// TxManager.RunInTx the transaction from the context is used instead.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// EntryID returns the deterministic id of an entry within a dictionary.
// Re-exporting identical content yields identical ids.
func EntryID(dictionary string, e domain.OutputEntry) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(strings.Join([]string{dictionary, e.Headword(), e.Definition}, "\x00")))
}

// BulkInsert inserts entries with a single multi-row INSERT. position is the
// index of entries[0] in the full ordered list. Rows whose id already
// exists are skipped. Returns the number of rows actually inserted.
func (r *Repo) BulkInsert(ctx context.Context, dictionary string, position int, entries []domain.OutputEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	if len(entries) > MaxBatch {
		return 0, domain.NewValidationError("entries", fmt.Sprintf("batch of %d exceeds %d", len(entries), MaxBatch))
	}

	insert := builder().Insert(table).Columns(columns...)
	for i, e := range entries {
		if len(e.Keys) == 0 {
			return 0, fmt.Errorf("entry at position %d: %w", position+i, domain.NewValidationError("keys", "required"))
		}
		keys := make([]string, len(e.Keys))
		priorities := make([]int32, len(e.Keys))
		for j, k := range e.Keys {
			keys[j] = k.Text
			priorities[j] = int32(k.Priority)
		}
		insert = insert.Values(
			EntryID(dictionary, e), dictionary, int16(e.Kind), e.Headword(),
			keys, priorities, e.Definition, position+i,
		)
	}
	insert = insert.Suffix("ON CONFLICT (id) DO NOTHING")

	sql, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "dict_entry", dictionary)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteDictionary removes every entry of a dictionary and returns how many
// rows were deleted.
func (r *Repo) DeleteDictionary(ctx context.Context, dictionary string) (int, error) {
	sql, args, err := builder().Delete(table).Where(squirrel.Eq{"dictionary": dictionary}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "dict_entry", dictionary)
	}
	return int(tag.RowsAffected()), nil
}

// CountByDictionary returns the number of stored entries of a dictionary.
func (r *Repo) CountByDictionary(ctx context.Context, dictionary string) (int, error) {
	sql, args, err := builder().Select("count(*)").From(table).Where(squirrel.Eq{"dictionary": dictionary}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "dict_entry", dictionary)
	}
	return int(n), nil
}

// FindByKey returns the entries of a dictionary reachable through key, in
// dictionary order.
func (r *Repo) FindByKey(ctx context.Context, dictionary, key string) ([]domain.OutputEntry, error) {
	sql, args, err := builder().
		Select("kind", "keys", "priorities", "definition").
		From(table).
		Where(squirrel.Eq{"dictionary": dictionary}).
		Where(squirrel.Expr("keys @> ARRAY[?]::text[]", key)).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "dict_entry", key)
	}
	defer rows.Close()

	var out []domain.OutputEntry
	for rows.Next() {
		var (
			kind       int16
			keys       []string
			priorities []int32
			e          domain.OutputEntry
		)
		if err := rows.Scan(&kind, &keys, &priorities, &e.Definition); err != nil {
			return nil, postgres.MapError(err, "dict_entry", key)
		}
		e.Kind = domain.EntryKind(kind)
		e.Keys = make([]domain.LookupKey, len(keys))
		for i := range keys {
			e.Keys[i] = domain.LookupKey{Text: keys[i], Priority: int(priorities[i])}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "dict_entry", key)
	}
	return out, nil
}
