// Package sqlboiler executes listing statements through SQLBoiler.
//
// Fetcher runs query.Statement values with queries.Raw and binds the rows
// into a projection struct using its boil tags. RecordFetcher does the same
// into resource.Record maps for callers without a typed projection. Both
// accept any boil.ContextExecutor (*sql.DB, *sql.Tx).
//
// QueryMods and KeysetQueryMods convert a query.Builder into qm mods for
// callers that list through generated SQLBoiler models instead.
//
// Example usage:
//
//	fetcher := sqlboiler.NewFetcher[resource.Reagent](db, sqlboiler.WithPlaceholder(query.Dollar))
//	p := paging.New[resource.Reagent](resource.Reagents, fetcher)
package sqlboiler

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/records-paging/query"
	"github.com/nrfta/records-paging/resource"
)

// Option configures a fetcher.
type Option func(*base)

// WithPlaceholder sets the bind syntax statements are rebound to before
// execution. The default, query.Question, leaves them unchanged.
func WithPlaceholder(p query.Placeholder) Option {
	return func(b *base) {
		b.placeholder = p
	}
}

type base struct {
	exec        boil.ContextExecutor
	placeholder query.Placeholder
}

func newBase(exec boil.ContextExecutor, opts []Option) base {
	b := base{exec: exec, placeholder: query.Question}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Count runs a COUNT statement.
func (b base) Count(ctx context.Context, stmt query.Statement) (int64, error) {
	stmt = stmt.Rebind(b.placeholder)

	var n int64
	if err := b.exec.QueryRowContext(ctx, stmt.SQL, stmt.Args()...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "sqlboiler: count")
	}
	return n, nil
}

// Fetcher binds statement rows into T, a struct with boil tags covering
// every selected column.
type Fetcher[T any] struct {
	base
}

// NewFetcher creates a fetcher executing on exec.
func NewFetcher[T any](exec boil.ContextExecutor, opts ...Option) *Fetcher[T] {
	return &Fetcher[T]{base: newBase(exec, opts)}
}

// Fetch runs a page statement and binds its rows.
func (f *Fetcher[T]) Fetch(ctx context.Context, stmt query.Statement) ([]T, error) {
	stmt = stmt.Rebind(f.placeholder)

	var rows []T
	if err := queries.Raw(stmt.SQL, stmt.Args()...).Bind(ctx, f.exec, &rows); err != nil {
		return nil, errors.Wrap(err, "sqlboiler: fetch")
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// RecordFetcher scans statement rows into column-keyed records.
type RecordFetcher struct {
	base
}

// NewRecordFetcher creates a record fetcher executing on exec.
func NewRecordFetcher(exec boil.ContextExecutor, opts ...Option) *RecordFetcher {
	return &RecordFetcher{base: newBase(exec, opts)}
}

// Fetch runs a page statement. Byte slice values are returned as strings.
func (f *RecordFetcher) Fetch(ctx context.Context, stmt query.Statement) ([]resource.Record, error) {
	stmt = stmt.Rebind(f.placeholder)

	rows, err := f.exec.QueryContext(ctx, stmt.SQL, stmt.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "sqlboiler: fetch records")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "sqlboiler: columns")
	}

	out := []resource.Record{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "sqlboiler: scan record")
		}

		rec := make(resource.Record, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "sqlboiler: iterate records")
	}
	return out, nil
}
