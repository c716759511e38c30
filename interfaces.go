package paging

import (
	"context"

	"github.com/nrfta/records-paging/query"
)

// Fetcher executes built statements against a database. Implementations own
// dialect rebinding, timeouts and cancellation.
//
// Type parameter T is the row projection being listed.
type Fetcher[T any] interface {
	// Fetch runs a page statement and returns its rows in result order.
	Fetch(ctx context.Context, stmt query.Statement) ([]T, error)

	// Count runs a COUNT statement and returns its single value.
	Count(ctx context.Context, stmt query.Statement) (int64, error)
}

// Row is a listed row that can describe its own keyset position.
type Row interface {
	// RowID returns the primary key used as the keyset tie-break.
	RowID() string

	// SortValue returns the raw value of column, or false when the row does
	// not carry it or it is NULL. Numbers, numeric text, time.Time and
	// RFC 3339 text are accepted.
	SortValue(column string) (any, bool)
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageInfo `json:"pagination"`
	Sorting    Sorting  `json:"sorting"`

	// Metadata describes how the page was produced. It is not part of the
	// response envelope.
	Metadata Metadata `json:"-"`
}

// Metadata records how a page was produced.
type Metadata struct {
	// Strategy is "offset", "keyset" or "quotafill".
	Strategy string

	// QueryTimeMs is the time spent executing statements.
	QueryTimeMs int64

	// ItemsExamined counts rows fetched from the database, including the
	// lookahead row and rows later dropped by a filter.
	ItemsExamined int

	// IterationsUsed is the number of page fetches. It is 1 except under quota-fill.
	IterationsUsed int

	// SafeguardHit names the quota-fill safeguard that stopped iteration:
	// "max_iterations", "max_records" or "timeout".
	SafeguardHit *string
}

// FilterFunc drops rows the caller may not see, e.g. after a row-level
// authorization check. It must preserve the order of the rows it keeps.
type FilterFunc[T any] func(ctx context.Context, items []T) ([]T, error)
