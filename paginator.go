package paging

import (
	"context"
	"io"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/sirupsen/logrus"

	"github.com/nrfta/records-paging/cursor"
	"github.com/nrfta/records-paging/query"
	"github.com/nrfta/records-paging/resource"
	"github.com/nrfta/records-paging/whitelist"
)

const (
	StrategyOffset = "offset"
	StrategyKeyset = "keyset"
)

// Option configures a Paginator.
type Option func(*options)

type options struct {
	config  *PageConfig
	log     logrus.FieldLogger
	dialect query.Dialect
}

// WithPageConfig sets the page size and cursor policy.
func WithPageConfig(c *PageConfig) Option {
	return func(o *options) {
		if c != nil {
			o.config = c
		}
	}
}

// WithDialect sets the database statements are built for. Use query.SQLite
// when time columns hold SQLite date text.
func WithDialect(d query.Dialect) Option {
	return func(o *options) {
		o.dialect = d
	}
}

// WithLogger sets the logger. Statements are logged at debug level and mode
// fallbacks at info or warn.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Paginator lists one resource in offset or keyset mode.
//
// The mode follows the request: a cursor selects keyset mode, anything else
// offset mode. A cursor sent with a sort key that is not keyset-eligible is
// ignored and the request is served in offset mode.
//
// Example:
//
//	p := paging.New(resource.Reagents, sqlboiler.NewFetcher[resource.Reagent](db))
//	page, err := p.Paginate(ctx, paging.PaginationQuery{
//	    SortBy:  "total_quantity",
//	    Filters: map[string]string{"status": "available"},
//	})
//	// page.Pagination.NextCursor continues the listing in keyset mode
type Paginator[T Row] struct {
	def     *resource.Definition
	fetcher Fetcher[T]
	config  *PageConfig
	log     logrus.FieldLogger
	dialect query.Dialect
}

// New creates a paginator for def backed by fetcher.
func New[T Row](def *resource.Definition, fetcher Fetcher[T], opts ...Option) *Paginator[T] {
	o := options{config: NewPageConfig(), log: discardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Paginator[T]{
		def:     def,
		fetcher: fetcher,
		config:  o.config,
		log:     o.log.WithField("resource", def.Name),
		dialect: o.dialect,
	}
}

// Definition returns the resource being listed.
func (p *Paginator[T]) Definition() *resource.Definition {
	return p.def
}

// Config returns the page policy.
func (p *Paginator[T]) Config() *PageConfig {
	return p.config
}

// Paginate serves q. Request errors match ErrInvalidQuery; database errors
// are returned wrapped.
func (p *Paginator[T]) Paginate(ctx context.Context, q PaginationQuery) (*Page[T], error) {
	return p.paginate(ctx, q, true)
}

// Batch serves q like Paginate but skips the COUNT statement for keyset
// pages, whose Pagination.Total is then zero. Offset pages are still counted
// since their flags derive from the total.
func (p *Paginator[T]) Batch(ctx context.Context, q PaginationQuery) (*Page[T], error) {
	return p.paginate(ctx, q, false)
}

func (p *Paginator[T]) paginate(ctx context.Context, q PaginationQuery, count bool) (*Page[T], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	field := p.def.Sorts.Resolve(q.SortBy)
	if q.SortBy != "" && field.Key != q.SortBy {
		p.log.WithField("sort_by", q.SortBy).Info("unknown sort key, using default")
	}
	order := query.NormalizeOrder(q.SortOrder)
	desc := order == query.DESC
	limit := p.config.EffectiveLimit(q)

	b := p.def.Builder().Dialect(p.dialect).Limit(limit)
	if field.Kind == whitelist.SortTime {
		b.SortTime(field.Column, order)
	} else {
		b.Sort(field.Column, order)
	}
	if err := p.def.ApplyFilters(b, q.Filters); err != nil {
		return nil, &QueryError{Err: err}
	}
	p.def.ApplySearch(b, q.Search)

	keyset, hadCursor, err := p.keyset(b, q, field, desc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var total int64
	if count || !keyset {
		countStmt, err := b.BuildCount()
		if err != nil {
			return nil, &QueryError{Err: err}
		}
		p.logStatement("count", countStmt)
		if total, err = p.fetcher.Count(ctx, countStmt); err != nil {
			return nil, errors.Wrap(err, "count")
		}
	}

	page := &Page[T]{
		Sorting:  Sorting{SortBy: field.Key, SortOrder: order},
		Metadata: Metadata{IterationsUsed: 1},
	}

	if keyset {
		err = p.fetchKeyset(ctx, b, q, field, desc, limit, hadCursor, page)
	} else {
		err = p.fetchOffset(ctx, b, q, field, limit, total, page)
	}
	if err != nil {
		return nil, err
	}

	page.Pagination.Total = total
	page.Metadata.QueryTimeMs = time.Since(start).Milliseconds()
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

// keyset decides the mode and applies the cursor boundary to b.
func (p *Paginator[T]) keyset(b *query.Builder, q PaginationQuery, field whitelist.SortField, desc bool) (bool, bool, error) {
	if !q.IsKeyset() {
		return false, false, nil
	}
	if !field.Keyset {
		p.log.WithField("sort_by", field.Key).Warn("sort key is not keyset-eligible, using offset mode")
		return false, false, nil
	}

	dir := q.TraversalDirection()
	switch field.Kind {
	case whitelist.SortNumeric:
		if pos, ok := cursor.Decode(q.Cursor); ok {
			b.KeysetAfter(pos.Value, pos.ID, desc, dir)
			return true, true, nil
		}
	case whitelist.SortTime:
		if pos, ok := cursor.DecodeMicros(q.Cursor); ok {
			b.KeysetAfterTime(pos.Time(), pos.ID, desc, dir)
			return true, true, nil
		}
	}

	if p.config.StrictCursor {
		return false, false, &QueryError{Err: ErrInvalidCursor}
	}
	p.log.Info("malformed cursor, restarting from the first page")
	return true, false, nil
}

func (p *Paginator[T]) fetchKeyset(ctx context.Context, b *query.Builder, q PaginationQuery, field whitelist.SortField, desc bool, limit int, hadCursor bool, page *Page[T]) error {
	dir := q.TraversalDirection()
	if !hadCursor {
		dir = query.Next
	}

	stmt, err := b.BuildCTE(dir, desc)
	if err != nil {
		return &QueryError{Err: err}
	}
	p.logStatement("keyset", stmt)

	rows, err := p.fetcher.Fetch(ctx, stmt)
	if err != nil {
		return errors.Wrap(err, "fetch keyset page")
	}

	items, info, err := FinalizeKeyset(rows, stmt, limit, hadCursor, field)
	if err != nil {
		return err
	}

	page.Items = items
	page.Pagination = info
	page.Metadata.Strategy = StrategyKeyset
	page.Metadata.ItemsExamined = len(rows)
	return nil
}

// fetchOffset serves an offset page. When the sort key is keyset-eligible
// the envelope also carries a next_cursor, so a client can move from page
// numbers to keyset traversal.
func (p *Paginator[T]) fetchOffset(ctx context.Context, b *query.Builder, q PaginationQuery, field whitelist.SortField, limit int, total int64, page *Page[T]) error {
	stmt, err := b.BuildSimple(p.config.Offset(q))
	if err != nil {
		return &QueryError{Err: err}
	}
	p.logStatement("offset", stmt)

	rows, err := p.fetcher.Fetch(ctx, stmt)
	if err != nil {
		return errors.Wrap(err, "fetch offset page")
	}

	page.Items = rows
	page.Pagination = NewOffsetPageInfo(total, q.PageNumber(), limit)
	if field.Keyset && page.Pagination.HasNext && len(rows) > 0 {
		c, err := CursorFor(rows[len(rows)-1], field)
		if err != nil {
			return err
		}
		page.Pagination.NextCursor = &c
	}
	page.Metadata.Strategy = StrategyOffset
	page.Metadata.ItemsExamined = len(rows)
	return nil
}

func (p *Paginator[T]) logStatement(kind string, stmt query.Statement) {
	p.log.WithFields(logrus.Fields{
		"statement": kind,
		"sql":       stmt.SQL,
		"params":    len(stmt.Params),
	}).Debug("executing")
}
