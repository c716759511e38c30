// Package quotafill fills listing pages through a row-level filter.
//
// A plain Paginator returns page_size rows that match the SQL conditions.
// When rows must also pass a check that cannot be expressed in SQL, such as
// an authorization service, filtering a fetched page leaves it short. The
// Wrapper keeps paging with the keyset paginator and filtering each batch
// until the page quota is filled or a safeguard stops it.
//
// Example usage:
//
//	base := paging.New[resource.Record](resource.Experiments, sqlboiler.NewRecordFetcher(db))
//	authorized := func(ctx context.Context, rows []resource.Record) ([]resource.Record, error) {
//	    return authz.FilterVisible(ctx, userID, rows)
//	}
//	p := quotafill.Wrap[resource.Record](base, authorized,
//	    quotafill.WithMaxIterations(5),
//	    quotafill.WithMaxRecordsExamined(500),
//	)
//	page, err := p.Paginate(ctx, q)
//	// page.Metadata.SafeguardHit is set when the quota could not be filled
package quotafill

import (
	"context"
	"errors"
	"io"
	"time"

	pkgerrors "github.com/friendsofgo/errors"
	"github.com/sirupsen/logrus"

	paging "github.com/nrfta/records-paging"
	"github.com/nrfta/records-paging/query"
	"github.com/nrfta/records-paging/resource"
	"github.com/nrfta/records-paging/whitelist"
)

// StrategyQuotaFill is the Metadata.Strategy of wrapped pages.
const StrategyQuotaFill = "quotafill"

// Default configuration values
const (
	defaultMaxIterations      = 5
	defaultMaxRecordsExamined = 100
	defaultTimeout            = 3 * time.Second
)

// Default adaptive backoff multipliers (Fibonacci-like progression)
var defaultBackoffMultipliers = []int{1, 2, 3, 5, 8}

// Safeguard identifiers returned in Metadata.SafeguardHit
const (
	SafeguardTimeout       = "timeout"
	SafeguardMaxRecords    = "max_records"
	SafeguardMaxIterations = "max_iterations"
)

// Paginator is the listing the wrapper draws batches from. *paging.Paginator
// implements it. The first batch goes through Paginate for the total; later
// batches go through Batch, which need not count.
type Paginator[T paging.Row] interface {
	Paginate(ctx context.Context, q paging.PaginationQuery) (*paging.Page[T], error)
	Batch(ctx context.Context, q paging.PaginationQuery) (*paging.Page[T], error)
	Definition() *resource.Definition
	Config() *paging.PageConfig
}

// Wrapper fills pages of a base paginator through a filter.
//
// Batches are fetched in the request's keyset direction. Each batch after
// the first continues from the last row examined, so rows the filter
// dropped are never fetched twice within one request. The cursors handed
// back point at displayed rows, or at the last examined row when nothing
// past the page was kept.
//
// Sorts that are not keyset-eligible cannot be continued by cursor; they are
// served as a single base page with the filter applied.
//
// Type parameter T is the row type being paginated and filtered.
type Wrapper[T paging.Row] struct {
	base               Paginator[T]
	filter             paging.FilterFunc[T]
	maxIterations      int
	maxRecordsExamined int
	timeout            time.Duration
	backoffMultipliers []int
	log                logrus.FieldLogger
}

// Option configures a quota-fill wrapper.
type Option func(*config)

// config holds wrapper configuration.
type config struct {
	maxIterations      int
	maxRecordsExamined int
	timeout            time.Duration
	backoffMultipliers []int
	log                logrus.FieldLogger
}

// WithMaxIterations sets the maximum number of batch fetches.
// Default: 5
//
// If the maximum is reached, partial results are returned with
// SafeguardHit set to "max_iterations".
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithMaxRecordsExamined sets the maximum number of rows fetched from the
// database per request, lookahead rows included.
// Default: 100
func WithMaxRecordsExamined(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxRecordsExamined = n
		}
	}
}

// WithTimeout sets the time allowed for one request.
// Default: 3 seconds
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBackoffMultipliers sets the adaptive backoff multipliers.
// Default: [1, 2, 3, 5, 8]
//
// Batch n fetches the missing row count times multiplier n, so a selective
// filter gets progressively larger batches:
//   - Iteration 1: Fetch exactly what's needed (1x)
//   - Iteration 2: Filter rate < 100%, overscan (2x)
//   - Iteration 3+: Progressively larger overscan (3x, 5x, 8x)
func WithBackoffMultipliers(multipliers []int) Option {
	return func(c *config) {
		if len(multipliers) > 0 {
			c.backoffMultipliers = multipliers
		}
	}
}

// WithLogger sets the logger safeguard hits are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// Wrap wraps base with quota-fill filtering.
func Wrap[T paging.Row](base Paginator[T], filter paging.FilterFunc[T], opts ...Option) *Wrapper[T] {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	cfg := &config{
		maxIterations:      defaultMaxIterations,
		maxRecordsExamined: defaultMaxRecordsExamined,
		timeout:            defaultTimeout,
		backoffMultipliers: defaultBackoffMultipliers,
		log:                discard,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Wrapper[T]{
		base:               base,
		filter:             filter,
		maxIterations:      cfg.maxIterations,
		maxRecordsExamined: cfg.maxRecordsExamined,
		timeout:            cfg.timeout,
		backoffMultipliers: cfg.backoffMultipliers,
		log:                cfg.log.WithField("resource", base.Definition().Name),
	}
}

// multiplier returns the backoff multiplier for the given iteration.
func (w *Wrapper[T]) multiplier(iteration int) int {
	return w.backoffMultipliers[min(iteration, len(w.backoffMultipliers)-1)]
}

// state tracks one request across fetch iterations.
type state[T any] struct {
	items      []T
	examined   int
	iteration  int
	total      int64
	cursor     string
	safeguard  string
	noMoreData bool
}

func (s *state[T]) needsMore(target int) bool {
	return len(s.items) < target && !s.noMoreData
}

// Paginate serves q, filling the page through the filter.
//
// Algorithm:
//  1. Resolve the sort; non-keyset sorts get a single filtered base page
//  2. Loop while fewer than page_size+1 rows passed the filter:
//     a. Check safeguards: timeout, max records, max iterations
//     b. Fetch (missing rows × backoff multiplier) rows after the cursor
//     c. Filter the batch and append (prepend for prev) the survivors
//     d. Stop when the base reports no more rows
//  3. Trim to page_size and derive the envelope
//
// Total is the base count, taken before the filter applies. Page and
// TotalPages are left unset since filtered page geometry is unknown.
func (w *Wrapper[T]) Paginate(ctx context.Context, q paging.PaginationQuery) (*paging.Page[T], error) {
	start := time.Now()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	field := w.base.Definition().Sorts.Resolve(q.SortBy)
	if !field.Keyset {
		return w.single(ctx, q, start)
	}

	hadCursor := q.IsKeyset() && paging.ValidCursor(q.Cursor, field)
	if q.IsKeyset() && !hadCursor && w.base.Config().StrictCursor {
		return nil, &paging.QueryError{Err: paging.ErrInvalidCursor}
	}
	dir := query.Next
	s := &state[T]{}
	if hadCursor {
		dir = q.TraversalDirection()
		s.cursor = q.Cursor
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	requested := w.base.Config().EffectiveLimit(q)
	target := requested + 1

	for s.needsMore(target) {
		if s.iteration >= w.maxIterations {
			s.safeguard = SafeguardMaxIterations
			break
		}
		safeguard, err := w.fetchIteration(timeoutCtx, q, field, dir, target, s)
		if err != nil {
			return nil, err
		}
		if safeguard != "" {
			s.safeguard = safeguard
			break
		}
	}

	if s.safeguard != "" {
		w.log.WithFields(logrus.Fields{
			"safeguard":  s.safeguard,
			"examined":   s.examined,
			"iterations": s.iteration,
			"kept":       len(s.items),
		}).Info("quota-fill stopped early")
	}

	return w.buildResult(s, q, field, dir, requested, hadCursor, start)
}

// fetchIteration performs a single fetch-filter cycle. It returns the name
// of a safeguard that stopped it, or "".
func (w *Wrapper[T]) fetchIteration(
	ctx context.Context,
	q paging.PaginationQuery,
	field whitelist.SortField,
	dir query.Direction,
	target int,
	s *state[T],
) (string, error) {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return SafeguardTimeout, nil
		}
		return "", err
	}

	fetchSize := (target - len(s.items)) * w.multiplier(s.iteration)

	// A keyset batch reads one lookahead row past fetchSize.
	budget := w.maxRecordsExamined - s.examined - 1
	if budget < 1 {
		return SafeguardMaxRecords, nil
	}
	fetchSize = min(fetchSize, budget)

	batchQ := q
	batchQ.Page = nil
	batchQ.PageSize = &fetchSize
	batchQ.Cursor = s.cursor
	batchQ.Direction = dir.String()

	fetch := w.base.Batch
	if s.iteration == 0 {
		fetch = w.base.Paginate
	}
	page, err := fetch(ctx, batchQ)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return SafeguardTimeout, nil
		}
		return "", pkgerrors.Wrapf(err, "fetch batch (iteration %d)", s.iteration+1)
	}

	filtered, err := w.filter(ctx, page.Items)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "apply filter (iteration %d)", s.iteration+1)
	}

	if s.iteration == 0 {
		s.total = page.Pagination.Total
	}
	s.examined += page.Metadata.ItemsExamined
	s.iteration++

	more := page.Pagination.HasNext
	if dir == query.Prev {
		more = page.Pagination.HasPrev
		s.items = append(append(make([]T, 0, len(filtered)+len(s.items)), filtered...), s.items...)
	} else {
		s.items = append(s.items, filtered...)
	}

	if len(page.Items) == 0 || !more {
		s.noMoreData = true
		return "", nil
	}

	boundary := page.Items[len(page.Items)-1]
	if dir == query.Prev {
		boundary = page.Items[0]
	}
	c, err := paging.CursorFor(boundary, field)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "continue after batch (iteration %d)", s.iteration)
	}
	s.cursor = c
	return "", nil
}

// buildResult trims the collected rows to the page and derives the envelope.
func (w *Wrapper[T]) buildResult(
	s *state[T],
	q paging.PaginationQuery,
	field whitelist.SortField,
	dir query.Direction,
	requested int,
	hadCursor bool,
	start time.Time,
) (*paging.Page[T], error) {
	trimmed := len(s.items) > requested
	// Without a position to continue from there is no next page to offer.
	more := trimmed || (!s.noMoreData && s.cursor != "")

	items := s.items
	if trimmed {
		if dir == query.Prev {
			items = items[len(items)-requested:]
		} else {
			items = items[:requested]
		}
	}
	if items == nil {
		items = []T{}
	}

	info := paging.PageInfo{Total: s.total}
	if len(items) > 0 || more {
		// ahead continues the traversal, behind turns it around.
		ahead, behind := &info.NextCursor, &info.PrevCursor
		if dir == query.Prev {
			ahead, behind = behind, ahead
			info.HasPrev, info.HasNext = more, hadCursor
		} else {
			info.HasNext, info.HasPrev = more, hadCursor
		}

		if more {
			c := s.cursor
			if trimmed {
				edge := items[len(items)-1]
				if dir == query.Prev {
					edge = items[0]
				}
				var err error
				if c, err = paging.CursorFor(edge, field); err != nil {
					return nil, err
				}
			}
			*ahead = &c
		}

		if hadCursor {
			c := q.Cursor
			if len(items) > 0 {
				edge := items[0]
				if dir == query.Prev {
					edge = items[len(items)-1]
				}
				var err error
				if c, err = paging.CursorFor(edge, field); err != nil {
					return nil, err
				}
			}
			*behind = &c
		}
	}

	return &paging.Page[T]{
		Items:      items,
		Pagination: info,
		Sorting:    paging.Sorting{SortBy: field.Key, SortOrder: query.NormalizeOrder(q.SortOrder)},
		Metadata:   w.metadata(s, start),
	}, nil
}

// single serves a sort that cannot be continued by cursor: one base page,
// filtered once.
func (w *Wrapper[T]) single(ctx context.Context, q paging.PaginationQuery, start time.Time) (*paging.Page[T], error) {
	w.log.WithField("sort_by", q.SortBy).Debug("sort key is not keyset-eligible, filtering a single page")

	page, err := w.base.Paginate(ctx, q)
	if err != nil {
		return nil, err
	}

	filtered, err := w.filter(ctx, page.Items)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "apply filter")
	}
	if filtered == nil {
		filtered = []T{}
	}

	page.Items = filtered
	page.Metadata = w.metadata(&state[T]{examined: page.Metadata.ItemsExamined, iteration: 1}, start)
	return page, nil
}

func (w *Wrapper[T]) metadata(s *state[T], start time.Time) paging.Metadata {
	m := paging.Metadata{
		Strategy:       StrategyQuotaFill,
		QueryTimeMs:    time.Since(start).Milliseconds(),
		ItemsExamined:  s.examined,
		IterationsUsed: s.iteration,
	}
	if s.safeguard != "" {
		m.SafeguardHit = stringPtr(s.safeguard)
	}
	return m
}

// stringPtr returns a pointer to the given string.
func stringPtr(s string) *string {
	return &s
}
