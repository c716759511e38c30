package quotafill_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	paging "github.com/nrfta/records-paging"
	"github.com/nrfta/records-paging/cursor"
	"github.com/nrfta/records-paging/query"
	"github.com/nrfta/records-paging/quotafill"
	"github.com/nrfta/records-paging/resource"
)

// fakePaginator serves rows already in total_quantity DESC order, following
// cursors by row id the way the keyset paginator would.
type fakePaginator struct {
	rows   []resource.Record
	config *paging.PageConfig
	delay  time.Duration
	err    error
	calls  []paging.PaginationQuery
	counts int
}

func newFakePaginator(n int) *fakePaginator {
	rows := make([]resource.Record, n)
	for i := range rows {
		rows[i] = row(i)
	}
	return &fakePaginator{rows: rows, config: paging.NewPageConfig()}
}

func row(i int) resource.Record {
	return resource.Record{"id": fmt.Sprintf("r%03d", i), "total_quantity": float64(1000 - i)}
}

func cursorAt(i int) string {
	return cursor.Encode(float64(1000-i), fmt.Sprintf("r%03d", i))
}

func (f *fakePaginator) Definition() *resource.Definition { return resource.Reagents }

func (f *fakePaginator) Config() *paging.PageConfig { return f.config }

func (f *fakePaginator) Paginate(ctx context.Context, q paging.PaginationQuery) (*paging.Page[resource.Record], error) {
	f.counts++
	return f.serve(ctx, q, int64(len(f.rows)))
}

// Batch serves q without a total, as the keyset paginator does.
func (f *fakePaginator) Batch(ctx context.Context, q paging.PaginationQuery) (*paging.Page[resource.Record], error) {
	return f.serve(ctx, q, 0)
}

func (f *fakePaginator) serve(ctx context.Context, q paging.PaginationQuery, total int64) (*paging.Page[resource.Record], error) {
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	size := f.config.EffectiveLimit(q)
	page := &paging.Page[resource.Record]{Pagination: paging.PageInfo{Total: total}}

	if q.Cursor == "" {
		end := min(size, len(f.rows))
		page.Items = f.rows[:end]
		page.Pagination.HasNext = end < len(f.rows)
		page.Metadata.ItemsExamined = end
		return page, nil
	}

	pos, ok := cursor.Decode(q.Cursor)
	Expect(ok).To(BeTrue())
	at := -1
	for i, r := range f.rows {
		if r.RowID() == pos.ID {
			at = i
		}
	}
	Expect(at).ToNot(Equal(-1))

	if q.TraversalDirection() == query.Prev {
		from := max(0, at-size)
		page.Items = f.rows[from:at]
		page.Pagination.HasPrev = from > 0
		page.Pagination.HasNext = true
		page.Metadata.ItemsExamined = at - from
		if from > 0 {
			page.Metadata.ItemsExamined++
		}
		return page, nil
	}

	end := min(at+1+size, len(f.rows))
	page.Items = f.rows[at+1 : end]
	page.Pagination.HasNext = end < len(f.rows)
	page.Pagination.HasPrev = true
	page.Metadata.ItemsExamined = end - at - 1
	if end < len(f.rows) {
		page.Metadata.ItemsExamined++
	}
	return page, nil
}

func passAll() paging.FilterFunc[resource.Record] {
	return func(_ context.Context, rows []resource.Record) ([]resource.Record, error) {
		return rows, nil
	}
}

func rejectAll() paging.FilterFunc[resource.Record] {
	return func(_ context.Context, _ []resource.Record) ([]resource.Record, error) {
		return nil, nil
	}
}

// evenOnly keeps rows with an even index, a 50% pass rate.
func evenOnly() paging.FilterFunc[resource.Record] {
	return func(_ context.Context, rows []resource.Record) ([]resource.Record, error) {
		var out []resource.Record
		for _, r := range rows {
			var i int
			fmt.Sscanf(r.RowID(), "r%03d", &i)
			if i%2 == 0 {
				out = append(out, r)
			}
		}
		return out, nil
	}
}

func rowIDs(rows []resource.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.RowID()
	}
	return out
}

func sizeOf(n int) *int { return &n }

var _ = Describe("Wrapper", func() {
	var (
		ctx  context.Context
		base *fakePaginator
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = newFakePaginator(10)
	})

	byQuantity := func(size int) paging.PaginationQuery {
		return paging.PaginationQuery{PageSize: sizeOf(size), SortBy: "total_quantity"}
	}

	Describe("filling the quota", func() {
		It("should return a full page in one iteration when everything passes", func() {
			w := quotafill.Wrap[resource.Record](base, passAll())

			page, err := w.Paginate(ctx, byQuantity(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(rowIDs(page.Items)).To(Equal([]string{"r000", "r001", "r002"}))
			Expect(page.Pagination.Total).To(Equal(int64(10)))
			Expect(page.Pagination.HasNext).To(BeTrue())
			Expect(*page.Pagination.NextCursor).To(Equal(cursorAt(2)))
			Expect(page.Pagination.HasPrev).To(BeFalse())
			Expect(page.Pagination.PrevCursor).To(BeNil())
			Expect(page.Pagination.Page).To(BeNil())
			Expect(page.Sorting).To(Equal(paging.Sorting{SortBy: "total_quantity", SortOrder: "DESC"}))

			Expect(page.Metadata.Strategy).To(Equal(quotafill.StrategyQuotaFill))
			Expect(page.Metadata.IterationsUsed).To(Equal(1))
			Expect(page.Metadata.ItemsExamined).To(Equal(4))
			Expect(page.Metadata.SafeguardHit).To(BeNil())
		})

		It("should keep fetching with backoff until the quota is filled", func() {
			w := quotafill.Wrap[resource.Record](base, evenOnly())

			page, err := w.Paginate(ctx, byQuantity(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(rowIDs(page.Items)).To(Equal([]string{"r000", "r002", "r004"}))
			Expect(page.Pagination.HasNext).To(BeTrue())
			Expect(*page.Pagination.NextCursor).To(Equal(cursorAt(4)))
			Expect(page.Metadata.IterationsUsed).To(Equal(2))
			Expect(page.Metadata.ItemsExamined).To(Equal(9))

			Expect(base.calls).To(HaveLen(2))
			Expect(*base.calls[0].PageSize).To(Equal(4))
			Expect(base.calls[0].Cursor).To(BeEmpty())
			Expect(*base.calls[1].PageSize).To(Equal(4))
			Expect(base.calls[1].Cursor).To(Equal(cursorAt(3)))

			Expect(base.counts).To(Equal(1))
			Expect(page.Pagination.Total).To(Equal(int64(10)))
		})

		It("should continue a listing from the next cursor without gaps", func() {
			w := quotafill.Wrap[resource.Record](base, evenOnly())

			var seen []string
			q := byQuantity(2)
			for i := 0; ; i++ {
				Expect(i).To(BeNumerically("<", 10), "runaway pagination")
				page, err := w.Paginate(ctx, q)
				Expect(err).ToNot(HaveOccurred())
				seen = append(seen, rowIDs(page.Items)...)
				if !page.Pagination.HasNext {
					break
				}
				q.Cursor = *page.Pagination.NextCursor
			}
			Expect(seen).To(Equal([]string{"r000", "r002", "r004", "r006", "r008"}))
		})

		It("should report an empty listing when nothing passes", func() {
			w := quotafill.Wrap[resource.Record](base, rejectAll())

			page, err := w.Paginate(ctx, byQuantity(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Items).ToNot(BeNil())
			Expect(page.Items).To(BeEmpty())
			Expect(page.Pagination.HasNext).To(BeFalse())
			Expect(page.Pagination.HasPrev).To(BeFalse())
			Expect(page.Pagination.NextCursor).To(BeNil())
			Expect(page.Metadata.IterationsUsed).To(Equal(2))
			Expect(page.Metadata.SafeguardHit).To(BeNil())
		})

		It("should fill backwards for prev requests", func() {
			w := quotafill.Wrap[resource.Record](base, evenOnly())

			q := byQuantity(2)
			q.Cursor = cursorAt(8)
			q.Direction = "prev"
			page, err := w.Paginate(ctx, q)
			Expect(err).ToNot(HaveOccurred())
			Expect(rowIDs(page.Items)).To(Equal([]string{"r004", "r006"}))
			Expect(page.Pagination.HasPrev).To(BeTrue())
			Expect(*page.Pagination.PrevCursor).To(Equal(cursorAt(4)))
			Expect(page.Pagination.HasNext).To(BeTrue())
			Expect(*page.Pagination.NextCursor).To(Equal(cursorAt(6)))

			Expect(base.calls[1].Cursor).To(Equal(cursorAt(5)))
			Expect(base.calls[1].Direction).To(Equal("prev"))
		})

		It("should offer a prev cursor after a cursor request", func() {
			w := quotafill.Wrap[resource.Record](base, passAll())

			q := byQuantity(2)
			q.Cursor = cursorAt(1)
			page, err := w.Paginate(ctx, q)
			Expect(err).ToNot(HaveOccurred())
			Expect(rowIDs(page.Items)).To(Equal([]string{"r002", "r003"}))
			Expect(page.Pagination.HasPrev).To(BeTrue())
			Expect(*page.Pagination.PrevCursor).To(Equal(cursorAt(2)))
		})
	})

	Describe("safeguards", func() {
		BeforeEach(func() {
			base = newFakePaginator(100)
		})

		It("should stop after the maximum iterations", func() {
			w := quotafill.Wrap[resource.Record](base, rejectAll(),
				quotafill.WithMaxIterations(2),
				quotafill.WithMaxRecordsExamined(1000),
			)

			page, err := w.Paginate(ctx, byQuantity(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Items).To(BeEmpty())
			Expect(*page.Metadata.SafeguardHit).To(Equal(quotafill.SafeguardMaxIterations))
			Expect(page.Metadata.IterationsUsed).To(Equal(2))

			// The next request resumes after the rows already rejected.
			Expect(page.Pagination.HasNext).To(BeTrue())
			Expect(*page.Pagination.NextCursor).To(Equal(cursorAt(11)))
		})

		It("should stop before examining too many records", func() {
			w := quotafill.Wrap[resource.Record](base, rejectAll(), quotafill.WithMaxRecordsExamined(10))

			page, err := w.Paginate(ctx, byQuantity(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(*page.Metadata.SafeguardHit).To(Equal(quotafill.SafeguardMaxRecords))
			Expect(page.Metadata.ItemsExamined).To(BeNumerically("<=", 10))
			Expect(*base.calls[1].PageSize).To(Equal(5))
		})

		It("should stop when the timeout expires", func() {
			base.delay = 50 * time.Millisecond
			w := quotafill.Wrap[resource.Record](base, passAll(), quotafill.WithTimeout(5*time.Millisecond))

			page, err := w.Paginate(ctx, byQuantity(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(*page.Metadata.SafeguardHit).To(Equal(quotafill.SafeguardTimeout))
			Expect(page.Items).To(BeEmpty())
			Expect(page.Pagination.HasNext).To(BeFalse())
		})

		It("should honour custom backoff multipliers", func() {
			w := quotafill.Wrap[resource.Record](base, rejectAll(),
				quotafill.WithBackoffMultipliers([]int{1, 10}),
				quotafill.WithMaxIterations(3),
				quotafill.WithMaxRecordsExamined(1000),
			)

			_, err := w.Paginate(ctx, byQuantity(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(base.calls).To(HaveLen(3))
			Expect(*base.calls[0].PageSize).To(Equal(4))
			Expect(*base.calls[1].PageSize).To(Equal(40))
			Expect(*base.calls[2].PageSize).To(Equal(40))
		})
	})

	Describe("cursors", func() {
		It("should restart from the first page on a malformed cursor", func() {
			w := quotafill.Wrap[resource.Record](base, passAll())

			q := byQuantity(2)
			q.Cursor = "garbage"
			q.Direction = "prev"
			page, err := w.Paginate(ctx, q)
			Expect(err).ToNot(HaveOccurred())
			Expect(base.calls[0].Cursor).To(BeEmpty())
			Expect(base.calls[0].Direction).To(Equal("next"))
			Expect(rowIDs(page.Items)).To(Equal([]string{"r000", "r001"}))
			Expect(page.Pagination.HasPrev).To(BeFalse())
		})

		It("should reject a malformed cursor when strict", func() {
			base.config.WithStrictCursor(true)
			w := quotafill.Wrap[resource.Record](base, passAll())

			q := byQuantity(2)
			q.Cursor = "garbage"
			_, err := w.Paginate(ctx, q)
			Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
			Expect(base.calls).To(BeEmpty())
		})
	})

	Describe("sorts without keyset support", func() {
		It("should filter a single base page", func() {
			w := quotafill.Wrap[resource.Record](base, evenOnly())

			q := paging.PaginationQuery{PageSize: sizeOf(4), SortBy: "name"}
			page, err := w.Paginate(ctx, q)
			Expect(err).ToNot(HaveOccurred())
			Expect(base.calls).To(Equal([]paging.PaginationQuery{q}))
			Expect(rowIDs(page.Items)).To(Equal([]string{"r000", "r002"}))
			Expect(page.Metadata.Strategy).To(Equal(quotafill.StrategyQuotaFill))
			Expect(page.Metadata.IterationsUsed).To(Equal(1))
		})
	})

	Describe("errors", func() {
		It("should wrap base failures", func() {
			base.err = errors.New("connection refused")
			w := quotafill.Wrap[resource.Record](base, passAll())

			_, err := w.Paginate(ctx, byQuantity(2))
			Expect(err).To(MatchError(ContainSubstring("fetch batch (iteration 1)")))
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
		})

		It("should wrap filter failures", func() {
			w := quotafill.Wrap[resource.Record](base, func(context.Context, []resource.Record) ([]resource.Record, error) {
				return nil, errors.New("authz unavailable")
			})

			_, err := w.Paginate(ctx, byQuantity(2))
			Expect(err).To(MatchError(ContainSubstring("apply filter (iteration 1)")))
		})

		It("should reject invalid requests", func() {
			w := quotafill.Wrap[resource.Record](base, passAll())

			_, err := w.Paginate(ctx, paging.PaginationQuery{SortOrder: "sideways"})
			Expect(errors.Is(err, paging.ErrInvalidQuery)).To(BeTrue())
		})
	})
})
