package paging_test

import (
	"errors"

	"github.com/go-playground/validator/v10"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	paging "github.com/nrfta/records-paging"
	"github.com/nrfta/records-paging/query"
)

func intPtr(i int) *int { return &i }

var _ = Describe("PaginationQuery", func() {
	Describe("Validate", func() {
		It("should accept an empty query", func() {
			Expect(paging.PaginationQuery{}.Validate()).To(Succeed())
		})

		It("should accept directions and orders in any case", func() {
			q := paging.PaginationQuery{Direction: "PREV", SortOrder: "asc"}
			Expect(q.Validate()).To(Succeed())
		})

		It("should reject a page below 1", func() {
			err := paging.PaginationQuery{Page: intPtr(0)}.Validate()
			Expect(errors.Is(err, paging.ErrInvalidQuery)).To(BeTrue())

			var verrs validator.ValidationErrors
			Expect(errors.As(err, &verrs)).To(BeTrue())
			Expect(verrs[0].Field()).To(Equal("Page"))
		})

		It("should reject an unknown direction", func() {
			err := paging.PaginationQuery{Direction: "sideways"}.Validate()
			Expect(errors.Is(err, paging.ErrInvalidQuery)).To(BeTrue())
		})

		It("should reject an unknown sort order", func() {
			err := paging.PaginationQuery{SortOrder: "RANDOM"}.Validate()
			Expect(errors.Is(err, paging.ErrInvalidQuery)).To(BeTrue())
		})

		It("should reject an overlong search term", func() {
			long := make([]byte, 201)
			for i := range long {
				long[i] = 'a'
			}
			err := paging.PaginationQuery{Search: string(long)}.Validate()
			Expect(errors.Is(err, paging.ErrInvalidQuery)).To(BeTrue())
		})

		It("should reject an empty filter name", func() {
			err := paging.PaginationQuery{Filters: map[string]string{"": "x"}}.Validate()
			Expect(errors.Is(err, paging.ErrInvalidQuery)).To(BeTrue())
		})

		It("should not validate the page size", func() {
			Expect(paging.PaginationQuery{PageSize: intPtr(100000)}.Validate()).To(Succeed())
		})
	})

	It("should select keyset mode only with a cursor", func() {
		Expect(paging.PaginationQuery{}.IsKeyset()).To(BeFalse())
		Expect(paging.PaginationQuery{Cursor: "abcd"}.IsKeyset()).To(BeTrue())
	})

	It("should default the page number to 1", func() {
		Expect(paging.PaginationQuery{}.PageNumber()).To(Equal(1))
		Expect(paging.PaginationQuery{Page: intPtr(4)}.PageNumber()).To(Equal(4))
	})

	It("should default the direction to next", func() {
		Expect(paging.PaginationQuery{}.TraversalDirection()).To(Equal(query.Next))
		Expect(paging.PaginationQuery{Direction: "Prev"}.TraversalDirection()).To(Equal(query.Prev))
	})
})

var _ = Describe("PageConfig", func() {
	var config *paging.PageConfig

	BeforeEach(func() {
		config = paging.NewPageConfig()
	})

	It("should default to 50 per page, at most 100", func() {
		Expect(config.DefaultSize).To(Equal(50))
		Expect(config.MaxSize).To(Equal(100))
		Expect(config.StrictCursor).To(BeFalse())
	})

	DescribeTable("EffectiveLimit clamps to [1, max]",
		func(size *int, want int) {
			Expect(config.EffectiveLimit(paging.PaginationQuery{PageSize: size})).To(Equal(want))
		},
		Entry("absent", nil, 50),
		Entry("zero", intPtr(0), 1),
		Entry("negative", intPtr(-5), 1),
		Entry("in range", intPtr(25), 25),
		Entry("at max", intPtr(100), 100),
		Entry("above max", intPtr(1000), 100),
	)

	It("should chain its setters", func() {
		config.WithDefaultSize(10).WithMaxSize(20).WithStrictCursor(true)
		Expect(config.EffectiveLimit(paging.PaginationQuery{})).To(Equal(10))
		Expect(config.EffectiveLimit(paging.PaginationQuery{PageSize: intPtr(30)})).To(Equal(20))
		Expect(config.StrictCursor).To(BeTrue())
	})

	It("should ignore non-positive sizes in setters", func() {
		config.WithDefaultSize(0).WithMaxSize(-1)
		Expect(config.DefaultSize).To(Equal(50))
		Expect(config.MaxSize).To(Equal(100))
	})

	It("should never default above the maximum", func() {
		config.WithDefaultSize(80).WithMaxSize(40)
		Expect(config.EffectiveLimit(paging.PaginationQuery{})).To(Equal(40))
	})

	It("should use defaults on a nil config", func() {
		var nilConfig *paging.PageConfig
		Expect(nilConfig.EffectiveLimit(paging.PaginationQuery{})).To(Equal(50))
	})

	It("should compute offsets from page and size", func() {
		Expect(config.Offset(paging.PaginationQuery{Page: intPtr(3), PageSize: intPtr(20)})).To(Equal(40))
		Expect(config.Offset(paging.PaginationQuery{})).To(Equal(0))
	})
})
