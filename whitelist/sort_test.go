package whitelist_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/records-paging/whitelist"
)

var _ = Describe("SortWhitelist", func() {
	sorts := whitelist.NewSortWhitelist().
		Field("name", "name", whitelist.SortText).
		KeysetField("total_quantity", "total_quantity", whitelist.SortNumeric).
		DefaultKeysetField("created_at", "created_at", whitelist.SortTime)

	It("should map keys to columns", func() {
		Expect(sorts.Validate("total_quantity")).To(Equal("total_quantity"))
		Expect(sorts.Validate("name")).To(Equal("name"))
	})

	It("should fall back to the default column for unknown keys", func() {
		Expect(sorts.Validate("")).To(Equal("created_at"))
		Expect(sorts.Validate("nonexistent_field")).To(Equal("created_at"))
		Expect(sorts.Validate("name; DROP TABLE reagents")).To(Equal("created_at"))
	})

	It("should flag keyset eligibility", func() {
		Expect(sorts.IsKeysetEligible("total_quantity")).To(BeTrue())
		Expect(sorts.IsKeysetEligible("name")).To(BeFalse())
		Expect(sorts.IsKeysetEligible("unknown")).To(BeTrue(), "falls back to created_at")
	})

	It("should report lookups of unknown keys", func() {
		_, ok := sorts.Lookup("unknown")
		Expect(ok).To(BeFalse())

		f, ok := sorts.Lookup("total_quantity")
		Expect(ok).To(BeTrue())
		Expect(f.Kind).To(Equal(whitelist.SortNumeric))
	})

	It("should list and project keys", func() {
		Expect(sorts.Keys()).To(Equal([]string{"created_at", "name", "total_quantity"}))
		Expect(sorts.Supported([]string{"name", "bogus", "created_at"})).To(Equal([]string{"name", "created_at"}))
	})

	It("should panic on invalid columns", func() {
		Expect(func() {
			whitelist.NewSortWhitelist().Field("x", "x; --", whitelist.SortText)
		}).To(Panic())
	})

	It("should panic on keyset text columns", func() {
		Expect(func() {
			whitelist.NewSortWhitelist().KeysetField("name", "name", whitelist.SortText)
		}).To(Panic())
	})

	It("should default to id when no default is registered", func() {
		bare := whitelist.NewSortWhitelist().Field("name", "name", whitelist.SortText)
		Expect(bare.Validate("x")).To(Equal("id"))
	})
})
