package sqlboiler_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/records-paging/query"
	"github.com/nrfta/records-paging/resource"
	"github.com/nrfta/records-paging/sqlboiler"
)

var _ = Describe("Fetcher", func() {
	It("should bind an offset page into the projection", func() {
		b := resource.Reagents.Builder().Sort("total_quantity", query.DESC).Limit(5)
		stmt, err := b.BuildSimple(0)
		Expect(err).ToNot(HaveOccurred())

		rows, err := sqlboiler.NewFetcher[resource.Reagent](db).Fetch(ctx, stmt)
		Expect(err).ToNot(HaveOccurred())
		Expect(idsOf(rows)).To(Equal(orderedIDs(seeded, byQuantity, true)[:5]))
	})

	It("should bind nullable columns", func() {
		stmt, err := resource.Reagents.Builder().Limit(100).BuildSimple(0)
		Expect(err).ToNot(HaveOccurred())

		rows, err := sqlboiler.NewFetcher[resource.Reagent](db).Fetch(ctx, stmt)
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).To(HaveLen(len(seeded)))

		nulls := 0
		for _, r := range rows {
			if !r.Formula.Valid {
				nulls++
			}
		}
		Expect(nulls).To(BeNumerically("==", countWhere(seeded, func(r resource.Reagent) bool { return !r.Formula.Valid })))
	})

	It("should return an empty slice when nothing matches", func() {
		stmt, err := resource.Reagents.Builder().AddCondition("status = ?", "missing").BuildSimple(0)
		Expect(err).ToNot(HaveOccurred())

		rows, err := sqlboiler.NewFetcher[resource.Reagent](db).Fetch(ctx, stmt)
		Expect(err).ToNot(HaveOccurred())
		Expect(rows).ToNot(BeNil())
		Expect(rows).To(BeEmpty())
	})

	It("should count under the filter conditions", func() {
		stmt, err := resource.Reagents.Builder().AddCondition("status = ?", "available").BuildCount()
		Expect(err).ToNot(HaveOccurred())

		n, err := sqlboiler.NewFetcher[resource.Reagent](db).Count(ctx, stmt)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(countWhere(seeded, func(r resource.Reagent) bool { return r.Status == "available" })))
	})

	It("should wrap database errors", func() {
		_, err := sqlboiler.NewFetcher[resource.Reagent](db).Fetch(ctx, query.Statement{SQL: "SELECT * FROM nowhere"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("sqlboiler: fetch"))
	})
})

var _ = Describe("RecordFetcher", func() {
	It("should scan rows into column-keyed records", func() {
		b := resource.Reagents.Builder().Select("id", "name", "total_quantity").Sort("total_quantity", query.ASC).Limit(3)
		stmt, err := b.BuildSimple(0)
		Expect(err).ToNot(HaveOccurred())

		recs, err := sqlboiler.NewRecordFetcher(db).Fetch(ctx, stmt)
		Expect(err).ToNot(HaveOccurred())
		Expect(recs).To(HaveLen(3))

		want := orderedIDs(seeded, byQuantity, false)[:3]
		for i, rec := range recs {
			Expect(rec.RowID()).To(Equal(want[i]))
			Expect(rec).To(HaveKey("name"))
			Expect(rec["total_quantity"]).To(BeAssignableToTypeOf(float64(0)))
		}
	})
})
