package enum_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/records-paging/enum"
)

type color int

const (
	red color = iota
	green
	blue
)

var _ = Describe("Enum", func() {
	colors := enum.New(map[color]string{
		red:   "red",
		green: "green",
		blue:  "blue",
	})

	It("should render canonical names", func() {
		Expect(colors.String(green)).To(Equal("green"))
		Expect(colors.String(color(42))).To(BeEmpty())
	})

	It("should parse names back to variants", func() {
		v, err := colors.Parse("blue")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(blue))
	})

	It("should report unknown names with the allowed list", func() {
		_, err := colors.Parse("purple")

		var parseErr *enum.ParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
		Expect(parseErr.Value).To(Equal("purple"))
		Expect(parseErr.Allowed).To(Equal([]string{"blue", "green", "red"}))
		Expect(err.Error()).To(ContainSubstring("blue, green, red"))
	})

	It("should be case sensitive by default", func() {
		_, err := colors.Parse("RED")
		Expect(err).To(HaveOccurred())
	})

	It("should fold case when asked", func() {
		folded := enum.New(map[color]string{red: "red"}, enum.FoldCase())
		v, err := folded.Parse("RED")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(red))
	})

	It("should fall back for unknown names", func() {
		Expect(colors.ParseOr("nope", red)).To(Equal(red))
		Expect(colors.ParseOr("green", red)).To(Equal(green))
	})

	It("should validate variants", func() {
		Expect(colors.Valid(blue)).To(BeTrue())
		Expect(colors.Valid(color(-1))).To(BeFalse())
	})

	It("should return a copy of the names", func() {
		names := colors.Names()
		names[0] = "mutated"
		Expect(colors.Names()[0]).To(Equal("blue"))
	})

	It("should panic on duplicate names", func() {
		Expect(func() {
			enum.New(map[color]string{red: "x", green: "X"}, enum.FoldCase())
		}).To(Panic())
	})
})
