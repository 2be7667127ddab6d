package symbolic_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynsym/internal/symbolic"
)

var _ = Describe("Parse", func() {
	t := symbolic.S("t")
	x := symbolic.Apply("x", t)
	y := symbolic.Apply("y", t)

	It("builds the same tree as the constructors", func() {
		got, err := symbolic.Parse("x(t) + diff(x(t), t)*y(t)")
		Expect(err).NotTo(HaveOccurred())
		want := symbolic.AddOf(x, symbolic.MulOf(symbolic.Diff(x, t), y))
		Expect(symbolic.Equal(got, want)).To(BeTrue())
	})

	It("round-trips derivative notation", func() {
		d := symbolic.DiffN(x, t, 2)
		got, err := symbolic.Parse(d.String())
		Expect(err).NotTo(HaveOccurred())
		Expect(symbolic.Equal(got, d)).To(BeTrue())
	})

	It("keeps Derivative unevaluated", func() {
		got, err := symbolic.Parse("Derivative(k*x(t), t)")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Kind()).To(Equal(symbolic.KindDerivative))
		Expect(symbolic.FreeSymbols(got).String()).To(Equal("{k, t}"))

		evaluated, err := symbolic.Parse("diff(k*x(t), t)")
		Expect(err).NotTo(HaveOccurred())
		Expect(evaluated.String()).To(Equal("k*diff(x(t), t)"))
	})

	It("builds high derivatives of quantities as one node", func() {
		got, err := symbolic.Parse("diff(diff(x(t), t), t, 50)")
		Expect(err).NotTo(HaveOccurred())
		d, ok := got.(*symbolic.Derivative)
		Expect(ok).To(BeTrue())
		Expect(d.Order()).To(Equal(51))
		Expect(d.Expr().String()).To(Equal("x(t)"))

		got, err = symbolic.Parse(fmt.Sprintf("diff(x(t), t, %d)", symbolic.MaxDerivativeOrder))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.(*symbolic.Derivative).Order()).To(Equal(symbolic.MaxDerivativeOrder))
	})

	It("supports powers, roots, division and decimals", func() {
		got, err := symbolic.Parse("pow(a, 2) / 2 + sqrt(b) + 0.5")
		Expect(err).NotTo(HaveOccurred())
		want := symbolic.AddOf(
			symbolic.MulOf(symbolic.F(1, 2), symbolic.PowOf(symbolic.S("a"), symbolic.N(2))),
			symbolic.SqrtOf(symbolic.S("b")),
			symbolic.F(1, 2),
		)
		Expect(symbolic.Equal(got, want)).To(BeTrue())
	})

	It("parses elementary functions", func() {
		got, err := symbolic.Parse("-sin(theta(t))")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.String()).To(Equal("-sin(theta(t))"))
	})

	DescribeTable("rejects malformed input",
		func(src string) {
			_, err := symbolic.Parse(src)
			Expect(err).To(MatchError(symbolic.ErrParse))
		},
		Entry("dangling operator", "x +"),
		Entry("caret power", "x^2"),
		Entry("string literal", `"x"`),
		Entry("non-symbol variable", "diff(x(t), 2)"),
		Entry("zero order", "diff(x(t), t, 0)"),
		Entry("huge order", "diff(x(t), t, 1000000000)"),
		Entry("huge unevaluated order", "Derivative(x(t), t, 1000000000)"),
		Entry("nullary call", "f()"),
		Entry("division by zero", "x / 0"),
		Entry("bad arity", "sin(x, y)"),
	)
})
