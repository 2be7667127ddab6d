package symbolic_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynsym/internal/symbolic"
)

var _ = Describe("canonical construction", func() {
	x := symbolic.S("x")
	y := symbolic.S("y")

	It("collects like terms", func() {
		Expect(symbolic.AddOf(x, x).String()).To(Equal("2*x"))
		Expect(symbolic.AddOf(x, symbolic.N(3)).String()).To(Equal("x + 3"))
		Expect(symbolic.AddOf(symbolic.N(1), symbolic.N(-1)).String()).To(Equal("0"))
	})

	It("renders subtraction and negation", func() {
		Expect(symbolic.Sub(x, y).String()).To(Equal("x - y"))
		Expect(symbolic.Neg(x).String()).To(Equal("-x"))
	})

	It("combines powers of the same base", func() {
		Expect(symbolic.MulOf(x, x).String()).To(Equal("x^2"))
		Expect(symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1))).String()).To(Equal("1"))
	})

	It("folds exact numbers", func() {
		Expect(symbolic.F(1, 2).String()).To(Equal("1/2"))
		Expect(symbolic.Div(symbolic.N(1), symbolic.N(2)).String()).To(Equal("1/2"))
		Expect(symbolic.PowOf(symbolic.N(2), symbolic.N(10)).String()).To(Equal("1024"))
	})

	It("is independent of operand order", func() {
		Expect(symbolic.Equal(symbolic.AddOf(x, y), symbolic.AddOf(y, x))).To(BeTrue())
		Expect(symbolic.Equal(symbolic.MulOf(x, y, symbolic.N(2)), symbolic.MulOf(symbolic.N(2), y, x))).To(BeTrue())
		Expect(symbolic.Equal(symbolic.AddOf(x, y), symbolic.MulOf(x, y))).To(BeFalse())
	})

	It("keeps symbols and applied functions of the same name apart", func() {
		t := symbolic.S("t")
		Expect(symbolic.Equal(x, symbolic.Apply("x", t))).To(BeFalse())
	})

	It("substitutes by structure", func() {
		Expect(symbolic.Replace(symbolic.AddOf(x, y), x, symbolic.N(2)).String()).To(Equal("y + 2"))
	})
})

var _ = Describe("differentiation", func() {
	x := symbolic.S("x")
	t := symbolic.S("t")

	It("applies the power and chain rules", func() {
		Expect(symbolic.Diff(symbolic.PowOf(x, symbolic.N(3)), x).String()).To(Equal("3*x^2"))
		Expect(symbolic.Diff(symbolic.SinOf(x), x).String()).To(Equal("cos(x)"))
		Expect(symbolic.Diff(symbolic.CosOf(x), t).String()).To(Equal("0"))
	})

	It("keeps derivatives of applied functions symbolic", func() {
		q := symbolic.Apply("q", t)
		Expect(symbolic.Diff(q, t).String()).To(Equal("diff(q(t), t)"))
		Expect(symbolic.DiffN(q, t, 2).String()).To(Equal("diff(q(t), t, 2)"))
		Expect(symbolic.Diff(q, x).String()).To(Equal("0"))
	})

	It("merges nested derivatives on the same variable", func() {
		q := symbolic.Apply("q", t)
		d := symbolic.Deriv(symbolic.Deriv(q, t, 1), t, 2)
		Expect(d.Kind()).To(Equal(symbolic.KindDerivative))
		Expect(d.(*symbolic.Derivative).Order()).To(Equal(3))
		Expect(d.(*symbolic.Derivative).Base().String()).To(Equal("q(t)"))
	})

	It("vanishes for expressions constant in the variable", func() {
		Expect(symbolic.Deriv(symbolic.S("k"), t, 1).String()).To(Equal("0"))
		Expect(symbolic.Deriv(symbolic.Apply("f", x), t, 1).String()).To(Equal("0"))
	})

	It("differentiates products of time functions", func() {
		q := symbolic.Apply("q", t)
		k := symbolic.S("k")
		Expect(symbolic.Diff(symbolic.MulOf(k, q), t).String()).To(Equal("k*diff(q(t), t)"))
	})
})

var _ = Describe("traversal", func() {
	t := symbolic.S("t")
	x := symbolic.Apply("x", t)
	y := symbolic.Apply("y", t)
	expr := symbolic.AddOf(x, symbolic.MulOf(symbolic.Diff(x, t), y))

	It("finds atoms of the requested kinds at any depth", func() {
		atoms := symbolic.Atoms(expr, symbolic.KindApplied, symbolic.KindDerivative)
		Expect(atoms.String()).To(Equal("{x(t), y(t), diff(x(t), t)}"))
	})

	It("returns leaves when no kind is given", func() {
		leaves := symbolic.Atoms(symbolic.AddOf(symbolic.S("a"), symbolic.N(2)))
		Expect(leaves.Len()).To(Equal(2))
	})

	It("computes free symbols", func() {
		f := symbolic.Apply("f", t, symbolic.S("z"))
		Expect(symbolic.FreeSymbols(f).String()).To(Equal("{t, z}"))
		Expect(symbolic.FreeSymbols(symbolic.N(4)).Len()).To(Equal(0))
		Expect(symbolic.FreeSymbols(symbolic.Diff(x, t)).String()).To(Equal("{t}"))
	})

	It("reports containment", func() {
		Expect(symbolic.Has(expr, y)).To(BeTrue())
		Expect(symbolic.Has(expr, symbolic.Apply("z", t))).To(BeFalse())
	})
})
