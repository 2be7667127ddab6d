package symbolic_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynsym/internal/symbolic"
)

var _ = Describe("Set", func() {
	a := symbolic.S("a")
	b := symbolic.S("b")
	c := symbolic.S("c")

	It("deduplicates structurally equal members", func() {
		s := symbolic.NewSet(symbolic.AddOf(a, b), symbolic.AddOf(b, a))
		Expect(s.Len()).To(Equal(1))
		Expect(s.Add(symbolic.AddOf(a, b))).To(BeFalse())
	})

	It("supports set algebra", func() {
		ab := symbolic.NewSet(a, b)
		bc := symbolic.NewSet(b, c)
		Expect(ab.Union(bc).String()).To(Equal("{a, b, c}"))
		Expect(ab.Difference(bc).String()).To(Equal("{a}"))
		Expect(symbolic.NewSet(b).SubsetOf(ab)).To(BeTrue())
		Expect(ab.SubsetOf(bc)).To(BeFalse())
		Expect(ab.Equal(symbolic.NewSet(b, a))).To(BeTrue())
	})

	It("treats nil and zero sets as empty", func() {
		var nilSet *symbolic.Set
		var zero symbolic.Set
		Expect(nilSet.Len()).To(Equal(0))
		Expect(nilSet.Has(a)).To(BeFalse())
		Expect(zero.Add(a)).To(BeTrue())
		Expect(symbolic.NewSet(a).Difference(nilSet).Len()).To(Equal(1))
	})
})

var _ = Describe("Eval", func() {
	x := symbolic.S("x")
	t := symbolic.S("t")
	q := symbolic.Apply("q", t)

	It("evaluates against bound leaves", func() {
		env := symbolic.MapEnv{}.Bind(x, 2).Bind(q, 0.5)
		v, err := symbolic.Eval(symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), q), env)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 4.5, 1e-12))

		v, err = symbolic.Eval(symbolic.CosOf(symbolic.MulOf(x, symbolic.N(0))), env)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(1.0))
	})

	It("reports unbound quantities", func() {
		_, err := symbolic.Eval(symbolic.Diff(q, t), symbolic.MapEnv{})
		Expect(errors.Is(err, symbolic.ErrUnbound)).To(BeTrue())
	})

	It("reports domain errors", func() {
		_, err := symbolic.Eval(symbolic.LogOf(symbolic.N(-1)), nil)
		Expect(err).To(MatchError(symbolic.ErrDomain))
		v, err := symbolic.Eval(symbolic.ExpOf(symbolic.N(1)), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", math.E, 1e-12))
	})
})
