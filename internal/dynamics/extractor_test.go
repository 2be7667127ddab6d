package dynamics_test

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynsym/internal/dynamics"
	"github.com/san-kum/dynsym/internal/symbolic"
)

var _ = Describe("Find", func() {
	var (
		t    *symbolic.Symbol
		a, b symbolic.Expr
		ad   symbolic.Expr
		expr symbolic.Expr
	)

	BeforeEach(func() {
		t = dynamics.Time()
		a = symbolic.Apply("a", t)
		b = symbolic.Apply("b", t)
		ad = symbolic.Diff(a, t)
		expr = symbolic.AddOf(a, symbolic.MulOf(ad, b))
	})

	It("finds functions of time and their derivatives", func() {
		got, err := dynamics.Find(expr, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Equal(symbolic.NewSet(a, ad, b))).To(BeTrue())
	})

	It("removes excluded quantities", func() {
		got, err := dynamics.Find(expr, dynamics.List{a, b})
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Equal(symbolic.NewSet(ad))).To(BeTrue())

		got, err = dynamics.Find(expr, symbolic.NewSet(ad))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Equal(symbolic.NewSet(a, b))).To(BeTrue())
	})

	It("is empty when everything is excluded", func() {
		got, err := dynamics.Find(expr, dynamics.List{a, ad, b})
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Len()).To(Equal(0))
	})

	It("ignores exclusions that are not present", func() {
		before, err := dynamics.Find(expr, nil)
		Expect(err).NotTo(HaveOccurred())
		after, err := dynamics.Find(expr, dynamics.List{symbolic.Apply("z", t), symbolic.S("k")})
		Expect(err).NotTo(HaveOccurred())
		Expect(after.Equal(before)).To(BeTrue())
	})

	It("never shrinks when exclusions shrink", func() {
		small := dynamics.List{a}
		large := dynamics.List{a, b}
		withSmall, err := dynamics.Find(expr, small)
		Expect(err).NotTo(HaveOccurred())
		withLarge, err := dynamics.Find(expr, large)
		Expect(err).NotTo(HaveOccurred())
		Expect(withLarge.SubsetOf(withSmall)).To(BeTrue())
	})

	It("is pure", func() {
		key := expr.Key()
		first, err := dynamics.Find(expr, nil)
		Expect(err).NotTo(HaveOccurred())
		second, err := dynamics.Find(expr, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Equal(second)).To(BeTrue())
		Expect(expr.Key()).To(Equal(key))
	})

	It("does not mutate the exclusion collection", func() {
		exclude := dynamics.List{a}
		_, err := dynamics.Find(expr, exclude)
		Expect(err).NotTo(HaveOccurred())
		Expect(exclude).To(HaveLen(1))
		Expect(symbolic.Equal(exclude[0], a)).To(BeTrue())
	})

	It("returns the empty set for time-free expressions", func() {
		k := symbolic.S("k")
		for _, e := range []symbolic.Expr{
			k,
			symbolic.N(3),
			symbolic.AddOf(k, symbolic.SinOf(symbolic.S("x"))),
			symbolic.Apply("f", symbolic.S("x")),
			t,
		} {
			got, err := dynamics.Find(e, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Len()).To(Equal(0), e.String())
		}
	})

	It("rejects quantities that depend on another symbol", func() {
		y := symbolic.S("y")
		mixed := symbolic.Apply("f", t, y)
		e := symbolic.AddOf(mixed, symbolic.Diff(mixed, t), a)
		got, err := dynamics.Find(e, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Equal(symbolic.NewSet(a))).To(BeTrue())

		wrapped := symbolic.Deriv(symbolic.MulOf(symbolic.S("k"), a), t, 1)
		Expect(wrapped.Kind()).To(Equal(symbolic.KindDerivative))
		got, err = dynamics.Find(wrapped, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Equal(symbolic.NewSet(a))).To(BeTrue())
	})

	It("keeps higher derivatives as single members", func() {
		add := symbolic.DiffN(a, t, 2)
		got, err := dynamics.Find(add, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Len()).To(Equal(2))
		Expect(got.Has(add)).To(BeTrue())
		Expect(got.Has(a)).To(BeTrue())
		Expect(got.Has(ad)).To(BeFalse())
	})

	It("finds quantities nested inside function arguments", func() {
		e := symbolic.CosOf(symbolic.MulOf(symbolic.N(2), symbolic.Apply("theta", t)))
		got, err := dynamics.Find(e, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.String()).To(Equal("{theta(t)}"))
	})

	It("treats sums and products as containers", func() {
		scaled := symbolic.MulOf(symbolic.N(3), a)
		got, err := dynamics.Find(symbolic.AddOf(scaled, symbolic.N(1)), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Len()).To(Equal(1))
		Expect(got.Has(a)).To(BeTrue())
		Expect(got.Has(scaled)).To(BeFalse())
	})

	It("collapses structurally equal nodes", func() {
		e := symbolic.MulOf(symbolic.Apply("a", t), symbolic.SinOf(symbolic.Apply("a", t)))
		got, err := dynamics.Find(e, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Len()).To(Equal(1))
	})

	It("honours the extractor's time symbol", func() {
		tau := symbolic.S("tau")
		q := symbolic.Apply("q", tau)
		e := symbolic.AddOf(q, a)
		got, err := dynamics.New(tau).Find(e, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Equal(symbolic.NewSet(q))).To(BeTrue())
	})

	It("rejects a nil expression", func() {
		_, err := dynamics.Find(nil, nil)
		Expect(err).To(MatchError(dynamics.ErrInvalidArgument))
	})

	It("rejects a nil node pointer", func() {
		var nilApplied *symbolic.Applied
		got, err := dynamics.Find(nilApplied, nil)
		Expect(err).To(MatchError(dynamics.ErrInvalidArgument))
		Expect(got).To(BeNil())

		_, err = dynamics.Default.FindAll([]symbolic.Expr{a, (*symbolic.Derivative)(nil)}, nil)
		Expect(err).To(MatchError(dynamics.ErrInvalidArgument))
		Expect(dynamics.Default.IsQuantity(nilApplied)).To(BeFalse())
	})

	It("rejects nil node pointers among exclusions", func() {
		_, err := dynamics.Find(expr, dynamics.List{a, (*symbolic.Applied)(nil)})
		Expect(err).To(MatchError(dynamics.ErrInvalidArgument))
	})

	It("removes exclusions given as a derivative slice", func() {
		c, err := dynamics.Exclusions([]*symbolic.Derivative{ad.(*symbolic.Derivative)})
		Expect(err).NotTo(HaveOccurred())
		got, err := dynamics.Find(expr, c)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Equal(symbolic.NewSet(a, b))).To(BeTrue())
	})

	It("rejects nil exclusion members without a partial result", func() {
		got, err := dynamics.Find(expr, dynamics.List{a, nil})
		Expect(err).To(MatchError(dynamics.ErrInvalidArgument))
		Expect(got).To(BeNil())
	})

	It("is safe for concurrent use", func() {
		var wg sync.WaitGroup
		results := make([]*symbolic.Set, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = dynamics.Find(expr, nil)
			}(i)
		}
		wg.Wait()
		for _, r := range results {
			Expect(r.Len()).To(Equal(3))
		}
	})
})

var _ = Describe("FindAll", func() {
	It("unions over several expressions", func() {
		xs := dynamics.MustSymbols("x, y", 0)
		got, err := dynamics.Default.FindAll([]symbolic.Expr{xs[0], symbolic.SinOf(xs[1])}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.String()).To(Equal("{x(t), y(t)}"))
	})
})

var _ = Describe("Exclusions", func() {
	t := dynamics.Time()
	x := symbolic.Apply("x", t)
	xd := symbolic.Diff(x, t).(*symbolic.Derivative)
	xdd := symbolic.DiffN(x, t, 2).(*symbolic.Derivative)

	DescribeTable("accepts collections",
		func(v any, n int) {
			c, err := dynamics.Exclusions(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Quantities()).To(HaveLen(n))
		},
		Entry("nil", nil, 0),
		Entry("expression slice", []symbolic.Expr{x}, 1),
		Entry("applied slice", []*symbolic.Applied{symbolic.Apply("x", t), symbolic.Apply("y", t)}, 2),
		Entry("set", symbolic.NewSet(x), 1),
		Entry("list", dynamics.List{x, x}, 2),
		Entry("derivative slice", []*symbolic.Derivative{xd, xdd}, 2),
		Entry("symbol slice", []*symbolic.Symbol{t}, 1),
		Entry("empty derivative slice", []*symbolic.Derivative{}, 0),
	)

	DescribeTable("rejects non-collections",
		func(v any) {
			_, err := dynamics.Exclusions(v)
			Expect(err).To(MatchError(dynamics.ErrInvalidArgument))
			var argErr *dynamics.ArgumentError
			Expect(errors.As(err, &argErr)).To(BeTrue())
			Expect(argErr.Arg).To(Equal("exclude"))
		},
		Entry("integer", 42),
		Entry("single expression", symbolic.S("x")),
		Entry("string", "x(t)"),
		Entry("nil member", []*symbolic.Applied{nil}),
		Entry("nil derivative member", []*symbolic.Derivative{xd, nil}),
		Entry("nil symbol member", []*symbolic.Symbol{nil}),
	)
})

var _ = Describe("Symbols", func() {
	It("builds functions of time", func() {
		xs, err := dynamics.Symbols("q1 q2,u", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(HaveLen(3))
		Expect(xs[2].String()).To(Equal("u(t)"))
	})

	It("builds derivatives for a positive level", func() {
		xs, err := dynamics.Symbols("q", 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs[0].String()).To(Equal("diff(q(t), t, 2)"))
		Expect(dynamics.Default.IsQuantity(xs[0])).To(BeTrue())
	})

	It("rejects bad input", func() {
		_, err := dynamics.Symbols("", 0)
		Expect(err).To(MatchError(dynamics.ErrInvalidArgument))
		_, err = dynamics.Symbols("q", -1)
		Expect(err).To(MatchError(dynamics.ErrInvalidArgument))
	})
})
