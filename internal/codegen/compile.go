package codegen

import (
	"fmt"
	"math"

	"github.com/san-kum/dynsym/internal/symbolic"
)

type frame struct {
	x, u, c []float64
	t       float64
}

type evalFunc func(f *frame) float64

// Evaluator computes a fixed list of expressions numerically. It holds no
// mutable state and is safe for concurrent use.
type Evaluator struct {
	fns []evalFunc
}

// Compile builds an Evaluator for exprs. Every symbol, applied function and
// derivative in exprs must have a slot in layout.
func Compile(exprs []symbolic.Expr, layout Layout) (*Evaluator, error) {
	slots := layout.slots()
	fns := make([]evalFunc, len(exprs))
	for i, e := range exprs {
		fn, err := compile(e, slots)
		if err != nil {
			return nil, fmt.Errorf("expression %d: %w", i, err)
		}
		fns[i] = fn
	}
	return &Evaluator{fns: fns}, nil
}

func (ev *Evaluator) Len() int { return len(ev.fns) }

// Eval writes the value of every expression into out, which must have
// length Len().
func (ev *Evaluator) Eval(x, u, c []float64, t float64, out []float64) {
	f := &frame{x: x, u: u, c: c, t: t}
	for i, fn := range ev.fns {
		out[i] = fn(f)
	}
}

// Scalar evaluates the first expression.
func (ev *Evaluator) Scalar(x, u, c []float64, t float64) float64 {
	return ev.fns[0](&frame{x: x, u: u, c: c, t: t})
}

func compile(e symbolic.Expr, slots map[string]slot) (evalFunc, error) {
	switch n := e.(type) {
	case *symbolic.Number:
		v := n.Float64()
		return func(*frame) float64 { return v }, nil
	case *symbolic.Symbol, *symbolic.Applied, *symbolic.Derivative:
		s, ok := slots[e.Key()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnbound, e)
		}
		i := s.index
		switch s.vec {
		case vecX:
			return func(f *frame) float64 { return f.x[i] }, nil
		case vecU:
			return func(f *frame) float64 { return f.u[i] }, nil
		case vecC:
			return func(f *frame) float64 { return f.c[i] }, nil
		}
		return func(f *frame) float64 { return f.t }, nil
	case *symbolic.Add:
		terms, err := compileAll(n.Terms(), slots)
		if err != nil {
			return nil, err
		}
		return func(f *frame) float64 {
			sum := 0.0
			for _, t := range terms {
				sum += t(f)
			}
			return sum
		}, nil
	case *symbolic.Mul:
		factors, err := compileAll(n.Factors(), slots)
		if err != nil {
			return nil, err
		}
		return func(f *frame) float64 {
			prod := 1.0
			for _, g := range factors {
				prod *= g(f)
			}
			return prod
		}, nil
	case *symbolic.Pow:
		return compilePow(n, slots)
	case *symbolic.Function:
		arg, err := compile(n.Arg(), slots)
		if err != nil {
			return nil, err
		}
		fn, ok := symbolic.Float64Func(n.Name())
		if !ok {
			return nil, fmt.Errorf("codegen: no numeric form for %s", n.Name())
		}
		return func(f *frame) float64 { return fn(arg(f)) }, nil
	}
	return nil, fmt.Errorf("codegen: cannot compile %s node", e.Kind())
}

func compileAll(es []symbolic.Expr, slots map[string]slot) ([]evalFunc, error) {
	out := make([]evalFunc, len(es))
	for i, e := range es {
		fn, err := compile(e, slots)
		if err != nil {
			return nil, err
		}
		out[i] = fn
	}
	return out, nil
}

func compilePow(p *symbolic.Pow, slots map[string]slot) (evalFunc, error) {
	base, err := compile(p.Base(), slots)
	if err != nil {
		return nil, err
	}
	if n, ok := p.Exponent().(*symbolic.Number); ok {
		switch n.String() {
		case "2":
			return func(f *frame) float64 { b := base(f); return b * b }, nil
		case "3":
			return func(f *frame) float64 { b := base(f); return b * b * b }, nil
		case "-1":
			return func(f *frame) float64 { return 1 / base(f) }, nil
		case "1/2":
			return func(f *frame) float64 { return math.Sqrt(base(f)) }, nil
		}
		e := n.Float64()
		return func(f *frame) float64 { return math.Pow(base(f), e) }, nil
	}
	exp, err := compile(p.Exponent(), slots)
	if err != nil {
		return nil, err
	}
	return func(f *frame) float64 { return math.Pow(base(f), exp(f)) }, nil
}
