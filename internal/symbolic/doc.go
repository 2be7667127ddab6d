// Package symbolic provides the expression trees that dynsym builds equations
// of motion from.
//
// Expressions are immutable and canonical: constructors such as [AddOf],
// [MulOf] and [PowOf] flatten nested operands, fold numbers, collect like
// terms and sort operands by their structural key. Two independently built
// expressions that represent the same quantity therefore have equal [Expr.Key]
// values, which is what [Set] hashes on.
//
// Node kinds:
//
//   - [Number]: exact rational constant
//   - [Symbol]: named base symbol
//   - [Add], [Mul], [Pow]: arithmetic containers
//   - [Function]: elementary functions (sin, cos, exp, ...)
//   - [Applied]: an undefined function applied to arguments, e.g. x(t)
//   - [Derivative]: an unevaluated derivative of some order
//
// # Example
//
//	t := symbolic.S("t")
//	x := symbolic.Apply("x", t)
//	e := symbolic.AddOf(x, symbolic.MulOf(symbolic.Diff(x, t), symbolic.S("k")))
//	symbolic.Atoms(e, symbolic.KindApplied, symbolic.KindDerivative)
//	// {x(t), diff(x(t), t)}
package symbolic
