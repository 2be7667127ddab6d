package symbolic

import "strconv"

// Derivative is the unevaluated order-th derivative of expr with respect to
// v. Order is always at least one and v always occurs free in expr.
type Derivative struct {
	expr  Expr
	v     *Symbol
	order int
	key   string
}

func newDerivative(e Expr, v *Symbol, order int) *Derivative {
	return &Derivative{
		expr:  e,
		v:     v,
		order: order,
		key:   "d(" + e.Key() + "," + v.Key() + "," + strconv.Itoa(order) + ")",
	}
}

// Deriv builds the derivative node d^order(e)/dv^order without evaluating it.
//
// The result is zero when v is not free in e, and nested derivatives with
// respect to the same variable collapse into one node of summed order.
func Deriv(e Expr, v *Symbol, order int) Expr {
	if order < 0 {
		panic("symbolic: negative derivative order")
	}
	if order == 0 {
		return e
	}
	if !FreeSymbols(e).Has(v) {
		return N(0)
	}
	if inner, ok := e.(*Derivative); ok && inner.v.name == v.name {
		return newDerivative(inner.expr, v, inner.order+order)
	}
	return newDerivative(e, v, order)
}

// Diff evaluates the first derivative of e with respect to v.
func Diff(e Expr, v *Symbol) Expr { return e.Diff(v) }

// DiffN evaluates the n-th derivative of e with respect to v.
func DiffN(e Expr, v *Symbol, n int) Expr {
	for i := 0; i < n; i++ {
		e = e.Diff(v)
	}
	return e
}

func (d *Derivative) Kind() Kind   { return KindDerivative }
func (d *Derivative) Args() []Expr { return []Expr{d.expr, d.v} }
func (d *Derivative) Expr() Expr   { return d.expr }
func (d *Derivative) Var() *Symbol { return d.v }
func (d *Derivative) Order() int   { return d.order }

func (d *Derivative) Key() string { return d.key }

func (d *Derivative) String() string {
	if d.order == 1 {
		return "diff(" + d.expr.String() + ", " + d.v.name + ")"
	}
	return "diff(" + d.expr.String() + ", " + d.v.name + ", " + strconv.Itoa(d.order) + ")"
}

// Base returns the innermost expression being differentiated, looking
// through nested derivative nodes.
func (d *Derivative) Base() Expr {
	var e Expr = d
	for {
		inner, ok := e.(*Derivative)
		if !ok {
			return e
		}
		e = inner.expr
	}
}

func (d *Derivative) Subs(s Substitution) Expr {
	if r, ok := s.lookup(d); ok {
		return r
	}
	return Deriv(d.expr.Subs(s), d.v, d.order)
}

func (d *Derivative) Diff(v *Symbol) Expr {
	if v.name == d.v.name {
		return Deriv(d.expr, d.v, d.order+1)
	}
	return Deriv(d, v, 1)
}
