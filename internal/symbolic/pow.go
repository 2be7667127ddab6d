package symbolic

// Pow is base raised to exp.
type Pow struct {
	base, exp Expr
	key       string
}

// maxExactPower bounds exact folding of integer powers of numbers.
const maxExactPower = 64

// PowOf returns the canonical power base^exp.
func PowOf(base, exp Expr) Expr {
	en, expIsNum := exp.(*Number)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}
	if bn, ok := base.(*Number); ok {
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum {
			if e, ok := en.Int64(); ok && e >= -maxExactPower && e <= maxExactPower {
				if r, ok := numPow(bn, e); ok {
					return r
				}
			}
		}
	}
	if inner, ok := base.(*Pow); ok && expIsNum && en.IsInteger() {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp, key: "^(" + base.Key() + "," + exp.Key() + ")"}
}

func SqrtOf(e Expr) Expr { return PowOf(e, F(1, 2)) }

func (p *Pow) Kind() Kind     { return KindPow }
func (p *Pow) Args() []Expr   { return []Expr{p.base, p.exp} }
func (p *Pow) Base() Expr     { return p.base }
func (p *Pow) Exponent() Expr { return p.exp }
func (p *Pow) Key() string    { return p.key }

func (p *Pow) String() string {
	base := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		base = "(" + base + ")"
	case *Number:
		if b.IsNegative() || !b.IsInteger() {
			base = "(" + base + ")"
		}
	}
	exp := p.exp.String()
	switch e := p.exp.(type) {
	case *Symbol:
	case *Number:
		if e.IsNegative() || !e.IsInteger() {
			exp = "(" + exp + ")"
		}
	default:
		exp = "(" + exp + ")"
	}
	return base + "^" + exp
}

func (p *Pow) Subs(s Substitution) Expr {
	if r, ok := s.lookup(p); ok {
		return r
	}
	return PowOf(p.base.Subs(s), p.exp.Subs(s))
}

func (p *Pow) Diff(v *Symbol) Expr {
	du := p.base.Diff(v)
	dv := p.exp.Diff(v)
	if isZero(dv) {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if isZero(du) {
		return MulOf(p, LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(p, AddOf(logTerm, divTerm))
}

func isZero(e Expr) bool {
	n, ok := e.(*Number)
	return ok && n.IsZero()
}
