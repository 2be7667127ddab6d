package symbolic

import "strings"

// Mul is a canonical product. A numeric coefficient other than one comes
// first; the remaining factors have distinct bases and are sorted by key.
type Mul struct {
	factors []Expr
	key     string
}

func newMul(factors []Expr) *Mul {
	return &Mul{factors: factors, key: "*(" + joinKeys(factors) + ")"}
}

// MulOf returns the canonical product of factors.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coeff := N(1)
	exps := map[string][]Expr{}
	bases := map[string]Expr{}
	order := []string{}
	for _, f := range flat {
		if n, ok := f.(*Number); ok {
			coeff = numMul(coeff, n)
			continue
		}
		base, exp := Expr(f), Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		k := base.Key()
		if _, seen := bases[k]; !seen {
			order = append(order, k)
			bases[k] = base
		}
		exps[k] = append(exps[k], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	for _, k := range order {
		exp := AddOf(exps[k]...)
		if n, ok := exp.(*Number); ok && n.IsZero() {
			continue
		}
		f := PowOf(bases[k], exp)
		if n, ok := f.(*Number); ok {
			coeff = numMul(coeff, n)
			continue
		}
		if inner, ok := f.(*Mul); ok {
			c, rest := splitCoeff(inner)
			coeff = numMul(coeff, c)
			if m, ok := rest.(*Mul); ok {
				others = append(others, m.factors...)
			} else {
				others = append(others, rest)
			}
			continue
		}
		others = append(others, f)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}
	sortByKey(others)
	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return newMul(others)
	}
	return newMul(append([]Expr{coeff}, others...))
}

// Div returns a/b as a*b^-1.
func Div(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

func (m *Mul) Kind() Kind      { return KindMul }
func (m *Mul) Args() []Expr    { return append([]Expr(nil), m.factors...) }
func (m *Mul) Factors() []Expr { return m.Args() }
func (m *Mul) Key() string     { return m.key }

func (m *Mul) String() string {
	factors := m.factors
	prefix := ""
	if c, ok := factors[0].(*Number); ok && c.IsInteger() && c.Float64() == -1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		if f.Kind() == KindAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) Subs(s Substitution) Expr {
	if r, ok := s.lookup(m); ok {
		return r
	}
	factors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		factors[i] = f.Subs(s)
	}
	return MulOf(factors...)
}

// Diff applies the product rule.
func (m *Mul) Diff(v *Symbol) Expr {
	terms := make([]Expr, 0, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(v)
		if n, ok := dfi.(*Number); ok && n.IsZero() {
			continue
		}
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms = append(terms, MulOf(others...))
	}
	return AddOf(terms...)
}
