package symbolic

import (
	"sort"
	"strings"
)

// Add is a canonical sum. Non-constant terms are sorted by key and the
// numeric constant, if any, comes last.
type Add struct {
	terms []Expr
	key   string
}

func newAdd(terms []Expr) *Add {
	return &Add{terms: terms, key: "+(" + joinKeys(terms) + ")"}
}

// AddOf returns the canonical sum of terms.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	constant := N(0)
	coeffs := map[string]*Number{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if n, ok := t.(*Number); ok {
			constant = numAdd(constant, n)
			continue
		}
		c, rest := splitCoeff(t)
		k := rest.Key()
		if _, seen := coeffs[k]; !seen {
			order = append(order, k)
			coeffs[k] = N(0)
			rests[k] = rest
		}
		coeffs[k] = numAdd(coeffs[k], c)
	}

	result := make([]Expr, 0, len(order)+1)
	for _, k := range order {
		c := coeffs[k]
		switch {
		case c.IsZero():
		case c.IsOne():
			result = append(result, rests[k])
		default:
			result = append(result, withCoeff(c, rests[k]))
		}
	}
	sortByKey(result)
	if !constant.IsZero() {
		result = append(result, constant)
	}

	switch len(result) {
	case 0:
		return N(0)
	case 1:
		return result[0]
	}
	return newAdd(result)
}

func Neg(e Expr) Expr    { return MulOf(N(-1), e) }
func Sub(a, b Expr) Expr { return AddOf(a, Neg(b)) }

func (a *Add) Kind() Kind    { return KindAdd }
func (a *Add) Args() []Expr  { return append([]Expr(nil), a.terms...) }
func (a *Add) Terms() []Expr { return a.Args() }
func (a *Add) Key() string   { return a.key }

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			b.WriteString(t.String())
			continue
		}
		if pos, neg := negated(t); neg {
			b.WriteString(" - ")
			b.WriteString(pos.String())
			continue
		}
		b.WriteString(" + ")
		b.WriteString(t.String())
	}
	return b.String()
}

func (a *Add) Subs(s Substitution) Expr {
	if r, ok := s.lookup(a); ok {
		return r
	}
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Subs(s)
	}
	return AddOf(terms...)
}

func (a *Add) Diff(v *Symbol) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Diff(v)
	}
	return AddOf(terms...)
}

// splitCoeff separates the numeric coefficient of a term from the rest.
func splitCoeff(e Expr) (*Number, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return N(1), e
	}
	c, ok := m.factors[0].(*Number)
	if !ok {
		return N(1), e
	}
	if len(m.factors) == 2 {
		return c, m.factors[1]
	}
	return c, newMul(append([]Expr(nil), m.factors[1:]...))
}

// withCoeff rebuilds a canonical product from a coefficient and a
// coefficient-free rest.
func withCoeff(c *Number, rest Expr) Expr {
	if m, ok := rest.(*Mul); ok {
		return newMul(append([]Expr{c}, m.factors...))
	}
	return newMul([]Expr{c, rest})
}

// negated reports whether e carries a negative leading coefficient and
// returns its positive counterpart.
func negated(e Expr) (Expr, bool) {
	switch v := e.(type) {
	case *Number:
		if v.IsNegative() {
			return numNeg(v), true
		}
	case *Mul:
		c, rest := splitCoeff(v)
		if c.IsNegative() {
			pos := numNeg(c)
			if pos.IsOne() {
				return rest, true
			}
			return withCoeff(pos, rest), true
		}
	}
	return e, false
}

func sortByKey(es []Expr) {
	keys := make(map[Expr]string, len(es))
	for _, e := range es {
		keys[e] = e.Key()
	}
	sort.SliceStable(es, func(i, j int) bool { return keys[es[i]] < keys[es[j]] })
}

func joinKeys(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Key()
	}
	return strings.Join(parts, ",")
}
