package symbolic

import "errors"

// Domain errors for expression handling.
var (
	// ErrParse indicates source text that does not describe an expression.
	ErrParse = errors.New("symbolic: parse error")

	// ErrUnbound indicates a symbol or quantity with no numeric value.
	ErrUnbound = errors.New("symbolic: unbound quantity")

	// ErrDomain indicates a numeric evaluation outside a function's domain.
	ErrDomain = errors.New("symbolic: value outside function domain")
)

type Kind int

const (
	KindNumber Kind = iota
	KindSymbol
	KindAdd
	KindMul
	KindPow
	KindFunction
	KindApplied
	KindDerivative
)

var kindNames = [...]string{
	KindNumber:     "number",
	KindSymbol:     "symbol",
	KindAdd:        "add",
	KindMul:        "mul",
	KindPow:        "pow",
	KindFunction:   "function",
	KindApplied:    "applied",
	KindDerivative: "derivative",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Expr is a node of an expression tree.
//
// Key returns the canonical structural identity of the node. Two expressions
// are equal exactly when their keys are equal.
type Expr interface {
	Kind() Kind
	Args() []Expr
	Key() string
	String() string
	Subs(s Substitution) Expr
	Diff(v *Symbol) Expr
}

// IsNil reports whether e is nil or a nil pointer to one of the node types.
func IsNil(e Expr) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *Number:
		return n == nil
	case *Symbol:
		return n == nil
	case *Add:
		return n == nil
	case *Mul:
		return n == nil
	case *Pow:
		return n == nil
	case *Function:
		return n == nil
	case *Applied:
		return n == nil
	case *Derivative:
		return n == nil
	}
	return false
}

// Substitution maps expression keys to replacement expressions.
type Substitution map[string]Expr

// Bind records that old is replaced by repl and returns s for chaining.
func (s Substitution) Bind(old, repl Expr) Substitution {
	s[old.Key()] = repl
	return s
}

func (s Substitution) lookup(e Expr) (Expr, bool) {
	if len(s) == 0 {
		return nil, false
	}
	r, ok := s[e.Key()]
	return r, ok
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// Replace substitutes repl for every occurrence of old in e.
func Replace(e, old, repl Expr) Expr {
	return e.Subs(Substitution{}.Bind(old, repl))
}
