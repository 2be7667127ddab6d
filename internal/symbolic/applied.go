package symbolic

import "strings"

// Applied is an undefined function applied to arguments, such as x(t) or
// f(t, y). It has no known closed form; its derivatives stay symbolic.
type Applied struct {
	name string
	args []Expr
	key  string
}

// Apply returns the undefined function name applied to args.
func Apply(name string, args ...Expr) *Applied {
	if name == "" || len(args) == 0 {
		panic("symbolic: applied function needs a name and at least one argument")
	}
	args = append([]Expr(nil), args...)
	return &Applied{name: name, args: args, key: "@" + name + "(" + joinKeys(args) + ")"}
}

func (a *Applied) Kind() Kind   { return KindApplied }
func (a *Applied) Args() []Expr { return append([]Expr(nil), a.args...) }
func (a *Applied) Name() string { return a.name }
func (a *Applied) Key() string  { return a.key }

func (a *Applied) String() string {
	parts := make([]string, len(a.args))
	for i, arg := range a.args {
		parts[i] = arg.String()
	}
	return a.name + "(" + strings.Join(parts, ", ") + ")"
}

func (a *Applied) Subs(s Substitution) Expr {
	if r, ok := s.lookup(a); ok {
		return r
	}
	args := make([]Expr, len(a.args))
	for i, arg := range a.args {
		args[i] = arg.Subs(s)
	}
	return Apply(a.name, args...)
}

// Diff returns the unevaluated derivative node, or zero when v does not
// occur in the arguments.
func (a *Applied) Diff(v *Symbol) Expr {
	return Deriv(a, v, 1)
}
