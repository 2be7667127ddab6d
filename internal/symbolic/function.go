package symbolic

// Function is an elementary function of one argument.
type Function struct {
	name string
	arg  Expr
	key  string
}

var elementary = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"exp": true, "log": true,
}

// IsElementary reports whether name is a built-in elementary function.
func IsElementary(name string) bool { return elementary[name] }

// FuncOf applies the elementary function name to arg. It panics for names
// that are not elementary; use [Apply] for undefined functions.
func FuncOf(name string, arg Expr) Expr {
	if !elementary[name] {
		panic("symbolic: unknown elementary function " + name)
	}
	if n, ok := arg.(*Number); ok {
		switch {
		case n.IsZero() && (name == "sin" || name == "tan" || name == "asin" ||
			name == "atan" || name == "sinh" || name == "tanh"):
			return N(0)
		case n.IsZero() && (name == "cos" || name == "cosh" || name == "exp"):
			return N(1)
		case n.IsOne() && name == "log":
			return N(0)
		}
	}
	if inner, ok := arg.(*Function); ok {
		if name == "log" && inner.name == "exp" || name == "exp" && inner.name == "log" {
			return inner.arg
		}
	}
	return &Function{name: name, arg: arg, key: "fn:" + name + "(" + arg.Key() + ")"}
}

func SinOf(e Expr) Expr  { return FuncOf("sin", e) }
func CosOf(e Expr) Expr  { return FuncOf("cos", e) }
func TanOf(e Expr) Expr  { return FuncOf("tan", e) }
func ExpOf(e Expr) Expr  { return FuncOf("exp", e) }
func LogOf(e Expr) Expr  { return FuncOf("log", e) }
func AsinOf(e Expr) Expr { return FuncOf("asin", e) }
func AcosOf(e Expr) Expr { return FuncOf("acos", e) }
func AtanOf(e Expr) Expr { return FuncOf("atan", e) }
func SinhOf(e Expr) Expr { return FuncOf("sinh", e) }
func CoshOf(e Expr) Expr { return FuncOf("cosh", e) }
func TanhOf(e Expr) Expr { return FuncOf("tanh", e) }

func (f *Function) Kind() Kind     { return KindFunction }
func (f *Function) Args() []Expr   { return []Expr{f.arg} }
func (f *Function) Name() string   { return f.name }
func (f *Function) Arg() Expr      { return f.arg }
func (f *Function) Key() string    { return f.key }
func (f *Function) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Function) Subs(s Substitution) Expr {
	if r, ok := s.lookup(f); ok {
		return r
	}
	return FuncOf(f.name, f.arg.Subs(s))
}

// Diff applies the chain rule.
func (f *Function) Diff(v *Symbol) Expr {
	du := f.arg.Diff(v)
	if isZero(du) {
		return N(0)
	}
	u := f.arg
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(u)
	case "cos":
		outer = Neg(SinOf(u))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(u), N(2)))
	case "exp":
		outer = f
	case "log":
		outer = PowOf(u, N(-1))
	case "asin":
		outer = PowOf(Sub(N(1), PowOf(u, N(2))), F(-1, 2))
	case "acos":
		outer = Neg(PowOf(Sub(N(1), PowOf(u, N(2))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(u)
	case "cosh":
		outer = SinhOf(u)
	case "tanh":
		outer = Sub(N(1), PowOf(TanhOf(u), N(2)))
	}
	return MulOf(outer, du)
}
