package symbolic

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math/big"
)

// Parse reads an expression written in Go expression syntax.
//
// Identifiers are symbols and calls to elementary function names build
// [Function] nodes. A few call forms are reserved:
//
//	diff(e, t)        first derivative of e, evaluated
//	diff(e, t, n)     n-th derivative of e, evaluated
//	Derivative(e, t)  unevaluated derivative node (optional order as well)
//	pow(a, b)         a raised to b
//	sqrt(a)           a raised to 1/2
//
// Any other call, such as x(t), is an undefined applied function.
func Parse(src string) (Expr, error) {
	node, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return convert(node)
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func convert(node ast.Expr) (Expr, error) {
	switch n := node.(type) {
	case *ast.ParenExpr:
		return convert(n.X)
	case *ast.Ident:
		return S(n.Name), nil
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, fmt.Errorf("%w: unsupported literal %s", ErrParse, n.Value)
		}
		r, ok := new(big.Rat).SetString(n.Value)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %s", ErrParse, n.Value)
		}
		return NRat(r), nil
	case *ast.UnaryExpr:
		x, err := convert(n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case token.SUB:
			return Neg(x), nil
		case token.ADD:
			return x, nil
		}
		return nil, fmt.Errorf("%w: unsupported operator %s", ErrParse, n.Op)
	case *ast.BinaryExpr:
		return convertBinary(n)
	case *ast.CallExpr:
		return convertCall(n)
	}
	return nil, fmt.Errorf("%w: unsupported syntax %T", ErrParse, node)
}

func convertBinary(n *ast.BinaryExpr) (Expr, error) {
	x, err := convert(n.X)
	if err != nil {
		return nil, err
	}
	y, err := convert(n.Y)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.ADD:
		return AddOf(x, y), nil
	case token.SUB:
		return Sub(x, y), nil
	case token.MUL:
		return MulOf(x, y), nil
	case token.QUO:
		if isZero(y) {
			return nil, fmt.Errorf("%w: division by zero", ErrParse)
		}
		return Div(x, y), nil
	case token.XOR:
		return nil, fmt.Errorf("%w: use pow(a, b) for powers", ErrParse)
	}
	return nil, fmt.Errorf("%w: unsupported operator %s", ErrParse, n.Op)
}

func convertCall(n *ast.CallExpr) (Expr, error) {
	ident, ok := n.Fun.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("%w: call target must be a name", ErrParse)
	}
	args := make([]Expr, len(n.Args))
	for i, a := range n.Args {
		e, err := convert(a)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}

	name := ident.Name
	switch {
	case name == "diff" || name == "Derivative":
		return convertDerivative(name, args)
	case name == "pow":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: pow takes 2 arguments", ErrParse)
		}
		return PowOf(args[0], args[1]), nil
	case name == "sqrt":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: sqrt takes 1 argument", ErrParse)
		}
		return SqrtOf(args[0]), nil
	case IsElementary(name):
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s takes 1 argument", ErrParse, name)
		}
		return FuncOf(name, args[0]), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %s() needs at least one argument", ErrParse, name)
	}
	return Apply(name, args...), nil
}

// MaxDerivativeOrder bounds the order accepted by diff and Derivative.
const MaxDerivativeOrder = 64

func convertDerivative(name string, args []Expr) (Expr, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("%w: %s takes an expression, a symbol and an optional order", ErrParse, name)
	}
	v, ok := args[1].(*Symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s variable must be a symbol, got %s", ErrParse, name, args[1])
	}
	order := 1
	if len(args) == 3 {
		num, ok := args[2].(*Number)
		if !ok {
			return nil, fmt.Errorf("%w: derivative order must be an integer", ErrParse)
		}
		o, ok := num.Int64()
		if !ok || o < 1 {
			return nil, fmt.Errorf("%w: derivative order must be a positive integer, got %s", ErrParse, num)
		}
		if o > MaxDerivativeOrder {
			return nil, fmt.Errorf("%w: derivative order %d exceeds %d", ErrParse, o, MaxDerivativeOrder)
		}
		order = int(o)
	}
	if name == "Derivative" {
		return Deriv(args[0], v, order), nil
	}
	switch args[0].(type) {
	case *Applied, *Derivative:
		// Both differentiate to a single unevaluated node.
		return Deriv(args[0], v, order), nil
	}
	return DiffN(args[0], v, order), nil
}
