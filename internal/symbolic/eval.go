package symbolic

import (
	"fmt"
	"math"
)

// Env supplies numeric values for the leaves of an expression: symbols,
// applied functions and derivative nodes.
type Env interface {
	Lookup(e Expr) (float64, bool)
}

// MapEnv is an Env keyed by expression key.
type MapEnv map[string]float64

func (m MapEnv) Lookup(e Expr) (float64, bool) {
	v, ok := m[e.Key()]
	return v, ok
}

// Bind records the value of e and returns m for chaining.
func (m MapEnv) Bind(e Expr, v float64) MapEnv {
	m[e.Key()] = v
	return m
}

// Eval evaluates e numerically against env.
func Eval(e Expr, env Env) (float64, error) {
	switch v := e.(type) {
	case *Number:
		return v.Float64(), nil
	case *Symbol, *Applied, *Derivative:
		if env != nil {
			if x, ok := env.Lookup(e); ok {
				return x, nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrUnbound, e)
	case *Add:
		sum := 0.0
		for _, t := range v.terms {
			x, err := Eval(t, env)
			if err != nil {
				return 0, err
			}
			sum += x
		}
		return sum, nil
	case *Mul:
		prod := 1.0
		for _, f := range v.factors {
			x, err := Eval(f, env)
			if err != nil {
				return 0, err
			}
			prod *= x
		}
		return prod, nil
	case *Pow:
		b, err := Eval(v.base, env)
		if err != nil {
			return 0, err
		}
		x, err := Eval(v.exp, env)
		if err != nil {
			return 0, err
		}
		return checkDomain(e, math.Pow(b, x))
	case *Function:
		x, err := Eval(v.arg, env)
		if err != nil {
			return 0, err
		}
		fn, ok := Float64Func(v.name)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrDomain, v.name)
		}
		return checkDomain(e, fn(x))
	}
	return 0, fmt.Errorf("%w: cannot evaluate %T", ErrDomain, e)
}

// Float64Func returns the float64 implementation of an elementary function.
func Float64Func(name string) (func(float64) float64, bool) {
	switch name {
	case "sin":
		return math.Sin, true
	case "cos":
		return math.Cos, true
	case "tan":
		return math.Tan, true
	case "asin":
		return math.Asin, true
	case "acos":
		return math.Acos, true
	case "atan":
		return math.Atan, true
	case "sinh":
		return math.Sinh, true
	case "cosh":
		return math.Cosh, true
	case "tanh":
		return math.Tanh, true
	case "exp":
		return math.Exp, true
	case "log":
		return math.Log, true
	}
	return nil, false
}

func checkDomain(e Expr, x float64) (float64, error) {
	if math.IsNaN(x) {
		return 0, fmt.Errorf("%w: %s", ErrDomain, e)
	}
	return x, nil
}
