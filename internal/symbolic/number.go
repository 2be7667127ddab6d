package symbolic

import (
	"math"
	"math/big"
)

// Number is an exact rational constant.
type Number struct{ val *big.Rat }

func N(n int64) *Number { return &Number{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Number {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Number{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func NFloat(f float64) *Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic("symbolic: non-finite number")
	}
	return &Number{val: new(big.Rat).SetFloat64(f)}
}

func NRat(r *big.Rat) *Number { return &Number{val: new(big.Rat).Set(r)} }

func (n *Number) Kind() Kind             { return KindNumber }
func (n *Number) Args() []Expr           { return nil }
func (n *Number) Key() string            { return "#" + n.val.RatString() }
func (n *Number) Subs(Substitution) Expr { return n }
func (n *Number) Diff(*Symbol) Expr      { return N(0) }
func (n *Number) Rat() *big.Rat          { return new(big.Rat).Set(n.val) }
func (n *Number) Float64() float64       { f, _ := n.val.Float64(); return f }
func (n *Number) IsZero() bool           { return n.val.Sign() == 0 }
func (n *Number) IsOne() bool            { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Number) IsNegative() bool       { return n.val.Sign() < 0 }
func (n *Number) IsInteger() bool        { return n.val.IsInt() }

func (n *Number) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

// Int64 returns the value as an int64 when it is an integer that fits.
func (n *Number) Int64() (int64, bool) {
	if !n.val.IsInt() || !n.val.Num().IsInt64() {
		return 0, false
	}
	return n.val.Num().Int64(), true
}

func numAdd(a, b *Number) *Number { return &Number{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Number) *Number { return &Number{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Number) *Number    { return &Number{val: new(big.Rat).Neg(a.val)} }

// numPow raises a to an integer power. ok is false for 0 to a negative power.
func numPow(a *Number, e int64) (*Number, bool) {
	if e < 0 {
		if a.IsZero() {
			return nil, false
		}
		p, _ := numPow(a, -e)
		return &Number{val: new(big.Rat).Inv(p.val)}, true
	}
	num := new(big.Int).Exp(a.val.Num(), big.NewInt(e), nil)
	den := new(big.Int).Exp(a.val.Denom(), big.NewInt(e), nil)
	return &Number{val: new(big.Rat).SetFrac(num, den)}, true
}
