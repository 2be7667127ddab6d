package codegen

import (
	"errors"
	"fmt"

	"github.com/san-kum/dynsym/internal/symbolic"
)

// ErrUnbound indicates a leaf that has no slot in the layout.
var ErrUnbound = errors.New("codegen: quantity not in layout")

// Layout maps the leaves of an expression onto the evaluation vectors.
type Layout struct {
	Time       *symbolic.Symbol
	States     []symbolic.Expr
	Specifieds []symbolic.Expr
	Constants  []*symbolic.Symbol
}

type vector int

const (
	vecX vector = iota
	vecU
	vecC
	vecT
)

type slot struct {
	vec   vector
	index int
}

func (s slot) goExpr() string {
	switch s.vec {
	case vecX:
		return fmt.Sprintf("x[%d]", s.index)
	case vecU:
		return fmt.Sprintf("u[%d]", s.index)
	case vecC:
		return fmt.Sprintf("c[%d]", s.index)
	}
	return "t"
}

func (l Layout) slots() map[string]slot {
	m := make(map[string]slot, len(l.States)+len(l.Specifieds)+len(l.Constants)+1)
	if l.Time != nil {
		m[l.Time.Key()] = slot{vec: vecT}
	}
	for i, c := range l.Constants {
		m[c.Key()] = slot{vecC, i}
	}
	for i, u := range l.Specifieds {
		m[u.Key()] = slot{vecU, i}
	}
	for i, x := range l.States {
		m[x.Key()] = slot{vecX, i}
	}
	return m
}

func names(es []symbolic.Expr) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.String()
	}
	return out
}
