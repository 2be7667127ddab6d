package dynamics

import (
	"fmt"

	"github.com/san-kum/dynsym/internal/symbolic"
)

// Collection is a finite collection of quantities. *symbolic.Set and List
// both satisfy it.
type Collection interface {
	Quantities() []symbolic.Expr
}

// List is a Collection backed by a slice.
type List []symbolic.Expr

func (l List) Quantities() []symbolic.Expr { return l }

// Exclusions converts v into a Collection. It accepts nil, a Collection,
// []symbolic.Expr, []*symbolic.Applied, []*symbolic.Derivative and
// []*symbolic.Symbol; anything else fails with an *ArgumentError.
func Exclusions(v any) (Collection, error) {
	switch c := v.(type) {
	case nil:
		return List(nil), nil
	case Collection:
		return c, nil
	case []symbolic.Expr:
		return List(c), nil
	case []*symbolic.Applied:
		return listOf(c)
	case []*symbolic.Derivative:
		return listOf(c)
	case []*symbolic.Symbol:
		return listOf(c)
	}
	return nil, &ArgumentError{
		Arg:    "exclude",
		Reason: fmt.Sprintf("%T is not a collection of quantities", v),
	}
}

func listOf[E symbolic.Expr](c []E) (List, error) {
	l := make(List, len(c))
	for i, q := range c {
		if symbolic.IsNil(q) {
			return nil, &ArgumentError{Arg: "exclude", Reason: fmt.Sprintf("member %d is nil", i)}
		}
		l[i] = q
	}
	return l, nil
}

func toSet(c Collection) (*symbolic.Set, error) {
	out := symbolic.NewSet()
	if c == nil {
		return out, nil
	}
	for i, q := range c.Quantities() {
		if symbolic.IsNil(q) {
			return nil, &ArgumentError{Arg: "exclude", Reason: fmt.Sprintf("member %d is nil", i)}
		}
		out.Add(q)
	}
	return out, nil
}
