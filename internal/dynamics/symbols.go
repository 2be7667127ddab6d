package dynamics

import (
	"strings"

	"github.com/san-kum/dynsym/internal/symbolic"
)

// Symbols builds functions of time from a comma or space separated list of
// names. With level > 0 the level-th time derivative of each is returned
// instead.
func (x *Extractor) Symbols(names string, level int) ([]symbolic.Expr, error) {
	if level < 0 {
		return nil, &ArgumentError{Arg: "level", Reason: "must not be negative"}
	}
	fields := strings.FieldsFunc(names, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) == 0 {
		return nil, &ArgumentError{Arg: "names", Reason: "no names given"}
	}
	out := make([]symbolic.Expr, len(fields))
	for i, name := range fields {
		out[i] = symbolic.Deriv(symbolic.Apply(name, x.time), x.time, level)
	}
	return out, nil
}

// Symbols runs the Default extractor.
func Symbols(names string, level int) ([]symbolic.Expr, error) {
	return Default.Symbols(names, level)
}

// MustSymbols is like Symbols but panics on error.
func MustSymbols(names string, level int) []symbolic.Expr {
	out, err := Symbols(names, level)
	if err != nil {
		panic(err)
	}
	return out
}
