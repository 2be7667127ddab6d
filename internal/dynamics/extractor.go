package dynamics

import (
	"github.com/san-kum/dynsym/internal/symbolic"
)

// TimeName is the name of the default time symbol.
const TimeName = "t"

var defaultTime = symbolic.S(TimeName)

// Time returns the default time symbol.
func Time() *symbolic.Symbol { return defaultTime }

// Extractor finds time-varying quantities with respect to one time symbol.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	time *symbolic.Symbol
}

// New returns an Extractor for the given time symbol. A nil time selects
// the default.
func New(time *symbolic.Symbol) *Extractor {
	if time == nil {
		time = defaultTime
	}
	return &Extractor{time: time}
}

// Default extracts with respect to Time().
var Default = New(nil)

func (x *Extractor) Time() *symbolic.Symbol { return x.time }

// IsQuantity reports whether e is itself a time-varying quantity: an applied
// function or derivative whose free symbols are exactly {time}.
func (x *Extractor) IsQuantity(e symbolic.Expr) bool {
	if symbolic.IsNil(e) {
		return false
	}
	if k := e.Kind(); k != symbolic.KindApplied && k != symbolic.KindDerivative {
		return false
	}
	free := symbolic.FreeSymbols(e)
	return free.Len() == 1 && free.Has(x.time)
}

// Find returns the time-varying quantities of expr that are not in exclude.
// exclude may be nil. A nil expr, including a nil node pointer, fails with
// an *ArgumentError.
func (x *Extractor) Find(expr symbolic.Expr, exclude Collection) (*symbolic.Set, error) {
	if symbolic.IsNil(expr) {
		return nil, &ArgumentError{Arg: "expr", Reason: "nil expression"}
	}
	return x.FindAll([]symbolic.Expr{expr}, exclude)
}

// FindAll is Find over several expressions; the result is the union.
func (x *Extractor) FindAll(exprs []symbolic.Expr, exclude Collection) (*symbolic.Set, error) {
	excluded, err := toSet(exclude)
	if err != nil {
		return nil, err
	}
	found := symbolic.NewSet()
	for _, expr := range exprs {
		if symbolic.IsNil(expr) {
			return nil, &ArgumentError{Arg: "expr", Reason: "nil expression"}
		}
		for _, node := range symbolic.Atoms(expr, symbolic.KindApplied, symbolic.KindDerivative).Items() {
			if x.IsQuantity(node) {
				found.Add(node)
			}
		}
	}
	return found.Difference(excluded), nil
}

// Find runs the Default extractor.
func Find(expr symbolic.Expr, exclude Collection) (*symbolic.Set, error) {
	return Default.Find(expr, exclude)
}
