package symbolic

// Walk visits e and its sub-expressions in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	for _, a := range e.Args() {
		Walk(a, fn)
	}
}

// FreeSymbols returns the base symbols that occur in e. Derivative nodes are
// built so that their variable always occurs in the differentiated
// expression, so a derivative that would vanish has no symbols at all.
func FreeSymbols(e Expr) *Set {
	out := NewSet()
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out *Set) {
	switch v := e.(type) {
	case *Symbol:
		out.Add(v)
	case *Number:
	case *Derivative:
		collectSymbols(v.expr, out)
	default:
		for _, a := range e.Args() {
			collectSymbols(a, out)
		}
	}
}

// Atoms returns every distinct sub-expression of e, at any depth, whose kind
// is one of kinds. With no kinds it returns the leaves (numbers and symbols).
func Atoms(e Expr, kinds ...Kind) *Set {
	want := map[Kind]bool{}
	for _, k := range kinds {
		want[k] = true
	}
	if len(kinds) == 0 {
		want[KindNumber] = true
		want[KindSymbol] = true
	}

	out := NewSet()
	seen := map[string]bool{}
	Walk(e, func(n Expr) bool {
		k := n.Key()
		if seen[k] {
			return false
		}
		seen[k] = true
		if want[n.Kind()] {
			out.Add(n)
		}
		return true
	})
	return out
}

// Has reports whether sub occurs anywhere in e.
func Has(e, sub Expr) bool {
	target := sub.Key()
	found := false
	Walk(e, func(n Expr) bool {
		if found {
			return false
		}
		if n.Key() == target {
			found = true
			return false
		}
		return true
	})
	return found
}
