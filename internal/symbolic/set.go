package symbolic

import (
	"sort"
	"strings"
)

// Set is a set of expressions with structural equality. The zero value is an
// empty set ready to use; read methods also accept a nil *Set.
type Set struct {
	items map[string]Expr
}

func NewSet(items ...Expr) *Set {
	s := &Set{items: make(map[string]Expr, len(items))}
	for _, e := range items {
		s.Add(e)
	}
	return s
}

// Add inserts e and reports whether it was not already present.
func (s *Set) Add(e Expr) bool {
	if s.items == nil {
		s.items = map[string]Expr{}
	}
	k := e.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = e
	return true
}

func (s *Set) Remove(e Expr) {
	if s != nil && s.items != nil {
		delete(s.items, e.Key())
	}
}

func (s *Set) Has(e Expr) bool {
	if s == nil || e == nil {
		return false
	}
	_, ok := s.items[e.Key()]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the members ordered by key.
func (s *Set) Items() []Expr {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Expr, len(keys))
	for i, k := range keys {
		out[i] = s.items[k]
	}
	return out
}

// Quantities returns the members ordered by key. It lets a *Set be used
// wherever a collection of quantities is expected.
func (s *Set) Quantities() []Expr { return s.Items() }

func (s *Set) Clone() *Set {
	out := NewSet()
	if s != nil {
		for k, e := range s.items {
			out.items[k] = e
		}
	}
	return out
}

func (s *Set) Union(o *Set) *Set {
	out := s.Clone()
	if o != nil {
		for k, e := range o.items {
			out.items[k] = e
		}
	}
	return out
}

// Difference returns the members of s that are not in o.
func (s *Set) Difference(o *Set) *Set {
	out := NewSet()
	if s == nil {
		return out
	}
	for k, e := range s.items {
		if o != nil {
			if _, ok := o.items[k]; ok {
				continue
			}
		}
		out.items[k] = e
	}
	return out
}

func (s *Set) SubsetOf(o *Set) bool {
	if s == nil {
		return true
	}
	for k := range s.items {
		if o == nil {
			return false
		}
		if _, ok := o.items[k]; !ok {
			return false
		}
	}
	return true
}

func (s *Set) Equal(o *Set) bool {
	return s.Len() == o.Len() && s.SubsetOf(o)
}

func (s *Set) String() string {
	items := s.Items()
	parts := make([]string, len(items))
	for i, e := range items {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
