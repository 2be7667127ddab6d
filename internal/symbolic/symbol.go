package symbolic

// Symbol is a named base symbol. Symbols with the same name are the same
// symbol.
type Symbol struct{ name string }

func S(name string) *Symbol { return &Symbol{name: name} }

func (s *Symbol) Kind() Kind     { return KindSymbol }
func (s *Symbol) Args() []Expr   { return nil }
func (s *Symbol) Key() string    { return "$" + s.name }
func (s *Symbol) String() string { return s.name }
func (s *Symbol) Name() string   { return s.name }

func (s *Symbol) Subs(sub Substitution) Expr {
	if r, ok := sub.lookup(s); ok {
		return r
	}
	return s
}

func (s *Symbol) Diff(v *Symbol) Expr {
	if s.name == v.name {
		return N(1)
	}
	return N(0)
}
