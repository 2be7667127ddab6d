package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"

	"github.com/san-kum/dynsym/internal/symbolic"
	"github.com/san-kum/dynsym/internal/textfmt"
)

const (
	precAdd = iota + 1
	precMul
	precUnary
	precAtom
)

// Source describes a generated function.
type Source struct {
	Package  string
	Func     string
	Model    string
	RHS      []symbolic.Expr
	Layout   Layout
	Comments []string
}

// GenerateGo emits gofmt-formatted Go source for a function
//
//	func Name(x, u, c []float64, t float64, out []float64)
//
// that writes src.RHS into out.
func GenerateGo(src Source) ([]byte, error) {
	if !token.IsIdentifier(src.Func) || !token.IsExported(src.Func) {
		return nil, fmt.Errorf("codegen: %q is not an exported Go identifier", src.Func)
	}
	pkg := src.Package
	if pkg == "" {
		pkg = "model"
	}
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("codegen: %q is not a package name", pkg)
	}

	p := &printer{slots: src.Layout.slots()}
	body := make([]string, len(src.RHS))
	for i, e := range src.RHS {
		s, err := p.expr(e)
		if err != nil {
			return nil, fmt.Errorf("rhs %d: %w", i, err)
		}
		body[i] = fmt.Sprintf("out[%d] = %s", i, s)
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by dynsym codegen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	if p.usesMath {
		buf.WriteString("import \"math\"\n\n")
	}
	prev := ""
	for _, line := range strings.Split(docBlock(src), "\n") {
		line = strings.TrimRight("//"+line, " ")
		if line == "//" && prev == "//" {
			continue
		}
		buf.WriteString(line + "\n")
		prev = line
	}
	fmt.Fprintf(&buf, "func %s(x, u, c []float64, t float64, out []float64) {\n", src.Func)
	for _, line := range body {
		buf.WriteString(line + "\n")
	}
	buf.WriteString("}\n")

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: format generated source: %w", err)
	}
	return out, nil
}

func docBlock(src Source) string {
	name := src.Model
	if name == "" {
		name = "the model"
	}
	lines := []string{
		fmt.Sprintf("%s evaluates the right-hand side of %s.", src.Func, name),
		"\n",
		"x: " + strings.Join(names(src.Layout.States), ", "),
	}
	if len(src.Layout.Specifieds) > 0 {
		lines = append(lines, "u: "+strings.Join(names(src.Layout.Specifieds), ", "))
	}
	if len(src.Layout.Constants) > 0 {
		cs := make([]string, len(src.Layout.Constants))
		for i, c := range src.Layout.Constants {
			cs[i] = c.Name()
		}
		lines = append(lines, "c: "+strings.Join(cs, ", "))
	}
	if len(src.Comments) > 0 {
		lines = append(lines, "\n")
		lines = append(lines, src.Comments...)
	}
	return textfmt.WrapAndIndent(lines, 1, 77)
}

type printer struct {
	slots    map[string]slot
	usesMath bool
}

func (p *printer) expr(e symbolic.Expr) (string, error) {
	s, _, err := p.print(e)
	return s, err
}

func (p *printer) wrap(e symbolic.Expr, min int) (string, error) {
	s, prec, err := p.print(e)
	if err != nil {
		return "", err
	}
	if prec < min {
		return "(" + s + ")", nil
	}
	return s, nil
}

func (p *printer) print(e symbolic.Expr) (string, int, error) {
	switch n := e.(type) {
	case *symbolic.Number:
		s := strconv.FormatFloat(n.Float64(), 'g', -1, 64)
		if !n.IsInteger() && !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		if n.IsNegative() {
			return s, precUnary, nil
		}
		return s, precAtom, nil
	case *symbolic.Symbol, *symbolic.Applied, *symbolic.Derivative:
		s, ok := p.slots[e.Key()]
		if !ok {
			return "", 0, fmt.Errorf("%w: %s", ErrUnbound, e)
		}
		return s.goExpr(), precAtom, nil
	case *symbolic.Add:
		var b strings.Builder
		for i, t := range n.Terms() {
			if i > 0 && isNegative(t) {
				s, err := p.wrap(symbolic.Neg(t), precMul)
				if err != nil {
					return "", 0, err
				}
				b.WriteString(" - " + s)
				continue
			}
			s, err := p.wrap(t, precAdd)
			if err != nil {
				return "", 0, err
			}
			if i > 0 {
				b.WriteString(" + ")
			}
			b.WriteString(s)
		}
		return b.String(), precAdd, nil
	case *symbolic.Mul:
		factors := n.Factors()
		prefix := ""
		if c, ok := factors[0].(*symbolic.Number); ok && c.String() == "-1" {
			prefix = "-"
			factors = factors[1:]
		}
		var num, den []string
		for _, f := range factors {
			if pw, ok := f.(*symbolic.Pow); ok && isNegative(pw.Exponent()) {
				s, err := p.wrap(symbolic.PowOf(pw.Base(), symbolic.Neg(pw.Exponent())), precAtom)
				if err != nil {
					return "", 0, err
				}
				den = append(den, s)
				continue
			}
			s, err := p.wrap(f, precMul)
			if err != nil {
				return "", 0, err
			}
			num = append(num, s)
		}
		s := strings.Join(num, "*")
		if len(num) == 0 {
			s = "1"
		}
		for _, d := range den {
			s += "/" + d
		}
		if prefix != "" {
			return prefix + s, precUnary, nil
		}
		return s, precMul, nil
	case *symbolic.Pow:
		return p.pow(n)
	case *symbolic.Function:
		arg, err := p.expr(n.Arg())
		if err != nil {
			return "", 0, err
		}
		p.usesMath = true
		name := n.Name()
		return "math." + strings.ToUpper(name[:1]) + name[1:] + "(" + arg + ")", precAtom, nil
	}
	return "", 0, fmt.Errorf("codegen: cannot print %s node", e.Kind())
}

func (p *printer) pow(n *symbolic.Pow) (string, int, error) {
	if e, ok := n.Exponent().(*symbolic.Number); ok {
		switch e.String() {
		case "2":
			b, err := p.wrap(n.Base(), precAtom)
			if err != nil {
				return "", 0, err
			}
			return b + "*" + b, precMul, nil
		case "-1":
			b, err := p.wrap(n.Base(), precAtom)
			if err != nil {
				return "", 0, err
			}
			return "1/" + b, precMul, nil
		case "1/2":
			b, err := p.expr(n.Base())
			if err != nil {
				return "", 0, err
			}
			p.usesMath = true
			return "math.Sqrt(" + b + ")", precAtom, nil
		}
	}
	b, err := p.expr(n.Base())
	if err != nil {
		return "", 0, err
	}
	x, err := p.expr(n.Exponent())
	if err != nil {
		return "", 0, err
	}
	p.usesMath = true
	return "math.Pow(" + b + ", " + x + ")", precAtom, nil
}

func isNegative(e symbolic.Expr) bool {
	switch v := e.(type) {
	case *symbolic.Number:
		return v.IsNegative()
	case *symbolic.Mul:
		c, ok := v.Factors()[0].(*symbolic.Number)
		return ok && c.IsNegative()
	}
	return false
}
