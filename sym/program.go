package sym

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Programs — compiled plot expressions
// ============================================================

const (
	AxisX = "x"
	AxisY = "y"
)

// Options controls compilation.
type Options struct {
	// Prec is the mantissa precision, in bits, of substituted axis values.
	// Zero and values of 53 or more keep full float64 precision.
	Prec uint
}

// Variable is a named definition available to every plot in a source text.
type Variable struct {
	Name  string
	Value Expr
}

// ParseVariable parses "name=expr".
func ParseVariable(def string) (Variable, error) {
	name, body, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Variable{}, &ParseError{Pos: 0, Msg: fmt.Sprintf("not a definition: %q", def)}
	}
	if name == AxisX || name == AxisY || IsFunction(name) {
		return Variable{}, &ParseError{Pos: 0, Msg: fmt.Sprintf("cannot redefine %q", name)}
	}
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return Variable{}, &ParseError{Pos: 0, Msg: fmt.Sprintf("bad variable name %q", name)}
		}
	}
	e, err := Parse(body)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Pos += len(def) - len(body)
		}
		return Variable{}, err
	}
	return Variable{Name: name, Value: e}, nil
}

// Def is a definition kept alongside a program because its body depends on
// an axis. It is substituted and simplified together with the program and
// inlined at evaluation time.
type Def struct {
	Name string
	Body Expr
}

// Program is a compiled expression plus the axis-dependent definitions it
// refers to. Programs are immutable; every transformation returns a new one.
type Program struct {
	main  Expr
	aux   []Def
	multi bool
	opts  Options
}

// Compile parses src and binds vars into it.
func Compile(src string, vars []Variable, opts Options) (*Program, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Build(e, vars, opts)
}

// Build binds vars into an already parsed expression. Variables whose body
// does not depend on an axis are inlined; the others become aux
// definitions. Cyclic definitions stay unbound and fail at evaluation. The
// multi-output flag is taken from the unsimplified trees so
// that folding constant roots does not hide it.
func Build(e Expr, vars []Variable, opts Options) (*Program, error) {
	byName := make(map[string]Expr, len(vars))
	for _, v := range vars {
		byName[v.Name] = v.Value
	}

	used := map[string]bool{}
	var visit func(Expr)
	visit = func(x Expr) {
		for _, name := range sortedNames(FreeSymbols(x)) {
			body, ok := byName[name]
			if !ok || used[name] {
				continue
			}
			used[name] = true
			visit(body)
		}
	}
	visit(e)

	multi := HasMultiOutput(e)
	var axisDep func(Expr, int) bool
	axisDep = func(x Expr, depth int) bool {
		free := FreeSymbols(x)
		if _, ok := free[AxisX]; ok {
			return true
		}
		if _, ok := free[AxisY]; ok {
			return true
		}
		if depth > len(vars) {
			return false
		}
		for name := range free {
			if body, ok := byName[name]; ok && axisDep(body, depth+1) {
				return true
			}
		}
		return false
	}

	var constNames, auxNames []string
	for _, v := range vars {
		if !used[v.Name] {
			continue
		}
		if HasMultiOutput(v.Value) {
			multi = true
		}
		if axisDep(v.Value, 0) {
			auxNames = append(auxNames, v.Name)
		} else {
			constNames = append(constNames, v.Name)
		}
	}

	inlineConsts := func(x Expr) Expr {
		for range constNames {
			for _, name := range constNames {
				x = x.Sub(name, byName[name])
			}
		}
		return x.Simplify()
	}

	p := &Program{main: inlineConsts(e), multi: multi, opts: opts}
	for _, name := range auxNames {
		p.aux = append(p.aux, Def{Name: name, Body: inlineConsts(byName[name])})
	}
	return p, nil
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sub substitutes a numeric value for an axis, rounded to the program's
// precision.
func (p *Program) Sub(axis string, v float64) *Program {
	return p.SubExpr(axis, R(p.round(v)))
}

// SubExpr substitutes value for name in the program and its definitions.
func (p *Program) SubExpr(name string, value Expr) *Program {
	out := &Program{main: p.main.Sub(name, value), multi: p.multi, opts: p.opts}
	if len(p.aux) > 0 {
		out.aux = make([]Def, len(p.aux))
		for i, d := range p.aux {
			out.aux[i] = Def{Name: d.Name, Body: d.Body.Sub(name, value)}
		}
	}
	return out
}

func (p *Program) round(v float64) float64 {
	prec := p.opts.Prec
	if prec == 0 || prec >= 53 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := new(big.Float).SetPrec(prec).SetFloat64(v).Float64()
	return f
}

func (p *Program) Simplify() *Program {
	out := &Program{main: p.main.Simplify(), multi: p.multi, opts: p.opts}
	if len(p.aux) > 0 {
		out.aux = make([]Def, len(p.aux))
		for i, d := range p.aux {
			out.aux[i] = Def{Name: d.Name, Body: d.Body.Simplify()}
		}
	}
	return out
}

// Expr returns the main expression with every definition inlined.
func (p *Program) Expr() Expr {
	e := p.main
	for range p.aux {
		changed := false
		for _, d := range p.aux {
			if HasSymbol(e, d.Name) {
				e = e.Sub(d.Name, d.Body)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return e
}

func (p *Program) Eval() (Value, error) { return p.Expr().Eval() }

// Uses reports whether the program still depends on the named axis.
func (p *Program) Uses(axis string) bool { return HasSymbol(p.Expr(), axis) }

// Multi reports whether the source contains a multi-output primitive.
func (p *Program) Multi() bool { return p.multi }

func (p *Program) String() string { return p.main.String() }
