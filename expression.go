package goplot

import "github.com/njchilds90/goplot/sym"

// Axis names understood by Expression.Substitute and Expression.Uses.
const (
	AxisX = sym.AxisX
	AxisY = sym.AxisY
)

// Expression is a compiled plot expression. Implementations must be
// immutable: Substitute and Simplify return new values, so one Expression
// can be specialized concurrently by many sampling tasks.
type Expression interface {
	// Substitute replaces an axis by a numeric value.
	Substitute(axis string, value float64) Expression
	// Simplify folds constants after substitution.
	Simplify() Expression
	// Eval evaluates a fully bound expression.
	Eval() (sym.Value, error)
	// Uses reports whether the expression depends on an axis.
	Uses(axis string) bool
	// MultiOutput reports whether the source contains a primitive that
	// yields a variable number of values.
	MultiOutput() bool
}

// Compiler turns plot text into an Expression.
type Compiler interface {
	Compile(text string, vars []sym.Variable, opts sym.Options) (Expression, error)
}

// SymCompiler compiles with the sym expression kernel.
type SymCompiler struct{}

func (SymCompiler) Compile(text string, vars []sym.Variable, opts sym.Options) (Expression, error) {
	p, err := sym.Compile(text, vars, opts)
	if err != nil {
		return nil, err
	}
	return program{p}, nil
}

type program struct{ p *sym.Program }

func (e program) Substitute(axis string, value float64) Expression {
	return program{e.p.Sub(axis, value)}
}

func (e program) Simplify() Expression     { return program{e.p.Simplify()} }
func (e program) Eval() (sym.Value, error) { return e.p.Eval() }
func (e program) Uses(axis string) bool    { return e.p.Uses(axis) }
func (e program) MultiOutput() bool        { return e.p.Multi() }
func (e program) String() string           { return e.p.String() }

// specialize binds axis to value and simplifies once, so the result can be
// reused across an inner sweep.
func specialize(e Expression, axis string, value float64) Expression {
	return e.Substitute(axis, value).Simplify()
}
