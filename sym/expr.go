// Package sym provides the complex-valued expression kernel behind goplot.
//
// Design goals:
//   - Small node set (Num, Sym, Add, Mul, Pow, Func, Vec, PlusMinus)
//   - Deterministic simplification and stable output
//   - Cheap substitution, so one expression can be specialized per grid row
//   - Evaluation to scalars, vectors and matrices over complex128
package sym

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	Sub(varName string, value Expr) Expr
	Eval() (Value, error)
	Equal(other Expr) bool
	exprType() string
}

// ============================================================
// Num — complex constant
// ============================================================

type Num struct{ val complex128 }

func N(n int64) *Num             { return &Num{val: complex(float64(n), 0)} }
func R(f float64) *Num           { return &Num{val: complex(f, 0)} }
func C(re, im float64) *Num      { return &Num{val: complex(re, im)} }
func NComplex(z complex128) *Num { return &Num{val: z} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Eval() (Value, error)  { return Scalar(n.val), nil }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val == o.val }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Complex() complex128   { return n.val }
func (n *Num) IsZero() bool          { return n.val == 0 }
func (n *Num) IsOne() bool           { return n.val == 1 }
func (n *Num) IsNegOne() bool        { return n.val == -1 }
func (n *Num) IsReal() bool          { return imag(n.val) == 0 }

func (n *Num) IsInteger() bool {
	r := real(n.val)
	return n.IsReal() && isFinite(r) && r == math.Trunc(r)
}

func (n *Num) String() string { return formatComplex(n.val) }

func formatComplex(z complex128) string {
	re, im := real(z), imag(z)
	switch {
	case im == 0:
		return strconv.FormatFloat(re, 'g', -1, 64)
	case re == 0:
		return strconv.FormatFloat(im, 'g', -1, 64) + "i"
	}
	sign := "+"
	if im < 0 || math.Signbit(im) {
		sign = "-"
		im = -im
	}
	return "(" + strconv.FormatFloat(re, 'g', -1, 64) + sign + strconv.FormatFloat(im, 'g', -1, 64) + "i)"
}

func joinComma(parts []string) string { return strings.Join(parts, ", ") }

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) Eval() (Value, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnbound, s.name)
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := complex128(0)
	symCoeffs := map[string]complex128{}
	symOrder := []string{}
	others := []Expr{}
	for _, t := range flat {
		switch v := t.(type) {
		case *Num:
			numAccum += v.val
		case *Sym:
			if _, seen := symCoeffs[v.name]; !seen {
				symOrder = append(symOrder, v.name)
			}
			symCoeffs[v.name]++
		default:
			others = append(others, t)
		}
	}
	result := []Expr{}
	sort.Strings(symOrder)
	for _, name := range symOrder {
		coeff := symCoeffs[name]
		if coeff == 1 {
			result = append(result, S(name))
		} else {
			result = append(result, MulOf(NComplex(coeff), S(name)))
		}
	}
	result = append(result, others...)
	if numAccum != 0 || len(result) == 0 {
		result = append(result, NComplex(numAccum))
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Eval() (Value, error) {
	var acc Value = Scalar(0)
	for _, t := range a.terms {
		v, err := t.Eval()
		if err != nil {
			return nil, err
		}
		if acc, err = binary(acc, v, func(x, y complex128) complex128 { return x + y }); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func (a *Add) exprType() string { return "add" }
func (a *Add) Terms() []Expr    { return a.terms }

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := complex128(1)
	others := []Expr{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff *= v.val
		} else {
			others = append(others, f)
		}
	}
	if len(others) == 0 {
		return NComplex(coeff)
	}
	// 0*f only folds when f cannot change the result shape.
	if coeff == 0 && !anyProducesVector(others) {
		return N(0)
	}

	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		others[i] = ks[i].e
	}

	if coeff == 1 {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{NComplex(coeff)}, others...)}
}

func anyProducesVector(es []Expr) bool {
	for _, e := range es {
		if producesVector(e) {
			return true
		}
	}
	return false
}

func (m *Mul) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		switch f.(type) {
		case *Add, *PlusMinus:
			parts[i] = "(" + f.String() + ")"
		default:
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Eval() (Value, error) {
	var acc Value = Scalar(1)
	for _, f := range m.factors {
		v, err := f.Eval()
		if err != nil {
			return nil, err
		}
		if acc, err = binary(acc, v, func(x, y complex128) complex128 { return x * y }); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) Factors() []Expr  { return m.factors }

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	bn, baseIsNum := base.(*Num)
	en, expIsNum := exp.(*Num)
	if baseIsNum && expIsNum {
		return NComplex(powComplex(bn.val, en.val))
	}
	if expIsNum && en.IsOne() {
		return base
	}
	if expIsNum && en.IsZero() && !producesVector(base) {
		return N(1)
	}
	if baseIsNum && bn.IsOne() && !producesVector(exp) {
		return N(1)
	}
	// (a^b)^n = a^(b*n) holds for integer n only.
	if inner, ok := base.(*Pow); ok && expIsNum && en.IsInteger() {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	expStr := p.exp.String()
	switch p.base.(type) {
	case *Add, *Mul, *PlusMinus:
		baseStr = "(" + baseStr + ")"
	}
	switch p.exp.(type) {
	case *Add, *Mul, *PlusMinus, *Pow:
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Eval() (Value, error) {
	b, err := p.base.Eval()
	if err != nil {
		return nil, err
	}
	e, err := p.exp.Eval()
	if err != nil {
		return nil, err
	}
	return binary(b, e, powComplex)
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) Base() Expr       { return p.base }
func (p *Pow) ExpExpr() Expr    { return p.exp }
