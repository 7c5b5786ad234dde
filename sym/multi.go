package sym

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strings"
)

// ============================================================
// Multi-output primitives
// ============================================================

func multiRoots(name string, in []complex128) ([]complex128, error) {
	switch name {
	case "quadratic", "quad":
		return quadraticRoots(in[0], in[1], in[2]), nil
	case "cubic", "quartic":
		return polyRoots(in), nil
	case "unity":
		return unityRoots(in[0])
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFunc, name)
}

// quadraticRoots solves a*x^2 + b*x + c = 0, degrading to the linear case
// when a is zero.
func quadraticRoots(a, b, c complex128) []complex128 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []complex128{-c / b}
	}
	if imag(a) == 0 && imag(b) == 0 && imag(c) == 0 {
		ra, rb, rc := real(a), real(b), real(c)
		disc := rb*rb - 4*ra*rc
		if disc >= 0 {
			// Pick the root without cancellation, then recover the other
			// from the product of the roots.
			q := -0.5 * (rb + math.Copysign(math.Sqrt(disc), rb))
			if q == 0 {
				return []complex128{0, 0}
			}
			r1, r2 := q/ra, rc/q
			if r1 > r2 {
				r1, r2 = r2, r1
			}
			return []complex128{complex(r2, 0), complex(r1, 0)}
		}
		re := -rb / (2 * ra)
		im := math.Sqrt(-disc) / (2 * math.Abs(ra))
		return []complex128{complex(re, im), complex(re, -im)}
	}
	sq := cmplx.Sqrt(b*b - 4*a*c)
	return []complex128{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// polyRoots finds all roots of the polynomial with the given coefficients
// (highest degree first) by Durand–Kerner iteration. Leading zero
// coefficients lower the degree.
func polyRoots(coeffs []complex128) []complex128 {
	for len(coeffs) > 0 && coeffs[0] == 0 {
		coeffs = coeffs[1:]
	}
	switch len(coeffs) {
	case 0, 1:
		return nil
	case 2:
		return []complex128{-coeffs[1] / coeffs[0]}
	case 3:
		return quadraticRoots(coeffs[0], coeffs[1], coeffs[2])
	}
	n := len(coeffs) - 1
	monic := make([]complex128, len(coeffs))
	for i, c := range coeffs {
		monic[i] = c / coeffs[0]
	}
	eval := func(z complex128) complex128 {
		acc := complex128(0)
		for _, c := range monic {
			acc = acc*z + c
		}
		return acc
	}

	roots := make([]complex128, n)
	seed := complex(0.4, 0.9)
	for i := range roots {
		roots[i] = cmplx.Pow(seed, complex(float64(i), 0))
	}
	for iter := 0; iter < 500; iter++ {
		delta := 0.0
		for i := range roots {
			denom := complex128(1)
			for j := range roots {
				if i != j {
					denom *= roots[i] - roots[j]
				}
			}
			if denom == 0 {
				denom = 1e-12
			}
			step := eval(roots[i]) / denom
			roots[i] -= step
			delta = math.Max(delta, cmplx.Abs(step))
		}
		if delta < 1e-14 {
			break
		}
	}
	for i, r := range roots {
		roots[i] = cleanComplex(r)
	}
	sort.SliceStable(roots, func(i, j int) bool {
		if real(roots[i]) != real(roots[j]) {
			return real(roots[i]) < real(roots[j])
		}
		return imag(roots[i]) < imag(roots[j])
	})
	return roots
}

// unityRoots returns the n-th roots of unity, starting at 1.
func unityRoots(nz complex128) ([]complex128, error) {
	n := real(nz)
	if imag(nz) != 0 || n < 1 || n != math.Trunc(n) || n > 1<<16 {
		return nil, fmt.Errorf("unity: order must be a positive integer, got %s", formatComplex(nz))
	}
	k := int(n)
	out := make([]complex128, k)
	for i := range out {
		out[i] = cleanComplex(cmplx.Rect(1, 2*math.Pi*float64(i)/n))
	}
	return out, nil
}

func cleanComplex(z complex128) complex128 {
	re, im := real(z), imag(z)
	scale := math.Max(1, cmplx.Abs(z))
	if math.Abs(im) < 1e-9*scale {
		im = 0
	}
	if math.Abs(re) < 1e-12*scale {
		re = 0
	}
	return complex(cleanReal(re), im)
}

// ============================================================
// Vec — vector and matrix literals
// ============================================================

// Vec is a tuple (a, b) or bracket list [a, b]. It evaluates to a Vector
// when every element is a scalar and to a Matrix when every element is a
// vector of the same length.
type Vec struct{ elems []Expr }

func VecOf(elems ...Expr) Expr { return (&Vec{elems: elems}).Simplify() }

func (v *Vec) Simplify() Expr {
	elems := make([]Expr, len(v.elems))
	for i, e := range v.elems {
		elems[i] = e.Simplify()
	}
	return &Vec{elems: elems}
}

func (v *Vec) String() string {
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v *Vec) Sub(varName string, value Expr) Expr {
	elems := make([]Expr, len(v.elems))
	for i, e := range v.elems {
		elems[i] = e.Sub(varName, value)
	}
	return &Vec{elems: elems}
}

func (v *Vec) Eval() (Value, error) {
	vals := make([]Value, len(v.elems))
	for i, e := range v.elems {
		val, err := e.Eval()
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}
	if len(vals) == 0 {
		return Vector{}, nil
	}
	switch vals[0].(type) {
	case Scalar:
		out := make(Vector, len(vals))
		for i, val := range vals {
			s, ok := val.(Scalar)
			if !ok {
				return nil, fmt.Errorf("%w: mixed scalar and %T elements", ErrShape, val)
			}
			out[i] = complex128(s)
		}
		return out, nil
	case Vector:
		width := len(vals[0].(Vector))
		out := make(Matrix, len(vals))
		for i, val := range vals {
			row, ok := val.(Vector)
			if !ok || len(row) != width {
				return nil, fmt.Errorf("%w: ragged matrix row %d", ErrShape, i)
			}
			out[i] = row
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: nested %T", ErrShape, vals[0])
}

func (v *Vec) Equal(other Expr) bool {
	o, ok := other.(*Vec)
	return ok && equalAll(v.elems, o.elems)
}

func (v *Vec) exprType() string { return "vec" }
func (v *Vec) Elems() []Expr    { return v.elems }
func (v *Vec) Len() int         { return len(v.elems) }

// ============================================================
// PlusMinus — a ± b
// ============================================================

// PlusMinus evaluates to the values of a+b followed by those of a-b.
// A nil a is the unary form ±b.
type PlusMinus struct{ a, b Expr }

func PlusMinusOf(a, b Expr) Expr { return (&PlusMinus{a: a, b: b}).Simplify() }

func (p *PlusMinus) Simplify() Expr {
	var a Expr
	if p.a != nil {
		a = p.a.Simplify()
	}
	b := p.b.Simplify()
	out := &PlusMinus{a: a, b: b}
	if (a == nil || isNum(a)) && isNum(b) {
		if v, err := out.Eval(); err == nil {
			if vec, ok := v.(Vector); ok {
				return numVec(vec)
			}
		}
	}
	return out
}

func isNum(e Expr) bool { _, ok := e.(*Num); return ok }

func (p *PlusMinus) String() string {
	b := p.b.String()
	switch p.b.(type) {
	case *Add, *PlusMinus:
		b = "(" + b + ")"
	}
	if p.a == nil {
		return "±" + b
	}
	return p.a.String() + " ± " + b
}

func (p *PlusMinus) Sub(varName string, value Expr) Expr {
	var a Expr
	if p.a != nil {
		a = p.a.Sub(varName, value)
	}
	return PlusMinusOf(a, p.b.Sub(varName, value))
}

func (p *PlusMinus) Eval() (Value, error) {
	var a Value = Scalar(0)
	if p.a != nil {
		var err error
		if a, err = p.a.Eval(); err != nil {
			return nil, err
		}
	}
	b, err := p.b.Eval()
	if err != nil {
		return nil, err
	}
	plus, err := binary(a, b, func(x, y complex128) complex128 { return x + y })
	if err != nil {
		return nil, err
	}
	minus, err := binary(a, b, func(x, y complex128) complex128 { return x - y })
	if err != nil {
		return nil, err
	}
	pv, err := flatten(plus)
	if err != nil {
		return nil, err
	}
	mv, err := flatten(minus)
	if err != nil {
		return nil, err
	}
	out := make(Vector, 0, len(pv)+len(mv))
	out = append(out, pv...)
	return append(out, mv...), nil
}

func (p *PlusMinus) Equal(other Expr) bool {
	o, ok := other.(*PlusMinus)
	if !ok || (p.a == nil) != (o.a == nil) {
		return false
	}
	return (p.a == nil || p.a.Equal(o.a)) && p.b.Equal(o.b)
}

func (p *PlusMinus) exprType() string { return "plusminus" }
