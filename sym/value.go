package sym

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Values
// ============================================================

// Value is the result of evaluating an expression. It is one of Scalar,
// Vector or Matrix.
type Value interface {
	isValue()
	String() string
}

type Scalar complex128

type Vector []complex128

type Matrix [][]complex128

func (Scalar) isValue() {}
func (Vector) isValue() {}
func (Matrix) isValue() {}

func (s Scalar) String() string { return formatComplex(complex128(s)) }

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, z := range v {
		parts[i] = formatComplex(z)
	}
	return "[" + joinComma(parts) + "]"
}

func (m Matrix) String() string {
	rows := make([]string, len(m))
	for i, r := range m {
		rows[i] = Vector(r).String()
	}
	return "[" + joinComma(rows) + "]"
}

var (
	// ErrUnbound is returned when a symbol has no value at evaluation time.
	ErrUnbound = errors.New("unbound symbol")
	// ErrShape is returned when operands have incompatible shapes.
	ErrShape = errors.New("shape mismatch")
	// ErrArity is returned when a function gets the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
	// ErrUnknownFunc is returned for calls to functions the kernel does not know.
	ErrUnknownFunc = errors.New("unknown function")
)

func arityError(name string, want, got int) error {
	return fmt.Errorf("%s: %w: want %d, got %d", name, ErrArity, want, got)
}

// binary combines two values elementwise, broadcasting a scalar over a vector.
func binary(a, b Value, op func(x, y complex128) complex128) (Value, error) {
	switch a := a.(type) {
	case Scalar:
		switch b := b.(type) {
		case Scalar:
			return Scalar(op(complex128(a), complex128(b))), nil
		case Vector:
			out := make(Vector, len(b))
			for i, z := range b {
				out[i] = op(complex128(a), z)
			}
			return out, nil
		}
	case Vector:
		switch b := b.(type) {
		case Scalar:
			out := make(Vector, len(a))
			for i, z := range a {
				out[i] = op(z, complex128(b))
			}
			return out, nil
		case Vector:
			if len(a) != len(b) {
				return nil, fmt.Errorf("%w: vectors of length %d and %d", ErrShape, len(a), len(b))
			}
			out := make(Vector, len(a))
			for i := range a {
				out[i] = op(a[i], b[i])
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot combine %T and %T", ErrShape, a, b)
}

// mapValue applies f to every component of v.
func mapValue(v Value, f func(complex128) complex128) (Value, error) {
	switch v := v.(type) {
	case Scalar:
		return Scalar(f(complex128(v))), nil
	case Vector:
		out := make(Vector, len(v))
		for i, z := range v {
			out[i] = f(z)
		}
		return out, nil
	case Matrix:
		out := make(Matrix, len(v))
		for i, row := range v {
			out[i] = make([]complex128, len(row))
			for j, z := range row {
				out[i][j] = f(z)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrShape, v)
}

// flatten lists the components of a scalar or vector.
func flatten(v Value) ([]complex128, error) {
	switch v := v.(type) {
	case Scalar:
		return []complex128{complex128(v)}, nil
	case Vector:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrShape, v)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
