package goplot

import (
	"fmt"

	"github.com/njchilds90/goplot/sym"
)

// Classify probes expr once, with every axis it uses bound to zero, and
// decides the plot's Kind from the shape of the value:
//
//	scalar                 Scalar (constant when no axis is used)
//	2-vector               Curve2D (constant when no axis is used)
//	3-vector               Curve3D
//	matrix of 2- or 3-rows Literal2D or Literal3D, only when no axis is used
//
// An expression containing a multi-output primitive is MultiValued
// whatever scalar or vector shape the probe returned. vertical records an
// x= prefix for plots whose axes cannot tell the orientation.
//
// Errors wrap ErrUnclassifiable.
func Classify(expr Expression, vertical bool) (*Plot, error) {
	axes := Axes{X: expr.Uses(AxisX), Y: expr.Uses(AxisY)}
	probe := expr
	if axes.X {
		probe = probe.Substitute(AxisX, 0)
	}
	if axes.Y {
		probe = probe.Substitute(AxisY, 0)
	}
	v, err := probe.Simplify().Eval()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnclassifiable, err)
	}

	kind, err := kindOf(v, axes)
	if expr.MultiOutput() {
		if _, literal := kind.(Literal2D); !literal {
			if _, literal := kind.(Literal3D); !literal {
				kind, err = MultiValued{}, nil
			}
		}
	}
	if err != nil {
		return nil, err
	}

	p := &Plot{Expr: expr, Kind: kind, Axes: axes}
	if !axes.Any() {
		switch kind.(type) {
		case Scalar, MultiValued:
			p.Invert = &vertical
		}
	}
	return p, nil
}

func kindOf(v sym.Value, axes Axes) (Kind, error) {
	constant := !axes.Any()
	switch v := v.(type) {
	case sym.Scalar:
		if constant {
			return Scalar{Const: complex128(v), HasConst: true}, nil
		}
		return Scalar{}, nil
	case sym.Vector:
		switch len(v) {
		case 2:
			if constant {
				return Curve2D{Const: Point2{real(v[0]), real(v[1])}, HasConst: true}, nil
			}
			return Curve2D{}, nil
		case 3:
			return Curve3D{}, nil
		}
		return nil, fmt.Errorf("%w: vector of length %d", ErrUnclassifiable, len(v))
	case sym.Matrix:
		if !constant {
			return nil, fmt.Errorf("%w: matrix depends on an axis", ErrUnclassifiable)
		}
		return literalOf(v)
	}
	return nil, fmt.Errorf("%w: value %v", ErrUnclassifiable, v)
}

func literalOf(m sym.Matrix) (Kind, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrUnclassifiable)
	}
	width := len(m[0])
	for i, row := range m {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrUnclassifiable, i, len(row), width)
		}
	}
	switch width {
	case 2:
		pts := make([]Point2, len(m))
		for i, row := range m {
			pts[i] = Point2{real(row[0]), real(row[1])}
		}
		return Literal2D{Points: pts}, nil
	case 3:
		pts := make([]Point3, len(m))
		for i, row := range m {
			pts[i] = Point3{real(row[0]), real(row[1]), real(row[2])}
		}
		return Literal3D{Points: pts}, nil
	}
	return nil, fmt.Errorf("%w: rows of %d values", ErrUnclassifiable, width)
}
