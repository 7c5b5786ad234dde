package goplot

// ============================================================
// Points
// ============================================================

// Point2 is a point in the plane.
type Point2 struct {
	X, Y float64
}

// Point3 is a point in space.
type Point3 struct {
	X, Y, Z float64
}

// ============================================================
// Kinds
// ============================================================

// Kind is the output shape of a plot, decided once by Classify. It is one
// of Scalar, Curve2D, Curve3D, Literal2D, Literal3D or MultiValued.
type Kind interface {
	kindName() string
}

// Scalar is a plot whose value at a point is a single complex number. A
// plot that uses no axis carries its value in Const.
type Scalar struct {
	Const    complex128
	HasConst bool
}

// Curve2D maps its parameters to a point in the plane. A plot that uses no
// axis is the single point Const.
type Curve2D struct {
	Const    Point2
	HasConst bool
}

// Curve3D maps its parameters to a point in space.
type Curve3D struct{}

// Literal2D is a fixed set of points in the plane.
type Literal2D struct {
	Points []Point2
}

// Literal3D is a fixed set of points in space.
type Literal3D struct {
	Points []Point3
}

// MultiValued is a plot whose value at a point is a variable number of
// complex numbers, such as the roots of a polynomial.
type MultiValued struct{}

func (Scalar) kindName() string      { return "scalar" }
func (Curve2D) kindName() string     { return "curve2d" }
func (Curve3D) kindName() string     { return "curve3d" }
func (Literal2D) kindName() string   { return "literal2d" }
func (Literal3D) kindName() string   { return "literal3d" }
func (MultiValued) kindName() string { return "multi" }

// KindName returns a short lowercase name for k, or "none" for nil.
func KindName(k Kind) string {
	if k == nil {
		return "none"
	}
	return k.kindName()
}

// ============================================================
// Plots
// ============================================================

// Axes records which axes an expression depends on.
type Axes struct {
	X, Y bool
}

// Any reports whether at least one axis is used.
func (a Axes) Any() bool { return a.X || a.Y }

// Both reports whether both axes are used.
func (a Axes) Both() bool { return a.X && a.Y }

// Plot is one classified segment of a source text. Plots are never
// modified; a reload replaces them.
type Plot struct {
	Expr Expression
	Kind Kind
	Axes Axes
	// Invert is set for constant plots, where the axes cannot tell whether
	// the plot was written as x=c or y=c.
	Invert *bool
}

// Inverted reports whether the plot is a function of y drawn against the
// vertical axis.
func (p *Plot) Inverted() bool {
	if p.Invert != nil {
		return *p.Invert
	}
	return !p.Axes.X && p.Axes.Y
}

// Is3D reports whether the plot has output in a 3D view.
func (p *Plot) Is3D() bool {
	switch p.Kind.(type) {
	case Scalar, MultiValued:
		return p.Axes.Both()
	case Curve3D, Literal3D:
		return true
	case Curve2D, Literal2D:
		return false
	}
	panic("goplot: unknown kind " + KindName(p.Kind))
}

// sweepAxis is the axis a one-dimensional sweep of the plot runs along.
func (p *Plot) sweepAxis() string {
	if p.Inverted() {
		return AxisY
	}
	return AxisX
}

// parametric reports whether the plot is sampled over the reference
// interval instead of the requested domain.
func (p *Plot) parametric() bool {
	switch k := p.Kind.(type) {
	case Curve2D:
		return !k.HasConst
	case Curve3D:
		return true
	}
	return false
}

// constant reports whether the plot uses no axis.
func (p *Plot) constant() bool { return !p.Axes.Any() }
