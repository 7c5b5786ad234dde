package goplot

import (
	"math"
	"math/cmplx"

	"github.com/njchilds90/goplot/internal/parallel"
	"github.com/njchilds90/goplot/sym"
)

// blank marks a cell whose evaluation failed or had no value. Renderers
// leave a gap there.
var blank = cmplx.NaN()

// ============================================================
// Cell evaluation
// ============================================================

func scalarAt(e Expression) complex128 {
	v, err := e.Eval()
	if err != nil {
		return blank
	}
	if s, ok := v.(sym.Scalar); ok {
		return complex128(s)
	}
	return blank
}

func vectorAt(e Expression, dim int) sym.Vector {
	v, err := e.Eval()
	if err != nil {
		return nil
	}
	if vec, ok := v.(sym.Vector); ok && len(vec) == dim {
		return vec
	}
	return nil
}

func coord2At(e Expression) Coord2 {
	v := vectorAt(e, 2)
	if v == nil {
		return Coord2{X: math.NaN(), Y: blank}
	}
	return Coord2{X: real(v[0]), Y: v[1]}
}

func coord3At(e Expression) Coord3 {
	v := vectorAt(e, 3)
	if v == nil {
		return Coord3{X: math.NaN(), Y: math.NaN(), Z: blank}
	}
	return Coord3{X: real(v[0]), Y: real(v[1]), Z: v[2]}
}

// listAt returns every value of one cell of a multi-valued plot. A failed
// cell has no values.
func listAt(e Expression) []complex128 {
	v, err := e.Eval()
	if err != nil {
		return nil
	}
	switch v := v.(type) {
	case sym.Scalar:
		return []complex128{complex128(v)}
	case sym.Vector:
		return v
	case sym.Matrix:
		var out []complex128
		for _, row := range v {
			out = append(out, row...)
		}
		return out
	}
	return nil
}

// ============================================================
// Sweeps
// ============================================================

// sweep evaluates e at n+1 evenly spaced values of axis over [start, end].
// Each sample is an independent task.
func sweep[T any](workers int, e Expression, axis string, start, end float64, n int, at func(Expression) T) []T {
	return parallel.Map(n+1, workers, func(i int) T {
		return at(e.Substitute(axis, step(start, end, n, i)))
	})
}

// grid evaluates e on an (nx+1)×(ny+1) grid in row-major order. Each row
// specializes e for its y once and then substitutes only x.
func grid[T any](workers int, e Expression, startX, startY, endX, endY float64, nx, ny int, at func(Expression) T) []T {
	rows := parallel.Map(ny+1, workers, func(j int) []T {
		row := specialize(e, AxisY, step(startY, endY, ny, j))
		out := make([]T, nx+1)
		for i := range out {
			out[i] = at(row.Substitute(AxisX, step(startX, endX, nx, i)))
		}
		return out
	})
	return parallel.Flatten(rows)
}

func isqrt(n int) int {
	return max(1, int(math.Sqrt(float64(n))))
}

// ============================================================
// Sampler
// ============================================================

// sampler turns one plot into one output for one view. It never touches
// the plot; everything it returns is new.
type sampler struct {
	workers int
	// ref is the parameter interval [ref.X, ref.Y] of parametric curves.
	ref Point2
}

// plot2D samples p over [start, end] with n intervals. Plots that have no
// 2D output return nil.
func (s sampler) plot2D(p *Plot, start, end float64, n int) Output {
	switch k := p.Kind.(type) {
	case Scalar:
		if k.HasConst {
			return constantValue(k.Const, p.Inverted())
		}
		if p.Axes.Both() {
			return nil
		}
		return s.series1D(p.Expr, p.sweepAxis(), start, end, n, "", 0)
	case Curve2D:
		if k.HasConst {
			return &ConstantPoint{Point: k.Const}
		}
		return s.curve2D(p, n)
	case Curve3D:
		m := isqrt(n)
		return s.curve3D(p, n, m, m)
	case Literal2D:
		return literal2D(k)
	case Literal3D:
		return nil
	case MultiValued:
		if p.constant() {
			return constantList(p)
		}
		if p.Axes.Both() {
			return nil
		}
		return s.list1D(p.Expr, p.sweepAxis(), start, end, n, "", 0)
	}
	panic("goplot: unknown kind " + KindName(p.Kind))
}

// plot3D samples p over a 3D bound. Plots without 3D output return nil.
func (s sampler) plot3D(p *Plot, startX, startY, endX, endY float64, nx, ny int) Output {
	if !p.Is3D() {
		return nil
	}
	switch k := p.Kind.(type) {
	case Scalar:
		vals := grid(s.workers, p.Expr, startX, startY, endX, endY, nx, ny, scalarAt)
		ch, vals := Compact(vals)
		return &Surface{
			StartX: startX, StartY: startY, EndX: endX, EndY: endY,
			NX: nx, NY: ny, Values: vals, Channel: ch,
		}
	case Curve3D:
		return s.curve3D(p, nx*ny, nx, ny)
	case Literal3D:
		return literal3D(k)
	case MultiValued:
		cells := grid(s.workers, p.Expr, startX, startY, endX, endY, nx, ny, listAt)
		ar := fanOut(cells)
		items := make([]Output, ar.count())
		for k := range items {
			ch, vals := Compact(ar.lane(k))
			items[k] = &Surface{
				StartX: startX, StartY: startY, EndX: endX, EndY: endY,
				NX: nx, NY: ny, Values: vals, Channel: ch,
			}
		}
		return &List{Items: items}
	}
	return nil
}

func (s sampler) series1D(e Expression, axis string, start, end float64, n int, held string, heldAt float64) *Series1D {
	ch, vals := Compact(sweep(s.workers, e, axis, start, end, n, scalarAt))
	return &Series1D{
		Axis: axis, Start: start, End: end,
		Held: held, HeldAt: heldAt,
		Values: vals, Channel: ch,
	}
}

func (s sampler) list1D(e Expression, axis string, start, end float64, n int, held string, heldAt float64) *List {
	ar := fanOut(sweep(s.workers, e, axis, start, end, n, listAt))
	items := make([]Output, ar.count())
	for k := range items {
		ch, vals := Compact(ar.lane(k))
		items[k] = &Series1D{
			Axis: axis, Start: start, End: end,
			Held: held, HeldAt: heldAt,
			Values: vals, Channel: ch,
		}
	}
	return &List{Items: items}
}

// fanOut pushes the cells into lanes in domain order.
func fanOut(cells [][]complex128) *lanes[complex128] {
	ar := newLanes(blank)
	for _, c := range cells {
		ar.push(c)
	}
	return ar
}

// curve2D samples a parametric plane curve over the reference interval,
// or over the reference square when it uses both axes.
func (s sampler) curve2D(p *Plot, n int) Output {
	lo, hi := s.ref.X, s.ref.Y
	var pts []Coord2
	if p.Axes.Both() {
		m := isqrt(n)
		pts = grid(s.workers, p.Expr, lo, lo, hi, hi, m, m, coord2At)
	} else {
		pts = sweep(s.workers, p.Expr, paramAxis(p), lo, hi, n, coord2At)
	}
	ch, pts := CompactCoords(pts)
	return &Series2D{Points: pts, Channel: ch}
}

// curve3D samples a space curve: a grid for two parameters, a sweep of n
// intervals for one and a single point for none.
func (s sampler) curve3D(p *Plot, n, nx, ny int) Output {
	lo, hi := s.ref.X, s.ref.Y
	var pts []Coord3
	switch {
	case p.Axes.Both():
		pts = grid(s.workers, p.Expr, lo, lo, hi, hi, nx, ny, coord3At)
	case p.Axes.Any():
		pts = sweep(s.workers, p.Expr, paramAxis(p), lo, hi, n, coord3At)
	default:
		pts = []Coord3{coord3At(p.Expr)}
	}
	ch, pts := CompactCoords3(pts)
	return &Series3D{Points: pts, Channel: ch}
}

func paramAxis(p *Plot) string {
	if p.Axes.X {
		return AxisX
	}
	return AxisY
}

func constantValue(z complex128, vertical bool) *ConstantValue {
	ch, v := Compact([]complex128{z})
	return &ConstantValue{Value: v[0], Vertical: vertical, Channel: ch}
}

func constantList(p *Plot) *List {
	vals := listAt(p.Expr)
	items := make([]Output, len(vals))
	for i, z := range vals {
		items[i] = constantValue(z, p.Inverted())
	}
	return &List{Items: items}
}

func literal2D(k Literal2D) *Series2D {
	pts := make([]Coord2, len(k.Points))
	for i, p := range k.Points {
		pts[i] = Coord2{X: p.X, Y: complex(p.Y, 0)}
	}
	return &Series2D{Points: pts, Channel: Real}
}

func literal3D(k Literal3D) *Series3D {
	pts := make([]Coord3, len(k.Points))
	for i, p := range k.Points {
		pts[i] = Coord3{X: p.X, Y: p.Y, Z: complex(p.Z, 0)}
	}
	return &Series3D{Points: pts, Channel: Real}
}
