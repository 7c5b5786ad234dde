package goplot

// slicePlane is a 3D bound collapsed to one swept axis. The held axis is
// fixed at an offset of index steps from the midpoint of its grid.
type slicePlane struct {
	held, swept string
	heldAt      float64
	start, end  float64
	n           int
}

// newSlicePlane holds x and sweeps y, or the other way round when viewX
// is set.
func newSlicePlane(startX, startY, endX, endY float64, nx, ny, index int, viewX bool) slicePlane {
	held, swept := AxisX, AxisY
	hStart, hEnd, hn := startX, endX, nx
	sStart, sEnd, sn := startY, endY, ny
	if viewX {
		held, swept = swept, held
		hStart, hEnd, hn, sStart, sEnd, sn = sStart, sEnd, sn, hStart, hEnd, hn
	}
	// Integer halving keeps the held value on a grid line when hn is odd.
	return slicePlane{
		held:   held,
		swept:  swept,
		heldAt: hStart + float64(index+hn/2)*(hEnd-hStart)/float64(hn),
		start:  sStart,
		end:    sEnd,
		n:      sn,
	}
}

// plotSlice samples p along the slice. Only scalar fields, multi-valued
// plots and plane literals have slice output.
func (s sampler) plotSlice(p *Plot, sp slicePlane) Output {
	switch k := p.Kind.(type) {
	case Scalar:
		if k.HasConst {
			return constantValue(k.Const, p.Inverted())
		}
		e := specialize(p.Expr, sp.held, sp.heldAt)
		return s.series1D(e, sp.swept, sp.start, sp.end, sp.n, sp.held, sp.heldAt)
	case MultiValued:
		if p.constant() {
			return constantList(p)
		}
		e := specialize(p.Expr, sp.held, sp.heldAt)
		return s.list1D(e, sp.swept, sp.start, sp.end, sp.n, sp.held, sp.heldAt)
	case Literal2D:
		return literal2D(k)
	case Curve2D, Curve3D, Literal3D:
		return nil
	}
	panic("goplot: unknown kind " + KindName(p.Kind))
}
