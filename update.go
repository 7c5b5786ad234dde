package goplot

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Protocol types
// ============================================================

// Prec selects the sampling resolution of a bound. It is one of Mult,
// Dimension or Slice.
type Prec interface{ prec() }

// Mult scales the configured default sample counts.
type Mult float64

// Dimension requests an exact grid, usually one sample per pixel.
type Dimension struct{ X, Y int }

// Slice requests a 2D cross-section of a 3D bound at Mult-like density.
type Slice float64

func (Mult) prec()      {}
func (Dimension) prec() {}
func (Slice) prec()     {}

// Bound is the visible domain. It is one of Width or Width3D.
type Bound interface{ bound() }

// Width is a 2D view over [Start, End]. A nil Prec means Mult(1).
type Width struct {
	Start, End float64
	Prec       Prec
}

// Width3D is a 3D view over a rectangle of the xy plane.
type Width3D struct {
	StartX, StartY float64
	EndX, EndY     float64
	Prec           Prec
}

func (Width) bound()   {}
func (Width3D) bound() {}

// Request is one message from a renderer. Every field is optional.
type Request struct {
	// Names replaces the source text when non-nil.
	Names []Name
	// Bound is the domain to sample. Nil means the configured ranges at
	// default density.
	Bound Bound
	// Target asks for a refresh of a single display row.
	Target *int
	// Hidden lists the display rows that are hidden.
	Hidden []int
	// Reference replaces the parameter interval of parametric curves.
	Reference *Point2
	// SliceIndex and ViewX position a Slice bound.
	SliceIndex int
	ViewX      bool
}

// Response carries the outputs of one update.
type Response struct {
	Outputs []Result  `json:"outputs"`
	Complex bool      `json:"complex"`
	Partial bool      `json:"partial"`
	Display []Display `json:"display"`
	Source  string    `json:"source"`
	Is3D    bool      `json:"is3d"`
}

// ============================================================
// Coordinator
// ============================================================

// row is one display row: a whole slot, or one lane of a multi-valued
// slot.
type row struct {
	slot int
	lane int // -1 for the whole slot
}

// Coordinator keeps a Registry in step with a renderer. Display rows
// follow the slots, except that a slot whose last output was a List takes
// one row per lane. Lane rows cannot be hidden or targeted on their own; a
// target that is not a whole-slot row causes a full re-sample.
//
// A Coordinator is not safe for concurrent use.
type Coordinator struct {
	reg     *Registry
	source  string
	complex bool
	last    map[int]Output
	lanes   []int
}

// NewCoordinator wraps reg.
func NewCoordinator(reg *Registry) *Coordinator {
	c := &Coordinator{reg: reg}
	c.reset()
	return c
}

// Registry returns the wrapped registry.
func (c *Coordinator) Registry() *Registry { return c.reg }

// Initial samples every plot over the configured ranges at default
// density.
func (c *Coordinator) Initial() (Response, error) { return c.Update(Request{}) }

func (c *Coordinator) reset() {
	c.source = c.reg.Source()
	c.complex = false
	c.last = map[int]Output{}
	c.lanes = make([]int, c.reg.Len())
}

// Update applies req and samples what it requires. A name edit that
// leaves no valid plot is not an error: the response has an empty output
// set and ShowNone for every name.
func (c *Coordinator) Update(req Request) (Response, error) {
	edited := req.Names != nil
	if edited {
		src := BuildSource(req.Names)
		if err := c.reg.Reload(src); err != nil {
			if !errors.Is(err, ErrNoPlots) {
				return Response{}, err
			}
			c.reset()
			display := make([]Display, len(req.Names))
			for i, n := range req.Names {
				display[i] = Display{Slot: i, Name: n.Name, Vars: n.Vars, Show: ShowNone}
			}
			return Response{Source: src, Display: display}, nil
		}
		c.reset()
	} else if c.source != c.reg.Source() || len(c.lanes) != c.reg.Len() {
		// reloaded behind our back
		c.reset()
	}
	if req.Reference != nil {
		c.reg.Reference = *req.Reference
	}

	rows := c.rows()
	var hidden []int
	for _, h := range req.Hidden {
		if h >= 0 && h < len(rows) && rows[h].lane < 0 {
			hidden = append(hidden, rows[h].slot)
		}
	}
	c.reg.SetHidden(hidden)

	var target *int
	if !edited && req.Target != nil {
		target = c.resolve(rows, *req.Target)
	}
	results, cplx, err := c.sample(req, target)
	if err != nil {
		return Response{}, err
	}

	if target != nil {
		c.complex = c.complex || cplx
		c.store(*target, results)
	} else {
		c.complex = cplx
		for slot := 0; slot < c.reg.Len(); slot++ {
			if !c.reg.Hidden(slot) {
				c.store(slot, results)
			}
		}
	}
	return Response{
		Outputs: results,
		Complex: c.complex,
		Partial: target != nil,
		Display: c.display(),
		Source:  c.reg.Source(),
		Is3D:    c.reg.Is3D(),
	}, nil
}

func (c *Coordinator) rows() []row {
	var rows []row
	for slot, k := range c.lanes {
		if k == 0 {
			rows = append(rows, row{slot: slot, lane: -1})
			continue
		}
		for lane := 0; lane < k; lane++ {
			rows = append(rows, row{slot: slot, lane: lane})
		}
	}
	return rows
}

// resolve maps a display row to a slot for a single-plot refresh. Rows
// that are lanes, out of range or failed slots resolve to nothing.
func (c *Coordinator) resolve(rows []row, t int) *int {
	if t < 0 || t >= len(rows) || rows[t].lane >= 0 {
		Logger().Debug("goplot: target is not a whole plot, sampling all", "row", t)
		return nil
	}
	slot := rows[t].slot
	if c.reg.Plot(slot) == nil {
		return nil
	}
	return &slot
}

// store records the output of slot from results, if any.
func (c *Coordinator) store(slot int, results []Result) {
	delete(c.last, slot)
	c.lanes[slot] = 0
	for _, r := range results {
		if r.Slot != slot {
			continue
		}
		c.last[slot] = r.Output
		if l, ok := r.Output.(*List); ok {
			c.lanes[slot] = len(l.Items)
		}
	}
}

func (c *Coordinator) display() []Display {
	segs := c.reg.Segments()
	if len(segs) != len(c.lanes) {
		panic(fmt.Sprintf("goplot: %d segments for %d slots", len(segs), len(c.lanes)))
	}
	rows := c.rows()
	out := make([]Display, len(rows))
	for i, r := range rows {
		var o Output = c.last[r.slot]
		if r.lane >= 0 {
			o = c.last[r.slot].(*List).Items[r.lane]
		}
		out[i] = Display{Slot: r.slot, Name: segs[r.slot].Name, Vars: segs[r.slot].Vars, Show: ShowOf(o)}
	}
	return out
}

func (c *Coordinator) sample(req Request, target *int) ([]Result, bool, error) {
	opts := c.reg.Options()
	bound := req.Bound
	if bound == nil {
		if c.reg.Is3D() {
			bound = Width3D{
				StartX: opts.XRange.Min, StartY: opts.YRange.Min,
				EndX: opts.XRange.Max, EndY: opts.YRange.Max,
			}
		} else {
			bound = Width{Start: opts.XRange.Min, End: opts.XRange.Max}
		}
	}

	switch b := bound.(type) {
	case Width:
		switch p := precOrDefault(b.Prec).(type) {
		case Mult:
			n, err := scale(float64(p), opts.Samples2D)
			if err != nil {
				return nil, false, err
			}
			res, cplx := c.reg.Generate2D(b.Start, b.End, n, target)
			return res, cplx, nil
		case Dimension:
			res, cplx := c.reg.Generate2D(b.Start, b.End, p.X, target)
			return res, cplx, nil
		}
	case Width3D:
		switch p := precOrDefault(b.Prec).(type) {
		case Mult:
			nx, errX := scale(float64(p), opts.Samples3D[0])
			ny, errY := scale(float64(p), opts.Samples3D[1])
			if err := errors.Join(errX, errY); err != nil {
				return nil, false, err
			}
			res, cplx := c.reg.Generate3D(b.StartX, b.StartY, b.EndX, b.EndY, nx, ny, target)
			return res, cplx, nil
		case Dimension:
			res, cplx := c.reg.Generate3D(b.StartX, b.StartY, b.EndX, b.EndY, p.X, p.Y, target)
			return res, cplx, nil
		case Slice:
			n, err := scale(float64(p), opts.Samples2D)
			if err != nil {
				return nil, false, err
			}
			res, cplx := c.reg.GenerateSlice(b.StartX, b.StartY, b.EndX, b.EndY, n, n, req.SliceIndex, req.ViewX, target)
			return res, cplx, nil
		}
	}
	return nil, false, fmt.Errorf("%w: %T with %T", ErrUnsupportedBound, bound, precOf(bound))
}

func precOrDefault(p Prec) Prec {
	if p == nil {
		return Mult(1)
	}
	return p
}

func precOf(b Bound) Prec {
	switch b := b.(type) {
	case Width:
		return b.Prec
	case Width3D:
		return b.Prec
	}
	return nil
}

// scale multiplies a default sample count by a density factor.
func scale(p float64, n int) (int, error) {
	if !(p > 0) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: density %v", ErrUnsupportedBound, p)
	}
	return int(min(math.Round(p*float64(n)), math.MaxInt32)), nil
}
