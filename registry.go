package goplot

import (
	"fmt"
	"time"

	"github.com/njchilds90/goplot/sym"
)

// ============================================================
// Registry
// ============================================================

// Registry owns the classified plots of one source text. Slot i holds the
// i-th plot of the text, or nil when it failed to compile or classify; the
// slot index is a plot's only identity and changes only on Reload.
//
// A Registry is not safe for concurrent use. Sampling is parallel
// internally.
type Registry struct {
	compiler Compiler
	base     Options
	vars     []sym.Variable

	opts     Options
	source   string
	segments []Segment
	plots    []*Plot
	errs     []error
	hidden   map[int]bool

	// Reference is the parameter interval [Reference.X, Reference.Y] of
	// parametric curves.
	Reference Point2
}

// NewRegistry validates opts and loads source. vars are added after the
// definitions in opts.Vars. A nil compiler means SymCompiler.
//
// If source cannot be loaded the registry is still returned, empty,
// together with the error from Reload, and can be reloaded later.
func NewRegistry(source string, opts Options, vars []sym.Variable, compiler Compiler) (*Registry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	defs, err := opts.Variables()
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		defs = bindVariable(defs, v)
	}
	if compiler == nil {
		compiler = SymCompiler{}
	}
	r := &Registry{
		compiler:  compiler,
		base:      opts,
		vars:      defs,
		opts:      opts,
		hidden:    map[int]bool{},
		Reference: Point2{opts.XRange.Min, opts.XRange.Max},
	}
	r.opts.applyView()
	return r, r.Reload(source)
}

// Reload replaces every plot with the plots of source. Directives in the
// text are applied on top of the options the registry was created with.
// Hidden slots are cleared since slot indexes change.
//
// A directive error leaves the registry unchanged. If no plot is valid the
// registry is emptied and an error wrapping ErrNoPlots is returned.
func (r *Registry) Reload(source string) error {
	start := time.Now()
	planned, trailing := splitSource(source)

	opts := r.base
	apply := func(dirs []directive) error {
		for _, d := range dirs {
			if d.apply == nil {
				continue
			}
			if err := d.apply(&opts); err != nil {
				return err
			}
		}
		return nil
	}
	for _, p := range planned {
		if err := apply(p.dirs); err != nil {
			return err
		}
	}
	if err := apply(trailing); err != nil {
		return err
	}
	opts.applyView()
	if err := opts.Validate(); err != nil {
		return err
	}

	// Variables are scoped forward, so each plot compiles with the
	// definitions written before it.
	segments := make([]Segment, len(planned))
	plots := make([]*Plot, len(planned))
	errs := make([]error, len(planned))
	valid := 0
	vars := r.vars
	for i, p := range planned {
		for _, d := range p.dirs {
			if d.v != nil {
				vars = bindVariable(vars, *d.v)
			}
		}
		segments[i] = p.seg
		plots[i], errs[i] = r.load(p.seg, vars, opts)
		if errs[i] != nil {
			Logger().Debug("goplot: plot not loaded", "slot", i, "text", p.seg.Text, "err", errs[i])
			continue
		}
		valid++
	}

	r.opts = opts
	r.source = source
	r.hidden = map[int]bool{}
	if valid == 0 {
		r.segments, r.plots, r.errs = nil, nil, nil
		Logger().Warn("goplot: reload produced no plots", "source", source, "segments", len(planned))
		return fmt.Errorf("%w in %q", ErrNoPlots, source)
	}
	r.segments, r.plots, r.errs = segments, plots, errs
	Logger().Debug("goplot: reloaded", "plots", valid, "slots", len(plots), "elapsed", time.Since(start))
	return nil
}

func (r *Registry) load(seg Segment, vars []sym.Variable, opts Options) (*Plot, error) {
	expr, err := r.compiler.Compile(seg.Text, vars, opts.symOptions())
	if err != nil {
		return nil, err
	}
	return Classify(expr, seg.Vertical)
}

// Len returns the number of slots.
func (r *Registry) Len() int { return len(r.plots) }

// Plot returns the plot in slot i, or nil for a failed or missing slot.
func (r *Registry) Plot(i int) *Plot {
	if i < 0 || i >= len(r.plots) {
		return nil
	}
	return r.plots[i]
}

// Err returns why slot i has no plot.
func (r *Registry) Err(i int) error {
	if i < 0 || i >= len(r.errs) {
		return nil
	}
	return r.errs[i]
}

// Segments returns the parsed plots of the current source text, one per
// slot.
func (r *Registry) Segments() []Segment { return r.segments }

// Source returns the text last passed to Reload.
func (r *Registry) Source() string { return r.source }

// Options returns the options in force after the last Reload.
func (r *Registry) Options() Options { return r.opts }

// SetHidden replaces the hidden set. Indexes outside the slot range are
// ignored.
func (r *Registry) SetHidden(slots []int) {
	r.hidden = make(map[int]bool, len(slots))
	for _, i := range slots {
		if i >= 0 && i < len(r.plots) {
			r.hidden[i] = true
		}
	}
}

// Hidden reports whether slot i is hidden.
func (r *Registry) Hidden(i int) bool { return r.hidden[i] }

// Is3D reports whether any plot has 3D output.
func (r *Registry) Is3D() bool {
	for _, p := range r.plots {
		if p != nil && p.Is3D() {
			return true
		}
	}
	return false
}

// slots lists the slots a pass samples: only target when it names a
// loaded plot, otherwise every visible loaded plot.
func (r *Registry) slots(target *int) []int {
	if target != nil && r.Plot(*target) != nil {
		if r.hidden[*target] {
			return nil
		}
		return []int{*target}
	}
	var out []int
	for i, p := range r.plots {
		if p != nil && !r.hidden[i] {
			out = append(out, i)
		}
	}
	return out
}

func (r *Registry) sampler() sampler {
	return sampler{workers: r.opts.Workers, ref: r.Reference}
}

func (r *Registry) generate(pass string, target *int, cells int, fn func(s sampler, p *Plot) Output) ([]Result, bool) {
	start := time.Now()
	s := r.sampler()
	var out []Result
	for _, i := range r.slots(target) {
		if o := fn(s, r.plots[i]); o != nil {
			out = append(out, Result{Slot: i, Output: o})
		}
	}
	Logger().Debug("goplot: sampled", "pass", pass, "outputs", len(out), "cells", cells, "elapsed", time.Since(start))
	return out, anyComplex(out)
}

// Generate2D samples every visible plot, or only target, over [start, end]
// with n intervals. It returns the outputs in slot order and whether any
// of them is complex. n is clamped to the configured sample limit.
func (r *Registry) Generate2D(start, end float64, n int, target *int) ([]Result, bool) {
	n = r.opts.clamp1D(n)
	return r.generate("2d", target, n+1, func(s sampler, p *Plot) Output {
		return s.plot2D(p, start, end, n)
	})
}

// Generate3D samples every visible plot, or only target, on an
// (nx+1)×(ny+1) grid over the rectangle from (startX, startY) to
// (endX, endY).
func (r *Registry) Generate3D(startX, startY, endX, endY float64, nx, ny int, target *int) ([]Result, bool) {
	nx, ny = r.opts.clamp2D(nx, ny)
	return r.generate("3d", target, (nx+1)*(ny+1), func(s sampler, p *Plot) Output {
		return s.plot3D(p, startX, startY, endX, endY, nx, ny)
	})
}

// GenerateSlice samples the 2D cross-section of a 3D bound that holds x,
// or y when viewX is set, at index steps from the middle of its grid.
func (r *Registry) GenerateSlice(startX, startY, endX, endY float64, nx, ny, index int, viewX bool, target *int) ([]Result, bool) {
	nx, ny = r.opts.clamp1D(nx), r.opts.clamp1D(ny)
	sp := newSlicePlane(startX, startY, endX, endY, nx, ny, index, viewX)
	return r.generate("slice", target, sp.n+1, func(s sampler, p *Plot) Output {
		return s.plotSlice(p, sp)
	})
}
