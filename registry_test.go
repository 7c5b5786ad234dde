package goplot_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/njchilds90/goplot"
	"github.com/njchilds90/goplot/sym"
)

// fakeExpr is a function of x with no symbolic structure. Substitute binds
// x; Eval calls fn with the bound value.
type fakeExpr struct {
	fn    func(x float64) sym.Value
	x     float64
	bound bool
	multi bool
}

func (f fakeExpr) Substitute(axis string, v float64) goplot.Expression {
	if axis == goplot.AxisX {
		f.x, f.bound = v, true
	}
	return f
}

func (f fakeExpr) Simplify() goplot.Expression { return f }

func (f fakeExpr) Eval() (sym.Value, error) {
	if !f.bound {
		return nil, sym.ErrUnbound
	}
	return f.fn(f.x), nil
}

func (f fakeExpr) Uses(axis string) bool { return axis == goplot.AxisX && !f.bound }
func (f fakeExpr) MultiOutput() bool     { return f.multi }

type fakeCompiler map[string]goplot.Expression

func (c fakeCompiler) Compile(text string, _ []sym.Variable, _ sym.Options) (goplot.Expression, error) {
	if e, ok := c[text]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown plot %q", text)
}

func newRegistry(t *testing.T, src string, opts goplot.Options) *goplot.Registry {
	t.Helper()
	r, err := goplot.NewRegistry(src, opts, nil, nil)
	if err != nil {
		t.Fatalf("NewRegistry(%q): %v", src, err)
	}
	return r
}

func reals(zs []complex128) []float64 {
	out := make([]float64, len(zs))
	for i, z := range zs {
		out[i] = real(z)
	}
	return out
}

// ============================================================
// Registry
// ============================================================

func TestRegistry_EndToEnd(t *testing.T) {
	opts := goplot.DefaultOptions()
	opts.Samples2D = 5
	r := newRegistry(t, "x^2;sin(x)", opts)
	if r.Len() != 2 {
		t.Fatalf("want 2 plots, got %d", r.Len())
	}
	for i := 0; i < 2; i++ {
		if _, ok := r.Plot(i).Kind.(goplot.Scalar); !ok {
			t.Errorf("plot %d: want Scalar, got %s", i, goplot.KindName(r.Plot(i).Kind))
		}
	}

	resp, err := goplot.NewCoordinator(r).Update(goplot.Request{
		Bound: goplot.Width{Start: -2, End: 2, Prec: goplot.Mult(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Complex {
		t.Error("real plots flagged complex")
	}
	if len(resp.Outputs) != 2 {
		t.Fatalf("want 2 outputs, got %d", len(resp.Outputs))
	}

	xs := []float64{-2, -1.2, -0.4, 0.4, 1.2, 2}
	fns := []func(float64) float64{func(x float64) float64 { return x * x }, math.Sin}
	for i, res := range resp.Outputs {
		s, ok := res.Output.(*goplot.Series1D)
		if !ok {
			t.Fatalf("output %d: want *Series1D, got %T", i, res.Output)
		}
		if s.Channel != goplot.Real || s.Axis != goplot.AxisX {
			t.Errorf("output %d: want real series on x, got %s on %s", i, s.Channel, s.Axis)
		}
		want := make([]float64, len(xs))
		for j, x := range xs {
			want[j] = fns[i](x)
		}
		if diff := cmp.Diff(want, reals(s.Values), approx); diff != "" {
			t.Errorf("output %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRegistry_FailedSlotKeepsIndex(t *testing.T) {
	r := newRegistry(t, "x#)#x^2", goplot.DefaultOptions())
	if r.Len() != 3 {
		t.Fatalf("want 3 slots, got %d", r.Len())
	}
	if r.Plot(1) != nil || r.Err(1) == nil {
		t.Error("slot 1 should have failed with an error")
	}
	res, _ := r.Generate2D(0, 1, 4, nil)
	var slots []int
	for _, x := range res {
		slots = append(slots, x.Slot)
	}
	if diff := cmp.Diff([]int{0, 2}, slots); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_NoPlots(t *testing.T) {
	r, err := goplot.NewRegistry(")(", goplot.DefaultOptions(), nil, nil)
	if !errors.Is(err, goplot.ErrNoPlots) {
		t.Fatalf("want ErrNoPlots, got %v", err)
	}
	if r == nil || r.Len() != 0 {
		t.Fatal("want an empty registry")
	}
	if err := r.Reload("x"); err != nil {
		t.Fatalf("reload after failure: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("want 1 plot after reload, got %d", r.Len())
	}
}

func TestRegistry_IndexAlignment(t *testing.T) {
	r := newRegistry(t, "x#sqrt(x)#1±x#x*y", goplot.DefaultOptions())
	for _, n := range []int{1, 7, 100} {
		res, _ := r.Generate2D(-1, 1, n, nil)
		if len(res) != 3 {
			t.Fatalf("n=%d: want 3 outputs, got %d", n, len(res))
		}
		for _, x := range res {
			switch o := x.Output.(type) {
			case *goplot.Series1D:
				if len(o.Values) != n+1 {
					t.Errorf("n=%d slot %d: want %d values, got %d", n, x.Slot, n+1, len(o.Values))
				}
			case *goplot.List:
				if len(o.Items) != 2 {
					t.Errorf("n=%d: want 2 lanes, got %d", n, len(o.Items))
				}
				for _, it := range o.Items {
					if got := len(it.(*goplot.Series1D).Values); got != n+1 {
						t.Errorf("n=%d: lane has %d values, want %d", n, got, n+1)
					}
				}
			default:
				t.Errorf("unexpected %T", o)
			}
		}
	}

	res, _ := r.Generate3D(-1, -1, 1, 1, 3, 5, nil)
	if len(res) != 1 || res[0].Slot != 3 {
		t.Fatalf("want only x*y in 3D, got %v", res)
	}
	if got := len(res[0].Output.(*goplot.Surface).Values); got != 4*6 {
		t.Errorf("want %d cells, got %d", 4*6, got)
	}
}

func TestRegistry_ListFanOut(t *testing.T) {
	roots := fakeExpr{multi: true, fn: func(x float64) sym.Value {
		if int(x)%2 == 0 {
			return sym.Vector{complex(x, 0), complex(-x, 0)}
		}
		return sym.Vector{complex(x, 0)}
	}}
	r, err := goplot.NewRegistry("roots", goplot.DefaultOptions(), nil, fakeCompiler{"roots": roots})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Plot(0).Kind.(goplot.MultiValued); !ok {
		t.Fatalf("want MultiValued, got %s", goplot.KindName(r.Plot(0).Kind))
	}

	res, cplx := r.Generate2D(0, 3, 3, nil)
	if cplx {
		t.Error("real roots flagged complex")
	}
	list, ok := res[0].Output.(*goplot.List)
	if !ok {
		t.Fatalf("want *List, got %T", res[0].Output)
	}
	if len(list.Items) != 2 {
		t.Fatalf("want 2 lanes, got %d", len(list.Items))
	}
	want := [][]float64{{0, 1, 2, 3}, {0, math.NaN(), -2, math.NaN()}}
	for k, lane := range list.Items {
		s := lane.(*goplot.Series1D)
		if diff := cmp.Diff(want[k], reals(s.Values), approx); diff != "" {
			t.Errorf("lane %d mismatch (-want +got):\n%s", k, diff)
		}
	}
}

func TestRegistry_SolveLanes(t *testing.T) {
	r := newRegistry(t, "solve(t^2 - x, t)", goplot.DefaultOptions())
	res, _ := r.Generate2D(-2, 2, 4, nil)
	list, ok := res[0].Output.(*goplot.List)
	if !ok {
		t.Fatalf("want *List, got %T", res[0].Output)
	}
	// the double root at x=0 is one lane value, not a cluster
	if len(list.Items) != 2 {
		t.Fatalf("want 2 lanes, got %d", len(list.Items))
	}
	nan := math.NaN()
	want := [][]float64{
		{nan, nan, 0, -1, -math.Sqrt2},
		{nan, nan, nan, 1, math.Sqrt2},
	}
	loose := cmp.Options{cmpopts.EquateApprox(0, 1e-4), cmpopts.EquateNaNs()}
	for k, lane := range list.Items {
		s := lane.(*goplot.Series1D)
		if diff := cmp.Diff(want[k], reals(s.Values), loose); diff != "" {
			t.Errorf("lane %d mismatch (-want +got):\n%s", k, diff)
		}
	}
}

func TestRegistry_SliceMatchesSurface(t *testing.T) {
	r := newRegistry(t, "x^2*y + sin(y) - x", goplot.DefaultOptions())
	res, _ := r.Generate3D(-2, -2, 2, 2, 4, 4, nil)
	surf := res[0].Output.(*goplot.Surface)

	res, _ = r.GenerateSlice(-2, -2, 2, 2, 4, 4, 0, false, nil)
	col := res[0].Output.(*goplot.Series1D)
	if col.Held != goplot.AxisX || col.HeldAt != 0 || col.Axis != goplot.AxisY {
		t.Fatalf("want y sweep at x=0, got %s sweep at %s=%v", col.Axis, col.Held, col.HeldAt)
	}
	res, _ = r.GenerateSlice(-2, -2, 2, 2, 4, 4, 0, true, nil)
	row := res[0].Output.(*goplot.Series1D)

	var wantCol, wantRow []complex128
	for k := 0; k <= 4; k++ {
		wantCol = append(wantCol, surf.Value(2, k))
		wantRow = append(wantRow, surf.Value(k, 2))
	}
	if diff := cmp.Diff(wantCol, col.Values, approx); diff != "" {
		t.Errorf("x slice mismatch (-surface +slice):\n%s", diff)
	}
	if diff := cmp.Diff(wantRow, row.Values, approx); diff != "" {
		t.Errorf("y slice mismatch (-surface +slice):\n%s", diff)
	}
}

func TestRegistry_Parametric(t *testing.T) {
	r := newRegistry(t, "(cos(x), sin(x))#(1, 2)", goplot.DefaultOptions())
	r.Reference = goplot.Point2{X: 0, Y: math.Pi}
	res, _ := r.Generate2D(-100, 100, 2, nil)
	if len(res) != 2 {
		t.Fatalf("want 2 outputs, got %d", len(res))
	}
	curve := res[0].Output.(*goplot.Series2D)
	want := []goplot.Coord2{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}
	if diff := cmp.Diff(want, curve.Points, approx); diff != "" {
		t.Errorf("curve mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&goplot.ConstantPoint{Point: goplot.Point2{X: 1, Y: 2}}, res[1].Output); diff != "" {
		t.Errorf("point mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_HiddenAndTarget(t *testing.T) {
	r := newRegistry(t, "x#2*x#3*x", goplot.DefaultOptions())
	r.SetHidden([]int{1, 7, -1})
	res, _ := r.Generate2D(0, 1, 2, nil)
	if len(res) != 2 || res[0].Slot != 0 || res[1].Slot != 2 {
		t.Errorf("want slots 0 and 2, got %v", res)
	}
	target := 2
	res, _ = r.Generate2D(0, 1, 2, &target)
	if len(res) != 1 || res[0].Slot != 2 {
		t.Errorf("want only slot 2, got %v", res)
	}
	target = 1
	if res, _ = r.Generate2D(0, 1, 2, &target); len(res) != 0 {
		t.Errorf("hidden target should produce nothing, got %v", res)
	}
}

func TestRegistry_Literals(t *testing.T) {
	r := newRegistry(t, "[[1, 2], [3, 4]]#[[1, 2, 3]]", goplot.DefaultOptions())
	if !r.Is3D() {
		t.Error("a 3D literal makes the registry 3D")
	}
	res, _ := r.Generate2D(0, 1, 10, nil)
	if len(res) != 1 || res[0].Slot != 0 {
		t.Fatalf("want only the 2D literal, got %v", res)
	}
	if got := len(res[0].Output.(*goplot.Series2D).Points); got != 2 {
		t.Errorf("want 2 points, got %d", got)
	}
	res, _ = r.Generate3D(0, 0, 1, 1, 2, 2, nil)
	if len(res) != 1 || res[0].Slot != 1 {
		t.Fatalf("want only the 3D literal, got %v", res)
	}
}

// ============================================================
// Source directives
// ============================================================

func TestRegistry_SourceDirectives(t *testing.T) {
	r := newRegistry(t, "a=2;a*x#y=x^2;x=3#xr=0,1;samples=10;b=a+1;b", goplot.DefaultOptions())
	want := []goplot.Segment{
		{Vars: []string{"a=2"}, Name: "a*x", Text: "a*x"},
		{Name: "y=x^2", Text: "x^2"},
		{Name: "x=3", Text: "3", Vertical: true},
		{Vars: []string{"xr=0,1", "samples=10", "b=a+1"}, Name: "b", Text: "b"},
	}
	if diff := cmp.Diff(want, r.Segments()); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
	opts := r.Options()
	if opts.XRange != (goplot.Range{Min: 0, Max: 1}) || opts.Samples2D != 10 {
		t.Errorf("directives not applied: xr=%s samples=%d", opts.XRange, opts.Samples2D)
	}

	res, _ := r.Generate2D(0, 1, 1, nil)
	if len(res) != 4 {
		t.Fatalf("want 4 outputs, got %d", len(res))
	}
	if diff := cmp.Diff([]float64{0, 2}, reals(res[0].Output.(*goplot.Series1D).Values)); diff != "" {
		t.Errorf("a*x mismatch (-want +got):\n%s", diff)
	}
	vertical := res[2].Output.(*goplot.ConstantValue)
	if !vertical.Vertical || vertical.Value != 3 {
		t.Errorf("want vertical line at 3, got %+v", vertical)
	}
	if c := res[3].Output.(*goplot.ConstantValue); c.Value != 3 || c.Vertical {
		t.Errorf("want horizontal line at 3, got %+v", c)
	}
}

func TestRegistry_BadDirective(t *testing.T) {
	r := newRegistry(t, "x", goplot.DefaultOptions())
	err := r.Reload("xr=1;x^2")
	if err == nil || errors.Is(err, goplot.ErrNoPlots) {
		t.Fatalf("want a directive error, got %v", err)
	}
	if r.Source() != "x" {
		t.Errorf("failed reload changed the source to %q", r.Source())
	}
}

func TestRegistry_OptionVariables(t *testing.T) {
	opts := goplot.DefaultOptions()
	opts.Vars = map[string]string{"k": "3"}
	r := newRegistry(t, "k*x", opts)
	res, _ := r.Generate2D(0, 1, 1, nil)
	if diff := cmp.Diff([]float64{0, 3}, reals(res[0].Output.(*goplot.Series1D).Values)); diff != "" {
		t.Errorf("k*x mismatch (-want +got):\n%s", diff)
	}
}
