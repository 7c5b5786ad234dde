package goplot_test

import (
	"encoding/json"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/njchilds90/goplot"
)

// ============================================================
// Options
// ============================================================

func TestParseOptions(t *testing.T) {
	data := []byte(`
samples2d: 200
samples3d: 20
max_samples: 5000
xr: [-1, 1]
yr: "0,5"
zr: {min: -3, max: 3}
vxr: "-2,2"
workers: 2
vars:
  a: "2"
  f: "a*x"
`)
	got, err := goplot.ParseOptions(data)
	if err != nil {
		t.Fatal(err)
	}
	want := goplot.DefaultOptions()
	want.Samples2D = 200
	want.Samples3D = goplot.Grid{20, 20}
	want.MaxSamples = 5000
	want.XRange = goplot.Range{Min: -1, Max: 1}
	want.YRange = goplot.Range{Min: 0, Max: 5}
	want.ZRange = goplot.Range{Min: -3, Max: 3}
	want.ViewX = goplot.Range{Min: -2, Max: 2}
	want.Workers = 2
	want.Vars = map[string]string{"a": "2", "f": "a*x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	vars, err := got.Variables()
	if err != nil {
		t.Fatal(err)
	}
	if len(vars) != 2 || vars[0].Name != "a" || vars[1].Name != "f" {
		t.Errorf("want variables a, f in order, got %v", vars)
	}
}

func TestParseOptions_Invalid(t *testing.T) {
	for _, data := range []string{
		"xr: [1, -1]",
		"samples2d: 0",
		"samples3d: [3]",
		"yr: nope",
		"max_samples: 1",
		"max_samples: 3",
		"workers: -1",
		"xr: [1, 2, 3]",
	} {
		if _, err := goplot.ParseOptions([]byte(data)); err == nil {
			t.Errorf("%q: want an error", data)
		}
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.yaml")
	if err := os.WriteFile(path, []byte("samples3d: 8,12\nprec: 24\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := goplot.LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Samples3D != (goplot.Grid{8, 12}) || opts.Prec != 24 {
		t.Errorf("want samples3d 8,12 and prec 24, got %v and %d", opts.Samples3D, opts.Prec)
	}
	if _, err := goplot.LoadOptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("want an error for a missing file")
	}
}

func TestOptions_BadVariable(t *testing.T) {
	opts := goplot.DefaultOptions()
	opts.Vars = map[string]string{"x": "1"}
	if _, err := goplot.NewRegistry("x", opts, nil, nil); err == nil {
		t.Error("redefining an axis should fail")
	}
}

func TestParseRange(t *testing.T) {
	r, err := goplot.ParseRange(" -1.5 , 2e1 ")
	if err != nil {
		t.Fatal(err)
	}
	if r != (goplot.Range{Min: -1.5, Max: 20}) {
		t.Errorf("want -1.5,20, got %s", r)
	}
	for _, s := range []string{"1", "a,b", "1,"} {
		if _, err := goplot.ParseRange(s); err == nil {
			t.Errorf("%q: want an error", s)
		}
	}
}

// ============================================================
// JSON
// ============================================================

func TestMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		res  goplot.Result
		want string
	}{
		{
			"real series with a gap",
			goplot.Result{Slot: 1, Output: &goplot.Series1D{
				Axis: "x", Start: 0, End: 1,
				Values:  []complex128{1, complex(math.NaN(), 0)},
				Channel: goplot.Real,
			}},
			`{"slot":1,"output":{"type":"series1d","axis":"x","start":0,"end":1,"channel":"real","values":[1,null]}}`,
		},
		{
			"held slice",
			goplot.Result{Output: &goplot.Series1D{
				Axis: "y", Start: -1, End: 1, Held: "x", HeldAt: 0,
				Values:  []complex128{2i},
				Channel: goplot.Imag,
			}},
			`{"slot":0,"output":{"type":"series1d","axis":"y","start":-1,"end":1,"held":"x","held_at":0,"channel":"imag","values":[2]}}`,
		},
		{
			"complex constant",
			goplot.Result{Output: &goplot.ConstantValue{Value: complex(1, -1), Channel: goplot.Complex, Vertical: true}},
			`{"slot":0,"output":{"type":"constant","channel":"complex","value":[1,-1],"vertical":true}}`,
		},
		{
			"list of points",
			goplot.Result{Output: &goplot.List{Items: []goplot.Output{
				&goplot.ConstantPoint{Point: goplot.Point2{X: 1, Y: 2}},
				&goplot.Series2D{Points: []goplot.Coord2{{X: 0, Y: cmplx.NaN()}}, Channel: goplot.Real},
			}}},
			`{"slot":0,"output":{"type":"list","items":[{"type":"point","point":[1,2]},{"type":"series2d","channel":"real","points":[[0,null]]}]}}`,
		},
		{
			"empty list",
			goplot.Result{Output: &goplot.List{}},
			`{"slot":0,"output":{"type":"list","items":[]}}`,
		},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.res)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("%s:\nwant %s\n got %s", tt.name, tt.want, got)
		}
	}
}

func TestMarshalJSON_Response(t *testing.T) {
	c := newCoordinator(t, "x", goplot.DefaultOptions())
	resp, err := c.Update(goplot.Request{Bound: goplot.Width{Start: 0, End: 1, Prec: goplot.Dimension{X: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Outputs []struct {
			Slot   int `json:"slot"`
			Output struct {
				Type   string    `json:"type"`
				Values []float64 `json:"values"`
			} `json:"output"`
		} `json:"outputs"`
		Display []struct {
			Name string `json:"name"`
			Show string `json:"show"`
		} `json:"display"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Outputs) != 1 || decoded.Outputs[0].Output.Type != "series1d" {
		t.Fatalf("unexpected outputs %s", data)
	}
	if diff := cmp.Diff([]float64{0, 1}, decoded.Outputs[0].Output.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if len(decoded.Display) != 1 || decoded.Display[0].Show != "real" {
		t.Errorf("unexpected display %s", data)
	}
}
