package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/njchilds90/goplot"
)

type decoded struct {
	Outputs []struct {
		Slot   int `json:"slot"`
		Output struct {
			Type   string    `json:"type"`
			Values []float64 `json:"values"`
			Held   string    `json:"held"`
			Size   []int     `json:"size"`
		} `json:"output"`
	} `json:"outputs"`
	Is3D bool `json:"is3d"`
}

func runJSON(t *testing.T, stdin string, args ...string) decoded {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if code := run(args, strings.NewReader(stdin), &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	var d decoded
	if err := json.Unmarshal(stdout.Bytes(), &d); err != nil {
		t.Fatalf("decode %q: %v", stdout.String(), err)
	}
	return d
}

func TestRun_2D(t *testing.T) {
	d := runJSON(t, "", "-x", "0,2", "-density", "0.002", "x^2")
	if d.Is3D || len(d.Outputs) != 1 {
		t.Fatalf("unexpected response %+v", d)
	}
	if diff := cmp.Diff([]float64{0, 1, 4}, d.Outputs[0].Output.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Stdin(t *testing.T) {
	d := runJSON(t, "x\n", "-density", "0.01")
	if len(d.Outputs) != 1 || len(d.Outputs[0].Output.Values) != 11 {
		t.Errorf("want 11 samples, got %+v", d)
	}
}

func TestRun_3DAndSlice(t *testing.T) {
	d := runJSON(t, "", "-density", "0.1", "x*y")
	if !d.Is3D || d.Outputs[0].Output.Type != "surface" {
		t.Fatalf("want a surface, got %+v", d)
	}
	if diff := cmp.Diff([]int{5, 5}, d.Outputs[0].Output.Size); diff != "" {
		t.Errorf("size mismatch (-want +got):\n%s", diff)
	}

	d = runJSON(t, "", "-slice", "0", "-density", "0.004", "x*y")
	if o := d.Outputs[0].Output; o.Type != "series1d" || o.Held != "x" || len(o.Values) != 5 {
		t.Errorf("want a 5-sample slice holding x, got %+v", o)
	}
}

func TestRun_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	runJSON(t, "", "-png", path, "-density", "0.05", "sin(x)")
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("want a PNG at %s, got %v", path, err)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		args []string
		code int
	}{
		{[]string{")"}, 1},
		{[]string{"-x", "2,1", "x"}, 2},
		{[]string{"-nope"}, 2},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(tt.args, strings.NewReader(""), &stdout, &stderr); code != tt.code {
			t.Errorf("%v: want exit %d, got %d", tt.args, tt.code, code)
		}
	}
}

func TestPrintTable(t *testing.T) {
	reg, err := goplot.NewRegistry("1±x#x", goplot.DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := goplot.NewCoordinator(reg).Update(goplot.Request{
		Bound: goplot.Width{Start: -1, End: 1, Prec: goplot.Dimension{X: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := printTable(&buf, resp); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want a header and 3 rows, got:\n%s", buf.String())
	}
	for i, want := range []string{"1±x", "1±x", "x"} {
		if !strings.Contains(lines[i+1], want) || !strings.Contains(lines[i+1], "series1d") {
			t.Errorf("row %d: want %s series, got %q", i, want, lines[i+1])
		}
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"x^2", command{source: "x^2"}},
		{":hide 0 2", command{hide: []int{0, 2}}},
		{":show", command{hide: []int{}}},
		{":q", command{quit: true}},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.line)
		if err != nil {
			t.Errorf("%q: %v", tt.line, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(command{})); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", tt.line, diff)
		}
	}

	got, err := parseCommand(":row 3")
	if err != nil || got.target == nil || *got.target != 3 {
		t.Errorf(":row 3: want target 3, got %+v, %v", got, err)
	}
	for _, line := range []string{":row", ":hide a", ":bogus"} {
		if _, err := parseCommand(line); err == nil {
			t.Errorf("%q: want an error", line)
		}
	}
}
