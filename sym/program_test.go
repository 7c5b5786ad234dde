package sym_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/njchilds90/goplot/sym"
)

func mustVar(t *testing.T, def string) sym.Variable {
	t.Helper()
	v, err := sym.ParseVariable(def)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// ============================================================
// Program tests
// ============================================================

func TestCompile_InlinesConstants(t *testing.T) {
	p, err := sym.Compile("a*x", []sym.Variable{mustVar(t, "a=2")}, sym.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != "2*x" {
		t.Errorf("want 2*x, got %s", p)
	}
	if !p.Uses(sym.AxisX) || p.Uses(sym.AxisY) {
		t.Errorf("a*x should use x only")
	}
}

func TestCompile_AxisDependentDefinition(t *testing.T) {
	vars := []sym.Variable{mustVar(t, "f=x^2"), mustVar(t, "g=f+c"), mustVar(t, "c=1")}
	p, err := sym.Compile("g", vars, sym.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !p.Uses(sym.AxisX) {
		t.Fatal("g should use x through f")
	}
	v, err := p.Sub(sym.AxisX, 3).Simplify().Eval()
	if err != nil {
		t.Fatal(err)
	}
	if v != sym.Scalar(10) {
		t.Errorf("want 10, got %s", v)
	}
	if p.Sub(sym.AxisX, 3).Uses(sym.AxisX) {
		t.Error("substituted program should not use x")
	}
}

func TestCompile_MultiFlagSurvivesFolding(t *testing.T) {
	tests := []struct {
		src  string
		vars []string
		want bool
	}{
		{"quadratic(1, 0, -4)", nil, true},
		{"r", []string{"r=1±2"}, true},
		{"x^2", nil, false},
		{"(x, 1)", nil, false},
	}
	for _, tt := range tests {
		var vars []sym.Variable
		for _, d := range tt.vars {
			vars = append(vars, mustVar(t, d))
		}
		p, err := sym.Compile(tt.src, vars, sym.Options{})
		if err != nil {
			t.Fatal(err)
		}
		if p.Multi() != tt.want {
			t.Errorf("%s: want multi=%v, got %v", tt.src, tt.want, p.Multi())
		}
	}
}

func TestCompile_UnusedVariableIgnored(t *testing.T) {
	p, err := sym.Compile("x", []sym.Variable{mustVar(t, "r=quadratic(1,0,-1)")}, sym.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Multi() {
		t.Error("unused multi-output variable should not mark the program")
	}
}

func TestCompile_CyclicDefinitionIsUnbound(t *testing.T) {
	vars := []sym.Variable{mustVar(t, "a=b+1"), mustVar(t, "b=a+1")}
	p, err := sym.Compile("a", vars, sym.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Eval(); !errors.Is(err, sym.ErrUnbound) {
		t.Errorf("want ErrUnbound, got %v", err)
	}
}

func TestProgram_Precision(t *testing.T) {
	p, err := sym.Compile("x", nil, sym.Options{Prec: 8})
	if err != nil {
		t.Fatal(err)
	}
	v, err := p.Sub(sym.AxisX, 1.0/3).Eval()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sym.Scalar(0.333984375), v); diff != "" {
		t.Errorf("8-bit rounding mismatch (-want +got):\n%s", diff)
	}
}

func TestProgram_Surface(t *testing.T) {
	p, err := sym.Compile("x*y", nil, sym.Options{})
	if err != nil {
		t.Fatal(err)
	}
	row := p.Sub(sym.AxisY, 2).Simplify()
	if row.Uses(sym.AxisY) || !row.Uses(sym.AxisX) {
		t.Fatalf("row should depend on x only, got %s", row)
	}
	v, err := row.Sub(sym.AxisX, 3).Eval()
	if err != nil {
		t.Fatal(err)
	}
	if v != sym.Scalar(6) {
		t.Errorf("want 6, got %s", v)
	}
}
