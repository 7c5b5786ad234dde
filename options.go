package goplot

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/goplot/sym"
)

// Range is a closed interval on one axis.
type Range struct {
	Min, Max float64
}

// IsZero reports whether r is the unset range [0, 0].
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

func (r Range) String() string {
	return strconv.FormatFloat(r.Min, 'g', -1, 64) + "," + strconv.FormatFloat(r.Max, 'g', -1, 64)
}

// ParseRange parses "min,max".
func ParseRange(s string) (Range, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return Range{}, fmt.Errorf("range %q: want min,max", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	return Range{Min: lo, Max: hi}, nil
}

// UnmarshalYAML accepts "min,max", a two-element sequence or a
// {min, max} mapping.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := ParseRange(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = v
		return nil
	case yaml.SequenceNode:
		var pair []float64
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: range needs 2 values, got %d", node.Line, len(pair))
		}
		*r = Range{Min: pair[0], Max: pair[1]}
		return nil
	case yaml.MappingNode:
		var m struct {
			Min float64 `yaml:"min"`
			Max float64 `yaml:"max"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*r = Range{Min: m.Min, Max: m.Max}
		return nil
	}
	return fmt.Errorf("line %d: cannot decode range", node.Line)
}

// Grid is a sample count per axis for 3D sweeps.
type Grid [2]int

// UnmarshalYAML accepts a single count for both axes, "nx,ny" or a
// two-element sequence.
func (g *Grid) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := ParseGrid(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*g = v
		return nil
	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: grid needs 2 values, got %d", node.Line, len(pair))
		}
		*g = Grid{pair[0], pair[1]}
		return nil
	}
	return fmt.Errorf("line %d: cannot decode grid", node.Line)
}

// ParseGrid parses "n" or "nx,ny".
func ParseGrid(s string) (Grid, error) {
	a, b, pair := strings.Cut(s, ",")
	nx, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Grid{}, fmt.Errorf("grid %q: %w", s, err)
	}
	if !pair {
		return Grid{nx, nx}, nil
	}
	ny, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return Grid{}, fmt.Errorf("grid %q: %w", s, err)
	}
	return Grid{nx, ny}, nil
}

// Options configures compilation and sampling.
type Options struct {
	// Prec is the mantissa precision, in bits, of substituted axis values.
	Prec uint `yaml:"prec"`
	// Samples2D is the default number of intervals of a 2D sweep.
	Samples2D int `yaml:"samples2d"`
	// Samples3D is the default number of intervals per axis of a 3D sweep.
	Samples3D Grid `yaml:"samples3d"`
	// MaxSamples caps the number of cells evaluated in one pass. The
	// smallest grid is 2x2, so it must be at least 4.
	MaxSamples int `yaml:"max_samples"`

	XRange Range `yaml:"xr"`
	YRange Range `yaml:"yr"`
	ZRange Range `yaml:"zr"`

	// View ranges replace the axis ranges after a load when non-zero.
	ViewX Range `yaml:"vxr"`
	ViewY Range `yaml:"vyr"`
	ViewZ Range `yaml:"vzr"`

	// Workers bounds sampling parallelism; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Vars holds named definitions, name to expression.
	Vars map[string]string `yaml:"vars"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Prec:       53,
		Samples2D:  1000,
		Samples3D:  Grid{50, 50},
		MaxSamples: 1 << 20,
		XRange:     Range{-10, 10},
		YRange:     Range{-10, 10},
		ZRange:     Range{-10, 10},
	}
}

// ParseOptions decodes YAML on top of DefaultOptions.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("goplot: parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptions reads a YAML options file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("goplot: load options: %w", err)
	}
	return ParseOptions(data)
}

// Validate reports the first invalid field.
func (o Options) Validate() error {
	switch {
	case o.Samples2D < 1:
		return fmt.Errorf("goplot: samples2d must be positive, got %d", o.Samples2D)
	case o.Samples3D[0] < 1 || o.Samples3D[1] < 1:
		return fmt.Errorf("goplot: samples3d must be positive, got %d,%d", o.Samples3D[0], o.Samples3D[1])
	case o.MaxSamples < 4:
		return fmt.Errorf("goplot: max_samples must be at least 4, got %d", o.MaxSamples)
	case o.Prec > 1<<16:
		return fmt.Errorf("goplot: prec %d out of range", o.Prec)
	case o.Workers < 0:
		return fmt.Errorf("goplot: workers must not be negative, got %d", o.Workers)
	}
	for i, r := range []Range{o.XRange, o.YRange, o.ZRange} {
		if !(r.Min < r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
			return fmt.Errorf("goplot: %cr must be a finite increasing range, got %s", 'x'+i, r)
		}
	}
	return nil
}

// Variables parses Vars into definitions, sorted by name.
func (o Options) Variables() ([]sym.Variable, error) {
	names := make([]string, 0, len(o.Vars))
	for name := range o.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	vars := make([]sym.Variable, 0, len(names))
	for _, name := range names {
		v, err := sym.ParseVariable(name + "=" + o.Vars[name])
		if err != nil {
			return nil, fmt.Errorf("goplot: variable %s: %w", name, err)
		}
		vars = append(vars, v)
	}
	return vars, nil
}

// applyView replaces axis ranges by the non-zero view ranges.
func (o *Options) applyView() {
	if !o.ViewX.IsZero() {
		o.XRange = o.ViewX
	}
	if !o.ViewY.IsZero() {
		o.YRange = o.ViewY
	}
	if !o.ViewZ.IsZero() {
		o.ZRange = o.ViewZ
	}
}

func (o Options) symOptions() sym.Options { return sym.Options{Prec: o.Prec} }

// clamp1D bounds a 2D sample count to [1, MaxSamples-1].
func (o Options) clamp1D(n int) int {
	return max(1, min(n, o.MaxSamples-1))
}

// clamp2D bounds a 3D grid so that (nx+1)*(ny+1) does not exceed
// MaxSamples, keeping the aspect ratio.
func (o Options) clamp2D(nx, ny int) (int, int) {
	nx, ny = max(1, nx), max(1, ny)
	cells := float64(nx+1) * float64(ny+1)
	if cells <= float64(o.MaxSamples) {
		return nx, ny
	}
	f := math.Sqrt(float64(o.MaxSamples) / cells)
	nx, ny = max(1, int(float64(nx)*f)), max(1, int(float64(ny)*f))
	for (nx+1)*(ny+1) > o.MaxSamples && (nx > 1 || ny > 1) {
		if nx >= ny {
			nx--
		} else {
			ny--
		}
	}
	return nx, ny
}
