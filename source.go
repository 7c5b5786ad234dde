package goplot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/njchilds90/goplot/sym"
)

// ============================================================
// Source text
// ============================================================

// Segment is one plot of a source text.
type Segment struct {
	// Vars are the directives written since the previous plot, as typed.
	Vars []string
	// Name is the plot as typed, including any x= or y= prefix.
	Name string
	// Text is the expression handed to the compiler.
	Text string
	// Vertical is set for plots written as x=...
	Vertical bool
}

// directive is a ';' or '#' separated piece that configures the plots
// after it instead of being plotted.
type directive struct {
	text string
	// exactly one of v and apply is set
	v     *sym.Variable
	apply func(*Options) error
}

// optionDirectives are the option settings a source text may carry.
var optionDirectives = map[string]func(o *Options, val string) error{
	"xr":  rangeDirective(func(o *Options) *Range { return &o.XRange }),
	"yr":  rangeDirective(func(o *Options) *Range { return &o.YRange }),
	"zr":  rangeDirective(func(o *Options) *Range { return &o.ZRange }),
	"vxr": rangeDirective(func(o *Options) *Range { return &o.ViewX }),
	"vyr": rangeDirective(func(o *Options) *Range { return &o.ViewY }),
	"vzr": rangeDirective(func(o *Options) *Range { return &o.ViewZ }),
	"samples": func(o *Options, val string) error {
		n, err := strconv.Atoi(val)
		o.Samples2D = n
		return err
	},
	"samples2d": func(o *Options, val string) error {
		n, err := strconv.Atoi(val)
		o.Samples2D = n
		return err
	},
	"samples3d": func(o *Options, val string) error {
		g, err := ParseGrid(val)
		o.Samples3D = g
		return err
	},
	"prec": func(o *Options, val string) error {
		n, err := strconv.ParseUint(val, 10, 32)
		o.Prec = uint(n)
		return err
	},
}

func rangeDirective(field func(*Options) *Range) func(*Options, string) error {
	return func(o *Options, val string) error {
		r, err := ParseRange(val)
		if err != nil {
			return err
		}
		*field(o) = r
		return nil
	}
}

// parseDirective recognizes option settings and variable definitions.
// Anything else, including x=... and y=..., is a plot.
func parseDirective(piece string) (directive, bool) {
	key, val, ok := strings.Cut(piece, "=")
	if !ok {
		return directive{}, false
	}
	key, val = strings.TrimSpace(key), strings.TrimSpace(val)
	if key == AxisX || key == AxisY {
		return directive{}, false
	}
	if set, ok := optionDirectives[key]; ok {
		return directive{text: piece, apply: func(o *Options) error {
			if err := set(o, val); err != nil {
				return fmt.Errorf("goplot: directive %q: %w", piece, err)
			}
			return nil
		}}, true
	}
	v, err := sym.ParseVariable(piece)
	if err != nil {
		return directive{}, false
	}
	return directive{text: piece, v: &v}, true
}

// planned is a segment together with the directives that precede it.
type planned struct {
	seg  Segment
	dirs []directive
}

// splitSource splits a source text on '#' and ';'. Directives apply to
// every plot after them; trailing directives with no plot after them
// still apply to the options.
func splitSource(src string) (plots []planned, trailing []directive) {
	var pending []directive
	for _, group := range strings.Split(src, "#") {
		for _, piece := range strings.Split(group, ";") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if d, ok := parseDirective(piece); ok {
				pending = append(pending, d)
				continue
			}
			seg := Segment{Name: piece, Text: piece}
			for _, d := range pending {
				seg.Vars = append(seg.Vars, d.text)
			}
			if lhs, rhs, ok := strings.Cut(piece, "="); ok {
				switch strings.TrimSpace(lhs) {
				case AxisX:
					seg.Text, seg.Vertical = strings.TrimSpace(rhs), true
				case AxisY:
					seg.Text = strings.TrimSpace(rhs)
				}
			}
			plots = append(plots, planned{seg: seg, dirs: pending})
			pending = nil
		}
	}
	return plots, pending
}

// bindVariable adds v to vars, replacing an earlier definition of the
// same name.
func bindVariable(vars []sym.Variable, v sym.Variable) []sym.Variable {
	for i := range vars {
		if vars[i].Name == v.Name {
			out := append([]sym.Variable(nil), vars...)
			out[i] = v
			return out
		}
	}
	return append(vars[:len(vars):len(vars)], v)
}
