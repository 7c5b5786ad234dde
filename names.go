package goplot

import "strings"

// Show tells a renderer which parts of a plot to display.
type Show int

const (
	ShowNone Show = iota
	ShowReal
	ShowImag
	ShowComplex
)

func (s Show) String() string {
	switch s {
	case ShowNone:
		return "none"
	case ShowReal:
		return "real"
	case ShowImag:
		return "imag"
	case ShowComplex:
		return "complex"
	}
	return "show(?)"
}

// MarshalText encodes the value by name.
func (s Show) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Name is one plot definition as a renderer holds it: the directives bound
// to it and the plot text.
type Name struct {
	Vars []string `json:"vars,omitempty"`
	Name string   `json:"name"`
}

// Display is the renderer-facing metadata of one display row. The rows
// of a list plot share a Slot.
type Display struct {
	Slot int      `json:"slot"`
	Name string   `json:"name"`
	Vars []string `json:"vars,omitempty"`
	Show Show     `json:"show"`
}

// parts reports which complex parts an output carries.
func parts(o Output) (re, im bool) {
	switch o := o.(type) {
	case nil:
		return false, false
	case *Series1D:
		return channelParts(o.Channel)
	case *Surface:
		return channelParts(o.Channel)
	case *Series2D:
		return channelParts(o.Channel)
	case *Series3D:
		return channelParts(o.Channel)
	case *ConstantValue:
		return channelParts(o.Channel)
	case *ConstantPoint:
		return true, false
	case *List:
		for _, it := range o.Items {
			r, i := parts(it)
			re, im = re || r, im || i
		}
		return re, im
	}
	panic("goplot: unknown output")
}

func channelParts(c Channel) (re, im bool) {
	switch c {
	case Imag:
		return false, true
	case Complex:
		return true, true
	}
	return true, false
}

// ShowOf derives the display mode of an output from its channels. A nil
// output shows nothing.
func ShowOf(o Output) Show {
	if o == nil {
		return ShowNone
	}
	switch re, im := parts(o); {
	case re && im:
		return ShowComplex
	case im:
		return ShowImag
	}
	return ShowReal
}

// BuildSource joins names into a source text: each plot's directives
// precede it, separated by ';', and plots are separated by '#'.
func BuildSource(names []Name) string {
	segs := make([]string, len(names))
	for i, n := range names {
		segs[i] = strings.Join(append(append([]string(nil), n.Vars...), n.Name), ";")
	}
	return strings.ReplaceAll(strings.Join(segs, "#"), ";#", ";")
}
