package goplot

import "errors"

var (
	// ErrNoPlots is returned when no segment of a source text compiles to a
	// plot. The registry is left empty.
	ErrNoPlots = errors.New("goplot: no valid plots")

	// ErrUnclassifiable is returned when an expression's probe value is not
	// one of the supported shapes.
	ErrUnclassifiable = errors.New("goplot: cannot classify expression")

	// ErrUnsupportedBound is returned for a bound/precision combination the
	// coordinator cannot sample, such as a 2D bound with a slice precision.
	ErrUnsupportedBound = errors.New("goplot: unsupported bound")
)
