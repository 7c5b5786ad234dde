package goplot

// ============================================================
// Sampled outputs
// ============================================================

// Output is one sampled primitive handed to a renderer. It is one of
// *Series1D, *Surface, *Series2D, *Series3D, *ConstantValue,
// *ConstantPoint or *List. Outputs are built fresh by every sampling pass
// and never modified afterwards.
type Output interface {
	// IsComplex reports whether the output needs both complex parts.
	IsComplex() bool
	outputName() string
}

// Coord2 is a sampled plane point with a complex dependent value.
type Coord2 struct {
	X float64
	Y complex128
}

// Coord3 is a sampled space point with a complex dependent value.
type Coord3 struct {
	X, Y float64
	Z complex128
}

// Series1D holds len(Values) evenly spaced samples of a function of one
// axis over [Start, End]. For a slice of a 3D plot, Held names the axis
// fixed at HeldAt.
type Series1D struct {
	Axis       string
	Start, End float64
	Held       string
	HeldAt     float64
	Values     []complex128
	Channel    Channel
}

// At returns the axis coordinate of sample i.
func (s *Series1D) At(i int) float64 {
	return step(s.Start, s.End, len(s.Values)-1, i)
}

// Surface holds (NX+1)*(NY+1) samples of a function of both axes, row
// major: Values[j*(NX+1)+i] is the value at x_i, y_j.
type Surface struct {
	StartX, StartY float64
	EndX, EndY     float64
	NX, NY         int
	Values         []complex128
	Channel        Channel
}

// Value returns the sample at x_i, y_j.
func (s *Surface) Value(i, j int) complex128 { return s.Values[j*(s.NX+1)+i] }

// Series2D is a sampled curve or point set in the plane.
type Series2D struct {
	Points  []Coord2
	Channel Channel
}

// Series3D is a sampled curve or point set in space.
type Series3D struct {
	Points  []Coord3
	Channel Channel
}

// ConstantValue is a plot that does not depend on any axis. Vertical
// values are drawn as x=Value.
type ConstantValue struct {
	Value    complex128
	Vertical bool
	Channel  Channel
}

// ConstantPoint is a single point in the plane.
type ConstantPoint struct {
	Point Point2
}

// List holds the lanes of a multi-valued plot, one output per rank.
type List struct {
	Items []Output
}

func (s *Series1D) IsComplex() bool      { return s.Channel.IsComplex() }
func (s *Surface) IsComplex() bool       { return s.Channel.IsComplex() }
func (s *Series2D) IsComplex() bool      { return s.Channel.IsComplex() }
func (s *Series3D) IsComplex() bool      { return s.Channel.IsComplex() }
func (c *ConstantValue) IsComplex() bool { return c.Channel.IsComplex() }
func (*ConstantPoint) IsComplex() bool   { return false }

func (l *List) IsComplex() bool {
	for _, it := range l.Items {
		if it.IsComplex() {
			return true
		}
	}
	return false
}

func (*Series1D) outputName() string      { return "series1d" }
func (*Surface) outputName() string       { return "surface" }
func (*Series2D) outputName() string      { return "series2d" }
func (*Series3D) outputName() string      { return "series3d" }
func (*ConstantValue) outputName() string { return "constant" }
func (*ConstantPoint) outputName() string { return "point" }
func (*List) outputName() string          { return "list" }

// Result pairs an output with the slot of the plot that produced it.
type Result struct {
	Slot   int
	Output Output
}

// anyComplex is the batch complex flag of a sampling pass.
func anyComplex(results []Result) bool {
	for _, r := range results {
		if r.Output.IsComplex() {
			return true
		}
	}
	return false
}

// step returns the i-th of n+1 evenly spaced values over [start, end].
func step(start, end float64, n, i int) float64 {
	if n <= 0 {
		return start
	}
	return start + float64(i)*(end-start)/float64(n)
}
