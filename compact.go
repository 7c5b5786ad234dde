package goplot

import "math"

// ============================================================
// Channels
// ============================================================

// Channel tells which part of a sampled series carries its values.
type Channel int

const (
	// Real series have every imaginary part zero.
	Real Channel = iota
	// Imag series have every real part zero or non-finite and at least one
	// finite non-zero imaginary part.
	Imag
	// Complex series need both parts.
	Complex
)

// IsComplex reports whether both parts of the series matter.
func (c Channel) IsComplex() bool { return c == Complex }

func (c Channel) String() string {
	switch c {
	case Real:
		return "real"
	case Imag:
		return "imag"
	case Complex:
		return "complex"
	}
	return "channel(?)"
}

// MarshalText encodes the channel by name.
func (c Channel) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ============================================================
// Compaction
// ============================================================

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// classifyChannel makes one decision for a whole series. parts returns the
// real and imaginary part of sample i.
func classifyChannel(n int, parts func(i int) (re, im float64)) Channel {
	hasImag, realZero := false, true
	for i := 0; i < n; i++ {
		re, im := parts(i)
		if im != 0 && finite(im) {
			hasImag = true
		}
		if re != 0 && finite(re) {
			realZero = false
		}
	}
	switch {
	case !hasImag:
		return Real
	case realZero:
		return Imag
	}
	return Complex
}

func normalize(ch Channel, z complex128) complex128 {
	switch ch {
	case Real:
		return complex(real(z), 0)
	case Imag:
		return complex(0, imag(z))
	}
	return z
}

// Compact decides the channel of a sampled series and returns a copy of
// values with the unused part zeroed. A single sample with a finite
// non-zero imaginary part is enough to leave the Real channel. Compact is
// idempotent.
func Compact(values []complex128) (Channel, []complex128) {
	ch := classifyChannel(len(values), func(i int) (float64, float64) {
		return real(values[i]), imag(values[i])
	})
	out := make([]complex128, len(values))
	for i, z := range values {
		out[i] = normalize(ch, z)
	}
	return ch, out
}

// CompactCoords is Compact over the dependent part of 2D points.
func CompactCoords(points []Coord2) (Channel, []Coord2) {
	ch := classifyChannel(len(points), func(i int) (float64, float64) {
		return real(points[i].Y), imag(points[i].Y)
	})
	out := make([]Coord2, len(points))
	for i, p := range points {
		out[i] = Coord2{X: p.X, Y: normalize(ch, p.Y)}
	}
	return ch, out
}

// CompactCoords3 is Compact over the dependent part of 3D points.
func CompactCoords3(points []Coord3) (Channel, []Coord3) {
	ch := classifyChannel(len(points), func(i int) (float64, float64) {
		return real(points[i].Z), imag(points[i].Z)
	})
	out := make([]Coord3, len(points))
	for i, p := range points {
		out[i] = Coord3{X: p.X, Y: p.Y, Z: normalize(ch, p.Z)}
	}
	return ch, out
}
