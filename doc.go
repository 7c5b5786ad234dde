// Package goplot turns textual math expressions into sampled plot data and
// keeps those samples in step with a moving viewport.
//
// A source text holds one or more plots separated by '#' or ';'. Each plot
// is compiled once, classified once into a Kind (scalar field, parametric
// curve, literal point set or multi-valued list), and then re-sampled on
// demand:
//
//	reg, err := goplot.NewRegistry("x^2;sin(x)", goplot.DefaultOptions(), nil, goplot.SymCompiler{})
//	if err != nil {
//		return err
//	}
//	results, complex := reg.Generate2D(-2, 2, 100, nil)
//
// The Coordinator wraps a Registry with the incremental update protocol used
// by interactive front ends: text edits, pan/zoom bounds, hidden plots and
// single-plot refreshes.
//
// Sampled values are complex. A compaction pass labels each output with a
// Channel (Real, Imag or Complex) so renderers know which parts to draw.
package goplot
