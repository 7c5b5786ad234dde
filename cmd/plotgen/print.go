package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"strconv"
	"text/tabwriter"

	"github.com/njchilds90/goplot"
)

func printJSON(w io.Writer, resp goplot.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// printTable writes one summary line per display row.
func printTable(w io.Writer, resp goplot.Response) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tPLOT\tSHOW\tOUTPUT\tSAMPLES\tRANGE")
	outputs := map[int]goplot.Output{}
	for _, r := range resp.Outputs {
		outputs[r.Slot] = r.Output
	}
	for i, d := range resp.Display {
		o := outputs[d.Slot]
		if l, ok := o.(*goplot.List); ok {
			lane := 0
			for j := i - 1; j >= 0 && resp.Display[j].Slot == d.Slot; j-- {
				lane++
			}
			if lane < len(l.Items) {
				o = l.Items[lane]
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, d.Name, d.Show, summary(o))
	}
	return tw.Flush()
}

func summary(o goplot.Output) string {
	switch o := o.(type) {
	case nil:
		return "-\t\t"
	case *goplot.Series1D:
		lo, hi := span(o.Values)
		return fmt.Sprintf("series1d(%s)\t%d\t%s..%s", o.Axis, len(o.Values), num(lo), num(hi))
	case *goplot.Surface:
		lo, hi := span(o.Values)
		return fmt.Sprintf("surface\t%dx%d\t%s..%s", o.NX+1, o.NY+1, num(lo), num(hi))
	case *goplot.Series2D:
		return fmt.Sprintf("series2d\t%d\t", len(o.Points))
	case *goplot.Series3D:
		return fmt.Sprintf("series3d\t%d\t", len(o.Points))
	case *goplot.ConstantValue:
		return fmt.Sprintf("constant\t1\t%s", cmplxString(o.Value))
	case *goplot.ConstantPoint:
		return fmt.Sprintf("point\t1\t(%s, %s)", num(o.Point.X), num(o.Point.Y))
	case *goplot.List:
		return fmt.Sprintf("list\t%d\t", len(o.Items))
	}
	return fmt.Sprintf("%T\t\t", o)
}

// span returns the finite extremes of the real parts.
func span(values []complex128) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, z := range values {
		if v := real(z); !math.IsNaN(v) && !math.IsInf(v, 0) {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	return lo, hi
}

func num(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "-"
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func cmplxString(z complex128) string {
	if cmplx.IsNaN(z) {
		return "-"
	}
	if imag(z) == 0 {
		return num(real(z))
	}
	return strconv.FormatComplex(z, 'g', 6, 128)
}
