// cmd/plotgen/main.go — sample plot sources from the command line
//
// Usage:
//
//	plotgen 'x^2#sin(x)'                 table on a terminal, JSON otherwise
//	plotgen -3d -density 0.2 'x*y'
//	plotgen -slice 3 'x*y'               2D cross-section of a 3D plot
//	plotgen -png out.png 'sqrt(x)'
//	plotgen -i                           interactive session
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/njchilds90/goplot"
	"github.com/njchilds90/goplot/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type flags struct {
	config  string
	is3D    bool
	xr, yr  string
	density float64
	slice   int
	viewX   bool
	png     string
	repl    bool
	verbose bool
	json    bool
}

func parseFlags(args []string, stderr io.Writer) (flags, []string, error) {
	var f flags
	fs := flag.NewFlagSet("plotgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "YAML options file")
	fs.BoolVar(&f.is3D, "3d", false, "Sample a 3D bound even for 2D plots")
	fs.StringVar(&f.xr, "x", "", "x range as min,max")
	fs.StringVar(&f.yr, "y", "", "y range as min,max")
	fs.Float64Var(&f.density, "density", 1, "Multiplier of the default sample counts")
	fs.IntVar(&f.slice, "slice", -1, "Slice index; a non-negative index samples a cross-section")
	fs.BoolVar(&f.viewX, "view-x", false, "Slice along x instead of y")
	fs.StringVar(&f.png, "png", "", "Write a PNG preview to this path")
	fs.BoolVar(&f.repl, "i", false, "Interactive session")
	fs.BoolVar(&f.verbose, "v", false, "Log debug output to stderr")
	fs.BoolVar(&f.json, "json", false, "Print JSON even on a terminal")
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	return f, fs.Args(), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, rest, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if f.verbose {
		goplot.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer goplot.SetLogger(nil)
	}

	opts, err := f.options()
	if err != nil {
		fmt.Fprintln(stderr, "plotgen:", err)
		return 2
	}

	if f.repl {
		if err := repl(f, opts, stdout); err != nil {
			fmt.Fprintln(stderr, "plotgen:", err)
			return 1
		}
		return 0
	}

	source := strings.Join(rest, "#")
	if source == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintln(stderr, "plotgen:", err)
			return 1
		}
		source = strings.TrimSpace(string(data))
	}
	reg, err := goplot.NewRegistry(source, opts, nil, nil)
	if err != nil {
		fmt.Fprintln(stderr, "plotgen:", err)
		if errors.Is(err, goplot.ErrNoPlots) {
			return 1
		}
		return 2
	}
	if err := f.emit(goplot.NewCoordinator(reg), stdout); err != nil {
		fmt.Fprintln(stderr, "plotgen:", err)
		return 1
	}
	return 0
}

func (f flags) options() (goplot.Options, error) {
	opts := goplot.DefaultOptions()
	if f.config != "" {
		var err error
		if opts, err = goplot.LoadOptions(f.config); err != nil {
			return opts, err
		}
	}
	if f.xr != "" {
		r, err := goplot.ParseRange(f.xr)
		if err != nil {
			return opts, err
		}
		opts.XRange = r
	}
	if f.yr != "" {
		r, err := goplot.ParseRange(f.yr)
		if err != nil {
			return opts, err
		}
		opts.YRange = r
	}
	return opts, opts.Validate()
}

// request builds the viewport request from the flags and the registry's
// effective ranges, which source directives may have changed.
func (f flags) request(reg *goplot.Registry) goplot.Request {
	o := reg.Options()
	var prec goplot.Prec = goplot.Mult(f.density)
	switch {
	case f.slice >= 0:
		prec = goplot.Slice(f.density)
	case !f.is3D && !reg.Is3D():
		return goplot.Request{Bound: goplot.Width{Start: o.XRange.Min, End: o.XRange.Max, Prec: prec}}
	}
	return goplot.Request{
		Bound: goplot.Width3D{
			StartX: o.XRange.Min, StartY: o.YRange.Min,
			EndX: o.XRange.Max, EndY: o.YRange.Max,
			Prec: prec,
		},
		SliceIndex: max(f.slice, 0),
		ViewX:      f.viewX,
	}
}

func (f flags) emit(c *goplot.Coordinator, w io.Writer) error {
	resp, err := c.Update(f.request(c.Registry()))
	if err != nil {
		return err
	}
	if f.png != "" {
		if err := render.SavePNG(f.png, resp.Outputs); err != nil {
			return err
		}
	}
	if !f.json && isTerminal(w) {
		return printTable(w, resp)
	}
	return printJSON(w, resp)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
