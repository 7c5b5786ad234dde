// Package render draws sampled plot outputs into raster images with gg.
//
// It is a preview renderer: axes are scaled to fit the data, real parts
// are drawn solid and imaginary parts dashed. 3D outputs are drawn as an
// isometric point cloud.
//
//	res, _ := reg.Generate2D(-5, 5, 400, nil)
//	if err := render.SavePNG("plot.png", res); err != nil {
//		return err
//	}
package render

import (
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/njchilds90/goplot"
)

// Option configures rendering.
type Option func(*config)

type config struct {
	width, height int
	lineWidth     float64
	pointRadius   float64
	margin        float64
}

func defaultConfig() config {
	return config{width: 800, height: 600, lineWidth: 2, pointRadius: 3, margin: 0.05}
}

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(c *config) {
		c.width, c.height = max(1, width), max(1, height)
	}
}

// WithLineWidth sets the stroke width of curves.
func WithLineWidth(w float64) Option {
	return func(c *config) { c.lineWidth = w }
}

// palette colors outputs by slot.
var palette = []gg.RGBA{
	gg.RGB(0.12, 0.47, 0.71),
	gg.RGB(0.84, 0.15, 0.16),
	gg.RGB(0.17, 0.63, 0.17),
	gg.RGB(0.58, 0.40, 0.74),
	gg.RGB(1.00, 0.50, 0.05),
	gg.RGB(0.55, 0.34, 0.29),
}

func colorOf(slot int) gg.RGBA { return palette[slot%len(palette)] }

// Draw renders results onto a new context. The caller must Close it.
func Draw(results []goplot.Result, opts ...Option) *gg.Context {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	dc := gg.NewContext(cfg.width, cfg.height)
	dc.ClearWithColor(gg.White)

	var sc scene
	for _, r := range results {
		sc.add(r.Slot, r.Output)
	}
	cv := &canvas{dc: dc, cfg: cfg, frame: sc.frame(cfg.margin)}
	cv.axes(sc.is3D)
	for _, r := range sc.rules {
		cv.rule(r)
	}
	for _, l := range sc.lines {
		cv.line(l)
	}
	for _, p := range sc.points {
		cv.point(p)
	}
	return dc
}

// PNG renders results and writes them to w as PNG.
func PNG(w io.Writer, results []goplot.Result, opts ...Option) error {
	dc := Draw(results, opts...)
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG renders results into a PNG file.
func SavePNG(path string, results []goplot.Result, opts ...Option) error {
	dc := Draw(results, opts...)
	defer dc.Close()
	return dc.SavePNG(path)
}

// ============================================================
// Scene
// ============================================================

type vec struct{ x, y float64 }

func (v vec) finite() bool {
	return !math.IsNaN(v.x) && !math.IsNaN(v.y) && !math.IsInf(v.x, 0) && !math.IsInf(v.y, 0)
}

// polyline is a run of points; non-finite points split it.
type polyline struct {
	pts    []vec
	color  gg.RGBA
	dashed bool
}

type marker struct {
	at    vec
	color gg.RGBA
}

// rule is an infinite horizontal or vertical line.
type rule struct {
	at       float64
	vertical bool
	color    gg.RGBA
	dashed   bool
}

// scene flattens outputs into drawable primitives in data coordinates.
// In 3D, coordinates are already projected.
type scene struct {
	is3D   bool
	lines  []polyline
	points []marker
	rules  []rule
}

// iso projects a point of space onto the plane.
func iso(x, y, z float64) vec {
	const c, s = 0.8660254037844386, 0.5
	return vec{(x - y) * c, z + (x+y)*s}
}

func parts(ch goplot.Channel) (re, im bool) {
	switch ch {
	case goplot.Imag:
		return false, true
	case goplot.Complex:
		return true, true
	}
	return true, false
}

func (sc *scene) add(slot int, o goplot.Output) {
	col := colorOf(slot)
	switch o := o.(type) {
	case *goplot.Series1D:
		re, im := parts(o.Channel)
		for _, part := range [][2]bool{{re, false}, {im, true}} {
			if !part[0] {
				continue
			}
			pts := make([]vec, len(o.Values))
			for i, z := range o.Values {
				v := component(z, part[1])
				if o.Axis == goplot.AxisY {
					pts[i] = vec{v, o.At(i)}
				} else {
					pts[i] = vec{o.At(i), v}
				}
			}
			sc.lines = append(sc.lines, polyline{pts: pts, color: col, dashed: part[1]})
		}
	case *goplot.Series2D:
		re, im := parts(o.Channel)
		for _, part := range [][2]bool{{re, false}, {im, true}} {
			if !part[0] {
				continue
			}
			pts := make([]vec, len(o.Points))
			for i, p := range o.Points {
				pts[i] = vec{p.X, component(p.Y, part[1])}
			}
			sc.lines = append(sc.lines, polyline{pts: pts, color: col, dashed: part[1]})
		}
	case *goplot.ConstantValue:
		re, im := parts(o.Channel)
		if re {
			sc.rules = append(sc.rules, rule{at: real(o.Value), vertical: o.Vertical, color: col})
		}
		if im {
			sc.rules = append(sc.rules, rule{at: imag(o.Value), vertical: o.Vertical, color: col, dashed: true})
		}
	case *goplot.ConstantPoint:
		sc.points = append(sc.points, marker{at: vec{o.Point.X, o.Point.Y}, color: col})
	case *goplot.Surface:
		sc.is3D = true
		_, im := parts(o.Channel)
		for j := 0; j <= o.NY; j++ {
			y := o.StartY + float64(j)*(o.EndY-o.StartY)/float64(max(1, o.NY))
			for i := 0; i <= o.NX; i++ {
				x := o.StartX + float64(i)*(o.EndX-o.StartX)/float64(max(1, o.NX))
				sc.points = append(sc.points, marker{at: iso(x, y, component(o.Value(i, j), im && !o.Channel.IsComplex())), color: col})
			}
		}
	case *goplot.Series3D:
		sc.is3D = true
		_, im := parts(o.Channel)
		for _, p := range o.Points {
			sc.points = append(sc.points, marker{at: iso(p.X, p.Y, component(p.Z, im && !o.Channel.IsComplex())), color: col})
		}
	case *goplot.List:
		for _, it := range o.Items {
			sc.add(slot, it)
		}
	}
}

func component(z complex128, imaginary bool) float64 {
	if imaginary {
		return imag(z)
	}
	return real(z)
}

// window is the visible data rectangle.
type window struct{ minX, maxX, minY, maxY float64 }

func (sc *scene) frame(margin float64) window {
	w := window{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	grow := func(v vec) {
		if !v.finite() {
			return
		}
		w.minX, w.maxX = math.Min(w.minX, v.x), math.Max(w.maxX, v.x)
		w.minY, w.maxY = math.Min(w.minY, v.y), math.Max(w.maxY, v.y)
	}
	for _, l := range sc.lines {
		for _, p := range l.pts {
			grow(p)
		}
	}
	for _, p := range sc.points {
		grow(p.at)
	}
	for _, r := range sc.rules {
		if math.IsNaN(r.at) || math.IsInf(r.at, 0) {
			continue
		}
		if r.vertical {
			w.minX, w.maxX = math.Min(w.minX, r.at), math.Max(w.maxX, r.at)
		} else {
			w.minY, w.maxY = math.Min(w.minY, r.at), math.Max(w.maxY, r.at)
		}
	}
	if math.IsInf(w.minX, 0) {
		w.minX, w.maxX = -1, 1
	}
	if math.IsInf(w.minY, 0) {
		w.minY, w.maxY = -1, 1
	}
	if w.maxX-w.minX == 0 {
		w.minX, w.maxX = w.minX-1, w.maxX+1
	}
	if w.maxY-w.minY == 0 {
		w.minY, w.maxY = w.minY-1, w.maxY+1
	}
	dx, dy := (w.maxX-w.minX)*margin, (w.maxY-w.minY)*margin
	return window{w.minX - dx, w.maxX + dx, w.minY - dy, w.maxY + dy}
}

// ============================================================
// Canvas
// ============================================================

type canvas struct {
	dc    *gg.Context
	cfg   config
	frame window
}

func (cv *canvas) px(v vec) (float64, float64) {
	f := cv.frame
	x := (v.x - f.minX) / (f.maxX - f.minX) * float64(cv.cfg.width)
	y := float64(cv.cfg.height) - (v.y-f.minY)/(f.maxY-f.minY)*float64(cv.cfg.height)
	return x, y
}

func (cv *canvas) axes(is3D bool) {
	if is3D {
		return
	}
	cv.dc.SetRGB(0.75, 0.75, 0.75)
	cv.dc.SetLineWidth(1)
	f := cv.frame
	if f.minY <= 0 && f.maxY >= 0 {
		x0, y0 := cv.px(vec{f.minX, 0})
		x1, y1 := cv.px(vec{f.maxX, 0})
		cv.dc.DrawLine(x0, y0, x1, y1)
	}
	if f.minX <= 0 && f.maxX >= 0 {
		x0, y0 := cv.px(vec{0, f.minY})
		x1, y1 := cv.px(vec{0, f.maxY})
		cv.dc.DrawLine(x0, y0, x1, y1)
	}
	_ = cv.dc.Stroke()
}

func (cv *canvas) stroke(col gg.RGBA, dashed bool) {
	cv.dc.SetRGBA(col.R, col.G, col.B, col.A)
	cv.dc.SetLineWidth(cv.cfg.lineWidth)
	if dashed {
		cv.dc.SetDash(6, 4)
	} else {
		cv.dc.SetDash()
	}
	_ = cv.dc.Stroke()
}

func (cv *canvas) line(l polyline) {
	pen := false
	for _, p := range l.pts {
		if !p.finite() {
			pen = false
			continue
		}
		x, y := cv.px(p)
		if pen {
			cv.dc.LineTo(x, y)
		} else {
			cv.dc.MoveTo(x, y)
		}
		pen = true
	}
	cv.stroke(l.color, l.dashed)
}

func (cv *canvas) rule(r rule) {
	f := cv.frame
	a, b := vec{f.minX, r.at}, vec{f.maxX, r.at}
	if r.vertical {
		a, b = vec{r.at, f.minY}, vec{r.at, f.maxY}
	}
	x0, y0 := cv.px(a)
	x1, y1 := cv.px(b)
	cv.dc.DrawLine(x0, y0, x1, y1)
	cv.stroke(r.color, r.dashed)
}

func (cv *canvas) point(m marker) {
	if !m.at.finite() {
		return
	}
	x, y := cv.px(m.at)
	cv.dc.SetRGBA(m.color.R, m.color.G, m.color.B, m.color.A)
	cv.dc.DrawCircle(x, y, cv.cfg.pointRadius)
	_ = cv.dc.Fill()
}
