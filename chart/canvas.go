package chart

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pingcap/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options carries the labels and output settings shared by every chart.
type Options struct {
	XLabel  string `yaml:"xLabel"`
	YLabel  string `yaml:"yLabel"`
	YLabel2 string `yaml:"yLabel2"`
	// Format is the output encoding (png, pdf, svg, eps, jpg, tiff). When
	// empty it is taken from the file extension.
	Format string     `yaml:"format"`
	Width  vg.Length  `yaml:"-"`
	Height vg.Length  `yaml:"-"`
	Axis   BrokenAxis `yaml:"-"`
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 6.4 * vg.Inch
	}
	if h <= 0 {
		h = 4.8 * vg.Inch
	}
	return w, h
}

func (o Options) format(filename string) string {
	f := strings.ToLower(strings.TrimPrefix(o.Format, "."))
	if f == "" {
		f = strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	}
	if f == "" {
		f = "png"
	}
	return f
}

// save renders into a canvas of the requested format and writes it to
// filename.
func save(filename string, opts Options, render func(dc draw.Canvas)) error {
	w, h := opts.size()
	format := opts.format(filename)
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return errors.Annotatef(err, "format %q", format)
	}
	render(draw.New(c))

	file, err := os.Create(filename)
	if err != nil {
		return errors.Trace(err)
	}
	if _, err = c.WriteTo(file); err != nil {
		_ = file.Close()
		return errors.Annotatef(err, "write %s", filename)
	}
	return errors.Trace(file.Close())
}

// savePlot writes a single plot.
func savePlot(p *plot.Plot, filename string, opts Options) error {
	return save(filename, opts, func(dc draw.Canvas) {
		p.Draw(dc)
	})
}

func newPlot(opts Options) *plot.Plot {
	p := plot.New()
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Legend.Top = true
	return p
}

func dashed(clr color.Color) draw.LineStyle {
	return draw.LineStyle{
		Color:  clr,
		Width:  vg.Points(1),
		Dashes: []vg.Length{vg.Points(5), vg.Points(5)},
	}
}

// AddHorizontalLine draws a dashed line at yValue from xMin to xMax.
func AddHorizontalLine(p *plot.Plot, xMin, xMax, yValue float64, clr color.Color) (*plotter.Line, error) {
	horizontalLine, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: yValue}, {X: xMax, Y: yValue}})
	if err != nil {
		return nil, errors.Trace(err)
	}
	horizontalLine.LineStyle = dashed(clr)
	p.Add(horizontalLine)
	return horizontalLine, nil
}

// AddLabel places txt at (x, y) in data coordinates.
func AddLabel(p *plot.Plot, x, y float64, txt string) (*plotter.Labels, error) {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: x, Y: y}},
		Labels: []string{txt},
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	labels.TextStyle[0].XAlign = text.XLeft
	labels.TextStyle[0].YAlign = text.YBottom
	p.Add(labels)
	return labels, nil
}

// ruleLine is a vertical dashed line spanning the whole data area. It has no
// data range, so it never stretches the y axis.
type ruleLine struct {
	X float64
	draw.LineStyle
}

func newRuleLine(x float64, clr color.Color) *ruleLine {
	return &ruleLine{X: x, LineStyle: dashed(clr)}
}

func (r *ruleLine) Plot(c draw.Canvas, plt *plot.Plot) {
	if r.X < plt.X.Min || r.X > plt.X.Max {
		return
	}
	trX, _ := plt.Transforms(&c)
	x := trX(r.X)
	c.StrokeLine2(r.LineStyle, x, c.Min.Y, x, c.Max.Y)
}

func (r *ruleLine) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(r.LineStyle, c.Min.X, y, c.Max.X, y)
}

// edge names the side of a panel that touches the axis break.
type edge int

const (
	rightEdge edge = iota
	leftEdge
)

// breakMarks draws the two short diagonals that show a discontinuous axis.
// Size is relative to the panel, like matplotlib axes coordinates.
type breakMarks struct {
	side edge
	size float64
}

func (b breakMarks) Plot(c draw.Canvas, _ *plot.Plot) {
	sty := draw.LineStyle{Color: BLACK, Width: vg.Points(1)}
	w := c.Max.X - c.Min.X
	h := c.Max.Y - c.Min.Y
	at := func(fx, fy float64) vg.Point {
		return vg.Point{X: c.Min.X + vg.Length(fx)*w, Y: c.Min.Y + vg.Length(fy)*h}
	}
	d := b.size
	base := 1.0
	if b.side == leftEdge {
		base = 0
	}
	for _, y := range []float64{0, 1} {
		from := at(base-d, y-d)
		to := at(base+d, y+d)
		c.StrokeLine2(sty, from.X, from.Y, to.X, to.Y)
	}
}

// secondaryAxis draws tick labels for a second y scale along the right edge
// of the data area. Values of that scale are drawn multiplied by Scale.
type secondaryAxis struct {
	Max   float64
	Scale float64
	Label string
}

func (a secondaryAxis) Plot(c draw.Canvas, plt *plot.Plot) {
	_, trY := plt.Transforms(&c)
	tickStyle := draw.LineStyle{Color: BLACK, Width: vg.Points(0.5)}
	labelStyle := plt.Y.Tick.Label
	labelStyle.XAlign = text.XRight
	labelStyle.YAlign = text.YCenter

	tickLen := vg.Points(4)
	for _, t := range (plot.DefaultTicks{}).Ticks(0, a.Max) {
		if t.Label == "" {
			continue
		}
		y := trY(t.Value * a.Scale)
		if y < c.Min.Y || y > c.Max.Y {
			continue
		}
		c.StrokeLine2(tickStyle, c.Max.X-tickLen, y, c.Max.X, y)
		c.FillText(labelStyle, vg.Point{X: c.Max.X - tickLen - vg.Points(2), Y: y}, t.Label)
	}

	if a.Label != "" {
		sty := plt.Y.Label.TextStyle
		sty.XAlign = text.XCenter
		sty.YAlign = text.YTop
		sty.Rotation = -math.Pi / 2
		c.FillText(sty, vg.Point{X: c.Max.X - vg.Points(34), Y: (c.Min.Y + c.Max.Y) / 2}, a.Label)
	}
}
