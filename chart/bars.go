package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bars draws vertical bars whose width is given in data units, centered on X.
// plotter.BarChart sizes bars in canvas units, which does not line up with a
// fixed node axis.
type Bars struct {
	X       []float64
	Heights []float64

	// Bottoms are the bar bases, 0 when nil.
	Bottoms []float64

	// Width is the bar width in data units.
	Width float64

	// Colors holds one color per bar; Color is used for the missing ones
	// and for the legend thumbnail.
	Colors []color.Color
	Color  color.Color
}

// NewBars creates bars at x with the given heights.
func NewBars(x, heights []float64, width float64) (*Bars, error) {
	if len(x) != len(heights) {
		return nil, ErrSeriesLength
	}
	return &Bars{X: x, Heights: heights, Width: width, Color: BLUE}, nil
}

func (b *Bars) bottom(i int) float64 {
	if i < len(b.Bottoms) {
		return b.Bottoms[i]
	}
	return 0
}

func (b *Bars) colorAt(i int) color.Color {
	if i >= 0 && i < len(b.Colors) && b.Colors[i] != nil {
		return b.Colors[i]
	}
	if b.Color == nil {
		return BLACK
	}
	return b.Color
}

// Plot implements the plot.Plotter interface.
func (b *Bars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	half := b.Width / 2
	for i, x := range b.X {
		y0 := b.bottom(i)
		y1 := y0 + b.Heights[i]
		pts := []vg.Point{
			{X: trX(x - half), Y: trY(y0)},
			{X: trX(x + half), Y: trY(y0)},
			{X: trX(x + half), Y: trY(y1)},
			{X: trX(x - half), Y: trY(y1)},
		}
		c.FillPolygon(b.colorAt(i), c.ClipPolygonXY(pts))
	}
}

// DataRange implements the plot.DataRanger interface.
func (b *Bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	half := b.Width / 2
	for i, x := range b.X {
		y0 := b.bottom(i)
		y1 := y0 + b.Heights[i]
		xmin = math.Min(xmin, x-half)
		xmax = math.Max(xmax, x+half)
		ymin = math.Min(ymin, math.Min(y0, y1))
		ymax = math.Max(ymax, math.Max(y0, y1))
	}
	return xmin, xmax, ymin, ymax
}

// Thumbnail fills the legend entry with the bar color.
func (b *Bars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.colorAt(-1), c.ClipPolygonY(pts))
}
