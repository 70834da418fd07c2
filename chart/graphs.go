package chart

import (
	"fmt"
	"math"

	"github.com/pingcap/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// addSeriesLines adds one line per series of data to every plot in ps and
// returns the lines added to the first plot. Smoothing is decided once per
// series, see LinePoints.
func addSeriesLines(data Data, pal Palette, ps ...*plot.Plot) ([]*plotter.Line, error) {
	var first []*plotter.Line
	for i, s := range data.Series {
		pts, _ := LinePoints(data.X, s.Values)
		for k, p := range ps {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, errors.Annotatef(err, "series %q", s.Label)
			}
			line.Color = pal.At(i)
			p.Add(line)
			if k == 0 {
				first = append(first, line)
			}
		}
	}
	return first, nil
}

// LineGraph draws every series against data.X, smoothed when the x series is
// short enough.
func LineGraph(filename string, data Data, opts Options) error {
	if err := data.validate(); err != nil {
		return err
	}
	pal := DefaultPalette()
	p := newPlot(opts)

	lines, err := addSeriesLines(data, pal, p)
	if err != nil {
		return err
	}
	for i, line := range lines {
		if label := data.Series[i].Label; label != "" {
			p.Legend.Add(label, line)
		}
	}
	p.Y.Min = 0

	return savePlot(p, filename, opts)
}

// PointGraph draws every series as a scatter plot.
func PointGraph(filename string, data Data, opts Options) error {
	if err := data.validate(); err != nil {
		return err
	}
	pal := DefaultPalette()
	p := newPlot(opts)

	for i, s := range data.Series {
		pts := make(plotter.XYs, len(data.X))
		for j := range data.X {
			pts[j].X = data.X[j]
			pts[j].Y = s.Values[j]
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return errors.Annotatef(err, "series %q", s.Label)
		}
		scatter.GlyphStyle.Color = pal.At(i)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		if s.Label != "" {
			p.Legend.Add(s.Label, scatter)
		}
	}

	return savePlot(p, filename, opts)
}

// Histogram draws grouped bars: with k series every bar is 1/k wide and series
// i is shifted right by i/k.
func Histogram(filename string, data Data, opts Options) error {
	if err := data.validate(); err != nil {
		return err
	}
	pal := DefaultPalette()
	p := newPlot(opts)

	size := 1.0 / float64(len(data.Series))
	for i, s := range data.Series {
		xs := make([]float64, len(data.X))
		for j, x := range data.X {
			xs[j] = x + float64(i)*size
		}
		bars, err := NewBars(xs, s.Values, size)
		if err != nil {
			return errors.Annotatef(err, "series %q", s.Label)
		}
		bars.Color = pal.At(i)
		p.Add(bars)
		if s.Label != "" {
			p.Legend.Add(s.Label, bars)
		}
	}

	return savePlot(p, filename, opts)
}

// StackedHistogram stacks every series on top of the previous ones. The
// second and third palette entries are swapped for this chart only.
func StackedHistogram(filename string, data Data, opts Options) error {
	if err := data.validate(); err != nil {
		return err
	}
	pal := DefaultPalette().Swapped(1, 2)
	p := newPlot(opts)

	maxv := 0.0
	for j := range data.X {
		column := 0.0
		for _, s := range data.Series {
			column += s.Values[j]
		}
		maxv = math.Max(maxv, column)
	}
	maxv = maxv * 120 / 100

	bottoms := make([]float64, len(data.X))
	for i, s := range data.Series {
		bars, err := NewBars(data.X, s.Values, 0.8)
		if err != nil {
			return errors.Annotatef(err, "series %q", s.Label)
		}
		bars.Bottoms = append([]float64(nil), bottoms...)
		bars.Color = pal.At(i)
		p.Add(bars)
		if s.Label != "" {
			p.Legend.Add(s.Label, bars)
		}
		for j := range bottoms {
			bottoms[j] += s.Values[j]
		}
	}

	p.Y.Min = 0
	if maxv > 0 {
		p.Y.Max = maxv
	}
	p.X.Tick.Marker = integerTicks(len(data.X))

	return savePlot(p, filename, opts)
}

// integerTicks labels 0 .. n-1.
func integerTicks(n int) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, n)
	for i := range ticks {
		ticks[i] = plot.Tick{Value: float64(i), Label: fmt.Sprint(i)}
	}
	return ticks
}
