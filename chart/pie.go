package chart

import (
	"fmt"
	"math"

	"github.com/benoitmasson/plotters/piechart"
	"github.com/pingcap/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PieExplode is how far the second slice is pulled out, as a fraction of the
// radius.
const PieExplode = 0.1

// PieStart is where the first slice begins, as a fraction of a full turn
// counter-clockwise from the x axis: a quarter turn puts it at 12 o'clock.
const PieStart = 0.25

// sliceAngles returns the start offset, in value units, of a slice beginning
// after sofar and the angle of its bisector in radians. piechart measures
// Offset.Value in the same units as the values, so rotating the whole pie is an
// extra PieStart*total on every offset.
func sliceAngles(sofar, v, total float64) (offset, bisector float64) {
	offset = sofar + PieStart*total
	bisector = (offset + v/2) / total * 2 * math.Pi
	return offset, bisector
}

// explodedSlice shifts a slice away from the center along its bisector.
type explodedSlice struct {
	*piechart.PieChart
	// bisector is the slice middle angle, counter-clockwise from the x axis
	bisector float64
	fraction float64
}

func (e explodedSlice) Plot(c draw.Canvas, plt *plot.Plot) {
	radius := math.Min(float64(c.Max.X-c.Min.X), float64(c.Max.Y-c.Min.Y)) / 2
	shift := vg.Point{
		X: vg.Length(e.fraction * radius * math.Cos(e.bisector)),
		Y: vg.Length(e.fraction * radius * math.Sin(e.bisector)),
	}
	c.Push()
	c.Translate(shift)
	e.PieChart.Plot(c, plt)
	c.Pop()
}

// PieLabel is the text drawn on a slice: its legend label and percentage.
func PieLabel(label string, value, total float64) string {
	pct := 0.0
	if total > 0 {
		pct = value / total * 100
	}
	if label == "" {
		return fmt.Sprintf("%.2f%%", pct)
	}
	return fmt.Sprintf("%s\n%.2f%%", label, pct)
}

// PieChart draws a two slice pie chart; the second slice is exploded.
func PieChart(filename string, values []float64, labels []string, opts Options) error {
	if len(values) != 2 {
		return errors.Annotatef(ErrPieSlices, "got %d", len(values))
	}
	total := 0.0
	for _, v := range values {
		if v < 0 {
			return errors.Errorf("pie values must not be negative, got %v", v)
		}
		total += v
	}
	if total == 0 {
		return errors.New("pie values sum to zero")
	}
	label := func(i int) string {
		if i < len(labels) {
			return labels[i]
		}
		return ""
	}

	pal := DefaultPalette()
	p := plot.New()
	p.HideAxes()
	p.Legend.Top = true
	p.Legend.Left = true

	offset := 0.0
	for i, v := range values {
		pie, err := piechart.NewPieChart(plotter.Values{v})
		if err != nil {
			return errors.Trace(err)
		}
		start, mid := sliceAngles(offset, v, total)
		pie.Total = total
		pie.Offset.Value = start
		pie.Labels.Nominal = []string{PieLabel(label(i), v, total)}
		pie.Labels.Values.Show = false
		pie.Labels.Values.Percentage = false
		pie.Labels.Position = 0.6
		pie.Color = pal.At(i)

		if i == 1 {
			p.Add(explodedSlice{PieChart: pie, bisector: mid, fraction: PieExplode})
		} else {
			p.Add(pie)
		}
		if l := label(i); l != "" {
			p.Legend.Add(l, pie)
		}
		offset += v
	}

	return savePlot(p, filename, opts)
}
