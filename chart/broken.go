package chart

import (
	"math"

	"github.com/pingcap/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// BrokenAxis is the x range of the left and right panel of a split chart.
type BrokenAxis struct {
	LeftMin  float64 `yaml:"leftMin"`
	LeftMax  float64 `yaml:"leftMax"`
	RightMin float64 `yaml:"rightMin"`
	RightMax float64 `yaml:"rightMax"`
}

func (b BrokenAxis) isZero() bool {
	return b == BrokenAxis{}
}

// RulesAxis is the split used by LineGraphWithRules: the first 25 seconds
// and then up to an hour.
var RulesAxis = BrokenAxis{LeftMin: 0, LeftMax: 25, RightMin: 50, RightMax: 3600}

// DualAxis is the split used by DualAxisGraphWithRules for a run ending at
// maxVal.
func DualAxis(maxVal float64) BrokenAxis {
	return BrokenAxis{LeftMin: 0, LeftMax: 300, RightMin: 350, RightMax: maxVal + 5000}
}

const (
	DualPrimaryLabel   = "user req."
	DualSecondaryLabel = "syst req."
)

func splitPanels(markSize float64) (*plot.Plot, *plot.Plot) {
	left, right := plot.New(), plot.New()
	left.Legend.Top = true
	right.Legend.Top = true
	right.HideY()
	left.Add(breakMarks{side: rightEdge, size: markSize})
	right.Add(breakMarks{side: leftEdge, size: markSize})
	return left, right
}

// shareY gives both panels the same y range, starting at 0.
func shareY(left, right *plot.Plot) {
	ymax := math.Max(left.Y.Max, right.Y.Max)
	for _, p := range []*plot.Plot{left, right} {
		p.Y.Min = 0
		p.Y.Max = ymax
	}
}

func setX(left, right *plot.Plot, axis BrokenAxis) {
	left.X.Min, left.X.Max = axis.LeftMin, axis.LeftMax
	right.X.Min, right.X.Max = axis.RightMin, axis.RightMax
}

func drawPanels(left, right *plot.Plot) func(dc draw.Canvas) {
	return func(dc draw.Canvas) {
		tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Points(4), PadTop: vg.Points(4), PadBottom: vg.Points(4), PadLeft: vg.Points(4), PadRight: vg.Points(4)}
		canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, dc)
		left.Draw(canvases[0][0])
		right.Draw(canvases[0][1])
	}
}

// LineGraphWithRules draws data on a split x axis with vertical rules. Rule i
// uses palette color i+1; series and rules share the left legend.
func LineGraphWithRules(filename string, data Data, rules []Rule, opts Options) error {
	if err := data.validate(); err != nil {
		return err
	}
	axis := opts.Axis
	if axis.isZero() {
		axis = RulesAxis
	}
	pal := DefaultPalette()
	left, right := splitPanels(0.02)
	left.X.Label.Text = opts.XLabel
	left.Y.Label.Text = opts.YLabel

	lines, err := addSeriesLines(data, pal, left, right)
	if err != nil {
		return err
	}
	for i, line := range lines {
		if label := data.Series[i].Label; label != "" {
			left.Legend.Add(label, line)
		}
	}

	for i, r := range rules {
		l := newRuleLine(r.X, pal.At(i+1))
		left.Add(l)
		right.Add(newRuleLine(r.X, pal.At(i+1)))
		if r.Label != "" {
			left.Legend.Add(r.Label, l)
		}
	}

	shareY(left, right)
	setX(left, right, axis)

	return save(filename, opts, drawPanels(left, right))
}

// DualAxisGraphWithRules overlays two series sets with independent scales on
// a split x axis. primary is read on the left scale and secondary on the
// right one. rules[0] is drawn on the left panel, rules[1] on both, and a line
// at maxVal labeled rules[2] on the secondary scale of the right panel.
func DualAxisGraphWithRules(filename string, primary, secondary Data, rules []Rule, maxVal float64, opts Options) error {
	if err := primary.validate(); err != nil {
		return errors.Annotate(err, "primary")
	}
	if err := secondary.validate(); err != nil {
		return errors.Annotate(err, "secondary")
	}
	if len(rules) < 3 {
		return errors.Annotatef(ErrRules, "got %d, need 3", len(rules))
	}
	axis := opts.Axis
	if axis.isZero() {
		axis = DualAxis(maxVal)
	}
	pal := DefaultPalette()
	left, right := splitPanels(0.01)
	left.Y.Label.Text = opts.YLabel

	primaryMax := 0.0
	var primaryLine *plotter.Line
	for _, s := range primary.Series {
		pts, _ := LinePoints(primary.X, s.Values)
		primaryMax = math.Max(primaryMax, maxY(pts))
		for k, p := range []*plot.Plot{left, right} {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return errors.Annotatef(err, "series %q", s.Label)
			}
			line.Color = pal.At(0)
			p.Add(line)
			if k == 0 && primaryLine == nil {
				primaryLine = line
			}
		}
	}

	type scaled struct {
		pts      plotter.XYs
		smoothed bool
	}
	var curves []scaled
	secondaryMax := 0.0
	for _, s := range secondary.Series {
		pts, smoothed := LinePoints(secondary.X, s.Values)
		secondaryMax = math.Max(secondaryMax, maxY(pts))
		curves = append(curves, scaled{pts: pts, smoothed: smoothed})
	}
	scale := 1.0
	if secondaryMax > 0 && primaryMax > 0 {
		scale = primaryMax / secondaryMax
	}

	var secondaryLine *plotter.Line
	for _, curve := range curves {
		pts := make(plotter.XYs, len(curve.pts))
		for i, pt := range curve.pts {
			pts[i] = plotter.XY{X: pt.X, Y: pt.Y * scale}
		}
		// smoothed curves take the fourth color, raw ones the third
		clr := pal.At(2)
		if curve.smoothed {
			clr = pal.At(3)
		}
		for k, p := range []*plot.Plot{left, right} {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return errors.Trace(err)
			}
			line.Color = clr
			p.Add(line)
			if k == 1 && secondaryLine == nil {
				secondaryLine = line
			}
		}
	}

	primaryLabel := DualPrimaryLabel
	if l := primary.Series[0].Label; l != "" {
		primaryLabel = l
	}
	secondaryLabel := DualSecondaryLabel
	if l := secondary.Series[0].Label; l != "" {
		secondaryLabel = l
	}
	if primaryLine != nil {
		left.Legend.Add(primaryLabel, primaryLine)
	}
	if secondaryLine != nil {
		right.Legend.Add(secondaryLabel, secondaryLine)
	}

	r0 := newRuleLine(rules[0].X, pal.At(3))
	left.Add(r0)
	left.Legend.Add(rules[0].Label, r0)

	r1 := newRuleLine(rules[1].X, pal.At(1))
	left.Add(r1)
	right.Add(newRuleLine(rules[1].X, pal.At(1)))
	left.Legend.Add(rules[1].Label, r1)

	rMax := newRuleLine(maxVal, pal.At(2))
	right.Add(rMax)
	right.Legend.Add(rules[2].Label, rMax)

	right.Add(secondaryAxis{Max: secondaryMax, Scale: scale, Label: opts.YLabel2})

	shareY(left, right)
	setX(left, right, axis)
	for _, p := range []*plot.Plot{left, right} {
		p.Legend.TextStyle.Font.Size = vg.Points(8)
	}

	panels := drawPanels(left, right)
	return save(filename, opts, func(dc draw.Canvas) {
		if opts.XLabel != "" {
			sty := left.X.Label.TextStyle
			sty.XAlign = text.XCenter
			sty.YAlign = text.YBottom
			dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Min.Y + vg.Points(2)}, opts.XLabel)
			dc.Min.Y += sty.Height(opts.XLabel) + vg.Points(4)
		}
		panels(dc)
	})
}

func maxY(pts plotter.XYs) float64 {
	m := 0.0
	for _, pt := range pts {
		m = math.Max(m, pt.Y)
	}
	return m
}
