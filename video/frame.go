package video

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pingcap/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"ogmdplot/chart"
	"ogmdplot/config"
	"ogmdplot/policy"
	"ogmdplot/trace"
	"ogmdplot/util"
)

var classColors = map[policy.Class]color.Color{
	policy.Normal: chart.GREEN,
	policy.Soft:   chart.ORANGE,
	policy.Hard:   chart.RED,
	policy.Over:   chart.RED,
	policy.Under:  chart.BLUE,
}

// ClassColor is the bar color of a node in class c.
func ClassColor(c policy.Class) color.Color {
	if clr, ok := classColors[c]; ok {
		return clr
	}
	return chart.GREY
}

// FrameLabel is the counter shown on frame k (0 based) in threshold mode.
// The counter starts at 1 and then moves by half a frame per frame.
func FrameLabel(k int) string {
	if k <= 0 {
		return "frame 1"
	}
	return fmt.Sprintf("frame %.1f", 1+0.5*float64(k))
}

// Frames turns the rows of a trace into bar chart images.
type Frames struct {
	trace  *trace.Trace
	policy policy.Policy
	cfg    *config.Config
	xs     []float64
}

// NewFrames checks t and prepares the renderer for its mode.
func NewFrames(t *trace.Trace, cfg *config.Config) (*Frames, error) {
	if err := t.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	xs := make([]float64, t.NodeCount)
	for i, node := range util.CreateArray(t.NodeCount) {
		xs[i] = float64(node)
	}
	return &Frames{
		trace:  t,
		policy: policy.ForTrace(t, cfg.Average.Rate),
		cfg:    cfg,
		xs:     xs,
	}, nil
}

// Len is the number of frames.
func (f *Frames) Len() int {
	return f.trace.Len()
}

// FPS is the frame rate for the trace mode.
func (f *Frames) FPS() int {
	if f.trace.Mode == trace.ThresholdMode {
		return f.cfg.Threshold.FPS
	}
	return f.cfg.Average.FPS
}

// Policy is the classification applied to every frame.
func (f *Frames) Policy() policy.Policy {
	return f.policy
}

// Size is the pixel size of every frame.
func (f *Frames) Size() (int, int) {
	v := f.cfg.Video
	return int(v.Width * float64(v.DPI)), int(v.Height * float64(v.DPI))
}

// Plot builds the chart of frame k and returns the class of every node.
func (f *Frames) Plot(k int) (*plot.Plot, []policy.Class, error) {
	if k < 0 || k >= f.Len() {
		return nil, nil, errors.Errorf("frame %d out of range [0, %d)", k, f.Len())
	}
	row := f.trace.Frames[k]
	classes := f.policy.Classify(row)
	v := f.cfg.Video
	n := float64(f.trace.NodeCount)

	p := plot.New()
	p.X.Label.Text = v.XLabel
	p.Y.Label.Text = v.YLabel

	bars, err := chart.NewBars(f.xs, row, v.BarWidth)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	bars.Colors = make([]color.Color, len(classes))
	for j, c := range classes {
		bars.Colors[j] = ClassColor(c)
	}
	p.Add(bars)

	if f.trace.Mode == trace.ThresholdMode {
		if _, err = chart.AddHorizontalLine(p, -0.5, n-0.5, f.trace.SoftLimit, chart.ORANGE); err != nil {
			return nil, nil, err
		}
		if _, err = chart.AddHorizontalLine(p, -0.5, n-0.5, f.trace.HardLimit, chart.RED); err != nil {
			return nil, nil, err
		}
		if _, err = chart.AddLabel(p, f.cfg.Threshold.LabelX, f.cfg.Threshold.LabelY, FrameLabel(k)); err != nil {
			return nil, nil, err
		}
	}

	p.X.Min, p.X.Max = -0.5, n-0.5
	p.Y.Min, p.Y.Max = v.YMin, v.YMax
	p.X.Tick.Marker = nodeTicks(f.trace.NodeCount)
	return p, classes, nil
}

// Image rasterizes frame k at the configured size and resolution.
func (f *Frames) Image(k int) (image.Image, []policy.Class, error) {
	p, classes, err := f.Plot(k)
	if err != nil {
		return nil, nil, err
	}
	v := f.cfg.Video
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(v.Width)*vg.Inch, vg.Length(v.Height)*vg.Inch),
		vgimg.UseDPI(v.DPI),
	)
	p.Draw(draw.New(c))
	return c.Image(), classes, nil
}

// nodeTicks labels node indexes, thinning the labels out on wide clusters.
func nodeTicks(n int) plot.ConstantTicks {
	step := 1
	for n/step > 20 {
		step *= 2
	}
	ticks := make(plot.ConstantTicks, 0, n/step+1)
	for _, node := range util.CreateArray(n) {
		t := plot.Tick{Value: float64(node)}
		if node%step == 0 {
			t.Label = fmt.Sprint(node)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
