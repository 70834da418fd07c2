package chart

import (
	"math"
	"sort"

	"github.com/pingcap/errors"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/plot/plotter"
)

var (
	ErrNoSeries     = errors.New("chart has no series")
	ErrEmptyX       = errors.New("x series is empty")
	ErrSeriesLength = errors.New("series length does not match the x series")
	ErrPieSlices    = errors.New("pie chart needs exactly two slices")
	ErrRules        = errors.New("not enough rules for this chart")
)

const (
	// SmoothMaxPoints is the largest x series that still gets smoothed.
	SmoothMaxPoints = 20
	// SmoothSamples is the number of points of a smoothed curve.
	SmoothSamples = 300
)

// Series is one named curve, index aligned with Data.X.
type Series struct {
	Label  string    `yaml:"label"`
	Values []float64 `yaml:"values"`
}

// Data is an x series plus the curves plotted against it.
type Data struct {
	X      []float64 `yaml:"x"`
	Series []Series  `yaml:"series"`
}

func (d Data) validate() error {
	if len(d.Series) == 0 {
		return ErrNoSeries
	}
	if len(d.X) == 0 {
		return ErrEmptyX
	}
	for _, s := range d.Series {
		if len(s.Values) != len(d.X) {
			return errors.Annotatef(ErrSeriesLength, "series %q has %d values, x has %d", s.Label, len(s.Values), len(d.X))
		}
	}
	return nil
}

// max is the largest value over every series, 0 for empty data.
func (d Data) max() float64 {
	m := 0.0
	for _, s := range d.Series {
		for _, v := range s.Values {
			m = math.Max(m, v)
		}
	}
	return m
}

// Rule is a labeled vertical marker at X.
type Rule struct {
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
}

// LinePoints returns the points to draw for one series. Short x series are
// replaced by a smooth curve through SmoothSamples points; the second return
// value reports whether that happened.
func LinePoints(xs, ys []float64) (plotter.XYs, bool) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	if len(xs) > SmoothMaxPoints {
		return pts, false
	}
	smooth, err := getSmooth(pts, SmoothSamples)
	if err != nil {
		return pts, false
	}
	return smooth, true
}

func getSmooth(pts plotter.XYs, numPoints int) (plotter.XYs, error) {
	sorted := make(plotter.XYs, len(pts))
	copy(sorted, pts)
	// Sort the points by X values.
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, pt := range sorted {
		xs[i] = pt.X
		ys[i] = pt.Y
		if i > 0 && xs[i] <= xs[i-1] {
			return nil, errors.Errorf("x values must be strictly increasing, got %v after %v", xs[i], xs[i-1])
		}
	}
	if len(xs) < 3 {
		return nil, errors.Errorf("need at least 3 points to smooth, got %d", len(xs))
	}

	var interpolator interp.AkimaSpline
	if err := interpolator.Fit(xs, ys); err != nil {
		return nil, errors.Trace(err)
	}

	xMin := xs[0]
	xMax := xs[len(xs)-1]
	step := (xMax - xMin) / float64(numPoints-1)

	newPts := make(plotter.XYs, numPoints)
	for i := 0; i < numPoints; i++ {
		newX := xMin + float64(i)*step
		if i == numPoints-1 {
			newX = xMax
		}
		newPts[i].X = newX
		newPts[i].Y = interpolator.Predict(newX)
	}
	return newPts, nil
}
