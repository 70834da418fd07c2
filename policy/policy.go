package policy

import (
	"math"

	"ogmdplot/trace"
)

// Class is the category a node falls into for one frame.
type Class int

const (
	Normal Class = iota
	Soft
	Hard
	Over
	Under
)

var classNames = map[Class]string{
	Normal: "normal",
	Soft:   "soft",
	Hard:   "hard",
	Over:   "over",
	Under:  "under",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// DefaultRate is the relative deviation from the frame mean used by Average.
const DefaultRate = 0.10

// boundTolerance is the relative slack applied to the average band bounds.
const boundTolerance = 1e-9

// Policy classifies every node of a frame.
type Policy interface {
	Classify(frame []float64) []Class
	// Classes lists the classes the policy can assign, in legend order.
	Classes() []Class
}

// Threshold compares loads with two fixed limits. Both bounds are inclusive.
type Threshold struct {
	Soft float64
	Hard float64
}

func (p Threshold) Classify(frame []float64) []Class {
	classes := make([]Class, len(frame))
	for j, v := range frame {
		switch {
		case v >= p.Hard:
			classes[j] = Hard
		case v >= p.Soft:
			classes[j] = Soft
		default:
			classes[j] = Normal
		}
	}
	return classes
}

func (p Threshold) Classes() []Class {
	return []Class{Normal, Soft, Hard}
}

// Average compares loads with the mean load of their own frame.
type Average struct {
	Rate float64
}

func (p Average) Classify(frame []float64) []Class {
	classes := make([]Class, len(frame))
	mean := Mean(frame)
	upper := (1 + p.Rate) * mean
	lower := (1 - p.Rate) * mean
	// both bounds are inclusive; (1+0.1)*100 is 110.00000000000001
	tol := boundTolerance * math.Max(math.Abs(mean), 1)
	for j, v := range frame {
		switch {
		case v >= upper-tol:
			classes[j] = Over
		case v <= lower+tol:
			classes[j] = Under
		default:
			classes[j] = Normal
		}
	}
	return classes
}

func (p Average) Classes() []Class {
	return []Class{Under, Normal, Over}
}

// Mean is the arithmetic mean of frame, 0 for an empty frame.
func Mean(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range frame {
		sum += v
	}
	return sum / float64(len(frame))
}

// ForTrace builds the policy matching the header shape of t. rate is only
// used in average mode.
func ForTrace(t *trace.Trace, rate float64) Policy {
	if t.Mode == trace.ThresholdMode {
		return Threshold{Soft: t.SoftLimit, Hard: t.HardLimit}
	}
	return Average{Rate: rate}
}
