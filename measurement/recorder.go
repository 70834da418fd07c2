package measurement

import (
	"time"

	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"

	"ogmdplot/policy"
)

// Recorder counts what a render produced. It owns its registry so several
// renders in one process do not share counters.
type Recorder struct {
	registry *prometheus.Registry

	frames   prometheus.Counter
	bars     *prometheus.CounterVec
	nodes    prometheus.Gauge
	duration prometheus.Histogram
	bytes    prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loadvid_frames_total",
			Help: "Frames handed to the encoder.",
		}),
		bars: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadvid_bars_total",
				Help: "Node bars drawn, by load class.",
			},
			[]string{"class"},
		),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loadvid_nodes",
			Help: "Metadata nodes in the trace.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loadvid_frame_seconds",
			Help:    "Time to draw and encode one frame.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		bytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loadvid_output_bytes",
			Help: "Size of the written output.",
		}),
	}
	r.registry.MustRegister(r.frames, r.bars, r.nodes, r.duration, r.bytes)
	return r
}

// Nodes sets the node count gauge.
func (r *Recorder) Nodes(n int) {
	r.nodes.Set(float64(n))
}

// Frame records one encoded frame with the class of every bar.
func (r *Recorder) Frame(classes []policy.Class, took time.Duration) {
	r.frames.Inc()
	for _, c := range classes {
		r.bars.WithLabelValues(c.String()).Inc()
	}
	r.duration.Observe(took.Seconds())
}

// OutputSize records the size of the finished output.
func (r *Recorder) OutputSize(n int64) {
	r.bytes.Set(float64(n))
}

// Registry exposes the collectors, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return errors.Trace(prometheus.WriteToTextfile(path, r.registry))
}
