package trace

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
)

// Mode selects how bars are colored, decided by the shape of the header line.
type Mode int

const (
	// AverageMode compares every node with the mean load of its frame.
	AverageMode Mode = iota
	// ThresholdMode compares every node with a fixed soft and hard limit.
	ThresholdMode
)

func (m Mode) String() string {
	switch m {
	case ThresholdMode:
		return "threshold"
	case AverageMode:
		return "average"
	}
	return "unknown"
}

var (
	ErrEmpty    = errors.New("load file is empty")
	ErrNoFrames = errors.New("load file has no frames")
)

// Trace is the load evolution of the metadata nodes, one frame per sample.
type Trace struct {
	Mode      Mode
	NodeCount int
	SoftLimit float64
	HardLimit float64
	Frames    [][]float64
}

// ReadFile opens and parses the load file at path.
func ReadFile(path string) (*Trace, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	t, err := Parse(file)
	if err != nil {
		return nil, errors.Annotatef(err, "parse %s", path)
	}
	return t, nil
}

// Parse reads a load file. The first line is either "<nodes>" or
// "<nodes> <soft> <hard>"; every other line is a frame, except lines starting
// with a space and empty lines.
func Parse(r io.Reader) (*Trace, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Trace(err)
		}
		return nil, ErrEmpty
	}

	t, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, errors.Annotate(err, "line 1")
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || line[0] == ' ' {
			continue
		}
		frame, err := parseFrame(line, t.Mode)
		if err != nil {
			return nil, errors.Annotatef(err, "line %d", lineNo)
		}
		t.Frames = append(t.Frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	if len(t.Frames) == 0 {
		return nil, ErrNoFrames
	}
	return t, nil
}

// parseHeader splits on single spaces, so the token count is exactly what
// picks the mode: three tokens is threshold mode, anything else is average
// mode. Headers with four or more tokens are not a supported input; they fall
// through to average mode.
func parseHeader(line string) (*Trace, error) {
	tokens := strings.Split(strings.TrimRight(line, "\r\n"), " ")

	nodes, err := strconv.Atoi(strings.TrimSpace(tokens[0]))
	if err != nil {
		return nil, errors.Annotate(err, "node count")
	}
	if nodes <= 0 {
		return nil, errors.Errorf("node count must be positive, got %d", nodes)
	}

	t := &Trace{Mode: AverageMode, NodeCount: nodes}
	if len(tokens) != 3 {
		return t, nil
	}

	t.Mode = ThresholdMode
	if t.SoftLimit, err = parseFinite(strings.TrimSpace(tokens[1])); err != nil {
		return nil, errors.Annotate(err, "soft limit")
	}
	if t.HardLimit, err = parseFinite(strings.TrimSpace(tokens[2])); err != nil {
		return nil, errors.Annotate(err, "hard limit")
	}
	return t, nil
}

func parseFrame(line string, mode Mode) ([]float64, error) {
	fields := strings.Fields(line)
	frame := make([]float64, 0, len(fields))
	for _, f := range fields {
		if mode == AverageMode {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, errors.Trace(err)
			}
			frame = append(frame, float64(v))
			continue
		}
		v, err := parseFinite(f)
		if err != nil {
			return nil, err
		}
		frame = append(frame, v)
	}
	return frame, nil
}

// parseFinite parses a float and rejects NaN and infinities, which
// strconv accepts.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("load %q is not a finite number", s)
	}
	return v, nil
}

// Validate checks that every frame carries one value per declared node.
func (t *Trace) Validate() error {
	for i, frame := range t.Frames {
		if len(frame) != t.NodeCount {
			return errors.Errorf("frame %d has %d values, want %d", i, len(frame), t.NodeCount)
		}
	}
	return nil
}

// Len returns the number of frames.
func (t *Trace) Len() int {
	return len(t.Frames)
}
