package measurement

import (
	"fmt"
	"io"
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pingcap/errors"

	"ogmdplot/policy"
	"ogmdplot/trace"
)

// loads are recorded with two decimals
const scale = 100

// NodeStats is the load profile of one node over the whole trace.
type NodeStats struct {
	Node    int
	Mean    float64
	Max     float64
	P95     float64
	Classes map[policy.Class]int
}

// Summary is the per node load profile of a trace.
type Summary struct {
	Mode    trace.Mode
	Frames  int
	Classes []policy.Class
	Nodes   []NodeStats
}

// Summarize classifies every frame of t with p and collects load percentiles
// per node. Negative loads are counted as 0 in the percentiles.
func Summarize(t *trace.Trace, p policy.Policy) (*Summary, error) {
	if err := t.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	highest := int64(2)
	for _, row := range t.Frames {
		for _, v := range row {
			if h := int64(math.Ceil(v*scale)) + 1; h > highest {
				highest = h
			}
		}
	}

	hists := make([]*hdrhistogram.Histogram, t.NodeCount)
	s := &Summary{Mode: t.Mode, Frames: t.Len(), Classes: p.Classes(), Nodes: make([]NodeStats, t.NodeCount)}
	for j := range hists {
		hists[j] = hdrhistogram.New(1, highest, 3)
		s.Nodes[j] = NodeStats{Node: j, Classes: make(map[policy.Class]int)}
	}

	for k, row := range t.Frames {
		for j, c := range p.Classify(row) {
			s.Nodes[j].Classes[c]++
			v := int64(math.Round(math.Max(row[j], 0) * scale))
			if err := hists[j].RecordValue(v); err != nil {
				return nil, errors.Annotatef(err, "frame %d node %d", k, j)
			}
		}
	}

	for j, h := range hists {
		s.Nodes[j].Mean = h.Mean() / scale
		s.Nodes[j].Max = float64(h.Max()) / scale
		s.Nodes[j].P95 = float64(h.ValueAtQuantile(95)) / scale
	}
	return s, nil
}

// ClassTotal is the number of node frames in class c.
func (s *Summary) ClassTotal(c policy.Class) int {
	total := 0
	for _, n := range s.Nodes {
		total += n.Classes[c]
	}
	return total
}

// Render writes the summary as a table, one row per node.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "%s mode, %s nodes, %s frames\n", s.Mode, humanize.Comma(int64(len(s.Nodes))), humanize.Comma(int64(s.Frames)))

	header := []string{"node", "mean", "p95", "max"}
	for _, c := range s.Classes {
		header = append(header, c.String())
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, n := range s.Nodes {
		row := []string{
			fmt.Sprint(n.Node),
			fmt.Sprintf("%.2f", n.Mean),
			fmt.Sprintf("%.2f", n.P95),
			fmt.Sprintf("%.2f", n.Max),
		}
		for _, c := range s.Classes {
			row = append(row, humanize.Comma(int64(n.Classes[c])))
		}
		table.Append(row)
	}
	table.Render()
}
