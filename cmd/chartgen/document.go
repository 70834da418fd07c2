package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pingcap/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"ogmdplot/chart"
	"ogmdplot/util"
)

// chart kinds
const (
	kindLine      = "line"
	kindRules     = "rules"
	kindDual      = "dual"
	kindPoints    = "points"
	kindHistogram = "histogram"
	kindStacked   = "stacked"
	kindPie       = "pie"
)

// Entry is one chart of a document.
type Entry struct {
	Kind    string `yaml:"kind"`
	Title   string `yaml:"title"`
	File    string `yaml:"file"`
	Format  string `yaml:"format"`
	XLabel  string `yaml:"xLabel"`
	YLabel  string `yaml:"yLabel"`
	YLabel2 string `yaml:"yLabel2"`

	Data      chart.Data        `yaml:"data"`
	Secondary chart.Data        `yaml:"secondary"`
	Rules     []chart.Rule      `yaml:"rules"`
	MaxValue  float64           `yaml:"maxValue"`
	Axis      *chart.BrokenAxis `yaml:"axis"`

	Values []float64 `yaml:"values"`
	Labels []string  `yaml:"labels"`
}

// Document lists the charts to draw and an optional png summary tiling them.
type Document struct {
	Charts      []Entry `yaml:"charts"`
	Tile        string  `yaml:"tile"`
	TileColumns int     `yaml:"tileColumns"`
}

func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	doc := &Document{TileColumns: 2}
	if err = yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.Annotatef(err, "decode %s", path)
	}
	if len(doc.Charts) == 0 {
		return nil, errors.Errorf("%s lists no charts", path)
	}
	return doc, nil
}

// fileName is where entry i is written: File if set, else a name derived
// from the title and the format.
func (e Entry) fileName(i int) string {
	if e.File != "" {
		return e.File
	}
	stem := util.Slug(e.Title)
	if stem == "" {
		stem = e.Kind
	}
	format := strings.TrimPrefix(e.Format, ".")
	if format == "" {
		format = "png"
	}
	return fmt.Sprintf("%02d-%s.%s", i, stem, format)
}

func (e Entry) options() chart.Options {
	opts := chart.Options{
		XLabel:  e.XLabel,
		YLabel:  e.YLabel,
		YLabel2: e.YLabel2,
		Format:  e.Format,
	}
	if e.Axis != nil {
		opts.Axis = *e.Axis
	}
	return opts
}

// draw writes the chart of e to path.
func (e Entry) draw(path string) error {
	opts := e.options()
	switch e.Kind {
	case kindLine:
		return chart.LineGraph(path, e.Data, opts)
	case kindRules:
		return chart.LineGraphWithRules(path, e.Data, e.Rules, opts)
	case kindDual:
		return chart.DualAxisGraphWithRules(path, e.Data, e.Secondary, e.Rules, e.MaxValue, opts)
	case kindPoints:
		return chart.PointGraph(path, e.Data, opts)
	case kindHistogram:
		return chart.Histogram(path, e.Data, opts)
	case kindStacked:
		return chart.StackedHistogram(path, e.Data, opts)
	case kindPie:
		return chart.PieChart(path, e.Values, e.Labels, opts)
	default:
		return errors.Errorf("unknown chart kind %q", e.Kind)
	}
}

// renderDocument draws every chart of doc into outDir and returns the written
// paths, followed by the tile summary when one is requested.
func renderDocument(doc *Document, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Trace(err)
	}
	var written, tiles []string
	for i, e := range doc.Charts {
		path := filepath.Join(outDir, e.fileName(i))
		if err := e.draw(path); err != nil {
			return written, errors.Annotatef(err, "chart %d (%s)", i, e.Kind)
		}
		log.Infof("Wrote %s", path)
		written = append(written, path)
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".png" || ext == ".jpg" || ext == ".jpeg" {
			tiles = append(tiles, path)
		}
	}

	if doc.Tile == "" {
		return written, nil
	}
	if len(tiles) == 0 {
		log.Warnf("no png charts to tile into %s", doc.Tile)
		return written, nil
	}
	cols := doc.TileColumns
	if cols <= 0 {
		cols = 2
	}
	var grid [][]string
	for start := 0; start < len(tiles); start += cols {
		end := start + cols
		if end > len(tiles) {
			end = len(tiles)
		}
		grid = append(grid, tiles[start:end])
	}
	dst := filepath.Join(outDir, doc.Tile)
	if err := chart.Tile(dst, grid); err != nil {
		return written, errors.Annotate(err, "tile")
	}
	log.Infof("Wrote %s", dst)
	return append(written, dst), nil
}
