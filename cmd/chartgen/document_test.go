package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
charts:
  - kind: line
    title: User requests per second
    xLabel: time (s)
    yLabel: requests
    data:
      x: [0, 1, 2, 3, 4]
      series:
        - label: node 0
          values: [1, 4, 9, 16, 25]
        - label: node 1
          values: [2, 3, 5, 7, 11]
  - kind: stacked
    file: stacked.png
    data:
      x: [0, 1, 2]
      series:
        - label: hit
          values: [3, 4, 5]
        - label: miss
          values: [1, 1, 2]
  - kind: pie
    title: Hit ratio
    format: svg
    values: [30, 70]
    labels: [hit, miss]
  - kind: rules
    title: Failures
    axis: {leftMin: 0, leftMax: 10, rightMin: 20, rightMax: 100}
    data:
      x: [0, 5, 10, 30, 60, 100]
      series:
        - values: [1, 2, 3, 2, 1, 0]
    rules:
      - label: failure
        x: 5
tile: summary.png
tileColumns: 2
`

func TestRenderDocument(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "charts.yaml")
	require.NoError(t, os.WriteFile(docPath, []byte(sampleDocument), 0o644))

	doc, err := readDocument(docPath)
	require.NoError(t, err)
	require.Len(t, doc.Charts, 4)
	require.NotNil(t, doc.Charts[3].Axis)
	assert.Equal(t, 100.0, doc.Charts[3].Axis.RightMax)

	out := filepath.Join(dir, "out")
	written, err := renderDocument(doc, out)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(out, "00-user-requests-per-second.png"),
		filepath.Join(out, "stacked.png"),
		filepath.Join(out, "02-hit-ratio.svg"),
		filepath.Join(out, "03-failures.png"),
		filepath.Join(out, "summary.png"),
	}, written)
	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestReadDocumentErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("charts: []\n"), 0o644))
	_, err := readDocument(empty)
	assert.Error(t, err)

	_, err = readDocument(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestUnknownKind(t *testing.T) {
	doc := &Document{Charts: []Entry{{Kind: "radar"}}}
	_, err := renderDocument(doc, t.TempDir())
	assert.Error(t, err)
}
