package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThreshold(t *testing.T) {
	tr, err := Parse(strings.NewReader("3 70 90\n10 50 95\n20 60 99\n"))
	require.NoError(t, err)

	assert.Equal(t, ThresholdMode, tr.Mode)
	assert.Equal(t, 3, tr.NodeCount)
	assert.Equal(t, 70.0, tr.SoftLimit)
	assert.Equal(t, 90.0, tr.HardLimit)
	assert.Equal(t, [][]float64{{10, 50, 95}, {20, 60, 99}}, tr.Frames)
	assert.NoError(t, tr.Validate())
}

func TestParseAverage(t *testing.T) {
	tr, err := Parse(strings.NewReader("2\n10 30\n"))
	require.NoError(t, err)

	assert.Equal(t, AverageMode, tr.Mode)
	assert.Equal(t, 2, tr.NodeCount)
	assert.Equal(t, [][]float64{{10, 30}}, tr.Frames)
}

func TestParseModeSelection(t *testing.T) {
	tests := []struct {
		header string
		want   Mode
	}{
		{"4", AverageMode},
		{"4 70", AverageMode},
		{"4 70 90", ThresholdMode},
		{"4 70 90 ", AverageMode},
		{"4 70 90 100", AverageMode},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			tr, err := Parse(strings.NewReader(tt.header + "\n1 2 3 4\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Mode)
		})
	}
}

func TestParseSkipsSeparators(t *testing.T) {
	input := "2 50 80\n1.5 2.5\n \n   comment\n\n3 4\n"
	tr, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1.5, 2.5}, {3, 4}}, tr.Frames)
}

func TestParseCRLF(t *testing.T) {
	tr, err := Parse(strings.NewReader("2 50 80\r\n1 2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, ThresholdMode, tr.Mode)
	assert.Equal(t, 80.0, tr.HardLimit)
	assert.Equal(t, [][]float64{{1, 2}}, tr.Frames)
}

func TestParseIdempotent(t *testing.T) {
	input := "3 70 90\n10 50 95\n \n20 60 99\n"
	first, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	second, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"bad node count", "x\n1\n", "node count"},
		{"zero nodes", "0\n1\n", "must be positive"},
		{"bad soft limit", "2 a 90\n1 2\n", "soft limit"},
		{"bad hard limit", "2 70 b\n1 2\n", "hard limit"},
		{"float in average mode", "2\n1.5 2\n", "line 2"},
		{"bad float", "2 70 90\n1 abc\n", "line 2"},
		{"late bad line", "2\n1 2\n3 4\n5 x\n", "line 4"},
		{"nan load", "2 70 90\nNaN 1\n", "line 2"},
		{"infinite load", "2 70 90\n1 2\n1 Inf\n", "line 3"},
		{"negative infinite load", "2 70 90\n-inf 2\n", "not a finite number"},
		{"nan soft limit", "2 NaN 90\n1 2\n", "soft limit"},
		{"infinite hard limit", "2 70 +Inf\n1 2\n", "hard limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Equal(t, ErrEmpty, errors.Cause(err))

	_, err = Parse(strings.NewReader("3\n \n"))
	assert.Equal(t, ErrNoFrames, errors.Cause(err))
}

func TestValidateRagged(t *testing.T) {
	tr, err := Parse(strings.NewReader("3\n1 2 3\n4 5\n"))
	require.NoError(t, err)

	err = tr.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 1 has 2 values, want 3")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.txt")
	require.NoError(t, os.WriteFile(path, []byte("2\n10 30\n20 20\n"), 0o644))

	tr, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Len())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "threshold", ThresholdMode.String())
	assert.Equal(t, "average", AverageMode.String())
}
