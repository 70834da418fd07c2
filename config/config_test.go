package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8, c.Threshold.FPS)
	assert.Equal(t, 15, c.Average.FPS)
	assert.Equal(t, 0.10, c.Average.Rate)
	assert.Equal(t, 0.0, c.Video.YMin)
	assert.Equal(t, 110.0, c.Video.YMax)
	assert.Equal(t, "auto", c.Video.Encoder)
	assert.NoError(t, c.Validate())
}

func TestNewConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	yml := "Threshold:\n  FPS: 24\nAverage:\n  Rate: 0.25\nVideo:\n  Encoder: gif\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	c, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 24, c.Threshold.FPS)
	assert.Equal(t, 0.25, c.Average.Rate)
	assert.Equal(t, "gif", c.Video.Encoder)
	// untouched fields keep their defaults
	assert.Equal(t, 15, c.Average.FPS)
	assert.Equal(t, 100, c.Video.DPI)
}

func TestNewConfigMissingFile(t *testing.T) {
	c, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 8, c.Threshold.FPS)
}

func TestNewConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Video:\n  Encoder: vhs\n"), 0o644))

	_, err := NewConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown encoder")
}

func TestApplyProperties(t *testing.T) {
	c := GetDefaultConfig()
	props := properties.NewProperties()
	_, _, err := props.Set(ThresholdFPS, "4")
	require.NoError(t, err)
	_, _, err = props.Set(AverageRate, "0.2")
	require.NoError(t, err)
	_, _, err = props.Set(VideoYMax, "150")
	require.NoError(t, err)

	require.NoError(t, c.ApplyProperties(props))
	assert.Equal(t, 4, c.Threshold.FPS)
	assert.Equal(t, 0.2, c.Average.Rate)
	assert.Equal(t, 150.0, c.Video.YMax)
	assert.Equal(t, 15, c.Average.FPS)
}

func TestApplyPropertiesRejectsBadValues(t *testing.T) {
	c := GetDefaultConfig()
	props, err := properties.LoadString("video.ymax = -1\n")
	require.NoError(t, err)
	assert.Error(t, c.ApplyProperties(props))
}

func TestApplyPropertiesNil(t *testing.T) {
	c := GetDefaultConfig()
	assert.NoError(t, c.ApplyProperties(nil))
}
