package config

import (
	"os"

	"github.com/magiconair/properties"
	"github.com/pingcap/errors"
	"gopkg.in/yaml.v3"
)

// Video holds the frame geometry and encoder settings shared by both modes.
type Video struct {
	Width            float64 `yaml:"Width"`  // inches
	Height           float64 `yaml:"Height"` // inches
	DPI              int     `yaml:"DPI"`
	YMin             float64 `yaml:"YMin"`
	YMax             float64 `yaml:"YMax"`
	BarWidth         float64 `yaml:"BarWidth"` // data units
	Encoder          string  `yaml:"Encoder"`  // auto, ffmpeg, gif or frames
	FFmpeg           string  `yaml:"FFmpeg"`
	Codec            string  `yaml:"Codec"`
	PixelFormat      string  `yaml:"PixelFormat"`
	Title            string  `yaml:"Title"`
	Artist           string  `yaml:"Artist"`
	TitleCardSeconds float64 `yaml:"TitleCardSeconds"`
	XLabel           string  `yaml:"XLabel"`
	YLabel           string  `yaml:"YLabel"`
}

type Threshold struct {
	FPS    int     `yaml:"FPS"`
	LabelX float64 `yaml:"LabelX"`
	LabelY float64 `yaml:"LabelY"`
}

type Average struct {
	FPS  int     `yaml:"FPS"`
	Rate float64 `yaml:"Rate"`
}

type Config struct {
	Video     Video     `yaml:"Video"`
	Threshold Threshold `yaml:"Threshold"`
	Average   Average   `yaml:"Average"`
}

// property keys accepted by ApplyProperties
const (
	VideoWidth       = "video.width"
	VideoHeight      = "video.height"
	VideoDPI         = "video.dpi"
	VideoYMin        = "video.ymin"
	VideoYMax        = "video.ymax"
	VideoBarWidth    = "video.barwidth"
	VideoEncoder     = "video.encoder"
	VideoFFmpeg      = "video.ffmpeg"
	VideoCodec       = "video.codec"
	VideoPixelFormat = "video.pixfmt"
	VideoTitle       = "video.title"
	VideoArtist      = "video.artist"
	VideoTitleCard   = "video.titlecard"
	ThresholdFPS     = "threshold.fps"
	AverageFPS       = "average.fps"
	AverageRate      = "average.rate"
)

// GetDefaultConfig returns the settings the load video has always been
// rendered with.
func GetDefaultConfig() Config {
	return Config{
		Video: Video{
			Width:            6.4,
			Height:           4.8,
			DPI:              100,
			YMin:             0,
			YMax:             110,
			BarWidth:         0.8,
			Encoder:          "auto",
			FFmpeg:           "ffmpeg",
			Codec:            "libx264",
			PixelFormat:      "yuv420p",
			Title:            "Metadata node load balancing",
			Artist:           "OGMDSim",
			TitleCardSeconds: 0,
			XLabel:           "metadata nodes",
			YLabel:           "node load (%)",
		},
		Threshold: Threshold{
			FPS:    8,
			LabelX: -0.3,
			LabelY: 105,
		},
		Average: Average{
			FPS:  15,
			Rate: 0.10,
		},
	}
}

// NewConfig creates a new Config instance, populating it with values from a
// YAML file on top of the defaults. An empty file name returns the defaults.
func NewConfig(yamlFileName string) (*Config, error) {
	defaultConfig := GetDefaultConfig()
	if yamlFileName == "" {
		return &defaultConfig, nil
	}

	yamlFile, err := os.ReadFile(yamlFileName)
	if err != nil {
		return &defaultConfig, errors.Trace(err)
	}

	if err = yaml.Unmarshal(yamlFile, &defaultConfig); err != nil {
		return &defaultConfig, errors.Annotatef(err, "decode %s", yamlFileName)
	}

	return &defaultConfig, defaultConfig.Validate()
}

// ApplyProperties overrides fields with any matching key found in props.
func (c *Config) ApplyProperties(props *properties.Properties) error {
	if props == nil {
		return nil
	}
	c.Video.Width = props.GetFloat64(VideoWidth, c.Video.Width)
	c.Video.Height = props.GetFloat64(VideoHeight, c.Video.Height)
	c.Video.DPI = props.GetInt(VideoDPI, c.Video.DPI)
	c.Video.YMin = props.GetFloat64(VideoYMin, c.Video.YMin)
	c.Video.YMax = props.GetFloat64(VideoYMax, c.Video.YMax)
	c.Video.BarWidth = props.GetFloat64(VideoBarWidth, c.Video.BarWidth)
	c.Video.Encoder = props.GetString(VideoEncoder, c.Video.Encoder)
	c.Video.FFmpeg = props.GetString(VideoFFmpeg, c.Video.FFmpeg)
	c.Video.Codec = props.GetString(VideoCodec, c.Video.Codec)
	c.Video.PixelFormat = props.GetString(VideoPixelFormat, c.Video.PixelFormat)
	c.Video.Title = props.GetString(VideoTitle, c.Video.Title)
	c.Video.Artist = props.GetString(VideoArtist, c.Video.Artist)
	c.Video.TitleCardSeconds = props.GetFloat64(VideoTitleCard, c.Video.TitleCardSeconds)
	c.Threshold.FPS = props.GetInt(ThresholdFPS, c.Threshold.FPS)
	c.Average.FPS = props.GetInt(AverageFPS, c.Average.FPS)
	c.Average.Rate = props.GetFloat64(AverageRate, c.Average.Rate)
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return errors.Errorf("video size must be positive, got %vx%v", c.Video.Width, c.Video.Height)
	}
	if c.Video.DPI <= 0 {
		return errors.Errorf("video dpi must be positive, got %d", c.Video.DPI)
	}
	if c.Video.YMax <= c.Video.YMin {
		return errors.Errorf("video y range [%v, %v] is empty", c.Video.YMin, c.Video.YMax)
	}
	if c.Threshold.FPS <= 0 || c.Average.FPS <= 0 {
		return errors.Errorf("frame rates must be positive, got %d and %d", c.Threshold.FPS, c.Average.FPS)
	}
	if c.Average.Rate < 0 {
		return errors.Errorf("average rate must not be negative, got %v", c.Average.Rate)
	}
	switch c.Video.Encoder {
	case "auto", "ffmpeg", "gif", "frames":
	default:
		return errors.Errorf("unknown encoder %q", c.Video.Encoder)
	}
	return nil
}
