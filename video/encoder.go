package video

import (
	"context"
	"image"
	"path/filepath"
	"strings"

	"github.com/pingcap/errors"

	"ogmdplot/config"
)

// Encoder receives rasterized frames in order.
type Encoder interface {
	WriteFrame(img image.Image) error
	// Close flushes the output. The encoder must not be used afterwards.
	Close() error
}

// encoder kinds accepted by NewEncoder
const (
	KindAuto   = "auto"
	KindFFmpeg = "ffmpeg"
	KindGIF    = "gif"
	KindFrames = "frames"
)

// EncoderOptions are the settings shared by every encoder.
type EncoderOptions struct {
	FPS         int
	FFmpeg      string
	Codec       string
	PixelFormat string
	Title       string
	Artist      string
}

// OptionsFromConfig picks the encoder settings out of cfg for a video at fps.
func OptionsFromConfig(cfg *config.Config, fps int) EncoderOptions {
	return EncoderOptions{
		FPS:         fps,
		FFmpeg:      cfg.Video.FFmpeg,
		Codec:       cfg.Video.Codec,
		PixelFormat: cfg.Video.PixelFormat,
		Title:       cfg.Video.Title,
		Artist:      cfg.Video.Artist,
	}
}

// ResolveKind replaces KindAuto by the encoder matching the output path: gif
// for .gif, a frame directory when there is no extension, ffmpeg otherwise.
func ResolveKind(kind, path string) string {
	if kind != "" && kind != KindAuto {
		return kind
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gif":
		return KindGIF
	case "":
		return KindFrames
	default:
		return KindFFmpeg
	}
}

// NewEncoder opens the encoder of the given kind writing to path. The ffmpeg
// encoder stops when ctx is canceled.
func NewEncoder(ctx context.Context, kind, path string, opts EncoderOptions) (Encoder, error) {
	if opts.FPS <= 0 {
		return nil, errors.Errorf("frame rate must be positive, got %d", opts.FPS)
	}
	switch ResolveKind(kind, path) {
	case KindFFmpeg:
		return newFFmpegEncoder(ctx, path, opts)
	case KindGIF:
		return newGIFEncoder(path, opts)
	case KindFrames:
		return newFramesEncoder(path)
	default:
		return nil, errors.Errorf("unknown encoder %q", kind)
	}
}
