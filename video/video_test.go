package video

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ogmdplot/chart"
	"ogmdplot/config"
	"ogmdplot/measurement"
	"ogmdplot/policy"
	"ogmdplot/trace"
)

func smallConfig() *config.Config {
	cfg := config.GetDefaultConfig()
	cfg.Video.Width = 3
	cfg.Video.Height = 2
	cfg.Video.DPI = 30
	return &cfg
}

func parse(t *testing.T, s string) *trace.Trace {
	tr, err := trace.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return tr
}

func TestFrameLabel(t *testing.T) {
	want := []string{"frame 1", "frame 1.5", "frame 2.0", "frame 2.5", "frame 3.0"}
	for k, w := range want {
		assert.Equal(t, w, FrameLabel(k))
	}
}

func TestClassColor(t *testing.T) {
	assert.Equal(t, color.Color(chart.RED), ClassColor(policy.Hard))
	assert.Equal(t, color.Color(chart.ORANGE), ClassColor(policy.Soft))
	assert.Equal(t, color.Color(chart.GREEN), ClassColor(policy.Normal))
	assert.Equal(t, color.Color(chart.RED), ClassColor(policy.Over))
	assert.Equal(t, color.Color(chart.BLUE), ClassColor(policy.Under))
}

func TestFramesThreshold(t *testing.T) {
	tr := parse(t, "3 70 90\n10 50 95\n20 60 99\n")
	f, err := NewFrames(tr, smallConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, 8, f.FPS())

	p, classes, err := f.Plot(0)
	require.NoError(t, err)
	assert.Equal(t, []policy.Class{policy.Normal, policy.Normal, policy.Hard}, classes)
	assert.Equal(t, -0.5, p.X.Min)
	assert.Equal(t, 2.5, p.X.Max)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 110.0, p.Y.Max)
	assert.Equal(t, "metadata nodes", p.X.Label.Text)
	assert.Equal(t, "node load (%)", p.Y.Label.Text)

	img, _, err := f.Image(1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 90, 60), img.Bounds())

	_, _, err = f.Plot(2)
	assert.Error(t, err)
}

func TestFramesAverage(t *testing.T) {
	tr := parse(t, "2\n10 30\n")
	f, err := NewFrames(tr, smallConfig())
	require.NoError(t, err)
	assert.Equal(t, 15, f.FPS())

	_, classes, err := f.Plot(0)
	require.NoError(t, err)
	assert.Equal(t, []policy.Class{policy.Under, policy.Over}, classes)
}

func TestFramesRagged(t *testing.T) {
	tr := &trace.Trace{Mode: trace.AverageMode, NodeCount: 3, Frames: [][]float64{{1, 2, 3}, {1, 2}}}
	_, err := NewFrames(tr, smallConfig())
	assert.Error(t, err)
}

func TestResolveKind(t *testing.T) {
	assert.Equal(t, KindGIF, ResolveKind(KindAuto, "out.GIF"))
	assert.Equal(t, KindFrames, ResolveKind("", "out"))
	assert.Equal(t, KindFFmpeg, ResolveKind(KindAuto, "out.mp4"))
	assert.Equal(t, KindGIF, ResolveKind(KindGIF, "out.mp4"))
}

func TestNewEncoderErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewEncoder(context.Background(), KindGIF, filepath.Join(dir, "a.gif"), EncoderOptions{})
	assert.Error(t, err)

	_, err = NewEncoder(context.Background(), "webm", filepath.Join(dir, "a.webm"), EncoderOptions{FPS: 8})
	assert.Error(t, err)

	_, err = NewEncoder(context.Background(), KindFFmpeg, filepath.Join(dir, "a.mp4"), EncoderOptions{FPS: 8, FFmpeg: "no-such-ffmpeg-binary"})
	assert.Equal(t, ErrFFmpegNotFound, errors.Cause(err))
}

func TestRenderGIF(t *testing.T) {
	tr := parse(t, "3 70 90\n10 50 95\n 0 0 0\n20 60 99\n30 80 40\n")
	cfg := smallConfig()
	path := filepath.Join(t.TempDir(), "load.gif")

	frames, err := NewFrames(tr, cfg)
	require.NoError(t, err)
	enc, err := NewEncoder(context.Background(), KindAuto, path, OptionsFromConfig(cfg, frames.FPS()))
	require.NoError(t, err)
	rec := measurement.NewRecorder()
	require.NoError(t, Render(context.Background(), frames, enc, rec))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)
	assert.Equal(t, []int{13, 12, 13}, anim.Delay)
}

func TestGIFDelaysKeepFrameRate(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for _, fps := range []int{8, 15, 24, 30, 100, 200} {
		e, err := newGIFEncoder("unused.gif", EncoderOptions{FPS: fps})
		require.NoError(t, err)
		for i := 0; i < 4*fps; i++ {
			require.NoError(t, e.WriteFrame(img))
		}
		total := 0
		for _, d := range e.anim.Delay {
			assert.GreaterOrEqual(t, d, 1)
			total += d
		}
		if fps <= 100 {
			// four seconds of frames last four seconds
			assert.Equal(t, 400, total, "fps %d", fps)
		}
	}

	e, err := newGIFEncoder("unused.gif", EncoderOptions{FPS: 15})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, e.WriteFrame(img))
	}
	assert.Equal(t, []int{7, 6, 7}, e.anim.Delay)
}

func TestRenderFramesWithTitleCard(t *testing.T) {
	tr := parse(t, "2\n10 30\n20 20\n")
	cfg := smallConfig()
	cfg.Video.TitleCardSeconds = 0.2
	dir := filepath.Join(t.TempDir(), "frames")

	frames, err := NewFrames(tr, cfg)
	require.NoError(t, err)
	enc, err := NewEncoder(context.Background(), KindAuto, dir, OptionsFromConfig(cfg, frames.FPS()))
	require.NoError(t, err)
	require.NoError(t, Render(context.Background(), frames, enc, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	// 0.2 s at 15 fps is 3 card frames
	assert.Len(t, entries, 5)
	assert.Equal(t, FrameFileName(0), entries[0].Name())
}

func TestRenderCanceled(t *testing.T) {
	tr := parse(t, "2\n10 30\n20 20\n")
	cfg := smallConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, err := NewFrames(tr, cfg)
	require.NoError(t, err)
	enc, err := NewEncoder(ctx, KindFrames, filepath.Join(t.TempDir(), "frames"), OptionsFromConfig(cfg, 15))
	require.NoError(t, err)
	err = Render(ctx, frames, enc, nil)
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

// recordingEncoder keeps the frames it receives.
type recordingEncoder struct {
	frames []image.Image
	closed int
}

func (e *recordingEncoder) WriteFrame(img image.Image) error {
	e.frames = append(e.frames, img)
	return nil
}

func (e *recordingEncoder) Close() error {
	e.closed++
	return nil
}

func TestRenderUsesPreparedFrames(t *testing.T) {
	tr := parse(t, "3 70 90\n10 50 95\n20 60 99\n")
	frames, err := NewFrames(tr, smallConfig())
	require.NoError(t, err)

	enc := &recordingEncoder{}
	rec := measurement.NewRecorder()
	require.NoError(t, Render(context.Background(), frames, enc, rec))
	assert.Len(t, enc.frames, frames.Len())
	assert.Equal(t, 1, enc.closed)
	w, h := frames.Size()
	assert.Equal(t, image.Rect(0, 0, w, h), enc.frames[0].Bounds())
}

func TestTitleCard(t *testing.T) {
	tr := parse(t, "3 70 90\n10 50 95\n")
	lines := TitleCardLines("metadata node load balancing", tr, 8)
	assert.Equal(t, "Metadata Node Load Balancing", lines[0])
	assert.Contains(t, lines, "Mode: Threshold")
	assert.Contains(t, lines, "Hard limit: 90%")

	img, err := TitleCard(320, 240, lines)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 240), img.Bounds())

	assert.Equal(t, 0, TitleCardFrames(0, 8))
	assert.Equal(t, 16, TitleCardFrames(2, 8))
	assert.Equal(t, 2, TitleCardFrames(0.1, 15))
}

func TestRenderFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	tr := parse(t, "3 70 90\n10 50 95\n20 60 99\n")
	cfg := smallConfig()
	path := filepath.Join(t.TempDir(), "load.mp4")

	frames, err := NewFrames(tr, cfg)
	require.NoError(t, err)
	enc, err := NewEncoder(context.Background(), KindAuto, path, OptionsFromConfig(cfg, frames.FPS()))
	require.NoError(t, err)
	require.NoError(t, Render(context.Background(), frames, enc, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestFFmpegArgs(t *testing.T) {
	args := ffmpegArgs("out.mp4", EncoderOptions{FPS: 8, Codec: "libx264", PixelFormat: "yuv420p", Title: "t", Artist: "a"})
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-framerate 8")
	assert.Contains(t, joined, "-c:v libx264")
	assert.Contains(t, joined, "-pix_fmt yuv420p")
	assert.Contains(t, joined, "-metadata title=t")
	assert.Contains(t, joined, "-metadata artist=a")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}
