package video

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strings"

	"github.com/pingcap/errors"
	log "github.com/sirupsen/logrus"
)

var ErrFFmpegNotFound = errors.New("ffmpeg binary not found")

// ffmpegEncoder pipes png frames into an ffmpeg child process.
type ffmpegEncoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	buf    *bufio.Writer
	stderr bytes.Buffer
	png    png.Encoder
	path   string
	frames int
}

func ffmpegArgs(path string, opts EncoderOptions) []string {
	args := []string{
		"-y", "-loglevel", "error",
		"-f", "image2pipe", "-framerate", fmt.Sprint(opts.FPS), "-c:v", "png", "-i", "-",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
	}
	if opts.Codec != "" {
		args = append(args, "-c:v", opts.Codec)
	}
	if opts.PixelFormat != "" {
		args = append(args, "-pix_fmt", opts.PixelFormat)
	}
	if opts.Title != "" {
		args = append(args, "-metadata", "title="+opts.Title)
	}
	if opts.Artist != "" {
		args = append(args, "-metadata", "artist="+opts.Artist)
	}
	return append(args, path)
}

func newFFmpegEncoder(ctx context.Context, path string, opts EncoderOptions) (*ffmpegEncoder, error) {
	name := opts.FFmpeg
	if name == "" {
		name = "ffmpeg"
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, errors.Annotatef(ErrFFmpegNotFound, "%s: %v", name, err)
	}

	e := &ffmpegEncoder{path: path, png: png.Encoder{CompressionLevel: png.BestSpeed}}
	e.cmd = exec.CommandContext(ctx, bin, ffmpegArgs(path, opts)...)
	e.cmd.Stderr = &e.stderr
	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = e.cmd.Start(); err != nil {
		return nil, errors.Annotatef(err, "start %s", bin)
	}
	e.buf = bufio.NewWriter(e.stdin)
	log.Debugf("started %s", strings.Join(e.cmd.Args, " "))
	return e, nil
}

func (e *ffmpegEncoder) WriteFrame(img image.Image) error {
	if err := e.png.Encode(e.buf, img); err != nil {
		return errors.Annotatef(err, "frame %d: %s", e.frames, e.stderrTail())
	}
	e.frames++
	return nil
}

func (e *ffmpegEncoder) Close() error {
	flushErr := e.buf.Flush()
	closeErr := e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return errors.Annotatef(err, "ffmpeg %s: %s", e.path, e.stderrTail())
	}
	if flushErr != nil {
		return errors.Trace(flushErr)
	}
	return errors.Trace(closeErr)
}

// stderrTail is the last line ffmpeg complained with.
func (e *ffmpegEncoder) stderrTail() string {
	lines := strings.Split(strings.TrimSpace(e.stderr.String()), "\n")
	return lines[len(lines)-1]
}
