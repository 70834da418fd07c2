package video

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/pingcap/errors"
)

// gifEncoder keeps every frame in memory and writes the animation on Close.
type gifEncoder struct {
	path string
	fps  int
	// elapsed is the end of the last frame in hundredths of a second
	elapsed int
	anim    gif.GIF
}

func newGIFEncoder(path string, opts EncoderOptions) (*gifEncoder, error) {
	return &gifEncoder{path: path, fps: opts.FPS}, nil
}

// nextDelay is the delay of the next frame. gif delays are whole hundredths
// of a second, so the rounding error is carried over to later frames and the
// average rate stays at fps.
func (e *gifEncoder) nextDelay() int {
	n := len(e.anim.Image) + 1
	end := (n*100 + e.fps/2) / e.fps
	delay := end - e.elapsed
	if delay < 1 {
		delay = 1
	}
	e.elapsed += delay
	return delay
}

func (e *gifEncoder) WriteFrame(img image.Image) error {
	b := img.Bounds()
	frame := image.NewPaletted(b, palette.Plan9)
	draw.Draw(frame, b, img, b.Min, draw.Src)
	e.anim.Delay = append(e.anim.Delay, e.nextDelay())
	e.anim.Image = append(e.anim.Image, frame)
	return nil
}

func (e *gifEncoder) Close() error {
	if len(e.anim.Image) == 0 {
		return errors.New("gif has no frames")
	}
	f, err := os.Create(e.path)
	if err != nil {
		return errors.Trace(err)
	}
	if err = gif.EncodeAll(f, &e.anim); err != nil {
		_ = f.Close()
		return errors.Annotatef(err, "encode %s", e.path)
	}
	return errors.Trace(f.Close())
}
