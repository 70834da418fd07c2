package video

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pingcap/errors"
)

// framesEncoder writes every frame as a numbered png into a directory.
type framesEncoder struct {
	dir    string
	frames int
}

func newFramesEncoder(dir string) (*framesEncoder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Trace(err)
	}
	return &framesEncoder{dir: dir}, nil
}

// FrameFileName is the name of frame k inside a frame directory.
func FrameFileName(k int) string {
	return fmt.Sprintf("frame-%05d.png", k)
}

func (e *framesEncoder) WriteFrame(img image.Image) error {
	path := filepath.Join(e.dir, FrameFileName(e.frames))
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	if err = png.Encode(f, img); err != nil {
		_ = f.Close()
		return errors.Annotatef(err, "encode %s", path)
	}
	if err = f.Close(); err != nil {
		return errors.Trace(err)
	}
	e.frames++
	return nil
}

func (e *framesEncoder) Close() error {
	return nil
}
