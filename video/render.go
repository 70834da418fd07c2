package video

import (
	"context"
	"time"

	"github.com/pingcap/errors"
	log "github.com/sirupsen/logrus"

	"ogmdplot/measurement"
)

// Render draws every frame, after the optional title card, and hands it to
// enc. enc is closed before returning. rec may be nil.
func Render(ctx context.Context, frames *Frames, enc Encoder, rec *measurement.Recorder) (err error) {
	defer func() {
		if closeErr := enc.Close(); err == nil {
			err = closeErr
		}
	}()

	t, cfg := frames.trace, frames.cfg
	if rec != nil {
		rec.Nodes(t.NodeCount)
	}

	if n := TitleCardFrames(cfg.Video.TitleCardSeconds, frames.FPS()); n > 0 {
		w, h := frames.Size()
		card, err := TitleCard(w, h, TitleCardLines(cfg.Video.Title, t, frames.FPS()))
		if err != nil {
			return errors.Annotate(err, "title card")
		}
		log.Debugf("title card: %d frames", n)
		for i := 0; i < n; i++ {
			if err = enc.WriteFrame(card); err != nil {
				return errors.Annotate(err, "title card")
			}
		}
	}

	log.Infof("Rendering %d frames of %d %s nodes at %d fps...", frames.Len(), t.NodeCount, t.Mode, frames.FPS())
	for k := 0; k < frames.Len(); k++ {
		if err := ctx.Err(); err != nil {
			return errors.Annotatef(err, "stopped at frame %d", k)
		}
		start := time.Now()
		img, classes, err := frames.Image(k)
		if err != nil {
			return errors.Annotatef(err, "frame %d", k)
		}
		if err = enc.WriteFrame(img); err != nil {
			return errors.Annotatef(err, "frame %d", k)
		}
		if rec != nil {
			rec.Frame(classes, time.Since(start))
		}
		log.Debugf("frame %d/%d done", k+1, frames.Len())
	}
	return nil
}
