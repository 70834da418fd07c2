package video

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pingcap/errors"

	"ogmdplot/trace"
	"ogmdplot/util"
)

// TitleCardLines summarizes a run for the title card. The first line is the
// heading.
func TitleCardLines(title string, t *trace.Trace, fps int) []string {
	lines := []string{
		util.TitleCase(title),
		fmt.Sprintf("Mode: %s", util.TitleCase(t.Mode.String())),
		fmt.Sprintf("Metadata nodes: %s", humanize.Comma(int64(t.NodeCount))),
		fmt.Sprintf("Frames: %s at %d fps", humanize.Comma(int64(t.Len())), fps),
	}
	if t.Mode == trace.ThresholdMode {
		lines = append(lines, fmt.Sprintf("Soft limit: %g%%", t.SoftLimit), fmt.Sprintf("Hard limit: %g%%", t.HardLimit))
	}
	return lines
}

// TitleCardFrames is how many frames a card shown for seconds takes at fps.
func TitleCardFrames(seconds float64, fps int) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	// round away float noise such as 0.2*15 = 3.0000000000000004
	return int(math.Ceil(seconds*float64(fps) - 1e-9))
}

type cardFonts struct {
	regular *truetype.Font
	bold    *truetype.Font
}

func loadCardFonts() (*cardFonts, error) {
	regular, err := freetype.ParseFont(liberationsansregular.TTF)
	if err != nil {
		return nil, errors.Annotate(err, "regular font")
	}
	bold, err := freetype.ParseFont(liberationsansbold.TTF)
	if err != nil {
		return nil, errors.Annotate(err, "bold font")
	}
	return &cardFonts{regular: regular, bold: bold}, nil
}

// TitleCard draws lines on a white width x height image, the first one in bold.
func TitleCard(width, height int, lines []string) (image.Image, error) {
	fonts, err := loadCardFonts()
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	leftIndent := width / 12
	cur := height / 6
	add := func(left, top int, bold bool, size float64, str string) error {
		cur += top
		c := freetype.NewContext()
		c.SetDPI(72)
		if bold {
			c.SetFont(fonts.bold)
		} else {
			c.SetFont(fonts.regular)
		}
		c.SetFontSize(size)
		c.SetClip(img.Bounds())
		c.SetDst(img)
		c.SetSrc(image.NewUniform(color.Black))
		// y is the baseline
		pt := freetype.Pt(leftIndent+left, cur+int(c.PointToFixed(size)>>6))
		_, err := c.DrawString(str, pt)
		return errors.Trace(err)
	}

	for i, line := range lines {
		if i == 0 {
			if err = add(0, 0, true, 24, line); err != nil {
				return nil, err
			}
			cur += 16
			continue
		}
		if err = add(20, 28, false, 16, line); err != nil {
			return nil, err
		}
	}
	return img, nil
}
