package chart

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/pingcap/errors"
)

// TilePadding is the gap between tiles and around the border, in pixels.
const TilePadding = 20

// Tile lays the png/jpeg images in fileNames out on a grid, one row per
// slice, and writes the result as png to dst. Empty names leave a blank cell.
// Every cell is as large as the largest image.
func Tile(dst string, fileNames [][]string) error {
	images := make([][]image.Image, len(fileNames))
	var maxWidth, maxHeight, maxRowLength int
	for i, row := range fileNames {
		images[i] = make([]image.Image, len(row))
		if len(row) > maxRowLength {
			maxRowLength = len(row)
		}
		for j, fileName := range row {
			if fileName == "" {
				continue
			}
			img, err := openImage(fileName)
			if err != nil {
				return errors.Annotatef(err, "tile %d,%d", i, j)
			}
			images[i][j] = img
			if img.Bounds().Dx() > maxWidth {
				maxWidth = img.Bounds().Dx()
			}
			if img.Bounds().Dy() > maxHeight {
				maxHeight = img.Bounds().Dy()
			}
		}
	}
	if maxRowLength == 0 {
		return errors.New("nothing to tile")
	}

	width := maxWidth*maxRowLength + TilePadding*(maxRowLength+1)
	height := maxHeight*len(fileNames) + TilePadding*(len(fileNames)+1)
	tiled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(tiled, tiled.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	for i, row := range images {
		for j, img := range row {
			if img == nil {
				continue
			}
			sp := image.Point{X: j*maxWidth + (j+1)*TilePadding, Y: i*maxHeight + (i+1)*TilePadding}
			rect := image.Rect(sp.X, sp.Y, sp.X+maxWidth, sp.Y+maxHeight)
			draw.Draw(tiled, rect, img, img.Bounds().Min, draw.Src)
		}
	}

	return errors.Trace(savePNG(dst, tiled))
}

func openImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Annotatef(err, "decode %s", filename)
	}
	return img, nil
}

func savePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Trace(err)
	}
	if err = png.Encode(f, img); err != nil {
		_ = f.Close()
		return errors.Annotatef(err, "encode %s", filename)
	}
	return errors.Trace(f.Close())
}
