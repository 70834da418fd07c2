package chart

import (
	"image/color"
)

var (
	BLUE   = color.RGBA{R: 31, G: 119, B: 180, A: 255}  // #1f77b4
	ORANGE = color.RGBA{R: 255, G: 127, B: 14, A: 255}  // #ff7f0e
	GREEN  = color.RGBA{R: 44, G: 160, B: 44, A: 255}   // #2ca02c
	RED    = color.RGBA{R: 214, G: 39, B: 40, A: 255}   // #d62728
	PURPLE = color.RGBA{R: 148, G: 103, B: 189, A: 255} // #9467bd
	BROWN  = color.RGBA{R: 140, G: 86, B: 75, A: 255}   // #8c564b
	PINK   = color.RGBA{R: 227, G: 119, B: 194, A: 255} // #e377c2
	GREY   = color.RGBA{R: 127, G: 127, B: 127, A: 255} // #7f7f7f
	OLIVE  = color.RGBA{R: 188, G: 189, B: 34, A: 255}  // #bcbd22
	CYAN   = color.RGBA{R: 23, G: 190, B: 207, A: 255}  // #17becf

	BLACK = color.RGBA{A: 255}
)

// Palette is an ordered color cycle. Series i is drawn with At(i).
type Palette []color.Color

// DefaultPalette returns a fresh copy of the ten-color category cycle, so
// callers may reorder it freely.
func DefaultPalette() Palette {
	return Palette{BLUE, ORANGE, GREEN, RED, PURPLE, BROWN, PINK, GREY, OLIVE, CYAN}
}

// At returns the color for index i, wrapping around the cycle.
func (p Palette) At(i int) color.Color {
	if len(p) == 0 {
		return BLACK
	}
	return p[i%len(p)]
}

// Swapped returns a copy of p with entries i and j exchanged.
func (p Palette) Swapped(i, j int) Palette {
	cp := make(Palette, len(p))
	copy(cp, p)
	cp[i], cp[j] = cp[j], cp[i]
	return cp
}
