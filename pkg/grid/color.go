// Package grid provides an in-memory cell canvas for Turtle Script runs.
//
// This package contains:
//   - HSV to RGB conversion onto purfecterm colors
//   - Grid, a Renderer that records plotted cells and the pen
//   - PNG export and ANSI terminal drawing of a Grid
package grid

import (
	"math"

	"github.com/phroun/purfecterm"
	turtlescript "github.com/phroun/turtlescript"
)

// FromHSV converts a Turtle Script color (hue in degrees, saturation and
// value in percent) to RGB
func FromHSV(c turtlescript.HSV) purfecterm.Color {
	h := turtlescript.WrapHue(c.H) / 60
	s := turtlescript.Clamp(c.S, 0, 100) / 100
	v := turtlescript.Clamp(c.V, 0, 100) / 100

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h, 2)-1))
	var r, g, b float64
	switch int(h) {
	case 0:
		r, g, b = chroma, x, 0
	case 1:
		r, g, b = x, chroma, 0
	case 2:
		r, g, b = 0, chroma, x
	case 3:
		r, g, b = 0, x, chroma
	case 4:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	m := v - chroma
	return purfecterm.Color{R: channel(r + m), G: channel(g + m), B: channel(b + m)}
}

func channel(f float64) uint8 {
	return uint8(math.Round(turtlescript.Clamp(f, 0, 1) * 255))
}

// Nearest256 returns the index of the closest color in the fixed part of the
// 256-color palette (16-255). The first 16 entries are skipped since
// terminals remap them.
func Nearest256(c purfecterm.Color) int {
	best, bestDist := 16, math.MaxInt
	for idx := 16; idx < 256; idx++ {
		p := purfecterm.Get256Color(idx)
		dr, dg, db := int(c.R)-int(p.R), int(c.G)-int(p.G), int(c.B)-int(p.B)
		if dist := dr*dr + dg*dg + db*db; dist < bestDist {
			best, bestDist = idx, dist
		}
	}
	return best
}
