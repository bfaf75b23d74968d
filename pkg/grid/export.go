package grid

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/phroun/purfecterm"
	"github.com/pkg/errors"
)

// Image draws the viewport with each cell cellSize pixels square
func (g *Grid) Image(view Viewport, background purfecterm.Color) *image.NRGBA {
	size := g.cellSize
	img := image.NewNRGBA(image.Rect(0, 0, view.Width*size, view.Height*size))
	bg := color.NRGBA{R: background.R, G: background.G, B: background.B, A: 255}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for cell, hsv := range g.cells {
		cx, cy := cell.X-view.Origin.X, cell.Y-view.Origin.Y
		if cx < 0 || cy < 0 || cx >= view.Width || cy >= view.Height {
			continue
		}
		rgb := FromHSV(hsv)
		fill := color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
		for py := cy * size; py < (cy+1)*size; py++ {
			for px := cx * size; px < (cx+1)*size; px++ {
				img.SetNRGBA(px, py, fill)
			}
		}
	}
	return img
}

// WritePNG encodes the viewport as PNG
func (g *Grid) WritePNG(w io.Writer, view Viewport, background purfecterm.Color) error {
	if view.Width <= 0 || view.Height <= 0 {
		return errors.Errorf("invalid viewport %dx%d", view.Width, view.Height)
	}
	if err := png.Encode(w, g.Image(view, background)); err != nil {
		return errors.Wrap(err, "encoding png")
	}
	return nil
}

// SavePNG writes the viewport to a PNG file
func (g *Grid) SavePNG(path string, view Viewport, background purfecterm.Color) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	bw := bufio.NewWriter(f)
	if err := g.WritePNG(bw, view, background); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// ANSIMode selects how DrawANSI colors cells
type ANSIMode int

const (
	ANSIPlain     ANSIMode = iota // '#' for painted cells, '.' for empty
	ANSI256                       // xterm 256-color backgrounds
	ANSITrueColor                 // 24-bit backgrounds
)

// DrawANSI writes the viewport to a terminal, two columns per cell.
// The pen cell is marked with '@' when it lies inside the viewport.
func (g *Grid) DrawANSI(w io.Writer, view Viewport, mode ANSIMode) error {
	penX, penY, _, _ := g.Pen()
	bw := bufio.NewWriter(w)
	for y := view.Origin.Y; y < view.Origin.Y+view.Height; y++ {
		for x := view.Origin.X; x < view.Origin.X+view.Width; x++ {
			hsv, painted := g.At(x, y)
			glyph := "  "
			if x == penX && y == penY {
				glyph = "@@"
			}
			switch {
			case !painted && mode == ANSIPlain && glyph == "  ":
				glyph = ". "
			case painted && mode == ANSIPlain && glyph == "  ":
				glyph = "##"
			}
			if !painted || mode == ANSIPlain {
				fmt.Fprint(bw, glyph)
				continue
			}
			rgb := FromHSV(hsv)
			if mode == ANSITrueColor {
				fmt.Fprintf(bw, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", rgb.R, rgb.G, rgb.B, glyph)
			} else {
				fmt.Fprintf(bw, "\x1b[48;5;%dm%s\x1b[0m", Nearest256(rgb), glyph)
			}
		}
		fmt.Fprintln(bw)
	}
	return errors.Wrap(bw.Flush(), "drawing grid")
}
