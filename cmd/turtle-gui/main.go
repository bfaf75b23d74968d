// turtle-gui is a desktop front end that animates Turtle Script programs
// one step at a time
package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/phroun/purfecterm"
	turtlescript "github.com/phroun/turtlescript"
	"github.com/phroun/turtlescript/pkg/grid"
	"github.com/sqweek/dialog"
)

const sampleScript = `pen down
var side = 10
repeat 36:
  hsv +10 _ _
  repeat 4:
    forward side
    right 90
  right 10
`

// guiState holds the window and the running program
type guiState struct {
	mu       sync.Mutex
	ts       *turtlescript.TurtleScript
	canvas   *grid.Grid
	stepper  *turtlescript.Stepper
	ticker   *time.Ticker
	stop     chan struct{}
	interval time.Duration
	filename string

	window fyne.Window
	raster *canvas.Raster
	editor *widget.Entry
	status *widget.Label
}

func main() {
	config := turtlescript.DefaultConfig()
	config.MaxIterations = 1000000
	ts := turtlescript.New(config)
	ts.Logger().SetOutput(io.Discard, os.Stderr)

	fyneApp := app.New()
	mainWindow := fyneApp.NewWindow("Turtle Script")
	mainWindow.Resize(fyne.NewSize(900, 600))

	g := &guiState{
		ts:       ts,
		canvas:   grid.New(6),
		interval: config.DefaultDelay,
		window:   mainWindow,
		editor:   widget.NewMultiLineEntry(),
		status:   widget.NewLabel("ready"),
	}
	g.editor.SetText(sampleScript)
	g.raster = canvas.NewRasterWithPixels(g.pixel)

	if len(os.Args) > 1 {
		if err := g.load(os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	toolbar := container.NewHBox(
		widget.NewButton("Open", func() { go g.openFile() }),
		widget.NewButton("Run", g.run),
		widget.NewButton("Step", g.stepOnce),
		widget.NewButton("Pause", g.pause),
		widget.NewButton("Reset", g.reset),
		widget.NewButton("Save PNG", func() { go g.savePNG() }),
	)
	split := container.NewHSplit(container.NewVScroll(g.editor), g.raster)
	split.Offset = 0.35
	mainWindow.SetContent(container.NewBorder(toolbar, g.status, nil, nil, split))
	mainWindow.SetOnClosed(g.pause)
	mainWindow.Show()
	if len(os.Args) <= 1 {
		// Cancelling the chooser keeps the sample script
		go g.openFile()
	}
	fyneApp.Run()
}

// pixel paints one screen pixel. The origin cell sits at the centre.
func (g *guiState) pixel(x, y, w, h int) color.Color {
	size := g.canvas.CellSize()
	cx := floorDiv(x-w/2, size)
	cy := floorDiv(y-h/2, size)

	penX, penY, _, _ := g.canvas.Pen()
	if cx == penX && cy == penY {
		return color.NRGBA{R: 255, G: 220, B: 0, A: 255}
	}
	if hsv, ok := g.canvas.At(cx, cy); ok {
		c := grid.FromHSV(hsv)
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	bg := purfecterm.DefaultBackground
	return color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func (g *guiState) load(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g.filename = path
	g.editor.SetText(string(content))
	g.window.SetTitle("Turtle Script - " + path)
	return nil
}

func (g *guiState) openFile() {
	path, err := dialog.File().Filter("Turtle scripts", "turtle").Title("Open script").Load()
	if err != nil {
		if err != dialog.ErrCancelled {
			showError(err)
		}
		return
	}
	g.pause()
	fyne.Do(func() {
		if err := g.load(path); err != nil {
			go showError(err)
		}
	})
}

func (g *guiState) savePNG() {
	path, err := dialog.File().Filter("PNG image", "png").Title("Save drawing").Save()
	if err != nil {
		if err != dialog.ErrCancelled {
			showError(err)
		}
		return
	}
	if err := g.canvas.SavePNG(path, g.canvas.Fit(), purfecterm.DefaultBackground); err != nil {
		showError(err)
	}
}

// prepare compiles the editor text into a fresh stepper unless one is
// already in progress
func (g *guiState) prepare() bool {
	if g.stepper != nil && !g.stepper.Done() {
		return true
	}
	prog, err := g.ts.Compile(g.editor.Text, g.filename)
	if err != nil {
		go showError(err)
		return false
	}
	opts := g.ts.DefaultOptions()
	opts.Renderer = g.canvas
	opts.ClearRenderer = true
	g.stepper = g.ts.NewStepperProgram(prog, opts)
	g.raster.Refresh()
	return true
}

func (g *guiState) run() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ticker != nil || !g.prepare() {
		return
	}
	interval := g.interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	g.ticker = time.NewTicker(interval)
	g.stop = make(chan struct{})
	go g.animate(g.ticker, g.stop)
}

// animate steps the program on every tick until it finishes or is paused
func (g *guiState) animate(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.mu.Lock()
			if g.ticker != ticker {
				g.mu.Unlock()
				return
			}
			done := g.advance()
			if done {
				ticker.Stop()
				g.ticker = nil
			}
			g.mu.Unlock()
			if done {
				return
			}
		}
	}
}

func (g *guiState) stepOnce() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ticker != nil || !g.prepare() {
		return
	}
	g.advance()
}

// advance runs one step and updates the window. It reports whether the
// program has finished. Callers hold g.mu.
func (g *guiState) advance() bool {
	_, err := g.stepper.Step()
	state := g.stepper.State()
	text := fmt.Sprintf("step %d  position (%d, %d)  heading %g  depth %d  %s",
		g.stepper.Steps(), state.X, state.Y, state.Heading, g.stepper.Depth(), state.Color)
	if g.stepper.Done() && err == nil {
		text += "  done"
	}
	fyne.Do(func() {
		g.status.SetText(text)
		g.raster.Refresh()
	})
	if err != nil {
		go showError(err)
	}
	return g.stepper.Done()
}

func (g *guiState) pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ticker == nil {
		return
	}
	g.ticker.Stop()
	close(g.stop)
	g.ticker = nil
}

func (g *guiState) reset() {
	g.pause()
	g.mu.Lock()
	g.stepper = nil
	g.canvas.Clear()
	g.mu.Unlock()
	g.status.SetText("ready")
	g.raster.Refresh()
}

func showError(err error) {
	dialog.Message("%s", err.Error()).Title("Turtle Script").Error()
}
