package grid

import (
	"sort"
	"sync"

	turtlescript "github.com/phroun/turtlescript"
)

// Cell is an integer grid coordinate
type Cell struct {
	X, Y int
}

// Grid is a Renderer that keeps plotted cells in memory. Reads are safe
// while a run is writing, so a GUI can paint from another goroutine.
type Grid struct {
	mu       sync.RWMutex
	cellSize int
	cells    map[Cell]turtlescript.HSV
	penX     int
	penY     int
	penDown  bool
	heading  float64
	plots    int
}

// New creates an empty grid whose cells are cellSize pixels wide
func New(cellSize int) *Grid {
	if cellSize < 1 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[Cell]turtlescript.HSV),
	}
}

// SetPosition moves the pen marker
func (g *Grid) SetPosition(x, y int) {
	g.mu.Lock()
	g.penX, g.penY = x, y
	g.mu.Unlock()
}

// SetPen records whether the pen is down
func (g *Grid) SetPen(down bool) {
	g.mu.Lock()
	g.penDown = down
	g.mu.Unlock()
}

// SetHeading records the turtle heading
func (g *Grid) SetHeading(degrees float64) {
	g.mu.Lock()
	g.heading = degrees
	g.mu.Unlock()
}

// Plot paints a cell; a later plot of the same cell wins
func (g *Grid) Plot(x, y int, color turtlescript.HSV) {
	g.mu.Lock()
	g.cells[Cell{X: x, Y: y}] = color
	g.plots++
	g.mu.Unlock()
}

// CellSize returns the pixel size of one cell
func (g *Grid) CellSize() int {
	return g.cellSize
}

// Clear removes every plotted cell
func (g *Grid) Clear() {
	g.mu.Lock()
	g.cells = make(map[Cell]turtlescript.HSV)
	g.plots = 0
	g.mu.Unlock()
}

// Pen returns the last reported pen state
func (g *Grid) Pen() (x, y int, down bool, heading float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.penX, g.penY, g.penDown, g.heading
}

// At returns the color of a plotted cell
func (g *Grid) At(x, y int) (turtlescript.HSV, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.cells[Cell{X: x, Y: y}]
	return c, ok
}

// Len returns the number of distinct painted cells
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// Plots returns how many Plot calls were received since the last Clear
func (g *Grid) Plots() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.plots
}

// Cells returns the painted cells sorted by row, then column
func (g *Grid) Cells() []Cell {
	g.mu.RLock()
	cells := make([]Cell, 0, len(g.cells))
	for c := range g.cells {
		cells = append(cells, c)
	}
	g.mu.RUnlock()
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// Bounds returns the inclusive bounding box of painted cells
func (g *Grid) Bounds() (min, max Cell, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for c := range g.cells {
		if !ok {
			min, max, ok = c, c, true
			continue
		}
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
	}
	return min, max, ok
}

// Viewport is a rectangle of cells to draw, origin at the top left
type Viewport struct {
	Origin        Cell
	Width, Height int
}

// Fit returns the viewport covering every painted cell, or a 1x1 viewport
// at the origin for an empty grid
func (g *Grid) Fit() Viewport {
	min, max, ok := g.Bounds()
	if !ok {
		return Viewport{Width: 1, Height: 1}
	}
	return Viewport{Origin: min, Width: max.X - min.X + 1, Height: max.Y - min.Y + 1}
}
