package turtlescript

import (
	"fmt"
	"time"
)

// SourcePosition tracks the position of code in source text
type SourcePosition struct {
	Line         int
	Column       int
	Length       int
	OriginalText string
	Filename     string
}

// String formats the position as "line L, column C"
func (p SourcePosition) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s: line %d, column %d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// SyntaxError is raised while parsing; no partial program is returned with it
type SyntaxError struct {
	Message  string
	Position SourcePosition
	Context  []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// RuntimeError aborts a run. The partial result is still returned alongside it.
type RuntimeError struct {
	Message  string
	Position *SourcePosition
}

func (e *RuntimeError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("line %d: %s", e.Position.Line, e.Message)
	}
	return e.Message
}

func runtimeErrorf(pos SourcePosition, format string, args ...interface{}) *RuntimeError {
	p := pos
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Position: &p}
}

// Config holds configuration for a TurtleScript instance
type Config struct {
	Debug            bool
	DebugCategories  []LogCategory
	MaxIterations    int // repeat until guard per loop activation, 0 = unlimited
	DefaultDelay     time.Duration
	ShowErrorContext bool
	ContextLines     int
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		MaxIterations:    0,
		DefaultDelay:     30 * time.Millisecond,
		ShowErrorContext: true,
		ContextLines:     2,
	}
}

// Renderer is the drawing surface a run reports to. Calls arrive in program
// order from a single goroutine; one Renderer must not serve two runs at once.
type Renderer interface {
	SetPosition(x, y int)
	SetPen(down bool)
	SetHeading(degrees float64)
	Plot(x, y int, color HSV)
	CellSize() int
	Clear()
}

// Options are the caller-supplied starting values for one run
type Options struct {
	X, Y    float64
	Heading float64
	PenDown bool
	Color   HSV

	// Width and Height cull plotted cells outside [0,Width)x[0,Height).
	// Zero disables culling on that axis. The turtle itself is never clamped.
	Width, Height int

	Record        bool
	Renderer      Renderer
	ClearRenderer bool

	// Delay paces the async engine after every move or turn.
	Delay time.Duration

	Variables map[string]float64
}

// RunResult is the final (or partial, on error) state of a run
type RunResult struct {
	X, Y       int
	Heading    float64
	PenDown    bool
	Color      HSV
	Variables  map[string]float64
	Operations []Operation
}
