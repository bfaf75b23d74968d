package turtlescript

import (
	"fmt"
	"io"
	"math"
	"testing"
)

// quiet returns an interpreter whose log output is discarded
func quiet(config *Config) *TurtleScript {
	ts := New(config)
	ts.Logger().SetOutput(io.Discard, io.Discard)
	return ts
}

func recordOptions() Options {
	return Options{Color: HSV{H: 0, S: 0, V: 100}, Record: true}
}

// callLog is a Renderer that records every call as a string
type callLog struct {
	calls []string
	size  int
}

func (r *callLog) SetPosition(x, y int)     { r.calls = append(r.calls, fmt.Sprintf("pos %d %d", x, y)) }
func (r *callLog) SetPen(down bool)         { r.calls = append(r.calls, fmt.Sprintf("pen %v", down)) }
func (r *callLog) SetHeading(deg float64)   { r.calls = append(r.calls, fmt.Sprintf("heading %g", deg)) }
func (r *callLog) Plot(x, y int, color HSV) { r.calls = append(r.calls, fmt.Sprintf("plot %d %d", x, y)) }
func (r *callLog) CellSize() int            { return r.size }
func (r *callLog) Clear()                   { r.calls = append(r.calls, "clear") }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustRun(t *testing.T, source string, opts Options) *RunResult {
	t.Helper()
	result, err := quiet(nil).Run(source, opts)
	if err != nil {
		t.Fatalf("Run(%q) failed: %v", source, err)
	}
	return result
}

func countOps(ops []Operation, kind OpKind) int {
	n := 0
	for _, op := range ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
