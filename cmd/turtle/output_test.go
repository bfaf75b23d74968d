package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	turtlescript "github.com/phroun/turtlescript"
	"github.com/phroun/turtlescript/pkg/grid"
	"gopkg.in/yaml.v3"
)

func quietRunner(engine string) *runner {
	tsConfig := turtlescript.DefaultConfig()
	tsConfig.DefaultDelay = 0
	ts := turtlescript.New(tsConfig)
	ts.Logger().SetOutput(io.Discard, io.Discard)
	config := defaultCLIConfig()
	config.Engine = engine
	return &runner{ts: ts, config: config}
}

const squareScript = `pen down
var side = 3
repeat 4:
  forward side
  right 90
`

func TestEnginesAgree(t *testing.T) {
	var first *turtlescript.RunResult
	for _, engine := range []string{"sync", "async", "step"} {
		r := quietRunner(engine)
		prog, err := r.ts.Compile(squareScript, "square.turtle")
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		opts := r.ts.DefaultOptions()
		opts.Record = true
		result, err := r.execute(context.Background(), prog, opts)
		if err != nil {
			t.Fatalf("%s engine failed: %v", engine, err)
		}
		if first == nil {
			first = result
			continue
		}
		if len(result.Operations) != len(first.Operations) {
			t.Fatalf("%s engine logged %d operations, sync logged %d", engine, len(result.Operations), len(first.Operations))
		}
		for i := range result.Operations {
			if result.Operations[i] != first.Operations[i] {
				t.Errorf("%s engine op %d is %s, want %s", engine, i, result.Operations[i], first.Operations[i])
			}
		}
		if result.X != first.X || result.Y != first.Y || result.Heading != first.Heading {
			t.Errorf("%s engine ended at (%d, %d) %g", engine, result.X, result.Y, result.Heading)
		}
	}
}

func TestUnknownEngine(t *testing.T) {
	r := quietRunner("warp")
	prog, _ := r.ts.Compile("forward 1", "")
	if _, err := r.execute(context.Background(), prog, r.ts.DefaultOptions()); err == nil {
		t.Error("Expected error for unknown engine")
	}
}

func TestStepEngineCancelled(t *testing.T) {
	r := quietRunner("step")
	prog, _ := r.ts.Compile("forward 1\nforward 1", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := r.execute(ctx, prog, r.ts.DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "cancelled after 0 steps") {
		t.Errorf("Expected cancellation error, got %v", err)
	}
	if result == nil || result.X != 0 {
		t.Errorf("Expected untouched partial state, got %+v", result)
	}
}

func TestWriteOperations(t *testing.T) {
	ops := []turtlescript.Operation{
		turtlescript.PenOp(true),
		turtlescript.PlotOp(0, 0, turtlescript.HSV{V: 100}),
		turtlescript.MoveOp(1, 0),
	}

	var buf bytes.Buffer
	if err := writeOperations(&buf, ops, "json"); err != nil {
		t.Fatalf("json failed: %v", err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json output does not parse: %v\n%s", err, buf.String())
	}
	if len(decoded) != 3 || decoded[0]["op"] != "pen" {
		t.Errorf("Unexpected json output %s", buf.String())
	}

	buf.Reset()
	if err := writeOperations(&buf, ops, "yaml"); err != nil {
		t.Fatalf("yaml failed: %v", err)
	}
	var fromYAML []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml output does not parse: %v\n%s", err, buf.String())
	}
	if len(fromYAML) != 3 || fromYAML[2]["op"] != "move" {
		t.Errorf("Unexpected yaml output %s", buf.String())
	}

	buf.Reset()
	if err := writeOperations(&buf, nil, "json"); err != nil || strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Expected empty array, got %q (%v)", buf.String(), err)
	}
	if err := writeOperations(&buf, ops, "xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestPrintState(t *testing.T) {
	var buf bytes.Buffer
	printState(&buf, &turtlescript.RunResult{
		X: 3, Y: -1, Heading: 90, PenDown: true,
		Color:     turtlescript.HSV{H: 10, S: 20, V: 30},
		Variables: map[string]float64{"b": 2, "a": 1},
	})
	out := buf.String()
	for _, want := range []string{"position: (3, -1)", "heading:  90", "pen:      down", "vars:     a=1 b=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("State output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionCarriesState(t *testing.T) {
	r := quietRunner("sync")
	canvas := grid.New(4)
	opts := r.ts.DefaultOptions()
	opts.Renderer = canvas
	s := &session{r: r, start: opts, opts: opts, canvas: canvas}

	s.eval("var step = 2\npen down\nforward step")
	s.eval("forward step\nright 90")
	state := s.state()
	if state.X != 4 || state.Y != 0 || state.Heading != 90 || !state.PenDown {
		t.Errorf("Unexpected carried state %+v", state)
	}
	if state.Variables["step"] != 2 {
		t.Errorf("Expected step to survive, got %v", state.Variables)
	}
	if canvas.Len() != 5 {
		t.Errorf("Expected 5 painted cells, got %d", canvas.Len())
	}

	// a failing entry still moves the turtle up to the failure
	s.eval("forward 1\nforward missing")
	if got := s.state(); got.Y != 1 {
		t.Errorf("Expected partial move to carry over, got %+v", got)
	}

	if quit := s.command(":reset"); quit {
		t.Error(":reset should not end the session")
	}
	if got := s.state(); got.X != 0 || got.PenDown || canvas.Len() != 0 {
		t.Errorf("Expected reset state, got %+v with %d cells", got, canvas.Len())
	}
	if !s.command(":quit") {
		t.Error(":quit should end the session")
	}
}

func TestBackgroundColor(t *testing.T) {
	config := defaultCLIConfig()
	config.Background = "#102030"
	if c := backgroundColor(config); c.R != 0x10 || c.G != 0x20 || c.B != 0x30 {
		t.Errorf("Expected #102030, got %s", c.ToHex())
	}
	for _, bad := range []string{"", "blue", "#12345"} {
		config.Background = bad
		if c := backgroundColor(config); c.ToHex() != "#1E1E1E" {
			t.Errorf("Expected default background for %q, got %s", bad, c.ToHex())
		}
	}
}
