package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/phroun/purfecterm"
	turtlescript "github.com/phroun/turtlescript"
	"github.com/phroun/turtlescript/pkg/grid"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// runner dispatches a compiled program to the configured engine
type runner struct {
	ts     *turtlescript.TurtleScript
	config CLIConfig
	trace  bool
}

func (r *runner) execute(ctx context.Context, prog *turtlescript.Program, opts turtlescript.Options) (*turtlescript.RunResult, error) {
	switch r.config.Engine {
	case "sync":
		return r.ts.RunProgram(prog, opts)
	case "async":
		return r.ts.RunProgramAsync(ctx, prog, opts)
	case "step":
		stepper := r.ts.NewStepperProgram(prog, opts)
		for !stepper.Done() {
			if err := ctx.Err(); err != nil {
				return stepper.State(), errors.Wrapf(err, "stepping cancelled after %d steps", stepper.Steps())
			}
			moved, err := stepper.Step()
			if err != nil {
				break
			}
			if moved && r.trace {
				state := stepper.State()
				fmt.Fprintf(os.Stderr, "step %d: (%d, %d) heading %g depth %d\n",
					stepper.Steps(), state.X, state.Y, state.Heading, stepper.Depth())
			}
		}
		return stepper.Result()
	}
	return nil, errors.Errorf("unknown engine %q", r.config.Engine)
}

// liveRenderer redraws the terminal whenever the turtle moves
type liveRenderer struct {
	*grid.Grid
	out    io.Writer
	config CLIConfig
}

func (l *liveRenderer) SetPosition(x, y int) {
	l.Grid.SetPosition(x, y)
	fmt.Fprint(l.out, "\x1b[H\x1b[2J")
	_ = l.Grid.DrawANSI(l.out, terminalViewport(viewport(l.Grid, l.config)), drawMode(l.config))
}

// viewport is the cull rectangle when both bounds are set, otherwise the
// smallest rectangle holding every painted cell
func viewport(g *grid.Grid, config CLIConfig) grid.Viewport {
	if config.Width > 0 && config.Height > 0 {
		return grid.Viewport{Width: config.Width, Height: config.Height}
	}
	return g.Fit()
}

// terminalViewport clips view to the size of the terminal on stdout
func terminalViewport(view grid.Viewport) grid.Viewport {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return view
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return view
	}
	if view.Width > cols/2 {
		view.Width = cols / 2
	}
	if view.Height > rows-1 {
		view.Height = rows - 1
	}
	return view
}

// backgroundColor is the configured PNG background, or the default when the
// setting is not a "#RGB" or "#RRGGBB" color
func backgroundColor(config CLIConfig) purfecterm.Color {
	if c, ok := purfecterm.ParseHexColor(config.Background); ok {
		return c
	}
	return purfecterm.DefaultBackground
}

func drawMode(config CLIConfig) grid.ANSIMode {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return grid.ANSIPlain
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return grid.ANSIPlain
	}
	if config.Color {
		return grid.ANSITrueColor
	}
	return grid.ANSI256
}

// writeOperations dumps the operation log as a JSON array or YAML sequence
func writeOperations(w io.Writer, ops []turtlescript.Operation, format string) error {
	if ops == nil {
		ops = []turtlescript.Operation{}
	}
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ops); err != nil {
			return errors.Wrap(err, "encoding operations")
		}
		return errors.Wrap(enc.Close(), "encoding operations")
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(ops), "encoding operations")
	}
	return errors.Errorf("unknown ops format %q", format)
}

// printState writes the final turtle state and variables, one per line
func printState(w io.Writer, result *turtlescript.RunResult) {
	pen := "up"
	if result.PenDown {
		pen = "down"
	}
	fmt.Fprintf(w, "position: (%d, %d)\n", result.X, result.Y)
	fmt.Fprintf(w, "heading:  %g\n", result.Heading)
	fmt.Fprintf(w, "pen:      %s\n", pen)
	fmt.Fprintf(w, "color:    %s\n", result.Color)

	if len(result.Variables) == 0 {
		return
	}
	names := make([]string, 0, len(result.Variables))
	for name := range result.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, result.Variables[name])
	}
	fmt.Fprintf(w, "vars:     %s\n", strings.Join(parts, " "))
}
