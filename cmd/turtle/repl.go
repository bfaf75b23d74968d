package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	turtlescript "github.com/phroun/turtlescript"
	"github.com/phroun/turtlescript/pkg/grid"
	"github.com/pkg/errors"
)

const (
	promptMain = "turtle> "
	promptCont = "   ...> "
	replHelp   = `Enter Turtle Script lines. A line ending in ':' opens a block; finish it with an empty line.
  :state        show the turtle and variables
  :draw         draw the grid in the terminal
  :ops          toggle printing the operations of each entry
  :save FILE    save the grid as PNG
  :reset        clear the grid, variables and turtle
  :quit         exit
`
)

// session is the state an interactive run carries from one entry to the next
type session struct {
	r       *runner
	start   turtlescript.Options
	opts    turtlescript.Options
	canvas  *grid.Grid
	showOps bool
}

func runREPL(r *runner, opts turtlescript.Options, canvas *grid.Grid) int {
	fmt.Printf("turtle %s - type :help for commands\n", version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if dir := getConfigDir(); dir != "" {
		histPath = filepath.Join(dir, "history")
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := &session{r: r, start: opts, opts: opts, canvas: canvas, showOps: opts.Record}
	for {
		code, ok := readBlock(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := s.command(trimmed); quit {
				return 0
			}
			continue
		}
		s.eval(code)
	}
}

// readBlock reads one entry. Lines keep coming while the entry is inside a
// block, which ends at the first empty line.
func readBlock(ln *liner.State) (string, bool) {
	var b strings.Builder
	inBlock := false
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		code := strings.TrimSpace(turtlescript.RemoveComment(line))
		if strings.HasSuffix(code, ":") && !strings.HasPrefix(code, ":") {
			inBlock = true
		}
		if !inBlock || code == "" {
			return b.String(), true
		}
	}
}

func (s *session) eval(code string) {
	prog, err := s.r.ts.Compile(code, "")
	if err != nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := s.opts
	opts.Record = s.showOps
	result, runErr := s.r.execute(ctx, prog, opts)
	if result == nil {
		errorPrintf("Error: %v\n", runErr)
		return
	}
	if runErr != nil && errors.Is(runErr, context.Canceled) {
		errorPrintf("interrupted\n")
	}

	// The next entry continues from where this one stopped, failed or not
	s.opts.X, s.opts.Y = float64(result.X), float64(result.Y)
	s.opts.Heading = result.Heading
	s.opts.PenDown = result.PenDown
	s.opts.Color = result.Color
	s.opts.Variables = result.Variables
	s.opts.ClearRenderer = false

	if s.showOps && len(result.Operations) > 0 {
		if err := writeOperations(os.Stdout, result.Operations, s.r.config.OpsFormat); err != nil {
			errorPrintf("Error: %v\n", err)
		}
	}
}

// command runs a ':' command and reports whether the session should end
func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Print(replHelp)
	case ":state":
		printState(os.Stdout, s.state())
	case ":draw":
		if err := s.canvas.DrawANSI(os.Stdout, terminalViewport(viewport(s.canvas, s.r.config)), drawMode(s.r.config)); err != nil {
			errorPrintf("Error: %v\n", err)
		}
	case ":ops":
		s.showOps = !s.showOps
		fmt.Printf("operations %s\n", onOff(s.showOps))
	case ":save":
		if len(fields) != 2 {
			errorPrintf("usage: :save FILE\n")
			return false
		}
		if err := s.canvas.SavePNG(fields[1], viewport(s.canvas, s.r.config), backgroundColor(s.r.config)); err != nil {
			errorPrintf("Error: %v\n", err)
			return false
		}
		fmt.Printf("saved %s\n", fields[1])
	case ":reset":
		s.canvas.Clear()
		s.opts = s.start
		fmt.Println("reset")
	default:
		fmt.Printf("unknown command %s. Type :help for commands.\n", fields[0])
	}
	return false
}

// state is the carried-over turtle state in result form
func (s *session) state() *turtlescript.RunResult {
	return &turtlescript.RunResult{
		X:         int(math.Floor(s.opts.X + 0.5)),
		Y:         int(math.Floor(s.opts.Y + 0.5)),
		Heading:   s.opts.Heading,
		PenDown:   s.opts.PenDown,
		Color:     s.opts.Color,
		Variables: s.opts.Variables,
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
