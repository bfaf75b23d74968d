// Package turtlescript interprets Turtle Script, a small indentation-based
// language for procedural pixel-art drawing.
//
// Basic usage:
//
//	ts := turtlescript.New(nil)
//	opts := ts.DefaultOptions()
//	opts.Record = true
//	result, err := ts.Run("pen down\nrepeat 4:\n  forward 10\n  right 90", opts)
//
// The same program can be run synchronously (Run), paced on a goroutine
// (RunAsync, Start) or one motion at a time (NewStepper). All three produce
// the same operation log and final state.
package turtlescript

import (
	"sync"

	"github.com/pkg/errors"
)

// TurtleScript is the main TurtleScript interpreter
type TurtleScript struct {
	config *Config
	logger *Logger

	mu         sync.Mutex
	activeRuns map[string]*AsyncRun
	nextRunID  int
}

// New creates a new TurtleScript interpreter
func New(config *Config) *TurtleScript {
	if config == nil {
		config = DefaultConfig()
	}
	ts := &TurtleScript{
		logger:     NewLogger(config.Debug),
		activeRuns: make(map[string]*AsyncRun),
	}
	ts.Configure(config)
	return ts
}

// Configure updates the configuration
func (ts *TurtleScript) Configure(config *Config) {
	ts.config = config
	ts.logger.SetEnabled(config.Debug)
	ts.logger.SetContextLines(config.ContextLines)
	for _, cat := range config.DebugCategories {
		ts.logger.EnableCategory(cat)
	}
	if config.MaxIterations < 0 {
		ts.logger.WarnCat(CatFlow, "MaxIterations %d is negative, repeat until loops are unlimited", config.MaxIterations)
	}
}

// GetConfig returns a copy of the current configuration
func (ts *TurtleScript) GetConfig() *Config {
	configCopy := *ts.config
	return &configCopy
}

// Logger returns the interpreter's logger
func (ts *TurtleScript) Logger() *Logger {
	return ts.logger
}

// SetContextLines sets the number of context lines for error reporting
func (ts *TurtleScript) SetContextLines(lines int) {
	if clamped := max(0, min(lines, 10)); clamped != lines {
		ts.logger.Warn("context lines %d out of range, using %d", lines, clamped)
		lines = clamped
	}
	ts.config.ContextLines = lines
	ts.logger.SetContextLines(lines)
}

// DefaultOptions returns a pen-up turtle at the origin facing +X, drawing
// white, paced by the configured default delay
func (ts *TurtleScript) DefaultOptions() Options {
	return Options{
		Color: HSV{H: 0, S: 0, V: 100},
		Delay: ts.config.DefaultDelay,
	}
}

// Compile parses source into a reusable Program. Syntax errors are logged
// with source context and returned.
func (ts *TurtleScript) Compile(source, filename string) (*Program, error) {
	prog, err := NewParser(source, filename).ParseProgram()
	if err != nil {
		var syntaxErr *SyntaxError
		if errors.As(err, &syntaxErr) {
			ts.logger.ParseError(syntaxErr, ts.config.ShowErrorContext)
		}
		return nil, err
	}
	ts.logger.DebugCat(CatParse, "compiled %d top-level instructions", len(prog.Instructions))
	return prog, nil
}

func (ts *TurtleScript) reportRuntimeError(err error, prog *Program) {
	var runErr *RuntimeError
	if !errors.As(err, &runErr) {
		ts.logger.Error("%v", err)
		return
	}
	if runErr.Position != nil && runErr.Position.Filename == "" {
		runErr.Position.Filename = prog.Filename
	}
	var context []string
	if ts.config.ShowErrorContext {
		context = prog.Lines()
	}
	ts.logger.RuntimeError(runErr, context)
}
