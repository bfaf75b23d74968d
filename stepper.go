package turtlescript

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotDone is returned by Stepper.Result before the program has finished
	ErrNotDone = errors.New("stepper has not finished")

	// ErrStepperFailed is returned by Step after an earlier step failed
	ErrStepperFailed = errors.New("stepper stopped by an earlier error")
)

// Stepper runs a program one motion at a time, for hosts that drive
// execution from their own clock such as a render loop
type Stepper struct {
	ts   *TurtleScript
	prog *Program
	m    *machine
}

// NewStepperProgram prepares prog for stepping. Renderer sync happens here.
func (ts *TurtleScript) NewStepperProgram(prog *Program, opts Options) *Stepper {
	return &Stepper{ts: ts, prog: prog, m: newMachine(prog, opts, ts.config, ts.logger)}
}

// NewStepper parses source and prepares it for stepping
func (ts *TurtleScript) NewStepper(source string, opts Options) (*Stepper, error) {
	prog, err := ts.Compile(source, "")
	if err != nil {
		return nil, err
	}
	return ts.NewStepperProgram(prog, opts), nil
}

// Step executes instantaneous instructions until exactly one MOVE or TURN
// has run and reports whether it did. A step that reaches the end of the
// program without moving returns false. Once a step fails, the stepper is
// done; Err holds the failure and later steps return ErrStepperFailed.
func (s *Stepper) Step() (bool, error) {
	if s.m.err != nil {
		return false, ErrStepperFailed
	}
	if s.m.finished() {
		return false, nil
	}
	moved, err := s.m.advance()
	if err != nil {
		s.ts.reportRuntimeError(err, s.prog)
		return false, err
	}
	if moved {
		s.ts.logger.TraceCat(CatStep, "step %d, depth %d", s.m.motions, s.m.depth())
	}
	return moved, nil
}

// Done reports whether the program and all frames are exhausted, or a step failed
func (s *Stepper) Done() bool {
	return s.m.finished() || s.m.err != nil
}

// Err returns the error that stopped the stepper, if any
func (s *Stepper) Err() error {
	return s.m.err
}

// Depth is the number of active repeat and if frames
func (s *Stepper) Depth() int {
	return s.m.depth()
}

// Steps is the number of motions executed so far
func (s *Stepper) Steps() int {
	return s.m.motions
}

// State returns a snapshot of the run so far, valid at any time
func (s *Stepper) State() *RunResult {
	return s.m.result()
}

// Result returns the final state once Done is true. After a failure it
// returns the partial state and the error.
func (s *Stepper) Result() (*RunResult, error) {
	if !s.Done() {
		return nil, ErrNotDone
	}
	return s.m.result(), s.m.err
}

// RunToEnd steps until done
func (s *Stepper) RunToEnd() (*RunResult, error) {
	for !s.Done() {
		if _, err := s.Step(); err != nil {
			break
		}
	}
	return s.Result()
}
