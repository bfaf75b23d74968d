package turtlescript

import (
	"math"
)

type frameKind int

const (
	frameRoot frameKind = iota
	frameCount
	frameUntil
	frameIf
)

func (k frameKind) String() string {
	switch k {
	case frameRoot:
		return "root"
	case frameCount:
		return "repeat"
	case frameUntil:
		return "repeat until"
	case frameIf:
		return "if"
	}
	return "unknown"
}

// frame is one activation of an instruction list: the program itself, a
// repeat body or an if body
type frame struct {
	kind       frameKind
	node       Instruction
	body       []Instruction
	cursor     int
	remaining  int64 // count loops: iterations left including the current one
	iterations int   // until loops: iterations started
}

// maxExactCount is the largest repeat count that can be decremented exactly
const maxExactCount = 1 << 53

// machine is the control-flow core shared by the sync, async and stepper
// engines. advance runs instructions until exactly one MOVE or TURN has
// executed; the engines differ only in what they do between advances.
type machine struct {
	frames        []*frame
	turtle        *turtle
	env           *Environment
	maxIterations int
	logger        *Logger
	motions       int
	err           error
}

func newMachine(prog *Program, opts Options, config *Config, logger *Logger) *machine {
	m := &machine{
		turtle:        newTurtle(opts, logger),
		env:           NewEnvironmentFrom(opts.Variables),
		maxIterations: config.MaxIterations,
		logger:        logger,
	}
	m.push(&frame{kind: frameRoot, body: prog.Instructions})
	return m
}

func (m *machine) push(f *frame) {
	m.frames = append(m.frames, f)
	m.logger.TraceCat(CatStep, "enter %s frame (depth %d)", f.kind, len(m.frames))
}

func (m *machine) pop() {
	top := m.frames[len(m.frames)-1]
	m.frames[len(m.frames)-1] = nil
	m.frames = m.frames[:len(m.frames)-1]
	m.logger.TraceCat(CatStep, "leave %s frame (depth %d)", top.kind, len(m.frames))
}

// finished reports whether every frame has been exhausted
func (m *machine) finished() bool {
	return len(m.frames) == 0
}

// depth is the number of active repeat and if frames
func (m *machine) depth() int {
	if len(m.frames) == 0 {
		return 0
	}
	return len(m.frames) - 1
}

func (m *machine) result() *RunResult {
	return m.turtle.snapshot(m.env)
}

// advance executes instructions until one MOVE or TURN has run (true) or
// the program is exhausted (false). After an error the machine is stuck
// and every further call returns the same error.
func (m *machine) advance() (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for len(m.frames) > 0 {
		top := m.frames[len(m.frames)-1]
		if top.cursor >= len(top.body) {
			if err := m.endOfBody(top); err != nil {
				return false, m.fail(err)
			}
			continue
		}

		ins := top.body[top.cursor]
		top.cursor++

		moved, err := m.exec(ins)
		if err != nil {
			return false, m.fail(err)
		}
		if moved {
			m.motions++
			m.settle()
			return true, nil
		}
	}
	return false, nil
}

func (m *machine) fail(err error) error {
	m.err = err
	return err
}

// settle closes exhausted frames whose end-of-body handling needs no
// evaluation, so a program whose last instruction is a motion reports
// finished as soon as that motion returns
func (m *machine) settle() {
	for len(m.frames) > 0 {
		top := m.frames[len(m.frames)-1]
		if top.cursor < len(top.body) || top.kind == frameUntil {
			return
		}
		if top.kind == frameCount && top.remaining > 1 {
			return
		}
		// cannot fail for the frames that reach here
		_ = m.endOfBody(top)
	}
}

// endOfBody runs when a frame's cursor passes its last instruction
func (m *machine) endOfBody(f *frame) error {
	switch f.kind {
	case frameCount:
		f.remaining--
		if f.remaining > 0 {
			f.cursor = 0
			return nil
		}
	case frameUntil:
		done, err := m.untilSatisfied(f.node.(*Repeat))
		if err != nil {
			return err
		}
		if !done {
			return m.reenterUntil(f)
		}
	}
	m.pop()
	return nil
}

func (m *machine) reenterUntil(f *frame) error {
	f.iterations++
	if m.maxIterations > 0 && f.iterations > m.maxIterations {
		return runtimeErrorf(f.node.Pos(), "repeat until exceeded %d iterations", m.maxIterations)
	}
	f.cursor = 0
	return nil
}

// exec runs a single instruction and reports whether it was a motion
func (m *machine) exec(ins Instruction) (bool, error) {
	switch n := ins.(type) {
	case *Move:
		distance, err := m.finite(n.Value, n.Pos(), string(n.Direction)+" distance")
		if err != nil {
			return false, err
		}
		if n.Direction == DirBack {
			distance = -distance
		}
		m.turtle.move(distance)
		return true, nil

	case *Turn:
		degrees, err := m.finite(n.Value, n.Pos(), string(n.Direction)+" angle")
		if err != nil {
			return false, err
		}
		if n.Direction == DirLeft {
			degrees = -degrees
		}
		m.turtle.turn(degrees)
		return true, nil

	case *Pen:
		m.turtle.setPen(n.Down)

	case *SetHSV:
		color, err := ApplyHSV(m.turtle.color, n.H, n.S, n.V, m.env)
		if err != nil {
			return false, runtimeErrorf(n.Pos(), "%s", err.Error())
		}
		m.turtle.setColor(color)

	case *Var:
		return false, m.execVar(n)

	case *Repeat:
		return false, m.enterRepeat(n)

	case *If:
		test, err := m.finite(n.Test, n.Pos(), "if condition")
		if err != nil {
			return false, err
		}
		m.logger.DebugCat(CatFlow, "if %s -> %g", n.Test, test)
		if test != 0 {
			m.push(&frame{kind: frameIf, node: n, body: n.Body})
		}

	case *Break:
		return false, m.unwind(n, true)

	case *Continue:
		return false, m.unwind(n, false)

	default:
		return false, runtimeErrorf(ins.Pos(), "unknown instruction %T", ins)
	}
	return false, nil
}

func (m *machine) execVar(n *Var) error {
	value, err := EvalChecked(n.Value, m.env)
	if err != nil {
		return runtimeErrorf(n.Pos(), "%s", err.Error())
	}
	if !n.Reassign {
		m.env.Declare(n.Name, value)
		m.logger.DebugCat(CatVariable, "var %s = %g", n.Name, value)
		return nil
	}
	if err := m.env.Assign(n.Name, value); err != nil {
		return runtimeErrorf(n.Pos(), "%s", err.Error())
	}
	m.logger.DebugCat(CatVariable, "%s = %g", n.Name, value)
	return nil
}

func (m *machine) enterRepeat(n *Repeat) error {
	if n.Mode == RepeatUntil {
		done, err := m.untilSatisfied(n)
		if err != nil {
			return err
		}
		if !done {
			m.push(&frame{kind: frameUntil, node: n, body: n.Body, iterations: 1})
		}
		return nil
	}

	count, err := m.finite(n.Count, n.Pos(), "repeat count")
	if err != nil {
		return err
	}
	count = math.Floor(count)
	m.logger.DebugCat(CatFlow, "repeat %s -> %g", n.Count, count)
	if count <= 0 {
		return nil
	}
	if count > maxExactCount {
		return runtimeErrorf(n.Pos(), "repeat count %g is too large", count)
	}
	m.push(&frame{kind: frameCount, node: n, body: n.Body, remaining: int64(count)})
	return nil
}

// untilSatisfied evaluates the exit condition of a repeat-until loop
func (m *machine) untilSatisfied(n *Repeat) (bool, error) {
	cond, err := m.finite(n.Until, n.Pos(), "repeat until condition")
	if err != nil {
		return false, err
	}
	m.logger.DebugCat(CatFlow, "until %s -> %g", n.Until, cond)
	return cond != 0, nil
}

// unwind discards if frames up to the nearest repeat frame, then ends that
// repeat (break) or its current iteration (continue)
func (m *machine) unwind(sig Instruction, isBreak bool) error {
	for len(m.frames) > 0 {
		top := m.frames[len(m.frames)-1]
		switch top.kind {
		case frameIf:
			m.pop()
		case frameCount, frameUntil:
			if isBreak {
				m.logger.DebugCat(CatFlow, "break out of %s", top.kind)
				m.pop()
			} else {
				m.logger.DebugCat(CatFlow, "continue %s", top.kind)
				top.cursor = len(top.body)
			}
			return nil
		default:
			return runtimeErrorf(sig.Pos(), "%s outside of repeat", signalName(isBreak))
		}
	}
	return runtimeErrorf(sig.Pos(), "%s outside of repeat", signalName(isBreak))
}

func signalName(isBreak bool) string {
	if isBreak {
		return "break"
	}
	return "continue"
}

// finite evaluates a numeric argument that must be defined and finite
func (m *machine) finite(node Expr, pos SourcePosition, what string) (float64, error) {
	value, err := EvalChecked(node, m.env)
	if err != nil {
		return 0, runtimeErrorf(pos, "%s: %s", what, err.Error())
	}
	if !isFinite(value) {
		return 0, runtimeErrorf(pos, "%s is not a finite number (%g)", what, value)
	}
	m.logger.TraceCat(CatExpr, "%s = %g", node, value)
	return value, nil
}
