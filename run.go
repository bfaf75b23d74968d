package turtlescript

// RunProgram executes prog to completion on the calling goroutine. On a
// runtime error the partial result is returned together with the error.
func (ts *TurtleScript) RunProgram(prog *Program, opts Options) (*RunResult, error) {
	m := newMachine(prog, opts, ts.config, ts.logger)
	for {
		if _, err := m.advance(); err != nil {
			ts.reportRuntimeError(err, prog)
			return m.result(), err
		}
		if m.finished() {
			break
		}
	}
	ts.logger.DebugCat(CatFlow, "run finished after %d motions", m.motions)
	return m.result(), nil
}

// Run parses and executes source synchronously
func (ts *TurtleScript) Run(source string, opts Options) (*RunResult, error) {
	prog, err := ts.Compile(source, "")
	if err != nil {
		return nil, err
	}
	return ts.RunProgram(prog, opts)
}

// Run parses and executes source with a default interpreter
func Run(source string, opts Options) (*RunResult, error) {
	return New(nil).Run(source, opts)
}
