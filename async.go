package turtlescript

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// RunProgramAsync executes prog like RunProgram but suspends for
// opts.Delay after every MOVE and TURN. A zero delay yields the processor
// instead of sleeping. Cancelling ctx stops the run at the next suspension
// point; the partial result is returned with an error wrapping ctx.Err().
func (ts *TurtleScript) RunProgramAsync(ctx context.Context, prog *Program, opts Options) (*RunResult, error) {
	m := newMachine(prog, opts, ts.config, ts.logger)
	if err := ctx.Err(); err != nil {
		return m.result(), errors.Wrap(err, "async run cancelled before start")
	}
	for {
		moved, err := m.advance()
		if err != nil {
			ts.reportRuntimeError(err, prog)
			return m.result(), err
		}
		if moved {
			if err := pause(ctx, opts.Delay); err != nil {
				ts.logger.DebugCat(CatAsync, "cancelled after %d motions", m.motions)
				return m.result(), errors.Wrapf(err, "async run cancelled after %d motions", m.motions)
			}
		}
		if m.finished() {
			return m.result(), nil
		}
	}
}

// RunAsync parses source and executes it with RunProgramAsync
func (ts *TurtleScript) RunAsync(ctx context.Context, source string, opts Options) (*RunResult, error) {
	prog, err := ts.Compile(source, "")
	if err != nil {
		return nil, err
	}
	return ts.RunProgramAsync(ctx, prog, opts)
}

// pause is the suspension point of the async engine
func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		runtime.Gosched()
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// AsyncRun is a handle to a program running on its own goroutine
type AsyncRun struct {
	id      string
	started time.Time
	cancel  context.CancelFunc
	done    chan struct{}
	result  *RunResult
	err     error
}

// ID identifies the run within its interpreter
func (r *AsyncRun) ID() string { return r.id }

// Started returns when the run was launched
func (r *AsyncRun) Started() time.Time { return r.started }

// Done is closed once the run has finished, failed or been cancelled
func (r *AsyncRun) Done() <-chan struct{} { return r.done }

// Cancel stops the run at its next suspension point
func (r *AsyncRun) Cancel() { r.cancel() }

// Wait blocks until the run ends and returns its result
func (r *AsyncRun) Wait() (*RunResult, error) {
	<-r.done
	return r.result, r.err
}

// StartProgram launches prog on a new goroutine and returns immediately
func (ts *TurtleScript) StartProgram(ctx context.Context, prog *Program, opts Options) *AsyncRun {
	runCtx, cancel := context.WithCancel(ctx)

	ts.mu.Lock()
	run := &AsyncRun{
		id:      fmt.Sprintf("run_%d", ts.nextRunID),
		started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	ts.nextRunID++
	ts.activeRuns[run.id] = run
	ts.mu.Unlock()

	ts.logger.DebugCat(CatAsync, "started %s", run.id)

	go func() {
		defer cancel()
		run.result, run.err = ts.RunProgramAsync(runCtx, prog, opts)

		ts.mu.Lock()
		delete(ts.activeRuns, run.id)
		ts.mu.Unlock()

		ts.logger.DebugCat(CatAsync, "%s ended after %v", run.id, time.Since(run.started))
		close(run.done)
	}()
	return run
}

// Start parses source and launches it with StartProgram
func (ts *TurtleScript) Start(ctx context.Context, source string, opts Options) (*AsyncRun, error) {
	prog, err := ts.Compile(source, "")
	if err != nil {
		return nil, err
	}
	return ts.StartProgram(ctx, prog, opts), nil
}

// ActiveRuns returns the IDs of runs that have not finished yet
func (ts *TurtleScript) ActiveRuns() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ids := make([]string, 0, len(ts.activeRuns))
	for id := range ts.activeRuns {
		ids = append(ids, id)
	}
	return ids
}

// CancelAll cancels every active run
func (ts *TurtleScript) CancelAll() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, run := range ts.activeRuns {
		run.cancel()
	}
	return len(ts.activeRuns)
}
