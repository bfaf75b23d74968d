package turtlescript

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

var equivalencePrograms = map[string]string{
	"square": `pen down
repeat 4:
  forward 10
  right 90`,

	"spiral": `pen down
var len = 1
repeat 30:
  hsv +12 _ _
  forward len
  right 91
  len = len + 0.7`,

	"nested control": `var n = 0
pen down
repeat 3:
  repeat 10:
    n = n + 1
    if n % 4 == 0:
      break
    if n % 3 == 0:
      continue
    forward 2
  left 120
hsv _ -10 +q`,

	"until with continue": `var i = 0
var step = 3
pen down
repeat until i >= 12:
  i = i + 1
  if i % 2:
    var shade = i * 30
    hsv shade 100 100
    continue
  forward step
  right 30`,

	"trailing instructions": `forward 1
pen down
var done = 1`,

	"motion in if at end": `var k = 2
repeat k:
  if k > 1:
    back 3
    left 45`,

	"empty bodies": `repeat 3:
if 0:
repeat until 1:
forward 4`,

	"runtime error": `pen down
forward 3
repeat 2:
  right 90
  forward missing`,

	"iteration guard": `repeat until 0:
  right 7`,
}

type engineRun struct {
	result *RunResult
	err    error
	calls  []string
}

func runAllEngines(t *testing.T, source string) map[string]engineRun {
	t.Helper()
	config := DefaultConfig()
	config.MaxIterations = 50
	ts := quiet(config)
	prog, err := ts.Compile(source, "")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	options := func(r Renderer) Options {
		opts := recordOptions()
		opts.X, opts.Y = 20, 20
		opts.Color = HSV{H: 0, S: 50, V: 50}
		opts.Variables = map[string]float64{"q": 5}
		opts.Width, opts.Height = 40, 40
		opts.Renderer = r
		return opts
	}

	runs := make(map[string]engineRun)

	sync := &callLog{}
	res, err := ts.RunProgram(prog, options(sync))
	runs["sync"] = engineRun{res, err, sync.calls}

	async := &callLog{}
	res, err = ts.RunProgramAsync(context.Background(), prog, options(async))
	runs["async"] = engineRun{res, err, async.calls}

	started := &callLog{}
	res, err = ts.StartProgram(context.Background(), prog, options(started)).Wait()
	runs["start"] = engineRun{res, err, started.calls}

	stepped := &callLog{}
	stepper := ts.NewStepperProgram(prog, options(stepped))
	for i := 0; !stepper.Done(); i++ {
		if i > 100000 {
			t.Fatal("stepper did not finish")
		}
		if _, err := stepper.Step(); err != nil {
			break
		}
	}
	res, err = stepper.Result()
	runs["stepper"] = engineRun{res, err, stepped.calls}

	return runs
}

func TestEngineEquivalence(t *testing.T) {
	for name, source := range equivalencePrograms {
		runs := runAllEngines(t, source)
		want := runs["sync"]
		if want.result == nil {
			t.Errorf("%s: sync engine returned no result", name)
			continue
		}
		for _, engine := range []string{"async", "start", "stepper"} {
			got := runs[engine]
			if !reflect.DeepEqual(got.result, want.result) {
				t.Errorf("%s: %s result differs from sync\n got: %+v\nwant: %+v", name, engine, got.result, want.result)
			}
			if errString(got.err) != errString(want.err) {
				t.Errorf("%s: %s error %q, sync error %q", name, engine, errString(got.err), errString(want.err))
			}
			if strings.Join(got.calls, "|") != strings.Join(want.calls, "|") {
				t.Errorf("%s: %s renderer calls differ from sync", name, engine)
			}
		}
	}
}

func TestEquivalenceErrorsAreReported(t *testing.T) {
	runs := runAllEngines(t, equivalencePrograms["runtime error"])
	for engine, run := range runs {
		if run.err == nil {
			t.Errorf("%s: expected runtime error", engine)
		}
		if run.result == nil || len(run.result.Operations) == 0 {
			t.Errorf("%s: expected partial operation log", engine)
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
