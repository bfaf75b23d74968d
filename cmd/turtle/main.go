package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	turtlescript "github.com/phroun/turtlescript"
	"github.com/phroun/turtlescript/pkg/grid"
	"golang.org/x/term"
)

var version = "dev" // set via -ldflags at build time

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m" // Bright yellow foreground
	colorReset  = "\x1b[0m"  // Reset to default
)

// stderrSupportsColor checks if stderr is a terminal that supports color output
func stderrSupportsColor() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if t := os.Getenv("TERM"); t == "dumb" {
		return false
	}
	return true
}

// errorPrintf prints an error message to stderr, using color if supported
func errorPrintf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if stderrSupportsColor() {
		fmt.Fprintf(os.Stderr, "%s%s%s", colorYellow, message, colorReset)
	} else {
		fmt.Fprint(os.Stderr, message)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	configFlag := flag.String("config", "", "Config file (default ~/.turtle/config.yaml)")
	debugFlag := flag.Bool("debug", false, "Enable debug output")
	flag.BoolVar(debugFlag, "d", false, "Enable debug output (short)")
	traceFlag := flag.Bool("trace", false, "Print every step when using the step engine")
	versionFlag := flag.Bool("version", false, "Show version")

	engineFlag := flag.String("engine", "", "Engine: sync, async or step")
	delayFlag := flag.Int("delay", -1, "Async delay per move/turn in milliseconds")
	widthFlag := flag.Int("width", -1, "Cull width in cells (0 = unbounded)")
	heightFlag := flag.Int("height", -1, "Cull height in cells (0 = unbounded)")
	xFlag := flag.Float64("x", 0, "Starting x")
	yFlag := flag.Float64("y", 0, "Starting y")
	headingFlag := flag.Float64("heading", 0, "Starting heading in degrees")
	penFlag := flag.Bool("pen", false, "Start with the pen down")

	opsFlag := flag.Bool("ops", false, "Write the operation log to stdout")
	formatFlag := flag.String("format", "", "Operation log format: json or yaml")
	pngFlag := flag.String("png", "", "Write the drawing to a PNG file")
	cellFlag := flag.Int("cell", 0, "Pixels per cell for -png")
	drawFlag := flag.Bool("draw", false, "Draw the result in the terminal")
	quietFlag := flag.Bool("q", false, "Do not print the final state")

	flag.Usage = showUsage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("turtle %s\n", version)
		return 0
	}

	config, err := loadCLIConfig(*configFlag)
	if err != nil {
		errorPrintf("Error: %v\n", err)
		return 1
	}
	if *engineFlag != "" {
		config.Engine = strings.ToLower(*engineFlag)
	}
	if *delayFlag >= 0 {
		config.DelayMS = *delayFlag
	}
	if *widthFlag >= 0 {
		config.Width = *widthFlag
	}
	if *heightFlag >= 0 {
		config.Height = *heightFlag
	}
	if *formatFlag != "" {
		config.OpsFormat = strings.ToLower(*formatFlag)
	}
	if *cellFlag > 0 {
		config.CellSize = *cellFlag
	}
	switch config.Engine {
	case "sync", "async", "step":
	default:
		errorPrintf("Error: unknown engine %q (want sync, async or step)\n", config.Engine)
		return 1
	}
	if config.OpsFormat != "json" && config.OpsFormat != "yaml" {
		errorPrintf("Error: unknown ops format %q (want json or yaml)\n", config.OpsFormat)
		return 1
	}

	tsConfig := turtlescript.DefaultConfig()
	tsConfig.Debug = *debugFlag
	tsConfig.DefaultDelay = time.Duration(config.DelayMS) * time.Millisecond
	tsConfig.MaxIterations = config.MaxIterations

	ts := turtlescript.New(tsConfig)
	if *debugFlag {
		ts.Logger().EnableAllCategories()
	}
	r := &runner{
		ts:     ts,
		config: config,
		trace:  *traceFlag,
	}

	canvas := grid.New(config.CellSize)
	opts := r.ts.DefaultOptions()
	opts.X, opts.Y = *xFlag, *yFlag
	opts.Heading = *headingFlag
	opts.PenDown = *penFlag
	opts.Width, opts.Height = config.Width, config.Height
	opts.Record = *opsFlag
	opts.Renderer = canvas

	scriptFile, source, interactive, err := readInput(flag.Args())
	if err != nil {
		errorPrintf("Error: %v\n", err)
		return 1
	}
	if interactive {
		return runREPL(r, opts, canvas)
	}

	// Live animation when the async engine draws to a terminal
	if *drawFlag && config.Engine == "async" && term.IsTerminal(int(os.Stdout.Fd())) {
		opts.Renderer = &liveRenderer{Grid: canvas, out: os.Stdout, config: config}
	}

	prog, err := r.ts.Compile(source, scriptFile)
	if err != nil {
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := r.execute(ctx, prog, opts)
	if result == nil {
		errorPrintf("Error: %v\n", runErr)
		return 1
	}

	if *drawFlag {
		if err := canvas.DrawANSI(os.Stdout, terminalViewport(viewport(canvas, config)), drawMode(config)); err != nil {
			errorPrintf("Error: %v\n", err)
		}
	}
	if *opsFlag {
		if err := writeOperations(os.Stdout, result.Operations, config.OpsFormat); err != nil {
			errorPrintf("Error: %v\n", err)
			return 1
		}
	}
	if !*quietFlag {
		printState(os.Stderr, result)
	}
	if *pngFlag != "" {
		if err := canvas.SavePNG(*pngFlag, viewport(canvas, config), backgroundColor(config)); err != nil {
			errorPrintf("Error: %v\n", err)
			return 1
		}
	}

	if runErr != nil {
		return 1
	}
	return 0
}

// readInput returns the script named on the command line or piped on stdin.
// With neither, the session is interactive.
func readInput(args []string) (string, string, bool, error) {
	if len(args) > 0 {
		scriptFile := findScriptFile(args[0])
		if scriptFile == "" {
			return "", "", false, fmt.Errorf("script file not found: %s", args[0])
		}
		content, err := os.ReadFile(scriptFile)
		if err != nil {
			return "", "", false, fmt.Errorf("reading script file: %v", err)
		}
		return scriptFile, string(content), false, nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err == nil && (stdinInfo.Mode()&os.ModeCharDevice) == 0 {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", false, fmt.Errorf("reading from stdin: %v", err)
		}
		return "<stdin>", string(content), false, nil
	}
	return "", "", true, nil
}

func findScriptFile(filename string) string {
	if _, err := os.Stat(filename); err == nil {
		return filename
	}
	// If no extension, try adding .turtle
	if filepath.Ext(filename) == "" {
		turtleFile := filename + ".turtle"
		if _, err := os.Stat(turtleFile); err == nil {
			return turtleFile
		}
	}
	return ""
}

func showUsage() {
	usage := `Usage: turtle [options] [script.turtle]
       turtle [options] < input.turtle
       turtle [options]                  (interactive)

Runs a Turtle Script drawing program and prints the final turtle state.

Options:
  -engine NAME     sync (default), async or step
  -delay MS        pause after each move/turn with the async engine
  -width N         cull cells with x outside [0,N)
  -height N        cull cells with y outside [0,N)
  -x, -y, -heading starting position and heading
  -pen             start with the pen down
  -ops             write the operation log to stdout
  -format FMT      operation log format: json or yaml
  -png FILE        save the drawing as PNG
  -cell N          pixels per cell for -png
  -draw            draw the result in the terminal
  -trace           print each step with the step engine
  -config FILE     read settings from FILE instead of ~/.turtle/config.yaml
  -q               do not print the final state
  -d, -debug       enable debug output

Examples:
  turtle square.turtle
  turtle -engine async -delay 50 -draw spiral
  turtle -ops -format yaml -png out.png flower.turtle
`
	fmt.Fprint(os.Stderr, usage)
}
