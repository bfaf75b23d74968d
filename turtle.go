package turtlescript

import "math"

// turtle holds the mutable state of one run and performs every side effect:
// the operation log and the renderer calls
type turtle struct {
	x, y    float64
	heading float64
	penDown bool
	color   HSV

	width, height int
	record        bool
	ops           []Operation
	renderer      Renderer
	logger        *Logger
}

func newTurtle(opts Options, logger *Logger) *turtle {
	t := &turtle{
		x:        opts.X,
		y:        opts.Y,
		heading:  WrapHue(opts.Heading),
		penDown:  opts.PenDown,
		color:    opts.Color.Normalize(),
		width:    opts.Width,
		height:   opts.Height,
		record:   opts.Record,
		renderer: opts.Renderer,
		logger:   logger,
	}
	if t.renderer != nil {
		if opts.ClearRenderer {
			t.renderer.Clear()
		}
		t.renderer.SetPosition(roundCell(t.x), roundCell(t.y))
		t.renderer.SetPen(t.penDown)
		t.renderer.SetHeading(t.heading)
		logger.TraceCat(CatRender, "sync (%d, %d) pen %v heading %g", roundCell(t.x), roundCell(t.y), t.penDown, t.heading)
	}
	return t
}

func (t *turtle) emit(op Operation) {
	if t.record {
		t.ops = append(t.ops, op)
	}
}

// visible reports whether a cell survives the optional width/height cull
func (t *turtle) visible(x, y int) bool {
	if t.width > 0 && (x < 0 || x >= t.width) {
		return false
	}
	if t.height > 0 && (y < 0 || y >= t.height) {
		return false
	}
	return true
}

func (t *turtle) move(distance float64) {
	rad := t.heading * math.Pi / 180
	nx := t.x + distance*math.Cos(rad)
	ny := t.y + distance*math.Sin(rad)

	if t.penDown {
		lastX, lastY, emitted := 0, 0, false
		RasterLine(t.x, t.y, nx, ny, func(cx, cy int) {
			if emitted && cx == lastX && cy == lastY {
				return
			}
			if !t.visible(cx, cy) {
				return
			}
			lastX, lastY, emitted = cx, cy, true
			t.emit(PlotOp(cx, cy, t.color))
			if t.renderer != nil {
				t.renderer.Plot(cx, cy, t.color)
				t.logger.TraceCat(CatRender, "plot (%d, %d) %s", cx, cy, t.color)
			}
		})
	}

	t.x, t.y = nx, ny
	rx, ry := roundCell(nx), roundCell(ny)
	t.emit(MoveOp(rx, ry))
	if t.renderer != nil {
		t.renderer.SetPosition(rx, ry)
		t.logger.TraceCat(CatRender, "position (%d, %d)", rx, ry)
	}
	t.logger.TraceCat(CatMotion, "move %g -> (%g, %g)", distance, nx, ny)
}

func (t *turtle) turn(degrees float64) {
	t.heading = WrapHue(t.heading + degrees)
	t.emit(TurnOp(t.heading))
	if t.renderer != nil {
		t.renderer.SetHeading(t.heading)
		t.logger.TraceCat(CatRender, "heading %g", t.heading)
	}
	t.logger.TraceCat(CatMotion, "turn %g -> heading %g", degrees, t.heading)
}

func (t *turtle) setPen(down bool) {
	t.penDown = down
	t.emit(PenOp(down))
	if t.renderer != nil {
		t.renderer.SetPen(down)
		t.logger.TraceCat(CatRender, "pen %v", down)
	}
}

func (t *turtle) setColor(color HSV) {
	t.color = color
	t.emit(HSVOp(color))
	t.logger.TraceCat(CatColor, "color %s", color)
}

func (t *turtle) snapshot(env *Environment) *RunResult {
	ops := make([]Operation, len(t.ops))
	copy(ops, t.ops)
	return &RunResult{
		X:          roundCell(t.x),
		Y:          roundCell(t.y),
		Heading:    t.heading,
		PenDown:    t.penDown,
		Color:      t.color,
		Variables:  env.Snapshot(),
		Operations: ops,
	}
}
