package turtlescript

import (
	"encoding/json"
	"fmt"
)

// OpKind tags an Operation
type OpKind string

const (
	OpPlot OpKind = "plot"
	OpMove OpKind = "move"
	OpTurn OpKind = "turn"
	OpPen  OpKind = "pen"
	OpHSV  OpKind = "hsv"
)

// Operation is one entry of the append-only run log. Which fields are
// meaningful depends on Kind: plot uses X, Y and Color; move uses X and Y;
// turn uses Heading; pen uses Down; hsv uses Color.
type Operation struct {
	Kind    OpKind
	X, Y    int
	Heading float64
	Down    bool
	Color   HSV
}

// PlotOp records a painted cell
func PlotOp(x, y int, color HSV) Operation { return Operation{Kind: OpPlot, X: x, Y: y, Color: color} }

// MoveOp records the rounded position after a move
func MoveOp(x, y int) Operation { return Operation{Kind: OpMove, X: x, Y: y} }

// TurnOp records the heading after a turn
func TurnOp(heading float64) Operation { return Operation{Kind: OpTurn, Heading: heading} }

// PenOp records a pen change
func PenOp(down bool) Operation { return Operation{Kind: OpPen, Down: down} }

// HSVOp records a color change
func HSVOp(color HSV) Operation { return Operation{Kind: OpHSV, Color: color} }

func (op Operation) String() string {
	switch op.Kind {
	case OpPlot:
		return fmt.Sprintf("plot(%d, %d, %s)", op.X, op.Y, op.Color)
	case OpMove:
		return fmt.Sprintf("move(%d, %d)", op.X, op.Y)
	case OpTurn:
		return fmt.Sprintf("turn(%g)", op.Heading)
	case OpPen:
		if op.Down {
			return "pen(down)"
		}
		return "pen(up)"
	case OpHSV:
		return fmt.Sprintf("hsv(%s)", op.Color)
	}
	return fmt.Sprintf("unknown(%s)", op.Kind)
}

type plotRecord struct {
	Op    OpKind `json:"op" yaml:"op"`
	X     int    `json:"x" yaml:"x"`
	Y     int    `json:"y" yaml:"y"`
	Color HSV    `json:"color" yaml:"color"`
}

type moveRecord struct {
	Op OpKind `json:"op" yaml:"op"`
	X  int    `json:"x" yaml:"x"`
	Y  int    `json:"y" yaml:"y"`
}

type turnRecord struct {
	Op      OpKind  `json:"op" yaml:"op"`
	Heading float64 `json:"heading" yaml:"heading"`
}

type penRecord struct {
	Op   OpKind `json:"op" yaml:"op"`
	Down bool   `json:"down" yaml:"down"`
}

type hsvRecord struct {
	Op    OpKind `json:"op" yaml:"op"`
	Color HSV    `json:"color" yaml:"color"`
}

// record returns the tagged shape written by the JSON and YAML encoders
func (op Operation) record() interface{} {
	switch op.Kind {
	case OpPlot:
		return plotRecord{Op: op.Kind, X: op.X, Y: op.Y, Color: op.Color}
	case OpMove:
		return moveRecord{Op: op.Kind, X: op.X, Y: op.Y}
	case OpTurn:
		return turnRecord{Op: op.Kind, Heading: op.Heading}
	case OpPen:
		return penRecord{Op: op.Kind, Down: op.Down}
	case OpHSV:
		return hsvRecord{Op: op.Kind, Color: op.Color}
	}
	return map[string]string{"op": string(op.Kind)}
}

// MarshalJSON writes {"op": kind, ...fields of that kind}
func (op Operation) MarshalJSON() ([]byte, error) {
	return json.Marshal(op.record())
}

// MarshalYAML writes the same shape as MarshalJSON
func (op Operation) MarshalYAML() (interface{}, error) {
	return op.record(), nil
}
