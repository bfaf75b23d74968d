package turtlescript

import (
	"fmt"
	"math"
)

// HSV is a hue/saturation/value color. Hue is in [0,360), S and V in [0,100].
type HSV struct {
	H float64 `json:"h" yaml:"h"`
	S float64 `json:"s" yaml:"s"`
	V float64 `json:"v" yaml:"v"`
}

func (c HSV) String() string {
	return fmt.Sprintf("hsv(%g, %g, %g)", c.H, c.S, c.V)
}

// Normalize wraps the hue and clamps saturation and value
func (c HSV) Normalize() HSV {
	return HSV{H: WrapHue(c.H), S: Clamp(c.S, 0, 100), V: Clamp(c.V, 0, 100)}
}

// Component selects which channel an HSVParam applies to
type Component int

const (
	ComponentHue Component = iota
	ComponentSaturation
	ComponentValue
)

func (c Component) String() string {
	switch c {
	case ComponentHue:
		return "hue"
	case ComponentSaturation:
		return "saturation"
	case ComponentValue:
		return "value"
	}
	return "unknown"
}

// ParamMode is how an hsv parameter affects its component
type ParamMode int

const (
	ParamIgnore ParamMode = iota
	ParamOffset
	ParamAbsolute
)

// HSVParam is one parameter of an hsv statement. When Ref is set the
// magnitude comes from that variable (times Sign for offsets); otherwise
// Literal holds the already-signed value.
type HSVParam struct {
	Mode    ParamMode
	Literal float64
	Ref     string
	Sign    float64
}

// IgnoreParam leaves a component unchanged
func IgnoreParam() HSVParam { return HSVParam{Mode: ParamIgnore} }

// OffsetLiteral adds a fixed amount
func OffsetLiteral(v float64) HSVParam { return HSVParam{Mode: ParamOffset, Literal: v, Sign: 1} }

// OffsetRef adds sign times a variable's value
func OffsetRef(name string, sign float64) HSVParam {
	return HSVParam{Mode: ParamOffset, Ref: name, Sign: sign}
}

// AbsoluteLiteral sets a fixed value
func AbsoluteLiteral(v float64) HSVParam { return HSVParam{Mode: ParamAbsolute, Literal: v, Sign: 1} }

// AbsoluteRef sets a variable's value
func AbsoluteRef(name string) HSVParam { return HSVParam{Mode: ParamAbsolute, Ref: name, Sign: 1} }

func (p HSVParam) String() string {
	switch p.Mode {
	case ParamIgnore:
		return "_"
	case ParamOffset:
		if p.Ref != "" {
			if p.Sign < 0 {
				return "-" + p.Ref
			}
			return "+" + p.Ref
		}
		return fmt.Sprintf("%+g", p.Literal)
	}
	if p.Ref != "" {
		return p.Ref
	}
	return fmt.Sprintf("%g", p.Literal)
}

// WrapHue maps any angle into [0,360)
func WrapHue(v float64) float64 {
	return math.Mod(math.Mod(v, 360)+360, 360)
}

// Clamp limits v to [lo,hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApplyParam resolves param against the current component value
func ApplyParam(current float64, param HSVParam, component Component, env *Environment) (float64, error) {
	var v float64
	switch param.Mode {
	case ParamIgnore:
		return current, nil
	case ParamOffset, ParamAbsolute:
		amount := param.Literal
		if param.Ref != "" {
			value, ok := env.Get(param.Ref)
			if !ok {
				return current, fmt.Errorf("undefined variable %q in hsv %s", param.Ref, component)
			}
			amount = value * param.Sign
		}
		if param.Mode == ParamOffset {
			v = current + amount
		} else {
			v = amount
		}
	default:
		return current, fmt.Errorf("invalid hsv parameter mode %d", param.Mode)
	}
	if !isFinite(v) {
		return current, fmt.Errorf("hsv %s is not a finite number (%g)", component, v)
	}

	if component == ComponentHue {
		return WrapHue(v), nil
	}
	return Clamp(v, 0, 100), nil
}

// ApplyHSV resolves all three parameters against the current color
func ApplyHSV(current HSV, h, s, v HSVParam, env *Environment) (HSV, error) {
	var out HSV
	var err error
	if out.H, err = ApplyParam(current.H, h, ComponentHue, env); err != nil {
		return current, err
	}
	if out.S, err = ApplyParam(current.S, s, ComponentSaturation, env); err != nil {
		return current, err
	}
	if out.V, err = ApplyParam(current.V, v, ComponentValue, env); err != nil {
		return current, err
	}
	return out, nil
}
