package turtlescript

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, source string) []Instruction {
	t.Helper()
	body, err := Parse(source)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return body
}

func expectSyntaxError(t *testing.T, source string, line int, contains string) *SyntaxError {
	t.Helper()
	_, err := Parse(source)
	if err == nil {
		t.Fatalf("Parse(%q) should fail", source)
	}
	syntaxErr, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("Parse(%q) returned %T, want *SyntaxError", source, err)
	}
	if syntaxErr.Position.Line != line {
		t.Errorf("Parse(%q) error on line %d, want %d", source, syntaxErr.Position.Line, line)
	}
	if !strings.Contains(syntaxErr.Message, contains) {
		t.Errorf("Parse(%q) error %q does not mention %q", source, syntaxErr.Message, contains)
	}
	return syntaxErr
}

func TestUnknownCommand(t *testing.T) {
	err := expectSyntaxError(t, "xyz 1", 1, "unknown command")
	if !strings.Contains(err.Message, `"xyz"`) {
		t.Errorf("Expected error to name xyz, got %q", err.Message)
	}
	if !strings.HasPrefix(err.Error(), "line 1, column 1:") {
		t.Errorf("Unexpected Error(): %s", err.Error())
	}
}

func TestAbbreviations(t *testing.T) {
	tests := []struct {
		source string
		dir    Direction
	}{
		{"f 10", DirForward},
		{"fo 10", DirForward},
		{"FORWARD 10", DirForward},
		{"b 3", DirBack},
		{"Ba 3", DirBack},
		{"l 90", DirLeft},
		{"ri 45", DirRight},
		{"right 45", DirRight},
	}
	for _, tt := range tests {
		body := mustParse(t, tt.source)
		if len(body) != 1 {
			t.Errorf("Parse(%q) gave %d instructions", tt.source, len(body))
			continue
		}
		switch n := body[0].(type) {
		case *Move:
			if n.Direction != tt.dir {
				t.Errorf("Parse(%q) direction %s, want %s", tt.source, n.Direction, tt.dir)
			}
		case *Turn:
			if n.Direction != tt.dir {
				t.Errorf("Parse(%q) direction %s, want %s", tt.source, n.Direction, tt.dir)
			}
		default:
			t.Errorf("Parse(%q) gave %T", tt.source, n)
		}
	}
}

func TestNotAPrefix(t *testing.T) {
	expectSyntaxError(t, "forwards 10", 1, "unknown command")
	expectSyntaxError(t, "p down", 1, "unknown command")
}

func TestCommentsAndBlankLines(t *testing.T) {
	source := "# header comment\n\nforward 10 # move\n// another\nright 90 // turn\n   \n"
	body := mustParse(t, source)
	if len(body) != 2 {
		t.Fatalf("Expected 2 instructions, got %d", len(body))
	}
	if pos := body[0].Pos(); pos.Line != 3 {
		t.Errorf("Expected forward on line 3, got %d", pos.Line)
	}
	if got := RemoveComment("a // b # c"); got != "a " {
		t.Errorf("RemoveComment chose the wrong marker: %q", got)
	}
	if got := RemoveComment("a # b // c"); got != "a " {
		t.Errorf("RemoveComment chose the wrong marker: %q", got)
	}
}

func TestLineEndings(t *testing.T) {
	body := mustParse(t, "pen down\r\nforward 1\rright 2\n")
	if len(body) != 3 {
		t.Fatalf("Expected 3 instructions, got %d", len(body))
	}
	if body[2].Pos().Line != 3 {
		t.Errorf("Expected line 3, got %d", body[2].Pos().Line)
	}
}

func TestNestedBlocks(t *testing.T) {
	source := `repeat 2:
  forward 1

  if 1:
	right 90
    left 45
  back 1
pen up`
	body := mustParse(t, source)
	if len(body) != 2 {
		t.Fatalf("Expected 2 top-level instructions, got %d", len(body))
	}
	rep, ok := body[0].(*Repeat)
	if !ok {
		t.Fatalf("Expected *Repeat, got %T", body[0])
	}
	if rep.Mode != RepeatCount || len(rep.Body) != 3 {
		t.Fatalf("Expected count repeat with 3 instructions, got mode %d with %d", rep.Mode, len(rep.Body))
	}
	cond, ok := rep.Body[1].(*If)
	if !ok {
		t.Fatalf("Expected *If, got %T", rep.Body[1])
	}
	if len(cond.Body) != 2 {
		t.Errorf("Expected tab and space indented lines in if body, got %d", len(cond.Body))
	}
	if _, ok := body[1].(*Pen); !ok {
		t.Errorf("Expected *Pen at top level, got %T", body[1])
	}
}

func TestEmptyBody(t *testing.T) {
	body := mustParse(t, "repeat 3:\nforward 1")
	if len(body) != 2 {
		t.Fatalf("Expected 2 instructions, got %d", len(body))
	}
	if rep := body[0].(*Repeat); len(rep.Body) != 0 {
		t.Errorf("Expected empty body, got %d", len(rep.Body))
	}
}

func TestRepeatUntil(t *testing.T) {
	body := mustParse(t, "var i = 0\nREPEAT UNTIL i == 3:\n  i = i + 1")
	rep, ok := body[1].(*Repeat)
	if !ok || rep.Mode != RepeatUntil {
		t.Fatalf("Expected repeat until, got %#v", body[1])
	}
	if rep.Until.String() != "(i == 3)" {
		t.Errorf("Unexpected condition %s", rep.Until)
	}
	assign, ok := rep.Body[0].(*Var)
	if !ok || !assign.Reassign || assign.Name != "i" {
		t.Errorf("Expected reassignment of i, got %#v", rep.Body[0])
	}
}

func TestHeaderErrors(t *testing.T) {
	expectSyntaxError(t, "repeat 3\n  forward 1", 1, "must end with ':'")
	expectSyntaxError(t, "forward 1\nif x > 1\n  forward 1", 2, "must end with ':'")
	expectSyntaxError(t, "repeat :", 1, "requires an expression")
	expectSyntaxError(t, "repeat 1 +:", 1, "unexpected end")
}

func TestLoopSignals(t *testing.T) {
	expectSyntaxError(t, "break", 1, "break outside of repeat")
	expectSyntaxError(t, "if 1:\n  continue", 2, "continue outside of repeat")
	expectSyntaxError(t, "repeat 2:\n  break now", 2, "takes no arguments")

	body := mustParse(t, "repeat 2:\n  if 1:\n    break\n  continue")
	rep := body[0].(*Repeat)
	if _, ok := rep.Body[0].(*If).Body[0].(*Break); !ok {
		t.Error("Expected break inside if")
	}
	if _, ok := rep.Body[1].(*Continue); !ok {
		t.Error("Expected continue in repeat body")
	}
}

func TestVarAndAssignment(t *testing.T) {
	body := mustParse(t, "var Size = 2 * 3\nsize = size + 1\nx = 4\nq = 1")
	decl := body[0].(*Var)
	if decl.Reassign || decl.Name != "size" {
		t.Errorf("Expected declaration of size, got %#v", decl)
	}
	for _, ins := range body[1:] {
		if v, ok := ins.(*Var); !ok || !v.Reassign {
			t.Errorf("Expected reassignment, got %#v", ins)
		}
	}
	if name := body[2].(*Var).Name; name != "x" {
		t.Errorf("Expected assignment to x, got %s", name)
	}

	expectSyntaxError(t, "var 2x = 1", 1, "invalid variable name")
	expectSyntaxError(t, "var x 1", 1, "expected '='")
	expectSyntaxError(t, "var x =", 1, "requires a value")
	expectSyntaxError(t, "var", 1, "requires a name")
	expectSyntaxError(t, "2x = 1", 1, "invalid variable name")
}

func TestMovementArguments(t *testing.T) {
	expectSyntaxError(t, "forward", 1, "requires a value")
	err := expectSyntaxError(t, "forward 1 +", 1, "unexpected end")
	if err.Position.Column != 12 {
		t.Errorf("Expected column 12, got %d", err.Position.Column)
	}
	err = expectSyntaxError(t, "  left 2 $ 1", 1, "unexpected character")
	if err.Position.Column != 10 {
		t.Errorf("Expected column 10, got %d", err.Position.Column)
	}
	body := mustParse(t, "forward (1 + 2) * size")
	if got := body[0].(*Move).Value.String(); got != "((1 + 2) * size)" {
		t.Errorf("Unexpected expression %s", got)
	}
}

func TestPen(t *testing.T) {
	body := mustParse(t, "pen DOWN\npen up")
	if !body[0].(*Pen).Down || body[1].(*Pen).Down {
		t.Error("Pen states parsed incorrectly")
	}
	expectSyntaxError(t, "pen", 1, "exactly one argument")
	expectSyntaxError(t, "pen up down", 1, "exactly one argument")
	expectSyntaxError(t, "pen sideways", 1, "up or down")
}

func TestHSVParams(t *testing.T) {
	body := mustParse(t, "hsv _ +hue -12.5")
	set := body[0].(*SetHSV)
	if set.H.Mode != ParamIgnore {
		t.Errorf("Expected ignore for h, got %v", set.H)
	}
	if set.S.Mode != ParamOffset || set.S.Ref != "hue" || set.S.Sign != 1 {
		t.Errorf("Expected +hue offset for s, got %#v", set.S)
	}
	if set.V.Mode != ParamOffset || set.V.Ref != "" || set.V.Literal != -12.5 {
		t.Errorf("Expected -12.5 offset for v, got %#v", set.V)
	}

	body = mustParse(t, "hsv Shade 50 -x")
	set = body[0].(*SetHSV)
	if set.H.Mode != ParamAbsolute || set.H.Ref != "shade" {
		t.Errorf("Expected absolute ref to shade, got %#v", set.H)
	}
	if set.S.Mode != ParamAbsolute || set.S.Literal != 50 {
		t.Errorf("Expected absolute 50, got %#v", set.S)
	}
	if set.V.Sign != -1 || set.V.Ref != "x" {
		t.Errorf("Expected -x offset, got %#v", set.V)
	}
	if got := set.V.String(); got != "-x" {
		t.Errorf("Unexpected param String(): %s", got)
	}

	expectSyntaxError(t, "hsv 1 2", 1, "exactly three")
	expectSyntaxError(t, "hsv 1 2 3 4", 1, "exactly three")
	err := expectSyntaxError(t, "hsv 1 2x 3", 1, "invalid hsv parameter")
	if err.Position.Column != 7 {
		t.Errorf("Expected column 7, got %d", err.Position.Column)
	}
	expectSyntaxError(t, "hsv + 1 2", 1, "invalid hsv parameter")
	expectSyntaxError(t, "hsv 1 2 (3)", 1, "invalid hsv parameter")
}

func TestProgramKeepsSource(t *testing.T) {
	prog, err := NewParser("forward 1\nright 2", "square.turtle").ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	if len(prog.Lines()) != 2 || prog.Filename != "square.turtle" {
		t.Errorf("Unexpected program %#v", prog)
	}
	if prog.Instructions[1].Pos().Filename != "square.turtle" {
		t.Error("Expected filename on instruction positions")
	}
}

func TestCommandsWinOverAssignment(t *testing.T) {
	// Abbreviations and keywords resolve before a line is read as assignment
	expectSyntaxError(t, "f = 1", 1, "unexpected character")
	expectSyntaxError(t, "forward = 2", 1, "unexpected character")
	expectSyntaxError(t, "r = 3", 1, "unexpected character")
	expectSyntaxError(t, "repeat = 1", 1, "must end with ':'")
	expectSyntaxError(t, "pen = 1", 1, "exactly one argument")

	body := mustParse(t, "var fx = 0\nfx = 2\nb 5")
	if v, ok := body[1].(*Var); !ok || v.Name != "fx" || !v.Reassign {
		t.Errorf("Expected reassignment of fx, got %#v", body[1])
	}
	if m, ok := body[2].(*Move); !ok || m.Direction != DirBack {
		t.Errorf("Expected back move, got %#v", body[2])
	}
}
