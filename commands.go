package turtlescript

import (
	"strings"
)

// movementCommands are the only heads that accept abbreviations
var movementCommands = []string{"forward", "back", "left", "right"}

type statementParser func(p *Parser, line sourceLine, words []word, head string) (Instruction, error)

var statementParsers map[string]statementParser

func init() {
	statementParsers = map[string]statementParser{
		"forward":  parseMovement,
		"back":     parseMovement,
		"left":     parseMovement,
		"right":    parseMovement,
		"var":      parseVar,
		"repeat":   parseRepeat,
		"if":       parseIf,
		"pen":      parsePen,
		"hsv":      parseHSV,
		"break":    parseLoopSignal,
		"continue": parseLoopSignal,
	}
}

func parseMovement(p *Parser, line sourceLine, words []word, head string) (Instruction, error) {
	arg, offset := restAfter(line, words[0])
	if arg == "" {
		return nil, p.errorAt(line, line.column, len(words[0].text), "%s requires a value", head)
	}
	value, err := p.parseExprAt(line, arg, offset)
	if err != nil {
		return nil, err
	}
	node := Node{Position: p.position(line)}
	dir := Direction(head)
	if dir == DirForward || dir == DirBack {
		return &Move{Node: node, Direction: dir, Value: value}, nil
	}
	return &Turn{Node: node, Direction: dir, Value: value}, nil
}

func parseVar(p *Parser, line sourceLine, words []word, head string) (Instruction, error) {
	if len(words) < 2 {
		return nil, p.errorAt(line, line.column, len(words[0].text), "var requires a name")
	}
	name := words[1]
	if !IsIdentifier(name.text) {
		return nil, p.errorAt(line, line.column+name.offset, len(name.text), "invalid variable name %q", name.text)
	}
	if len(words) < 3 || words[2].text != "=" {
		return nil, p.errorAt(line, line.column+name.offset+len(name.text), 1, "expected '=' after variable name %q", name.text)
	}
	exprText, offset := restAfter(line, words[2])
	if exprText == "" {
		return nil, p.errorAt(line, line.column+words[2].offset, 1, "var %s requires a value", name.text)
	}
	value, err := p.parseExprAt(line, exprText, offset)
	if err != nil {
		return nil, err
	}
	return &Var{
		Node:  Node{Position: p.position(line)},
		Name:  strings.ToLower(name.text),
		Value: value,
	}, nil
}

func (p *Parser) parseAssignment(line sourceLine, words []word) (Instruction, error) {
	name := words[0]
	if !IsIdentifier(name.text) {
		return nil, p.errorAt(line, line.column, len(name.text), "invalid variable name %q", name.text)
	}
	exprText, offset := restAfter(line, words[1])
	if exprText == "" {
		return nil, p.errorAt(line, line.column+words[1].offset, 1, "assignment to %s requires a value", name.text)
	}
	value, err := p.parseExprAt(line, exprText, offset)
	if err != nil {
		return nil, err
	}
	return &Var{
		Node:     Node{Position: p.position(line)},
		Name:     strings.ToLower(name.text),
		Value:    value,
		Reassign: true,
	}, nil
}

func parseRepeat(p *Parser, line sourceLine, words []word, head string) (Instruction, error) {
	rest, offset := restAfter(line, words[0])
	mode := RepeatCount
	if len(words) >= 3 && strings.EqualFold(words[1].text, "until") {
		mode = RepeatUntil
		rest, offset = restAfter(line, words[1])
	}

	keyword := "repeat"
	if mode == RepeatUntil {
		keyword = "repeat until"
	}
	p.loops++
	expr, body, err := p.parseHeader(line, keyword, rest, offset)
	p.loops--
	if err != nil {
		return nil, err
	}

	node := &Repeat{Node: Node{Position: p.position(line)}, Mode: mode, Body: body}
	if mode == RepeatUntil {
		node.Until = expr
	} else {
		node.Count = expr
	}
	return node, nil
}

func parseIf(p *Parser, line sourceLine, words []word, head string) (Instruction, error) {
	rest, offset := restAfter(line, words[0])
	test, body, err := p.parseHeader(line, "if", rest, offset)
	if err != nil {
		return nil, err
	}
	return &If{Node: Node{Position: p.position(line)}, Test: test, Body: body}, nil
}

func parsePen(p *Parser, line sourceLine, words []word, head string) (Instruction, error) {
	if len(words) != 2 {
		return nil, p.errorAt(line, line.column, len(line.text), "pen expects exactly one argument: up or down")
	}
	node := Node{Position: p.position(line)}
	switch strings.ToLower(words[1].text) {
	case "up":
		return &Pen{Node: node, Down: false}, nil
	case "down":
		return &Pen{Node: node, Down: true}, nil
	}
	return nil, p.errorAt(line, line.column+words[1].offset, len(words[1].text), "pen expects up or down, got %q", words[1].text)
}

func parseHSV(p *Parser, line sourceLine, words []word, head string) (Instruction, error) {
	if len(words) != 4 {
		return nil, p.errorAt(line, line.column, len(line.text), "hsv expects exactly three parameters")
	}
	var params [3]HSVParam
	for i, w := range words[1:] {
		param, ok := parseHSVParam(w.text)
		if !ok {
			return nil, p.errorAt(line, line.column+w.offset, len(w.text), "invalid hsv parameter %q", w.text)
		}
		params[i] = param
	}
	return &SetHSV{Node: Node{Position: p.position(line)}, H: params[0], S: params[1], V: params[2]}, nil
}

// parseHSVParam recognizes _, +name, -name, +12, -12, name and 12
func parseHSVParam(text string) (HSVParam, bool) {
	if text == "_" {
		return IgnoreParam(), true
	}
	if text[0] == '+' || text[0] == '-' {
		sign := 1.0
		if text[0] == '-' {
			sign = -1
		}
		rest := text[1:]
		if IsIdentifier(rest) {
			return OffsetRef(strings.ToLower(rest), sign), true
		}
		if v, ok := parseNumberLiteral(rest); ok {
			return OffsetLiteral(sign * v), true
		}
		return HSVParam{}, false
	}
	if IsIdentifier(text) {
		return AbsoluteRef(strings.ToLower(text)), true
	}
	if v, ok := parseNumberLiteral(text); ok {
		return AbsoluteLiteral(v), true
	}
	return HSVParam{}, false
}

func parseLoopSignal(p *Parser, line sourceLine, words []word, head string) (Instruction, error) {
	if len(words) != 1 {
		return nil, p.errorAt(line, line.column+words[1].offset, len(words[1].text), "%s takes no arguments", head)
	}
	if p.loops == 0 {
		return nil, p.errorAt(line, line.column, len(words[0].text), "%s outside of repeat", head)
	}
	node := Node{Position: p.position(line)}
	if head == "break" {
		return &Break{Node: node}, nil
	}
	return &Continue{Node: node}, nil
}
