package turtlescript

import (
	"fmt"
	"strings"
)

// sourceLine is one preprocessed physical line
type sourceLine struct {
	number int    // 1-based
	indent int    // space = 1, tab = 4
	text   string // comment stripped and trimmed
	column int    // 1-based column where text starts
	raw    string
}

// Program is a parsed script, ready to run any number of times
type Program struct {
	Filename     string
	Instructions []Instruction
	lines        []string
}

// Lines returns the original source lines, for error context
func (p *Program) Lines() []string {
	return p.lines
}

// Parser turns Turtle Script source into an instruction tree
type Parser struct {
	filename string
	lines    []sourceLine
	raw      []string
	pos      int
	loops    int
}

// NewParser creates a new parser
func NewParser(source, filename string) *Parser {
	raw := splitLines(source)
	p := &Parser{
		filename: filename,
		raw:      raw,
		lines:    make([]sourceLine, 0, len(raw)),
	}
	for i, line := range raw {
		p.lines = append(p.lines, preprocessLine(i+1, line))
	}
	return p
}

// Parse parses a whole program
func Parse(source string) ([]Instruction, error) {
	prog, err := NewParser(source, "").ParseProgram()
	if err != nil {
		return nil, err
	}
	return prog.Instructions, nil
}

// ParseProgram parses the source given to NewParser
func (p *Parser) ParseProgram() (*Program, error) {
	body, err := p.parseBlock(-1)
	if err != nil {
		return nil, err
	}
	return &Program{Filename: p.filename, Instructions: body, lines: p.raw}, nil
}

func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	return strings.Split(source, "\n")
}

// RemoveComment strips a trailing comment introduced by # or //, whichever comes first
func RemoveComment(line string) string {
	cut := strings.Index(line, "#")
	if slash := strings.Index(line, "//"); slash >= 0 && (cut < 0 || slash < cut) {
		cut = slash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

func preprocessLine(number int, raw string) sourceLine {
	code := RemoveComment(raw)
	indent := 0
	i := 0
	for i < len(code) {
		if code[i] == ' ' {
			indent++
		} else if code[i] == '\t' {
			indent += 4
		} else {
			break
		}
		i++
	}
	rest := code[i:]
	text := strings.TrimSpace(rest)
	return sourceLine{
		number: number,
		indent: indent,
		text:   text,
		column: i + 1,
		raw:    raw,
	}
}

func (p *Parser) errorAt(line sourceLine, column, length int, format string, args ...interface{}) *SyntaxError {
	if length < 1 {
		length = 1
	}
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Position: SourcePosition{
			Line:         line.number,
			Column:       column,
			Length:       length,
			OriginalText: line.raw,
			Filename:     p.filename,
		},
		Context: p.raw,
	}
}

func (p *Parser) position(line sourceLine) SourcePosition {
	return SourcePosition{
		Line:         line.number,
		Column:       line.column,
		Length:       len(line.text),
		OriginalText: line.text,
		Filename:     p.filename,
	}
}

// parseBlock consumes lines indented deeper than parentIndent.
// Blank lines never end a block.
func (p *Parser) parseBlock(parentIndent int) ([]Instruction, error) {
	var body []Instruction
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if line.text == "" {
			p.pos++
			continue
		}
		if line.indent <= parentIndent {
			break
		}
		p.pos++
		ins, err := p.parseStatement(line)
		if err != nil {
			return nil, err
		}
		body = append(body, ins)
	}
	return body, nil
}

// word is a whitespace-delimited token with its byte offset in the line text
type word struct {
	text   string
	offset int
}

func splitWords(text string) []word {
	var words []word
	start := -1
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' || text[i] == '\t' {
			if start >= 0 {
				words = append(words, word{text: text[start:i], offset: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	return words
}

// resolveHead expands an unambiguous prefix of a movement command
func resolveHead(head string) (string, error) {
	var matches []string
	for _, cmd := range movementCommands {
		if strings.HasPrefix(cmd, head) {
			matches = append(matches, cmd)
		}
	}
	switch len(matches) {
	case 0:
		return head, nil
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("ambiguous command %q (could be %s)", head, strings.Join(matches, ", "))
}

func (p *Parser) parseStatement(line sourceLine) (Instruction, error) {
	words := splitWords(line.text)
	first := words[0]

	head, err := resolveHead(strings.ToLower(first.text))
	if err != nil {
		return nil, p.errorAt(line, line.column, len(first.text), "%s", err.Error())
	}
	if parse, ok := statementParsers[head]; ok {
		return parse(p, line, words, head)
	}

	// Assignment only applies to heads that are neither commands nor abbreviations
	if len(words) >= 2 && words[1].text == "=" {
		return p.parseAssignment(line, words)
	}
	return nil, p.errorAt(line, line.column, len(first.text), "unknown command %q", first.text)
}

// parseExprAt parses text that starts at byte offset within the line text
func (p *Parser) parseExprAt(line sourceLine, text string, offset int) (Expr, error) {
	node, err := ParseExpr(text)
	if err != nil {
		column := line.column + offset
		if exprErr, ok := err.(*ExprError); ok {
			column += exprErr.Offset
		}
		return nil, p.errorAt(line, column, 1, "%s", err.Error())
	}
	return node, nil
}

// restAfter returns the trimmed line text after word w and its offset
func restAfter(line sourceLine, w word) (string, int) {
	start := w.offset + len(w.text)
	rest := line.text[start:]
	trimmed := strings.TrimLeft(rest, " \t")
	return strings.TrimSpace(trimmed), start + len(rest) - len(trimmed)
}

// parseHeader parses "keyword EXPR:" and the indented body that follows it
func (p *Parser) parseHeader(line sourceLine, keyword string, exprText string, exprOffset int) (Expr, []Instruction, error) {
	if !strings.HasSuffix(exprText, ":") {
		return nil, nil, p.errorAt(line, line.column+len(line.text), 1, "%s header must end with ':'", keyword)
	}
	exprText = strings.TrimSpace(strings.TrimSuffix(exprText, ":"))
	if exprText == "" {
		return nil, nil, p.errorAt(line, line.column, len(keyword), "%s requires an expression", keyword)
	}
	cond, err := p.parseExprAt(line, exprText, exprOffset)
	if err != nil {
		return nil, nil, err
	}
	body, err := p.parseBlock(line.indent)
	if err != nil {
		return nil, nil, err
	}
	return cond, body, nil
}
