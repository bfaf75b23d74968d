package turtlescript

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expr is a node of the expression AST
type Expr interface {
	exprNode()
	String() string
}

// NumberExpr is a literal
type NumberExpr struct {
	Value float64
}

// VarExpr references a variable by lowercase name
type VarExpr struct {
	Name string
}

// UnaryExpr applies + or - to its operand
type UnaryExpr struct {
	Op      string
	Operand Expr
}

// BinaryExpr is an arithmetic or comparison operation
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (NumberExpr) exprNode() {}
func (VarExpr) exprNode()    {}
func (UnaryExpr) exprNode()  {}
func (BinaryExpr) exprNode() {}

func (n NumberExpr) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n VarExpr) String() string    { return n.Name }
func (n UnaryExpr) String() string  { return "(" + n.Op + n.Operand.String() + ")" }
func (n BinaryExpr) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

// ExprError reports a tokenizer or parser failure at a byte offset in the expression text
type ExprError struct {
	Message string
	Offset  int
}

func (e *ExprError) Error() string {
	return e.Message
}

type exprTokenKind int

const (
	tokNumber exprTokenKind = iota
	tokIdent
	tokOp
)

type exprToken struct {
	kind   exprTokenKind
	text   string
	value  float64
	offset int
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// scanNumber reads a number literal starting at i. Underscores are digit
// separators and at most one decimal point is consumed.
func scanNumber(s string, i int) (float64, int, bool) {
	start := i
	var digits strings.Builder
	seenDot := false
	seenDigit := false
scan:
	for i < len(s) {
		c := s[i]
		switch {
		case isDigit(c):
			digits.WriteByte(c)
			seenDigit = true
		case c == '_' && seenDigit:
		case c == '.' && !seenDot:
			seenDot = true
			digits.WriteByte(c)
		default:
			break scan
		}
		i++
	}
	if !seenDigit {
		return 0, start, false
	}
	v, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, start, false
	}
	return v, i, true
}

// parseNumberLiteral reports whether the whole of s is one number literal
func parseNumberLiteral(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, end, ok := scanNumber(s, 0)
	if !ok || end != len(s) {
		return 0, false
	}
	return v, true
}

func tokenizeExpr(text string) ([]exprToken, error) {
	var tokens []exprToken
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(text) && isDigit(text[i+1])):
			v, end, ok := scanNumber(text, i)
			if !ok {
				return nil, &ExprError{Message: fmt.Sprintf("malformed number at %q", text[i:]), Offset: i}
			}
			tokens = append(tokens, exprToken{kind: tokNumber, text: text[i:end], value: v, offset: i})
			i = end
		case isIdentStart(c):
			start := i
			for i < len(text) && isIdentChar(text[i]) {
				i++
			}
			tokens = append(tokens, exprToken{kind: tokIdent, text: strings.ToLower(text[start:i]), offset: start})
		case c == '=' || c == '!' || c == '<' || c == '>':
			if i+1 < len(text) && text[i+1] == '=' {
				tokens = append(tokens, exprToken{kind: tokOp, text: text[i : i+2], offset: i})
				i += 2
				continue
			}
			if c == '<' || c == '>' {
				tokens = append(tokens, exprToken{kind: tokOp, text: string(c), offset: i})
				i++
				continue
			}
			return nil, &ExprError{Message: fmt.Sprintf("unexpected character %q", string(c)), Offset: i}
		case strings.IndexByte("()+-*/%", c) >= 0:
			tokens = append(tokens, exprToken{kind: tokOp, text: string(c), offset: i})
			i++
		default:
			return nil, &ExprError{Message: fmt.Sprintf("unexpected character %q", string(c)), Offset: i}
		}
	}
	return tokens, nil
}

type exprParser struct {
	tokens []exprToken
	pos    int
	length int
}

func (p *exprParser) peekOp(ops ...string) (string, bool) {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if p.tokens[p.pos].text == op {
			return op, true
		}
	}
	return "", false
}

func (p *exprParser) offset() int {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].offset
	}
	return p.length
}

func (p *exprParser) comparison() (Expr, error) {
	left, err := p.addSub()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("==", "!=", "<", "<=", ">", ">=")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.addSub()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *exprParser) addSub() (Expr, error) {
	left, err := p.mulDiv()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("+", "-")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.mulDiv()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *exprParser) mulDiv() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *exprParser) unary() (Expr, error) {
	if op, ok := p.peekOp("+", "-"); ok {
		p.pos++
		operand, err := p.primary()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.primary()
}

func (p *exprParser) primary() (Expr, error) {
	if p.pos >= len(p.tokens) {
		return nil, &ExprError{Message: "unexpected end of expression", Offset: p.length}
	}
	tok := p.tokens[p.pos]
	switch tok.kind {
	case tokNumber:
		p.pos++
		return NumberExpr{Value: tok.value}, nil
	case tokIdent:
		p.pos++
		return VarExpr{Name: tok.text}, nil
	}
	if tok.text == "(" {
		p.pos++
		inner, err := p.comparison()
		if err != nil {
			return nil, err
		}
		if _, ok := p.peekOp(")"); !ok {
			return nil, &ExprError{Message: "expected ')'", Offset: p.offset()}
		}
		p.pos++
		return inner, nil
	}
	return nil, &ExprError{Message: fmt.Sprintf("unexpected %q", tok.text), Offset: tok.offset}
}

// ParseExpr parses an arithmetic/comparison expression
func ParseExpr(text string) (Expr, error) {
	trimmed := strings.TrimSpace(text)
	lead := strings.Index(text, trimmed)
	if trimmed == "" {
		return nil, &ExprError{Message: "empty expression", Offset: 0}
	}

	// bare identifier and bare number skip the tokenizer
	if IsIdentifier(trimmed) {
		return VarExpr{Name: strings.ToLower(trimmed)}, nil
	}
	if v, ok := parseNumberLiteral(trimmed); ok {
		return NumberExpr{Value: v}, nil
	}

	tokens, err := tokenizeExpr(trimmed)
	if err != nil {
		err.(*ExprError).Offset += lead
		return nil, err
	}
	p := &exprParser{tokens: tokens, length: len(trimmed)}
	node, err := p.comparison()
	if err != nil {
		err.(*ExprError).Offset += lead
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, &ExprError{
			Message: fmt.Sprintf("unexpected extra tokens starting at %q", p.tokens[p.pos].text),
			Offset:  p.tokens[p.pos].offset + lead,
		}
	}
	return node, nil
}

// Eval evaluates node against env. A missing variable evaluates to NaN.
func Eval(node Expr, env *Environment) float64 {
	v, _ := evaluate(node, env)
	return v
}

// evaluate returns the value and the first undefined variable encountered, if any
func evaluate(node Expr, env *Environment) (float64, string) {
	switch n := node.(type) {
	case NumberExpr:
		return n.Value, ""
	case VarExpr:
		if v, ok := env.Get(n.Name); ok {
			return v, ""
		}
		return math.NaN(), n.Name
	case UnaryExpr:
		v, missing := evaluate(n.Operand, env)
		if n.Op == "-" {
			return -v, missing
		}
		return v, missing
	case BinaryExpr:
		l, missing := evaluate(n.Left, env)
		r, missingRight := evaluate(n.Right, env)
		if missing == "" {
			missing = missingRight
		}
		return binaryOp(n.Op, l, r), missing
	}
	return math.NaN(), ""
}

func binaryOp(op string, l, r float64) float64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		// math.Mod keeps the dividend's sign and returns NaN for a zero divisor
		return math.Mod(l, r)
	case "==":
		return boolNum(l == r)
	case "!=":
		return boolNum(l != r)
	case "<":
		return boolNum(l < r)
	case "<=":
		return boolNum(l <= r)
	case ">":
		return boolNum(l > r)
	case ">=":
		return boolNum(l >= r)
	}
	return math.NaN()
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// EvalChecked evaluates node and fails if it references an undefined variable.
// The value itself may still be non-finite (for example after division by zero).
func EvalChecked(node Expr, env *Environment) (float64, error) {
	v, missing := evaluate(node, env)
	if missing != "" {
		return v, fmt.Errorf("undefined variable %q", missing)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
