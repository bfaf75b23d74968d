package turtlescript

// Instruction is a node of the program tree. Trees are built once by the
// parser and never mutated by the engines.
type Instruction interface {
	instruction()
	Pos() SourcePosition
}

// Direction names a movement or turn command
type Direction string

const (
	DirForward Direction = "forward"
	DirBack    Direction = "back"
	DirLeft    Direction = "left"
	DirRight   Direction = "right"
)

// RepeatMode selects between count loops and condition loops
type RepeatMode int

const (
	RepeatCount RepeatMode = iota
	RepeatUntil
)

// Node carries the source position shared by every instruction
type Node struct {
	Position SourcePosition
}

// Pos returns where the instruction starts
func (n Node) Pos() SourcePosition { return n.Position }

// Move is forward/back
type Move struct {
	Node
	Direction Direction
	Value     Expr
}

// Turn is left/right
type Turn struct {
	Node
	Direction Direction
	Value     Expr
}

// Pen is pen up/down
type Pen struct {
	Node
	Down bool
}

// SetHSV is an hsv statement
type SetHSV struct {
	Node
	H, S, V HSVParam
}

// Var declares (Reassign false) or reassigns a variable
type Var struct {
	Node
	Name     string
	Value    Expr
	Reassign bool
}

// Repeat is a count loop or a repeat-until loop
type Repeat struct {
	Node
	Mode  RepeatMode
	Count Expr
	Until Expr
	Body  []Instruction
}

// If runs its body once when Test is non-zero
type If struct {
	Node
	Test Expr
	Body []Instruction
}

// Break leaves the nearest enclosing repeat
type Break struct {
	Node
}

// Continue ends the current iteration of the nearest enclosing repeat
type Continue struct {
	Node
}

func (*Move) instruction()     {}
func (*Turn) instruction()     {}
func (*Pen) instruction()      {}
func (*SetHSV) instruction()   {}
func (*Var) instruction()      {}
func (*Repeat) instruction()   {}
func (*If) instruction()       {}
func (*Break) instruction()    {}
func (*Continue) instruction() {}
