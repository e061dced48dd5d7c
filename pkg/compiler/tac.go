package compiler

import (
	"fmt"
	"io"
	"strings"
)

// Opcode identifies the shape of a three-address instruction.
type Opcode int

const (
	OpCopy   Opcode = iota // Result = Arg1
	OpBinary               // Result = Arg1 Operator Arg2
	OpIfGoto               // if Arg1 goto Result
	OpGoto                 // goto Result
	OpLabel                // Result:
	OpReturn               // return Arg1
	OpPrint                // print Arg1
)

var opcodeNames = [...]string{
	OpCopy:   "=",
	OpBinary: "binary",
	OpIfGoto: "if",
	OpGoto:   "goto",
	OpLabel:  "label",
	OpReturn: "return",
	OpPrint:  "print",
}

func (op Opcode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// Instruction is a single three-address code line. Jump targets and label
// names are carried in Result.
type Instruction struct {
	Op       Opcode
	Operator string // for OpBinary: + - * / > < >= <= == != && ||
	Arg1     string
	Arg2     string
	Result   string
}

func (in Instruction) String() string {
	switch in.Op {
	case OpCopy:
		return in.Result + " = " + in.Arg1
	case OpBinary:
		return in.Result + " = " + in.Arg1 + " " + in.Operator + " " + in.Arg2
	case OpIfGoto:
		return "if " + in.Arg1 + " goto " + in.Result
	case OpGoto:
		return "goto " + in.Result
	case OpLabel:
		return in.Result + ":"
	case OpReturn:
		return "return " + in.Arg1
	case OpPrint:
		return "print " + in.Arg1
	}
	return fmt.Sprintf("<%s %s %s %s %s>", in.Op, in.Operator, in.Arg1, in.Arg2, in.Result)
}

// Generator hands out fresh temporaries and labels and records emitted
// instructions in order. A Generator serves exactly one compilation; its
// counters start at zero.
type Generator struct {
	code      []Instruction
	nextTemp  int
	nextLabel int

	// non-nil while Capture is running
	capture *[]Instruction
}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) NewTemp() string {
	t := fmt.Sprintf("T%d", g.nextTemp)
	g.nextTemp++
	return t
}

func (g *Generator) NewLabel() string {
	l := fmt.Sprintf("L%d", g.nextLabel)
	g.nextLabel++
	return l
}

func (g *Generator) Emit(in Instruction) {
	if g.capture != nil {
		*g.capture = append(*g.capture, in)
		return
	}
	g.code = append(g.code, in)
}

// Append emits each of ins in order.
func (g *Generator) Append(ins ...Instruction) {
	for _, in := range ins {
		g.Emit(in)
	}
}

// Capture runs fn with emission diverted to a side buffer and returns what
// fn emitted. Temporaries and labels allocated inside fn still come from the
// shared counters. Captures nest.
func (g *Generator) Capture(fn func() error) ([]Instruction, error) {
	saved := g.capture
	var buf []Instruction
	g.capture = &buf
	err := fn()
	g.capture = saved
	return buf, err
}

func (g *Generator) EmitCopy(result, arg string) {
	g.Emit(Instruction{Op: OpCopy, Arg1: arg, Result: result})
}

func (g *Generator) EmitBinary(result, left, operator, right string) {
	g.Emit(Instruction{Op: OpBinary, Operator: operator, Arg1: left, Arg2: right, Result: result})
}

func (g *Generator) EmitIfGoto(cond, label string) {
	g.Emit(Instruction{Op: OpIfGoto, Arg1: cond, Result: label})
}

func (g *Generator) EmitGoto(label string) {
	g.Emit(Instruction{Op: OpGoto, Result: label})
}

func (g *Generator) EmitLabel(label string) {
	g.Emit(Instruction{Op: OpLabel, Result: label})
}

func (g *Generator) EmitReturn(value string) {
	g.Emit(Instruction{Op: OpReturn, Arg1: value})
}

func (g *Generator) EmitPrint(value string) {
	g.Emit(Instruction{Op: OpPrint, Arg1: value})
}

// Len returns the number of instructions in the main log.
func (g *Generator) Len() int {
	return len(g.code)
}

// Instructions returns a copy of the log in emission order.
func (g *Generator) Instructions() []Instruction {
	out := make([]Instruction, len(g.code))
	copy(out, g.code)
	return out
}

// Dump renders the log, one instruction per line.
func (g *Generator) Dump() string {
	return Listing(g.code)
}

// WriteTo writes the listing to w.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, g.Dump())
	return int64(n), err
}

// Listing renders code one instruction per line, each line terminated by a
// newline.
func Listing(code []Instruction) string {
	var sb strings.Builder
	for _, in := range code {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
