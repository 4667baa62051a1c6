// Package bytecode defines the compiled instruction set: chunks of
// instructions linked by index, the opcodes from §4.2 of the spec, and the
// pure binary-operator semantics of §4.1.
package bytecode

import (
	"fmt"

	"rinha/ast"
	"rinha/value"
)

// Op names one of the instructions the VM understands.
type Op int

const (
	OpPut Op = iota
	OpGet
	OpWrite
	OpOperation
	OpJumpIfFalse
	OpJump
	OpAllocate
	OpLetAllocate
	OpDeallocate
	OpCloseOver
	OpInvoke
	OpProceed
	OpHalt
	OpFirst
	OpSecond
	OpMakePair
)

var opNames = map[Op]string{
	OpPut:         "put",
	OpGet:         "get",
	OpWrite:       "write",
	OpOperation:   "operation",
	OpJumpIfFalse: "jump_if_false",
	OpJump:        "jump",
	OpAllocate:    "allocate",
	OpLetAllocate: "let_allocate",
	OpDeallocate:  "deallocate",
	OpCloseOver:   "close_over",
	OpInvoke:      "invoke",
	OpProceed:     "proceed",
	OpHalt:        "halt",
	OpFirst:       "first",
	OpSecond:      "second",
	OpMakePair:    "make_pair",
}

func (op Op) String() string {
	if n, ok := opNames[op]; ok {
		return n
	}
	return "unknown"
}

// Instruction is one bytecode step. Every instruction carries the source
// Location of the term it was compiled from, for error reporting. Only the
// fields relevant to Op are meaningful; this mirrors the spec's table in
// §4.2 rather than packing operands into bytes, since operands here are
// variable-width (names, name lists, chunk/jump indices) and instructions
// are never serialized off-process.
type Instruction struct {
	Op       Op
	Location ast.Location

	Literal value.Literal // OpPut
	Name    string        // OpGet, OpLetAllocate
	Names   []string      // OpAllocate
	BinOp   ast.BinaryOp  // OpOperation
	Target  int           // OpJumpIfFalse, OpJump: index within the same chunk
	Chunk   int           // OpCloseOver: index into the compiler's chunk list
	Count   int           // OpInvoke: number of arguments supplied at this call site
}

func (in Instruction) String() string {
	switch in.Op {
	case OpPut:
		return fmt.Sprintf("put %s", in.Literal)
	case OpGet:
		return fmt.Sprintf("get %s", in.Name)
	case OpOperation:
		return fmt.Sprintf("operation %s", in.BinOp.Token())
	case OpJumpIfFalse:
		return fmt.Sprintf("jump_if_false %d", in.Target)
	case OpJump:
		return fmt.Sprintf("jump %d", in.Target)
	case OpAllocate:
		return fmt.Sprintf("allocate %v", in.Names)
	case OpLetAllocate:
		return fmt.Sprintf("let_allocate %s", in.Name)
	case OpCloseOver:
		return fmt.Sprintf("close_over chunk#%d", in.Chunk)
	default:
		return in.Op.String()
	}
}

// Chunk is an ordered, append-only list of instructions. Index identifies
// it within the compiler's chunk list; CloseOver and function calls
// reference other chunks by that index.
type Chunk struct {
	Index        int
	Instructions []Instruction
}

// Emit appends instr and returns its index within the chunk, used by the
// compiler to later patch jump targets.
func (c *Chunk) Emit(instr Instruction) int {
	c.Instructions = append(c.Instructions, instr)
	return len(c.Instructions) - 1
}

// PatchTarget rewrites the Target of a previously emitted Jump or
// JumpIfFalse instruction, once the compiler knows where the branch lands.
func (c *Chunk) PatchTarget(index, target int) {
	c.Instructions[index].Target = target
}

// Len returns the number of instructions currently in the chunk.
func (c *Chunk) Len() int { return len(c.Instructions) }
