// Package vm implements the stack-based interpreter described in §4.3 of
// the spec: three stacks (operand, environment, call), an instruction
// pointer of (chunk, index), and a flat fetch-execute loop that runs until
// Halt or the first ExecutionError. The loop never recurses — guest
// recursion depth is bounded only by available heap, never by the Go call
// stack (§5).
package vm

import (
	"fmt"
	"io"

	"rinha/ast"
	"rinha/bytecode"
	"rinha/rerr"
	"rinha/value"
)

// VM owns the three stacks and the instruction pointer. Out is where Write
// sends its output; tests typically point it at a bytes.Buffer.
type VM struct {
	chunks []*bytecode.Chunk
	out    io.Writer

	operand  []value.Value
	envs     []*value.Env
	calls    []ip
	chunkIdx int
	index    int

	// pendingArgCount is set by OpInvoke to the number of arguments the
	// call site supplied, and consumed by the very next instruction
	// executed — always the callee chunk's leading OpAllocate, per the
	// compiler's invariant that every function chunk starts with one.
	// This is safe under strictly sequential execution: nothing else can
	// run between the two.
	pendingArgCount int
}

// ip is an instruction pointer: a chunk index plus an offset within it.
type ip struct {
	chunk int
	index int
}

// New constructs a VM that will write Print output to out.
func New(chunks []*bytecode.Chunk, out io.Writer) *VM {
	return &VM{chunks: chunks, out: out}
}

// Run executes starting at chunk 0, instruction 0, until Halt or an error.
// It returns the final top-of-stack value, which is defined only when the
// program completed normally and pushed at least one value (true for any
// program compiled from a single top-level expression, per the spec's
// operand-stack invariant).
func (m *VM) Run() (value.Value, error) {
	m.operand = m.operand[:0]
	m.envs = []*value.Env{value.Empty()}
	m.calls = m.calls[:0]
	m.chunkIdx = 0
	m.index = 0
	m.pendingArgCount = -1

	for {
		chunk := m.chunks[m.chunkIdx]
		if m.index >= len(chunk.Instructions) {
			return nil, rerr.New(rerr.InternalError, rerr.Location{}, "instruction pointer ran off the end of chunk #%d", m.chunkIdx)
		}
		instr := chunk.Instructions[m.index]

		halted, err := m.step(instr)
		if err != nil {
			return nil, err
		}
		if halted {
			break
		}
	}

	if len(m.operand) == 0 {
		return nil, nil
	}
	return m.operand[len(m.operand)-1], nil
}

// step executes one instruction. It reports halted=true when the program
// should stop (Halt was reached); it advances m.index itself, either to
// the next instruction or to an explicit jump/call/return target, per the
// semantics table in §4.2/§4.3.
func (m *VM) step(instr bytecode.Instruction) (halted bool, err error) {
	loc := toRerrLoc(instr.Location)

	switch instr.Op {
	case bytecode.OpPut:
		m.push(instr.Literal)
		m.index++

	case bytecode.OpGet:
		v, ok := m.env().Get(instr.Name)
		if !ok {
			return false, rerr.New(rerr.UnknownVariable, loc, "unbound variable '%s'", instr.Name)
		}
		m.push(v)
		m.index++

	case bytecode.OpWrite:
		if len(m.operand) == 0 {
			return false, rerr.New(rerr.InternalError, loc, "write on empty operand stack")
		}
		fmt.Fprintln(m.out, m.operand[len(m.operand)-1])
		m.index++

	case bytecode.OpOperation:
		rhs := m.pop()
		lhs := m.pop()
		result, opErr := bytecode.ApplyOp(lhs, rhs, instr.BinOp, instr.Location)
		if opErr != nil {
			return false, opErr
		}
		m.push(result)
		m.index++

	case bytecode.OpMakePair:
		second := m.pop()
		first := m.pop()
		m.push(value.Pair(first, second))
		m.index++

	case bytecode.OpFirst:
		v := m.pop()
		lit, ok := v.(value.Literal)
		if !ok || lit.Kind != value.KindPair {
			return false, rerr.New(rerr.TypeError, loc, "argument to 'first' is not a tuple")
		}
		m.push(lit.Pair[0])
		m.index++

	case bytecode.OpSecond:
		v := m.pop()
		lit, ok := v.(value.Literal)
		if !ok || lit.Kind != value.KindPair {
			return false, rerr.New(rerr.TypeError, loc, "argument to 'second' is not a tuple")
		}
		m.push(lit.Pair[1])
		m.index++

	case bytecode.OpJumpIfFalse:
		v := m.pop()
		lit, ok := v.(value.Literal)
		if !ok || lit.Kind != value.KindBool {
			return false, rerr.New(rerr.TypeError, loc, "'if' condition is not a bool")
		}
		if !lit.Bool {
			m.index = instr.Target
		} else {
			m.index++
		}

	case bytecode.OpJump:
		m.index = instr.Target

	case bytecode.OpAllocate:
		n := len(instr.Names)
		if m.pendingArgCount != n {
			return false, rerr.New(rerr.ArityError, loc, "function expects %d argument(s), called with %d", n, m.pendingArgCount)
		}
		m.pendingArgCount = -1
		if n > len(m.operand) {
			return false, rerr.New(rerr.InternalError, loc, "operand stack underflow allocating %d argument(s)", n)
		}
		args := m.operand[len(m.operand)-n:]
		m.operand = m.operand[:len(m.operand)-n]
		extra := make(map[string]value.Value, n)
		for i, name := range instr.Names {
			extra[name] = args[i]
		}
		m.envs = append(m.envs, m.env().WithValues(extra))
		m.index++

	case bytecode.OpLetAllocate:
		v := m.pop()
		frame := m.env().WithValues(map[string]value.Value{instr.Name: v})
		// Only a closure built by the CloseOver right before this
		// instruction (the Let's value is a function literal) is patched;
		// a closure returned by a call keeps its own captured environment.
		fresh := m.index > 0 && m.chunks[m.chunkIdx].Instructions[m.index-1].Op == bytecode.OpCloseOver
		if closure, ok := v.(*value.Closure); ok && fresh {
			closure.Patch(frame)
		}
		m.envs = append(m.envs, frame)
		m.index++

	case bytecode.OpDeallocate:
		if len(m.envs) <= 1 {
			return false, rerr.New(rerr.InternalError, loc, "deallocate with no frame to pop")
		}
		m.envs = m.envs[:len(m.envs)-1]
		m.index++

	case bytecode.OpCloseOver:
		m.push(&value.Closure{Chunk: instr.Chunk, Env: m.env()})
		m.index++

	case bytecode.OpInvoke:
		if len(m.operand) == 0 {
			return false, rerr.New(rerr.InternalError, loc, "invoke on empty operand stack")
		}
		callee := m.pop()
		closure, ok := callee.(*value.Closure)
		if !ok {
			return false, rerr.New(rerr.TypeError, loc, "callee is not callable: %s", callee)
		}
		chunkIdx, ok := closure.Chunk.(int)
		if !ok {
			return false, rerr.New(rerr.InternalError, loc, "closure does not reference a chunk")
		}
		m.calls = append(m.calls, ip{chunk: m.chunkIdx, index: m.index + 1})
		m.envs = append(m.envs, closure.Env)
		m.pendingArgCount = instr.Count
		m.chunkIdx = chunkIdx
		m.index = 0

	case bytecode.OpProceed:
		if len(m.envs) <= 1 {
			return false, rerr.New(rerr.InternalError, loc, "proceed with no frame to pop")
		}
		m.envs = m.envs[:len(m.envs)-1]
		if len(m.calls) == 0 {
			return false, rerr.New(rerr.InternalError, loc, "proceed with empty call stack")
		}
		ret := m.calls[len(m.calls)-1]
		m.calls = m.calls[:len(m.calls)-1]
		m.chunkIdx = ret.chunk
		m.index = ret.index

	case bytecode.OpHalt:
		return true, nil

	default:
		return false, rerr.New(rerr.InternalError, loc, "unhandled opcode %v", instr.Op)
	}

	return false, nil
}

func (m *VM) push(v value.Value) { m.operand = append(m.operand, v) }

func (m *VM) pop() value.Value {
	v := m.operand[len(m.operand)-1]
	m.operand = m.operand[:len(m.operand)-1]
	return v
}

func (m *VM) env() *value.Env { return m.envs[len(m.envs)-1] }

func toRerrLoc(loc ast.Location) rerr.Location {
	return rerr.Location{Filename: loc.Filename, Start: loc.Start, End: loc.End}
}
