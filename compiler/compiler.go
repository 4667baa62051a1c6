// Package compiler lowers an ast.File into a linked list of bytecode.Chunk
// values: chunk 0 is the program's entry point, and one further chunk is
// allocated per function literal. Compilation is iterative — see the
// Compiler.work stack below — so that neither AST depth nor function
// nesting depth grows the host call stack (§5, §9 of the spec).
package compiler

import (
	"rinha/ast"
	"rinha/bytecode"
	"rinha/rerr"
	"rinha/value"
)

// Compiler holds the chunk list under construction and an explicit work
// stack of pending compilation steps. Each step is a small continuation —
// "compile this term into this chunk", or "now that the child is compiled,
// patch this jump" — pushed in reverse of the order it must run, and popped
// by Compile's flat loop. No step ever calls another step directly; it only
// ever pushes more steps, so Compiler.Compile's own call depth never grows.
type Compiler struct {
	chunks []*bytecode.Chunk
	work   []func() error
}

func New() *Compiler {
	return &Compiler{}
}

// CompileFile compiles a whole program, returning the chunk list with the
// entry chunk at index 0.
func (c *Compiler) CompileFile(file *ast.File) ([]*bytecode.Chunk, error) {
	c.chunks = nil
	c.work = nil

	entry := c.newChunk()
	c.push(func() error {
		entry.Emit(bytecode.Instruction{Op: bytecode.OpHalt, Location: file.Location})
		return nil
	})
	c.push(func() error { return c.compileStep(entry, file.Expression) })

	for len(c.work) > 0 {
		step := c.work[len(c.work)-1]
		c.work = c.work[:len(c.work)-1]
		if err := step(); err != nil {
			return nil, err
		}
	}
	return c.chunks, nil
}

func (c *Compiler) newChunk() *bytecode.Chunk {
	chunk := &bytecode.Chunk{Index: len(c.chunks)}
	c.chunks = append(c.chunks, chunk)
	return chunk
}

func (c *Compiler) push(step func() error) {
	c.work = append(c.work, step)
}

// compileStep emits the instructions for one term's own operator/opcode,
// pushing further steps for its children instead of recursing into them
// directly. It runs in O(1) stack depth regardless of where term sits in
// the tree.
func (c *Compiler) compileStep(chunk *bytecode.Chunk, term ast.Term) error {
	loc := term.Loc()

	switch t := term.(type) {
	case *ast.Int:
		chunk.Emit(bytecode.Instruction{Op: bytecode.OpPut, Location: loc, Literal: value.Int(t.Value)})
		return nil

	case *ast.Str:
		chunk.Emit(bytecode.Instruction{Op: bytecode.OpPut, Location: loc, Literal: value.Str(t.Value)})
		return nil

	case *ast.Bool:
		chunk.Emit(bytecode.Instruction{Op: bytecode.OpPut, Location: loc, Literal: value.Bool(t.Value)})
		return nil

	case *ast.Var:
		chunk.Emit(bytecode.Instruction{Op: bytecode.OpGet, Location: loc, Name: t.Text})
		return nil

	case *ast.Print:
		c.push(func() error {
			chunk.Emit(bytecode.Instruction{Op: bytecode.OpWrite, Location: loc})
			return nil
		})
		c.push(func() error { return c.compileStep(chunk, t.Value) })
		return nil

	case *ast.First:
		c.push(func() error {
			chunk.Emit(bytecode.Instruction{Op: bytecode.OpFirst, Location: loc})
			return nil
		})
		c.push(func() error { return c.compileStep(chunk, t.Value) })
		return nil

	case *ast.Second:
		c.push(func() error {
			chunk.Emit(bytecode.Instruction{Op: bytecode.OpSecond, Location: loc})
			return nil
		})
		c.push(func() error { return c.compileStep(chunk, t.Value) })
		return nil

	case *ast.Tuple:
		c.push(func() error {
			chunk.Emit(bytecode.Instruction{Op: bytecode.OpMakePair, Location: loc})
			return nil
		})
		c.push(func() error { return c.compileStep(chunk, t.Second) })
		c.push(func() error { return c.compileStep(chunk, t.First) })
		return nil

	case *ast.Binary:
		c.push(func() error {
			chunk.Emit(bytecode.Instruction{Op: bytecode.OpOperation, Location: loc, BinOp: t.Op})
			return nil
		})
		c.push(func() error { return c.compileStep(chunk, t.Rhs) })
		c.push(func() error { return c.compileStep(chunk, t.Lhs) })
		return nil

	case *ast.If:
		return c.compileIf(chunk, t)

	case *ast.Let:
		c.push(func() error {
			chunk.Emit(bytecode.Instruction{Op: bytecode.OpDeallocate, Location: loc})
			return nil
		})
		c.push(func() error { return c.compileStep(chunk, t.Next) })
		c.push(func() error {
			chunk.Emit(bytecode.Instruction{Op: bytecode.OpLetAllocate, Location: loc, Name: t.Name.Text})
			return nil
		})
		c.push(func() error { return c.compileStep(chunk, t.Value) })
		return nil

	case *ast.Function:
		return c.compileFunction(chunk, t)

	case *ast.Call:
		argCount := len(t.Arguments)
		c.push(func() error {
			chunk.Emit(bytecode.Instruction{Op: bytecode.OpInvoke, Location: loc, Count: argCount})
			return nil
		})
		c.push(func() error { return c.compileStep(chunk, t.Callee) })
		for i := len(t.Arguments) - 1; i >= 0; i-- {
			arg := t.Arguments[i]
			c.push(func() error { return c.compileStep(chunk, arg) })
		}
		return nil

	default:
		return rerr.New(rerr.InternalError, toRerrLoc(loc), "unknown term variant %T", term)
	}
}

func (c *Compiler) compileIf(chunk *bytecode.Chunk, t *ast.If) error {
	loc := t.Loc()
	var jumpIfFalseIdx, jumpEndIdx int

	// Desired execution order:
	//   compile condition
	//   emit JumpIfFalse (patched once 'then' and the end-jump are emitted)
	//   compile then
	//   emit Jump (patched once 'otherwise' is emitted)
	//   patch JumpIfFalse -> here (start of otherwise)
	//   compile otherwise
	//   patch Jump -> here (fallthrough after the whole if)
	patchJumpEnd := func() error {
		chunk.PatchTarget(jumpEndIdx, chunk.Len())
		return nil
	}
	compileOtherwise := func() error { return c.compileStep(chunk, t.Otherwise) }
	patchJumpIfFalse := func() error {
		chunk.PatchTarget(jumpIfFalseIdx, chunk.Len())
		return nil
	}
	emitJumpEnd := func() error {
		jumpEndIdx = chunk.Emit(bytecode.Instruction{Op: bytecode.OpJump, Location: loc, Target: -1})
		return nil
	}
	compileThen := func() error { return c.compileStep(chunk, t.Then) }
	emitJumpIfFalse := func() error {
		jumpIfFalseIdx = chunk.Emit(bytecode.Instruction{Op: bytecode.OpJumpIfFalse, Location: loc, Target: -1})
		return nil
	}
	compileCondition := func() error { return c.compileStep(chunk, t.Condition) }

	c.push(patchJumpEnd)
	c.push(compileOtherwise)
	c.push(patchJumpIfFalse)
	c.push(emitJumpEnd)
	c.push(compileThen)
	c.push(emitJumpIfFalse)
	c.push(compileCondition)
	return nil
}

func (c *Compiler) compileFunction(chunk *bytecode.Chunk, t *ast.Function) error {
	loc := t.Loc()
	fnChunk := c.newChunk()

	chunk.Emit(bytecode.Instruction{Op: bytecode.OpCloseOver, Location: loc, Chunk: fnChunk.Index})

	names := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		names[i] = p.Text
	}
	fnChunk.Emit(bytecode.Instruction{Op: bytecode.OpAllocate, Location: loc, Names: names})

	c.push(func() error {
		fnChunk.Emit(bytecode.Instruction{Op: bytecode.OpProceed, Location: loc})
		return nil
	})
	c.push(func() error {
		fnChunk.Emit(bytecode.Instruction{Op: bytecode.OpDeallocate, Location: loc})
		return nil
	})
	c.push(func() error { return c.compileStep(fnChunk, t.Body) })
	return nil
}

func toRerrLoc(loc ast.Location) rerr.Location {
	return rerr.Location{Filename: loc.Filename, Start: loc.Start, End: loc.End}
}
