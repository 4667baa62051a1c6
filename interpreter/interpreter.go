// Package interpreter is a direct, recursive tree-walking evaluator of
// ast.Term — the "evaluate0" baseline the spec's compiler and VM are meant
// to agree with (§8: same output as tree-walking reference semantics). It
// is deliberately the simplest correct implementation, used only from
// tests as a differential oracle; nothing in the CLI or the compiled
// execution path calls it, and it is never asked to run a program whose
// AST or recursion depth would overflow the host stack.
package interpreter

import (
	"fmt"
	"io"

	"rinha/ast"
	"rinha/bytecode"
	"rinha/rerr"
	"rinha/value"
)

// Run evaluates file's top-level expression in an empty environment,
// writing Print output to out.
func Run(file *ast.File, out io.Writer) (value.Value, error) {
	return eval(value.Empty(), file.Expression, out)
}

func eval(env *value.Env, term ast.Term, out io.Writer) (value.Value, error) {
	loc := toRerrLoc(term.Loc())

	switch t := term.(type) {
	case *ast.Int:
		return value.Int(t.Value), nil

	case *ast.Str:
		return value.Str(t.Value), nil

	case *ast.Bool:
		return value.Bool(t.Value), nil

	case *ast.Var:
		v, ok := env.Get(t.Text)
		if !ok {
			return nil, rerr.New(rerr.UnknownVariable, loc, "unbound variable '%s'", t.Text)
		}
		return v, nil

	case *ast.Tuple:
		first, err := eval(env, t.First, out)
		if err != nil {
			return nil, err
		}
		second, err := eval(env, t.Second, out)
		if err != nil {
			return nil, err
		}
		return value.Pair(first, second), nil

	case *ast.Function:
		return &value.Closure{Chunk: t, Env: env}, nil

	case *ast.If:
		cond, err := eval(env, t.Condition, out)
		if err != nil {
			return nil, err
		}
		lit, ok := cond.(value.Literal)
		if !ok || lit.Kind != value.KindBool {
			return nil, rerr.New(rerr.TypeError, loc, "'if' condition is not a bool")
		}
		if lit.Bool {
			return eval(env, t.Then, out)
		}
		return eval(env, t.Otherwise, out)

	case *ast.Print:
		v, err := eval(env, t.Value, out)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(out, v)
		return v, nil

	case *ast.First:
		v, err := eval(env, t.Value, out)
		if err != nil {
			return nil, err
		}
		lit, ok := v.(value.Literal)
		if !ok || lit.Kind != value.KindPair {
			return nil, rerr.New(rerr.TypeError, loc, "argument to 'first' is not a tuple")
		}
		return lit.Pair[0], nil

	case *ast.Second:
		v, err := eval(env, t.Value, out)
		if err != nil {
			return nil, err
		}
		lit, ok := v.(value.Literal)
		if !ok || lit.Kind != value.KindPair {
			return nil, rerr.New(rerr.TypeError, loc, "argument to 'second' is not a tuple")
		}
		return lit.Pair[1], nil

	case *ast.Binary:
		lhs, err := eval(env, t.Lhs, out)
		if err != nil {
			return nil, err
		}
		rhs, err := eval(env, t.Rhs, out)
		if err != nil {
			return nil, err
		}
		return bytecode.ApplyOp(lhs, rhs, t.Op, t.Loc())

	case *ast.Let:
		val, err := eval(env, t.Value, out)
		if err != nil {
			return nil, err
		}
		nextEnv := env.WithValues(map[string]value.Value{t.Name.Text: val})
		_, isFn := t.Value.(*ast.Function)
		if closure, ok := val.(*value.Closure); ok && isFn {
			closure.Patch(nextEnv)
		}
		return eval(nextEnv, t.Next, out)

	case *ast.Call:
		calleeVal, err := eval(env, t.Callee, out)
		if err != nil {
			return nil, err
		}
		closure, ok := calleeVal.(*value.Closure)
		if !ok {
			return nil, rerr.New(rerr.TypeError, loc, "callee is not callable: %s", calleeVal)
		}
		fn, ok := closure.Chunk.(*ast.Function)
		if !ok {
			return nil, rerr.New(rerr.InternalError, loc, "closure does not reference a function")
		}
		if len(t.Arguments) != len(fn.Parameters) {
			return nil, rerr.New(rerr.ArityError, loc, "function expects %d argument(s), called with %d", len(fn.Parameters), len(t.Arguments))
		}
		args := make(map[string]value.Value, len(t.Arguments))
		for i, argTerm := range t.Arguments {
			v, err := eval(env, argTerm, out)
			if err != nil {
				return nil, err
			}
			args[fn.Parameters[i].Text] = v
		}
		callEnv := closure.Env.WithValues(args)
		return eval(callEnv, fn.Body, out)

	default:
		return nil, rerr.New(rerr.InternalError, loc, "unknown term variant %T", term)
	}
}

func toRerrLoc(loc ast.Location) rerr.Location {
	return rerr.Location{Filename: loc.Filename, Start: loc.Start, End: loc.End}
}
