// Package printer renders an ast.Term back into Rinha surface syntax. It
// backs the "ast" CLI verb; it is never on the compile path.
//
// Rendering walks an explicit stack of pending fragments instead of
// recursing term-by-term, so printing a program doesn't grow the host call
// stack with AST depth (the same concern the compiler and loader solve the
// same way).
package printer

import (
	"strconv"
	"strings"

	"rinha/ast"
)

// Print renders term as Rinha source text.
func Print(term ast.Term) string {
	var buf strings.Builder
	stack := []fragment{{term: term, hasTerm: true}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !f.hasTerm {
			buf.WriteString(f.text)
			continue
		}
		// render returns fragments in the order they should be written;
		// the stack pops from the back, so push them back-to-front.
		next := render(f.term, f.level)
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	return buf.String()
}

// fragment is either a literal string already resolved to output, or a term
// still waiting to be expanded at the given indentation level.
type fragment struct {
	term    ast.Term
	text    string
	level   int
	hasTerm bool
}

func textf(s string) fragment              { return fragment{text: s} }
func termf(t ast.Term, level int) fragment { return fragment{term: t, hasTerm: true, level: level} }

func indent(level int) string {
	return "\n" + strings.Repeat("  ", level)
}

var precedence = map[ast.BinaryOp]int{
	ast.Add: 30, ast.Sub: 30,
	ast.Mul: 40, ast.Div: 40, ast.Rem: 40,
	ast.Eq: 20, ast.Neq: 20, ast.Lt: 20, ast.Gt: 20, ast.Lte: 20, ast.Gte: 20,
	ast.And: 10,
	ast.Or:  5,
}

// render expands one node into its immediate fragments (sub-terms pushed as
// further, unexpanded work; literal text pushed as already-final output).
// Returned in normal reading order — the caller pushes them back-to-front
// onto a stack that pops from the back, so the FIRST fragment returned here
// is the first one processed next.
func render(term ast.Term, level int) []fragment {
	switch t := term.(type) {
	case *ast.Int:
		return []fragment{textf(strconv.FormatInt(t.Value, 10))}

	case *ast.Str:
		return []fragment{textf(strconv.Quote(t.Value))}

	case *ast.Bool:
		if t.Value {
			return []fragment{textf("true")}
		}
		return []fragment{textf("false")}

	case *ast.Var:
		return []fragment{textf(t.Text)}

	case *ast.Print:
		return []fragment{textf("print ("), termf(t.Value, level), textf(")")}

	case *ast.First:
		return []fragment{textf("first("), termf(t.Value, level), textf(")")}

	case *ast.Second:
		return []fragment{textf("second("), termf(t.Value, level), textf(")")}

	case *ast.Tuple:
		return []fragment{
			textf("("), termf(t.First, level), textf(", "), termf(t.Second, level), textf(")"),
		}

	case *ast.Binary:
		return renderBinary(t, level)

	case *ast.Let:
		return []fragment{
			textf("let " + t.Name.Text + " = "),
			termf(t.Value, level),
			textf(";" + indent(level)),
			termf(t.Next, level),
		}

	case *ast.If:
		l1 := indent(level + 1)
		l0 := indent(level)
		return []fragment{
			textf("if "), termf(t.Condition, level), textf(" {" + l1),
			termf(t.Then, level+1),
			textf(l0 + "} else {" + l1),
			termf(t.Otherwise, level+1),
			textf(l0 + "}"),
		}

	case *ast.Function:
		l1 := indent(level + 1)
		l0 := indent(level)
		names := make([]string, len(t.Parameters))
		for i, p := range t.Parameters {
			names[i] = p.Text
		}
		return []fragment{
			textf("fn(" + strings.Join(names, ", ") + ") => {" + l1),
			termf(t.Body, level+1),
			textf(l0 + "}"),
		}

	case *ast.Call:
		out := []fragment{}
		wrap := true
		if _, ok := t.Callee.(*ast.Var); ok {
			wrap = false
		}
		if wrap {
			out = append(out, textf("("), termf(t.Callee, level), textf(")"))
		} else {
			out = append(out, termf(t.Callee, level))
		}
		out = append(out, textf("("))
		for i, arg := range t.Arguments {
			if i > 0 {
				out = append(out, textf(", "))
			}
			out = append(out, termf(arg, level))
		}
		out = append(out, textf(")"))
		return out

	default:
		return []fragment{textf("<?>")}
	}
}

func renderBinary(t *ast.Binary, level int) []fragment {
	self := precedence[t.Op]

	argFrags := func(arg ast.Term) []fragment {
		if b, ok := arg.(*ast.Binary); ok && precedence[b.Op] < self {
			return []fragment{textf("("), termf(arg, level), textf(")")}
		}
		return []fragment{termf(arg, level)}
	}

	out := argFrags(t.Lhs)
	out = append(out, textf(" "+t.Op.Token()+" "))
	out = append(out, argFrags(t.Rhs)...)
	return out
}
