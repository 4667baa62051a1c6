// Package value defines runtime values: literals, closures, and the
// environments that bind names to them. Environments are semantically
// immutable from the caller's perspective — WithValues always returns a new
// environment — except for the one narrowly-scoped back-patch documented on
// Closure.Patch.
package value

import "fmt"

// Kind distinguishes the possible payloads a Literal can carry.
type Kind int

const (
	KindInt Kind = iota
	KindStr
	KindBool
	KindPair
)

// Value is the tagged-sum interface for every runtime value: a Literal or a
// Closure.
type Value interface {
	fmt.Stringer
	value()
}

// Literal wraps one of the four scalar/composite kinds the language knows
// about. Only one of the typed fields is meaningful, selected by Kind.
type Literal struct {
	Kind Kind
	Int  int64
	Str  string
	Bool bool
	Pair [2]Value
}

func (Literal) value() {}

func (l Literal) String() string {
	switch l.Kind {
	case KindInt:
		return fmt.Sprintf("%d", l.Int)
	case KindStr:
		return l.Str
	case KindBool:
		if l.Bool {
			return "true"
		}
		return "false"
	case KindPair:
		return fmt.Sprintf("(%s, %s)", l.Pair[0], l.Pair[1])
	default:
		return "<#unknown>"
	}
}

// Int constructs an integer literal.
func Int(n int64) Literal { return Literal{Kind: KindInt, Int: n} }

// Str constructs a string literal.
func Str(s string) Literal { return Literal{Kind: KindStr, Str: s} }

// Bool constructs a boolean literal.
func Bool(b bool) Literal { return Literal{Kind: KindBool, Bool: b} }

// Pair constructs a pair literal from two already-evaluated values.
func Pair(first, second Value) Literal {
	return Literal{Kind: KindPair, Pair: [2]Value{first, second}}
}

// Equal reports structural equality between two literals of the same kind.
// Callers (ApplyOp in package bytecode) are responsible for first checking
// that both operands carry the same Kind.
func (l Literal) Equal(other Literal) bool {
	if l.Kind != other.Kind {
		return false
	}
	switch l.Kind {
	case KindInt:
		return l.Int == other.Int
	case KindStr:
		return l.Str == other.Str
	case KindBool:
		return l.Bool == other.Bool
	case KindPair:
		lf, lok := l.Pair[0].(Literal)
		rf, rok := other.Pair[0].(Literal)
		ls, lsok := l.Pair[1].(Literal)
		rs, rsok := other.Pair[1].(Literal)
		if lok && rok && lsok && rsok {
			return lf.Equal(rf) && ls.Equal(rs)
		}
		// Closures are never structurally equal to each other; a pair
		// containing one is only equal by identity, which literal
		// equality does not express.
		return false
	default:
		return false
	}
}

// Closure pairs a compiled function chunk with the environment captured at
// the Function term's evaluation. Chunk is typed as any to avoid an import
// cycle with package bytecode (which itself needs Literal to implement
// operators); the vm package stores the function chunk's int index there
// and type-asserts it back to int before jumping into it, while the
// reference interpreter stores the *ast.Function itself.
//
// Patch implements the one exception to environment immutability described
// in the spec: when a Let binds a name directly to a freshly constructed
// closure, the closure's captured environment is replaced with the frame
// introduced by that very Let, so the function can call itself by name. The
// closure must not have been observed through any other binding between its
// construction and this patch.
type Closure struct {
	Chunk any
	Env   *Env
}

func (*Closure) value() {}

func (c *Closure) String() string { return "<#closure>" }

// Patch replaces the closure's captured environment. Only ever called once,
// by the LetAllocate instruction (or the reference interpreter's Let),
// immediately after the closure is constructed.
func (c *Closure) Patch(env *Env) { c.Env = env }

// Env is a persistent mapping from identifier text to runtime value. A new
// Env is created by WithValues, overlaying the parent's bindings with the
// extras; the parent is left untouched. Lookup walks up the chain.
type Env struct {
	parent *Env
	values map[string]Value
}

// Empty returns the environment with no bindings, used to start a VM run.
func Empty() *Env {
	return &Env{}
}

// WithValues returns a new environment whose bindings are this
// environment's, overlaid by extra.
func (e *Env) WithValues(extra map[string]Value) *Env {
	return &Env{parent: e, values: extra}
}

// Get looks up name, walking outward through enclosing frames.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if env.values == nil {
			continue
		}
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}
