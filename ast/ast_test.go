package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryOpToken(t *testing.T) {
	assert.Equal(t, "+", Add.Token())
	assert.Equal(t, "&&", And.Token())
	assert.Equal(t, "?", BinaryOp(999).Token())
}

func TestLocationString(t *testing.T) {
	loc := NewLoc("foo.rinha", 3, 9)
	assert.Equal(t, "foo.rinha[3:9]", loc.String())
}

func TestConstructorsSetLocationAndLeaveChildrenZero(t *testing.T) {
	loc := NewLoc("f", 0, 1)

	i := NewInt(loc, 10)
	assert.Equal(t, loc, i.Loc())
	assert.Equal(t, int64(10), i.Value)

	tuple := NewTuple(loc)
	assert.Nil(t, tuple.First)
	assert.Nil(t, tuple.Second)

	call := NewCall(loc, 2)
	assert.Len(t, call.Arguments, 2)
	assert.Nil(t, call.Arguments[0])
	assert.Nil(t, call.Arguments[1])

	fn := NewFunction(loc, []Parameter{{Text: "x"}})
	assert.Equal(t, "x", fn.Parameters[0].Text)
	assert.Nil(t, fn.Body)
}

func TestTermsImplementTermInterface(t *testing.T) {
	loc := NewLoc("f", 0, 1)
	var terms []Term = []Term{
		NewInt(loc, 1), NewStr(loc, "s"), NewBool(loc, true), NewVar(loc, "x"),
		NewTuple(loc), NewFirst(loc), NewSecond(loc), NewPrint(loc), NewIf(loc),
		NewBinary(loc, Add), NewLet(loc, Parameter{Text: "x"}),
		NewFunction(loc, nil), NewCall(loc, 0),
	}
	for _, term := range terms {
		assert.Equal(t, loc, term.Loc())
	}
}
