package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinha/ast"
	"rinha/rerr"
)

func TestLoadLiteral(t *testing.T) {
	data := []byte(`{
		"name": "prog.rinha",
		"expression": {"kind": "Int", "value": 42, "location": {"start": 0, "end": 2, "filename": "prog.rinha"}},
		"location": {"start": 0, "end": 2, "filename": "prog.rinha"}
	}`)
	file, err := Load(data, "prog.rinha")
	require.NoError(t, err)
	assert.Equal(t, "prog.rinha", file.Name)
	i, ok := file.Expression.(*ast.Int)
	require.True(t, ok)
	assert.Equal(t, int64(42), i.Value)
}

func TestLoadBinaryAndLet(t *testing.T) {
	data := []byte(`{
		"name": "prog",
		"expression": {
			"kind": "Let",
			"name": {"text": "x", "location": {"start": 0, "end": 1}},
			"value": {"kind": "Int", "value": 1, "location": {"start": 0, "end": 1}},
			"next": {
				"kind": "Binary",
				"lhs": {"kind": "Var", "text": "x", "location": {"start": 0, "end": 1}},
				"op": "Add",
				"rhs": {"kind": "Int", "value": 2, "location": {"start": 0, "end": 1}},
				"location": {"start": 0, "end": 1}
			},
			"location": {"start": 0, "end": 1}
		},
		"location": {"start": 0, "end": 1}
	}`)
	file, err := Load(data, "prog")
	require.NoError(t, err)
	let, ok := file.Expression.(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, "x", let.Name.Text)

	bin, ok := let.Next.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
	v, ok := bin.Lhs.(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "x", v.Text)
}

func TestLoadFunctionAndCall(t *testing.T) {
	data := []byte(`{
		"name": "prog",
		"expression": {
			"kind": "Call",
			"callee": {
				"kind": "Function",
				"parameters": [{"text": "a", "location": {"start": 0, "end": 1}}],
				"value": {"kind": "Var", "text": "a", "location": {"start": 0, "end": 1}},
				"location": {"start": 0, "end": 1}
			},
			"arguments": [{"kind": "Int", "value": 9, "location": {"start": 0, "end": 1}}],
			"location": {"start": 0, "end": 1}
		},
		"location": {"start": 0, "end": 1}
	}`)
	file, err := Load(data, "prog")
	require.NoError(t, err)
	call, ok := file.Expression.(*ast.Call)
	require.True(t, ok)
	fn, ok := call.Callee.(*ast.Function)
	require.True(t, ok)
	require.Len(t, fn.Parameters, 1)
	assert.Equal(t, "a", fn.Parameters[0].Text)
	require.Len(t, call.Arguments, 1)
	argInt, ok := call.Arguments[0].(*ast.Int)
	require.True(t, ok)
	assert.Equal(t, int64(9), argInt.Value)
}

func TestLoadMissingKind(t *testing.T) {
	data := []byte(`{"name": "p", "expression": {"location": {"start": 0, "end": 1}}, "location": {"start": 0, "end": 1}}`)
	_, err := Load(data, "p")
	require.Error(t, err)
	execErr, ok := err.(*rerr.ExecutionError)
	require.True(t, ok)
	assert.Equal(t, rerr.MalformedAST, execErr.Kind)
}

func TestLoadUnknownKind(t *testing.T) {
	data := []byte(`{"name": "p", "expression": {"kind": "Bogus", "location": {"start": 0, "end": 1}}, "location": {"start": 0, "end": 1}}`)
	_, err := Load(data, "p")
	require.Error(t, err)
	execErr, ok := err.(*rerr.ExecutionError)
	require.True(t, ok)
	assert.Equal(t, rerr.MalformedAST, execErr.Kind)
}

func TestLoadMissingExpression(t *testing.T) {
	data := []byte(`{"name": "p", "location": {"start": 0, "end": 1}}`)
	_, err := Load(data, "p")
	require.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load([]byte("{not json"), "p")
	require.Error(t, err)
}

func TestLoadLocationEndBeforeStart(t *testing.T) {
	data := []byte(`{
		"name": "p",
		"expression": {"kind": "Int", "value": 1, "location": {"start": 5, "end": 1}},
		"location": {"start": 0, "end": 1}
	}`)
	_, err := Load(data, "p")
	require.Error(t, err)
	execErr, ok := err.(*rerr.ExecutionError)
	require.True(t, ok)
	assert.Equal(t, rerr.MalformedAST, execErr.Kind)
}

func TestLoadDeeplyNestedDoesNotPanic(t *testing.T) {
	inner := `{"kind": "Int", "value": 0, "location": {"start": 0, "end": 1}}`
	expr := inner
	for i := 0; i < 5000; i++ {
		expr = `{"kind": "Binary", "op": "Add", "lhs": ` + expr + `, "rhs": ` + inner + `, "location": {"start": 0, "end": 1}}`
	}
	data := []byte(`{"name": "p", "expression": ` + expr + `, "location": {"start": 0, "end": 1}}`)

	assert.NotPanics(t, func() {
		_, err := Load(data, "p")
		require.NoError(t, err)
	})
}
