package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinha/compiler"
	"rinha/parser"
	"rinha/rerr"
	"rinha/value"
)

func run(t *testing.T, src string) (value.Value, string) {
	t.Helper()
	file, err := parser.Parse(src, "t")
	require.NoError(t, err)
	chunks, err := compiler.New().CompileFile(file)
	require.NoError(t, err)

	var out bytes.Buffer
	result, err := New(chunks, &out).Run()
	require.NoError(t, err)
	return result, out.String()
}

func TestRunArithmetic(t *testing.T) {
	result, _ := run(t, "1 + 2 * 3")
	assert.Equal(t, value.Int(7), result)
}

func TestRunFloorDivision(t *testing.T) {
	result, _ := run(t, "(0 - 7) / 2")
	assert.Equal(t, value.Int(-4), result)
}

func TestRunIf(t *testing.T) {
	result, _ := run(t, "if (1 < 2) { 10 } else { 20 }")
	assert.Equal(t, value.Int(10), result)
}

func TestRunLetAndPrint(t *testing.T) {
	result, out := run(t, "let x = 5; print(x)")
	assert.Equal(t, value.Int(5), result)
	assert.Equal(t, "5\n", out)
}

func TestRunTupleProjection(t *testing.T) {
	result, _ := run(t, "first((1, 2))")
	assert.Equal(t, value.Int(1), result)
	result, _ = run(t, "second((1, 2))")
	assert.Equal(t, value.Int(2), result)
}

func TestRunRecursiveFibonacci(t *testing.T) {
	src := `
	let fib = fn(n) => {
		if (n < 2) { n } else { fib(n - 1) + fib(n - 2) }
	};
	fib(10)`
	result, _ := run(t, src)
	assert.Equal(t, value.Int(55), result)
}

func TestRunClosureCapture(t *testing.T) {
	src := `
	let adder = fn(x) => { fn(y) => { x + y } };
	let addFive = adder(5);
	addFive(3)`
	result, _ := run(t, src)
	assert.Equal(t, value.Int(8), result)
}

func TestRunTypeErrorOnBadOperands(t *testing.T) {
	file, err := parser.Parse("1 + true", "t")
	require.NoError(t, err)
	chunks, err := compiler.New().CompileFile(file)
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = New(chunks, &out).Run()
	require.Error(t, err)
	execErr, ok := err.(*rerr.ExecutionError)
	require.True(t, ok)
	assert.Equal(t, rerr.TypeError, execErr.Kind)
}

func TestRunArityMismatch(t *testing.T) {
	file, err := parser.Parse("let f = fn(a, b) => { a + b }; f(1)", "t")
	require.NoError(t, err)
	chunks, err := compiler.New().CompileFile(file)
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = New(chunks, &out).Run()
	require.Error(t, err)
	execErr, ok := err.(*rerr.ExecutionError)
	require.True(t, ok)
	assert.Equal(t, rerr.ArityError, execErr.Kind)
}

func TestRunUnknownVariable(t *testing.T) {
	file, err := parser.Parse("y", "t")
	require.NoError(t, err)
	chunks, err := compiler.New().CompileFile(file)
	require.NoError(t, err)

	_, err = New(chunks, &bytes.Buffer{}).Run()
	require.Error(t, err)
	execErr, ok := err.(*rerr.ExecutionError)
	require.True(t, ok)
	assert.Equal(t, rerr.UnknownVariable, execErr.Kind)
}

func TestRunCallOnNonClosure(t *testing.T) {
	file, err := parser.Parse("let x = 1; x(2)", "t")
	require.NoError(t, err)
	chunks, err := compiler.New().CompileFile(file)
	require.NoError(t, err)

	_, err = New(chunks, &bytes.Buffer{}).Run()
	require.Error(t, err)
	execErr, ok := err.(*rerr.ExecutionError)
	require.True(t, ok)
	assert.Equal(t, rerr.TypeError, execErr.Kind)
}

func TestRunDeepRecursionDoesNotOverflowHostStack(t *testing.T) {
	src := `
	let count = fn(n) => {
		if (n == 0) { 0 } else { count(n - 1) }
	};
	count(50000)`
	result, _ := run(t, src)
	assert.Equal(t, value.Int(0), result)
}
