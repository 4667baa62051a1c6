package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinha/parser"
)

func TestPrintLiterals(t *testing.T) {
	file, err := parser.Parse(`"hi"`, "t")
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, Print(file.Expression))
}

func TestPrintBinaryRespectsPrecedence(t *testing.T) {
	file, err := parser.Parse("1 + 2 * 3", "t")
	require.NoError(t, err)
	assert.Equal(t, "1 + 2 * 3", Print(file.Expression))
}

func TestPrintBinaryAddsParensWhenNeeded(t *testing.T) {
	file, err := parser.Parse("(1 + 2) * 3", "t")
	require.NoError(t, err)
	assert.Equal(t, "(1 + 2) * 3", Print(file.Expression))
}

func TestPrintTuple(t *testing.T) {
	file, err := parser.Parse("(1, 2)", "t")
	require.NoError(t, err)
	assert.Equal(t, "(1, 2)", Print(file.Expression))
}

func TestPrintCallOnVarHasNoParens(t *testing.T) {
	file, err := parser.Parse("f(1, 2)", "t")
	require.NoError(t, err)
	assert.Equal(t, "f(1, 2)", Print(file.Expression))
}

func TestPrintLetAndIf(t *testing.T) {
	file, err := parser.Parse("let x = 1; if (true) { x } else { 0 }", "t")
	require.NoError(t, err)
	out := Print(file.Expression)
	assert.Contains(t, out, "let x = 1;")
	assert.Contains(t, out, "if true {")
	assert.Contains(t, out, "} else {")
}

func TestPrintFunction(t *testing.T) {
	file, err := parser.Parse("fn(a, b) => { a + b }", "t")
	require.NoError(t, err)
	out := Print(file.Expression)
	assert.Contains(t, out, "fn(a, b) => {")
	assert.Contains(t, out, "a + b")
}

func TestPrintDeeplyNestedDoesNotPanic(t *testing.T) {
	src := "let x = 1;\n"
	for i := 0; i < 2000; i++ {
		src += "let x = x + 1;\n"
	}
	src += "x"
	file, err := parser.Parse(src, "t")
	require.NoError(t, err)
	assert.NotPanics(t, func() { Print(file.Expression) })
}
