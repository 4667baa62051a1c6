package interpreter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinha/compiler"
	"rinha/parser"
	"rinha/vm"
)

// runBoth parses src once and evaluates it through both the tree-walking
// oracle and the compiled VM, returning each side's printed output. The
// spec's testable property is that the two agree.
func runBoth(t *testing.T, src string) (oracleOut, vmOut string) {
	t.Helper()
	file, err := parser.Parse(src, "t")
	require.NoError(t, err)

	var oracleBuf bytes.Buffer
	_, err = Run(file, &oracleBuf)
	require.NoError(t, err)

	chunks, err := compiler.New().CompileFile(file)
	require.NoError(t, err)
	var vmBuf bytes.Buffer
	_, err = vm.New(chunks, &vmBuf).Run()
	require.NoError(t, err)

	return oracleBuf.String(), vmBuf.String()
}

func TestOracleAgreesWithVM(t *testing.T) {
	programs := []string{
		"print(1 + 2 * 3)",
		"print(if (1 < 2) { 10 } else { 20 })",
		"let x = 5; print(x)",
		"let _ = print(first((1, 2))); print(second((1, 2)))",
		`let fib = fn(n) => { if (n < 2) { n } else { fib(n - 1) + fib(n - 2) } }; print(fib(10))`,
		`let adder = fn(x) => { fn(y) => { x + y } }; print(adder(5)(3))`,
		`let _ = print((0 - 7) / 2); print((0 - 7) % 2)`,
	}
	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			oracle, vmOut := runBoth(t, src)
			assert.Equal(t, oracle, vmOut)
		})
	}
}

func TestOracleEvaluatesLiterals(t *testing.T) {
	file, err := parser.Parse(`"hi"`, "t")
	require.NoError(t, err)
	v, err := Run(file, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "hi", v.String())
}

func TestOracleUnknownVariable(t *testing.T) {
	file, err := parser.Parse("y", "t")
	require.NoError(t, err)
	_, err = Run(file, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestOracleArityMismatch(t *testing.T) {
	file, err := parser.Parse("let f = fn(a, b) => { a + b }; f(1)", "t")
	require.NoError(t, err)
	_, err = Run(file, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestOracleTupleEvaluatesBothSides(t *testing.T) {
	file, err := parser.Parse("(print(1), print(2))", "t")
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = Run(file, &buf)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", buf.String())
}
