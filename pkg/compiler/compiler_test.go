package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaiserettig/Noble/pkg/ast"
	"github.com/blaiserettig/Noble/pkg/compiler"
	"github.com/blaiserettig/Noble/pkg/diag"
)

func orderedSubsequence(t *testing.T, out string, needles ...string) {
	t.Helper()
	pos := 0
	for _, n := range needles {
		idx := strings.Index(out[pos:], n)
		if !assert.GreaterOrEqualf(t, idx, 0, "expected to find %q after position %d in:\n%s", n, pos, out) {
			return
		}
		pos += idx + len(n)
	}
}

// Scenario 1 — variable propagation.
func TestCompile_Scenario1_VariablePropagation(t *testing.T) {
	out, err := compiler.Compile("i32s x = 1;\ni32s y = x;\nexit y;\n")
	require.NoError(t, err)

	orderedSubsequence(t, out,
		"mov dword [x], 1",
		"mov eax, dword [x]",
		"mov dword [y], eax",
		"mov eax, dword [y]",
		"    ret",
	)
	assert.Contains(t, out, "x resd 1")
	assert.Contains(t, out, "y resd 1")
}

// Scenario 2 — for loop (exit code 10 at runtime; here checked structurally).
func TestCompile_Scenario2_ForLoop(t *testing.T) {
	out, err := compiler.Compile(`
		i32s x = 0;
		for i in 0 to 10 {
		    x = i;
		}
		i32s y = x;
		exit y;
	`)
	require.NoError(t, err)

	orderedSubsequence(t, out,
		"mov dword [x], 0",
		"mov dword [i], eax",
		"loop_begin_i_",
		"jg ",
		"mov dword [x], eax",
		"inc eax",
		"jmp loop_begin_i_",
		"loop_end_i_",
		"mov dword [y], eax",
		"mov eax, dword [y]",
		"    ret",
	)
}

// Scenario 3 — arithmetic precedence: 2 + 3 * 4 must group as 2 + (3 * 4).
func TestCompile_Scenario3_ArithmeticPrecedence(t *testing.T) {
	entry, err := compiler.ParseOnly("i32s r = 2 + 3 * 4; exit r;")
	require.NoError(t, err)

	decl, ok := entry.Body[0].(ast.VariableDeclaration)
	require.True(t, ok)
	want := ast.Binary{
		Op:  ast.OpAdd,
		Lhs: ast.IntLit{Value: 2},
		Rhs: ast.Binary{Op: ast.OpMul, Lhs: ast.IntLit{Value: 3}, Rhs: ast.IntLit{Value: 4}},
	}
	assert.Equal(t, want, decl.Initializer)

	out, err := compiler.Compile("i32s r = 2 + 3 * 4; exit r;")
	require.NoError(t, err)
	assert.Contains(t, out, "imul eax, ebx")
	assert.Contains(t, out, "add eax, ebx")
}

// Scenario 4 — comparison result: '<' sets via setl, '>' sets via setg.
func TestCompile_Scenario4_ComparisonResult(t *testing.T) {
	lt, err := compiler.Compile("i32s r = 5 < 10; exit r;")
	require.NoError(t, err)
	assert.Contains(t, lt, "setl al")

	gt, err := compiler.Compile("i32s r = 5 > 10; exit r;")
	require.NoError(t, err)
	assert.Contains(t, gt, "setg al")
}

// Scenario 5 — undefined identifier fails the pipeline with no output.
func TestCompile_Scenario5_UndefinedIdentifier(t *testing.T) {
	out, err := compiler.Compile("exit z;")
	require.Error(t, err)
	assert.Empty(t, out)

	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.TypeError, d.Kind)
	assert.Equal(t, "undefined_identifier", d.Reason)
}

// Scenario 6 — scoped shadowing succeeds; same-scope redeclaration fails.
func TestCompile_Scenario6_ScopedShadowing(t *testing.T) {
	out, err := compiler.Compile("i32s x = 1;\nfor x in 0 to 3 { }\nexit x;\n")
	require.NoError(t, err)
	assert.Contains(t, out, "mov eax, dword [x]")

	_, err = compiler.Compile("i32s x = 1; i32s x = 2;")
	require.Error(t, err)
	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.TypeError, d.Kind)
	assert.Equal(t, "redeclared_in_scope", d.Reason)
}

func TestCompile_EmptyProgramProducesMinimalAssembly(t *testing.T) {
	out, err := compiler.Compile("")
	require.NoError(t, err)
	assert.Contains(t, out, "mainCRTStartup:")
	assert.Contains(t, out, "    ret")
	assert.NotContains(t, strings.SplitN(out, "segment .bss", 2)[1], "resd")
}

func TestCompile_PipelineIsIdempotent(t *testing.T) {
	source := "i32s x = 1; for i in 0 to 5 { x = i; } exit x;"
	first, err := compiler.Compile(source)
	require.NoError(t, err)
	second, err := compiler.Compile(source)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompile_LexErrorProducesNoOutput(t *testing.T) {
	out, err := compiler.Compile("i32s x = 5 @ 2;")
	require.Error(t, err)
	assert.Empty(t, out)

	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.LexError, d.Kind)
}
