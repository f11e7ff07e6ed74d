package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaiserettig/Noble/pkg/ast"
	"github.com/blaiserettig/Noble/pkg/diag"
	"github.com/blaiserettig/Noble/pkg/lexer"
	"github.com/blaiserettig/Noble/pkg/parser"
)

func mustParse(t *testing.T, source string) *ast.Entry {
	t.Helper()
	tokens, err := lexer.Lex(source)
	require.NoError(t, err)

	entry, err := parser.Parse(tokens)
	require.NoError(t, err)
	return entry
}

func TestParse_EmptyProgramYieldsEmptyBody(t *testing.T) {
	entry := mustParse(t, "")
	assert.Empty(t, entry.Body)
}

func TestParse_VariablePropagation(t *testing.T) {
	entry := mustParse(t, "i32s x = 1; i32s y = x; exit y;")
	require.Len(t, entry.Body, 3)

	decl, ok := entry.Body[0].(ast.VariableDeclaration)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, ast.I32S, decl.DeclaredType)
	assert.Equal(t, ast.IntLit{Value: 1}, decl.Initializer)

	decl2 := entry.Body[1].(ast.VariableDeclaration)
	assert.Equal(t, ast.Ident{Name: "x"}, decl2.Initializer)

	exit := entry.Body[2].(ast.Exit)
	assert.Equal(t, ast.Ident{Name: "y"}, exit.Value)
}

func TestParse_ArithmeticPrecedence(t *testing.T) {
	entry := mustParse(t, "i32s r = 2 + 3 * 4; exit r;")

	decl := entry.Body[0].(ast.VariableDeclaration)
	want := ast.Binary{
		Op:  ast.OpAdd,
		Lhs: ast.IntLit{Value: 2},
		Rhs: ast.Binary{Op: ast.OpMul, Lhs: ast.IntLit{Value: 3}, Rhs: ast.IntLit{Value: 4}},
	}
	assert.Equal(t, want, decl.Initializer)
}

func TestParse_LeftAssociativity(t *testing.T) {
	entry := mustParse(t, "i32s r = 10 - 3 - 2; exit r;")

	decl := entry.Body[0].(ast.VariableDeclaration)
	want := ast.Binary{
		Op:  ast.OpSub,
		Lhs: ast.Binary{Op: ast.OpSub, Lhs: ast.IntLit{Value: 10}, Rhs: ast.IntLit{Value: 3}},
		Rhs: ast.IntLit{Value: 2},
	}
	assert.Equal(t, want, decl.Initializer)
}

func TestParse_ComparisonResult(t *testing.T) {
	entry := mustParse(t, "i32s r = 5 < 10; exit r;")

	decl := entry.Body[0].(ast.VariableDeclaration)
	assert.Equal(t, ast.Binary{Op: ast.OpLt, Lhs: ast.IntLit{Value: 5}, Rhs: ast.IntLit{Value: 10}}, decl.Initializer)
}

func TestParse_ForLoop(t *testing.T) {
	entry := mustParse(t, "i32s x = 0; for i in 0 to 10 { x = i; } i32s y = x; exit y;")
	require.Len(t, entry.Body, 4)

	forStmt, ok := entry.Body[1].(ast.For)
	require.True(t, ok)
	assert.Equal(t, "i", forStmt.IteratorName)
	assert.Equal(t, ast.IntLit{Value: 0}, forStmt.Begin)
	assert.Equal(t, ast.IntLit{Value: 10}, forStmt.End)
	require.Len(t, forStmt.Body, 1)
	assign := forStmt.Body[0].(ast.VariableAssignment)
	assert.Equal(t, "x", assign.Name)
	assert.Equal(t, ast.Ident{Name: "i"}, assign.Value)
}

func TestParse_IfElseIfElseChain(t *testing.T) {
	entry := mustParse(t, `
		i32s x = 1;
		if x == 1 {
			exit 1;
		} else if x == 2 {
			exit 2;
		} else {
			exit 0;
		}
	`)

	ifStmt, ok := entry.Body[1].(ast.If)
	require.True(t, ok)
	elseIf, ok := ifStmt.ElseBranch.(ast.ElseIf)
	require.True(t, ok)
	_, ok = elseIf.If.ElseBranch.(ast.ElseBlock)
	require.True(t, ok)
}

func TestParse_ScopedShadowingInForLoop(t *testing.T) {
	entry := mustParse(t, "i32s x = 1; for x in 0 to 3 { } exit x;")

	exit := entry.Body[2].(ast.Exit)
	assert.Equal(t, ast.Ident{Name: "x"}, exit.Value)
}

func TestParse_RedeclarationInSameScopeFails(t *testing.T) {
	tokens, err := lexer.Lex("i32s x = 1; i32s x = 2;")
	require.NoError(t, err)

	_, err = parser.Parse(tokens)
	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.TypeError, d.Kind)
	assert.Equal(t, "redeclared_in_scope", d.Reason)
}

func TestParse_UndefinedIdentifierFails(t *testing.T) {
	tokens, err := lexer.Lex("exit z;")
	require.NoError(t, err)

	_, err = parser.Parse(tokens)
	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.TypeError, d.Kind)
	assert.Equal(t, "undefined_identifier", d.Reason)
}

func TestParse_SelfReferentialInitializerFailsWithoutOuterBinding(t *testing.T) {
	tokens, err := lexer.Lex("i32s x = x;")
	require.NoError(t, err)

	_, err = parser.Parse(tokens)
	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.TypeError, d.Kind)
}

func TestParse_SelfReferentialInitializerSucceedsWithOuterBinding(t *testing.T) {
	entry := mustParse(t, "i32s x = 1; if true { i32s x = x; }")
	assert.Len(t, entry.Body, 2)
}

func TestParse_MissingSemicolonIsParseError(t *testing.T) {
	tokens, err := lexer.Lex("i32s x = 1")
	require.NoError(t, err)

	_, err = parser.Parse(tokens)
	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.ParseError, d.Kind)
}
