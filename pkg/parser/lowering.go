package parser

import (
	"github.com/blaiserettig/Noble/pkg/ast"
	"github.com/blaiserettig/Noble/pkg/diag"
	"github.com/blaiserettig/Noble/pkg/symtab"
	"github.com/blaiserettig/Noble/pkg/token"
)

// lowerProgram walks the concrete tree produced by parseTree and threads a
// fresh symtab.Table through it per §4.2's symbol-table discipline: an outer
// scope is pushed on entry and must be empty again once lowering completes.
func lowerProgram(tree *ast.ParseTree) (*ast.Entry, error) {
	st := symtab.New()
	st.PushScope()

	var body []ast.Stmt
	for _, child := range tree.Children {
		stmt, err := lowerStatement(child, st)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	st.PopScope()
	return &ast.Entry{Body: body}, nil
}

// lowerStatement dispatches on the shape parseStatement produced: a
// NStatement node wrapping either a specific-kind node (VariableDeclaration,
// VariableAssignment, For, If) or, for Exit, the bare "exit" leaf followed by
// its value expression.
func lowerStatement(node *ast.ParseTree, st *symtab.Table) (ast.Stmt, error) {
	head := node.Children[0]

	switch head.Kind {
	case ast.NVariableDeclaration:
		return lowerVariableDeclaration(head, st)
	case ast.NVariableAssignment:
		return lowerVariableAssignment(head, st)
	case ast.NFor:
		return lowerFor(head, st)
	case ast.NIf:
		ifStmt, err := lowerIf(head, st)
		return ifStmt, err
	default:
		if head.Token.Kind == token.Exit {
			value, err := lowerExpr(node.Children[1], st)
			if err != nil {
				return nil, err
			}
			return ast.Exit{Value: value}, nil
		}
		return nil, diag.New(diag.ParseError, "unrecognized_statement", "internal parse tree shape")
	}
}

// lowerVariableDeclaration evaluates Initializer against the scopes active
// before the declaration (so a self-referential initializer only succeeds if
// an outer binding of the same name already exists — §4.2) and only then
// declares the name.
func lowerVariableDeclaration(node *ast.ParseTree, st *symtab.Table) (ast.Stmt, error) {
	typeTok := node.Children[0].Children[0].Token
	identTok := node.Children[1].Token

	declaredType, err := typeFromToken(typeTok.Kind)
	if err != nil {
		return nil, err
	}

	initializer, err := lowerExpr(node.Children[2], st)
	if err != nil {
		return nil, err
	}

	if err := st.Declare(identTok.Lexeme, declaredType); err != nil {
		return nil, diag.New(diag.TypeError, "redeclared_in_scope", identTok.Lexeme)
	}

	return ast.VariableDeclaration{Name: identTok.Lexeme, DeclaredType: declaredType, Initializer: initializer}, nil
}

func lowerVariableAssignment(node *ast.ParseTree, st *symtab.Table) (ast.Stmt, error) {
	identTok := node.Children[0].Token

	if _, ok := st.Lookup(identTok.Lexeme); !ok {
		return nil, diag.New(diag.TypeError, "undefined_identifier", identTok.Lexeme)
	}

	value, err := lowerExpr(node.Children[1], st)
	if err != nil {
		return nil, err
	}

	return ast.VariableAssignment{Name: identTok.Lexeme, Value: value}, nil
}

// lowerFor pushes a fresh scope for the iterator, declares it as I32S, lowers
// the body (which opens and closes its own nested scope via lowerBlock), and
// pops the iterator scope on the way out (§4.2).
func lowerFor(node *ast.ParseTree, st *symtab.Table) (ast.Stmt, error) {
	identTok := node.Children[0].Token
	beginTok := node.Children[1].Token
	endTok := node.Children[2].Token
	blockNode := node.Children[3]

	beginVal, err := parseInt32Literal(beginTok.Lexeme)
	if err != nil {
		return nil, err
	}
	endVal, err := parseInt32Literal(endTok.Lexeme)
	if err != nil {
		return nil, err
	}

	st.PushScope()
	defer st.PopScope()

	if err := st.Declare(identTok.Lexeme, ast.I32S); err != nil {
		return nil, diag.New(diag.TypeError, "redeclared_in_scope", identTok.Lexeme)
	}

	body, err := lowerBlock(blockNode, st)
	if err != nil {
		return nil, err
	}

	return ast.For{
		IteratorName: identTok.Lexeme,
		Begin:        ast.IntLit{Value: beginVal},
		End:          ast.IntLit{Value: endVal},
		Body:         body,
	}, nil
}

// lowerIf lowers an NIf node (either the top-level "if" of a statement or a
// nested "else if" chain link) into an ast.If.
func lowerIf(node *ast.ParseTree, st *symtab.Table) (ast.If, error) {
	condition, err := lowerExpr(node.Children[0], st)
	if err != nil {
		return ast.If{}, err
	}

	thenBody, err := lowerBlock(node.Children[1], st)
	if err != nil {
		return ast.If{}, err
	}

	if len(node.Children) < 3 {
		return ast.If{Condition: condition, ThenBody: thenBody}, nil
	}

	elseChild := node.Children[2].Children[0]
	switch elseChild.Kind {
	case ast.NIf:
		nested, err := lowerIf(elseChild, st)
		if err != nil {
			return ast.If{}, err
		}
		return ast.If{Condition: condition, ThenBody: thenBody, ElseBranch: ast.ElseIf{If: &nested}}, nil
	default: // NBlock
		elseBody, err := lowerBlock(elseChild, st)
		if err != nil {
			return ast.If{}, err
		}
		return ast.If{Condition: condition, ThenBody: thenBody, ElseBranch: ast.ElseBlock{Body: elseBody}}, nil
	}
}

// lowerBlock opens a fresh scope, lowers every statement in source order,
// and closes the scope regardless of how lowering ends.
func lowerBlock(node *ast.ParseTree, st *symtab.Table) ([]ast.Stmt, error) {
	st.PushScope()
	defer st.PopScope()

	var stmts []ast.Stmt
	for _, child := range node.Children {
		stmt, err := lowerStatement(child, st)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// lowerExpr walks an expression subtree: a leaf is a literal or identifier,
// an internal NExpression node is a left-associative binary application
// (§4.2: "Binary{op, lhs, rhs}").
func lowerExpr(node *ast.ParseTree, st *symtab.Table) (ast.Expr, error) {
	if node.Children == nil {
		return lowerLiteralOrIdent(node.Token, st)
	}

	left, err := lowerExpr(node.Children[0], st)
	if err != nil {
		return nil, err
	}
	right, err := lowerExpr(node.Children[2], st)
	if err != nil {
		return nil, err
	}

	op, err := binOpFromToken(node.Children[1].Token.Kind)
	if err != nil {
		return nil, err
	}

	return ast.Binary{Op: op, Lhs: left, Rhs: right}, nil
}

func lowerLiteralOrIdent(tok token.Token, st *symtab.Table) (ast.Expr, error) {
	switch tok.Kind {
	case token.IntegerLiteral:
		v, err := parseInt32Literal(tok.Lexeme)
		if err != nil {
			return nil, err
		}
		return ast.IntLit{Value: v}, nil

	case token.FloatLiteral:
		v, err := parseFloat32Literal(tok.Lexeme)
		if err != nil {
			return nil, err
		}
		return ast.FloatLit{Value: v}, nil

	case token.BooleanLiteral:
		return ast.BoolLit{Value: tok.Lexeme == "true"}, nil

	case token.CharLiteral:
		return ast.CharLit{Value: tok.Lexeme[0]}, nil

	case token.Identifier:
		if _, ok := st.Lookup(tok.Lexeme); !ok {
			return nil, diag.New(diag.TypeError, "undefined_identifier", tok.Lexeme)
		}
		return ast.Ident{Name: tok.Lexeme}, nil

	default:
		return nil, diag.New(diag.ParseError, "expected_expression", "unexpected token in expression position")
	}
}

func typeFromToken(kind token.Kind) (ast.Type, error) {
	switch kind {
	case token.TypeI32s:
		return ast.I32S, nil
	case token.TypeF32s:
		return ast.F32S, nil
	case token.TypeBool:
		return ast.Bool, nil
	case token.TypeChar:
		return ast.Char, nil
	default:
		return "", diag.New(diag.ParseError, "expected_kind", "expected a type keyword")
	}
}

func binOpFromToken(kind token.Kind) (ast.BinOp, error) {
	switch kind {
	case token.Plus:
		return ast.OpAdd, nil
	case token.Minus:
		return ast.OpSub, nil
	case token.Star:
		return ast.OpMul, nil
	case token.Slash:
		return ast.OpDiv, nil
	case token.EqEq:
		return ast.OpEq, nil
	case token.NotEq:
		return ast.OpNeq, nil
	case token.Lt:
		return ast.OpLt, nil
	case token.LtEq:
		return ast.OpLe, nil
	case token.Gt:
		return ast.OpGt, nil
	case token.GtEq:
		return ast.OpGe, nil
	default:
		return "", diag.New(diag.ParseError, "expected_kind", "expected a binary operator")
	}
}
