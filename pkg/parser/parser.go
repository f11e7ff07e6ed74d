// Package parser implements Noble's recursive-descent parser (§4.2): a
// hand-written descent over the token stream that first builds a concrete
// ast.ParseTree mirroring the grammar, then lowers that tree into the typed
// ast.Entry AST while threading a *symtab.Table.
//
// Grounded on the teacher's two-phase Parser shape (parsing.go builds a
// tree, lowering.go walks it into a semantic result) with the phases
// realized by hand instead of by a combinator library, since §4.1/§4.2
// mandate the scan-with-lookahead and named-grammar-with-precedence-climbing
// algorithms themselves rather than a particular implementation style (see
// SPEC_FULL.md's DOMAIN STACK section for why prataprc/goparsec isn't reused
// here).
package parser

import (
	"fmt"
	"strconv"

	"github.com/blaiserettig/Noble/pkg/ast"
	"github.com/blaiserettig/Noble/pkg/diag"
	"github.com/blaiserettig/Noble/pkg/token"
)

// Parser holds the token cursor for one parse.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New builds a Parser over a complete token stream (as produced by
// pkg/lexer, beginning with token.EntryPoint).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs both phases and returns the lowered program, or the first
// diagnostic raised by either phase.
func Parse(tokens []token.Token) (*ast.Entry, error) {
	p := New(tokens)

	tree, err := p.parseTree()
	if err != nil {
		return nil, err
	}

	return lowerProgram(tree)
}

// ----------------------------------------------------------------------------
// Cursor helpers

func (p *Parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *Parser) peek() token.Token {
	if p.atEnd() {
		return token.Token{}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.atEnd() && p.peek().Kind == kind
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if !p.check(kind) {
		found := "end of input"
		if !p.atEnd() {
			found = p.peek().String()
		}
		return token.Token{}, diag.New(diag.ParseError, "expected_kind",
			fmt.Sprintf("expected %s, found %s", kind, found))
	}
	return p.advance(), nil
}

func isTypeKeyword(kind token.Kind) bool {
	switch kind {
	case token.TypeI32s, token.TypeF32s, token.TypeBool, token.TypeChar:
		return true
	default:
		return false
	}
}

// ----------------------------------------------------------------------------
// Phase 1: concrete parse tree (§3, §4.2 grammar)

// parseTree consumes the leading EntryPoint and builds a parse tree over the
// remaining statements.
func (p *Parser) parseTree() (*ast.ParseTree, error) {
	if _, err := p.expect(token.EntryPoint); err != nil {
		return nil, err
	}

	var children []*ast.ParseTree
	for !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		children = append(children, stmt)
	}

	return ast.Node(ast.NEntryPoint, children...), nil
}

// Stmt → Exit | VariableDec | VariableAsm | For | If
func (p *Parser) parseStatement() (*ast.ParseTree, error) {
	switch {
	case p.check(token.Exit):
		return p.parseExit()
	case p.check(token.For):
		return p.parseFor()
	case p.check(token.If):
		node, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		return ast.Node(ast.NStatement, node), nil
	case isTypeKeyword(p.peek().Kind):
		return p.parseVariableDec()
	case p.check(token.Identifier):
		return p.parseVariableAsm()
	default:
		found := "end of input"
		if !p.atEnd() {
			found = p.peek().String()
		}
		return nil, diag.New(diag.ParseError, "expected_statement",
			fmt.Sprintf("expected a statement, found %s", found))
	}
}

func (p *Parser) parseExit() (*ast.ParseTree, error) {
	exitTok := p.advance()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return ast.Node(ast.NStatement, ast.Leaf(exitTok), value), nil
}

// VariableDec → Type Ident "=" Expr ";"
func (p *Parser) parseVariableDec() (*ast.ParseTree, error) {
	typeTok := p.advance()
	identTok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equals); err != nil {
		return nil, err
	}
	initializer, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}

	decl := ast.Node(ast.NVariableDeclaration, ast.Node(ast.NType, ast.Leaf(typeTok)), ast.Leaf(identTok), initializer)
	return ast.Node(ast.NStatement, decl), nil
}

// VariableAsm → Ident "=" Expr ";"
func (p *Parser) parseVariableAsm() (*ast.ParseTree, error) {
	identTok := p.advance()
	if _, err := p.expect(token.Equals); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}

	asm := ast.Node(ast.NVariableAssignment, ast.Leaf(identTok), value)
	return ast.Node(ast.NStatement, asm), nil
}

// For → "for" Ident "in" IntLit "to" IntLit Block
func (p *Parser) parseFor() (*ast.ParseTree, error) {
	p.advance() // "for"
	identTok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ForIn); err != nil {
		return nil, err
	}
	beginTok, err := p.expect(token.IntegerLiteral)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ForTo); err != nil {
		return nil, err
	}
	endTok, err := p.expect(token.IntegerLiteral)
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	forNode := ast.Node(ast.NFor, ast.Leaf(identTok), ast.Leaf(beginTok), ast.Leaf(endTok), block)
	return ast.Node(ast.NStatement, forNode), nil
}

// If → "if" Expr Block ElseOpt
// ElseOpt → "else" If | "else" Block | ε
func (p *Parser) parseIf() (*ast.ParseTree, error) {
	p.advance() // "if"
	condition, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	children := []*ast.ParseTree{condition, thenBlock}

	if p.check(token.Else) {
		p.advance()
		switch {
		case p.check(token.If):
			nestedIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			children = append(children, ast.Node(ast.NElse, nestedIf))
		default:
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			children = append(children, ast.Node(ast.NElse, elseBlock))
		}
	}

	return ast.Node(ast.NIf, children...), nil
}

// Block → "{" Stmt* "}"
func (p *Parser) parseBlock() (*ast.ParseTree, error) {
	if _, err := p.expect(token.LeftBrace); err != nil {
		return nil, err
	}

	var stmts []*ast.ParseTree
	for !p.check(token.RightBrace) {
		if p.atEnd() {
			return nil, diag.New(diag.ParseError, "expected_kind", "expected '}', found end of input")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	if _, err := p.expect(token.RightBrace); err != nil {
		return nil, err
	}

	return ast.Node(ast.NBlock, stmts...), nil
}

// ----------------------------------------------------------------------------
// Expressions: Expr → Equality → Comparison → Add → Mul → Primary

func (p *Parser) parseExpr() (*ast.ParseTree, error) { return p.parseEquality() }

func (p *Parser) parseEquality() (*ast.ParseTree, error) {
	return p.parseBinaryLevel(p.parseComparison, token.EqEq, token.NotEq)
}

func (p *Parser) parseComparison() (*ast.ParseTree, error) {
	return p.parseBinaryLevel(p.parseAdd, token.Lt, token.LtEq, token.Gt, token.GtEq)
}

func (p *Parser) parseAdd() (*ast.ParseTree, error) {
	return p.parseBinaryLevel(p.parseMul, token.Plus, token.Minus)
}

func (p *Parser) parseMul() (*ast.ParseTree, error) {
	return p.parseBinaryLevel(p.parsePrimary, token.Star, token.Slash)
}

// parseBinaryLevel implements one precedence level: a left operand parsed by
// next, followed by zero or more (operator, operand) pairs folded left
// (§4.2: "left-associative operators fold left into nested Binary nodes").
func (p *Parser) parseBinaryLevel(next func() (*ast.ParseTree, error), operators ...token.Kind) (*ast.ParseTree, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.matchesAny(operators...) {
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.Node(ast.NExpression, left, ast.Leaf(opTok), right)
	}

	return left, nil
}

func (p *Parser) matchesAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

// Primary → IntLit | FloatLit | BoolLit | CharLit | Ident | "(" Expr ")"
func (p *Parser) parsePrimary() (*ast.ParseTree, error) {
	switch {
	case p.check(token.IntegerLiteral), p.check(token.FloatLiteral),
		p.check(token.BooleanLiteral), p.check(token.CharLiteral), p.check(token.Identifier):
		return ast.Leaf(p.advance()), nil

	case p.check(token.LeftParen):
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RightParen); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		found := "end of input"
		if !p.atEnd() {
			found = p.peek().String()
		}
		return nil, diag.New(diag.ParseError, "expected_expression", fmt.Sprintf("expected an expression, found %s", found))
	}
}

func parseInt32Literal(lexeme string) (int32, error) {
	v, err := strconv.ParseInt(lexeme, 10, 32)
	if err != nil {
		return 0, diag.Wrap(diag.ParseError, "integer_overflow", err)
	}
	return int32(v), nil
}

func parseFloat32Literal(lexeme string) (float32, error) {
	v, err := strconv.ParseFloat(lexeme, 32)
	if err != nil {
		return 0, diag.Wrap(diag.ParseError, "malformed_float_literal", err)
	}
	return float32(v), nil
}
