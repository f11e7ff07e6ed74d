// Package compiler wires Noble's three stages into the single entrypoint
// external collaborators drive (§2): Lexer → Parser → CodeGen, first error
// wins.
package compiler

import (
	"github.com/blaiserettig/Noble/pkg/ast"
	"github.com/blaiserettig/Noble/pkg/codegen"
	"github.com/blaiserettig/Noble/pkg/lexer"
	"github.com/blaiserettig/Noble/pkg/parser"
)

// Compile translates a complete Noble source string into NASM x86-64 text
// assembly. The pipeline does not recover from a stage failure: the first
// diagnostic any stage returns is the result.
func Compile(source string) (string, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return "", err
	}

	entry, err := parser.Parse(tokens)
	if err != nil {
		return "", err
	}

	return codegen.Generate(entry)
}

// ParseOnly runs the Lexer and Parser without code generation, exposed for
// callers (and tests) that only need the typed AST.
func ParseOnly(source string) (*ast.Entry, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}
