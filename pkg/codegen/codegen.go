// Package codegen implements Noble's tree-walking code generator (§4.3): a
// single pass over a validated AST that emits NASM x86-64 text assembly
// targeting the Windows mainCRTStartup entry point, using eax as the sole
// expression accumulator and ebx as scratch for binary operators.
//
// Grounded on the teacher's pkg/hack/codegen.go and pkg/asm/codegen.go
// (a CodeGenerator-shaped struct, a Generate entrypoint that dispatches on
// node kind, fmt.Errorf for the handful of failure paths) crossed with the
// other_examples x86-64 backend (itsfuad-Ferret-Compiler's
// codegen.X86_64Generator), the pack's only other x86 assembly emitter,
// which keeps per-section strings.Builder buffers and a labelCounter field —
// the shape §4.3's "output buffer" / "label counter" / "variable set" call
// for directly.
package codegen

import (
	"fmt"
	"strings"

	"github.com/blaiserettig/Noble/pkg/ast"
	"github.com/blaiserettig/Noble/pkg/diag"
)

// CodeGenerator accumulates the .text instruction stream and the set of
// variables to reserve in .bss while walking one AST.
type CodeGenerator struct {
	text         strings.Builder
	varSeen      map[string]struct{}
	varOrder     []string
	labelCounter int
}

// New returns a CodeGenerator with empty output buffers.
func New() *CodeGenerator {
	return &CodeGenerator{varSeen: map[string]struct{}{}}
}

// Generate lowers entry into a complete NASM x86-64 program (§4.3
// preamble/postamble, one CodegenError(UnsupportedType) short-circuiting the
// walk on the first unsupported construct).
func Generate(entry *ast.Entry) (string, error) {
	c := New()

	for _, stmt := range entry.Body {
		if err := c.genStmt(stmt); err != nil {
			return "", err
		}
	}

	var out strings.Builder
	out.WriteString("bits 64\n\ndefault rel\n\nsegment .text\nglobal mainCRTStartup\n\nmainCRTStartup:\n")
	out.WriteString(c.text.String())
	out.WriteString("    ret\n\nsegment .bss\n")
	for _, name := range c.varOrder {
		fmt.Fprintf(&out, "    %s resd 1\n", name)
	}
	return out.String(), nil
}

func (c *CodeGenerator) emit(format string, args ...any) {
	fmt.Fprintf(&c.text, "    "+format+"\n", args...)
}

func (c *CodeGenerator) emitLabel(name string) {
	fmt.Fprintf(&c.text, "%s:\n", name)
}

func (c *CodeGenerator) registerVar(name string) {
	if _, seen := c.varSeen[name]; seen {
		return
	}
	c.varSeen[name] = struct{}{}
	c.varOrder = append(c.varOrder, name)
}

func (c *CodeGenerator) nextLabelSuffix() int {
	n := c.labelCounter
	c.labelCounter++
	return n
}

// ----------------------------------------------------------------------------
// Statements

func (c *CodeGenerator) genStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case ast.VariableDeclaration:
		return c.genVariableDeclaration(s)
	case ast.VariableAssignment:
		return c.genVariableAssignment(s)
	case ast.Exit:
		return c.genExpr(s.Value, 0)
	case ast.For:
		return c.genFor(s)
	case ast.If:
		return c.genIf(s)
	default:
		return diag.New(diag.CodegenError, "unsupported_statement", fmt.Sprintf("%T", stmt))
	}
}

func (c *CodeGenerator) genVariableDeclaration(v ast.VariableDeclaration) error {
	if v.DeclaredType != ast.I32S {
		return diag.New(diag.CodegenError, "unsupported_type", string(v.DeclaredType))
	}
	if lit, ok := v.Initializer.(ast.IntLit); ok {
		// A literal initializer is stored directly, without passing through eax.
		c.emit("mov dword [%s], %d", v.Name, lit.Value)
	} else {
		if err := c.genExpr(v.Initializer, 0); err != nil {
			return err
		}
		c.emit("mov dword [%s], eax", v.Name)
	}
	c.registerVar(v.Name)
	return nil
}

func (c *CodeGenerator) genVariableAssignment(v ast.VariableAssignment) error {
	if err := c.genExpr(v.Value, 0); err != nil {
		return err
	}
	c.emit("mov dword [%s], eax", v.Name)
	return nil
}

// genFor emits a counted loop (§4.3 step 4): iterator bounds are inclusive
// ("jg loop_end" only exits once the iterator exceeds End). Labels carry a
// monotonic suffix (resolving §9's label-uniqueness design note) so nested
// loops sharing an iterator name never collide.
func (c *CodeGenerator) genFor(f ast.For) error {
	endLit, ok := f.End.(ast.IntLit)
	if !ok {
		return diag.New(diag.CodegenError, "unsupported_type", "for-loop end bound must be an integer literal")
	}

	n := c.nextLabelSuffix()
	beginLabel := fmt.Sprintf("loop_begin_%s_%d", f.IteratorName, n)
	endLabel := fmt.Sprintf("loop_end_%s_%d", f.IteratorName, n)

	c.registerVar(f.IteratorName)

	if err := c.genExpr(f.Begin, 0); err != nil {
		return err
	}
	c.emit("mov dword [%s], eax", f.IteratorName)

	c.emitLabel(beginLabel)
	c.emit("mov eax, dword [%s]", f.IteratorName)
	c.emit("mov ebx, %d", endLit.Value)
	c.emit("cmp eax, ebx")
	c.emit("jg %s", endLabel)

	for _, stmt := range f.Body {
		if err := c.genStmt(stmt); err != nil {
			return err
		}
	}

	c.emit("mov eax, dword [%s]", f.IteratorName)
	c.emit("inc eax")
	c.emit("mov dword [%s], eax", f.IteratorName)
	c.emit("jmp %s", beginLabel)
	c.emitLabel(endLabel)
	return nil
}

// genIf emits a condition test plus an else-branch that is either another
// full If (an "else if" chain, recursed into directly) or a plain block.
func (c *CodeGenerator) genIf(stmt ast.If) error {
	n := c.nextLabelSuffix()
	elseLabel := fmt.Sprintf("if_else_%d", n)
	endLabel := fmt.Sprintf("if_end_%d", n)

	if err := c.genExpr(stmt.Condition, 0); err != nil {
		return err
	}
	c.emit("cmp eax, 0")
	c.emit("je %s", elseLabel)

	for _, s := range stmt.ThenBody {
		if err := c.genStmt(s); err != nil {
			return err
		}
	}
	c.emit("jmp %s", endLabel)

	c.emitLabel(elseLabel)
	switch branch := stmt.ElseBranch.(type) {
	case ast.ElseIf:
		if err := c.genIf(*branch.If); err != nil {
			return err
		}
	case ast.ElseBlock:
		for _, s := range branch.Body {
			if err := c.genStmt(s); err != nil {
				return err
			}
		}
	}
	c.emitLabel(endLabel)
	return nil
}

// ----------------------------------------------------------------------------
// Expressions — every case leaves its result in eax.

func (c *CodeGenerator) genExpr(expr ast.Expr, depth int) error {
	switch e := expr.(type) {
	case ast.IntLit:
		c.emit("mov eax, %d", e.Value)
		return nil

	case ast.Ident:
		c.emit("mov eax, dword [%s]", e.Name)
		return nil

	case ast.Binary:
		return c.genBinary(e, depth)

	case ast.FloatLit, ast.BoolLit, ast.CharLit:
		return diag.New(diag.CodegenError, "unsupported_type", fmt.Sprintf("%T in a generated expression position", expr))

	default:
		return diag.New(diag.CodegenError, "unsupported_expression", fmt.Sprintf("%T", expr))
	}
}

// genBinary evaluates Lhs into eax, spills it to a scratch .bss slot while
// Rhs is evaluated (preserving the partial left operand per §4.3's register
// discipline), reloads Lhs into eax and Rhs into ebx, then applies the
// operator.
func (c *CodeGenerator) genBinary(b ast.Binary, depth int) error {
	if err := c.genExpr(b.Lhs, depth+1); err != nil {
		return err
	}

	scratch := fmt.Sprintf("__scratch%d", depth)
	c.registerVar(scratch)
	c.emit("mov dword [%s], eax", scratch)

	if err := c.genExpr(b.Rhs, depth+1); err != nil {
		return err
	}
	c.emit("mov ebx, eax")
	c.emit("mov eax, dword [%s]", scratch)

	switch b.Op {
	case ast.OpAdd:
		c.emit("add eax, ebx")
	case ast.OpSub:
		c.emit("sub eax, ebx")
	case ast.OpMul:
		c.emit("imul eax, ebx")
	case ast.OpDiv:
		c.emit("cdq")
		c.emit("idiv ebx")
	case ast.OpEq:
		c.emitComparison("sete")
	case ast.OpNeq:
		c.emitComparison("setne")
	case ast.OpLt:
		c.emitComparison("setl")
	case ast.OpLe:
		c.emitComparison("setle")
	case ast.OpGt:
		c.emitComparison("setg")
	case ast.OpGe:
		c.emitComparison("setge")
	default:
		return diag.New(diag.CodegenError, "unsupported_operator", string(b.Op))
	}
	return nil
}

// emitComparison materializes a comparison result as 0 or 1 in eax (§4.3:
// "conditional-set followed by zero-extension").
func (c *CodeGenerator) emitComparison(setInstr string) {
	c.emit("cmp eax, ebx")
	c.emit("%s al", setInstr)
	c.emit("movzx eax, al")
}
