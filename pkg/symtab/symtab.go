// Package symtab implements Noble's scoped symbol table (§3): an ordered
// stack of scopes, each a mapping from declared name to its Type. Lookup
// searches innermost scope outward; declaration only ever touches the
// innermost scope and shadowing of outer bindings is permitted.
//
// Grounded on pkg/jack/scopes.go's "push a scope per block, resolve
// innermost-first" shape, collapsed here into a single stack of scopes since
// Noble (unlike Jack) has only one variable namespace per block rather than
// separate field/static/local/parameter scopes. The stack itself is the
// teacher's pkg/utils.Stack[T] adapted in stack.go to hold scopes directly.
package symtab

import (
	"fmt"

	"github.com/blaiserettig/Noble/pkg/ast"
)

// entry records the declared type of one binding.
type entry struct {
	declaredType ast.Type
}

// scope is a single block's worth of declarations.
type scope map[string]entry

// Table is the ordered stack of scopes threaded through parsing. Created
// empty; the parser pushes the outer (program-body) scope on entry and a
// fresh scope for every "{...}" block and for-loop iterator, popping each on
// exit. Must be empty again once parsing completes.
type Table struct {
	scopes stack[scope]
}

// New returns an empty Table with no active scopes.
func New() *Table { return &Table{} }

// PushScope opens a new, empty innermost scope.
func (t *Table) PushScope() { t.scopes.push(scope{}) }

// PopScope closes the innermost scope. Popping an empty Table is a
// programmer error in the parser and panics rather than failing silently,
// since it would otherwise corrupt later scope resolution invisibly.
func (t *Table) PopScope() {
	if _, err := t.scopes.pop(); err != nil {
		panic("symtab: PopScope called on an empty Table")
	}
}

// Depth reports how many scopes are currently open; it is 0 once every
// pushed scope has been popped.
func (t *Table) Depth() int { return t.scopes.count() }

// Declare binds name to declaredType in the innermost scope. It fails if
// name is already declared in that same innermost scope — shadowing an outer
// binding is fine, redeclaring within one block is not (§3, §8 invariant 7).
func (t *Table) Declare(name string, declaredType ast.Type) error {
	innermost, err := t.scopes.top()
	if err != nil {
		return fmt.Errorf("symtab: Declare(%q) called with no active scope", name)
	}

	if _, redeclared := innermost[name]; redeclared {
		return fmt.Errorf("symtab: %q already declared in this scope", name)
	}

	innermost[name] = entry{declaredType: declaredType}
	return nil
}

// Lookup searches scopes innermost-to-outermost and returns the declared
// type of name, or ok=false if name is not visible in any active scope.
func (t *Table) Lookup(name string) (declaredType ast.Type, ok bool) {
	t.scopes.each(func(s scope) bool {
		if e, found := s[name]; found {
			declaredType, ok = e.declaredType, true
			return false
		}
		return true
	})
	return declaredType, ok
}
