package macro

import (
	"github.com/funvibe/vega/internal/ast"
)

// Table is a purely syntactic macro registry with lexical nesting. It is
// built during the expansion stage, before any namespace exists, so the
// expander never touches binding or type resolution.
type Table struct {
	store map[string]*ast.MacroDecl
	outer *Table
}

func NewTable() *Table {
	return &Table{store: make(map[string]*ast.MacroDecl)}
}

// NewEnclosedTable creates a child table for a nested module block.
// Inner definitions shadow outer ones.
func NewEnclosedTable(outer *Table) *Table {
	t := NewTable()
	t.outer = outer
	return t
}

func (t *Table) Define(decl *ast.MacroDecl) {
	t.store[decl.Name.Value] = decl
}

func (t *Table) Find(name string) (*ast.MacroDecl, bool) {
	if decl, ok := t.store[name]; ok {
		return decl, true
	}
	if t.outer != nil {
		return t.outer.Find(name)
	}
	return nil, false
}
