package typegraph

import (
	"github.com/funvibe/vega/internal/config"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/token"
)

// Graph owns the universe of declared types for one declaration unit and
// the subtype relation over them. It is built in declaration order and
// frozen once the unit closes; after that every operation is read-only.
type Graph struct {
	nodes []Node
	root  TypeRef
}

// NewGraph creates a graph seeded with the distinguished root type.
func NewGraph() *Graph {
	g := &Graph{}
	g.root = g.push(AbstractNode{Name: config.RootTypeName, Parent: NilRef})
	return g
}

func (g *Graph) push(n Node) TypeRef {
	g.nodes = append(g.nodes, n)
	return TypeRef(len(g.nodes) - 1)
}

// Root returns the distinguished root type.
func (g *Graph) Root() TypeRef {
	return g.root
}

// Node returns the node behind ref, or false if ref was never issued by
// this graph.
func (g *Graph) Node(ref TypeRef) (Node, bool) {
	if ref < 0 || int(ref) >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[ref], true
}

// NameOf returns the declared name behind ref, for diagnostics.
func (g *Graph) NameOf(ref TypeRef) string {
	n, ok := g.Node(ref)
	if !ok {
		return "?"
	}
	return n.TypeName()
}

func (g *Graph) checkParent(name string, parent TypeRef, tok token.Token) *diagnostics.DiagnosticError {
	if _, ok := g.Node(parent); !ok {
		return diagnostics.NewError(diagnostics.ErrT002, tok, g.NameOf(parent), name)
	}
	// A parent must be a non-alias node; aliases are resolved by the caller
	// before declaration.
	if _, isAlias := g.nodes[parent].(AliasNode); isAlias {
		return diagnostics.NewError(diagnostics.ErrT002, tok, g.NameOf(parent), name)
	}
	return nil
}

// DeclareAbstract registers a non-instantiable type under parent.
func (g *Graph) DeclareAbstract(name string, parent TypeRef, tok token.Token) (TypeRef, *diagnostics.DiagnosticError) {
	if err := g.checkParent(name, parent, tok); err != nil {
		return NilRef, err
	}
	return g.push(AbstractNode{Name: name, Parent: parent}), nil
}

// DeclareConcrete registers an instantiable record type. Field types must
// already be alias-resolved refs into this graph.
func (g *Graph) DeclareConcrete(name string, parent TypeRef, fields []Field, tok token.Token) (TypeRef, *diagnostics.DiagnosticError) {
	if err := g.checkParent(name, parent, tok); err != nil {
		return NilRef, err
	}
	for _, f := range fields {
		if _, ok := g.Node(f.Type); !ok {
			return NilRef, diagnostics.NewError(diagnostics.ErrT004, tok, f.Name)
		}
	}
	return g.push(ConcreteNode{Name: name, Parent: parent, Fields: fields}), nil
}

// DeclarePrimitive registers an opaque fixed-width type under parent.
func (g *Graph) DeclarePrimitive(name string, parent TypeRef, bitWidth int, tok token.Token) (TypeRef, *diagnostics.DiagnosticError) {
	if err := g.checkParent(name, parent, tok); err != nil {
		return NilRef, err
	}
	return g.push(PrimitiveNode{Name: name, Parent: parent, BitWidth: bitWidth}), nil
}

// DeclareAlias registers a transparent name for target. The target chain is
// checked for cycles at declaration time; a still-pending alias on the
// chain is allowed, its own completion re-checks.
func (g *Graph) DeclareAlias(name string, target TypeRef, tok token.Token) (TypeRef, *diagnostics.DiagnosticError) {
	if _, ok := g.Node(target); !ok {
		return NilRef, diagnostics.NewError(diagnostics.ErrT004, tok, name)
	}
	ref := g.push(AliasNode{Name: name, Target: target})
	if err := g.checkAliasChain(ref, tok); err != nil {
		// Roll the node back so a failed declaration leaves the graph intact.
		g.nodes = g.nodes[:len(g.nodes)-1]
		return NilRef, err
	}
	return ref, nil
}

// DeclareAliasPending registers an alias whose target is supplied later via
// CompleteAlias. Pending aliases support forward references between
// declarations; resolving one before completion fails with UnknownType.
func (g *Graph) DeclareAliasPending(name string) TypeRef {
	return g.push(AliasNode{Name: name, Target: NilRef})
}

// CompleteAlias fills in a pending alias's target. The whole chain is
// re-checked: a target chain that revisits the alias fails CyclicAlias and
// leaves the alias pending.
func (g *Graph) CompleteAlias(ref, target TypeRef, tok token.Token) *diagnostics.DiagnosticError {
	n, ok := g.Node(ref)
	if !ok {
		return diagnostics.NewError(diagnostics.ErrT004, tok, g.NameOf(ref))
	}
	alias, isAlias := n.(AliasNode)
	if !isAlias {
		return diagnostics.NewError(diagnostics.ErrT004, tok, n.TypeName())
	}
	if _, ok := g.Node(target); !ok {
		return diagnostics.NewError(diagnostics.ErrT004, tok, alias.Name)
	}
	g.nodes[ref] = AliasNode{Name: alias.Name, Target: target}
	if err := g.checkAliasChain(ref, tok); err != nil {
		g.nodes[ref] = AliasNode{Name: alias.Name, Target: NilRef}
		return err
	}
	return nil
}

// checkAliasChain walks alias links from ref, failing CyclicAlias on a
// revisit. Unlike ResolveAlias it stops cleanly at a pending alias: the
// chain is re-checked when that alias completes.
func (g *Graph) checkAliasChain(ref TypeRef, tok token.Token) *diagnostics.DiagnosticError {
	visited := make(map[TypeRef]bool)
	for {
		n, ok := g.Node(ref)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrT004, tok, g.NameOf(ref))
		}
		alias, isAlias := n.(AliasNode)
		if !isAlias {
			return nil
		}
		if visited[ref] {
			return diagnostics.NewError(diagnostics.ErrT003, tok, alias.Name)
		}
		if alias.Target == NilRef {
			return nil
		}
		visited[ref] = true
		ref = alias.Target
	}
}
