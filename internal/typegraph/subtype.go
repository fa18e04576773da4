package typegraph

import (
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/token"
)

// ResolveAlias follows alias links from ref to a non-alias node.
// Resolution is idempotent: resolving an already-resolved ref is a no-op.
func (g *Graph) ResolveAlias(ref TypeRef) (TypeRef, *diagnostics.DiagnosticError) {
	return g.resolveAliasFrom(ref, token.Token{})
}

func (g *Graph) resolveAliasFrom(ref TypeRef, tok token.Token) (TypeRef, *diagnostics.DiagnosticError) {
	visited := make(map[TypeRef]bool)
	for {
		n, ok := g.Node(ref)
		if !ok {
			return NilRef, diagnostics.NewError(diagnostics.ErrT004, tok, g.NameOf(ref))
		}
		alias, isAlias := n.(AliasNode)
		if !isAlias {
			return ref, nil
		}
		if visited[ref] {
			return NilRef, diagnostics.NewError(diagnostics.ErrT003, tok, alias.Name)
		}
		visited[ref] = true
		ref = alias.Target
	}
}

// IsSubtype reports whether a is b or b appears on a's parent chain.
// Both refs are alias-resolved first; an unresolvable ref is never a
// subtype of anything.
func (g *Graph) IsSubtype(a, b TypeRef) bool {
	ra, err := g.ResolveAlias(a)
	if err != nil {
		return false
	}
	rb, err := g.ResolveAlias(b)
	if err != nil {
		return false
	}
	// O(depth) walk up the declaration-time tree; depth is small, so no
	// memoization is needed for correctness or in practice.
	for ref := ra; ref != NilRef; {
		if ref == rb {
			return true
		}
		n, ok := g.Node(ref)
		if !ok {
			return false
		}
		ref = n.ParentRef()
	}
	return false
}
