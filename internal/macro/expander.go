package macro

import (
	"strconv"

	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/config"
	"github.com/funvibe/vega/internal/diagnostics"
)

// Expander rewrites macro invocation nodes into ordinary expression nodes.
// Expansion is outside-in and pure: it produces new tree fragments and
// never mutates its input. The fresh-name counter is the only state, so one
// Expander must be used per declaration unit to keep hygiene suffixes
// unique across all expansions in that unit.
type Expander struct {
	counter int
}

func NewExpander() *Expander {
	return &Expander{}
}

// ExpandExpr fully expands expr against the macros visible in t. Fragments
// produced by a template are re-expanded until no invocation nodes remain
// or the depth guard trips.
func (e *Expander) ExpandExpr(expr ast.Expression, t *Table) (ast.Expression, *diagnostics.DiagnosticError) {
	return e.expand(expr, t, 0)
}

func (e *Expander) expand(expr ast.Expression, t *Table, depth int) (ast.Expression, *diagnostics.DiagnosticError) {
	switch node := expr.(type) {
	case *ast.MacroInvocation:
		if depth >= config.MaxExpansionDepth {
			return nil, diagnostics.NewError(diagnostics.ErrM001, node.GetToken(), node.Name.Value, config.MaxExpansionDepth)
		}
		decl, ok := t.Find(node.Name.Value)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrM003, node.GetToken(), node.Name.Value)
		}
		if len(decl.Params) != len(node.Args) {
			return nil, diagnostics.NewError(diagnostics.ErrM002, node.GetToken(), decl.Name.Value, len(decl.Params), len(node.Args))
		}
		holes := make(map[string]ast.Expression, len(node.Args))
		for i, p := range decl.Params {
			holes[p.Value] = node.Args[i]
		}
		e.counter++
		fragment, ferr := instantiate(decl.Body, holes, nil, e.counter)
		if ferr != nil {
			return nil, ferr
		}
		// The fragment may itself contain invocations (from the template or
		// from substituted arguments); re-expand with the depth charged.
		return e.expand(fragment, t, depth+1)

	case *ast.CallExpr:
		args, err := e.expandAll(node.Args, t, depth)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Token: node.Token, Function: node.Function, Args: args}, nil

	case *ast.BlockExpr:
		exprs, err := e.expandAll(node.Exprs, t, depth)
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Token: node.Token, Exprs: exprs}, nil

	case *ast.LetExpr:
		value, err := e.expand(node.Value, t, depth)
		if err != nil {
			return nil, err
		}
		body, err := e.expand(node.Body, t, depth)
		if err != nil {
			return nil, err
		}
		return &ast.LetExpr{Token: node.Token, Name: node.Name, Value: value, Body: body}, nil

	default:
		// Identifiers and literals carry no invocations.
		return expr, nil
	}
}

func (e *Expander) expandAll(exprs []ast.Expression, t *Table, depth int) ([]ast.Expression, *diagnostics.DiagnosticError) {
	out := make([]ast.Expression, len(exprs))
	for i, expr := range exprs {
		expanded, err := e.expand(expr, t, depth)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

// instantiate substitutes hole expressions into a template positionally and
// hygienically renames template-introduced bindings with the expansion's
// fresh suffix. Caller-supplied identifiers pass through untouched, so they
// can neither capture nor be captured by template locals. A hole in binder
// or callee position only accepts an identifier argument; anything else
// would leave the raw hole name in the output.
func instantiate(node ast.Expression, holes map[string]ast.Expression, renames map[string]string, n int) (ast.Expression, *diagnostics.DiagnosticError) {
	switch t := node.(type) {
	case *ast.Identifier:
		if renamed, ok := renames[t.Value]; ok {
			return &ast.Identifier{Token: t.Token, Value: renamed}, nil
		}
		if arg, ok := holes[t.Value]; ok {
			return arg, nil
		}
		return t, nil

	case *ast.LetExpr:
		value, err := instantiate(t.Value, holes, renames, n)
		if err != nil {
			return nil, err
		}
		name := t.Name
		bodyHoles := holes
		bodyRenames := renames
		if arg, isHole := holes[t.Name.Value]; isHole {
			// A binder that is itself a hole takes the caller's identifier
			// and is not renamed; the binding belongs to the call site.
			ident, ok := arg.(*ast.Identifier)
			if !ok {
				return nil, diagnostics.NewError(diagnostics.ErrM004, t.Name.GetToken(), t.Name.Value)
			}
			name = ident
		} else {
			// Template-introduced binding: rename binder and every
			// reference in scope with the fresh suffix.
			fresh := t.Name.Value + "#" + strconv.Itoa(n)
			name = &ast.Identifier{Token: t.Name.Token, Value: fresh}
			bodyRenames = copyRenames(renames)
			bodyRenames[t.Name.Value] = fresh
			// The binder shadows any hole of the same name inside the body.
			bodyHoles = copyHolesWithout(holes, t.Name.Value)
		}
		body, err := instantiate(t.Body, bodyHoles, bodyRenames, n)
		if err != nil {
			return nil, err
		}
		return &ast.LetExpr{Token: t.Token, Name: name, Value: value, Body: body}, nil

	case *ast.CallExpr:
		fn := t.Function
		if renamed, ok := renames[fn.Value]; ok {
			fn = &ast.Identifier{Token: fn.Token, Value: renamed}
		} else if arg, ok := holes[fn.Value]; ok {
			ident, isIdent := arg.(*ast.Identifier)
			if !isIdent {
				return nil, diagnostics.NewError(diagnostics.ErrM004, fn.GetToken(), fn.Value)
			}
			fn = ident
		}
		args, err := instantiateAll(t.Args, holes, renames, n)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Token: t.Token, Function: fn, Args: args}, nil

	case *ast.MacroInvocation:
		args, err := instantiateAll(t.Args, holes, renames, n)
		if err != nil {
			return nil, err
		}
		return &ast.MacroInvocation{Token: t.Token, Name: t.Name, Args: args}, nil

	case *ast.BlockExpr:
		exprs, err := instantiateAll(t.Exprs, holes, renames, n)
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Token: t.Token, Exprs: exprs}, nil

	default:
		return node, nil
	}
}

func instantiateAll(exprs []ast.Expression, holes map[string]ast.Expression, renames map[string]string, n int) ([]ast.Expression, *diagnostics.DiagnosticError) {
	out := make([]ast.Expression, len(exprs))
	for i, x := range exprs {
		sub, err := instantiate(x, holes, renames, n)
		if err != nil {
			return nil, err
		}
		out[i] = sub
	}
	return out, nil
}

func copyRenames(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyHolesWithout(m map[string]ast.Expression, name string) map[string]ast.Expression {
	out := make(map[string]ast.Expression, len(m))
	for k, v := range m {
		if k != name {
			out[k] = v
		}
	}
	return out
}
