package engine

import (
	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/namespace"
	"github.com/funvibe/vega/internal/pipeline"
	"github.com/funvibe/vega/internal/typegraph"
)

// RegisterProcessor is the second stage: it walks the expanded declaration
// list in order, building TypeGraph entries and Namespace bindings as it
// goes. The first declaration-time error aborts the unit; the error carries
// the offending declaration's identity.
type RegisterProcessor struct{}

func (rp *RegisterProcessor) Process(ctx *pipeline.UnitContext) *pipeline.UnitContext {
	if err := registerStatements(ctx, ctx.Unit.Declarations, ctx.Namespace); err != nil {
		if err.File == "" {
			err.File = ctx.File
		}
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

func registerStatements(ctx *pipeline.UnitContext, stmts []ast.Statement, ns *namespace.Namespace) *diagnostics.DiagnosticError {
	pending, err := declareAliases(ctx, stmts, ns)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := registerStatement(ctx, stmt, ns, pending); err != nil {
			return err
		}
	}
	return nil
}

// declareAliases pre-declares the block's aliases as pending graph nodes,
// so an alias target may name an alias declared later in the same block.
// Cycles among them then surface as CyclicAlias at completion.
func declareAliases(ctx *pipeline.UnitContext, stmts []ast.Statement, ns *namespace.Namespace) (map[*ast.AliasDecl]typegraph.TypeRef, *diagnostics.DiagnosticError) {
	pending := make(map[*ast.AliasDecl]typegraph.TypeRef)
	for _, stmt := range stmts {
		node, ok := stmt.(*ast.AliasDecl)
		if !ok {
			continue
		}
		if ns.IsBoundLocally(node.Name.Value) {
			return nil, diagnostics.NewError(diagnostics.ErrT001, node.Name.GetToken(), node.Name.Value)
		}
		ref := ctx.Graph.DeclareAliasPending(node.Name.Value)
		if err := bindType(ns, node.Name, ref); err != nil {
			return nil, err
		}
		pending[node] = ref
	}
	return pending, nil
}

func registerStatement(ctx *pipeline.UnitContext, stmt ast.Statement, ns *namespace.Namespace, pending map[*ast.AliasDecl]typegraph.TypeRef) *diagnostics.DiagnosticError {
	switch node := stmt.(type) {
	case *ast.ModuleDecl:
		policy := namespace.Full
		if node.Bare {
			policy = namespace.Bare
		}
		child := namespace.NewEnclosed(ns, node.Name.Value, policy)
		if err := registerStatements(ctx, node.Body, child); err != nil {
			return err
		}
		// Closing transfers the child's bindings into ns under qualified
		// names; blocks are strictly nested so this happens child-first.
		return child.Close()

	case *ast.AbstractTypeDecl:
		parent, err := resolveParent(ctx, ns, node.Parent, node.Name)
		if err != nil {
			return err
		}
		if ns.IsBoundLocally(node.Name.Value) {
			return diagnostics.NewError(diagnostics.ErrT001, node.Name.GetToken(), node.Name.Value)
		}
		ref, err := ctx.Graph.DeclareAbstract(node.Name.Value, parent, node.GetToken())
		if err != nil {
			return err
		}
		return bindType(ns, node.Name, ref)

	case *ast.ConcreteTypeDecl:
		parent, err := resolveParent(ctx, ns, node.Parent, node.Name)
		if err != nil {
			return err
		}
		if ns.IsBoundLocally(node.Name.Value) {
			return diagnostics.NewError(diagnostics.ErrT001, node.Name.GetToken(), node.Name.Value)
		}
		fields := make([]typegraph.Field, len(node.Fields))
		for i, f := range node.Fields {
			fieldType, err := resolveTypeName(ctx, ns, f.Type)
			if err != nil {
				return err
			}
			fields[i] = typegraph.Field{Name: f.Name.Value, Type: fieldType}
		}
		ref, err := ctx.Graph.DeclareConcrete(node.Name.Value, parent, fields, node.GetToken())
		if err != nil {
			return err
		}
		return bindType(ns, node.Name, ref)

	case *ast.PrimitiveTypeDecl:
		parent, err := resolveParent(ctx, ns, node.Parent, node.Name)
		if err != nil {
			return err
		}
		if ns.IsBoundLocally(node.Name.Value) {
			return diagnostics.NewError(diagnostics.ErrT001, node.Name.GetToken(), node.Name.Value)
		}
		if node.BitWidth <= 0 {
			return diagnostics.NewError(diagnostics.ErrT009, node.GetToken(), node.Name.Value, node.BitWidth)
		}
		ref, err := ctx.Graph.DeclarePrimitive(node.Name.Value, parent, node.BitWidth, node.GetToken())
		if err != nil {
			return err
		}
		return bindType(ns, node.Name, ref)

	case *ast.AliasDecl:
		// Already bound as a pending node by declareAliases; completing it
		// runs the cycle check over the now-known target chain.
		target, err := resolveTypeName(ctx, ns, node.Target)
		if err != nil {
			return err
		}
		return ctx.Graph.CompleteAlias(pending[node], target, node.GetToken())

	case *ast.FunctionDecl:
		return registerFunction(ctx, node, ns)

	case *ast.MacroDecl:
		return ns.Bind(namespace.Binding{
			Name:  node.Name.Value,
			Kind:  namespace.MacroBinding,
			Token: node.Name.GetToken(),
			Macro: node,
		}, node.Name.GetToken())

	case *ast.ConstantDecl:
		return ns.Bind(namespace.Binding{
			Name:     node.Name.Value,
			Kind:     namespace.ConstantBinding,
			Token:    node.Name.GetToken(),
			Constant: node.Value,
		}, node.Name.GetToken())

	case *ast.ExpressionStatement:
		// Expanded top-level expressions are collected in declaration
		// order for the external evaluator.
		ctx.TopLevel = append(ctx.TopLevel, node.Expression)
		return nil

	default:
		return diagnostics.NewError(diagnostics.ErrL002, stmt.GetToken(), stmt.TokenLiteral())
	}
}

func registerFunction(ctx *pipeline.UnitContext, node *ast.FunctionDecl, ns *namespace.Namespace) *diagnostics.DiagnosticError {
	paramNames := make([]string, len(node.Params))
	paramTypes := make([]typegraph.TypeRef, len(node.Params))
	for i, p := range node.Params {
		ref, err := resolveTypeName(ctx, ns, p.Type)
		if err != nil {
			return err
		}
		paramNames[i] = p.Name.Value
		paramTypes[i] = ref
	}
	method := &namespace.Method{
		ParamNames: paramNames,
		ParamTypes: paramTypes,
		Body:       node.Body,
		Token:      node.GetToken(),
	}

	if existing, ok := ns.Lookup(node.Name.Value); ok && ns.IsBoundLocally(node.Name.Value) {
		if existing.Kind != namespace.FunctionBinding {
			return diagnostics.NewError(diagnostics.ErrN001, node.Name.GetToken(), node.Name.Value)
		}
		return existing.Function.AddMethod(method, ctx.Graph)
	}

	fn := &namespace.Function{Name: node.Name.Value}
	if err := fn.AddMethod(method, ctx.Graph); err != nil {
		return err
	}
	return ns.Bind(namespace.Binding{
		Name:     node.Name.Value,
		Kind:     namespace.FunctionBinding,
		Token:    node.Name.GetToken(),
		Function: fn,
	}, node.Name.GetToken())
}

func bindType(ns *namespace.Namespace, name *ast.Identifier, ref typegraph.TypeRef) *diagnostics.DiagnosticError {
	return ns.Bind(namespace.Binding{
		Name:  name.Value,
		Kind:  namespace.TypeBinding,
		Token: name.GetToken(),
		Type:  ref,
	}, name.GetToken())
}

// resolveParent resolves a declaration's parent reference, defaulting to
// the distinguished root; the referenced binding must be a type, and alias
// parents resolve to their targets before entering the tree.
func resolveParent(ctx *pipeline.UnitContext, ns *namespace.Namespace, parent *ast.TypeName, declName *ast.Identifier) (typegraph.TypeRef, *diagnostics.DiagnosticError) {
	if parent == nil {
		return ctx.Graph.Root(), nil
	}
	b, ok := ns.Lookup(parent.Value)
	if !ok || b.Kind != namespace.TypeBinding {
		return typegraph.NilRef, diagnostics.NewError(diagnostics.ErrT002, parent.GetToken(), parent.Value, declName.Value)
	}
	resolved, err := ctx.Graph.ResolveAlias(b.Type)
	if err != nil {
		return typegraph.NilRef, diagnostics.NewError(diagnostics.ErrT002, parent.GetToken(), parent.Value, declName.Value)
	}
	return resolved, nil
}

// resolveTypeName resolves a field, alias-target or parameter type
// reference against the enclosing namespace. Aliases are kept as-is here;
// graph operations resolve them on use.
func resolveTypeName(ctx *pipeline.UnitContext, ns *namespace.Namespace, name *ast.TypeName) (typegraph.TypeRef, *diagnostics.DiagnosticError) {
	if name == nil {
		return typegraph.NilRef, diagnostics.NewError(diagnostics.ErrT004, name.GetToken(), "")
	}
	b, ok := ns.Lookup(name.Value)
	if !ok || b.Kind != namespace.TypeBinding {
		return typegraph.NilRef, diagnostics.NewError(diagnostics.ErrT004, name.GetToken(), name.Value)
	}
	return b.Type, nil
}
