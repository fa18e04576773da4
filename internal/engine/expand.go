package engine

import (
	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/macro"
	"github.com/funvibe/vega/internal/pipeline"
)

// ExpandProcessor is the first stage: it rewrites every macro invocation in
// the unit into ordinary expression nodes. It runs strictly before any
// binding or type resolution; the only state it reads is the syntactic
// macro table it builds as it walks the declaration list in order.
type ExpandProcessor struct{}

func (ep *ExpandProcessor) Process(ctx *pipeline.UnitContext) *pipeline.UnitContext {
	expander := macro.NewExpander()
	table := macro.NewTable()
	decls, err := expandStatements(ctx.Unit.Declarations, expander, table)
	if err != nil {
		if err.File == "" {
			err.File = ctx.File
		}
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Unit = &ast.Unit{File: ctx.Unit.File, Declarations: decls}
	return ctx
}

func expandStatements(stmts []ast.Statement, expander *macro.Expander, table *macro.Table) ([]ast.Statement, *diagnostics.DiagnosticError) {
	out := make([]ast.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		switch node := stmt.(type) {
		case *ast.MacroDecl:
			// Definitions become visible to all later declarations in the
			// same block; the template itself expands lazily, at use.
			table.Define(node)
			out = append(out, node)

		case *ast.ModuleDecl:
			child := macro.NewEnclosedTable(table)
			body, err := expandStatements(node.Body, expander, child)
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.ModuleDecl{Token: node.Token, Name: node.Name, Bare: node.Bare, Body: body})

		case *ast.FunctionDecl:
			body, err := expander.ExpandExpr(node.Body, table)
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.FunctionDecl{Token: node.Token, Name: node.Name, Params: node.Params, Body: body})

		case *ast.ConstantDecl:
			value, err := expander.ExpandExpr(node.Value, table)
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.ConstantDecl{Token: node.Token, Name: node.Name, Value: value})

		case *ast.ExpressionStatement:
			expr, err := expander.ExpandExpr(node.Expression, table)
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.ExpressionStatement{Token: node.Token, Expression: expr})

		case *ast.MacroInvocation:
			// A top-level invocation expands to an ordinary expression
			// statement.
			expr, err := expander.ExpandExpr(node, table)
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.ExpressionStatement{Token: node.Token, Expression: expr})

		default:
			// Type declarations carry no expression positions.
			out = append(out, stmt)
		}
	}
	return out, nil
}
