package loader

import (
	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/token"
)

// decodeExpression builds an AST expression from its YAML form. Forms:
//
//	{ident: x} {int: 1} {float: 1.5} {string: s}
//	{call: f, args: [...]} {invoke: m, args: [...]}
//	{block: [...]} {let: tmp, value: e, in: e}
func decodeExpression(v interface{}, file string) (ast.Expression, *diagnostics.DiagnosticError) {
	tok := token.Token{File: file}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrL001, tok, "expression must be a mapping")
	}

	if name, ok := m["ident"].(string); ok {
		return ident(name, file), nil
	}
	if n, ok := intValue(m["int"]); ok {
		return &ast.IntegerLiteral{Token: token.Token{Kind: token.LITERAL, File: file}, Value: int64(n)}, nil
	}
	if f, ok := floatValue(m["float"]); ok {
		return &ast.FloatLiteral{Token: token.Token{Kind: token.LITERAL, File: file}, Value: f}, nil
	}
	if s, ok := m["string"].(string); ok {
		return &ast.StringLiteral{Token: token.Token{Kind: token.LITERAL, Lexeme: s, File: file}, Value: s}, nil
	}

	if name, ok := m["call"].(string); ok {
		args, err := decodeExpressions(m["args"], file)
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Token: tok, Function: ident(name, file), Args: args}, nil
	}
	if name, ok := m["invoke"].(string); ok {
		args, err := decodeExpressions(m["args"], file)
		if err != nil {
			return nil, err
		}
		return &ast.MacroInvocation{
			Token: token.Token{Kind: token.MACRO_IDENT, Lexeme: name, File: file},
			Name:  ident(name, file),
			Args:  args,
		}, nil
	}

	if rawBlock, ok := m["block"]; ok {
		exprs, err := decodeExpressions(rawBlock, file)
		if err != nil {
			return nil, err
		}
		return &ast.BlockExpr{Token: tok, Exprs: exprs}, nil
	}
	if name, ok := m["let"].(string); ok {
		value, err := decodeExpression(m["value"], file)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpression(m["in"], file)
		if err != nil {
			return nil, err
		}
		return &ast.LetExpr{Token: tok, Name: ident(name, file), Value: value, Body: body}, nil
	}

	return nil, diagnostics.NewError(diagnostics.ErrL001, tok, "unrecognized expression form")
}

func decodeExpressions(v interface{}, file string) ([]ast.Expression, *diagnostics.DiagnosticError) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrL001, token.Token{File: file}, "expected a sequence of expressions")
	}
	out := make([]ast.Expression, 0, len(raw))
	for _, item := range raw {
		expr, err := decodeExpression(item, file)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func floatValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
