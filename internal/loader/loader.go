package loader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/config"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/token"
)

// IsUnitFile checks if a path has a recognized declaration-unit extension.
func IsUnitFile(path string) bool {
	for _, ext := range config.UnitFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// LoadUnit reads and decodes one declaration-unit file. The engine itself
// consumes AST values; the YAML form is just the interchange format a front
// end may hand units over in.
func LoadUnit(path string) (*ast.Unit, *diagnostics.DiagnosticError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostics.NewError(diagnostics.ErrL001, token.Token{File: path}, err.Error())
	}
	return ParseUnit(data, path)
}

type unitDoc struct {
	File         string                   `yaml:"file"`
	Declarations []map[string]interface{} `yaml:"declarations"`
}

// ParseUnit decodes a YAML unit document into an AST unit.
func ParseUnit(data []byte, file string) (*ast.Unit, *diagnostics.DiagnosticError) {
	var doc unitDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, diagnostics.NewError(diagnostics.ErrL001, token.Token{File: file}, err.Error())
	}
	if doc.File == "" {
		doc.File = file
	}
	decls, derr := decodeStatements(doc.Declarations, file)
	if derr != nil {
		return nil, derr
	}
	return &ast.Unit{File: doc.File, Declarations: decls}, nil
}

func decodeStatements(raw []map[string]interface{}, file string) ([]ast.Statement, *diagnostics.DiagnosticError) {
	out := make([]ast.Statement, 0, len(raw))
	for _, m := range raw {
		stmt, err := decodeStatement(m, file)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeStatement(m map[string]interface{}, file string) (ast.Statement, *diagnostics.DiagnosticError) {
	kind, _ := m["kind"].(string)
	tok := token.Token{File: file, Lexeme: kind}

	name, nameOK := m["name"].(string)
	requireName := func() (*ast.Identifier, *diagnostics.DiagnosticError) {
		if !nameOK || name == "" {
			return nil, diagnostics.NewError(diagnostics.ErrL003, tok, kind, "name")
		}
		return ident(name, file), nil
	}

	switch kind {
	case "module":
		id, err := requireName()
		if err != nil {
			return nil, err
		}
		bare, _ := m["bare"].(bool)
		bodyRaw, err2 := sliceOfMaps(m["body"])
		if err2 != nil {
			return nil, diagnostics.NewError(diagnostics.ErrL001, tok, err2.Error())
		}
		body, derr := decodeStatements(bodyRaw, file)
		if derr != nil {
			return nil, derr
		}
		return &ast.ModuleDecl{Token: tok, Name: id, Bare: bare, Body: body}, nil

	case "abstract":
		id, err := requireName()
		if err != nil {
			return nil, err
		}
		return &ast.AbstractTypeDecl{Token: tok, Name: id, Parent: typeName(m["parent"], file)}, nil

	case "struct":
		id, err := requireName()
		if err != nil {
			return nil, err
		}
		fieldsRaw, err2 := sliceOfMaps(m["fields"])
		if err2 != nil {
			return nil, diagnostics.NewError(diagnostics.ErrL001, tok, err2.Error())
		}
		fields := make([]*ast.FieldDecl, 0, len(fieldsRaw))
		for _, f := range fieldsRaw {
			fname, _ := f["name"].(string)
			ftype, _ := f["type"].(string)
			if fname == "" || ftype == "" {
				return nil, diagnostics.NewError(diagnostics.ErrL003, tok, kind, "fields")
			}
			fields = append(fields, &ast.FieldDecl{
				Token: tok,
				Name:  ident(fname, file),
				Type:  typeName(ftype, file),
			})
		}
		return &ast.ConcreteTypeDecl{Token: tok, Name: id, Parent: typeName(m["parent"], file), Fields: fields}, nil

	case "primitive":
		id, err := requireName()
		if err != nil {
			return nil, err
		}
		bits, ok := intValue(m["bits"])
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrL003, tok, kind, "bits")
		}
		return &ast.PrimitiveTypeDecl{Token: tok, Name: id, Parent: typeName(m["parent"], file), BitWidth: bits}, nil

	case "alias":
		id, err := requireName()
		if err != nil {
			return nil, err
		}
		target := typeName(m["target"], file)
		if target == nil {
			return nil, diagnostics.NewError(diagnostics.ErrL003, tok, kind, "target")
		}
		return &ast.AliasDecl{Token: tok, Name: id, Target: target}, nil

	case "function":
		id, err := requireName()
		if err != nil {
			return nil, err
		}
		paramsRaw, err2 := sliceOfMaps(m["params"])
		if err2 != nil {
			return nil, diagnostics.NewError(diagnostics.ErrL001, tok, err2.Error())
		}
		params := make([]*ast.ParamDecl, 0, len(paramsRaw))
		for _, p := range paramsRaw {
			pname, _ := p["name"].(string)
			ptype, _ := p["type"].(string)
			if pname == "" || ptype == "" {
				return nil, diagnostics.NewError(diagnostics.ErrL003, tok, kind, "params")
			}
			params = append(params, &ast.ParamDecl{
				Token: tok,
				Name:  ident(pname, file),
				Type:  typeName(ptype, file),
			})
		}
		body, derr := decodeExpression(m["body"], file)
		if derr != nil {
			return nil, derr
		}
		return &ast.FunctionDecl{Token: tok, Name: id, Params: params, Body: body}, nil

	case "macro":
		id, err := requireName()
		if err != nil {
			return nil, err
		}
		var params []*ast.Identifier
		if rawParams, ok := m["params"].([]interface{}); ok {
			for _, p := range rawParams {
				pname, _ := p.(string)
				if pname == "" {
					return nil, diagnostics.NewError(diagnostics.ErrL003, tok, kind, "params")
				}
				params = append(params, ident(pname, file))
			}
		}
		body, derr := decodeExpression(m["body"], file)
		if derr != nil {
			return nil, derr
		}
		return &ast.MacroDecl{Token: tok, Name: id, Params: params, Body: body}, nil

	case "const":
		id, err := requireName()
		if err != nil {
			return nil, err
		}
		value, derr := decodeExpression(m["value"], file)
		if derr != nil {
			return nil, derr
		}
		return &ast.ConstantDecl{Token: tok, Name: id, Value: value}, nil

	case "expr":
		expr, derr := decodeExpression(m["value"], file)
		if derr != nil {
			return nil, derr
		}
		return &ast.ExpressionStatement{Token: tok, Expression: expr}, nil

	default:
		return nil, diagnostics.NewError(diagnostics.ErrL002, tok, kind)
	}
}

func ident(name, file string) *ast.Identifier {
	return &ast.Identifier{Token: token.Token{Kind: token.IDENT, Lexeme: name, File: file}, Value: name}
}

func typeName(v interface{}, file string) *ast.TypeName {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &ast.TypeName{Token: token.Token{Kind: token.TYPE_IDENT, Lexeme: s, File: file}, Value: s}
}

func sliceOfMaps(v interface{}) ([]map[string]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a sequence, got %T", v)
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected a mapping, got %T", item)
		}
		out = append(out, m)
	}
	return out, nil
}

// intValue normalizes the numeric types yaml.v3 may hand back.
// Unlike encoding/json, yaml.v3 returns int for integers.
func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
