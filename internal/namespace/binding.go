package namespace

import (
	"strings"

	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/token"
	"github.com/funvibe/vega/internal/typegraph"
)

type BindingKind int

const (
	TypeBinding BindingKind = iota
	FunctionBinding
	MacroBinding
	ConstantBinding
	NamespaceBinding
)

func (k BindingKind) String() string {
	switch k {
	case TypeBinding:
		return "type"
	case FunctionBinding:
		return "function"
	case MacroBinding:
		return "macro"
	case ConstantBinding:
		return "constant"
	case NamespaceBinding:
		return "namespace"
	}
	return "unknown"
}

// Binding is one entry in a namespace table. Exactly one of the payload
// fields is set, per Kind.
type Binding struct {
	Name      string
	Kind      BindingKind
	Token     token.Token // Declaration site, for diagnostics and the index
	Type      typegraph.TypeRef
	Function  *Function
	Macro     *ast.MacroDecl
	Constant  ast.Expression
	Namespace *Namespace
}

// Method is one entry in a Function's method table.
type Method struct {
	ParamNames []string
	ParamTypes []typegraph.TypeRef
	Body       ast.Expression
	Token      token.Token
}

// Function is a named, ordered-by-registration method set. The set grows
// monotonically during declaration processing and freezes with its
// namespace.
type Function struct {
	Name    string
	Methods []*Method
}

// Signature renders a method's parameter types for diagnostics.
func (m *Method) Signature(g *typegraph.Graph) string {
	parts := make([]string, len(m.ParamTypes))
	for i, ref := range m.ParamTypes {
		parts[i] = g.NameOf(ref)
	}
	return strings.Join(parts, ", ")
}

// AddMethod appends a method, rejecting a duplicate whose parameter types
// are identical after alias resolution.
func (f *Function) AddMethod(m *Method, g *typegraph.Graph) *diagnostics.DiagnosticError {
	for _, existing := range f.Methods {
		if sameSignature(existing, m, g) {
			return diagnostics.NewError(diagnostics.ErrD004, m.Token, f.Name, m.Signature(g))
		}
	}
	f.Methods = append(f.Methods, m)
	return nil
}

func sameSignature(a, b *Method, g *typegraph.Graph) bool {
	if len(a.ParamTypes) != len(b.ParamTypes) {
		return false
	}
	for i := range a.ParamTypes {
		ra, errA := g.ResolveAlias(a.ParamTypes[i])
		rb, errB := g.ResolveAlias(b.ParamTypes[i])
		if errA != nil || errB != nil || ra != rb {
			return false
		}
	}
	return true
}
