package engine

import (
	"testing"

	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/namespace"
	"github.com/funvibe/vega/internal/token"
	"github.com/funvibe/vega/internal/typegraph"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Value: name} }
func typeName(name string) *ast.TypeName {
	return &ast.TypeName{Value: name}
}

func abstract(name string, parent string) *ast.AbstractTypeDecl {
	d := &ast.AbstractTypeDecl{Name: ident(name)}
	if parent != "" {
		d.Parent = typeName(parent)
	}
	return d
}

func concrete(name, parent string, fields ...*ast.FieldDecl) *ast.ConcreteTypeDecl {
	d := &ast.ConcreteTypeDecl{Name: ident(name), Fields: fields}
	if parent != "" {
		d.Parent = typeName(parent)
	}
	return d
}

func field(name, typ string) *ast.FieldDecl {
	return &ast.FieldDecl{Name: ident(name), Type: typeName(typ)}
}

func function(name string, body ast.Expression, params ...*ast.ParamDecl) *ast.FunctionDecl {
	return &ast.FunctionDecl{Name: ident(name), Params: params, Body: body}
}

func param(name, typ string) *ast.ParamDecl {
	return &ast.ParamDecl{Name: ident(name), Type: typeName(typ)}
}

func unit(decls ...ast.Statement) *ast.Unit {
	return &ast.Unit{File: "test.unit", Declarations: decls}
}

func mustSession(t *testing.T, u *ast.Unit) *Session {
	t.Helper()
	s := New().ProcessUnit(u)
	if s.Ctx.Failed() {
		t.Fatalf("unit failed: %v", s.Ctx.Errors[0])
	}
	return s
}

func failCode(t *testing.T, u *ast.Unit, want diagnostics.ErrorCode) {
	t.Helper()
	s := New().ProcessUnit(u)
	if !s.Ctx.Failed() {
		t.Fatalf("unit succeeded, want %s", want)
	}
	if got := s.Ctx.Errors[0].Code; got != want {
		t.Errorf("error code = %s, want %s (%v)", got, want, s.Ctx.Errors[0])
	}
}

func TestProcessUnitDeclaresAndDispatches(t *testing.T) {
	s := mustSession(t, unit(
		abstract("Shape", ""),
		concrete("Circle", "Shape", field("radius", "Float64")),
		concrete("Square", "Shape", field("side", "Float64")),
		function("area", ident("r"), param("s", "Shape")),
		function("area", ident("r"), param("c", "Circle")),
	))

	circle, ok := s.TypeRef("Circle")
	if !ok {
		t.Fatal("Circle not bound")
	}
	m, err := s.Resolve("area", []typegraph.TypeRef{circle}, token.Token{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if s.Ctx.Graph.NameOf(m.ParamTypes[0]) != "Circle" {
		t.Errorf("dispatched to method on %s, want Circle", s.Ctx.Graph.NameOf(m.ParamTypes[0]))
	}

	square, _ := s.TypeRef("Square")
	m, err = s.Resolve("area", []typegraph.TypeRef{square}, token.Token{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if s.Ctx.Graph.NameOf(m.ParamTypes[0]) != "Shape" {
		t.Errorf("dispatched to method on %s, want Shape", s.Ctx.Graph.NameOf(m.ParamTypes[0]))
	}
}

func TestProcessUnitInstantiates(t *testing.T) {
	s := mustSession(t, unit(
		concrete("Circle", "", field("radius", "Float64")),
	))

	radius, err := s.InstantiateBits("Float64", funbit.NewBitStringFromBytes(make([]byte, 8)), token.Token{})
	if err != nil {
		t.Fatalf("InstantiateBits failed: %v", err)
	}
	v, err := s.Instantiate("Circle", []typegraph.Value{radius}, token.Token{})
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	if s.Ctx.Graph.NameOf(v.ValueType()) != "Circle" {
		t.Errorf("value type = %s, want Circle", s.Ctx.Graph.NameOf(v.ValueType()))
	}
}

func TestCorePrimitivesAlwaysVisible(t *testing.T) {
	s := mustSession(t, unit())
	for _, name := range []string{"Any", "Int64", "Float64", "Bool"} {
		if _, ok := s.TypeRef(name); !ok {
			t.Errorf("core type %s not visible", name)
		}
	}
}

func TestStdConstantVisibility(t *testing.T) {
	e := New()
	e.StdConstants["pi"] = &ast.FloatLiteral{Value: 3.141592653589793}

	s := e.ProcessUnit(unit(
		&ast.ModuleDecl{Name: ident("Sandbox"), Bare: true, Body: []ast.Statement{
			&ast.ConstantDecl{Name: ident("local"), Value: &ast.IntegerLiteral{Value: 1}},
		}},
	))
	if s.Ctx.Failed() {
		t.Fatalf("unit failed: %v", s.Ctx.Errors[0])
	}

	// Full root sees the standard constant unqualified.
	if _, ok := s.Ctx.Namespace.Lookup("pi"); !ok {
		t.Error("full root namespace should see Std constant")
	}
	// The closed bare module's symbols are reachable qualified.
	if _, ok := s.Ctx.Namespace.Lookup("Sandbox.local"); !ok {
		t.Error("qualified lookup into closed bare module failed")
	}
	// Lookups starting inside the bare module never see Std.
	b, ok := s.Ctx.Namespace.Lookup("Sandbox")
	if !ok || b.Kind != namespace.NamespaceBinding {
		t.Fatal("bare module not bound in parent")
	}
	if _, ok := b.Namespace.Lookup("pi"); ok {
		t.Error("bare module must not see Std constant")
	}
	if _, ok := b.Namespace.Lookup("Int64"); !ok {
		t.Error("bare module should still see Core primitives")
	}
}

func TestModuleQualifiedTypes(t *testing.T) {
	s := mustSession(t, unit(
		&ast.ModuleDecl{Name: ident("Geometry"), Body: []ast.Statement{
			abstract("Shape", ""),
			concrete("Circle", "Shape", field("radius", "Float64")),
		}},
	))

	if _, ok := s.TypeRef("Geometry.Circle"); !ok {
		t.Error("qualified type Geometry.Circle not bound after module close")
	}
	if _, ok := s.TypeRef("Circle"); ok {
		t.Error("unqualified Circle must not leak out of the module")
	}
}

func aliasDecl(name, target string) *ast.AliasDecl {
	return &ast.AliasDecl{Name: ident(name), Target: typeName(target)}
}

func TestForwardAliasTarget(t *testing.T) {
	// Radius names Scalar before Scalar is declared in the same block.
	s := mustSession(t, unit(
		aliasDecl("Radius", "Scalar"),
		aliasDecl("Scalar", "Float64"),
	))

	radius, ok := s.TypeRef("Radius")
	if !ok {
		t.Fatal("Radius not bound")
	}
	resolved, err := s.Ctx.Graph.ResolveAlias(radius)
	if err != nil {
		t.Fatalf("ResolveAlias failed: %v", err)
	}
	f64, _ := s.TypeRef("Float64")
	if resolved != f64 {
		t.Errorf("Radius resolved to %s, want Float64", s.Ctx.Graph.NameOf(resolved))
	}
}

func TestAliasCycleInUnit(t *testing.T) {
	failCode(t, unit(
		aliasDecl("A", "B"),
		aliasDecl("B", "A"),
	), diagnostics.ErrT003)
}

func TestSelfAliasInUnit(t *testing.T) {
	failCode(t, unit(
		aliasDecl("A", "A"),
	), diagnostics.ErrT003)
}

func TestMacroExpansionEndToEnd(t *testing.T) {
	// macro defarea(t) => area(t); defarea!(shape) at top level.
	s := mustSession(t, unit(
		&ast.MacroDecl{
			Name:   ident("defarea"),
			Params: []*ast.Identifier{ident("t")},
			Body:   &ast.CallExpr{Function: ident("area"), Args: []ast.Expression{ident("t")}},
		},
		&ast.ExpressionStatement{Expression: &ast.MacroInvocation{
			Name: ident("defarea"),
			Args: []ast.Expression{ident("shape")},
		}},
	))

	if len(s.Ctx.TopLevel) != 1 {
		t.Fatalf("TopLevel count = %d, want 1", len(s.Ctx.TopLevel))
	}
	c, ok := s.Ctx.TopLevel[0].(*ast.CallExpr)
	if !ok {
		t.Fatalf("top-level expression is %T, want expanded *ast.CallExpr", s.Ctx.TopLevel[0])
	}
	if c.Function.Value != "area" {
		t.Errorf("expanded call target = %s, want area", c.Function.Value)
	}
}

func TestResolveInModuleShadowingRootFunction(t *testing.T) {
	s := mustSession(t, unit(
		concrete("Circle", "", field("radius", "Float64")),
		function("area", ident("rootBody"), param("c", "Circle")),
		&ast.ModuleDecl{Name: ident("M"), Body: []ast.Statement{
			function("area", ident("moduleBody"), param("c", "Circle")),
		}},
	))

	circle, ok := s.TypeRef("Circle")
	if !ok {
		t.Fatal("Circle not bound")
	}
	rootMethod, err := s.Resolve("area", []typegraph.TypeRef{circle}, token.Token{})
	if err != nil {
		t.Fatalf("root Resolve failed: %v", err)
	}
	if body, ok := rootMethod.Body.(*ast.Identifier); !ok || body.Value != "rootBody" {
		t.Errorf("root resolution selected %v, want the root-level method", rootMethod.Body)
	}

	b, ok := s.Ctx.Namespace.Lookup("M")
	if !ok || b.Kind != namespace.NamespaceBinding {
		t.Fatal("module M not bound")
	}
	moduleMethod, err := s.ResolveIn(b.Namespace, "area", []typegraph.TypeRef{circle}, token.Token{})
	if err != nil {
		t.Fatalf("ResolveIn failed: %v", err)
	}
	if body, ok := moduleMethod.Body.(*ast.Identifier); !ok || body.Value != "moduleBody" {
		t.Errorf("module resolution selected %v, want the module's own method", moduleMethod.Body)
	}
}

func TestDuplicateTypeName(t *testing.T) {
	failCode(t, unit(
		abstract("Shape", ""),
		abstract("Shape", ""),
	), diagnostics.ErrT001)
}

func TestUnknownParentType(t *testing.T) {
	failCode(t, unit(
		concrete("Circle", "Shape"),
	), diagnostics.ErrT002)
}

func TestUnknownFieldType(t *testing.T) {
	failCode(t, unit(
		concrete("Circle", "", field("radius", "Radius")),
	), diagnostics.ErrT004)
}

func TestInvalidBitWidth(t *testing.T) {
	failCode(t, unit(
		&ast.PrimitiveTypeDecl{Name: ident("Zero"), BitWidth: 0},
	), diagnostics.ErrT009)
}

func TestFunctionNameCollision(t *testing.T) {
	failCode(t, unit(
		&ast.ConstantDecl{Name: ident("area"), Value: &ast.IntegerLiteral{Value: 1}},
		function("area", ident("r"), param("s", "Any")),
	), diagnostics.ErrN001)
}

func TestDuplicateMethodSignature(t *testing.T) {
	failCode(t, unit(
		abstract("Shape", ""),
		function("area", ident("a"), param("s", "Shape")),
		function("area", ident("b"), param("t", "Shape")),
	), diagnostics.ErrD004)
}

func TestUnknownMacroAborts(t *testing.T) {
	failCode(t, unit(
		&ast.ExpressionStatement{Expression: &ast.MacroInvocation{Name: ident("nope")}},
	), diagnostics.ErrM003)
}

func TestFailedUnitRunsNoRegistration(t *testing.T) {
	s := New().ProcessUnit(unit(
		abstract("Shape", ""),
		&ast.ExpressionStatement{Expression: &ast.MacroInvocation{Name: ident("nope")}},
	))
	if !s.Ctx.Failed() {
		t.Fatal("unit should have failed in expansion")
	}
	// Registration never ran, so the type from the first declaration is
	// not bound.
	if _, ok := s.TypeRef("Shape"); ok {
		t.Error("registration ran despite expansion failure")
	}
}

func TestErrorCarriesFile(t *testing.T) {
	s := New().ProcessUnit(unit(
		concrete("Circle", "Shape"),
	))
	if !s.Ctx.Failed() {
		t.Fatal("unit should have failed")
	}
	if s.Ctx.Errors[0].File != "test.unit" {
		t.Errorf("error file = %q, want test.unit", s.Ctx.Errors[0].File)
	}
}

func TestIndependentUnits(t *testing.T) {
	e := New()
	a := e.ProcessUnit(unit(abstract("Shape", "")))
	b := e.ProcessUnit(unit(abstract("Color", "")))
	if a.Ctx.Failed() || b.Ctx.Failed() {
		t.Fatal("units failed")
	}
	if _, ok := a.TypeRef("Color"); ok {
		t.Error("types leaked across units")
	}
	if _, ok := b.TypeRef("Shape"); ok {
		t.Error("types leaked across units")
	}
}
