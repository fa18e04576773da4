package dispatch

import (
	"testing"

	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/namespace"
	"github.com/funvibe/vega/internal/token"
	"github.com/funvibe/vega/internal/typegraph"
)

type fixture struct {
	graph *typegraph.Graph
	ns    *namespace.Namespace
	refs  map[string]typegraph.TypeRef
}

// newFixture builds Any <- Shape <- {Circle, Square} and an "area" function
// with methods on the given parameter type names.
func newFixture(t *testing.T, methodParams ...[]string) *fixture {
	t.Helper()
	g := typegraph.NewGraph()
	refs := map[string]typegraph.TypeRef{"Any": g.Root()}

	shape, err := g.DeclareAbstract("Shape", g.Root(), token.Token{})
	if err != nil {
		t.Fatalf("declare Shape: %v", err)
	}
	circle, err := g.DeclareConcrete("Circle", shape, nil, token.Token{})
	if err != nil {
		t.Fatalf("declare Circle: %v", err)
	}
	square, err := g.DeclareConcrete("Square", shape, nil, token.Token{})
	if err != nil {
		t.Fatalf("declare Square: %v", err)
	}
	refs["Shape"] = shape
	refs["Circle"] = circle
	refs["Square"] = square

	fn := &namespace.Function{Name: "area"}
	for _, params := range methodParams {
		types := make([]typegraph.TypeRef, len(params))
		names := make([]string, len(params))
		for i, p := range params {
			ref, ok := refs[p]
			if !ok {
				t.Fatalf("unknown fixture type %s", p)
			}
			types[i] = ref
			names[i] = "p"
		}
		if err := fn.AddMethod(&namespace.Method{ParamNames: names, ParamTypes: types}, g); err != nil {
			t.Fatalf("AddMethod(%v): %v", params, err)
		}
	}

	ns := namespace.New("Main", namespace.Full, nil, nil)
	ns.Bind(namespace.Binding{Name: "area", Kind: namespace.FunctionBinding, Function: fn}, token.Token{})

	return &fixture{graph: g, ns: ns, refs: refs}
}

func TestResolveMostSpecific(t *testing.T) {
	fx := newFixture(t, []string{"Shape"}, []string{"Circle"})
	d := New(fx.graph)

	m, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if m.ParamTypes[0] != fx.refs["Circle"] {
		t.Errorf("selected method on %s, want Circle", fx.graph.NameOf(m.ParamTypes[0]))
	}

	// A Square only matches the Shape method.
	m, err = d.Resolve("area", []typegraph.TypeRef{fx.refs["Square"]}, fx.ns, token.Token{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if m.ParamTypes[0] != fx.refs["Shape"] {
		t.Errorf("selected method on %s, want Shape", fx.graph.NameOf(m.ParamTypes[0]))
	}
}

func TestNoApplicableMethod(t *testing.T) {
	fx := newFixture(t, []string{"Circle"})
	d := New(fx.graph)

	// An abstract Shape argument does not satisfy a Circle parameter.
	_, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Shape"]}, fx.ns, token.Token{})
	if err == nil {
		t.Fatal("expected NoApplicableMethod error, got none")
	}
	if err.Code != diagnostics.ErrD002 {
		t.Errorf("error code = %s, want %s", err.Code, diagnostics.ErrD002)
	}
}

func TestArityFiltersCandidates(t *testing.T) {
	fx := newFixture(t, []string{"Shape"}, []string{"Shape", "Shape"})
	d := New(fx.graph)

	m, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"], fx.refs["Square"]}, fx.ns, token.Token{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(m.ParamTypes) != 2 {
		t.Errorf("selected %d-ary method, want 2-ary", len(m.ParamTypes))
	}
}

func TestAmbiguousMethod(t *testing.T) {
	// (Circle, Shape) and (Shape, Circle) tie on a (Circle, Circle) call.
	fx := newFixture(t, []string{"Circle", "Shape"}, []string{"Shape", "Circle"})
	d := New(fx.graph)

	_, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"], fx.refs["Circle"]}, fx.ns, token.Token{})
	if err == nil {
		t.Fatal("expected AmbiguousMethod error, got none")
	}
	if err.Code != diagnostics.ErrD003 {
		t.Errorf("error code = %s, want %s", err.Code, diagnostics.ErrD003)
	}
}

func TestAmbiguityBrokenByDominantMethod(t *testing.T) {
	// Adding (Circle, Circle) to the tied pair makes the call unambiguous.
	fx := newFixture(t,
		[]string{"Circle", "Shape"},
		[]string{"Shape", "Circle"},
		[]string{"Circle", "Circle"})
	d := New(fx.graph)

	m, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"], fx.refs["Circle"]}, fx.ns, token.Token{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if m.ParamTypes[0] != fx.refs["Circle"] || m.ParamTypes[1] != fx.refs["Circle"] {
		t.Errorf("selected (%s, %s), want (Circle, Circle)",
			fx.graph.NameOf(m.ParamTypes[0]), fx.graph.NameOf(m.ParamTypes[1]))
	}
}

func TestUnboundFunction(t *testing.T) {
	fx := newFixture(t, []string{"Shape"})
	d := New(fx.graph)

	_, err := d.Resolve("perimeter", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{})
	if err == nil {
		t.Fatal("expected UnboundFunction error, got none")
	}
	if err.Code != diagnostics.ErrD001 {
		t.Errorf("error code = %s, want %s", err.Code, diagnostics.ErrD001)
	}
}

func TestNonFunctionBinding(t *testing.T) {
	fx := newFixture(t, []string{"Shape"})
	fx.ns.Bind(namespace.Binding{Name: "radius", Kind: namespace.ConstantBinding}, token.Token{})
	d := New(fx.graph)

	_, err := d.Resolve("radius", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{})
	if err == nil || err.Code != diagnostics.ErrD001 {
		t.Errorf("got %v, want %s for a non-function binding", err, diagnostics.ErrD001)
	}
}

func TestResolveIsDeterministicAndCached(t *testing.T) {
	fx := newFixture(t, []string{"Shape"}, []string{"Circle"})
	d := New(fx.graph)

	first, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{})
		if err != nil {
			t.Fatalf("repeat Resolve failed: %v", err)
		}
		if again != first {
			t.Fatal("repeated resolution returned a different method")
		}
	}
}

func TestAliasSharesCacheLine(t *testing.T) {
	fx := newFixture(t, []string{"Circle"})
	round, err := fx.graph.DeclareAlias("Round", fx.refs["Circle"], token.Token{})
	if err != nil {
		t.Fatalf("declare alias: %v", err)
	}
	d := New(fx.graph)

	viaConcrete, derr := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{})
	if derr != nil {
		t.Fatalf("Resolve failed: %v", derr)
	}
	viaAlias, derr := d.Resolve("area", []typegraph.TypeRef{round}, fx.ns, token.Token{})
	if derr != nil {
		t.Fatalf("Resolve via alias failed: %v", derr)
	}
	if viaAlias != viaConcrete {
		t.Error("alias-typed argument resolved to a different method than its target")
	}
}

func TestShadowedFunctionResolvesPerNamespace(t *testing.T) {
	fx := newFixture(t, []string{"Circle"})

	// An inner scope binds its own "area" over the same argument type.
	inner := namespace.NewEnclosed(fx.ns, "M", namespace.Full)
	innerFn := &namespace.Function{Name: "area"}
	if err := innerFn.AddMethod(&namespace.Method{
		ParamNames: []string{"c"},
		ParamTypes: []typegraph.TypeRef{fx.refs["Circle"]},
	}, fx.graph); err != nil {
		t.Fatalf("AddMethod: %v", err)
	}
	inner.Bind(namespace.Binding{Name: "area", Kind: namespace.FunctionBinding, Function: innerFn}, token.Token{})

	d := New(fx.graph)
	outerMethod, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{})
	if err != nil {
		t.Fatalf("Resolve in outer failed: %v", err)
	}
	innerMethod, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"]}, inner, token.Token{})
	if err != nil {
		t.Fatalf("Resolve in inner failed: %v", err)
	}
	if innerMethod != innerFn.Methods[0] {
		t.Error("inner-scope resolution returned a method from the outer scope")
	}
	if innerMethod == outerMethod {
		t.Error("shadowed function must resolve per namespace, not per name")
	}

	// Both cache lines stay coherent on repeat.
	again, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{})
	if err != nil {
		t.Fatalf("repeat outer Resolve failed: %v", err)
	}
	if again != outerMethod {
		t.Error("outer resolution changed after an inner-scope lookup")
	}
}

func TestDispatchFailureLeavesStateValid(t *testing.T) {
	fx := newFixture(t, []string{"Circle"})
	d := New(fx.graph)

	if _, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Shape"]}, fx.ns, token.Token{}); err == nil {
		t.Fatal("expected failure for abstract argument")
	}
	// A failed call site does not poison later resolutions.
	if _, err := d.Resolve("area", []typegraph.TypeRef{fx.refs["Circle"]}, fx.ns, token.Token{}); err != nil {
		t.Errorf("resolution after a failed call site failed: %v", err)
	}
}
