package engine

import (
	"github.com/funvibe/funbit/pkg/funbit"
	"github.com/google/uuid"

	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/config"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/dispatch"
	"github.com/funvibe/vega/internal/namespace"
	"github.com/funvibe/vega/internal/pipeline"
	"github.com/funvibe/vega/internal/token"
	"github.com/funvibe/vega/internal/typegraph"
)

// Engine processes declaration units. Each unit gets an independent
// TypeGraph/Namespace pair, so distinct units may be processed from
// different goroutines; a single unit is strictly sequential.
type Engine struct {
	// StdConstants are the bindings of the distinguished standard
	// namespace, supplied by the surrounding front end. Full namespaces
	// see them unqualified; bare namespaces never do.
	StdConstants map[string]ast.Expression
}

func New() *Engine {
	return &Engine{StdConstants: make(map[string]ast.Expression)}
}

// Session is the handle to one processed (and therefore frozen) unit.
// Dispatch resolution and instantiation run against it on demand.
type Session struct {
	Ctx        *pipeline.UnitContext
	dispatcher *dispatch.Dispatcher
}

// ProcessUnit expands and registers one declaration unit. The returned
// session's context carries any declaration-time errors; a failed unit has
// no usable namespace.
func (e *Engine) ProcessUnit(unit *ast.Unit) *Session {
	graph := typegraph.NewGraph()
	core := buildCore(graph)
	std := e.buildStd()
	root := namespace.New(unitName(unit), namespace.Full, std, core)

	ctx := &pipeline.UnitContext{
		UnitID:    uuid.NewString(),
		File:      unit.File,
		Unit:      unit,
		Graph:     graph,
		Namespace: root,
	}

	pipeline.New(&ExpandProcessor{}, &RegisterProcessor{}).Run(ctx)
	root.Freeze()

	return &Session{Ctx: ctx, dispatcher: dispatch.New(graph)}
}

// Resolve selects the most specific method of functionName applicable to
// argTypes, consulting the unit's root namespace.
func (s *Session) Resolve(functionName string, argTypes []typegraph.TypeRef, tok token.Token) (*namespace.Method, *diagnostics.DiagnosticError) {
	return s.dispatcher.Resolve(functionName, argTypes, s.Ctx.Namespace, tok)
}

// ResolveIn is Resolve against an inner namespace (e.g. a closed module
// obtained from a NamespaceBinding), for callers dispatching from inside a
// block's visibility.
func (s *Session) ResolveIn(ns *namespace.Namespace, functionName string, argTypes []typegraph.TypeRef, tok token.Token) (*namespace.Method, *diagnostics.DiagnosticError) {
	return s.dispatcher.Resolve(functionName, argTypes, ns, tok)
}

// TypeRef looks up a type by (possibly qualified) name in the unit's root
// namespace.
func (s *Session) TypeRef(name string) (typegraph.TypeRef, bool) {
	b, ok := s.Ctx.Namespace.Lookup(name)
	if !ok || b.Kind != namespace.TypeBinding {
		return typegraph.NilRef, false
	}
	return b.Type, true
}

// Instantiate builds a record of the named concrete type from field values.
func (s *Session) Instantiate(typeName string, fieldValues []typegraph.Value, tok token.Token) (*typegraph.Record, *diagnostics.DiagnosticError) {
	ref, ok := s.TypeRef(typeName)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT004, tok, typeName)
	}
	return s.Ctx.Graph.Instantiate(ref, fieldValues, tok)
}

// InstantiateBits builds a primitive value of the named type from a raw
// bitstring payload.
func (s *Session) InstantiateBits(typeName string, bits *funbit.BitString, tok token.Token) (*typegraph.Primitive, *diagnostics.DiagnosticError) {
	ref, ok := s.TypeRef(typeName)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT004, tok, typeName)
	}
	return s.Ctx.Graph.InstantiateBits(ref, bits, tok)
}

func unitName(unit *ast.Unit) string {
	if unit.File != "" {
		return unit.File
	}
	return "Main"
}

// buildCore declares the built-in primitives into the unit's graph and
// binds them (plus the root type) into a frozen Core table. Core bindings
// stay visible even to bare namespaces.
func buildCore(graph *typegraph.Graph) *namespace.Namespace {
	core := namespace.New(config.CoreNamespaceName, namespace.Bare, nil, nil)
	bind := func(name string, ref typegraph.TypeRef) {
		// Core is assembled before any user declaration; binds cannot fail.
		_ = core.Bind(namespace.Binding{Name: name, Kind: namespace.TypeBinding, Type: ref}, token.Token{})
	}
	bind(config.RootTypeName, graph.Root())

	intRef, _ := graph.DeclarePrimitive(config.IntTypeName, graph.Root(), config.IntBitWidth, token.Token{})
	floatRef, _ := graph.DeclarePrimitive(config.FloatTypeName, graph.Root(), config.FloatBitWidth, token.Token{})
	boolRef, _ := graph.DeclarePrimitive(config.BoolTypeName, graph.Root(), config.BoolBitWidth, token.Token{})
	bind(config.IntTypeName, intRef)
	bind(config.FloatTypeName, floatRef)
	bind(config.BoolTypeName, boolRef)

	core.Freeze()
	return core
}

// buildStd assembles the distinguished standard namespace from the
// caller-supplied constants. It is frozen before any unit processing, per
// the dependency-ordering precondition on cross-unit references.
func (e *Engine) buildStd() *namespace.Namespace {
	std := namespace.New(config.StdNamespaceName, namespace.Full, nil, nil)
	for name, value := range e.StdConstants {
		_ = std.Bind(namespace.Binding{Name: name, Kind: namespace.ConstantBinding, Constant: value}, token.Token{})
	}
	std.Freeze()
	return std
}
