package namespace

import (
	"sort"

	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/token"
)

// ImportPolicy controls what a namespace sees without qualification.
type ImportPolicy int

const (
	// Full namespaces see all bindings of the distinguished standard
	// namespace unqualified.
	Full ImportPolicy = iota
	// Bare namespaces see only their own bindings and Core-level
	// primitives; nothing is auto-imported. Bareness is sticky: a bare
	// block never consults Std, even through an enclosing Full namespace.
	Bare
)

// Namespace owns symbol bindings for one scope. It is populated
// incrementally in declaration order and frozen when its block closes.
type Namespace struct {
	name   string
	store  map[string]Binding
	outer  *Namespace
	policy ImportPolicy

	// std and core are the distinguished standard and primitive tables,
	// shared by every namespace of a unit. They must be frozen before the
	// unit starts processing.
	std  *Namespace
	core *Namespace

	closed bool
}

// New creates a root namespace for a declaration unit. std and core may be
// nil for self-contained units.
func New(name string, policy ImportPolicy, std, core *Namespace) *Namespace {
	return &Namespace{
		name:   name,
		store:  make(map[string]Binding),
		policy: policy,
		std:    std,
		core:   core,
	}
}

// NewEnclosed creates a child namespace. The child inherits the unit's
// Std/Core tables but carries its own import policy.
func NewEnclosed(outer *Namespace, name string, policy ImportPolicy) *Namespace {
	ns := New(name, policy, outer.std, outer.core)
	ns.outer = outer
	return ns
}

func (ns *Namespace) Name() string         { return ns.name }
func (ns *Namespace) Policy() ImportPolicy { return ns.policy }
func (ns *Namespace) Outer() *Namespace    { return ns.outer }
func (ns *Namespace) IsClosed() bool       { return ns.closed }

// Bind adds a binding to this scope. Names are unique within one
// namespace; shadowing across nested namespaces is legal.
func (ns *Namespace) Bind(b Binding, tok token.Token) *diagnostics.DiagnosticError {
	if ns.closed {
		return diagnostics.NewError(diagnostics.ErrN003, tok, ns.name)
	}
	if _, exists := ns.store[b.Name]; exists {
		return diagnostics.NewError(diagnostics.ErrN001, tok, b.Name)
	}
	ns.store[b.Name] = b
	return nil
}

// IsBoundLocally checks this scope's own table only (shallow check).
func (ns *Namespace) IsBoundLocally(name string) bool {
	_, ok := ns.store[name]
	return ok
}

// local returns a binding from this scope's own table only.
func (ns *Namespace) local(name string) (Binding, bool) {
	b, ok := ns.store[name]
	return b, ok
}

// Lookup resolves name innermost-first: this scope, then (for Full lookups)
// the standard namespace, then the enclosing scope under the same rule.
// A lookup that starts in a Bare namespace never consults Std at any level;
// Core primitives remain visible to everyone.
func (ns *Namespace) Lookup(name string) (Binding, bool) {
	allowStd := ns.policy == Full
	for cur := ns; cur != nil; cur = cur.outer {
		if b, ok := cur.local(name); ok {
			return b, true
		}
		if allowStd && cur.policy == Full && cur.std != nil {
			if b, ok := cur.std.local(name); ok {
				return b, true
			}
		}
	}
	if ns.core != nil {
		if b, ok := ns.core.local(name); ok {
			return b, true
		}
	}
	return Binding{}, false
}

// LookupOrError is Lookup with an UnboundName diagnostic on failure.
func (ns *Namespace) LookupOrError(name string, tok token.Token) (Binding, *diagnostics.DiagnosticError) {
	b, ok := ns.Lookup(name)
	if !ok {
		return Binding{}, diagnostics.NewError(diagnostics.ErrN002, tok, name)
	}
	return b, nil
}

// Close freezes this namespace and transfers ownership of its bindings into
// the parent's table under qualified names ("Child.x"), so they stay
// reachable after the block exits. Blocks are strictly nested, so Close is
// called child-first.
func (ns *Namespace) Close() *diagnostics.DiagnosticError {
	ns.closed = true
	if ns.outer == nil {
		return nil
	}
	if err := ns.outer.Bind(Binding{
		Name:      ns.name,
		Kind:      NamespaceBinding,
		Namespace: ns,
	}, token.Token{}); err != nil {
		return err
	}
	for name, b := range ns.store {
		qualified := ns.name + "." + name
		if err := ns.outer.Bind(Binding{
			Name:      qualified,
			Kind:      b.Kind,
			Token:     b.Token,
			Type:      b.Type,
			Function:  b.Function,
			Macro:     b.Macro,
			Constant:  b.Constant,
			Namespace: b.Namespace,
		}, b.Token); err != nil {
			return err
		}
	}
	return nil
}

// Freeze marks the namespace immutable without transferring anything.
// Used for the Std/Core tables the caller assembles up front.
func (ns *Namespace) Freeze() {
	ns.closed = true
}

// All returns the names bound in this scope, sorted, for the index and for
// deterministic reporting.
func (ns *Namespace) All() []Binding {
	names := make([]string, 0, len(ns.store))
	for name := range ns.store {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Binding, 0, len(names))
	for _, name := range names {
		out = append(out, ns.store[name])
	}
	return out
}
