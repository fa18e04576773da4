package typegraph

// TypeRef is an index into a Graph's node arena. Refs are only meaningful
// for the graph that issued them.
type TypeRef int

// NilRef marks "no type" (e.g. the root's parent).
const NilRef TypeRef = -1

// Node is the interface for all declared type nodes.
// Aliases are nodes in the arena but not in the subtype tree: every graph
// operation resolves them away first.
type Node interface {
	TypeName() string
	ParentRef() TypeRef
}

// AbstractNode anchors subtype relations and is never a runtime type.
type AbstractNode struct {
	Name   string
	Parent TypeRef
}

func (n AbstractNode) TypeName() string   { return n.Name }
func (n AbstractNode) ParentRef() TypeRef { return n.Parent }

// Field is one declared (name, type) pair of a ConcreteNode.
type Field struct {
	Name string
	Type TypeRef
}

// ConcreteNode is an instantiable record type. Fields are strictly local;
// nothing is inherited from the parent.
type ConcreteNode struct {
	Name   string
	Parent TypeRef
	Fields []Field
}

func (n ConcreteNode) TypeName() string   { return n.Name }
func (n ConcreteNode) ParentRef() TypeRef { return n.Parent }

// PrimitiveNode is an instantiable opaque value of a fixed bit width.
type PrimitiveNode struct {
	Name     string
	Parent   TypeRef
	BitWidth int
}

func (n PrimitiveNode) TypeName() string   { return n.Name }
func (n PrimitiveNode) ParentRef() TypeRef { return n.Parent }

// AliasNode is a transparent name for another type. Its ParentRef is the
// alias target, not a subtype parent.
type AliasNode struct {
	Name   string
	Target TypeRef
}

func (n AliasNode) TypeName() string   { return n.Name }
func (n AliasNode) ParentRef() TypeRef { return n.Target }
