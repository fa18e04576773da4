package typegraph

import (
	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/token"
)

// Value is an opaque typed value handed back to the external evaluator.
// A value's runtime type is always exactly one concrete or primitive type,
// never an abstract one.
type Value interface {
	ValueType() TypeRef
}

// Record is an instance of a ConcreteNode. Field values are stored in
// declaration order.
type Record struct {
	Type   TypeRef
	Fields []Value
}

func (r *Record) ValueType() TypeRef { return r.Type }

// Primitive is an instance of a PrimitiveNode: a raw bitstring payload of
// the declared width.
type Primitive struct {
	Type TypeRef
	Bits *funbit.BitString
}

func (p *Primitive) ValueType() TypeRef { return p.Type }

// Instantiate builds a Record of the concrete type behind ref. Each supplied
// value's runtime type must satisfy the declared field type, nominally or
// via subtype compatibility.
func (g *Graph) Instantiate(ref TypeRef, fieldValues []Value, tok token.Token) (*Record, *diagnostics.DiagnosticError) {
	resolved, err := g.resolveAliasFrom(ref, tok)
	if err != nil {
		return nil, err
	}
	n, _ := g.Node(resolved)
	switch node := n.(type) {
	case AbstractNode:
		return nil, diagnostics.NewError(diagnostics.ErrT005, tok, node.Name)
	case PrimitiveNode:
		return nil, diagnostics.NewError(diagnostics.ErrT007, tok, node.Name, 0, len(fieldValues))
	case ConcreteNode:
		if len(fieldValues) != len(node.Fields) {
			return nil, diagnostics.NewError(diagnostics.ErrT007, tok, node.Name, len(node.Fields), len(fieldValues))
		}
		for i, f := range node.Fields {
			if !g.IsSubtype(fieldValues[i].ValueType(), f.Type) {
				return nil, diagnostics.NewError(diagnostics.ErrT006, tok,
					f.Name, node.Name, g.NameOf(f.Type), g.NameOf(fieldValues[i].ValueType()))
			}
		}
		return &Record{Type: resolved, Fields: fieldValues}, nil
	default:
		return nil, diagnostics.NewError(diagnostics.ErrT004, tok, g.NameOf(ref))
	}
}

// InstantiateBits builds a Primitive of the type behind ref from a raw
// bitstring. The payload must match the declared width exactly.
func (g *Graph) InstantiateBits(ref TypeRef, bits *funbit.BitString, tok token.Token) (*Primitive, *diagnostics.DiagnosticError) {
	resolved, err := g.resolveAliasFrom(ref, tok)
	if err != nil {
		return nil, err
	}
	n, _ := g.Node(resolved)
	switch node := n.(type) {
	case AbstractNode:
		return nil, diagnostics.NewError(diagnostics.ErrT005, tok, node.Name)
	case ConcreteNode:
		return nil, diagnostics.NewError(diagnostics.ErrT007, tok, node.Name, len(node.Fields), 0)
	case PrimitiveNode:
		got := 0
		if bits != nil {
			got = int(bits.Length())
		}
		if got != node.BitWidth {
			return nil, diagnostics.NewError(diagnostics.ErrT008, tok, node.Name, node.BitWidth, got)
		}
		return &Primitive{Type: resolved, Bits: bits}, nil
	default:
		return nil, diagnostics.NewError(diagnostics.ErrT004, tok, g.NameOf(ref))
	}
}
