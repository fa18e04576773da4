package dispatch

import (
	"strconv"
	"strings"

	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/namespace"
	"github.com/funvibe/vega/internal/token"
	"github.com/funvibe/vega/internal/typegraph"
)

// Dispatcher resolves the unique most-specific applicable method for a call
// site. Resolution results are memoized: the method tables it consults are
// frozen after declaration time, so a cache entry can never go stale.
type Dispatcher struct {
	graph *typegraph.Graph
	cache map[cacheKey]*namespace.Method
}

// cacheKey identifies one resolution. The starting namespace is part of the
// identity: the same name may be bound to distinct functions in distinct
// scopes, so a memoized method is only valid for the namespace whose lookup
// produced it.
type cacheKey struct {
	ns   *namespace.Namespace
	name string
	args string
}

func New(graph *typegraph.Graph) *Dispatcher {
	return &Dispatcher{
		graph: graph,
		cache: make(map[cacheKey]*namespace.Method),
	}
}

// Resolve looks up functionName in ns and selects the most specific method
// applicable to argTypes. Dispatch-time failures are per call site and
// leave the engine state valid for subsequent calls.
func (d *Dispatcher) Resolve(functionName string, argTypes []typegraph.TypeRef, ns *namespace.Namespace, tok token.Token) (*namespace.Method, *diagnostics.DiagnosticError) {
	key, keyed := d.key(ns, functionName, argTypes)
	if keyed {
		if m, ok := d.cache[key]; ok {
			return m, nil
		}
	}

	b, ok := ns.Lookup(functionName)
	if !ok || b.Kind != namespace.FunctionBinding {
		return nil, diagnostics.NewError(diagnostics.ErrD001, tok, functionName)
	}
	fn := b.Function

	candidates := d.applicable(fn, argTypes)
	if len(candidates) == 0 {
		return nil, diagnostics.NewError(diagnostics.ErrD002, tok, functionName, d.typeNames(argTypes))
	}

	selected := d.mostSpecific(candidates)
	if selected == nil {
		tied := d.maximal(candidates)
		sigs := make([]string, len(tied))
		for i, m := range tied {
			sigs[i] = "(" + m.Signature(d.graph) + ")"
		}
		return nil, diagnostics.NewError(diagnostics.ErrD003, tok, functionName, strings.Join(sigs, ", "))
	}

	if keyed {
		d.cache[key] = selected
	}
	return selected, nil
}

// applicable filters methods by arity and per-position subtype checks.
func (d *Dispatcher) applicable(fn *namespace.Function, argTypes []typegraph.TypeRef) []*namespace.Method {
	var out []*namespace.Method
	for _, m := range fn.Methods {
		if len(m.ParamTypes) != len(argTypes) {
			continue
		}
		ok := true
		for i := range argTypes {
			if !d.graph.IsSubtype(argTypes[i], m.ParamTypes[i]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// moreSpecific reports whether a's parameter tuple is strictly more
// specific than b's: every position is a subtype, at least one strictly.
func (d *Dispatcher) moreSpecific(a, b *namespace.Method) bool {
	strict := false
	for i := range a.ParamTypes {
		if !d.graph.IsSubtype(a.ParamTypes[i], b.ParamTypes[i]) {
			return false
		}
		if !d.graph.IsSubtype(b.ParamTypes[i], a.ParamTypes[i]) {
			strict = true
		}
	}
	return strict
}

// mostSpecific returns the single candidate more specific than every other,
// or nil when the specificity order leaves a tie.
func (d *Dispatcher) mostSpecific(candidates []*namespace.Method) *namespace.Method {
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, c := range candidates {
		dominant := true
		for _, other := range candidates {
			if other == c {
				continue
			}
			if !d.moreSpecific(c, other) {
				dominant = false
				break
			}
		}
		if dominant {
			return c
		}
	}
	return nil
}

// maximal returns the candidates not strictly dominated by any other; these
// are the tie reported by AmbiguousMethod.
func (d *Dispatcher) maximal(candidates []*namespace.Method) []*namespace.Method {
	var out []*namespace.Method
	for _, c := range candidates {
		dominated := false
		for _, other := range candidates {
			if other != c && d.moreSpecific(other, c) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, c)
		}
	}
	return out
}

// key builds a cache key from the starting namespace, the function name and
// the alias-resolved arg refs, so aliases share cache lines with their
// targets. Unresolvable refs skip the cache.
func (d *Dispatcher) key(ns *namespace.Namespace, functionName string, argTypes []typegraph.TypeRef) (cacheKey, bool) {
	var sb strings.Builder
	for _, ref := range argTypes {
		resolved, err := d.graph.ResolveAlias(ref)
		if err != nil {
			return cacheKey{}, false
		}
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(int(resolved)))
	}
	return cacheKey{ns: ns, name: functionName, args: sb.String()}, true
}

func (d *Dispatcher) typeNames(refs []typegraph.TypeRef) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = d.graph.NameOf(ref)
	}
	return strings.Join(parts, ", ")
}
