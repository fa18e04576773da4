package pipeline

import (
	"github.com/funvibe/vega/internal/ast"
	"github.com/funvibe/vega/internal/diagnostics"
	"github.com/funvibe/vega/internal/namespace"
	"github.com/funvibe/vega/internal/typegraph"
)

// UnitContext carries one declaration unit through the processing stages.
// Each unit owns an independent TypeGraph/Namespace pair, so unrelated
// units can be processed concurrently without locking.
type UnitContext struct {
	UnitID string // Assigned by the engine
	File   string

	Unit *ast.Unit

	Graph     *typegraph.Graph
	Namespace *namespace.Namespace

	// TopLevel collects expanded top-level expressions in declaration
	// order; they are handed to the external evaluator once the unit is
	// frozen.
	TopLevel []ast.Expression

	Errors []*diagnostics.DiagnosticError
}

// Failed reports whether a declaration-time error aborted the unit.
func (ctx *UnitContext) Failed() bool {
	return len(ctx.Errors) > 0
}

// Processor is one stage of unit processing.
type Processor interface {
	Process(ctx *UnitContext) *UnitContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Declaration-time errors abort the remaining
// stages: a failed expansion must not reach registration.
func (p *Pipeline) Run(initialCtx *UnitContext) *UnitContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if ctx.Failed() {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
