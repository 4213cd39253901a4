package pipeline

import (
	"github.com/vellumlang/vellum/internal/config"
	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/loader"
	"github.com/vellumlang/vellum/internal/symbols"
)

// PipelineContext is threaded through every Processor. It starts out
// holding whatever the external lexer/parser/layout/scope stages
// produced (out of scope here) plus the package under compilation, and
// accumulates diagnostics as later stages run. Stages never abort the
// pipeline on error; they record into Errors and later stages still
// run against whatever partial results exist.
type PipelineContext struct {
	Config   *config.Config
	Builtins *ir.Builtins
	Loader   loader.Loader
	Scopes   *symbols.Table

	Classes        []*ir.Class
	Traits         []*ir.Trait
	TypeParameters []*ir.TypeParameter
	Functions      []*ir.Function
	Globals        []*ir.Global
	ScopeOf        map[ir.DefnID]*symbols.Scope

	// Types and Uses are populated by the type-analysis stage: every
	// typed AST node's resolved type, and every use site's resolved
	// definition-info edge.
	Types map[any]ir.Type
	Uses  map[any]*symbols.DefnInfo

	Errors []*diagnostics.CompileError
}

// NewContext builds an empty PipelineContext ready for the inheritance
// and type-analysis stages to populate.
func NewContext(cfg *config.Config, builtins *ir.Builtins, ld loader.Loader, scopes *symbols.Table) *PipelineContext {
	return &PipelineContext{
		Config:   cfg,
		Builtins: builtins,
		Loader:   ld,
		Scopes:   scopes,
		ScopeOf:  make(map[ir.DefnID]*symbols.Scope),
		Types:    make(map[any]ir.Type),
		Uses:     make(map[any]*symbols.DefnInfo),
	}
}

func (c *PipelineContext) AddError(e *diagnostics.CompileError) {
	c.Errors = append(c.Errors, e)
}

// Processor is one stage in the pipeline. Implementations must not
// panic on malformed input; structural problems go into
// ctx.Errors via AddError instead.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}
