package pipeline

import (
	"github.com/vellumlang/vellum/internal/ast"
	"github.com/vellumlang/vellum/internal/inheritance"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/typecheck"
)

// InheritancePass runs internal/inheritance over the context's local
// classes/traits/type parameters, replacing each definition's
// Supertypes in place and recording any InheritanceError into
// ctx.Errors. A failure here still lets TypeAnalysisPass run, since
// downstream lookups simply see whatever supertype list survived.
type InheritancePass struct{}

func (InheritancePass) Process(ctx *PipelineContext) *PipelineContext {
	pkg := &inheritance.Package{
		Classes:        ctx.Classes,
		Traits:         ctx.Traits,
		TypeParameters: ctx.TypeParameters,
		ScopeOf:        ctx.ScopeOf,
	}
	analyzer := inheritance.NewAnalyzer(ctx.Builtins, pkg)
	for _, err := range analyzer.Run() {
		ctx.AddError(err)
	}
	return ctx
}

// TypeAnalysisPass runs internal/typecheck over every free function
// body and every class constructor and method body in the context;
// trait method bodies are not checked. It depends on InheritancePass
// having already run in this same Pipeline; PipelineContext threads
// the already-mutated Classes/Traits/ScopeOf straight through, so
// there is nothing else to hand off between the two stages.
type TypeAnalysisPass struct {
	// Bodies maps each function/constructor to the already-parsed
	// expression tree for its body (nil entries, or functions absent
	// from the map, are declarations with no body, e.g. abstract or
	// extern, and are skipped).
	Bodies map[*ir.Function]ast.Expr
}

func (p TypeAnalysisPass) Process(ctx *PipelineContext) *PipelineContext {
	analyzer := typecheck.NewAnalyzer(ctx.Builtins, ctx.Config, &typecheck.Package{ScopeOf: ctx.ScopeOf})
	analyzer.CheckDeclarations(ctx.Classes, ctx.Traits)
	for _, fn := range ctx.Functions {
		body, ok := p.Bodies[fn]
		if !ok || body == nil {
			continue
		}
		scope := ctx.ScopeOf[fn.ID()]
		if scope == nil {
			continue
		}
		analyzer.CheckFunction(fn, body, scope)
	}
	for _, class := range ctx.Classes {
		for _, ctor := range class.Constructors() {
			body, ok := p.Bodies[ctor]
			if !ok || body == nil {
				continue
			}
			scope := ctx.ScopeOf[ctor.ID()]
			if scope == nil {
				continue
			}
			analyzer.CheckFunction(ctor, body, scope)
		}
		for _, m := range class.Methods() {
			body, ok := p.Bodies[m]
			if !ok || body == nil {
				continue
			}
			scope := ctx.ScopeOf[m.ID()]
			if scope == nil {
				continue
			}
			analyzer.CheckFunction(m, body, scope)
		}
	}
	for n, t := range analyzer.AllTypes() {
		ctx.Types[n] = t
	}
	for n, u := range analyzer.AllUses() {
		ctx.Uses[n] = u
	}
	for _, err := range analyzer.Errors() {
		ctx.AddError(err)
	}
	return ctx
}
