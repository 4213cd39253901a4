// Package typecheck implements the type analyzer: an
// AST-directed walk that assigns a type to every expression and
// pattern node, resolves overloaded calls, checks type-argument
// bounds, and records use/definition edges. It runs after
// internal/inheritance has finished: member scopes it reads via
// Package.ScopeOf are expected to already hold each class/trait's full,
// override-resolved, inherited binding set.
package typecheck

import (
	"github.com/vellumlang/vellum/internal/ast"
	"github.com/vellumlang/vellum/internal/config"
	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
	"github.com/vellumlang/vellum/internal/token"
	"github.com/vellumlang/vellum/internal/typesystem"
)

// Package is the minimal view of one compilation unit the type
// analyzer needs: a lookup from every class/trait's definition id to
// the scope holding its final (post-inheritance) member bindings.
type Package struct {
	ScopeOf map[ir.DefnID]*symbols.Scope
}

// Analyzer runs the type-analysis pass over one package's function and
// constructor bodies, plus the declaration-level variance and
// visibility checks that don't require walking any expression.
type Analyzer struct {
	builtins *ir.Builtins
	cfg      *config.Config
	scopeOf  map[ir.DefnID]*symbols.Scope
	table    *symbols.Table

	errs  []*diagnostics.CompileError
	types map[ast.Node]ir.Type
	uses  map[ast.Node]*symbols.DefnInfo
}

func NewAnalyzer(builtins *ir.Builtins, cfg *config.Config, pkg *Package) *Analyzer {
	return &Analyzer{
		builtins: builtins,
		cfg:      cfg,
		scopeOf:  pkg.ScopeOf,
		table:    symbols.NewTable(),
		types:    make(map[ast.Node]ir.Type),
		uses:     make(map[ast.Node]*symbols.DefnInfo),
	}
}

// Errors returns every TypeError recorded so far.
func (a *Analyzer) Errors() []*diagnostics.CompileError { return a.errs }

// TypeOf returns the type assigned to n, if n has been visited.
func (a *Analyzer) TypeOf(n ast.Node) (ir.Type, bool) {
	t, ok := a.types[n]
	return t, ok
}

// UseOf returns the definition-info edge recorded for a use site, if any.
func (a *Analyzer) UseOf(n ast.Node) (*symbols.DefnInfo, bool) {
	d, ok := a.uses[n]
	return d, ok
}

// AllTypes returns every expression/pattern node this analyzer has
// assigned a type to, keyed by node identity, used by the
// pipeline stage to merge this pass's results into the shared
// PipelineContext.
func (a *Analyzer) AllTypes() map[ast.Node]ir.Type { return a.types }

// AllUses returns every use-site definition-info edge this analyzer has
// recorded, keyed by node identity.
func (a *Analyzer) AllUses() map[ast.Node]*symbols.DefnInfo { return a.uses }

func (a *Analyzer) errorf(code diagnostics.Code, pos token.Position, args ...interface{}) {
	a.errs = append(a.errs, diagnostics.TypeErr(code, pos, args...))
}

func (a *Analyzer) scopeErrorf(code diagnostics.Code, pos token.Position, args ...interface{}) {
	a.errs = append(a.errs, diagnostics.Scope(code, pos, args...))
}

func (a *Analyzer) setType(n ast.Node, t ir.Type) { a.types[n] = t }

func (a *Analyzer) recordUse(n ast.Node, info *symbols.DefnInfo) { a.uses[n] = info }

// context is the per-expression environment threaded through checkExpr:
// the active scope, the enclosing function (for return-type and
// visibility checks), and the receiver type inside a method body (nil
// in a free function).
type context struct {
	scope *symbols.Scope
	fn    *ir.Function
	this  ir.Type
}

// CheckFunction type-checks one function or constructor body against
// its already-declared signature: `def f(x: i32): i32 = f(x)` types
// the body against the declared return type, which is never inferred
// from the body.
func (a *Analyzer) CheckFunction(fn *ir.Function, body ast.Expr, scope *symbols.Scope) {
	if body == nil {
		return
	}
	var this ir.Type
	if (fn.IsMethod() || fn.IsConstructor()) && !fn.IsStatic() && fn.DeclaringClass != nil {
		args := make([]ir.Type, len(fn.DeclaringClass.TypeParameters()))
		for i, p := range fn.DeclaringClass.TypeParameters() {
			args[i] = &ir.VariableType{Param: p}
		}
		this = &ir.ClassType{Class: fn.DeclaringClass, TypeArgs: args}
	}
	ctx := context{scope: scope, fn: fn, this: this}
	bodyType := a.checkExpr(body, ctx)
	if !typesystem.IsSubtypeOf(bodyType, fn.ReturnType()) {
		a.errorf(diagnostics.ErrSubtypeViolation, body.Pos(), fn.ReturnType().String(), bodyType.String())
	}
	if fn.IsConstructor() {
		a.checkConstructorInit(fn, body)
	}
}
