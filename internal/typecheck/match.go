package typecheck

import (
	"fmt"

	"github.com/vellumlang/vellum/internal/ast"
	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
	"github.com/vellumlang/vellum/internal/typesystem"
)

// checkMatch types `match (Scrutinee) { Cases... }`: each arm gets its
// own child scope to bind pattern variables into, guards are checked
// as plain boolean expressions, and the match's own type is the lub of
// every arm's body type.
func (a *Analyzer) checkMatch(m *ast.Match, ctx context) ir.Type {
	scrutType := a.checkExpr(m.Scrutinee, ctx)
	if len(m.Cases) == 0 {
		a.setType(m, ir.TheNoType)
		return ir.TheNoType
	}
	var result ir.Type
	for i, c := range m.Cases {
		caseScope := a.table.NewChildScope(ctx.scope)
		caseCtx := ctx
		caseCtx.scope = caseScope
		a.bindPattern(c.Pattern, scrutType, caseCtx)
		if c.Guard != nil {
			guardType := a.checkExpr(c.Guard, caseCtx)
			if !typesystem.IsEquivalent(guardType, ir.Primitive(ir.Bool)) {
				a.errorf(diagnostics.ErrSubtypeViolation, c.Guard.Pos(), "boolean", guardType.String())
			}
		}
		bodyType := a.checkExpr(c.Body, caseCtx)
		if i == 0 {
			result = bodyType
		} else {
			result = typesystem.Lub(a.builtins, result, bodyType)
		}
	}
	a.setType(m, result)
	return result
}

// checkTryCatch types `try Body catch { Catches... } finally Finally`:
// catch arms behave exactly like match
// arms whose scrutinee type is Exception, and Finally is checked for
// its own sake without influencing the expression's type.
func (a *Analyzer) checkTryCatch(tc *ast.TryCatch, ctx context) ir.Type {
	bodyType := a.checkExpr(tc.Body, ctx)
	result := bodyType
	for _, c := range tc.Catches {
		caseScope := a.table.NewChildScope(ctx.scope)
		caseCtx := ctx
		caseCtx.scope = caseScope
		a.bindPattern(c.Pattern, a.builtins.ExceptionType(), caseCtx)
		if c.Guard != nil {
			guardType := a.checkExpr(c.Guard, caseCtx)
			if !typesystem.IsEquivalent(guardType, ir.Primitive(ir.Bool)) {
				a.errorf(diagnostics.ErrSubtypeViolation, c.Guard.Pos(), "boolean", guardType.String())
			}
		}
		caseType := a.checkExpr(c.Body, caseCtx)
		result = typesystem.Lub(a.builtins, result, caseType)
	}
	if tc.Finally != nil {
		finallyScope := a.table.NewChildScope(ctx.scope)
		fctx := ctx
		fctx.scope = finallyScope
		a.checkExpr(tc.Finally, fctx)
	}
	a.setType(tc, result)
	return result
}

// bindPattern checks one pattern against scrutType and, for every
// binding position the pattern introduces, defines it in ctx.scope.
func (a *Analyzer) bindPattern(p ast.Pattern, scrutType ir.Type, ctx context) {
	switch pt := p.(type) {
	case *ast.VarPattern:
		t := scrutType
		if pt.TypeAnnotation != nil {
			if !typesystem.IsSubtypeOf(pt.TypeAnnotation, scrutType) {
				a.errorf(diagnostics.ErrSubtypeViolation, pt.Pos(), scrutType.String(), pt.TypeAnnotation.String())
			}
			t = pt.TypeAnnotation
		}
		a.setType(pt, t)
		if pt.Name != "" {
			ctx.scope.Define(pt.Name, symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: pt.Name, TypeV: t, Position: pt.Position})
		}

	case *ast.LiteralPattern:
		litType := a.checkExpr(pt.Value, ctx)
		widens := false
		if lp, ok := litType.(*ir.PrimitiveType); ok {
			if sp, ok2 := scrutType.(*ir.PrimitiveType); ok2 {
				widens = ir.IsPrimitiveWidening(lp.Kind, sp.Kind)
			}
		}
		if !widens && !typesystem.IsEquivalent(litType, scrutType) {
			a.errorf(diagnostics.ErrSubtypeViolation, pt.Pos(), scrutType.String(), litType.String())
		}
		if typesystem.IsDisjoint(litType, scrutType) {
			a.errorf(diagnostics.ErrDisjointOperands, pt.Pos(), litType.String(), scrutType.String())
		}
		a.setType(pt, litType)

	case *ast.TypeTestPattern:
		// Wildcard argument positions (`_`) carry no runtime check of
		// their own, so the variable standing in for one is opened
		// before isTestable runs: that lets a wildcard satisfy the
		// per-argument erasure check on first use instead of only on
		// some later reference to an already-opened existential.
		if ct, ok := pt.Type.(*ir.ClassType); ok {
			for i, wildcard := range pt.WildcardArgs {
				if !wildcard || i >= len(ct.TypeArgs) {
					continue
				}
				if vt, ok := ct.TypeArgs[i].(*ir.VariableType); ok {
					ctx.scope.OpenExistential(vt.Param)
				}
			}
		}
		if !a.isTestable(pt.Type, scrutType, ctx.scope) {
			a.errorf(diagnostics.ErrUnerasableTestType, pt.Pos(), pt.Type.String())
		} else if typesystem.IsDisjoint(pt.Type, scrutType) {
			a.errorf(diagnostics.ErrDisjointOperands, pt.Pos(), pt.Type.String(), scrutType.String())
		}
		a.setType(pt, pt.Type)
		if pt.Name != "" {
			ctx.scope.Define(pt.Name, symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: pt.Name, TypeV: pt.Type, Position: pt.Position})
		}

	case *ast.DestructurePattern:
		a.setType(pt, scrutType)
		a.bindDestructurePattern(pt, scrutType, ctx)
	}
}

// isTestable decides whether t can be tested against scrutType at
// runtime: primitives must match
// exactly; class types must be erasure-related to the scrutinee and
// every one of their type arguments must either be syntactically equal
// to the scrutinee's corresponding argument or name a variable already
// opened by an enclosing existential in this scope.
func (a *Analyzer) isTestable(t, scrut ir.Type, scope *symbols.Scope) bool {
	switch tt := t.(type) {
	case *ir.PrimitiveType:
		st, ok := scrut.(*ir.PrimitiveType)
		return ok && st.Kind == tt.Kind
	case *ir.ClassType:
		sct, ok := unwrapToClassType(scrut)
		if !ok {
			return false
		}
		if !classErasureRelated(tt.Class, sct.Class) {
			return false
		}
		for i, arg := range tt.TypeArgs {
			if vt, ok := arg.(*ir.VariableType); ok && scope.HasOpenExistential(vt.Param) {
				continue
			}
			if i < len(sct.TypeArgs) && typesystem.IsEquivalent(arg, sct.TypeArgs[i]) {
				continue
			}
			return false
		}
		return true
	default:
		return false
	}
}

func (a *Analyzer) bindDestructurePattern(pt *ast.DestructurePattern, scrutType ir.Type, ctx context) {
	// Destructuring relies on the standard library's Option (and, for
	// multi-binding patterns, Tuple_k) classes being in scope.
	if !a.cfg.IsUsingStd {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pt.Pos(), "Option")
		return
	}
	info, ok := a.resolveName(ctx.scope, pt.Func)
	if !ok {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pt.Pos(), pt.Func)
		return
	}
	var candidates []*ir.Function
	switch info.Kind {
	case symbols.KindFunction:
		candidates = []*ir.Function{info.Defn.(*ir.Function)}
	case symbols.KindOverloadSet:
		candidates = info.OverloadSet
	default:
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pt.Pos(), pt.Func)
		return
	}
	fn, retType := a.resolveOverload(pt.Pos(), pt.Func, candidates, nil, []ir.Type{scrutType}, nil)
	if fn == nil {
		return
	}
	elemTypes, ok := a.optionElementTypes(retType, len(pt.SubPatterns))
	if !ok {
		a.errorf(diagnostics.ErrNoViableOverload, pt.Pos(), pt.Func, scrutType.String())
		return
	}
	for i, sub := range pt.SubPatterns {
		a.bindPattern(sub, elemTypes[i], ctx)
	}
}

// optionElementTypes decomposes a try-match function's declared return
// type into the k sub-pattern types it carries: Option[X] for k == 1,
// or Option[Tuple_k[X1, ..., Xk]] for k > 1.
func (a *Analyzer) optionElementTypes(t ir.Type, k int) ([]ir.Type, bool) {
	ct, ok := t.(*ir.ClassType)
	if !ok || ct.Class.Name() != "Option" || len(ct.TypeArgs) != 1 {
		return nil, false
	}
	inner := ct.TypeArgs[0]
	if k == 1 {
		return []ir.Type{inner}, true
	}
	tupleName := fmt.Sprintf("Tuple_%d", k)
	tc, ok := inner.(*ir.ClassType)
	if !ok || tc.Class.Name() != tupleName || len(tc.TypeArgs) != k {
		return nil, false
	}
	return tc.TypeArgs, true
}
