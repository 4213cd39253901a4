package typecheck

import (
	"strings"

	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
	"github.com/vellumlang/vellum/internal/token"
	"github.com/vellumlang/vellum/internal/typesystem"
)

// bindingFunctions returns the candidate function set a binding names,
// or nil if it names something that can't be called (a field/global).
func bindingFunctions(b *symbols.Binding) []*ir.Function {
	if b == nil {
		return nil
	}
	switch v := b.Single.(type) {
	case *ir.Function:
		return []*ir.Function{v}
	}
	if b.Overload != nil {
		return b.Overload
	}
	return nil
}

func mergeSubst(a, b typesystem.Subst) typesystem.Subst {
	out := make(typesystem.Subst, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func typeListString(ts []ir.Type) string {
	var sb strings.Builder
	for i, t := range ts {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}

type overloadCandidate struct {
	fn     *ir.Function
	sub    typesystem.Subst
	params []ir.Type
	ret    ir.Type
}

// resolveOverload implements call resolution:
// filter by arity, check explicit type arguments against declared
// bounds (or infer them structurally when omitted), keep the
// candidates whose substituted parameter types every argument is a
// subtype of, then pick the most specific survivor. classSub carries
// the substitution from an already-resolved receiver's type arguments
// (nil for free functions and constructors); it composes with each
// candidate's own type-parameter substitution before viability is
// checked, so an inherited generic method is checked against the
// receiver's concrete instantiation rather than its declaration site.
func (a *Analyzer) resolveOverload(pos token.Position, name string, candidates []*ir.Function, explicitTypeArgs []ir.Type, argTypes []ir.Type, classSub typesystem.Subst) (*ir.Function, ir.Type) {
	if len(candidates) == 0 {
		a.scopeErrorf(diagnostics.ErrUnresolvedName, pos, name)
		return nil, ir.TheAnyType
	}

	var viable []overloadCandidate
	unifyFailed := 0
	for _, fn := range candidates {
		if len(fn.ParamTypes()) != len(argTypes) {
			continue
		}
		sub := mergeSubst(classSub, nil)
		if len(explicitTypeArgs) > 0 {
			if len(explicitTypeArgs) != len(fn.TypeParameters()) {
				continue
			}
			ok := true
			for i, tp := range fn.TypeParameters() {
				arg := explicitTypeArgs[i]
				upper := typesystem.Substitute(tp.UpperBound, sub)
				lower := typesystem.Substitute(tp.LowerBound, sub)
				if !typesystem.IsSubtypeOf(arg, upper) || (tp.LowerBound != nil && !typesystem.IsSubtypeOf(lower, arg)) {
					ok = false
					break
				}
				sub[tp.ID()] = arg
			}
			if !ok {
				continue
			}
		} else if len(fn.TypeParameters()) > 0 {
			inferred, ok := unify(fn.TypeParameters(), fn.ParamTypes(), argTypes, sub)
			if !ok {
				unifyFailed++
				continue
			}
			for k, v := range inferred {
				sub[k] = v
			}
		}
		params := make([]ir.Type, len(fn.ParamTypes()))
		for i, p := range fn.ParamTypes() {
			params[i] = typesystem.Substitute(p, sub)
		}
		ret := typesystem.Substitute(fn.ReturnType(), sub)
		viableOK := true
		for i, p := range params {
			if !typesystem.IsSubtypeOf(argTypes[i], p) {
				viableOK = false
				break
			}
		}
		if !viableOK {
			continue
		}
		viable = append(viable, overloadCandidate{fn: fn, sub: sub, params: params, ret: ret})
	}

	if len(viable) == 0 {
		if unifyFailed == len(candidates) {
			a.errorf(diagnostics.ErrUnificationFailure, pos, name, typeListString(argTypes))
		} else {
			a.errorf(diagnostics.ErrNoViableOverload, pos, name, typeListString(argTypes))
		}
		return nil, ir.TheAnyType
	}

	best := viable[0]
	ambiguous := false
	for _, c := range viable[1:] {
		switch compareSpecificity(best.params, c.params) {
		case 1:
			// best stays more specific
		case -1:
			best = c
			ambiguous = false
		default:
			ambiguous = true
		}
	}
	if ambiguous {
		a.errorf(diagnostics.ErrAmbiguousOverload, pos, name, typeListString(argTypes))
		return nil, ir.TheAnyType
	}
	return best.fn, best.ret
}

// compareSpecificity returns 1 when a is strictly more specific than b
// (every parameter of a is a subtype of b's while the reverse does
// not hold), -1 for the reverse, and 0 when neither dominates (an
// ambiguity).
func compareSpecificity(a, b []ir.Type) int {
	aAllSub, bAllSub := true, true
	for i := range a {
		if !typesystem.IsSubtypeOf(a[i], b[i]) {
			aAllSub = false
		}
		if !typesystem.IsSubtypeOf(b[i], a[i]) {
			bAllSub = false
		}
	}
	switch {
	case aAllSub && !bAllSub:
		return 1
	case bAllSub && !aAllSub:
		return -1
	default:
		return 0
	}
}

// unify performs first-order structural unification of a candidate's
// declared parameter types against the caller's argument types,
// inferring a value for each of the candidate's own type parameters
// when the caller omits explicit type arguments. It does not attempt unification through variance or
// existentials; anything it can't pin down fails the candidate
// outright rather than guessing, leaving an explicit type argument as
// the caller's escape hatch.
func unify(params []*ir.TypeParameter, paramTypes, argTypes []ir.Type, existing typesystem.Subst) (typesystem.Subst, bool) {
	targets := make(map[ir.DefnID]bool, len(params))
	for _, p := range params {
		targets[p.ID()] = true
	}
	result := typesystem.Subst{}
	var unifyOne func(pt, at ir.Type) bool
	unifyOne = func(pt, at ir.Type) bool {
		switch p := pt.(type) {
		case *ir.VariableType:
			if !targets[p.Param.ID()] {
				return true
			}
			if prior, ok := result[p.Param.ID()]; ok {
				return typesystem.IsEquivalent(prior, at)
			}
			result[p.Param.ID()] = at
			return true
		case *ir.ClassType:
			ac, ok := at.(*ir.ClassType)
			if !ok || ac.Class.ID() != p.Class.ID() || len(ac.TypeArgs) != len(p.TypeArgs) {
				return true
			}
			for i := range p.TypeArgs {
				if !unifyOne(p.TypeArgs[i], ac.TypeArgs[i]) {
					return false
				}
			}
			return true
		default:
			return true
		}
	}
	for i, pt := range paramTypes {
		substituted := typesystem.Substitute(pt, existing)
		if !unifyOne(substituted, argTypes[i]) {
			return nil, false
		}
	}
	for _, p := range params {
		if _, ok := result[p.ID()]; !ok {
			return nil, false
		}
	}
	return result, true
}
