package typecheck

import (
	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
	"github.com/vellumlang/vellum/internal/token"
)

// CheckDeclarations runs the static checks on a class/trait's own
// signatures that don't need any expression walked: variance positions
// on member types and public-surface visibility leaks. Call once per
// package,
// independent of and in either order relative to CheckFunction over
// each body.
func (a *Analyzer) CheckDeclarations(classes []*ir.Class, traits []*ir.Trait) {
	for _, c := range classes {
		a.checkVarianceClass(c)
		a.checkVisibilitySurface(c.Fields(), c.Methods(), c.Constructors())
	}
	for _, t := range traits {
		a.checkVarianceObjectTypeDefn(t, nil, t.Methods())
		a.checkVisibilitySurface(nil, t.Methods(), nil)
	}
}

func (a *Analyzer) checkVarianceClass(c *ir.Class) {
	a.checkVarianceObjectTypeDefn(c, c.Fields(), c.Methods())
	// Constructor parameters are not part of the constructed object's
	// interface, so any declared variance may appear there.
	for _, ctor := range c.Constructors() {
		for _, p := range ctor.ParamTypes() {
			a.checkVariancePosition(c, p, ir.Bivariant, ctor.Pos())
		}
	}
	if c.Flags().Has(ir.Array) && c.ElementType != nil {
		if c.Flags().Has(ir.ArrayFinal) {
			a.checkVariancePosition(c, c.ElementType, ir.Covariant, c.Pos())
		} else {
			a.checkVariancePosition(c, c.ElementType, ir.Invariant, c.Pos())
		}
	}
}

func (a *Analyzer) checkVarianceObjectTypeDefn(defn ir.ObjectTypeDefn, fields []*ir.Field, methods []*ir.Function) {
	for _, f := range fields {
		if f.IsVar {
			a.checkVariancePosition(defn, f.Type(), ir.Invariant, f.Pos())
		} else {
			a.checkVariancePosition(defn, f.Type(), ir.Covariant, f.Pos())
		}
	}
	for _, m := range methods {
		for _, p := range m.ParamTypes() {
			a.checkVariancePosition(defn, p, ir.Contravariant, m.Pos())
		}
		a.checkVariancePosition(defn, m.ReturnType(), ir.Covariant, m.Pos())
	}
}

// checkVariancePosition walks t looking for any of defn's own type
// parameters, composing the effective variance at each nested position
// with ir.ChangeVariance and rejecting a parameter whose declared
// variance is incompatible with where it was found, e.g. a covariant
// +T used as a method parameter (a contravariant-required position).
func (a *Analyzer) checkVariancePosition(defn ir.ObjectTypeDefn, t ir.Type, required ir.Variance, pos token.Position) {
	own := make(map[ir.DefnID]*ir.TypeParameter, len(defn.TypeParameters()))
	for _, p := range defn.TypeParameters() {
		own[p.ID()] = p
	}
	var walk func(ir.Type, ir.Variance)
	walk = func(t ir.Type, ctxVar ir.Variance) {
		switch tt := t.(type) {
		case *ir.VariableType:
			if p, ok := own[tt.Param.ID()]; ok && !varianceCompatible(p.Variance(), ctxVar) {
				a.errorf(diagnostics.ErrVarianceViolation, pos, p.Name())
			}
		case *ir.ClassType:
			for i, arg := range tt.TypeArgs {
				paramVariance := ir.Invariant
				if i < len(tt.Class.TypeParameters()) {
					paramVariance = tt.Class.TypeParameters()[i].Variance()
				}
				walk(arg, ir.ChangeVariance(ctxVar, paramVariance))
			}
		case *ir.ExistentialType:
			walk(tt.Inner, ctxVar)
		}
	}
	walk(t, required)
}

func varianceCompatible(declared, required ir.Variance) bool {
	switch declared {
	case ir.Invariant:
		return true
	case ir.Covariant:
		return required == ir.Covariant || required == ir.Bivariant
	case ir.Contravariant:
		return required == ir.Contravariant || required == ir.Bivariant
	default:
		return true
	}
}

// checkVisibilitySurface rejects a public member whose signature
// mentions a less-visible class.
func (a *Analyzer) checkVisibilitySurface(fields []*ir.Field, methods []*ir.Function, ctors []*ir.Function) {
	check := func(memberFlags ir.Flags, t ir.Type, pos token.Position, name string) {
		if memberFlags.Visibility() != ir.Public {
			return
		}
		for _, ref := range referencedDefns(t) {
			if ir.IsLessVisibleThan(ref.Flags(), memberFlags) {
				a.errorf(diagnostics.ErrPublicLeaksPrivate, pos, name, ref.Name())
			}
		}
	}
	for _, f := range fields {
		check(f.Flags(), f.Type(), f.Pos(), f.Name())
	}
	for _, m := range methods {
		for _, p := range m.ParamTypes() {
			check(m.Flags(), p, m.Pos(), m.Name())
		}
		check(m.Flags(), m.ReturnType(), m.Pos(), m.Name())
	}
	for _, c := range ctors {
		for _, p := range c.ParamTypes() {
			check(c.Flags(), p, c.Pos(), c.Name())
		}
	}
}

func referencedDefns(t ir.Type) []ir.ObjectTypeDefn {
	var out []ir.ObjectTypeDefn
	var walk func(ir.Type)
	walk = func(t ir.Type) {
		switch tt := t.(type) {
		case *ir.ClassType:
			out = append(out, tt.Class)
			for _, arg := range tt.TypeArgs {
				walk(arg)
			}
		case *ir.ExistentialType:
			walk(tt.Inner)
		}
	}
	walk(t)
	return out
}

// checkVisibility enforces a use site's right to read a member named
// name off owner: private members are only reachable from inside owner
// itself, protected members from owner or one of its subtypes.
func (a *Analyzer) checkVisibility(binding *symbols.Binding, owner ir.ObjectTypeDefn, pos token.Position, name string, ctx context) {
	var flags ir.Flags
	switch v := binding.Single.(type) {
	case *ir.Field:
		flags = v.Flags()
	default:
		if fns := bindingFunctions(binding); len(fns) > 0 {
			flags = fns[0].Flags()
		} else {
			return
		}
	}
	switch flags.Visibility() {
	case ir.Private:
		if ctx.this == nil {
			a.scopeErrorf(diagnostics.ErrVisibilityViolation, pos, name)
			return
		}
		if ct, ok := unwrapToClassType(ctx.this); !ok || ct.Class.ID() != owner.ID() {
			a.scopeErrorf(diagnostics.ErrVisibilityViolation, pos, name)
		}
	case ir.Protected:
		if ctx.this == nil {
			a.scopeErrorf(diagnostics.ErrVisibilityViolation, pos, name)
			return
		}
		ct, ok := unwrapToClassType(ctx.this)
		if !ok || !classErasureRelated(ct.Class, owner) {
			a.scopeErrorf(diagnostics.ErrVisibilityViolation, pos, name)
		}
	}
}
