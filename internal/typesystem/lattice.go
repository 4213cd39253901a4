package typesystem

import "github.com/vellumlang/vellum/internal/ir"

// lubPair mirrors pairKey but for the lub recursion: once a pair of
// operands is already being combined higher up the call stack, return
// the root class type (for object pairs) rather than recursing forever
// on mutually F-bounded classes.
type lubPair struct {
	a, b string
}

// isObjectType reports whether t is a class, variable, or existential
// type: the family the visited-pair short circuits return the root
// (lub) or bottom (glb) class type for instead of AnyType/NoType.
func isObjectType(t ir.Type) bool {
	switch t.(type) {
	case *ir.ClassType, *ir.VariableType, *ir.ExistentialType:
		return true
	default:
		return false
	}
}

// objectNullable reports whether an object type admits null.
func objectNullable(t ir.Type) bool {
	switch tt := t.(type) {
	case *ir.ClassType:
		return tt.Nullable
	case *ir.VariableType:
		return tt.Nullable
	case *ir.ExistentialType:
		return objectNullable(tt.Inner)
	default:
		return false
	}
}

// Lub computes the least upper bound of a and b: the most specific
// type both are subtypes of, or AnyType when nothing below the top
// relates them.
func Lub(b *ir.Builtins, a, y ir.Type) ir.Type {
	return lub(b, a, y, map[lubPair]bool{})
}

func lub(bi *ir.Builtins, a, y ir.Type, visiting map[lubPair]bool) ir.Type {
	if IsSubtypeOf(a, y) {
		return y
	}
	if IsSubtypeOf(y, a) {
		return a
	}

	key := lubPair{typeKey(a), typeKey(y)}
	rkey := lubPair{key.b, key.a}
	if visiting[key] || visiting[rkey] {
		if isObjectType(a) && isObjectType(y) {
			return bi.RootType().WithNullable(objectNullable(a) || objectNullable(y))
		}
		return ir.TheAnyType
	}
	visiting[key] = true
	defer delete(visiting, key)

	if ae, ok := a.(*ir.ExistentialType); ok {
		if ye, ok := y.(*ir.ExistentialType); ok {
			vars := make([]*ir.TypeParameter, 0, len(ae.Vars)+len(ye.Vars))
			vars = append(vars, ae.Vars...)
			vars = append(vars, ye.Vars...)
			return ir.Close(vars, lub(bi, ae.Inner, ye.Inner, visiting))
		}
		return ir.Close(ae.Vars, lub(bi, ae.Inner, y, visiting))
	}
	if ye, ok := y.(*ir.ExistentialType); ok {
		return ir.Close(ye.Vars, lub(bi, a, ye.Inner, visiting))
	}

	if av, ok := a.(*ir.VariableType); ok {
		nullable := av.Nullable || objectNullable(y)
		if yv, ok := y.(*ir.VariableType); ok {
			if common := av.Param.FindCommonUpperBound(yv.Param); common != nil {
				return &ir.VariableType{Param: common, Nullable: nullable}
			}
		}
		upper := av.Param.UpperBound
		if av.Nullable {
			upper = makeNullable(upper)
		}
		return lub(bi, upper, y, visiting)
	}
	if yv, ok := y.(*ir.VariableType); ok {
		upper := yv.Param.UpperBound
		if yv.Nullable {
			upper = makeNullable(upper)
		}
		return lub(bi, a, upper, visiting)
	}

	if ac, ok := a.(*ir.ClassType); ok {
		if yc, ok := y.(*ir.ClassType); ok {
			return lubClass(bi, ac, yc, visiting)
		}
		return ir.TheAnyType
	}

	if ap, ok := a.(*ir.PrimitiveType); ok {
		if yp, ok := y.(*ir.PrimitiveType); ok && ap.Kind.IsIntegral() && yp.Kind.IsIntegral() {
			if ap.Kind.Width() >= yp.Kind.Width() {
				return ap
			}
			return yp
		}
	}

	return ir.TheAnyType
}

// lubClass joins two ClassTypes: walk a's ancestor chain nearest-first,
// and at each ancestor both sides instantiate, try to combine the
// positional type arguments under each parameter's variance. An
// ancestor where some argument pair can't combine (invariant mismatch,
// or a recursive join that fell to AnyType) is skipped and the walk
// retries further up; the root class, having no
// parameters, always succeeds when shared.
func lubClass(bi *ir.Builtins, a, y *ir.ClassType, visiting map[lubPair]bool) ir.Type {
	nullable := a.Nullable || y.Nullable
	if a.Class.Flags().Has(ir.Bottom) {
		return y.WithNullable(nullable)
	}
	if y.Class.Flags().Has(ir.Bottom) {
		return a.WithNullable(nullable)
	}
	ancestorsY := ancestorChain(y)
	ySeen := make(map[ir.DefnID]*ir.ClassType, len(ancestorsY))
	for _, ct := range ancestorsY {
		if _, ok := ySeen[ct.Class.ID()]; !ok {
			ySeen[ct.Class.ID()] = ct
		}
	}
	tried := make(map[ir.DefnID]bool)
	for _, ct := range ancestorChain(a) {
		match, ok := ySeen[ct.Class.ID()]
		if !ok || tried[ct.Class.ID()] {
			continue
		}
		tried[ct.Class.ID()] = true
		if args, ok := joinClassTypeArgs(bi, ct, match, visiting); ok {
			joined := &ir.ClassType{Class: ct.Class, TypeArgs: args}
			return joined.WithNullable(nullable)
		}
	}
	return ir.TheAnyType
}

// ancestorChain returns ct and every proper ancestor reachable by
// walking declared supertypes, substituting type arguments at each
// edge, in pre-order (ct first).
func ancestorChain(ct *ir.ClassType) []*ir.ClassType {
	out := []*ir.ClassType{ct}
	for _, direct := range ct.Class.Supertypes() {
		projected := &ir.ClassType{
			Class:    direct.Class,
			TypeArgs: substituteArgs(direct.TypeArgs, ct),
			Nullable: direct.Nullable,
		}
		out = append(out, ancestorChain(projected)...)
	}
	return out
}

func joinClassTypeArgs(bi *ir.Builtins, a, y *ir.ClassType, visiting map[lubPair]bool) ([]ir.Type, bool) {
	params := a.Class.TypeParameters()
	if len(a.TypeArgs) != len(y.TypeArgs) || len(params) != len(a.TypeArgs) {
		return nil, len(a.TypeArgs) == 0 && len(y.TypeArgs) == 0
	}
	args := make([]ir.Type, len(params))
	for i, p := range params {
		switch p.Variance() {
		case ir.Covariant:
			args[i] = lub(bi, a.TypeArgs[i], y.TypeArgs[i], visiting)
			if _, isAny := args[i].(*ir.AnyType); isAny {
				return nil, false
			}
		case ir.Contravariant:
			args[i] = Glb(bi, a.TypeArgs[i], y.TypeArgs[i])
			if _, isNo := args[i].(*ir.NoType); isNo {
				return nil, false
			}
		default:
			if !IsEquivalent(a.TypeArgs[i], y.TypeArgs[i]) {
				return nil, false
			}
			args[i] = a.TypeArgs[i]
		}
	}
	return args, true
}

type glbPair struct {
	a, b string
}

// Glb computes the greatest lower bound of a and b. Unlike lub there is
// no argument-wise meet over class instantiations: two object types
// with no subtype relation meet at the bottom class, everything else
// at NoType.
func Glb(bi *ir.Builtins, a, y ir.Type) ir.Type {
	return glb(bi, a, y, map[glbPair]bool{})
}

func glb(bi *ir.Builtins, a, y ir.Type, visiting map[glbPair]bool) ir.Type {
	if IsSubtypeOf(a, y) {
		return a
	}
	if IsSubtypeOf(y, a) {
		return y
	}

	key := glbPair{typeKey(a), typeKey(y)}
	rkey := glbPair{key.b, key.a}
	if visiting[key] || visiting[rkey] {
		if isObjectType(a) && isObjectType(y) {
			return bi.NothingType().WithNullable(objectNullable(a) && objectNullable(y))
		}
		return ir.TheNoType
	}
	visiting[key] = true
	defer delete(visiting, key)

	if ae, ok := a.(*ir.ExistentialType); ok {
		return ir.Close(ae.Vars, glb(bi, ae.Inner, y, visiting))
	}
	if ye, ok := y.(*ir.ExistentialType); ok {
		return ir.Close(ye.Vars, glb(bi, a, ye.Inner, visiting))
	}

	if isObjectType(a) && isObjectType(y) {
		return bi.NothingType().WithNullable(objectNullable(a) && objectNullable(y))
	}
	return ir.TheNoType
}
