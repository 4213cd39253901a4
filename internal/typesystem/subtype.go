package typesystem

import (
	"fmt"
	"strings"

	"github.com/vellumlang/vellum/internal/ir"
)

// typeKey renders a type to a canonical string so the visited-pair maps
// in IsSubtypeOf/Lub/Glb recognize a pair they are already combining
// even when recursion rebuilt it as a fresh value. Ancestor projection
// allocates new ClassTypes at every inheritance edge, so keying on
// pointer identity would never hit in exactly the F-bounded cycles the
// visited maps exist for.
func typeKey(t ir.Type) string {
	switch tt := t.(type) {
	case *ir.NoType, ir.NoType:
		return "!"
	case *ir.AnyType, ir.AnyType:
		return "*"
	case *ir.PrimitiveType:
		return "p" + tt.Kind.String()
	case *ir.ClassType:
		var sb strings.Builder
		sb.WriteByte('c')
		sb.WriteString(tt.Class.ID().String())
		for _, a := range tt.TypeArgs {
			sb.WriteByte(',')
			sb.WriteString(typeKey(a))
		}
		if tt.Nullable {
			sb.WriteByte('?')
		}
		return sb.String()
	case *ir.VariableType:
		if tt.Nullable {
			return "v" + tt.Param.ID().String() + "?"
		}
		return "v" + tt.Param.ID().String()
	case *ir.ExistentialType:
		var sb strings.Builder
		sb.WriteByte('e')
		for _, v := range tt.Vars {
			sb.WriteString(v.ID().String())
			sb.WriteByte(';')
		}
		sb.WriteString(typeKey(tt.Inner))
		return sb.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// pairKey identifies an (IsSubtypeOf sub, sup) query so recursive class
// hierarchies with type parameters bounded by each other don't loop
// forever: once a pair is on the stack, assume it holds and let the
// rest of the structural comparison decide (F-bounded recursion, same
// termination trick the lattice's lub/glb use).
type pairKey struct {
	sub, sup string
}

// IsSubtypeOf reports whether sub is a subtype of sup.
func IsSubtypeOf(sub, sup ir.Type) bool {
	return isSubtypeOf(sub, sup, map[pairKey]bool{})
}

func isSubtypeOf(sub, sup ir.Type, visiting map[pairKey]bool) bool {
	if _, ok := sup.(*ir.AnyType); ok {
		return true
	}
	if _, ok := sub.(*ir.NoType); ok {
		return true
	}
	if sub == sup {
		return true
	}

	key := pairKey{typeKey(sub), typeKey(sup)}
	if visiting[key] {
		return true
	}
	visiting[key] = true
	defer delete(visiting, key)

	switch s := sub.(type) {
	case *ir.PrimitiveType:
		o, ok := sup.(*ir.PrimitiveType)
		return ok && ir.IsPrimitiveWidening(s.Kind, o.Kind)

	case *ir.ClassType:
		return classIsSubtypeOf(s, sup, visiting)

	case *ir.VariableType:
		if o, ok := sup.(*ir.VariableType); ok && s.Param.ID() == o.Param.ID() {
			return !s.Nullable || o.Nullable
		}
		upper := s.Param.UpperBound
		if s.Nullable {
			upper = makeNullable(upper)
		}
		return isSubtypeOf(upper, sup, visiting)

	case *ir.ExistentialType:
		if o, ok := sup.(*ir.ExistentialType); ok && len(s.Vars) == len(o.Vars) {
			// Alpha-align: rename sup's bound variables to sub's
			// positionally, then compare the bodies directly.
			rename := make(Subst, len(o.Vars))
			for i, v := range o.Vars {
				rename[v.ID()] = &ir.VariableType{Param: s.Vars[i]}
			}
			return isSubtypeOf(s.Inner, Substitute(o.Inner, rename), visiting)
		}
		return isSubtypeOf(s.Inner, sup, visiting)

	default:
		return false
	}
}

// makeNullable lifts t to its nullable counterpart where that makes
// sense (object types only; everything else passes through unchanged).
func makeNullable(t ir.Type) ir.Type {
	switch tt := t.(type) {
	case *ir.ClassType:
		return tt.WithNullable(true)
	case *ir.VariableType:
		return tt.WithNullable(true)
	case *ir.ExistentialType:
		return ir.Close(tt.Vars, makeNullable(tt.Inner))
	default:
		return t
	}
}

func classIsSubtypeOf(s *ir.ClassType, sup ir.Type, visiting map[pairKey]bool) bool {
	switch o := sup.(type) {
	case *ir.ClassType:
		if s.Nullable && !o.Nullable {
			return false
		}
		if s.Class.Flags().Has(ir.Bottom) {
			return true
		}
		if s.Class.ID() == o.Class.ID() {
			return typeArgsConform(s, o, visiting)
		}
		for _, direct := range s.Class.Supertypes() {
			projected := &ir.ClassType{
				Class:    direct.Class,
				TypeArgs: substituteArgs(direct.TypeArgs, s),
				Nullable: direct.Nullable || s.Nullable,
			}
			if isSubtypeOf(projected, sup, visiting) {
				return true
			}
		}
		return false
	case *ir.VariableType:
		// Only a variable's lower bound lets anything but the variable
		// itself slip under it.
		if o.Param.LowerBound != nil {
			return isSubtypeOf(s, o.Param.LowerBound, visiting)
		}
		return false
	case *ir.ExistentialType:
		return existentialAdmits(s, o, visiting)
	default:
		return false
	}
}

// existentialAdmits reports whether some instantiation of ex's bound
// variables makes s a subtype of its body: the structural positions
// where a bound variable occurs are matched against s (projected to
// the body's erasure first), the resulting assignment is checked
// against each variable's bounds, and the fully substituted body is
// compared against s.
func existentialAdmits(s *ir.ClassType, ex *ir.ExistentialType, visiting map[pairKey]bool) bool {
	bound := make(map[ir.DefnID]bool, len(ex.Vars))
	for _, v := range ex.Vars {
		bound[v.ID()] = true
	}
	assign := make(Subst, len(ex.Vars))
	var matchOne func(pattern, against ir.Type) bool
	matchOne = func(pattern, against ir.Type) bool {
		switch p := pattern.(type) {
		case *ir.VariableType:
			if !bound[p.Param.ID()] {
				return true
			}
			if prior, ok := assign[p.Param.ID()]; ok {
				return isEquivalent(prior, against, visiting)
			}
			assign[p.Param.ID()] = against
			return true
		case *ir.ClassType:
			ac, ok := against.(*ir.ClassType)
			if !ok || ac.Class.ID() != p.Class.ID() || len(ac.TypeArgs) != len(p.TypeArgs) {
				return true
			}
			for i := range p.TypeArgs {
				if !matchOne(p.TypeArgs[i], ac.TypeArgs[i]) {
					return false
				}
			}
			return true
		default:
			return true
		}
	}

	against := ir.Type(s)
	if inner, ok := ex.Inner.(*ir.ClassType); ok {
		for _, anc := range ancestorChain(s) {
			if anc.Class.ID() == inner.Class.ID() {
				against = anc
				break
			}
		}
	}
	if !matchOne(ex.Inner, against) {
		return isSubtypeOf(s, ex.Inner, visiting)
	}
	for _, v := range ex.Vars {
		t, ok := assign[v.ID()]
		if !ok {
			t = v.UpperBound
			assign[v.ID()] = t
		}
		if v.UpperBound != nil && !isSubtypeOf(t, v.UpperBound, visiting) {
			return false
		}
	}
	return isSubtypeOf(s, Substitute(ex.Inner, assign), visiting)
}

func substituteArgs(args []ir.Type, origin *ir.ClassType) []ir.Type {
	sub := NewSubst(origin.Class.TypeParameters(), origin.TypeArgs)
	out := make([]ir.Type, len(args))
	for i, a := range args {
		out[i] = Substitute(a, sub)
	}
	return out
}

// typeArgsConform checks each positional type argument against its
// parameter's declared variance: covariant args must be subtypes,
// contravariant args must be supertypes, invariant args must be
// equivalent.
func typeArgsConform(s, o *ir.ClassType, visiting map[pairKey]bool) bool {
	params := s.Class.TypeParameters()
	if len(s.TypeArgs) != len(o.TypeArgs) || len(params) != len(s.TypeArgs) {
		return len(s.TypeArgs) == 0 && len(o.TypeArgs) == 0
	}
	for i, p := range params {
		a, b := s.TypeArgs[i], o.TypeArgs[i]
		switch p.Variance() {
		case ir.Covariant:
			if !isSubtypeOf(a, b, visiting) {
				return false
			}
		case ir.Contravariant:
			if !isSubtypeOf(b, a, visiting) {
				return false
			}
		default:
			if !isEquivalent(a, b, visiting) {
				return false
			}
		}
	}
	return true
}

// IsEquivalent reports mutual subtyping between a and b.
func IsEquivalent(a, b ir.Type) bool {
	return isEquivalent(a, b, map[pairKey]bool{})
}

func isEquivalent(a, b ir.Type, visiting map[pairKey]bool) bool {
	return isSubtypeOf(a, b, visiting) && isSubtypeOf(b, a, visiting)
}

// IsDisjoint reports whether no value can inhabit both a and b, used
// to reject binary == / match-type-test operands that could never
// compare equal.
func IsDisjoint(a, b ir.Type) bool {
	if IsSubtypeOf(a, b) || IsSubtypeOf(b, a) {
		return false
	}
	ca, aok := a.(*ir.ClassType)
	cb, bok := b.(*ir.ClassType)
	if !aok || !bok {
		// Distinct primitives, or a primitive vs. a class, can never
		// compare equal.
		return true
	}
	// Two classes are disjoint unless one's hierarchy could produce an
	// instance assignable to the other, which neither-subtype-of-the-
	// other already ruled out, UNLESS one of the two names a trait:
	// a concrete class could still implement both traits at once.
	if ca.Class.IsTrait() || cb.Class.IsTrait() {
		return false
	}
	return true
}
