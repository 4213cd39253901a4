package typecheck

import (
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
)

func bindingToInfo(name string, b *symbols.Binding, origin symbols.ScopeID) *symbols.DefnInfo {
	info := &symbols.DefnInfo{Name: name, Kind: b.Kind, Defn: b.Single, OriginScope: origin}
	if b.Kind == symbols.KindOverloadSet {
		info.OverloadSet = b.Overload
	}
	return info
}

// resolveName looks name up starting at scope, returning a DefnInfo
// tagged with scope itself as the originating (use-site) scope, the
// one the visibility checks compare the definition's visibility
// against.
func (a *Analyzer) resolveName(scope *symbols.Scope, name string) (*symbols.DefnInfo, bool) {
	b, ok := scope.Lookup(name)
	if !ok {
		return nil, false
	}
	return bindingToInfo(name, b, scope.ID), true
}

// unwrapToClassType walks a VariableType's upper-bound chain looking
// for the ClassType it is ultimately bounded by, since member access
// and call resolution both need a concrete class to look members up
// on even when the receiver's static type is a type parameter.
func unwrapToClassType(t ir.Type) (*ir.ClassType, bool) {
	cur := t
	for {
		switch v := cur.(type) {
		case *ir.ClassType:
			return v, true
		case *ir.VariableType:
			cur = v.Param.UpperBound
		default:
			return nil, false
		}
	}
}

// openExistential opens t if it is an existentially-quantified type:
// its bound variables are registered in scope as usable (so a sibling
// type-test pattern's wildcard argument may reuse one) and its Inner
// type is returned for the caller to
// operate on directly. The returned vars must be passed back to
// ir.Close once the caller is done computing a result type, so any
// variables still mentioned in it are re-quantified.
func (a *Analyzer) openExistential(t ir.Type, scope *symbols.Scope) (ir.Type, []*ir.TypeParameter) {
	if ex, ok := t.(*ir.ExistentialType); ok {
		for _, v := range ex.Vars {
			scope.OpenExistential(v)
		}
		return ex.Inner, ex.Vars
	}
	return t, nil
}

// classErasureRelated reports whether x and y are the same class or one
// lists the other among its supertypes, ignoring type arguments: the
// erasure test a
// type-test pattern's named class must pass against the scrutinee
// before its type arguments are even considered.
func classErasureRelated(x, y ir.ObjectTypeDefn) bool {
	if x.ID() == y.ID() {
		return true
	}
	for _, st := range x.Supertypes() {
		if st.Class.ID() == y.ID() {
			return true
		}
	}
	for _, st := range y.Supertypes() {
		if st.Class.ID() == x.ID() {
			return true
		}
	}
	return false
}

func fitsWidth(v int64, k ir.PrimitiveKind) bool {
	switch k {
	case ir.I8:
		return v >= -128 && v <= 127
	case ir.I16:
		return v >= -32768 && v <= 32767
	case ir.I32:
		return v >= -(1<<31) && v <= (1<<31)-1
	default:
		return true
	}
}
