// Package typesystem holds the pure algorithms over ir.Type: subtyping,
// lub/glb, substitution, and the combine/disjointness checks the type
// analyzer needs for binary operators and match patterns. Nothing
// here owns or mutates a Defn; it only reads the ir package's data
// model, which keeps the lattice algorithms testable independent of
// any particular compilation's definition table.
package typesystem

import "github.com/vellumlang/vellum/internal/ir"

// Subst maps a type parameter's id to the type replacing it.
type Subst map[ir.DefnID]ir.Type

// NewSubst builds a Subst from a type parameter list and a positional
// argument list, as used at every class/trait/function instantiation
// site; type arguments apply positionally to type parameters.
func NewSubst(params []*ir.TypeParameter, args []ir.Type) Subst {
	s := make(Subst, len(params))
	n := len(params)
	if len(args) < n {
		n = len(args)
	}
	for i := 0; i < n; i++ {
		s[params[i].ID()] = args[i]
	}
	return s
}

// Substitute replaces every VariableType in t whose parameter is a key
// of sub with the corresponding type, leaving everything else alone.
// ExistentialType bodies are substituted too, but a substitution is
// never applied to a variable the existential itself binds (shadowing:
// the existential's own Vars are never keys a caller should pass, but
// we guard anyway since nested existentials over the same surface name
// are legal).
func Substitute(t ir.Type, sub Subst) ir.Type {
	if len(sub) == 0 {
		return t
	}
	switch tt := t.(type) {
	case *ir.VariableType:
		if repl, ok := sub[tt.Param.ID()]; ok {
			return repl
		}
		return tt
	case *ir.ClassType:
		args := make([]ir.Type, len(tt.TypeArgs))
		changed := false
		for i, a := range tt.TypeArgs {
			na := Substitute(a, sub)
			args[i] = na
			if na != a {
				changed = true
			}
		}
		if !changed {
			return tt
		}
		return &ir.ClassType{Class: tt.Class, TypeArgs: args, Nullable: tt.Nullable}
	case *ir.ExistentialType:
		inner := Substitute(tt.Inner, withoutBound(sub, tt.Vars))
		if inner == tt.Inner {
			return tt
		}
		return ir.Close(tt.Vars, inner)
	default:
		return t
	}
}

func withoutBound(sub Subst, bound []*ir.TypeParameter) Subst {
	hasBound := false
	for _, v := range bound {
		if _, ok := sub[v.ID()]; ok {
			hasBound = true
			break
		}
	}
	if !hasBound {
		return sub
	}
	out := make(Subst, len(sub))
	for k, v := range sub {
		out[k] = v
	}
	for _, v := range bound {
		delete(out, v.ID())
	}
	return out
}

// SubstituteForBase builds the substitution needed to reinterpret a
// member declared on base in terms of the type arguments recorded on a
// ClassType naming a subtype of base: it walks the subtype's ancestor
// chain accumulating substitutions at each inheritance edge until base
// is reached. This is how an inherited method's parameter and return
// types get projected into a derived class's type argument space.
func SubstituteForBase(derived *ir.ClassType, base ir.ObjectTypeDefn) Subst {
	if derived.Class.ID() == base.ID() {
		return NewSubst(derived.Class.TypeParameters(), derived.TypeArgs)
	}
	cur := derived
	accumulated := NewSubst(derived.Class.TypeParameters(), derived.TypeArgs)
	for _, st := range cur.Class.Supertypes() {
		args := make([]ir.Type, len(st.TypeArgs))
		for i, a := range st.TypeArgs {
			args[i] = Substitute(a, accumulated)
		}
		next := &ir.ClassType{Class: st.Class, TypeArgs: args, Nullable: st.Nullable}
		if next.Class.ID() == base.ID() {
			return NewSubst(next.Class.TypeParameters(), next.TypeArgs)
		}
		if deeper := SubstituteForBase(next, base); deeper != nil {
			return deeper
		}
	}
	return nil
}

// SubstituteForInheritance projects a member's declared type through a
// single supertype edge: given the substitution a Class's supertype
// list entry already carries (its TypeArgs applied to the supertype's
// own TypeParameters), rewrite t accordingly. Used when copying
// inherited fields/methods down onto a subclass during inheritance
// analysis.
func SubstituteForInheritance(supertype *ir.ClassType, t ir.Type) ir.Type {
	sub := NewSubst(supertype.Class.TypeParameters(), supertype.TypeArgs)
	return Substitute(t, sub)
}

// FindVariables collects every distinct type parameter referenced
// (directly or inside nested ClassType arguments / existential bodies)
// by t, in first-occurrence order. Used by Close callers that need to
// know what a type actually mentions before deciding what to quantify.
func FindVariables(t ir.Type) []*ir.TypeParameter {
	var out []*ir.TypeParameter
	seen := make(map[ir.DefnID]bool)
	var walk func(ir.Type)
	walk = func(t ir.Type) {
		switch tt := t.(type) {
		case *ir.VariableType:
			if !seen[tt.Param.ID()] {
				seen[tt.Param.ID()] = true
				out = append(out, tt.Param)
			}
		case *ir.ClassType:
			for _, a := range tt.TypeArgs {
				walk(a)
			}
		case *ir.ExistentialType:
			walk(tt.Inner)
		}
	}
	walk(t)
	return out
}
