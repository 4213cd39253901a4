package ir

import "github.com/vellumlang/vellum/internal/token"

// Builtins holds the handful of classes every package implicitly sees
// regardless of its own declarations: the root of the class hierarchy,
// the bottom-of-hierarchy Nothing marker class, the base Exception
// class every throw expression's operand must be a subtype of, and the
// String/Package classes referenced by literals and the package-loader
// boundary respectively.
//
// These are constructed once per compilation (never package-level
// mutable globals) so that two concurrent analyses never share DefnIDs.
type Builtins struct {
	Root      *Class
	Nothing   *Class
	Exception *Class
	String    *Class
	Package   *Class
}

// NewBuiltins constructs the builtin class set fresh. The builtins
// have no package-qualified name.
func NewBuiltins() *Builtins {
	root := &Class{
		DefnID:   NewDefnID(),
		NameStr:  "Object",
		FlagBits: NewFlags(Public),
		Position: token.NoPosition,
	}
	nothing := &Class{
		DefnID:   NewDefnID(),
		NameStr:  "Nothing",
		FlagBits: NewFlags(Public, Final, Bottom),
		Position: token.NoPosition,
	}
	nothing.SupertypeList = []*ClassType{{Class: root}}

	exception := &Class{
		DefnID:   NewDefnID(),
		NameStr:  "Exception",
		FlagBits: NewFlags(Public),
		Position: token.NoPosition,
	}
	exception.SupertypeList = []*ClassType{{Class: root}}

	str := &Class{
		DefnID:   NewDefnID(),
		NameStr:  "String",
		FlagBits: NewFlags(Public, Final),
		Position: token.NoPosition,
	}
	str.SupertypeList = []*ClassType{{Class: root}}

	pkg := &Class{
		DefnID:   NewDefnID(),
		NameStr:  "Package",
		FlagBits: NewFlags(Public, Final),
		Position: token.NoPosition,
	}
	pkg.SupertypeList = []*ClassType{{Class: root}}

	return &Builtins{
		Root:      root,
		Nothing:   nothing,
		Exception: exception,
		String:    str,
		Package:   pkg,
	}
}

// RootType returns a non-nullable reference to the root class, the
// implicit upper bound of every type parameter with no declared bound
// and of every ClassType's lub fallback.
func (b *Builtins) RootType() *ClassType {
	return &ClassType{Class: b.Root}
}

// NothingType returns a non-nullable reference to Nothing, the bottom
// of the class hierarchy and a subtype of every object type (as opposed
// to NoType, the bottom of the whole Type lattice including primitives).
func (b *Builtins) NothingType() *ClassType {
	return &ClassType{Class: b.Nothing}
}

// ExceptionType returns a non-nullable reference to Exception.
func (b *Builtins) ExceptionType() *ClassType {
	return &ClassType{Class: b.Exception}
}

// StringType returns a non-nullable reference to String.
func (b *Builtins) StringType() *ClassType {
	return &ClassType{Class: b.String}
}

// UninitializedType returns the type a field of declared type t holds
// before a constructor body assigns it: the null type if t admits null,
// otherwise Nothing (the bottom class, a subtype of every object type,
// standing in for "not yet a real value"). Primitives are always
// considered initialized to their zero value and have no uninitialized
// type of their own; callers should not call this for a PrimitiveType
// field.
func (b *Builtins) UninitializedType(t Type) Type {
	if ct, ok := t.(*ClassType); ok && ct.Nullable {
		return b.NothingType().WithNullable(true)
	}
	if _, ok := t.(*ExistentialType); ok {
		return b.NothingType()
	}
	if _, ok := t.(*VariableType); ok {
		return b.NothingType()
	}
	return b.NothingType()
}
