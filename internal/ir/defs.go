package ir

import "github.com/vellumlang/vellum/internal/token"

// ObjectTypeDefn is the common shape of Class and Trait: the only two
// definitions a ClassType can name. A Trait may not appear as the
// first supertype of a Class; that rule is enforced by the
// inheritance analyzer, not by the type system, since the lattice
// itself only needs to walk supertypes uniformly.
type ObjectTypeDefn interface {
	ID() DefnID
	Name() string
	TypeParameters() []*TypeParameter
	Supertypes() []*ClassType
	SetSupertypes([]*ClassType)
	Flags() Flags
	SetFlags(Flags)
	Pos() token.Position
	IsTrait() bool
}

// Class is a concrete or abstract reference type.
type Class struct {
	DefnID   DefnID
	NameStr  string
	TypeArgs []*TypeParameter

	// Direct supertypes as declared; replaced exactly once, in place,
	// by the full transitive list during inheritance analysis.
	// The first entry must name a class.
	SupertypeList []*ClassType

	FieldList   []*Field
	Ctors       []*Function
	MethodList  []*Function
	FlagBits    Flags
	Position    token.Position
	ElementType Type // set when FlagBits has Array; the array element type
}

func (c *Class) ID() DefnID                      { return c.DefnID }
func (c *Class) Name() string                    { return c.NameStr }
func (c *Class) TypeParameters() []*TypeParameter { return c.TypeArgs }
func (c *Class) Supertypes() []*ClassType        { return c.SupertypeList }
func (c *Class) SetSupertypes(s []*ClassType)    { c.SupertypeList = s }
func (c *Class) Flags() Flags                    { return c.FlagBits }
func (c *Class) SetFlags(f Flags)                { c.FlagBits = f }
func (c *Class) Pos() token.Position             { return c.Position }
func (c *Class) IsTrait() bool                   { return false }

// Superclass returns the first (and only class-valued) supertype,
// or nil for the root class.
func (c *Class) Superclass() *Class {
	if len(c.SupertypeList) == 0 {
		return nil
	}
	if base, ok := c.SupertypeList[0].Class.(*Class); ok {
		return base
	}
	return nil
}

func (c *Class) Fields() []*Field        { return c.FieldList }
func (c *Class) Constructors() []*Function { return c.Ctors }
func (c *Class) Methods() []*Function    { return c.MethodList }

// Trait is like Class but may never be a class's first supertype, and
// may itself only inherit traits.
type Trait struct {
	DefnID        DefnID
	NameStr       string
	TypeArgs      []*TypeParameter
	SupertypeList []*ClassType
	MethodList    []*Function
	FlagBits      Flags
	Position      token.Position
}

func (t *Trait) ID() DefnID                      { return t.DefnID }
func (t *Trait) Name() string                    { return t.NameStr }
func (t *Trait) TypeParameters() []*TypeParameter { return t.TypeArgs }
func (t *Trait) Supertypes() []*ClassType        { return t.SupertypeList }
func (t *Trait) SetSupertypes(s []*ClassType)    { t.SupertypeList = s }
func (t *Trait) Flags() Flags                    { return t.FlagBits }
func (t *Trait) SetFlags(f Flags)                { t.FlagBits = f }
func (t *Trait) Pos() token.Position             { return t.Position }
func (t *Trait) IsTrait() bool                   { return true }
func (t *Trait) Methods() []*Function            { return t.MethodList }

// TypeParameter is a single generic parameter: identity, bounds,
// variance, and the Static/Extern attribute flags.
type TypeParameter struct {
	DefnID     DefnID
	NameStr    string
	UpperBound Type
	LowerBound Type
	VarianceV  Variance
	FlagBits   Flags
	Position   token.Position
}

func (p *TypeParameter) ID() DefnID          { return p.DefnID }
func (p *TypeParameter) Name() string        { return p.NameStr }
func (p *TypeParameter) Variance() Variance  { return p.VarianceV }
func (p *TypeParameter) Flags() Flags        { return p.FlagBits }
func (p *TypeParameter) Pos() token.Position { return p.Position }

// FindCommonUpperBound walks both parameters' upper bounds looking for
// a shared ancestor type parameter, used by lub when both operands are
// VariableTypes.
func (p *TypeParameter) FindCommonUpperBound(other *TypeParameter) *TypeParameter {
	selfChain := p.upperBoundChain()
	otherSeen := make(map[DefnID]bool)
	for cur := other; cur != nil; {
		otherSeen[cur.ID()] = true
		vt, ok := cur.UpperBound.(*VariableType)
		if !ok {
			break
		}
		cur = vt.Param
	}
	for _, cand := range selfChain {
		if otherSeen[cand.ID()] {
			return cand
		}
	}
	return nil
}

func (p *TypeParameter) upperBoundChain() []*TypeParameter {
	chain := []*TypeParameter{p}
	cur := p
	for {
		vt, ok := cur.UpperBound.(*VariableType)
		if !ok {
			break
		}
		chain = append(chain, vt.Param)
		cur = vt.Param
	}
	return chain
}

// Function is a free function, constructor, or method.
type Function struct {
	DefnID         DefnID
	NameStr        string
	DeclaringClass ObjectTypeDefn // nil for free functions
	TypeArgs       []*TypeParameter
	ParamTypeList  []Type
	ReturnTypeV    Type
	FlagBits       Flags
	Position       token.Position

	// Overrides is populated by the inheritance analyzer: the base
	// methods this function legally replaces.
	Overrides []*Function
	// OverriddenBy maps the id of each class/trait that overrides this
	// function to the overriding Function.
	OverriddenBy map[DefnID]*Function
}

func (f *Function) ID() DefnID                 { return f.DefnID }
func (f *Function) Name() string               { return f.NameStr }
func (f *Function) TypeParameters() []*TypeParameter { return f.TypeArgs }
func (f *Function) ParamTypes() []Type         { return f.ParamTypeList }
func (f *Function) ReturnType() Type           { return f.ReturnTypeV }
func (f *Function) Flags() Flags               { return f.FlagBits }
func (f *Function) Pos() token.Position        { return f.Position }
func (f *Function) IsConstructor() bool        { return f.FlagBits.Has(Constructor) }
func (f *Function) IsMethod() bool             { return f.FlagBits.Has(Method) }
func (f *Function) IsStatic() bool             { return f.FlagBits.Has(Static) }
func (f *Function) IsFinal() bool              { return f.FlagBits.Has(Final) }
func (f *Function) IsAbstract() bool           { return f.FlagBits.Has(Abstract) }

func NewFunction(name string, declClass ObjectTypeDefn, params []Type, ret Type, flags Flags, pos token.Position) *Function {
	return &Function{
		DefnID:         NewDefnID(),
		NameStr:        name,
		DeclaringClass: declClass,
		ParamTypeList:  params,
		ReturnTypeV:    ret,
		FlagBits:       flags,
		Position:       pos,
		OverriddenBy:   make(map[DefnID]*Function),
	}
}

// Field is a class member with a type slot.
type Field struct {
	DefnID   DefnID
	NameStr  string
	TypeV    Type
	FlagBits Flags
	IsVar    bool // mutable (var) vs. final (let-like)
	Position token.Position
}

func (fd *Field) ID() DefnID          { return fd.DefnID }
func (fd *Field) Name() string        { return fd.NameStr }
func (fd *Field) Type() Type          { return fd.TypeV }
func (fd *Field) Flags() Flags        { return fd.FlagBits }
func (fd *Field) Pos() token.Position { return fd.Position }

// UninitializedType returns the value this field holds before its
// constructor assigns it a real value, per Builtins.UninitializedType.
// Primitive-typed fields are always considered initialized to their
// declared zero value, so this only applies to object-typed fields.
func (fd *Field) UninitializedType(bi *Builtins) Type {
	if _, ok := fd.TypeV.(*PrimitiveType); ok {
		return fd.TypeV
	}
	return bi.UninitializedType(fd.TypeV)
}

// Global is a package-level variable.
type Global struct {
	DefnID   DefnID
	NameStr  string
	TypeV    Type
	FlagBits Flags
	IsVar    bool
	Position token.Position
}

func (g *Global) ID() DefnID          { return g.DefnID }
func (g *Global) Name() string        { return g.NameStr }
func (g *Global) Type() Type          { return g.TypeV }
func (g *Global) Flags() Flags        { return g.FlagBits }
func (g *Global) Pos() token.Position { return g.Position }

// Variable is a local (parameter or let/var binding).
type Variable struct {
	DefnID   DefnID
	NameStr  string
	TypeV    Type
	IsVar    bool
	Position token.Position
}

func (v *Variable) ID() DefnID          { return v.DefnID }
func (v *Variable) Name() string        { return v.NameStr }
func (v *Variable) Type() Type          { return v.TypeV }
func (v *Variable) Pos() token.Position { return v.Position }
