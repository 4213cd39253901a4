package ir

// PrimitiveKind enumerates the built-in value types. Unlike classes,
// primitives have no defn behind them; they are the sentinel leaves
// of the closed type family.
type PrimitiveKind int

const (
	Unit PrimitiveKind = iota
	Bool
	I8
	I16
	I32
	I64
	F32
	F64
)

func (k PrimitiveKind) String() string {
	switch k {
	case Unit:
		return "unit"
	case Bool:
		return "boolean"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "?"
	}
}

// IsNumeric reports whether the primitive participates in numeric
// widening/narrowing (everything except Unit and Bool).
func (k PrimitiveKind) IsNumeric() bool { return k != Unit && k != Bool }

// IsIntegral reports whether the primitive is a fixed-width integer.
func (k PrimitiveKind) IsIntegral() bool {
	switch k {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// Width orders integral kinds so a narrower one widens into a wider
// one; used by the lattice's numeric-widening rule.
func (k PrimitiveKind) Width() int {
	switch k {
	case I8:
		return 1
	case I16:
		return 2
	case I32:
		return 4
	case I64:
		return 8
	case F32:
		return 4
	case F64:
		return 8
	default:
		return 0
	}
}

// Type is the closed family every value-carrying AST node's static
// type belongs to. Concrete variants: NoType, AnyType, PrimitiveType,
// ClassType, VariableType, ExistentialType. A private marker method
// keeps the family closed to this package.
type Type interface {
	isType()
	String() string
}

// NoType is the bottom of the lattice: the type of expressions that
// never return (a bare throw, an infinite loop). It is a subtype of
// every type, and lub/glb treat it as the identity/absorbing element
// respectively.
type NoType struct{}

func (NoType) isType()        {}
func (NoType) String() string { return "nothing" }

// AnyType is the top of the lattice: the only type every other type is
// a subtype of. There is no surface syntax for it; it exists purely as
// the sentinel lub of maximally unrelated operands falls back to.
type AnyType struct{}

func (AnyType) isType()        {}
func (AnyType) String() string { return "any" }

// PrimitiveType names one of the fixed built-in value kinds.
type PrimitiveType struct {
	Kind PrimitiveKind
}

func (PrimitiveType) isType()        {}
func (t PrimitiveType) String() string { return t.Kind.String() }

func NewPrimitiveType(k PrimitiveKind) *PrimitiveType { return &PrimitiveType{Kind: k} }

// ClassType names a Class or Trait, applies type arguments positionally
// to its type parameters, and carries the Nullable flag: nullability
// is a property of the reference, not of the class it names.
type ClassType struct {
	Class    ObjectTypeDefn
	TypeArgs []Type
	Nullable bool
}

func (*ClassType) isType() {}

func (t *ClassType) String() string {
	s := t.Class.Name()
	if len(t.TypeArgs) > 0 {
		s += "["
		for i, a := range t.TypeArgs {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		s += "]"
	}
	if t.Nullable {
		s += "?"
	}
	return s
}

// WithNullable returns a copy of t with the Nullable flag set to n.
func (t *ClassType) WithNullable(n bool) *ClassType {
	if t.Nullable == n {
		return t
	}
	cp := *t
	cp.Nullable = n
	return &cp
}

// VariableType refers to a type parameter in scope: a class/trait/
// function type parameter, or an existential variable bound by an
// enclosing ExistentialType. Like ClassType it may carry the Nullable
// flag independently of its parameter's bounds.
type VariableType struct {
	Param    *TypeParameter
	Nullable bool
}

func (*VariableType) isType() {}

func (t *VariableType) String() string {
	if t.Nullable {
		return t.Param.Name() + "?"
	}
	return t.Param.Name()
}

// WithNullable returns a copy of t with the Nullable flag set to n.
func (t *VariableType) WithNullable(n bool) *VariableType {
	if t.Nullable == n {
		return t
	}
	cp := *t
	cp.Nullable = n
	return &cp
}

// ExistentialType closes over one or more type parameters that are
// otherwise free in Inner: "exists X. C[X]" in the surface syntax.
// Constructed exclusively through Close, which enforces the
// dedup-and-drop-unused invariant.
type ExistentialType struct {
	Vars  []*TypeParameter
	Inner Type
}

func (*ExistentialType) isType() {}

func (t *ExistentialType) String() string {
	s := "exists "
	for i, v := range t.Vars {
		if i > 0 {
			s += ", "
		}
		s += v.Name()
	}
	return s + ". " + t.Inner.String()
}

// Close builds an ExistentialType over vars and inner, but only keeps
// the variables that actually occur free in inner, deduplicated by
// first occurrence. A Close whose
// kept-variable set ends up empty collapses to inner directly; there
// is no such thing as a zero-variable existential.
func Close(vars []*TypeParameter, inner Type) Type {
	seen := make(map[DefnID]bool, len(vars))
	kept := make([]*TypeParameter, 0, len(vars))
	candidateSet := make(map[DefnID]*TypeParameter, len(vars))
	for _, v := range vars {
		candidateSet[v.ID()] = v
	}
	var walk func(Type)
	walk = func(t Type) {
		switch tt := t.(type) {
		case *VariableType:
			if cand, ok := candidateSet[tt.Param.ID()]; ok && !seen[cand.ID()] {
				seen[cand.ID()] = true
				kept = append(kept, cand)
			}
		case *ClassType:
			for _, a := range tt.TypeArgs {
				walk(a)
			}
		case *ExistentialType:
			walk(tt.Inner)
		}
	}
	// Preserve the caller's ordering of vars, not discovery order, so
	// that Close(vars, inner) is stable across callers that pass the
	// same vars slice for structurally equal inner types.
	walk(inner)
	ordered := make([]*TypeParameter, 0, len(kept))
	emitted := make(map[DefnID]bool, len(kept))
	for _, v := range vars {
		if seen[v.ID()] && !emitted[v.ID()] {
			emitted[v.ID()] = true
			ordered = append(ordered, v)
		}
	}
	if len(ordered) == 0 {
		return inner
	}
	return &ExistentialType{Vars: ordered, Inner: inner}
}

// Sentinels. AnyType and NoType carry no data, so one shared value of
// each suffices.
var (
	TheAnyType Type = &AnyType{}
	TheNoType  Type = &NoType{}
)

// primitiveCache avoids allocating a fresh PrimitiveType for every
// reference to, say, i32.
var primitiveCache = map[PrimitiveKind]*PrimitiveType{
	Unit: {Kind: Unit},
	Bool: {Kind: Bool},
	I8:   {Kind: I8},
	I16:  {Kind: I16},
	I32:  {Kind: I32},
	I64:  {Kind: I64},
	F32:  {Kind: F32},
	F64:  {Kind: F64},
}

func Primitive(k PrimitiveKind) *PrimitiveType { return primitiveCache[k] }

// IsPrimitiveWidening reports whether values of kind from fit without
// truncation into a variable of kind to.
func IsPrimitiveWidening(from, to PrimitiveKind) bool {
	if from == to {
		return true
	}
	if !from.IsIntegral() || !to.IsIntegral() {
		return from == I32 && to == F32 || from == I32 && to == F64 || from == I64 && to == F64
	}
	return from.Width() <= to.Width()
}
