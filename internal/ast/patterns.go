package ast

import (
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/token"
)

// Pattern is a match-arm or catch-arm pattern.
type Pattern interface {
	Node
	patternNode()
}

type patternBase struct{}

func (patternBase) patternNode() {}

// VarPattern binds the scrutinee (or sub-scrutinee) to Name, typed
// either from an explicit annotation (which must be a subtype of the
// scrutinee type) or the scrutinee type itself. A bare `_` is a
// VarPattern with an empty Name.
type VarPattern struct {
	patternBase
	Position       token.Position
	Name           string
	TypeAnnotation ir.Type // nil when inferred from the scrutinee
}

func (p *VarPattern) Pos() token.Position { return p.Position }

// LiteralPattern matches the scrutinee against a literal value; Value
// must be a literal Expr (IntLiteral, StringLiteral, etc.) whose type
// equals the scrutinee type modulo widening.
type LiteralPattern struct {
	patternBase
	Position token.Position
	Value    Expr
}

func (p *LiteralPattern) Pos() token.Position { return p.Position }

// TypeTestPattern is `Name: Type`, accepted only when Type is
// statically testable against the scrutinee type. Wildcard
// type arguments inside Type (written `_` in source) are represented as
// WildcardArgs positions sharing an index with the class type's type
// argument list; a false entry at a given index means that argument was
// written explicitly rather than as `_`.
type TypeTestPattern struct {
	patternBase
	Position     token.Position
	Name         string
	Type         ir.Type
	WildcardArgs []bool // parallel to Type.(*ir.ClassType).TypeArgs when Type is a ClassType
}

func (p *TypeTestPattern) Pos() token.Position { return p.Position }

// DestructurePattern is `Func(SubPatterns...)`, resolved against a
// free function, a static try-match, or an instance try-match method
// named Func.
type DestructurePattern struct {
	patternBase
	Position    token.Position
	Func        string
	SubPatterns []Pattern
}

func (p *DestructurePattern) Pos() token.Position { return p.Position }
