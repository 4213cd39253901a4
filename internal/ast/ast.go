// Package ast defines the shape of the already-parsed expression and
// pattern trees the type analyzer walks: nodes bearing stable identity
// and source locations for one package. This is not a full
// source-level AST: declaration headers (classes, traits, functions,
// fields, see internal/ir) are assumed already built by an external
// declaration pass, and every type annotation here is already a
// resolved ir.Type rather than a name awaiting lookup. What remains is
// exactly the expression/pattern shape the type analyzer needs to
// assign types to.
package ast

import (
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/token"
)

// Node is the minimal capability every AST node offers: a stable
// identity (for the write-once expr-to-type map) and a source position
// for diagnostics. Node values are used as map
// keys by identity, so every concrete node type is a pointer type.
type Node interface {
	Pos() token.Position
}

// Expr is any expression node. The type analyzer assigns exactly one
// ir.Type to each Expr it visits.
type Expr interface {
	Node
	exprNode()
}

type base struct{}

func (base) exprNode() {}

// IntLiteral is an integer literal, optionally suffixed with an
// explicit width; unsuffixed literals default to I64.
type IntLiteral struct {
	base
	Position   token.Position
	Value      int64
	Suffix     ir.PrimitiveKind
	HasSuffix  bool
}

func (n *IntLiteral) Pos() token.Position { return n.Position }

// FloatLiteral is a floating-point literal, defaulting to F64 when
// unsuffixed.
type FloatLiteral struct {
	base
	Position  token.Position
	Value     float64
	Suffix    ir.PrimitiveKind
	HasSuffix bool
}

func (n *FloatLiteral) Pos() token.Position { return n.Position }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	base
	Position token.Position
	Value    bool
}

func (n *BoolLiteral) Pos() token.Position { return n.Position }

// StringLiteral is a string literal; its type is always the String
// class.
type StringLiteral struct {
	base
	Position token.Position
	Value    string
}

func (n *StringLiteral) Pos() token.Position { return n.Position }

// NullLiteral is the `null` literal; its type is Nothing?.
type NullLiteral struct {
	base
	Position token.Position
}

func (n *NullLiteral) Pos() token.Position { return n.Position }

// ThisExpr is an implicit or explicit `this` reference inside a method
// body.
type ThisExpr struct {
	base
	Position token.Position
}

func (n *ThisExpr) Pos() token.Position { return n.Position }

// Ident is a bare name reference, resolved against the enclosing scope.
type Ident struct {
	base
	Position token.Position
	Name     string
}

func (n *Ident) Pos() token.Position { return n.Position }

// PropertyAccess is `Receiver.Name`.
type PropertyAccess struct {
	base
	Position  token.Position
	Receiver  Expr
	Name      string
}

func (n *PropertyAccess) Pos() token.Position { return n.Position }

// Call is a function/method/constructor call, with optional explicit
// type arguments for overload resolution. Callee is typically an Ident
// (free function or constructor) or a
// PropertyAccess (method call); IsNew marks `new(Length) Class(...)`
// array-allocation syntax, in which case Callee names the array class
// directly rather than being resolved as a call target.
type Call struct {
	base
	Position    token.Position
	Callee      Expr
	TypeArgs    []ir.Type
	Args        []Expr
	IsNew       bool
	ArrayLength Expr // set when IsNew
}

func (n *Call) Pos() token.Position { return n.Position }

// BinaryOp is a desugared-at-resolution-time binary operator
// expression; Op is the operator symbol as written, including a
// trailing `:` for right-associative operators; operators are
// ordinary functions named by their symbol.
type BinaryOp struct {
	base
	Position token.Position
	Op       string
	Left     Expr
	Right    Expr
}

func (n *BinaryOp) Pos() token.Position { return n.Position }

// UnaryOp is a prefix unary operator expression.
type UnaryOp struct {
	base
	Position token.Position
	Op       string
	Operand  Expr
}

func (n *UnaryOp) Pos() token.Position { return n.Position }

// Assign is `Target = Value`.
type Assign struct {
	base
	Position token.Position
	Target   Expr
	Value    Expr
}

func (n *Assign) Pos() token.Position { return n.Position }

// CompoundAssign is `Target @= Value`, desugaring to
// `Target = Target @ Value`.
type CompoundAssign struct {
	base
	Position token.Position
	Op       string
	Target   Expr
	Value    Expr
}

func (n *CompoundAssign) Pos() token.Position { return n.Position }

// Block is a sequence of expressions evaluated for effect except the
// last, whose type is the block's type (Unit for an empty block).
type Block struct {
	base
	Position token.Position
	Stmts    []Expr
}

func (n *Block) Pos() token.Position { return n.Position }

// VarDecl introduces a local variable or constant, typed either from
// an explicit annotation or inferred from Value.
type VarDecl struct {
	base
	Position       token.Position
	Name           string
	IsVar          bool
	TypeAnnotation ir.Type // nil when inferred
	Value          Expr
}

func (n *VarDecl) Pos() token.Position { return n.Position }

// Return is `return Value` (Value nil for a bare `return`).
type Return struct {
	base
	Position token.Position
	Value    Expr
}

func (n *Return) Pos() token.Position { return n.Position }

// Throw is `throw Value`.
type Throw struct {
	base
	Position token.Position
	Value    Expr
}

func (n *Throw) Pos() token.Position { return n.Position }

// If is a conditional expression; its type is lub(Then, Else) (Unit
// when Else is nil).
type If struct {
	base
	Position  token.Position
	Cond      Expr
	Then      Expr
	Else      Expr
}

func (n *If) Pos() token.Position { return n.Position }

// While is a loop expression; always typed Unit.
type While struct {
	base
	Position token.Position
	Cond     Expr
	Body     Expr
}

func (n *While) Pos() token.Position { return n.Position }

// Match is `match (Scrutinee) { Cases... }`.
type Match struct {
	base
	Position  token.Position
	Scrutinee Expr
	Cases     []*MatchCase
}

func (n *Match) Pos() token.Position { return n.Position }

// MatchCase is one `case Pattern if Guard => Body` arm.
type MatchCase struct {
	Position token.Position
	Pattern  Pattern
	Guard    Expr // nil when absent
	Body     Expr
}

// TryCatch is `try Body catch { Catches... } finally Finally`.
// Finally may be nil.
type TryCatch struct {
	base
	Position token.Position
	Body     Expr
	Catches  []*MatchCase
	Finally  Expr
}

func (n *TryCatch) Pos() token.Position { return n.Position }
