package typecheck

import (
	"testing"

	"github.com/vellumlang/vellum/internal/ast"
	"github.com/vellumlang/vellum/internal/config"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
	"github.com/vellumlang/vellum/internal/token"
)

func newAnalyzer(bi *ir.Builtins) (*Analyzer, *symbols.Table, *symbols.Scope) {
	table := symbols.NewTable()
	root := table.NewChildScope(nil)
	a := NewAnalyzer(bi, config.Default(), &Package{ScopeOf: map[ir.DefnID]*symbols.Scope{}})
	a.table = table
	return a, table, root
}

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

// TestRecursiveCallTypesAgainstDeclaredReturn covers the literal
// scenario `def f(x: i32): i32 = f(x)`: the body is checked against the
// declared return type rather than inferred, so a direct self-call
// type-checks cleanly.
func TestRecursiveCallTypesAgainstDeclaredReturn(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)

	f := ir.NewFunction("f", nil, []ir.Type{ir.Primitive(ir.I32)}, ir.Primitive(ir.I32), ir.NewFlags(ir.Public), token.NoPosition)
	root.DefineOverload("f", f)

	fnScope := a.table.NewChildScope(root)
	fnScope.Define("x", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "x", TypeV: ir.Primitive(ir.I32)})

	body := &ast.Call{Callee: ident("f"), Args: []ast.Expr{ident("x")}}
	a.CheckFunction(f, body, fnScope)

	for _, e := range a.Errors() {
		t.Errorf("unexpected error: %v", e)
	}
}

// TestSubtypeReturnIsAccepted covers `class A; class B <: A; def
// f(bar: B): A = bar`: returning a subtype of the declared return type
// is fine.
func TestSubtypeReturnIsAccepted(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)

	classA := &ir.Class{DefnID: ir.NewDefnID(), NameStr: "A", FlagBits: ir.NewFlags(ir.Public), SupertypeList: []*ir.ClassType{bi.RootType()}}
	classB := &ir.Class{DefnID: ir.NewDefnID(), NameStr: "B", FlagBits: ir.NewFlags(ir.Public), SupertypeList: []*ir.ClassType{{Class: classA}}}

	f := ir.NewFunction("f", nil, []ir.Type{&ir.ClassType{Class: classB}}, &ir.ClassType{Class: classA}, ir.NewFlags(ir.Public), token.NoPosition)
	fnScope := a.table.NewChildScope(root)
	fnScope.Define("bar", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "bar", TypeV: &ir.ClassType{Class: classB}})

	a.CheckFunction(f, ident("bar"), fnScope)
	for _, e := range a.Errors() {
		t.Errorf("unexpected error: %v", e)
	}
}

// TestSupertypeReturnIsRejected is the mirror failure case: returning a
// strict supertype of the declared return type must be flagged.
func TestSupertypeReturnIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)

	classA := &ir.Class{DefnID: ir.NewDefnID(), NameStr: "A", FlagBits: ir.NewFlags(ir.Public), SupertypeList: []*ir.ClassType{bi.RootType()}}
	classB := &ir.Class{DefnID: ir.NewDefnID(), NameStr: "B", FlagBits: ir.NewFlags(ir.Public), SupertypeList: []*ir.ClassType{{Class: classA}}}

	f := ir.NewFunction("f", nil, nil, &ir.ClassType{Class: classB}, ir.NewFlags(ir.Public), token.NoPosition)
	fnScope := a.table.NewChildScope(root)
	fnScope.Define("top", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "top", TypeV: &ir.ClassType{Class: classA}})

	a.CheckFunction(f, ident("top"), fnScope)
	if len(a.Errors()) == 0 {
		t.Fatal("expected a subtype-violation error returning A where B was declared")
	}
}

// TestAmbiguousOverloadIsRejected builds two overloads of h with
// identical Object parameter types, so a call passing Object can't
// resolve either as more specific.
func TestAmbiguousOverloadIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)

	// Two overloads with identical parameter types: neither can ever be
	// more specific than the other, so any call is ambiguous.
	wrap := ir.NewFunction("h", nil, []ir.Type{bi.RootType()}, ir.TheAnyType, ir.NewFlags(ir.Public), token.NoPosition)
	wrapAlt := ir.NewFunction("h", nil, []ir.Type{bi.RootType()}, ir.TheAnyType, ir.NewFlags(ir.Public), token.NoPosition)
	root.DefineOverload("h", wrap)
	root.DefineOverload("h", wrapAlt)

	fnScope := a.table.NewChildScope(root)
	fnScope.Define("obj", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "obj", TypeV: bi.RootType()})

	body := &ast.Call{Callee: ident("h"), Args: []ast.Expr{ident("obj")}}
	fn := ir.NewFunction("caller", nil, []ir.Type{bi.RootType()}, ir.TheAnyType, ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, body, fnScope)

	if len(a.Errors()) == 0 {
		t.Fatal("expected an ambiguous-overload error: two equally-specific candidates for h(Object)")
	}
}

// TestUnerasableTestPatternIsRejected covers the canonical erasure
// failure: testing a scrutinee statically typed Exception
// against the generic subclass instantiation E[String] can't be
// checked at runtime because Exception itself carries no type argument
// to compare String against.
func TestUnerasableTestPatternIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)

	tp := &ir.TypeParameter{DefnID: ir.NewDefnID(), NameStr: "X", UpperBound: bi.RootType(), VarianceV: ir.Invariant}
	classE := &ir.Class{
		DefnID:        ir.NewDefnID(),
		NameStr:       "E",
		TypeArgs:      []*ir.TypeParameter{tp},
		FlagBits:      ir.NewFlags(ir.Public),
		SupertypeList: []*ir.ClassType{bi.ExceptionType()},
	}

	fnScope := a.table.NewChildScope(root)
	fnScope.Define("ex", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "ex", TypeV: bi.ExceptionType()})

	match := &ast.Match{
		Scrutinee: ident("ex"),
		Cases: []*ast.MatchCase{
			{
				Pattern: &ast.TypeTestPattern{
					Type:         &ir.ClassType{Class: classE, TypeArgs: []ir.Type{bi.StringType()}},
					WildcardArgs: []bool{false},
				},
				Body: &ast.BoolLiteral{Value: true},
			},
		},
	}

	fn := ir.NewFunction("check", nil, []ir.Type{bi.ExceptionType()}, ir.Primitive(ir.Bool), ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, match, fnScope)

	if len(a.Errors()) == 0 {
		t.Fatal("expected an unerasable-test-type error for E[String] against Exception")
	}
}

// TestWildcardTypeTestIsAccepted shows the positive counterpart: a
// wildcard type argument (`_`) never needs a runtime check, so testing
// against E[_] is fine even though E[String] is not.
func TestWildcardTypeTestIsAccepted(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)

	tp := &ir.TypeParameter{DefnID: ir.NewDefnID(), NameStr: "X", UpperBound: bi.RootType(), VarianceV: ir.Invariant}
	classE := &ir.Class{
		DefnID:        ir.NewDefnID(),
		NameStr:       "E",
		TypeArgs:      []*ir.TypeParameter{tp},
		FlagBits:      ir.NewFlags(ir.Public),
		SupertypeList: []*ir.ClassType{bi.ExceptionType()},
	}

	fnScope := a.table.NewChildScope(root)
	fnScope.Define("ex", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "ex", TypeV: bi.ExceptionType()})

	wildcardVar := &ir.VariableType{Param: tp}
	match := &ast.Match{
		Scrutinee: ident("ex"),
		Cases: []*ast.MatchCase{
			{
				Pattern: &ast.TypeTestPattern{
					Type:         &ir.ClassType{Class: classE, TypeArgs: []ir.Type{wildcardVar}},
					WildcardArgs: []bool{true},
				},
				Body: &ast.BoolLiteral{Value: true},
			},
		},
	}

	fn := ir.NewFunction("check", nil, []ir.Type{bi.ExceptionType()}, ir.Primitive(ir.Bool), ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, match, fnScope)

	for _, e := range a.Errors() {
		t.Errorf("unexpected error: %v", e)
	}
}

func TestIntLiteralWideningPastDeclaredWidthIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)
	fnScope := a.table.NewChildScope(root)

	lit := &ast.IntLiteral{Value: 1000, Suffix: ir.I8, HasSuffix: true}
	fn := ir.NewFunction("c", nil, nil, ir.Primitive(ir.I8), ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, lit, fnScope)

	if len(a.Errors()) == 0 {
		t.Fatal("expected a literal-widens-past-declared-width error for 1000 as i8")
	}
}

// TestStoreThroughExistentialReceiverIsRejected covers the
// covariant-store scenario: `def f(box: forsome [X] Box[X]) = { box.x =
// Object() }`. Reading box.x through the opened existential is fine;
// writing through it is not, since the callee can't prove the stored
// value inhabits whatever X actually is.
func TestStoreThroughExistentialReceiverIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()

	tp := &ir.TypeParameter{DefnID: ir.NewDefnID(), NameStr: "X", UpperBound: bi.RootType(), VarianceV: ir.Covariant}
	field := &ir.Field{DefnID: ir.NewDefnID(), NameStr: "x", TypeV: &ir.VariableType{Param: tp}, FlagBits: ir.NewFlags(ir.Public), IsVar: true}
	box := &ir.Class{
		DefnID:        ir.NewDefnID(),
		NameStr:       "Box",
		TypeArgs:      []*ir.TypeParameter{tp},
		FieldList:     []*ir.Field{field},
		FlagBits:      ir.NewFlags(ir.Public),
		SupertypeList: []*ir.ClassType{bi.RootType()},
	}

	table := symbols.NewTable()
	root := table.NewChildScope(nil)
	boxScope := table.NewChildScope(root)
	boxScope.Define("x", symbols.KindVariable, field)

	a := NewAnalyzer(bi, config.Default(), &Package{ScopeOf: map[ir.DefnID]*symbols.Scope{box.ID(): boxScope}})
	a.table = table

	fnScope := table.NewChildScope(root)
	existential := ir.Close([]*ir.TypeParameter{tp}, &ir.ClassType{Class: box, TypeArgs: []ir.Type{&ir.VariableType{Param: tp}}})
	fnScope.Define("box", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "box", TypeV: existential})
	fnScope.Define("obj", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "obj", TypeV: bi.RootType()})

	assign := &ast.Assign{
		Target: &ast.PropertyAccess{Receiver: ident("box"), Name: "x"},
		Value:  ident("obj"),
	}
	fn := ir.NewFunction("f", nil, []ir.Type{existential}, ir.Primitive(ir.Unit), ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, assign, fnScope)

	if len(a.Errors()) == 0 {
		t.Fatal("expected a store-through-existential error")
	}
}

// TestReadThroughExistentialReceiverIsAccepted is the read-side
// counterpart: box.x is fine and re-closes over the opened variable.
func TestReadThroughExistentialReceiverIsAccepted(t *testing.T) {
	bi := ir.NewBuiltins()

	tp := &ir.TypeParameter{DefnID: ir.NewDefnID(), NameStr: "X", UpperBound: bi.RootType(), VarianceV: ir.Covariant}
	field := &ir.Field{DefnID: ir.NewDefnID(), NameStr: "x", TypeV: &ir.VariableType{Param: tp}, FlagBits: ir.NewFlags(ir.Public)}
	box := &ir.Class{
		DefnID:        ir.NewDefnID(),
		NameStr:       "Box",
		TypeArgs:      []*ir.TypeParameter{tp},
		FieldList:     []*ir.Field{field},
		FlagBits:      ir.NewFlags(ir.Public),
		SupertypeList: []*ir.ClassType{bi.RootType()},
	}

	table := symbols.NewTable()
	root := table.NewChildScope(nil)
	boxScope := table.NewChildScope(root)
	boxScope.Define("x", symbols.KindVariable, field)

	a := NewAnalyzer(bi, config.Default(), &Package{ScopeOf: map[ir.DefnID]*symbols.Scope{box.ID(): boxScope}})
	a.table = table

	fnScope := table.NewChildScope(root)
	existential := ir.Close([]*ir.TypeParameter{tp}, &ir.ClassType{Class: box, TypeArgs: []ir.Type{&ir.VariableType{Param: tp}}})
	fnScope.Define("box", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "box", TypeV: existential})

	read := &ast.PropertyAccess{Receiver: ident("box"), Name: "x"}
	fn := ir.NewFunction("g", nil, []ir.Type{existential}, bi.RootType(), ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, read, fnScope)

	for _, e := range a.Errors() {
		t.Errorf("unexpected error: %v", e)
	}
	got, ok := a.TypeOf(read)
	if !ok {
		t.Fatal("box.x was not assigned a type")
	}
	if _, isEx := got.(*ir.ExistentialType); !isEx {
		t.Errorf("reading a field typed by an opened variable should re-close, got %v", got)
	}
}

func TestAssignToLetBindingIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)
	fnScope := a.table.NewChildScope(root)
	fnScope.Define("c", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "c", TypeV: ir.Primitive(ir.I32), IsVar: false})

	assign := &ast.Assign{Target: ident("c"), Value: &ast.IntLiteral{Value: 1}}
	fn := ir.NewFunction("h", nil, nil, ir.Primitive(ir.Unit), ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, assign, fnScope)

	if len(a.Errors()) == 0 {
		t.Fatal("expected an assign-to-non-var error")
	}
}

// TestCompoundAssignChecksResultAssignability: x += 1 on an i32
// var is fine; the computed value must flow back into x.
func TestCompoundAssignChecksResultAssignability(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)
	fnScope := a.table.NewChildScope(root)
	fnScope.Define("x", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "x", TypeV: ir.Primitive(ir.I32), IsVar: true})

	ok := &ast.CompoundAssign{Op: "+", Target: ident("x"), Value: &ast.IntLiteral{Value: 1, Suffix: ir.I32, HasSuffix: true}}
	fn := ir.NewFunction("k", nil, nil, ir.Primitive(ir.Unit), ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, ok, fnScope)
	for _, e := range a.Errors() {
		t.Errorf("unexpected error for i32 += i32: %v", e)
	}

	// Widening the computed value past the target's width must fail:
	// x += (i64 literal) computes an i64, which does not fit back.
	bad := &ast.CompoundAssign{Op: "+", Target: ident("x"), Value: &ast.IntLiteral{Value: 1}}
	a.CheckFunction(fn, bad, fnScope)
	if len(a.Errors()) == 0 {
		t.Fatal("expected a subtype violation storing an i64 result back into an i32 var")
	}
}

func TestReturnOutsideFunctionIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)
	fnScope := a.table.NewChildScope(root)

	ret := &ast.Return{Value: &ast.IntLiteral{Value: 1}}
	ctx := context{scope: fnScope}
	got := a.checkExpr(ret, ctx)

	if _, isNo := got.(*ir.NoType); !isNo {
		t.Errorf("return should type as NoType, got %v", got)
	}
	if len(a.Errors()) == 0 {
		t.Fatal("expected a return-outside-function error")
	}
}

func TestMatchResultIsLubOfArmBodies(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)

	classA := &ir.Class{DefnID: ir.NewDefnID(), NameStr: "A", FlagBits: ir.NewFlags(ir.Public), SupertypeList: []*ir.ClassType{bi.RootType()}}
	classB := &ir.Class{DefnID: ir.NewDefnID(), NameStr: "B", FlagBits: ir.NewFlags(ir.Public), SupertypeList: []*ir.ClassType{{Class: classA}}}
	classC := &ir.Class{DefnID: ir.NewDefnID(), NameStr: "C", FlagBits: ir.NewFlags(ir.Public), SupertypeList: []*ir.ClassType{{Class: classA}}}

	fnScope := a.table.NewChildScope(root)
	fnScope.Define("s", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "s", TypeV: &ir.ClassType{Class: classA}})
	fnScope.Define("b", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "b", TypeV: &ir.ClassType{Class: classB}})
	fnScope.Define("c", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "c", TypeV: &ir.ClassType{Class: classC}})

	match := &ast.Match{
		Scrutinee: ident("s"),
		Cases: []*ast.MatchCase{
			{Pattern: &ast.VarPattern{Name: "x"}, Guard: &ast.BoolLiteral{Value: true}, Body: ident("b")},
			{Pattern: &ast.VarPattern{Name: "y"}, Body: ident("c")},
		},
	}
	fn := ir.NewFunction("m", nil, nil, &ir.ClassType{Class: classA}, ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, match, fnScope)

	for _, e := range a.Errors() {
		t.Errorf("unexpected error: %v", e)
	}
	got, ok := a.TypeOf(match)
	if !ok {
		t.Fatal("match was not assigned a type")
	}
	rc, isClass := got.(*ir.ClassType)
	if !isClass || rc.Class.ID() != classA.ID() {
		t.Errorf("match over B and C arms typed %v, want A", got)
	}
}

func TestDestructurePatternRequiresStd(t *testing.T) {
	bi := ir.NewBuiltins()
	table := symbols.NewTable()
	root := table.NewChildScope(nil)
	cfg := config.Default()
	cfg.IsUsingStd = false
	a := NewAnalyzer(bi, cfg, &Package{ScopeOf: map[ir.DefnID]*symbols.Scope{}})
	a.table = table

	fnScope := table.NewChildScope(root)
	fnScope.Define("s", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "s", TypeV: bi.RootType()})

	match := &ast.Match{
		Scrutinee: ident("s"),
		Cases: []*ast.MatchCase{
			{Pattern: &ast.DestructurePattern{Func: "extract", SubPatterns: []ast.Pattern{&ast.VarPattern{Name: "v"}}}, Body: &ast.BoolLiteral{Value: true}},
		},
	}
	fn := ir.NewFunction("d", nil, nil, ir.Primitive(ir.Bool), ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, match, fnScope)

	if len(a.Errors()) == 0 {
		t.Fatal("expected destructuring without std in scope to be rejected")
	}
}

// TestConstructorMustInitializeNonNullableObjectFields: before its
// constructor assigns it, an object-typed field holds its uninitialized
// value (null for a nullable field, Nothing otherwise), so a
// non-nullable field a constructor never mentions can escape as
// Nothing.
func TestConstructorMustInitializeNonNullableObjectFields(t *testing.T) {
	bi := ir.NewBuiltins()

	required := &ir.Field{DefnID: ir.NewDefnID(), NameStr: "label", TypeV: bi.StringType(), FlagBits: ir.NewFlags(ir.Public), IsVar: true}
	optional := &ir.Field{DefnID: ir.NewDefnID(), NameStr: "note", TypeV: bi.StringType().WithNullable(true), FlagBits: ir.NewFlags(ir.Public), IsVar: true}
	count := &ir.Field{DefnID: ir.NewDefnID(), NameStr: "count", TypeV: ir.Primitive(ir.I32), FlagBits: ir.NewFlags(ir.Public), IsVar: true}
	owner := &ir.Class{
		DefnID:        ir.NewDefnID(),
		NameStr:       "Tag",
		FieldList:     []*ir.Field{required, optional, count},
		FlagBits:      ir.NewFlags(ir.Public),
		SupertypeList: []*ir.ClassType{bi.RootType()},
	}

	table := symbols.NewTable()
	root := table.NewChildScope(nil)
	ownerScope := table.NewChildScope(root)
	for _, fd := range owner.Fields() {
		ownerScope.Define(fd.Name(), symbols.KindVariable, fd)
	}

	ctor := ir.NewFunction("Tag", owner, []ir.Type{bi.StringType()}, ir.Primitive(ir.Unit), ir.NewFlags(ir.Public, ir.Constructor), token.NoPosition)

	newCase := func() (*Analyzer, *symbols.Scope) {
		a := NewAnalyzer(bi, config.Default(), &Package{ScopeOf: map[ir.DefnID]*symbols.Scope{owner.ID(): ownerScope}})
		a.table = table
		ctorScope := table.NewChildScope(ownerScope)
		ctorScope.Define("s", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "s", TypeV: bi.StringType()})
		return a, ctorScope
	}

	a, ctorScope := newCase()
	good := &ast.Block{Stmts: []ast.Expr{
		&ast.Assign{Target: &ast.PropertyAccess{Receiver: &ast.ThisExpr{}, Name: "label"}, Value: ident("s")},
	}}
	a.CheckFunction(ctor, good, ctorScope)
	for _, e := range a.Errors() {
		t.Errorf("unexpected error when label is assigned: %v", e)
	}

	a, ctorScope = newCase()
	bad := &ast.Block{Stmts: []ast.Expr{&ast.Assign{Target: ident("count"), Value: &ast.IntLiteral{Value: 0, Suffix: ir.I32, HasSuffix: true}}}}
	a.CheckFunction(ctor, bad, ctorScope)
	found := false
	for _, e := range a.Errors() {
		if e.Code == "T018" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an uninitialized-field error for label (note and count are exempt)")
	}
}

func TestThrowOfNonExceptionIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a, _, root := newAnalyzer(bi)
	fnScope := a.table.NewChildScope(root)

	classA := &ir.Class{DefnID: ir.NewDefnID(), NameStr: "A", FlagBits: ir.NewFlags(ir.Public), SupertypeList: []*ir.ClassType{bi.RootType()}}
	fnScope.Define("notAnException", symbols.KindVariable, &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "notAnException", TypeV: &ir.ClassType{Class: classA}})

	throw := &ast.Throw{Value: ident("notAnException")}
	fn := ir.NewFunction("t", nil, nil, ir.TheNoType, ir.NewFlags(ir.Public), token.NoPosition)
	a.CheckFunction(fn, throw, fnScope)

	if len(a.Errors()) == 0 {
		t.Fatal("expected a throw-non-exception error")
	}
}
