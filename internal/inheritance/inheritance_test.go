package inheritance

import (
	"testing"

	"github.com/vellumlang/vellum/internal/diagnostics"
	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/symbols"
	"github.com/vellumlang/vellum/internal/token"
)

func newClass(name string, flags ir.Flags, supers ...*ir.ClassType) *ir.Class {
	return &ir.Class{DefnID: ir.NewDefnID(), NameStr: name, FlagBits: flags, SupertypeList: supers, Position: token.NoPosition}
}

func newTrait(name string, supers ...*ir.ClassType) *ir.Trait {
	return &ir.Trait{DefnID: ir.NewDefnID(), NameStr: name, FlagBits: ir.NewFlags(ir.Public), SupertypeList: supers, Position: token.NoPosition}
}

func ct(c ir.ObjectTypeDefn, args ...ir.Type) *ir.ClassType {
	return &ir.ClassType{Class: c, TypeArgs: args}
}

func method(name string, declClass ir.ObjectTypeDefn, params []ir.Type, ret ir.Type, extra ...ir.Flag) *ir.Function {
	flags := ir.NewFlags(append([]ir.Flag{ir.Public, ir.Method}, extra...)...)
	fn := ir.NewFunction(name, declClass, params, ret, flags, token.NoPosition)
	return fn
}

// setup wires a Table, one scope per class/trait, and defines each
// method onto its scope, then runs the analyzer. Callers look up
// results through the returned scope and defn maps.
func setup(t *testing.T, bi *ir.Builtins, classes []*ir.Class, traits []*ir.Trait, methods map[ir.DefnID][]*ir.Function) ([]*diagnostics.CompileError, map[ir.DefnID]*symbols.Scope) {
	t.Helper()
	table := symbols.NewTable()
	root := table.NewChildScope(nil)
	scopeOf := make(map[ir.DefnID]*symbols.Scope)
	for _, c := range classes {
		s := table.NewChildScope(root)
		scopeOf[c.ID()] = s
		for _, m := range methods[c.ID()] {
			s.DefineOverload(m.Name(), m)
		}
	}
	for _, tr := range traits {
		s := table.NewChildScope(root)
		scopeOf[tr.ID()] = s
		for _, m := range methods[tr.ID()] {
			s.DefineOverload(m.Name(), m)
		}
	}
	analyzer := NewAnalyzer(bi, &Package{Classes: classes, Traits: traits, ScopeOf: scopeOf})
	errs := analyzer.Run()
	return errs, scopeOf
}

func TestOverrideClosureAndBackPointer(t *testing.T) {
	bi := ir.NewBuiltins()
	f := newClass("F", ir.NewFlags(ir.Public), bi.RootType())
	s := newClass("S", ir.NewFlags(ir.Public), ct(f))

	apply := method("apply", f, []ir.Type{ir.Primitive(ir.I32)}, bi.RootType())
	applyOverride := method("apply", s, []ir.Type{ir.Primitive(ir.I32)}, bi.RootType(), ir.Override)

	methods := map[ir.DefnID][]*ir.Function{
		f.ID(): {apply},
		s.ID(): {applyOverride},
	}

	errs, _ := setup(t, bi, []*ir.Class{f, s}, nil, methods)
	for _, e := range errs {
		t.Errorf("unexpected error: %v", e)
	}

	if len(applyOverride.Overrides) != 1 || applyOverride.Overrides[0].ID() != apply.ID() {
		t.Fatalf("S.apply.Overrides = %v, want [F.apply]", applyOverride.Overrides)
	}
	if got := apply.OverriddenBy[s.ID()]; got == nil || got.ID() != applyOverride.ID() {
		t.Errorf("F.apply.OverriddenBy[S] = %v, want S.apply", got)
	}
}

func TestMissingOverrideFlagIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	f := newClass("F", ir.NewFlags(ir.Public), bi.RootType())
	s := newClass("S", ir.NewFlags(ir.Public), ct(f))

	apply := method("apply", f, []ir.Type{ir.Primitive(ir.I32)}, bi.RootType())
	// Declared without ir.Override: should be flagged.
	applyNoFlag := method("apply", s, []ir.Type{ir.Primitive(ir.I32)}, bi.RootType())

	methods := map[ir.DefnID][]*ir.Function{
		f.ID(): {apply},
		s.ID(): {applyNoFlag},
	}
	errs, _ := setup(t, bi, []*ir.Class{f, s}, nil, methods)
	if len(errs) == 0 {
		t.Fatal("expected a missing-override diagnostic, got none")
	}
}

func TestSpuriousOverrideIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	f := newClass("F", ir.NewFlags(ir.Public), bi.RootType())
	onlyInF := method("onlyInF", f, nil, bi.RootType(), ir.Override)

	methods := map[ir.DefnID][]*ir.Function{f.ID(): {onlyInF}}
	errs, _ := setup(t, bi, []*ir.Class{f}, nil, methods)
	if len(errs) == 0 {
		t.Fatal("expected a spurious-override diagnostic for a method with no base to override")
	}
}

func TestFinalClassCannotBeInherited(t *testing.T) {
	bi := ir.NewBuiltins()
	sealed := newClass("Sealed", ir.NewFlags(ir.Public, ir.Final), bi.RootType())
	derived := newClass("Derived", ir.NewFlags(ir.Public), ct(sealed))

	errs, _ := setup(t, bi, []*ir.Class{sealed, derived}, nil, nil)
	if len(errs) == 0 {
		t.Fatal("expected an inherit-final diagnostic")
	}
}

func TestDuplicateSupertypeIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a := newClass("A", ir.NewFlags(ir.Public), bi.RootType())
	b := newClass("B", ir.NewFlags(ir.Public), ct(a), ct(a))

	errs, _ := setup(t, bi, []*ir.Class{a, b}, nil, nil)
	if len(errs) == 0 {
		t.Fatal("expected a duplicate-supertype diagnostic")
	}
}

func TestDiamondConflictOnIncompatibleTypeArgs(t *testing.T) {
	bi := ir.NewBuiltins()
	tp := &ir.TypeParameter{DefnID: ir.NewDefnID(), NameStr: "T", UpperBound: bi.RootType(), VarianceV: ir.Invariant}
	box := newClass("Box", ir.NewFlags(ir.Public), bi.RootType())
	box.TypeArgs = []*ir.TypeParameter{tp}

	boxedObject := newTrait("BoxedObject", ct(box, bi.RootType()))
	// D extends Box[String] directly and also implements a trait whose
	// own supertype is Box[Object]: two incompatible instantiations of
	// the same generic ancestor reaching D through different paths.
	d := newClass("D", ir.NewFlags(ir.Public), ct(box, bi.StringType()), ct(boxedObject))

	errs, _ := setup(t, bi, []*ir.Class{d}, []*ir.Trait{boxedObject}, nil)
	if len(errs) == 0 {
		t.Fatal("expected a diamond-conflict diagnostic for Box[String] vs Box[Object]")
	}
}

func TestAbstractMethodMustBeOverriddenInConcreteClass(t *testing.T) {
	bi := ir.NewBuiltins()
	base := newClass("Base", ir.NewFlags(ir.Public, ir.Abstract), bi.RootType())
	base.MethodList = nil
	abstractMethod := method("run", base, nil, ir.Primitive(ir.Unit), ir.Abstract)
	concrete := newClass("Concrete", ir.NewFlags(ir.Public), ct(base))

	methods := map[ir.DefnID][]*ir.Function{base.ID(): {abstractMethod}}
	errs, _ := setup(t, bi, []*ir.Class{base, concrete}, nil, methods)
	if len(errs) == 0 {
		t.Fatal("expected an abstract-not-overridden diagnostic for Concrete")
	}
}

func TestSupertypesExactlyOnceInvariant(t *testing.T) {
	// diamond shape that does NOT conflict (same type args throughout):
	// Root <- Mid1, Root <- Mid2, Mid1&Mid2 <- Bottom. Root should appear
	// exactly once in Bottom's full supertype list even though it is
	// reachable through both Mid1 and Mid2.
	bi := ir.NewBuiltins()
	mid1 := newTrait("Mid1", bi.RootType())
	mid2 := newTrait("Mid2", bi.RootType())
	bottom := newClass("Bottom", ir.NewFlags(ir.Public), bi.RootType(), ct(mid1), ct(mid2))

	errs, _ := setup(t, bi, []*ir.Class{bottom}, []*ir.Trait{mid1, mid2}, nil)
	for _, e := range errs {
		t.Errorf("unexpected error: %v", e)
	}

	seen := make(map[ir.DefnID]int)
	for _, st := range bottom.Supertypes() {
		seen[st.Class.ID()]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("supertype %s appears %d times, want exactly once", id, n)
		}
	}
	if seen[bi.Root.ID()] != 1 {
		t.Error("expected Object to appear exactly once in Bottom's supertype list")
	}
}

func TestCyclicSubtypeGraphAbortsAnalysis(t *testing.T) {
	bi := ir.NewBuiltins()
	a := newClass("A", ir.NewFlags(ir.Public))
	b := newClass("B", ir.NewFlags(ir.Public))
	a.SupertypeList = []*ir.ClassType{ct(b)}
	b.SupertypeList = []*ir.ClassType{ct(a)}

	errs, _ := setup(t, bi, []*ir.Class{a, b}, nil, nil)
	if len(errs) != 1 {
		t.Fatalf("expected exactly the cycle diagnostic, got %v", errs)
	}
	if errs[0].Code != diagnostics.ErrCyclicSubtypeGraph {
		t.Errorf("got %s, want %s", errs[0].Code, diagnostics.ErrCyclicSubtypeGraph)
	}
}

func TestNullableSupertypeIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	a := newClass("A", ir.NewFlags(ir.Public), bi.RootType())
	b := newClass("B", ir.NewFlags(ir.Public), ct(a).WithNullable(true))

	errs, _ := setup(t, bi, []*ir.Class{a, b}, nil, nil)
	found := false
	for _, e := range errs {
		if e.Code == diagnostics.ErrNullableSupertype {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a nullable-supertype diagnostic")
	}
}

func TestInheritingNothingIsRejected(t *testing.T) {
	bi := ir.NewBuiltins()
	b := newClass("B", ir.NewFlags(ir.Public), bi.NothingType())

	errs, _ := setup(t, bi, []*ir.Class{b}, nil, nil)
	found := false
	for _, e := range errs {
		if e.Code == diagnostics.ErrInheritNothing {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an inherit-Nothing diagnostic")
	}
}

func TestDeferredBoundChecksRunAfterCycleCheck(t *testing.T) {
	bi := ir.NewBuiltins()
	a := newClass("A", ir.NewFlags(ir.Public), bi.RootType())
	b := newClass("B", ir.NewFlags(ir.Public), ct(a))
	unrelated := newClass("U", ir.NewFlags(ir.Public), bi.RootType())

	// T's upper bound is A: instantiating with B is fine, with U is not.
	tp := &ir.TypeParameter{DefnID: ir.NewDefnID(), NameStr: "T", UpperBound: ct(a), VarianceV: ir.Invariant, Position: token.NoPosition}

	table := symbols.NewTable()
	root := table.NewChildScope(nil)
	scopeOf := make(map[ir.DefnID]*symbols.Scope)
	for _, c := range []*ir.Class{a, b, unrelated} {
		scopeOf[c.ID()] = table.NewChildScope(root)
	}

	analyzer := NewAnalyzer(bi, &Package{
		Classes:        []*ir.Class{a, b, unrelated},
		TypeParameters: []*ir.TypeParameter{tp},
		ScopeOf:        scopeOf,
		DeferredChecks: []DeferredBoundCheck{
			{Arg: ct(b), Param: tp, Pos: token.NoPosition},
			{Arg: ct(unrelated), Param: tp, Pos: token.NoPosition},
		},
	})
	errs := analyzer.Run()
	var bounds []*diagnostics.CompileError
	for _, e := range errs {
		if e.Code == diagnostics.ErrTypeArgOutOfBounds {
			bounds = append(bounds, e)
		}
	}
	if len(bounds) != 1 {
		t.Fatalf("expected exactly one bound violation (U outside T's upper bound A), got %v", errs)
	}
}

func TestFieldAndGlobalInheritance(t *testing.T) {
	bi := ir.NewBuiltins()
	base := newClass("Base", ir.NewFlags(ir.Public), bi.RootType())
	base.FieldList = []*ir.Field{{DefnID: ir.NewDefnID(), NameStr: "x", TypeV: ir.Primitive(ir.I32), FlagBits: ir.NewFlags(ir.Public)}}
	derived := newClass("Derived", ir.NewFlags(ir.Public), ct(base))

	table := symbols.NewTable()
	root := table.NewChildScope(nil)
	baseScope := table.NewChildScope(root)
	baseScope.Define("x", symbols.KindVariable, base.FieldList[0])
	derivedScope := table.NewChildScope(root)
	scopeOf := map[ir.DefnID]*symbols.Scope{base.ID(): baseScope, derived.ID(): derivedScope}

	analyzer := NewAnalyzer(bi, &Package{Classes: []*ir.Class{base, derived}, ScopeOf: scopeOf})
	errs := analyzer.Run()
	for _, e := range errs {
		t.Errorf("unexpected error: %v", e)
	}
	if _, ok := derivedScope.LookupLocal("x"); !ok {
		t.Error("expected field x to be inherited into Derived's scope")
	}
}
