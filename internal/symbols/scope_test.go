package symbols

import (
	"testing"

	"github.com/vellumlang/vellum/internal/ir"
	"github.com/vellumlang/vellum/internal/token"
)

func TestLookupWalksOuterScopes(t *testing.T) {
	table := NewTable()
	outer := table.NewChildScope(nil)
	inner := table.NewChildScope(outer)

	v := &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "x", TypeV: ir.Primitive(ir.I32), Position: token.NoPosition}
	outer.Define("x", KindVariable, v)

	b, ok := inner.Lookup("x")
	if !ok || b.Single != v {
		t.Fatalf("Lookup through the outer chain failed: %v, %v", b, ok)
	}
	if _, ok := inner.LookupLocal("x"); ok {
		t.Error("LookupLocal must not consult outer scopes")
	}
}

func TestShadowingResolvesToNearestScope(t *testing.T) {
	table := NewTable()
	outer := table.NewChildScope(nil)
	inner := table.NewChildScope(outer)

	outerV := &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "x", TypeV: ir.Primitive(ir.I32)}
	innerV := &ir.Variable{DefnID: ir.NewDefnID(), NameStr: "x", TypeV: ir.Primitive(ir.I64)}
	outer.Define("x", KindVariable, outerV)
	inner.Define("x", KindVariable, innerV)

	b, _ := inner.Lookup("x")
	if b.Single != innerV {
		t.Error("inner binding should shadow the outer one")
	}
	b, _ = outer.Lookup("x")
	if b.Single != outerV {
		t.Error("outer scope must still see its own binding")
	}
}

func TestDefineOverloadAccumulates(t *testing.T) {
	table := NewTable()
	s := table.NewChildScope(nil)

	f1 := ir.NewFunction("f", nil, nil, ir.Primitive(ir.I32), ir.NewFlags(ir.Public), token.NoPosition)
	f2 := ir.NewFunction("f", nil, []ir.Type{ir.Primitive(ir.I32)}, ir.Primitive(ir.I32), ir.NewFlags(ir.Public), token.NoPosition)
	s.DefineOverload("f", f1)
	s.DefineOverload("f", f2)

	b, ok := s.LookupLocal("f")
	if !ok || b.Kind != KindOverloadSet {
		t.Fatalf("expected an overload-set binding, got %v", b)
	}
	if len(b.Overload) != 2 {
		t.Errorf("expected both overloads recorded, got %d", len(b.Overload))
	}
}

func TestOpenExistentialIsVisibleFromInnerScopes(t *testing.T) {
	table := NewTable()
	outer := table.NewChildScope(nil)
	inner := table.NewChildScope(outer)

	tp := &ir.TypeParameter{DefnID: ir.NewDefnID(), NameStr: "X"}
	outer.OpenExistential(tp)

	if !inner.HasOpenExistential(tp) {
		t.Error("an existential opened in an enclosing scope should be visible from inner scopes")
	}
	other := &ir.TypeParameter{DefnID: ir.NewDefnID(), NameStr: "Y"}
	if inner.HasOpenExistential(other) {
		t.Error("an unopened variable must not report as open")
	}
}
