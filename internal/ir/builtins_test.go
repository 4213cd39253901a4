package ir

import "testing"

func TestUninitializedTypeOfNullableFieldIsNullableNothing(t *testing.T) {
	bi := NewBuiltins()
	nullableBox := bi.RootType().WithNullable(true)

	got := bi.UninitializedType(nullableBox)
	ct, ok := got.(*ClassType)
	if !ok {
		t.Fatalf("expected a ClassType, got %T", got)
	}
	if ct.Class.ID() != bi.Nothing.ID() {
		t.Errorf("expected Nothing, got %s", ct.Class.Name())
	}
	if !ct.Nullable {
		t.Errorf("expected the uninitialized value of a nullable field to be nullable")
	}
}

func TestUninitializedTypeOfNonNullableFieldIsNothing(t *testing.T) {
	bi := NewBuiltins()
	got := bi.UninitializedType(bi.RootType())
	ct, ok := got.(*ClassType)
	if !ok {
		t.Fatalf("expected a ClassType, got %T", got)
	}
	if ct.Class.ID() != bi.Nothing.ID() {
		t.Errorf("expected Nothing, got %s", ct.Class.Name())
	}
	if ct.Nullable {
		t.Errorf("expected the uninitialized value of a non-nullable field to be non-nullable")
	}
}

func TestFieldUninitializedTypePassesThroughPrimitives(t *testing.T) {
	bi := NewBuiltins()
	f := &Field{NameStr: "count", TypeV: Primitive(I32)}
	got := f.UninitializedType(bi)
	if got != Type(Primitive(I32)) {
		t.Errorf("expected a primitive field's uninitialized type to be itself, got %v", got)
	}
}
