package data

import "testing"

func TestCellSetIsVisibleThroughAliases(t *testing.T) {
	c := NewCell(NewInt(1))
	alias := c // a second holder of the same *Cell, as a Reference would hold
	c.Set(NewInt(2))
	if alias.Get().Int() != 2 {
		t.Fatalf("expected alias to observe the write, got %d", alias.Get().Int())
	}
}

func TestReferenceWrapsACell(t *testing.T) {
	target := NewCell(NewString("hi"))
	ref := NewReference(target)
	if ref.Kind() != KindReference {
		t.Fatalf("got kind %s", ref.Kind())
	}
	if ref.Reference().Get().String() != "hi" {
		t.Fatalf("unexpected referenced value: %s", ref.Reference().Get().String())
	}
	target.Set(NewString("bye"))
	if ref.Reference().Get().String() != "bye" {
		t.Fatalf("reference must observe writes to its target cell")
	}
}

func TestUnitIsZeroArityTuple(t *testing.T) {
	u := Unit()
	if u.Kind() != KindTuple || len(u.Elements()) != 0 {
		t.Fatalf("Unit() must be an empty tuple, got %v", u)
	}
	if u.String() != "()" {
		t.Fatalf("got %q", u.String())
	}
}

func TestObjectFieldLookup(t *testing.T) {
	obj := NewObject(
		Field{Name: "x", Val: NewCell(NewInt(1))},
		Field{Name: "y", Val: NewCell(NewInt(2))},
	)
	y, ok := obj.Field("y")
	if !ok || y.Get().Int() != 2 {
		t.Fatalf("expected field y == 2")
	}
	if _, ok := obj.Field("z"); ok {
		t.Fatalf("field z should not exist")
	}
}

func TestStaticTypeOfNarrowsIntLiterals(t *testing.T) {
	ty := StaticTypeOf(NewInt(42))
	want := "Int[42,42]"
	if ty.String() != want {
		t.Fatalf("got %q, want %q", ty.String(), want)
	}
}

func TestStaticTypeOfListUnionsElementTypes(t *testing.T) {
	list := NewList(NewCell(NewInt(1)), NewCell(NewBool(true)))
	ty := StaticTypeOf(list)
	got := ty.String()
	want1 := "[Bool | Int[1,1]]"
	want2 := "[Int[1,1] | Bool]"
	if got != want1 && got != want2 {
		t.Fatalf("got %q", got)
	}
}

func TestAccessorPanicsOnWrongKind(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic calling Int() on a Bool Data")
		}
	}()
	NewBool(true).Int()
}
