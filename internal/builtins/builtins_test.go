package builtins

import (
	"testing"

	"github.com/Dummi26/mers/internal/data"
	"github.com/Dummi26/mers/internal/types"
)

func cellPair(a, b data.Data) *data.Cell {
	return data.NewCell(data.NewTuple(data.NewCell(a), data.NewCell(b)))
}

func findBinding(t *testing.T, bindings []Binding, name string) Binding {
	t.Helper()
	for _, b := range bindings {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no binding named %q", name)
	return Binding{}
}

func TestSumDependentTypeIntVsFloat(t *testing.T) {
	sum := findBinding(t, BundleBase(), "sum")
	fn := sum.Typ.Variants[0].(types.Function)

	intPair := types.New(types.Tuple{Elements: []types.Type{types.New(types.Int{}), types.New(types.Int{})}})
	out, err := fn.Output(intPair)
	if err != nil || out.String() != "Int" {
		t.Fatalf("got %s, %v", out, err)
	}

	mixedPair := types.New(types.Tuple{Elements: []types.Type{types.New(types.Int{}), types.New(types.Float{})}})
	out, err = fn.Output(mixedPair)
	if err != nil || out.String() != "Float" {
		t.Fatalf("got %s, %v", out, err)
	}
}

func TestSumRunIntAndFloat(t *testing.T) {
	sum := findBinding(t, BundleBase(), "sum")
	native := sum.Val.Function().Native

	result, err := native(cellPair(data.NewInt(2), data.NewInt(3)))
	if err != nil || result.Get().Int() != 5 {
		t.Fatalf("got %v, %v", result, err)
	}

	result, err = native(cellPair(data.NewInt(2), data.NewFloat(0.5)))
	if err != nil || result.Get().Float() != 2.5 {
		t.Fatalf("got %v, %v", result, err)
	}
}

func TestLtComparesAcrossIntAndFloat(t *testing.T) {
	lt := findBinding(t, BundleBase(), "lt")
	native := lt.Val.Function().Native
	result, err := native(cellPair(data.NewInt(2), data.NewFloat(3.5)))
	if err != nil || !result.Get().Bool() {
		t.Fatalf("got %v, %v", result, err)
	}
}

func TestConcatJoinsStrings(t *testing.T) {
	concat := findBinding(t, BundleString(), "concat")
	native := concat.Val.Function().Native
	result, err := native(cellPair(data.NewString("foo"), data.NewString("bar")))
	if err != nil || result.Get().String() != "foobar" {
		t.Fatalf("got %v, %v", result, err)
	}
}

func TestPushGrowsListAndWidensElementType(t *testing.T) {
	push := findBinding(t, BundleList(), "push")
	fn := push.Typ.Variants[0].(types.Function)

	listOfInt := types.New(types.List{Element: types.New(types.Int{})})
	arg := types.New(types.Tuple{Elements: []types.Type{listOfInt, types.New(types.String{})}})
	out, err := fn.Closure(arg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "[Int | String]" {
		t.Fatalf("expected a widened list element type, got %s", out)
	}

	native := push.Val.Function().Native
	list := data.NewList(data.NewCell(data.NewInt(1)), data.NewCell(data.NewInt(2)))
	result, err := native(data.NewCell(data.NewTuple(data.NewCell(list), data.NewCell(data.NewInt(3)))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Get().Elements()) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(result.Get().Elements()))
	}
}

func TestThreadRunsFunctionConcurrentlyAndJoinReturnsResult(t *testing.T) {
	thread := findBinding(t, BundleMultithreading(0), "thread")
	native := thread.Val.Function().Native

	double := data.NewFunction(&data.Function{Native: func(arg *data.Cell) (*data.Cell, error) {
		return data.NewCell(data.NewInt(arg.Get().Int() * 2)), nil
	}})
	result, err := native(data.NewCell(data.NewTuple(data.NewCell(double), data.NewCell(data.NewInt(21)))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	th := result.Get().Thread()
	joined, err := th.Join()
	if err != nil || joined.Get().Int() != 42 {
		t.Fatalf("got %v, %v", joined, err)
	}
}

func TestPrintlnCallsOutCallback(t *testing.T) {
	var captured string
	println := findBinding(t, BundlePrints(func(s string) { captured = s }), "println")
	native := println.Val.Function().Native
	if _, err := native(data.NewCell(data.NewString("hello"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured != "hello" {
		t.Fatalf("got %q", captured)
	}
}

func TestBundleStdIncludesAllVocabulary(t *testing.T) {
	bindings := BundleStd(func(string) {}, 0)
	names := map[string]bool{}
	for _, b := range bindings {
		names[b.Name] = true
	}
	for _, want := range []string{"sum", "sub", "mul", "eq", "lt", "concat", "strlen", "len", "push", "println", "thread", "sleep"} {
		if !names[want] {
			t.Fatalf("expected %q in bundle_std, got %v", want, names)
		}
	}
}
