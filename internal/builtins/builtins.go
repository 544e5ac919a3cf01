// Package builtins implements mers' host-provided vocabulary bundles
// (spec.md treats these as "external collaborators"; SPEC_FULL.md
// supplements them so a usable CLI can run real scripts): arithmetic,
// comparisons, printing, list/string operations, and the
// thread/sleep concurrency primitives from spec.md §5.
//
// Grounded on mers_lib/src/program/configs/with_*.rs for the bundle
// split (base/math/list/string/prints/multithreading) and
// gen/function.rs's `fun`/`func` helpers for the Func/FuncDependent
// pattern that lets a builtin declare either a static input->output
// table or a dependent-output closure.
package builtins

import (
	"fmt"
	"time"

	"github.com/Dummi26/mers/internal/data"
	"github.com/Dummi26/mers/internal/types"
)

// Binding is one host-provided name -> (value, type) pair, the unit
// Config adds to the parse/run/check Info triple (spec.md §6.1).
type Binding struct {
	Name string
	Val  data.Data
	Typ  types.Type
}

// Func builds a single-row static function type: a table with one
// (In, Out) entry. Most builtins need only this; dependent output typing
// (e.g. `add`'s Int/Float overload pair) uses FuncDependent instead.
func Func(in, out types.Type) types.Type {
	return types.New(types.Function{Table: []types.Row{{In: in, Out: out}}})
}

// FuncTable builds a static function type from multiple (In, Out) rows,
// unioning outputs per spec.md §4.4's table semantics.
func FuncTable(rows ...types.Row) types.Type {
	return types.New(types.Function{Table: rows})
}

// FuncDependent wraps a host closure as a dependent function type
// (spec.md §4.4's "central subtlety"); the checker calls closure, the
// evaluator never does.
func FuncDependent(closure types.OutputFn) types.Type {
	return types.New(types.Function{Closure: closure})
}

// native builds a runtime Function value, pairing a Go closure with its
// own static type so `try` can test runtime acceptance (internal/run's
// Try.Run) without invoking the function.
func native(statType types.Type, fn func(arg *data.Cell) (*data.Cell, error)) data.Data {
	return data.NewFunction(&data.Function{StaticType: statType, Native: fn})
}

func binding(name string, statType types.Type, fn func(arg *data.Cell) (*data.Cell, error)) Binding {
	return Binding{Name: name, Val: native(statType, fn), Typ: statType}
}

func intT() types.Type    { return types.New(types.Int{}) }
func floatT() types.Type  { return types.New(types.Float{}) }
func boolT() types.Type   { return types.New(types.Bool{}) }
func stringT() types.Type { return types.New(types.String{}) }
func pair(a, b types.Type) types.Type {
	return types.New(types.Tuple{Elements: []types.Type{a, b}})
}

// BundleBase implements arithmetic and comparison operators with
// dependent Int/Float output typing, mirroring
// mers_lib/src/program/configs/with_base.rs's numeric-tower overloads:
// `(Int,Int)->Int`, `(Float,_)|(​_,Float)->Float`.
func BundleBase() []Binding {
	numeric := func(intOp func(a, b int64) int64, floatOp func(a, b float64) float64) types.Type {
		return FuncDependent(func(arg types.Type) (types.Type, error) {
			a, b, ok := pairElementTypes(arg)
			if !ok {
				return types.Empty(), fmt.Errorf("expected a (Num, Num) tuple, got %s", arg)
			}
			if a.Includes(intT()) && b.Includes(intT()) {
				return intT(), nil
			}
			if (a.Includes(intT()) || a.Includes(floatT())) && (b.Includes(intT()) || b.Includes(floatT())) {
				return floatT(), nil
			}
			return types.Empty(), fmt.Errorf("expected numeric operands, got %s", arg)
		})
	}
	run2 := func(intOp func(a, b int64) int64, floatOp func(a, b float64) float64) func(*data.Cell) (*data.Cell, error) {
		return func(arg *data.Cell) (*data.Cell, error) {
			e := arg.Get().Elements()
			a, b := e[0].Get(), e[1].Get()
			if a.Kind() == data.KindFloat || b.Kind() == data.KindFloat {
				return data.NewCell(data.NewFloat(floatOp(asFloat(a), asFloat(b)))), nil
			}
			return data.NewCell(data.NewInt(intOp(a.Int(), b.Int()))), nil
		}
	}

	addInt, addFloat := func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }
	subInt, subFloat := func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }
	mulInt, mulFloat := func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }

	sumType := numeric(addInt, addFloat)
	subType := numeric(subInt, subFloat)
	mulType := numeric(mulInt, mulFloat)

	return []Binding{
		binding("sum", sumType, run2(addInt, addFloat)),
		binding("sub", subType, run2(subInt, subFloat)),
		binding("mul", mulType, run2(mulInt, mulFloat)),
		binding("eq", Func(pair(types.Union(intT(), floatT()), types.Union(intT(), floatT())), boolT()), func(arg *data.Cell) (*data.Cell, error) {
			e := arg.Get().Elements()
			return data.NewCell(data.NewBool(numEqual(e[0].Get(), e[1].Get()))), nil
		}),
		binding("lt", Func(pair(types.Union(intT(), floatT()), types.Union(intT(), floatT())), boolT()), func(arg *data.Cell) (*data.Cell, error) {
			e := arg.Get().Elements()
			return data.NewCell(data.NewBool(asFloat(e[0].Get()) < asFloat(e[1].Get()))), nil
		}),
	}
}

func pairElementTypes(t types.Type) (a, b types.Type, ok bool) {
	for _, v := range t.Variants {
		tup, isTuple := v.(types.Tuple)
		if isTuple && len(tup.Elements) == 2 {
			return tup.Elements[0], tup.Elements[1], true
		}
	}
	return types.Empty(), types.Empty(), false
}

func asFloat(d data.Data) float64 {
	if d.Kind() == data.KindFloat {
		return d.Float()
	}
	return float64(d.Int())
}

func numEqual(a, b data.Data) bool {
	return asFloat(a) == asFloat(b)
}

// BundlePrints implements `println`, mirroring
// mers_lib/src/program/configs/with_prints.rs.
func BundlePrints(out func(string)) []Binding {
	any := types.Union(types.Union(boolT(), intT()), types.Union(floatT(), stringT()))
	return []Binding{
		binding("println", Func(any, types.New(types.Tuple{})), func(arg *data.Cell) (*data.Cell, error) {
			out(arg.Get().String())
			return data.NewCell(data.Unit()), nil
		}),
	}
}

// BundleString implements string concatenation and length, mirroring
// mers_lib/src/program/configs/with_string.rs.
func BundleString() []Binding {
	return []Binding{
		binding("concat", Func(pair(stringT(), stringT()), stringT()), func(arg *data.Cell) (*data.Cell, error) {
			e := arg.Get().Elements()
			return data.NewCell(data.NewString(e[0].Get().String() + e[1].Get().String())), nil
		}),
		// Named strlen rather than len to avoid colliding with List's len
		// when both bundles are merged flat into one scope (BundlePure);
		// mers_lib keeps these in separate with_* configs that a host can
		// compose under any name it likes.
		binding("strlen", Func(stringT(), intT()), func(arg *data.Cell) (*data.Cell, error) {
			return data.NewCell(data.NewInt(int64(len([]rune(arg.Get().String()))))), nil
		}),
	}
}

// BundleList implements push/len over List values, mirroring
// mers_lib/src/program/configs/with_list.rs's dependent element typing.
func BundleList() []Binding {
	pushType := FuncDependent(func(arg types.Type) (types.Type, error) {
		a, b, ok := pairElementTypes(arg)
		if !ok {
			return types.Empty(), fmt.Errorf("push expects (List, Elem)")
		}
		for _, v := range a.Variants {
			if list, isList := v.(types.List); isList {
				return types.New(types.List{Element: types.Union(list.Element, b)}), nil
			}
		}
		return types.Empty(), fmt.Errorf("expected a List, got %s", a)
	})
	return []Binding{
		binding("push", pushType, func(arg *data.Cell) (*data.Cell, error) {
			e := arg.Get().Elements()
			list := e[0].Get().Elements()
			return data.NewCell(data.NewList(append(append([]*data.Cell{}, list...), e[1])...)), nil
		}),
		binding("len", FuncDependent(func(arg types.Type) (types.Type, error) {
			for _, v := range arg.Variants {
				if _, isList := v.(types.List); isList {
					return intT(), nil
				}
			}
			return types.Empty(), fmt.Errorf("expected a List, got %s", arg)
		}), func(arg *data.Cell) (*data.Cell, error) {
			return data.NewCell(data.NewInt(int64(len(arg.Get().Elements())))), nil
		}),
	}
}

// BundleMultithreading implements `thread` and `sleep` (spec.md §5),
// grounded on the concurrency/resource model description there (no
// original_source file was retrieved for with_multithreading.rs beyond
// spec.md's own account, see SPEC_FULL.md item 5).
func BundleMultithreading(runtimeCap time.Duration) []Binding {
	threadType := FuncDependent(func(arg types.Type) (types.Type, error) {
		a, b, ok := pairElementTypes(arg)
		if !ok {
			return types.Empty(), fmt.Errorf("thread expects (Function, Arg)")
		}
		for _, v := range a.Variants {
			if fn, isFn := v.(types.Function); isFn {
				out, err := fn.Output(b)
				if err != nil {
					return types.Empty(), err
				}
				return types.New(types.Thread{Result: out}), nil
			}
		}
		return types.Empty(), fmt.Errorf("expected a Function, got %s", a)
	})
	return []Binding{
		binding("thread", threadType, func(arg *data.Cell) (*data.Cell, error) {
			e := arg.Get().Elements()
			fn := e[0].Get().Function()
			argCell := e[1]
			th := data.NewThread()
			go func() {
				result, err := fn.Native(argCell)
				th.Resolve(result, err)
			}()
			return data.NewCell(data.NewThreadData(th)), nil
		}),
		binding("sleep", Func(intT(), types.New(types.Tuple{})), func(arg *data.Cell) (*data.Cell, error) {
			d := time.Duration(arg.Get().Int()) * time.Millisecond
			if runtimeCap > 0 && d > runtimeCap {
				d = runtimeCap
			}
			time.Sleep(d)
			return data.NewCell(data.Unit()), nil
		}),
	}
}

// BundlePure collects the side-effect-free bundles (arithmetic, string,
// list), mirroring mers_lib's bundle_pure().
func BundlePure() []Binding {
	var out []Binding
	out = append(out, BundleBase()...)
	out = append(out, BundleString()...)
	out = append(out, BundleList()...)
	return out
}

// BundleStd collects the full standard vocabulary (pure + printing +
// multithreading), mirroring mers_lib's bundle_std().
func BundleStd(out func(string), runtimeCap time.Duration) []Binding {
	var bindings []Binding
	bindings = append(bindings, BundlePure()...)
	bindings = append(bindings, BundlePrints(out)...)
	bindings = append(bindings, BundleMultithreading(runtimeCap)...)
	return bindings
}
