package parsed

import (
	"testing"

	"github.com/Dummi26/mers/internal/data"
	"github.com/Dummi26/mers/internal/lexer"
	"github.com/Dummi26/mers/internal/run"
	"github.com/Dummi26/mers/internal/types"
)

// compileSource parses, compiles, and returns the resulting run.Stmt,
// failing the test on any parse or compile error.
func compileSource(t *testing.T, src string, comp *CompInfo) run.Stmt {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("%q: parse errors: %v", src, p.Errors())
	}
	rs, err := Compile(prog, comp)
	if err != nil {
		t.Fatalf("%q: compile error: %v", src, err)
	}
	return rs
}

func TestVariableShadowingAcrossBlockScopes(t *testing.T) {
	// x := 5, { x := 2, &x = 3 }, x  -> type Int, value 5 (spec.md §8)
	src := `x := 5, { x := 2, &x = 3 }, x`
	comp := NewCompInfo()
	rs := compileSource(t, src, comp)

	ci := run.NewCheckInfo()
	ty, err := rs.Check(ci)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if ty.String() != "Int" {
		t.Fatalf("got %s", ty)
	}

	ri := run.NewRunInfo()
	cell, err := rs.Run(ri)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if cell.Get().Int() != 5 {
		t.Fatalf("got %d", cell.Get().Int())
	}
}

func TestIdentityFunctionLiteralThroughChain(t *testing.T) {
	// id := x -> x, 4.id  -> type Int, value 4 (spec.md §8)
	src := `id := x -> x, 4.id`
	comp := NewCompInfo()
	rs := compileSource(t, src, comp)

	ci := run.NewCheckInfo()
	ty, err := rs.Check(ci)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if ty.String() != "Int" {
		t.Fatalf("got %s", ty)
	}

	ri := run.NewRunInfo()
	cell, err := rs.Run(ri)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if cell.Get().Int() != 4 {
		t.Fatalf("got %d", cell.Get().Int())
	}
}

func TestAsTypeExpandAndAssert(t *testing.T) {
	comp := NewCompInfo()
	rs := compileSource(t, `5 :: Int`, comp)
	ty, err := rs.Check(run.NewCheckInfo())
	if err != nil || ty.String() != "Int" {
		t.Fatalf("got %s, %v", ty, err)
	}

	rs = compileSource(t, `5 :: !Int`, comp)
	ty, err = rs.Check(run.NewCheckInfo())
	if err != nil || ty.String() != "Int[5,5]" {
		t.Fatalf("assert: got %s, %v", ty, err)
	}
}

func TestAsTypeRejectsUnincludedType(t *testing.T) {
	comp := NewCompInfo()
	rs := compileSource(t, `5 :: Bool`, comp)
	if _, err := rs.Check(run.NewCheckInfo()); err == nil {
		t.Fatalf("expected a CheckError narrowing Int to Bool")
	}
}

func TestIfElseConcreteScenario(t *testing.T) {
	// if true { 1 } else { 0.5 } -> type Int | Float, value 1
	comp := NewCompInfo()
	rs := compileSource(t, `if true { 1 } else { 0.5 }`, comp)
	ty, err := rs.Check(run.NewCheckInfo())
	if err != nil || ty.String() != "Float | Int[1,1]" {
		t.Fatalf("got %s, %v", ty, err)
	}
	cell, err := rs.Run(run.NewRunInfo())
	if err != nil || cell.Get().Int() != 1 {
		t.Fatalf("got %v, %v", cell, err)
	}
}

func TestUnknownVariableIsCompileError(t *testing.T) {
	comp := NewCompInfo()
	p := New(lexer.New("undefined_var"))
	prog := p.ParseProgram()
	if _, err := Compile(prog, comp); err == nil {
		t.Fatalf("expected a CompileError for an unresolved variable")
	}
}

func TestSumBuiltinViaChain(t *testing.T) {
	// 1.sum(2) -> type Int, value 3 (spec.md §8), using a hand-seeded
	// builtin to stand in for internal/config's real bundle.
	comp := NewCompInfo()
	ref := comp.declare("sum")
	rs := compileSource(t, `1.sum(2)`, comp)

	ci := run.NewCheckInfo()
	ci.SetSlot(ref.Depth, ref.Slot, types.New(types.Function{Table: []types.Row{
		{In: types.New(types.Tuple{Elements: []types.Type{types.New(types.Int{}), types.New(types.Int{})}}), Out: types.New(types.Int{})},
	}}))
	ty, err := rs.Check(ci)
	if err != nil || ty.String() != "Int" {
		t.Fatalf("got %s, %v", ty, err)
	}

	ri := run.NewRunInfo()
	sumFn := data.NewFunction(&data.Function{Native: func(arg *data.Cell) (*data.Cell, error) {
		elems := arg.Get().Elements()
		return data.NewCell(data.NewInt(elems[0].Get().Int() + elems[1].Get().Int())), nil
	}})
	ri.SetSlot(ref.Depth, ref.Slot, data.NewCell(sumFn))
	cell, err := rs.Run(ri)
	if err != nil || cell.Get().Int() != 3 {
		t.Fatalf("got %v, %v", cell, err)
	}
}
