package parsed

import (
	"testing"

	"github.com/Dummi26/mers/internal/lexer"
)

func parse(t *testing.T, src string) Stmt {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("%q: unexpected parse errors: %v", src, p.Errors())
	}
	return prog
}

func firstStmt(t *testing.T, src string) Stmt {
	t.Helper()
	prog := parse(t, src).(Block)
	if len(prog.Stmts) != 1 {
		t.Fatalf("%q: expected 1 top-level statement, got %d", src, len(prog.Stmts))
	}
	return prog.Stmts[0]
}

func TestParseIntLiteral(t *testing.T) {
	v := firstStmt(t, "5").(Value)
	if v.Kind != ValueInt || v.Int != 5 {
		t.Fatalf("got %+v", v)
	}
}

func TestParseInitTo(t *testing.T) {
	s := firstStmt(t, "x := 5").(InitTo)
	if s.Pattern.(Variable).Name != "x" {
		t.Fatalf("got %+v", s.Pattern)
	}
	if s.Source.(Value).Int != 5 {
		t.Fatalf("got %+v", s.Source)
	}
}

func TestParseAssignToWithReference(t *testing.T) {
	s := firstStmt(t, "&x = 2").(AssignTo)
	target := s.Target.(Variable)
	if !target.IsRef || target.Name != "x" {
		t.Fatalf("got %+v", target)
	}
}

func TestParseChainDesugarsToCallArgs(t *testing.T) {
	c := firstStmt(t, "1.sum(2)").(Chain)
	if c.Arg.(Value).Int != 1 {
		t.Fatalf("got %+v", c.Arg)
	}
	if c.Func.(Variable).Name != "sum" {
		t.Fatalf("got %+v", c.Func)
	}
	if len(c.Args) != 1 || c.Args[0].(Value).Int != 2 {
		t.Fatalf("got %+v", c.Args)
	}
}

func TestParseFunctionLiteral(t *testing.T) {
	f := firstStmt(t, "x -> x").(FunctionLiteral)
	if f.Param.(Variable).Name != "x" {
		t.Fatalf("got %+v", f.Param)
	}
}

func TestParseIfElse(t *testing.T) {
	s := firstStmt(t, "if true { 1 } else { 0 }").(If)
	if s.Cond.(Value).Bool != true {
		t.Fatalf("got %+v", s.Cond)
	}
	if s.Else == nil {
		t.Fatalf("expected else branch")
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	s := firstStmt(t, "if true { 1 }").(If)
	if s.Else != nil {
		t.Fatalf("expected nil else branch, got %+v", s.Else)
	}
}

func TestParseLoop(t *testing.T) {
	s := firstStmt(t, "loop { () }").(Loop)
	if _, ok := s.Body.(Block); !ok {
		t.Fatalf("got %+v", s.Body)
	}
}

func TestParseTuple(t *testing.T) {
	tup := firstStmt(t, "(1, 2, 3)").(Tuple)
	if len(tup.Elements) != 3 {
		t.Fatalf("got %d elements", len(tup.Elements))
	}
}

func TestParseUnitTuple(t *testing.T) {
	tup := firstStmt(t, "()").(Tuple)
	if len(tup.Elements) != 0 {
		t.Fatalf("got %d elements", len(tup.Elements))
	}
}

func TestParseObjectLiteral(t *testing.T) {
	obj := firstStmt(t, "(x: 1, y: 2)").(Object)
	if len(obj.Fields) != 2 || obj.Fields[0].Name != "x" || obj.Fields[1].Name != "y" {
		t.Fatalf("got %+v", obj.Fields)
	}
}

func TestParseTryCall(t *testing.T) {
	tr := firstStmt(t, "try(1, f, g)").(Try)
	if tr.Arg.(Value).Int != 1 {
		t.Fatalf("got %+v", tr.Arg)
	}
	if len(tr.Funcs) != 2 {
		t.Fatalf("got %d funcs", len(tr.Funcs))
	}
}

func TestParseAsType(t *testing.T) {
	at := firstStmt(t, "x :: Int").(AsType)
	if at.Assert {
		t.Fatalf("expected expand form, got assert")
	}
	if at.Type.(Variable).Name != "Int" {
		t.Fatalf("got %+v", at.Type)
	}
}

func TestParseIgnorePattern(t *testing.T) {
	s := firstStmt(t, "_ := 5").(InitTo)
	if _, ok := s.Pattern.(Ignore); !ok {
		t.Fatalf("got %+v", s.Pattern)
	}
}

func TestParseStringLiteral(t *testing.T) {
	v := firstStmt(t, `"hi"`).(Value)
	if v.Kind != ValueString || v.String != "hi" {
		t.Fatalf("got %+v", v)
	}
}

func TestParseIncludeDirective(t *testing.T) {
	inc := firstStmt(t, `#include "lib.mers"`).(IncludeMers)
	if inc.Path != "lib.mers" {
		t.Fatalf("got %q", inc.Path)
	}
}

func TestParseBlockLastStatement(t *testing.T) {
	b := firstStmt(t, "{ 1, 2, 3 }").(Block)
	if len(b.Stmts) != 3 {
		t.Fatalf("got %d stmts", len(b.Stmts))
	}
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	p := New(lexer.New(")"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for a stray ')'")
	}
}
