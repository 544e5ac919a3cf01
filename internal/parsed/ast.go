// Package parsed defines the untyped AST produced by the parser
// (`ParsedStmt` in spec.md §4.2/§4.3) and the compiler that lowers it
// into internal/run's typed, scope-resolved tree.
//
// Grounded on mers_lib/src/program/parsed/*.rs for the node set and the
// compile()/compile_custom() split, and on the teacher's internal/ast
// package for the Go idiom of one exported struct per node kind sharing
// a common interface.
package parsed

import "github.com/Dummi26/mers/internal/token"

// Stmt is any untyped AST node. Every concrete node embeds a Range; the
// package-level Compile function lowers a node into a run.Stmt.
type Stmt interface {
	Range() token.Range
	stmtNode()
}

// base carries the source range shared by every node; concrete nodes
// embed it to get Range() and the stmtNode marker for free.
type base struct {
	rng token.Range
}

func (b base) Range() token.Range { return b.rng }
func (base) stmtNode()            {}

// Value is an integer, float, bool, or string literal.
type Value struct {
	base
	Kind    ValueKind
	Int     int64
	Float   float64
	Bool    bool
	String  string
}

// ValueKind discriminates Value's payload.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueBool
	ValueString
)

// Variable is an identifier reference (`x`) or a reference-taking
// variable read (`&x`), per spec.md §4.2 rule 9.
type Variable struct {
	base
	Name  string
	IsRef bool
}

// Block is `{ s1; s2; ...; sn }`.
type Block struct {
	base
	Stmts []Stmt
}

// Tuple is `(s1, s2, ..., sn)`; arity 0 is the unit value.
type Tuple struct {
	base
	Elements []Stmt
}

// ObjectField is one `name: value` entry of an Object literal.
type ObjectField struct {
	Name string
	Val  Stmt
}

// Object is `(name1: v1, name2: v2, ...)`, distinguished from Tuple by
// each element carrying a leading `IDENT ':'`.
type Object struct {
	base
	Fields []ObjectField
}

// If is `if cond then [else elseStmt]`.
type If struct {
	base
	Cond Stmt
	Then Stmt
	Else Stmt // nil if absent
}

// Loop is `loop body`.
type Loop struct {
	base
	Body Stmt
}

// Try is `try(arg, f1, f2, ...)` -- first matching function wins.
type Try struct {
	base
	Arg   Stmt
	Funcs []Stmt
}

// InitTo is `pattern := source`; introduces fresh slots for every
// identifier named in Pattern.
type InitTo struct {
	base
	Pattern Stmt
	Source  Stmt
}

// AssignTo is `target = source`; Target must evaluate to a Reference.
type AssignTo struct {
	base
	Target Stmt
	Source Stmt
}

// FunctionLiteral is `param -> body`.
type FunctionLiteral struct {
	base
	Param Stmt
	Body  Stmt
}

// Chain is `arg.func`, method-call sugar for `func(arg)` once Call's
// argument list is folded in (spec.md §4.2 rules 1-2). Args holds the
// call's argument list, appended after Arg when the compiler desugars a
// chain into a function application: `a.f(b,c)` ≡ `f(a,b,c)`.
type Chain struct {
	base
	Arg  Stmt
	Func Stmt
	Args []Stmt
}

// AsType is `x :: T`, narrowing or asserting x's static type to T.
type AsType struct {
	base
	Expr Stmt
	Type Stmt
	// Assert selects the "assert" reading (result keeps x's own type,
	// merely checked against T) rather than "expand" (result becomes T).
	// mers spells assertion with a leading '!' inside the annotation,
	// e.g. `x :: !T`; see Parser.parseStmt.
	Assert bool
}

// Ignore is the `_`-prefixed pattern identifier: a binding slot that
// discards its value (spec.md §4.2).
type Ignore struct {
	base
}

// IncludeMers is `#include "path"`.
type IncludeMers struct {
	base
	Path string
}

var (
	_ Stmt = Value{}
	_ Stmt = Variable{}
	_ Stmt = Block{}
	_ Stmt = Tuple{}
	_ Stmt = Object{}
	_ Stmt = If{}
	_ Stmt = Loop{}
	_ Stmt = Try{}
	_ Stmt = InitTo{}
	_ Stmt = AssignTo{}
	_ Stmt = FunctionLiteral{}
	_ Stmt = Chain{}
	_ Stmt = AsType{}
	_ Stmt = Ignore{}
	_ Stmt = IncludeMers{}
)
