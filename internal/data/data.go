// Package data implements mers' runtime value model: every value is a
// Data, a tagged union mirroring internal/types.Type's variant set, and
// every Data is held behind a Cell -- a shared, interior-mutable slot so
// that `&x` (Reference) aliasing and assignment-through-reference behave
// like the language spec requires.
//
// Grounded on the teacher's internal/jsonvalue/value.go (tagged-Kind,
// private-field struct, constructor-per-kind idiom) generalized from
// JSON's seven kinds to mers' value variants, and on
// mers_lib/src/data/{bool,int,float,string,tuple,object,list,
// reference,function}.rs for the variant set and Reference's two-cell
// indirection.
package data

import (
	"fmt"
	"sync"

	"github.com/Dummi26/mers/internal/types"
)

// Kind tags the concrete shape a Data holds.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindTuple
	KindObject
	KindList
	KindFunction
	KindReference
	KindThread
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindTuple:
		return "Tuple"
	case KindObject:
		return "Object"
	case KindList:
		return "List"
	case KindFunction:
		return "Function"
	case KindReference:
		return "Reference"
	case KindThread:
		return "Thread"
	default:
		return "Unknown"
	}
}

// Data is an immutable-by-convention tagged value. Mutation only ever
// happens through a Cell's Set, never by mutating a Data in place,
// except for the slices/maps backing Tuple/Object/List payloads, which
// are owned by exactly one Cell at a time by construction.
type Data struct {
	kind Kind

	boolean bool
	integer int64
	float   float64
	str     string

	elements []*Cell // Tuple, List
	fields   []Field // Object, in declared order
	fn       *Function
	ref      *Cell  // Reference: the cell being aliased
	thread   *Thread
}

// Field is one named entry of an Object value.
type Field struct {
	Name string
	Val  *Cell
}

// Function is a runtime callable. Native is a Go closure in both cases:
// a builtin's implementation, or the closure internal/run builds to
// evaluate a user-defined function literal's body (keeping data free of
// an import of run).
type Function struct {
	Name   string // empty for anonymous function literals and builtins
	Native func(arg *Cell) (*Cell, error)
	// StaticType is the function's own types.Function variant (wrapped
	// in a singleton types.Type), used by `try` at runtime to test
	// whether a candidate function accepts a given argument shape
	// without calling it. Left as a zero types.Type (IsEmpty) for
	// functions that don't need runtime acceptance testing.
	StaticType types.Type
	// CapturedScopes is the snapshot of the defining lexical scope stack
	// for user-defined function literals (nil for builtins), restored as
	// the base of a fresh scope stack on each call so closures observe
	// their defining environment rather than the caller's.
	CapturedScopes [][]*Cell
}

// Thread is a handle to a concurrently-running function call, produced
// by the `thread` builtin (spec.md §5).
type Thread struct {
	mu     sync.Mutex
	done   bool
	result *Cell
	err    error
}

// NewThread wraps an already-started goroutine's eventual outcome. The
// caller is responsible for calling Resolve exactly once when the
// goroutine finishes.
func NewThread() *Thread { return &Thread{} }

// Resolve records the outcome of the underlying goroutine. Safe to call
// from the goroutine itself.
func (th *Thread) Resolve(result *Cell, err error) {
	th.mu.Lock()
	defer th.mu.Unlock()
	th.done, th.result, th.err = true, result, err
}

// Join blocks until Resolve has been called, then returns its outcome.
// Callers needing non-blocking polling should pair Thread with a
// sync.WaitGroup or channel at the call site; Join itself busy-polls,
// with no sleep or backoff between polls, since mers has no native
// condition variable exposed to the evaluator.
func (th *Thread) Join() (*Cell, error) {
	for {
		th.mu.Lock()
		done, result, err := th.done, th.result, th.err
		th.mu.Unlock()
		if done {
			return result, err
		}
	}
}

// ---------------------------------------------------------------------
// Cell: the shared, interior-mutable slot every Data lives behind.
// ---------------------------------------------------------------------

// Cell is mers' unit of sharing and mutation. Every variable binding,
// tuple element, object field, and list element is a *Cell, not a bare
// Data, so that a Reference can alias it and `&x = v` (AssignTo) is
// visible through every other holder of the same Cell.
type Cell struct {
	mu   sync.RWMutex
	data Data
}

// NewCell wraps d in a fresh, independently-owned Cell.
func NewCell(d Data) *Cell {
	return &Cell{data: d}
}

// Get returns a snapshot of the Cell's current Data. The returned Data's
// own element/field Cells remain shared -- Get does not deep-copy.
func (c *Cell) Get() Data {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Set overwrites the Cell's contents, as performed by AssignTo
// (`&ref = value`, spec.md §4.2's assignment form).
func (c *Cell) Set(d Data) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = d
}

// ---------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------

func NewBool(b bool) Data       { return Data{kind: KindBool, boolean: b} }
func NewInt(i int64) Data       { return Data{kind: KindInt, integer: i} }
func NewFloat(f float64) Data   { return Data{kind: KindFloat, float: f} }
func NewString(s string) Data   { return Data{kind: KindString, str: s} }

func NewTuple(elements ...*Cell) Data {
	return Data{kind: KindTuple, elements: elements}
}

func NewObject(fields ...Field) Data {
	return Data{kind: KindObject, fields: fields}
}

func NewList(elements ...*Cell) Data {
	return Data{kind: KindList, elements: elements}
}

func NewFunction(fn *Function) Data {
	return Data{kind: KindFunction, fn: fn}
}

func NewReference(target *Cell) Data {
	return Data{kind: KindReference, ref: target}
}

func NewThreadData(th *Thread) Data {
	return Data{kind: KindThread, thread: th}
}

// Unit is the canonical zero-arity tuple, the value produced by
// statements with no meaningful result (spec.md §3.1).
func Unit() Data { return NewTuple() }

// ---------------------------------------------------------------------
// Accessors -- each panics if called against the wrong Kind, since a
// well-typed program (one that passed Check) never calls the wrong
// accessor; internal/run only ever calls these after the checker has
// already proven the Kind.
// ---------------------------------------------------------------------

func (d Data) Kind() Kind { return d.kind }

func (d Data) Bool() bool {
	d.mustBe(KindBool)
	return d.boolean
}

func (d Data) Int() int64 {
	d.mustBe(KindInt)
	return d.integer
}

func (d Data) Float() float64 {
	d.mustBe(KindFloat)
	return d.float
}

func (d Data) String() string {
	switch d.kind {
	case KindString:
		return d.str
	case KindBool:
		return fmt.Sprintf("%t", d.boolean)
	case KindInt:
		return fmt.Sprintf("%d", d.integer)
	case KindFloat:
		return fmt.Sprintf("%g", d.float)
	case KindTuple:
		return tupleString(d)
	case KindReference:
		return "&" + d.ref.Get().String()
	default:
		return fmt.Sprintf("<%s>", d.kind)
	}
}

func tupleString(d Data) string {
	if len(d.elements) == 0 {
		return "()"
	}
	s := "("
	for i, e := range d.elements {
		if i > 0 {
			s += ", "
		}
		s += e.Get().String()
	}
	return s + ")"
}

func (d Data) Elements() []*Cell {
	if d.kind != KindTuple && d.kind != KindList {
		panic(fmt.Sprintf("data: Elements() called on %s", d.kind))
	}
	return d.elements
}

func (d Data) Fields() []Field {
	d.mustBe(KindObject)
	return d.fields
}

// Field looks up a named field, returning (cell, true) if present.
func (d Data) Field(name string) (*Cell, bool) {
	d.mustBe(KindObject)
	for _, f := range d.fields {
		if f.Name == name {
			return f.Val, true
		}
	}
	return nil, false
}

func (d Data) Function() *Function {
	d.mustBe(KindFunction)
	return d.fn
}

func (d Data) Reference() *Cell {
	d.mustBe(KindReference)
	return d.ref
}

func (d Data) Thread() *Thread {
	d.mustBe(KindThread)
	return d.thread
}

func (d Data) mustBe(k Kind) {
	if d.kind != k {
		panic(fmt.Sprintf("data: expected %s, got %s", k, d.kind))
	}
}

// StaticTypeOf computes the most specific static types.Type describing
// d's current shape (an Int narrows to its exact value's range). Used at
// run time by `try` to test which candidate function accepts the
// argument's actual shape.
func StaticTypeOf(d Data) types.Type {
	switch d.kind {
	case KindBool:
		return types.New(types.Bool{})
	case KindInt:
		return types.New(types.Int{Ranged: true, Min: d.integer, Max: d.integer})
	case KindFloat:
		return types.New(types.Float{})
	case KindString:
		return types.New(types.String{})
	case KindTuple:
		elems := make([]types.Type, len(d.elements))
		for i, e := range d.elements {
			elems[i] = StaticTypeOf(e.Get())
		}
		return types.New(types.Tuple{Elements: elems})
	case KindObject:
		fields := make([]types.Field, len(d.fields))
		for i, f := range d.fields {
			fields[i] = types.Field{Name: f.Name, Type: StaticTypeOf(f.Val.Get())}
		}
		return types.New(types.Object{Fields: fields})
	case KindList:
		elem := types.Empty()
		for _, e := range d.elements {
			elem = types.Union(elem, StaticTypeOf(e.Get()))
		}
		return types.New(types.List{Element: elem})
	case KindReference:
		return types.New(types.Reference{Inner: StaticTypeOf(d.ref.Get())})
	case KindThread:
		return types.New(types.Thread{})
	default:
		return types.Empty()
	}
}
