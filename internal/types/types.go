// Package types implements mers' type algebra: a Type is a set of
// type-variants (a union/sum type), and every relationship between types
// (subtype inclusion, function output inference, reference invariance) is
// expressed in terms of that set.
//
// Grounded on mers_lib/src/data/{bool,int,float,string,tuple,object,
// reference,function}.rs (the Rust `MersType` trait and its
// `is_included_in`/`subtypes` methods) and on the teacher's
// internal/types package for the Go idiom of one file-group per variant
// kind with table-driven tests.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Variant is one concrete shape contributing to a union Type. Each
// concrete variant (Bool, Int, ...) below implements it.
type Variant interface {
	// Equal reports whether two variants denote the same concrete shape.
	Equal(other Variant) bool
	// IncludedIn reports whether every value of this variant is a legal
	// value of the other variant (pointwise for products, identity for
	// primitives, invariant for references).
	IncludedIn(other Variant) bool
	String() string
}

// Type is the set-union of its variants. Order is insignificant;
// structural duplicates are eliminated by Add/New.
type Type struct {
	Variants []Variant
}

// Empty is the bottom type: a Type with no variants, representing an
// unreachable value (spec.md §3.1).
func Empty() Type { return Type{} }

// New constructs a Type from a list of variants, deduplicating
// structurally-equal ones.
func New(variants ...Variant) Type {
	var t Type
	for _, v := range variants {
		t.Add(v)
	}
	return t
}

// Add unions v into t in place, skipping v if a structurally-equal
// variant is already present.
func (t *Type) Add(v Variant) {
	for _, existing := range t.Variants {
		if existing.Equal(v) {
			return
		}
	}
	t.Variants = append(t.Variants, v)
}

// AddAll unions every variant of other into t.
func (t *Type) AddAll(other Type) {
	for _, v := range other.Variants {
		t.Add(v)
	}
}

// Union returns a new Type containing every variant of a and b.
func Union(a, b Type) Type {
	out := New(a.Variants...)
	out.AddAll(b)
	return out
}

// IsEmpty reports whether t is the bottom type.
func (t Type) IsEmpty() bool { return len(t.Variants) == 0 }

// Includes reports whether t ⊆ other: every variant of t is included in
// some variant of other. The empty type is included in anything.
func (t Type) Includes(other Type) bool {
	for _, v := range t.Variants {
		ok := false
		for _, w := range other.Variants {
			// an alias on the right stands for its resolved Target, as
			// one on the left already does through IncludedIn.
			if u, isAlias := w.(UserDefined); isAlias {
				if New(v).Includes(u.Target) {
					ok = true
					break
				}
				continue
			}
			if v.IncludedIn(w) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Equal reports whether t and other denote the same set of variants
// (mutual inclusion).
func (t Type) Equal(other Type) bool {
	return t.Includes(other) && other.Includes(t)
}

// String renders the type as `V1 | V2 | ...`, or `Never` for the empty
// type, sorted for deterministic diagnostics output.
func (t Type) String() string {
	if t.IsEmpty() {
		return "Never"
	}
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = v.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, " | ")
}

// ---------------------------------------------------------------------
// Primitive variants
// ---------------------------------------------------------------------

// Bool is the boolean variant.
type Bool struct{}

func (Bool) Equal(other Variant) bool       { _, ok := other.(Bool); return ok }
func (Bool) IncludedIn(other Variant) bool  { _, ok := other.(Bool); return ok }
func (Bool) String() string                 { return "Bool" }

// Int is the integer variant, optionally narrowed to an inclusive
// [Min,Max] range. A zero-value Int (Min==Max==0, Ranged==false) denotes
// the unranged, full-width integer.
type Int struct {
	Ranged   bool
	Min, Max int64
}

func (i Int) Equal(other Variant) bool {
	o, ok := other.(Int)
	return ok && i.Ranged == o.Ranged && (!i.Ranged || (i.Min == o.Min && i.Max == o.Max))
}

func (i Int) IncludedIn(other Variant) bool {
	o, ok := other.(Int)
	if !ok {
		return false
	}
	if !o.Ranged {
		return true
	}
	if !i.Ranged {
		return false
	}
	return i.Min >= o.Min && i.Max <= o.Max
}

func (i Int) String() string {
	if !i.Ranged {
		return "Int"
	}
	return fmt.Sprintf("Int[%d,%d]", i.Min, i.Max)
}

// Float is the IEEE-754 double variant.
type Float struct{}

func (Float) Equal(other Variant) bool      { _, ok := other.(Float); return ok }
func (Float) IncludedIn(other Variant) bool { _, ok := other.(Float); return ok }
func (Float) String() string                { return "Float" }

// String is the UTF-8 string variant.
type String struct{}

func (String) Equal(other Variant) bool      { _, ok := other.(String); return ok }
func (String) IncludedIn(other Variant) bool { _, ok := other.(String); return ok }
func (String) String() string                { return "String" }

// ---------------------------------------------------------------------
// Product variants
// ---------------------------------------------------------------------

// Tuple is a fixed-arity ordered product. Arity 0 is the canonical unit
// type (spec.md §3.1).
type Tuple struct {
	Elements []Type
}

func (t Tuple) Equal(other Variant) bool {
	o, ok := other.(Tuple)
	if !ok || len(t.Elements) != len(o.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

// IncludedIn is pointwise: same arity, each element included positionally.
func (t Tuple) IncludedIn(other Variant) bool {
	o, ok := other.(Tuple)
	if !ok || len(t.Elements) != len(o.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Includes(o.Elements[i]) {
			return false
		}
	}
	return true
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Field is one named, ordered member of an Object variant.
type Field struct {
	Name string
	Type Type
}

// Object is an ordered product of named fields. Subtyping allows extra
// trailing fields on the subtype (structural width subtyping).
type Object struct {
	Fields []Field
}

func (o Object) Equal(other Variant) bool {
	ot, ok := other.(Object)
	if !ok || len(o.Fields) != len(ot.Fields) {
		return false
	}
	for i := range o.Fields {
		if o.Fields[i].Name != ot.Fields[i].Name || !o.Fields[i].Type.Equal(ot.Fields[i].Type) {
			return false
		}
	}
	return true
}

// IncludedIn requires every field named in other to exist (in the same
// position among the shared prefix) in o with an included type; o may
// carry additional trailing fields beyond other's arity.
func (o Object) IncludedIn(other Variant) bool {
	ot, ok := other.(Object)
	if !ok || len(o.Fields) < len(ot.Fields) {
		return false
	}
	for i := range ot.Fields {
		if o.Fields[i].Name != ot.Fields[i].Name {
			return false
		}
		if !o.Fields[i].Type.Includes(ot.Fields[i].Type) {
			return false
		}
	}
	return true
}

func (o Object) String() string {
	parts := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ---------------------------------------------------------------------
// List variant
// ---------------------------------------------------------------------

// List is a homogeneous, dynamic-length sequence.
type List struct {
	Element Type
}

func (l List) Equal(other Variant) bool {
	o, ok := other.(List)
	return ok && l.Element.Equal(o.Element)
}

func (l List) IncludedIn(other Variant) bool {
	o, ok := other.(List)
	return ok && l.Element.Includes(o.Element)
}

func (l List) String() string { return "[" + l.Element.String() + "]" }

// ---------------------------------------------------------------------
// Function variant
// ---------------------------------------------------------------------

// Row is one entry of a static function-type table: an input type
// mapped to the output type produced for any argument included in it.
type Row struct {
	In, Out Type
}

// OutputFn is a host-supplied closure used for dependent output typing
// (spec.md §4.4): given the static argument type, it returns the
// static result type, or an error if no variant of the function accepts
// any part of the argument. It is NEVER invoked by the evaluator --
// purely a type-level computation.
type OutputFn func(arg Type) (Type, error)

// Function is either a finite static table of (In, Out) rows, or a host
// closure computing the output type from the argument type. Exactly one
// of Table or Closure is set.
type Function struct {
	Table   []Row
	Closure OutputFn
}

// Output computes union{ Out_i : arg ⊆ In_i } over the static table, or
// invokes Closure for closure-backed functions.
func (f Function) Output(arg Type) (Type, error) {
	if f.Closure != nil {
		return f.Closure(arg)
	}
	out := Empty()
	matched := false
	for _, row := range f.Table {
		if arg.Includes(row.In) {
			out.AddAll(row.Out)
			matched = true
		}
	}
	if !matched {
		return Empty(), fmt.Errorf("no function row accepts argument of type %s", arg)
	}
	return out, nil
}

// Accepts reports whether some row (or, for a closure-backed function,
// a call of Closure) would accept an argument of the given type.
func (f Function) Accepts(arg Type) bool {
	_, err := f.Output(arg)
	return err == nil
}

func (f Function) Equal(other Variant) bool {
	o, ok := other.(Function)
	if !ok || f.Closure != nil || o.Closure != nil {
		// closures are never structurally equal, even to themselves as a
		// distinct value, matching the Rust impl's conservative stance.
		return ok && f.Closure == nil && o.Closure == nil && tablesEqual(f.Table, o.Table)
	}
	return tablesEqual(f.Table, o.Table)
}

func tablesEqual(a, b []Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].In.Equal(b[i].In) || !a[i].Out.Equal(b[i].Out) {
			return false
		}
	}
	return true
}

// IncludedIn: a function is included in another function variant if
// every row of f's table is covered (same or narrower input, same or
// narrower output) -- closures are treated as accepting anything
// conservatively, since their coverage can't be enumerated statically.
func (f Function) IncludedIn(other Variant) bool {
	o, ok := other.(Function)
	if !ok {
		return false
	}
	if f.Closure != nil || o.Closure != nil {
		return true
	}
	for _, row := range f.Table {
		out, err := o.Output(row.In)
		if err != nil || !row.Out.Includes(out) {
			return false
		}
	}
	return true
}

func (f Function) String() string {
	if f.Closure != nil {
		return "Function(<dependent>)"
	}
	parts := make([]string, len(f.Table))
	for i, row := range f.Table {
		parts[i] = fmt.Sprintf("%s->%s", row.In, row.Out)
	}
	return "Function(" + strings.Join(parts, ", ") + ")"
}

// ---------------------------------------------------------------------
// Reference variant
// ---------------------------------------------------------------------

// Reference is an aliased, interior-mutable handle to a value of the
// inner type. It is invariant in its inner type (spec.md §3.1, §4.4):
// Reference(A) ⊆ Reference(B) iff A = B, which is what makes `x = y`
// sound -- you can never write a narrower type through a wider handle.
type Reference struct {
	Inner Type
}

func (r Reference) Equal(other Variant) bool {
	o, ok := other.(Reference)
	return ok && r.Inner.Equal(o.Inner)
}

func (r Reference) IncludedIn(other Variant) bool {
	o, ok := other.(Reference)
	return ok && r.Inner.Equal(o.Inner)
}

func (r Reference) String() string {
	if len(r.Inner.Variants) > 1 {
		return "&{" + r.Inner.String() + "}"
	}
	return "&" + r.Inner.String()
}

// ---------------------------------------------------------------------
// Thread variant
// ---------------------------------------------------------------------

// Thread is a future-like handle produced by the `thread` built-in; its
// payload is the type the spawned function will eventually resolve to.
type Thread struct {
	Result Type
}

func (t Thread) Equal(other Variant) bool {
	o, ok := other.(Thread)
	return ok && t.Result.Equal(o.Result)
}

func (t Thread) IncludedIn(other Variant) bool {
	o, ok := other.(Thread)
	return ok && t.Result.Includes(o.Result)
}

func (t Thread) String() string { return "Thread(" + t.Result.String() + ")" }

// ---------------------------------------------------------------------
// UserDefined variant (type aliases / newtypes)
// ---------------------------------------------------------------------

// Resolver looks up the Type that a named alias currently stands for.
// Resolution is eager (see DESIGN.md for the Open Question decision):
// UserDefined variants are resolved to their target before being stored
// in a checked Type, so by the time Includes/Equal run, Resolve has
// already been applied. Resolver is kept on the variant only so
// diagnostics can print the alias name.
type Resolver interface {
	Resolve(name string) (Type, bool)
}

// UserDefined names a type alias. Inclusion/equality operate on the
// already-resolved Target, which the checker populates when the alias is
// declared.
type UserDefined struct {
	Name   string
	Target Type
}

func (u UserDefined) Equal(other Variant) bool {
	if o, ok := other.(UserDefined); ok {
		return u.Name == o.Name && u.Target.Equal(o.Target)
	}
	return u.Target.Equal(New(other))
}

func (u UserDefined) IncludedIn(other Variant) bool {
	if o, ok := other.(UserDefined); ok {
		return u.Target.Includes(o.Target)
	}
	return u.Target.Includes(New(other))
}

func (u UserDefined) String() string { return u.Name }
