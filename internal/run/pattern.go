package run

import (
	"fmt"

	"github.com/Dummi26/mers/internal/data"
	"github.com/Dummi26/mers/internal/token"
	"github.com/Dummi26/mers/internal/types"
)

// Pattern is the left side of an InitTo (`pattern := source`) or a
// function literal's parameter: a (possibly nested) shape of slots that
// a source type/value is destructured onto, per spec.md §4.2/§4.3.
type Pattern interface {
	// CheckBind propagates sourceType component-wise onto the pattern's
	// slots in info (spec.md §4.4 rule 3).
	CheckBind(info *CheckInfo, sourceType types.Type) error
	// RunBind destructures source onto the pattern's slots in info,
	// allocating a fresh Cell per slot (spec.md §4.5).
	RunBind(info *RunInfo, source *data.Cell) error
	Range() token.Range
}

// VarSlot binds a single compiled (depth, slot) identifier.
type VarSlot struct {
	Depth, Slot int
	Rng         token.Range
}

func (v VarSlot) Range() token.Range { return v.Rng }

func (v VarSlot) CheckBind(info *CheckInfo, sourceType types.Type) error {
	info.SetSlot(v.Depth, v.Slot, widenIntLiterals(sourceType))
	return nil
}

// widenIntLiterals drops an Int variant's exact [Min,Max] range, keeping
// only that it's an Int. A bare integer literal like `5` checks to the
// singleton range Int[5,5] (ValueLit's own type, used as-is wherever the
// spec's dependent-output typing genuinely wants the exact value -- e.g.
// a `try` dispatch choosing a branch by argument type). A variable bound
// to that literal via `:=` must not inherit the singleton as its
// permanent static type, or a later assignment of any other Int value
// through its reference would fail the checker (spec.md §8's
// `x := 5, &x = 2, x` example requires `&x = 2` to check even though 5
// and 2 are different singleton ranges); mers_lib's Int::as_type()
// likewise never narrows an integer's type to its value.
func widenIntLiterals(t types.Type) types.Type {
	widened := make([]types.Variant, len(t.Variants))
	for i, v := range t.Variants {
		if it, ok := v.(types.Int); ok && it.Ranged {
			widened[i] = types.Int{}
		} else {
			widened[i] = v
		}
	}
	return types.New(widened...)
}

func (v VarSlot) RunBind(info *RunInfo, source *data.Cell) error {
	info.SetSlot(v.Depth, v.Slot, data.NewCell(source.Get()))
	return nil
}

// IgnoreSlot discards its value; it allocates no scope slot.
type IgnoreSlot struct {
	Rng token.Range
}

func (i IgnoreSlot) Range() token.Range                               { return i.Rng }
func (i IgnoreSlot) CheckBind(info *CheckInfo, sourceType types.Type) error { return nil }
func (i IgnoreSlot) RunBind(info *RunInfo, source *data.Cell) error         { return nil }

// TuplePattern destructures a Tuple value positionally.
type TuplePattern struct {
	Elements []Pattern
	Rng      token.Range
}

func (t TuplePattern) Range() token.Range { return t.Rng }

func (t TuplePattern) CheckBind(info *CheckInfo, sourceType types.Type) error {
	elemTypes, ok := tupleElementTypes(sourceType, len(t.Elements))
	if !ok {
		return &CheckError{
			Tag: "InitFrom", Range: t.Rng,
			Message: fmt.Sprintf("cannot destructure %s as a %d-element tuple", sourceType, len(t.Elements)),
		}
	}
	for i, elemPat := range t.Elements {
		if err := elemPat.CheckBind(info, elemTypes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t TuplePattern) RunBind(info *RunInfo, source *data.Cell) error {
	elems := source.Get().Elements()
	if len(elems) != len(t.Elements) {
		return &RuntimeError{Message: "tuple pattern arity mismatch at runtime", Range: t.Rng, Internal: true}
	}
	for i, elemPat := range t.Elements {
		if err := elemPat.RunBind(info, elems[i]); err != nil {
			return err
		}
	}
	return nil
}

// ObjectPattern destructures an Object value by field name.
type ObjectPattern struct {
	Fields []ObjectPatternField
	Rng    token.Range
}

type ObjectPatternField struct {
	Name string
	Pat  Pattern
}

func (o ObjectPattern) Range() token.Range { return o.Rng }

func (o ObjectPattern) CheckBind(info *CheckInfo, sourceType types.Type) error {
	for _, f := range o.Fields {
		fieldType, ok := objectFieldType(sourceType, f.Name)
		if !ok {
			return &CheckError{
				Tag: "InitFrom", Range: o.Rng,
				Message: fmt.Sprintf("%s has no field %q", sourceType, f.Name),
			}
		}
		if err := f.Pat.CheckBind(info, fieldType); err != nil {
			return err
		}
	}
	return nil
}

func (o ObjectPattern) RunBind(info *RunInfo, source *data.Cell) error {
	for _, f := range o.Fields {
		cell, ok := source.Get().Field(f.Name)
		if !ok {
			return &RuntimeError{Message: "object pattern field missing at runtime", Range: o.Rng, Internal: true}
		}
		if err := f.Pat.RunBind(info, cell); err != nil {
			return err
		}
	}
	return nil
}

// tupleElementTypes unions the per-position element types across every
// Tuple variant of t with exactly the given arity. ok is false if no
// variant of t has that arity.
func tupleElementTypes(t types.Type, arity int) (elems []types.Type, ok bool) {
	elems = make([]types.Type, arity)
	for i := range elems {
		elems[i] = types.Empty()
	}
	for _, v := range t.Variants {
		tup, isTuple := v.(types.Tuple)
		if !isTuple || len(tup.Elements) != arity {
			continue
		}
		ok = true
		for i, e := range tup.Elements {
			elems[i] = types.Union(elems[i], e)
		}
	}
	return elems, ok
}

// objectFieldType unions the named field's type across every Object
// variant of t that declares it.
func objectFieldType(t types.Type, name string) (types.Type, bool) {
	out := types.Empty()
	found := false
	for _, v := range t.Variants {
		obj, isObj := v.(types.Object)
		if !isObj {
			continue
		}
		for _, f := range obj.Fields {
			if f.Name == name {
				out = types.Union(out, f.Type)
				found = true
			}
		}
	}
	return out, found
}
