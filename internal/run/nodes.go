package run

import (
	"fmt"

	"github.com/Dummi26/mers/internal/data"
	"github.com/Dummi26/mers/internal/token"
	"github.com/Dummi26/mers/internal/types"
)

// Stmt is any typed, scope-resolved AST node (spec.md §4.4/§4.5's
// RunStmt). HasScope reports whether Check/Run must push/pop a fresh
// scope around this node (mirrors mers_lib's has_scope()).
type Stmt interface {
	Check(info *CheckInfo) (types.Type, error)
	Run(info *RunInfo) (*data.Cell, error)
	HasScope() bool
	Range() token.Range
}

func unitType() types.Type { return types.New(types.Tuple{}) }
func unitCell() *data.Cell { return data.NewCell(data.Unit()) }

// checkWithScope wraps Check in a fresh-scope push/pop when a node's
// HasScope is true, matching mers_lib's auto scope-create/end wrapper.
func checkWithScope(s Stmt, info *CheckInfo, body func() (types.Type, error)) (types.Type, error) {
	if !s.HasScope() {
		return body()
	}
	info.PushScope()
	defer info.PopScope()
	return body()
}

func runWithScope(s Stmt, info *RunInfo, body func() (*data.Cell, error)) (*data.Cell, error) {
	if !s.HasScope() {
		return body()
	}
	info.PushScope()
	defer info.PopScope()
	return body()
}

// ---------------------------------------------------------------------
// ValueLit
// ---------------------------------------------------------------------

// ValueLit is a literal value, already folded into its runtime Data and
// static Type at compile time.
type ValueLit struct {
	Rng   token.Range
	Val   data.Data
	Typ   types.Type
}

func (v *ValueLit) Range() token.Range        { return v.Rng }
func (v *ValueLit) HasScope() bool            { return false }
func (v *ValueLit) Check(*CheckInfo) (types.Type, error) { return v.Typ, nil }
func (v *ValueLit) Run(*RunInfo) (*data.Cell, error)     { return data.NewCell(v.Val), nil }

// ---------------------------------------------------------------------
// VarRead
// ---------------------------------------------------------------------

// VarRead reads a compiled (depth, slot) variable, optionally taking a
// Reference to it (`&x`).
type VarRead struct {
	Rng         token.Range
	Depth, Slot int
	IsRef       bool
}

func (v *VarRead) Range() token.Range { return v.Rng }
func (v *VarRead) HasScope() bool     { return false }

func (v *VarRead) Check(info *CheckInfo) (types.Type, error) {
	t := info.GetSlot(v.Depth, v.Slot)
	if v.IsRef {
		return types.New(types.Reference{Inner: t}), nil
	}
	return t, nil
}

func (v *VarRead) Run(info *RunInfo) (*data.Cell, error) {
	cell := info.GetSlot(v.Depth, v.Slot)
	if v.IsRef {
		return data.NewCell(data.NewReference(cell)), nil
	}
	return data.NewCell(cell.Get()), nil
}

// ---------------------------------------------------------------------
// InitTo / AssignTo
// ---------------------------------------------------------------------

// InitTo is `pattern := source`; always produces unit.
type InitTo struct {
	Rng     token.Range
	Pattern Pattern
	Source  Stmt
}

func (s *InitTo) Range() token.Range { return s.Rng }
func (s *InitTo) HasScope() bool     { return false }

func (s *InitTo) Check(info *CheckInfo) (types.Type, error) {
	srcType, err := s.Source.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	if err := s.Pattern.CheckBind(info, srcType); err != nil {
		return types.Empty(), err
	}
	return unitType(), nil
}

func (s *InitTo) Run(info *RunInfo) (*data.Cell, error) {
	srcCell, err := s.Source.Run(info)
	if err != nil {
		return nil, err
	}
	if err := s.Pattern.RunBind(info, srcCell); err != nil {
		return nil, err
	}
	return unitCell(), nil
}

// AssignTo is `target = source`; Target must check to a Reference.
type AssignTo struct {
	Rng    token.Range
	Target Stmt
	Source Stmt
}

func (s *AssignTo) Range() token.Range { return s.Rng }
func (s *AssignTo) HasScope() bool     { return false }

func (s *AssignTo) Check(info *CheckInfo) (types.Type, error) {
	srcType, err := s.Source.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	targetType, err := s.Target.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	if len(targetType.Variants) == 0 {
		return types.Empty(), &CheckError{
			Tag: "AssignTargetNonReference", Range: s.Target.Range(),
			Message: "cannot assign through a target of the empty type",
		}
	}
	for _, v := range targetType.Variants {
		ref, ok := v.(types.Reference)
		if !ok {
			return types.Empty(), &CheckError{
				Tag: "AssignTargetNonReference", Range: s.Target.Range(),
				Message: fmt.Sprintf("%s is not a reference", v),
			}
		}
		if !srcType.Includes(ref.Inner) {
			return types.Empty(), &CheckError{
				Tag: "AssignFrom", Range: s.Source.Range(),
				Message: fmt.Sprintf("cannot assign %s through target of type %s", srcType, targetType),
			}
		}
	}
	return unitType(), nil
}

func (s *AssignTo) Run(info *RunInfo) (*data.Cell, error) {
	srcCell, err := s.Source.Run(info)
	if err != nil {
		return nil, err
	}
	targetCell, err := s.Target.Run(info)
	if err != nil {
		return nil, err
	}
	targetCell.Get().Reference().Set(srcCell.Get())
	return unitCell(), nil
}

// ---------------------------------------------------------------------
// Block
// ---------------------------------------------------------------------

// Block is `{ s1; s2; ...; sn }`; always opens its own scope.
type Block struct {
	Rng   token.Range
	Stmts []Stmt
}

func (b *Block) Range() token.Range { return b.Rng }
func (b *Block) HasScope() bool     { return true }

func (b *Block) Check(info *CheckInfo) (types.Type, error) {
	return checkWithScope(b, info, func() (types.Type, error) {
		result := unitType()
		for _, s := range b.Stmts {
			t, err := s.Check(info)
			if err != nil {
				return types.Empty(), err
			}
			result = t
		}
		return result, nil
	})
}

func (b *Block) Run(info *RunInfo) (*data.Cell, error) {
	return runWithScope(b, info, func() (*data.Cell, error) {
		result := unitCell()
		for _, s := range b.Stmts {
			c, err := s.Run(info)
			if err != nil {
				return nil, err
			}
			result = c
		}
		return result, nil
	})
}

// ---------------------------------------------------------------------
// TupleLit / ObjectLit
// ---------------------------------------------------------------------

type TupleLit struct {
	Rng      token.Range
	Elements []Stmt
}

func (t *TupleLit) Range() token.Range { return t.Rng }
func (t *TupleLit) HasScope() bool     { return false }

func (t *TupleLit) Check(info *CheckInfo) (types.Type, error) {
	elemTypes := make([]types.Type, len(t.Elements))
	for i, e := range t.Elements {
		et, err := e.Check(info)
		if err != nil {
			return types.Empty(), err
		}
		elemTypes[i] = et
	}
	return types.New(types.Tuple{Elements: elemTypes}), nil
}

func (t *TupleLit) Run(info *RunInfo) (*data.Cell, error) {
	elems := make([]*data.Cell, len(t.Elements))
	for i, e := range t.Elements {
		c, err := e.Run(info)
		if err != nil {
			return nil, err
		}
		elems[i] = c
	}
	return data.NewCell(data.NewTuple(elems...)), nil
}

type ObjectFieldStmt struct {
	Name string
	Val  Stmt
}

type ObjectLit struct {
	Rng    token.Range
	Fields []ObjectFieldStmt
}

func (o *ObjectLit) Range() token.Range { return o.Rng }
func (o *ObjectLit) HasScope() bool     { return false }

func (o *ObjectLit) Check(info *CheckInfo) (types.Type, error) {
	fields := make([]types.Field, len(o.Fields))
	for i, f := range o.Fields {
		ft, err := f.Val.Check(info)
		if err != nil {
			return types.Empty(), err
		}
		fields[i] = types.Field{Name: f.Name, Type: ft}
	}
	return types.New(types.Object{Fields: fields}), nil
}

func (o *ObjectLit) Run(info *RunInfo) (*data.Cell, error) {
	fields := make([]data.Field, len(o.Fields))
	for i, f := range o.Fields {
		c, err := f.Val.Run(info)
		if err != nil {
			return nil, err
		}
		fields[i] = data.Field{Name: f.Name, Val: c}
	}
	return data.NewCell(data.NewObject(fields...)), nil
}

// ---------------------------------------------------------------------
// If
// ---------------------------------------------------------------------

type If struct {
	Rng        token.Range
	Cond, Then Stmt
	Else       Stmt // nil if absent
}

func (s *If) Range() token.Range { return s.Rng }
func (s *If) HasScope() bool     { return false }

func (s *If) Check(info *CheckInfo) (types.Type, error) {
	condType, err := s.Cond.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	if !condType.Includes(types.New(types.Bool{})) {
		return types.Empty(), &CheckError{
			Tag: "IfCondition", Range: s.Cond.Range(),
			Message: fmt.Sprintf("if condition must be Bool, got %s", condType),
		}
	}
	thenType, err := s.Then.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	elseType := unitType()
	if s.Else != nil {
		elseType, err = s.Else.Check(info)
		if err != nil {
			return types.Empty(), err
		}
	}
	return types.Union(thenType, elseType), nil
}

func (s *If) Run(info *RunInfo) (*data.Cell, error) {
	condCell, err := s.Cond.Run(info)
	if err != nil {
		return nil, err
	}
	if condCell.Get().Bool() {
		return s.Then.Run(info)
	}
	if s.Else != nil {
		return s.Else.Run(info)
	}
	return unitCell(), nil
}

// ---------------------------------------------------------------------
// Loop
// ---------------------------------------------------------------------

// Loop repeatedly evaluates Body until it yields a one-element tuple,
// whose element becomes the loop's result (spec.md §4.4/§4.5 rule 8).
type Loop struct {
	Rng  token.Range
	Body Stmt
}

func (s *Loop) Range() token.Range { return s.Rng }
func (s *Loop) HasScope() bool     { return false }

func (s *Loop) Check(info *CheckInfo) (types.Type, error) {
	bodyType, err := s.Body.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	result := types.Empty()
	for _, v := range bodyType.Variants {
		tup, ok := v.(types.Tuple)
		if !ok || len(tup.Elements) > 1 {
			return types.Empty(), &CheckError{
				Tag: "LoopBody", Range: s.Body.Range(),
				Message: fmt.Sprintf("loop body must be () or (X), got a variant %s", v),
			}
		}
		if len(tup.Elements) == 1 {
			result = types.Union(result, tup.Elements[0])
		}
	}
	return result, nil
}

func (s *Loop) Run(info *RunInfo) (*data.Cell, error) {
	for {
		c, err := s.Body.Run(info)
		if err != nil {
			return nil, err
		}
		elems := c.Get().Elements()
		if len(elems) == 1 {
			return elems[0], nil
		}
	}
}

// ---------------------------------------------------------------------
// Call (desugared Chain / direct function application)
// ---------------------------------------------------------------------

// Call applies Func to Arg; `a.f(b,c)` compiles to Call{Func: f, Arg:
// Tuple(a,b,c)} per spec.md §6.2's method-call sugar.
type Call struct {
	Rng       token.Range
	Func, Arg Stmt
}

func (c *Call) Range() token.Range { return c.Rng }
func (c *Call) HasScope() bool     { return false }

func (c *Call) Check(info *CheckInfo) (types.Type, error) {
	fType, err := c.Func.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	argType, err := c.Arg.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	if len(fType.Variants) == 0 {
		return types.Empty(), &CheckError{Tag: "ChainWithNonFunction", Range: c.Func.Range(), Message: "cannot call a value of the empty type"}
	}
	result := types.Empty()
	for _, v := range fType.Variants {
		fn, ok := v.(types.Function)
		if !ok {
			return types.Empty(), &CheckError{
				Tag: "ChainWithNonFunction", Range: c.Func.Range(),
				Message: fmt.Sprintf("%s is not callable", v),
			}
		}
		out, err := fn.Output(argType)
		if err != nil {
			return types.Empty(), &CheckError{
				Tag: "FunctionArgument", Range: c.Arg.Range(),
				Message: fmt.Sprintf("argument of type %s rejected: %s", argType, err),
			}
		}
		result = types.Union(result, out)
	}
	return result, nil
}

func (c *Call) Run(info *RunInfo) (*data.Cell, error) {
	fCell, err := c.Func.Run(info)
	if err != nil {
		return nil, err
	}
	argCell, err := c.Arg.Run(info)
	if err != nil {
		return nil, err
	}
	fn := fCell.Get().Function()
	return fn.Native(argCell)
}

// ---------------------------------------------------------------------
// Try
// ---------------------------------------------------------------------

// Try dispatches on runtime-distinguishable subtypes of Arg's static
// type, matching each subtype to the first Funcs entry that accepts it
// (spec.md §4.4 rule 10; see DESIGN.md's Open Question resolution).
type Try struct {
	Rng   token.Range
	Arg   Stmt
	Funcs []Stmt
}

func (t *Try) Range() token.Range { return t.Rng }
func (t *Try) HasScope() bool     { return false }

func (t *Try) Check(info *CheckInfo) (types.Type, error) {
	argType, err := t.Arg.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	funcTypes := make([]types.Function, len(t.Funcs))
	used := make([]bool, len(t.Funcs))
	for i, f := range t.Funcs {
		ft, err := f.Check(info)
		if err != nil {
			return types.Empty(), err
		}
		if len(ft.Variants) != 1 {
			return types.Empty(), &CheckError{Tag: "TryNotAFunction", Range: f.Range(), Message: "try arm must have exactly one Function type"}
		}
		fn, ok := ft.Variants[0].(types.Function)
		if !ok {
			return types.Empty(), &CheckError{Tag: "TryNotAFunction", Range: f.Range(), Message: fmt.Sprintf("%s is not a function", ft)}
		}
		funcTypes[i] = fn
	}

	result := types.Empty()
	for _, subtype := range argType.Variants {
		sub := types.New(subtype)
		matched := false
		for i, fn := range funcTypes {
			out, err := fn.Output(sub)
			if err != nil {
				continue
			}
			result = types.Union(result, out)
			used[i] = true
			matched = true
			break
		}
		if !matched {
			return types.Empty(), &CheckError{
				Tag: "TryNoFunctionFound", Range: t.Rng,
				Message: fmt.Sprintf("no try arm accepts argument subtype %s", sub),
			}
		}
	}
	for i, u := range used {
		if !u {
			info.UnusedTryFuncs = append(info.UnusedTryFuncs, t.Funcs[i].Range())
		}
	}
	return result, nil
}

func (t *Try) Run(info *RunInfo) (*data.Cell, error) {
	argCell, err := t.Arg.Run(info)
	if err != nil {
		return nil, err
	}
	argType := data.StaticTypeOf(argCell.Get())
	for _, f := range t.Funcs {
		fCell, err := f.Run(info)
		if err != nil {
			return nil, err
		}
		fn := fCell.Get().Function()
		if !fn.StaticType.IsEmpty() {
			variant, ok := fn.StaticType.Variants[0].(types.Function)
			if ok && !variant.Accepts(argType) {
				continue
			}
		}
		return fn.Native(argCell)
	}
	return nil, &RuntimeError{Message: "try: no function found", Range: t.Rng, Internal: true}
}

// ---------------------------------------------------------------------
// AsType
// ---------------------------------------------------------------------

// AsType is `x :: T` (expand, result type becomes T) or `x :: !T`
// (assert, result type stays type(x), merely checked against T).
type AsType struct {
	Rng    token.Range
	Expr   Stmt
	Target types.Type
	Assert bool
}

func (s *AsType) Range() token.Range { return s.Rng }
func (s *AsType) HasScope() bool     { return false }

func (s *AsType) Check(info *CheckInfo) (types.Type, error) {
	exprType, err := s.Expr.Check(info)
	if err != nil {
		return types.Empty(), err
	}
	if !exprType.Includes(s.Target) {
		return types.Empty(), &CheckError{
			Tag: "AsTypeTypeAnnotation", Range: s.Rng,
			Message: fmt.Sprintf("%s is not included in %s", exprType, s.Target),
		}
	}
	if s.Assert {
		return exprType, nil
	}
	return s.Target, nil
}

func (s *AsType) Run(info *RunInfo) (*data.Cell, error) {
	return s.Expr.Run(info)
}

// ---------------------------------------------------------------------
// FuncLit
// ---------------------------------------------------------------------

// FuncLit is `param -> body`. Its static type is a dependent Function
// closure (spec.md §4.4's central subtlety): the closure re-checks Body
// against the defining lexical scopes plus a fresh binding of Param to
// whatever argument type it's called with, memoized to guard recursive
// closures (DESIGN.md).
type FuncLit struct {
	Rng   token.Range
	Param Pattern
	Body  Stmt
}

func (f *FuncLit) Range() token.Range { return f.Rng }
func (f *FuncLit) HasScope() bool     { return false }

func (f *FuncLit) Check(info *CheckInfo) (types.Type, error) {
	captured := snapshotScopes(info.Scopes)
	identity := fmt.Sprintf("%p", f)
	closure := func(argType types.Type) (types.Type, error) {
		key := memoKey(identity, argType)
		if info.InProgress[key] {
			return types.Empty(), &CheckError{
				Tag: "Function", Range: f.Rng,
				Message: "recursive function literal depends on its own output type for argument " + argType.String(),
			}
		}
		info.InProgress[key] = true
		defer delete(info.InProgress, key)

		child := info.childInfo(captured)
		if err := f.Param.CheckBind(child, argType); err != nil {
			return types.Empty(), err
		}
		return f.Body.Check(child)
	}
	return types.New(types.Function{Closure: closure}), nil
}

func (f *FuncLit) Run(info *RunInfo) (*data.Cell, error) {
	captured := snapshotCellScopes(info.Scopes)
	native := func(arg *data.Cell) (*data.Cell, error) {
		child := info.childInfo(captured)
		if err := f.Param.RunBind(child, arg); err != nil {
			return nil, err
		}
		return f.Body.Run(child)
	}
	return data.NewCell(data.NewFunction(&data.Function{Native: native, CapturedScopes: captured})), nil
}
