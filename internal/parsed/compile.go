package parsed

import (
	"fmt"

	"github.com/Dummi26/mers/internal/data"
	"github.com/Dummi26/mers/internal/run"
	"github.com/Dummi26/mers/internal/token"
	"github.com/Dummi26/mers/internal/types"
)

// CompileError is a structured compile-time failure: unknown variable,
// invalid pattern shape, or an #include load failure wrapping the
// included file's own error (spec.md §4.3, §7).
type CompileError struct {
	Message string
	Range   token.Range
	Cause   error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CompileError) Unwrap() error { return e.Cause }

// scopeVars maps a name to its compiled (depth, slot) within one scope,
// mirroring mers_lib's parsed::Local{vars: HashMap<String,(usize,usize)>}.
type scopeVars map[string]slotRef

type slotRef struct{ Depth, Slot int }

// CompInfo is the compiler's name-resolution state: a stack of scopes
// (depth = index from the root) plus the global type-alias table used to
// resolve type expressions in AsType annotations (spec.md §4.3).
//
// Base primitive names (Bool, Int, Float, String) are pre-seeded exactly
// as mers_lib's Config::new() seeds them into info_check, so `x :: Int`
// resolves without requiring a host Config to be assembled first.
type CompInfo struct {
	scopes  []scopeVars
	Aliases map[string]types.Type

	// Includer loads and compiles an #include target; nil disables
	// #include (the CLI/pkg layer installs a real one backed by
	// internal/units, see DESIGN.md).
	Includer func(path string, at token.Range) (run.Stmt, error)
}

// NewCompInfo creates a CompInfo with one root scope and the default
// primitive type aliases seeded.
func NewCompInfo() *CompInfo {
	c := &CompInfo{
		scopes: []scopeVars{{}},
		Aliases: map[string]types.Type{
			"Bool":   types.New(types.Bool{}),
			"Int":    types.New(types.Int{}),
			"Float":  types.New(types.Float{}),
			"String": types.New(types.String{}),
		},
	}
	return c
}

func (c *CompInfo) pushScope() { c.scopes = append(c.scopes, scopeVars{}) }
func (c *CompInfo) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

// declare allocates a fresh slot for name in the current (innermost)
// scope, per spec.md §4.3's init-path rule.
func (c *CompInfo) declare(name string) slotRef {
	depth := len(c.scopes) - 1
	slot := len(c.scopes[depth])
	ref := slotRef{Depth: depth, Slot: slot}
	c.scopes[depth][name] = ref
	return ref
}

// Declare exposes declare to callers outside the package (internal/config,
// seeding a Config's builtin bindings into the root scope before any
// source is compiled against it).
func (c *CompInfo) Declare(name string) (depth, slot int) {
	ref := c.declare(name)
	return ref.Depth, ref.Slot
}

// resolve looks up name from the innermost scope outward, per spec.md
// §4.3's assign-path rule.
func (c *CompInfo) resolve(name string) (slotRef, bool) {
	for d := len(c.scopes) - 1; d >= 0; d-- {
		if ref, ok := c.scopes[d][name]; ok {
			return ref, true
		}
	}
	return slotRef{}, false
}

// Compile lowers a parsed Stmt into a run.Stmt, resolving every variable
// name to a compiled (depth, slot) pair (spec.md §4.3).
func Compile(s Stmt, comp *CompInfo) (run.Stmt, error) {
	switch n := s.(type) {
	case Value:
		return compileValue(n), nil
	case Ignore:
		return nil, &CompileError{Message: "'_' cannot be used as an expression", Range: n.Range()}
	case Variable:
		ref, ok := comp.resolve(n.Name)
		if !ok {
			return nil, &CompileError{Message: "unknown variable " + n.Name, Range: n.Range()}
		}
		return &run.VarRead{Rng: n.Range(), Depth: ref.Depth, Slot: ref.Slot, IsRef: n.IsRef}, nil
	case Block:
		comp.pushScope()
		defer comp.popScope()
		stmts := make([]run.Stmt, len(n.Stmts))
		for i, st := range n.Stmts {
			cs, err := Compile(st, comp)
			if err != nil {
				return nil, err
			}
			stmts[i] = cs
		}
		return &run.Block{Rng: n.Range(), Stmts: stmts}, nil
	case Tuple:
		elems := make([]run.Stmt, len(n.Elements))
		for i, e := range n.Elements {
			ce, err := Compile(e, comp)
			if err != nil {
				return nil, err
			}
			elems[i] = ce
		}
		return &run.TupleLit{Rng: n.Range(), Elements: elems}, nil
	case Object:
		fields := make([]run.ObjectFieldStmt, len(n.Fields))
		for i, f := range n.Fields {
			cv, err := Compile(f.Val, comp)
			if err != nil {
				return nil, err
			}
			fields[i] = run.ObjectFieldStmt{Name: f.Name, Val: cv}
		}
		return &run.ObjectLit{Rng: n.Range(), Fields: fields}, nil
	case If:
		cond, err := Compile(n.Cond, comp)
		if err != nil {
			return nil, err
		}
		then, err := Compile(n.Then, comp)
		if err != nil {
			return nil, err
		}
		var els run.Stmt
		if n.Else != nil {
			els, err = Compile(n.Else, comp)
			if err != nil {
				return nil, err
			}
		}
		return &run.If{Rng: n.Range(), Cond: cond, Then: then, Else: els}, nil
	case Loop:
		body, err := Compile(n.Body, comp)
		if err != nil {
			return nil, err
		}
		return &run.Loop{Rng: n.Range(), Body: body}, nil
	case Try:
		arg, err := Compile(n.Arg, comp)
		if err != nil {
			return nil, err
		}
		funcs := make([]run.Stmt, len(n.Funcs))
		for i, f := range n.Funcs {
			cf, err := Compile(f, comp)
			if err != nil {
				return nil, err
			}
			funcs[i] = cf
		}
		return &run.Try{Rng: n.Range(), Arg: arg, Funcs: funcs}, nil
	case InitTo:
		src, err := Compile(n.Source, comp)
		if err != nil {
			return nil, err
		}
		pat, err := compilePattern(n.Pattern, comp)
		if err != nil {
			return nil, err
		}
		return &run.InitTo{Rng: n.Range(), Pattern: pat, Source: src}, nil
	case AssignTo:
		src, err := Compile(n.Source, comp)
		if err != nil {
			return nil, err
		}
		target, err := Compile(n.Target, comp)
		if err != nil {
			return nil, err
		}
		return &run.AssignTo{Rng: n.Range(), Target: target, Source: src}, nil
	case FunctionLiteral:
		comp.pushScope()
		defer comp.popScope()
		pat, err := compilePattern(n.Param, comp)
		if err != nil {
			return nil, err
		}
		body, err := Compile(n.Body, comp)
		if err != nil {
			return nil, err
		}
		return &run.FuncLit{Rng: n.Range(), Param: pat, Body: body}, nil
	case Chain:
		return compileChain(n, comp)
	case AsType:
		expr, err := Compile(n.Expr, comp)
		if err != nil {
			return nil, err
		}
		target, err := resolveTypeExpr(n.Type, comp)
		if err != nil {
			return nil, err
		}
		return &run.AsType{Rng: n.Range(), Expr: expr, Target: target, Assert: n.Assert}, nil
	case IncludeMers:
		if comp.Includer == nil {
			return nil, &CompileError{Message: "#include is not available in this compilation context", Range: n.Range()}
		}
		included, err := comp.Includer(n.Path, n.Range())
		if err != nil {
			return nil, &CompileError{Message: "failed to include " + n.Path, Range: n.Range(), Cause: err}
		}
		return included, nil
	default:
		return nil, &CompileError{Message: fmt.Sprintf("unhandled parsed node %T", s), Range: s.Range()}
	}
}

func compileValue(n Value) *run.ValueLit {
	switch n.Kind {
	case ValueInt:
		return &run.ValueLit{Rng: n.Range(), Val: data.NewInt(n.Int), Typ: types.New(types.Int{Ranged: true, Min: n.Int, Max: n.Int})}
	case ValueFloat:
		return &run.ValueLit{Rng: n.Range(), Val: data.NewFloat(n.Float), Typ: types.New(types.Float{})}
	case ValueBool:
		return &run.ValueLit{Rng: n.Range(), Val: data.NewBool(n.Bool), Typ: types.New(types.Bool{})}
	default: // ValueString
		return &run.ValueLit{Rng: n.Range(), Val: data.NewString(n.String), Typ: types.New(types.String{})}
	}
}

// compileChain desugars `a.f(b,c)` into a Call applying f to the tuple
// (a,b,c), or to a alone when no argument list follows (spec.md §4.2
// rules 1-2, §6.2).
func compileChain(n Chain, comp *CompInfo) (run.Stmt, error) {
	arg, err := Compile(n.Arg, comp)
	if err != nil {
		return nil, err
	}
	fn, err := Compile(n.Func, comp)
	if err != nil {
		return nil, err
	}
	if len(n.Args) == 0 {
		return &run.Call{Rng: n.Range(), Func: fn, Arg: arg}, nil
	}
	elems := make([]run.Stmt, 0, len(n.Args)+1)
	elems = append(elems, arg)
	for _, a := range n.Args {
		ca, err := Compile(a, comp)
		if err != nil {
			return nil, err
		}
		elems = append(elems, ca)
	}
	combinedArg := &run.TupleLit{Rng: n.Range(), Elements: elems}
	return &run.Call{Rng: n.Range(), Func: fn, Arg: combinedArg}, nil
}

// compilePattern lowers a pattern-position parsed.Stmt (Variable,
// Ignore, Tuple, or Object of patterns) into a run.Pattern, allocating
// fresh slots for every bound identifier (spec.md §4.3's init-path rule).
func compilePattern(s Stmt, comp *CompInfo) (run.Pattern, error) {
	switch n := s.(type) {
	case Variable:
		ref := comp.declare(n.Name)
		return run.VarSlot{Depth: ref.Depth, Slot: ref.Slot, Rng: n.Range()}, nil
	case Ignore:
		return run.IgnoreSlot{Rng: n.Range()}, nil
	case Tuple:
		elems := make([]run.Pattern, len(n.Elements))
		for i, e := range n.Elements {
			p, err := compilePattern(e, comp)
			if err != nil {
				return nil, err
			}
			elems[i] = p
		}
		return run.TuplePattern{Elements: elems, Rng: n.Range()}, nil
	case Object:
		fields := make([]run.ObjectPatternField, len(n.Fields))
		for i, f := range n.Fields {
			p, err := compilePattern(f.Val, comp)
			if err != nil {
				return nil, err
			}
			fields[i] = run.ObjectPatternField{Name: f.Name, Pat: p}
		}
		return run.ObjectPattern{Fields: fields, Rng: n.Range()}, nil
	default:
		return nil, &CompileError{Message: fmt.Sprintf("%T is not a valid pattern", s), Range: s.Range()}
	}
}

// resolveTypeExpr interprets a parsed.Stmt written in type-annotation
// position (`x :: <here>`) as a types.Type: a bare identifier resolves
// against comp.Aliases, a Tuple/Object of type expressions resolves
// component-wise, matching how `Int`/`Bool`/... are themselves ordinary
// aliases seeded by NewCompInfo (spec.md §6.1).
func resolveTypeExpr(s Stmt, comp *CompInfo) (types.Type, error) {
	switch n := s.(type) {
	case Variable:
		if n.IsRef {
			inner, err := resolveTypeExpr(Variable{base: n.base, Name: n.Name}, comp)
			if err != nil {
				return types.Empty(), err
			}
			return types.New(types.Reference{Inner: inner}), nil
		}
		t, ok := comp.Aliases[n.Name]
		if !ok {
			return types.Empty(), &CompileError{Message: "unknown type " + n.Name, Range: n.Range()}
		}
		return t, nil
	case Tuple:
		elems := make([]types.Type, len(n.Elements))
		for i, e := range n.Elements {
			t, err := resolveTypeExpr(e, comp)
			if err != nil {
				return types.Empty(), err
			}
			elems[i] = t
		}
		return types.New(types.Tuple{Elements: elems}), nil
	case Object:
		fields := make([]types.Field, len(n.Fields))
		for i, f := range n.Fields {
			t, err := resolveTypeExpr(f.Val, comp)
			if err != nil {
				return types.Empty(), err
			}
			fields[i] = types.Field{Name: f.Name, Type: t}
		}
		return types.New(types.Object{Fields: fields}), nil
	default:
		return types.Empty(), &CompileError{Message: fmt.Sprintf("%T is not a valid type expression", s), Range: s.Range()}
	}
}
