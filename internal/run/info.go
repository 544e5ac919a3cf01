// Package run implements mers' typed, scope-resolved AST: the Stmt
// interface with Check (type inference, spec.md §4.4) and Run
// (tree-walking evaluation, spec.md §4.5), and the two side-table types
// each phase threads through recursion.
//
// Grounded on mers_lib/src/program/run/mod.rs's MersStatement trait and
// Info/CheckInfo split, adapted from Rust's generic `Info<L: Local>` into
// two concrete Go structs (CheckInfo, RunInfo) -- the teacher's
// internal/semantic and internal/interp packages likewise use concrete,
// non-generic state structs rather than a shared generic container, and
// that's the idiom this rework follows.
package run

import (
	"fmt"

	"github.com/Dummi26/mers/internal/data"
	"github.com/Dummi26/mers/internal/token"
	"github.com/Dummi26/mers/internal/types"
)

// CheckError is a structured type-check failure: a message, the source
// range it's anchored to, a semantic color Tag (spec.md §4.6's EColor
// equivalent, consumed by internal/errors), and optional nested causes.
type CheckError struct {
	Tag      string
	Message  string
	Range    token.Range
	Children []*CheckError
}

func (e *CheckError) Error() string { return e.Message }

// RuntimeError is a structured evaluation failure. The Internal flag
// distinguishes a checker-should-have-caught-this invariant violation
// (spec.md §4.5, §7) from an ordinary built-in failure (division by
// zero, I/O, explicit panic/exit intrinsics).
type RuntimeError struct {
	Message  string
	Range    token.Range
	Internal bool
}

func (e *RuntimeError) Error() string { return e.Message }

// CheckInfo carries the checker's per-scope slot-type stack and the
// global alias table through a Check pass. Scopes is a stack (index 0 =
// outermost); Scopes[d][s] is the static Type of slot s at depth d.
type CheckInfo struct {
	Scopes  [][]types.Type
	Aliases map[string]types.Type

	// InProgress memoizes in-flight dependent-closure checks (see
	// DESIGN.md's "alias resolution" decision): key is a function
	// literal's identity plus the argument type being checked, guarding
	// against unbounded recursion through self-referential closures.
	InProgress map[string]bool

	// UnusedTryFuncs collects `try` candidate functions that never
	// matched any subtype of their argument (spec.md §4.4 rule 10:
	// diagnostic, not an error). Entries recorded while checking a
	// function literal's body go to that body's child CheckInfo (see
	// childInfo) and do not reach this list.
	UnusedTryFuncs []token.Range
}

// NewCheckInfo creates an empty CheckInfo with one (root) scope.
func NewCheckInfo() *CheckInfo {
	return &CheckInfo{
		Scopes:     [][]types.Type{{}},
		Aliases:    map[string]types.Type{},
		InProgress: map[string]bool{},
	}
}

// PushScope opens a new, empty scope.
func (c *CheckInfo) PushScope() { c.Scopes = append(c.Scopes, []types.Type{}) }

// PopScope closes the innermost scope.
func (c *CheckInfo) PopScope() { c.Scopes = c.Scopes[:len(c.Scopes)-1] }

// SetSlot records slot s's static type at depth d, growing the scope as
// needed (a scope's slots are filled in allocation order, so growth only
// ever appends).
func (c *CheckInfo) SetSlot(depth, slot int, t types.Type) {
	for len(c.Scopes[depth]) <= slot {
		c.Scopes[depth] = append(c.Scopes[depth], types.Empty())
	}
	c.Scopes[depth][slot] = t
}

// GetSlot returns slot s's static type at depth d.
func (c *CheckInfo) GetSlot(depth, slot int) types.Type {
	return c.Scopes[depth][slot]
}

// snapshotScopes makes a shallow copy of the scope stack (new outer
// slice, shared inner slices) suitable for a function literal's captured
// lexical environment: once a scope is closed it never grows again, so
// sharing its backing array afterward is safe.
func snapshotScopes(scopes [][]types.Type) [][]types.Type {
	out := make([][]types.Type, len(scopes))
	copy(out, scopes)
	return out
}

// childInfo builds a CheckInfo representing a function literal's
// captured lexical scopes plus one fresh scope for its parameter/body,
// sharing Aliases/InProgress with the defining pass (they are
// pass-global, not scope-local). UnusedTryFuncs is not shared: the child
// starts with an empty list, and nothing copies it back.
func (c *CheckInfo) childInfo(captured [][]types.Type) *CheckInfo {
	return &CheckInfo{
		Scopes:     append(snapshotScopes(captured), []types.Type{}),
		Aliases:    c.Aliases,
		InProgress: c.InProgress,
	}
}

// RunInfo carries the evaluator's per-scope cell stack.
type RunInfo struct {
	Scopes [][]*data.Cell
}

// NewRunInfo creates an empty RunInfo with one (root) scope.
func NewRunInfo() *RunInfo {
	return &RunInfo{Scopes: [][]*data.Cell{{}}}
}

func (r *RunInfo) PushScope() { r.Scopes = append(r.Scopes, []*data.Cell{}) }
func (r *RunInfo) PopScope()  { r.Scopes = r.Scopes[:len(r.Scopes)-1] }

func (r *RunInfo) SetSlot(depth, slot int, c *data.Cell) {
	for len(r.Scopes[depth]) <= slot {
		r.Scopes[depth] = append(r.Scopes[depth], data.NewCell(data.Unit()))
	}
	r.Scopes[depth][slot] = c
}

func (r *RunInfo) GetSlot(depth, slot int) *data.Cell {
	return r.Scopes[depth][slot]
}

func snapshotCellScopes(scopes [][]*data.Cell) [][]*data.Cell {
	out := make([][]*data.Cell, len(scopes))
	copy(out, scopes)
	return out
}

func (r *RunInfo) childInfo(captured [][]*data.Cell) *RunInfo {
	return &RunInfo{Scopes: append(snapshotCellScopes(captured), []*data.Cell{})}
}

// memoKey builds the recursive-closure guard key described in
// DESIGN.md: identity + the argument type's structural string.
func memoKey(identity string, arg types.Type) string {
	return fmt.Sprintf("%s:%s", identity, arg.String())
}
