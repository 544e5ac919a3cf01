package mers

import (
	"fmt"
	"time"

	internalerrors "github.com/Dummi26/mers/internal/errors"
	"github.com/Dummi26/mers/internal/parsed"
	"github.com/Dummi26/mers/internal/run"
	"github.com/Dummi26/mers/internal/token"
)

// Stage names which phase of the pipeline a CompileError came from,
// matching the teacher's CompileError.Stage string field exactly
// ("parsing", "type checking").
type Stage string

const (
	StageParsing      Stage = "parsing"
	StageCompiling    Stage = "compiling"
	StageTypeChecking Stage = "type checking"
)

// Error is one diagnostic: a position, a message, and the semantic tag
// internal/errors uses to color/render it. Mirrors the teacher's
// dwscript.Error{Message,Line,Column,Length,Severity,Code} shape, with
// Code replaced by Tag (mers has no fixed error-code catalogue; its
// diagnostics are tagged by construct, per spec.md §4.6).
type Error struct {
	Message string
	Line    int
	Column  int
	Tag     internalerrors.Tag
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// CompileError is returned by Parse/Compile/Check when one or more
// diagnostics were produced before the requested stage could complete.
// Mirrors the teacher's dwscript.CompileError{Stage, Errors}.
type CompileError struct {
	Stage  Stage
	Errors []*Error
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 0 {
		return string(e.Stage) + ": failed"
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Errors[0].Error())
}

// RuntimeError is returned by Program.Run when evaluation itself fails
// (a builtin error such as division by zero, or an internal invariant
// violation the checker should have caught -- spec.md §4.5, §7).
type RuntimeError struct {
	Errors []*Error
}

func (e *RuntimeError) Error() string {
	if len(e.Errors) == 0 {
		return "runtime error"
	}
	return e.Errors[0].Error()
}

func posOf(rng token.Range) (line, col int) {
	return rng.Start.Line, rng.Start.Column
}

func parseErrorsOf(errs []*parsed.Error) []*Error {
	out := make([]*Error, len(errs))
	for i, e := range errs {
		line, col := posOf(e.Range)
		out[i] = &Error{Message: e.Message, Line: line, Column: col, Tag: internalerrors.TagParseError}
	}
	return out
}

func compileErrorOf(err error) *Error {
	if ce, ok := err.(*parsed.CompileError); ok {
		line, col := posOf(ce.Range)
		return &Error{Message: ce.Error(), Line: line, Column: col, Tag: internalerrors.TagCompileError}
	}
	return &Error{Message: err.Error(), Tag: internalerrors.TagCompileError}
}

func checkErrorOf(err error) *Error {
	if ce, ok := err.(*run.CheckError); ok {
		line, col := posOf(ce.Range)
		tag := internalerrors.Tag(ce.Tag)
		if tag == "" {
			tag = internalerrors.TagCompileError
		}
		return &Error{Message: ce.Message, Line: line, Column: col, Tag: tag}
	}
	return &Error{Message: err.Error(), Tag: internalerrors.TagCompileError}
}

func runtimeErrorOf(err error) *Error {
	if re, ok := err.(*run.RuntimeError); ok {
		line, col := posOf(re.Range)
		tag := internalerrors.TagRuntimeError
		if re.Internal {
			tag = internalerrors.TagInternal
		}
		return &Error{Message: re.Message, Line: line, Column: col, Tag: tag}
	}
	return &Error{Message: err.Error(), Tag: internalerrors.TagRuntimeError}
}

func durationMillis(millis int64) time.Duration {
	return time.Duration(millis) * time.Millisecond
}
