// Package errors implements mers' structured, colorable, source-range-
// anchored error tree (spec.md §4.6/§6.3/§7): a root message plus
// ordered children, each either a further Error or a source span tagged
// with a semantic Color. Rendering is a separate concern (themes.go):
// the same tree renders to ANSI, HTML, or plain text.
//
// Grounded on the teacher's internal/errors/errors.go (CompilerError with
// a caret-pointing Format(color bool)), generalized from a flat
// message+span into a tree to match mers_lib's errors/mod.rs CheckError
// chaining ("multiple errors may be chained (cause/context)", spec.md
// §4.4), and on mers_lib/src/errors/themes.rs for the EColor tag set
// translated here to Tag strings consumed by a Theme.
package errors

import (
	"strings"

	"github.com/Dummi26/mers/internal/token"
)

// Tag names a semantic color category, mirroring mers_lib's EColor enum
// (spec.md §4.6 names a few: InitTo, FunctionArgument, TryNotAFunction,
// AsTypeTypeAnnotation, ...; the full set lives in themes.go).
type Tag string

// Error is one node of the diagnostic tree: a message, an optional
// source span with a semantic Tag, and ordered child causes.
type Error struct {
	Message  string
	Range    token.Range
	Tag      Tag
	Children []*Error
}

// New creates a leaf Error with no children.
func New(tag Tag, rng token.Range, message string) *Error {
	return &Error{Message: message, Range: rng, Tag: tag}
}

// Wrap creates an Error whose cause is appended as its sole child,
// matching the "errors may be chained (cause/context)" requirement.
func Wrap(tag Tag, rng token.Range, message string, cause *Error) *Error {
	e := New(tag, rng, message)
	if cause != nil {
		e.Children = append(e.Children, cause)
	}
	return e
}

func (e *Error) Error() string { return e.Render(PlainTheme{}) }

// Render walks the tree, producing a single string via the given Theme.
func (e *Error) Render(theme Theme) string {
	var sb strings.Builder
	e.render(theme, &sb, 0)
	return sb.String()
}

func (e *Error) render(theme Theme, sb *strings.Builder, depth int) {
	sb.WriteString(theme.Indent(depth))
	sb.WriteString(theme.Style(e.Tag, e.Message))
	if e.Range != (token.Range{}) {
		sb.WriteString(" ")
		sb.WriteString(theme.Style(TagSourceRange, formatRange(e.Range)))
	}
	sb.WriteString("\n")
	for _, child := range e.Children {
		child.render(theme, sb, depth+1)
	}
}

func formatRange(r token.Range) string {
	if r.Start.Line == r.End.Line {
		return "[line " + itoa(r.Start.Line) + ", col " + itoa(r.Start.Column) + "-" + itoa(r.End.Column) + "]"
	}
	return "[line " + itoa(r.Start.Line) + " col " + itoa(r.Start.Column) + " - line " + itoa(r.End.Line) + " col " + itoa(r.End.Column) + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
