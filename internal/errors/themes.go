package errors

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// The full semantic tag set, transliterated from mers_lib's EColor enum
// (errors/themes.rs) so every checker/runtime site in internal/run and
// internal/parsed can name precisely what it's pointing at.
const (
	TagSourceRange            Tag = "SourceRange"
	TagWhitespaceAfterHashtag Tag = "WhitespaceAfterHashtag"
	TagHashUnknown            Tag = "HashUnknown"
	TagUnknownVariable        Tag = "UnknownVariable"
	TagBackslashEscapeUnknown Tag = "BackslashEscapeUnknown"
	TagTryNoFunctionFound     Tag = "TryNoFunctionFound"
	TagTryNotAFunction        Tag = "TryNotAFunction"
	TagChainWithNonFunction   Tag = "ChainWithNonFunction"
	TagAssignTargetNonRef     Tag = "AssignTargetNonReference"
	TagFunction               Tag = "Function"
	TagFunctionArgument       Tag = "FunctionArgument"
	TagInitFrom               Tag = "InitFrom"
	TagAssignFrom              Tag = "AssignFrom"
	TagAsTypeTooBroad          Tag = "AsTypeStatementWithTooBroadType"
	TagInitTo                  Tag = "InitTo"
	TagAssignTo                Tag = "AssignTo"
	TagAsTypeTypeAnnotation    Tag = "AsTypeTypeAnnotation"
	TagIfCondition              Tag = "IfCondition"
	TagLoopBody                 Tag = "LoopBody"
	TagStacktraceDescend        Tag = "StacktraceDescend"
	TagMaximumRuntimeExceeded   Tag = "MaximumRuntimeExceeded"
	TagInCodePositionLine       Tag = "InCodePositionLine"
	TagUnused                   Tag = "Unused"

	// The following are not part of mers_lib's EColor; they tag the
	// phase boundary itself (pkg/mers's parse/compile/check/run error
	// conversion) rather than a specific language construct.
	TagParseError   Tag = "ParseError"
	TagCompileError Tag = "CompileError"
	TagRuntimeError Tag = "RuntimeError"
	TagInternal     Tag = "Internal"
)

// semantic is the theme-independent classification of a Tag, matching
// default_theme()'s mapping of EColor variants onto a small palette
// (hard_err / type_right / type_wrong / type_wrong_b / function /
// missing / runtime / runtime_b / unused / unused_b).
type semantic int

const (
	semHardErr semantic = iota
	semTypeRight
	semTypeWrong
	semTypeWrongB
	semFunction
	semMissing
	semRuntime
	semRuntimeB
	semUnused
	semUnusedB
	semNeutral
)

var tagSemantics = map[Tag]semantic{
	TagWhitespaceAfterHashtag: semMissing,
	TagHashUnknown:            semHardErr,
	TagUnknownVariable:        semHardErr,
	TagBackslashEscapeUnknown: semMissing,
	TagTryNoFunctionFound:     semHardErr,
	TagTryNotAFunction:        semHardErr,
	TagChainWithNonFunction:   semHardErr,
	TagAssignTargetNonRef:     semHardErr,
	TagFunction:               semFunction,
	TagFunctionArgument:       semTypeWrong,
	TagInitFrom:               semTypeRight,
	TagAssignFrom:             semTypeRight,
	TagAsTypeTooBroad:         semTypeWrongB,
	TagInitTo:                 semTypeRight,
	TagAssignTo:               semTypeRight,
	TagAsTypeTypeAnnotation:   semTypeWrong,
	TagIfCondition:            semTypeWrong,
	TagLoopBody:               semTypeWrong,
	TagStacktraceDescend:      semRuntime,
	TagMaximumRuntimeExceeded: semRuntimeB,
	TagInCodePositionLine:     semNeutral,
	TagUnused:                 semUnused,
	TagParseError:             semHardErr,
	TagCompileError:           semHardErr,
	TagRuntimeError:           semRuntime,
	TagInternal:               semRuntimeB,
}

func semanticOf(t Tag) semantic {
	if s, ok := tagSemantics[t]; ok {
		return s
	}
	return semNeutral
}

// Theme translates a tagged diagnostic message into its final rendered
// form. Indent controls per-depth nesting prefix.
type Theme interface {
	Style(tag Tag, text string) string
	Indent(depth int) string
}

// PlainTheme performs no styling, matching mers_lib's NoTheme: useful
// for non-terminal output (logs, test golden files).
type PlainTheme struct{}

func (PlainTheme) Style(_ Tag, text string) string { return text }
func (PlainTheme) Indent(depth int) string          { return indentString(depth) }

func indentString(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

// ANSITheme renders via lipgloss styles, matching mers_lib's
// TermDefaultTheme (ANSI via the `colored` crate there; `lipgloss` here,
// grounded on miaomiao1992-dingo/pkg/ui/styles.go's palette-and-compose
// idiom).
type ANSITheme struct {
	hardErr, typeRight, typeWrong, typeWrongB lipgloss.Style
	function, missing                         lipgloss.Style
	runtime, runtimeB                         lipgloss.Style
	unused, unusedB, neutral                  lipgloss.Style
}

// NewANSITheme builds the default terminal color mapping.
func NewANSITheme() ANSITheme {
	return ANSITheme{
		hardErr:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		typeRight: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		typeWrong: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		typeWrongB: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		function:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		missing:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		runtime:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		runtimeB:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		unused:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		unusedB:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true),
		neutral:   lipgloss.NewStyle(),
	}
}

func (t ANSITheme) styleFor(sem semantic) lipgloss.Style {
	switch sem {
	case semHardErr:
		return t.hardErr
	case semTypeRight:
		return t.typeRight
	case semTypeWrong:
		return t.typeWrong
	case semTypeWrongB:
		return t.typeWrongB
	case semFunction:
		return t.function
	case semMissing:
		return t.missing
	case semRuntime:
		return t.runtime
	case semRuntimeB:
		return t.runtimeB
	case semUnused:
		return t.unused
	case semUnusedB:
		return t.unusedB
	default:
		return t.neutral
	}
}

func (t ANSITheme) Style(tag Tag, text string) string {
	return t.styleFor(semanticOf(tag)).Render(text)
}

func (t ANSITheme) Indent(depth int) string { return indentString(depth) }

// HTMLTheme renders color tags as inline `<span style="color:...">`,
// matching mers_lib's HtmlDefaultTheme.
type HTMLTheme struct{}

var htmlColors = map[semantic]string{
	semHardErr:    "#e06c75",
	semTypeRight:  "#98c379",
	semTypeWrong:  "#e5c07b",
	semTypeWrongB: "#d19a66",
	semFunction:   "#c678dd",
	semMissing:    "#5c6370",
	semRuntime:    "#be5046",
	semRuntimeB:   "#be5046",
	semUnused:     "#5c6370",
	semUnusedB:    "#5c6370",
	semNeutral:    "inherit",
}

func (HTMLTheme) Style(tag Tag, text string) string {
	color := htmlColors[semanticOf(tag)]
	return fmt.Sprintf(`<span style="color:%s">%s</span>`, color, text)
}

func (HTMLTheme) Indent(depth int) string {
	return fmt.Sprintf(`<span class="indent" style="padding-left:%dem"></span>`, depth*2)
}
