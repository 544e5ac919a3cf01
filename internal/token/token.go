// Package token defines the lexical tokens of mers source code and the
// positions used to map every token back to the bytes the user typed.
package token

// Position is a location in the original (pre-comment-stripped) source.
// Column counts Unicode code points, not bytes or display width, matching
// the convention used throughout the rest of the toolchain.
type Position struct {
	Line   int // 1-indexed
	Column int // 1-indexed, in runes
	Offset int // 0-indexed byte offset into the original source
}

// Range anchors a diagnostic or an AST node to a span of the original
// source. Start is the position of the first character; End is the
// position just past the last one.
type Range struct {
	Start Position
	End   Position
}

// Type identifies the lexical class of a Token.
type Type int

const (
	ILLEGAL Type = iota
	EOF
	COMMENT

	IDENT
	INT
	FLOAT
	STRING

	TRUE
	FALSE

	// Keywords
	IF
	ELSE
	LOOP
	TRY
	INCLUDE

	// Punctuation
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }

	COMMA     // ,
	SEMICOLON // ;
	DOT       // .
	AMP       // &

	COLON    // :
	COLONEQ  // :=
	EQ       // =
	ARROW    // ->
	DBLCOLON // ::

	EOL // statement-separating newline; the lexer never emits it
)

var names = map[Type]string{
	ILLEGAL:  "ILLEGAL",
	EOF:      "EOF",
	COMMENT:  "COMMENT",
	IDENT:    "IDENT",
	INT:      "INT",
	FLOAT:    "FLOAT",
	STRING:   "STRING",
	TRUE:     "true",
	FALSE:    "false",
	IF:       "if",
	ELSE:     "else",
	LOOP:     "loop",
	TRY:      "try",
	INCLUDE:  "#include",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	COMMA:    ",",
	SEMICOLON: ";",
	DOT:      ".",
	AMP:      "&",
	COLON:    ":",
	COLONEQ:  ":=",
	EQ:       "=",
	ARROW:    "->",
	DBLCOLON: "::",
	EOL:      "EOL",
}

// String renders the token type's canonical spelling, for error messages.
func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var keywords = map[string]Type{
	"true":     TRUE,
	"false":    FALSE,
	"if":       IF,
	"else":     ELSE,
	"loop":     LOOP,
	"try":      TRY,
}

// LookupIdent classifies word as a keyword token type, or IDENT if it is
// an ordinary identifier.
func LookupIdent(word string) Type {
	if t, ok := keywords[word]; ok {
		return t
	}
	return IDENT
}

// Token is a single lexical unit together with the source range it came
// from (in the original, pre-comment-stripped source).
type Token struct {
	Type    Type
	Literal string
	Range   Range
}

// Pos returns the start position of the token, a convenience used
// throughout the parser for single-point diagnostics.
func (t Token) Pos() Position { return t.Range.Start }
