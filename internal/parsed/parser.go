package parsed

import (
	"strconv"

	"github.com/Dummi26/mers/internal/lexer"
	"github.com/Dummi26/mers/internal/token"
)

// Category classifies a parse error for diagnostics and for
// internal/errors' semantic color tagging.
type Category int

const (
	CategoryUnexpectedToken Category = iota
	CategoryUnterminatedLiteral
	CategoryUnknownEscape
	CategoryInvalidPattern
)

// Error is a structured parse error (spec.md §4.2 "every parse error
// carries a source range and a category").
type Error struct {
	Category Category
	Message  string
	Range    token.Range
}

func (e *Error) Error() string { return e.Message }

// Parser is a recursive-descent parser over a token stream, implementing
// the precedence chain from spec.md §4.2: stmt -> chain -> no_chain.
type Parser struct {
	lex    *lexer.Lexer
	cur    token.Token
	peek   token.Token
	errors []*Error
}

// New creates a Parser reading from lex.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	p.advance()
	return p
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []*Error { return p.errors }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) addError(cat Category, msg string, rng token.Range) {
	p.errors = append(p.errors, &Error{Category: cat, Message: msg, Range: rng})
}

func (p *Parser) expect(t token.Type) token.Token {
	tok := p.cur
	if p.cur.Type != t {
		p.addError(CategoryUnexpectedToken,
			"expected "+t.String()+", got "+p.cur.Type.String(), p.cur.Range)
	} else {
		p.advance()
	}
	return tok
}

// ParseProgram parses the entire token stream as a top-level Block body
// (statements separated by optional commas/semicolons), per spec.md
// §4.2 rule 4, applied at file scope.
func (p *Parser) ParseProgram() Stmt {
	start := p.cur.Range
	var stmts []Stmt
	for p.cur.Type != token.EOF {
		stmts = append(stmts, p.parseStmt())
		p.skipSeparators()
	}
	end := p.cur.Range
	return Block{base: base{rng: span(start, end)}, Stmts: stmts}
}

func span(start, end token.Range) token.Range {
	return token.Range{Start: start.Start, End: end.End}
}

func (p *Parser) skipSeparators() {
	for p.cur.Type == token.COMMA || p.cur.Type == token.SEMICOLON {
		p.advance()
	}
}

// parseStmt implements spec.md §4.2 rule 1: a no_chain expression
// optionally followed by `:=`, `=`, `->`, or a run of `.chain_tail`s.
func (p *Parser) parseStmt() Stmt {
	left := p.parseChain()

	switch p.cur.Type {
	case token.COLONEQ:
		p.advance()
		src := p.parseStmt()
		return InitTo{base: base{rng: span(left.Range(), src.Range())}, Pattern: left, Source: src}
	case token.EQ:
		p.advance()
		src := p.parseStmt()
		return AssignTo{base: base{rng: span(left.Range(), src.Range())}, Target: left, Source: src}
	case token.ARROW:
		p.advance()
		body := p.parseStmt()
		return FunctionLiteral{base: base{rng: span(left.Range(), body.Range())}, Param: left, Body: body}
	case token.DBLCOLON:
		p.advance()
		assert := false
		if p.cur.Type == token.ILLEGAL && p.cur.Literal == "!" {
			assert = true
			p.advance()
		}
		typ := p.parseChain()
		return AsType{base: base{rng: span(left.Range(), typ.Range())}, Expr: left, Type: typ, Assert: assert}
	}
	return left
}

// parseChain implements rules 1-2: a no_chain term followed by zero or
// more `.chain_tail`s, each desugaring `a.f(b,c)` into a Chain node that
// the compiler later lowers to `f(a,b,c)`.
func (p *Parser) parseChain() Stmt {
	left := p.parseNoChain()
	for p.cur.Type == token.DOT {
		p.advance()
		fn := p.parseNoChain()
		var args []Stmt
		end := fn.Range()
		if p.cur.Type == token.LPAREN {
			p.advance()
			for p.cur.Type != token.RPAREN && p.cur.Type != token.EOF {
				args = append(args, p.parseStmt())
				p.skipSeparators()
			}
			end = p.cur.Range
			p.expect(token.RPAREN)
		}
		left = Chain{base: base{rng: span(left.Range(), end)}, Arg: left, Func: fn, Args: args}
	}
	return left
}

// parseNoChain implements rule 3.
func (p *Parser) parseNoChain() Stmt {
	switch p.cur.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.LPAREN:
		return p.parseTupleOrObject()
	case token.STRING:
		return p.parseString()
	case token.IF:
		return p.parseIf()
	case token.TRY:
		return p.parseTry()
	case token.LOOP:
		return p.parseLoop()
	case token.INT, token.FLOAT, token.TRUE, token.FALSE:
		return p.parseValue()
	case token.AMP:
		return p.parseVariable()
	case token.IDENT:
		return p.parseVariable()
	case token.INCLUDE:
		return p.parseInclude()
	default:
		rng := p.cur.Range
		p.addError(CategoryUnexpectedToken, "unexpected token "+p.cur.Type.String(), rng)
		p.advance()
		return Tuple{base: base{rng: rng}}
	}
}

func (p *Parser) parseBlock() Stmt {
	start := p.cur.Range
	p.expect(token.LBRACE)
	var stmts []Stmt
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		stmts = append(stmts, p.parseStmt())
		p.skipSeparators()
	}
	end := p.cur.Range
	p.expect(token.RBRACE)
	return Block{base: base{rng: span(start, end)}, Stmts: stmts}
}

// parseTupleOrObject disambiguates rule 5 (tuple) from the object
// literal form `(name: value, ...)` by lookahead: an element starting
// with `IDENT ':'` (and not `::`, which is AsType) makes the whole
// parenthesized group an Object.
func (p *Parser) parseTupleOrObject() Stmt {
	start := p.cur.Range
	p.expect(token.LPAREN)

	if p.cur.Type == token.IDENT && p.peek.Type == token.COLON {
		var fields []ObjectField
		for p.cur.Type != token.RPAREN && p.cur.Type != token.EOF {
			name := p.cur.Literal
			p.advance()
			p.expect(token.COLON)
			val := p.parseStmt()
			fields = append(fields, ObjectField{Name: name, Val: val})
			p.skipSeparators()
		}
		end := p.cur.Range
		p.expect(token.RPAREN)
		return Object{base: base{rng: span(start, end)}, Fields: fields}
	}

	var elems []Stmt
	for p.cur.Type != token.RPAREN && p.cur.Type != token.EOF {
		elems = append(elems, p.parseStmt())
		p.skipSeparators()
	}
	end := p.cur.Range
	p.expect(token.RPAREN)
	return Tuple{base: base{rng: span(start, end)}, Elements: elems}
}

func (p *Parser) parseString() Stmt {
	tok := p.cur
	p.advance()
	return Value{base: base{rng: tok.Range}, Kind: ValueString, String: tok.Literal}
}

func (p *Parser) parseIf() Stmt {
	start := p.cur.Range
	p.expect(token.IF)
	cond := p.parseStmt()
	then := p.parseStmt()
	var els Stmt
	end := then.Range()
	if p.cur.Type == token.ELSE {
		p.advance()
		els = p.parseStmt()
		end = els.Range()
	}
	return If{base: base{rng: span(start, end)}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseLoop() Stmt {
	start := p.cur.Range
	p.expect(token.LOOP)
	body := p.parseStmt()
	return Loop{base: base{rng: span(start, body.Range())}, Body: body}
}

// parseTry parses `try(arg, f1, f2, ...)`.
func (p *Parser) parseTry() Stmt {
	start := p.cur.Range
	p.expect(token.TRY)
	p.expect(token.LPAREN)
	arg := p.parseStmt()
	var funcs []Stmt
	for p.cur.Type == token.COMMA || p.cur.Type == token.SEMICOLON {
		p.advance()
		if p.cur.Type == token.RPAREN {
			break
		}
		funcs = append(funcs, p.parseStmt())
	}
	end := p.cur.Range
	p.expect(token.RPAREN)
	return Try{base: base{rng: span(start, end)}, Arg: arg, Funcs: funcs}
}

func (p *Parser) parseValue() Stmt {
	tok := p.cur
	switch tok.Type {
	case token.TRUE:
		p.advance()
		return Value{base: base{rng: tok.Range}, Kind: ValueBool, Bool: true}
	case token.FALSE:
		p.advance()
		return Value{base: base{rng: tok.Range}, Kind: ValueBool, Bool: false}
	case token.FLOAT:
		p.advance()
		f, _ := strconv.ParseFloat(tok.Literal, 64)
		return Value{base: base{rng: tok.Range}, Kind: ValueFloat, Float: f}
	default: // token.INT
		p.advance()
		i, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return Value{base: base{rng: tok.Range}, Kind: ValueInt, Int: i}
	}
}

func (p *Parser) parseVariable() Stmt {
	start := p.cur.Range
	isRef := false
	if p.cur.Type == token.AMP {
		isRef = true
		p.advance()
	}
	nameTok := p.expect(token.IDENT)
	rng := span(token.Range{Start: start.Start, End: start.Start}, nameTok.Range)
	if !isRef {
		rng = nameTok.Range
	}
	if nameTok.Literal == "_" {
		return Ignore{base: base{rng: rng}}
	}
	return Variable{base: base{rng: rng}, Name: nameTok.Literal, IsRef: isRef}
}

func (p *Parser) parseInclude() Stmt {
	start := p.cur.Range
	p.expect(token.INCLUDE)
	pathTok := p.expect(token.STRING)
	return IncludeMers{base: base{rng: span(start, pathTok.Range)}, Path: pathTok.Literal}
}
