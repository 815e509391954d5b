// Package lex implements the PL lexical scanner: a peek/consume token
// stream with one token of lookahead, producing tokens tagged with
// precise source.Reference spans for downstream diagnostics.
package lex

import (
	"github.com/orizon-lang/pljit/internal/diag"
	"github.com/orizon-lang/pljit/internal/source"
)

// Kind tags the lexical category of a Token.
type Kind int

const (
	Keyword Kind = iota
	Identifier
	Separator
	Operator
	Literal
	Parenthesis
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case Separator:
		return "separator"
	case Operator:
		return "operator"
	case Literal:
		return "literal"
	case Parenthesis:
		return "parenthesis"
	default:
		return "unknown"
	}
}

var keywords = map[string]bool{
	"PARAM":  true,
	"VAR":    true,
	"CONST":  true,
	"BEGIN":  true,
	"END":    true,
	"RETURN": true,
}

// Token is a classified slice of the source text.
type Token struct {
	Kind Kind
	Text string
	Ref  source.Reference
}

// Is reports whether the token has the given kind and exact text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// cached holds the result of a previously scanned-but-not-consumed
// token, along with the byte cursor it leaves the lexer at once
// consumed.
type cached struct {
	token  Token
	nextAt int
	err    *diag.Diagnostic
}

// Lexer scans a source.Code into a stream of Tokens with one token of
// lookahead. It is not safe for concurrent use by multiple goroutines.
type Lexer struct {
	code *source.Code
	pos  int

	peeked *cached

	// errored is set once a diagnostic has been surfaced through
	// Consume. Per the scanner's contract, consuming again afterwards
	// is a caller error.
	errored bool
}

// New creates a Lexer positioned at the start of code.
func New(code *source.Code) *Lexer {
	return &Lexer{code: code}
}

// Position returns the current byte cursor, for use in diagnostics
// raised by callers (e.g. the parser's end-of-program check).
func (l *Lexer) Position() int { return l.pos }

// Code returns the source buffer this lexer scans.
func (l *Lexer) Code() *source.Code { return l.code }

func isWhitespace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }
func isLetter(b byte) bool     { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isDigit(b byte) bool      { return b >= '0' && b <= '9' }

// EndOfStream reports whether only whitespace remains from the current
// cursor to the end of the buffer. It does not consume or peek.
func (l *Lexer) EndOfStream() bool {
	text := l.code.Text()
	for i := l.pos; i < len(text); i++ {
		if !isWhitespace(text[i]) {
			return false
		}
	}

	return true
}

// FirstNonWhitespace returns the byte offset of the first non-
// whitespace byte from the current cursor onward. Callers must ensure
// EndOfStream() is false before calling this.
func (l *Lexer) FirstNonWhitespace() int {
	return l.skipWhitespace(l.pos)
}

func (l *Lexer) skipWhitespace(pos int) int {
	text := l.code.Text()
	for pos < len(text) && isWhitespace(text[pos]) {
		pos++
	}

	return pos
}

// scan computes the next token starting at pos (after whitespace has
// been skipped), returning it along with the cursor position it ends
// at and any diagnostic raised while scanning.
func (l *Lexer) scan(pos int) (Token, int, *diag.Diagnostic) {
	pos = l.skipWhitespace(pos)

	text := l.code.Text()
	if pos >= len(text) {
		ref := l.code.Ref(pos, pos)
		return Token{}, pos, diag.New(diag.Error, "Unexpected end of stream!", ref)
	}

	ch := text[pos]

	switch {
	case isLetter(ch):
		start := pos
		for pos < len(text) && isLetter(text[pos]) {
			pos++
		}

		ref := l.code.Ref(start, pos)
		word := ref.Text()
		kind := Identifier

		if keywords[word] {
			kind = Keyword
		}

		return Token{Kind: kind, Text: word, Ref: ref}, pos, nil

	case isDigit(ch):
		start := pos
		for pos < len(text) && isDigit(text[pos]) {
			pos++
		}

		ref := l.code.Ref(start, pos)

		return Token{Kind: Literal, Text: ref.Text(), Ref: ref}, pos, nil

	case ch == '+' || ch == '-' || ch == '*' || ch == '/' || ch == '=':
		ref := l.code.Ref(pos, pos+1)
		return Token{Kind: Operator, Text: ref.Text(), Ref: ref}, pos + 1, nil

	case ch == ':':
		colonRef := l.code.Ref(pos, pos+1)

		if pos+1 >= len(text) {
			return Token{}, pos + 1, diag.New(diag.Error, "Unexpected end of stream on incomplete Token!", l.code.Ref(pos+1, pos+1)).
				AttachCause(diag.New(diag.Note, "partial token here", colonRef))
		}

		if text[pos+1] != '=' {
			return Token{}, pos + 1, diag.New(diag.Error, "Unexpected character to complete token!", l.code.Ref(pos+1, pos+2)).
				AttachCause(diag.New(diag.Note, "partial token here", colonRef))
		}

		ref := l.code.Ref(pos, pos+2)

		return Token{Kind: Operator, Text: ref.Text(), Ref: ref}, pos + 2, nil

	case ch == '(' || ch == ')':
		ref := l.code.Ref(pos, pos+1)
		return Token{Kind: Parenthesis, Text: ref.Text(), Ref: ref}, pos + 1, nil

	case ch == ',' || ch == ';' || ch == '.':
		ref := l.code.Ref(pos, pos+1)
		return Token{Kind: Separator, Text: ref.Text(), Ref: ref}, pos + 1, nil

	default:
		ref := l.code.Ref(pos, pos+1)
		return Token{}, pos + 1, diag.New(diag.Error, "Unexpected character!", ref)
	}
}

func (l *Lexer) ensurePeek() {
	if l.peeked != nil {
		return
	}

	token, nextAt, err := l.scan(l.pos)
	l.peeked = &cached{token: token, nextAt: nextAt, err: err}
}

// Peek returns the next token without advancing the cursor. Repeated
// peeks are idempotent.
func (l *Lexer) Peek() (Token, *diag.Diagnostic) {
	if l.errored {
		panic("lex: Peek called after a consumed lexical error")
	}

	l.ensurePeek()

	return l.peeked.token, l.peeked.err
}

// Consume returns the next token and advances the cursor past it. Once
// a diagnostic has been returned from Consume, calling Consume again
// is a contract violation and panics.
func (l *Lexer) Consume() (Token, *diag.Diagnostic) {
	if l.errored {
		panic("lex: Consume called after a consumed lexical error")
	}

	l.ensurePeek()

	c := l.peeked
	l.peeked = nil
	l.pos = c.nextAt

	if c.err != nil {
		l.errored = true
	}

	return c.token, c.err
}
