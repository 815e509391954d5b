package lex

import (
	"strings"
	"testing"

	"github.com/orizon-lang/pljit/internal/source"
)

func scanAll(t *testing.T, text string) ([]Token, *struct{ msg string }) {
	t.Helper()

	l := New(source.New(text))

	var tokens []Token

	for !l.EndOfStream() {
		tok, err := l.Consume()
		if err != nil {
			return tokens, &struct{ msg string }{err.Message()}
		}

		tokens = append(tokens, tok)
	}

	return tokens, nil
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	tokens, errInfo := scanAll(t, "PARAM width, height;")
	if errInfo != nil {
		t.Fatalf("unexpected error: %s", errInfo.msg)
	}

	want := []Token{
		{Kind: Keyword, Text: "PARAM"},
		{Kind: Identifier, Text: "width"},
		{Kind: Separator, Text: ","},
		{Kind: Identifier, Text: "height"},
		{Kind: Separator, Text: ";"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}

	for i, w := range want {
		if tokens[i].Kind != w.Kind || tokens[i].Text != w.Text {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], w)
		}
	}
}

func TestLexerAssignOperator(t *testing.T) {
	tokens, errInfo := scanAll(t, "x := 1")
	if errInfo != nil {
		t.Fatalf("unexpected error: %s", errInfo.msg)
	}

	if len(tokens) != 3 || tokens[1].Kind != Operator || tokens[1].Text != ":=" {
		t.Fatalf("got %+v, want [x] [:=] [1]", tokens)
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	_, errInfo := scanAll(t, "x := 1 $ 2")
	if errInfo == nil {
		t.Fatal("expected a lexical error")
	}

	if errInfo.msg != "Unexpected character!" {
		t.Errorf("message = %q, want %q", errInfo.msg, "Unexpected character!")
	}
}

func TestLexerColonWithoutEquals(t *testing.T) {
	_, errInfo := scanAll(t, "x : 1")
	if errInfo == nil {
		t.Fatal("expected a lexical error")
	}

	if errInfo.msg != "Unexpected character to complete token!" {
		t.Errorf("message = %q, want %q", errInfo.msg, "Unexpected character to complete token!")
	}
}

func TestLexerTrailingColon(t *testing.T) {
	_, errInfo := scanAll(t, "x :")
	if errInfo == nil {
		t.Fatal("expected a lexical error")
	}

	if errInfo.msg != "Unexpected end of stream on incomplete Token!" {
		t.Errorf("message = %q, want %q", errInfo.msg, "Unexpected end of stream on incomplete Token!")
	}
}

func TestLexerPeekIsIdempotent(t *testing.T) {
	l := New(source.New("RETURN 1"))

	first, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("peek not idempotent: %+v != %+v", first, second)
	}

	consumed, err := l.Consume()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if consumed != first {
		t.Errorf("consume after peek = %+v, want %+v", consumed, first)
	}
}

func TestLexerEndOfStreamWhitespaceOnly(t *testing.T) {
	l := New(source.New("   \n\t  "))
	if !l.EndOfStream() {
		t.Error("expected end of stream on whitespace-only input")
	}
}

func TestLexerEmptyInputUnexpectedEndOfStream(t *testing.T) {
	l := New(source.New(""))

	_, err := l.Peek()
	if err == nil {
		t.Fatal("expected an error")
	}

	if err.Message() != "Unexpected end of stream!" {
		t.Errorf("message = %q, want %q", err.Message(), "Unexpected end of stream!")
	}
}

func TestLexerDeclarationKeywords(t *testing.T) {
	tokens, errInfo := scanAll(t, "PARAM VAR CONST BEGIN END RETURN")
	if errInfo != nil {
		t.Fatalf("unexpected error: %s", errInfo.msg)
	}

	for _, tok := range tokens {
		if tok.Kind != Keyword {
			t.Errorf("token %+v should be a keyword", tok)
		}
	}
}

// TestLexerRoundTrip exercises the invariant that concatenating every
// token's source slice, plus the inter-token whitespace each consume
// left behind, reproduces the original source byte-for-byte.
func TestLexerRoundTrip(t *testing.T) {
	text := "PARAM a, b;\nVAR  c;\nCONST d = 3;\nBEGIN\n  c := a + b * (d - 1);\n  RETURN c\nEND."

	l := New(source.New(text))

	var rebuilt strings.Builder

	prevEnd := 0

	for !l.EndOfStream() {
		tok, err := l.Consume()
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Message())
		}

		rebuilt.WriteString(text[prevEnd:tok.Ref.Begin()])
		rebuilt.WriteString(tok.Text)
		prevEnd = tok.Ref.End()
	}

	rebuilt.WriteString(text[prevEnd:])

	if rebuilt.String() != text {
		t.Errorf("round-trip mismatch:\ngot:  %q\nwant: %q", rebuilt.String(), text)
	}
}
