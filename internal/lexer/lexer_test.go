package lexer

import (
	"testing"

	"github.com/tensorir/tirc/internal/token"
)

func allTokens(input string) []token.Token {
	l := New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestSigilClassification(t *testing.T) {
	cases := []struct {
		input    string
		wantType token.Type
		wantKind token.IdentKind
		wantLit  string
	}{
		{"@foo", token.IDENT, token.KindGlobal, "foo"},
		{"'entry", token.IDENT, token.KindBasicBlock, "entry"},
		{"#key", token.IDENT, token.KindKey, "key"},
		{"%temp", token.IDENT, token.KindTemporary, "temp"},
		{"%Type", token.IDENT, token.KindType, "Type"},
	}
	for _, tt := range cases {
		toks := allTokens(tt.input)
		if len(toks) < 1 || toks[0].Type != tt.wantType {
			t.Fatalf("%q: first token = %+v, want type %s", tt.input, toks[0], tt.wantType)
		}
		if toks[0].IdentKind != tt.wantKind {
			t.Fatalf("%q: IdentKind = %v, want %v", tt.input, toks[0].IdentKind, tt.wantKind)
		}
		if toks[0].Literal.(string) != tt.wantLit {
			t.Fatalf("%q: Literal = %v, want %q", tt.input, toks[0].Literal, tt.wantLit)
		}
	}
}

func TestAnonymousID(t *testing.T) {
	toks := allTokens("#2.5")
	if toks[0].Type != token.ANONYMOUS_ID {
		t.Fatalf("#2.5 lexed as %s, want ANONYMOUS_ID", toks[0].Type)
	}
	id, ok := toks[0].Literal.(token.AnonymousID)
	if !ok {
		t.Fatalf("#2.5 Literal is %T, want token.AnonymousID", toks[0].Literal)
	}
	if id.BasicBlock != 2 || id.Instruction != 5 {
		t.Fatalf("#2.5 decoded as %+v, want {2 5}", id)
	}
}

func TestShapeSeparatorToken(t *testing.T) {
	toks := allTokens("<2x3xf32>")
	var gotTypes []token.Type
	for _, tok := range toks {
		gotTypes = append(gotTypes, tok.Type)
	}
	want := []token.Type{token.LT, token.INT, token.X, token.INT, token.X, token.DATA_TYPE, token.GT, token.EOF}
	if len(gotTypes) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(gotTypes), len(want), gotTypes)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Fatalf("token %d = %s, want %s (full: %v)", i, gotTypes[i], want[i], gotTypes)
		}
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	toks := allTokens(`"a\nb\"c"`)
	if toks[0].Type != token.STRING_LITERAL {
		t.Fatalf("string literal lexed as %s", toks[0].Type)
	}
	if got := toks[0].Literal.(string); got != "a\nb\"c" {
		t.Fatalf("decoded string = %q, want %q", got, "a\nb\"c")
	}
}

func TestIntegerAndFloatLiterals(t *testing.T) {
	toks := allTokens("42 3.5")
	if toks[0].Type != token.INT || toks[0].Literal.(int64) != 42 {
		t.Fatalf("42 lexed as %+v", toks[0])
	}
	if toks[1].Type != token.FLOAT || toks[1].Literal.(float64) != 3.5 {
		t.Fatalf("3.5 lexed as %+v", toks[1])
	}
}

func TestNewlineIsSignificant(t *testing.T) {
	toks := allTokens("@a\n@b")
	if toks[1].Type != token.NEWLINE {
		t.Fatalf("expected NEWLINE between identifiers, got %s", toks[1].Type)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := allTokens("@a // a comment\n@b")
	var types []token.Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	want := []token.Type{token.IDENT, token.NEWLINE, token.IDENT, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(types), len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestKeywordDataTypeAttributeOpcodeClassification(t *testing.T) {
	toks := allTokens("module i32 inline branch")
	if toks[0].Type != token.MODULE {
		t.Fatalf("module lexed as %s", toks[0].Type)
	}
	if toks[1].Type != token.DATA_TYPE {
		t.Fatalf("i32 lexed as %s", toks[1].Type)
	}
	if toks[2].Type != token.ATTRIBUTE {
		t.Fatalf("inline lexed as %s", toks[2].Type)
	}
	if toks[3].Type != token.OPCODE {
		t.Fatalf("branch lexed as %s", toks[3].Type)
	}
}

func TestArrowToken(t *testing.T) {
	toks := allTokens("->")
	if toks[0].Type != token.ARROW {
		t.Fatalf("-> lexed as %s", toks[0].Type)
	}
}

func TestIllegalCharacter(t *testing.T) {
	toks := allTokens("$")
	if toks[0].Type != token.ILLEGAL {
		t.Fatalf("$ lexed as %s, want ILLEGAL", toks[0].Type)
	}
}
