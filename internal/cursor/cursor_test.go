package cursor

import (
	"testing"

	"github.com/tensorir/tirc/internal/token"
)

func toks(types ...token.Type) []token.Token {
	out := make([]token.Token, len(types))
	for i, t := range types {
		out[i] = token.Token{Type: t, Lexeme: string(t)}
	}
	return out
}

func TestAdvanceStopsAtEOF(t *testing.T) {
	c := New(toks(token.INT, token.EOF))
	if got := c.Advance().Type; got != token.INT {
		t.Fatalf("first Advance() = %s, want INT", got)
	}
	if got := c.Advance().Type; got != token.EOF {
		t.Fatalf("second Advance() = %s, want EOF", got)
	}
	// Advancing past EOF must not move the cursor further.
	mark := c.Mark()
	c.Advance()
	if c.Mark() != mark {
		t.Fatalf("Advance() past EOF moved the cursor")
	}
}

func TestMarkRestore(t *testing.T) {
	c := New(toks(token.INT, token.FLOAT, token.EOF))
	mark := c.Mark()
	c.Advance()
	c.Advance()
	c.Restore(mark)
	if got := c.Peek().Type; got != token.INT {
		t.Fatalf("after Restore, Peek() = %s, want INT", got)
	}
}

func TestAcceptAndCheck(t *testing.T) {
	c := New(toks(token.COMMA, token.EOF))
	if c.Check(token.COLON) {
		t.Fatalf("Check(COLON) true, want false")
	}
	if _, ok := c.Accept(token.COLON); ok {
		t.Fatalf("Accept(COLON) succeeded on a COMMA token")
	}
	if _, ok := c.Accept(token.COMMA); !ok {
		t.Fatalf("Accept(COMMA) failed")
	}
	if !c.AtEOF() {
		t.Fatalf("expected AtEOF after consuming the only token")
	}
}

func TestExpectUnexpectedEOF(t *testing.T) {
	c := New(toks(token.EOF))
	_, err := c.Expect(token.INT, "an integer")
	if err == nil {
		t.Fatalf("Expect on EOF returned no error")
	}
}

func TestPreservedAlwaysRestores(t *testing.T) {
	c := New(toks(token.INT, token.FLOAT, token.EOF))
	c.Preserved(func() {
		c.Advance()
		c.Advance()
	})
	if got := c.Peek().Type; got != token.INT {
		t.Fatalf("Preserved left cursor at %s, want INT", got)
	}
}

func TestBacktrackRestoresOnFalse(t *testing.T) {
	c := New(toks(token.INT, token.FLOAT, token.EOF))
	ok := c.Backtrack(func() bool {
		c.Advance()
		return false
	})
	if ok {
		t.Fatalf("Backtrack returned true")
	}
	if got := c.Peek().Type; got != token.INT {
		t.Fatalf("Backtrack on false left cursor at %s, want INT", got)
	}
}

func TestBacktrackCommitsOnTrue(t *testing.T) {
	c := New(toks(token.INT, token.FLOAT, token.EOF))
	ok := c.Backtrack(func() bool {
		c.Advance()
		return true
	})
	if !ok {
		t.Fatalf("Backtrack returned false")
	}
	if got := c.Peek().Type; got != token.FLOAT {
		t.Fatalf("Backtrack on true left cursor at %s, want FLOAT", got)
	}
}

func TestPeekAtClampsToEOF(t *testing.T) {
	c := New(toks(token.INT, token.EOF))
	if got := c.PeekAt(10).Type; got != token.EOF {
		t.Fatalf("PeekAt far past the end = %s, want EOF", got)
	}
}
