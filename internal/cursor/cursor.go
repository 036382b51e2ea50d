// Package cursor is the token cursor the parser walks: a flat token
// array plus a position, with snapshot/restore support for the local
// backtracking spec.md §4.1 and §5 require (the forward-declaration
// pre-scans, tensor-shape continuation, and optional separators).
package cursor

import (
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/token"
)

// Cursor is a position over an immutable token slice. It never mutates
// the slice it was built from, so snapshots are just integers.
type Cursor struct {
	tokens []token.Token
	pos    int
}

// New builds a Cursor positioned at the first token. toks must end with
// an EOF token; callers never need to special-case running off the end.
func New(toks []token.Token) *Cursor {
	return &Cursor{tokens: toks}
}

// Snapshot is an opaque cursor position, restorable with Restore.
type Snapshot int

// Mark returns the cursor's current position.
func (c *Cursor) Mark() Snapshot { return Snapshot(c.pos) }

// Restore rewinds the cursor to a previously marked position.
func (c *Cursor) Restore(s Snapshot) { c.pos = int(s) }

// Peek returns the current token without advancing.
func (c *Cursor) Peek() token.Token { return c.tokens[c.pos] }

// PeekAt returns the token offset tokens ahead of the current position,
// clamped to the final (EOF) token.
func (c *Cursor) PeekAt(offset int) token.Token {
	i := c.pos + offset
	if i >= len(c.tokens) {
		i = len(c.tokens) - 1
	}
	return c.tokens[i]
}

// Advance returns the current token and moves the cursor forward one
// position, unless already at EOF.
func (c *Cursor) Advance() token.Token {
	t := c.Peek()
	if t.Type != token.EOF {
		c.pos++
	}
	return t
}

// PreviousEnd returns the End position of the most recently consumed
// token, used to build a source range spanning several tokens; it is
// the zero Position if nothing has been consumed yet.
func (c *Cursor) PreviousEnd() token.Position {
	if c.pos == 0 {
		return token.Position{}
	}
	return c.tokens[c.pos-1].Range.End
}

// AtEOF reports whether the cursor has reached the end-of-input token.
func (c *Cursor) AtEOF() bool { return c.Peek().Type == token.EOF }

// Check reports whether the current token has the given type, without
// consuming it.
func (c *Cursor) Check(t token.Type) bool { return c.Peek().Type == t }

// Accept consumes and returns the current token if it has type t,
// reporting whether it did.
func (c *Cursor) Accept(t token.Type) (token.Token, bool) {
	if c.Check(t) {
		return c.Advance(), true
	}
	return token.Token{}, false
}

// Expect consumes the current token if it has type t, else produces an
// unexpected_token (or unexpected_end_of_input at EOF) diagnostic
// naming wantDesc as what was expected.
func (c *Cursor) Expect(t token.Type, wantDesc string) (token.Token, *diagnostics.ParseError) {
	if tok, ok := c.Accept(t); ok {
		return tok, nil
	}
	cur := c.Peek()
	if cur.Type == token.EOF {
		return token.Token{}, diagnostics.New(diagnostics.ErrUnexpectedEOF, cur, wantDesc)
	}
	return token.Token{}, diagnostics.New(diagnostics.ErrUnexpectedToken, cur, wantDesc, cur.Lexeme)
}

// Preserved runs fn starting from the current position and always
// restores the cursor to that position afterward, regardless of what
// fn consumed — used by the module- and function-level forward-
// declaration pre-scans (spec.md §4.8, §4.9), which must observe
// prototypes without disturbing the cursor for the real parse that
// follows.
func (c *Cursor) Preserved(fn func()) {
	mark := c.Mark()
	fn()
	c.Restore(mark)
}

// Backtrack runs fn; if fn returns false the cursor is rewound to its
// position before fn ran, so callers can try one grammar alternative
// and fall back to another without hand-rolling snapshot/restore pairs.
func (c *Cursor) Backtrack(fn func() bool) bool {
	mark := c.Mark()
	if fn() {
		return true
	}
	c.Restore(mark)
	return false
}
