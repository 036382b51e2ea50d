// Package parser is the hand-written recursive-descent parser for the
// IR's textual module format: tokens in, a typed *ir.Module out, with
// full symbol resolution and type-signature checking folded into the
// grammar (spec.md §1, §4).
package parser

import (
	"github.com/tensorir/tirc/internal/cursor"
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/lexer"
	"github.com/tensorir/tirc/internal/symbols"
	"github.com/tensorir/tirc/internal/token"
)

// Parser holds the cursor and symbol table for a single parse_module
// call; per spec.md §5 it owns the symbol table exclusively for the
// call's duration and is not reused across modules.
type Parser struct {
	cur   *cursor.Cursor
	table *symbols.Table

	// currentFunction and currentBlockIndex are valid only while
	// parsing a function body; they back the anonymous-identifier
	// validity checks of §3's last invariant.
	currentFunction   *ir.Function
	currentBB         *ir.BasicBlock
	currentBlockIndex int
}

// New builds a Parser over a pre-lexed token array (spec.md §6's first
// constructor form). toks must end with an EOF token.
func New(toks []token.Token) *Parser {
	return &Parser{cur: cursor.New(toks), table: symbols.New()}
}

// NewFromSource lexes src and builds a Parser over the result (spec.md
// §6's second constructor form).
func NewFromSource(src string) *Parser {
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return New(toks)
}

// ParseModule parses the whole token stream, returning the module or
// the first fatal error encountered — there is no recovery past a
// first error (spec.md §7).
func (p *Parser) ParseModule() (*ir.Module, *diagnostics.ParseError) {
	return p.parseModule()
}

// --- shared cursor helpers --------------------------------------------

func (p *Parser) peek() token.Token           { return p.cur.Peek() }
func (p *Parser) peekAt(n int) token.Token    { return p.cur.PeekAt(n) }
func (p *Parser) advance() token.Token        { return p.cur.Advance() }
func (p *Parser) check(t token.Type) bool     { return p.cur.Check(t) }
func (p *Parser) accept(t token.Type) (token.Token, bool) { return p.cur.Accept(t) }

func (p *Parser) expect(t token.Type, desc string) (token.Token, *diagnostics.ParseError) {
	return p.cur.Expect(t, desc)
}

// consumeNewlines eats zero or more NEWLINE tokens, returning how many.
func (p *Parser) consumeNewlines() int {
	n := 0
	for p.check(token.NEWLINE) {
		p.advance()
		n++
	}
	return n
}

// expectNewlines requires at least one NEWLINE, then eats any further
// ones immediately following.
func (p *Parser) expectNewlines() *diagnostics.ParseError {
	if _, err := p.expect(token.NEWLINE, "a newline"); err != nil {
		return err
	}
	p.consumeNewlines()
	return nil
}

// acceptWrapped consumes any newlines, then consumes t and any
// newlines following it iff present; otherwise the cursor is left
// exactly where it started. Used for optional repeated-separator loops
// (spec.md §4.1's newline-wrapping rule applied to an optional token).
func (p *Parser) acceptWrapped(t token.Type) bool {
	mark := p.cur.Mark()
	p.consumeNewlines()
	if _, ok := p.accept(t); ok {
		p.consumeNewlines()
		return true
	}
	p.cur.Restore(mark)
	return false
}

// wrapPunct consumes any newlines, expects punctuation p, then
// consumes any newlines again — the grammar's newline-wrapping rule
// around commas, braces and arrows (spec.md §4.1).
func (p *Parser) wrapPunct(t token.Type, desc string) (token.Token, *diagnostics.ParseError) {
	p.consumeNewlines()
	tok, err := p.expect(t, desc)
	if err != nil {
		return tok, err
	}
	p.consumeNewlines()
	return tok, nil
}
