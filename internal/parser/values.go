package parser

import (
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

// parseLiteral dispatches on the leading token (spec.md §4.5).
func (p *Parser) parseLiteral() (ir.Literal, *diagnostics.ParseError) {
	switch {
	case p.check(token.FLOAT):
		tok, _ := p.accept(token.FLOAT)
		return ir.ScalarLiteral{Value: tok.Literal.(float64)}, nil
	case p.check(token.INT):
		tok, _ := p.accept(token.INT)
		return ir.ScalarLiteral{Value: tok.Literal.(int64)}, nil
	case p.check(token.TRUE):
		p.advance()
		return ir.ScalarLiteral{Value: true}, nil
	case p.check(token.FALSE):
		p.advance()
		return ir.ScalarLiteral{Value: false}, nil
	case p.check(token.NULL):
		p.advance()
		return ir.NullLiteral{}, nil
	case p.check(token.UNDEFINED):
		p.advance()
		return ir.UndefinedLiteral{}, nil
	case p.check(token.ZERO):
		p.advance()
		return ir.ZeroLiteral{}, nil
	case p.check(token.LBRACKET):
		elems, err := p.parseBracketedUseList(token.LBRACKET, token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return ir.ArrayLiteral{Elements: elems}, nil
	case p.check(token.LPAREN):
		elems, err := p.parseBracketedUseList(token.LPAREN, token.RPAREN)
		if err != nil {
			return nil, err
		}
		return ir.TupleLiteral{Elements: elems}, nil
	case p.check(token.LT):
		elems, err := p.parseBracketedUseList(token.LT, token.GT)
		if err != nil {
			return nil, err
		}
		return ir.TensorLiteral{Elements: elems}, nil
	case p.check(token.LBRACE):
		return p.parseRecordLiteral()
	default:
		return nil, diagnostics.New(diagnostics.ErrUnexpectedToken, p.peek(), "a literal", p.peek().Lexeme)
	}
}

func isLiteralLeading(tok token.Token) bool {
	switch tok.Type {
	case token.FLOAT, token.INT, token.TRUE, token.FALSE, token.NULL,
		token.UNDEFINED, token.ZERO, token.LBRACKET, token.LPAREN,
		token.LT, token.LBRACE:
		return true
	}
	return false
}

func (p *Parser) parseBracketedUseList(open, close token.Type) ([]ir.Use, *diagnostics.ParseError) {
	if _, err := p.expect(open, "'"+string(open)+"'"); err != nil {
		return nil, err
	}
	elems, err := p.parseUseList(func() bool { return p.check(close) })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(close, "'"+string(close)+"'"); err != nil {
		return nil, err
	}
	return elems, nil
}

// parseUseList parses zero or more uses separated by commas (which may
// be surrounded by newlines), stopping once terminator reports true
// (spec.md §4.5).
func (p *Parser) parseUseList(terminator func() bool) ([]ir.Use, *diagnostics.ParseError) {
	p.consumeNewlines()
	var elems []ir.Use
	if terminator() {
		return elems, nil
	}
	for {
		use, err := p.parseUse()
		if err != nil {
			return nil, err
		}
		elems = append(elems, use)
		mark := p.cur.Mark()
		p.consumeNewlines()
		if _, ok := p.accept(token.COMMA); !ok {
			p.cur.Restore(mark)
			break
		}
		p.consumeNewlines()
		if terminator() {
			break
		}
	}
	return elems, nil
}

func (p *Parser) parseRecordLiteral() (ir.Literal, *diagnostics.ParseError) {
	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}
	var fields []ir.KeyedUse
	p.consumeNewlines()
	if !p.check(token.RBRACE) {
		f, err := p.parseKeyedUse()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		for {
			mark := p.cur.Mark()
			p.consumeNewlines()
			if _, ok := p.accept(token.COMMA); !ok {
				p.cur.Restore(mark)
				break
			}
			p.consumeNewlines()
			if p.check(token.RBRACE) {
				break // trailing comma before '}' (spec.md §9 Open Question 2)
			}
			f, err := p.parseKeyedUse()
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
	}
	p.consumeNewlines()
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return ir.RecordLiteral{Fields: fields}, nil
}

func (p *Parser) parseKeyedUse() (ir.KeyedUse, *diagnostics.ParseError) {
	tok, err := p.parseIdentifier([]token.IdentKind{token.KindKey}, "a record field key")
	if err != nil {
		return ir.KeyedUse{}, err
	}
	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return ir.KeyedUse{}, err
	}
	use, err := p.parseUse()
	if err != nil {
		return ir.KeyedUse{}, err
	}
	return ir.KeyedUse{Key: name(tok), Value: use}, nil
}

// parseUse parses one `use` production: an identifier reference, an
// anonymous SSA reference, or a literal, each followed by a mandatory
// type signature checked against the referent's resolved type
// (spec.md §4.5).
func (p *Parser) parseUse() (ir.Use, *diagnostics.ParseError) {
	start := p.peek().Range.Start

	switch {
	case p.check(token.IDENT):
		tok, err := p.parseIdentifier([]token.IdentKind{token.KindGlobal, token.KindTemporary}, "a use of value")
		if err != nil {
			return ir.Use{}, err
		}
		var val ir.Value
		if tok.IdentKind == token.KindGlobal {
			val, err = p.table.LookupGlobal(name(tok), tok)
		} else {
			val, err = p.table.LookupLocal(name(tok), tok)
		}
		if err != nil {
			return ir.Use{}, err
		}
		writtenTy, err := p.parseTypeSignature()
		if err != nil {
			return ir.Use{}, err
		}
		if !ir.Equal(writtenTy, val.ValueType()) {
			rng := token.Range{Start: start, End: p.cur.PreviousEnd()}
			return ir.Use{}, diagnostics.NewAt(diagnostics.ErrTypeMismatch, rng, val.ValueType().String())
		}
		return ir.Use{Type: writtenTy, Kind: ir.UseDefinition, Definition: val}, nil

	case p.check(token.ANONYMOUS_ID):
		tok, err := p.expect(token.ANONYMOUS_ID, "an anonymous identifier")
		if err != nil {
			return ir.Use{}, err
		}
		anonID := tok.Literal.(token.AnonymousID)
		val, err := p.resolveAnonymous(anonID, tok)
		if err != nil {
			return ir.Use{}, err
		}
		writtenTy, err := p.parseTypeSignature()
		if err != nil {
			return ir.Use{}, err
		}
		if !ir.Equal(writtenTy, val.ValueType()) {
			rng := token.Range{Start: start, End: p.cur.PreviousEnd()}
			return ir.Use{}, diagnostics.NewAt(diagnostics.ErrTypeMismatch, rng, val.ValueType().String())
		}
		return ir.Use{Type: writtenTy, Kind: ir.UseDefinition, Definition: val}, nil

	case isLiteralLeading(p.peek()):
		lit, err := p.parseLiteral()
		if err != nil {
			return ir.Use{}, err
		}
		writtenTy, err := p.parseTypeSignature()
		if err != nil {
			return ir.Use{}, err
		}
		return ir.Use{Type: writtenTy, Kind: ir.UseLiteral, Literal: lit}, nil

	default:
		return ir.Use{}, diagnostics.New(diagnostics.ErrUnexpectedToken, p.peek(), "a use of value", p.peek().Lexeme)
	}
}

// resolveAnonymous validates and resolves a `#bbIndex.instIndex`
// reference against the function currently being parsed (spec.md §3's
// anonymous-identifier invariant).
func (p *Parser) resolveAnonymous(id token.AnonymousID, tok token.Token) (ir.Value, *diagnostics.ParseError) {
	if p.currentFunction == nil || p.currentBB == nil {
		return nil, diagnostics.New(diagnostics.ErrAnonymousIdentifierNotInLocal, tok)
	}
	if id.BasicBlock < 0 || id.BasicBlock > p.currentBlockIndex {
		return nil, diagnostics.New(diagnostics.ErrInvalidAnonymousIdentifierIndex, tok, tok.Lexeme)
	}
	var bb *ir.BasicBlock
	if id.BasicBlock == p.currentBlockIndex {
		bb = p.currentBB
	} else {
		bb = p.currentFunction.BasicBlocks[id.BasicBlock]
	}
	if id.Instruction < 0 || id.Instruction >= len(bb.Instructions) {
		return nil, diagnostics.New(diagnostics.ErrInvalidAnonymousIdentifierIndex, tok, tok.Lexeme)
	}
	inst := bb.Instructions[id.Instruction]
	if inst.HasName {
		return nil, diagnostics.New(diagnostics.ErrInvalidAnonymousIdentifierIndex, tok, tok.Lexeme)
	}
	if _, isVoid := inst.Kind.Type().(ir.VoidType); isVoid {
		return nil, diagnostics.New(diagnostics.ErrInvalidAnonymousIdentifierIndex, tok, tok.Lexeme)
	}
	return inst, nil
}
