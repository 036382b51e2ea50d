package parser

import (
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

// parseBasicBlock parses one `bb_header` plus its instruction sequence
// (spec.md §4.7). The block's prototype must already exist in the
// symbol table from the enclosing function's pre-scan; this retrieves
// it rather than creating a new one.
func (p *Parser) parseBasicBlock() (*ir.BasicBlock, *diagnostics.ParseError) {
	labelTok, err := p.parseIdentifier([]token.IdentKind{token.KindBasicBlock}, "a basic-block label")
	if err != nil {
		return nil, err
	}
	bb, err := p.table.LookupBasicBlock(name(labelTok), labelTok)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	if !p.check(token.RPAREN) {
		if err := p.parseBlockArgument(bb); err != nil {
			return nil, err
		}
		for p.acceptWrapped(token.COMMA) {
			if err := p.parseBlockArgument(bb); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON, "':'"); err != nil {
		return nil, err
	}
	if err := p.expectNewlines(); err != nil {
		return nil, err
	}

	p.currentBB = bb
	p.currentBlockIndex = bb.Index

	for isInstructionIntroducer(p.peek()) {
		if _, err := p.parseInstruction(); err != nil {
			return nil, err
		}
		if p.check(token.NEWLINE) {
			p.consumeNewlines()
		} else {
			break
		}
	}

	return bb, nil
}

func (p *Parser) parseBlockArgument(bb *ir.BasicBlock) *diagnostics.ParseError {
	tok, err := p.parseIdentifier([]token.IdentKind{token.KindTemporary}, "a basic-block argument name")
	if err != nil {
		return err
	}
	ty, err := p.parseTypeSignature()
	if err != nil {
		return err
	}
	arg := &ir.Argument{Name: name(tok), Type: ty, Parent: bb}
	bb.Arguments = append(bb.Arguments, arg)
	return p.table.DefineLocal(name(tok), tok, arg)
}

// isInstructionIntroducer reports whether tok can begin an instruction
// statement: a temporary name, an anonymous slot, or an opcode
// (spec.md §4.7 — a basic block's instruction sequence stops at the
// first token that is none of these).
func isInstructionIntroducer(tok token.Token) bool {
	if tok.Type == token.OPCODE {
		return true
	}
	if tok.Type == token.ANONYMOUS_ID {
		return true
	}
	if tok.Type == token.IDENT && tok.IdentKind == token.KindTemporary {
		return true
	}
	return false
}
