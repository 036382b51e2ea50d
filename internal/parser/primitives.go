package parser

import (
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

// parseInteger consumes an INT token.
func (p *Parser) parseInteger() (int64, token.Token, *diagnostics.ParseError) {
	tok, err := p.expect(token.INT, "an integer")
	if err != nil {
		return 0, tok, err
	}
	return tok.Literal.(int64), tok, nil
}

// parseDataType consumes a DATA_TYPE token.
func (p *Parser) parseDataType() (ir.DataType, token.Token, *diagnostics.ParseError) {
	tok, err := p.expect(token.DATA_TYPE, "a data type")
	if err != nil {
		return "", tok, err
	}
	return ir.DataType(tok.Literal.(string)), tok, nil
}

// parseStringLiteral consumes a STRING_LITERAL token.
func (p *Parser) parseStringLiteral() (string, token.Token, *diagnostics.ParseError) {
	tok, err := p.expect(token.STRING_LITERAL, "a string literal")
	if err != nil {
		return "", tok, err
	}
	return tok.Literal.(string), tok, nil
}

// parseIdentifier consumes an IDENT token and validates its lexical
// kind is one of allowed (spec.md §4.3). context names what was being
// parsed, for the unexpected_identifier_kind diagnostic.
func (p *Parser) parseIdentifier(allowed []token.IdentKind, context string) (token.Token, *diagnostics.ParseError) {
	tok, err := p.expect(token.IDENT, context)
	if err != nil {
		return tok, err
	}
	for _, k := range allowed {
		if tok.IdentKind == k {
			return tok, nil
		}
	}
	return tok, diagnostics.New(diagnostics.ErrUnexpectedIdentifierKind, tok, describeKinds(allowed), tok.IdentKind.String())
}

func describeKinds(kinds []token.IdentKind) string {
	if len(kinds) == 1 {
		return kinds[0].String()
	}
	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += " or "
		}
		s += k.String()
	}
	return s
}

// name returns an IDENT token's decoded name (stripped of its sigil).
func name(tok token.Token) string { return tok.Literal.(string) }

// parseTypeSignature parses `:` optional-newlines type (spec.md §4.3).
func (p *Parser) parseTypeSignature() (ir.Type, *diagnostics.ParseError) {
	if _, err := p.expect(token.COLON, "a type signature"); err != nil {
		return nil, err
	}
	p.consumeNewlines()
	ty, _, err := p.parseType()
	return ty, err
}
