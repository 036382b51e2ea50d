package parser

import (
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

// parseType parses one `type` production (spec.md §4.4), returning
// the resolved type and the source range it spanned.
func (p *Parser) parseType() (ir.Type, token.Range, *diagnostics.ParseError) {
	start := p.peek().Range.Start
	ty, err := p.parseTypeInner()
	if err != nil {
		return nil, token.Range{}, err
	}
	return ty, token.Range{Start: start, End: p.cur.PreviousEnd()}, nil
}

func (p *Parser) parseTypeInner() (ir.Type, *diagnostics.ParseError) {
	switch {
	case p.check(token.VOID):
		p.advance()
		return ir.VoidType{}, nil
	case p.check(token.DATA_TYPE):
		dt, _, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		return ir.ScalarType{DataType: dt}, nil
	case p.check(token.LBRACKET):
		return p.parseArrayType()
	case p.check(token.LT):
		return p.parseTensorType()
	case p.check(token.LPAREN):
		return p.parseTupleOrFunctionType()
	case p.check(token.ASTERISK):
		p.advance()
		pointee, _, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ir.PointerType{Pointee: pointee}, nil
	case p.check(token.IDENT) && p.peek().IdentKind == token.KindType:
		tok, err := p.parseIdentifier([]token.IdentKind{token.KindType}, "a type")
		if err != nil {
			return nil, err
		}
		return p.lookupNominalType(name(tok), tok)
	default:
		return nil, diagnostics.New(diagnostics.ErrUnexpectedToken, p.peek(), "a type", p.peek().Lexeme)
	}
}

func (p *Parser) lookupNominalType(n string, tok token.Token) (ir.Type, *diagnostics.ParseError) {
	ty, err := p.table.LookupNominalType(n, tok)
	if err != nil {
		return nil, err
	}
	return ty, nil
}

// parseNonScalarShape parses `int ('x' int)*`: a mandatory leading
// dimension, then greedily-but-backtracking further `x int` pairs —
// after consuming an 'x', if the next token is not an integer the
// cursor rewinds to before that 'x' so an enclosing production (the
// tensor type's shape/dtype separator) can see it (spec.md §4.4).
func (p *Parser) parseNonScalarShape() (ir.Shape, *diagnostics.ParseError) {
	first, _, err := p.parseInteger()
	if err != nil {
		return nil, err
	}
	shape := ir.Shape{int(first)}
	for {
		mark := p.cur.Mark()
		if _, ok := p.accept(token.X); !ok {
			break
		}
		if !p.check(token.INT) {
			p.cur.Restore(mark)
			break
		}
		dim, _, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		shape = append(shape, int(dim))
	}
	return shape, nil
}

func (p *Parser) parseArrayType() (ir.Type, *diagnostics.ParseError) {
	if _, err := p.expect(token.LBRACKET, "'['"); err != nil {
		return nil, err
	}
	count, _, err := p.parseInteger()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.X, "'x'"); err != nil {
		return nil, err
	}
	elem, _, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
		return nil, err
	}
	return ir.ArrayType{Count: int(count), Element: elem}, nil
}

func (p *Parser) parseTensorType() (ir.Type, *diagnostics.ParseError) {
	if _, err := p.expect(token.LT, "'<'"); err != nil {
		return nil, err
	}
	shape, err := p.parseNonScalarShape()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.X, "'x'"); err != nil {
		return nil, err
	}
	dt, _, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.GT, "'>'"); err != nil {
		return nil, err
	}
	return ir.TensorType{Shape: shape, DataType: dt}, nil
}

func (p *Parser) parseTupleOrFunctionType() (ir.Type, *diagnostics.ParseError) {
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var elems []ir.Type
	p.consumeNewlines()
	if !p.check(token.RPAREN) {
		ty, _, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, ty)
		for {
			mark := p.cur.Mark()
			p.consumeNewlines()
			if _, ok := p.accept(token.COMMA); !ok {
				p.cur.Restore(mark)
				break
			}
			p.consumeNewlines()
			ty, _, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, ty)
		}
	}
	p.consumeNewlines()
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	// `(type, ...) -> type` becomes a function type; otherwise a tuple.
	if _, ok := p.accept(token.ARROW); ok {
		result, _, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ir.FunctionType{Params: elems, Result: result}, nil
	}
	return ir.TupleType{Elements: elems}, nil
}
