package parser

import (
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

// parseModule parses the whole token stream (spec.md §4.9):
//
//	module := newline* 'module' string newline+
//	          'stage' ('raw'|'canonical') newline+
//	          top-level*
func (p *Parser) parseModule() (*ir.Module, *diagnostics.ParseError) {
	p.consumeNewlines()
	if _, err := p.expect(token.MODULE, "'module'"); err != nil {
		return nil, err
	}
	name, _, err := p.parseStringLiteral()
	if err != nil {
		return nil, err
	}
	if err := p.expectNewlines(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.STAGE, "'stage'"); err != nil {
		return nil, err
	}
	var stage ir.Stage
	switch {
	case p.check(token.RAW):
		p.advance()
		stage = ir.StageRaw
	case p.check(token.CANONICAL):
		p.advance()
		stage = ir.StageCanonical
	default:
		return nil, diagnostics.New(diagnostics.ErrUnexpectedToken, p.peek(), "'raw' or 'canonical'", p.peek().Lexeme)
	}
	if err := p.expectNewlines(); err != nil {
		return nil, err
	}

	mod := &ir.Module{Name: name, Stage: stage}

	if err := p.preScanFunctionPrototypes(mod); err != nil {
		return nil, err
	}

	for !p.cur.AtEOF() {
		switch {
		case p.check(token.TYPE):
			alias, err := p.parseTypeAlias()
			if err != nil {
				return nil, err
			}
			mod.TypeAliases = append(mod.TypeAliases, alias)
		case p.check(token.STRUCT):
			rec, err := p.parseRecord()
			if err != nil {
				return nil, err
			}
			mod.Records = append(mod.Records, rec)
		case p.check(token.FUNC), p.check(token.LBRACKET), p.check(token.ATTRIBUTE):
			fn, err := p.parseFunction(mod)
			if err != nil {
				return nil, err
			}
			mod.Functions = append(mod.Functions, fn)
		default:
			return nil, diagnostics.New(diagnostics.ErrUnexpectedToken, p.peek(), "a type alias, a struct or a function", p.peek().Lexeme)
		}
		if p.cur.AtEOF() {
			break
		}
		if err := p.expectNewlines(); err != nil {
			return nil, err
		}
	}

	return mod, nil
}

// preScanFunctionPrototypes registers an empty Function prototype in
// globals for every `func @name` introducer found at the top level,
// before anything else is parsed (spec.md §4.9). It restores the
// cursor afterward; only the symbol table's contents survive.
func (p *Parser) preScanFunctionPrototypes(mod *ir.Module) *diagnostics.ParseError {
	var scanErr *diagnostics.ParseError
	p.cur.Preserved(func() {
		depth := 0
		for !p.cur.AtEOF() {
			tok := p.peek()
			if tok.Type == token.LBRACE {
				depth++
				p.advance()
				continue
			}
			if tok.Type == token.RBRACE {
				depth--
				p.advance()
				continue
			}
			if depth == 0 && tok.Type == token.FUNC {
				next := p.peekAt(1)
				if next.Type == token.IDENT && next.IdentKind == token.KindGlobal {
					fnName := next.Literal.(string)
					proto := &ir.Function{
						Name:       fnName,
						ReturnType: ir.InvalidType{},
					}
					if err := p.table.DefineGlobal(fnName, next, proto); err != nil {
						scanErr = err
						return
					}
				}
			}
			p.advance()
		}
	})
	return scanErr
}

// parseTypeAlias parses `type <type_id> = ('opaque' | type)`.
func (p *Parser) parseTypeAlias() (*ir.TypeAlias, *diagnostics.ParseError) {
	p.advance() // 'type'
	tok, err := p.parseIdentifier([]token.IdentKind{token.KindType}, "a type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	alias := &ir.TypeAlias{Name: name(tok)}
	if _, ok := p.accept(token.OPAQUE); ok {
		alias.Underlying = nil
	} else {
		ty, _, err := p.parseType()
		if err != nil {
			return nil, err
		}
		alias.Underlying = ty
	}
	if err := p.table.DefineNominalType(name(tok), tok, ir.AliasType{Alias: alias}); err != nil {
		return nil, err
	}
	return alias, nil
}

// parseRecord parses `struct <type_id> '{' (<key> ':' type (',' <key> ':' type)* ','?)? '}'`.
func (p *Parser) parseRecord() (*ir.Record, *diagnostics.ParseError) {
	p.advance() // 'struct'
	tok, err := p.parseIdentifier([]token.IdentKind{token.KindType}, "a struct name")
	if err != nil {
		return nil, err
	}
	rec := &ir.Record{Name: name(tok)}
	if err := p.table.DefineNominalType(name(tok), tok, ir.RecordTypeRef{Record: rec}); err != nil {
		return nil, err
	}
	if _, err := p.wrapPunct(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}
	if !p.check(token.RBRACE) {
		if err := p.parseRecordField(rec); err != nil {
			return nil, err
		}
		for p.acceptWrapped(token.COMMA) {
			if p.check(token.RBRACE) {
				break
			}
			if err := p.parseRecordField(rec); err != nil {
				return nil, err
			}
		}
	}
	p.consumeNewlines()
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *Parser) parseRecordField(rec *ir.Record) *diagnostics.ParseError {
	tok, err := p.parseIdentifier([]token.IdentKind{token.KindKey}, "a struct field key")
	if err != nil {
		return err
	}
	ty, err := p.parseTypeSignature()
	if err != nil {
		return err
	}
	rec.Fields = append(rec.Fields, ir.RecordField{Key: name(tok), Type: ty})
	return nil
}

// parseFunction parses one top-level function, definition or
// declaration (spec.md §4.8):
//
//	function := attribute* ('[' declaration_kind ']')? 'func' <global_id>
//	            ':' type ('{' basic_block+ '}')?
func (p *Parser) parseFunction(mod *ir.Module) (*ir.Function, *diagnostics.ParseError) {
	declStart := p.peek().Range.Start

	attrs := map[string]bool{}
	for p.check(token.ATTRIBUTE) {
		tok := p.advance()
		attrs[tok.Literal.(string)] = true
	}

	var decl ir.DeclarationKind
	if _, ok := p.accept(token.LBRACKET); ok {
		d, err := p.parseDeclarationKind(mod)
		if err != nil {
			return nil, err
		}
		decl = d
		if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
			return nil, err
		}
	}

	funcTok, err := p.expect(token.FUNC, "'func'")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.parseIdentifier([]token.IdentKind{token.KindGlobal}, "a function name")
	if err != nil {
		return nil, err
	}

	sigTy, sigErr := p.parseTypeSignature()
	if sigErr != nil {
		return nil, sigErr
	}
	fnTy, ok := ir.Canonical(sigTy).(ir.FunctionType)
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrNotFunctionType, funcTok)
	}

	fnVal, lookErr := p.table.LookupGlobal(name(nameTok), nameTok)
	if lookErr != nil {
		return nil, lookErr
	}
	fn, ok := fnVal.(*ir.Function)
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUnexpectedIdentifierKind, nameTok, "a function", "a non-function global")
	}
	fn.Attributes = attrs
	fn.Declaration = decl
	fn.ArgumentTypes = fnTy.Params
	fn.ReturnType = fnTy.Result

	if p.check(token.LBRACE) {
		if decl != nil {
			bodyTok := p.peek()
			declRange := token.Range{Start: declStart, End: nameTok.Range.End}
			return nil, diagnostics.NewWithExtra(diagnostics.ErrDeclarationCannotHaveBody, bodyTok, declRange)
		}
		if err := p.parseFunctionBody(fn); err != nil {
			return nil, err
		}
	}

	p.table.ClearFunctionScope()
	p.currentFunction = nil
	p.currentBB = nil
	p.currentBlockIndex = 0

	return fn, nil
}

// parseDeclarationKind parses `'extern' | 'gradient' <global_id> ('from' int)? 'wrt' int (',' int)* ('keeping' int (',' int)*)? 'seedable'?`.
func (p *Parser) parseDeclarationKind(mod *ir.Module) (ir.DeclarationKind, *diagnostics.ParseError) {
	switch {
	case p.check(token.EXTERN):
		p.advance()
		return ir.ExternDeclaration{}, nil
	case p.check(token.GRADIENT):
		p.advance()
		ofTok, err := p.parseIdentifier([]token.IdentKind{token.KindGlobal}, "the original function")
		if err != nil {
			return nil, err
		}
		ofVal, err := p.table.LookupGlobal(name(ofTok), ofTok)
		if err != nil {
			return nil, err
		}
		of, ok := ofVal.(*ir.Function)
		if !ok {
			return nil, diagnostics.New(diagnostics.ErrUnexpectedIdentifierKind, ofTok, "a function", "a non-function global")
		}
		grad := ir.GradientDeclaration{Of: of}
		if _, ok := p.accept(token.FROM); ok {
			n, _, err := p.parseInteger()
			if err != nil {
				return nil, err
			}
			idx := int(n)
			grad.From = &idx
		}
		if _, err := p.expect(token.WRT, "'wrt'"); err != nil {
			return nil, err
		}
		wrt, err := p.parseIntList()
		if err != nil {
			return nil, err
		}
		grad.Wrt = wrt
		if _, ok := p.accept(token.KEEPING); ok {
			keeping, err := p.parseIntList()
			if err != nil {
				return nil, err
			}
			grad.Keeping = keeping
		}
		if _, ok := p.accept(token.SEEDABLE); ok {
			grad.Seedable = true
		}
		return grad, nil
	default:
		return nil, diagnostics.New(diagnostics.ErrUnexpectedToken, p.peek(), "'extern' or 'gradient'", p.peek().Lexeme)
	}
}

// parseFunctionBody parses `'{' basic_block+ '}'`, running the
// function-level basic-block pre-scan first so every branch target is
// resolvable regardless of declaration order (spec.md §4.8).
func (p *Parser) parseFunctionBody(fn *ir.Function) *diagnostics.ParseError {
	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return err
	}
	p.consumeNewlines()

	p.currentFunction = fn
	if err := p.preScanBasicBlocks(fn); err != nil {
		return err
	}

	for !p.check(token.RBRACE) {
		if _, err := p.parseBasicBlock(); err != nil {
			return err
		}
		p.consumeNewlines()
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return err
	}
	return nil
}

// looksLikeBasicBlockHeader is called with the cursor positioned at a
// `'label (` introducer (peekAt(1) already confirmed LPAREN) and looks
// past the balanced argument-list parens — which may themselves nest
// parens via a tuple/function-typed argument — to check whether a ':'
// immediately follows the matching ')'. Without this, a branch target
// like `branch 'exit(%x: i32)` is syntactically indistinguishable from
// a real block header and would be mis-registered as one, colliding
// with 'exit's actual header during the pre-scan.
func (p *Parser) looksLikeBasicBlockHeader() bool {
	depth := 0
	offset := 1
	for {
		tok := p.peekAt(offset)
		if tok.Type == token.EOF {
			return false
		}
		if tok.Type == token.LPAREN {
			depth++
		} else if tok.Type == token.RPAREN {
			depth--
			if depth == 0 {
				return p.peekAt(offset+1).Type == token.COLON
			}
		}
		offset++
	}
}

// preScanBasicBlocks registers an empty *ir.BasicBlock, in order, for
// every block header in the function body — a `'label (` whose
// balanced argument list is followed by ':' (see
// looksLikeBasicBlockHeader) — before any block's instructions are
// parsed (spec.md §4.7). This is what lets a branch target or an
// anonymous identifier reference a block regardless of textual order.
func (p *Parser) preScanBasicBlocks(fn *ir.Function) *diagnostics.ParseError {
	var scanErr *diagnostics.ParseError
	p.cur.Preserved(func() {
		depth := 0
		for !p.cur.AtEOF() {
			tok := p.peek()
			if depth == 0 && tok.Type == token.RBRACE {
				return
			}
			if tok.Type == token.LBRACE {
				depth++
				p.advance()
				continue
			}
			if tok.Type == token.RBRACE {
				depth--
				p.advance()
				continue
			}
			if depth == 0 && tok.Type == token.IDENT && tok.IdentKind == token.KindBasicBlock && p.peekAt(1).Type == token.LPAREN && p.looksLikeBasicBlockHeader() {
				bbName := tok.Literal.(string)
				bb := &ir.BasicBlock{
					Name:   bbName,
					Parent: fn,
					Index:  len(fn.BasicBlocks),
				}
				fn.BasicBlocks = append(fn.BasicBlocks, bb)
				if err := p.table.DefineBasicBlock(bbName, tok, bb); err != nil {
					scanErr = err
					return
				}
			}
			p.advance()
		}
	})
	return scanErr
}
