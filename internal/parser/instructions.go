package parser

import (
	"github.com/tensorir/tirc/internal/config"
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

// parseInstruction parses one instruction statement: an optional
// result name (a temporary or an anonymous slot) followed by an
// opcode-dispatched kind (spec.md §4.6).
func (p *Parser) parseInstruction() (*ir.Instruction, *diagnostics.ParseError) {
	startTok := p.peek()

	var hasName bool
	var nameStr string
	var anonDef *token.AnonymousID

	switch {
	case p.check(token.IDENT) && p.peek().IdentKind == token.KindTemporary:
		tok, err := p.parseIdentifier([]token.IdentKind{token.KindTemporary}, "an instruction result name")
		if err != nil {
			return nil, err
		}
		hasName = true
		nameStr = name(tok)
		if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
			return nil, err
		}
	case p.check(token.ANONYMOUS_ID):
		tok, err := p.expect(token.ANONYMOUS_ID, "an anonymous identifier")
		if err != nil {
			return nil, err
		}
		id := tok.Literal.(token.AnonymousID)
		if id.BasicBlock != p.currentBlockIndex || id.Instruction != len(p.currentBB.Instructions) {
			return nil, diagnostics.New(diagnostics.ErrInvalidAnonymousIdentifierIndex, tok, tok.Lexeme)
		}
		anonDef = &id
		if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
			return nil, err
		}
	case p.check(token.OPCODE):
		// unnamed instruction; kind parsed below
	default:
		return nil, diagnostics.New(diagnostics.ErrUnexpectedToken, startTok, "an instruction", startTok.Lexeme)
	}

	kind, err := p.parseInstructionKind()
	if err != nil {
		return nil, err
	}

	ty := kind.Type()
	if ir.IsInvalid(ty) {
		return nil, diagnostics.New(diagnostics.ErrInvalidOperands, startTok, kind.Opcode())
	}
	named := hasName || anonDef != nil
	if _, isVoid := ty.(ir.VoidType); named && isVoid {
		return nil, diagnostics.New(diagnostics.ErrCannotNameVoidValue, startTok)
	}

	inst := &ir.Instruction{
		Kind:   kind,
		Parent: p.currentBB,
		Index:  len(p.currentBB.Instructions),
	}
	switch {
	case hasName:
		inst.HasName = true
		inst.Name = nameStr
		if err := p.table.DefineLocal(nameStr, startTok, inst); err != nil {
			return nil, err
		}
	case anonDef != nil:
		inst.Anonymous = &ir.AnonymousID{BasicBlock: anonDef.BasicBlock, Instruction: anonDef.Instruction}
	}
	p.currentBB.Instructions = append(p.currentBB.Instructions, inst)
	return inst, nil
}

func (p *Parser) parseInstructionKind() (ir.InstructionKind, *diagnostics.ParseError) {
	opTok, err := p.expect(token.OPCODE, "an opcode")
	if err != nil {
		return nil, err
	}
	op := opTok.Literal.(string)

	switch op {
	case "branch":
		return p.parseBranch()
	case "conditional":
		return p.parseConditional()
	case "return":
		return p.parseReturn()
	case "dataTypeCast":
		return p.parseDataTypeCast()
	case "scan":
		return p.parseScanOrReduce(true)
	case "reduce":
		return p.parseScanOrReduce(false)
	case "matrixMultiply":
		return p.parseMatrixMultiply()
	case "concatenate":
		return p.parseConcatenate()
	case "shapeCast":
		return p.parseShapeCast()
	case "bitCast":
		return p.parseBitCast()
	case "extract":
		return p.parseExtract()
	case "insert":
		return p.parseInsert()
	case "apply":
		return p.parseApply()
	case "allocateStack":
		return p.parseAllocateStack()
	case "allocateHeap":
		return p.parseAllocateHeap()
	case "allocateBox":
		return p.parseAllocateBox()
	case "store":
		return p.parseStore()
	case "elementPointer":
		return p.parseElementPointer()
	case "copy":
		return p.parseCopy()
	case "trap":
		return ir.TrapKind{}, nil
	case "transpose", "retain", "release", "deallocate", "load", "projectBox":
		use, err := p.parseUse()
		if err != nil {
			return nil, err
		}
		return singleUseKind(op, use), nil
	default:
		if binOp, ok := config.BinaryOps[op]; ok {
			return p.parseBinaryOp(binOp)
		}
		if unOp, ok := config.UnaryOps[op]; ok {
			return p.parseUnaryOp(unOp)
		}
		return nil, diagnostics.New(diagnostics.ErrUnexpectedToken, opTok, "an opcode", op)
	}
}

func singleUseKind(op string, use ir.Use) ir.InstructionKind {
	switch op {
	case "transpose":
		return ir.TransposeKind{Value: use}
	case "retain":
		return ir.RetainKind{Value: use}
	case "release":
		return ir.ReleaseKind{Value: use}
	case "deallocate":
		return ir.DeallocateKind{Value: use}
	case "load":
		return ir.LoadKind{Value: use}
	case "projectBox":
		return ir.ProjectBoxKind{Value: use}
	}
	panic("unreachable: " + op) // only called for the fixed set of single-use opcodes above
}

func (p *Parser) parseBranchTarget() (*ir.BasicBlock, []ir.Use, *diagnostics.ParseError) {
	tok, err := p.parseIdentifier([]token.IdentKind{token.KindBasicBlock}, "a basic-block label")
	if err != nil {
		return nil, nil, err
	}
	bb, err := p.table.LookupBasicBlock(name(tok), tok)
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, nil, err
	}
	args, err := p.parseUseList(func() bool { return p.check(token.RPAREN) })
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, nil, err
	}
	return bb, args, nil
}

func (p *Parser) parseBranch() (ir.InstructionKind, *diagnostics.ParseError) {
	bb, args, err := p.parseBranchTarget()
	if err != nil {
		return nil, err
	}
	return ir.BranchKind{Target: bb, Args: args}, nil
}

func (p *Parser) parseConditional() (ir.InstructionKind, *diagnostics.ParseError) {
	cond, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN, "'then'"); err != nil {
		return nil, err
	}
	thenBB, thenArgs, err := p.parseBranchTarget()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE, "'else'"); err != nil {
		return nil, err
	}
	elseBB, elseArgs, err := p.parseBranchTarget()
	if err != nil {
		return nil, err
	}
	return ir.ConditionalKind{Cond: cond, Then: thenBB, ThenArgs: thenArgs, Else: elseBB, ElseArgs: elseArgs}, nil
}

// parseReturn recognizes the bare `return` form iff the next token is
// a newline or the end of input, checked without consuming it first
// (spec.md §9 Open Question 4).
func (p *Parser) parseReturn() (ir.InstructionKind, *diagnostics.ParseError) {
	if p.check(token.NEWLINE) || p.check(token.EOF) {
		return ir.ReturnKind{Value: nil}, nil
	}
	use, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	return ir.ReturnKind{Value: &use}, nil
}

func (p *Parser) parseDataTypeCast() (ir.InstructionKind, *diagnostics.ParseError) {
	use, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TO, "'to'"); err != nil {
		return nil, err
	}
	dt, _, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	return ir.DataTypeCastKind{Value: use, Target: dt}, nil
}

func (p *Parser) parseCombinator() (ir.ReductionCombinator, *diagnostics.ParseError) {
	if p.check(token.IDENT) {
		use, err := p.parseUse()
		if err != nil {
			return nil, err
		}
		return ir.FunctionCombinator{Value: use}, nil
	}
	tok, err := p.expect(token.OPCODE, "an associative binary operator")
	if err != nil {
		return nil, err
	}
	opName := tok.Literal.(string)
	op, ok := config.AssociativeBinaryOps[opName]
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUnexpectedToken, tok, "an associative binary operator", opName)
	}
	return ir.OpCombinator{Op: op}, nil
}

func (p *Parser) parseScanOrReduce(isScan bool) (ir.InstructionKind, *diagnostics.ParseError) {
	use, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.BY, "'by'"); err != nil {
		return nil, err
	}
	combinator, err := p.parseCombinator()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ALONG, "'along'"); err != nil {
		return nil, err
	}
	along, err := p.parseIntList()
	if err != nil {
		return nil, err
	}
	if isScan {
		return ir.ScanKind{Value: use, Combinator: combinator, Along: along}, nil
	}
	return ir.ReduceKind{Value: use, Combinator: combinator, Along: along}, nil
}

func (p *Parser) parseIntList() ([]int, *diagnostics.ParseError) {
	first, _, err := p.parseInteger()
	if err != nil {
		return nil, err
	}
	dims := []int{int(first)}
	for p.acceptWrapped(token.COMMA) {
		d, _, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		dims = append(dims, int(d))
	}
	return dims, nil
}

func (p *Parser) parseMatrixMultiply() (ir.InstructionKind, *diagnostics.ParseError) {
	lhs, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.wrapPunct(token.COMMA, "','"); err != nil {
		return nil, err
	}
	rhs, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	return ir.MatrixMultiplyKind{LHS: lhs, RHS: rhs}, nil
}

func (p *Parser) parseConcatenate() (ir.InstructionKind, *diagnostics.ParseError) {
	first, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	uses := []ir.Use{first}
	for p.acceptWrapped(token.COMMA) {
		u, err := p.parseUse()
		if err != nil {
			return nil, err
		}
		uses = append(uses, u)
	}
	if _, err := p.expect(token.ALONG, "'along'"); err != nil {
		return nil, err
	}
	dim, _, err := p.parseInteger()
	if err != nil {
		return nil, err
	}
	return ir.ConcatenateKind{Values: uses, Along: int(dim)}, nil
}

func (p *Parser) parseShapeCast() (ir.InstructionKind, *diagnostics.ParseError) {
	use, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TO, "'to'"); err != nil {
		return nil, err
	}
	var targetShape ir.Shape
	if _, ok := p.accept(token.SCALAR); ok {
		targetShape = ir.Shape{}
	} else {
		targetShape, err = p.parseNonScalarShape()
		if err != nil {
			return nil, err
		}
	}
	return ir.ShapeCastKind{Value: use, TargetShape: targetShape}, nil
}

func (p *Parser) parseBitCast() (ir.InstructionKind, *diagnostics.ParseError) {
	use, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TO, "'to'"); err != nil {
		return nil, err
	}
	ty, _, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return ir.BitCastKind{Value: use, TargetType: ty}, nil
}

func (p *Parser) parseElementKey() (ir.ElementKey, *diagnostics.ParseError) {
	switch {
	case p.check(token.INT):
		n, _, err := p.parseInteger()
		if err != nil {
			return nil, err
		}
		return ir.IndexKey{Index: int(n)}, nil
	case p.check(token.IDENT) && p.peek().IdentKind == token.KindKey:
		tok, err := p.parseIdentifier([]token.IdentKind{token.KindKey}, "a key")
		if err != nil {
			return nil, err
		}
		return ir.NameKey{Name: name(tok)}, nil
	default:
		use, err := p.parseUse()
		if err != nil {
			return nil, err
		}
		return ir.ValueKey{Value: use}, nil
	}
}

func (p *Parser) parseKeyList() ([]ir.ElementKey, *diagnostics.ParseError) {
	first, err := p.parseElementKey()
	if err != nil {
		return nil, err
	}
	keys := []ir.ElementKey{first}
	for p.acceptWrapped(token.COMMA) {
		k, err := p.parseElementKey()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (p *Parser) parseExtract() (ir.InstructionKind, *diagnostics.ParseError) {
	keys, err := p.parseKeyList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM, "'from'"); err != nil {
		return nil, err
	}
	from, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	return ir.ExtractKind{Keys: keys, From: from}, nil
}

func (p *Parser) parseInsert() (ir.InstructionKind, *diagnostics.ParseError) {
	value, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TO, "'to'"); err != nil {
		return nil, err
	}
	into, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AT, "'at'"); err != nil {
		return nil, err
	}
	keys, err := p.parseKeyList()
	if err != nil {
		return nil, err
	}
	return ir.InsertKind{Value: value, Into: into, Keys: keys}, nil
}

// parseApply parses a call and records the caller-written type
// signature as the instruction's result type (ApplyKind.Result)
// without checking it against the callee's prototype (spec.md §9 Open
// Question 1 — see DESIGN.md for the chosen resolution: the permissive
// behavior is kept).
func (p *Parser) parseApply() (ir.InstructionKind, *diagnostics.ParseError) {
	calleeTok, err := p.parseIdentifier([]token.IdentKind{token.KindGlobal, token.KindTemporary}, "a function reference")
	if err != nil {
		return nil, err
	}
	var callee ir.Value
	if calleeTok.IdentKind == token.KindGlobal {
		callee, err = p.table.LookupGlobal(name(calleeTok), calleeTok)
	} else {
		callee, err = p.table.LookupLocal(name(calleeTok), calleeTok)
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	args, err := p.parseUseList(func() bool { return p.check(token.RPAREN) })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	resultTy, err := p.parseTypeSignature()
	if err != nil {
		return nil, err
	}
	return ir.ApplyKind{Callee: callee, Args: args, Result: resultTy}, nil
}

func (p *Parser) parseAllocateStack() (ir.InstructionKind, *diagnostics.ParseError) {
	ty, _, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COUNT, "'count'"); err != nil {
		return nil, err
	}
	n, _, err := p.parseInteger()
	if err != nil {
		return nil, err
	}
	return ir.AllocateStackKind{ElementType: ty, Count: int(n)}, nil
}

func (p *Parser) parseAllocateHeap() (ir.InstructionKind, *diagnostics.ParseError) {
	ty, _, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COUNT, "'count'"); err != nil {
		return nil, err
	}
	count, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	return ir.AllocateHeapKind{ElementType: ty, Count: count}, nil
}

func (p *Parser) parseAllocateBox() (ir.InstructionKind, *diagnostics.ParseError) {
	ty, _, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return ir.AllocateBoxKind{ElementType: ty}, nil
}

func (p *Parser) parseStore() (ir.InstructionKind, *diagnostics.ParseError) {
	value, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TO, "'to'"); err != nil {
		return nil, err
	}
	into, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	return ir.StoreKind{Value: value, Into: into}, nil
}

func (p *Parser) parseElementPointer() (ir.InstructionKind, *diagnostics.ParseError) {
	value, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AT, "'at'"); err != nil {
		return nil, err
	}
	keys, err := p.parseKeyList()
	if err != nil {
		return nil, err
	}
	return ir.ElementPointerKind{Value: value, Keys: keys}, nil
}

func (p *Parser) parseCopy() (ir.InstructionKind, *diagnostics.ParseError) {
	if _, err := p.expect(token.FROM, "'from'"); err != nil {
		return nil, err
	}
	from, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TO, "'to'"); err != nil {
		return nil, err
	}
	to, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COUNT, "'count'"); err != nil {
		return nil, err
	}
	count, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	return ir.CopyKind{From: from, To: to, Count: count}, nil
}

func (p *Parser) parseBinaryOp(op config.BinaryOp) (ir.InstructionKind, *diagnostics.ParseError) {
	lhs, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	if _, err := p.wrapPunct(token.COMMA, "','"); err != nil {
		return nil, err
	}
	rhs, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	return ir.BinaryOpKind{Op: op, LHS: lhs, RHS: rhs}, nil
}

func (p *Parser) parseUnaryOp(op config.UnaryOp) (ir.InstructionKind, *diagnostics.ParseError) {
	use, err := p.parseUse()
	if err != nil {
		return nil, err
	}
	return ir.UnaryOpKind{Op: op, Value: use}, nil
}
