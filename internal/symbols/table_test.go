package symbols

import (
	"testing"

	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

func tok(t token.Type, lexeme string) token.Token {
	return token.Token{Type: t, Lexeme: lexeme}
}

func TestDefineAndLookupGlobal(t *testing.T) {
	table := New()
	fn := &ir.Function{Name: "f", ReturnType: ir.InvalidType{}}
	if err := table.DefineGlobal("f", tok(token.IDENT, "f"), fn); err != nil {
		t.Fatalf("DefineGlobal: %v", err)
	}
	got, err := table.LookupGlobal("f", tok(token.IDENT, "f"))
	if err != nil {
		t.Fatalf("LookupGlobal: %v", err)
	}
	if got != ir.Value(fn) {
		t.Fatalf("LookupGlobal returned a different value")
	}
}

func TestDefineGlobalRedefinition(t *testing.T) {
	table := New()
	fn := &ir.Function{Name: "f", ReturnType: ir.InvalidType{}}
	if err := table.DefineGlobal("f", tok(token.IDENT, "f"), fn); err != nil {
		t.Fatalf("first DefineGlobal: %v", err)
	}
	err := table.DefineGlobal("f", tok(token.IDENT, "f"), fn)
	if err == nil {
		t.Fatalf("second DefineGlobal did not error")
	}
}

func TestLookupGlobalUndefined(t *testing.T) {
	table := New()
	_, err := table.LookupGlobal("missing", tok(token.IDENT, "missing"))
	if err == nil {
		t.Fatalf("LookupGlobal for an undefined name did not error")
	}
}

func TestClearFunctionScopeDropsLocalsAndBlocks(t *testing.T) {
	table := New()
	arg := &ir.Argument{Name: "x", Type: ir.InvalidType{}}
	bb := &ir.BasicBlock{Name: "entry", Index: 0}

	if err := table.DefineLocal("x", tok(token.IDENT, "x"), arg); err != nil {
		t.Fatalf("DefineLocal: %v", err)
	}
	if err := table.DefineBasicBlock("entry", tok(token.IDENT, "entry"), bb); err != nil {
		t.Fatalf("DefineBasicBlock: %v", err)
	}

	table.ClearFunctionScope()

	if _, err := table.LookupLocal("x", tok(token.IDENT, "x")); err == nil {
		t.Fatalf("local %%x survived ClearFunctionScope")
	}
	if _, err := table.LookupBasicBlock("entry", tok(token.IDENT, "entry")); err == nil {
		t.Fatalf("basic block 'entry survived ClearFunctionScope")
	}
}

func TestClearFunctionScopeKeepsGlobalsAndNominalTypes(t *testing.T) {
	table := New()
	fn := &ir.Function{Name: "f", ReturnType: ir.InvalidType{}}
	if err := table.DefineGlobal("f", tok(token.IDENT, "f"), fn); err != nil {
		t.Fatalf("DefineGlobal: %v", err)
	}
	if err := table.DefineNominalType("Point", tok(token.IDENT, "Point"), ir.InvalidType{}); err != nil {
		t.Fatalf("DefineNominalType: %v", err)
	}

	table.ClearFunctionScope()

	if _, err := table.LookupGlobal("f", tok(token.IDENT, "f")); err != nil {
		t.Fatalf("global @f did not survive ClearFunctionScope: %v", err)
	}
	if _, err := table.LookupNominalType("Point", tok(token.IDENT, "Point")); err != nil {
		t.Fatalf("nominal type %%Point did not survive ClearFunctionScope: %v", err)
	}
}

func TestDefineLocalRedefinitionAcrossSiblingFunctionsAllowed(t *testing.T) {
	table := New()
	arg1 := &ir.Argument{Name: "x", Type: ir.InvalidType{}}
	if err := table.DefineLocal("x", tok(token.IDENT, "x"), arg1); err != nil {
		t.Fatalf("DefineLocal in first function: %v", err)
	}
	table.ClearFunctionScope()

	arg2 := &ir.Argument{Name: "x", Type: ir.InvalidType{}}
	if err := table.DefineLocal("x", tok(token.IDENT, "x"), arg2); err != nil {
		t.Fatalf("DefineLocal reused %%x in a sibling function errored: %v", err)
	}
}

func TestLookupNominalTypeUndefined(t *testing.T) {
	table := New()
	_, err := table.LookupNominalType("Missing", tok(token.IDENT, "Missing"))
	if err == nil {
		t.Fatalf("LookupNominalType for an undefined name did not error")
	}
}
