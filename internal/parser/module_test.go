package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
)

func mustParse(t *testing.T, src string) *ir.Module {
	t.Helper()
	mod, err := NewFromSource(src).ParseModule()
	if err != nil {
		t.Fatalf("ParseModule(%s) returned an error: %v", src, err)
	}
	return mod
}

func parseErr(t *testing.T, src string) *diagnostics.ParseError {
	t.Helper()
	mod, err := NewFromSource(src).ParseModule()
	if err == nil {
		t.Fatalf("ParseModule(%s) succeeded, want an error; got module %+v", src, mod)
	}
	return err
}

func TestParseMinimalModule(t *testing.T) {
	src := `module "m"
stage canonical
func @f : (i32, i32) -> i32 {
'entry(%a: i32, %b: i32):
  %s = add %a: i32, %b: i32
  return %s: i32
}
`
	mod := mustParse(t, src)
	if mod.Name != "m" {
		t.Fatalf("mod.Name = %q, want %q", mod.Name, "m")
	}
	if mod.Stage != ir.StageCanonical {
		t.Fatalf("mod.Stage = %v, want canonical", mod.Stage)
	}
	if len(mod.Functions) != 1 {
		t.Fatalf("len(mod.Functions) = %d, want 1", len(mod.Functions))
	}
	fn := mod.Functions[0]
	if fn.Name != "f" || fn.IsDeclaration() {
		t.Fatalf("fn = %+v, want a definition named f", fn)
	}
	wantParams := []ir.Type{ir.ScalarType{DataType: "i32"}, ir.ScalarType{DataType: "i32"}}
	if diff := cmp.Diff(wantParams, fn.ArgumentTypes); diff != "" {
		t.Fatalf("fn.ArgumentTypes mismatch (-want +got):\n%s", diff)
	}
	if len(fn.BasicBlocks) != 1 {
		t.Fatalf("len(fn.BasicBlocks) = %d, want 1", len(fn.BasicBlocks))
	}
	bb := fn.BasicBlocks[0]
	if bb.Name != "entry" || bb.Index != 0 {
		t.Fatalf("bb = %+v, want entry at index 0", bb)
	}
	if len(bb.Instructions) != 2 {
		t.Fatalf("len(bb.Instructions) = %d, want 2", len(bb.Instructions))
	}
	addKind, ok := bb.Instructions[0].Kind.(ir.BinaryOpKind)
	if !ok || addKind.Op != "add" {
		t.Fatalf("first instruction kind = %+v, want a BinaryOpKind{Op: add}", bb.Instructions[0].Kind)
	}
	if _, ok := bb.Instructions[1].Kind.(ir.ReturnKind); !ok {
		t.Fatalf("second instruction kind = %+v, want ReturnKind", bb.Instructions[1].Kind)
	}
}

func TestParseForwardBranchReference(t *testing.T) {
	src := `module "m"
stage raw
func @f : () -> void {
'entry():
  branch 'exit()
'exit():
  return
}
`
	mod := mustParse(t, src)
	fn := mod.Functions[0]
	branchKind, ok := fn.BasicBlocks[0].Instructions[0].Kind.(ir.BranchKind)
	if !ok {
		t.Fatalf("entry's instruction kind = %+v, want BranchKind", fn.BasicBlocks[0].Instructions[0].Kind)
	}
	if branchKind.Target != fn.BasicBlocks[1] {
		t.Fatalf("branch target = %+v, want the 'exit block (forward reference via pre-scan)", branchKind.Target)
	}
}

func TestParseAnonymousSSAReference(t *testing.T) {
	src := `module "m"
stage raw
func @f : (i32) -> i32 {
'entry(%x: i32):
  #0.0 = add %x: i32, %x: i32
  return #0.0: i32
}
`
	mod := mustParse(t, src)
	bb := mod.Functions[0].BasicBlocks[0]
	inst := bb.Instructions[0]
	if inst.HasName || inst.Anonymous == nil || inst.Anonymous.BasicBlock != 0 || inst.Anonymous.Instruction != 0 {
		t.Fatalf("instruction = %+v, want an anonymous definition at (0,0)", inst)
	}
	ret, ok := bb.Instructions[1].Kind.(ir.ReturnKind)
	if !ok || ret.Value == nil || ret.Value.Definition != inst {
		t.Fatalf("return kind = %+v, want it to resolve to the anonymous instruction", bb.Instructions[1].Kind)
	}
}

func TestParseDeclarationWithoutBodyIsNotADefinition(t *testing.T) {
	src := `module "m"
stage raw
[extern] func @callee : (i32) -> i32
`
	mod := mustParse(t, src)
	fn := mod.Functions[0]
	if !fn.IsDeclaration() {
		t.Fatalf("fn.IsDeclaration() = false, want true")
	}
	if len(fn.BasicBlocks) != 0 {
		t.Fatalf("len(fn.BasicBlocks) = %d, want 0 for a declaration", len(fn.BasicBlocks))
	}
}

func TestParseApplyPermissiveTyping(t *testing.T) {
	src := `module "m"
stage raw
[extern] func @callee : (i32) -> i32
func @f : (i32) -> i32 {
'entry(%x: i32):
  %r = apply @callee(%x: i32): i32
  return %r: i32
}
`
	mod := mustParse(t, src)
	fn := mod.Functions[1]
	apply, ok := fn.BasicBlocks[0].Instructions[0].Kind.(ir.ApplyKind)
	if !ok {
		t.Fatalf("first instruction kind = %+v, want ApplyKind", fn.BasicBlocks[0].Instructions[0].Kind)
	}
	if diff := cmp.Diff(ir.Type(ir.ScalarType{DataType: "i32"}), apply.Result); diff != "" {
		t.Fatalf("apply.Result mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDeclarationCannotHaveBody(t *testing.T) {
	src := `module "m"
stage raw
[extern] func @g : () -> void {
'entry():
  return
}
`
	err := parseErr(t, src)
	if err.Code != diagnostics.ErrDeclarationCannotHaveBody {
		t.Fatalf("error code = %s, want %s", err.Code, diagnostics.ErrDeclarationCannotHaveBody)
	}
	if err.Extra == nil {
		t.Fatalf("error has no Extra range, want the declaration's range")
	}
}

func TestParseNotFunctionType(t *testing.T) {
	src := `module "m"
stage raw
func @f : i32 {
'entry():
  return
}
`
	err := parseErr(t, src)
	if err.Code != diagnostics.ErrNotFunctionType {
		t.Fatalf("error code = %s, want %s", err.Code, diagnostics.ErrNotFunctionType)
	}
}

func TestParseTypeMismatchOnUse(t *testing.T) {
	src := `module "m"
stage raw
func @f : (i32) -> void {
'entry(%x: i32):
  return %x: f32
}
`
	err := parseErr(t, src)
	if err.Code != diagnostics.ErrTypeMismatch {
		t.Fatalf("error code = %s, want %s", err.Code, diagnostics.ErrTypeMismatch)
	}
}

func TestParseRedefinedFunction(t *testing.T) {
	src := `module "m"
stage raw
func @f : () -> void {
'entry():
  return
}
func @f : () -> void {
'entry():
  return
}
`
	err := parseErr(t, src)
	if err.Code != diagnostics.ErrRedefinedIdentifier {
		t.Fatalf("error code = %s, want %s", err.Code, diagnostics.ErrRedefinedIdentifier)
	}
}

func TestParseUndefinedBasicBlockLabel(t *testing.T) {
	src := `module "m"
stage raw
func @f : () -> void {
'entry():
  branch 'missing()
}
`
	err := parseErr(t, src)
	if err.Code != diagnostics.ErrUndefinedIdentifier {
		t.Fatalf("error code = %s, want %s", err.Code, diagnostics.ErrUndefinedIdentifier)
	}
}

func TestParseCannotNameVoidValue(t *testing.T) {
	src := `module "m"
stage raw
func @f : () -> void {
'entry():
  %v = trap
  return
}
`
	err := parseErr(t, src)
	if err.Code != diagnostics.ErrCannotNameVoidValue {
		t.Fatalf("error code = %s, want %s", err.Code, diagnostics.ErrCannotNameVoidValue)
	}
}

func TestParseInvalidOperandsShapeMismatch(t *testing.T) {
	src := `module "m"
stage raw
func @f : (<2x3xf32>, <2x3xf32>) -> <2x3xf32> {
'entry(%a: <2x3xf32>, %b: <2x3xf32>):
  %c = matrixMultiply %a: <2x3xf32>, %b: <2x3xf32>
  return %c: <2x3xf32>
}
`
	err := parseErr(t, src)
	if err.Code != diagnostics.ErrInvalidOperands {
		t.Fatalf("error code = %s, want %s", err.Code, diagnostics.ErrInvalidOperands)
	}
}

func TestParseInvalidAnonymousIdentifierIndex(t *testing.T) {
	src := `module "m"
stage raw
func @f : (i32) -> i32 {
'entry(%x: i32):
  #0.1 = add %x: i32, %x: i32
  return #0.1: i32
}
`
	err := parseErr(t, src)
	if err.Code != diagnostics.ErrInvalidAnonymousIdentifierIndex {
		t.Fatalf("error code = %s, want %s", err.Code, diagnostics.ErrInvalidAnonymousIdentifierIndex)
	}
}

func TestParseLocalsDoNotLeakAcrossSiblingFunctions(t *testing.T) {
	src := `module "m"
stage raw
func @f : (i32) -> i32 {
'entry(%x: i32):
  return %x: i32
}
func @g : (i32) -> i32 {
'entry(%x: i32):
  return %x: i32
}
`
	mustParse(t, src)
}

func TestParseTupleAndFunctionTypeDisambiguation(t *testing.T) {
	src := `module "m"
stage raw
func @f : (i32, i32) -> void {
'entry(%p: (i32, i32)):
  return
}
`
	mod := mustParse(t, src)
	arg := mod.Functions[0].BasicBlocks[0].Arguments[0]
	if _, ok := arg.Type.(ir.TupleType); !ok {
		t.Fatalf("argument type = %+v, want a TupleType (no trailing arrow)", arg.Type)
	}
}

func TestParseGradientDeclaration(t *testing.T) {
	src := `module "m"
stage raw
func @f : (i32) -> i32 {
'entry(%x: i32):
  return %x: i32
}
[gradient @f wrt 0] func @df : (i32) -> i32
`
	mod := mustParse(t, src)
	df := mod.Functions[1]
	grad, ok := df.Declaration.(ir.GradientDeclaration)
	if !ok {
		t.Fatalf("df.Declaration = %+v, want GradientDeclaration", df.Declaration)
	}
	if grad.Of != mod.Functions[0] || len(grad.Wrt) != 1 || grad.Wrt[0] != 0 {
		t.Fatalf("grad = %+v, want {Of: @f, Wrt: [0]}", grad)
	}
}
