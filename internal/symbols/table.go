// Package symbols is the parser's four-namespace symbol table: module
// globals, function locals, basic-block labels, and nominal types
// (spec.md §3, §4.2). Each namespace is independently scoped; the two
// function-local namespaces are cleared when a function finishes
// parsing, so label/local collisions across sibling functions are never
// reported.
package symbols

import (
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

// Table holds the four symbol namespaces live during a single module
// parse.
type Table struct {
	globals      map[string]ir.Value
	locals       map[string]ir.Value
	basicBlocks  map[string]*ir.BasicBlock
	nominalTypes map[string]ir.Type
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		globals:      map[string]ir.Value{},
		locals:       map[string]ir.Value{},
		basicBlocks:  map[string]*ir.BasicBlock{},
		nominalTypes: map[string]ir.Type{},
	}
}

// ClearFunctionScope discards the locals and basic-block-label
// namespaces, called once a function's body has finished parsing
// (spec.md §4.9: labels and locals never leak across functions).
func (t *Table) ClearFunctionScope() {
	t.locals = map[string]ir.Value{}
	t.basicBlocks = map[string]*ir.BasicBlock{}
}

// DefineGlobal registers a module-level value (a function), failing
// with redefined_identifier if name is already bound.
func (t *Table) DefineGlobal(name string, tok token.Token, v ir.Value) *diagnostics.ParseError {
	if _, exists := t.globals[name]; exists {
		return diagnostics.New(diagnostics.ErrRedefinedIdentifier, tok, name)
	}
	t.globals[name] = v
	return nil
}

// LookupGlobal resolves an `@name` reference.
func (t *Table) LookupGlobal(name string, tok token.Token) (ir.Value, *diagnostics.ParseError) {
	v, ok := t.globals[name]
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUndefinedIdentifier, tok, "@"+name)
	}
	return v, nil
}

// DefineLocal registers a function-local temporary (`%name`) or
// argument binding.
func (t *Table) DefineLocal(name string, tok token.Token, v ir.Value) *diagnostics.ParseError {
	if _, exists := t.locals[name]; exists {
		return diagnostics.New(diagnostics.ErrRedefinedIdentifier, tok, name)
	}
	t.locals[name] = v
	return nil
}

// LookupLocal resolves a `%name` reference.
func (t *Table) LookupLocal(name string, tok token.Token) (ir.Value, *diagnostics.ParseError) {
	v, ok := t.locals[name]
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUndefinedIdentifier, tok, "%"+name)
	}
	return v, nil
}

// DefineBasicBlock registers a `'label` prototype during the
// function-level pre-scan (spec.md §4.9).
func (t *Table) DefineBasicBlock(name string, tok token.Token, bb *ir.BasicBlock) *diagnostics.ParseError {
	if _, exists := t.basicBlocks[name]; exists {
		return diagnostics.New(diagnostics.ErrRedefinedIdentifier, tok, name)
	}
	t.basicBlocks[name] = bb
	return nil
}

// LookupBasicBlock resolves a `'label` reference, normally already
// registered by the pre-scan before any branch referencing it is
// parsed.
func (t *Table) LookupBasicBlock(name string, tok token.Token) (*ir.BasicBlock, *diagnostics.ParseError) {
	bb, ok := t.basicBlocks[name]
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUndefinedIdentifier, tok, "'"+name)
	}
	return bb, nil
}

// DefineNominalType registers a module-level `%Name` type alias or
// record.
func (t *Table) DefineNominalType(name string, tok token.Token, ty ir.Type) *diagnostics.ParseError {
	if _, exists := t.nominalTypes[name]; exists {
		return diagnostics.New(diagnostics.ErrRedefinedIdentifier, tok, name)
	}
	t.nominalTypes[name] = ty
	return nil
}

// LookupNominalType resolves a `%Name` type reference.
func (t *Table) LookupNominalType(name string, tok token.Token) (ir.Type, *diagnostics.ParseError) {
	ty, ok := t.nominalTypes[name]
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUndefinedNominalType, tok, name)
	}
	return ty, nil
}
