// Package ir is the typed in-memory data model the parser builds:
// types, literals, uses, values, and the module/function/block/
// instruction tree (spec.md §3). Nothing in this package does any
// parsing; it is pure data plus the structural helpers (Canonical,
// Equal, element-key navigation) the parser needs while it validates.
package ir

import (
	"fmt"
	"strings"
)

// DataType is a primitive scalar kind, supplied lexically (spec.md §3).
type DataType string

// Type is the closed Type variant of spec.md §3.
type Type interface {
	isType()
	String() string
}

// Canonical resolves t through AliasType wrappers to its underlying
// structural shape (a NamedType is returned unchanged), used by the "is function type" check in
// function headers (spec.md §4.8) and by type-equality comparisons.
func Canonical(t Type) Type {
	for {
		switch v := t.(type) {
		case AliasType:
			if v.Alias.Underlying == nil {
				return v // opaque alias: canonical form is itself
			}
			t = v.Alias.Underlying
		default:
			return t
		}
	}
}

// Equal reports whether two types are structurally equal once resolved
// to canonical form — used for the use/referent type-signature check
// (spec.md §3, testable property 1).
func Equal(a, b Type) bool {
	a, b = Canonical(a), Canonical(b)
	switch av := a.(type) {
	case VoidType:
		_, ok := b.(VoidType)
		return ok
	case ScalarType:
		bv, ok := b.(ScalarType)
		return ok && av.DataType == bv.DataType
	case TensorType:
		bv, ok := b.(TensorType)
		return ok && av.DataType == bv.DataType && shapeEqual(av.Shape, bv.Shape)
	case ArrayType:
		bv, ok := b.(ArrayType)
		return ok && av.Count == bv.Count && Equal(av.Element, bv.Element)
	case TupleType:
		bv, ok := b.(TupleType)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case FunctionType:
		bv, ok := b.(FunctionType)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return Equal(av.Result, bv.Result)
	case PointerType:
		bv, ok := b.(PointerType)
		return ok && Equal(av.Pointee, bv.Pointee)
	case RecordTypeRef:
		bv, ok := b.(RecordTypeRef)
		return ok && av.Record == bv.Record
	case AliasType:
		// Only reached for opaque aliases (Canonical stops there).
		bv, ok := b.(AliasType)
		return ok && av.Alias == bv.Alias
	case InvalidType:
		return false
	default:
		return false
	}
}

func shapeEqual(a, b Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsFunctionType reports whether t's canonical form is a FunctionType.
func IsFunctionType(t Type) bool {
	_, ok := Canonical(t).(FunctionType)
	return ok
}

// VoidType is the absent/unit type; an instruction's result type is
// void iff the instruction cannot be named (spec.md §3).
type VoidType struct{}

func (VoidType) isType()        {}
func (VoidType) String() string { return "void" }

// ScalarType is a tensor of empty shape over a DataType.
type ScalarType struct{ DataType DataType }

func (ScalarType) isType() {}
func (s ScalarType) String() string {
	return string(s.DataType)
}

// Shape is an ordered sequence of non-negative tensor dimensions.
type Shape []int

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return strings.Join(parts, "x")
}

// IsScalarShape reports whether s denotes the empty (scalar) shape.
func (s Shape) IsScalarShape() bool { return len(s) == 0 }

// Product returns the element count of a shape (1 for the empty shape).
func (s Shape) Product() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// TensorType is a possibly-non-scalar tensor over a DataType.
type TensorType struct {
	Shape    Shape
	DataType DataType
}

func (TensorType) isType() {}
func (t TensorType) String() string {
	if t.Shape.IsScalarShape() {
		return string(t.DataType)
	}
	return fmt.Sprintf("<%sx%s>", t.Shape, t.DataType)
}

// AsTensor normalizes ScalarType/TensorType into a (Shape, DataType)
// pair, since a scalar is just a tensor of empty shape.
func AsTensor(t Type) (Shape, DataType, bool) {
	switch v := Canonical(t).(type) {
	case ScalarType:
		return nil, v.DataType, true
	case TensorType:
		return v.Shape, v.DataType, true
	default:
		return nil, "", false
	}
}

// MakeTensor builds a ScalarType for the empty shape, else a TensorType.
func MakeTensor(shape Shape, dt DataType) Type {
	if shape.IsScalarShape() {
		return ScalarType{DataType: dt}
	}
	return TensorType{Shape: shape, DataType: dt}
}

// ArrayType is a fixed-length homogeneous sequence.
type ArrayType struct {
	Count   int
	Element Type
}

func (ArrayType) isType() {}
func (a ArrayType) String() string {
	return fmt.Sprintf("[%d x %s]", a.Count, a.Element)
}

// TupleType is a fixed-arity heterogeneous sequence.
type TupleType struct{ Elements []Type }

func (TupleType) isType() {}
func (t TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FunctionType is a function signature.
type FunctionType struct {
	Params []Type
	Result Type
}

func (FunctionType) isType() {}
func (f FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, e := range f.Params {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Result.String()
}

// PointerType points to a value of the given type.
type PointerType struct{ Pointee Type }

func (PointerType) isType() {}
func (p PointerType) String() string { return "*" + p.Pointee.String() }

// NamedType is an unresolved nominal reference. The parser resolves
// nominal references directly against the symbol table's nominal_types
// map (spec.md §4.4) and does not produce NamedType values.
type NamedType struct{ Name string }

func (NamedType) isType() {}
func (n NamedType) String() string { return n.Name }

// TypeAlias is a named type binding; Underlying is nil for an opaque
// alias (spec.md E3).
type TypeAlias struct {
	Name       string
	Underlying Type
}

// AliasType wraps a TypeAlias as a Type, resolved structurally via
// Canonical.
type AliasType struct{ Alias *TypeAlias }

func (AliasType) isType() {}
func (a AliasType) String() string { return a.Alias.Name }

// Record is a named record (struct) type.
type Record struct {
	Name   string
	Fields []RecordField
}

// RecordField returns the field named key, or nil if absent.
func (r *Record) Field(key string) *RecordField {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			return &r.Fields[i]
		}
	}
	return nil
}

type RecordField struct {
	Key  string
	Type Type
}

// RecordTypeRef wraps a *Record as a Type.
type RecordTypeRef struct{ Record *Record }

func (RecordTypeRef) isType() {}
func (r RecordTypeRef) String() string { return r.Record.Name }

// InvalidType marks an instruction whose operands produced no valid
// result type (spec.md §4.6: "If the derived type is invalid ⇒
// invalid_operands").
type InvalidType struct{}

func (InvalidType) isType()        {}
func (InvalidType) String() string { return "<invalid>" }

// IsInvalid reports whether t is the InvalidType sentinel.
func IsInvalid(t Type) bool {
	_, ok := t.(InvalidType)
	return ok
}
