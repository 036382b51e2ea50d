package ir

import (
	"fmt"

	"github.com/tensorir/tirc/internal/config"
)

// AnonymousID is the decoded (bbIndex, instIndex) pair of a `#bb.inst`
// reference (spec.md §3).
type AnonymousID struct {
	BasicBlock  int
	Instruction int
}

// Instruction is a basic-block-owned definition site (spec.md §3).
type Instruction struct {
	Name      string // valid when HasName
	HasName   bool
	Anonymous *AnonymousID // non-nil when this instruction was defined at an anonymous slot
	Kind      InstructionKind
	Parent    *BasicBlock
	Index     int // this instruction's position within Parent.Instructions
}

func (i *Instruction) ValueType() Type { return i.Kind.Type() }

func (i *Instruction) ValueName() (string, bool) {
	if i.HasName {
		return i.Name, true
	}
	if i.Anonymous != nil {
		return fmt.Sprintf("#%d.%d", i.Anonymous.BasicBlock, i.Anonymous.Instruction), true
	}
	return "", false
}

func (i *Instruction) Opcode() string { return i.Kind.Opcode() }

// InstructionKind is the closed InstructionKind variant of spec.md §3;
// one concrete struct per opcode in spec.md §4.6. Type derives the
// instruction's result type, returning InvalidType{} when the operands
// are malformed (spec.md: "If the derived type is invalid ⇒
// invalid_operands").
type InstructionKind interface {
	Type() Type
	Opcode() string
}

// --- control flow -----------------------------------------------------

type BranchKind struct {
	Target *BasicBlock
	Args   []Use
}

func (BranchKind) Type() Type      { return VoidType{} }
func (BranchKind) Opcode() string  { return "branch" }

type ConditionalKind struct {
	Cond      Use
	Then      *BasicBlock
	ThenArgs  []Use
	Else      *BasicBlock
	ElseArgs  []Use
}

func (ConditionalKind) Type() Type     { return VoidType{} }
func (ConditionalKind) Opcode() string { return "conditional" }

// ReturnKind's Value is nil for the bare `return` form.
type ReturnKind struct {
	Value *Use
}

func (ReturnKind) Type() Type      { return VoidType{} }
func (ReturnKind) Opcode() string  { return "return" }

// --- casts --------------------------------------------------------------

type DataTypeCastKind struct {
	Value  Use
	Target DataType
}

func (k DataTypeCastKind) Type() Type {
	shape, _, ok := AsTensor(k.Value.Type)
	if !ok {
		return InvalidType{}
	}
	return MakeTensor(shape, k.Target)
}
func (DataTypeCastKind) Opcode() string { return "dataTypeCast" }

type ShapeCastKind struct {
	Value       Use
	TargetShape Shape
}

func (k ShapeCastKind) Type() Type {
	shape, dt, ok := AsTensor(k.Value.Type)
	if !ok {
		return InvalidType{}
	}
	if shape.Product() != k.TargetShape.Product() {
		return InvalidType{}
	}
	return MakeTensor(k.TargetShape, dt)
}
func (ShapeCastKind) Opcode() string { return "shapeCast" }

type BitCastKind struct {
	Value      Use
	TargetType Type
}

func (k BitCastKind) Type() Type     { return k.TargetType }
func (BitCastKind) Opcode() string   { return "bitCast" }

// --- reductions -----------------------------------------------------------

type ScanKind struct {
	Value      Use
	Combinator ReductionCombinator
	Along      []int
}

func (k ScanKind) Type() Type {
	shape, dt, ok := AsTensor(k.Value.Type)
	if !ok || !validAlong(shape, k.Along) {
		return InvalidType{}
	}
	return MakeTensor(shape, dt) // scan preserves shape
}
func (ScanKind) Opcode() string { return "scan" }

type ReduceKind struct {
	Value      Use
	Combinator ReductionCombinator
	Along      []int
}

func (k ReduceKind) Type() Type {
	shape, dt, ok := AsTensor(k.Value.Type)
	if !ok || !validAlong(shape, k.Along) {
		return InvalidType{}
	}
	result := make(Shape, 0, len(shape))
	removed := map[int]bool{}
	for _, d := range k.Along {
		removed[d] = true
	}
	for i, d := range shape {
		if !removed[i] {
			result = append(result, d)
		}
	}
	return MakeTensor(result, dt)
}
func (ReduceKind) Opcode() string { return "reduce" }

func validAlong(shape Shape, along []int) bool {
	if len(along) == 0 {
		return false
	}
	for _, d := range along {
		if d < 0 || d >= len(shape) {
			return false
		}
	}
	return true
}

// --- tensor structural ops -------------------------------------------------

type MatrixMultiplyKind struct {
	LHS, RHS Use
}

func (k MatrixMultiplyKind) Type() Type {
	lShape, lDT, ok1 := AsTensor(k.LHS.Type)
	rShape, rDT, ok2 := AsTensor(k.RHS.Type)
	if !ok1 || !ok2 || lDT != rDT || len(lShape) != 2 || len(rShape) != 2 || lShape[1] != rShape[0] {
		return InvalidType{}
	}
	return MakeTensor(Shape{lShape[0], rShape[1]}, lDT)
}
func (MatrixMultiplyKind) Opcode() string { return "matrixMultiply" }

type ConcatenateKind struct {
	Values []Use
	Along  int
}

func (k ConcatenateKind) Type() Type {
	if len(k.Values) == 0 {
		return InvalidType{}
	}
	baseShape, dt, ok := AsTensor(k.Values[0].Type)
	if !ok || k.Along < 0 || k.Along >= len(baseShape) {
		return InvalidType{}
	}
	total := baseShape[k.Along]
	for _, v := range k.Values[1:] {
		shape, vdt, ok := AsTensor(v.Type)
		if !ok || vdt != dt || len(shape) != len(baseShape) {
			return InvalidType{}
		}
		for i := range shape {
			if i != k.Along && shape[i] != baseShape[i] {
				return InvalidType{}
			}
		}
		total += shape[k.Along]
	}
	result := append(Shape{}, baseShape...)
	result[k.Along] = total
	return MakeTensor(result, dt)
}
func (ConcatenateKind) Opcode() string { return "concatenate" }

type TransposeKind struct{ Value Use }

func (k TransposeKind) Type() Type {
	shape, dt, ok := AsTensor(k.Value.Type)
	if !ok || len(shape) < 2 {
		return InvalidType{}
	}
	result := make(Shape, len(shape))
	for i, d := range shape {
		result[len(shape)-1-i] = d
	}
	return MakeTensor(result, dt)
}
func (TransposeKind) Opcode() string { return "transpose" }

// --- extract / insert / elementPointer --------------------------------------

type ExtractKind struct {
	Keys []ElementKey
	From Use
}

func (k ExtractKind) Type() Type { return navigateKeys(k.From.Type, k.Keys) }
func (ExtractKind) Opcode() string { return "extract" }

type InsertKind struct {
	Value Use
	Into  Use
	Keys  []ElementKey
}

func (k InsertKind) Type() Type {
	field := navigateKeys(k.Into.Type, k.Keys)
	if IsInvalid(field) || !Equal(field, k.Value.Type) {
		return InvalidType{}
	}
	return k.Into.Type
}
func (InsertKind) Opcode() string { return "insert" }

type ElementPointerKind struct {
	Value Use
	Keys  []ElementKey
}

func (k ElementPointerKind) Type() Type {
	ptr, ok := Canonical(k.Value.Type).(PointerType)
	if !ok {
		return InvalidType{}
	}
	field := navigateKeys(ptr.Pointee, k.Keys)
	if IsInvalid(field) {
		return InvalidType{}
	}
	return PointerType{Pointee: field}
}
func (ElementPointerKind) Opcode() string { return "elementPointer" }

// navigateKeys walks t through a sequence of element keys (tuple/array
// index, record field name) and returns the resulting field type, or
// InvalidType{} if any step is malformed.
func navigateKeys(t Type, keys []ElementKey) Type {
	cur := t
	for _, key := range keys {
		switch k := key.(type) {
		case IndexKey:
			switch agg := Canonical(cur).(type) {
			case TupleType:
				if k.Index < 0 || k.Index >= len(agg.Elements) {
					return InvalidType{}
				}
				cur = agg.Elements[k.Index]
			case ArrayType:
				if k.Index < 0 || k.Index >= agg.Count {
					return InvalidType{}
				}
				cur = agg.Element
			default:
				return InvalidType{}
			}
		case NameKey:
			rec, ok := Canonical(cur).(RecordTypeRef)
			if !ok {
				return InvalidType{}
			}
			field := rec.Record.Field(k.Name)
			if field == nil {
				return InvalidType{}
			}
			cur = field.Type
		case ValueKey:
			// A computed index into an array; only arrays support this.
			agg, ok := Canonical(cur).(ArrayType)
			if !ok {
				return InvalidType{}
			}
			cur = agg.Element
		default:
			return InvalidType{}
		}
	}
	return cur
}

// --- memory ops -------------------------------------------------------------

type AllocateStackKind struct {
	ElementType Type
	Count       int
}

func (k AllocateStackKind) Type() Type { return PointerType{Pointee: k.ElementType} }
func (AllocateStackKind) Opcode() string { return "allocateStack" }

type AllocateHeapKind struct {
	ElementType Type
	Count       Use
}

func (k AllocateHeapKind) Type() Type { return PointerType{Pointee: k.ElementType} }
func (AllocateHeapKind) Opcode() string { return "allocateHeap" }

type AllocateBoxKind struct{ ElementType Type }

func (k AllocateBoxKind) Type() Type   { return PointerType{Pointee: k.ElementType} }
func (AllocateBoxKind) Opcode() string { return "allocateBox" }

type ProjectBoxKind struct{ Value Use }

func (k ProjectBoxKind) Type() Type {
	ptr, ok := Canonical(k.Value.Type).(PointerType)
	if !ok {
		return InvalidType{}
	}
	return ptr
}
func (ProjectBoxKind) Opcode() string { return "projectBox" }

type RetainKind struct{ Value Use }

func (RetainKind) Type() Type     { return VoidType{} }
func (RetainKind) Opcode() string { return "retain" }

type ReleaseKind struct{ Value Use }

func (ReleaseKind) Type() Type     { return VoidType{} }
func (ReleaseKind) Opcode() string { return "release" }

type DeallocateKind struct{ Value Use }

func (DeallocateKind) Type() Type     { return VoidType{} }
func (DeallocateKind) Opcode() string { return "deallocate" }

type LoadKind struct{ Value Use }

func (k LoadKind) Type() Type {
	ptr, ok := Canonical(k.Value.Type).(PointerType)
	if !ok {
		return InvalidType{}
	}
	return ptr.Pointee
}
func (LoadKind) Opcode() string { return "load" }

type StoreKind struct {
	Value Use
	Into  Use
}

func (k StoreKind) Type() Type {
	ptr, ok := Canonical(k.Into.Type).(PointerType)
	if !ok || !Equal(ptr.Pointee, k.Value.Type) {
		return InvalidType{}
	}
	return VoidType{}
}
func (StoreKind) Opcode() string { return "store" }

type CopyKind struct {
	From, To, Count Use
}

func (k CopyKind) Type() Type {
	fromPtr, ok1 := Canonical(k.From.Type).(PointerType)
	toPtr, ok2 := Canonical(k.To.Type).(PointerType)
	if !ok1 || !ok2 || !Equal(fromPtr.Pointee, toPtr.Pointee) {
		return InvalidType{}
	}
	if _, ok := Canonical(k.Count.Type).(ScalarType); !ok {
		return InvalidType{}
	}
	return VoidType{}
}
func (CopyKind) Opcode() string { return "copy" }

// --- misc ------------------------------------------------------------------

type TrapKind struct{}

func (TrapKind) Type() Type     { return VoidType{} }
func (TrapKind) Opcode() string { return "trap" }

// ApplyKind's Result is the caller-written type-signature, assigned
// without checking it against the callee's prototype (spec.md §9 Open
// Question 1 — see DESIGN.md for the chosen resolution).
type ApplyKind struct {
	Callee Value
	Args   []Use
	Result Type
}

func (k ApplyKind) Type() Type     { return k.Result }
func (ApplyKind) Opcode() string   { return "apply" }

// --- element-wise ops --------------------------------------------------------

type BinaryOpKind struct {
	Op       config.BinaryOp
	LHS, RHS Use
}

func (k BinaryOpKind) Type() Type {
	if !Equal(k.LHS.Type, k.RHS.Type) {
		return InvalidType{}
	}
	if _, _, ok := AsTensor(k.LHS.Type); !ok {
		return InvalidType{}
	}
	return k.LHS.Type
}
// Opcode returns the instruction-kind family name; the specific
// operator is carried in Op, not the opcode string, since binaryOp's
// grammar row is `<op> <use>, <use>` with <op> as the dispatch key.
func (BinaryOpKind) Opcode() string { return "binaryOp" }

type UnaryOpKind struct {
	Op    config.UnaryOp
	Value Use
}

func (k UnaryOpKind) Type() Type {
	if _, _, ok := AsTensor(k.Value.Type); !ok {
		return InvalidType{}
	}
	return k.Value.Type
}
func (UnaryOpKind) Opcode() string { return "unaryOp" }
