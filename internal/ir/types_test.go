package ir

import "testing"

func TestEqualScalar(t *testing.T) {
	if !Equal(ScalarType{DataType: "i32"}, ScalarType{DataType: "i32"}) {
		t.Fatalf("i32 != i32")
	}
	if Equal(ScalarType{DataType: "i32"}, ScalarType{DataType: "f32"}) {
		t.Fatalf("i32 == f32")
	}
}

func TestEqualTensorShape(t *testing.T) {
	a := TensorType{Shape: Shape{2, 3}, DataType: "f32"}
	b := TensorType{Shape: Shape{2, 3}, DataType: "f32"}
	c := TensorType{Shape: Shape{3, 2}, DataType: "f32"}
	if !Equal(a, b) {
		t.Fatalf("<2x3xf32> != <2x3xf32>")
	}
	if Equal(a, c) {
		t.Fatalf("<2x3xf32> == <3x2xf32>")
	}
}

func TestEqualThroughAlias(t *testing.T) {
	alias := &TypeAlias{Name: "Int", Underlying: ScalarType{DataType: "i32"}}
	if !Equal(AliasType{Alias: alias}, ScalarType{DataType: "i32"}) {
		t.Fatalf("alias to i32 != i32")
	}
}

func TestEqualOpaqueAlias(t *testing.T) {
	a := &TypeAlias{Name: "Handle"}
	b := &TypeAlias{Name: "Handle"}
	if Equal(AliasType{Alias: a}, AliasType{Alias: b}) {
		t.Fatalf("two distinct opaque aliases compared equal")
	}
	if !Equal(AliasType{Alias: a}, AliasType{Alias: a}) {
		t.Fatalf("an opaque alias did not equal itself")
	}
}

func TestEqualFunctionType(t *testing.T) {
	f1 := FunctionType{Params: []Type{ScalarType{DataType: "i32"}}, Result: ScalarType{DataType: "i32"}}
	f2 := FunctionType{Params: []Type{ScalarType{DataType: "i32"}}, Result: ScalarType{DataType: "i32"}}
	f3 := FunctionType{Params: []Type{ScalarType{DataType: "f32"}}, Result: ScalarType{DataType: "i32"}}
	if !Equal(f1, f2) {
		t.Fatalf("identical function types compared unequal")
	}
	if Equal(f1, f3) {
		t.Fatalf("function types differing in a param compared equal")
	}
}

func TestAsTensorNormalizesScalar(t *testing.T) {
	shape, dt, ok := AsTensor(ScalarType{DataType: "i32"})
	if !ok || dt != "i32" || len(shape) != 0 {
		t.Fatalf("AsTensor(scalar) = %v %v %v, want (nil, i32, true)", shape, dt, ok)
	}
}

func TestMakeTensorCollapsesScalarShape(t *testing.T) {
	ty := MakeTensor(Shape{}, "f32")
	if _, ok := ty.(ScalarType); !ok {
		t.Fatalf("MakeTensor with empty shape = %+v, want ScalarType", ty)
	}
}

func TestNavigateKeysTupleIndex(t *testing.T) {
	tup := TupleType{Elements: []Type{ScalarType{DataType: "i32"}, ScalarType{DataType: "f32"}}}
	ek := ExtractKind{Keys: []ElementKey{IndexKey{Index: 1}}, From: Use{Type: tup}}
	if got := ek.Type(); !Equal(got, ScalarType{DataType: "f32"}) {
		t.Fatalf("extract tuple[1] = %v, want f32", got)
	}
}

func TestNavigateKeysOutOfRangeIsInvalid(t *testing.T) {
	tup := TupleType{Elements: []Type{ScalarType{DataType: "i32"}}}
	ek := ExtractKind{Keys: []ElementKey{IndexKey{Index: 5}}, From: Use{Type: tup}}
	if !IsInvalid(ek.Type()) {
		t.Fatalf("out-of-range tuple index did not produce InvalidType")
	}
}

func TestNavigateKeysRecordField(t *testing.T) {
	rec := &Record{Name: "Point", Fields: []RecordField{
		{Key: "x", Type: ScalarType{DataType: "f32"}},
		{Key: "y", Type: ScalarType{DataType: "f32"}},
	}}
	ek := ExtractKind{Keys: []ElementKey{NameKey{Name: "y"}}, From: Use{Type: RecordTypeRef{Record: rec}}}
	if got := ek.Type(); !Equal(got, ScalarType{DataType: "f32"}) {
		t.Fatalf("extract .y = %v, want f32", got)
	}
}

func TestInsertRequiresMatchingFieldType(t *testing.T) {
	tup := TupleType{Elements: []Type{ScalarType{DataType: "i32"}}}
	ik := InsertKind{
		Value: Use{Type: ScalarType{DataType: "f32"}},
		Into:  Use{Type: tup},
		Keys:  []ElementKey{IndexKey{Index: 0}},
	}
	if !IsInvalid(ik.Type()) {
		t.Fatalf("inserting f32 into an i32 slot did not produce InvalidType")
	}
}

func TestElementPointerRequiresPointer(t *testing.T) {
	epk := ElementPointerKind{Value: Use{Type: ScalarType{DataType: "i32"}}, Keys: []ElementKey{IndexKey{Index: 0}}}
	if !IsInvalid(epk.Type()) {
		t.Fatalf("elementPointer into a non-pointer did not produce InvalidType")
	}
}

func TestMatrixMultiplyShapeRules(t *testing.T) {
	lhs := Use{Type: TensorType{Shape: Shape{2, 3}, DataType: "f32"}}
	rhs := Use{Type: TensorType{Shape: Shape{3, 4}, DataType: "f32"}}
	mm := MatrixMultiplyKind{LHS: lhs, RHS: rhs}
	got := mm.Type()
	want := TensorType{Shape: Shape{2, 4}, DataType: "f32"}
	if !Equal(got, want) {
		t.Fatalf("matrixMultiply(<2x3xf32>, <3x4xf32>) = %v, want %v", got, want)
	}
}

func TestMatrixMultiplyRejectsIncompatibleShapes(t *testing.T) {
	lhs := Use{Type: TensorType{Shape: Shape{2, 3}, DataType: "f32"}}
	rhs := Use{Type: TensorType{Shape: Shape{2, 3}, DataType: "f32"}}
	mm := MatrixMultiplyKind{LHS: lhs, RHS: rhs}
	if !IsInvalid(mm.Type()) {
		t.Fatalf("matrixMultiply with incompatible inner dims did not produce InvalidType")
	}
}

func TestReduceRemovesReducedAxis(t *testing.T) {
	rk := ReduceKind{
		Value:      Use{Type: TensorType{Shape: Shape{2, 3, 4}, DataType: "f32"}},
		Combinator: OpCombinator{Op: "add"},
		Along:      []int{1},
	}
	got := rk.Type()
	want := TensorType{Shape: Shape{2, 4}, DataType: "f32"}
	if !Equal(got, want) {
		t.Fatalf("reduce along [1] of <2x3x4xf32> = %v, want %v", got, want)
	}
}

func TestScanPreservesShape(t *testing.T) {
	sk := ScanKind{
		Value:      Use{Type: TensorType{Shape: Shape{2, 3}, DataType: "f32"}},
		Combinator: OpCombinator{Op: "add"},
		Along:      []int{0},
	}
	got := sk.Type()
	want := TensorType{Shape: Shape{2, 3}, DataType: "f32"}
	if !Equal(got, want) {
		t.Fatalf("scan along [0] of <2x3xf32> = %v, want %v (shape preserved)", got, want)
	}
}

func TestTransposeReversesShape(t *testing.T) {
	tk := TransposeKind{Value: Use{Type: TensorType{Shape: Shape{2, 3, 4}, DataType: "f32"}}}
	got := tk.Type()
	want := TensorType{Shape: Shape{4, 3, 2}, DataType: "f32"}
	if !Equal(got, want) {
		t.Fatalf("transpose(<2x3x4xf32>) = %v, want %v", got, want)
	}
}
