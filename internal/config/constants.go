// Package config holds the fixed lexeme tables shared by the lexer and
// parser: keyword spellings, data-type names, opcode names, and the
// element-wise/associative operator vocabularies. It is pure constants,
// matching the teacher's own internal/config package (no configuration
// library is warranted here — the teacher's config is also plain Go
// constants).
package config

// Keywords maps a source lexeme to true for every reserved word in the
// grammar (token.Type values share these spellings).
var Keywords = map[string]bool{
	"module": true, "stage": true, "raw": true, "canonical": true,
	"func": true, "type": true, "struct": true, "extern": true,
	"gradient": true, "from": true, "wrt": true, "keeping": true,
	"seedable": true, "void": true, "opaque": true, "true": true,
	"false": true, "null": true, "undefined": true, "zero": true,
	"then": true, "else": true, "to": true, "by": true, "along": true,
	"at": true, "count": true, "scalar": true,
}

// DataTypeNames is the closed set of primitive scalar kinds recognized
// lexically as a DATA_TYPE token rather than an identifier.
var DataTypeNames = map[string]bool{
	"bool": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f16": true, "f32": true, "f64": true, "bf16": true,
}

// AttributeNames is the closed set of function attribute lexemes.
var AttributeNames = map[string]bool{
	"inline": true, "noinline": true, "differentiable": true,
	"external_only": true, "alwaysSpecialize": true, "entryPoint": true,
}

// BinaryOp identifies a zipWith-style element-wise binary opcode.
type BinaryOp string

const (
	OpAdd         BinaryOp = "add"
	OpSubtract    BinaryOp = "subtract"
	OpMultiply    BinaryOp = "multiply"
	OpDivide      BinaryOp = "divide"
	OpMod         BinaryOp = "mod"
	OpAnd         BinaryOp = "and"
	OpOr          BinaryOp = "or"
	OpXor         BinaryOp = "xor"
	OpMin         BinaryOp = "min"
	OpMax         BinaryOp = "max"
	OpPower       BinaryOp = "power"
	OpLessThan    BinaryOp = "lessThan"
	OpGreaterThan BinaryOp = "greaterThan"
	OpEqual       BinaryOp = "equal"
	OpNotEqual    BinaryOp = "notEqual"
)

// BinaryOps is the closed set of binaryOp(op) opcodes.
var BinaryOps = map[string]BinaryOp{
	"add": OpAdd, "subtract": OpSubtract, "multiply": OpMultiply,
	"divide": OpDivide, "mod": OpMod, "and": OpAnd, "or": OpOr,
	"xor": OpXor, "min": OpMin, "max": OpMax, "power": OpPower,
	"lessThan": OpLessThan, "greaterThan": OpGreaterThan,
	"equal": OpEqual, "notEqual": OpNotEqual,
}

// AssociativeBinaryOps is the subset of BinaryOps usable as a bare
// scan/reduce combinator op (spec.md §4.6, §9 Open Question 3).
var AssociativeBinaryOps = map[string]BinaryOp{
	"add": OpAdd, "multiply": OpMultiply, "and": OpAnd, "or": OpOr,
	"xor": OpXor, "min": OpMin, "max": OpMax,
}

// UnaryOp identifies a map-style element-wise unary opcode.
type UnaryOp string

const (
	OpNegate  UnaryOp = "negate"
	OpNot     UnaryOp = "not"
	OpExp     UnaryOp = "exp"
	OpLog     UnaryOp = "log"
	OpSqrt    UnaryOp = "sqrt"
	OpAbs     UnaryOp = "abs"
	OpSin     UnaryOp = "sin"
	OpCos     UnaryOp = "cos"
	OpTanh    UnaryOp = "tanh"
	OpSigmoid UnaryOp = "sigmoid"
	OpRelu    UnaryOp = "relu"
	OpFloor   UnaryOp = "floor"
	OpCeil    UnaryOp = "ceil"
	OpRound   UnaryOp = "round"
)

// UnaryOps is the closed set of unaryOp(op) opcodes.
var UnaryOps = map[string]UnaryOp{
	"negate": OpNegate, "not": OpNot, "exp": OpExp, "log": OpLog,
	"sqrt": OpSqrt, "abs": OpAbs, "sin": OpSin, "cos": OpCos,
	"tanh": OpTanh, "sigmoid": OpSigmoid, "relu": OpRelu,
	"floor": OpFloor, "ceil": OpCeil, "round": OpRound,
}

// Opcodes not parameterized by an operator: the first token of an
// instruction's kind production (spec.md §4.6's left column, minus
// binaryOp/unaryOp which dispatch through BinaryOps/UnaryOps above).
var PlainOpcodes = map[string]bool{
	"branch": true, "conditional": true, "return": true,
	"dataTypeCast": true, "scan": true, "reduce": true,
	"matrixMultiply": true, "concatenate": true, "transpose": true,
	"shapeCast": true, "bitCast": true, "extract": true, "insert": true,
	"apply": true, "allocateStack": true, "allocateHeap": true,
	"allocateBox": true, "projectBox": true, "retain": true,
	"release": true, "deallocate": true, "load": true, "store": true,
	"elementPointer": true, "copy": true, "trap": true,
}

// IsOpcode reports whether name is any recognized opcode lexeme
// (plain, binary, or unary).
func IsOpcode(name string) bool {
	if PlainOpcodes[name] {
		return true
	}
	if _, ok := BinaryOps[name]; ok {
		return true
	}
	if _, ok := UnaryOps[name]; ok {
		return true
	}
	return false
}

// SourceFileExt is the recognized extension for IR module source files.
const SourceFileExt = ".tir"
