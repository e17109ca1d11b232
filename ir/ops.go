package ir

// OpKind tags the variant carried by an Op. The enumeration is closed and
// deliberately narrow: it covers exactly what a guest basic block can
// lower to, not the whole Wasm instruction set.
type OpKind int

const (
	OpUnreachable OpKind = iota // traps immediately (unknown-opcode / malformed instruction)
	OpReturn                    // returns the i32 on top of the stack
	OpCall                      // call a known function index (inline-cache probe support)

	OpLocalGet
	OpLocalSet
	OpLocalTee

	OpI32Const
	OpI64Const
	OpF32Const
	OpF64Const

	// Typed loads/stores; MemArg.Offset is added to the i32 address on
	// the stack, MemArg.Align records the natural alignment exponent
	// (0=byte,1=half,2=word,3=double) purely for the assembler's
	// alignment hint -- it never changes semantics.
	OpI32Load8S
	OpI32Load8U
	OpI32Load16S
	OpI32Load16U
	OpI32Load
	OpI64Load8S
	OpI64Load8U
	OpI64Load16S
	OpI64Load16U
	OpI64Load32S
	OpI64Load32U
	OpI64Load
	OpF32Load
	OpF64Load
	OpI32Store8
	OpI32Store16
	OpI32Store
	OpI64Store8
	OpI64Store16
	OpI64Store32
	OpI64Store
	OpF32Store
	OpF64Store

	// Integer arithmetic / bitwise (i32.* and i64.* share a kind, the
	// ValType field in Op disambiguates the width).
	OpAdd
	OpSub
	OpMul
	OpDivS
	OpDivU
	OpRemS
	OpRemU
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShrS
	OpShrU

	// Integer comparisons, result is i32.
	OpEq
	OpNe
	OpLtS
	OpLtU
	OpLeS
	OpLeU
	OpGtS
	OpGtU
	OpGeS
	OpGeU
	OpEqz

	// Float arithmetic (ValType selects f32/f64).
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFSqrt
	OpFMin
	OpFMax
	OpFAbs
	OpFNeg
	OpFCopysign

	// Float comparisons, result is i32.
	OpFEq
	OpFNe
	OpFLt
	OpFLe
	OpFGt
	OpFGe

	// Conversions / reinterpretations.
	OpI32WrapI64
	OpI64ExtendI32S
	OpI64ExtendI32U
	OpI32Extend8S
	OpI32Extend16S
	OpI64Extend8S
	OpI64Extend16S
	OpI64Extend32S
	OpI32TruncF32S
	OpI32TruncF32U
	OpI32TruncF64S
	OpI32TruncF64U
	OpI64TruncF32S
	OpI64TruncF32U
	OpI64TruncF64S
	OpI64TruncF64U
	OpF32ConvertI32S
	OpF32ConvertI32U
	OpF32ConvertI64S
	OpF32ConvertI64U
	OpF64ConvertI32S
	OpF64ConvertI32U
	OpF64ConvertI64S
	OpF64ConvertI64U
	OpF32DemoteF64
	OpF64PromoteF32
	OpI32ReinterpretF32
	OpF32ReinterpretI32
	OpI64ReinterpretF64
	OpF64ReinterpretI64

	OpSelect
	OpDrop
)

// MemArg carries a memory operation's byte offset and alignment hint.
type MemArg struct {
	Offset uint32
	Align  uint32
}

// Op is a single lowered operation. Only the fields relevant to Kind are
// populated; the rest are zero.
type Op struct {
	Kind OpKind
	Type ValType // operand/result width for arithmetic, compare, and convert ops

	Local  uint32 // OpLocalGet/Set/Tee
	I32    int32  // OpI32Const
	I64    int64  // OpI64Const
	F32    float32
	F64    float64
	Mem    MemArg
	Callee uint32 // OpCall: function index
	Note   string // OpUnreachable: diagnostic comment, never semantic
}
