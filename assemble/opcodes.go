package assemble

import "github.com/rv2wasm/rv2wasm/ir"

// Wasm binary opcodes, restricted to the subset the lowerer ever emits.
const (
	wasmUnreachable byte = 0x00
	wasmBlock       byte = 0x02
	wasmLoop        byte = 0x03
	wasmIf          byte = 0x04
	wasmElse        byte = 0x05
	wasmEnd         byte = 0x0B
	wasmBr          byte = 0x0C
	wasmBrIf        byte = 0x0D
	wasmBrTable     byte = 0x0E
	wasmReturn      byte = 0x0F
	wasmCall        byte = 0x10

	wasmDrop   byte = 0x1A
	wasmSelect byte = 0x1B

	wasmLocalGet  byte = 0x20
	wasmLocalSet  byte = 0x21
	wasmLocalTee  byte = 0x22

	wasmI32Load    byte = 0x28
	wasmI64Load    byte = 0x29
	wasmF32Load    byte = 0x2A
	wasmF64Load    byte = 0x2B
	wasmI32Load8S  byte = 0x2C
	wasmI32Load8U  byte = 0x2D
	wasmI32Load16S byte = 0x2E
	wasmI32Load16U byte = 0x2F
	wasmI64Load8S  byte = 0x30
	wasmI64Load8U  byte = 0x31
	wasmI64Load16S byte = 0x32
	wasmI64Load16U byte = 0x33
	wasmI64Load32S byte = 0x34
	wasmI64Load32U byte = 0x35
	wasmI32Store   byte = 0x36
	wasmI64Store   byte = 0x37
	wasmF32Store   byte = 0x38
	wasmF64Store   byte = 0x39
	wasmI32Store8  byte = 0x3A
	wasmI32Store16 byte = 0x3B
	wasmI64Store8  byte = 0x3C
	wasmI64Store16 byte = 0x3D
	wasmI64Store32 byte = 0x3E

	wasmI32Const byte = 0x41
	wasmI64Const byte = 0x42
	wasmF32Const byte = 0x43
	wasmF64Const byte = 0x44

	wasmI32Eqz byte = 0x45
	wasmI32Eq  byte = 0x46
	wasmI32Ne  byte = 0x47
	wasmI32LtS byte = 0x48
	wasmI32LtU byte = 0x49
	wasmI32GtS byte = 0x4A
	wasmI32GtU byte = 0x4B
	wasmI32LeS byte = 0x4C
	wasmI32LeU byte = 0x4D
	wasmI32GeS byte = 0x4E
	wasmI32GeU byte = 0x4F

	wasmI64Eqz byte = 0x50
	wasmI64Eq  byte = 0x51
	wasmI64Ne  byte = 0x52
	wasmI64LtS byte = 0x53
	wasmI64LtU byte = 0x54
	wasmI64GtS byte = 0x55
	wasmI64GtU byte = 0x56
	wasmI64LeS byte = 0x57
	wasmI64LeU byte = 0x58
	wasmI64GeS byte = 0x59
	wasmI64GeU byte = 0x5A

	wasmF32Eq byte = 0x5B
	wasmF32Ne byte = 0x5C
	wasmF32Lt byte = 0x5D
	wasmF32Gt byte = 0x5E
	wasmF32Le byte = 0x5F
	wasmF32Ge byte = 0x60

	wasmF64Eq byte = 0x61
	wasmF64Ne byte = 0x62
	wasmF64Lt byte = 0x63
	wasmF64Gt byte = 0x64
	wasmF64Le byte = 0x65
	wasmF64Ge byte = 0x66

	wasmI32Add  byte = 0x6A
	wasmI32Sub  byte = 0x6B
	wasmI32Mul  byte = 0x6C
	wasmI32DivS byte = 0x6D
	wasmI32DivU byte = 0x6E
	wasmI32RemS byte = 0x6F
	wasmI32RemU byte = 0x70
	wasmI32And  byte = 0x71
	wasmI32Or   byte = 0x72
	wasmI32Xor  byte = 0x73
	wasmI32Shl  byte = 0x74
	wasmI32ShrS byte = 0x75
	wasmI32ShrU byte = 0x76

	wasmI64Add  byte = 0x7C
	wasmI64Sub  byte = 0x7D
	wasmI64Mul  byte = 0x7E
	wasmI64DivS byte = 0x7F
	wasmI64DivU byte = 0x80
	wasmI64RemS byte = 0x81
	wasmI64RemU byte = 0x82
	wasmI64And  byte = 0x83
	wasmI64Or   byte = 0x84
	wasmI64Xor  byte = 0x85
	wasmI64Shl  byte = 0x86
	wasmI64ShrS byte = 0x87
	wasmI64ShrU byte = 0x88

	wasmF32Abs      byte = 0x8B
	wasmF32Neg      byte = 0x8C
	wasmF32Sqrt     byte = 0x91
	wasmF32Add      byte = 0x92
	wasmF32Sub      byte = 0x93
	wasmF32Mul      byte = 0x94
	wasmF32Div      byte = 0x95
	wasmF32Min      byte = 0x96
	wasmF32Max      byte = 0x97
	wasmF32Copysign byte = 0x98

	wasmF64Abs      byte = 0x99
	wasmF64Neg      byte = 0x9A
	wasmF64Sqrt     byte = 0x9F
	wasmF64Add      byte = 0xA0
	wasmF64Sub      byte = 0xA1
	wasmF64Mul      byte = 0xA2
	wasmF64Div      byte = 0xA3
	wasmF64Min      byte = 0xA4
	wasmF64Max      byte = 0xA5
	wasmF64Copysign byte = 0xA6

	wasmI32WrapI64        byte = 0xA7
	wasmI32TruncF32S      byte = 0xA8
	wasmI32TruncF32U      byte = 0xA9
	wasmI32TruncF64S      byte = 0xAA
	wasmI32TruncF64U      byte = 0xAB
	wasmI64ExtendI32S     byte = 0xAC
	wasmI64ExtendI32U     byte = 0xAD
	wasmI64TruncF32S      byte = 0xAE
	wasmI64TruncF32U      byte = 0xAF
	wasmI64TruncF64S      byte = 0xB0
	wasmI64TruncF64U      byte = 0xB1
	wasmF32ConvertI32S    byte = 0xB2
	wasmF32ConvertI32U    byte = 0xB3
	wasmF32ConvertI64S    byte = 0xB4
	wasmF32ConvertI64U    byte = 0xB5
	wasmF32DemoteF64      byte = 0xB6
	wasmF64ConvertI32S    byte = 0xB7
	wasmF64ConvertI32U    byte = 0xB8
	wasmF64ConvertI64S    byte = 0xB9
	wasmF64ConvertI64U    byte = 0xBA
	wasmF64PromoteF32     byte = 0xBB
	wasmI32ReinterpretF32 byte = 0xBC
	wasmI64ReinterpretF64 byte = 0xBD
	wasmF32ReinterpretI32 byte = 0xBE
	wasmF64ReinterpretI64 byte = 0xBF

	wasmI32Extend8S  byte = 0xC0
	wasmI32Extend16S byte = 0xC1
	wasmI64Extend8S  byte = 0xC2
	wasmI64Extend16S byte = 0xC3
	wasmI64Extend32S byte = 0xC4
)

// widthPair looks up the (i32-form, i64-form) byte pair for an op kind
// that exists at both integer widths.
func widthPair(kind ir.OpKind) (i32, i64 byte, ok bool) {
	switch kind {
	case ir.OpAdd:
		return wasmI32Add, wasmI64Add, true
	case ir.OpSub:
		return wasmI32Sub, wasmI64Sub, true
	case ir.OpMul:
		return wasmI32Mul, wasmI64Mul, true
	case ir.OpDivS:
		return wasmI32DivS, wasmI64DivS, true
	case ir.OpDivU:
		return wasmI32DivU, wasmI64DivU, true
	case ir.OpRemS:
		return wasmI32RemS, wasmI64RemS, true
	case ir.OpRemU:
		return wasmI32RemU, wasmI64RemU, true
	case ir.OpAnd:
		return wasmI32And, wasmI64And, true
	case ir.OpOr:
		return wasmI32Or, wasmI64Or, true
	case ir.OpXor:
		return wasmI32Xor, wasmI64Xor, true
	case ir.OpShl:
		return wasmI32Shl, wasmI64Shl, true
	case ir.OpShrS:
		return wasmI32ShrS, wasmI64ShrS, true
	case ir.OpShrU:
		return wasmI32ShrU, wasmI64ShrU, true
	case ir.OpEq:
		return wasmI32Eq, wasmI64Eq, true
	case ir.OpNe:
		return wasmI32Ne, wasmI64Ne, true
	case ir.OpLtS:
		return wasmI32LtS, wasmI64LtS, true
	case ir.OpLtU:
		return wasmI32LtU, wasmI64LtU, true
	case ir.OpLeS:
		return wasmI32LeS, wasmI64LeS, true
	case ir.OpLeU:
		return wasmI32LeU, wasmI64LeU, true
	case ir.OpGtS:
		return wasmI32GtS, wasmI64GtS, true
	case ir.OpGtU:
		return wasmI32GtU, wasmI64GtU, true
	case ir.OpGeS:
		return wasmI32GeS, wasmI64GeS, true
	case ir.OpGeU:
		return wasmI32GeU, wasmI64GeU, true
	case ir.OpEqz:
		return wasmI32Eqz, wasmI64Eqz, true
	}
	return 0, 0, false
}

// fWidthPair is the f32/f64 analogue of widthPair.
func fWidthPair(kind ir.OpKind) (f32, f64 byte, ok bool) {
	switch kind {
	case ir.OpFAdd:
		return wasmF32Add, wasmF64Add, true
	case ir.OpFSub:
		return wasmF32Sub, wasmF64Sub, true
	case ir.OpFMul:
		return wasmF32Mul, wasmF64Mul, true
	case ir.OpFDiv:
		return wasmF32Div, wasmF64Div, true
	case ir.OpFSqrt:
		return wasmF32Sqrt, wasmF64Sqrt, true
	case ir.OpFMin:
		return wasmF32Min, wasmF64Min, true
	case ir.OpFMax:
		return wasmF32Max, wasmF64Max, true
	case ir.OpFAbs:
		return wasmF32Abs, wasmF64Abs, true
	case ir.OpFNeg:
		return wasmF32Neg, wasmF64Neg, true
	case ir.OpFCopysign:
		return wasmF32Copysign, wasmF64Copysign, true
	case ir.OpFEq:
		return wasmF32Eq, wasmF64Eq, true
	case ir.OpFNe:
		return wasmF32Ne, wasmF64Ne, true
	case ir.OpFLt:
		return wasmF32Lt, wasmF64Lt, true
	case ir.OpFLe:
		return wasmF32Le, wasmF64Le, true
	case ir.OpFGt:
		return wasmF32Gt, wasmF64Gt, true
	case ir.OpFGe:
		return wasmF32Ge, wasmF64Ge, true
	}
	return 0, 0, false
}

var loadOpcode = map[ir.OpKind]byte{
	ir.OpI32Load8S:  wasmI32Load8S,
	ir.OpI32Load8U:  wasmI32Load8U,
	ir.OpI32Load16S: wasmI32Load16S,
	ir.OpI32Load16U: wasmI32Load16U,
	ir.OpI32Load:    wasmI32Load,
	ir.OpI64Load8S:  wasmI64Load8S,
	ir.OpI64Load8U:  wasmI64Load8U,
	ir.OpI64Load16S: wasmI64Load16S,
	ir.OpI64Load16U: wasmI64Load16U,
	ir.OpI64Load32S: wasmI64Load32S,
	ir.OpI64Load32U: wasmI64Load32U,
	ir.OpI64Load:    wasmI64Load,
	ir.OpF32Load:    wasmF32Load,
	ir.OpF64Load:    wasmF64Load,
}

var storeOpcode = map[ir.OpKind]byte{
	ir.OpI32Store8:  wasmI32Store8,
	ir.OpI32Store16: wasmI32Store16,
	ir.OpI32Store:   wasmI32Store,
	ir.OpI64Store8:  wasmI64Store8,
	ir.OpI64Store16: wasmI64Store16,
	ir.OpI64Store32: wasmI64Store32,
	ir.OpI64Store:   wasmI64Store,
	ir.OpF32Store:   wasmF32Store,
	ir.OpF64Store:   wasmF64Store,
}

var convertOpcode = map[ir.OpKind]byte{
	ir.OpI32WrapI64:        wasmI32WrapI64,
	ir.OpI64ExtendI32S:     wasmI64ExtendI32S,
	ir.OpI64ExtendI32U:     wasmI64ExtendI32U,
	ir.OpI32Extend8S:       wasmI32Extend8S,
	ir.OpI32Extend16S:      wasmI32Extend16S,
	ir.OpI64Extend8S:       wasmI64Extend8S,
	ir.OpI64Extend16S:      wasmI64Extend16S,
	ir.OpI64Extend32S:      wasmI64Extend32S,
	ir.OpI32TruncF32S:      wasmI32TruncF32S,
	ir.OpI32TruncF32U:      wasmI32TruncF32U,
	ir.OpI32TruncF64S:      wasmI32TruncF64S,
	ir.OpI32TruncF64U:      wasmI32TruncF64U,
	ir.OpI64TruncF32S:      wasmI64TruncF32S,
	ir.OpI64TruncF32U:      wasmI64TruncF32U,
	ir.OpI64TruncF64S:      wasmI64TruncF64S,
	ir.OpI64TruncF64U:      wasmI64TruncF64U,
	ir.OpF32ConvertI32S:    wasmF32ConvertI32S,
	ir.OpF32ConvertI32U:    wasmF32ConvertI32U,
	ir.OpF32ConvertI64S:    wasmF32ConvertI64S,
	ir.OpF32ConvertI64U:    wasmF32ConvertI64U,
	ir.OpF64ConvertI32S:    wasmF64ConvertI32S,
	ir.OpF64ConvertI32U:    wasmF64ConvertI32U,
	ir.OpF64ConvertI64S:    wasmF64ConvertI64S,
	ir.OpF64ConvertI64U:    wasmF64ConvertI64U,
	ir.OpF32DemoteF64:      wasmF32DemoteF64,
	ir.OpF64PromoteF32:     wasmF64PromoteF32,
	ir.OpI32ReinterpretF32: wasmI32ReinterpretF32,
	ir.OpF32ReinterpretI32: wasmF32ReinterpretI32,
	ir.OpI64ReinterpretF64: wasmI64ReinterpretF64,
	ir.OpF64ReinterpretI64: wasmF64ReinterpretI64,
}
