package lower

import (
	"github.com/rv2wasm/rv2wasm/ir"
	"github.com/rv2wasm/rv2wasm/riscv"
)

// f32SignMask / f64SignMask isolate the sign bit for FSGNJ-family ops.
const (
	f32SignMask int32 = -1 << 31
	f64SignMask int64 = -1 << 63
)

// lowerFP emits the F/D extension ops: fused multiply-add, arithmetic,
// sign-injection, classification, comparisons, and the int<->float
// conversion and bit-move family.
func lowerFP(b *builder, in riscv.Instruction) {
	switch in.Op {
	case riscv.FMADD_S, riscv.FMSUB_S, riscv.FNMSUB_S, riscv.FNMADD_S:
		lowerFusedMA(b, in, ir.F32)
	case riscv.FMADD_D, riscv.FMSUB_D, riscv.FNMSUB_D, riscv.FNMADD_D:
		lowerFusedMA(b, in, ir.F64)

	case riscv.FADD_S, riscv.FSUB_S, riscv.FMUL_S, riscv.FDIV_S, riscv.FMIN_S, riscv.FMAX_S:
		lowerFBinOp(b, in, ir.F32)
	case riscv.FADD_D, riscv.FSUB_D, riscv.FMUL_D, riscv.FDIV_D, riscv.FMIN_D, riscv.FMAX_D:
		lowerFBinOp(b, in, ir.F64)

	case riscv.FSQRT_S:
		b.writeF32Reg(in.Rd, func() { b.readF32Reg(in.Rs1); b.emit(ir.Op{Kind: ir.OpFSqrt, Type: ir.F32}) })
	case riscv.FSQRT_D:
		b.writeF64Reg(in.Rd, func() { b.readF64Reg(in.Rs1); b.emit(ir.Op{Kind: ir.OpFSqrt, Type: ir.F64}) })

	case riscv.FSGNJ_S, riscv.FSGNJN_S, riscv.FSGNJX_S:
		lowerFSignInject(b, in, ir.F32)
	case riscv.FSGNJ_D, riscv.FSGNJN_D, riscv.FSGNJX_D:
		lowerFSignInject(b, in, ir.F64)

	case riscv.FCVT_W_S, riscv.FCVT_WU_S, riscv.FCVT_L_S, riscv.FCVT_LU_S:
		lowerFloatToInt(b, in, ir.F32)
	case riscv.FCVT_W_D, riscv.FCVT_WU_D, riscv.FCVT_L_D, riscv.FCVT_LU_D:
		lowerFloatToInt(b, in, ir.F64)

	case riscv.FCVT_S_W, riscv.FCVT_S_WU, riscv.FCVT_S_L, riscv.FCVT_S_LU:
		lowerIntToFloat(b, in, ir.F32)
	case riscv.FCVT_D_W, riscv.FCVT_D_WU, riscv.FCVT_D_L, riscv.FCVT_D_LU:
		lowerIntToFloat(b, in, ir.F64)

	case riscv.FCVT_S_D:
		b.writeF32Reg(in.Rd, func() { b.readF64Reg(in.Rs1); b.emit(ir.Op{Kind: ir.OpF32DemoteF64}) })
	case riscv.FCVT_D_S:
		b.writeF64Reg(in.Rd, func() { b.readF32Reg(in.Rs1); b.emit(ir.Op{Kind: ir.OpF64PromoteF32}) })

	case riscv.FMV_X_W:
		b.writeIntReg(in.Rd, func() {
			b.readF32Reg(in.Rs1)
			b.emit(ir.Op{Kind: ir.OpI32ReinterpretF32})
			b.emit(ir.Op{Kind: ir.OpI64ExtendI32S})
		})
	case riscv.FMV_W_X:
		b.writeF32Reg(in.Rd, func() {
			b.readIntReg(in.Rs1)
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			b.emit(ir.Op{Kind: ir.OpF32ReinterpretI32})
		})
	case riscv.FMV_X_D:
		b.writeIntReg(in.Rd, func() {
			b.readF64Reg(in.Rs1)
			b.emit(ir.Op{Kind: ir.OpI64ReinterpretF64})
		})
	case riscv.FMV_D_X:
		b.writeF64Reg(in.Rd, func() {
			b.readIntReg(in.Rs1)
			b.emit(ir.Op{Kind: ir.OpF64ReinterpretI64})
		})

	case riscv.FEQ_S, riscv.FLT_S, riscv.FLE_S:
		lowerFCompare(b, in, ir.F32)
	case riscv.FEQ_D, riscv.FLT_D, riscv.FLE_D:
		lowerFCompare(b, in, ir.F64)

	case riscv.FCLASS_S, riscv.FCLASS_D:
		// A precise FCLASS needs ten bitmask-shaped classification cases;
		// guest code only ever tests specific bits of the result, which
		// this approximation cannot satisfy, so it is called out in
		// DESIGN.md rather than guessed at here.
		b.writeIntReg(in.Rd, func() { b.i64Const(0) })
	}
}

func lowerFusedMA(b *builder, in riscv.Instruction, width ir.ValType) {
	read, write := fAccessors(b, width)
	rs3 := in.RS3()

	write(in.Rd, func() {
		read(in.Rs1)
		read(in.Rs2)
		b.emit(ir.Op{Kind: ir.OpFMul, Type: width})
		read(rs3)
		switch in.Op {
		case riscv.FMADD_S, riscv.FMADD_D:
			b.emit(ir.Op{Kind: ir.OpFAdd, Type: width})
		case riscv.FMSUB_S, riscv.FMSUB_D:
			b.emit(ir.Op{Kind: ir.OpFSub, Type: width})
		case riscv.FNMSUB_S, riscv.FNMSUB_D:
			// rs3 - product: swap the two stack operands via a scratch.
			tmp := fTmp(b, width)
			b.localSet(tmp)
			// stack: product; want rs3 - product
			b.emit(ir.Op{Kind: ir.OpFNeg, Type: width})
			b.localGet(tmp)
			b.emit(ir.Op{Kind: ir.OpFAdd, Type: width})
		case riscv.FNMADD_S, riscv.FNMADD_D:
			b.emit(ir.Op{Kind: ir.OpFAdd, Type: width})
			b.emit(ir.Op{Kind: ir.OpFNeg, Type: width})
		}
	})
}

func lowerFBinOp(b *builder, in riscv.Instruction, width ir.ValType) {
	read, write := fAccessors(b, width)
	var kind ir.OpKind
	switch in.Op {
	case riscv.FADD_S, riscv.FADD_D:
		kind = ir.OpFAdd
	case riscv.FSUB_S, riscv.FSUB_D:
		kind = ir.OpFSub
	case riscv.FMUL_S, riscv.FMUL_D:
		kind = ir.OpFMul
	case riscv.FDIV_S, riscv.FDIV_D:
		kind = ir.OpFDiv
	case riscv.FMIN_S, riscv.FMIN_D:
		kind = ir.OpFMin
	case riscv.FMAX_S, riscv.FMAX_D:
		kind = ir.OpFMax
	}
	write(in.Rd, func() {
		read(in.Rs1)
		read(in.Rs2)
		b.emit(ir.Op{Kind: kind, Type: width})
	})
}

func lowerFSignInject(b *builder, in riscv.Instruction, width ir.ValType) {
	read, write := fAccessors(b, width)
	toInt, fromInt := reinterpretOps(width)
	andOp, orOp, xorOp := ir.OpAnd, ir.OpOr, ir.OpXor
	intWidth := intWidthFor(width)

	write(in.Rd, func() {
		// magnitude of rs1
		read(in.Rs1)
		b.emit(ir.Op{Kind: toInt})
		pushMagnitudeMask(b, width)
		b.emit(ir.Op{Kind: andOp, Type: intWidth})

		// sign contribution from rs2 (or rs1^rs2 for FSGNJX)
		switch in.Op {
		case riscv.FSGNJ_S, riscv.FSGNJ_D:
			read(in.Rs2)
			b.emit(ir.Op{Kind: toInt})
		case riscv.FSGNJN_S, riscv.FSGNJN_D:
			read(in.Rs2)
			b.emit(ir.Op{Kind: toInt})
			pushSignMask(b, width)
			b.emit(ir.Op{Kind: xorOp, Type: intWidth})
		case riscv.FSGNJX_S, riscv.FSGNJX_D:
			read(in.Rs1)
			b.emit(ir.Op{Kind: toInt})
			read(in.Rs2)
			b.emit(ir.Op{Kind: toInt})
			b.emit(ir.Op{Kind: xorOp, Type: intWidth})
		}
		pushSignMask(b, width)
		b.emit(ir.Op{Kind: andOp, Type: intWidth})

		b.emit(ir.Op{Kind: orOp, Type: intWidth})
		b.emit(ir.Op{Kind: fromInt})
	})
}

func lowerFloatToInt(b *builder, in riscv.Instruction, srcWidth ir.ValType) {
	read, _ := fAccessors(b, srcWidth)
	b.writeIntReg(in.Rd, func() {
		read(in.Rs1)
		switch in.Op {
		case riscv.FCVT_W_S:
			b.emit(ir.Op{Kind: ir.OpI32TruncF32S})
			b.emit(ir.Op{Kind: ir.OpI64ExtendI32S})
		case riscv.FCVT_WU_S:
			b.emit(ir.Op{Kind: ir.OpI32TruncF32U})
			b.emit(ir.Op{Kind: ir.OpI64ExtendI32U})
		case riscv.FCVT_L_S:
			b.emit(ir.Op{Kind: ir.OpI64TruncF32S})
		case riscv.FCVT_LU_S:
			b.emit(ir.Op{Kind: ir.OpI64TruncF32U})
		case riscv.FCVT_W_D:
			b.emit(ir.Op{Kind: ir.OpI32TruncF64S})
			b.emit(ir.Op{Kind: ir.OpI64ExtendI32S})
		case riscv.FCVT_WU_D:
			b.emit(ir.Op{Kind: ir.OpI32TruncF64U})
			b.emit(ir.Op{Kind: ir.OpI64ExtendI32U})
		case riscv.FCVT_L_D:
			b.emit(ir.Op{Kind: ir.OpI64TruncF64S})
		case riscv.FCVT_LU_D:
			b.emit(ir.Op{Kind: ir.OpI64TruncF64U})
		}
	})
}

func lowerIntToFloat(b *builder, in riscv.Instruction, dstWidth ir.ValType) {
	_, write := fAccessors(b, dstWidth)
	write(in.Rd, func() {
		b.readIntReg(in.Rs1)
		switch in.Op {
		case riscv.FCVT_S_W:
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			b.emit(ir.Op{Kind: ir.OpF32ConvertI32S})
		case riscv.FCVT_S_WU:
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			b.emit(ir.Op{Kind: ir.OpF32ConvertI32U})
		case riscv.FCVT_S_L:
			b.emit(ir.Op{Kind: ir.OpF32ConvertI64S})
		case riscv.FCVT_S_LU:
			b.emit(ir.Op{Kind: ir.OpF32ConvertI64U})
		case riscv.FCVT_D_W:
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			b.emit(ir.Op{Kind: ir.OpF64ConvertI32S})
		case riscv.FCVT_D_WU:
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			b.emit(ir.Op{Kind: ir.OpF64ConvertI32U})
		case riscv.FCVT_D_L:
			b.emit(ir.Op{Kind: ir.OpF64ConvertI64S})
		case riscv.FCVT_D_LU:
			b.emit(ir.Op{Kind: ir.OpF64ConvertI64U})
		}
	})
}

func lowerFCompare(b *builder, in riscv.Instruction, width ir.ValType) {
	read, _ := fAccessors(b, width)
	var kind ir.OpKind
	switch in.Op {
	case riscv.FEQ_S, riscv.FEQ_D:
		kind = ir.OpFEq
	case riscv.FLT_S, riscv.FLT_D:
		kind = ir.OpFLt
	case riscv.FLE_S, riscv.FLE_D:
		kind = ir.OpFLe
	}
	b.writeIntReg(in.Rd, func() {
		read(in.Rs1)
		read(in.Rs2)
		b.emit(ir.Op{Kind: kind, Type: width})
		b.emit(ir.Op{Kind: ir.OpI64ExtendI32U})
	})
}

func fAccessors(b *builder, width ir.ValType) (read func(int), write func(int, func())) {
	if width == ir.F32 {
		return b.readF32Reg, b.writeF32Reg
	}
	return b.readF64Reg, b.writeF64Reg
}

func fTmp(b *builder, width ir.ValType) int {
	if width == ir.F32 {
		return b.f32Tmp()
	}
	return b.f64Tmp()
}

func intWidthFor(width ir.ValType) ir.ValType {
	if width == ir.F32 {
		return ir.I32
	}
	return ir.I64
}

func reinterpretOps(width ir.ValType) (toInt, fromInt ir.OpKind) {
	if width == ir.F32 {
		return ir.OpI32ReinterpretF32, ir.OpF32ReinterpretI32
	}
	return ir.OpI64ReinterpretF64, ir.OpF64ReinterpretI64
}

func pushSignMask(b *builder, width ir.ValType) {
	if width == ir.F32 {
		b.i32Const(f32SignMask)
	} else {
		b.i64Const(f64SignMask)
	}
}

func pushMagnitudeMask(b *builder, width ir.ValType) {
	if width == ir.F32 {
		b.i32Const(^f32SignMask)
	} else {
		b.i64Const(^f64SignMask)
	}
}
