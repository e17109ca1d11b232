package lower

import (
	"fmt"

	"github.com/rv2wasm/rv2wasm/ir"
	"github.com/rv2wasm/rv2wasm/riscv"
)

// lowerBody emits one instruction's side effects. It never emits a
// control-flow return; terminator handling is done separately by
// lowerTerminator once the block's last instruction is reached.
func lowerBody(b *builder, in riscv.Instruction) {
	switch {
	case isIntRegReg(in.Op):
		lowerIntRegReg(b, in)
	case isIntRegImm(in.Op):
		lowerIntRegImm(b, in)
	case isLoad(in.Op):
		lowerLoad(b, in)
	case isStore(in.Op):
		lowerStore(b, in)
	case in.Op == riscv.LUI:
		b.writeIntReg(in.Rd, func() { b.i64Const(in.Imm) })
	case in.Op == riscv.AUIPC:
		target := int64(in.Addr) + in.Imm
		b.writeIntReg(in.Rd, func() { b.i64Const(target) })
	case isAMO(in.Op):
		lowerAMO(b, in)
	case isFPOp(in.Op):
		lowerFP(b, in)
	case in.Op == riscv.FENCE:
		// no-op: single-threaded guest execution has no memory ordering to enforce.
	case in.Op == riscv.C_NOP:
		// no architectural effect.
	case in.Op.IsTerminator():
		// handled by lowerTerminator; nothing to do mid-body.
	default:
		b.emit(ir.Op{Kind: ir.OpUnreachable, Note: fmt.Sprintf("unknown opcode at body position (op=%d)", in.Op)})
	}
}

func isIntRegReg(op riscv.Opcode) bool {
	switch op {
	case riscv.ADD, riscv.SUB, riscv.SLL, riscv.SLT, riscv.SLTU, riscv.XOR,
		riscv.SRL, riscv.SRA, riscv.OR, riscv.AND,
		riscv.ADDW, riscv.SUBW, riscv.SLLW, riscv.SRLW, riscv.SRAW,
		riscv.MUL, riscv.MULH, riscv.MULHSU, riscv.MULHU,
		riscv.DIV, riscv.DIVU, riscv.REM, riscv.REMU,
		riscv.MULW, riscv.DIVW, riscv.DIVUW, riscv.REMW, riscv.REMUW,
		riscv.C_ADD, riscv.C_MV, riscv.C_SUB, riscv.C_XOR, riscv.C_OR, riscv.C_AND,
		riscv.C_SUBW, riscv.C_ADDW:
		return true
	}
	return false
}

func isIntRegImm(op riscv.Opcode) bool {
	switch op {
	case riscv.ADDI, riscv.SLTI, riscv.SLTIU, riscv.XORI, riscv.ORI, riscv.ANDI,
		riscv.SLLI, riscv.SRLI, riscv.SRAI,
		riscv.ADDIW, riscv.SLLIW, riscv.SRLIW, riscv.SRAIW,
		riscv.C_ADDI, riscv.C_ADDIW, riscv.C_ANDI, riscv.C_SRLI, riscv.C_SRAI,
		riscv.C_LI, riscv.C_ADDI4SPN, riscv.C_ADDI16SP, riscv.C_LUI, riscv.C_SLLI:
		return true
	}
	return false
}

func isLoad(op riscv.Opcode) bool {
	switch op {
	case riscv.LB, riscv.LH, riscv.LW, riscv.LBU, riscv.LHU, riscv.LWU, riscv.LD,
		riscv.C_LW, riscv.C_LD, riscv.C_LWSP, riscv.C_LDSP, riscv.FLW, riscv.FLD:
		return true
	}
	return false
}

func isStore(op riscv.Opcode) bool {
	switch op {
	case riscv.SB, riscv.SH, riscv.SW, riscv.SD,
		riscv.C_SW, riscv.C_SD, riscv.C_SWSP, riscv.C_SDSP, riscv.FSW, riscv.FSD:
		return true
	}
	return false
}

func isAMO(op riscv.Opcode) bool {
	switch op {
	case riscv.LR_W, riscv.SC_W, riscv.AMOSWAP_W, riscv.AMOADD_W, riscv.AMOXOR_W,
		riscv.AMOAND_W, riscv.AMOOR_W, riscv.AMOMIN_W, riscv.AMOMAX_W, riscv.AMOMINU_W, riscv.AMOMAXU_W,
		riscv.LR_D, riscv.SC_D, riscv.AMOSWAP_D, riscv.AMOADD_D, riscv.AMOXOR_D,
		riscv.AMOAND_D, riscv.AMOOR_D, riscv.AMOMIN_D, riscv.AMOMAX_D, riscv.AMOMINU_D, riscv.AMOMAXU_D:
		return true
	}
	return false
}

func isFPOp(op riscv.Opcode) bool {
	return op >= riscv.FMADD_S && op <= riscv.FCLASS_D
}

// lowerIntRegReg lowers ADD/SUB/... and their W-suffixed and compressed
// equivalents. Word-width ops compute a 32-bit result and sign-extend it
// to 64 bits before store; the x0 destination elision happens inside
// writeIntReg, which never evaluates valueOp when rd==0.
func lowerIntRegReg(b *builder, in riscv.Instruction) {
	word := isWordOp(in.Op)
	b.writeIntReg(in.Rd, func() {
		b.readIntReg(in.Rs1)
		b.readIntReg(in.Rs2)
		if word {
			// Narrow both 64-bit operands to i32, operate in 32 bits,
			// then sign-extend the result back to i64 before storing.
			// The stack holds [rs1, rs2]; stash rs2 in a local, wrap
			// rs1, then reload rs2 and wrap it.
			tmp := b.i64Tmp()
			b.localSet(tmp) // stash rs2
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			b.localGet(tmp)
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			emitIntBinOp(b, in.Op, ir.I32)
			b.emit(ir.Op{Kind: ir.OpI64ExtendI32S})
			return
		}
		emitIntBinOp(b, in.Op, ir.I64)
	})
}

// isWordOp reports whether op is one of the *W 32-bit RV64 ops (arithmetic
// or multiply/divide), which must compute in 32 bits and sign-extend.
func isWordOp(op riscv.Opcode) bool {
	switch op {
	case riscv.ADDW, riscv.SUBW, riscv.SLLW, riscv.SRLW, riscv.SRAW,
		riscv.ADDIW, riscv.SLLIW, riscv.SRLIW, riscv.SRAIW,
		riscv.MULW, riscv.DIVW, riscv.DIVUW, riscv.REMW, riscv.REMUW,
		riscv.C_ADDIW, riscv.C_SUBW, riscv.C_ADDW:
		return true
	}
	return false
}

// emitIntBinOp consumes the two operands already on the stack, narrowed
// to width by the caller, and emits the operator. SLT/SLTU/MULH-family
// have no word-width form and always operate at I64.
func emitIntBinOp(b *builder, op riscv.Opcode, width ir.ValType) {
	switch op {
	case riscv.ADD, riscv.ADDW, riscv.C_ADD, riscv.C_MV, riscv.C_ADDW:
		b.emit(ir.Op{Kind: ir.OpAdd, Type: width})
	case riscv.SUB, riscv.SUBW, riscv.C_SUB, riscv.C_SUBW:
		b.emit(ir.Op{Kind: ir.OpSub, Type: width})
	case riscv.SLL, riscv.SLLW:
		b.emit(ir.Op{Kind: ir.OpShl, Type: width})
	case riscv.SLT:
		b.emit(ir.Op{Kind: ir.OpLtS, Type: ir.I64})
		b.emit(ir.Op{Kind: ir.OpI64ExtendI32U})
	case riscv.SLTU:
		b.emit(ir.Op{Kind: ir.OpLtU, Type: ir.I64})
		b.emit(ir.Op{Kind: ir.OpI64ExtendI32U})
	case riscv.XOR, riscv.C_XOR:
		b.emit(ir.Op{Kind: ir.OpXor, Type: width})
	case riscv.SRL, riscv.SRLW:
		b.emit(ir.Op{Kind: ir.OpShrU, Type: width})
	case riscv.SRA, riscv.SRAW:
		b.emit(ir.Op{Kind: ir.OpShrS, Type: width})
	case riscv.OR, riscv.C_OR:
		b.emit(ir.Op{Kind: ir.OpOr, Type: width})
	case riscv.AND, riscv.C_AND:
		b.emit(ir.Op{Kind: ir.OpAnd, Type: width})
	case riscv.MUL, riscv.MULW:
		b.emit(ir.Op{Kind: ir.OpMul, Type: width})
	case riscv.MULH, riscv.MULHU, riscv.MULHSU:
		// known precision loss: the upper 64 bits of a 128-bit product
		// are not computed. Drop both operands and yield zero.
		b.emit(ir.Op{Kind: ir.OpDrop})
		b.emit(ir.Op{Kind: ir.OpDrop})
		b.i64Const(0)
	case riscv.DIV, riscv.DIVW:
		b.emit(ir.Op{Kind: ir.OpDivS, Type: width})
	case riscv.DIVU, riscv.DIVUW:
		b.emit(ir.Op{Kind: ir.OpDivU, Type: width})
	case riscv.REM, riscv.REMW:
		b.emit(ir.Op{Kind: ir.OpRemS, Type: width})
	case riscv.REMU, riscv.REMUW:
		b.emit(ir.Op{Kind: ir.OpRemU, Type: width})
	default:
		b.emit(ir.Op{Kind: ir.OpUnreachable, Note: fmt.Sprintf("unhandled reg-reg op %d", op)})
	}
}

func lowerIntRegImm(b *builder, in riscv.Instruction) {
	// C.LI/C.LUI carry no source register: the destination is just the
	// sign-extended immediate.
	if in.Op == riscv.C_LI || in.Op == riscv.C_LUI {
		b.writeIntReg(in.Rd, func() { b.i64Const(in.Imm) })
		return
	}

	shiftOp := in.Op == riscv.SLLI || in.Op == riscv.SRLI || in.Op == riscv.SRAI ||
		in.Op == riscv.SLLIW || in.Op == riscv.SRLIW || in.Op == riscv.SRAIW ||
		in.Op == riscv.C_SRLI || in.Op == riscv.C_SRAI || in.Op == riscv.C_SLLI
	word := isWordOp(in.Op)
	shamt := maskShamt(in.Imm, shiftOp, word)

	b.writeIntReg(in.Rd, func() {
		if word {
			b.readIntReg(in.Rs1)
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			b.i32Const(int32(shamt))
			emitIntImmOp(b, in.Op, ir.I32)
			b.emit(ir.Op{Kind: ir.OpI64ExtendI32S})
			return
		}
		b.readIntReg(in.Rs1)
		b.i64Const(shamt)
		emitIntImmOp(b, in.Op, ir.I64)
	})
}

func emitIntImmOp(b *builder, op riscv.Opcode, width ir.ValType) {
	switch op {
	case riscv.ADDI, riscv.ADDIW, riscv.C_ADDI, riscv.C_ADDIW, riscv.C_ADDI4SPN, riscv.C_ADDI16SP:
		b.emit(ir.Op{Kind: ir.OpAdd, Type: width})
	case riscv.SLTI:
		b.emit(ir.Op{Kind: ir.OpLtS, Type: ir.I64})
		b.emit(ir.Op{Kind: ir.OpI64ExtendI32U})
	case riscv.SLTIU:
		b.emit(ir.Op{Kind: ir.OpLtU, Type: ir.I64})
		b.emit(ir.Op{Kind: ir.OpI64ExtendI32U})
	case riscv.XORI:
		b.emit(ir.Op{Kind: ir.OpXor, Type: width})
	case riscv.ORI:
		b.emit(ir.Op{Kind: ir.OpOr, Type: width})
	case riscv.ANDI, riscv.C_ANDI:
		b.emit(ir.Op{Kind: ir.OpAnd, Type: width})
	case riscv.SLLI, riscv.SLLIW, riscv.C_SLLI:
		b.emit(ir.Op{Kind: ir.OpShl, Type: width})
	case riscv.SRLI, riscv.SRLIW, riscv.C_SRLI:
		b.emit(ir.Op{Kind: ir.OpShrU, Type: width})
	case riscv.SRAI, riscv.SRAIW, riscv.C_SRAI:
		b.emit(ir.Op{Kind: ir.OpShrS, Type: width})
	default:
		b.emit(ir.Op{Kind: ir.OpUnreachable, Note: fmt.Sprintf("unhandled reg-imm op %d", op)})
	}
}

// maskShamt masks shift amounts to the architectural width (6 bits for
// RV64 ops, 5 bits for W-suffixed ops) and leaves non-shift immediates
// untouched.
func maskShamt(imm int64, isShift, word bool) int64 {
	if !isShift {
		return imm
	}
	if word {
		return imm & 0x1f
	}
	return imm & 0x3f
}

func lowerLoad(b *builder, in riscv.Instruction) {
	addr := func() {
		b.readIntReg(in.Rs1)
		b.i64Const(in.Imm)
		b.emit(ir.Op{Kind: ir.OpAdd, Type: ir.I64})
		b.emit(ir.Op{Kind: ir.OpI32WrapI64})
	}
	switch in.Op {
	case riscv.FLW:
		b.writeF32Reg(in.Rd, func() {
			addr()
			b.emit(ir.Op{Kind: ir.OpF32Load, Mem: ir.MemArg{Align: 2}})
		})
		return
	case riscv.FLD:
		b.writeF64Reg(in.Rd, func() {
			addr()
			b.emit(ir.Op{Kind: ir.OpF64Load, Mem: ir.MemArg{Align: 3}})
		})
		return
	}
	b.writeIntReg(in.Rd, func() {
		addr()
		switch in.Op {
		case riscv.LB:
			b.emit(ir.Op{Kind: ir.OpI64Load8S, Mem: ir.MemArg{Align: 0}})
		case riscv.LBU:
			b.emit(ir.Op{Kind: ir.OpI64Load8U, Mem: ir.MemArg{Align: 0}})
		case riscv.LH:
			b.emit(ir.Op{Kind: ir.OpI64Load16S, Mem: ir.MemArg{Align: 1}})
		case riscv.LHU:
			b.emit(ir.Op{Kind: ir.OpI64Load16U, Mem: ir.MemArg{Align: 1}})
		case riscv.LW, riscv.C_LWSP:
			b.emit(ir.Op{Kind: ir.OpI64Load32S, Mem: ir.MemArg{Align: 2}})
		case riscv.LWU:
			b.emit(ir.Op{Kind: ir.OpI64Load32U, Mem: ir.MemArg{Align: 2}})
		case riscv.LD, riscv.C_LDSP:
			b.emit(ir.Op{Kind: ir.OpI64Load, Mem: ir.MemArg{Align: 3}})
		case riscv.C_LW:
			b.emit(ir.Op{Kind: ir.OpI64Load32S, Mem: ir.MemArg{Align: 2}})
		case riscv.C_LD:
			b.emit(ir.Op{Kind: ir.OpI64Load, Mem: ir.MemArg{Align: 3}})
		}
	})
}

func lowerStore(b *builder, in riscv.Instruction) {
	b.param0()
	b.readIntReg(in.Rs1)
	b.i64Const(in.Imm)
	b.emit(ir.Op{Kind: ir.OpAdd, Type: ir.I64})
	b.emit(ir.Op{Kind: ir.OpI32WrapI64})
	switch in.Op {
	case riscv.FSW:
		b.readF32Reg(in.Rs2)
		b.emit(ir.Op{Kind: ir.OpF32Store, Mem: ir.MemArg{Align: 2}})
		return
	case riscv.FSD:
		b.readF64Reg(in.Rs2)
		b.emit(ir.Op{Kind: ir.OpF64Store, Mem: ir.MemArg{Align: 3}})
		return
	}
	b.readIntReg(in.Rs2)
	switch in.Op {
	case riscv.SB, riscv.C_SWSP:
		if in.Op == riscv.SB {
			b.emit(ir.Op{Kind: ir.OpI64Store8, Mem: ir.MemArg{Align: 0}})
		} else {
			b.emit(ir.Op{Kind: ir.OpI64Store32, Mem: ir.MemArg{Align: 2}})
		}
	case riscv.SH:
		b.emit(ir.Op{Kind: ir.OpI64Store16, Mem: ir.MemArg{Align: 1}})
	case riscv.SW, riscv.C_SW:
		b.emit(ir.Op{Kind: ir.OpI64Store32, Mem: ir.MemArg{Align: 2}})
	case riscv.SD, riscv.C_SD, riscv.C_SDSP:
		b.emit(ir.Op{Kind: ir.OpI64Store, Mem: ir.MemArg{Align: 3}})
	}
}
