package lower

import (
	"github.com/rv2wasm/rv2wasm/ir"
	"github.com/rv2wasm/rv2wasm/riscv"
)

// lowerAMO emits the A-extension load-reserved/store-conditional and
// read-modify-write atomics. Under single-threaded guest execution the
// reservation is trivially held, so LR always succeeds and SC always
// succeeds; every AMO op follows load-old, compute-new, store-new,
// return-old.
func lowerAMO(b *builder, in riscv.Instruction) {
	word := isAMOWord(in.Op)

	switch in.Op {
	case riscv.LR_W, riscv.LR_D:
		b.writeIntReg(in.Rd, func() {
			b.readIntReg(in.Rs1)
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			if word {
				b.emit(ir.Op{Kind: ir.OpI64Load32S, Mem: ir.MemArg{Align: 2}})
			} else {
				b.emit(ir.Op{Kind: ir.OpI64Load, Mem: ir.MemArg{Align: 3}})
			}
		})
		return

	case riscv.SC_W, riscv.SC_D:
		b.param0()
		b.readIntReg(in.Rs1)
		b.emit(ir.Op{Kind: ir.OpI32WrapI64})
		b.readIntReg(in.Rs2)
		if word {
			b.emit(ir.Op{Kind: ir.OpI32WrapI64})
			b.emit(ir.Op{Kind: ir.OpI64ExtendI32S})
			b.emit(ir.Op{Kind: ir.OpI64Store32, Mem: ir.MemArg{Align: 2}})
		} else {
			b.emit(ir.Op{Kind: ir.OpI64Store, Mem: ir.MemArg{Align: 3}})
		}
		b.writeIntReg(in.Rd, func() { b.i64Const(0) }) // reservation always holds: success
		return
	}

	addrTmp := b.i32Tmp()
	oldTmp := b.i64Tmp()

	b.readIntReg(in.Rs1)
	b.emit(ir.Op{Kind: ir.OpI32WrapI64})
	b.localTee(addrTmp)

	if word {
		b.emit(ir.Op{Kind: ir.OpI64Load32S, Mem: ir.MemArg{Align: 2}})
	} else {
		b.emit(ir.Op{Kind: ir.OpI64Load, Mem: ir.MemArg{Align: 3}})
	}
	b.localTee(oldTmp)

	b.param0()
	b.localGet(addrTmp)
	emitAMOCompute(b, in.Op, oldTmp, in.Rs2, word)
	if word {
		b.emit(ir.Op{Kind: ir.OpI32WrapI64})
		b.emit(ir.Op{Kind: ir.OpI64ExtendI32S})
		b.emit(ir.Op{Kind: ir.OpI64Store32, Mem: ir.MemArg{Align: 2}})
	} else {
		b.emit(ir.Op{Kind: ir.OpI64Store, Mem: ir.MemArg{Align: 3}})
	}

	b.writeIntReg(in.Rd, func() { b.localGet(oldTmp) })
}

func isAMOWord(op riscv.Opcode) bool {
	switch op {
	case riscv.LR_W, riscv.SC_W, riscv.AMOSWAP_W, riscv.AMOADD_W, riscv.AMOXOR_W,
		riscv.AMOAND_W, riscv.AMOOR_W, riscv.AMOMIN_W, riscv.AMOMAX_W, riscv.AMOMINU_W, riscv.AMOMAXU_W:
		return true
	}
	return false
}

// emitAMOCompute pushes the new memory value for an AMO op: oldTmp holds
// the value just loaded, rs2 is the operand register. The base address
// is already on the stack from the caller (param0, addr) and is left
// there; this only pushes the new value on top.
func emitAMOCompute(b *builder, op riscv.Opcode, oldTmp, rs2 int, word bool) {
	_ = word
	switch op {
	case riscv.AMOSWAP_W, riscv.AMOSWAP_D:
		b.readIntReg(rs2)
	case riscv.AMOADD_W, riscv.AMOADD_D:
		b.localGet(oldTmp)
		b.readIntReg(rs2)
		b.emit(ir.Op{Kind: ir.OpAdd, Type: ir.I64})
	case riscv.AMOXOR_W, riscv.AMOXOR_D:
		b.localGet(oldTmp)
		b.readIntReg(rs2)
		b.emit(ir.Op{Kind: ir.OpXor, Type: ir.I64})
	case riscv.AMOAND_W, riscv.AMOAND_D:
		b.localGet(oldTmp)
		b.readIntReg(rs2)
		b.emit(ir.Op{Kind: ir.OpAnd, Type: ir.I64})
	case riscv.AMOOR_W, riscv.AMOOR_D:
		b.localGet(oldTmp)
		b.readIntReg(rs2)
		b.emit(ir.Op{Kind: ir.OpOr, Type: ir.I64})
	case riscv.AMOMIN_W, riscv.AMOMIN_D:
		emitMinMax(b, oldTmp, rs2, ir.OpLtS, word)
	case riscv.AMOMAX_W, riscv.AMOMAX_D:
		emitMinMax(b, oldTmp, rs2, ir.OpGtS, word)
	case riscv.AMOMINU_W, riscv.AMOMINU_D:
		emitMinMax(b, oldTmp, rs2, ir.OpLtU, word)
	case riscv.AMOMAXU_W, riscv.AMOMAXU_D:
		emitMinMax(b, oldTmp, rs2, ir.OpGtU, word)
	}
}

// emitMinMax pushes select(old, new, old `cmp` new). Both operands are
// expected to already carry a canonical (sign-extended for word ops)
// 64-bit value, matching the RV64 invariant for word-sized register
// contents, so the comparison runs directly at i64 width.
func emitMinMax(b *builder, oldTmp, rs2 int, cmp ir.OpKind, word bool) {
	_ = word
	b.localGet(oldTmp)
	b.readIntReg(rs2)
	b.localGet(oldTmp)
	b.readIntReg(rs2)
	b.emit(ir.Op{Kind: cmp, Type: ir.I64})
	b.emit(ir.Op{Kind: ir.OpSelect})
}
