package lower

import (
	"github.com/rv2wasm/rv2wasm/cfg"
	"github.com/rv2wasm/rv2wasm/ir"
	"github.com/rv2wasm/rv2wasm/riscv"
)

// ECALL/EBREAK set bit 31 of the returned PC to flag a syscall-like escape
// to the host trampoline; the remaining bits carry the triggering PC so the
// host can resume past it. EBREAK additionally sets bit 30 to distinguish
// it from ECALL.
const (
	syscallEscapeBit    = uint32(1) << 31
	breakpointEscapeBit = uint32(1) << 30
)

// lowerTerminator emits the block's control-flow exit: it always ends in
// exactly one OpReturn pushing the next guest PC (or an escape-coded PC)
// as an i32.
func lowerTerminator(b *builder, blk *cfg.BasicBlock) {
	in, ok := blk.Terminator()
	if !ok {
		b.emit(ir.Op{Kind: ir.OpUnreachable, Note: "empty block"})
		return
	}

	switch {
	case in.Op.IsBranch():
		lowerBranch(b, in)
		return

	case in.Op == riscv.JAL || in.Op == riscv.C_J || in.Op == riscv.C_JAL:
		target, _ := in.Target()
		if in.Rd != 0 {
			b.writeIntReg(in.Rd, func() { b.i64Const(int64(in.End())) })
		}
		b.i32Const(int32(uint32(target)))
		b.emit(ir.Op{Kind: ir.OpReturn})
		return

	case in.Op == riscv.JALR || in.Op == riscv.C_JALR:
		lowerIndirectJump(b, blk, in)
		return

	case in.Op == riscv.C_JR:
		lowerIndirectJump(b, blk, in)
		return

	case in.Op == riscv.ECALL:
		b.i32Const(int32(syscallEscapeBit | uint32(in.Addr)))
		b.emit(ir.Op{Kind: ir.OpReturn})
		return

	case in.Op == riscv.EBREAK || in.Op == riscv.C_EBREAK:
		b.i32Const(int32(syscallEscapeBit | breakpointEscapeBit | uint32(in.Addr)))
		b.emit(ir.Op{Kind: ir.OpReturn})
		return

	default:
		b.i32Const(int32(uint32(blk.EndAddr)))
		b.emit(ir.Op{Kind: ir.OpReturn})
	}
}

func lowerBranch(b *builder, in riscv.Instruction) {
	target, _ := in.Target()
	next := in.End()

	pushCond := func() {
		switch in.Op {
		case riscv.BEQ:
			b.readIntReg(in.Rs1)
			b.readIntReg(in.Rs2)
			b.emit(ir.Op{Kind: ir.OpEq, Type: ir.I64})
		case riscv.BNE:
			b.readIntReg(in.Rs1)
			b.readIntReg(in.Rs2)
			b.emit(ir.Op{Kind: ir.OpNe, Type: ir.I64})
		case riscv.BLT:
			b.readIntReg(in.Rs1)
			b.readIntReg(in.Rs2)
			b.emit(ir.Op{Kind: ir.OpLtS, Type: ir.I64})
		case riscv.BGE:
			b.readIntReg(in.Rs1)
			b.readIntReg(in.Rs2)
			b.emit(ir.Op{Kind: ir.OpGeS, Type: ir.I64})
		case riscv.BLTU:
			b.readIntReg(in.Rs1)
			b.readIntReg(in.Rs2)
			b.emit(ir.Op{Kind: ir.OpLtU, Type: ir.I64})
		case riscv.BGEU:
			b.readIntReg(in.Rs1)
			b.readIntReg(in.Rs2)
			b.emit(ir.Op{Kind: ir.OpGeU, Type: ir.I64})
		case riscv.C_BEQZ:
			b.readIntReg(in.Rs1)
			b.emit(ir.Op{Kind: ir.OpEqz, Type: ir.I64})
		case riscv.C_BNEZ:
			b.readIntReg(in.Rs1)
			b.emit(ir.Op{Kind: ir.OpEqz, Type: ir.I64})
			b.emit(ir.Op{Kind: ir.OpEqz, Type: ir.I32})
		}
	}

	b.i32Const(int32(uint32(target)))
	b.i32Const(int32(uint32(next)))
	pushCond()
	b.emit(ir.Op{Kind: ir.OpSelect})
	b.emit(ir.Op{Kind: ir.OpReturn})
}

// lowerIndirectJump handles JALR/C.JALR/C.JR. When the target register is
// fed by an AUIPC (or LUI+ADDI pair for absolute constants) earlier in the
// same block with no intervening write, the jump is a statically-known
// call/tail site (the `call`/`tail` pseudo-instructions expand exactly to
// this shape) and is resolved to a direct target rather than left dynamic.
// Anything else returns the dynamically computed address for the host
// dispatcher to resolve.
func lowerIndirectJump(b *builder, blk *cfg.BasicBlock, in riscv.Instruction) {
	if target, ok := resolveIndirectTarget(blk, in); ok {
		if in.Rd != 0 {
			b.writeIntReg(in.Rd, func() { b.i64Const(int64(in.End())) })
		}
		b.i32Const(int32(uint32(target)))
		b.emit(ir.Op{Kind: ir.OpReturn})
		return
	}

	if in.Rd != 0 {
		b.writeIntReg(in.Rd, func() { b.i64Const(int64(in.End())) })
	}
	b.readIntReg(in.Rs1)
	b.i64Const(in.Imm)
	b.emit(ir.Op{Kind: ir.OpAdd, Type: ir.I64})
	b.i64Const(^int64(1)) // clear bit 0
	b.emit(ir.Op{Kind: ir.OpAnd, Type: ir.I64})
	b.emit(ir.Op{Kind: ir.OpI32WrapI64})
	b.emit(ir.Op{Kind: ir.OpReturn})
}

// resolveIndirectTarget scans backward, up to two instructions, for the
// definition of rs1. It recognizes the AUIPC+JALR shape (`call`/`tail`) and
// the LUI+ADDI shape (absolute constant materialized then jumped to).
func resolveIndirectTarget(blk *cfg.BasicBlock, jump riscv.Instruction) (uint64, bool) {
	idx := -1
	for i, in := range blk.Instructions {
		if in.Addr == jump.Addr {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return 0, false
	}

	def := blk.Instructions[idx-1]
	if def.Rd != jump.Rs1 {
		return 0, false
	}

	switch def.Op {
	case riscv.AUIPC:
		return uint64(int64(def.Addr) + def.Imm + jump.Imm), true
	case riscv.ADDI, riscv.C_ADDI:
		if idx < 2 {
			return 0, false
		}
		base := blk.Instructions[idx-2]
		if base.Rd == def.Rs1 {
			switch base.Op {
			case riscv.LUI:
				return uint64(base.Imm + def.Imm + jump.Imm), true
			case riscv.AUIPC:
				return uint64(int64(base.Addr) + base.Imm + def.Imm + jump.Imm), true
			}
		}
	}
	return 0, false
}
