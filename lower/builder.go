// Package lower translates reconstructed basic blocks into the Wasm
// function IR defined by package ir: one function per block, each
// threading guest register/memory state through a single i32 base
// pointer parameter.
package lower

import (
	"github.com/rv2wasm/rv2wasm/ir"
)

// Register-file layout offsets, per the guest machine-state memory
// region: x0 at 0 (read-as-zero, writes elided), x_i at 8*i, f_i single
// at 256+4*i, f_i double at 384+8*i.
const (
	intRegStride   = 8
	fSingleBase    = 256
	fSingleStride  = 4
	fDoubleBase    = 384
	fDoubleStride  = 8
)

func intRegOffset(r int) uint32   { return uint32(r * intRegStride) }
func fSingleOffset(r int) uint32  { return fSingleBase + uint32(r*fSingleStride) }
func fDoubleOffset(r int) uint32  { return fDoubleBase + uint32(r*fDoubleStride) }

// builder accumulates a single block's Wasm op sequence and tracks which
// scratch locals it has needed so far, so the emitted function declares
// only the locals it actually uses.
type builder struct {
	ops []ir.Op

	i64Scratch  int // local index of the i64 scratch slot, 0 = unallocated
	i32Scratch  int
	f32Scratch  int
	f64Scratch  int
	locals      []ir.ValType // additional locals beyond param 0, in declaration order
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) emit(op ir.Op) { b.ops = append(b.ops, op) }

func (b *builder) allocLocal(t ir.ValType) int {
	b.locals = append(b.locals, t)
	return len(b.locals) // param 0 occupies index 0, locals start at 1
}

func (b *builder) i64Tmp() int {
	if b.i64Scratch == 0 {
		b.i64Scratch = b.allocLocal(ir.I64)
	}
	return b.i64Scratch
}

func (b *builder) i32Tmp() int {
	if b.i32Scratch == 0 {
		b.i32Scratch = b.allocLocal(ir.I32)
	}
	return b.i32Scratch
}

func (b *builder) f32Tmp() int {
	if b.f32Scratch == 0 {
		b.f32Scratch = b.allocLocal(ir.F32)
	}
	return b.f32Scratch
}

func (b *builder) f64Tmp() int {
	if b.f64Scratch == 0 {
		b.f64Scratch = b.allocLocal(ir.F64)
	}
	return b.f64Scratch
}

// param0 loads the memory-base i32 parameter.
func (b *builder) param0() { b.emit(ir.Op{Kind: ir.OpLocalGet, Local: 0}) }

func (b *builder) localGet(idx int)       { b.emit(ir.Op{Kind: ir.OpLocalGet, Local: uint32(idx)}) }
func (b *builder) localSet(idx int)       { b.emit(ir.Op{Kind: ir.OpLocalSet, Local: uint32(idx)}) }
func (b *builder) localTee(idx int)       { b.emit(ir.Op{Kind: ir.OpLocalTee, Local: uint32(idx)}) }
func (b *builder) i32Const(v int32)       { b.emit(ir.Op{Kind: ir.OpI32Const, I32: v}) }
func (b *builder) i64Const(v int64)       { b.emit(ir.Op{Kind: ir.OpI64Const, I64: v}) }

// readIntReg pushes x[r] (i64) onto the stack; x0 reads as a constant
// zero rather than issuing a load.
func (b *builder) readIntReg(r int) {
	if r == 0 {
		b.i64Const(0)
		return
	}
	b.param0()
	b.emit(ir.Op{Kind: ir.OpI64Load, Mem: ir.MemArg{Offset: intRegOffset(r), Align: 3}})
}

// writeIntReg stores the i64 value already computed by valueOp (which
// must leave exactly one i64 on the stack when called) into x[r]. Writes
// to x0 are elided entirely, including the value computation, by never
// calling valueOp.
func (b *builder) writeIntReg(r int, valueOp func()) {
	if r == 0 {
		return
	}
	b.param0()
	valueOp()
	b.emit(ir.Op{Kind: ir.OpI64Store, Mem: ir.MemArg{Offset: intRegOffset(r), Align: 3}})
}

func (b *builder) readF32Reg(r int) {
	b.param0()
	b.emit(ir.Op{Kind: ir.OpF32Load, Mem: ir.MemArg{Offset: fSingleOffset(r), Align: 2}})
}

func (b *builder) writeF32Reg(r int, valueOp func()) {
	b.param0()
	valueOp()
	b.emit(ir.Op{Kind: ir.OpF32Store, Mem: ir.MemArg{Offset: fSingleOffset(r), Align: 2}})
}

func (b *builder) readF64Reg(r int) {
	b.param0()
	b.emit(ir.Op{Kind: ir.OpF64Load, Mem: ir.MemArg{Offset: fDoubleOffset(r), Align: 3}})
}

func (b *builder) writeF64Reg(r int, valueOp func()) {
	b.param0()
	valueOp()
	b.emit(ir.Op{Kind: ir.OpF64Store, Mem: ir.MemArg{Offset: fDoubleOffset(r), Align: 3}})
}
