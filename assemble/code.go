package assemble

import (
	"bytes"
	"fmt"
	"math"

	"github.com/rv2wasm/rv2wasm/ir"
)

func valTypeByte(t ir.ValType) byte {
	switch t {
	case ir.I32:
		return 0x7F
	case ir.I64:
		return 0x7E
	case ir.F32:
		return 0x7D
	case ir.F64:
		return 0x7C
	}
	panic(fmt.Sprintf("assemble: unknown value type %d", t))
}

// encodeFunc writes a function's local declarations and op body into a
// size-prefixed code-section entry.
func encodeFunc(w *bytes.Buffer, f ir.Func) {
	withSizePrefix(w, func(body *bytes.Buffer) {
		encodeLocals(body, f.Locals)
		for _, op := range f.Body {
			encodeOp(body, op)
		}
		body.WriteByte(wasmEnd)
	})
}

// encodeLocals groups consecutive identically-typed locals into a single
// (count, type) declaration, as the binary format requires.
func encodeLocals(w *bytes.Buffer, locals []ir.ValType) {
	type run struct {
		t     ir.ValType
		count uint32
	}
	var runs []run
	for _, t := range locals {
		if len(runs) > 0 && runs[len(runs)-1].t == t {
			runs[len(runs)-1].count++
			continue
		}
		runs = append(runs, run{t: t, count: 1})
	}
	writeU32(w, uint32(len(runs)))
	for _, r := range runs {
		writeU32(w, r.count)
		w.WriteByte(valTypeByte(r.t))
	}
}

func encodeOp(w *bytes.Buffer, op ir.Op) {
	if b, ok := loadOpcode[op.Kind]; ok {
		w.WriteByte(b)
		writeU32(w, op.Mem.Align)
		writeU32(w, op.Mem.Offset)
		return
	}
	if b, ok := storeOpcode[op.Kind]; ok {
		w.WriteByte(b)
		writeU32(w, op.Mem.Align)
		writeU32(w, op.Mem.Offset)
		return
	}
	if b, ok := convertOpcode[op.Kind]; ok {
		w.WriteByte(b)
		return
	}
	if i32, i64, ok := widthPair(op.Kind); ok {
		if op.Type == ir.I32 {
			w.WriteByte(i32)
		} else {
			w.WriteByte(i64)
		}
		return
	}
	if f32, f64, ok := fWidthPair(op.Kind); ok {
		if op.Type == ir.F32 {
			w.WriteByte(f32)
		} else {
			w.WriteByte(f64)
		}
		return
	}

	switch op.Kind {
	case ir.OpUnreachable:
		w.WriteByte(wasmUnreachable)
	case ir.OpReturn:
		w.WriteByte(wasmReturn)
	case ir.OpCall:
		w.WriteByte(wasmCall)
		writeU32(w, op.Callee)
	case ir.OpLocalGet:
		w.WriteByte(wasmLocalGet)
		writeU32(w, op.Local)
	case ir.OpLocalSet:
		w.WriteByte(wasmLocalSet)
		writeU32(w, op.Local)
	case ir.OpLocalTee:
		w.WriteByte(wasmLocalTee)
		writeU32(w, op.Local)
	case ir.OpI32Const:
		w.WriteByte(wasmI32Const)
		writeS32(w, op.I32)
	case ir.OpI64Const:
		w.WriteByte(wasmI64Const)
		writeS64(w, op.I64)
	case ir.OpF32Const:
		w.WriteByte(wasmF32Const)
		var buf [4]byte
		bits := math.Float32bits(op.F32)
		buf[0], buf[1], buf[2], buf[3] = byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24)
		w.Write(buf[:])
	case ir.OpF64Const:
		w.WriteByte(wasmF64Const)
		var buf [8]byte
		bits := math.Float64bits(op.F64)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		w.Write(buf[:])
	case ir.OpSelect:
		w.WriteByte(wasmSelect)
	case ir.OpDrop:
		w.WriteByte(wasmDrop)
	default:
		panic(fmt.Sprintf("assemble: unhandled op kind %d", op.Kind))
	}
}
