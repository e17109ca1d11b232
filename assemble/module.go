// Package assemble encodes a lowered ir.Module into a standards-conforming
// Wasm binary: a type/import/function/table/memory/export/element/code/data
// section layout, plus a synthesized PC dispatcher and "run" trampoline
// wired around the lowered per-block functions.
package assemble

import (
	"bytes"
	"fmt"

	"github.com/rv2wasm/rv2wasm/ir"
)

// Options controls details of the emitted module that depend on which
// surface (AOT binary vs JIT compile_region) is driving assembly.
type Options struct {
	// ImportMemory, when true, imports "env"."memory" instead of defining
	// and exporting an owned memory -- the JIT surface embeds its output
	// into a host module that already owns the linear memory.
	ImportMemory bool
}

const (
	typeBlockFunc = 0 // (i32) -> (i32): block functions and dispatch_index
	typeRunFunc   = 1 // (i32, i32) -> (i32): run and the env.syscall import
)

var (
	magic   = [4]byte{0x00, 0x61, 0x73, 0x6D}
	version = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// Result carries the assembled bytes alongside the dispatch strategy
// chosen, so callers can log or report it.
type Result struct {
	Bytes    []byte
	Strategy Strategy
}

// Assemble encodes mod into a complete Wasm binary.
func Assemble(mod *ir.Module, opts Options) (Result, error) {
	if len(mod.Funcs) == 0 {
		return Result{}, fmt.Errorf("assemble: module has no blocks to assemble")
	}

	p := choosePlan(mod.BlockOrder)
	dispatchBody := encodeDispatchIndex(mod.BlockOrder, p)

	numImportFuncs := 1 // env.syscall
	syscallFuncIdx := uint32(0)
	dispatchFuncIdx := uint32(numImportFuncs)
	firstBlockFuncIdx := dispatchFuncIdx + 1
	runFuncIdx := firstBlockFuncIdx + uint32(len(mod.Funcs))

	var out bytes.Buffer
	out.Write(magic[:])
	out.Write(version[:])

	writeSection(&out, sectionType, func(w *bytes.Buffer) {
		writeU32(w, 2)
		encodeFuncType(w, []byte{0x7F}, []byte{0x7F})       // type 0: (i32)->(i32)
		encodeFuncType(w, []byte{0x7F, 0x7F}, []byte{0x7F}) // type 1: (i32,i32)->(i32)
	})

	writeSection(&out, sectionImport, func(w *bytes.Buffer) {
		count := uint32(1)
		if opts.ImportMemory {
			count++
		}
		writeU32(w, count)
		writeName(w, "env")
		writeName(w, "syscall")
		w.WriteByte(kindFunc)
		writeU32(w, typeRunFunc)
		if opts.ImportMemory {
			writeName(w, "env")
			writeName(w, "memory")
			w.WriteByte(kindMemory)
			w.WriteByte(0x00) // limits: min only
			writeU32(w, 0)
		}
	})

	writeSection(&out, sectionFunction, func(w *bytes.Buffer) {
		writeU32(w, uint32(1+len(mod.Funcs)+1)) // dispatch_index + blocks + run
		writeU32(w, typeBlockFunc)
		for range mod.Funcs {
			writeU32(w, typeBlockFunc)
		}
		writeU32(w, typeRunFunc)
	})

	writeSection(&out, sectionTable, func(w *bytes.Buffer) {
		writeU32(w, 1)
		w.WriteByte(0x70) // funcref
		w.WriteByte(0x00) // limits: min only
		writeU32(w, uint32(len(mod.Funcs)))
	})

	if !opts.ImportMemory {
		writeSection(&out, sectionMemory, func(w *bytes.Buffer) {
			writeU32(w, 1)
			w.WriteByte(0x00)
			writeU32(w, mod.MemoryPages)
		})
	}

	writeSection(&out, sectionExport, func(w *bytes.Buffer) {
		exports := 1 + len(mod.Funcs)
		if !opts.ImportMemory {
			exports++
		}
		writeU32(w, uint32(exports))
		writeName(w, "run")
		w.WriteByte(kindFunc)
		writeU32(w, runFuncIdx)
		for i, f := range mod.Funcs {
			writeName(w, f.Name)
			w.WriteByte(kindFunc)
			writeU32(w, firstBlockFuncIdx+uint32(i))
		}
		if !opts.ImportMemory {
			writeName(w, "memory")
			w.WriteByte(kindMemory)
			writeU32(w, 0)
		}
	})

	writeSection(&out, sectionElement, func(w *bytes.Buffer) {
		writeU32(w, 1)
		writeU32(w, 0) // active segment, table 0
		w.WriteByte(wasmI32Const)
		writeS32(w, 0)
		w.WriteByte(wasmEnd)
		writeU32(w, uint32(len(mod.Funcs)))
		for i := range mod.Funcs {
			writeU32(w, firstBlockFuncIdx+uint32(i))
		}
	})

	writeSection(&out, sectionCode, func(w *bytes.Buffer) {
		writeU32(w, uint32(1+len(mod.Funcs)+1))
		withSizePrefix(w, func(body *bytes.Buffer) {
			writeU32(body, 0) // no locals
			body.Write(dispatchBody)
		})
		for _, f := range mod.Funcs {
			encodeFunc(w, f)
		}
		withSizePrefix(w, func(body *bytes.Buffer) {
			writeU32(body, 1)
			body.WriteByte(0x7F) // local 2: idx (i32)
			encodeRun(body, syscallFuncIdx, dispatchFuncIdx)
		})
	})

	if len(mod.DataSegments) > 0 {
		writeSection(&out, sectionData, func(w *bytes.Buffer) {
			writeU32(w, uint32(len(mod.DataSegments)))
			for _, seg := range mod.DataSegments {
				writeU32(w, 0) // active segment, memory 0
				w.WriteByte(wasmI32Const)
				writeS32(w, int32(seg.Offset))
				w.WriteByte(wasmEnd)
				writeU32(w, uint32(len(seg.Bytes)))
				w.Write(seg.Bytes)
			}
		})
	}

	return Result{Bytes: out.Bytes(), Strategy: p.strategy}, nil
}

const (
	sectionType    byte = 1
	sectionImport  byte = 2
	sectionFunction byte = 3
	sectionTable   byte = 4
	sectionMemory  byte = 5
	sectionExport  byte = 7
	sectionElement byte = 9
	sectionCode    byte = 10
	sectionData    byte = 11

	kindFunc   byte = 0
	kindMemory byte = 2
)

func writeSection(out *bytes.Buffer, id byte, fill func(*bytes.Buffer)) {
	out.WriteByte(id)
	withSizePrefix(out, fill)
}

func encodeFuncType(w *bytes.Buffer, params, results []byte) {
	w.WriteByte(0x60)
	writeU32(w, uint32(len(params)))
	w.Write(params)
	writeU32(w, uint32(len(results)))
	w.Write(results)
}

// encodeRun emits the trampoline: (param i32 membase) (param i32 pc)
// (result i32). It loops dispatching pc to a block's table index, calling
// that block, and feeding its returned PC back in; an unmapped PC or a
// literal halt sentinel (0xFFFFFFFF) returns immediately, and a PC with
// bit 31 set is routed to the imported syscall handler before continuing.
func encodeRun(w *bytes.Buffer, syscallFuncIdx, dispatchFuncIdx uint32) {
	const (
		localMembase = 0
		localPC      = 1
		localIdx     = 2
	)

	w.WriteByte(wasmBlock)
	w.WriteByte(0x7F) // $exit (result i32)

	w.WriteByte(wasmLoop)
	w.WriteByte(0x40) // $continue (void)

	// halt: pc == -1 -> return pc
	w.WriteByte(wasmLocalGet)
	writeU32(w, localPC)
	w.WriteByte(wasmI32Const)
	writeS32(w, -1)
	w.WriteByte(wasmI32Eq)
	w.WriteByte(wasmIf)
	w.WriteByte(0x40)
	w.WriteByte(wasmLocalGet)
	writeU32(w, localPC)
	w.WriteByte(wasmBr)
	writeU32(w, 2)
	w.WriteByte(wasmEnd)

	// escape: pc & 0x80000000 != 0 -> call syscall, loop
	w.WriteByte(wasmLocalGet)
	writeU32(w, localPC)
	w.WriteByte(wasmI32Const)
	writeS32(w, int32(-2147483648)) // 0x80000000
	w.WriteByte(wasmI32And)
	w.WriteByte(wasmIf)
	w.WriteByte(0x40)

	w.WriteByte(wasmLocalGet)
	writeU32(w, localMembase)
	w.WriteByte(wasmLocalGet)
	writeU32(w, localPC)
	w.WriteByte(wasmCall)
	writeU32(w, syscallFuncIdx)
	w.WriteByte(wasmLocalSet)
	writeU32(w, localPC)

	w.WriteByte(wasmElse)

	w.WriteByte(wasmLocalGet)
	writeU32(w, localPC)
	w.WriteByte(wasmCall)
	writeU32(w, dispatchFuncIdx)
	w.WriteByte(wasmLocalSet)
	writeU32(w, localIdx)

	w.WriteByte(wasmLocalGet)
	writeU32(w, localIdx)
	w.WriteByte(wasmI32Const)
	writeS32(w, -1)
	w.WriteByte(wasmI32Eq)
	w.WriteByte(wasmIf)
	w.WriteByte(0x40)

	w.WriteByte(wasmLocalGet)
	writeU32(w, localPC)
	w.WriteByte(wasmBr)
	writeU32(w, 3)

	w.WriteByte(wasmElse)

	w.WriteByte(wasmLocalGet)
	writeU32(w, localMembase)
	w.WriteByte(wasmLocalGet)
	writeU32(w, localIdx)
	w.WriteByte(0x11) // call_indirect
	writeU32(w, typeBlockFuncIndirect)
	w.WriteByte(0x00) // table 0
	w.WriteByte(wasmLocalSet)
	writeU32(w, localPC)

	w.WriteByte(wasmEnd) // end idx==-1 if/else
	w.WriteByte(wasmEnd) // end escape if/else

	w.WriteByte(wasmBr)
	writeU32(w, 0) // br $continue

	w.WriteByte(wasmEnd) // end loop
	w.WriteByte(wasmUnreachable)
	w.WriteByte(wasmEnd) // end $exit block
	w.WriteByte(wasmEnd) // end function
}

// typeBlockFuncIndirect is the type index used by call_indirect against
// the block table; it matches typeBlockFunc's (i32)->(i32) signature.
const typeBlockFuncIndirect = typeBlockFunc
