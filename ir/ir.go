// Package ir defines the Wasm module intermediate representation built by
// the lowerer and consumed by the assembler: one function per guest basic
// block, plus the memory and dispatch metadata needed to assemble them.
package ir

// ValType is a Wasm value type. Only the types this translator ever needs
// appear here.
type ValType byte

const (
	I32 ValType = iota
	I64
	F32
	F64
)

// Func is a single lowered basic block: a self-contained Wasm function of
// signature (param i32) (result i32).
type Func struct {
	Name      string // exported name, e.g. "block_1000"
	BlockAddr uint64 // originating guest block address
	Locals    []ValType
	Body      []Op
	IsEntry   bool // corresponds to a CFG function entry
}

// NumLocals is the count of additional local slots declared beyond the
// single i32 memory-base parameter.
func (f *Func) NumLocals() int { return len(f.Locals) }

// DataSegment is a contiguous range of initial linear-memory contents,
// typically a loaded ELF PT_LOAD segment's file-backed bytes.
type DataSegment struct {
	Offset uint32
	Bytes  []byte
}

// Module is the IR the assembler consumes: the lowered functions, the
// guest memory requirement, the entry PC, and the block-address -> index
// mapping the dispatcher uses to build its table/br_table/if-chain.
type Module struct {
	Funcs       []Func
	MemoryPages uint32 // minimum pages (0 when memory is host-imported, e.g. the JIT path)
	DataSegments []DataSegment
	EntryPC      uint64
	BlockIndex   map[uint64]int // guest block addr -> index into Funcs
	BlockOrder   []uint64       // block addresses in ascending order
}

// FuncIndexOf returns the Funcs index for a guest block address.
func (m *Module) FuncIndexOf(addr uint64) (int, bool) {
	idx, ok := m.BlockIndex[addr]
	return idx, ok
}
