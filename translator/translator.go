// Package translator drives the full pipeline from RISC-V bytes to an
// assembled Wasm module: decode, reconstruct, lower, assemble. It exposes
// both the AOT entry point (an ELF image) and the JIT entry point (a bare
// code region with an explicit base address).
package translator

import (
	"github.com/rv2wasm/rv2wasm/assemble"
	"github.com/rv2wasm/rv2wasm/cfg"
	"github.com/rv2wasm/rv2wasm/elfload"
	"github.com/rv2wasm/rv2wasm/internal/errs"
	"github.com/rv2wasm/rv2wasm/internal/logging"
	"github.com/rv2wasm/rv2wasm/ir"
	"github.com/rv2wasm/rv2wasm/lower"
	"github.com/rv2wasm/rv2wasm/riscv"
	"github.com/rv2wasm/rv2wasm/wasm"
)

const wasmPageSize = 64 * 1024

// Result is the output of a translation run: the assembled bytes plus the
// strategy the dispatcher ended up using, useful for diagnostics.
type Result struct {
	Wasm     []byte
	Strategy assemble.Strategy
}

// TranslateELF runs the AOT pipeline over a complete ELF image: it parses
// segments and code ranges, decodes every executable range, reconstructs a
// single CFG spanning all of them, lowers it, and assembles a standalone
// Wasm binary (module-owned memory, ELF segments seeded as data).
func TranslateELF(data []byte) (Result, error) {
	bin, err := elfload.Parse(data)
	if err != nil {
		return Result{}, err
	}

	var instructions []riscv.Instruction
	for _, rng := range bin.CodeRanges {
		decoded := riscv.Decode(rng.Data, rng.VAddr)
		logging.L().Sugar().Debugf("decoded %s at 0x%x: %d bytes, %d instructions", rng.Name, rng.VAddr, len(rng.Data), len(decoded))
		instructions = append(instructions, decoded...)
	}
	if len(instructions) == 0 {
		return Result{}, errs.New(errs.PhaseDecode, errs.KindEmptyRegion).
			Detail("no instructions decoded from any executable range").
			Build()
	}

	graph := cfg.Build(instructions, bin.Entry)
	mod := lower.Lower(graph)
	mod.MemoryPages = memoryPagesFor(bin)
	mod.DataSegments = dataSegmentsFor(bin)

	res, err := assemble.Assemble(mod, assemble.Options{ImportMemory: false})
	if err != nil {
		return Result{}, errs.New(errs.PhaseAssemble, errs.KindInvalidData).
			Cause(err).
			Build()
	}
	if err := selfCheck(res.Bytes); err != nil {
		return Result{}, err
	}
	return Result{Wasm: res.Bytes, Strategy: res.Strategy}, nil
}

// CompileRegion runs the JIT pipeline over a bare code buffer: code is
// decoded starting at baseAddr, the CFG and lowering proceed exactly as in
// the AOT path, but the assembled module imports its linear memory from
// the host instead of owning one.
func CompileRegion(code []byte, baseAddr uint64) ([]byte, error) {
	if len(code) == 0 {
		return nil, errs.New(errs.PhaseDecode, errs.KindEmptyRegion).
			Detail("compile_region called with an empty byte range").
			Build()
	}

	instructions := riscv.Decode(code, baseAddr)
	if len(instructions) == 0 {
		return nil, errs.New(errs.PhaseDecode, errs.KindEmptyRegion).
			Detail("no instructions decoded at base 0x%x", baseAddr).
			Build()
	}

	graph := cfg.Build(instructions, baseAddr)
	mod := lower.Lower(graph)
	mod.MemoryPages = 0

	res, err := assemble.Assemble(mod, assemble.Options{ImportMemory: true})
	if err != nil {
		return nil, errs.New(errs.PhaseAssemble, errs.KindInvalidData).
			Cause(err).
			Build()
	}
	if err := selfCheck(res.Bytes); err != nil {
		return nil, err
	}
	return res.Bytes, nil
}

// selfCheck parses and structurally validates the assembler's own output
// before handing it back to the caller, catching an encoder bug as an
// error here rather than a trap (or a rejection by some other embedder)
// downstream.
func selfCheck(wasmBytes []byte) error {
	if _, err := wasm.ParseModuleValidate(wasmBytes); err != nil {
		return errs.New(errs.PhaseAssemble, errs.KindInvalidData).
			Detail("assembled module failed structural validation").
			Cause(err).
			Build()
	}
	return nil
}

func memoryPagesFor(bin *elfload.Binary) uint32 {
	var highest uint64
	for _, seg := range bin.Segments {
		end := seg.VAddr + seg.MemSize
		if end > highest {
			highest = end
		}
	}
	pages := uint32(highest/wasmPageSize) + 1
	if pages == 0 {
		pages = 1
	}
	return pages
}

func dataSegmentsFor(bin *elfload.Binary) []ir.DataSegment {
	var out []ir.DataSegment
	for _, seg := range bin.Segments {
		if seg.FileSize == 0 {
			continue
		}
		out = append(out, ir.DataSegment{Offset: uint32(seg.VAddr), Bytes: seg.Data})
	}
	return out
}
