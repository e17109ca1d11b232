// Package elfload parses RV64GC ELF executables and extracts the pieces the
// translator needs: the entry PC, loadable segments in guest address order,
// and the executable byte ranges those segments cover.
package elfload

import (
	"bytes"
	stdelf "debug/elf"
	"sort"

	"github.com/rv2wasm/rv2wasm/internal/errs"
)

// Segment is a single PT_LOAD program header, trimmed to what the
// translator needs to seed guest memory and locate code.
type Segment struct {
	VAddr      uint64
	MemSize    uint64
	FileSize   uint64
	Executable bool
	Data       []byte // FileSize bytes read from the ELF image at this segment's offset
}

// CodeRange is a contiguous span of guest memory containing instructions to
// decode, named for diagnostics.
type CodeRange struct {
	VAddr uint64
	Data  []byte
	Name  string
}

// Binary is a parsed RV64 executable.
type Binary struct {
	Entry      uint64
	PIE        bool
	Segments   []Segment
	CodeRanges []CodeRange
}

// Parse reads a RISC-V 64-bit ELF image and validates it is something this
// translator can target: EM_RISCV, ELFCLASS64.
func Parse(data []byte) (*Binary, error) {
	f, err := stdelf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errs.New(errs.PhaseELF, errs.KindInvalidData).
			Detail("parse ELF header").
			Cause(err).
			Build()
	}
	defer f.Close()

	if f.Machine != stdelf.EM_RISCV {
		return nil, errs.New(errs.PhaseELF, errs.KindInputRejected).
			Detail("not a RISC-V binary (e_machine=%d)", f.Machine).
			Build()
	}
	if f.Class != stdelf.ELFCLASS64 {
		return nil, errs.New(errs.PhaseELF, errs.KindInputRejected).
			Detail("only 64-bit RISC-V (RV64) is supported").
			Build()
	}

	b := &Binary{
		Entry: f.Entry,
		PIE:   f.Type == stdelf.ET_DYN,
	}

	for _, prog := range f.Progs {
		if prog.Type != stdelf.PT_LOAD {
			continue
		}
		buf := make([]byte, prog.Filesz)
		if prog.Filesz > 0 {
			if _, err := prog.ReadAt(buf, 0); err != nil {
				return nil, errs.New(errs.PhaseELF, errs.KindIO).
					Detail("read PT_LOAD segment at vaddr 0x%x", prog.Vaddr).
					Cause(err).
					Build()
			}
		}
		seg := Segment{
			VAddr:      prog.Vaddr,
			MemSize:    prog.Memsz,
			FileSize:   prog.Filesz,
			Executable: prog.Flags&stdelf.PF_X != 0,
			Data:       buf,
		}
		b.Segments = append(b.Segments, seg)
	}
	sort.Slice(b.Segments, func(i, j int) bool { return b.Segments[i].VAddr < b.Segments[j].VAddr })

	b.CodeRanges = extractCodeRanges(f, b.Segments)
	if len(b.CodeRanges) == 0 {
		return nil, errs.New(errs.PhaseELF, errs.KindEmptyRegion).
			Detail("no executable segments or .text section found").
			Build()
	}
	return b, nil
}

// extractCodeRanges collects every executable PT_LOAD segment, then falls
// back to a named .text section for binaries whose segment flags don't mark
// it executable (stripped or hand-assembled images).
func extractCodeRanges(f *stdelf.File, segs []Segment) []CodeRange {
	var ranges []CodeRange

	for _, seg := range segs {
		if !seg.Executable || seg.FileSize == 0 {
			continue
		}
		ranges = append(ranges, CodeRange{
			VAddr: seg.VAddr,
			Data:  seg.Data,
			Name:  segmentName(seg.VAddr),
		})
	}

	covered := func(addr, size uint64) bool {
		for _, r := range ranges {
			if addr >= r.VAddr && addr+size <= r.VAddr+uint64(len(r.Data)) {
				return true
			}
		}
		return false
	}
	if sec := f.Section(".text"); sec != nil && sec.Size > 0 && !covered(sec.Addr, sec.Size) {
		if data, err := sec.Data(); err == nil {
			ranges = append(ranges, CodeRange{VAddr: sec.Addr, Data: data, Name: ".text"})
		}
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].VAddr < ranges[j].VAddr })
	return ranges
}

func segmentName(vaddr uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 0, 20)
	buf = append(buf, "seg_0x"...)
	started := false
	for shift := 60; shift >= 0; shift -= 4 {
		d := byte(vaddr>>uint(shift)) & 0xF
		if d != 0 {
			started = true
		}
		if started {
			buf = append(buf, hexDigits[d])
		}
	}
	if !started {
		buf = append(buf, '0')
	}
	return string(buf)
}
