// Package cfg reconstructs basic blocks and function groupings from a
// flat, address-ordered instruction sequence.
package cfg

import (
	"fmt"
	"sort"

	"github.com/rv2wasm/rv2wasm/riscv"
)

// BasicBlock is a maximal contiguous instruction run with a single entry
// and, at most, a terminator as its final instruction.
type BasicBlock struct {
	StartAddr      uint64
	EndAddr        uint64
	Instructions   []riscv.Instruction
	Successors     []uint64
	IsFunctionEntry bool
}

// Terminator returns the block's last instruction, or the zero value and
// false if the block is empty.
func (b *BasicBlock) Terminator() (riscv.Instruction, bool) {
	if len(b.Instructions) == 0 {
		return riscv.Instruction{}, false
	}
	return b.Instructions[len(b.Instructions)-1], true
}

// IsReturn reports whether the block ends in a return-shaped indirect jump.
func (b *BasicBlock) IsReturn() bool {
	term, ok := b.Terminator()
	return ok && term.IsReturn()
}

// Function is an entry address, a generated name, and the block addresses
// reachable from it without crossing into another known call target.
type Function struct {
	Entry  uint64
	Name   string
	Blocks []uint64
}

// Graph is an ordered mapping from block start address to block, the
// function groupings over those blocks, and the root entry address.
type Graph struct {
	Blocks    map[uint64]*BasicBlock
	Order     []uint64 // block start addresses in ascending order
	Functions []Function
	Entry     uint64
}

// Build runs the three-phase reconstruction: boundary discovery, block
// construction, and function grouping.
func Build(instructions []riscv.Instruction, entry uint64) *Graph {
	boundaries := findBoundaries(instructions, entry)
	blocks, order := createBlocks(instructions, boundaries)
	functions := identifyFunctions(blocks, order, entry)
	return &Graph{Blocks: blocks, Order: order, Functions: functions, Entry: entry}
}

func findBoundaries(instructions []riscv.Instruction, entry uint64) map[uint64]struct{} {
	boundaries := map[uint64]struct{}{entry: {}}
	if len(instructions) > 0 {
		boundaries[instructions[0].Addr] = struct{}{}
	}
	for _, in := range instructions {
		if in.Op.IsTerminator() {
			boundaries[in.End()] = struct{}{}
		}
		if in.Op.IsBranch() || in.Op.IsJump() {
			if target, ok := in.Target(); ok {
				boundaries[target] = struct{}{}
			}
		}
		if in.Op == riscv.JAL || in.Op == riscv.C_JAL {
			if target, ok := in.Target(); ok {
				boundaries[target] = struct{}{}
			}
		}
	}
	return boundaries
}

func createBlocks(instructions []riscv.Instruction, boundaries map[uint64]struct{}) (map[uint64]*BasicBlock, []uint64) {
	blocks := make(map[uint64]*BasicBlock)
	var order []uint64
	var current *BasicBlock

	flush := func() {
		if current != nil {
			blocks[current.StartAddr] = current
			order = append(order, current.StartAddr)
			current = nil
		}
	}

	for _, in := range instructions {
		if _, isBoundary := boundaries[in.Addr]; isBoundary {
			flush()
			current = &BasicBlock{StartAddr: in.Addr, EndAddr: in.End()}
			current.Instructions = append(current.Instructions, in)
		} else if current != nil {
			current.Instructions = append(current.Instructions, in)
			current.EndAddr = in.End()
		}
		if in.Op.IsTerminator() && current != nil {
			current.Successors = computeSuccessors(in)
		}
	}
	flush()

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	for _, addr := range order {
		b := blocks[addr]
		if len(b.Successors) == 0 {
			if _, ok := blocks[b.EndAddr]; ok {
				b.Successors = append(b.Successors, b.EndAddr)
			}
		}
	}
	return blocks, order
}

func computeSuccessors(in riscv.Instruction) []uint64 {
	next := in.End()
	switch in.Op {
	case riscv.BEQ, riscv.BNE, riscv.BLT, riscv.BGE, riscv.BLTU, riscv.BGEU,
		riscv.C_BEQZ, riscv.C_BNEZ:
		target, _ := in.Target()
		return []uint64{target, next}

	case riscv.JAL, riscv.C_J, riscv.C_JAL:
		target, _ := in.Target()
		if in.Rd != 0 {
			return []uint64{next, target}
		}
		return []uint64{target}

	case riscv.JALR, riscv.C_JR, riscv.C_JALR:
		if in.Rd != 0 {
			return []uint64{next}
		}
		return nil

	case riscv.ECALL, riscv.EBREAK, riscv.C_EBREAK:
		return []uint64{next}

	default:
		return []uint64{next}
	}
}

func identifyFunctions(blocks map[uint64]*BasicBlock, order []uint64, entry uint64) []Function {
	callTargets := map[uint64]struct{}{entry: {}}
	for _, addr := range order {
		for _, in := range blocks[addr].Instructions {
			if in.Op == riscv.JAL || in.Op == riscv.C_JAL {
				if target, ok := in.Target(); ok {
					callTargets[target] = struct{}{}
				}
			}
		}
	}

	var sortedTargets []uint64
	for t := range callTargets {
		sortedTargets = append(sortedTargets, t)
	}
	sort.Slice(sortedTargets, func(i, j int) bool { return sortedTargets[i] < sortedTargets[j] })

	seen := map[uint64]struct{}{}
	var functions []Function

	for _, entryAddr := range sortedTargets {
		if _, ok := seen[entryAddr]; ok {
			continue
		}
		if _, ok := blocks[entryAddr]; !ok {
			continue
		}

		visited := map[uint64]struct{}{}
		worklist := []uint64{entryAddr}
		var funcBlocks []uint64

		for len(worklist) > 0 {
			addr := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			if _, ok := visited[addr]; ok {
				continue
			}
			visited[addr] = struct{}{}

			block, ok := blocks[addr]
			if !ok {
				continue
			}
			funcBlocks = append(funcBlocks, addr)
			for _, succ := range block.Successors {
				if _, isCallTarget := callTargets[succ]; !isCallTarget || succ == entryAddr {
					worklist = append(worklist, succ)
				}
			}
		}

		sort.Slice(funcBlocks, func(i, j int) bool { return funcBlocks[i] < funcBlocks[j] })
		if b, ok := blocks[entryAddr]; ok {
			b.IsFunctionEntry = true
		}
		for addr := range visited {
			seen[addr] = struct{}{}
		}

		functions = append(functions, Function{
			Entry:  entryAddr,
			Name:   fmt.Sprintf("func_%x", entryAddr),
			Blocks: funcBlocks,
		})
	}

	return functions
}
