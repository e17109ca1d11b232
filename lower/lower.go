package lower

import (
	"fmt"
	"sort"

	"github.com/rv2wasm/rv2wasm/cfg"
	"github.com/rv2wasm/rv2wasm/ir"
)

// Lower translates every basic block in g into a standalone Wasm function
// of signature (param i32) (result i32): the parameter is the i32 base
// address of the guest machine-state memory region, the result is the
// next guest PC (or an escape-coded PC) to dispatch to.
func Lower(g *cfg.Graph) *ir.Module {
	mod := &ir.Module{
		EntryPC:    g.Entry,
		BlockIndex: make(map[uint64]int),
	}

	order := append([]uint64(nil), g.Order...)
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	for i, addr := range order {
		mod.BlockIndex[addr] = i
		mod.BlockOrder = append(mod.BlockOrder, addr)
	}

	for _, addr := range order {
		blk := g.Blocks[addr]
		mod.Funcs = append(mod.Funcs, lowerBlock(blk))
	}

	return mod
}

func lowerBlock(blk *cfg.BasicBlock) ir.Func {
	b := newBuilder()

	term, hasTerm := blk.Terminator()
	for i, in := range blk.Instructions {
		isLast := i == len(blk.Instructions)-1
		if isLast && hasTerm && in.Addr == term.Addr && in.Op.IsTerminator() {
			continue // terminator handled separately below
		}
		lowerBody(b, in)
	}
	lowerTerminator(b, blk)

	return ir.Func{
		Name:      fmt.Sprintf("block_%x", blk.StartAddr),
		BlockAddr: blk.StartAddr,
		Locals:    b.locals,
		Body:      optimize(b.ops),
		IsEntry:   blk.IsFunctionEntry,
	}
}
