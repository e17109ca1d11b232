package lower

import "github.com/rv2wasm/rv2wasm/ir"

// optimize runs a small fixed-point peephole pass over a block's op
// sequence. It is conservative: each rewrite only fires on an exact
// adjacent-op shape, never reordering or speculating across branches
// (blocks have none internally -- lowerTerminator is always last).
func optimize(ops []ir.Op) []ir.Op {
	for {
		next, changed := foldLocalTee(ops)
		next, c2 := foldConstBinOp(next)
		changed = changed || c2
		ops = next
		if !changed {
			return ops
		}
	}
}

// foldLocalTee rewrites `local.set $x; local.get $x` into `local.tee $x`,
// which both value-forwarding store/reload pairs produced by the lowerer
// (stash-then-reread of a scratch local) collapse to.
func foldLocalTee(ops []ir.Op) ([]ir.Op, bool) {
	out := make([]ir.Op, 0, len(ops))
	changed := false
	for i := 0; i < len(ops); i++ {
		if i+1 < len(ops) &&
			ops[i].Kind == ir.OpLocalSet && ops[i+1].Kind == ir.OpLocalGet &&
			ops[i].Local == ops[i+1].Local {
			out = append(out, ir.Op{Kind: ir.OpLocalTee, Local: ops[i].Local})
			i++
			changed = true
			continue
		}
		out = append(out, ops[i])
	}
	return out, changed
}

// foldConstBinOp folds `i64.const a; i64.const b; <binop>` triples into a
// single constant when the operator is a pure, side-effect-free integer
// arithmetic or bitwise op.
func foldConstBinOp(ops []ir.Op) ([]ir.Op, bool) {
	out := make([]ir.Op, 0, len(ops))
	changed := false
	for i := 0; i < len(ops); i++ {
		if i+2 < len(ops) &&
			ops[i].Kind == ir.OpI64Const && ops[i+1].Kind == ir.OpI64Const {
			if v, ok := foldI64(ops[i+2].Kind, ops[i].I64, ops[i+1].I64); ok {
				out = append(out, ir.Op{Kind: ir.OpI64Const, I64: v})
				i += 2
				changed = true
				continue
			}
		}
		out = append(out, ops[i])
	}
	return out, changed
}

func foldI64(kind ir.OpKind, a, b int64) (int64, bool) {
	switch kind {
	case ir.OpAdd:
		return a + b, true
	case ir.OpSub:
		return a - b, true
	case ir.OpAnd:
		return a & b, true
	case ir.OpOr:
		return a | b, true
	case ir.OpXor:
		return a ^ b, true
	}
	return 0, false
}
