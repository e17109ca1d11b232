package assemble

import "bytes"

// Strategy names the algorithm chosen to map a guest PC to a block's
// table index. The choice is purely a density question over the
// address set; all three compute the same function.
type Strategy string

const (
	StrategyDense   Strategy = "dense"    // contiguous addr = min + i*stride, no gaps
	StrategyBrTable Strategy = "br_table" // bounded-sparse, encoded as a Wasm jump table
	StrategyIfChain Strategy = "if_chain" // irregular or too sparse to tabulate
)

// brTableSlotLimit bounds how large a jump table choosePlan will build
// before falling back to an if-chain; a pathological span (e.g. one 2-byte
// and one 4-byte instruction alternating over a huge range) would
// otherwise emit a table with more padding than content.
const brTableSlotLimit = 1 << 16

// plan is the resolved dispatch strategy and its derived parameters.
type plan struct {
	strategy Strategy
	min      uint64
	stride   uint64
	span     uint64 // number of slots = (max-min)/stride + 1
	slotFunc []int  // slotFunc[i] = func index at that slot, or -1
}

func choosePlan(addrs []uint64) plan {
	if len(addrs) == 0 {
		return plan{strategy: StrategyIfChain}
	}
	if len(addrs) == 1 {
		return plan{strategy: StrategyIfChain}
	}

	min, max := addrs[0], addrs[0]
	for _, a := range addrs {
		if a < min {
			min = a
		}
		if a > max {
			max = a
		}
	}

	stride := uint64(0)
	for i := 1; i < len(addrs); i++ {
		d := addrs[i] - addrs[i-1]
		stride = gcd(stride, d)
	}
	if stride == 0 {
		return plan{strategy: StrategyIfChain}
	}

	span := (max-min)/stride + 1
	if span > brTableSlotLimit {
		return plan{strategy: StrategyIfChain}
	}

	slotFunc := make([]int, span)
	for i := range slotFunc {
		slotFunc[i] = -1
	}
	for idx, a := range addrs {
		slotFunc[(a-min)/stride] = idx
	}

	strategy := StrategyBrTable
	if span == uint64(len(addrs)) {
		strategy = StrategyDense
	}
	return plan{strategy: strategy, min: min, stride: stride, span: span, slotFunc: slotFunc}
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// encodeDispatchIndex emits a function of type (i32 pc) -> (i32 index)
// that returns the Funcs index for pc, or -1 if pc matches no block.
func encodeDispatchIndex(addrs []uint64, p plan) []byte {
	var body bytes.Buffer

	switch p.strategy {
	case StrategyDense, StrategyBrTable:
		encodeBrTableDispatch(&body, p)
	default:
		encodeIfChainDispatch(&body, addrs)
	}
	body.WriteByte(wasmEnd)
	return body.Bytes()
}

func encodeBrTableDispatch(w *bytes.Buffer, p plan) {
	n := len(p.slotFunc)

	// local.get 0 (pc); i32.const min; i32.sub; i32.const stride; i32.div_u -> slot
	pushSlot := func(w *bytes.Buffer) {
		w.WriteByte(wasmLocalGet)
		writeU32(w, 0)
		w.WriteByte(wasmI32Const)
		writeS32(w, int32(uint32(p.min)))
		w.WriteByte(wasmI32Sub)
		if p.stride != 1 {
			w.WriteByte(wasmI32Const)
			writeS32(w, int32(uint32(p.stride)))
			w.WriteByte(wasmI32DivU)
		}
	}

	// TOP block wraps everything; DEFAULT block catches unmapped slots
	// and out-of-range br_table targets. br_table carries no value, so
	// DEFAULT and the slot blocks are void; only TOP yields the i32.
	w.WriteByte(wasmBlock)
	w.WriteByte(0x7F) // result i32 (TOP)
	w.WriteByte(wasmBlock)
	w.WriteByte(0x40) // void (DEFAULT)
	for i := n - 1; i >= 0; i-- {
		w.WriteByte(wasmBlock)
		w.WriteByte(0x40)
	}

	pushSlot(w)
	w.WriteByte(wasmBrTable)
	writeU32(w, uint32(n)) // vector length (excludes default)
	for i := 0; i < n; i++ {
		writeU32(w, uint32(i))
	}
	writeU32(w, uint32(n)) // default label depth

	for i := 0; i < n; i++ {
		w.WriteByte(wasmEnd)
		w.WriteByte(wasmI32Const)
		writeS32(w, int32(int64(p.slotFunc[i])))
		w.WriteByte(wasmBr)
		writeU32(w, uint32(n-i)) // branch out to TOP
	}

	w.WriteByte(wasmEnd) // end DEFAULT
	w.WriteByte(wasmI32Const)
	writeS32(w, -1)
	w.WriteByte(wasmEnd) // end TOP
}

func encodeIfChainDispatch(w *bytes.Buffer, addrs []uint64) {
	encodeIfChainStep(w, addrs, 0)
}

func encodeIfChainStep(w *bytes.Buffer, addrs []uint64, idx int) {
	if idx == len(addrs) {
		w.WriteByte(wasmI32Const)
		writeS32(w, -1)
		return
	}
	w.WriteByte(wasmLocalGet)
	writeU32(w, 0)
	w.WriteByte(wasmI32Const)
	writeS32(w, int32(uint32(addrs[idx])))
	w.WriteByte(wasmI32Eq)
	w.WriteByte(wasmIf)
	w.WriteByte(0x7F)
	w.WriteByte(wasmI32Const)
	writeS32(w, int32(idx))
	w.WriteByte(wasmElse)
	encodeIfChainStep(w, addrs, idx+1)
	w.WriteByte(wasmEnd)
}
