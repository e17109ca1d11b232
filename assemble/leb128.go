package assemble

import "bytes"

// writeU32 writes an unsigned LEB128 value.
func writeU32(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// writeU64 writes an unsigned 64-bit LEB128 value.
func writeU64(w *bytes.Buffer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// writeS32 writes a signed LEB128 value.
func writeS32(w *bytes.Buffer, v int32) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.WriteByte(b)
	}
}

// writeS64 writes a signed 64-bit LEB128 value.
func writeS64(w *bytes.Buffer, v int64) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.WriteByte(b)
	}
}

// writeName writes a length-prefixed UTF-8 string.
func writeName(w *bytes.Buffer, s string) {
	writeU32(w, uint32(len(s)))
	w.WriteString(s)
}

// withSizePrefix runs fill against a scratch buffer and appends its
// length-prefixed contents to w; every Wasm section and code entry is
// framed this way.
func withSizePrefix(w *bytes.Buffer, fill func(*bytes.Buffer)) {
	var body bytes.Buffer
	fill(&body)
	writeU32(w, uint32(body.Len()))
	w.Write(body.Bytes())
}
