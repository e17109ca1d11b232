package riscv

import "testing"

func TestDecode32BitBasics(t *testing.T) {
	cases := []struct {
		name string
		raw  uint32
		want Opcode
		rd   int
		rs1  int
		imm  int64
	}{
		{"addi x5,x0,7", 0x00700293, ADDI, 5, 0, 7},
		{"add x1,x2,x3", 0x003100b3, ADD, 1, 2, 0},
		{"lui x1,0x10", 0x000000b7 | (0x10 << 12), LUI, 1, 2, 0x10 << 12}, // bits 19:15 carry imm bits here
		{"jal x1,0", 0x000000ef, JAL, 1, 0, 0},
		{"ecall", 0x00000073, ECALL, 0, 0, 0},
		{"ebreak", 0x00100073, EBREAK, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := decode32(0x1000, tc.raw)
			if in.Op != tc.want {
				t.Fatalf("op = %v, want %v", in.Op, tc.want)
			}
			if in.Len != 4 {
				t.Fatalf("len = %d, want 4", in.Len)
			}
			if in.Rd != tc.rd {
				t.Fatalf("rd = %d, want %d", in.Rd, tc.rd)
			}
			if in.Rs1 != tc.rs1 {
				t.Fatalf("rs1 = %d, want %d", in.Rs1, tc.rs1)
			}
		})
	}
}

func TestDecodeUnknownWordIsUnknown(t *testing.T) {
	in := decode32(0x2000, 0x00000000)
	if in.Op != Unknown {
		t.Fatalf("op = %v, want Unknown", in.Op)
	}
}

func TestDecodeCompressedAddi4Spn(t *testing.T) {
	// c.addi4spn x8, sp, 4 -> 0b000_00000010_000_00
	raw := uint32(0x0040)
	in := decodeCompressed(0x1000, raw)
	if in.Op != C_ADDI4SPN {
		t.Fatalf("op = %v, want C_ADDI4SPN", in.Op)
	}
	if in.Rd != 8 || in.Rs1 != 2 {
		t.Fatalf("rd/rs1 = %d/%d, want 8/2", in.Rd, in.Rs1)
	}
}

func TestDecodeStopsAtTruncatedTail(t *testing.T) {
	// A two-byte tail of a would-be 4-byte instruction (low bits 11)
	// must not be emitted as a partial record.
	code := []byte{0x13, 0x00} // 0x0013 has low bits 11? 0x13&0x3 == 3: base form needs 4 bytes
	out := Decode(code, 0x1000)
	if len(out) != 0 {
		t.Fatalf("got %d instructions from a truncated base form, want 0", len(out))
	}
}

func TestDecodeTotalityConsumesWholeInput(t *testing.T) {
	// addi x5,x0,7 (4 bytes) followed by c.nop (2 bytes).
	code := []byte{0x93, 0x02, 0x70, 0x00, 0x01, 0x00}
	out := Decode(code, 0x1000)
	if len(out) != 2 {
		t.Fatalf("got %d instructions, want 2", len(out))
	}
	if out[0].Len != 4 || out[1].Len != 2 {
		t.Fatalf("lengths = %d,%d want 4,2", out[0].Len, out[1].Len)
	}
	if out[1].Addr != 0x1004 {
		t.Fatalf("second addr = %x, want 0x1004", out[1].Addr)
	}
}

func TestOpcodePredicates(t *testing.T) {
	if !BEQ.IsBranch() || BEQ.IsJump() {
		t.Fatalf("BEQ predicates wrong")
	}
	if !JAL.IsJump() || JAL.IsBranch() {
		t.Fatalf("JAL predicates wrong")
	}
	if !ECALL.IsSyscallLike() || !ECALL.IsTerminator() {
		t.Fatalf("ECALL predicates wrong")
	}
	if !BEQ.IsTerminator() || !JALR.IsTerminator() {
		t.Fatalf("terminator predicates wrong")
	}
}
