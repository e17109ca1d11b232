package riscv

// decodeCompressed decodes a 16-bit RVC instruction, expanding the 3-bit
// register abbreviations (x8..x15) by adding 8.
func decodeCompressed(addr uint64, raw uint32) Instruction {
	in := Instruction{Addr: addr, Raw: raw, Len: 2, Rd: NoReg, Rs1: NoReg, Rs2: NoReg}
	quadrant := raw & 0x3
	funct3 := (raw >> 13) & 0x7

	switch [2]uint32{quadrant, funct3} {
	case [2]uint32{0, 0}:
		in.Op = C_ADDI4SPN
		in.Rd = int((raw>>2)&0x7) + 8
		in.Rs1 = 2
		in.HasImm, in.Imm = true, decodeCIWImm(raw)
	case [2]uint32{0, 2}:
		in.Op = C_LW
		in.Rd = int((raw>>2)&0x7) + 8
		in.Rs1 = int((raw>>7)&0x7) + 8
		in.HasImm, in.Imm = true, decodeCLImmW(raw)
	case [2]uint32{0, 3}:
		in.Op = C_LD
		in.Rd = int((raw>>2)&0x7) + 8
		in.Rs1 = int((raw>>7)&0x7) + 8
		in.HasImm, in.Imm = true, decodeCLImmD(raw)
	case [2]uint32{0, 6}:
		in.Op = C_SW
		in.Rs2 = int((raw>>2)&0x7) + 8
		in.Rs1 = int((raw>>7)&0x7) + 8
		in.HasImm, in.Imm = true, decodeCLImmW(raw)
	case [2]uint32{0, 7}:
		in.Op = C_SD
		in.Rs2 = int((raw>>2)&0x7) + 8
		in.Rs1 = int((raw>>7)&0x7) + 8
		in.HasImm, in.Imm = true, decodeCLImmD(raw)

	case [2]uint32{1, 0}:
		rd := int((raw >> 7) & 0x1f)
		if rd == 0 {
			in.Op = C_NOP
		} else {
			in.Op = C_ADDI
			in.Rd, in.Rs1 = rd, rd
			in.HasImm, in.Imm = true, decodeCIImm(raw)
		}
	case [2]uint32{1, 1}:
		rd := int((raw >> 7) & 0x1f)
		in.Op = C_ADDIW
		in.Rd, in.Rs1 = rd, rd
		in.HasImm, in.Imm = true, decodeCIImm(raw)
	case [2]uint32{1, 2}:
		rd := int((raw >> 7) & 0x1f)
		in.Op = C_LI
		in.Rd, in.Rs1 = rd, 0
		in.HasImm, in.Imm = true, decodeCIImm(raw)
	case [2]uint32{1, 3}:
		rd := int((raw >> 7) & 0x1f)
		if rd == 2 {
			in.Op = C_ADDI16SP
			in.Rd, in.Rs1 = 2, 2
			in.HasImm, in.Imm = true, decodeAddi16spImm(raw)
		} else {
			in.Op = C_LUI
			in.Rd = rd
			in.HasImm, in.Imm = true, decodeCILuiImm(raw)
		}
	case [2]uint32{1, 4}:
		rd := int((raw>>7)&0x7) + 8
		funct2 := (raw >> 10) & 0x3
		switch funct2 {
		case 0:
			in.Op = C_SRLI
			in.Rd, in.Rs1 = rd, rd
			in.HasImm, in.Imm = true, decodeCIShamt(raw)
		case 1:
			in.Op = C_SRAI
			in.Rd, in.Rs1 = rd, rd
			in.HasImm, in.Imm = true, decodeCIShamt(raw)
		case 2:
			in.Op = C_ANDI
			in.Rd, in.Rs1 = rd, rd
			in.HasImm, in.Imm = true, decodeCIImm(raw)
		case 3:
			rs2 := int((raw>>2)&0x7) + 8
			funct := (raw >> 5) & 0x3
			funct12 := (raw >> 12) & 0x1
			in.Rd, in.Rs1, in.Rs2 = rd, rd, rs2
			switch [2]uint32{funct12, funct} {
			case [2]uint32{0, 0}:
				in.Op = C_SUB
			case [2]uint32{0, 1}:
				in.Op = C_XOR
			case [2]uint32{0, 2}:
				in.Op = C_OR
			case [2]uint32{0, 3}:
				in.Op = C_AND
			case [2]uint32{1, 0}:
				in.Op = C_SUBW
			case [2]uint32{1, 1}:
				in.Op = C_ADDW
			default:
				in.Op = Unknown
			}
		}
	case [2]uint32{1, 5}:
		in.Op = C_J
		in.Rd = 0
		in.HasImm, in.Imm = true, decodeCJImm(raw)
	case [2]uint32{1, 6}:
		in.Op = C_BEQZ
		in.Rs1, in.Rs2 = int((raw>>7)&0x7)+8, 0
		in.HasImm, in.Imm = true, decodeCBImm(raw)
	case [2]uint32{1, 7}:
		in.Op = C_BNEZ
		in.Rs1, in.Rs2 = int((raw>>7)&0x7)+8, 0
		in.HasImm, in.Imm = true, decodeCBImm(raw)

	case [2]uint32{2, 0}:
		rd := int((raw >> 7) & 0x1f)
		in.Op = C_SLLI
		in.Rd, in.Rs1 = rd, rd
		in.HasImm, in.Imm = true, decodeCIShamt(raw)
	case [2]uint32{2, 2}:
		in.Op = C_LWSP
		in.Rd, in.Rs1 = int((raw>>7)&0x1f), 2
		in.HasImm, in.Imm = true, decodeCILwspImm(raw)
	case [2]uint32{2, 3}:
		in.Op = C_LDSP
		in.Rd, in.Rs1 = int((raw>>7)&0x1f), 2
		in.HasImm, in.Imm = true, decodeCILdspImm(raw)
	case [2]uint32{2, 4}:
		rs1 := int((raw >> 7) & 0x1f)
		rs2 := int((raw >> 2) & 0x1f)
		bit12 := (raw >> 12) & 0x1
		if bit12 == 0 {
			if rs2 == 0 {
				in.Op = C_JR
				in.Rd, in.Rs1 = 0, rs1
				in.HasImm, in.Imm = true, 0
			} else {
				in.Op = C_MV
				in.Rd, in.Rs1, in.Rs2 = rs1, 0, rs2
			}
		} else if rs2 == 0 {
			if rs1 == 0 {
				in.Op = C_EBREAK
			} else {
				in.Op = C_JALR
				in.Rd, in.Rs1 = 1, rs1
				in.HasImm, in.Imm = true, 0
			}
		} else {
			in.Op = C_ADD
			in.Rd, in.Rs1, in.Rs2 = rs1, rs1, rs2
		}
	case [2]uint32{2, 6}:
		in.Op = C_SWSP
		in.Rs1, in.Rs2 = 2, int((raw>>2)&0x1f)
		in.HasImm, in.Imm = true, decodeCSSImmW(raw)
	case [2]uint32{2, 7}:
		in.Op = C_SDSP
		in.Rs1, in.Rs2 = 2, int((raw>>2)&0x1f)
		in.HasImm, in.Imm = true, decodeCSSImmD(raw)

	default:
		in.Op = Unknown
	}
	return in
}

func decodeCIImm(raw uint32) int64 {
	imm5 := (raw >> 12) & 0x1
	imm4_0 := (raw >> 2) & 0x1f
	imm := (imm5 << 5) | imm4_0
	return int64(int32(imm<<26) >> 26)
}

func decodeCIShamt(raw uint32) int64 {
	shamt5 := (raw >> 12) & 0x1
	shamt4_0 := (raw >> 2) & 0x1f
	return int64((shamt5 << 5) | shamt4_0)
}

func decodeCILuiImm(raw uint32) int64 {
	imm17 := (raw >> 12) & 0x1
	imm16_12 := (raw >> 2) & 0x1f
	imm := (imm17 << 17) | (imm16_12 << 12)
	return int64(int32(imm<<14) >> 14)
}

func decodeCILwspImm(raw uint32) int64 {
	imm5 := (raw >> 12) & 0x1
	imm4_2 := (raw >> 4) & 0x7
	imm7_6 := (raw >> 2) & 0x3
	return int64((imm5 << 5) | (imm4_2 << 2) | (imm7_6 << 6))
}

func decodeCILdspImm(raw uint32) int64 {
	imm5 := (raw >> 12) & 0x1
	imm4_3 := (raw >> 5) & 0x3
	imm8_6 := (raw >> 2) & 0x7
	return int64((imm5 << 5) | (imm4_3 << 3) | (imm8_6 << 6))
}

func decodeCSSImmW(raw uint32) int64 {
	imm5_2 := (raw >> 9) & 0xf
	imm7_6 := (raw >> 7) & 0x3
	return int64((imm5_2 << 2) | (imm7_6 << 6))
}

func decodeCSSImmD(raw uint32) int64 {
	imm5_3 := (raw >> 10) & 0x7
	imm8_6 := (raw >> 7) & 0x7
	return int64((imm5_3 << 3) | (imm8_6 << 6))
}

func decodeCIWImm(raw uint32) int64 {
	imm5_4 := (raw >> 11) & 0x3
	imm9_6 := (raw >> 7) & 0xf
	imm2 := (raw >> 6) & 0x1
	imm3 := (raw >> 5) & 0x1
	return int64((imm5_4 << 4) | (imm9_6 << 6) | (imm2 << 2) | (imm3 << 3))
}

func decodeCLImmW(raw uint32) int64 {
	imm5_3 := (raw >> 10) & 0x7
	imm2 := (raw >> 6) & 0x1
	imm6 := (raw >> 5) & 0x1
	return int64((imm5_3 << 3) | (imm2 << 2) | (imm6 << 6))
}

func decodeCLImmD(raw uint32) int64 {
	imm5_3 := (raw >> 10) & 0x7
	imm7_6 := (raw >> 5) & 0x3
	return int64((imm5_3 << 3) | (imm7_6 << 6))
}

func decodeCBImm(raw uint32) int64 {
	imm8 := (raw >> 12) & 0x1
	imm4_3 := (raw >> 10) & 0x3
	imm7_6 := (raw >> 5) & 0x3
	imm2_1 := (raw >> 3) & 0x3
	imm5 := (raw >> 2) & 0x1
	imm := (imm8 << 8) | (imm4_3 << 3) | (imm7_6 << 6) | (imm2_1 << 1) | (imm5 << 5)
	return int64(int32(imm<<23) >> 23)
}

func decodeCJImm(raw uint32) int64 {
	imm11 := (raw >> 12) & 0x1
	imm4 := (raw >> 11) & 0x1
	imm9_8 := (raw >> 9) & 0x3
	imm10 := (raw >> 8) & 0x1
	imm6 := (raw >> 7) & 0x1
	imm7 := (raw >> 6) & 0x1
	imm3_1 := (raw >> 3) & 0x7
	imm5 := (raw >> 2) & 0x1
	imm := (imm11 << 11) | (imm10 << 10) | (imm9_8 << 8) | (imm7 << 7) |
		(imm6 << 6) | (imm5 << 5) | (imm4 << 4) | (imm3_1 << 1)
	return int64(int32(imm<<20) >> 20)
}

func decodeAddi16spImm(raw uint32) int64 {
	imm9 := (raw >> 12) & 0x1
	imm4 := (raw >> 6) & 0x1
	imm6 := (raw >> 5) & 0x1
	imm8_7 := (raw >> 3) & 0x3
	imm5 := (raw >> 2) & 0x1
	imm := (imm9 << 9) | (imm8_7 << 7) | (imm6 << 6) | (imm5 << 5) | (imm4 << 4)
	return int64(int32(imm<<22) >> 22)
}
