package cpu

// instructionTable is the immutable 256-entry opcode decode table. Unused
// opcodes fall back to the KIL entry's metadata; execute() handles them via
// the same halt path as the documented KIL/JAM opcodes.
var instructionTable [256]Instruction

func op(code uint8, name string, mode AddressingMode, bytes, cycles uint8) {
	instructionTable[code] = Instruction{Name: name, Mode: mode, Bytes: bytes, Cycles: cycles}
}

func init() {
	for i := range instructionTable {
		instructionTable[i] = Instruction{Name: "KIL", Mode: Implied, Bytes: 1, Cycles: 2}
	}

	// Load/store.
	op(0xA9, "LDA", Immediate, 2, 2)
	op(0xA5, "LDA", ZeroPage, 2, 3)
	op(0xB5, "LDA", ZeroPageX, 2, 4)
	op(0xAD, "LDA", Absolute, 3, 4)
	op(0xBD, "LDA", AbsoluteX, 3, 4)
	op(0xB9, "LDA", AbsoluteY, 3, 4)
	op(0xA1, "LDA", IndexedIndirect, 2, 6)
	op(0xB1, "LDA", IndirectIndexed, 2, 5)

	op(0xA2, "LDX", Immediate, 2, 2)
	op(0xA6, "LDX", ZeroPage, 2, 3)
	op(0xB6, "LDX", ZeroPageY, 2, 4)
	op(0xAE, "LDX", Absolute, 3, 4)
	op(0xBE, "LDX", AbsoluteY, 3, 4)

	op(0xA0, "LDY", Immediate, 2, 2)
	op(0xA4, "LDY", ZeroPage, 2, 3)
	op(0xB4, "LDY", ZeroPageX, 2, 4)
	op(0xAC, "LDY", Absolute, 3, 4)
	op(0xBC, "LDY", AbsoluteX, 3, 4)

	op(0x85, "STA", ZeroPage, 2, 3)
	op(0x95, "STA", ZeroPageX, 2, 4)
	op(0x8D, "STA", Absolute, 3, 4)
	op(0x9D, "STA", AbsoluteX, 3, 5)
	op(0x99, "STA", AbsoluteY, 3, 5)
	op(0x81, "STA", IndexedIndirect, 2, 6)
	op(0x91, "STA", IndirectIndexed, 2, 6)

	op(0x86, "STX", ZeroPage, 2, 3)
	op(0x96, "STX", ZeroPageY, 2, 4)
	op(0x8E, "STX", Absolute, 3, 4)

	op(0x84, "STY", ZeroPage, 2, 3)
	op(0x94, "STY", ZeroPageX, 2, 4)
	op(0x8C, "STY", Absolute, 3, 4)

	// Arithmetic.
	op(0x69, "ADC", Immediate, 2, 2)
	op(0x65, "ADC", ZeroPage, 2, 3)
	op(0x75, "ADC", ZeroPageX, 2, 4)
	op(0x6D, "ADC", Absolute, 3, 4)
	op(0x7D, "ADC", AbsoluteX, 3, 4)
	op(0x79, "ADC", AbsoluteY, 3, 4)
	op(0x61, "ADC", IndexedIndirect, 2, 6)
	op(0x71, "ADC", IndirectIndexed, 2, 5)

	op(0xE9, "SBC", Immediate, 2, 2)
	op(0xEB, "SBC", Immediate, 2, 2) // unofficial duplicate
	op(0xE5, "SBC", ZeroPage, 2, 3)
	op(0xF5, "SBC", ZeroPageX, 2, 4)
	op(0xED, "SBC", Absolute, 3, 4)
	op(0xFD, "SBC", AbsoluteX, 3, 4)
	op(0xF9, "SBC", AbsoluteY, 3, 4)
	op(0xE1, "SBC", IndexedIndirect, 2, 6)
	op(0xF1, "SBC", IndirectIndexed, 2, 5)

	// Logical.
	op(0x29, "AND", Immediate, 2, 2)
	op(0x25, "AND", ZeroPage, 2, 3)
	op(0x35, "AND", ZeroPageX, 2, 4)
	op(0x2D, "AND", Absolute, 3, 4)
	op(0x3D, "AND", AbsoluteX, 3, 4)
	op(0x39, "AND", AbsoluteY, 3, 4)
	op(0x21, "AND", IndexedIndirect, 2, 6)
	op(0x31, "AND", IndirectIndexed, 2, 5)

	op(0x09, "ORA", Immediate, 2, 2)
	op(0x05, "ORA", ZeroPage, 2, 3)
	op(0x15, "ORA", ZeroPageX, 2, 4)
	op(0x0D, "ORA", Absolute, 3, 4)
	op(0x1D, "ORA", AbsoluteX, 3, 4)
	op(0x19, "ORA", AbsoluteY, 3, 4)
	op(0x01, "ORA", IndexedIndirect, 2, 6)
	op(0x11, "ORA", IndirectIndexed, 2, 5)

	op(0x49, "EOR", Immediate, 2, 2)
	op(0x45, "EOR", ZeroPage, 2, 3)
	op(0x55, "EOR", ZeroPageX, 2, 4)
	op(0x4D, "EOR", Absolute, 3, 4)
	op(0x5D, "EOR", AbsoluteX, 3, 4)
	op(0x59, "EOR", AbsoluteY, 3, 4)
	op(0x41, "EOR", IndexedIndirect, 2, 6)
	op(0x51, "EOR", IndirectIndexed, 2, 5)

	// Shift/rotate.
	op(0x0A, "ASL", Accumulator, 1, 2)
	op(0x06, "ASL", ZeroPage, 2, 5)
	op(0x16, "ASL", ZeroPageX, 2, 6)
	op(0x0E, "ASL", Absolute, 3, 6)
	op(0x1E, "ASL", AbsoluteX, 3, 7)

	op(0x4A, "LSR", Accumulator, 1, 2)
	op(0x46, "LSR", ZeroPage, 2, 5)
	op(0x56, "LSR", ZeroPageX, 2, 6)
	op(0x4E, "LSR", Absolute, 3, 6)
	op(0x5E, "LSR", AbsoluteX, 3, 7)

	op(0x2A, "ROL", Accumulator, 1, 2)
	op(0x26, "ROL", ZeroPage, 2, 5)
	op(0x36, "ROL", ZeroPageX, 2, 6)
	op(0x2E, "ROL", Absolute, 3, 6)
	op(0x3E, "ROL", AbsoluteX, 3, 7)

	op(0x6A, "ROR", Accumulator, 1, 2)
	op(0x66, "ROR", ZeroPage, 2, 5)
	op(0x76, "ROR", ZeroPageX, 2, 6)
	op(0x6E, "ROR", Absolute, 3, 6)
	op(0x7E, "ROR", AbsoluteX, 3, 7)

	// Compare.
	op(0xC9, "CMP", Immediate, 2, 2)
	op(0xC5, "CMP", ZeroPage, 2, 3)
	op(0xD5, "CMP", ZeroPageX, 2, 4)
	op(0xCD, "CMP", Absolute, 3, 4)
	op(0xDD, "CMP", AbsoluteX, 3, 4)
	op(0xD9, "CMP", AbsoluteY, 3, 4)
	op(0xC1, "CMP", IndexedIndirect, 2, 6)
	op(0xD1, "CMP", IndirectIndexed, 2, 5)

	op(0xE0, "CPX", Immediate, 2, 2)
	op(0xE4, "CPX", ZeroPage, 2, 3)
	op(0xEC, "CPX", Absolute, 3, 4)

	op(0xC0, "CPY", Immediate, 2, 2)
	op(0xC4, "CPY", ZeroPage, 2, 3)
	op(0xCC, "CPY", Absolute, 3, 4)

	// Inc/dec.
	op(0xE6, "INC", ZeroPage, 2, 5)
	op(0xF6, "INC", ZeroPageX, 2, 6)
	op(0xEE, "INC", Absolute, 3, 6)
	op(0xFE, "INC", AbsoluteX, 3, 7)

	op(0xC6, "DEC", ZeroPage, 2, 5)
	op(0xD6, "DEC", ZeroPageX, 2, 6)
	op(0xCE, "DEC", Absolute, 3, 6)
	op(0xDE, "DEC", AbsoluteX, 3, 7)

	op(0xE8, "INX", Implied, 1, 2)
	op(0xCA, "DEX", Implied, 1, 2)
	op(0xC8, "INY", Implied, 1, 2)
	op(0x88, "DEY", Implied, 1, 2)

	// Transfer.
	op(0xAA, "TAX", Implied, 1, 2)
	op(0x8A, "TXA", Implied, 1, 2)
	op(0xA8, "TAY", Implied, 1, 2)
	op(0x98, "TYA", Implied, 1, 2)
	op(0xBA, "TSX", Implied, 1, 2)
	op(0x9A, "TXS", Implied, 1, 2)

	// Stack.
	op(0x48, "PHA", Implied, 1, 3)
	op(0x68, "PLA", Implied, 1, 4)
	op(0x08, "PHP", Implied, 1, 3)
	op(0x28, "PLP", Implied, 1, 4)

	// Flags.
	op(0x18, "CLC", Implied, 1, 2)
	op(0x38, "SEC", Implied, 1, 2)
	op(0x58, "CLI", Implied, 1, 2)
	op(0x78, "SEI", Implied, 1, 2)
	op(0xB8, "CLV", Implied, 1, 2)
	op(0xD8, "CLD", Implied, 1, 2)
	op(0xF8, "SED", Implied, 1, 2)

	// Control flow.
	op(0x4C, "JMP", Absolute, 3, 3)
	op(0x6C, "JMP", Indirect, 3, 5)
	op(0x20, "JSR", Absolute, 3, 6)
	op(0x60, "RTS", Implied, 1, 6)
	op(0x40, "RTI", Implied, 1, 6)
	op(0x00, "BRK", Implied, 2, 7)

	// Branches: base 2 cycles, +1 taken, +1 more if taken across a page.
	op(0x90, "BCC", Relative, 2, 2)
	op(0xB0, "BCS", Relative, 2, 2)
	op(0xD0, "BNE", Relative, 2, 2)
	op(0xF0, "BEQ", Relative, 2, 2)
	op(0x10, "BPL", Relative, 2, 2)
	op(0x30, "BMI", Relative, 2, 2)
	op(0x50, "BVC", Relative, 2, 2)
	op(0x70, "BVS", Relative, 2, 2)

	op(0x24, "BIT", ZeroPage, 2, 3)
	op(0x2C, "BIT", Absolute, 3, 4)

	// Unofficial single-byte NOPs.
	for _, c := range []uint8{0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		op(c, "NOP", Implied, 1, 2)
	}
	// Unofficial immediate NOPs (SKB).
	for _, c := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		op(c, "NOP", Immediate, 2, 2)
	}
	// Unofficial zero-page NOPs (DOP).
	for _, c := range []uint8{0x04, 0x44, 0x64} {
		op(c, "NOP", ZeroPage, 2, 3)
	}
	for _, c := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		op(c, "NOP", ZeroPageX, 2, 4)
	}
	op(0x0C, "NOP", Absolute, 3, 4)
	for _, c := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		op(c, "NOP", AbsoluteX, 3, 4)
	}

	// Unofficial opcodes.
	op(0xA7, "LAX", ZeroPage, 2, 3)
	op(0xB7, "LAX", ZeroPageY, 2, 4)
	op(0xAF, "LAX", Absolute, 3, 4)
	op(0xBF, "LAX", AbsoluteY, 3, 4)
	op(0xA3, "LAX", IndexedIndirect, 2, 6)
	op(0xB3, "LAX", IndirectIndexed, 2, 5)

	op(0x87, "SAX", ZeroPage, 2, 3)
	op(0x97, "SAX", ZeroPageY, 2, 4)
	op(0x8F, "SAX", Absolute, 3, 4)
	op(0x83, "SAX", IndexedIndirect, 2, 6)

	op(0xC7, "DCP", ZeroPage, 2, 5)
	op(0xD7, "DCP", ZeroPageX, 2, 6)
	op(0xCF, "DCP", Absolute, 3, 6)
	op(0xDF, "DCP", AbsoluteX, 3, 7)
	op(0xDB, "DCP", AbsoluteY, 3, 7)
	op(0xC3, "DCP", IndexedIndirect, 2, 8)
	op(0xD3, "DCP", IndirectIndexed, 2, 8)

	op(0xE7, "ISB", ZeroPage, 2, 5)
	op(0xF7, "ISB", ZeroPageX, 2, 6)
	op(0xEF, "ISB", Absolute, 3, 6)
	op(0xFF, "ISB", AbsoluteX, 3, 7)
	op(0xFB, "ISB", AbsoluteY, 3, 7)
	op(0xE3, "ISB", IndexedIndirect, 2, 8)
	op(0xF3, "ISB", IndirectIndexed, 2, 8)

	op(0x07, "SLO", ZeroPage, 2, 5)
	op(0x17, "SLO", ZeroPageX, 2, 6)
	op(0x0F, "SLO", Absolute, 3, 6)
	op(0x1F, "SLO", AbsoluteX, 3, 7)
	op(0x1B, "SLO", AbsoluteY, 3, 7)
	op(0x03, "SLO", IndexedIndirect, 2, 8)
	op(0x13, "SLO", IndirectIndexed, 2, 8)

	op(0x27, "RLA", ZeroPage, 2, 5)
	op(0x37, "RLA", ZeroPageX, 2, 6)
	op(0x2F, "RLA", Absolute, 3, 6)
	op(0x3F, "RLA", AbsoluteX, 3, 7)
	op(0x3B, "RLA", AbsoluteY, 3, 7)
	op(0x23, "RLA", IndexedIndirect, 2, 8)
	op(0x33, "RLA", IndirectIndexed, 2, 8)

	op(0x47, "SRE", ZeroPage, 2, 5)
	op(0x57, "SRE", ZeroPageX, 2, 6)
	op(0x4F, "SRE", Absolute, 3, 6)
	op(0x5F, "SRE", AbsoluteX, 3, 7)
	op(0x5B, "SRE", AbsoluteY, 3, 7)
	op(0x43, "SRE", IndexedIndirect, 2, 8)
	op(0x53, "SRE", IndirectIndexed, 2, 8)

	op(0x67, "RRA", ZeroPage, 2, 5)
	op(0x77, "RRA", ZeroPageX, 2, 6)
	op(0x6F, "RRA", Absolute, 3, 6)
	op(0x7F, "RRA", AbsoluteX, 3, 7)
	op(0x7B, "RRA", AbsoluteY, 3, 7)
	op(0x63, "RRA", IndexedIndirect, 2, 8)
	op(0x73, "RRA", IndirectIndexed, 2, 8)

	op(0x0B, "ANC", Immediate, 2, 2)
	op(0x2B, "ANC", Immediate, 2, 2)
	op(0x4B, "ALR", Immediate, 2, 2)
	op(0x6B, "ARR", Immediate, 2, 2)
	op(0x8B, "XAA", Immediate, 2, 2)
	op(0xBB, "LAS", AbsoluteY, 3, 4)
	op(0x9B, "TAS", AbsoluteY, 3, 5)
	op(0x9F, "AHX", AbsoluteY, 3, 5)
	op(0x93, "AHX", IndirectIndexed, 2, 6)
	op(0x9C, "SHY", AbsoluteX, 3, 5)
	op(0x9E, "SHX", AbsoluteY, 3, 5)

	// KIL/JAM: halts the CPU on execution.
	for _, c := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		op(c, "KIL", Implied, 1, 2)
	}
}
