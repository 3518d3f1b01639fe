package cpu

// execute dispatches opcode against addr (already resolved by
// operandAddress) and returns any extra cycles beyond the table's base
// count: branch-taken/page-cross penalties, and the indexed-read page-cross
// penalty for the read instructions listed in readPagePenalty. Indexed
// stores and read-modify-write instructions pay their fixed extra cycle as
// part of the table's base count.
func (c *CPU) execute(opcode uint8, addr uint16, pageCrossed bool) uint8 {
	var extra uint8

	switch opcode {
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		c.lda(addr)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		c.ldx(addr)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		c.ldy(addr)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		c.sta(addr)
	case 0x86, 0x96, 0x8E:
		c.stx(addr)
	case 0x84, 0x94, 0x8C:
		c.sty(addr)

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		c.adc(addr)
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		c.sbc(addr)

	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		c.and(addr)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		c.ora(addr)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		c.eor(addr)

	case 0x0A:
		c.C = c.A&0x80 != 0
		c.A <<= 1
		c.setZN(c.A)
	case 0x06, 0x16, 0x0E, 0x1E:
		c.asl(addr)
	case 0x4A:
		c.C = c.A&0x01 != 0
		c.A >>= 1
		c.setZN(c.A)
	case 0x46, 0x56, 0x4E, 0x5E:
		c.lsr(addr)
	case 0x2A:
		old := c.C
		c.C = c.A&0x80 != 0
		c.A <<= 1
		if old {
			c.A |= 0x01
		}
		c.setZN(c.A)
	case 0x26, 0x36, 0x2E, 0x3E:
		c.rol(addr)
	case 0x6A:
		old := c.C
		c.C = c.A&0x01 != 0
		c.A >>= 1
		if old {
			c.A |= 0x80
		}
		c.setZN(c.A)
	case 0x66, 0x76, 0x6E, 0x7E:
		c.ror(addr)

	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		c.cmp(addr)
	case 0xE0, 0xE4, 0xEC:
		c.cpx(addr)
	case 0xC0, 0xC4, 0xCC:
		c.cpy(addr)

	case 0xE6, 0xF6, 0xEE, 0xFE:
		c.inc(addr)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		c.dec(addr)
	case 0xE8:
		c.X++
		c.setZN(c.X)
	case 0xCA:
		c.X--
		c.setZN(c.X)
	case 0xC8:
		c.Y++
		c.setZN(c.Y)
	case 0x88:
		c.Y--
		c.setZN(c.Y)

	case 0xAA:
		c.X = c.A
		c.setZN(c.X)
	case 0x8A:
		c.A = c.X
		c.setZN(c.A)
	case 0xA8:
		c.Y = c.A
		c.setZN(c.Y)
	case 0x98:
		c.A = c.Y
		c.setZN(c.A)
	case 0xBA:
		c.X = c.SP
		c.setZN(c.X)
	case 0x9A:
		c.SP = c.X

	case 0x48:
		c.push(c.A)
	case 0x68:
		c.A = c.pop()
		c.setZN(c.A)
	case 0x08:
		c.push(c.statusByte() | bFlagMask)
	case 0x28:
		c.setStatusByte(c.pop())

	case 0x18:
		c.C = false
	case 0x38:
		c.C = true
	case 0x58:
		c.I = false
	case 0x78:
		c.I = true
	case 0xB8:
		c.V = false
	case 0xD8:
		c.D = false
	case 0xF8:
		c.D = true

	case 0x4C, 0x6C:
		c.PC = addr
	case 0x20:
		c.pushWord(c.PC - 1)
		c.PC = addr
	case 0x60:
		c.PC = c.popWord() + 1
	case 0x40:
		c.setStatusByte(c.pop())
		c.PC = c.popWord()
	case 0x00:
		c.enterInterrupt(irqVector, true)

	case 0x90:
		extra += c.branch(!c.C, addr, pageCrossed)
	case 0xB0:
		extra += c.branch(c.C, addr, pageCrossed)
	case 0xD0:
		extra += c.branch(!c.Z, addr, pageCrossed)
	case 0xF0:
		extra += c.branch(c.Z, addr, pageCrossed)
	case 0x10:
		extra += c.branch(!c.N, addr, pageCrossed)
	case 0x30:
		extra += c.branch(c.N, addr, pageCrossed)
	case 0x50:
		extra += c.branch(!c.V, addr, pageCrossed)
	case 0x70:
		extra += c.branch(c.V, addr, pageCrossed)

	case 0x24, 0x2C:
		c.bit(addr)

	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA,
		0x80, 0x82, 0x89, 0xC2, 0xE2,
		0x04, 0x44, 0x64, 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4,
		0x0C, 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC:
		// NOP of whatever width; still reads the operand for bus fidelity.

	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF:
		c.lax(addr)
	case 0x83, 0x87, 0x8F, 0x97:
		c.sax(addr)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDF, 0xDB:
		c.dcp(addr)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFF, 0xFB:
		c.isb(addr)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1F, 0x1B:
		c.slo(addr)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3F, 0x3B:
		c.rla(addr)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5F, 0x5B:
		c.sre(addr)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7F, 0x7B:
		c.rra(addr)

	case 0x0B, 0x2B:
		c.anc(addr)
	case 0x4B:
		c.alr(addr)
	case 0x6B:
		c.arr(addr)
	case 0x8B:
		c.xaa(addr)
	case 0xBB:
		c.las(addr)
	case 0x9B:
		c.tas(addr)
	case 0x9F, 0x93:
		c.ahx(addr)
	case 0x9C:
		c.shy(addr)
	case 0x9E:
		c.shx(addr)

	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2:
		c.halted = true
		c.haltOpcode = opcode
		return extra
	default:
		c.halted = true
		c.haltOpcode = opcode
		return extra
	}

	if pageCrossed && readPagePenalty(opcode) {
		extra++
	}
	return extra
}

func (c *CPU) branch(taken bool, addr uint16, pageCrossed bool) uint8 {
	if !taken {
		return 0
	}
	c.PC = addr
	if pageCrossed {
		return 2
	}
	return 1
}

// readPagePenalty reports whether opcode is a read-type instruction that
// pays an extra cycle when its indexed addressing mode crosses a page.
func readPagePenalty(opcode uint8) bool {
	switch opcode {
	case 0xBD, 0xB9, 0xB1, 0xBE, 0xBC,
		0x7D, 0x79, 0x71, 0x3D, 0x39, 0x31,
		0x1D, 0x19, 0x11, 0x5D, 0x59, 0x51,
		0xDD, 0xD9, 0xD1, 0xFD, 0xF9, 0xF1,
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
		0xBF, 0xB3, 0xBB:
		return true
	default:
		return false
	}
}

func (c *CPU) lda(addr uint16) { c.A = c.mem.Read(addr); c.setZN(c.A) }
func (c *CPU) ldx(addr uint16) { c.X = c.mem.Read(addr); c.setZN(c.X) }
func (c *CPU) ldy(addr uint16) { c.Y = c.mem.Read(addr); c.setZN(c.Y) }
func (c *CPU) sta(addr uint16) { c.mem.Write(addr, c.A) }
func (c *CPU) stx(addr uint16) { c.mem.Write(addr, c.X) }
func (c *CPU) sty(addr uint16) { c.mem.Write(addr, c.Y) }

func (c *CPU) adc(addr uint16) {
	value := c.mem.Read(addr)
	c.addWithCarry(value)
}

func (c *CPU) addWithCarry(value uint8) {
	var carry uint16
	if c.C {
		carry = 1
	}
	result := uint16(c.A) + uint16(value) + carry
	c.V = (c.A^uint8(result))&0x80 != 0 && (c.A^value)&0x80 == 0
	c.C = result > 0xFF
	c.A = uint8(result)
	c.setZN(c.A)
}

func (c *CPU) sbc(addr uint16) {
	value := c.mem.Read(addr)
	c.addWithCarry(value ^ 0xFF)
}

func (c *CPU) and(addr uint16) { c.A &= c.mem.Read(addr); c.setZN(c.A) }
func (c *CPU) ora(addr uint16) { c.A |= c.mem.Read(addr); c.setZN(c.A) }
func (c *CPU) eor(addr uint16) { c.A ^= c.mem.Read(addr); c.setZN(c.A) }

func (c *CPU) asl(addr uint16) {
	v := c.mem.Read(addr)
	c.C = v&0x80 != 0
	v <<= 1
	c.mem.Write(addr, v)
	c.setZN(v)
}

func (c *CPU) lsr(addr uint16) {
	v := c.mem.Read(addr)
	c.C = v&0x01 != 0
	v >>= 1
	c.mem.Write(addr, v)
	c.setZN(v)
}

func (c *CPU) rol(addr uint16) {
	v := c.mem.Read(addr)
	old := c.C
	c.C = v&0x80 != 0
	v <<= 1
	if old {
		v |= 0x01
	}
	c.mem.Write(addr, v)
	c.setZN(v)
}

func (c *CPU) ror(addr uint16) {
	v := c.mem.Read(addr)
	old := c.C
	c.C = v&0x01 != 0
	v >>= 1
	if old {
		v |= 0x80
	}
	c.mem.Write(addr, v)
	c.setZN(v)
}

func (c *CPU) cmp(addr uint16) {
	v := c.mem.Read(addr)
	c.C = c.A >= v
	c.setZN(c.A - v)
}

func (c *CPU) cpx(addr uint16) {
	v := c.mem.Read(addr)
	c.C = c.X >= v
	c.setZN(c.X - v)
}

func (c *CPU) cpy(addr uint16) {
	v := c.mem.Read(addr)
	c.C = c.Y >= v
	c.setZN(c.Y - v)
}

func (c *CPU) inc(addr uint16) {
	v := c.mem.Read(addr) + 1
	c.mem.Write(addr, v)
	c.setZN(v)
}

func (c *CPU) dec(addr uint16) {
	v := c.mem.Read(addr) - 1
	c.mem.Write(addr, v)
	c.setZN(v)
}

func (c *CPU) bit(addr uint16) {
	v := c.mem.Read(addr)
	c.N = v&nFlagMask != 0
	c.V = v&vFlagMask != 0
	c.Z = c.A&v == 0
}

// --- Unofficial opcodes ---

func (c *CPU) lax(addr uint16) {
	c.A = c.mem.Read(addr)
	c.X = c.A
	c.setZN(c.A)
}

func (c *CPU) sax(addr uint16) { c.mem.Write(addr, c.A&c.X) }

func (c *CPU) dcp(addr uint16) {
	v := c.mem.Read(addr) - 1
	c.mem.Write(addr, v)
	c.C = c.A >= v
	c.setZN(c.A - v)
}

func (c *CPU) isb(addr uint16) {
	v := c.mem.Read(addr) + 1
	c.mem.Write(addr, v)
	c.addWithCarry(v ^ 0xFF)
}

func (c *CPU) slo(addr uint16) {
	v := c.mem.Read(addr)
	c.C = v&0x80 != 0
	v <<= 1
	c.mem.Write(addr, v)
	c.A |= v
	c.setZN(c.A)
}

func (c *CPU) rla(addr uint16) {
	v := c.mem.Read(addr)
	old := c.C
	c.C = v&0x80 != 0
	v <<= 1
	if old {
		v |= 0x01
	}
	c.mem.Write(addr, v)
	c.A &= v
	c.setZN(c.A)
}

func (c *CPU) sre(addr uint16) {
	v := c.mem.Read(addr)
	c.C = v&0x01 != 0
	v >>= 1
	c.mem.Write(addr, v)
	c.A ^= v
	c.setZN(c.A)
}

func (c *CPU) rra(addr uint16) {
	v := c.mem.Read(addr)
	old := c.C
	c.C = v&0x01 != 0
	v >>= 1
	if old {
		v |= 0x80
	}
	c.mem.Write(addr, v)
	c.addWithCarry(v)
}

// anc performs AND #imm then copies bit 7 of the result into carry, as if
// the result had been shifted into carry by ASL.
func (c *CPU) anc(addr uint16) {
	c.A &= c.mem.Read(addr)
	c.setZN(c.A)
	c.C = c.A&0x80 != 0
}

func (c *CPU) alr(addr uint16) {
	c.A &= c.mem.Read(addr)
	c.C = c.A&0x01 != 0
	c.A >>= 1
	c.setZN(c.A)
}

// arr performs AND #imm then rotates right through carry, setting C from
// bit 6 of the rotated result and V from bit 6 XOR bit 5 of that result.
func (c *CPU) arr(addr uint16) {
	c.A &= c.mem.Read(addr)
	carryIn := c.C
	c.A >>= 1
	if carryIn {
		c.A |= 0x80
	}
	c.setZN(c.A)
	c.C = c.A&0x40 != 0
	c.V = (c.A&0x40 != 0) != (c.A&0x20 != 0)
}

// xaa is notoriously unstable on real hardware; this models the commonly
// documented approximation (A = (A | magic) & X & imm with magic treated as
// 0xFF, i.e. a plain AND of X and the operand gated through A unchanged).
func (c *CPU) xaa(addr uint16) {
	c.A = c.X & c.mem.Read(addr)
	c.setZN(c.A)
}

func (c *CPU) las(addr uint16) {
	v := c.mem.Read(addr) & c.SP
	c.A, c.X, c.SP = v, v, v
	c.setZN(v)
}

func (c *CPU) tas(addr uint16) {
	c.SP = c.A & c.X
	high := uint8(addr>>8) + 1
	c.mem.Write(addr, c.SP&high)
}

// ahx stores A&X&(high byte of the target address + 1); unstable on
// hardware when the indexed address crosses a page, modeled here as the
// commonly documented non-crossing behavior.
func (c *CPU) ahx(addr uint16) {
	high := uint8(addr>>8) + 1
	c.mem.Write(addr, c.A&c.X&high)
}

func (c *CPU) shy(addr uint16) {
	high := uint8(addr>>8) + 1
	c.mem.Write(addr, c.Y&high)
}

func (c *CPU) shx(addr uint16) {
	high := uint8(addr>>8) + 1
	c.mem.Write(addr, c.X&high)
}
