// Package cpu implements a cycle-accounted interpreter for the Ricoh 2A03,
// the NES's 6502-derived CPU: the full documented instruction set plus the
// unofficial opcodes relied on by commercial software.
package cpu

// AddressingMode identifies how an instruction's operand address is formed.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	zeroPageMask = 0xFF
	pageMask     = 0xFF00

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Instruction is one entry of the immutable 256-opcode decode table.
type Instruction struct {
	Name   string
	Mode   AddressingMode
	Bytes  uint8
	Cycles uint8
}

// MemoryInterface is the CPU-side bus any memory provider must implement.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU holds 2A03 register and interrupt-latch state.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	C bool
	Z bool
	I bool
	D bool
	B bool
	V bool
	N bool

	mem    MemoryInterface
	Cycles uint64

	// NMI is edge-triggered off the PPU's NMI output line; IRQ is
	// level-triggered, ORing the APU frame counter, DMC, and mapper lines.
	nmiLevel   bool
	nmiPending bool
	irqLevel   bool

	// Set when a KIL/JAM opcode executes; the CPU stops fetching until reset.
	halted     bool
	haltOpcode uint8
}

// New constructs a CPU wired to mem. Callers must still call Reset or
// HardReset before stepping.
func New(mem MemoryInterface) *CPU {
	return &CPU{mem: mem, SP: 0xFD}
}

// Reset performs a soft reset: PC loads from the reset vector, I is set, and
// SP is decremented by 3 (the three suppressed stack-push bus cycles real
// hardware performs on reset); A, X, Y, and the other flags are untouched.
func (c *CPU) Reset() {
	c.I = true
	c.SP -= 3
	low := uint16(c.mem.Read(resetVector))
	high := uint16(c.mem.Read(resetVector + 1))
	c.PC = (high << 8) | low
	c.Cycles += 7
	c.halted = false
}

// HardReset reproduces power-on register state before loading the reset
// vector: A, X, Y zeroed, SP = 0xFD, P = 0x34 (I and the always-one bits set).
func (c *CPU) HardReset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.I = true
	c.B = true
	c.Cycles = 0
	c.nmiLevel, c.nmiPending, c.irqLevel = false, false, false
	c.halted = false
	low := uint16(c.mem.Read(resetVector))
	high := uint16(c.mem.Read(resetVector + 1))
	c.PC = (high << 8) | low
	c.Cycles += 7
}

// SetNMILine reports the PPU's current NMI output level; NMI is serviced on
// the next low-to-high transition.
func (c *CPU) SetNMILine(level bool) {
	if level && !c.nmiLevel {
		c.nmiPending = true
	}
	c.nmiLevel = level
}

// SetIRQLine reports the OR of every IRQ source (APU frame counter, DMC,
// mapper). IRQ is serviced whenever the line is asserted and I is clear.
func (c *CPU) SetIRQLine(level bool) {
	c.irqLevel = level
}

// Halted reports whether a KIL/JAM opcode has stopped instruction fetch.
func (c *CPU) Halted() bool { return c.halted }

// HaltOpcode returns the opcode byte that halted the CPU, valid only when
// Halted() is true.
func (c *CPU) HaltOpcode() uint8 { return c.haltOpcode }

// Step services any pending interrupt, else fetches and executes exactly one
// instruction, returning the number of CPU cycles consumed.
func (c *CPU) Step() uint8 {
	if c.halted {
		return 0
	}
	if taken := c.serviceInterrupts(); taken {
		c.Cycles += 7
		return 7
	}

	opcode := c.mem.Read(c.PC)
	instr := instructionTable[opcode]

	addr, pageCrossed := c.operandAddress(instr.Mode, instr.Bytes)
	extra := c.execute(opcode, addr, pageCrossed)

	total := instr.Cycles + extra
	c.Cycles += uint64(total)
	return total
}

func (c *CPU) serviceInterrupts() bool {
	if c.nmiPending {
		c.nmiPending = false
		c.enterInterrupt(nmiVector, false)
		return true
	}
	if c.irqLevel && !c.I {
		c.enterInterrupt(irqVector, false)
		return true
	}
	return false
}

// enterInterrupt pushes PC and status and loads PC from vector. brk
// distinguishes BRK's pushed status (B set) from a hardware trap (B clear);
// hardware interrupts always clear B here.
func (c *CPU) enterInterrupt(vector uint16, brk bool) {
	c.pushWord(c.PC)
	status := c.statusByte() &^ bFlagMask
	status |= unusedMask
	if brk {
		status |= bFlagMask
	}
	c.push(status)
	c.I = true
	low := uint16(c.mem.Read(vector))
	high := uint16(c.mem.Read(vector + 1))
	c.PC = (high << 8) | low
}

// operandAddress resolves addr and whether indexing crossed a page
// boundary, advancing PC by the instruction's byte length.
func (c *CPU) operandAddress(mode AddressingMode, bytes uint8) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC += uint16(bytes)
		return 0, false

	case Immediate:
		addr := c.PC + 1
		c.PC += uint16(bytes)
		return addr, false

	case ZeroPage:
		addr := uint16(c.mem.Read(c.PC + 1))
		c.PC += uint16(bytes)
		return addr, false

	case ZeroPageX:
		base := c.mem.Read(c.PC + 1)
		addr := uint16((base + c.X) & zeroPageMask)
		c.PC += uint16(bytes)
		return addr, false

	case ZeroPageY:
		base := c.mem.Read(c.PC + 1)
		addr := uint16((base + c.Y) & zeroPageMask)
		c.PC += uint16(bytes)
		return addr, false

	case Relative:
		offset := int8(c.mem.Read(c.PC + 1))
		oldPC := c.PC + 2
		newPC := uint16(int32(oldPC) + int32(offset))
		c.PC = oldPC
		crossed := (oldPC & pageMask) != (newPC & pageMask)
		return newPC, crossed

	case Absolute:
		low := uint16(c.mem.Read(c.PC + 1))
		high := uint16(c.mem.Read(c.PC + 2))
		addr := (high << 8) | low
		c.PC += uint16(bytes)
		return addr, false

	case AbsoluteX:
		low := uint16(c.mem.Read(c.PC + 1))
		high := uint16(c.mem.Read(c.PC + 2))
		base := (high << 8) | low
		addr := base + uint16(c.X)
		c.PC += uint16(bytes)
		return addr, (base & pageMask) != (addr & pageMask)

	case AbsoluteY:
		low := uint16(c.mem.Read(c.PC + 1))
		high := uint16(c.mem.Read(c.PC + 2))
		base := (high << 8) | low
		addr := base + uint16(c.Y)
		c.PC += uint16(bytes)
		return addr, (base & pageMask) != (addr & pageMask)

	case Indirect: // JMP only; replicates the page-wrap fetch bug.
		lowPtr := uint16(c.mem.Read(c.PC + 1))
		highPtr := uint16(c.mem.Read(c.PC + 2))
		ptr := (highPtr << 8) | lowPtr
		var addr uint16
		if ptr&zeroPageMask == zeroPageMask {
			low := uint16(c.mem.Read(ptr))
			high := uint16(c.mem.Read(ptr & pageMask))
			addr = (high << 8) | low
		} else {
			low := uint16(c.mem.Read(ptr))
			high := uint16(c.mem.Read(ptr + 1))
			addr = (high << 8) | low
		}
		c.PC += uint16(bytes)
		return addr, false

	case IndexedIndirect:
		base := c.mem.Read(c.PC + 1)
		ptr := (base + c.X) & zeroPageMask
		low := uint16(c.mem.Read(uint16(ptr)))
		high := uint16(c.mem.Read(uint16((ptr + 1) & zeroPageMask)))
		addr := (high << 8) | low
		c.PC += uint16(bytes)
		return addr, false

	case IndirectIndexed:
		ptr := uint16(c.mem.Read(c.PC + 1))
		low := uint16(c.mem.Read(ptr))
		high := uint16(c.mem.Read((ptr + 1) & zeroPageMask))
		base := (high << 8) | low
		addr := base + uint16(c.Y)
		c.PC += uint16(bytes)
		return addr, (base & pageMask) != (addr & pageMask)

	default:
		return 0, false
	}
}

func (c *CPU) push(value uint8) {
	c.mem.Write(stackBase+uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.mem.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value & 0xFF))
}

func (c *CPU) popWord() uint16 {
	low := uint16(c.pop())
	high := uint16(c.pop())
	return (high << 8) | low
}

func (c *CPU) setZN(value uint8) {
	c.Z = value == 0
	c.N = value&nFlagMask != 0
}

func (c *CPU) statusByte() uint8 {
	var s uint8
	if c.N {
		s |= nFlagMask
	}
	if c.V {
		s |= vFlagMask
	}
	s |= unusedMask
	if c.B {
		s |= bFlagMask
	}
	if c.D {
		s |= dFlagMask
	}
	if c.I {
		s |= iFlagMask
	}
	if c.Z {
		s |= zFlagMask
	}
	if c.C {
		s |= cFlagMask
	}
	return s
}

func (c *CPU) setStatusByte(status uint8) {
	c.N = status&nFlagMask != 0
	c.V = status&vFlagMask != 0
	c.B = status&bFlagMask != 0
	c.D = status&dFlagMask != 0
	c.I = status&iFlagMask != 0
	c.Z = status&zFlagMask != 0
	c.C = status&cFlagMask != 0
}

// StatusByte returns the packed processor status register (NV_BDIZC).
func (c *CPU) StatusByte() uint8 { return c.statusByte() }

// SetStatusByte loads the processor status register from a packed byte.
func (c *CPU) SetStatusByte(v uint8) { c.setStatusByte(v) }

// Snapshot is the serializable subset of CPU state for save states.
type Snapshot struct {
	A, X, Y, SP uint8
	PC          uint16
	Status      uint8
	Cycles      uint64
	NMILevel    bool
	NMIPending  bool
	IRQLevel    bool
	Halted      bool
	HaltOpcode  uint8
}

// Snapshot captures CPU state for serialization.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC,
		Status: c.statusByte(), Cycles: c.Cycles,
		NMILevel: c.nmiLevel, NMIPending: c.nmiPending, IRQLevel: c.irqLevel,
		Halted: c.halted, HaltOpcode: c.haltOpcode,
	}
}

// Restore loads CPU state previously produced by Snapshot.
func (c *CPU) Restore(s Snapshot) {
	c.A, c.X, c.Y, c.SP, c.PC = s.A, s.X, s.Y, s.SP, s.PC
	c.setStatusByte(s.Status)
	c.Cycles = s.Cycles
	c.nmiLevel, c.nmiPending, c.irqLevel = s.NMILevel, s.NMIPending, s.IRQLevel
	c.halted, c.haltOpcode = s.Halted, s.HaltOpcode
}
