// Package bus implements the CPU-side memory map of the NES: work RAM, PPU
// register mirroring, APU/IO register routing, OAM DMA, controller ports and
// the cartridge mapper window. PPU-side nametable/pattern/palette addressing
// lives in internal/ppu.
package bus

import "github.com/nesdeck/nesdeck/internal/cpu"

// PPUPorts is the subset of the PPU the bus routes CPU register accesses to.
type PPUPorts interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}

// APUPorts is the subset of the APU the bus routes CPU register accesses to.
type APUPorts interface {
	WriteRegister(addr uint16, value uint8)
	ReadStatus() uint8
}

// InputPorts is the subset of the input system the bus routes $4016/$4017 to.
type InputPorts interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// MapperPorts is the subset of the cartridge mapper the bus routes
// $4020-$FFFF and $6000-$7FFF accesses to.
type MapperPorts interface {
	ReadCPU(addr uint16) uint8
	WriteCPU(addr uint16, value uint8)
}

// Bus is the CPU-side memory map. It satisfies cpu.MemoryInterface.
type Bus struct {
	ram [0x0800]uint8

	ppu    PPUPorts
	apu    APUPorts
	input  InputPorts
	mapper MapperPorts

	openBus uint8

	cycleCounter func() uint64
	pendingStall int
}

var _ cpu.MemoryInterface = (*Bus)(nil)

// New creates a Bus wired to the given PPU, APU and input ports. The mapper
// is set separately via SetMapper once a cartridge is loaded.
func New(ppu PPUPorts, apu APUPorts, input InputPorts) *Bus {
	return &Bus{ppu: ppu, apu: apu, input: input}
}

// SetMapper attaches (or replaces) the cartridge mapper backing $4020-$FFFF.
func (b *Bus) SetMapper(m MapperPorts) {
	b.mapper = m
}

// SetCycleCounter supplies a callback returning the current total CPU cycle
// count, used to determine OAM DMA parity (513 vs 514 stall cycles).
func (b *Bus) SetCycleCounter(fn func() uint64) {
	b.cycleCounter = fn
}

// TakeStall returns and clears the number of CPU cycles the last OAM DMA
// transfer demands the CPU be suspended for. The ControlDeck driving loop is
// responsible for actually stalling the CPU and keeping the PPU/APU clocked
// through that window.
func (b *Bus) TakeStall() int {
	s := b.pendingStall
	b.pendingStall = 0
	return s
}

// Read implements cpu.MemoryInterface.
func (b *Bus) Read(addr uint16) uint8 {
	var value uint8
	switch {
	case addr < 0x2000:
		value = b.ram[addr&0x07FF]
	case addr < 0x4000:
		value = b.ppu.ReadRegister(0x2000 + (addr & 0x0007))
	case addr == 0x4015:
		value = b.apu.ReadStatus()
	case addr == 0x4016 || addr == 0x4017:
		value = b.input.Read(addr)
	case addr < 0x4020:
		// Remaining APU/IO registers are write-only; fall through to open bus.
		value = b.openBus
	case addr < 0x6000:
		if b.mapper != nil {
			value = b.mapper.ReadCPU(addr)
		} else {
			value = b.openBus
		}
	default:
		if b.mapper != nil {
			value = b.mapper.ReadCPU(addr)
		} else {
			value = b.openBus
		}
	}
	b.openBus = value
	return value
}

// Write implements cpu.MemoryInterface.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.ppu.WriteRegister(0x2000+(addr&0x0007), value)
	case addr == 0x4014:
		b.triggerOAMDMA(value)
	case addr == 0x4016:
		b.input.Write(addr, value)
	case addr == 0x4017:
		b.apu.WriteRegister(addr, value)
	case addr < 0x4020:
		b.apu.WriteRegister(addr, value)
	default:
		if b.mapper != nil {
			b.mapper.WriteCPU(addr, value)
		}
	}
	b.openBus = value
}

// triggerOAMDMA copies 256 bytes starting at sourcePage<<8 into OAM through
// the PPU's $2004 register (exactly as real DMA hardware does), and records
// the CPU stall this transfer demands.
func (b *Bus) triggerOAMDMA(sourcePage uint8) {
	base := uint16(sourcePage) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteRegister(0x2004, b.Read(base+uint16(i)))
	}
	odd := false
	if b.cycleCounter != nil {
		odd = b.cycleCounter()%2 == 1
	}
	if odd {
		b.pendingStall = 514
	} else {
		b.pendingStall = 513
	}
}
