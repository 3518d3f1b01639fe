package mapper

import "github.com/nesdeck/nesdeck/internal/cartridge"

// nrom implements iNES mapper 0: fixed 16KiB or 32KiB PRG ROM, fixed 8KiB
// CHR ROM/RAM, no bank switching.
type nrom struct {
	cart     *cartridge.Cartridge
	prgMask  uint16 // mirrors 16KiB ROMs across $8000-$FFFF
	mirror   cartridge.Mirroring
}

func newNROM(cart *cartridge.Cartridge) *nrom {
	mask := uint16(0x7FFF)
	if cart.PrgBankCount() <= 1 {
		mask = 0x3FFF
	}
	return &nrom{cart: cart, prgMask: mask, mirror: cart.Mirroring}
}

func (m *nrom) ReadCPU(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.PrgRAM[addr-0x6000]
	case addr >= 0x8000:
		return m.cart.PrgROM[addr&m.prgMask]
	default:
		return 0
	}
}

func (m *nrom) WriteCPU(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.cart.PrgRAM[addr-0x6000] = value
	}
	// Writes to ROM space are no-ops: NROM has no registers.
}

func (m *nrom) ReadPPU(addr uint16) uint8 {
	if int(addr) < len(m.cart.ChrROM) {
		return m.cart.ChrROM[addr]
	}
	return 0
}

func (m *nrom) WritePPU(addr uint16, value uint8) {
	if m.cart.HasCHRRAM && int(addr) < len(m.cart.ChrROM) {
		m.cart.ChrROM[addr] = value
	}
}

func (m *nrom) Mirroring() cartridge.Mirroring { return m.mirror }

func (m *nrom) Clock(scanline, dot int, a12RisingEdge bool) {}

func (m *nrom) IRQPending() bool { return false }

// SaveState is a no-op: NROM has no bank registers.
func (m *nrom) SaveState() []byte { return nil }

func (m *nrom) LoadState(data []byte) error { return nil }
