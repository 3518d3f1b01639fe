package mapper

import (
	"fmt"

	"github.com/nesdeck/nesdeck/internal/cartridge"
)

// cnrom implements iNES mapper 3: fixed PRG ROM (16KiB or 32KiB, mirrored
// like NROM) and a single switchable 8KiB CHR bank. The simplest of the
// bank-switched boards — one write-only register, no IRQ, no CHR RAM.
type cnrom struct {
	cart    *cartridge.Cartridge
	prgMask uint16
	chrBank uint8
	mirror  cartridge.Mirroring
}

func newCNROM(cart *cartridge.Cartridge) *cnrom {
	mask := uint16(0x7FFF)
	if cart.PrgBankCount() <= 1 {
		mask = 0x3FFF
	}
	return &cnrom{cart: cart, prgMask: mask, mirror: cart.Mirroring}
}

func (m *cnrom) ReadCPU(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.PrgRAM[addr-0x6000]
	case addr >= 0x8000:
		return m.cart.PrgROM[addr&m.prgMask]
	default:
		return 0
	}
}

func (m *cnrom) WriteCPU(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.PrgRAM[addr-0x6000] = value
	case addr >= 0x8000:
		// Many CNROM boards only decode 2 bits; mask against actual bank
		// count so smaller images still wrap correctly.
		banks := uint8(m.cart.ChrBankCount())
		if banks == 0 {
			banks = 1
		}
		m.chrBank = value % banks
	}
}

func (m *cnrom) ReadPPU(addr uint16) uint8 {
	return chrBankRead(m.cart.ChrROM, chrBankSize, int(m.chrBank), addr)
}

func (m *cnrom) WritePPU(addr uint16, value uint8) {
	chrBankWrite(m.cart, chrBankSize, int(m.chrBank), addr, value)
}

func (m *cnrom) Mirroring() cartridge.Mirroring { return m.mirror }

func (m *cnrom) Clock(scanline, dot int, a12RisingEdge bool) {}

func (m *cnrom) IRQPending() bool { return false }

func (m *cnrom) SaveState() []byte { return []byte{m.chrBank} }

func (m *cnrom) LoadState(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("mapper: cnrom state wants 1 byte, got %d", len(data))
	}
	m.chrBank = data[0]
	return nil
}
