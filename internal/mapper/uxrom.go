package mapper

import (
	"fmt"

	"github.com/nesdeck/nesdeck/internal/cartridge"
)

// uxrom implements iNES mapper 2: a single 16KiB switchable PRG bank at
// $8000-$BFFF, the last PRG bank fixed at $C000-$FFFF, and CHR RAM only
// (UxROM boards never carry CHR ROM, per the no-bus-conflict bus-conflict
// variants this core does not distinguish).
type uxrom struct {
	cart       *cartridge.Cartridge
	prgBank    uint8
	lastBank   int
	mirror     cartridge.Mirroring
}

func newUxROM(cart *cartridge.Cartridge) *uxrom {
	return &uxrom{
		cart:     cart,
		lastBank: cart.PrgBankCount() - 1,
		mirror:   cart.Mirroring,
	}
}

func (m *uxrom) ReadCPU(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.PrgRAM[addr-0x6000]
	case addr >= 0x8000 && addr < 0xC000:
		base := int(m.prgBank) * prgBankSize
		return m.cart.PrgROM[base+int(addr-0x8000)]
	case addr >= 0xC000:
		base := m.lastBank * prgBankSize
		return m.cart.PrgROM[base+int(addr-0xC000)]
	default:
		return 0
	}
}

func (m *uxrom) WriteCPU(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.PrgRAM[addr-0x6000] = value
	case addr >= 0x8000:
		// Bank register occupies the low bits; boards vary in width, so mask
		// against the bank count rather than a fixed bit width.
		m.prgBank = value & uint8(m.cart.PrgBankCount()-1)
	}
}

func (m *uxrom) ReadPPU(addr uint16) uint8 {
	if int(addr) < len(m.cart.ChrROM) {
		return m.cart.ChrROM[addr]
	}
	return 0
}

func (m *uxrom) WritePPU(addr uint16, value uint8) {
	if m.cart.HasCHRRAM && int(addr) < len(m.cart.ChrROM) {
		m.cart.ChrROM[addr] = value
	}
}

func (m *uxrom) Mirroring() cartridge.Mirroring { return m.mirror }

func (m *uxrom) Clock(scanline, dot int, a12RisingEdge bool) {}

func (m *uxrom) IRQPending() bool { return false }

func (m *uxrom) SaveState() []byte { return []byte{m.prgBank} }

func (m *uxrom) LoadState(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("mapper: uxrom state wants 1 byte, got %d", len(data))
	}
	m.prgBank = data[0]
	return nil
}
