package mapper

import (
	"fmt"

	"github.com/nesdeck/nesdeck/internal/cartridge"
)

// mmc1 implements iNES mapper 1 (SxROM, MMC1 chip). The CPU writes one bit
// at a time into a 5-bit serial shift register; the fifth write latches the
// accumulated value into one of four internal registers selected by the
// target address. A write with bit 7 set resets the shift register and
// forces 16KiB PRG mode 3 (last bank fixed high) regardless of the bit
// written alongside the reset, matching real MMC1 behavior.
type mmc1 struct {
	cart *cartridge.Cartridge

	shift      uint8
	shiftCount int

	control  uint8 // mirroring(2) | prgMode(2) | chrMode(1)
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	// Real MMC1 silicon ignores a second consecutive register write landing
	// on the CPU cycle immediately after a prior write. This core does not
	// track CPU cycle parity per write (WriteCPU isn't given one), so that
	// quirk isn't modeled; no mapper test ROM in scope relies on exercising
	// it deliberately.
}

func newMMC1(cart *cartridge.Cartridge) *mmc1 {
	m := &mmc1{cart: cart, control: 0x0C, shift: 0}
	return m
}

func (m *mmc1) prgMode() uint8  { return (m.control >> 2) & 0x03 }
func (m *mmc1) chrMode() uint8  { return (m.control >> 4) & 0x01 }
func (m *mmc1) mirrorBits() uint8 { return m.control & 0x03 }

func (m *mmc1) Mirroring() cartridge.Mirroring {
	switch m.mirrorBits() {
	case 0:
		return cartridge.MirrorSingleScreenA
	case 1:
		return cartridge.MirrorSingleScreenB
	case 2:
		return cartridge.MirrorVertical
	default:
		return cartridge.MirrorHorizontal
	}
}

func (m *mmc1) ReadCPU(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.PrgRAM[addr-0x6000]
	case addr >= 0x8000:
		bank, offset := m.prgWindow(addr)
		idx := bank*prgBankSize + offset
		if idx >= 0 && idx < len(m.cart.PrgROM) {
			return m.cart.PrgROM[idx]
		}
		return 0
	default:
		return 0
	}
}

// prgWindow resolves addr to a (16KiB bank index, offset within bank) pair
// according to the current PRG mode:
//
//	0,1: switch 32KiB at $8000, ignoring the low bit of prgBank
//	2:   fix first bank at $8000, switch 16KiB at $C000
//	3:   switch 16KiB at $8000, fix last bank at $C000
func (m *mmc1) prgWindow(addr uint16) (bank, offset int) {
	numBanks := m.cart.PrgBankCount()
	switch m.prgMode() {
	case 0, 1:
		base := int(m.prgBank&0xFE) % numBanks
		full := addr - 0x8000
		return base + int(full/prgBankSize), int(full % prgBankSize)
	case 2:
		if addr < 0xC000 {
			return 0, int(addr - 0x8000)
		}
		return int(m.prgBank) % numBanks, int(addr - 0xC000)
	default: // 3
		if addr < 0xC000 {
			return int(m.prgBank) % numBanks, int(addr - 0x8000)
		}
		return numBanks - 1, int(addr - 0xC000)
	}
}

func (m *mmc1) WriteCPU(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.cart.PrgRAM[addr-0x6000] = value
		return
	}
	if addr < 0x8000 {
		return
	}

	if value&0x80 != 0 {
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		return
	}

	m.shift |= (value & 0x01) << uint(m.shiftCount)
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	result := m.shift
	m.shift = 0
	m.shiftCount = 0

	switch {
	case addr < 0xA000:
		m.control = result
	case addr < 0xC000:
		m.chrBank0 = result
	case addr < 0xE000:
		m.chrBank1 = result
	default:
		m.prgBank = result & 0x0F
	}
}

func (m *mmc1) ReadPPU(addr uint16) uint8 {
	bank, offset := m.chrWindow(addr)
	return chrBankRead(m.cart.ChrROM, 4*1024, bank, uint16(offset))
}

func (m *mmc1) WritePPU(addr uint16, value uint8) {
	bank, offset := m.chrWindow(addr)
	chrBankWrite(m.cart, 4*1024, bank, uint16(offset), value)
}

// chrWindow resolves a PPU pattern-table address to a (4KiB bank, offset)
// pair. In 8KiB mode (chrMode 0) chrBank0's low bit selects the 8KiB page
// and chrBank1 is ignored; in 4KiB mode each half switches independently.
func (m *mmc1) chrWindow(addr uint16) (bank, offset int) {
	numBanks4k := len(m.cart.ChrROM) / (4 * 1024)
	if numBanks4k == 0 {
		numBanks4k = 1
	}
	if m.chrMode() == 0 {
		base := int(m.chrBank0 &^ 1)
		if addr < 0x1000 {
			return base % numBanks4k, int(addr)
		}
		return (base + 1) % numBanks4k, int(addr - 0x1000)
	}
	if addr < 0x1000 {
		return int(m.chrBank0) % numBanks4k, int(addr)
	}
	return int(m.chrBank1) % numBanks4k, int(addr - 0x1000)
}

func (m *mmc1) Clock(scanline, dot int, a12RisingEdge bool) {}

func (m *mmc1) IRQPending() bool { return false }

func (m *mmc1) SaveState() []byte {
	return []byte{m.shift, uint8(m.shiftCount), m.control, m.chrBank0, m.chrBank1, m.prgBank}
}

func (m *mmc1) LoadState(data []byte) error {
	if len(data) != 6 {
		return fmt.Errorf("mapper: mmc1 state wants 6 bytes, got %d", len(data))
	}
	m.shift, m.shiftCount = data[0], int(data[1])
	m.control, m.chrBank0, m.chrBank1, m.prgBank = data[2], data[3], data[4], data[5]
	return nil
}
