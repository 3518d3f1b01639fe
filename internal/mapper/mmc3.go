package mapper

import (
	"fmt"

	"github.com/nesdeck/nesdeck/internal/cartridge"
)

// mmc3 implements iNES mapper 4 (TxROM, MMC3 chip): eight bank-select
// registers switching two 8KiB PRG windows and CHR in 2KiB/1KiB pages, plus
// a scanline IRQ counter clocked by PPU address-line A12 rising edges
// (fired once per visible/pre-render scanline during normal rendering).
type mmc3 struct {
	cart *cartridge.Cartridge

	bankSelect  uint8 // target register(3) | prgMode(1)@bit6 | chrMode(1)@bit7
	bankReg     [8]uint8
	mirror      cartridge.Mirroring
	prgRAMEnable bool

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnable  bool
	irqPending bool
}

func newMMC3(cart *cartridge.Cartridge) *mmc3 {
	return &mmc3{cart: cart, mirror: cart.Mirroring}
}

func (m *mmc3) prgMode() uint8 { return (m.bankSelect >> 6) & 0x01 }
func (m *mmc3) chrMode() uint8 { return (m.bankSelect >> 7) & 0x01 }

func (m *mmc3) ReadCPU(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.PrgRAM[addr-0x6000]
	case addr >= 0x8000:
		bank, offset := m.prgWindow(addr)
		idx := bank*(8*1024) + offset
		if idx >= 0 && idx < len(m.cart.PrgROM) {
			return m.cart.PrgROM[idx]
		}
		return 0
	default:
		return 0
	}
}

// prgWindow maps addr into one of four 8KiB CPU windows. R6 and R7 select
// the switchable banks; the remaining two windows are fixed to the
// second-to-last and last 8KiB banks, with R6's window swapping between
// $8000 and $C000 depending on prgMode.
func (m *mmc3) prgWindow(addr uint16) (bank, offset int) {
	numBanks8k := len(m.cart.PrgROM) / (8 * 1024)
	if numBanks8k == 0 {
		numBanks8k = 1
	}
	secondLast := (numBanks8k - 2 + numBanks8k) % numBanks8k
	last := numBanks8k - 1
	r6 := int(m.bankReg[6]) % numBanks8k
	r7 := int(m.bankReg[7]) % numBanks8k

	window := int((addr - 0x8000) / (8 * 1024))
	offset = int((addr - 0x8000) % (8 * 1024))

	if m.prgMode() == 0 {
		switch window {
		case 0:
			return r6, offset
		case 1:
			return r7, offset
		case 2:
			return secondLast, offset
		default:
			return last, offset
		}
	}
	switch window {
	case 0:
		return secondLast, offset
	case 1:
		return r7, offset
	case 2:
		return r6, offset
	default:
		return last, offset
	}
}

func (m *mmc3) WriteCPU(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnable {
			m.cart.PrgRAM[addr-0x6000] = value
		}
		return
	case addr < 0x8000:
		return
	}

	even := addr%2 == 0
	switch {
	case addr < 0xA000:
		if even {
			m.bankSelect = value
		} else {
			reg := m.bankSelect & 0x07
			m.bankReg[reg] = value
		}
	case addr < 0xC000:
		if even {
			if value&0x01 != 0 {
				m.mirror = cartridge.MirrorHorizontal
			} else {
				m.mirror = cartridge.MirrorVertical
			}
		} else {
			m.prgRAMEnable = value&0x80 != 0
		}
	case addr < 0xE000:
		if even {
			m.irqLatch = value
		} else {
			m.irqReload = true
		}
	default:
		if even {
			m.irqEnable = false
			m.irqPending = false
		} else {
			m.irqEnable = true
		}
	}
}

// chrWindow maps a PPU address to a 1KiB bank index and offset across the
// six CHR registers (R0,R1 as 2KiB pairs; R2-R5 as 1KiB pages), with the
// two halves of the 8KiB window swapped when chrMode is set.
func (m *mmc3) chrWindow(addr uint16) (bank1k int, offset int) {
	numBanks1k := len(m.cart.ChrROM) / 1024
	if numBanks1k == 0 {
		numBanks1k = 1
	}
	a := addr
	if m.chrMode() == 1 {
		a ^= 0x1000
	}
	var bank int
	switch {
	case a < 0x0400:
		bank, offset = int(m.bankReg[0]&^1), int(a)
	case a < 0x0800:
		bank, offset = int(m.bankReg[0]|1), int(a-0x0400)
	case a < 0x0C00:
		bank, offset = int(m.bankReg[1]&^1), int(a-0x0800)
	case a < 0x1000:
		bank, offset = int(m.bankReg[1]|1), int(a-0x0C00)
	case a < 0x1400:
		bank, offset = int(m.bankReg[2]), int(a-0x1000)
	case a < 0x1800:
		bank, offset = int(m.bankReg[3]), int(a-0x1400)
	case a < 0x1C00:
		bank, offset = int(m.bankReg[4]), int(a-0x1800)
	default:
		bank, offset = int(m.bankReg[5]), int(a-0x1C00)
	}
	return bank % numBanks1k, offset
}

func (m *mmc3) ReadPPU(addr uint16) uint8 {
	bank, offset := m.chrWindow(addr)
	return chrBankRead(m.cart.ChrROM, 1024, bank, uint16(offset))
}

func (m *mmc3) WritePPU(addr uint16, value uint8) {
	bank, offset := m.chrWindow(addr)
	chrBankWrite(m.cart, 1024, bank, uint16(offset), value)
}

func (m *mmc3) Mirroring() cartridge.Mirroring { return m.mirror }

// Clock advances the scanline IRQ counter on each PPU-address A12 rising
// edge, which happens once per scanline while rendering is enabled (the PPU
// fetches the sprite pattern table then the next tile's background pattern,
// crossing A12 low-to-high at the scanline boundary).
func (m *mmc3) Clock(scanline, dot int, a12RisingEdge bool) {
	if !a12RisingEdge {
		return
	}
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnable {
		m.irqPending = true
	}
}

func (m *mmc3) IRQPending() bool { return m.irqPending }

func (m *mmc3) SaveState() []byte {
	state := make([]byte, 0, 16)
	state = append(state, m.bankSelect)
	state = append(state, m.bankReg[:]...)
	mirror := uint8(0)
	if m.mirror == cartridge.MirrorHorizontal {
		mirror = 1
	}
	state = append(state, mirror, boolByte(m.prgRAMEnable))
	state = append(state, m.irqLatch, m.irqCounter)
	state = append(state, boolByte(m.irqReload), boolByte(m.irqEnable), boolByte(m.irqPending))
	return state
}

func (m *mmc3) LoadState(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("mapper: mmc3 state wants 16 bytes, got %d", len(data))
	}
	m.bankSelect = data[0]
	copy(m.bankReg[:], data[1:9])
	if data[9] == 1 {
		m.mirror = cartridge.MirrorHorizontal
	} else {
		m.mirror = cartridge.MirrorVertical
	}
	m.prgRAMEnable = data[10] != 0
	m.irqLatch, m.irqCounter = data[11], data[12]
	m.irqReload, m.irqEnable, m.irqPending = data[13] != 0, data[14] != 0, data[15] != 0
	return nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
