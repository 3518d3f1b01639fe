package mapper

import (
	"testing"

	"github.com/nesdeck/nesdeck/internal/cartridge"
)

func newCart(mapperID uint8, prgBanks, chrBanks int) *cartridge.Cartridge {
	c := &cartridge.Cartridge{
		MapperID: mapperID,
		PrgROM:   make([]uint8, prgBanks*prgBankSize),
		PrgRAM:   make([]uint8, 8*1024),
	}
	if chrBanks == 0 {
		c.HasCHRRAM = true
		c.ChrROM = make([]uint8, chrBankSize)
	} else {
		c.ChrROM = make([]uint8, chrBanks*chrBankSize)
	}
	return c
}

func TestNewRejectsUnknownMapper(t *testing.T) {
	cart := newCart(255, 1, 1)
	if _, err := New(cart); err == nil {
		t.Fatal("expected error for unsupported mapper id")
	}
}

func TestNROMMirrorsSmallPRG(t *testing.T) {
	cart := newCart(0, 1, 1)
	cart.PrgROM[0] = 0x42
	cart.PrgROM[len(cart.PrgROM)-1] = 0x99
	m, err := New(cart)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.ReadCPU(0x8000); got != 0x42 {
		t.Errorf("expected mirrored first byte 0x42, got %#x", got)
	}
	if got := m.ReadCPU(0xC000); got != 0x42 {
		t.Errorf("expected $C000 to mirror $8000 for 16KiB NROM, got %#x", got)
	}
	if got := m.ReadCPU(0xFFFF); got != 0x99 {
		t.Errorf("expected last byte 0x99, got %#x", got)
	}
}

func TestNROMPRGRAM(t *testing.T) {
	cart := newCart(0, 1, 1)
	m, _ := New(cart)
	m.WriteCPU(0x6010, 0x55)
	if got := m.ReadCPU(0x6010); got != 0x55 {
		t.Errorf("expected PRG RAM round-trip, got %#x", got)
	}
}

func TestUxROMBankSwitch(t *testing.T) {
	cart := newCart(2, 4, 0)
	for bank := 0; bank < 4; bank++ {
		cart.PrgROM[bank*prgBankSize] = uint8(0x10 + bank)
	}
	m, _ := New(cart)
	m.WriteCPU(0x8000, 2)
	if got := m.ReadCPU(0x8000); got != 0x12 {
		t.Errorf("expected switched bank 2 byte 0x12, got %#x", got)
	}
	if got := m.ReadCPU(0xC000); got != 0x13 {
		t.Errorf("expected fixed last bank 3 byte 0x13, got %#x", got)
	}
}

func TestCNROMChrBankSwitch(t *testing.T) {
	cart := newCart(3, 1, 2)
	cart.ChrROM[0] = 0xAA
	cart.ChrROM[chrBankSize] = 0xBB
	m, _ := New(cart)
	if got := m.ReadPPU(0); got != 0xAA {
		t.Errorf("expected bank 0 byte 0xAA, got %#x", got)
	}
	m.WriteCPU(0x8000, 1)
	if got := m.ReadPPU(0); got != 0xBB {
		t.Errorf("expected bank 1 byte 0xBB after switch, got %#x", got)
	}
}

// writeMMC1 performs the 5-write serial sequence MMC1 requires for a single
// register update.
func writeMMC1(m *mmc1, addr uint16, value uint8) {
	for i := 0; i < 5; i++ {
		bit := (value >> uint(i)) & 0x01
		m.WriteCPU(addr, bit)
	}
}

func TestMMC1PRGBankSwitch16K(t *testing.T) {
	cart := newCart(1, 4, 0)
	for bank := 0; bank < 4; bank++ {
		cart.PrgROM[bank*prgBankSize] = uint8(0x20 + bank)
	}
	mm := newMMC1(cart)
	// control = mirror(any) | prgMode=3 (switch $8000, fix last at $C000) | chrMode=0
	writeMMC1(mm, 0x8000, 0x0C)
	writeMMC1(mm, 0xE000, 0x01) // select PRG bank 1 at $8000
	if got := mm.ReadCPU(0x8000); got != 0x21 {
		t.Errorf("expected switched PRG bank 1 byte 0x21, got %#x", got)
	}
	if got := mm.ReadCPU(0xC000); got != 0x23 {
		t.Errorf("expected fixed last bank 3 byte 0x23, got %#x", got)
	}
}

func TestMMC1ResetBitForcesShiftReset(t *testing.T) {
	cart := newCart(1, 2, 0)
	mm := newMMC1(cart)
	writeMMC1(mm, 0x8000, 0x00) // clear prgMode bits (control = 0x00)
	mm.WriteCPU(0x8000, 0x01)
	mm.WriteCPU(0x8000, 0x80) // reset bit set mid-sequence
	if mm.shiftCount != 0 {
		t.Errorf("expected shift register reset, count=%d", mm.shiftCount)
	}
	if mm.control&0x0C != 0x0C {
		t.Errorf("expected prgMode forced to 3 after reset, control=%#x", mm.control)
	}
}

func TestMMC1Mirroring(t *testing.T) {
	cart := newCart(1, 2, 0)
	mm := newMMC1(cart)
	writeMMC1(mm, 0x8000, 0x02) // control bits 00010 -> mirror=vertical
	if mm.Mirroring() != cartridge.MirrorVertical {
		t.Errorf("expected vertical mirroring, got %v", mm.Mirroring())
	}
	writeMMC1(mm, 0x8000, 0x03) // mirror=horizontal
	if mm.Mirroring() != cartridge.MirrorHorizontal {
		t.Errorf("expected horizontal mirroring, got %v", mm.Mirroring())
	}
}

func TestMMC3PRGFixedBanks(t *testing.T) {
	cart := newCart(4, 4, 8) // 4x16KiB PRG = eight 8KiB banks
	for bank := 0; bank < 8; bank++ {
		cart.PrgROM[bank*8*1024] = uint8(0x30 + bank)
	}
	mm := newMMC3(cart)
	// bankSelect targeting R6, prgMode=0 (R6 at $8000, R7 at $A000)
	mm.WriteCPU(0x8000, 0x06)
	mm.WriteCPU(0x8001, 2) // R6 = bank 2
	if got := mm.ReadCPU(0x8000); got != 0x32 {
		t.Errorf("expected R6-selected bank 2 byte 0x32, got %#x", got)
	}
	if got := mm.ReadCPU(0xE000); got != 0x37 {
		t.Errorf("expected fixed last bank 7 byte 0x37 at $E000, got %#x", got)
	}
	if got := mm.ReadCPU(0xC000); got != 0x36 {
		t.Errorf("expected second-to-last bank 6 byte 0x36 at $C000, got %#x", got)
	}
}

func TestMMC3IRQCounterReloadsAndFires(t *testing.T) {
	cart := newCart(4, 8, 8)
	mm := newMMC3(cart)
	mm.WriteCPU(0xC000, 4) // latch = 4
	mm.WriteCPU(0xC001, 0) // request reload
	mm.WriteCPU(0xE001, 0) // enable IRQ

	mm.Clock(0, 260, true) // first edge: reload from 0, counter becomes 4
	if mm.irqPending {
		t.Fatal("should not fire immediately after reload to nonzero")
	}
	for i := 0; i < 4; i++ {
		mm.Clock(0, 260, true)
	}
	if !mm.IRQPending() {
		t.Error("expected IRQ pending after counter reaches 0 with IRQs enabled")
	}
}

func TestMMC3IRQAcknowledge(t *testing.T) {
	cart := newCart(4, 8, 8)
	mm := newMMC3(cart)
	mm.WriteCPU(0xC000, 0)
	mm.WriteCPU(0xC001, 0)
	mm.WriteCPU(0xE001, 0)
	mm.Clock(0, 260, true)
	if !mm.IRQPending() {
		t.Fatal("expected IRQ pending")
	}
	mm.WriteCPU(0xE000, 0) // disable+acknowledge
	if mm.IRQPending() {
		t.Error("expected IRQ cleared after $E000 write")
	}
}
