// Package mapper decodes the CPU and PPU address spaces into cartridge
// banks for the five NES mapper chips this core supports.
package mapper

import (
	"fmt"

	"github.com/nesdeck/nesdeck/internal/cartridge"
)

// Mapper is the shared contract every cartridge bank-switching chip
// implements. Variants are selected once at load time from a closed set (per
// the "mapper polymorphism" design note) and called through this interface;
// no reflection is involved.
type Mapper interface {
	// ReadCPU services the CPU address space $4020-$FFFF.
	ReadCPU(addr uint16) uint8
	// WriteCPU services writes to $4020-$FFFF, including bank-register side effects.
	WriteCPU(addr uint16, value uint8)
	// ReadPPU services the PPU address space $0000-$1FFF (pattern tables).
	ReadPPU(addr uint16) uint8
	// WritePPU services writes to $0000-$1FFF (only meaningful for CHR RAM).
	WritePPU(addr uint16, value uint8)
	// Mirroring reports the current nametable mirroring mode.
	Mirroring() cartridge.Mirroring
	// Clock is invoked once per PPU dot by the PPU, carrying whether the
	// PPU address bus's A12 line just rose. Only MMC3 acts on it.
	Clock(scanline, dot int, a12RisingEdge bool)
	// IRQPending reports whether the mapper is asserting its IRQ line.
	IRQPending() bool
	// SaveState returns an opaque encoding of the mapper's bank-switching
	// registers for save states; PRG/CHR RAM contents live on the
	// cartridge and are saved separately. LoadState restores it.
	SaveState() []byte
	LoadState(data []byte) error
}

// New constructs the Mapper for cart's declared MapperID. The spec's
// Non-goals bound this set to {0,1,2,3,4}; cartridge.Load already rejects
// anything else, so an unrecognized ID here indicates a programmer error
// rather than a malformed ROM.
func New(cart *cartridge.Cartridge) (Mapper, error) {
	switch cart.MapperID {
	case 0:
		return newNROM(cart), nil
	case 1:
		return newMMC1(cart), nil
	case 2:
		return newUxROM(cart), nil
	case 3:
		return newCNROM(cart), nil
	case 4:
		return newMMC3(cart), nil
	default:
		return nil, fmt.Errorf("mapper: unsupported mapper id %d", cart.MapperID)
	}
}

// chrBankRead reads offset within CHR bank number bank of bankSize bytes,
// returning 0 past the end of CHR. chrBankWrite is its write counterpart and
// only stores when the cartridge has CHR RAM.
func chrBankRead(chr []uint8, bankSize int, bank int, offset uint16) uint8 {
	base := bank * bankSize
	idx := base + int(offset)
	if idx < 0 || idx >= len(chr) {
		return 0
	}
	return chr[idx]
}

func chrBankWrite(cart *cartridge.Cartridge, bankSize int, bank int, offset uint16, value uint8) {
	if !cart.HasCHRRAM {
		return
	}
	base := bank * bankSize
	idx := base + int(offset)
	if idx >= 0 && idx < len(cart.ChrROM) {
		cart.ChrROM[idx] = value
	}
}
