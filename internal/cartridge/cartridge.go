// Package cartridge implements iNES ROM loading and parsing for NES cartridges.
package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Mirroring describes how the PPU's 2KB of nametable RAM is replicated
// across its 4KB nametable address space.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorSingleScreenA
	MirrorSingleScreenB
	MirrorFourScreen
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleScreenA:
		return "single-screen-a"
	case MirrorSingleScreenB:
		return "single-screen-b"
	case MirrorFourScreen:
		return "four-screen"
	default:
		return "unknown"
	}
}

// Region is the TV system the cartridge targets.
type Region uint8

const (
	RegionNTSC Region = iota
	RegionPAL
)

// ErrorKind classifies a cartridge-loading failure, per the core's error taxonomy.
type ErrorKind uint8

const (
	ErrInvalidHeader ErrorKind = iota
	ErrUnsupportedMapper
	ErrTruncated
)

// Error is the cartridge package's error type; wraps a Kind and an
// optional underlying cause so callers can errors.Is/errors.As against it.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cartridge: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("cartridge: %s", e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

const (
	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024
	headerSize  = 16
	trainerSize = 512
	sramSize    = 32 * 1024
)

// Cartridge owns the immutable ROM images and mutable RAM for a loaded game.
type Cartridge struct {
	MapperID   uint8
	Mirroring  Mirroring
	Region     Region
	HasBattery bool
	HasCHRRAM  bool

	PrgROM []uint8
	ChrROM []uint8 // ROM bytes, or RAM backing store when HasCHRRAM is true
	PrgRAM []uint8 // up to 32KiB at $6000-$7FFF
	ExtRAM []uint8 // mapper-internal RAM (e.g. four-screen VRAM)
}

// Load parses an iNES (or iNES-compatible NES 2.0 prefix) image.
func Load(r io.Reader) (*Cartridge, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, &Error{Kind: ErrTruncated, Msg: "reading header", Err: err}
	}
	if !bytes.Equal(header[0:4], []byte("NES\x1A")) {
		return nil, &Error{Kind: ErrInvalidHeader, Msg: "bad magic"}
	}

	prgBanks := int(header[4])
	chrBanks := int(header[5])
	flags6 := header[6]
	flags7 := header[7]

	mapperID := (flags6 >> 4) | (flags7 & 0xF0)
	switch mapperID {
	case 0, 1, 2, 3, 4:
	default:
		return nil, &Error{Kind: ErrUnsupportedMapper, Msg: fmt.Sprintf("mapper %d not supported", mapperID)}
	}

	cart := &Cartridge{
		MapperID:   mapperID,
		HasBattery: flags6&0x02 != 0,
		PrgRAM:     make([]uint8, sramSize),
	}

	switch {
	case flags6&0x08 != 0:
		cart.Mirroring = MirrorFourScreen
		cart.ExtRAM = make([]uint8, 4*1024)
	case flags6&0x01 != 0:
		cart.Mirroring = MirrorVertical
	default:
		cart.Mirroring = MirrorHorizontal
	}

	if header[9]&0x01 != 0 {
		cart.Region = RegionPAL
	}

	if flags6&0x04 != 0 {
		trainer := make([]uint8, trainerSize)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, &Error{Kind: ErrTruncated, Msg: "reading trainer", Err: err}
		}
	}

	if prgBanks == 0 {
		return nil, &Error{Kind: ErrInvalidHeader, Msg: "zero PRG ROM banks"}
	}
	cart.PrgROM = make([]uint8, prgBanks*prgBankSize)
	if _, err := io.ReadFull(r, cart.PrgROM); err != nil {
		return nil, &Error{Kind: ErrTruncated, Msg: "reading PRG ROM", Err: err}
	}

	if chrBanks == 0 {
		cart.HasCHRRAM = true
		cart.ChrROM = make([]uint8, chrBankSize)
	} else {
		cart.ChrROM = make([]uint8, chrBanks*chrBankSize)
		if _, err := io.ReadFull(r, cart.ChrROM); err != nil {
			return nil, &Error{Kind: ErrTruncated, Msg: "reading CHR ROM", Err: err}
		}
	}

	if len(cart.PrgROM)%prgBankSize != 0 || len(cart.ChrROM)%chrBankSize != 0 {
		return nil, &Error{Kind: ErrInvalidHeader, Msg: "ROM size not bank-aligned"}
	}

	return cart, nil
}

// LoadCompressed transparently gunzips r (the format ROM archive tooling
// such as rom-tools/screenscraper-go produce for .nes.gz assets) before
// delegating to Load.
func LoadCompressed(r io.Reader) (*Cartridge, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidHeader, Msg: "gzip header", Err: err}
	}
	defer gz.Close()
	return Load(gz)
}

// PrgBankCount reports the number of 16KiB PRG banks.
func (c *Cartridge) PrgBankCount() int { return len(c.PrgROM) / prgBankSize }

// ChrBankCount reports the number of 8KiB CHR banks.
func (c *Cartridge) ChrBankCount() int { return len(c.ChrROM) / chrBankSize }

// BatteryRAM returns a copy of the cartridge's persistent SRAM, for the host
// to write to disk on shutdown. Returns nil if the cartridge has no battery.
func (c *Cartridge) BatteryRAM() []byte {
	if !c.HasBattery {
		return nil
	}
	out := make([]byte, len(c.PrgRAM))
	copy(out, c.PrgRAM)
	return out
}

// LoadBatteryRAM restores previously persisted SRAM, read at ROM load time.
func (c *Cartridge) LoadBatteryRAM(data []byte) error {
	if !c.HasBattery {
		return errors.New("cartridge: no battery-backed RAM to load")
	}
	n := copy(c.PrgRAM, data)
	for i := n; i < len(c.PrgRAM); i++ {
		c.PrgRAM[i] = 0
	}
	return nil
}
