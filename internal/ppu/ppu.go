// Package ppu implements the NES Picture Processing Unit (2C02): a
// dot-accurate (scanline, dot) renderer producing a 256x240 paletted
// framebuffer and driving NMI at vblank.
package ppu

import "github.com/nesdeck/nesdeck/internal/cartridge"

// Mapper is the subset of internal/mapper.Mapper the PPU needs: pattern
// table access, nametable mirroring, and the A12-edge clock MMC3 counts.
type Mapper interface {
	ReadPPU(addr uint16) uint8
	WritePPU(addr uint16, value uint8)
	Mirroring() cartridge.Mirroring
	Clock(scanline, dot int, a12RisingEdge bool)
	IRQPending() bool
}

const (
	width  = 256
	height = 240
)

// PPU is the 2C02 picture processing unit.
type PPU struct {
	ctrl    uint8 // $2000
	mask    uint8 // $2001
	status  uint8 // $2002
	oamAddr uint8 // $2003

	v uint16 // current VRAM address (15 bits)
	t uint16 // temporary VRAM address / scroll latch
	x uint8  // fine X scroll (3 bits)
	w bool   // write-toggle

	readBuffer uint8 // delayed PPUDATA read buffer
	openBus    uint8

	oam            [256]uint8
	secondaryOAM   [32]uint8
	spriteCount    int
	spriteIsZero   [8]bool // whether secondaryOAM slot i originated from OAM sprite 0
	spriteOverflow bool

	nametable  [0x0800]uint8
	paletteRAM [32]uint8

	mapper Mapper

	scanline    int // -1 (pre-render) .. scanlineMax
	dot         int // 0..340
	oddFrame    bool
	frameCount  uint64
	scanlineMax int // 260 for NTSC (262 scanlines/frame), 310 for PAL (312)

	frameBuffer [width * height]uint8

	bgShiftLo, bgShiftHi     uint16
	attrShiftLo, attrShiftHi uint16
	ntLatch, atLatch         uint8
	patLoLatch, patHiLatch   uint8

	spritePatLo, spritePatHi [8]uint8
	spriteX                  [8]uint8
	spriteAttr               [8]uint8

	prevA12 bool

	nmiOutput func(level bool)
}

// New creates an NTSC-timed PPU (262 scanlines/frame) with no mapper
// attached yet.
func New() *PPU {
	return &PPU{scanline: -1, scanlineMax: 260}
}

// SetPAL switches between NTSC (262 scanlines/frame, the default) and PAL
// (312 scanlines/frame) timing. Vblank still starts at scanline 241 in both
// regions; PAL simply holds it for 50 extra scanlines before pre-render.
func (p *PPU) SetPAL(pal bool) {
	if pal {
		p.scanlineMax = 310
	} else {
		p.scanlineMax = 260
	}
}

// SetMapper attaches the cartridge mapper backing pattern tables and
// nametable mirroring.
func (p *PPU) SetMapper(m Mapper) {
	p.mapper = m
}

// SetNMI wires the callback that receives the PPU's NMI output level
// (vblank flag AND PPUCTRL NMI-enable) each time the PPU recomputes it: on
// $2000 writes, $2002 reads, and when vblank is set or cleared.
func (p *PPU) SetNMI(fn func(level bool)) {
	p.nmiOutput = fn
}

// Reset restores power-on register state. OAM/nametable/palette contents
// are left as-is for a soft reset; HardReset additionally zeroes them.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.v, p.t = 0, 0
	p.x = 0
	p.w = false
	p.readBuffer = 0
	p.scanline = -1
	p.dot = 0
	p.oddFrame = false
}

// HardReset performs Reset plus clearing OAM, nametables, palette RAM and
// the frame count.
func (p *PPU) HardReset() {
	p.Reset()
	p.oam = [256]uint8{}
	p.nametable = [0x0800]uint8{}
	p.paletteRAM = [32]uint8{}
	p.frameBuffer = [width * height]uint8{}
	p.frameCount = 0
}

// FrameBuffer returns the current 256x240 palette-index framebuffer.
func (p *PPU) FrameBuffer() *[width * height]uint8 {
	return &p.frameBuffer
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&0x18 != 0
}

// FrameCount returns the number of frames completed so far.
func (p *PPU) FrameCount() uint64 { return p.frameCount }

// Scanline and Dot expose current timing position, mostly for tests and
// ControlDeck.ClockScanline bookkeeping.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }
