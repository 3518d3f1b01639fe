package ppu

import "github.com/nesdeck/nesdeck/internal/cartridge"

// ReadRegister services a CPU read of $2000-$2007 (already reduced to the
// canonical $2000-based register by the bus's mod-8 mirroring).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0x2002:
		value := (p.status & 0xE0) | (p.openBus & 0x1F)
		p.status &^= 0x80
		p.w = false
		p.updateNMILine()
		return value
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readData()
	default:
		return p.openBus
	}
}

// WriteRegister services a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	p.openBus = value
	switch addr {
	case 0x2000:
		p.ctrl = value
		p.t = (p.t & 0xF3FF) | (uint16(value&0x03) << 10)
		p.updateNMILine()
	case 0x2001:
		p.mask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		p.writeScroll(value)
	case 0x2006:
		p.writeAddr(value)
	case 0x2007:
		p.writeData(value)
	}
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t = (p.t & 0xFFE0) | uint16(value>>3)
		p.x = value & 0x07
	} else {
		p.t = (p.t & 0x8FFF) | (uint16(value&0x07) << 12)
		p.t = (p.t & 0xFC1F) | (uint16(value&0xF8) << 2)
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t & 0x00FF) | (uint16(value&0x3F) << 8)
	} else {
		p.t = (p.t & 0xFF00) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	var value uint8
	if addr >= 0x3F00 {
		value = p.readBusNoMirror(addr)
		p.readBuffer = p.readBusNoMirror(addr - 0x1000)
	} else {
		value = p.readBuffer
		p.readBuffer = p.readBusNoMirror(addr)
	}
	p.v += p.vramIncrement()
	return value
}

func (p *PPU) writeData(value uint8) {
	p.writeBus(p.v&0x3FFF, value)
	p.v += p.vramIncrement()
}

// readBusNoMirror is readBus under another name: it applies the same
// pattern-table routing, nametable mirroring and palette mirroring.
func (p *PPU) readBusNoMirror(addr uint16) uint8 {
	return p.readBus(addr)
}

// readBus/writeBus implement the PPU's own 14-bit address space:
// $0000-$1FFF pattern tables (mapper), $2000-$3EFF nametables (mirrored),
// $3F00-$3FFF palette RAM (mirrored every 32 bytes, with the $10/$14/$18/$1C
// background-color aliasing quirk).
func (p *PPU) readBus(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.mapper != nil {
			return p.mapper.ReadPPU(addr)
		}
		return 0
	case addr < 0x3F00:
		return p.nametable[p.mirrorNametable(addr)]
	default:
		return p.paletteRAM[paletteIndex(addr)]
	}
}

func (p *PPU) writeBus(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.mapper != nil {
			p.mapper.WritePPU(addr, value)
		}
	case addr < 0x3F00:
		p.nametable[p.mirrorNametable(addr)] = value
	default:
		p.paletteRAM[paletteIndex(addr)] = value
	}
}

func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx&0x13 == 0x10 {
		idx &^= 0x10
	}
	return idx
}

// mirrorNametable reduces a $2000-$2FFF address to a 2KiB physical offset
// per the current mirroring mode.
func (p *PPU) mirrorNametable(addr uint16) uint16 {
	offset := addr & 0x0FFF
	table := offset / 0x400
	within := offset % 0x400

	mode := cartridge.MirrorHorizontal
	if p.mapper != nil {
		mode = p.mapper.Mirroring()
	}

	var physical uint16
	switch mode {
	case cartridge.MirrorVertical:
		physical = uint16(table%2)*0x400 + within
	case cartridge.MirrorSingleScreenA:
		physical = within
	case cartridge.MirrorSingleScreenB:
		physical = 0x400 + within
	case cartridge.MirrorFourScreen:
		// Four-screen carts carry their own extra nametable VRAM; this
		// core's nametable array only has 2KiB and nametable accesses never
		// reach the mapper, so four-screen always folds to vertical.
		physical = uint16(table%2)*0x400 + within
	default: // MirrorHorizontal
		physical = uint16(table/2)*0x400 + within
	}
	return physical & 0x07FF
}

// updateNMILine recomputes the PPU's NMI output line (vblank flag AND
// NMI-enable) and reports its level to the callback on every call, whether
// or not it changed. The CPU's own SetNMILine edge-detects, so repeating an
// unchanged level (rather than reporting only rising edges) is safe and
// keeps the two in sync.
func (p *PPU) updateNMILine() {
	if p.nmiOutput == nil {
		return
	}
	p.nmiOutput(p.status&0x80 != 0 && p.ctrl&0x80 != 0)
}
