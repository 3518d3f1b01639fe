package ppu

// Step advances the PPU by exactly one dot, the unit the CPU/APU/mapper
// clock is divided into at a fixed 1:3 CPU:PPU ratio.
func (p *PPU) Step() {
	p.tick()

	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > p.scanlineMax {
			p.scanline = -1
			p.frameCount++
			p.oddFrame = !p.oddFrame
		}
	}

	// Pre-render scanline skips dot 0 on odd frames when rendering is
	// enabled, shortening the frame by one dot.
	if p.scanline == -1 && p.dot == 0 && p.oddFrame && p.renderingEnabled() {
		p.dot = 1
	}
}

func (p *PPU) tick() {
	switch {
	case p.scanline == -1:
		p.preRenderTick()
	case p.scanline >= 0 && p.scanline <= 239:
		p.visibleTick()
	case p.scanline == 241 && p.dot == 1:
		p.status |= 0x80
		p.updateNMILine()
	}
	p.clockMapper()
}

func (p *PPU) preRenderTick() {
	if p.dot == 1 {
		p.status &^= 0xE0 // clear vblank, sprite-0 hit, sprite overflow
		p.updateNMILine()
	}
	p.backgroundFetchTick()
	if p.dot >= 280 && p.dot <= 304 && p.renderingEnabled() {
		p.copyY()
	}
}

func (p *PPU) visibleTick() {
	if p.dot >= 1 && p.dot <= 256 {
		p.outputPixel()
	}
	p.backgroundFetchTick()
	if p.dot == 65 && p.renderingEnabled() {
		p.evaluateSprites()
	}
	if p.dot == 257 && p.renderingEnabled() {
		p.fetchSprites()
	}
}

// backgroundFetchTick drives the nametable/attribute/pattern fetch pipeline
// and shift-register reload/shift that happens on both visible and
// pre-render scanlines.
func (p *PPU) backgroundFetchTick() {
	if !p.renderingEnabled() {
		return
	}
	inFetchWindow := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if inFetchWindow {
		p.shiftBackground()
		switch p.dot % 8 {
		case 1:
			p.ntLatch = p.readBus(0x2000 | (p.v & 0x0FFF))
		case 3:
			p.atLatch = p.fetchAttribute()
		case 5:
			p.patLoLatch = p.fetchPattern(false)
		case 7:
			p.patHiLatch = p.fetchPattern(true)
		case 0:
			p.reloadShifters()
			p.incrementCoarseX()
		}
	}
	if p.dot == 256 {
		p.incrementY()
	}
	if p.dot == 257 {
		p.copyX()
	}
}

func (p *PPU) fetchAttribute() uint8 {
	coarseX := p.v & 0x001F
	coarseY := (p.v >> 5) & 0x001F
	nt := p.v & 0x0C00
	addr := 0x23C0 | nt | ((coarseY >> 2) << 3) | (coarseX >> 2)
	b := p.readBus(addr)
	shift := ((coarseY & 0x02) << 1) | (coarseX & 0x02)
	return (b >> shift) & 0x03
}

func (p *PPU) fetchPattern(high bool) uint8 {
	fineY := (p.v >> 12) & 0x07
	base := uint16(0x0000)
	if p.ctrl&0x10 != 0 {
		base = 0x1000
	}
	addr := base + uint16(p.ntLatch)*16 + fineY
	if high {
		addr += 8
	}
	return p.readBus(addr)
}

func (p *PPU) reloadShifters() {
	p.bgShiftLo = (p.bgShiftLo & 0xFF00) | uint16(p.patLoLatch)
	p.bgShiftHi = (p.bgShiftHi & 0xFF00) | uint16(p.patHiLatch)
	var loFill, hiFill uint16
	if p.atLatch&0x01 != 0 {
		loFill = 0x00FF
	}
	if p.atLatch&0x02 != 0 {
		hiFill = 0x00FF
	}
	p.attrShiftLo = (p.attrShiftLo & 0xFF00) | loFill
	p.attrShiftHi = (p.attrShiftHi & 0xFF00) | hiFill
}

func (p *PPU) shiftBackground() {
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.attrShiftLo <<= 1
	p.attrShiftHi <<= 1
}

func (p *PPU) incrementCoarseX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyX() {
	if !p.renderingEnabled() {
		return
	}
	p.v = (p.v & 0xFBE0) | (p.t & 0x041F)
}

func (p *PPU) copyY() {
	p.v = (p.v & 0x841F) | (p.t & 0x7BE0)
}

func (p *PPU) clockMapper() {
	if p.mapper == nil {
		return
	}
	a12 := p.currentAddressA12()
	rising := a12 && !p.prevA12
	p.prevA12 = a12
	p.mapper.Clock(p.scanline, p.dot, rising)
}

// currentAddressA12 approximates the PPU address bus's A12 line for MMC3's
// scanline counter: high while background fetches are pulling from pattern
// table 1, or while evaluating/fetching sprites that use pattern table 1.
func (p *PPU) currentAddressA12() bool {
	if !p.renderingEnabled() {
		return false
	}
	if p.scanline > 239 {
		return false // no pattern fetches on post-render and vblank lines
	}
	if p.dot >= 257 && p.dot <= 320 {
		return p.ctrl&0x08 != 0 // sprite pattern table select (8x8 mode)
	}
	return p.ctrl&0x10 != 0 // background pattern table select
}
