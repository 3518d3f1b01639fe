package ppu

// evaluateSprites scans primary OAM for up to 8 sprites visible on the
// current scanline, filling secondary OAM and setting the overflow flag
// when a ninth would-be match is found (the real hardware's buggy
// diagonal-scan overflow detection is not reproduced; this flags a true
// ninth-sprite match instead).
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}

	p.spriteCount = 0
	p.spriteOverflow = false
	p.spriteIsZero = [8]bool{}

	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		if p.scanline < y+1 || p.scanline >= y+1+height {
			continue
		}
		if p.spriteCount < 8 {
			base := p.spriteCount * 4
			copy(p.secondaryOAM[base:base+4], p.oam[i*4:i*4+4])
			p.spriteIsZero[p.spriteCount] = i == 0
			p.spriteCount++
		} else {
			p.spriteOverflow = true
			break
		}
	}
	if p.spriteOverflow {
		p.status |= 0x20
	}
}

// fetchSprites loads the per-sprite pattern shift registers from secondary
// OAM ahead of the next scanline's rendering (done here at dot 257 as a
// single batch rather than the hardware's dots 257-320 fetch sequence).
func (p *PPU) fetchSprites() {
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}

	for i := 0; i < p.spriteCount; i++ {
		base := i * 4
		y := int(p.secondaryOAM[base])
		tile := p.secondaryOAM[base+1]
		attr := p.secondaryOAM[base+2]
		x := p.secondaryOAM[base+3]

		row := p.scanline - (y + 1)
		if attr&0x80 != 0 {
			row = height - 1 - row
		}
		if row < 0 {
			row = 0
		}

		var addr uint16
		if height == 16 {
			table := uint16(0x0000)
			if tile&0x01 != 0 {
				table = 0x1000
			}
			index := tile &^ 0x01
			if row >= 8 {
				index++
				row -= 8
			}
			addr = table + uint16(index)*16 + uint16(row)
		} else {
			table := uint16(0x0000)
			if p.ctrl&0x08 != 0 {
				table = 0x1000
			}
			addr = table + uint16(tile)*16 + uint16(row)
		}

		lo := p.readBus(addr)
		hi := p.readBus(addr + 8)
		if attr&0x40 != 0 {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.spritePatLo[i] = lo
		p.spritePatHi[i] = hi
		p.spriteAttr[i] = attr
		p.spriteX[i] = x
	}
	for i := p.spriteCount; i < 8; i++ {
		p.spritePatLo[i], p.spritePatHi[i] = 0, 0
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// outputPixel composes the background and sprite pixel for the current
// (scanline, dot) and writes the resulting palette index to the framebuffer.
func (p *PPU) outputPixel() {
	x := p.dot - 1
	y := p.scanline
	if x < 0 || x >= width || y < 0 || y >= height {
		return
	}

	bgColor, bgOpaque := p.backgroundPixel(x)
	spColor, spOpaque, spBehind, spriteZero := p.spritePixel(x)

	showBG := p.mask&0x08 != 0 && (x >= 8 || p.mask&0x02 != 0)
	showSP := p.mask&0x10 != 0 && (x >= 8 || p.mask&0x04 != 0)
	if !showBG {
		bgOpaque = false
	}
	if !showSP {
		spOpaque = false
	}

	if bgOpaque && spOpaque && spriteZero && x != 255 {
		p.status |= 0x40
	}

	var paletteAddr uint16
	switch {
	case !bgOpaque && !spOpaque:
		paletteAddr = 0x3F00
	case !bgOpaque:
		paletteAddr = 0x3F10 + uint16(spColor)
	case !spOpaque:
		paletteAddr = 0x3F00 + uint16(bgColor)
	case spBehind:
		paletteAddr = 0x3F00 + uint16(bgColor)
	default:
		paletteAddr = 0x3F10 + uint16(spColor)
	}

	p.frameBuffer[y*width+x] = p.readBus(paletteAddr) & 0x3F
}

// backgroundPixel returns a (paletteOffset, opaque) pair for screen column x
// using the fine-X-selected bit of the current shift registers.
func (p *PPU) backgroundPixel(x int) (uint8, bool) {
	shift := uint(15 - p.x)
	lo := uint8((p.bgShiftLo >> shift) & 1)
	hi := uint8((p.bgShiftHi >> shift) & 1)
	colorIndex := (hi << 1) | lo

	loAttr := uint8((p.attrShiftLo >> shift) & 1)
	hiAttr := uint8((p.attrShiftHi >> shift) & 1)
	palette := (hiAttr << 1) | loAttr

	if colorIndex == 0 {
		return 0, false
	}
	return palette*4 + colorIndex, true
}

// spritePixel returns the first (highest priority) opaque sprite pixel
// active at screen column x, along with whether it belongs to OAM sprite 0
// and whether it should draw behind the background.
func (p *PPU) spritePixel(x int) (color uint8, opaque bool, behind bool, isZero bool) {
	for i := 0; i < p.spriteCount; i++ {
		if int(p.spriteX[i]) > x || x-int(p.spriteX[i]) >= 8 {
			continue
		}
		offset := uint(x) - uint(p.spriteX[i])
		lo := (p.spritePatLo[i] >> (7 - offset)) & 1
		hi := (p.spritePatHi[i] >> (7 - offset)) & 1
		idx := (hi << 1) | lo
		if idx == 0 {
			continue
		}
		attr := p.spriteAttr[i]
		return (attr&0x03)*4 + idx, true, attr&0x20 != 0, p.spriteIsZero[i]
	}
	return 0, false, false, false
}
