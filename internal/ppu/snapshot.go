package ppu

// Snapshot captures the PPU's registers, OAM, nametables, palette RAM and
// timing position for save states. The background and sprite fetch
// pipeline (shift registers, latches, secondary OAM), the A12 edge tracker
// and the framebuffer are not included.
type Snapshot struct {
	Ctrl, Mask, Status, OAMAddr uint8
	V, T                        uint16
	X                           uint8
	W                           bool
	ReadBuffer, OpenBus         uint8

	OAM        [256]uint8
	Nametable  [0x0800]uint8
	PaletteRAM [32]uint8

	Scanline   int
	Dot        int
	OddFrame   bool
	FrameCount uint64
}

func (p *PPU) Snapshot() Snapshot {
	return Snapshot{
		Ctrl: p.ctrl, Mask: p.mask, Status: p.status, OAMAddr: p.oamAddr,
		V: p.v, T: p.t, X: p.x, W: p.w,
		ReadBuffer: p.readBuffer, OpenBus: p.openBus,
		OAM: p.oam, Nametable: p.nametable, PaletteRAM: p.paletteRAM,
		Scanline: p.scanline, Dot: p.dot, OddFrame: p.oddFrame, FrameCount: p.frameCount,
	}
}

func (p *PPU) Restore(s Snapshot) {
	p.ctrl, p.mask, p.status, p.oamAddr = s.Ctrl, s.Mask, s.Status, s.OAMAddr
	p.v, p.t, p.x, p.w = s.V, s.T, s.X, s.W
	p.readBuffer, p.openBus = s.ReadBuffer, s.OpenBus
	p.oam, p.nametable, p.paletteRAM = s.OAM, s.Nametable, s.PaletteRAM
	p.scanline, p.dot, p.oddFrame, p.frameCount = s.Scanline, s.Dot, s.OddFrame, s.FrameCount
}
