// Package deck implements ControlDeck, the façade that owns and clocks a
// complete NES core: CPU, PPU, APU, memory bus, cartridge mapper and input.
// It is the only package client code outside internal/ needs to import.
package deck

import (
	"io"

	"github.com/nesdeck/nesdeck/internal/apu"
	"github.com/nesdeck/nesdeck/internal/bus"
	"github.com/nesdeck/nesdeck/internal/cartridge"
	"github.com/nesdeck/nesdeck/internal/cpu"
	"github.com/nesdeck/nesdeck/internal/input"
	"github.com/nesdeck/nesdeck/internal/mapper"
	"github.com/nesdeck/nesdeck/internal/ppu"
)

// ResetKind selects between a soft reset (the RESET line, registers/CPU
// state reinitialized, RAM contents preserved) and a hard reset (power
// cycle: RAM, OAM, nametables and palette additionally zeroed).
type ResetKind uint8

const (
	Soft ResetKind = iota
	Hard
)

// zapperLatchFrames is how many ClockFrame calls a Trigger() stays latched
// for before auto-releasing, approximating the real light gun's mechanical
// trigger-pull duration.
const zapperLatchFrames = 4

// ControlDeck wires together one CPU, PPU, APU, memory bus, cartridge
// mapper and input state, and drives them in lockstep at the NES's fixed
// 1 CPU-cycle : 3 PPU-dot : 1 APU-cycle ratio.
type ControlDeck struct {
	cpu   *cpu.CPU
	ppu   *ppu.PPU
	apu   *apu.APU
	bus   *bus.Bus
	input *input.InputState

	mapper mapper.Mapper
	cart   *cartridge.Cartridge

	sampleRate int

	zapper       *input.Zapper
	zapperFrames int
}

// New creates a ControlDeck with no cartridge loaded. sampleRate is the
// host's audio output rate the APU's resampler decimates down to.
func New(sampleRate int) *ControlDeck {
	d := &ControlDeck{sampleRate: sampleRate}

	d.input = input.NewInputState()
	d.zapper = input.NewZapper()
	d.zapper.SetLightSense(d.zapperLightSense)
	d.input.Zapper = d.zapper

	d.ppu = ppu.New()
	d.apu = apu.New(sampleRate)

	d.bus = bus.New(d.ppu, d.apu, d.input)
	d.bus.SetCycleCounter(func() uint64 { return d.cpu.Cycles })
	d.apu.SetDMCReader(d.bus.Read)

	d.cpu = cpu.New(d.bus)
	d.ppu.SetNMI(d.cpu.SetNMILine)

	return d
}

// LoadROM parses an iNES image, constructs its mapper, and wires it into
// the deck. It performs a hard reset before returning.
func (d *ControlDeck) LoadROM(r io.Reader) error {
	cart, err := cartridge.Load(r)
	if err != nil {
		return &Error{Kind: InvalidRom, Component: "cartridge", Operation: "load", Err: err}
	}
	return d.loadCartridge(cart)
}

// LoadCompressedROM is LoadROM for gzip-compressed .nes.gz images.
func (d *ControlDeck) LoadCompressedROM(r io.Reader) error {
	cart, err := cartridge.LoadCompressed(r)
	if err != nil {
		return &Error{Kind: InvalidRom, Component: "cartridge", Operation: "load compressed", Err: err}
	}
	return d.loadCartridge(cart)
}

func (d *ControlDeck) loadCartridge(cart *cartridge.Cartridge) error {
	m, err := mapper.New(cart)
	if err != nil {
		return &Error{Kind: InvalidRom, Component: "mapper", Operation: "construct", Err: err}
	}
	d.cart = cart
	d.mapper = m
	d.ppu.SetMapper(m)
	d.ppu.SetPAL(cart.Region == cartridge.RegionPAL)
	d.bus.SetMapper(m)
	d.Reset(Hard)
	return nil
}

// BatteryRAM returns a copy of the loaded cartridge's persistent SRAM, or
// nil if it has none. The host is responsible for writing it to disk.
func (d *ControlDeck) BatteryRAM() []byte {
	if d.cart == nil {
		return nil
	}
	return d.cart.BatteryRAM()
}

// LoadBatteryRAM restores previously persisted SRAM into the loaded
// cartridge.
func (d *ControlDeck) LoadBatteryRAM(data []byte) error {
	if d.cart == nil {
		return &Error{Kind: IoError, Component: "cartridge", Operation: "load battery ram", Err: errNoCartridge}
	}
	if err := d.cart.LoadBatteryRAM(data); err != nil {
		return &Error{Kind: IoError, Component: "cartridge", Operation: "load battery ram", Err: err}
	}
	return nil
}

// Reset performs a soft or hard reset of every component.
func (d *ControlDeck) Reset(kind ResetKind) {
	d.apu.Reset()
	d.input.Reset()
	switch kind {
	case Hard:
		d.bus.Restore(bus.Snapshot{})
		d.ppu.HardReset()
		d.cpu.HardReset()
	default:
		d.ppu.Reset()
		d.cpu.Reset()
	}
}

// Halted reports whether the CPU has latched into its halted state after
// executing an illegal/unimplemented opcode.
func (d *ControlDeck) Halted() bool { return d.cpu.Halted() }

// clockCycles advances the PPU three dots and the APU one cycle per CPU
// cycle elapsed. ClockInstr also calls it for any OAM-DMA / DMC
// sample-fetch stall cycles, so the PPU and APU keep running through them.
func (d *ControlDeck) clockCycles(n int) {
	for i := 0; i < n; i++ {
		d.ppu.Step()
		d.ppu.Step()
		d.ppu.Step()
		d.apu.Step()
	}
}

func (d *ControlDeck) updateIRQLine() {
	irq := d.apu.IRQPending()
	if d.mapper != nil {
		irq = irq || d.mapper.IRQPending()
	}
	d.cpu.SetIRQLine(irq)
}

// ClockInstr executes exactly one CPU instruction (or, if an interrupt is
// being serviced, its entry sequence), clocking the PPU/APU/mapper the
// matching number of dots/cycles, and draining any OAM-DMA or DMC
// sample-fetch stall the instruction triggered. It returns the number of
// CPU cycles the step consumed, or 0 if the CPU is halted.
func (d *ControlDeck) ClockInstr() int {
	if d.cpu.Halted() {
		return 0
	}
	cycles := int(d.cpu.Step())
	d.clockCycles(cycles)

	stall := d.bus.TakeStall() + d.apu.TakeDMCStall()
	if stall > 0 {
		d.clockCycles(stall)
		cycles += stall
	}

	d.updateIRQLine()
	return cycles
}

// ClockScanline runs ClockInstr until the PPU's scanline counter advances,
// stopping early if the CPU halts.
func (d *ControlDeck) ClockScanline() {
	start := d.ppu.Scanline()
	for d.ppu.Scanline() == start && !d.cpu.Halted() {
		d.ClockInstr()
	}
}

// ClockFrame runs ClockInstr until a full frame completes, stopping early
// if the CPU halts. It also drains the zapper's trigger latch.
func (d *ControlDeck) ClockFrame() {
	start := d.ppu.FrameCount()
	for d.ppu.FrameCount() == start && !d.cpu.Halted() {
		d.ClockInstr()
	}
	if d.zapperFrames > 0 {
		d.zapperFrames--
		if d.zapperFrames == 0 {
			d.zapper.Release()
		}
	}
}

// FrameBuffer returns the current 256x240 palette-index framebuffer.
func (d *ControlDeck) FrameBuffer() *[256 * 240]uint8 {
	return d.ppu.FrameBuffer()
}

// AudioSamples drains and returns the APU's pending resampled output since
// the last call.
func (d *ControlDeck) AudioSamples() []float32 {
	return d.apu.Samples()
}

// SetButton sets or clears a single button on controller port 1 or 2.
func (d *ControlDeck) SetButton(slot int, button input.Button, pressed bool) {
	switch slot {
	case 1:
		d.input.Controller1.SetButton(button, pressed)
	case 2:
		d.input.Controller2.SetButton(button, pressed)
	}
}

// AimZapper updates the light gun's aim point, in framebuffer pixel
// coordinates. Real NES hardware only ever wires the zapper into port 2;
// slot is accepted for API symmetry with SetButton/TriggerZapper but only
// slot 2 has any effect.
func (d *ControlDeck) AimZapper(slot, x, y int) {
	if slot != 2 {
		return
	}
	d.zapper.Aim(x, y)
}

// TriggerZapper pulls the trigger, latched for a few frames to give the
// light-sense callback time to sample the beam passing near the aim point.
func (d *ControlDeck) TriggerZapper(slot int) {
	if slot != 2 {
		return
	}
	d.zapper.Trigger()
	d.zapperFrames = zapperLatchFrames
}

// zapperLightSense reports whether the current framebuffer's pixel at
// (x, y) is bright enough for the zapper's photocell to register a hit,
// per blargg's documented zapper-light heuristic: sample a small window
// around the aim point since gun aim is never pixel-perfect, and report a
// hit if any pixel in it is bright according to isBrightPaletteIndex.
func (d *ControlDeck) zapperLightSense(x, y int) bool {
	fb := d.ppu.FrameBuffer()
	const window = 2
	for dy := -window; dy <= window; dy++ {
		for dx := -window; dx <= window; dx++ {
			px, py := x+dx, y+dy
			if px < 0 || px >= 256 || py < 0 || py >= 240 {
				continue
			}
			idx := fb[py*256+px]
			if isBrightPaletteIndex(idx) {
				return true
			}
		}
	}
	return false
}

// isBrightPaletteIndex treats the NES palette's bottom two rows (indices
// 0x20-0x3F, the white/light pastel entries) as bright enough to trigger a
// zapper hit; the top two rows are the darker/saturated half of the
// palette real light guns struggle to register at all.
func isBrightPaletteIndex(index uint8) bool {
	return index&0x3F >= 0x20
}
