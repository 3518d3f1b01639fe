package deck

import (
	"bytes"
	"testing"

	"github.com/nesdeck/nesdeck/internal/input"
)

// buildNROM builds a minimal one-bank NROM (mapper 0) image: PRG ROM filled
// with NOPs, reset vector pointing at the start of the bank.
func buildNROM() []byte {
	const prgBankSize = 16 * 1024
	const chrBankSize = 8 * 1024
	data := make([]byte, 16+prgBankSize+chrBankSize)
	copy(data[0:4], []byte("NES\x1A"))
	data[4] = 1 // 1x 16KB PRG bank
	data[5] = 1 // 1x 8KB CHR bank

	prg := data[16 : 16+prgBankSize]
	for i := range prg {
		prg[i] = 0xEA // NOP
	}
	// Reset vector at $FFFC/$FFFD -> $8000 (start of the 16KB window).
	prg[prgBankSize-4] = 0x00
	prg[prgBankSize-3] = 0x80
	return data
}

func newLoadedDeck(t *testing.T) *ControlDeck {
	t.Helper()
	d := New(44100)
	if err := d.LoadROM(bytes.NewReader(buildNROM())); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	return d
}

func TestLoadROMHardResetsAndRunsInstructions(t *testing.T) {
	d := newLoadedDeck(t)
	if d.Halted() {
		t.Fatal("deck halted immediately after loading a NOP-filled ROM")
	}
	for i := 0; i < 100; i++ {
		if cycles := d.ClockInstr(); cycles == 0 {
			t.Fatalf("ClockInstr returned 0 cycles on iteration %d, CPU halted unexpectedly", i)
		}
	}
}

func TestClockFrameAdvancesFrameCount(t *testing.T) {
	d := newLoadedDeck(t)
	before := d.ppu.FrameCount()
	d.ClockFrame()
	after := d.ppu.FrameCount()
	if after == before {
		t.Fatalf("ClockFrame did not advance frame count: before=%d after=%d", before, after)
	}
}

func TestSetButtonRoundTripsThroughInputState(t *testing.T) {
	d := newLoadedDeck(t)
	d.SetButton(1, input.ButtonA, true)
	if !d.input.Controller1.IsPressed(input.ButtonA) {
		t.Fatal("SetButton(1, ButtonA, true) did not set controller 1's A button")
	}
	d.SetButton(1, input.ButtonA, false)
	if d.input.Controller1.IsPressed(input.ButtonA) {
		t.Fatal("SetButton(1, ButtonA, false) did not clear controller 1's A button")
	}
}

func TestSaveStateLoadStateRoundTrip(t *testing.T) {
	d := newLoadedDeck(t)
	for i := 0; i < 50; i++ {
		d.ClockInstr()
	}

	var buf bytes.Buffer
	if err := d.SaveState(&buf); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	wantPC := d.cpu.Snapshot().PC
	wantCycles := d.cpu.Snapshot().Cycles

	// Mutate state, then restore it.
	for i := 0; i < 10; i++ {
		d.ClockInstr()
	}
	if err := d.LoadState(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	got := d.cpu.Snapshot()
	if got.PC != wantPC || got.Cycles != wantCycles {
		t.Fatalf("state not restored: got PC=%#x Cycles=%d, want PC=%#x Cycles=%d",
			got.PC, got.Cycles, wantPC, wantCycles)
	}
}

func TestLoadStateRejectsBadMagic(t *testing.T) {
	d := newLoadedDeck(t)
	err := d.LoadState(bytes.NewReader([]byte("XXXX0000")))
	derr, ok := err.(*Error)
	if !ok || derr.Kind != IncompatibleSaveState {
		t.Fatalf("expected IncompatibleSaveState error, got %v", err)
	}
}

func TestZapperOnlyAffectsPortTwo(t *testing.T) {
	d := newLoadedDeck(t)
	d.AimZapper(1, 10, 10)
	d.TriggerZapper(1)
	if d.zapperFrames != 0 {
		t.Fatal("TriggerZapper(1) latched the zapper; only port 2 should")
	}
	d.TriggerZapper(2)
	if d.zapperFrames != zapperLatchFrames {
		t.Fatalf("TriggerZapper(2) did not latch: zapperFrames=%d", d.zapperFrames)
	}
}
