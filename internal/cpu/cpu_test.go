package cpu

import "testing"

// flatMemory is a trivial 64KiB RAM MemoryInterface implementation for
// isolated instruction-level testing.
type flatMemory struct {
	ram [0x10000]uint8
}

func (m *flatMemory) Read(addr uint16) uint8  { return m.ram[addr] }
func (m *flatMemory) Write(addr uint16, v uint8) { m.ram[addr] = v }

func newTestCPU(program ...uint8) (*CPU, *flatMemory) {
	mem := &flatMemory{}
	copy(mem.ram[0x8000:], program)
	mem.ram[0xFFFC] = 0x00
	mem.ram[0xFFFD] = 0x80
	c := New(mem)
	c.HardReset()
	return c, mem
}

func TestHardResetLoadsVectorAndPowerUpState(t *testing.T) {
	c, _ := newTestCPU(0xEA)
	if c.PC != 0x8000 {
		t.Errorf("expected PC 0x8000, got %#x", c.PC)
	}
	if !c.I || c.A != 0 || c.X != 0 || c.Y != 0 || c.SP != 0xFD {
		t.Errorf("unexpected power-up state: A=%d X=%d Y=%d SP=%#x I=%v", c.A, c.X, c.Y, c.SP, c.I)
	}
}

func TestSoftResetDecrementsSPAndPreservesRegisters(t *testing.T) {
	c, _ := newTestCPU(0xEA)
	c.A, c.X, c.Y = 0x11, 0x22, 0x33
	sp := c.SP
	c.Reset()
	if c.SP != sp-3 {
		t.Errorf("expected SP decremented by 3, got %#x want %#x", c.SP, sp-3)
	}
	if c.A != 0x11 || c.X != 0x22 || c.Y != 0x33 {
		t.Error("soft reset must not touch A/X/Y")
	}
	if !c.I {
		t.Error("soft reset must set I")
	}
}

func TestLDAImmediateSetsZeroAndNegative(t *testing.T) {
	c, _ := newTestCPU(0xA9, 0x00, 0xA9, 0x80)
	c.Step()
	if !c.Z || c.N {
		t.Errorf("expected Z set for zero load, got Z=%v N=%v", c.Z, c.N)
	}
	c.Step()
	if c.Z || !c.N {
		t.Errorf("expected N set for negative load, got Z=%v N=%v", c.Z, c.N)
	}
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	c, _ := newTestCPU(0xA9, 0x7F, 0x69, 0x01) // LDA #$7F; ADC #$01
	c.Step()
	c.Step()
	if c.A != 0x80 {
		t.Errorf("expected A=0x80, got %#x", c.A)
	}
	if !c.V {
		t.Error("expected signed overflow from 0x7F+0x01")
	}
	if c.C {
		t.Error("unexpected carry")
	}
}

func TestSBCBorrowClearsCarry(t *testing.T) {
	c, _ := newTestCPU(0x38, 0xA9, 0x00, 0xE9, 0x01) // SEC; LDA #0; SBC #1
	c.Step()
	c.Step()
	c.Step()
	if c.A != 0xFF {
		t.Errorf("expected A=0xFF after borrow, got %#x", c.A)
	}
	if c.C {
		t.Error("expected carry clear signaling borrow")
	}
}

func TestStackPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU(0xA9, 0x42, 0x48, 0xA9, 0x00, 0x68) // LDA #$42; PHA; LDA #0; PLA
	c.Step()
	c.Step()
	c.Step()
	c.Step()
	if c.A != 0x42 {
		t.Errorf("expected A restored to 0x42, got %#x", c.A)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newTestCPU(0x20, 0x00, 0x90, 0xEA) // JSR $9000; NOP
	mem.ram[0x9000] = 0x60 // RTS
	c.Step()                // JSR
	if c.PC != 0x9000 {
		t.Fatalf("expected PC at subroutine, got %#x", c.PC)
	}
	c.Step() // RTS
	if c.PC != 0x8003 {
		t.Errorf("expected return to instruction after JSR, got %#x", c.PC)
	}
}

func TestBranchTakenAddsCycleAndCrossingAddsAnother(t *testing.T) {
	// Place BNE near a page boundary so the branch target crosses pages.
	mem := &flatMemory{}
	mem.ram[0xFFFC] = 0x00
	mem.ram[0xFFFD] = 0x80
	mem.ram[0x80FE] = 0xD0 // BNE
	mem.ram[0x80FF] = 0xFE // -2: target 0x80FE crosses back from page 0x81 (PC+2=0x8100)
	c := New(mem)
	c.HardReset()
	c.PC = 0x80FE
	c.Z = false
	cycles := c.Step()
	if c.PC != 0x80FE {
		t.Fatalf("expected branch taken to 0x80FE, got %#x", c.PC)
	}
	if cycles != 4 {
		t.Errorf("expected 2 base + 1 taken + 1 page-cross = 4 cycles, got %d", cycles)
	}
}

func TestNMIEdgeTriggeredServicedOnce(t *testing.T) {
	mem := &flatMemory{}
	mem.ram[0xFFFC] = 0x00
	mem.ram[0xFFFD] = 0x80
	mem.ram[0xFFFA] = 0x00
	mem.ram[0xFFFB] = 0x90
	mem.ram[0x8000] = 0xEA // NOP
	c := New(mem)
	c.HardReset()
	c.SetNMILine(true)
	cycles := c.Step()
	if c.PC != 0x9000 {
		t.Fatalf("expected NMI vector entry, got PC=%#x", c.PC)
	}
	if cycles != 7 {
		t.Errorf("expected 7-cycle interrupt sequence, got %d", cycles)
	}
	// Level held high; must not retrigger without a new edge.
	c.PC = 0x8000
	c.Step()
	if c.PC != 0x8001 {
		t.Errorf("expected NOP to execute without a second NMI, got PC=%#x", c.PC)
	}
}

func TestIRQMaskedByInterruptDisable(t *testing.T) {
	mem := &flatMemory{}
	mem.ram[0xFFFC] = 0x00
	mem.ram[0xFFFD] = 0x80
	mem.ram[0x8000] = 0xEA
	c := New(mem)
	c.HardReset()
	c.I = true
	c.SetIRQLine(true)
	c.Step()
	if c.PC != 0x8001 {
		t.Errorf("expected IRQ masked by I flag, got PC=%#x", c.PC)
	}
}

func TestKILHaltsCPU(t *testing.T) {
	c, _ := newTestCPU(0x02)
	c.Step()
	if !c.Halted() {
		t.Fatal("expected KIL to halt the CPU")
	}
	if c.HaltOpcode() != 0x02 {
		t.Errorf("expected halt opcode 0x02, got %#x", c.HaltOpcode())
	}
	pc := c.PC
	c.Step()
	if c.PC != pc {
		t.Error("expected halted CPU to not advance")
	}
}

func TestUnofficialLAXLoadsBothAAndX(t *testing.T) {
	c, mem := newTestCPU(0xA7, 0x10) // LAX $10
	mem.ram[0x0010] = 0x55
	c.Step()
	if c.A != 0x55 || c.X != 0x55 {
		t.Errorf("expected A=X=0x55, got A=%#x X=%#x", c.A, c.X)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c, _ := newTestCPU(0xA9, 0x99)
	c.Step()
	snap := c.Snapshot()

	other, _ := newTestCPU()
	other.Restore(snap)
	if other.A != c.A || other.PC != c.PC || other.Cycles != c.Cycles {
		t.Error("restored CPU does not match snapshot source")
	}
}
