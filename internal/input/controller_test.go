package input

import "testing"

func TestControllerSerialReadOrder(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)
	c.Write(0x01) // strobe high, latches live state
	c.Write(0x00) // strobe low, shift register frozen

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0} // A, B, Select, Start, Up, Down, Left, Right
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d: expected %d, got %d", i, w, got)
		}
	}
	// Ninth and later reads return 1 (shift register exhausted).
	if got := c.Read(); got != 1 {
		t.Errorf("expected exhausted shift register to return 1, got %d", got)
	}
}

func TestControllerStrobeHighAlwaysReadsButtonA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(0x01)
	if got := c.Read(); got != 1 {
		t.Errorf("expected 1 while strobe high and A pressed, got %d", got)
	}
	c.SetButton(ButtonA, false)
	if got := c.Read(); got != 0 {
		t.Errorf("expected live A state to be reflected while strobe high, got %d", got)
	}
}

func TestInputStateSharedStrobe(t *testing.T) {
	is := NewInputState()
	is.Controller1.SetButton(ButtonA, true)
	is.Controller2.SetButton(ButtonB, true)
	is.Write(0x4016, 0x01)
	is.Write(0x4016, 0x00)

	if got := is.Read(0x4016) & 0x01; got != 1 {
		t.Error("expected controller 1 bit 0 set")
	}
	if got := is.Read(0x4017) & 0x01; got != 0 {
		t.Error("expected controller 2 first bit (B not A) to be 0")
	}
}

func TestInputStateOpenBusBit6(t *testing.T) {
	is := NewInputState()
	if got := is.Read(0x4017); got&0x40 == 0 {
		t.Error("expected bit 6 always set on $4017 reads")
	}
}

func TestZapperReadBits(t *testing.T) {
	z := NewZapper()
	z.SetLightSense(func(x, y int) bool { return x == 10 && y == 20 })
	z.Aim(10, 20)
	if got := z.Read(); got&0x08 != 0 {
		t.Error("expected light-detected bit clear when aimed at bright pixel")
	}
	z.Aim(0, 0)
	if got := z.Read(); got&0x08 == 0 {
		t.Error("expected light bit set (no light) when aimed away")
	}
	z.Trigger()
	if got := z.Read(); got&0x10 == 0 {
		t.Error("expected trigger bit set after Trigger()")
	}
	z.Release()
	if got := z.Read(); got&0x10 != 0 {
		t.Error("expected trigger bit clear after Release()")
	}
}

func TestControllerSnapshotRoundTrip(t *testing.T) {
	c := New()
	c.SetButton(ButtonRight, true)
	c.Write(0x01)
	snap := c.Snapshot()

	other := New()
	other.Restore(snap)
	if other.buttons != c.buttons || other.shiftRegister != c.shiftRegister || other.strobe != c.strobe {
		t.Error("restored controller does not match snapshot source")
	}
}
