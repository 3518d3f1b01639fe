package input

// Zapper models the NES light gun: an aimed screen position, a trigger
// pulled by the player, and a photocell that lights when the CRT beam paints
// a bright pixel near the aim point.
type Zapper struct {
	x, y       int
	triggered  bool
	lightSense func(x, y int) bool
}

// NewZapper creates a Zapper with no light-sensing callback attached.
func NewZapper() *Zapper {
	return &Zapper{}
}

// SetLightSense wires the callback used to sample framebuffer brightness at
// the aimed position. fn should report whether the pixel the beam most
// recently painted near (x, y) is bright.
func (z *Zapper) SetLightSense(fn func(x, y int) bool) {
	z.lightSense = fn
}

// Aim updates the on-screen position the zapper is pointed at.
func (z *Zapper) Aim(x, y int) {
	z.x, z.y = x, y
}

// Trigger pulls the trigger; Read reports it held until Release is called.
// The caller is responsible for that release (real hardware latches the
// trigger for a handful of frames).
func (z *Zapper) Trigger() {
	z.triggered = true
}

// Release clears the trigger latch.
func (z *Zapper) Release() {
	z.triggered = false
}

// Read returns the $4017-style status byte for the zapper: bit 3 clear when
// light is sensed (active-low photocell), bit 4 set while the trigger is
// held, matching the Zapper's wiring on port 2.
func (z *Zapper) Read() uint8 {
	var value uint8
	lit := z.lightSense != nil && z.lightSense(z.x, z.y)
	if !lit {
		value |= 0x08
	}
	if z.triggered {
		value |= 0x10
	}
	return value
}
