// Package input implements NES controller and zapper light-gun handling.
package input

// Button represents NES controller buttons.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller models the 4021 shift register standard NES controller.
type Controller struct {
	buttons uint8

	shiftRegister uint8
	strobe        bool
}

// New creates a Controller with no buttons pressed.
func New() *Controller {
	return &Controller{}
}

// SetButton sets or clears a single button.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// SetButtons replaces the full button state at once, in A/B/Select/Start/
// Up/Down/Left/Right order.
func (c *Controller) SetButtons(buttons [8]bool) {
	c.buttons = 0
	order := [8]Button{ButtonA, ButtonB, ButtonSelect, ButtonStart, ButtonUp, ButtonDown, ButtonLeft, ButtonRight}
	for i, pressed := range buttons {
		if pressed {
			c.buttons |= uint8(order[i])
		}
	}
}

// IsPressed reports whether the given button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles a write to the controller's strobe line. While strobe is
// high, the shift register continuously reloads from live button state; the
// falling edge latches it for serial reading.
func (c *Controller) Write(value uint8) {
	c.strobe = value&0x01 != 0
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// Read shifts out the next button bit, or 1 past the eighth read as real
// 4021 shift registers do once exhausted.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.shiftRegister = c.buttons
		return c.shiftRegister & 0x01
	}
	bit := c.shiftRegister & 0x01
	c.shiftRegister = c.shiftRegister>>1 | 0x80
	return bit
}

// Reset clears all button and shift-register state.
func (c *Controller) Reset() {
	c.buttons = 0
	c.shiftRegister = 0
	c.strobe = false
}

// Snapshot captures Controller state for save states.
type Snapshot struct {
	Buttons       uint8
	ShiftRegister uint8
	Strobe        bool
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{Buttons: c.buttons, ShiftRegister: c.shiftRegister, Strobe: c.strobe}
}

func (c *Controller) Restore(s Snapshot) {
	c.buttons = s.Buttons
	c.shiftRegister = s.ShiftRegister
	c.strobe = s.Strobe
}
