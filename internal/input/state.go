package input

// InputState owns both controller ports and routes the $4016/$4017 protocol
// to them, including the open-bus bit 6 real hardware leaves set on $4017
// reads and the zapper's bits when a zapper occupies port 2.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
	Zapper      *Zapper // attached to port 2 in place of Controller2, if set
}

// NewInputState creates an InputState with two standard controllers and no
// zapper attached.
func NewInputState() *InputState {
	return &InputState{
		Controller1: New(),
		Controller2: New(),
	}
}

// Reset clears both controllers and any zapper trigger latch.
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
	if is.Zapper != nil {
		is.Zapper.Release()
	}
}

// SetButtons1 sets all button states for controller 1.
func (is *InputState) SetButtons1(buttons [8]bool) {
	is.Controller1.SetButtons(buttons)
}

// SetButtons2 sets all button states for controller 2.
func (is *InputState) SetButtons2(buttons [8]bool) {
	is.Controller2.SetButtons(buttons)
}

// Read handles reads from $4016/$4017.
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read() | 0x40
	case 0x4017:
		if is.Zapper != nil {
			return is.Zapper.Read() | 0x40
		}
		return is.Controller2.Read() | 0x40
	default:
		return 0
	}
}

// Write handles writes to $4016: the strobe line is shared by both ports.
func (is *InputState) Write(address uint16, value uint8) {
	if address == 0x4016 {
		is.Controller1.Write(value)
		is.Controller2.Write(value)
	}
}

// StateSnapshot captures both controllers for save states.
type StateSnapshot struct {
	Controller1 Snapshot
	Controller2 Snapshot
}

func (is *InputState) SaveSnapshot() StateSnapshot {
	return StateSnapshot{Controller1: is.Controller1.Snapshot(), Controller2: is.Controller2.Snapshot()}
}

func (is *InputState) RestoreSnapshot(s StateSnapshot) {
	is.Controller1.Restore(s.Controller1)
	is.Controller2.Restore(s.Controller2)
}
