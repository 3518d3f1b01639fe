package bus

// Snapshot captures the CPU-side memory map's own mutable state: work RAM
// and the open-bus decay value. PPU/APU/mapper state is captured separately
// through their own Snapshot methods.
type Snapshot struct {
	RAM     [0x0800]uint8
	OpenBus uint8
}

// Snapshot captures the bus's state for save states.
func (b *Bus) Snapshot() Snapshot {
	return Snapshot{RAM: b.ram, OpenBus: b.openBus}
}

// Restore loads bus state previously produced by Snapshot.
func (b *Bus) Restore(s Snapshot) {
	b.ram = s.RAM
	b.openBus = s.OpenBus
}
