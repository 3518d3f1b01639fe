package deck

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"

	"github.com/nesdeck/nesdeck/internal/apu"
	"github.com/nesdeck/nesdeck/internal/bus"
	"github.com/nesdeck/nesdeck/internal/cartridge"
	"github.com/nesdeck/nesdeck/internal/cpu"
	"github.com/nesdeck/nesdeck/internal/input"
	"github.com/nesdeck/nesdeck/internal/ppu"
)

// saveStateMagic and saveStateVersion identify the byte stream format.
// Loads of mismatched magic or version fail with IncompatibleSaveState
// rather than attempting any forward/backward migration.
var saveStateMagic = [4]byte{'N', 'D', 'S', 'S'}

const saveStateVersion uint32 = 1

// payload is the gob-encoded body following the magic and version header.
type payload struct {
	MapperID uint8

	CPU   cpu.Snapshot
	PPU   ppu.Snapshot
	APU   apu.Snapshot
	Bus   bus.Snapshot
	Input input.StateSnapshot
	Cart  cartridge.RAMSnapshot

	MapperState []byte
}

// SaveState serializes the full machine state to w: a 4-byte magic, a
// 4-byte big-endian version, then the gob-encoded CPU/PPU/APU/bus/input/
// mapper/cartridge-RAM state.
func (d *ControlDeck) SaveState(w io.Writer) error {
	if d.cart == nil {
		return &Error{Kind: IoError, Component: "deck", Operation: "save state", Err: errNoCartridge}
	}

	p := payload{
		MapperID:    d.cart.MapperID,
		CPU:         d.cpu.Snapshot(),
		PPU:         d.ppu.Snapshot(),
		APU:         d.apu.Snapshot(),
		Bus:         d.bus.Snapshot(),
		Input:       d.input.SaveSnapshot(),
		Cart:        d.cart.SaveRAM(),
		MapperState: d.mapper.SaveState(),
	}

	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(&p); err != nil {
		return &Error{Kind: IoError, Component: "deck", Operation: "encode save state", Err: err}
	}

	if _, err := w.Write(saveStateMagic[:]); err != nil {
		return &Error{Kind: IoError, Component: "deck", Operation: "write save state", Err: err}
	}
	var versionBytes [4]byte
	binary.BigEndian.PutUint32(versionBytes[:], saveStateVersion)
	if _, err := w.Write(versionBytes[:]); err != nil {
		return &Error{Kind: IoError, Component: "deck", Operation: "write save state", Err: err}
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return &Error{Kind: IoError, Component: "deck", Operation: "write save state", Err: err}
	}
	return nil
}

// LoadState restores machine state previously produced by SaveState. The
// cartridge currently loaded must be the same one the state was captured
// from (same mapper ID and RAM sizes); a mismatch fails with
// IncompatibleSaveState rather than silently corrupting state.
func (d *ControlDeck) LoadState(r io.Reader) error {
	if d.cart == nil {
		return &Error{Kind: IoError, Component: "deck", Operation: "load state", Err: errNoCartridge}
	}

	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return &Error{Kind: IoError, Component: "deck", Operation: "read save state header", Err: err}
	}
	if !bytes.Equal(header[0:4], saveStateMagic[:]) {
		return &Error{Kind: IncompatibleSaveState, Component: "deck", Operation: "load state", Err: errBadMagic}
	}
	version := binary.BigEndian.Uint32(header[4:8])
	if version != saveStateVersion {
		return &Error{Kind: IncompatibleSaveState, Component: "deck", Operation: "load state", Err: errBadVersion}
	}

	var p payload
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return &Error{Kind: IoError, Component: "deck", Operation: "decode save state", Err: err}
	}
	if p.MapperID != d.cart.MapperID {
		return &Error{Kind: IncompatibleSaveState, Component: "mapper", Operation: "load state", Err: errMapperMismatch}
	}
	if err := d.cart.RestoreRAM(p.Cart); err != nil {
		return &Error{Kind: IncompatibleSaveState, Component: "cartridge", Operation: "load state", Err: err}
	}
	if err := d.mapper.LoadState(p.MapperState); err != nil {
		return &Error{Kind: MapperFault, Component: "mapper", Operation: "load state", Err: err}
	}

	d.cpu.Restore(p.CPU)
	d.ppu.Restore(p.PPU)
	d.apu.Restore(p.APU)
	d.bus.Restore(p.Bus)
	d.input.RestoreSnapshot(p.Input)
	return nil
}
