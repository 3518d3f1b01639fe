package cartridge

// RAMSnapshot captures a cartridge's mutable RAM regions for save states.
// ROM contents (PrgROM, and ChrROM when it backs real CHR ROM rather than
// CHR RAM) are immutable and excluded.
type RAMSnapshot struct {
	PrgRAM []byte
	ChrRAM []byte // populated only when HasCHRRAM
	ExtRAM []byte
}

// SaveRAM copies the cartridge's mutable RAM regions for inclusion in a
// save state.
func (c *Cartridge) SaveRAM() RAMSnapshot {
	s := RAMSnapshot{PrgRAM: append([]byte(nil), c.PrgRAM...)}
	if c.HasCHRRAM {
		s.ChrRAM = append([]byte(nil), c.ChrROM...)
	}
	if c.ExtRAM != nil {
		s.ExtRAM = append([]byte(nil), c.ExtRAM...)
	}
	return s
}

// RestoreRAM writes a previously captured RAMSnapshot back into the
// cartridge. Region sizes must match what this cartridge was loaded with.
func (c *Cartridge) RestoreRAM(s RAMSnapshot) error {
	if len(s.PrgRAM) != len(c.PrgRAM) {
		return &Error{Kind: ErrTruncated, Msg: "save state PRG RAM size mismatch"}
	}
	copy(c.PrgRAM, s.PrgRAM)
	if c.HasCHRRAM {
		if len(s.ChrRAM) != len(c.ChrROM) {
			return &Error{Kind: ErrTruncated, Msg: "save state CHR RAM size mismatch"}
		}
		copy(c.ChrROM, s.ChrRAM)
	}
	if c.ExtRAM != nil {
		if len(s.ExtRAM) != len(c.ExtRAM) {
			return &Error{Kind: ErrTruncated, Msg: "save state ext RAM size mismatch"}
		}
		copy(c.ExtRAM, s.ExtRAM)
	}
	return nil
}
