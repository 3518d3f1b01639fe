package cartridge

import (
	"bytes"
	"testing"
)

func buildINES(prgBanks, chrBanks int, flags6, flags7 byte) []byte {
	buf := make([]byte, headerSize+prgBanks*prgBankSize+chrBanks*chrBankSize)
	copy(buf[0:4], []byte("NES\x1A"))
	buf[4] = byte(prgBanks)
	buf[5] = byte(chrBanks)
	buf[6] = flags6
	buf[7] = flags7
	return buf
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := buildINES(1, 1, 0, 0)
	data[0] = 'X'
	if _, err := Load(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for bad magic")
	} else if cerr, ok := err.(*Error); !ok || cerr.Kind != ErrInvalidHeader {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(1, 1, 0xF0, 0xF0) // mapper 255
	if _, err := Load(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for unsupported mapper")
	} else if cerr, ok := err.(*Error); !ok || cerr.Kind != ErrUnsupportedMapper {
		t.Fatalf("expected ErrUnsupportedMapper, got %v", err)
	}
}

func TestLoadRejectsTruncation(t *testing.T) {
	data := buildINES(2, 1, 0, 0)
	data = data[:len(data)-10]
	if _, err := Load(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for truncated ROM")
	} else if cerr, ok := err.(*Error); !ok || cerr.Kind != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestLoadNROMHorizontalMirroring(t *testing.T) {
	data := buildINES(1, 1, 0, 0)
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Mirroring != MirrorHorizontal {
		t.Errorf("expected horizontal mirroring, got %v", cart.Mirroring)
	}
	if cart.PrgBankCount() != 1 {
		t.Errorf("expected 1 PRG bank, got %d", cart.PrgBankCount())
	}
	if cart.HasCHRRAM {
		t.Errorf("CHR ROM present, HasCHRRAM should be false")
	}
}

func TestLoadZeroCHRAllocatesRAM(t *testing.T) {
	data := buildINES(1, 0, 0x01, 0) // vertical mirroring, no CHR banks
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cart.HasCHRRAM {
		t.Error("expected CHR RAM to be allocated")
	}
	if len(cart.ChrROM) != chrBankSize {
		t.Errorf("expected 8KiB CHR RAM, got %d", len(cart.ChrROM))
	}
	if cart.Mirroring != MirrorVertical {
		t.Errorf("expected vertical mirroring, got %v", cart.Mirroring)
	}
}

func TestFourScreenAllocatesExtRAM(t *testing.T) {
	data := buildINES(1, 1, 0x08, 0)
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Mirroring != MirrorFourScreen {
		t.Errorf("expected four-screen mirroring, got %v", cart.Mirroring)
	}
	if len(cart.ExtRAM) != 4*1024 {
		t.Errorf("expected 4KiB ext RAM for four-screen, got %d", len(cart.ExtRAM))
	}
}

func TestBatteryRAMRoundTrip(t *testing.T) {
	data := buildINES(1, 1, 0x02, 0) // battery flag
	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart.PrgRAM[0] = 0xAB
	cart.PrgRAM[100] = 0xCD
	saved := cart.BatteryRAM()
	if saved == nil {
		t.Fatal("expected battery RAM snapshot")
	}

	fresh := &Cartridge{HasBattery: true, PrgRAM: make([]byte, sramSize)}
	if err := fresh.LoadBatteryRAM(saved); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.PrgRAM[0] != 0xAB || fresh.PrgRAM[100] != 0xCD {
		t.Error("battery RAM did not round-trip")
	}
}

func TestTrainerIsSkipped(t *testing.T) {
	data := buildINES(1, 1, 0x04, 0) // trainer flag
	header := data[:headerSize]
	body := data[headerSize:]
	trainer := make([]byte, trainerSize)

	full := append(append([]byte{}, header...), trainer...)
	full = append(full, body...)

	cart, err := Load(bytes.NewReader(full))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.PrgROM) != prgBankSize {
		t.Errorf("expected %d bytes of PRG ROM after trainer skip, got %d", prgBankSize, len(cart.PrgROM))
	}
}
