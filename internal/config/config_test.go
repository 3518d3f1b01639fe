package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Scale != 3 {
		t.Errorf("Window.Scale = %d, want 3", cfg.Window.Scale)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("Audio.SampleRate = %d, want 44100", cfg.Audio.SampleRate)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "nesdeck.json")

	cfg := Default()
	cfg.Window.Scale = 4
	cfg.Audio.Volume = 0.5
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Window.Scale != 4 {
		t.Errorf("Window.Scale = %d, want 4", loaded.Window.Scale)
	}
	if loaded.Audio.Volume != 0.5 {
		t.Errorf("Audio.Volume = %f, want 0.5", loaded.Audio.Volume)
	}
	if loaded.Input.Player1.A != "J" {
		t.Errorf("Input.Player1.A = %q, want J", loaded.Input.Player1.A)
	}
}

func TestBatteryPath(t *testing.T) {
	cfg := Default()
	cfg.Paths.SaveData = "/saves"
	got := cfg.BatteryPath("/roms/sub/Game (USA).nes")
	want := filepath.Join("/saves", "Game (USA).sav")
	if got != want {
		t.Errorf("BatteryPath = %q, want %q", got, want)
	}
}
