// Package config loads and saves the JSON configuration cmd/nesdeck reads
// at startup: window scale, audio sample rate, key bindings, and the
// ROM/battery-save directories. None of this is consumed by the core
// packages — it exists purely for the demo binary, the way the teacher's
// internal/app.Config existed purely for its own GUI shell.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds cmd/nesdeck's runtime options.
type Config struct {
	Window WindowConfig `json:"window"`
	Audio  AudioConfig  `json:"audio"`
	Input  InputConfig  `json:"input"`
	Paths  PathsConfig  `json:"paths"`
}

// WindowConfig controls the Ebitengine window cmd/nesdeck opens.
type WindowConfig struct {
	Scale      int  `json:"scale"` // integer multiple of the NES's 256x240 frame
	Fullscreen bool `json:"fullscreen"`
}

// AudioConfig controls the ebiten audio.Context/Player cmd/nesdeck feeds
// ControlDeck.AudioSamples into.
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sample_rate"`
	Volume     float64 `json:"volume"`
}

// KeyMapping names the ebiten key bound to each NES controller button.
// Values are matched against ebiten.Key's String() form ("ArrowUp", "Z", ...).
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// InputConfig holds both controllers' key bindings.
type InputConfig struct {
	Player1 KeyMapping `json:"player1"`
	Player2 KeyMapping `json:"player2"`
}

// PathsConfig names the directories cmd/nesdeck reads ROMs from and writes
// battery-backed SRAM saves to.
type PathsConfig struct {
	ROMs     string `json:"roms"`
	SaveData string `json:"save_data"`
}

// Default returns the configuration cmd/nesdeck runs with when no config
// file is given or the named one does not exist yet.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Scale: 3, Fullscreen: false},
		Audio:  AudioConfig{Enabled: true, SampleRate: 44100, Volume: 0.8},
		Input: InputConfig{
			Player1: KeyMapping{
				Up: "W", Down: "S", Left: "A", Right: "D",
				A: "J", B: "K", Start: "Enter", Select: "Space",
			},
			Player2: KeyMapping{
				Up: "ArrowUp", Down: "ArrowDown", Left: "ArrowLeft", Right: "ArrowRight",
				A: "Digit1", B: "Digit2", Start: "Digit3", Select: "Digit4",
			},
		},
		Paths: PathsConfig{ROMs: "./roms", SaveData: "./saves"},
	}
}

// Load reads a JSON config file at path, falling back to Default (with no
// error) if the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// BatteryPath returns the battery-RAM save path for a given ROM path: the
// ROM's base name, extension stripped, with a .sav suffix, inside the
// configured save-data directory.
func (c *Config) BatteryPath(romPath string) string {
	base := filepath.Base(romPath)
	base = base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(c.Paths.SaveData, base+".sav")
}
