// Command nesdeck is a thin Ebitengine demo shell around the nesdeck core:
// it owns the window, keyboard/mouse polling, audio playback and config
// file, and hands everything else off to internal/deck.ControlDeck.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "nesdeck",
		Short: "A cycle-accurate NES emulator core demo shell",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "nesdeck.json", "path to JSON config file")

	root.AddCommand(newRunCommand())
	root.AddCommand(newResetBatteryCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		log.Fatalf("nesdeck: %v", err)
		os.Exit(1)
	}
}
