package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nesdeck/nesdeck/internal/config"
)

func newResetBatteryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-battery <rom>",
		Short: "Delete a ROM's battery-backed SRAM save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path := cfg.BatteryPath(args[0])
			if err := os.Remove(path); err != nil {
				if os.IsNotExist(err) {
					fmt.Printf("no battery save found at %s\n", path)
					return nil
				}
				return fmt.Errorf("remove %s: %w", path, err)
			}
			fmt.Printf("removed %s\n", path)
			return nil
		},
	}
	return cmd
}
