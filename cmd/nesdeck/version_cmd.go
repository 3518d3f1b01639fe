package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nesdeck/nesdeck/internal/version"
)

func newVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Println(version.Collect().String())
				return nil
			}
			version.Report()
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version identifier, no save-state/build details")
	return cmd
}
