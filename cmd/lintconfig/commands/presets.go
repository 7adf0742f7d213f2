package commands

import (
	"fmt"

	"github.com/StimulCross/configs/presets"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the embedded presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range presets.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "show <name>",
		Short:     "Print a preset document",
		Args:      cobra.ExactArgs(1),
		ValidArgs: presets.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := presets.Read(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return cmd
}
