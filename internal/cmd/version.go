package cmd

import (
	"fmt"

	"github.com/0xalexb/lykta"

	"github.com/spf13/cobra"
)

// NewVersionCmd builds the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "lykta version %s (compiled %s)\n",
				lykta.Version, lykta.CompiledAt)

			return err
		},
	}
}
