package cmd

import (
	"fmt"
	"io"

	"github.com/0xalexb/lykta"

	"github.com/spf13/cobra"
)

// CheckOptions holds the flags of the check command.
type CheckOptions struct{}

func NewCheckOptions() *CheckOptions {
	return &CheckOptions{}
}

// NewCheckCmd builds the check command: load a document through the full
// schema path and report whether it is usable. Sinks are not opened, so a
// passing document may still name an unwritable file path.
func NewCheckCmd(o *CheckOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a configuration document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.OutOrStdout(), args[0])
		},
	}
}

func (o *CheckOptions) Run(out io.Writer, path string) error {
	cfg, err := lykta.Load(path)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s: ok (%d handlers, %d levels, %d activations)\n",
		path, len(cfg.Handlers), len(cfg.Levels), len(cfg.Activation))

	return err
}
