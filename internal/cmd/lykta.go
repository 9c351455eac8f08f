package cmd

import (
	"github.com/0xalexb/lykta"

	"github.com/spf13/cobra"
)

// NewDefaultLyktaCmd builds the lykta command with its default options.
func NewDefaultLyktaCmd() *cobra.Command {
	return NewLyktaCmd()
}

// NewLyktaCmd builds the lykta root command.
func NewLyktaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lykta",
		Short:   "lykta resolves logging configuration documents",
		Version: lykta.Version,
		Long: `lykta loads logging configuration documents (JSON, YAML, JSON5 or TOML),
resolves their protocol references (literal://, ext://, env://, file://,
cfg://, fmt:// and "()" invocations) and validates them against the
handlers/levels/extra/patcher/activation schema.`,
	}

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.AddCommand(NewResolveCmd(NewResolveOptions()))
	cmd.AddCommand(NewCheckCmd(NewCheckOptions()))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}
