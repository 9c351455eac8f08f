package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/0xalexb/lykta/loader"
	"github.com/0xalexb/lykta/resolve"

	"github.com/spf13/cobra"
)

// ResolveOptions holds the flags of the resolve command.
type ResolveOptions struct {
	MaxDepth int
}

func NewResolveOptions() *ResolveOptions {
	return &ResolveOptions{MaxDepth: resolve.DefaultMaxDepth}
}

// NewResolveCmd builds the resolve command: load a document, resolve every
// protocol reference in it and print the result as indented JSON.
func NewResolveCmd(o *ResolveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Resolve a document and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().IntVar(&o.MaxDepth, "max-depth", o.MaxDepth, "Maximum resolution depth")

	return cmd
}

func (o *ResolveOptions) Run(out io.Writer, path string) error {
	doc, err := loader.Load(path)
	if err != nil {
		return err
	}

	resolver := resolve.New(resolve.WithMaxDepth(o.MaxDepth))

	resolved, err := resolver.Resolve(doc)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(sanitize(resolved), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding resolved document: %w", err)
	}

	_, err = fmt.Fprintln(out, string(encoded))

	return err
}

// sanitize replaces values the JSON encoder cannot represent, such as live
// writers or functions pulled in through ext:// references, with their %v
// form.
func sanitize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = sanitize(item)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = sanitize(item)
		}

		return out
	default:
		if _, err := json.Marshal(value); err != nil {
			return fmt.Sprintf("%v", value)
		}

		return value
	}
}
