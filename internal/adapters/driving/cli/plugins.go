package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List registered capability implementations",
	Long: `List every registered implementation per capability family.

Built-in implementations and those discovered from plugin manifests are
shown together; a plugin that overrode a built-in appears once, under
its type key.`,
	RunE: runPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

func runPlugins(cmd *cobra.Command, _ []string) error {
	if err := requireWired(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "parsers:   %s\n", strings.Join(parserRegistry.Keys(), ", "))
	fmt.Fprintf(out, "chunkers:  %s\n", strings.Join(chunkerRegistry.Keys(), ", "))
	fmt.Fprintf(out, "embedders: %s\n", strings.Join(embedderRegistry.Keys(), ", "))
	fmt.Fprintf(out, "backends:  %s\n", strings.Join(backendRegistry.Keys(), ", "))
	fmt.Fprintf(out, "tools:     %s\n", strings.Join(toolRegistry.Keys(), ", "))
	return nil
}
