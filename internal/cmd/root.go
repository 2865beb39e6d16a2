package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for jsontable
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsontable",
		Short: "Convert JSON data into tables",
		Long: `jsontable converts JSON data (a single object, a list of objects or a
list of lists) into rectangular tables.

Sources are files confined to a base directory or inline text. Large inputs
are capped at a configurable default ceiling with an advisory; an explicit
limit overrides the ceiling and 0 disables limiting.

Markdown documents can embed tables with json-table fenced code blocks,
which the render command turns into HTML.

Configuration is loaded from .jsontable/config.yaml if present.
CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config-dir", "", "Directory containing .jsontable/ (default: $JSONTABLE_HOME or the working directory)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().Bool("no-history", false, "Do not record conversions in the history database")

	cmd.AddCommand(NewConvertCommand())
	cmd.AddCommand(NewRenderCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewMCPCommand())

	return cmd
}
