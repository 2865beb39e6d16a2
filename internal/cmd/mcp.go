package cmd

import (
	"fmt"

	"github.com/harrison/jsontable/internal/mcpserver"
	"github.com/harrison/jsontable/internal/service"
	"github.com/spf13/cobra"
)

// NewMCPCommand creates the mcp command
func NewMCPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the json_to_table tool over MCP stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
json_to_table tool.

Stdout carries the protocol, so logs go to the run log in the configured
log directory. File arguments are confined to the base directory.

Example client configuration:
  {"command": "jsontable", "args": ["mcp", "--base-dir", "/srv/data"]}`,
		Args: cobra.NoArgs,
		RunE: runMCP,
	}

	cmd.Flags().String("base-dir", "", "Directory file arguments must resolve under (overrides config)")
	cmd.Flags().String("encoding", "", "Text encoding of input files (overrides config)")
	cmd.Flags().Int("ceiling", 0, "Default row ceiling applied without a limit argument (overrides config)")

	return cmd
}

// runMCP implements the mcp command logic
func runMCP(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd, envOptions{fileLog: true, openHistory: true})
	if err != nil {
		return err
	}
	defer env.Close()

	svc := service.New(env.serviceConfig(), env.serviceOptions()...)
	env.log.LogInfo(fmt.Sprintf("Starting MCP server (base dir %s, encoding %s)", env.cfg.BaseDir, svc.Encoding()))

	if err := mcpserver.New(svc, Version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
