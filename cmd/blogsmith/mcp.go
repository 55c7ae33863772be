// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/blogsmith/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the generate_blog tool over MCP stdio",
	Long: `Mcp speaks the Model Context Protocol on stdin and stdout so an agent can
call generate_blog with a topic. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ex, err := newExecutor(cfg)
		if err != nil {
			return err
		}
		return mcpserver.New(ex, version, logger).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
