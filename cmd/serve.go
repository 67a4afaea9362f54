package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ryanping/jsoncrack.com/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve the document's nodes as MCP tools over stdio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, closeWS, err := openWorkspace(cmd, args[0])
		if err != nil {
			return err
		}
		defer closeWS()

		return mcpserver.New(ws, version, loggerFromContext(cmd.Context())).ServeStdio()
	},
}
