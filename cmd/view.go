package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryanping/jsoncrack.com/internal/workspace"
)

var viewCmd = &cobra.Command{
	Use:   "view <file> <node>",
	Short: "Show the path and content of one node",
	Long:  `Show one node. <node> is a node ID from "nodes" or a path such as $["customer"][0].`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, closeWS, err := openWorkspace(cmd, args[0])
		if err != nil {
			return err
		}
		defer closeWS()

		n, v, err := ws.View(args[1])
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), workspace.ViewOf(n, v))
		}
		fmt.Fprintln(cmd.OutOrStdout(), v.Path)
		fmt.Fprintln(cmd.OutOrStdout(), v.Content)
		return nil
	},
}
