package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ryanping/jsoncrack.com/api"
	"github.com/ryanping/jsoncrack.com/internal/workspace"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes <file>",
	Short: "List the nodes of a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, closeWS, err := openWorkspace(cmd, args[0])
		if err != nil {
			return err
		}
		defer closeWS()

		nodes := ws.Nodes()
		summaries := make([]api.NodeSummary, 0, len(nodes))
		for _, n := range nodes {
			summaries = append(summaries, workspace.SummaryOf(n))
		}
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), summaries)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPATH\tFIELDS")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", s.ID, s.Path, s.Fields)
		}
		return tw.Flush()
	},
}
