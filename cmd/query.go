package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryanping/jsoncrack.com/api"
	"github.com/ryanping/jsoncrack.com/internal/ingest"
	"github.com/ryanping/jsoncrack.com/internal/jsonvalue"
)

var queryCmd = &cobra.Command{
	Use:   "query <file> <jsonpath>",
	Short: "Print every value matching a JSONPath expression",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, closeWS, err := openWorkspace(cmd, args[0])
		if err != nil {
			return err
		}
		defer closeWS()

		root, err := ws.Value()
		if err != nil {
			return err
		}
		matches, err := ingest.NewJsonWalker().Query(root, args[1])
		if err != nil {
			return err
		}
		loggerFromContext(cmd.Context()).Debug("query", "selector", args[1], "matches", len(matches))

		if jsonOut {
			out := make([]api.Match, 0, len(matches))
			for _, m := range matches {
				out = append(out, api.Match{Value: jsonvalue.MarshalIndent(m)})
			}
			return printJSON(cmd.OutOrStdout(), out)
		}
		for _, m := range matches {
			fmt.Fprintln(cmd.OutOrStdout(), jsonvalue.MarshalIndent(m))
		}
		return nil
	},
}
