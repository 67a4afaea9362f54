package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ryanping/jsoncrack.com/internal/mutate"
	"github.com/ryanping/jsoncrack.com/internal/workspace"
	"github.com/ryanping/jsoncrack.com/internal/writeback"
)

var (
	dryRun    bool
	showDiff  bool
	showPatch bool
)

func init() {
	setCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the new document without saving it")
	setCmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff of the change")
	setCmd.Flags().BoolVar(&showPatch, "patch", false, "Print the change as an RFC 6902 JSON Patch")
}

var setCmd = &cobra.Command{
	Use:   "set <file> <node> <value|->",
	Short: "Replace one node with new JSON content",
	Long: `Replace one node and save the document. The value is edited the way
"view" shows it: an object of the node's inline fields, or a bare value.
Nested containers that "view" does not show are kept. Use - to read the
value from stdin.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, ref, value := args[0], args[1], args[2]
		if value == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			value = string(b)
		}

		ws, closeWS, err := openWorkspace(cmd, file)
		if err != nil {
			return err
		}
		defer closeWS()

		n, err := ws.Node(ref)
		if err != nil {
			return err
		}
		before := ws.Document()

		var after string
		if dryRun {
			after, err = ws.Preview(cmd.Context(), ref, value)
		} else {
			after, err = ws.Update(cmd.Context(), ref, value)
		}
		if jsonOut && !dryRun {
			if perr := printJSON(cmd.OutOrStdout(), workspace.ResultOf(ref, after, err)); perr != nil {
				return perr
			}
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showDiff {
			name := filepath.Base(file)
			d, err := writeback.Diff(before, after, "a/"+name, "b/"+name)
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			fmt.Fprint(out, d)
		}
		if showPatch {
			v, err := mutate.Lookup(after, n.Path)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, mutate.ReplacePatch(n.Path, v))
		}
		if dryRun && !showDiff && !showPatch {
			fmt.Fprintln(out, after)
		}
		return nil
	},
}
