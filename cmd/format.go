package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryanping/jsoncrack.com/internal/writeback"
)

var writeFormatted bool

func init() {
	formatCmd.Flags().BoolVarP(&writeFormatted, "write", "w", false, "Rewrite the file instead of printing")
}

var formatCmd = &cobra.Command{
	Use:   "format <file>",
	Short: "Print a JSON document in canonical two-space form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := writeback.Validate(src); err != nil {
			return fmt.Errorf("%s:%w", path, err)
		}
		formatted := writeback.FormatBuffer(src)

		if !writeFormatted {
			fmt.Fprintln(cmd.OutOrStdout(), string(formatted))
			return nil
		}
		if err := writeback.WriteAtomic(path, formatted); err != nil {
			return err
		}
		loggerFromContext(cmd.Context()).Info("formatted", "file", path, "bytes", len(formatted))
		return nil
	},
}
