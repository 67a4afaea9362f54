package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ryanping/jsoncrack.com/internal/session"
	"github.com/ryanping/jsoncrack.com/internal/store"
	"github.com/ryanping/jsoncrack.com/internal/workspace"
)

var version = "dev"

var (
	verbose bool
	dbPath  string
	jsonOut bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Keep the working copy in this SQLite database instead of writing the file")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print results as JSON")

	rootCmd.AddCommand(nodesCmd, viewCmd, setCmd, queryCmd, formatCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:          "jsoncrack",
	Short:        "Inspect and edit JSON documents node by node",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openWorkspace opens path, using the SQLite working copy named by --db
// when set. A document previously stored there takes precedence over the
// file contents. The returned func releases the database.
func openWorkspace(cmd *cobra.Command, path string) (*workspace.Workspace, func(), error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	opts := []workspace.Option{
		workspace.WithLogger(logger),
		workspace.WithNotifier(session.LogNotifier{Logger: logger}),
	}
	if dbPath == "" {
		ws, err := workspace.Open(ctx, path, opts...)
		return ws, func() {}, err
	}

	docID, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	wc, err := store.OpenSQLiteWorkingCopy(dbPath, docID)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := wc.Close(); err != nil {
			logger.Warn("close working copy", "db", dbPath, "err", err)
		}
	}
	opts = append(opts, workspace.WithPersister(wc))

	var ws *workspace.Workspace
	text, _, err := wc.Contents(ctx)
	switch {
	case err == nil:
		logger.Debug("loaded working copy", "db", dbPath, "doc", docID)
		ws, err = workspace.New(path, text, opts...)
	case errors.Is(err, store.ErrNoContents):
		ws, err = workspace.Open(ctx, path, opts...)
	}
	if err != nil {
		closer()
		return nil, nil, err
	}
	return ws, closer, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
