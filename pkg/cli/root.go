// Package cli implements the metacat command-line interface: a thin layer
// over the same services the HTTP API uses, working directly against a
// local metastore.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"metacat/internal/app"
	"metacat/internal/config"
	internaldb "metacat/internal/db"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "metacat",
		Short:         "Metadata catalog discovery and lineage engine",
		Long:          "Command-line interface for the metacat discovery reconciliation and lineage inference engine.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite metastore (overrides META_DB_PATH)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd(&dbPath))
	rootCmd.AddCommand(newDiscoverCmd(&dbPath))
	rootCmd.AddCommand(newLineageCmd(&dbPath))
	rootCmd.AddCommand(newPathCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "metacat version %s (commit: %s)\n", version, commit)
			return err
		},
	}
}

// loadConfig resolves the effective config, with the --db flag winning over
// the environment.
func loadConfig(dbPath string) (*config.Config, error) {
	_ = config.LoadDotEnv(".env") // optional
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.MetaDBPath = dbPath
	}
	return cfg, nil
}

// openApp opens the metastore and wires the application for a one-shot
// command. The caller must invoke the returned cleanup.
func openApp(cfg *config.Config, logger *slog.Logger) (*app.App, func(), error) {
	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.MetaDBPath, 4)
	if err != nil {
		return nil, nil, fmt.Errorf("open metastore: %w", err)
	}
	cleanup := func() {
		_ = writeDB.Close()
		_ = readDB.Close()
	}
	if err := internaldb.RunMigrations(writeDB); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return app.New(app.Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: logger}), cleanup, nil
}

// quietLogger keeps one-shot commands from interleaving log lines with
// their JSON output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
