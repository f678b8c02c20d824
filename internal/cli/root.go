// Package cli implements the schedsim command-line interface. All commands
// operate locally: they parse a scenario file, run the simulation, and print
// or record the result.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/me/schedsim/internal/logging"
	"github.com/me/schedsim/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagDB        string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the schedsim CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedsim",
		Short: "schedsim is a task-tree list-scheduling simulator",
		Long: "schedsim loads a dependency tree of tasks from an edge-list file, " +
			"simulates non-preemptive scheduling over a fixed number of processors, " +
			"and reports makespan and execution order under shortest-first and " +
			"longest-first priority policies.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagDB, "db", "", "Run database path (default ~/.schedsim/schedsim.db)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newCompareCmd(),
		newTreeCmd(),
		newGraphCmd(),
		newHistoryCmd(),
	)

	return root
}

// openStore opens the local run database, creating the default directory
// when no --db path was given, and applies migrations.
func openStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	dbPath := flagDB
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir := filepath.Join(home, ".schedsim")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create %s: %w", dir, err)
		}
		dbPath = filepath.Join(dir, "schedsim.db")
	}

	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return st, nil
}
