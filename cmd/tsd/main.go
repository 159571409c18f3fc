// Package main is the entry point for tsd, the TTML stats dashboard. The
// root command runs the terminal dashboard; subcommands record and maintain
// the snapshot database.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/config"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries what every command needs once configuration is loaded.
type cli struct {
	cfg    *config.Config
	logOut io.Closer
}

func (a *cli) load(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	a.logOut = logger.Init(cfg.LogPath, cfg.LogLevel)
	logger.Debug("configuration loaded", "database", cfg.DatabasePath, "version", version.GetVersion())
	return nil
}

func (a *cli) close(_ *cobra.Command, _ []string) {
	if a.logOut != nil {
		_ = a.logOut.Close()
	}
}

func newRootCommand() *cobra.Command {
	a := &cli{}

	root := &cobra.Command{
		Use:   "tsd",
		Short: "Terminal dashboard for TTML server statistics.",
		Long: `tsd shows traffic, cache, latency and agent statistics recorded from a
TTML lyrics server. Snapshots are stored in a local SQLite database by
"tsd sync" and displayed by running tsd without arguments.

Keyboard shortcuts:
  1-4, tab        switch tabs
  v               toggle totals / deltas
  t               cycle time range
  c               cycle chart type (traffic, agents)
  r               reload snapshots
  s               record a snapshot now
  ?               help
  q, ctrl+c       quit`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
		PersistentPostRun: a.close,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(a.cfg)
		},
	}

	root.AddCommand(
		newSyncCommand(a),
		newImportCommand(a),
		newPruneCommand(a),
		newStatusCommand(a),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip configuration loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		PersistentPostRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
