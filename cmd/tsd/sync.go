package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/db"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/ingest"
)

func newSyncCommand(a *cli) *cobra.Command {
	var (
		interval time.Duration
		loop     bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Record a snapshot of the stats endpoint",
		Long: `Fetch STATS_API_URL once and store the payload as a new snapshot.
With --interval, keep syncing on that period until interrupted; --loop
does the same using SYNC_INTERVAL. Rows older than RETENTION_DAYS are pruned after
each insert.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateSync(); err != nil {
				return err
			}
			if loop && interval <= 0 {
				interval = a.cfg.SyncInterval
			}

			database, err := db.New(a.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := ingest.New(
				ingest.NewClient(a.cfg.StatsAPIURL, a.cfg.StatsAPIKey, nil),
				database,
				ingest.Config{Interval: interval, Retention: a.cfg.Retention()},
			)

			out := cmd.OutOrStdout()
			if interval > 0 {
				fmt.Fprintf(out, "Syncing %s every %s (ctrl+c to stop)\n", a.cfg.StatsAPIURL, interval)
			}
			return svc.Run(ctx, func(r ingest.Result, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s  sync failed: %v\n", time.Now().Format(time.TimeOnly), err)
					return
				}
				line := fmt.Sprintf("%s  stored snapshot #%d", r.Timestamp.Local().Format(time.TimeOnly), r.ID)
				if r.Pruned > 0 {
					line += fmt.Sprintf(", pruned %s old rows", humanize.Comma(r.Pruned))
				}
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "sync repeatedly with this period")
	cmd.Flags().BoolVar(&loop, "loop", false, "sync repeatedly every SYNC_INTERVAL")
	return cmd
}

func newImportCommand(a *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import exported analytics rows",
		Long: `Import a JSON array of {"timestamp": ..., "data": {...}} rows, as
exported from the hosted analytics table. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open export: %w", err)
				}
				defer f.Close()
				in = f
			}

			database, err := db.New(a.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			result, err := ingest.Import(cmd.Context(), database, in)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s rows, skipped %s\n",
				humanize.Comma(int64(result.Imported)), humanize.Comma(int64(result.Skipped)))
			if err != nil {
				return err
			}
			logger.Info("import finished", "file", args[0], "imported", result.Imported, "skipped", result.Skipped)
			return nil
		},
	}
}

func newPruneCommand(a *cli) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old snapshots and compact the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.RetentionDays
			}
			if days <= 0 {
				return fmt.Errorf("nothing to prune: pass --days or set RETENTION_DAYS")
			}

			database, err := db.New(a.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
			pruned, err := database.PruneBefore(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			if err := database.Vacuum(); err != nil {
				return fmt.Errorf("failed to vacuum database: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %s snapshots older than %s\n",
				humanize.Comma(pruned), cutoff.Format(time.DateOnly))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "keep this many days of snapshots")
	return cmd
}

