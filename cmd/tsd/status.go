package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/analytics"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/config"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/db"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

func newStatusCommand(a *cli) *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the latest snapshot without starting the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			migrations, err := config.LoadMigrations(a.cfg.MigrationsPath)
			if err != nil {
				return fmt.Errorf("failed to load account migrations: %w", err)
			}
			normalizer := analytics.NewNormalizer(analytics.NewRegistry(migrations))

			database, err := db.New(a.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer database.Close()

			ctx := cmd.Context()
			row, err := database.LatestSnapshot(ctx)
			if errors.Is(err, db.ErrNoSnapshots) {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots recorded yet. Run `tsd sync` first.")
				return nil
			}
			if err != nil {
				return err
			}

			recent, err := database.SnapshotsSince(ctx, time.Now().Add(-since))
			if err != nil {
				return err
			}

			stored, err := database.CountSnapshots(ctx)
			if err != nil {
				return err
			}

			printStatus(cmd.OutOrStdout(), normalizer.Normalize(row), len(recent), stored, since)
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "window for the recent snapshot count")
	return cmd
}

func printStatus(out io.Writer, s models.Snapshot, recent, stored int, since time.Duration) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Snapshot\t%s\n", s.Timestamp)
	fmt.Fprintf(w, "Recent\t%d in the last %s, %s stored\n", recent, since, humanize.Comma(int64(stored)))
	fmt.Fprintf(w, "Circuit\t%s (%s)\n", s.CircuitBreaker.State, s.CircuitBreaker.State.Label())
	fmt.Fprintf(w, "Requests\t%s total, %s/hour\n", humanize.Comma(s.Requests.Total), humanize.Comma(s.Requests.PerHour))
	fmt.Fprintf(w, "Cache\t%.1f%% hit rate, %s keys\n", s.Cache.HitRate, humanize.Comma(s.Cache.Keys))
	fmt.Fprintf(w, "Latency\t%dms avg, %dms max\n", s.ResponseTimes.Avg, s.ResponseTimes.Max)
	fmt.Fprintf(w, "Responses\t%s 2xx, %s 4xx, %s 5xx\n",
		humanize.Comma(s.Responses.Status2xx), humanize.Comma(s.Responses.Status4xx), humanize.Comma(s.Responses.Status5xx))

	top := lo.Slice(s.Agents, 0, 5)
	for i, agent := range top {
		label := ""
		if i == 0 {
			label = "Top agents"
		}
		fmt.Fprintf(w, "%s\t%s  %s\n", label, agent.DisplayName(), humanize.Comma(agent.Requests))
	}
}
