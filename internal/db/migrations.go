package db

import (
	"context"
	"fmt"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// FixLegacyTimeFormats rewrites timestamps that do not use TimestampLayout,
// such as "2024-11-01 12:00:00" or Go's "... +0000 UTC" form, so that
// ordering by the column stays chronological.
func (db *DB) FixLegacyTimeFormats() error {
	ctx := context.Background()
	rows, err := db.QueryContext(ctx, `
		SELECT id, timestamp FROM analytics
		WHERE length(timestamp) != 24 OR substr(timestamp, 11, 1) != 'T' OR substr(timestamp, 24, 1) != 'Z'
	`)
	if err != nil {
		return fmt.Errorf("failed to query legacy timestamps: %w", err)
	}

	type fix struct {
		id int64
		ts string
	}
	var fixes []fix
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan legacy timestamp: %w", err)
		}
		t, err := models.ParseTimestamp(raw)
		if err != nil {
			// Left as is; readers skip rows they cannot place on the timeline.
			continue
		}
		fixes = append(fixes, fix{id: id, ts: t.UTC().Format(TimestampLayout)})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to iterate legacy timestamps: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("failed to close rows: %w", err)
	}

	for _, f := range fixes {
		if _, err := db.ExecContext(ctx, "UPDATE analytics SET timestamp = ? WHERE id = ?", f.ts, f.id); err != nil {
			return fmt.Errorf("failed to fix legacy time formats: %w", err)
		}
	}

	return nil
}
