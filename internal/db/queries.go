package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// InsertSnapshot stores a raw stats payload taken at ts and returns the row id.
// The payload is stored verbatim so that fields unknown to this version
// survive.
func (db *DB) InsertSnapshot(ctx context.Context, ts time.Time, payload []byte) (int64, error) {
	if err := models.ValidateRawStats(payload); err != nil {
		return 0, err
	}
	if ts.IsZero() {
		ts = time.Now()
	}

	result, err := db.ExecContext(ctx,
		"INSERT INTO analytics (timestamp, data) VALUES (?, ?)",
		ts.UTC().Format(TimestampLayout),
		string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot id: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent row, or ErrNoSnapshots.
func (db *DB) LatestSnapshot(ctx context.Context) (models.RawSnapshotRow, error) {
	row := db.QueryRowContext(ctx, selectSnapshotColumns+" ORDER BY timestamp DESC, id DESC LIMIT 1")

	var (
		snap models.RawSnapshotRow
		data string
	)
	if err := row.Scan(&snap.ID, &snap.Timestamp, &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RawSnapshotRow{}, ErrNoSnapshots
		}
		return models.RawSnapshotRow{}, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	stats, err := models.ParseRawStats([]byte(data))
	if err != nil {
		return models.RawSnapshotRow{}, fmt.Errorf("failed to decode snapshot %d: %w", snap.ID, err)
	}
	snap.Data = stats
	return snap, nil
}

// Snapshots returns every row ascending by timestamp.
func (db *DB) Snapshots(ctx context.Context) ([]models.RawSnapshotRow, error) {
	return db.querySnapshots(ctx, selectSnapshotColumns+" ORDER BY timestamp ASC, id ASC")
}

// SnapshotsSince returns rows taken at or after since, ascending.
func (db *DB) SnapshotsSince(ctx context.Context, since time.Time) ([]models.RawSnapshotRow, error) {
	return db.querySnapshots(ctx,
		selectSnapshotColumns+" WHERE timestamp >= ? ORDER BY timestamp ASC, id ASC",
		since.UTC().Format(TimestampLayout),
	)
}

func (db *DB) querySnapshots(ctx context.Context, query string, args ...any) ([]models.RawSnapshotRow, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var snaps []models.RawSnapshotRow
	for rows.Next() {
		var (
			snap models.RawSnapshotRow
			data string
		)
		if err := rows.Scan(&snap.ID, &snap.Timestamp, &data); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		stats, err := models.ParseRawStats([]byte(data))
		if err != nil {
			logger.Warn("skipping undecodable snapshot", "id", snap.ID, "error", err)
			continue
		}
		snap.Data = stats
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snaps, nil
}

// CountSnapshots returns the number of stored rows.
func (db *DB) CountSnapshots(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analytics").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

// PruneBefore deletes rows older than cutoff and returns how many were removed.
func (db *DB) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		"DELETE FROM analytics WHERE timestamp < ?",
		cutoff.UTC().Format(TimestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned count: %w", err)
	}
	return n, nil
}
