package db

import "errors"

// TimestampLayout is the stored timestamp format (always UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrNoSnapshots is returned when the analytics table is empty.
var ErrNoSnapshots = errors.New("no analytics snapshots stored")

const selectSnapshotColumns = "SELECT id, timestamp, data FROM analytics"
