package analytics

import (
	"time"

	"github.com/samber/lo"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// DateLayout formats point labels, e.g. "Nov 1, 3:04 PM".
const DateLayout = "Jan 2, 3:04 PM"

// BuildHistory normalizes rows into timeline points labelled in loc.
// Rows must be ascending by timestamp. Rows with an unreadable timestamp
// are left out and counted in skipped.
func (n *Normalizer) BuildHistory(rows []models.RawSnapshotRow, loc *time.Location) (points []models.HistoricalPoint, skipped int) {
	if loc == nil {
		loc = time.Local
	}
	points = make([]models.HistoricalPoint, 0, len(rows))
	for _, row := range rows {
		ts, err := models.ParseTimestamp(row.Timestamp)
		if err != nil {
			skipped++
			continue
		}
		points = append(points, models.HistoricalPoint{
			Date:      ts.In(loc).Format(DateLayout),
			Timestamp: ts.UnixMilli(),
			Snapshot:  n.Normalize(row),
		})
	}
	return points, skipped
}

// IsAscending reports whether series is ordered by timestamp. Delta
// history over an unordered series is meaningless.
func IsAscending[T models.Timestamped](series []T) bool {
	return lo.IsSortedByKey(series, func(p T) int64 { return p.TimestampMillis() })
}

// ComputeDeltaHistory pairs each point with its predecessor. The result
// has one element fewer than points, and is empty for fewer than two.
func ComputeDeltaHistory(points []models.HistoricalPoint) []models.DeltaPoint {
	if len(points) < 2 {
		return []models.DeltaPoint{}
	}
	deltas := make([]models.DeltaPoint, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		deltas = append(deltas, models.DeltaPoint{
			Date:      points[i].Date,
			Timestamp: points[i].Timestamp,
			Delta:     ComputeDelta(points[i].Snapshot, points[i-1].Snapshot),
			Snapshot:  points[i].Snapshot,
		})
	}
	return deltas
}

// FilterByTimeRange keeps elements within the trailing window ending now.
func FilterByTimeRange[T models.Timestamped](series []T, r models.TimeRange) []T {
	return FilterByTimeRangeAt(series, r, time.Now())
}

// FilterByTimeRangeAt keeps elements with timestamp >= now - window. The
// boundary is inclusive. For an unbounded range series is returned as is.
func FilterByTimeRangeAt[T models.Timestamped](series []T, r models.TimeRange, now time.Time) []T {
	if !r.Bounded() {
		return series
	}
	cutoff := now.UnixMilli() - int64(r.Hours())*int64(time.Hour/time.Millisecond)
	return lo.Filter(series, func(p T, _ int) bool {
		return p.TimestampMillis() >= cutoff
	})
}

// SumDeltasInRange adds up every delta. Agents are summed by name in the
// order they first appear, keeping the first former names seen, then
// sorted by total descending. Empty input gives a zero delta with an empty
// agent list.
func SumDeltasInRange(points []models.DeltaPoint) models.DeltaSnapshot {
	var sum models.DeltaSnapshot
	agents := make([]models.AgentCount, 0)
	index := make(map[string]int)

	for _, p := range points {
		sum = add(sum, p.Delta)
		for _, a := range p.Delta.Agents {
			if i, ok := index[a.Name]; ok {
				agents[i].Requests += a.Requests
				continue
			}
			index[a.Name] = len(agents)
			agents = append(agents, a)
		}
	}

	sortAgents(agents)
	sum.Agents = agents
	return sum
}
