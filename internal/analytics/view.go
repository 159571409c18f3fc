package analytics

import (
	"time"

	"github.com/samber/lo"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// DashboardView is everything the dashboard renders for one refresh.
type DashboardView struct {
	Latest    *models.Snapshot
	History   []models.HistoricalPoint
	Deltas    []models.DeltaPoint
	DeltaSum  models.DeltaSnapshot
	ViewMode  models.ViewMode
	TimeRange models.TimeRange
}

// HasData reports whether at least one snapshot is available.
func (v DashboardView) HasData() bool {
	return v.Latest != nil
}

// ShowDeltas reports whether cards should display range sums.
func (v DashboardView) ShowDeltas() bool {
	return v.ViewMode == models.ViewModeDelta
}

// BuildView computes the range-filtered series for the given preferences.
// Deltas are computed over the full history before filtering so the first
// point in range still has a predecessor.
func BuildView(latest *models.Snapshot, history []models.HistoricalPoint, mode models.ViewMode, r models.TimeRange, now time.Time) DashboardView {
	deltas := FilterByTimeRangeAt(ComputeDeltaHistory(history), r, now)
	return DashboardView{
		Latest:    latest,
		History:   FilterByTimeRangeAt(history, r, now),
		Deltas:    deltas,
		DeltaSum:  SumDeltasInRange(deltas),
		ViewMode:  mode,
		TimeRange: r,
	}
}

// TrafficPoint is one sample of the traffic chart.
type TrafficPoint struct {
	Date        string
	Timestamp   int64
	Requests    float64
	CacheHits   float64
	CacheMisses float64
	Errors      float64
}

// TrafficSeries returns chart samples from the view: cumulative counters in
// total mode, per-interval changes in delta mode.
func TrafficSeries(v DashboardView) []TrafficPoint {
	if v.ShowDeltas() {
		return lo.Map(v.Deltas, func(p models.DeltaPoint, _ int) TrafficPoint {
			return TrafficPoint{
				Date:        p.Date,
				Timestamp:   p.Timestamp,
				Requests:    float64(p.Delta.Requests.Total),
				CacheHits:   float64(p.Delta.Cache.Hits),
				CacheMisses: float64(p.Delta.Cache.Misses),
				Errors:      float64(p.Delta.Responses.Status5xx),
			}
		})
	}
	return lo.Map(v.History, func(p models.HistoricalPoint, _ int) TrafficPoint {
		return TrafficPoint{
			Date:        p.Date,
			Timestamp:   p.Timestamp,
			Requests:    float64(p.Snapshot.Requests.Total),
			CacheHits:   float64(p.Snapshot.Cache.Hits),
			CacheMisses: float64(p.Snapshot.Cache.Misses),
			Errors:      float64(p.Snapshot.Responses.Status5xx),
		}
	})
}

// TopAgents returns the agents to chart: range sums in delta mode,
// current totals otherwise. At most limit entries are returned
// (limit <= 0 means all).
func TopAgents(v DashboardView, limit int) []models.AgentCount {
	var agents []models.AgentCount
	switch {
	case v.ShowDeltas():
		agents = v.DeltaSum.Agents
	case v.Latest != nil:
		agents = v.Latest.Agents
	}
	if limit > 0 && len(agents) > limit {
		agents = agents[:limit]
	}
	return agents
}
