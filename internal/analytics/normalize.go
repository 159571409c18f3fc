package analytics

import "github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"

// Normalizer maps raw rows to snapshots using a fixed registry.
type Normalizer struct {
	registry *Registry
}

// NewNormalizer creates a normalizer. A nil registry disables renames.
func NewNormalizer(registry *Registry) *Normalizer {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	return &Normalizer{registry: registry}
}

// Registry returns the registry used for agent names.
func (n *Normalizer) Registry() *Registry {
	return n.registry
}

// Normalize converts one stored row. It never looks at other rows.
func (n *Normalizer) Normalize(row models.RawSnapshotRow) models.Snapshot {
	data := row.Data
	perHour, perMinute := requestRates(data.Requests.Total, data.Server.UptimeSeconds)

	return models.Snapshot{
		Timestamp: row.Timestamp,
		Requests: models.Requests{
			Total:     data.Requests.Total,
			Lyrics:    data.Requests.Lyrics,
			Cache:     data.Requests.Cache,
			Health:    data.Requests.Health,
			Stats:     data.Requests.Stats,
			Other:     data.Requests.Other,
			PerHour:   perHour,
			PerMinute: perMinute,
		},
		Responses: data.Responses,
		ResponseTimes: models.ResponseTimes{
			Avg:       roundMillis(data.ResponseTimes.Avg),
			AvgLyrics: roundMillis(data.ResponseTimes.AvgLyrics),
			Min:       roundMillis(data.ResponseTimes.Min),
			Max:       roundMillis(data.ResponseTimes.Max),
		},
		Cache: models.Cache{
			Hits:         data.Cache.Hits,
			Misses:       data.Cache.Misses,
			NegativeHits: data.Cache.NegativeHits,
			StaleHits:    data.Cache.StaleHits,
			HitRate:      data.Cache.HitRate,
			Keys:         data.CacheStorage.Keys,
			StorageMB:    data.CacheStorage.SizeMB,
		},
		CircuitBreaker: models.CircuitBreaker{
			State:             data.CircuitBreaker.State,
			CooldownRemaining: ParseCooldown(data.CircuitBreaker.CooldownRemaining),
			Failures:          data.CircuitBreaker.Failures,
		},
		RateLimiting: data.RateLimiting,
		Server: models.Server{
			UptimeSeconds: data.Server.UptimeSeconds,
			StartTime:     data.Server.StartTime,
		},
		Agents: n.registry.TransformAccounts(data.Accounts),
	}
}

// requestRates derives per-hour (whole) and per-minute (one decimal)
// rates. Both are 0 without uptime.
func requestRates(total int64, uptimeSeconds float64) (perHour int64, perMinute float64) {
	if uptimeSeconds <= 0 {
		return 0, 0
	}
	hours := uptimeSeconds / 3600
	minutes := uptimeSeconds / 60
	perHour = int64(round(float64(total) / hours))
	perMinute = round(float64(total)/minutes*10) / 10
	return perHour, perMinute
}

func roundMillis(text string) int64 {
	return int64(round(ParseDuration(text)))
}
