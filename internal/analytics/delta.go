package analytics

import "github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"

// ComputeDelta returns current minus previous for every counter. Negative
// values are kept (counter resets, evictions).
//
// Agents follow current: an agent missing from previous counts from zero,
// and an agent missing from current is dropped.
func ComputeDelta(current, previous models.Snapshot) models.DeltaSnapshot {
	return models.DeltaSnapshot{
		Requests: models.RequestsDelta{
			Total:  current.Requests.Total - previous.Requests.Total,
			Lyrics: current.Requests.Lyrics - previous.Requests.Lyrics,
			Cache:  current.Requests.Cache - previous.Requests.Cache,
			Health: current.Requests.Health - previous.Requests.Health,
			Stats:  current.Requests.Stats - previous.Requests.Stats,
			Other:  current.Requests.Other - previous.Requests.Other,
		},
		Responses: models.Responses{
			Status2xx: current.Responses.Status2xx - previous.Responses.Status2xx,
			Status4xx: current.Responses.Status4xx - previous.Responses.Status4xx,
			Status5xx: current.Responses.Status5xx - previous.Responses.Status5xx,
		},
		Cache: models.CacheDelta{
			Hits:         current.Cache.Hits - previous.Cache.Hits,
			Misses:       current.Cache.Misses - previous.Cache.Misses,
			NegativeHits: current.Cache.NegativeHits - previous.Cache.NegativeHits,
			StaleHits:    current.Cache.StaleHits - previous.Cache.StaleHits,
		},
		Storage: models.StorageDelta{
			Keys:      current.Cache.Keys - previous.Cache.Keys,
			StorageMB: current.Cache.StorageMB - previous.Cache.StorageMB,
		},
		RateLimiting: models.RateLimiting{
			NormalTier: current.RateLimiting.NormalTier - previous.RateLimiting.NormalTier,
			CachedTier: current.RateLimiting.CachedTier - previous.RateLimiting.CachedTier,
			Exceeded:   current.RateLimiting.Exceeded - previous.RateLimiting.Exceeded,
		},
		CircuitBreaker: models.CircuitBreakerDelta{
			Failures: current.CircuitBreaker.Failures - previous.CircuitBreaker.Failures,
		},
		Agents: agentDeltas(current.Agents, previous.Agents),
	}
}

func agentDeltas(current, previous []models.AgentCount) []models.AgentCount {
	before := make(map[string]int64, len(previous))
	for _, a := range previous {
		before[a.Name] = a.Requests
	}

	deltas := make([]models.AgentCount, 0, len(current))
	for _, a := range current {
		deltas = append(deltas, models.AgentCount{
			Name:        a.Name,
			Requests:    a.Requests - before[a.Name],
			FormerNames: a.FormerNames,
		})
	}

	sortAgents(deltas)
	return deltas
}

// add returns the field-wise sum of d and other. Agents are not merged.
func add(d, other models.DeltaSnapshot) models.DeltaSnapshot {
	d.Requests.Total += other.Requests.Total
	d.Requests.Lyrics += other.Requests.Lyrics
	d.Requests.Cache += other.Requests.Cache
	d.Requests.Health += other.Requests.Health
	d.Requests.Stats += other.Requests.Stats
	d.Requests.Other += other.Requests.Other

	d.Responses.Status2xx += other.Responses.Status2xx
	d.Responses.Status4xx += other.Responses.Status4xx
	d.Responses.Status5xx += other.Responses.Status5xx

	d.Cache.Hits += other.Cache.Hits
	d.Cache.Misses += other.Cache.Misses
	d.Cache.NegativeHits += other.Cache.NegativeHits
	d.Cache.StaleHits += other.Cache.StaleHits

	d.Storage.Keys += other.Storage.Keys
	d.Storage.StorageMB += other.Storage.StorageMB

	d.RateLimiting.NormalTier += other.RateLimiting.NormalTier
	d.RateLimiting.CachedTier += other.RateLimiting.CachedTier
	d.RateLimiting.Exceeded += other.RateLimiting.Exceeded

	d.CircuitBreaker.Failures += other.CircuitBreaker.Failures
	return d
}
