package analytics

import (
	"testing"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

func snapshotWith(total int64, agents ...models.AgentCount) models.Snapshot {
	return models.Snapshot{
		Requests:       models.Requests{Total: total, Lyrics: total / 2, Cache: 3, Health: 4, Stats: 5, Other: 6, PerHour: 99},
		Responses:      models.Responses{Status2xx: total, Status4xx: 2, Status5xx: 1},
		Cache:          models.Cache{Hits: total * 2, Misses: 10, NegativeHits: 1, StaleHits: 1, HitRate: 50, Keys: 100, StorageMB: 1.5},
		CircuitBreaker: models.CircuitBreaker{Failures: 4},
		RateLimiting:   models.RateLimiting{NormalTier: 7, CachedTier: 8, Exceeded: 9},
		Agents:         agents,
	}
}

func TestComputeDelta_FieldWise(t *testing.T) {
	prev := snapshotWith(100)
	cur := snapshotWith(150)
	cur.Requests.Health = 1
	cur.Responses.Status4xx = 12
	cur.Cache.Misses = 4
	cur.Cache.Keys = 80
	cur.Cache.StorageMB = 1.0
	cur.Cache.HitRate = 99
	cur.RateLimiting.Exceeded = 19
	cur.CircuitBreaker.Failures = 0

	d := ComputeDelta(cur, prev)

	checks := []struct {
		name      string
		got, want int64
	}{
		{"requests.total", d.Requests.Total, cur.Requests.Total - prev.Requests.Total},
		{"requests.lyrics", d.Requests.Lyrics, 25},
		{"requests.cache", d.Requests.Cache, 0},
		{"requests.health", d.Requests.Health, -3},
		{"requests.stats", d.Requests.Stats, 0},
		{"requests.other", d.Requests.Other, 0},
		{"responses.2xx", d.Responses.Status2xx, 50},
		{"responses.4xx", d.Responses.Status4xx, 10},
		{"responses.5xx", d.Responses.Status5xx, 0},
		{"cache.hits", d.Cache.Hits, 100},
		{"cache.misses", d.Cache.Misses, -6},
		{"cache.negative_hits", d.Cache.NegativeHits, 0},
		{"cache.stale_hits", d.Cache.StaleHits, 0},
		{"storage.keys", d.Storage.Keys, -20},
		{"rate_limiting.normal_tier", d.RateLimiting.NormalTier, 0},
		{"rate_limiting.cached_tier", d.RateLimiting.CachedTier, 0},
		{"rate_limiting.exceeded", d.RateLimiting.Exceeded, 10},
		{"circuit_breaker.failures", d.CircuitBreaker.Failures, -4},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if !approxEqual(d.Storage.StorageMB, -0.5) {
		t.Errorf("storage.storage_mb = %v, want -0.5", d.Storage.StorageMB)
	}
}

func TestComputeDelta_Agents(t *testing.T) {
	prev := snapshotWith(0,
		models.AgentCount{Name: "X", Requests: 5},
		models.AgentCount{Name: "Khalid", Requests: 10, FormerNames: []string{"Halsey"}},
		models.AgentCount{Name: "Y", Requests: 50},
	)
	cur := snapshotWith(0,
		models.AgentCount{Name: "Khalid", Requests: 12, FormerNames: []string{"Halsey"}},
		models.AgentCount{Name: "Y", Requests: 40},
		models.AgentCount{Name: "New", Requests: 7},
	)

	d := ComputeDelta(cur, prev)

	want := []models.AgentCount{
		{Name: "New", Requests: 7},
		{Name: "Khalid", Requests: 2, FormerNames: []string{"Halsey"}},
		{Name: "Y", Requests: -10},
	}
	if len(d.Agents) != len(want) {
		t.Fatalf("Agents = %+v, want %+v", d.Agents, want)
	}
	for i := range want {
		if d.Agents[i].Name != want[i].Name || d.Agents[i].Requests != want[i].Requests {
			t.Errorf("Agents[%d] = %+v, want %+v", i, d.Agents[i], want[i])
		}
	}
	if !d.Agents[1].HasFormerNames() {
		t.Error("former names not carried into delta")
	}
	for _, a := range d.Agents {
		if a.Name == "X" {
			t.Error("agent absent from current snapshot should be dropped")
		}
	}
}

func TestComputeDelta_Zero(t *testing.T) {
	s := snapshotWith(42, models.AgentCount{Name: "A", Requests: 3})
	d := ComputeDelta(s, s)
	if d.Requests != (models.RequestsDelta{}) || d.Cache != (models.CacheDelta{}) {
		t.Errorf("self delta not zero: %+v", d)
	}
	if len(d.Agents) != 1 || d.Agents[0].Requests != 0 {
		t.Errorf("Agents = %+v, want A:0", d.Agents)
	}
}
