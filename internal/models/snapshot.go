package models

// CircuitState is the upstream circuit breaker state.
type CircuitState string

const (
	CircuitClosed   CircuitState = "CLOSED"
	CircuitOpen     CircuitState = "OPEN"
	CircuitHalfOpen CircuitState = "HALF_OPEN"
)

// Label returns the human readable breaker status.
func (c CircuitState) Label() string {
	switch c {
	case CircuitClosed:
		return "Healthy"
	case CircuitOpen:
		return "Tripped"
	case CircuitHalfOpen:
		return "Recovering"
	default:
		return "Unknown"
	}
}

// IsHealthy reports whether traffic flows normally.
func (c CircuitState) IsHealthy() bool {
	return c == CircuitClosed
}

// Snapshot is one normalized reading of server statistics.
type Snapshot struct {
	Timestamp      string         `json:"timestamp"`
	Server         Server         `json:"server"`
	CircuitBreaker CircuitBreaker `json:"circuit_breaker"`
	Agents         []AgentCount   `json:"ttml_agents"`
	Requests       Requests       `json:"requests"`
	Cache          Cache          `json:"cache"`
	ResponseTimes  ResponseTimes  `json:"response_times"`
	Responses      Responses      `json:"responses"`
	RateLimiting   RateLimiting   `json:"rate_limiting"`
}

// Requests holds request counters plus the derived rates.
type Requests struct {
	Total     int64   `json:"total"`
	Lyrics    int64   `json:"lyrics"`
	Cache     int64   `json:"cache"`
	Health    int64   `json:"health"`
	Stats     int64   `json:"stats"`
	Other     int64   `json:"other"`
	PerHour   int64   `json:"per_hour"`
	PerMinute float64 `json:"per_minute"`
}

// ResponseTimes are latencies in whole milliseconds.
type ResponseTimes struct {
	Avg       int64 `json:"avg"`
	AvgLyrics int64 `json:"avg_lyrics"`
	Min       int64 `json:"min"`
	Max       int64 `json:"max"`
}

// Cache merges the cache counters with the storage figures.
type Cache struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	NegativeHits int64   `json:"negative_hits"`
	StaleHits    int64   `json:"stale_hits"`
	HitRate      float64 `json:"hit_rate"`
	Keys         int64   `json:"keys"`
	StorageMB    float64 `json:"storage_mb"`
}

// CircuitBreaker holds breaker state with the cooldown in seconds.
type CircuitBreaker struct {
	State             CircuitState `json:"state"`
	CooldownRemaining float64      `json:"cooldown_remaining"`
	Failures          int64        `json:"failures"`
}

// Server describes the upstream process.
type Server struct {
	StartTime     string  `json:"start_time"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// TotalResponses sums all response classes.
func (r Responses) TotalResponses() int64 {
	return r.Status2xx + r.Status4xx + r.Status5xx
}

// DeltaSnapshot holds signed differences between two snapshots.
type DeltaSnapshot struct {
	Agents         []AgentCount        `json:"ttml_agents"`
	Requests       RequestsDelta       `json:"requests"`
	Cache          CacheDelta          `json:"cache"`
	Storage        StorageDelta        `json:"storage"`
	Responses      Responses           `json:"responses"`
	RateLimiting   RateLimiting        `json:"rate_limiting"`
	CircuitBreaker CircuitBreakerDelta `json:"circuit_breaker"`
}

// RequestsDelta covers the request counters. Rates are not differenced.
type RequestsDelta struct {
	Total  int64 `json:"total"`
	Lyrics int64 `json:"lyrics"`
	Cache  int64 `json:"cache"`
	Health int64 `json:"health"`
	Stats  int64 `json:"stats"`
	Other  int64 `json:"other"`
}

// CacheDelta covers cache counters; hit rate is not differenced.
type CacheDelta struct {
	Hits         int64 `json:"hits"`
	Misses       int64 `json:"misses"`
	NegativeHits int64 `json:"negative_hits"`
	StaleHits    int64 `json:"stale_hits"`
}

// StorageDelta covers cache storage.
type StorageDelta struct {
	Keys      int64   `json:"keys"`
	StorageMB float64 `json:"storage_mb"`
}

// CircuitBreakerDelta covers breaker failures.
type CircuitBreakerDelta struct {
	Failures int64 `json:"failures"`
}

// Timestamped is implemented by any series element carrying an epoch
// millisecond timestamp.
type Timestamped interface {
	TimestampMillis() int64
}

// HistoricalPoint is a normalized snapshot placed on the timeline.
type HistoricalPoint struct {
	Date      string   `json:"date"`
	Snapshot  Snapshot `json:"snapshot"`
	Timestamp int64    `json:"timestamp"`
}

// TimestampMillis implements Timestamped.
func (p HistoricalPoint) TimestampMillis() int64 { return p.Timestamp }

// DeltaPoint is the change from the previous historical point to this one.
type DeltaPoint struct {
	Date      string        `json:"date"`
	Snapshot  Snapshot      `json:"snapshot"`
	Delta     DeltaSnapshot `json:"delta"`
	Timestamp int64         `json:"timestamp"`
}

// TimestampMillis implements Timestamped.
func (p DeltaPoint) TimestampMillis() int64 { return p.Timestamp }
