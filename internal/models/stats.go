// Package models defines data structures and domain types.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// ErrInvalidStats is returned when a stats payload is not a JSON object.
var ErrInvalidStats = errors.New("invalid stats payload")

// requiredGroups must be present for a payload to be stored.
var requiredGroups = []string{"requests", "responses", "server"}

// RawSnapshotRow is one stored poll of the upstream stats endpoint.
type RawSnapshotRow struct {
	Timestamp string   `json:"timestamp"`
	Data      RawStats `json:"data"`
	ID        int64    `json:"id"`
}

// RawStats mirrors the upstream /stats payload before normalization.
// Durations and the cooldown are still strings here.
type RawStats struct {
	Server         RawServer         `json:"server"`
	ResponseTimes  RawResponseTimes  `json:"response_times"`
	CircuitBreaker RawCircuitBreaker `json:"circuit_breaker"`
	Accounts       AccountCounts     `json:"accounts"`
	Requests       RawRequests       `json:"requests"`
	Cache          RawCache          `json:"cache"`
	CacheStorage   CacheStorage      `json:"cache_storage"`
	Responses      Responses         `json:"responses"`
	RateLimiting   RateLimiting      `json:"rate_limiting"`
}

// RawRequests holds request counters as reported upstream.
type RawRequests struct {
	Total     int64   `json:"total"`
	Lyrics    int64   `json:"lyrics"`
	Cache     int64   `json:"cache"`
	Health    int64   `json:"health"`
	Stats     int64   `json:"stats"`
	Other     int64   `json:"other"`
	PerHour   float64 `json:"per_hour"`
	PerMinute float64 `json:"per_minute"`
}

// Responses counts responses by status class.
type Responses struct {
	Status2xx int64 `json:"2xx"`
	Status4xx int64 `json:"4xx"`
	Status5xx int64 `json:"5xx"`
}

// RawCache holds cache counters as reported upstream.
type RawCache struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	NegativeHits int64   `json:"negative_hits"`
	StaleHits    int64   `json:"stale_hits"`
	HitRate      float64 `json:"hit_rate"`
}

// CacheStorage describes the size of the lyrics cache.
type CacheStorage struct {
	Keys   int64   `json:"keys"`
	SizeKB float64 `json:"size_kb"`
	SizeMB float64 `json:"size_mb"`
}

// RawCircuitBreaker holds breaker state with the cooldown as text, e.g. "12.5s".
type RawCircuitBreaker struct {
	State             CircuitState `json:"state"`
	CooldownRemaining string       `json:"cooldown_remaining"`
	Failures          int64        `json:"failures"`
}

// RateLimiting counts requests per rate limit tier.
type RateLimiting struct {
	NormalTier int64 `json:"normal_tier"`
	CachedTier int64 `json:"cached_tier"`
	Exceeded   int64 `json:"exceeded"`
}

// RawServer describes the upstream process.
type RawServer struct {
	StartTime     string  `json:"start_time"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// RawResponseTimes holds latency figures as duration strings, e.g. "1.2ms".
type RawResponseTimes struct {
	Avg       string `json:"avg"`
	AvgLyrics string `json:"avg_lyrics"`
	Max       string `json:"max"`
	Min       string `json:"min"`
}

// ValidateRawStats reports whether data is a stats object carrying the
// groups the dashboard depends on.
func ValidateRawStats(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidStats)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("%w: expected object, got %s", ErrInvalidStats, root.Type)
	}
	for _, group := range requiredGroups {
		if !root.Get(group).IsObject() {
			return fmt.Errorf("%w: missing %q", ErrInvalidStats, group)
		}
	}
	return nil
}

// ParseRawStats decodes a stats payload. Numbers are read leniently
// (numeric strings are accepted) and missing fields default to zero.
// Account order follows the document.
func ParseRawStats(data []byte) (RawStats, error) {
	if !gjson.ValidBytes(data) {
		return RawStats{}, fmt.Errorf("%w: malformed JSON", ErrInvalidStats)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return RawStats{}, fmt.Errorf("%w: expected object, got %s", ErrInvalidStats, root.Type)
	}

	req := root.Get("requests")
	resp := root.Get("responses")
	cache := root.Get("cache")
	storage := root.Get("cache_storage")
	cb := root.Get("circuit_breaker")
	rl := root.Get("rate_limiting")
	server := root.Get("server")
	rt := root.Get("response_times")

	stats := RawStats{
		Requests: RawRequests{
			Total:     req.Get("total").Int(),
			Lyrics:    req.Get("lyrics").Int(),
			Cache:     req.Get("cache").Int(),
			Health:    req.Get("health").Int(),
			Stats:     req.Get("stats").Int(),
			Other:     req.Get("other").Int(),
			PerHour:   req.Get("per_hour").Float(),
			PerMinute: req.Get("per_minute").Float(),
		},
		Responses: Responses{
			Status2xx: resp.Get("2xx").Int(),
			Status4xx: resp.Get("4xx").Int(),
			Status5xx: resp.Get("5xx").Int(),
		},
		Cache: RawCache{
			Hits:         cache.Get("hits").Int(),
			Misses:       cache.Get("misses").Int(),
			NegativeHits: cache.Get("negative_hits").Int(),
			StaleHits:    cache.Get("stale_hits").Int(),
			HitRate:      cache.Get("hit_rate").Float(),
		},
		CacheStorage: CacheStorage{
			Keys:   storage.Get("keys").Int(),
			SizeKB: storage.Get("size_kb").Float(),
			SizeMB: storage.Get("size_mb").Float(),
		},
		CircuitBreaker: RawCircuitBreaker{
			State:             CircuitState(cb.Get("state").String()),
			CooldownRemaining: cb.Get("cooldown_remaining").String(),
			Failures:          cb.Get("failures").Int(),
		},
		RateLimiting: RateLimiting{
			NormalTier: rl.Get("normal_tier").Int(),
			CachedTier: rl.Get("cached_tier").Int(),
			Exceeded:   rl.Get("exceeded").Int(),
		},
		Server: RawServer{
			StartTime:     server.Get("start_time").String(),
			Uptime:        server.Get("uptime").String(),
			UptimeSeconds: server.Get("uptime_seconds").Float(),
		},
		ResponseTimes: RawResponseTimes{
			Avg:       rt.Get("avg").String(),
			AvgLyrics: rt.Get("avg_lyrics").String(),
			Max:       rt.Get("max").String(),
			Min:       rt.Get("min").String(),
		},
	}

	root.Get("accounts").ForEach(func(key, value gjson.Result) bool {
		stats.Accounts = append(stats.Accounts, AccountCount{
			Name:     key.String(),
			Requests: value.Int(),
		})
		return true
	})

	return stats, nil
}

// UnmarshalJSON implements json.Unmarshaler using ParseRawStats.
func (s *RawStats) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRawStats(data)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// timestampFormats lists layouts seen in stored rows, most common first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 +0000 UTC",
}

// ParseTimestamp parses a stored row timestamp. Layouts without a zone are
// read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON keeps accounts in their stored order.
func (c AccountCounts) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, a := range c {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = fmt.Appendf(buf, "%d", a.Requests)
	}
	return append(buf, '}'), nil
}
