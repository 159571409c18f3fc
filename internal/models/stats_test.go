package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

const samplePayload = `{
	"accounts": {"Zed": 4, "Halsey": 10, "Khalid": 5},
	"cache": {"hit_rate": 81.5, "hits": 120, "misses": 30, "negative_hits": 2, "stale_hits": 1},
	"cache_storage": {"keys": 400, "size_kb": 2048, "size_mb": 2},
	"circuit_breaker": {"cooldown_remaining": "12.5s", "failures": 3, "state": "HALF_OPEN"},
	"rate_limiting": {"cached_tier": 7, "exceeded": 1, "normal_tier": 90},
	"requests": {"cache": 5, "health": 6, "lyrics": 100, "other": "3", "per_hour": 1, "per_minute": 0.1, "stats": 2, "total": 116},
	"response_times": {"avg": "1.2ms", "avg_lyrics": "3.4ms", "max": "1m2s", "min": "450µs"},
	"responses": {"2xx": 110, "4xx": 5, "5xx": 1},
	"server": {"start_time": "2024-11-01T00:00:00Z", "uptime": "1h0m0s", "uptime_seconds": 3600}
}`

func TestParseRawStats(t *testing.T) {
	stats, err := ParseRawStats([]byte(samplePayload))
	if err != nil {
		t.Fatalf("ParseRawStats() error = %v", err)
	}

	if stats.Requests.Total != 116 {
		t.Errorf("Requests.Total = %d, want 116", stats.Requests.Total)
	}
	if stats.Requests.Other != 3 {
		t.Errorf("Requests.Other = %d, want 3 (numeric string)", stats.Requests.Other)
	}
	if stats.Responses.Status2xx != 110 || stats.Responses.Status5xx != 1 {
		t.Errorf("Responses = %+v", stats.Responses)
	}
	if stats.CacheStorage.SizeMB != 2 || stats.CacheStorage.Keys != 400 {
		t.Errorf("CacheStorage = %+v", stats.CacheStorage)
	}
	if stats.CircuitBreaker.State != CircuitHalfOpen || stats.CircuitBreaker.CooldownRemaining != "12.5s" {
		t.Errorf("CircuitBreaker = %+v", stats.CircuitBreaker)
	}
	if stats.ResponseTimes.Min != "450µs" {
		t.Errorf("ResponseTimes.Min = %q", stats.ResponseTimes.Min)
	}
	if stats.Server.UptimeSeconds != 3600 {
		t.Errorf("Server.UptimeSeconds = %v", stats.Server.UptimeSeconds)
	}

	wantOrder := []string{"Zed", "Halsey", "Khalid"}
	if len(stats.Accounts) != len(wantOrder) {
		t.Fatalf("len(Accounts) = %d, want %d", len(stats.Accounts), len(wantOrder))
	}
	for i, name := range wantOrder {
		if stats.Accounts[i].Name != name {
			t.Errorf("Accounts[%d] = %q, want %q", i, stats.Accounts[i].Name, name)
		}
	}
}

func TestParseRawStats_Missing(t *testing.T) {
	stats, err := ParseRawStats([]byte(`{"requests": {"total": 9}}`))
	if err != nil {
		t.Fatalf("ParseRawStats() error = %v", err)
	}
	if stats.Requests.Total != 9 || stats.Server.UptimeSeconds != 0 || stats.Accounts != nil {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestParseRawStats_Invalid(t *testing.T) {
	for _, in := range []string{``, `not json`, `[1,2]`, `"str"`} {
		if _, err := ParseRawStats([]byte(in)); !errors.Is(err, ErrInvalidStats) {
			t.Errorf("ParseRawStats(%q) error = %v, want ErrInvalidStats", in, err)
		}
	}
}

func TestValidateRawStats(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"Valid", samplePayload, false},
		{"MissingServer", `{"requests": {}, "responses": {}}`, true},
		{"GroupNotObject", `{"requests": 1, "responses": {}, "server": {}}`, true},
		{"Array", `[]`, true},
		{"Malformed", `{"requests":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRawStats([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRawStats() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRawSnapshotRow_JSON(t *testing.T) {
	row := RawSnapshotRow{ID: 7, Timestamp: "2024-11-01T00:00:00Z"}
	row.Data.Accounts = AccountCounts{{"b", 2}, {"a", 1}}
	row.Data.Requests.Total = 3

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got RawSnapshotRow
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.ID != 7 || got.Data.Requests.Total != 3 {
		t.Errorf("round trip = %+v", got)
	}
	if len(got.Data.Accounts) != 2 || got.Data.Accounts[0].Name != "b" {
		t.Errorf("accounts order lost: %+v", got.Data.Accounts)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 11, 1, 12, 30, 0, 0, time.UTC)
	tests := []string{
		"2024-11-01T12:30:00Z",
		"2024-11-01T12:30:00.000000+00:00",
		"2024-11-01 12:30:00+00",
		"2024-11-01 14:30:00.000+02:00",
		"2024-11-01 12:30:00",
		"2024-11-01T12:30:00",
		"2024-11-01 12:30:00 +0000 UTC",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := ParseTimestamp(in)
			if err != nil {
				t.Fatalf("ParseTimestamp() error = %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got, want)
			}
		})
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error for unrecognized timestamp")
	}
}

func TestCircuitState_Label(t *testing.T) {
	tests := []struct {
		state CircuitState
		want  string
	}{
		{CircuitClosed, "Healthy"},
		{CircuitOpen, "Tripped"},
		{CircuitHalfOpen, "Recovering"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.Label(); got != tt.want {
			t.Errorf("%q.Label() = %q, want %q", tt.state, got, tt.want)
		}
	}
	if !CircuitClosed.IsHealthy() || CircuitOpen.IsHealthy() {
		t.Error("IsHealthy() mismatch")
	}
}
