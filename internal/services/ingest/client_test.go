package ingest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

const validPayload = `{"requests": {"total": 5}, "responses": {"2xx": 5}, "server": {"uptime_seconds": 10}, "accounts": {"Khalid": 2}}`

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func TestClient_Fetch(t *testing.T) {
	var gotAuth, gotMethod, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, validPayload)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-key", srv.Client())
	body, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != validPayload {
		t.Errorf("Fetch() body = %s", body)
	}
	if gotAuth != "secret-key" {
		t.Errorf("Authorization = %q, want raw key", gotAuth)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s", gotMethod)
	}
	if !strings.HasPrefix(gotAgent, "ttml-stats-dashboard-tui/") {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestClient_Fetch_NoKey(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_, _ = io.WriteString(w, validPayload)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "", nil).Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if sawAuth {
		t.Error("Authorization header should be omitted without a key")
	}
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		transport http.RoundTripper
		wantIs    error
	}{
		{
			name:   "NoEndpoint",
			url:    "",
			wantIs: ErrNoEndpoint,
		},
		{
			name: "HTTPError",
			url:  "http://stats.invalid/stats",
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return nil, errors.New("net error")
				},
			},
		},
		{
			name: "StatusError",
			url:  "http://stats.invalid/stats",
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: 401, Body: io.NopCloser(strings.NewReader("Unauthorized"))}, nil
				},
			},
		},
		{
			name: "InvalidPayload",
			url:  "http://stats.invalid/stats",
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(`{"error": "nope"}`))}, nil
				},
			},
			wantIs: models.ErrInvalidStats,
		},
		{
			name: "MalformedJSON",
			url:  "http://stats.invalid/stats",
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("invalid json"))}, nil
				},
			},
			wantIs: models.ErrInvalidStats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.url, "k", &http.Client{Transport: tt.transport})
			_, err := client.Fetch(context.Background())
			if err == nil {
				t.Fatal("Fetch() expected error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.wantIs)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("truncate() = %q", got)
	}
}
