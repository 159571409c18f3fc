package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

type fakeFetcher struct {
	errs    []error
	payload []byte
	calls   int
	mu      sync.Mutex
}

func (f *fakeFetcher) Fetch(_ context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.payload, nil
}

type fakeStore struct {
	pruneErr  error
	inserted  []time.Time
	cutoffs   []time.Time
	pruneRows int64
	mu        sync.Mutex
}

func (s *fakeStore) InsertSnapshot(_ context.Context, ts time.Time, payload []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := models.ValidateRawStats(payload); err != nil {
		return 0, err
	}
	s.inserted = append(s.inserted, ts)
	return int64(len(s.inserted)), nil
}

func (s *fakeStore) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.pruneRows, s.pruneErr
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserted)
}

var fixedNow = time.Date(2024, 11, 5, 8, 0, 0, 0, time.UTC)

func newTestService(f Fetcher, s Store, cfg Config) *Service {
	cfg.Backoff = time.Millisecond
	svc := New(f, s, cfg)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestSync(t *testing.T) {
	store := &fakeStore{pruneRows: 4}
	svc := newTestService(&fakeFetcher{payload: []byte(validPayload)}, store, Config{Retention: 48 * time.Hour})

	result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.ID != 1 || !result.Timestamp.Equal(fixedNow) || result.Pruned != 4 {
		t.Errorf("Sync() = %+v", result)
	}
	if len(store.cutoffs) != 1 || !store.cutoffs[0].Equal(fixedNow.Add(-48*time.Hour)) {
		t.Errorf("prune cutoffs = %v", store.cutoffs)
	}
}

func TestSync_NoRetention(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeFetcher{payload: []byte(validPayload)}, store, Config{})

	if _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(store.cutoffs) != 0 {
		t.Error("PruneBefore should not run without retention")
	}
}

func TestSync_PruneFailureKeepsInsert(t *testing.T) {
	store := &fakeStore{pruneErr: errors.New("locked")}
	svc := newTestService(&fakeFetcher{payload: []byte(validPayload)}, store, Config{Retention: time.Hour})

	result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.ID != 1 || store.count() != 1 {
		t.Errorf("insert should survive a prune failure: %+v", result)
	}
}

func TestSync_Retry(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"RecoversOnSecondAttempt", []error{errors.New("reset"), nil}, 2, false},
		{"GivesUp", []error{errors.New("a"), errors.New("b"), errors.New("c")}, 3, true},
		{"InvalidNotRetried", []error{models.ErrInvalidStats}, 1, true},
		{"NoEndpointNotRetried", []error{ErrNoEndpoint}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{payload: []byte(validPayload), errs: tt.errs}
			svc := newTestService(fetcher, &fakeStore{}, Config{})

			_, err := svc.Sync(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Sync() error = %v, wantErr %v", err, tt.wantErr)
			}
			if fetcher.calls != tt.wantCalls {
				t.Errorf("Fetch calls = %d, want %d", fetcher.calls, tt.wantCalls)
			}
		})
	}
}

func TestRun_Once(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeFetcher{payload: []byte(validPayload)}, store, Config{})

	var reports int
	if err := svc.Run(context.Background(), func(Result, error) { reports++ }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if reports != 1 || store.count() != 1 {
		t.Errorf("reports = %d, inserted = %d", reports, store.count())
	}

	failing := newTestService(&fakeFetcher{errs: []error{ErrNoEndpoint}}, store, Config{})
	if err := failing.Run(context.Background(), nil); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("Run() error = %v, want ErrNoEndpoint", err)
	}
}

func TestRun_Interval(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeFetcher{payload: []byte(validPayload)}, store, Config{Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var (
		mu      sync.Mutex
		reports int
	)
	go func() {
		done <- svc.Run(ctx, func(Result, error) {
			mu.Lock()
			reports++
			if reports == 3 {
				cancel()
			}
			mu.Unlock()
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancel", err)
		}
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("Run() did not stop after cancel")
	}
	if store.count() < 3 {
		t.Errorf("inserted = %d, want at least 3", store.count())
	}
}
