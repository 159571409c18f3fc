package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// Fetcher returns one raw stats payload.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Store is the write side of the snapshot database.
type Store interface {
	InsertSnapshot(ctx context.Context, ts time.Time, payload []byte) (int64, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config holds configuration for the sync service.
type Config struct {
	// Interval between syncs in Run. Zero runs a single sync.
	Interval time.Duration
	// Retention prunes rows older than this after each insert. Zero keeps all.
	Retention time.Duration
	Attempts  int
	Backoff   time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Attempts: 3,
		Backoff:  500 * time.Millisecond,
	}
}

// Result describes one completed sync.
type Result struct {
	Timestamp time.Time
	ID        int64
	Pruned    int64
}

// Service copies upstream stats into the store.
type Service struct {
	fetcher Fetcher
	store   Store
	now     func() time.Time
	config  Config
}

// New creates a sync service.
func New(fetcher Fetcher, store Store, config Config) *Service {
	defaults := DefaultConfig()
	if config.Attempts <= 0 {
		config.Attempts = defaults.Attempts
	}
	if config.Backoff <= 0 {
		config.Backoff = defaults.Backoff
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
		config:  config,
	}
}

// Sync fetches one payload, stores it and applies retention.
func (s *Service) Sync(ctx context.Context) (Result, error) {
	payload, err := s.fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	ts := s.now().UTC()
	id, err := s.store.InsertSnapshot(ctx, ts, payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to store snapshot: %w", err)
	}
	result := Result{Timestamp: ts, ID: id}

	if s.config.Retention > 0 {
		pruned, err := s.store.PruneBefore(ctx, ts.Add(-s.config.Retention))
		if err != nil {
			// The insert already succeeded.
			logger.Warn("failed to prune old snapshots", "error", err)
		}
		result.Pruned = pruned
	}

	logger.Info("synced stats snapshot", "id", id, "pruned", result.Pruned)
	return result, nil
}

// fetch retries transient failures with exponential backoff. Invalid
// payloads are not retried.
func (s *Service) fetch(ctx context.Context) ([]byte, error) {
	var (
		payload []byte
		err     error
	)
	backoff := s.config.Backoff
	for i := range s.config.Attempts {
		payload, err = s.fetcher.Fetch(ctx)
		if err == nil {
			return payload, nil
		}
		if errors.Is(err, models.ErrInvalidStats) || errors.Is(err, ErrNoEndpoint) {
			return nil, err
		}

		if i < s.config.Attempts-1 {
			logger.Debug("stats fetch failed, retrying", "attempt", i+1, "error", err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("failed to fetch stats after %d attempts: %w", s.config.Attempts, err)
}

// Run syncs immediately and then every Interval until ctx is done. Failed
// syncs are reported to onResult and do not stop the loop. With a zero
// Interval it returns the single sync's error.
func (s *Service) Run(ctx context.Context, onResult func(Result, error)) error {
	report := func(r Result, err error) {
		if err != nil {
			logger.Error("sync failed", "error", err)
		}
		if onResult != nil {
			onResult(r, err)
		}
	}

	result, err := s.Sync(ctx)
	report(result, err)
	if s.config.Interval <= 0 {
		return err
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result, err := s.Sync(ctx)
			report(result, err)
		case <-ctx.Done():
			return nil
		}
	}
}
