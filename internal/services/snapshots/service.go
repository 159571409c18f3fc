// Package snapshots loads stored stats rows and keeps a normalized dataset fresh.
package snapshots

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/analytics"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

// ErrClosed is returned by Refresh after Close.
var ErrClosed = errors.New("snapshot service closed")

// Store is the read side of the snapshot database.
type Store interface {
	Snapshots(ctx context.Context) ([]models.RawSnapshotRow, error)
}

// Dataset is the normalized view of every stored row.
type Dataset struct {
	FetchedAt time.Time
	Latest    *models.Snapshot
	History   []models.HistoricalPoint
	Rows      int
	Skipped   int
}

// Event represents a snapshot service event.
type Event struct {
	Error   error
	Dataset *Dataset
	Type    EventType
}

// EventType defines the type of snapshot event.
type EventType int

const (
	// EventSnapshotsUpdated indicates a fresh dataset is available.
	EventSnapshotsUpdated EventType = iota
	// EventRefreshing indicates a reload is in progress.
	EventRefreshing
	// EventError indicates a reload failed.
	EventError
)

// Config holds configuration for the snapshot service.
type Config struct {
	// WatchPath is the database file. Writes to it or its WAL trigger a
	// reload. Empty disables watching.
	WatchPath    string
	Location     *time.Location
	PollInterval time.Duration
	QueryTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		QueryTimeout: 10 * time.Second,
		Location:     time.Local,
	}
}

const debounceInterval = 250 * time.Millisecond

// Service polls the store and publishes datasets.
type Service struct {
	store         Store
	normalizer    *analytics.Normalizer
	dataset       *Dataset
	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer
	eventChan     chan Event
	stopChan      chan struct{}
	config        Config
	mu            sync.RWMutex
	refreshMu     sync.Mutex
	closeOnce     sync.Once
}

// New creates a snapshot service and starts polling.
func New(store Store, normalizer *analytics.Normalizer, config Config) (*Service, error) {
	defaults := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = defaults.QueryTimeout
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if normalizer == nil {
		normalizer = analytics.NewNormalizer(nil)
	}

	s := &Service{
		store:      store,
		normalizer: normalizer,
		eventChan:  make(chan Event, 100),
		stopChan:   make(chan struct{}),
		config:     config,
	}

	if config.WatchPath != "" {
		if err := s.startWatcher(); err != nil {
			logger.Warn("database watcher unavailable, relying on polling", "path", config.WatchPath, "error", err)
		}
	}

	go s.pollSnapshots()

	return s, nil
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Dataset returns the last loaded dataset, or nil before the first load.
func (s *Service) Dataset() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Normalizer returns the normalizer used to build datasets.
func (s *Service) Normalizer() *analytics.Normalizer {
	return s.normalizer
}

// Refresh reloads every row from the store and publishes the result.
func (s *Service) Refresh(ctx context.Context) (*Dataset, error) {
	select {
	case <-s.stopChan:
		return nil, ErrClosed
	default:
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.sendEvent(Event{Type: EventRefreshing})

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	rows, err := s.store.Snapshots(ctx)
	if err != nil {
		logger.Error("failed to load snapshots", "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return nil, err
	}

	dataset := s.build(rows)
	if dataset.Skipped > 0 {
		logger.Warn("skipped rows with unreadable timestamps", "count", dataset.Skipped)
	}

	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventSnapshotsUpdated, Dataset: dataset})
	return dataset, nil
}

func (s *Service) build(rows []models.RawSnapshotRow) *Dataset {
	history, skipped := s.normalizer.BuildHistory(rows, s.config.Location)
	dataset := &Dataset{
		FetchedAt: time.Now(),
		History:   history,
		Rows:      len(rows),
		Skipped:   skipped,
	}

	switch {
	case len(history) > 0:
		latest := history[len(history)-1].Snapshot
		dataset.Latest = &latest
	case len(rows) > 0:
		latest := s.normalizer.Normalize(rows[len(rows)-1])
		dataset.Latest = &latest
	}
	return dataset
}

// pollSnapshots runs the background polling goroutine.
func (s *Service) pollSnapshots() {
	s.refreshLogged()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshLogged()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) refreshLogged() {
	if _, err := s.Refresh(context.Background()); err != nil && !errors.Is(err, ErrClosed) {
		logger.Debug("snapshot refresh failed", "error", err)
	}
}

// startWatcher watches the database directory so that inserts made by
// another process show up before the next poll.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(s.config.WatchPath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}
	s.watcher = watcher

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	base := filepath.Base(s.config.WatchPath)
	wal := base + "-wal"

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if name != base && name != wal {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.refreshLogged)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops polling and the watcher.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
