// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/analytics"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/config"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/db"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/ingest"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/preferences"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/snapshots"
)

// ErrSyncDisabled is returned by Sync when no stats endpoint is configured.
var ErrSyncDisabled = errors.New("sync disabled: STATS_API_URL is not set")

type (
	// SnapshotsUpdatedEvent is emitted when a fresh dataset has been loaded.
	SnapshotsUpdatedEvent struct {
		Dataset *snapshots.Dataset
	}

	// RefreshingEvent is emitted when a reload starts.
	RefreshingEvent struct{}

	// PreferencesChangedEvent is emitted after preferences are updated.
	PreferencesChangedEvent struct {
		Preferences models.Preferences
	}

	// SyncCompletedEvent is emitted after a manual sync stored a snapshot.
	SyncCompletedEvent struct {
		Result ingest.Result
	}

	// CircuitChangedEvent is emitted when the upstream breaker changes state.
	CircuitChangedEvent struct {
		From models.CircuitState
		To   models.CircuitState
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SnapshotsUpdatedEvent) isServiceEvent()   {}
func (RefreshingEvent) isServiceEvent()         {}
func (PreferencesChangedEvent) isServiceEvent() {}
func (SyncCompletedEvent) isServiceEvent()      {}
func (CircuitChangedEvent) isServiceEvent()     {}
func (ErrorEvent) isServiceEvent()              {}

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	database    *db.DB
	snapshots   *snapshots.Service
	preferences *preferences.Store
	syncer      *ingest.Service
	normalizer  *analytics.Normalizer
	notify      Notifier
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	lastCircuit models.CircuitState
	mu          sync.RWMutex
	syncMu      sync.Mutex
	closeOnce   sync.Once
}

// NewManager opens the database and starts the background services.
func NewManager(cfg *config.Config) (*Manager, error) {
	migrations, err := config.LoadMigrations(cfg.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load account migrations: %w", err)
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := &Manager{
		database:    database,
		preferences: preferences.Open(cfg.PreferencesPath),
		normalizer:  analytics.NewNormalizer(analytics.NewRegistry(migrations)),
		stopChan:    make(chan struct{}),
	}
	if cfg.Notifications {
		m.notify = desktopNotify
	}

	if cfg.StatsAPIURL != "" {
		m.syncer = ingest.New(
			ingest.NewClient(cfg.StatsAPIURL, cfg.StatsAPIKey, nil),
			database,
			ingest.Config{Retention: cfg.Retention()},
		)
	}

	snapConfig := snapshots.DefaultConfig()
	snapConfig.PollInterval = cfg.RefreshInterval
	snapConfig.WatchPath = cfg.DatabasePath

	m.snapshots, err = snapshots.New(database, m.normalizer, snapConfig)
	if err != nil {
		if closeErr := database.Close(); closeErr != nil {
			logger.Error("failed to close database", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to start snapshot service: %w", err)
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.snapshots.Events():
			m.handleSnapshotEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleSnapshotEvent(event snapshots.Event) {
	switch event.Type {
	case snapshots.EventSnapshotsUpdated:
		if event.Dataset != nil && event.Dataset.Latest != nil {
			m.checkCircuit(event.Dataset.Latest.CircuitBreaker.State)
		}
		m.broadcast(SnapshotsUpdatedEvent{Dataset: event.Dataset})

	case snapshots.EventRefreshing:
		m.broadcast(RefreshingEvent{})

	case snapshots.EventError:
		m.broadcast(ErrorEvent{
			Service: "snapshots",
			Error:   event.Error,
		})
	}
}

// checkCircuit notifies when the breaker state differs from the last seen
// one. The first observed state is recorded silently.
func (m *Manager) checkCircuit(state models.CircuitState) {
	m.mu.Lock()
	previous := m.lastCircuit
	m.lastCircuit = state
	notify := m.notify
	m.mu.Unlock()

	if previous == "" || previous == state {
		return
	}

	m.broadcast(CircuitChangedEvent{From: previous, To: state})

	if notify == nil {
		return
	}
	title := fmt.Sprintf("Circuit breaker %s", state.Label())
	body := fmt.Sprintf("State changed from %s to %s", previous, state)
	if err := notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Dataset returns the most recent dataset, or nil before the first load.
func (m *Manager) Dataset() *snapshots.Dataset {
	return m.snapshots.Dataset()
}

// Refresh reloads snapshots now.
func (m *Manager) Refresh(ctx context.Context) (*snapshots.Dataset, error) {
	return m.snapshots.Refresh(ctx)
}

// Preferences returns the current preferences.
func (m *Manager) Preferences() models.Preferences {
	return m.preferences.Get()
}

// UpdatePreferences changes preferences and broadcasts the result. A save
// failure is reported but the new values stay in effect for the session.
func (m *Manager) UpdatePreferences(fn func(*models.Preferences)) models.Preferences {
	prefs, err := m.preferences.Update(fn)
	if err != nil {
		logger.Error("failed to save preferences", "error", err)
		m.broadcast(ErrorEvent{Service: "preferences", Error: err})
	}
	m.broadcast(PreferencesChangedEvent{Preferences: prefs})
	return prefs
}

// CanSync reports whether a stats endpoint is configured.
func (m *Manager) CanSync() bool {
	return m.syncer != nil
}

// Sync pulls one snapshot from the stats endpoint and reloads.
func (m *Manager) Sync(ctx context.Context) (ingest.Result, error) {
	if m.syncer == nil {
		return ingest.Result{}, ErrSyncDisabled
	}

	m.syncMu.Lock()
	defer m.syncMu.Unlock()

	result, err := m.syncer.Sync(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "ingest", Error: err})
		return ingest.Result{}, err
	}
	m.broadcast(SyncCompletedEvent{Result: result})

	if _, err := m.snapshots.Refresh(ctx); err != nil {
		logger.Warn("reload after sync failed", "error", err)
	}
	return result, nil
}

// Normalizer returns the shared normalizer.
func (m *Manager) Normalizer() *analytics.Normalizer {
	return m.normalizer
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.snapshots.Close(); err != nil {
			errs = append(errs, err)
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
