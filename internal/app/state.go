// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/analytics"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/snapshots"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

// LoadingNotificationID is the fixed ID for loading notifications.
const LoadingNotificationID = "__loading__"

const maxNotifications = 10

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// Loading resources.
const (
	ResourceInitial = "initial"
	ResourceRefresh = "refresh"
	ResourceSync    = "sync"
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Refresh bool
	Sync    bool
}

// State is the data shared by all tabs. The derived view is recomputed
// whenever the dataset, the preferences or the clock change.
type State struct {
	LastUpdated time.Time

	dataset *snapshots.Dataset
	view    analytics.DashboardView
	prefs   models.Preferences

	notifications   []Notification
	notificationSeq int

	Loading LoadingState
	mu      sync.RWMutex
}

// NewState creates the initial state with default preferences.
func NewState() *State {
	s := &State{
		prefs:         models.DefaultPreferences(),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
	s.recomputeLocked(time.Now())
	return s
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.Loading.Initial = loading
	case ResourceRefresh:
		s.Loading.Refresh = loading
	case ResourceSync:
		s.Loading.Sync = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Refresh || s.Loading.Sync
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// IsRefreshing reports whether a user-requested reload is in flight.
func (s *State) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Refresh
}

// IsSyncing reports whether a manual sync is in flight.
func (s *State) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Sync
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, ResourceInitial)
	}
	if s.Loading.Refresh {
		resources = append(resources, ResourceRefresh)
	}
	if s.Loading.Sync {
		resources = append(resources, ResourceSync)
	}
	return resources
}

// SetDataset stores a freshly loaded dataset and rebuilds the view.
func (s *State) SetDataset(ds *snapshots.Dataset, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = ds
	s.LastUpdated = now
	s.recomputeLocked(now)
}

// Dataset returns the last loaded dataset, nil before the first load.
func (s *State) Dataset() *snapshots.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// SetPreferences replaces the chart preferences and rebuilds the view.
func (s *State) SetPreferences(prefs models.Preferences, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = prefs.Sanitize()
	s.recomputeLocked(now)
}

// Preferences returns the active chart preferences.
func (s *State) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Recompute slides the time window to now.
func (s *State) Recompute(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked(now)
}

func (s *State) recomputeLocked(now time.Time) {
	var (
		latest  *models.Snapshot
		history []models.HistoricalPoint
	)
	if s.dataset != nil {
		latest = s.dataset.Latest
		history = s.dataset.History
	}
	s.view = analytics.BuildView(latest, history, s.prefs.ViewMode, s.prefs.TimeRange, now)
}

// View returns the range-filtered dashboard view.
func (s *State) View() analytics.DashboardView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	now := time.Now()
	id := now.Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: now,
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *State) removeLocked(id string) {
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(LoadingNotificationID)
}

// GetLastUpdated returns the last time a dataset arrived.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
