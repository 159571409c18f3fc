package app

import (
	"time"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/ingest"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/snapshots"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// DatasetLoadedMsg carries the result of a snapshot reload.
type DatasetLoadedMsg struct {
	Dataset *snapshots.Dataset
	Err     error
}

// SyncResultMsg carries the result of a manual sync.
type SyncResultMsg struct {
	Err    error
	Result ingest.Result
}

// UpdatePreferencesMsg asks the model to change and persist preferences.
type UpdatePreferencesMsg struct {
	Apply func(*models.Preferences)
}

// PreferencesChangedMsg carries the preferences now in effect.
type PreferencesChangedMsg struct {
	Preferences models.Preferences
}

// DataChangedMsg tells tabs that State.View() has changed.
type DataChangedMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg drops notifications past their duration.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg hands the model its event channel.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
