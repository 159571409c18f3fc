package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	refreshTimeout = 15 * time.Second
	syncTimeout    = 45 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadDatasetCmd returns the dataset the manager already holds, or loads it.
func loadDatasetCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		if ds := mgr.Dataset(); ds != nil {
			return DatasetLoadedMsg{Dataset: ds}
		}
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		ds, err := mgr.Refresh(ctx)
		return DatasetLoadedMsg{Dataset: ds, Err: err}
	}
}

// refreshCmd forces a reload from the database.
func refreshCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		ds, err := mgr.Refresh(ctx)
		return DatasetLoadedMsg{Dataset: ds, Err: err}
	}
}

// syncCmd pulls one snapshot from the stats endpoint.
func syncCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		result, err := mgr.Sync(ctx)
		return SyncResultMsg{Result: result, Err: err}
	}
}

// updatePreferencesCmd applies and persists a preference change.
func updatePreferencesCmd(mgr *services.Manager, apply func(*models.Preferences)) tea.Cmd {
	return func() tea.Msg {
		return PreferencesChangedMsg{Preferences: mgr.UpdatePreferences(apply)}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(notifType NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     notifType,
			Message:  message,
			Duration: duration,
		}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands exposes the command constructors to the tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// Refresh reloads snapshots, or does nothing without a manager.
func (c *Commands) Refresh() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return refreshCmd(c.manager)
}

// UpdatePreferences returns a message asking the model to change preferences.
func (c *Commands) UpdatePreferences(apply func(*models.Preferences)) tea.Cmd {
	return func() tea.Msg {
		return UpdatePreferencesMsg{Apply: apply}
	}
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}
