package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services"
)

func TestCommands_Tick(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.Tick(time.Millisecond) == nil {
		t.Error("Tick returned nil")
	}
	if cmds.DefaultTick() == nil {
		t.Error("DefaultTick returned nil")
	}
}

func TestCommands_Notifications(t *testing.T) {
	cmds := NewCommands(nil)

	tests := []struct {
		name     string
		fn       func(string) tea.Cmd
		want     NotificationType
		duration time.Duration
	}{
		{"Success", cmds.NotifySuccess, NotificationSuccess, DefaultNotificationDuration},
		{"Error", cmds.NotifyError, NotificationError, LongNotificationDuration},
		{"Warning", cmds.NotifyWarning, NotificationWarning, DefaultNotificationDuration},
		{"Info", cmds.NotifyInfo, NotificationInfo, QuickNotificationDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("msg")()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration != tt.duration {
				t.Errorf("Duration = %v, want %v", addMsg.Duration, tt.duration)
			}
		})
	}
}

func TestCommands_ClearNotification(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.ClearNotification("id", time.Millisecond) == nil {
		t.Error("ClearNotification returned nil")
	}
}

func TestCommands_RefreshWithoutManager(t *testing.T) {
	if cmd := NewCommands(nil).Refresh(); cmd != nil {
		t.Error("Refresh without a manager should be a no-op")
	}
}

func TestCommands_UpdatePreferences(t *testing.T) {
	cmd := NewCommands(nil).UpdatePreferences(func(p *models.Preferences) {
		p.ViewMode = models.ViewModeDelta
	})
	msg, ok := cmd().(UpdatePreferencesMsg)
	if !ok {
		t.Fatalf("Expected UpdatePreferencesMsg, got %T", cmd())
	}

	prefs := models.DefaultPreferences()
	msg.Apply(&prefs)
	if prefs.ViewMode != models.ViewModeDelta {
		t.Errorf("ViewMode = %q, want delta", prefs.ViewMode)
	}
}

func TestWaitForServiceEventCmd(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.RefreshingEvent{}

	msg, ok := waitForServiceEventCmd(ch)().(ServiceEventMsg)
	if !ok {
		t.Fatal("expected ServiceEventMsg")
	}
	if _, ok := msg.Event.(services.RefreshingEvent); !ok {
		t.Errorf("Event = %T", msg.Event)
	}

	close(ch)
	if got := waitForServiceEventCmd(ch)(); got != nil {
		t.Errorf("closed channel should yield nil, got %T", got)
	}
}
