package app

import (
	"testing"
	"time"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/snapshots"
)

// testDataset returns two points one hour apart ending at now, plus one
// point from last week.
func testDataset(now time.Time) *snapshots.Dataset {
	point := func(at time.Time, total, agent int64) models.HistoricalPoint {
		return models.HistoricalPoint{
			Timestamp: at.UnixMilli(),
			Date:      at.Format("Jan 2, 3:04 PM"),
			Snapshot: models.Snapshot{
				Requests: models.Requests{Total: total},
				Agents:   []models.AgentCount{{Name: "Khalid", Requests: agent}},
				CircuitBreaker: models.CircuitBreaker{
					State: models.CircuitClosed,
				},
			},
		}
	}
	history := []models.HistoricalPoint{
		point(now.Add(-7*24*time.Hour), 10, 5),
		point(now.Add(-time.Hour), 100, 60),
		point(now, 150, 80),
	}
	latest := history[len(history)-1].Snapshot
	return &snapshots.Dataset{
		FetchedAt: now,
		Latest:    &latest,
		History:   history,
		Rows:      len(history),
	}
}

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if !s.Loading.Initial {
		t.Error("Initial loading should be true")
	}
	if s.Preferences() != models.DefaultPreferences() {
		t.Errorf("Preferences() = %+v, want defaults", s.Preferences())
	}
	if s.View().HasData() {
		t.Error("View should be empty before the first dataset")
	}
	if s.Dataset() != nil {
		t.Error("Dataset should be nil")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading(ResourceSync, true)
	if !s.IsSyncing() {
		t.Error("IsSyncing should be true")
	}

	s.SetLoading(ResourceSync, false)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading(ResourceInitial, false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if resources := s.GetLoadingResources(); len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading(ResourceRefresh, true)
	if !s.IsRefreshing() {
		t.Error("IsRefreshing should be true")
	}
	resources := s.GetLoadingResources()
	if len(resources) != 1 || resources[0] != ResourceRefresh {
		t.Errorf("GetLoadingResources = %v, want [refresh]", resources)
	}

	// Unknown resources are ignored.
	s.SetLoading("snapshots", true)
	if len(s.GetLoadingResources()) != 1 {
		t.Error("unknown resource should not be tracked")
	}
}

func TestState_SetDataset(t *testing.T) {
	now := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	s := NewState()
	ds := testDataset(now)

	s.SetDataset(ds, now)

	if s.Dataset() != ds {
		t.Error("Dataset() should return the stored dataset")
	}
	if !s.GetLastUpdated().Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", s.GetLastUpdated(), now)
	}

	view := s.View()
	if !view.HasData() || view.Latest.Requests.Total != 150 {
		t.Fatalf("View().Latest = %+v", view.Latest)
	}
	// The default 24h range drops last week's point.
	if len(view.History) != 2 {
		t.Errorf("len(History) = %d, want 2", len(view.History))
	}
}

func TestState_SetPreferences(t *testing.T) {
	now := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	s := NewState()
	s.SetDataset(testDataset(now), now)

	prefs := models.DefaultPreferences()
	prefs.ViewMode = models.ViewModeDelta
	prefs.TimeRange = models.TimeRangeAll
	s.SetPreferences(prefs, now)

	view := s.View()
	if !view.ShowDeltas() {
		t.Error("view should show deltas")
	}
	if len(view.History) != 3 {
		t.Errorf("len(History) = %d, want 3 for all time", len(view.History))
	}
	if view.DeltaSum.Requests.Total != 140 {
		t.Errorf("DeltaSum.Requests.Total = %d, want 140", view.DeltaSum.Requests.Total)
	}

	// Unknown values fall back to defaults.
	s.SetPreferences(models.Preferences{ViewMode: "sideways"}, now)
	if got := s.Preferences(); got != models.DefaultPreferences() {
		t.Errorf("Preferences() = %+v, want defaults", got)
	}
}

func TestState_Recompute(t *testing.T) {
	now := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	s := NewState()
	s.SetDataset(testDataset(now), now)

	s.Recompute(now.Add(48 * time.Hour))
	if got := len(s.View().History); got != 0 {
		t.Errorf("len(History) = %d, want 0 once the window moved past the data", got)
	}
	if !s.View().HasData() {
		t.Error("Latest should survive an empty window")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, "n", 0)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("len = %d, want %d", got, maxNotifications)
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	s.notifications = append(s.notifications,
		Notification{ID: "expired", CreatedAt: time.Now().Add(-2 * time.Minute), Duration: time.Minute},
		Notification{ID: "active", CreatedAt: time.Now(), Duration: time.Minute},
	)

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 || notifs[0].ID != LoadingNotificationID {
		t.Fatalf("notifications = %+v", notifs)
	}

	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 || notifs[0].Message != "still loading..." {
		t.Errorf("notifications = %+v", notifs)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestState_TimeSinceUpdate(t *testing.T) {
	s := NewState()
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before any update")
	}
	s.SetDataset(nil, time.Now().Add(-time.Minute))
	if s.TimeSinceUpdate() < time.Minute {
		t.Errorf("TimeSinceUpdate = %v", s.TimeSinceUpdate())
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
