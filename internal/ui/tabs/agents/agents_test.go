package agents

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/app"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/snapshots"
)

func datasetWith(agents ...models.AgentCount) *snapshots.Dataset {
	now := time.Now()
	snap := models.Snapshot{Agents: agents}
	return &snapshots.Dataset{
		FetchedAt: now,
		Latest:    &snap,
		History: []models.HistoricalPoint{
			{Timestamp: now.UnixMilli(), Date: now.Format("Jan 2, 3:04 PM"), Snapshot: snap},
		},
		Rows: 1,
	}
}

func newModel(t *testing.T, agents ...models.AgentCount) (*Model, *app.State) {
	t.Helper()
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	state.SetDataset(datasetWith(agents...), time.Now())

	m := New(state, app.NewCommands(nil))
	m.SetSize(120, 40)
	return m, state
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should not schedule work")
	}
}

func TestView_Empty(t *testing.T) {
	m, _ := newModel(t)
	if view := m.View(); !strings.Contains(view, "No agent traffic") {
		t.Error("no agents should render the placeholder")
	}
}

func TestView_Bar(t *testing.T) {
	m, _ := newModel(t,
		models.AgentCount{Name: "Khalid", FormerNames: []string{"Halsey"}, Requests: 300},
		models.AgentCount{Name: "Mitski", Requests: 100},
	)

	view := m.View()
	for _, want := range []string{"Khalid (formerly Halsey)", "Mitski", "300", "75.0%", "[c] bar", "2 agents"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_Pie(t *testing.T) {
	m, state := newModel(t,
		models.AgentCount{Name: "Khalid", Requests: 300},
		models.AgentCount{Name: "Mitski", Requests: 100},
	)
	prefs := state.Preferences()
	prefs.AgentsChart = models.AgentsChartPie
	state.SetPreferences(prefs, time.Now())

	view := m.View()
	if !strings.Contains(view, "[c] pie") || !strings.Contains(view, "25.0%") {
		t.Errorf("pie view missing shares: %q", view)
	}
}

func TestPieSegments_FoldsTail(t *testing.T) {
	var agents []models.AgentCount
	for i := range 10 {
		agents = append(agents, models.AgentCount{Name: fmt.Sprintf("agent-%d", i), Requests: int64(100 - i)})
	}

	segments := pieSegments(agents, 7)
	if len(segments) != 8 {
		t.Fatalf("got %d segments, want 8", len(segments))
	}
	other := segments[7]
	if other.Label != "Other" || other.Value != 93+92+91 {
		t.Errorf("Other = %+v, want 276", other)
	}

	if got := pieSegments(agents[:3], 7); len(got) != 3 {
		t.Errorf("short list should not add Other, got %d", len(got))
	}
}

func TestUpdateTableData(t *testing.T) {
	m, state := newModel(t,
		models.AgentCount{Name: "Khalid", FormerNames: []string{"Halsey", "Lorde"}, Requests: 300},
		models.AgentCount{Name: "Mitski", Requests: 100},
	)

	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][1] != "Khalid" || rows[0][4] != "Halsey, Lorde" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1][3] != "25.0%" {
		t.Errorf("share = %s, want 25.0%%", rows[1][3])
	}

	m.table.SetCursor(1)
	state.SetDataset(datasetWith(models.AgentCount{Name: "Khalid", Requests: 1}), time.Now())
	m.Update(app.DataChangedMsg{})
	if len(m.table.Rows()) != 1 || m.table.Cursor() != 0 {
		t.Errorf("cursor = %d after shrinking to one row", m.table.Cursor())
	}
}

func TestUpdate_CycleChart(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if cmd == nil {
		t.Fatal("c should request a preference change")
	}
	msg, ok := cmd().(app.UpdatePreferencesMsg)
	if !ok {
		t.Fatal("expected UpdatePreferencesMsg")
	}

	prefs := models.DefaultPreferences()
	msg.Apply(&prefs)
	if prefs.AgentsChart != models.AgentsChartPie {
		t.Errorf("AgentsChart = %s, want pie", prefs.AgentsChart)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer name", 6, "a lon…"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
