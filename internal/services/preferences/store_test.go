package preferences

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

func TestOpen_Missing(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "preferences.json"))
	if got := s.Get(); got != models.DefaultPreferences() {
		t.Errorf("Get() = %+v, want defaults", got)
	}
}

func TestOpen_Existing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Preferences
	}{
		{
			name:    "Full",
			content: `{"viewMode": "delta", "trafficChartType": "scatter", "agentsChartType": "pie", "timeRange": "7d"}`,
			want: models.Preferences{
				ViewMode:     models.ViewModeDelta,
				TrafficChart: models.TrafficChartScatter,
				AgentsChart:  models.AgentsChartPie,
				TimeRange:    models.TimeRange7Days,
			},
		},
		{
			name:    "Partial",
			content: `{"trafficChartType": "bar"}`,
			want: models.Preferences{
				ViewMode:     models.ViewModeTotal,
				TrafficChart: models.TrafficChartBar,
				AgentsChart:  models.AgentsChartBar,
				TimeRange:    models.TimeRange24Hours,
			},
		},
		{
			name:    "UnknownValues",
			content: `{"viewMode": "sideways", "agentsChartType": "donut"}`,
			want:    models.DefaultPreferences(),
		},
		{
			name:    "UnknownTimeRange",
			content: `{"viewMode": "delta", "agentsChartType": "pie", "timeRange": "1y"}`,
			want: models.Preferences{
				ViewMode:     models.ViewModeDelta,
				TrafficChart: models.TrafficChartArea,
				AgentsChart:  models.AgentsChartPie,
				TimeRange:    models.TimeRange24Hours,
			},
		},
		{
			name:    "Corrupt",
			content: `{"viewMode":`,
			want:    models.DefaultPreferences(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "preferences.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if got := Open(path).Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUpdate_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	s := Open(path)

	got, err := s.Update(func(p *models.Preferences) {
		p.ViewMode = p.ViewMode.Toggle()
		p.TimeRange = models.TimeRangeAll
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ViewMode != models.ViewModeDelta || got.TimeRange != models.TimeRangeAll {
		t.Errorf("Update() = %+v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var onDisk map[string]string
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("stored file is not JSON: %v", err)
	}
	if onDisk["timeRange"] != "all" || onDisk["viewMode"] != "delta" {
		t.Errorf("stored = %v", onDisk)
	}

	if reopened := Open(path).Get(); reopened != got {
		t.Errorf("reopened = %+v, want %+v", reopened, got)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the preferences file, found %d entries", len(entries))
	}
}

func TestUpdate_Sanitizes(t *testing.T) {
	s := Open("")
	got, err := s.Update(func(p *models.Preferences) {
		p.TrafficChart = "pie"
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.TrafficChart != models.TrafficChartArea {
		t.Errorf("TrafficChart = %q, want default", got.TrafficChart)
	}
	if s.Path() != "" {
		t.Errorf("Path() = %q", s.Path())
	}
}
