package models

import "fmt"

// TimeRange represents the trailing window applied to charts. The zero
// value is unset and sanitizes to the default.
type TimeRange int

const (
	// TimeRange6Hours shows data from the last 6 hours.
	TimeRange6Hours TimeRange = iota + 1
	// TimeRange12Hours shows data from the last 12 hours.
	TimeRange12Hours
	// TimeRange24Hours shows data from the last 24 hours.
	TimeRange24Hours
	// TimeRange7Days shows data from the last 7 days.
	TimeRange7Days
	// TimeRange30Days shows data from the last 30 days.
	TimeRange30Days
	// TimeRangeAll shows all available data.
	TimeRangeAll

	timeRangeCount
)

var timeRangeKeys = [...]string{"6h", "12h", "24h", "7d", "30d", "all"}

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange6Hours:
		return "6 Hours"
	case TimeRange12Hours:
		return "12 Hours"
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRangeAll:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is a known range.
func (t TimeRange) Valid() bool {
	return t >= TimeRange6Hours && t < timeRangeCount
}

// Key returns the short form used in preferences, e.g. "24h".
func (t TimeRange) Key() string {
	if !t.Valid() {
		return ""
	}
	return timeRangeKeys[t-TimeRange6Hours]
}

// Hours returns the window length (0 = unlimited).
func (t TimeRange) Hours() int {
	switch t {
	case TimeRange6Hours:
		return 6
	case TimeRange12Hours:
		return 12
	case TimeRange24Hours:
		return 24
	case TimeRange7Days:
		return 24 * 7
	case TimeRange30Days:
		return 24 * 30
	default:
		return 0
	}
}

// Bounded reports whether the range limits the series.
func (t TimeRange) Bounded() bool {
	return t.Hours() > 0
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	if !t.Valid() || t+1 == timeRangeCount {
		return TimeRange6Hours
	}
	return t + 1
}

// ParseTimeRange parses a short key such as "7d".
func ParseTimeRange(s string) (TimeRange, error) {
	for i, key := range timeRangeKeys {
		if key == s {
			return TimeRange6Hours + TimeRange(i), nil
		}
	}
	return TimeRange24Hours, fmt.Errorf("unknown time range %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeRange) MarshalText() ([]byte, error) {
	key := t.Key()
	if key == "" {
		return nil, fmt.Errorf("unknown time range %d", int(t))
	}
	return []byte(key), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown keys decode to
// the unset value so the rest of a preferences file still loads.
func (t *TimeRange) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeRange(string(b))
	if err != nil {
		*t = 0
		return nil
	}
	*t = parsed
	return nil
}

// ViewMode selects absolute totals or interval deltas.
type ViewMode string

const (
	ViewModeTotal ViewMode = "total"
	ViewModeDelta ViewMode = "delta"
)

// Toggle flips between total and delta.
func (v ViewMode) Toggle() ViewMode {
	if v == ViewModeDelta {
		return ViewModeTotal
	}
	return ViewModeDelta
}

// Valid reports whether v is a known mode.
func (v ViewMode) Valid() bool {
	return v == ViewModeTotal || v == ViewModeDelta
}

// String returns the display name.
func (v ViewMode) String() string {
	if v == ViewModeDelta {
		return "Delta"
	}
	return "Total"
}

// TrafficChartType is the traffic chart style.
type TrafficChartType string

const (
	TrafficChartArea    TrafficChartType = "area"
	TrafficChartBar     TrafficChartType = "bar"
	TrafficChartScatter TrafficChartType = "scatter"
)

// Next cycles the chart style.
func (c TrafficChartType) Next() TrafficChartType {
	switch c {
	case TrafficChartArea:
		return TrafficChartBar
	case TrafficChartBar:
		return TrafficChartScatter
	default:
		return TrafficChartArea
	}
}

// Valid reports whether c is a known style.
func (c TrafficChartType) Valid() bool {
	switch c {
	case TrafficChartArea, TrafficChartBar, TrafficChartScatter:
		return true
	}
	return false
}

// AgentsChartType is the agents chart style.
type AgentsChartType string

const (
	AgentsChartBar AgentsChartType = "bar"
	AgentsChartPie AgentsChartType = "pie"
)

// Next cycles the chart style.
func (c AgentsChartType) Next() AgentsChartType {
	if c == AgentsChartPie {
		return AgentsChartBar
	}
	return AgentsChartPie
}

// Valid reports whether c is a known style.
func (c AgentsChartType) Valid() bool {
	return c == AgentsChartBar || c == AgentsChartPie
}

// Preferences are the user's persisted chart choices.
type Preferences struct {
	ViewMode     ViewMode         `json:"viewMode"`
	TrafficChart TrafficChartType `json:"trafficChartType"`
	AgentsChart  AgentsChartType  `json:"agentsChartType"`
	TimeRange    TimeRange        `json:"timeRange"`
}

// DefaultPreferences returns the initial chart choices.
func DefaultPreferences() Preferences {
	return Preferences{
		ViewMode:     ViewModeTotal,
		TrafficChart: TrafficChartArea,
		AgentsChart:  AgentsChartBar,
		TimeRange:    TimeRange24Hours,
	}
}

// Sanitize replaces unknown values with defaults.
func (p Preferences) Sanitize() Preferences {
	def := DefaultPreferences()
	if !p.ViewMode.Valid() {
		p.ViewMode = def.ViewMode
	}
	if !p.TrafficChart.Valid() {
		p.TrafficChart = def.TrafficChart
	}
	if !p.AgentsChart.Valid() {
		p.AgentsChart = def.AgentsChart
	}
	if !p.TimeRange.Valid() {
		p.TimeRange = def.TimeRange
	}
	return p
}
