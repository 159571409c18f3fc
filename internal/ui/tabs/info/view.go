package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderSyncCard(),
		m.renderDataCard(),
		m.renderMigrationsCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-10, 50), 90)
}

func (m *Model) card(title string, rows ...string) string {
	body := append([]string{styles.CardTitleStyle.Render(title)}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func row(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderConfigCard() string {
	if m.config == nil {
		return m.card("Configuration", styles.HelpStyle.Render("Configuration not loaded"))
	}
	c := m.config
	return m.card("Configuration",
		row("Database", c.DatabasePath),
		row("Migrations", c.MigrationsPath),
		row("Preferences", c.PreferencesPath),
		row("Log file", fmt.Sprintf("%s (%s)", c.LogPath, c.LogLevel)),
		row("Refresh", c.RefreshInterval.String()),
		row("Notifications", onOff(c.Notifications)),
	)
}

func (m *Model) renderSyncCard() string {
	if m.config == nil {
		return ""
	}
	c := m.config

	if c.StatsAPIURL == "" {
		return m.card("Sync",
			styles.WarningTextStyle.Render("Sync disabled"),
			styles.HelpStyle.Render("Set STATS_API_URL to record snapshots with `tsd sync` or s."),
		)
	}

	retention := "keep everything"
	if c.RetentionDays > 0 {
		retention = fmt.Sprintf("%d days", c.RetentionDays)
	}
	return m.card("Sync",
		row("Endpoint", c.StatsAPIURL),
		row("API key", MaskKey(c.StatsAPIKey)),
		row("Interval", c.SyncInterval.String()),
		row("Retention", retention),
	)
}

func (m *Model) renderDataCard() string {
	ds := m.state.Dataset()
	if ds == nil {
		return m.card("Data", styles.HelpStyle.Render("No snapshots loaded yet"))
	}

	rows := []string{
		row("Rows", components.FormatCount(int64(ds.Rows))),
		row("Loaded", humanize.Time(ds.FetchedAt)),
	}
	if ds.Skipped > 0 {
		rows = append(rows, row("Skipped", styles.WarningTextStyle.Render(
			fmt.Sprintf("%d with unreadable timestamps", ds.Skipped))))
	}
	if n := len(ds.History); n > 0 {
		rows = append(rows,
			row("Oldest", ds.History[0].Date),
			row("Newest", ds.History[n-1].Date),
		)
	}
	return m.card("Data", rows...)
}

func (m *Model) renderMigrationsCard() string {
	migrations := m.registry.Migrations()
	if len(migrations) == 0 {
		return m.card("Account Migrations", styles.HelpStyle.Render("No renamed accounts"))
	}

	rows := make([]string, 0, len(migrations))
	for _, mg := range migrations {
		line := fmt.Sprintf("%s → %s", mg.From, styles.ValueStyle.Render(mg.To))
		if mg.MigratedAt != "" {
			line += styles.HelpStyle.Render("  since " + mg.MigratedAt)
		}
		rows = append(rows, line)
	}
	return m.card("Account Migrations", rows...)
}

func (m *Model) renderAboutCard() string {
	return m.card("About",
		row("Version", version.GetVersion()),
		row("Commit", version.GetCommit()),
		row("Build Date", version.GetDate()),
		row("Go Version", runtime.Version()),
		row("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	)
}

// MaskKey hides all but the last four characters of a secret.
func MaskKey(key string) string {
	switch {
	case key == "":
		return "(none)"
	case len(key) <= 4:
		return strings.Repeat("•", len(key))
	default:
		return strings.Repeat("•", 8) + key[len(key)-4:]
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
