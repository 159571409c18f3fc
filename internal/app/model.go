// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services/snapshots"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabDashboard shows the summary cards.
	TabDashboard TabID = iota
	// TabTraffic shows the request chart.
	TabTraffic
	// TabAgents shows the per-agent breakdown.
	TabAgents
	// TabInfo shows configuration and build details.
	TabInfo

	tabCount
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabTraffic:
		return "Traffic"
	case TabAgents:
		return "Agents"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1       key.Binding
	Tab2       key.Binding
	Tab3       key.Binding
	Tab4       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Refresh    key.Binding
	Sync       key.Binding
	ToggleView key.Binding
	CycleRange key.Binding
	Help       key.Binding
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Escape     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setTabKeys(km)
	km = setActionKeys(km)
	km = setNavigationKeys(km)
	return km
}

func setTabKeys(k KeyMap) KeyMap {
	k.Tab1 = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard"))
	k.Tab2 = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "traffic"))
	k.Tab3 = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "agents"))
	k.Tab4 = key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "info"))
	k.NextTab = key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Refresh = key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh"))
	k.Sync = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync now"))
	k.ToggleView = key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "total/delta"))
	k.CycleRange = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "time range"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	return k
}

func setNavigationKeys(k KeyMap) KeyMap {
	k.Up = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	k.Down = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	k.PageUp = key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up"))
	k.PageDown = key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.ToggleView, k.CycleRange, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.NextTab, k.PrevTab},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Refresh, k.Sync, k.ToggleView, k.CycleRange},
		{k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	StatusBar   lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)
	s.StatusBar = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Model is the main application model.
type Model struct {
	state    *State
	services *services.Manager
	commands *Commands

	tabs     []Tab
	tabNames []string

	eventChannel chan services.ServiceEvent

	styles  Styles
	keymap  KeyMap
	spinner spinner.Model

	activeTab TabID
	width     int
	height    int

	showHelp bool
	ready    bool
}

// NewModel initializes a new application model. mgr may be nil in tests.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	state := NewState()
	if mgr != nil {
		state.SetPreferences(mgr.Preferences(), time.Now())
	}

	names := make([]string, tabCount)
	for i := range names {
		names[i] = TabID(i).String()
	}

	return &Model{
		activeTab: TabDashboard,
		tabNames:  names,
		tabs:      make([]Tab, tabCount), // set by SetTabs
		state:     state,
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetServices returns the service manager.
func (m *Model) GetServices() *services.Manager {
	return m.services
}

// GetCommands returns the commands helper.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetKeyMap returns the key bindings.
func (m *Model) GetKeyMap() KeyMap {
	return m.keymap
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading snapshots...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
		cmds = append(cmds, loadDatasetCmd(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg, tea.KeyMsg, spinner.TickMsg:
		if cmd := m.handleTeaMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case DataChangedMsg:
		// Every tab caches rendered content, not only the visible one.
		return m, m.updateAllTabs(msg)

	default:
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTeaMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		m.state.Recompute(msg.Time)
		cmds = append(cmds, defaultTickCmd(), dataChanged)
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case DatasetLoadedMsg:
		cmds = append(cmds, m.handleDatasetLoaded(msg)...)
	case SyncResultMsg:
		cmds = append(cmds, m.handleSyncResult(msg)...)
	case UpdatePreferencesMsg:
		cmds = append(cmds, m.handleUpdatePreferences(msg))
	case PreferencesChangedMsg:
		m.state.SetPreferences(msg.Preferences, time.Now())
		cmds = append(cmds, dataChanged)
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.state.SetLoading(msg.Resource, true)
		m.state.SetLoadingNotification(loadingMessage(msg.Resource))
	case StopLoadingMsg:
		m.stopLoading(msg.Resource)
	case ErrorMsg:
		cmds = append(cmds, notifyErrorCmd(errorMessage(msg.Context, msg.Error)))
	case TabSwitchMsg:
		m.switchTab(msg.Tab)
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func dataChanged() tea.Msg {
	return DataChangedMsg{}
}

func loadingMessage(resource string) string {
	switch resource {
	case ResourceSync:
		return "Syncing from stats API..."
	case ResourceRefresh:
		return "Reloading snapshots..."
	default:
		return "Loading snapshots..."
	}
}

func errorMessage(context string, err error) string {
	if context == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", context, err)
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) stopLoading(resource string) {
	m.state.SetLoading(resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.handleServiceEvent(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) handleDatasetLoaded(msg DatasetLoadedMsg) []tea.Cmd {
	wasRefreshing := m.state.IsRefreshing()
	m.stopLoading(ResourceInitial)
	m.stopLoading(ResourceRefresh)

	if msg.Err != nil {
		if errors.Is(msg.Err, snapshots.ErrClosed) {
			return nil
		}
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Failed to load snapshots: %v", msg.Err))}
	}

	m.state.SetDataset(msg.Dataset, time.Now())
	cmds := []tea.Cmd{dataChanged}
	if wasRefreshing && msg.Dataset != nil {
		cmds = append(cmds, notifyInfoCmd(fmt.Sprintf("Loaded %s snapshots", humanize.Comma(int64(msg.Dataset.Rows)))))
	}
	return cmds
}

func (m *Model) handleSyncResult(msg SyncResultMsg) []tea.Cmd {
	m.stopLoading(ResourceSync)
	if msg.Err != nil {
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Sync failed: %v", msg.Err))}
	}
	text := fmt.Sprintf("Stored snapshot #%d", msg.Result.ID)
	if msg.Result.Pruned > 0 {
		text += fmt.Sprintf(", pruned %d", msg.Result.Pruned)
	}
	return []tea.Cmd{notifySuccessCmd(text)}
}

func (m *Model) handleUpdatePreferences(msg UpdatePreferencesMsg) tea.Cmd {
	if msg.Apply == nil {
		return nil
	}
	if m.services != nil {
		return updatePreferencesCmd(m.services, msg.Apply)
	}
	prefs := m.state.Preferences()
	msg.Apply(&prefs)
	m.state.SetPreferences(prefs, time.Now())
	return dataChanged
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateAllTabs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateTabSizes() {
	// navbar (2 lines) + status bar (1) + margins
	contentHeight := max(0, m.height-5)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) switchTab(id TabID) {
	if id < 0 || int(id) >= len(m.tabs) {
		return
	}
	m.activeTab = id
	m.updateTabSizes()
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keymap.Escape):
		m.showHelp = false

	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabDashboard)

	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabTraffic)

	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabAgents)

	case key.Matches(msg, m.keymap.Tab4):
		m.switchTab(TabInfo)

	case key.Matches(msg, m.keymap.NextTab):
		if !m.showHelp && len(m.tabs) > 0 {
			m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		}

	case key.Matches(msg, m.keymap.PrevTab):
		if !m.showHelp && len(m.tabs) > 0 {
			m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		}

	case key.Matches(msg, m.keymap.ToggleView):
		return m.commands.UpdatePreferences(func(p *models.Preferences) {
			p.ViewMode = p.ViewMode.Toggle()
		})

	case key.Matches(msg, m.keymap.CycleRange):
		return m.commands.UpdatePreferences(func(p *models.Preferences) {
			p.TimeRange = p.TimeRange.Next()
		})

	case key.Matches(msg, m.keymap.Refresh):
		if m.services == nil {
			return nil
		}
		return tea.Batch(
			func() tea.Msg { return StartLoadingMsg{Resource: ResourceRefresh} },
			refreshCmd(m.services),
		)

	case key.Matches(msg, m.keymap.Sync):
		return m.startSync()
	}

	return nil
}

func (m *Model) startSync() tea.Cmd {
	if m.services == nil || !m.services.CanSync() {
		return notifyWarningCmd("Sync unavailable: set STATS_API_URL")
	}
	if m.state.IsSyncing() {
		return nil
	}
	m.state.SetLoading(ResourceSync, true)
	m.state.SetLoadingNotification(loadingMessage(ResourceSync))
	return syncCmd(m.services)
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.SnapshotsUpdatedEvent:
		if e.Dataset == nil {
			return nil
		}
		m.stopLoading(ResourceInitial)
		m.state.SetDataset(e.Dataset, time.Now())
		return dataChanged

	case services.PreferencesChangedEvent:
		m.state.SetPreferences(e.Preferences, time.Now())
		return dataChanged

	case services.CircuitChangedEvent:
		text := fmt.Sprintf("Circuit breaker %s (%s → %s)", e.To.Label(), e.From, e.To)
		switch {
		case e.To == models.CircuitOpen:
			return notifyErrorCmd(text)
		case e.To.IsHealthy():
			return notifySuccessCmd(text)
		default:
			return notifyWarningCmd(text)
		}

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}

	return nil
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if notifications := m.renderNotifications(); len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

// padLines extends lines to the window height so overlays are never clipped
// by short tab content.
func (m *Model) padLines(view string) []string {
	lines := strings.Split(view, "\n")
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := m.padLines(mainView)
	overlayLines := strings.Split(overlay, "\n")

	overlayHeight := len(overlayLines)
	overlayWidth := lipgloss.Width(overlay)

	y := max((m.height-overlayHeight)/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]

		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderStatusBar() string {
	prefs := m.state.Preferences()
	parts := []string{
		fmt.Sprintf("View: %s", prefs.ViewMode),
		fmt.Sprintf("Range: %s", prefs.TimeRange),
	}
	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		parts = append(parts, "Updated "+humanize.Time(updated))
	}
	parts = append(parts, "? help")
	return m.styles.StatusBar.Render(strings.Join(parts, "  •  "))
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := m.padLines(mainView)

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)
	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-mainLineWidth) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"), "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, "  1-4        Switch tabs")
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Data"))
	lines = append(lines, "  v          Toggle total/delta")
	lines = append(lines, "  t          Cycle time range")
	lines = append(lines, "  r          Reload snapshots")
	if m.services != nil && m.services.CanSync() {
		lines = append(lines, "  s          Sync from stats API")
	}
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("General"))
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		if tabHelp := m.tabs[m.activeTab].ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not yet implemented."),
	)
	return m.styles.Content.Render(content)
}
