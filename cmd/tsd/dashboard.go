package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/app"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/config"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/logger"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/services"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/tabs/agents"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/ui/tabs/traffic"
)

// runDashboard starts the services and blocks until the TUI exits.
func runDashboard(cfg *config.Config) error {
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Error("failed to close services", "error", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	commands := model.GetCommands()
	model.SetTabs([]app.Tab{
		dashboard.New(state),
		traffic.New(state, commands),
		agents.New(state, commands),
		info.New(state, cfg, svcManager.Normalizer().Registry()),
	})

	// Bubble Tea handles SIGINT itself and ctrl+c is bound to quit.
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
