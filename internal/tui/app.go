// Package tui implements the interactive automation dashboard.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/config"
	"github.com/novahq/nova/internal/logging"
	"github.com/novahq/nova/internal/tui/msgs"
	"github.com/novahq/nova/internal/tui/views"
)

// View represents the different screens in the TUI.
type View int

const (
	ViewHome View = iota
	ViewRunning
	ViewHistory
)

// Model is the main Bubble Tea model that orchestrates all views.
type Model struct {
	currentView View
	width       int
	height      int

	store *automation.Store

	home    views.HomeModel
	run     views.RunModel
	history views.HistoryModel
}

// Run starts the TUI application.
func Run() error {
	stateDir, err := config.DefaultStateDir()
	if err != nil {
		return fmt.Errorf("resolving state directory: %w", err)
	}

	cfg, err := config.LoadFromDir(stateDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	storage, err := automation.NewStorage(stateDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	logger, err := logging.New(stateDir, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	events := views.NewRunnerEvents()

	store := automation.NewStore(storage,
		automation.WithLogger(logger),
		automation.WithEvents(events),
		automation.WithTiming(cfg.Automation.TickInterval(), cfg.Automation.MinTaskDelay(), cfg.Automation.MaxTaskDelay()),
		automation.WithFailureRate(cfg.Automation.FailureRate),
		automation.WithAgentVersion(cfg.Agent.Version),
	)

	m := initialModel(store)

	p := tea.NewProgram(m, tea.WithAltScreen())
	events.SetProgram(p)

	_, err = p.Run()
	return err
}

func initialModel(store *automation.Store) Model {
	return Model{
		currentView: ViewHome,
		store:       store,
		home:        views.NewHomeModel(store, automation.BuiltinTemplates()),
		history:     views.NewHistoryModel(store),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.home.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Propagate to every view so they render at the right size
		// regardless of which one is active when the resize arrives.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.home, cmd = m.home.Update(msg)
		cmds = append(cmds, cmd)
		m.run, cmd = m.run.Update(msg)
		cmds = append(cmds, cmd)
		m.history, cmd = m.history.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case msgs.StartRunMsg:
		return m.startRun(msg)

	case msgs.GoToHomeMsg:
		m.currentView = ViewHome
		m.home.Refresh()
		return m, nil

	case msgs.GoToHistoryMsg:
		m.currentView = ViewHistory
		m.history.Refresh()
		return m, nil

	case views.TaskStartedMsg, views.TaskCompletedMsg, views.TaskFailedMsg, views.PlanDoneMsg:
		var cmd tea.Cmd
		m.run, cmd = m.run.Update(msg)
		return m, cmd
	}

	// Route everything else to the active view.
	var cmd tea.Cmd
	switch m.currentView {
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	case ViewRunning:
		m.run, cmd = m.run.Update(msg)
	case ViewHistory:
		m.history, cmd = m.history.Update(msg)
	}

	return m, cmd
}

// startRun installs the plan in the store, kicks off execution and
// switches to the run monitor.
func (m Model) startRun(msg msgs.StartRunMsg) (tea.Model, tea.Cmd) {
	m.store.SetPlan(msg.Plan)

	run := views.NewRunModel(m.store, msg.Plan)
	run, _ = run.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.run = run

	if !m.store.ExecutePlan() {
		m.currentView = ViewHome
		m.home.Refresh()
		return m, nil
	}

	m.currentView = ViewRunning
	return m, m.run.Init()
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.currentView {
	case ViewRunning:
		return m.run.View()
	case ViewHistory:
		return m.history.View()
	default:
		return m.home.View()
	}
}
