package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/tui/components"
	"github.com/novahq/nova/internal/tui/msgs"
	"github.com/novahq/nova/internal/tui/styles"
)

// HistoryModel shows the recorded execution logs, newest first.
type HistoryModel struct {
	store   *automation.Store
	entries []automation.ExecutionLog
	width   int
	height  int
}

// NewHistoryModel creates the history view backed by the given store.
func NewHistoryModel(store *automation.Store) HistoryModel {
	return HistoryModel{
		store:   store,
		entries: store.State().ExecutionHistory,
	}
}

// Refresh re-reads the history from the store.
func (m *HistoryModel) Refresh() {
	m.entries = m.store.State().ExecutionHistory
}

// Init implements tea.Model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "c":
			m.store.ClearHistory()
			m.Refresh()

		case "esc", "h":
			return m, func() tea.Msg { return msgs.GoToHomeMsg{} }
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m HistoryModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Run History"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(styles.SubtleStyle.Render("No runs recorded yet."))
		b.WriteString("\n")
	} else {
		for _, entry := range m.entries {
			b.WriteString(m.renderEntry(entry))
			b.WriteString("\n")
		}
	}

	lines := strings.Count(b.String(), "\n") + 1
	remaining := m.height - lines - 1
	if remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}

	b.WriteString(components.NewStatusBar().Render(m.width, []string{
		"Esc Back", "c Clear", "q Quit",
	}))

	return b.String()
}

// renderEntry renders one history line with a status glyph.
func (m HistoryModel) renderEntry(entry automation.ExecutionLog) string {
	var glyph string
	switch entry.Status {
	case automation.PlanStatusCompleted:
		glyph = styles.SuccessStyle.Render("✓")
	case automation.PlanStatusFailed:
		glyph = styles.ErrorStyle.Render("✗")
	default:
		glyph = styles.SubtleStyle.Render("−")
	}

	when := styles.SubtleStyle.Render(formatRelativeTime(entry.ExecutedAt))
	tasks := fmt.Sprintf("%d/%d", entry.TasksCompleted, entry.TotalTasks)

	line := fmt.Sprintf("%s %s  %s  %s tasks  %s",
		glyph, entry.PlanTitle, entry.Status, tasks, when)

	return lipgloss.NewStyle().Width(m.width).Render(line)
}

// formatRelativeTime formats a timestamp as a relative age string.
func formatRelativeTime(t time.Time) string {
	elapsed := time.Since(t)

	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
