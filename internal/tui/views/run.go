package views

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/tui/components"
	"github.com/novahq/nova/internal/tui/msgs"
	"github.com/novahq/nova/internal/tui/styles"
)

// runState represents the current state of the run view.
type runState int

const (
	stateRunning runState = iota
	stateDone
	stateCancelled
)

// taskRow holds display information for one task.
type taskRow struct {
	ID     string
	Action string
	Status string
}

// Message types for runner events

// TaskStartedMsg is sent when a task is marked in_progress.
type TaskStartedMsg struct {
	TaskNum int
	Total   int
	TaskID  string
	Action  string
}

// TaskCompletedMsg is sent when a task resolves to completed.
type TaskCompletedMsg struct {
	TaskID string
}

// TaskFailedMsg is sent when a task resolves to failed.
type TaskFailedMsg struct {
	TaskID string
	Err    error
}

// PlanDoneMsg signals that the run settled and its log was recorded.
type PlanDoneMsg struct {
	Log automation.ExecutionLog
}

// tickMsg drives elapsed time updates.
type tickMsg time.Time

// RunModel is the execution monitor view.
type RunModel struct {
	store *automation.Store

	state     runState
	planID    string
	planTitle string
	rows      []taskRow
	current   int // 1-indexed current task number
	total     int
	startTime time.Time
	finalLog  automation.ExecutionLog

	spinner spinner.Model

	width  int
	height int
}

// NewRunModel creates the run monitor for a freshly started plan.
func NewRunModel(store *automation.Store, plan *automation.Plan) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	rows := make([]taskRow, len(plan.Tasks))
	for i, t := range plan.Tasks {
		rows[i] = taskRow{ID: t.ID, Action: t.Action, Status: t.Status}
	}

	return RunModel{
		store:     store,
		state:     stateRunning,
		planID:    plan.ID,
		planTitle: plan.Title,
		rows:      rows,
		total:     len(rows),
		startTime: time.Now(),
		spinner:   s,
	}
}

// Init implements tea.Model.
func (m RunModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tickCmd())
}

// tickCmd returns a command that sends tick messages for elapsed time updates.
func (m RunModel) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m RunModel) Update(msg tea.Msg) (RunModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.state == stateRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tickMsg:
		if m.state == stateRunning {
			return m, m.tickCmd()
		}
		return m, nil

	case TaskStartedMsg:
		m.current = msg.TaskNum
		if row := m.rowByID(msg.TaskID); row != nil {
			row.Status = automation.TaskStatusInProgress
		}
		return m, nil

	case TaskCompletedMsg:
		if row := m.rowByID(msg.TaskID); row != nil {
			row.Status = automation.TaskStatusCompleted
		}
		return m, nil

	case TaskFailedMsg:
		if row := m.rowByID(msg.TaskID); row != nil {
			row.Status = automation.TaskStatusFailed
		}
		return m, nil

	case PlanDoneMsg:
		m.state = stateDone
		m.finalLog = msg.Log
		m.syncFromStore()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress handles keyboard input based on current state.
func (m RunModel) handleKeyPress(msg tea.KeyMsg) (RunModel, tea.Cmd) {
	switch m.state {
	case stateRunning:
		if msg.String() == "ctrl+c" {
			m.store.StopExecution()
			m.state = stateCancelled
			m.syncFromStore()
		}

	case stateDone, stateCancelled:
		switch msg.String() {
		case "enter", "h":
			return m, func() tea.Msg { return msgs.GoToHomeMsg{} }
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

// syncFromStore refreshes task rows from the store after settlement or
// cancellation, so late state is never missed.
func (m *RunModel) syncFromStore() {
	state := m.store.State()
	if state.CurrentPlan == nil || state.CurrentPlan.ID != m.planID {
		return
	}
	for i, t := range state.CurrentPlan.Tasks {
		if i < len(m.rows) {
			m.rows[i].Status = t.Status
		}
	}
}

func (m *RunModel) rowByID(id string) *taskRow {
	for i := range m.rows {
		if m.rows[i].ID == id {
			return &m.rows[i]
		}
	}
	return nil
}

// View implements tea.Model.
func (m RunModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	switch m.state {
	case stateRunning:
		return m.renderRunning()
	default:
		return m.renderSettled()
	}
}

// renderRunning renders the live progress view.
func (m RunModel) renderRunning() string {
	var b strings.Builder

	title := styles.TitleStyle.Render(fmt.Sprintf("Running: %s", m.planTitle))
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n")

	header := fmt.Sprintf("Task %d/%d  %s", m.current, m.total,
		formatElapsed(time.Since(m.startTime)))
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderRow(i, row)))
		b.WriteString("\n")
	}

	// Fill remaining space
	lines := strings.Count(b.String(), "\n") + 1
	remaining := m.height - lines - 1
	if remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}

	b.WriteString(components.NewStatusBar().Render(m.width, []string{"Running...", "Ctrl+C Cancel"}))

	return b.String()
}

// renderSettled renders the completion or cancellation summary.
func (m RunModel) renderSettled() string {
	var b strings.Builder

	var title string
	switch {
	case m.state == stateCancelled:
		title = styles.SubtleStyle.Render("Execution Cancelled")
	case m.finalLog.Status == automation.PlanStatusCompleted:
		title = styles.SuccessStyle.Render("Plan Completed")
	default:
		title = styles.ErrorStyle.Render("Plan Failed")
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var summary string
	if m.state == stateCancelled {
		summary = fmt.Sprintf("Stopped. Completed %d/%d tasks.", m.countCompleted(), m.total)
	} else {
		summary = fmt.Sprintf("Completed %d/%d tasks in %s",
			m.finalLog.TasksCompleted, m.finalLog.TotalTasks,
			formatElapsed(time.Duration(m.finalLog.DurationMS)*time.Millisecond))
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, summary))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.renderRow(i, row)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	homeOption := styles.SelectedStyle.Render("[Enter]") + " Return to home"
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, homeOption))
	b.WriteString("\n")

	lines := strings.Count(b.String(), "\n") + 1
	remaining := m.height - lines - 1
	if remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}

	b.WriteString(components.NewStatusBar().Render(m.width, []string{"Enter Home", "q Quit"}))

	return b.String()
}

// renderRow renders one task line with its status indicator.
func (m RunModel) renderRow(idx int, row taskRow) string {
	return fmt.Sprintf("%s %d. %s", m.indicator(row.Status, idx+1 == m.current), idx+1, row.Action)
}

// indicator returns the status glyph for a task.
func (m RunModel) indicator(status string, isCurrent bool) string {
	switch status {
	case automation.TaskStatusCompleted:
		return styles.SuccessStyle.Render("✓")
	case automation.TaskStatusFailed:
		return styles.ErrorStyle.Render("✗")
	case automation.TaskStatusCancelled:
		return styles.SubtleStyle.Render("−")
	case automation.TaskStatusInProgress:
		if isCurrent && m.state == stateRunning {
			return m.spinner.View()
		}
		return styles.SelectedStyle.Render("▶")
	default: // pending, queued
		return styles.SubtleStyle.Render("○")
	}
}

// countCompleted returns the number of completed task rows.
func (m RunModel) countCompleted() int {
	count := 0
	for _, row := range m.rows {
		if row.Status == automation.TaskStatusCompleted {
			count++
		}
	}
	return count
}

// formatElapsed formats a duration as MM:SS or HH:MM:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, mins, s)
	}
	return fmt.Sprintf("%02d:%02d", mins, s)
}

// RunnerEvents implements automation.Events by forwarding runner callbacks
// as Bubble Tea messages. The program reference is set after the program is
// constructed; events arriving before that are dropped.
type RunnerEvents struct {
	mu      sync.Mutex
	program *tea.Program
}

// NewRunnerEvents creates an events bridge with no program attached yet.
func NewRunnerEvents() *RunnerEvents {
	return &RunnerEvents{}
}

// SetProgram attaches the Bubble Tea program that receives event messages.
func (e *RunnerEvents) SetProgram(p *tea.Program) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.program = p
}

func (e *RunnerEvents) send(msg tea.Msg) {
	e.mu.Lock()
	p := e.program
	e.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// OnTaskStart implements automation.Events.
func (e *RunnerEvents) OnTaskStart(taskNum, total int, task automation.Task) {
	e.send(TaskStartedMsg{
		TaskNum: taskNum,
		Total:   total,
		TaskID:  task.ID,
		Action:  task.Action,
	})
}

// OnTaskComplete implements automation.Events.
func (e *RunnerEvents) OnTaskComplete(task automation.Task) {
	e.send(TaskCompletedMsg{TaskID: task.ID})
}

// OnTaskFailed implements automation.Events.
func (e *RunnerEvents) OnTaskFailed(task automation.Task, err error) {
	e.send(TaskFailedMsg{TaskID: task.ID, Err: err})
}

// OnPlanDone implements automation.Events.
func (e *RunnerEvents) OnPlanDone(log automation.ExecutionLog) {
	e.send(PlanDoneMsg{Log: log})
}

// Verify interface compliance
var _ automation.Events = (*RunnerEvents)(nil)
