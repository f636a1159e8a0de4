package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/tui/msgs"
)

func runTestPlan(t *testing.T) *automation.Plan {
	t.Helper()
	tmpl := automation.Template{
		Name:    "test",
		Title:   "Test Plan",
		Actions: []string{"First step", "Second step", "Third step"},
	}
	plan, err := tmpl.Instantiate()
	if err != nil {
		t.Fatalf("Instantiate() error: %v", err)
	}
	return plan
}

func TestRunModelTracksTaskProgress(t *testing.T) {
	store := newViewTestStore(t)
	plan := runTestPlan(t)
	m := NewRunModel(store, plan)

	m, _ = m.Update(TaskStartedMsg{
		TaskNum: 1,
		Total:   3,
		TaskID:  plan.Tasks[0].ID,
		Action:  plan.Tasks[0].Action,
	})
	if m.current != 1 {
		t.Errorf("current = %d, want 1", m.current)
	}
	if m.rows[0].Status != automation.TaskStatusInProgress {
		t.Errorf("rows[0].Status = %q, want %q", m.rows[0].Status, automation.TaskStatusInProgress)
	}

	m, _ = m.Update(TaskCompletedMsg{TaskID: plan.Tasks[0].ID})
	if m.rows[0].Status != automation.TaskStatusCompleted {
		t.Errorf("rows[0].Status = %q, want %q", m.rows[0].Status, automation.TaskStatusCompleted)
	}

	m, _ = m.Update(TaskFailedMsg{TaskID: plan.Tasks[1].ID})
	if m.rows[1].Status != automation.TaskStatusFailed {
		t.Errorf("rows[1].Status = %q, want %q", m.rows[1].Status, automation.TaskStatusFailed)
	}
}

func TestRunModelSettlesOnPlanDone(t *testing.T) {
	store := newViewTestStore(t)
	plan := runTestPlan(t)
	m := NewRunModel(store, plan)

	log := automation.ExecutionLog{
		Status:         automation.PlanStatusCompleted,
		TasksCompleted: 3,
		TotalTasks:     3,
		DurationMS:     4200,
	}
	m, _ = m.Update(PlanDoneMsg{Log: log})

	if m.state != stateDone {
		t.Errorf("state = %d, want stateDone", m.state)
	}
	if m.finalLog.TasksCompleted != 3 {
		t.Errorf("finalLog.TasksCompleted = %d, want 3", m.finalLog.TasksCompleted)
	}

	// After settlement, enter returns home and q quits.
	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter after settlement produced no command")
	}
	if _, ok := cmd().(msgs.GoToHomeMsg); !ok {
		t.Errorf("command produced %T, want GoToHomeMsg", cmd())
	}
}

func TestRunModelCancelOnCtrlC(t *testing.T) {
	store := newViewTestStore(t)
	plan := runTestPlan(t)

	store.SetConsent(true)
	store.EnableAutomation()
	store.SetPlan(plan)

	m := NewRunModel(store, plan)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	if m.state != stateCancelled {
		t.Errorf("state = %d, want stateCancelled", m.state)
	}
	if store.Running() {
		t.Error("store still running after ctrl+c")
	}
}

func TestRunModelIgnoresUnknownTaskIDs(t *testing.T) {
	store := newViewTestStore(t)
	plan := runTestPlan(t)
	m := NewRunModel(store, plan)

	m, _ = m.Update(TaskCompletedMsg{TaskID: "missing"})
	for i, row := range m.rows {
		if row.Status != automation.TaskStatusPending {
			t.Errorf("rows[%d].Status = %q, want pending", i, row.Status)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"zero", 0, "00:00"},
		{"seconds", 42 * time.Second, "00:42"},
		{"minutes", 2*time.Minute + 30*time.Second, "02:30"},
		{"hours", time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := formatElapsed(tc.d)
			if result != tc.expected {
				t.Errorf("formatElapsed(%v) = %q, want %q", tc.d, result, tc.expected)
			}
		})
	}
}
