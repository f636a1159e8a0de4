package views

import (
	"testing"
	"time"

	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/tui/msgs"
)

func TestHistoryClear(t *testing.T) {
	dir := t.TempDir()
	storage, err := automation.NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage() error: %v", err)
	}
	saved := []automation.ExecutionLog{{
		ID:         "log-1",
		PlanTitle:  "Old Run",
		Status:     automation.PlanStatusCompleted,
		ExecutedAt: time.Now(),
	}}
	if err := storage.SaveHistory(saved); err != nil {
		t.Fatalf("SaveHistory() error: %v", err)
	}

	store := automation.NewStore(storage)
	m := NewHistoryModel(store)

	if len(m.entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(m.entries))
	}

	m, _ = m.Update(keyMsg("c"))
	if len(m.entries) != 0 {
		t.Errorf("len(entries) after clear = %d, want 0", len(m.entries))
	}
	if got := len(store.State().ExecutionHistory); got != 0 {
		t.Errorf("store history length after clear = %d, want 0", got)
	}
}

func TestHistoryBackNavigation(t *testing.T) {
	store := newViewTestStore(t)
	m := NewHistoryModel(store)

	_, cmd := m.Update(keyMsg("esc"))
	if cmd == nil {
		t.Fatal("esc produced no command")
	}
	if _, ok := cmd().(msgs.GoToHomeMsg); !ok {
		t.Errorf("command produced %T, want GoToHomeMsg", cmd())
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		when     time.Time
		expected string
	}{
		{"seconds ago", now.Add(-10 * time.Second), "just now"},
		{"minutes ago", now.Add(-90 * time.Minute), "1h ago"},
		{"days ago", now.Add(-72 * time.Hour), "3d ago"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := formatRelativeTime(tc.when)
			if result != tc.expected {
				t.Errorf("formatRelativeTime() = %q, want %q", result, tc.expected)
			}
		})
	}
}
