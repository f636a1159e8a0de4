package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/tui/msgs"
)

func newViewTestStore(t *testing.T) *automation.Store {
	t.Helper()
	storage, err := automation.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage() error: %v", err)
	}
	return automation.NewStore(storage)
}

func keyMsg(key string) tea.KeyMsg {
	if key == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestHomeConsentToggle(t *testing.T) {
	store := newViewTestStore(t)
	m := NewHomeModel(store, automation.BuiltinTemplates())

	m, _ = m.Update(keyMsg("c"))
	if !store.State().HasConsent {
		t.Error("pressing c did not grant consent")
	}

	m, _ = m.Update(keyMsg("c"))
	if store.State().HasConsent {
		t.Error("pressing c again did not revoke consent")
	}
}

func TestHomeArmRequiresConsent(t *testing.T) {
	store := newViewTestStore(t)
	m := NewHomeModel(store, automation.BuiltinTemplates())

	m, _ = m.Update(keyMsg("e"))
	if store.State().IsEnabled {
		t.Error("arming without consent enabled automation")
	}
	if m.errorMsg == "" {
		t.Error("arming without consent showed no message")
	}

	m, _ = m.Update(keyMsg("c"))
	m, _ = m.Update(keyMsg("e"))
	if !store.State().IsEnabled {
		t.Error("arming with consent did not enable automation")
	}

	m, _ = m.Update(keyMsg("e"))
	if store.State().IsEnabled {
		t.Error("pressing e again did not disarm automation")
	}
}

func TestHomeStartRequiresArming(t *testing.T) {
	store := newViewTestStore(t)
	m := NewHomeModel(store, automation.BuiltinTemplates())

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("enter while disarmed produced a command")
	}
	if m.errorMsg == "" {
		t.Error("enter while disarmed showed no message")
	}

	m, _ = m.Update(keyMsg("c"))
	m, _ = m.Update(keyMsg("e"))
	m, cmd = m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter while armed produced no command")
	}

	msg, ok := cmd().(msgs.StartRunMsg)
	if !ok {
		t.Fatalf("command produced %T, want StartRunMsg", cmd())
	}
	if msg.Plan == nil || len(msg.Plan.Tasks) == 0 {
		t.Error("StartRunMsg carries no instantiated plan")
	}
	if msg.Plan != nil && msg.Plan.Status != automation.PlanStatusReady {
		t.Errorf("instantiated plan status = %q, want %q", msg.Plan.Status, automation.PlanStatusReady)
	}
}

func TestHomeCursorBounds(t *testing.T) {
	store := newViewTestStore(t)
	templates := automation.BuiltinTemplates()
	m := NewHomeModel(store, templates)

	m, _ = m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at top, want 0", m.cursor)
	}

	for i := 0; i < len(templates)+3; i++ {
		m, _ = m.Update(keyMsg("j"))
	}
	if m.cursor != len(templates)-1 {
		t.Errorf("cursor = %d after overshooting down, want %d", m.cursor, len(templates)-1)
	}
}

func TestHomeHistoryNavigation(t *testing.T) {
	store := newViewTestStore(t)
	m := NewHomeModel(store, automation.BuiltinTemplates())

	_, cmd := m.Update(keyMsg("h"))
	if cmd == nil {
		t.Fatal("h produced no command")
	}
	if _, ok := cmd().(msgs.GoToHistoryMsg); !ok {
		t.Errorf("command produced %T, want GoToHistoryMsg", cmd())
	}
}
