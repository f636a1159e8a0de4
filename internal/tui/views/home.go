package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/tui/components"
	"github.com/novahq/nova/internal/tui/msgs"
	"github.com/novahq/nova/internal/tui/styles"
)

// HomeModel is the landing screen: the plan template catalog plus the
// consent and arming toggles.
type HomeModel struct {
	store     *automation.Store
	templates []automation.Template
	state     automation.State
	cursor    int
	errorMsg  string
	width     int
	height    int
}

// NewHomeModel creates the home view backed by the given store.
func NewHomeModel(store *automation.Store, templates []automation.Template) HomeModel {
	return HomeModel{
		store:     store,
		templates: templates,
		state:     store.State(),
	}
}

// Refresh re-reads the store state, e.g. after returning from a run.
func (m *HomeModel) Refresh() {
	m.state = m.store.State()
}

// Init implements tea.Model.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.errorMsg = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.templates)-1 {
				m.cursor++
			}

		case "c":
			m.store.SetConsent(!m.state.HasConsent)
			m.state = m.store.State()

		case "e":
			if m.state.IsEnabled {
				m.store.DisableAutomation()
			} else {
				m.store.EnableAutomation()
				if !m.store.State().IsEnabled {
					m.errorMsg = "Consent required before arming automation (press c)"
				}
			}
			m.state = m.store.State()

		case "h":
			return m, func() tea.Msg { return msgs.GoToHistoryMsg{} }

		case "enter":
			return m.startSelected()
		}
	}

	return m, nil
}

// startSelected instantiates the selected template and requests a run.
func (m HomeModel) startSelected() (HomeModel, tea.Cmd) {
	if len(m.templates) == 0 {
		return m, nil
	}
	if !m.state.IsEnabled {
		m.errorMsg = "Automation is disarmed; press e to arm it"
		return m, nil
	}

	plan, err := m.templates[m.cursor].Instantiate()
	if err != nil {
		m.errorMsg = fmt.Sprintf("Failed to create plan: %v", err)
		return m, nil
	}

	return m, func() tea.Msg { return msgs.StartRunMsg{Plan: plan} }
}

// View implements tea.Model.
func (m HomeModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Nova Automation"))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusLines())
	b.WriteString("\n")

	b.WriteString(styles.SubtleStyle.Render("Plans"))
	b.WriteString("\n")
	for i, tmpl := range m.templates {
		prefix := "  "
		label := fmt.Sprintf("%s (%d steps)", tmpl.Title, len(tmpl.Actions))
		if i == m.cursor {
			prefix = styles.SelectedStyle.Render("> ")
			label = styles.SelectedStyle.Render(label)
		}
		b.WriteString(prefix + label + "\n")
		if i == m.cursor {
			b.WriteString(styles.SubtleStyle.Render("    "+tmpl.Description) + "\n")
		}
	}

	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.WarningStyle.Render(m.errorMsg))
		b.WriteString("\n")
	}

	// Fill remaining space so the status bar sits at the bottom
	lines := strings.Count(b.String(), "\n") + 1
	remaining := m.height - lines - 1
	if remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}

	b.WriteString(components.NewStatusBar().Render(m.width, []string{
		"Enter Run", "c Consent", "e Arm", "h History", "q Quit",
	}))

	return b.String()
}

// renderStatusLines shows the consent, arming and agent indicators.
func (m HomeModel) renderStatusLines() string {
	var b strings.Builder

	consent := styles.ErrorStyle.Render("not granted")
	if m.state.HasConsent {
		consent = styles.SuccessStyle.Render("granted")
	}
	armed := styles.SubtleStyle.Render("disarmed")
	if m.state.IsEnabled {
		armed = styles.SuccessStyle.Render("armed")
	}

	b.WriteString(fmt.Sprintf("Consent: %s    Automation: %s\n", consent, armed))

	agent := m.state.Agent
	if agent.IsInstalled {
		connection := "offline"
		if agent.IsConnected {
			connection = "connected"
		}
		b.WriteString(styles.SubtleStyle.Render(
			fmt.Sprintf("Agent %s, %s", agent.Version, connection)) + "\n")
	} else {
		b.WriteString(styles.SubtleStyle.Render("Agent not installed") + "\n")
	}

	return b.String()
}
