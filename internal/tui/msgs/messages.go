// Package msgs defines navigation messages shared between TUI views.
package msgs

import "github.com/novahq/nova/internal/automation"

// GoToHomeMsg requests navigation back to the home view.
type GoToHomeMsg struct{}

// GoToHistoryMsg requests navigation to the run history view.
type GoToHistoryMsg struct{}

// StartRunMsg requests execution of a freshly instantiated plan.
type StartRunMsg struct {
	Plan *automation.Plan
}
