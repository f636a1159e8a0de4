package automation

import "time"

// AgentStatus is a display-only record describing the simulated local agent.
// It is derived from the consent and enablement flags; nothing here reflects
// a real connection check.
type AgentStatus struct {
	IsInstalled   bool      `json:"isInstalled"`
	IsRunning     bool      `json:"isRunning"`
	IsConnected   bool      `json:"isConnected"`
	Version       string    `json:"version"`
	LastHeartbeat time.Time `json:"lastHeartbeat"`
}

// deriveAgentStatus computes the display record from the current flags.
// Without consent the agent reports as not installed.
func deriveAgentStatus(consent, enabled bool, version string, now time.Time) AgentStatus {
	status := AgentStatus{Version: version}
	if !consent {
		return status
	}
	status.IsInstalled = true
	if enabled {
		status.IsRunning = true
		status.IsConnected = true
		status.LastHeartbeat = now
	}
	return status
}
