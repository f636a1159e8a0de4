package automation

import "time"

// HistoryLimit is the maximum number of execution logs retained. Appending
// beyond the limit evicts the oldest entry.
const HistoryLimit = 50

// ExecutionLog is the immutable record of one finished or aborted plan run.
type ExecutionLog struct {
	ID             string    `json:"id"`
	PlanID         string    `json:"planId"`
	PlanTitle      string    `json:"planTitle"`
	Status         string    `json:"status"`
	TasksCompleted int       `json:"tasksCompleted"`
	TotalTasks     int       `json:"totalTasks"`
	ExecutedAt     time.Time `json:"executedAt"`
	DurationMS     int64     `json:"durationMs"`
}

// appendHistory prepends an entry to a newest-first history, evicting the
// oldest entry once the limit is reached.
func appendHistory(history []ExecutionLog, entry ExecutionLog) []ExecutionLog {
	updated := make([]ExecutionLog, 0, len(history)+1)
	updated = append(updated, entry)
	updated = append(updated, history...)
	if len(updated) > HistoryLimit {
		updated = updated[:HistoryLimit]
	}
	return updated
}
