package automation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const journalFileName = "runs.log"

// Event type constants for the run journal.
const (
	EventPlanStarted   = "plan_started"
	EventPlanCompleted = "plan_completed"
	EventPlanFailed    = "plan_failed"
	EventPlanCancelled = "plan_cancelled"
	EventTaskStarted   = "task_started"
	EventTaskCompleted = "task_completed"
	EventTaskFailed    = "task_failed"
)

// JournalEvent represents a single run journal entry.
type JournalEvent struct {
	Timestamp time.Time              `json:"timestamp"`
	Event     string                 `json:"event"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Journal appends run lifecycle events to a JSON Lines file in the state
// directory. The journal is informational; write failures never interrupt
// a run.
type Journal struct {
	path string
}

// NewJournal creates a journal for the given state directory.
func NewJournal(dir string) *Journal {
	return &Journal{
		path: filepath.Join(dir, journalFileName),
	}
}

// Log appends an event to the journal file.
func (j *Journal) Log(event string, data map[string]interface{}) error {
	entry := JournalEvent{
		Timestamp: time.Now(),
		Event:     event,
		Data:      data,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	jsonBytes = append(jsonBytes, '\n')

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(jsonBytes)
	return err
}

// PlanStarted logs a plan_started event.
func (j *Journal) PlanStarted(planID, title string, totalTasks int) error {
	return j.Log(EventPlanStarted, map[string]interface{}{
		"plan_id":     planID,
		"title":       title,
		"total_tasks": totalTasks,
	})
}

// TaskStarted logs a task_started event.
func (j *Journal) TaskStarted(planID, taskID string) error {
	return j.Log(EventTaskStarted, map[string]interface{}{
		"plan_id": planID,
		"task_id": taskID,
	})
}

// TaskCompleted logs a task_completed event.
func (j *Journal) TaskCompleted(planID, taskID string) error {
	return j.Log(EventTaskCompleted, map[string]interface{}{
		"plan_id": planID,
		"task_id": taskID,
	})
}

// TaskFailed logs a task_failed event with the simulated error message.
func (j *Journal) TaskFailed(planID, taskID, errMsg string) error {
	return j.Log(EventTaskFailed, map[string]interface{}{
		"plan_id": planID,
		"task_id": taskID,
		"error":   errMsg,
	})
}

// PlanCompleted logs a plan_completed event with summary statistics.
func (j *Journal) PlanCompleted(planID string, completed, total int, duration time.Duration) error {
	return j.Log(EventPlanCompleted, map[string]interface{}{
		"plan_id":         planID,
		"completed_tasks": completed,
		"total_tasks":     total,
		"duration_ms":     duration.Milliseconds(),
	})
}

// PlanFailed logs a plan_failed event with summary statistics.
func (j *Journal) PlanFailed(planID string, completed, total int, duration time.Duration) error {
	return j.Log(EventPlanFailed, map[string]interface{}{
		"plan_id":         planID,
		"completed_tasks": completed,
		"total_tasks":     total,
		"duration_ms":     duration.Milliseconds(),
	})
}

// PlanCancelled logs a plan_cancelled event.
func (j *Journal) PlanCancelled(planID string, completed, total int) error {
	return j.Log(EventPlanCancelled, map[string]interface{}{
		"plan_id":         planID,
		"completed_tasks": completed,
		"total_tasks":     total,
	})
}
