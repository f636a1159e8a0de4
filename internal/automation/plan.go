package automation

import "time"

// Plan represents one automation run: an ordered, fixed-length list of tasks
// instantiated from a template. Tasks are never added or removed after
// instantiation; only their statuses change.
type Plan struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
	Tasks       []Task    `json:"tasks"`
}

// Plan status constants
const (
	PlanStatusReady     = "ready"
	PlanStatusExecuting = "executing"
	PlanStatusCompleted = "completed"
	PlanStatusFailed    = "failed"
	PlanStatusCancelled = "cancelled"
)

// TaskByID returns a pointer to the task with the given id, or nil.
func (p *Plan) TaskByID(id string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// AllTasksCompleted returns true if every task has status completed.
func (p *Plan) AllTasksCompleted() bool {
	for i := range p.Tasks {
		if p.Tasks[i].Status != TaskStatusCompleted {
			return false
		}
	}
	return true
}

// AnyTaskFailed returns true if at least one task has status failed.
func (p *Plan) AnyTaskFailed() bool {
	for i := range p.Tasks {
		if p.Tasks[i].Status == TaskStatusFailed {
			return true
		}
	}
	return false
}

// CountCompleted returns the number of completed tasks.
func (p *Plan) CountCompleted() int {
	count := 0
	for i := range p.Tasks {
		if p.Tasks[i].Status == TaskStatusCompleted {
			count++
		}
	}
	return count
}

// RecomputeStatus reapplies the plan-level status rule after a task update.
// A failed task takes precedence over completion: once any task has failed
// the plan reports failed for the rest of the run, even while remaining
// tasks continue to execute. Otherwise the plan is completed only when
// every task is completed. Non-settling updates leave the status unchanged.
func (p *Plan) RecomputeStatus() {
	if p.AnyTaskFailed() {
		p.Status = PlanStatusFailed
		return
	}
	if len(p.Tasks) > 0 && p.AllTasksCompleted() {
		p.Status = PlanStatusCompleted
	}
}

// Clone returns a deep copy of the plan. Snapshots handed out to consumers
// must not share mutable references with the store's copy.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	cloned := *p
	cloned.Tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		if t.StartedAt != nil {
			started := *t.StartedAt
			t.StartedAt = &started
		}
		if t.CompletedAt != nil {
			completed := *t.CompletedAt
			t.CompletedAt = &completed
		}
		cloned.Tasks[i] = t
	}
	return &cloned
}
