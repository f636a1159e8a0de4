package automation

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Events receives callbacks during simulated plan execution. Implement this
// in the consumer (dashboard, CLI) to observe progress. Callbacks fire from
// the runner goroutine; OnPlanDone is only delivered for runs that settle
// naturally, not for stopped runs.
type Events interface {
	// OnTaskStart is called when a task is marked in_progress
	OnTaskStart(taskNum, total int, task Task)

	// OnTaskComplete is called when a task resolves to completed
	OnTaskComplete(task Task)

	// OnTaskFailed is called when a task resolves to failed
	OnTaskFailed(task Task, err error)

	// OnPlanDone is called after the run settles and its log is recorded
	OnPlanDone(log ExecutionLog)
}

type noopEvents struct{}

func (noopEvents) OnTaskStart(int, int, Task) {}
func (noopEvents) OnTaskComplete(Task) {}
func (noopEvents) OnTaskFailed(Task, error) {}
func (noopEvents) OnPlanDone(ExecutionLog) {}

// runnerState models the runner lifecycle. Transitions are one-way:
// idle -> running -> settled, with stopping entered only from running.
type runnerState int

const (
	runnerIdle runnerState = iota
	runnerRunning
	runnerStopping
	runnerSettled
)

// Runner advances a plan's tasks one at a time on a timer, simulating
// per-task latency and a small failure probability. All task mutations go
// through the owning store, which drops updates from a runner that has
// been stopped or superseded.
type Runner struct {
	mu    sync.Mutex
	state runnerState

	store  *Store
	events Events

	tick         time.Duration
	minTaskDelay time.Duration
	maxTaskDelay time.Duration

	rng        *rand.Rand
	shouldFail func(taskIndex int) bool

	planID    string
	taskIDs   []string
	startedAt time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// Start moves the runner from idle to running and launches the execution
// goroutine. A runner can be started at most once.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != runnerIdle {
		return errors.New("runner already started")
	}
	r.state = runnerRunning
	r.startedAt = time.Now()
	go r.run()
	return nil
}

// Stop requests cancellation. It cancels both the inter-task tick wait and
// any pending task-resolution wait; a resolution that already raced past
// the stop signal is discarded by the store-side guard. Idempotent.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != runnerRunning {
		return
	}
	r.state = runnerStopping
	close(r.stopCh)
}

// Done returns a channel closed when the execution goroutine has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.doneCh
}

// stopRequested reports whether Stop has been called.
func (r *Runner) stopRequested() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == runnerStopping
}

func (r *Runner) settle() {
	r.mu.Lock()
	r.state = runnerSettled
	r.mu.Unlock()
}

// run is the execution loop: tick, mark the next task in_progress, wait a
// randomized resolution delay, resolve it, advance. A failed task never
// aborts the run; remaining tasks still execute.
func (r *Runner) run() {
	defer close(r.doneCh)
	defer r.settle()

	total := len(r.taskIDs)
	for i := 0; i < total; i++ {
		if !r.wait(r.tick) {
			return
		}

		task, ok := r.store.beginTask(r, r.taskIDs[i])
		if !ok {
			return
		}
		r.events.OnTaskStart(i+1, total, task)

		if !r.wait(r.resolutionDelay()) {
			return
		}

		if r.shouldFail(i) {
			errMsg := fmt.Sprintf("agent reported an error while executing %q", task.Action)
			updated, ok := r.store.resolveTask(r, task.ID, TaskStatusFailed, errMsg)
			if !ok {
				return
			}
			r.events.OnTaskFailed(updated, errors.New(errMsg))
		} else {
			updated, ok := r.store.resolveTask(r, task.ID, TaskStatusCompleted, "")
			if !ok {
				return
			}
			r.events.OnTaskComplete(updated)
		}
	}

	log, ok := r.store.settleRun(r, time.Since(r.startedAt))
	if !ok {
		return
	}
	r.events.OnPlanDone(log)
}

// resolutionDelay picks a randomized per-task delay within the configured
// window.
func (r *Runner) resolutionDelay() time.Duration {
	if r.maxTaskDelay <= r.minTaskDelay {
		return r.minTaskDelay
	}
	window := int64(r.maxTaskDelay - r.minTaskDelay)
	return r.minTaskDelay + time.Duration(r.rng.Int63n(window+1))
}

// wait blocks for the given duration, returning false if the runner is
// stopped first.
func (r *Runner) wait(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-r.stopCh:
			return false
		default:
			return true
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-r.stopCh:
		return false
	case <-timer.C:
		return true
	}
}
