package automation

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Default runner pacing. Overridable per store for headless runs and tests.
const (
	DefaultTickInterval = 500 * time.Millisecond
	DefaultMinTaskDelay = 1 * time.Second
	DefaultMaxTaskDelay = 3 * time.Second

	// DefaultFailureRate is the 1-in-N chance that a simulated task fails.
	DefaultFailureRate = 20
)

// State is a point-in-time snapshot of the automation state. The plan and
// history are copies; mutating them does not affect the store.
type State struct {
	IsEnabled        bool
	HasConsent       bool
	Agent            AgentStatus
	CurrentPlan      *Plan
	ExecutionHistory []ExecutionLog
}

// Store is the single source of truth for automation enablement, consent,
// the active plan and the run history. All mutations are serialized by the
// store's mutex and go through its operations; consent and history are
// written through to storage after each relevant transition.
type Store struct {
	mu sync.Mutex

	storage *Storage
	journal *Journal
	logger  zerolog.Logger
	events  Events

	tick         time.Duration
	minTaskDelay time.Duration
	maxTaskDelay time.Duration
	failureRate  int
	failureFn    func(taskIndex int) bool
	rng          *rand.Rand
	agentVersion string

	enabled bool
	consent bool
	agent   AgentStatus
	plan    *Plan
	history []ExecutionLog
	runner  *Runner
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithEvents sets the callback sink for runner progress.
func WithEvents(events Events) Option {
	return func(s *Store) { s.events = events }
}

// WithTiming overrides the runner tick interval and task delay window.
func WithTiming(tick, minTaskDelay, maxTaskDelay time.Duration) Option {
	return func(s *Store) {
		s.tick = tick
		s.minTaskDelay = minTaskDelay
		s.maxTaskDelay = maxTaskDelay
	}
}

// WithFailureRate sets the 1-in-N simulated failure chance. Zero disables
// simulated failures.
func WithFailureRate(rate int) Option {
	return func(s *Store) { s.failureRate = rate }
}

// WithFailureFunc replaces the random failure decision with a deterministic
// one, keyed by task index.
func WithFailureFunc(fn func(taskIndex int) bool) Option {
	return func(s *Store) { s.failureFn = fn }
}

// WithRand sets the pseudo-random source used for task delays and outcomes.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// WithAgentVersion sets the version reported in the simulated agent status.
func WithAgentVersion(version string) Option {
	return func(s *Store) { s.agentVersion = version }
}

// NewStore creates a store backed by the given storage, loading the
// persisted consent flag and history.
func NewStore(storage *Storage, opts ...Option) *Store {
	s := &Store{
		storage:      storage,
		journal:      NewJournal(storage.Dir()),
		logger:       zerolog.Nop(),
		events:       noopEvents{},
		tick:         DefaultTickInterval,
		minTaskDelay: DefaultMinTaskDelay,
		maxTaskDelay: DefaultMaxTaskDelay,
		failureRate:  DefaultFailureRate,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		agentVersion: "0.3.1",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.consent = storage.LoadConsent()
	s.history = storage.LoadHistory()
	s.agent = deriveAgentStatus(s.consent, false, s.agentVersion, time.Now())
	return s
}

// State returns a snapshot of the automation state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]ExecutionLog, len(s.history))
	copy(history, s.history)

	return State{
		IsEnabled:        s.enabled,
		HasConsent:       s.consent,
		Agent:            s.agent,
		CurrentPlan:      s.plan.Clone(),
		ExecutionHistory: history,
	}
}

// Running reports whether a plan is currently executing.
func (s *Store) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runner != nil
}

// SetConsent records the user's automation consent and persists it. Without
// consent the simulated agent reports as not installed.
func (s *Store) SetConsent(consent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.consent = consent
	if err := s.storage.SaveConsent(consent); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist consent")
	}
	s.agent = deriveAgentStatus(s.consent, s.enabled, s.agentVersion, time.Now())
	s.logger.Info().Bool("consent", consent).Msg("consent updated")
}

// EnableAutomation arms automation. No-op without prior consent.
func (s *Store) EnableAutomation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.consent {
		s.logger.Debug().Msg("enable ignored: no consent")
		return
	}
	s.enabled = true
	s.agent = deriveAgentStatus(s.consent, s.enabled, s.agentVersion, time.Now())
	s.logger.Info().Msg("automation enabled")
}

// DisableAutomation disarms automation. Any in-flight run is cancelled the
// same way StopExecution cancels it, so no timers are left dangling.
func (s *Store) DisableAutomation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enabled = false
	s.stopExecutionLocked()
	s.agent = deriveAgentStatus(s.consent, s.enabled, s.agentVersion, time.Now())
	s.logger.Info().Msg("automation disabled")
}

// SetPlan replaces the current plan wholesale; nil resets it. The store
// takes ownership of the plan. Callers must not swap plans while a run is
// in flight.
func (s *Store) SetPlan(p *Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plan = p
	if p != nil {
		s.logger.Debug().Str("plan", p.ID).Str("title", p.Title).Msg("plan selected")
	} else {
		s.logger.Debug().Msg("plan cleared")
	}
}

// UpdateTaskStatus applies a status transition to a task in the current
// plan and recomputes the plan-level status. Silent no-op if there is no
// current plan or the task id is unknown, since timer callbacks may race
// past a plan having been cleared.
func (s *Store) UpdateTaskStatus(taskID, status, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return
	}
	task := s.plan.TaskByID(taskID)
	if task == nil {
		return
	}
	s.applyTaskStatusLocked(task, status, errMsg)
}

// ExecutePlan starts simulated execution of the current plan. No-op unless
// a plan is selected and automation is enabled; a second call while a run
// is active is ignored rather than starting a concurrent runner. Returns
// whether a run was started.
func (s *Store) ExecutePlan() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.plan == nil || s.runner != nil {
		return false
	}

	s.plan.Status = PlanStatusExecuting

	failureFn := s.failureFn
	if failureFn == nil {
		rate := s.failureRate
		rng := s.rng
		failureFn = func(int) bool {
			return rate > 0 && rng.Intn(rate) == 0
		}
	}

	taskIDs := make([]string, len(s.plan.Tasks))
	for i := range s.plan.Tasks {
		taskIDs[i] = s.plan.Tasks[i].ID
	}

	r := &Runner{
		store:        s,
		events:       s.events,
		tick:         s.tick,
		minTaskDelay: s.minTaskDelay,
		maxTaskDelay: s.maxTaskDelay,
		rng:          s.rng,
		shouldFail:   failureFn,
		planID:       s.plan.ID,
		taskIDs:      taskIDs,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
	s.runner = r

	if err := s.journal.PlanStarted(s.plan.ID, s.plan.Title, len(taskIDs)); err != nil {
		s.logger.Debug().Err(err).Msg("failed to journal plan start")
	}
	s.logger.Info().Str("plan", s.plan.ID).Int("tasks", len(taskIDs)).Msg("execution started")

	// The goroutine blocks on the store mutex until this call returns.
	if err := r.Start(); err != nil {
		s.runner = nil
		return false
	}
	return true
}

// StopExecution cancels any active run: every pending, queued or
// in_progress task becomes cancelled, terminal tasks are left untouched,
// the plan settles as cancelled and a cancelled execution log with zero
// duration is recorded.
func (s *Store) StopExecution() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopExecutionLocked()
}

func (s *Store) stopExecutionLocked() {
	r := s.runner
	if r != nil {
		r.Stop()
		s.runner = nil
	}

	if s.plan == nil || (r == nil && s.plan.Status != PlanStatusExecuting) {
		return
	}

	now := time.Now()
	for i := range s.plan.Tasks {
		task := &s.plan.Tasks[i]
		switch task.Status {
		case TaskStatusPending, TaskStatusQueued, TaskStatusInProgress:
			task.Status = TaskStatusCancelled
			if task.CompletedAt == nil {
				completed := now
				task.CompletedAt = &completed
			}
		}
	}
	s.plan.Status = PlanStatusCancelled

	log := ExecutionLog{
		ID:             uuid.NewString(),
		PlanID:         s.plan.ID,
		PlanTitle:      s.plan.Title,
		Status:         PlanStatusCancelled,
		TasksCompleted: s.plan.CountCompleted(),
		TotalTasks:     len(s.plan.Tasks),
		ExecutedAt:     now,
		DurationMS:     0,
	}
	s.appendLogLocked(log)

	if err := s.journal.PlanCancelled(s.plan.ID, log.TasksCompleted, log.TotalTasks); err != nil {
		s.logger.Debug().Err(err).Msg("failed to journal cancellation")
	}
	s.logger.Info().Str("plan", s.plan.ID).Int("completed", log.TasksCompleted).Msg("execution cancelled")
}

// ClearHistory empties the execution history and removes its persisted copy.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	if err := s.storage.ClearHistory(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted history")
	}
	s.logger.Info().Msg("history cleared")
}

// applyTaskStatusLocked applies the task status invariants: StartedAt is
// stamped once on the transition into in_progress, CompletedAt once on
// entering a terminal state, and Error only on failure. The plan status is
// recomputed afterwards.
func (s *Store) applyTaskStatusLocked(task *Task, status, errMsg string) {
	now := time.Now()
	if status == TaskStatusInProgress && task.StartedAt == nil {
		task.StartedAt = &now
	}
	if IsTerminalTaskStatus(status) && task.CompletedAt == nil {
		task.CompletedAt = &now
	}
	if status == TaskStatusFailed {
		task.Error = errMsg
	}
	task.Status = status

	if s.plan != nil {
		s.plan.RecomputeStatus()
	}
}

// appendLogLocked records an execution log newest-first, evicting beyond
// the history limit, and writes the history through to storage.
func (s *Store) appendLogLocked(log ExecutionLog) {
	s.history = appendHistory(s.history, log)
	if err := s.storage.SaveHistory(s.history); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist history")
	}
}

// beginTask marks the next task in_progress on behalf of a runner. Updates
// from a stopped or superseded runner are dropped, as are updates once the
// plan has been cleared.
func (s *Store) beginTask(r *Runner, taskID string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runner != r || r.stopRequested() || s.plan == nil {
		return Task{}, false
	}
	task := s.plan.TaskByID(taskID)
	if task == nil {
		return Task{}, false
	}

	s.applyTaskStatusLocked(task, TaskStatusInProgress, "")
	if err := s.journal.TaskStarted(s.plan.ID, taskID); err != nil {
		s.logger.Debug().Err(err).Msg("failed to journal task start")
	}
	return *task, true
}

// resolveTask applies a runner's task outcome under the same guards as
// beginTask.
func (s *Store) resolveTask(r *Runner, taskID, status, errMsg string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runner != r || r.stopRequested() || s.plan == nil {
		return Task{}, false
	}
	task := s.plan.TaskByID(taskID)
	if task == nil {
		return Task{}, false
	}

	s.applyTaskStatusLocked(task, status, errMsg)

	var err error
	if status == TaskStatusFailed {
		err = s.journal.TaskFailed(s.plan.ID, taskID, errMsg)
	} else {
		err = s.journal.TaskCompleted(s.plan.ID, taskID)
	}
	if err != nil {
		s.logger.Debug().Err(err).Msg("failed to journal task resolution")
	}
	return *task, true
}

// settleRun records the natural settlement of a run: final plan status is
// completed iff every task completed, otherwise failed.
func (s *Store) settleRun(r *Runner, elapsed time.Duration) (ExecutionLog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runner != r || r.stopRequested() || s.plan == nil {
		return ExecutionLog{}, false
	}
	s.runner = nil

	final := PlanStatusFailed
	if s.plan.AllTasksCompleted() {
		final = PlanStatusCompleted
	}
	s.plan.Status = final

	log := ExecutionLog{
		ID:             uuid.NewString(),
		PlanID:         s.plan.ID,
		PlanTitle:      s.plan.Title,
		Status:         final,
		TasksCompleted: s.plan.CountCompleted(),
		TotalTasks:     len(s.plan.Tasks),
		ExecutedAt:     time.Now(),
		DurationMS:     elapsed.Milliseconds(),
	}
	s.appendLogLocked(log)

	var err error
	if final == PlanStatusCompleted {
		err = s.journal.PlanCompleted(s.plan.ID, log.TasksCompleted, log.TotalTasks, elapsed)
	} else {
		err = s.journal.PlanFailed(s.plan.ID, log.TasksCompleted, log.TotalTasks, elapsed)
	}
	if err != nil {
		s.logger.Debug().Err(err).Msg("failed to journal settlement")
	}
	s.logger.Info().Str("plan", s.plan.ID).Str("status", final).
		Int("completed", log.TasksCompleted).Int("total", log.TotalTasks).
		Msg("execution settled")

	return log, true
}
