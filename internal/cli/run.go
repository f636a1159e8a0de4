package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/novahq/nova/internal/automation"
	"github.com/novahq/nova/internal/display"
	"github.com/spf13/cobra"
)

var runYesFlag bool

var runCmd = &cobra.Command{
	Use:   "run <template>",
	Short: "Run an automation plan from a built-in template",
	Long:  `Run instantiates a built-in plan template and executes it with simulated task latency, showing live progress. Requires consent (see 'nova consent grant').`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runYesFlag, "yes", "y", false, "grant automation consent if not already granted")
	rootCmd.AddCommand(runCmd)
}

// runEvents bridges runner callbacks to the terminal status line.
type runEvents struct {
	disp *display.Display
	done chan automation.ExecutionLog
}

func (e *runEvents) OnTaskStart(taskNum, total int, task automation.Task) {
	e.disp.UpdateTask(taskNum, total, task.ID, task.Action)
	e.disp.UpdateStatus(display.StatusRunning)
}

func (e *runEvents) OnTaskComplete(task automation.Task) {
	e.disp.PrintAbove("✓ %s", task.Action)
}

func (e *runEvents) OnTaskFailed(task automation.Task, err error) {
	e.disp.PrintAbove("✗ %s: %v", task.Action, err)
}

func (e *runEvents) OnPlanDone(log automation.ExecutionLog) {
	e.done <- log
}

func runRun(cmd *cobra.Command, args []string) error {
	tmpl, ok := automation.FindTemplate(args[0])
	if !ok {
		return fmt.Errorf("unknown template %q (see 'nova templates')", args[0])
	}

	events := &runEvents{
		disp: display.New(os.Stdout),
		done: make(chan automation.ExecutionLog, 1),
	}
	store, _, err := openStore(events)
	if err != nil {
		return err
	}

	if !store.State().HasConsent {
		if !runYesFlag {
			return fmt.Errorf("automation requires consent; run 'nova consent grant' or pass --yes")
		}
		store.SetConsent(true)
	}
	store.EnableAutomation()

	plan, err := tmpl.Instantiate()
	if err != nil {
		return err
	}
	store.SetPlan(plan)

	fmt.Printf("Running: %s (%d tasks)\n", plan.Title, len(plan.Tasks))
	events.disp.Start()

	if !store.ExecutePlan() {
		events.disp.Stop()
		return fmt.Errorf("failed to start execution")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	select {
	case log := <-events.done:
		events.disp.Stop()
		if log.Status == automation.PlanStatusCompleted {
			fmt.Printf("\nPlan completed: %d/%d tasks in %s\n",
				log.TasksCompleted, log.TotalTasks, formatRunDuration(log.DurationMS))
			return nil
		}
		fmt.Printf("\nPlan failed: %d/%d tasks completed\n", log.TasksCompleted, log.TotalTasks)
		return fmt.Errorf("plan %s failed", plan.ID)

	case <-sigCh:
		store.StopExecution()
		events.disp.Stop()
		state := store.State()
		completed := 0
		total := len(plan.Tasks)
		if state.CurrentPlan != nil {
			completed = state.CurrentPlan.CountCompleted()
		}
		fmt.Printf("\nStopped. Completed %d/%d tasks.\n", completed, total)
		return nil
	}
}

// formatRunDuration renders a millisecond duration as MM:SS or HH:MM:SS.
func formatRunDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
