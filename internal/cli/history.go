package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyClearFlag bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the automation run history",
	Long:  `History lists past plan runs, newest first. At most 50 runs are retained.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyClearFlag, "clear", false, "clear the run history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(nil)
	if err != nil {
		return err
	}

	if historyClearFlag {
		store.ClearHistory()
		fmt.Println("History cleared.")
		return nil
	}

	history := store.State().ExecutionHistory
	if len(history) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPLAN\tSTATUS\tTASKS\tDURATION")

	for _, entry := range history {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
			formatAge(entry.ExecutedAt),
			entry.PlanTitle,
			entry.Status,
			entry.TasksCompleted,
			entry.TotalTasks,
			formatRunDuration(entry.DurationMS),
		)
	}

	return w.Flush()
}

// formatAge returns a human-readable relative time string.
func formatAge(t time.Time) string {
	now := time.Now()
	duration := now.Sub(t)

	if duration < time.Minute {
		return "just now"
	}

	minutes := int(duration.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := int(duration.Hours())
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd ago", days)
}
