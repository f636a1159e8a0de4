package cli

import (
	"github.com/novahq/nova/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "nova",
	Short:   "Desktop automation companion for Nova",
	Long:    `Nova runs simulated desktop automation plans: pick a plan, watch its tasks execute, review the run history.`,
	Version: version.Version,
}

var stateDirFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDirFlag, "state-dir", "", "override the state directory (default ~/.nova)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
