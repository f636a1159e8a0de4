package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show automation and agent status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(nil)
	if err != nil {
		return err
	}
	state := store.State()

	fmt.Printf("Consent:    %s\n", yesNo(state.HasConsent, "granted", "not granted"))
	fmt.Printf("Automation: %s\n", yesNo(state.IsEnabled, "armed", "disarmed"))
	fmt.Printf("Agent:      %s, version %s\n",
		yesNo(state.Agent.IsInstalled, "installed", "not installed"), state.Agent.Version)
	if state.Agent.IsRunning {
		fmt.Printf("            running, last heartbeat %s\n", formatAge(state.Agent.LastHeartbeat))
	}
	fmt.Printf("History:    %d run(s) recorded\n", len(state.ExecutionHistory))
	return nil
}

func yesNo(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
