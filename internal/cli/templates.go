package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/novahq/nova/internal/automation"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List built-in automation plan templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tSTEPS")

	for _, tmpl := range automation.BuiltinTemplates() {
		fmt.Fprintf(w, "%s\t%s\t%d\n", tmpl.Name, tmpl.Title, len(tmpl.Actions))
	}

	return w.Flush()
}
