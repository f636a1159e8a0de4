package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var consentCmd = &cobra.Command{
	Use:   "consent",
	Short: "Manage automation consent",
	Long:  `Consent gates whether automation may ever be armed. It persists across sessions and can be revoked at any time.`,
}

var consentGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant automation consent",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(nil)
		if err != nil {
			return err
		}
		store.SetConsent(true)
		fmt.Println("Consent granted.")
		return nil
	},
}

var consentRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke automation consent",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(nil)
		if err != nil {
			return err
		}
		store.SetConsent(false)
		fmt.Println("Consent revoked.")
		return nil
	},
}

var consentStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether consent is granted",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore(nil)
		if err != nil {
			return err
		}
		if store.State().HasConsent {
			fmt.Println("Consent: granted")
		} else {
			fmt.Println("Consent: not granted")
		}
		return nil
	},
}

func init() {
	consentCmd.AddCommand(consentGrantCmd, consentRevokeCmd, consentStatusCmd)
	rootCmd.AddCommand(consentCmd)
}
