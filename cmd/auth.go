package main

import (
	"fmt"

	"drive-inventory/internal/config"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize read-only access to Google Drive metadata",
	Long: `Run the OAuth installed-app flow and store the token next to the config.

Open the printed URL, approve access, and paste the code back. The token is
reused (and refreshed) by later scans. Service account keys need no token.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if config.GetCredentialsPath(cfg) == "" {
			return fmt.Errorf("no credentials file found; pass --credentials or place %s in the config directory", config.CredentialsFileName)
		}

		provider, err := newAuthProvider(cfg)
		if err != nil {
			return err
		}

		if err := provider.Authenticate(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Authentication successful")

		return nil
	},
}

var authRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Delete the stored token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		provider, err := newAuthProvider(cfg)
		if err != nil {
			return err
		}

		if err := provider.Revoke(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Stored token removed")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authRevokeCmd)
}
