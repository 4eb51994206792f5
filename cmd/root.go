package main

import (
	"fmt"
	"log/slog"
	"os"

	"drive-inventory/internal/config"

	"github.com/spf13/cobra"
)

var (
	credentialsPath string
	configDir       string
	debugMode       bool
)

var rootCmd = &cobra.Command{
	Use:   "drive-inventory",
	Short: "Inventory the files below a Google Drive folder",
	Long: `drive-inventory walks a Google Drive folder tree and writes a report of the
matching files (name, id, link and folder path) to XLSX, CSV or SQLite.

Commands:
  scan      Walk a folder, or the configured scans, into reports
  auth      Authorize access to Google Drive (read-only metadata)
  config    Manage configuration files`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if debugMode {
			level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if credentialsPath != "" {
			config.SetCustomCredentialsPath(credentialsPath)
		}

		if configDir != "" {
			config.SetCustomConfigDir(configDir)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&credentialsPath, "credentials", "c", "", "Path to credentials.json (OAuth client or service account key)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Custom configuration directory")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
