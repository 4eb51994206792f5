package main

import (
	"fmt"

	"drive-inventory/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.yaml",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if existing := config.FindConfigFile(); existing != "" && !configInitForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", existing)
		}

		path, err := config.CreateDefaultConfig()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", path)

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if path := config.FindConfigFile(); path != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "# defaults (no config file found)")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for errors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if err := config.ValidateConfig(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid (%d enabled scans)\n", len(getEnabledScans(cfg)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configValidateCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
}
