package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"drive-inventory/internal/filter"
	"drive-inventory/internal/sinks"
	"drive-inventory/internal/sources/google/drive"
	"drive-inventory/pkg/models"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "config.yaml"

// LoadConfig loads configuration from the standard search paths. When no
// file exists the defaults are returned.
func LoadConfig() (*models.Config, error) {
	// Search for config file in order:
	// 1. Custom config dir (if set)
	// 2. Global config directory
	// 3. Current directory
	for _, configPath := range getConfigSearchPaths() {
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return GetDefaultConfig(), nil
}

// FindConfigFile returns the config file LoadConfig would read, or "" when
// none exists.
func FindConfigFile() string {
	for _, configPath := range getConfigSearchPaths() {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return ""
}

// SaveConfig saves configuration to the appropriate location and returns
// the path written.
func SaveConfig(cfg *models.Config) (string, error) {
	configPath, err := getConfigFilePath()
	if err != nil {
		return "", fmt.Errorf("failed to get config file path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *models.Config {
	return &models.Config{
		Auth: models.AuthConfig{
			AuthTimeout: 5 * time.Minute,
		},
		Defaults: models.ReportDefaults{
			Format:    sinks.FormatXLSX,
			Separator: "/",
			PageSize:  1000,
			Types:     []string{filter.PresetImage},
			MimeTypes: []string{},
			SheetName: sinks.DefaultSheetName,
			OutputDir: ".",
		},
		Retry: models.RetryConfig{
			MaxAttempts: 5,
			BaseDelay:   time.Second,
			MaxDelay:    30 * time.Second,
		},
		Scans: map[string]models.ScanConfig{
			"images": {
				Enabled:  false,
				FolderID: "",
				Output:   "FileList.xlsx",
				Types:    []string{filter.PresetImage},
			},
		},
	}
}

// CreateDefaultConfig creates and saves a default configuration.
func CreateDefaultConfig() (string, error) {
	return SaveConfig(GetDefaultConfig())
}

// getConfigSearchPaths returns the list of paths to search for config files.
func getConfigSearchPaths() []string {
	var paths []string

	if customConfigDir != "" {
		paths = append(paths, filepath.Join(customConfigDir, ConfigFileName))
	}

	if globalConfigDir, err := GetConfigDir(); err == nil && globalConfigDir != customConfigDir {
		paths = append(paths, filepath.Join(globalConfigDir, ConfigFileName))
	}

	paths = append(paths, ConfigFileName)

	return paths
}

// getConfigFilePath returns the path where config should be saved.
func getConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ConfigFileName), nil
}

// loadConfigFromFile loads configuration from a specific file. Fields the
// file leaves out keep their defaults.
func loadConfigFromFile(configPath string) (*models.Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := GetDefaultConfig()
	// Scans are replaced, never merged with the sample entry.
	cfg.Scans = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Auth.AuthTimeout < 0 {
		return fmt.Errorf("auth configuration error: auth_timeout must not be negative")
	}

	if err := validateDefaults(&cfg.Defaults); err != nil {
		return fmt.Errorf("defaults configuration error: %w", err)
	}

	if err := validateRetry(&cfg.Retry); err != nil {
		return fmt.Errorf("retry configuration error: %w", err)
	}

	if err := validateScans(cfg.Scans); err != nil {
		return fmt.Errorf("scans configuration error: %w", err)
	}

	return nil
}

func validateDefaults(d *models.ReportDefaults) error {
	if err := validateFormat(d.Format); err != nil {
		return err
	}

	if d.PageSize < 0 || d.PageSize > 1000 {
		return fmt.Errorf("page_size must be between 1 and 1000, got %d", d.PageSize)
	}

	if err := validateTypes(d.Types); err != nil {
		return err
	}

	return nil
}

func validateRetry(r *models.RetryConfig) error {
	if r.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1")
	}

	if r.BaseDelay < 0 || r.MaxDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}

	if r.MaxDelay > 0 && r.MaxDelay < r.BaseDelay {
		return fmt.Errorf("max_delay (%s) is shorter than base_delay (%s)", r.MaxDelay, r.BaseDelay)
	}

	return nil
}

func validateScans(scans map[string]models.ScanConfig) error {
	names := make([]string, 0, len(scans))
	for name := range scans {
		names = append(names, name)
	}

	sort.Strings(names)

	var errs []error

	for _, name := range names {
		if err := validateScanConfig(scans[name]); err != nil {
			errs = append(errs, fmt.Errorf("scan '%s': %w", name, err))
		}
	}

	return errors.Join(errs...)
}

func validateScanConfig(sc models.ScanConfig) error {
	if !sc.Enabled && sc.FolderID == "" {
		return nil
	}

	if _, err := drive.ExtractFileID(sc.FolderID); err != nil {
		return fmt.Errorf("folder_id: %w", err)
	}

	if err := validateFormat(sc.Format); err != nil {
		return err
	}

	if sc.Format == "" && sc.Output != "" {
		if _, err := sinks.FormatFromPath(sc.Output); err != nil {
			return err
		}
	}

	if err := validateTypes(sc.Types); err != nil {
		return err
	}

	if sc.Since != "" {
		if _, err := filter.ParseSince(sc.Since); err != nil {
			return fmt.Errorf("since: %w", err)
		}
	}

	return nil
}

func validateFormat(format string) error {
	if format == "" || slices.Contains(sinks.Formats(), format) {
		return nil
	}

	return fmt.Errorf("unsupported format %q (supported: %v)", format, sinks.Formats())
}

func validateTypes(types []string) error {
	for _, t := range types {
		if !slices.Contains(filter.Presets(), t) {
			return fmt.Errorf("unknown file type %q (supported: %v)", t, filter.Presets())
		}
	}

	return nil
}
