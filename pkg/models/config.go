package models

import "time"

// Config represents the application configuration.
type Config struct {
	// Authentication settings
	Auth AuthConfig `json:"auth" yaml:"auth"`

	// Defaults applied to every scan unless overridden
	Defaults ReportDefaults `json:"defaults" yaml:"defaults"`

	// Retry policy for folder listing calls
	Retry RetryConfig `json:"retry" yaml:"retry"`

	// Named scans, run by `drive-inventory scan` when no folder is given
	Scans map[string]ScanConfig `json:"scans" yaml:"scans"`
}

// AuthConfig defines where credentials live and how long the interactive
// code exchange may wait.
type AuthConfig struct {
	CredentialsPath string        `json:"credentials_path" yaml:"credentials_path"`
	TokenPath       string        `json:"token_path"       yaml:"token_path"`
	AuthTimeout     time.Duration `json:"auth_timeout"     yaml:"auth_timeout"`
}

// ReportDefaults holds report and traversal settings shared by all scans.
type ReportDefaults struct {
	Format       string   `json:"format"        yaml:"format"`    // "xlsx", "csv", "sqlite"
	Separator    string   `json:"separator"     yaml:"separator"` // path separator, default "/"
	IncludeSize  bool     `json:"include_size"  yaml:"include_size"`
	PageSize     int      `json:"page_size"     yaml:"page_size"` // 1..1000
	SharedDrives bool     `json:"shared_drives" yaml:"shared_drives"`
	Types        []string `json:"types"         yaml:"types"` // presets: "image", "document", "any"
	MimeTypes    []string `json:"mime_types"    yaml:"mime_types"`
	SheetName    string   `json:"sheet_name"    yaml:"sheet_name"`
	OutputDir    string   `json:"output_dir"    yaml:"output_dir"`
}

// RetryConfig bounds the exponential backoff applied to transient failures.
type RetryConfig struct {
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts"`
	BaseDelay   time.Duration `json:"base_delay"   yaml:"base_delay"`
	MaxDelay    time.Duration `json:"max_delay"    yaml:"max_delay"`
}

// ScanConfig describes one named scan. Empty fields fall back to Defaults.
type ScanConfig struct {
	Enabled   bool     `json:"enabled"              yaml:"enabled"`
	FolderID  string   `json:"folder_id"            yaml:"folder_id"` // id or folder URL
	Label     string   `json:"label,omitempty"      yaml:"label,omitempty"`
	Output    string   `json:"output,omitempty"     yaml:"output,omitempty"`
	Format    string   `json:"format,omitempty"     yaml:"format,omitempty"`
	Types     []string `json:"types,omitempty"      yaml:"types,omitempty"`
	MimeTypes []string `json:"mime_types,omitempty" yaml:"mime_types,omitempty"`
	Since     string   `json:"since,omitempty"      yaml:"since,omitempty"`
}
