package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"drive-inventory/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config lookup at fresh temp directories.
func isolate(t *testing.T) string {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	SetCustomConfigDir(dir)
	SetCustomCredentialsPath("")

	t.Cleanup(func() {
		SetCustomConfigDir("")
		SetCustomCredentialsPath("")
	})

	return dir
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfig_MergesOverDefaults(t *testing.T) {
	dir := isolate(t)

	yamlData := `
defaults:
  format: csv
  separator: " / "
  include_size: true
retry:
  base_delay: 2s
scans:
  team:
    enabled: true
    folder_id: https://drive.google.com/drive/folders/1Team
    output: team.csv
    types: [image, document]
    since: 30d
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(yamlData), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Defaults.Format)
	assert.Equal(t, " / ", cfg.Defaults.Separator)
	assert.True(t, cfg.Defaults.IncludeSize)
	assert.Equal(t, 1000, cfg.Defaults.PageSize, "unset fields keep defaults")
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)

	require.Len(t, cfg.Scans, 1, "sample scan is not merged in")
	team := cfg.Scans["team"]
	assert.True(t, team.Enabled)
	assert.Equal(t, []string{"image", "document"}, team.Types)

	assert.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, filepath.Join(dir, ConfigFileName), FindConfigFile())
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("defaults: [unclosed"), 0o644))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := GetDefaultConfig()
	cfg.Retry.MaxDelay = time.Minute
	cfg.Scans["images"] = models.ScanConfig{Enabled: true, FolderID: "1abc", Output: "out.xlsx"}

	path, err := SaveConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), path)

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, loaded.Retry.MaxDelay)
	assert.Equal(t, cfg.Scans, loaded.Scans)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Config)
		wantErr string
	}{
		{"defaults are valid", func(*models.Config) {}, ""},
		{"unknown format", func(c *models.Config) { c.Defaults.Format = "pdf" }, "unsupported format"},
		{"page size too large", func(c *models.Config) { c.Defaults.PageSize = 5000 }, "page_size"},
		{"unknown type", func(c *models.Config) { c.Defaults.Types = []string{"video"} }, "unknown file type"},
		{"no attempts", func(c *models.Config) { c.Retry.MaxAttempts = 0 }, "max_attempts"},
		{"max below base", func(c *models.Config) {
			c.Retry.BaseDelay = time.Minute
			c.Retry.MaxDelay = time.Second
		}, "max_delay"},
		{"negative timeout", func(c *models.Config) { c.Auth.AuthTimeout = -time.Second }, "auth_timeout"},
		{"enabled scan without folder", func(c *models.Config) {
			c.Scans["images"] = models.ScanConfig{Enabled: true}
		}, "folder_id"},
		{"scan output without known extension", func(c *models.Config) {
			c.Scans["images"] = models.ScanConfig{Enabled: true, FolderID: "1abc", Output: "report.txt"}
		}, "cannot infer"},
		{"scan bad since", func(c *models.Config) {
			c.Scans["images"] = models.ScanConfig{Enabled: true, FolderID: "1abc", Since: "not a date"}
		}, "since"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Error(t, ValidateConfig(nil))
}

func TestPaths(t *testing.T) {
	dir := isolate(t)

	got, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	tokenPath, err := GetTokenPath(nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, TokenFileName), tokenPath)

	tokenPath, err = GetTokenPath(&models.Config{Auth: models.AuthConfig{TokenPath: "/tmp/t.json"}})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/t.json", tokenPath)

	assert.Empty(t, GetCredentialsPath(nil), "no credentials file means default credentials")

	creds := filepath.Join(dir, CredentialsFileName)
	require.NoError(t, os.WriteFile(creds, []byte("{}"), 0o600))
	assert.Equal(t, creds, GetCredentialsPath(nil))

	cfg := &models.Config{Auth: models.AuthConfig{CredentialsPath: "/etc/creds.json"}}
	assert.Equal(t, "/etc/creds.json", GetCredentialsPath(cfg))

	SetCustomCredentialsPath("/flag/creds.json")
	assert.Equal(t, "/flag/creds.json", GetCredentialsPath(cfg))
}

func TestGetConfigDir_XDG(t *testing.T) {
	SetCustomConfigDir("")

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	got, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, AppName), got)
}
