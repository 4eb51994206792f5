package config

import (
	"fmt"
	"os"
	"path/filepath"

	"drive-inventory/pkg/models"
)

const (
	AppName             = "drive-inventory"
	CredentialsFileName = "credentials.json"
	TokenFileName       = "token.json"
)

var (
	customConfigDir       string
	customCredentialsPath string
)

// SetCustomConfigDir overrides the configuration directory (--config-dir).
func SetCustomConfigDir(dir string) {
	customConfigDir = dir
}

// SetCustomCredentialsPath overrides the credentials file (--credentials).
func SetCustomCredentialsPath(path string) {
	customCredentialsPath = path
}

// GetConfigDir returns the directory holding config.yaml and the saved token:
// the custom directory when set, else $XDG_CONFIG_HOME/drive-inventory
// (~/.config/drive-inventory).
func GetConfigDir() (string, error) {
	if customConfigDir != "" {
		return customConfigDir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}

	return filepath.Join(base, AppName), nil
}

// GetCredentialsPath resolves the client secret file. An empty result means
// no file was found and application default credentials apply.
func GetCredentialsPath(cfg *models.Config) string {
	if customCredentialsPath != "" {
		return customCredentialsPath
	}

	if cfg != nil && cfg.Auth.CredentialsPath != "" {
		return cfg.Auth.CredentialsPath
	}

	var candidates []string
	if dir, err := GetConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, CredentialsFileName))
	}

	candidates = append(candidates, CredentialsFileName)

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// GetTokenPath returns where the OAuth token is stored.
func GetTokenPath(cfg *models.Config) (string, error) {
	if cfg != nil && cfg.Auth.TokenPath != "" {
		return cfg.Auth.TokenPath, nil
	}

	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, TokenFileName), nil
}
