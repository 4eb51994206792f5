package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

const tokenFileMode = 0o600

// LoadToken reads a saved OAuth token. A missing file returns (nil, nil).
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &tok, nil
}

// SaveToken writes tok to path with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, tokenFileMode); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, tokenFileMode); err != nil {
		return fmt.Errorf("failed to set token file permissions: %w", err)
	}

	return nil
}

// persistingTokenSource saves every newly issued access token so a refresh
// survives the process.
type persistingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last string
}

func newPersistingTokenSource(base oauth2.TokenSource, path string, current *oauth2.Token) *persistingTokenSource {
	s := &persistingTokenSource{base: base, path: path}
	if current != nil {
		s.last = current.AccessToken
	}

	return s
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tok.AccessToken != s.last {
		if err := SaveToken(s.path, tok); err != nil {
			slog.Warn("Failed to persist refreshed token", "path", s.path, "error", err)
		} else {
			slog.Debug("Persisted refreshed token", "path", s.path)
		}

		s.last = tok.AccessToken
	}

	return tok, nil
}
