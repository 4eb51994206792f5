package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type sequenceSource struct {
	tokens []*oauth2.Token
	err    error
}

func (s *sequenceSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}

	tok := s.tokens[0]
	if len(s.tokens) > 1 {
		s.tokens = s.tokens[1:]
	}

	return tok, nil
}

func TestLoadToken_Missing(t *testing.T) {
	tok, err := LoadToken(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestLoadToken_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := LoadToken(path)
	assert.Error(t, err)
}

func TestSaveToken_TightensExistingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	require.NoError(t, SaveToken(path, &oauth2.Token{AccessToken: "a"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestPersistingTokenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	current := &oauth2.Token{AccessToken: "one"}

	base := &sequenceSource{tokens: []*oauth2.Token{
		{AccessToken: "one"},
		{AccessToken: "two"},
	}}
	src := newPersistingTokenSource(base, path, current)

	_, err := src.Token()
	require.NoError(t, err)

	saved, err := LoadToken(path)
	require.NoError(t, err)
	assert.Nil(t, saved, "unchanged token is not rewritten")

	tok, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "two", tok.AccessToken)

	saved, err = LoadToken(path)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "two", saved.AccessToken)
}

func TestPersistingTokenSource_PropagatesError(t *testing.T) {
	boom := errors.New("refresh failed")
	src := newPersistingTokenSource(&sequenceSource{err: boom}, filepath.Join(t.TempDir(), "t.json"), nil)

	_, err := src.Token()
	assert.ErrorIs(t, err, boom)
}
