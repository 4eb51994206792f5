// Package auth provides Google credentials for read-only Drive metadata
// access: service accounts, application default credentials, or the
// installed-app OAuth flow with a saved token.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"drive-inventory/pkg/models"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
)

// Scope is the only scope requested.
const Scope = drive.DriveMetadataReadonlyScope

// DefaultTimeout bounds how long the installed flow waits for a code.
const DefaultTimeout = 5 * time.Minute

// State is the position of a Provider in the installed-app flow.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}

	return "unauthenticated"
}

// Credentials is a parsed client secret file.
type Credentials struct {
	// ServiceAccount is set for "type": "service_account" key files.
	ServiceAccount *jwt.Config
	// OAuth is set for installed or web client secrets.
	OAuth *oauth2.Config
}

// LoadCredentials reads a client secret or service account key file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read credentials file %s: %w", models.ErrAuth, path, err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials file %s: %w", models.ErrAuth, path, err)
	}

	if probe.Type == "service_account" {
		cfg, err := google.JWTConfigFromJSON(data, Scope)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid service account key: %w", models.ErrAuth, err)
		}

		return &Credentials{ServiceAccount: cfg}, nil
	}

	cfg, err := google.ConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse client secret file: %w", models.ErrAuth, err)
	}

	return &Credentials{OAuth: cfg}, nil
}

// CodePrompter asks the user for the authorization code shown after
// visiting authURL.
type CodePrompter interface {
	PromptCode(ctx context.Context, authURL string) (string, error)
}

type exchangeFunc func(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error)

func defaultExchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	return cfg.Exchange(ctx, code)
}

// Provider hands out authenticated HTTP clients.
type Provider struct {
	credentialsPath string
	tokenPath       string
	timeout         time.Duration
	prompter        CodePrompter
	out             io.Writer
	exchange        exchangeFunc

	state State
}

// Option configures a Provider.
type Option func(*Provider)

// WithTimeout sets how long to wait for an authorization code.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPrompter replaces the interactive code prompt. nil disables prompting.
func WithPrompter(pr CodePrompter) Option {
	return func(p *Provider) { p.prompter = pr }
}

// WithOutput sets where the authorization URL is printed.
func WithOutput(w io.Writer) Option {
	return func(p *Provider) { p.out = w }
}

// NewProvider creates a Provider. An empty credentialsPath selects
// application default credentials.
func NewProvider(credentialsPath, tokenPath string, opts ...Option) *Provider {
	p := &Provider{
		credentialsPath: credentialsPath,
		tokenPath:       tokenPath,
		timeout:         DefaultTimeout,
		prompter:        DefaultPrompter(),
		out:             os.Stdout,
		exchange:        defaultExchange,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// State reports whether the provider currently holds a usable token.
func (p *Provider) State() State {
	return p.state
}

// GetClient returns an HTTP client authorized for Scope, running the
// interactive flow when no token is saved.
func (p *Provider) GetClient(ctx context.Context) (*http.Client, error) {
	if p.credentialsPath == "" {
		client, err := google.DefaultClient(ctx, Scope)
		if err != nil {
			return nil, fmt.Errorf("%w: application default credentials: %w", models.ErrAuth, err)
		}

		p.state = Authenticated

		return client, nil
	}

	creds, err := LoadCredentials(p.credentialsPath)
	if err != nil {
		return nil, err
	}

	if creds.ServiceAccount != nil {
		p.state = Authenticated

		return creds.ServiceAccount.Client(ctx), nil
	}

	tok, err := p.token(ctx, creds.OAuth, false)
	if err != nil {
		return nil, err
	}

	src := newPersistingTokenSource(creds.OAuth.TokenSource(ctx, tok), p.tokenPath, tok)

	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// Authenticate runs the installed flow even when a token is already saved.
func (p *Provider) Authenticate(ctx context.Context) error {
	creds, err := LoadCredentials(p.credentialsPath)
	if err != nil {
		return err
	}

	if creds.ServiceAccount != nil {
		p.state = Authenticated

		return nil
	}

	_, err = p.token(ctx, creds.OAuth, true)

	return err
}

// Revoke deletes the saved token. A missing token is not an error.
func (p *Provider) Revoke() error {
	if err := os.Remove(p.tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	p.state = Unauthenticated

	return nil
}

func (p *Provider) token(ctx context.Context, cfg *oauth2.Config, force bool) (*oauth2.Token, error) {
	if !force {
		tok, err := LoadToken(p.tokenPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrAuth, err)
		}

		if tok != nil {
			p.state = Authenticated

			return tok, nil
		}
	}

	if p.prompter == nil {
		return nil, fmt.Errorf("%w: no saved token at %s and no terminal to prompt on; run 'drive-inventory auth'", models.ErrAuth, p.tokenPath)
	}

	tok, err := p.exchangeCode(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := SaveToken(p.tokenPath, tok); err != nil {
		return nil, err
	}

	fmt.Fprintf(p.out, "Token stored to %s\n", p.tokenPath)

	p.state = Authenticated

	return tok, nil
}

func (p *Provider) exchangeCode(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL(uuid.NewString(), oauth2.AccessTypeOffline)

	fmt.Fprintf(p.out, "Authorize this app by visiting this url:\n%s\n", authURL)

	promptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	code, err := p.prompter.PromptCode(promptCtx, authURL)
	if err != nil {
		if errors.Is(promptCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", models.ErrAuthTimeout, p.timeout)
		}

		return nil, fmt.Errorf("%w: failed to read authorization code: %w", models.ErrAuth, err)
	}

	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", models.ErrAuth)
	}

	tok, err := p.exchange(ctx, cfg, code)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to retrieve token from web: %w", models.ErrAuth, err)
	}

	return tok, nil
}
