package auth

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// DefaultPrompter returns the interactive prompt when stdin is a terminal,
// nil otherwise.
func DefaultPrompter() CodePrompter {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	return huhPrompter{}
}

type huhPrompter struct{}

func (huhPrompter) PromptCode(ctx context.Context, _ string) (string, error) {
	var code string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Authorization code").
			Description("Paste the code shown after approving access.").
			Value(&code).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("code is required")
				}

				return nil
			}),
	))

	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}

	return strings.TrimSpace(code), nil
}
