package drive

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"drive-inventory/pkg/models"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// rateLimitReasons are the 403 reasons Drive uses for throttling, as opposed
// to missing permissions.
var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
}

// classifyError tags err with models.ErrAuth or models.ErrTransient where
// the failure kind is recognizable. Other errors are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %w", models.ErrAuth, err)
	}

	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		switch {
		case googleErr.Code == http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", models.ErrAuth, err)
		case googleErr.Code == http.StatusTooManyRequests, googleErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", models.ErrTransient, err)
		case googleErr.Code == http.StatusForbidden && isRateLimited(googleErr):
			return fmt.Errorf("%w: %w", models.ErrTransient, err)
		}

		return err
	}

	if isTemporaryError(err) {
		return fmt.Errorf("%w: %w", models.ErrTransient, err)
	}

	return err
}

func isRateLimited(err *googleapi.Error) bool {
	for _, item := range err.Errors {
		if rateLimitReasons[item.Reason] {
			return true
		}
	}

	return false
}

// isTemporaryError checks if a transport error is likely temporary.
func isTemporaryError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, s := range []string{
		"connection reset",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"connection refused",
		"unexpected eof",
	} {
		if strings.Contains(errStr, s) {
			return true
		}
	}

	return false
}
