package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// notResolvedPrefix starts the GraphQL error GitHub returns when the
// repository or the board does not exist or is not visible to the caller
const notResolvedPrefix = "Could not resolve to a "

// statusError is a non-200 response from the GraphQL endpoint
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GitHub GraphQL endpoint responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// statusTransport turns non-200 responses into *statusError so that callers
// can tell server failures from GraphQL errors
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &statusError{StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// isTransient reports whether a failed request is worth retrying: server
// side statuses, rate limiting and network failures. GraphQL errors,
// auth failures and cancellation are permanent.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError || se.StatusCode == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// isNotResolved reports whether GitHub could not resolve the repository or
// the board
func isNotResolved(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return false
	}
	return strings.Contains(err.Error(), notResolvedPrefix)
}
