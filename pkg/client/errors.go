package client

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// AuthError reports a 401 from the service. Producing one clears the client's
// stored token; callers re-authenticate and retry.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "client: unauthorized"
	}
	return "client: unauthorized: " + e.Message
}

// RequestError is any other non-2xx response, carrying the service's
// structured error body when one was present.
type RequestError struct {
	Status  int
	Name    string
	Message string
	Details []formio.ErrorDetail
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("client: request failed with status %d: %s", e.Status, e.Message)
}

// NetworkError means no HTTP response was obtained at all: connection refused,
// DNS failure, or the per-request timeout elapsing.
type NetworkError struct {
	Message string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return "client: request timed out: " + e.Message
	}
	return "client: network error: " + e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// networkError classifies a transport failure. Timeout detection follows
// net.Error plus the context deadline sentinel, since http.Client wraps both.
func networkError(err error) *NetworkError {
	out := &NetworkError{Message: err.Error(), Err: err}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		out.Timeout = true
		return out
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout") {
		out.Timeout = true
	}
	return out
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}
