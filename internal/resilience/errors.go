// Package resilience keeps calls to hosted agents from failing on the first
// hiccup: retries with backoff for retryable errors and a circuit breaker that
// stops hammering a provider that keeps failing.
package resilience

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// StatusError carries the HTTP status of a failed provider call.
type StatusError struct {
	Err    error
	Status int
}

func (e *StatusError) Error() string { return e.Err.Error() }

func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus returns the attached status.
func (e *StatusError) HTTPStatus() int { return e.Status }

// statusCoder is implemented by provider errors that know their HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// WithStatus attaches an HTTP status to err. A nil err stays nil.
func WithStatus(err error, status int) error {
	if err == nil {
		return nil
	}
	return &StatusError{Err: err, Status: status}
}

// RetryableStatus reports whether a provider status is worth another attempt:
// request timeout, rate limiting, and 5xx gateway or overload responses.
func RetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	// Anthropic reports overload as 529.
	return status == 529
}

var retryableMessages = []string{
	"connection reset by peer",
	"broken pipe",
	"no such host",
	"i/o timeout",
	"tls handshake timeout",
	"server closed idle connection",
	"unexpected eof",
}

// IsRetryable reports whether err is worth retrying. Per-attempt deadlines
// are retryable; cancellation is not.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return RetryableStatus(sc.HTTPStatus())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range retryableMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
