// Package agent is the transport to the hosted research agent. Every provider
// answers one prompt with one reply; the Guarded decorator adds rate limiting,
// retries, a circuit breaker and a per-call deadline.
package agent

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrEmptyReply is returned when the provider answered with no text.
	ErrEmptyReply = eris.New("agent: empty reply")
	// ErrNotConfigured is returned for a provider without credentials.
	ErrNotConfigured = eris.New("agent: provider not configured")
)

// Agent answers a research prompt.
type Agent interface {
	Name() string
	Ask(ctx context.Context, prompt string) (string, error)
}

// nonEmpty turns a blank reply into ErrEmptyReply.
func nonEmpty(name, reply string) (string, error) {
	if strings.TrimSpace(reply) == "" {
		return "", eris.Wrap(ErrEmptyReply, name)
	}
	return reply, nil
}
