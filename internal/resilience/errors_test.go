package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", WithStatus(errors.New("slow down"), 429), true},
		{"overloaded", WithStatus(errors.New("overloaded"), 529), true},
		{"bad gateway wrapped", eris.Wrap(WithStatus(errors.New("bad gateway"), 502), "agent: ask"), true},
		{"unauthorized", WithStatus(errors.New("bad key"), 401), false},
		{"bad request", WithStatus(errors.New("invalid"), 400), false},
		{"attempt deadline", fmt.Errorf("ask: %w", context.DeadlineExceeded), true},
		{"cancelled", context.Canceled, false},
		{"reset by peer", errors.New("read tcp: connection reset by peer"), true},
		{"plain", errors.New("invalid api version"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWithStatus_NilStaysNil(t *testing.T) {
	assert.NoError(t, WithStatus(nil, 500))
}

func TestStatusError_Unwrap(t *testing.T) {
	base := errors.New("boom")
	err := WithStatus(base, 503)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "boom", err.Error())
}

type providerErr struct{ status int }

func (e providerErr) Error() string   { return "provider failed" }
func (e providerErr) HTTPStatus() int { return e.status }

func TestIsRetryable_ProviderStatus(t *testing.T) {
	assert.True(t, IsRetryable(eris.Wrap(providerErr{503}, "agent: ask")))
	assert.False(t, IsRetryable(providerErr{404}))
}
