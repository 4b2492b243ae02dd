package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunServer_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.Fail(t, "server did not shut down")
	}
}

func TestServeCmd_RunE_FailsOnValidation(t *testing.T) {
	cfg = newInvalidServeConfig()
	defer func() { cfg = nil }()

	serveCmd.SetContext(context.Background())
	err := serveCmd.RunE(serveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestWriteTimeout(t *testing.T) {
	c := newInvalidServeConfig()
	c.Agent.MaxAttempts = 3
	c.Agent.RequestsPerMinute = 10

	t.Run("raised to cover the agent budget", func(t *testing.T) {
		c.Server.WriteTimeoutSecs = 300
		got := writeTimeout(c)
		// 3 x (60s + 6s) + backoff (1.2s + 2.4s) + render slack.
		assert.Equal(t, 198*time.Second+3600*time.Millisecond+renderSlack, got)
	})

	t.Run("larger configured value kept", func(t *testing.T) {
		c.Server.WriteTimeoutSecs = 900
		assert.Equal(t, 900*time.Second, writeTimeout(c))
	})

	t.Run("default config outlasts worst case", func(t *testing.T) {
		c.Agent.TimeoutSecs = 180
		c.Server.WriteTimeoutSecs = 300
		assert.Greater(t, writeTimeout(c), 3*180*time.Second)
	})

	t.Run("unset stays unbounded", func(t *testing.T) {
		c.Server.WriteTimeoutSecs = 0
		assert.Zero(t, writeTimeout(c))
	})
}
