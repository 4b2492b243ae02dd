package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Backoff describes how often and how patiently to retry.
type Backoff struct {
	// Attempts is the total number of tries, the first included.
	Attempts int
	Base     time.Duration
	Max      time.Duration
	// Jitter spreads each delay by ±Jitter of itself.
	Jitter float64
	// Retryable overrides IsRetryable.
	Retryable func(error) bool
	// Name labels retry logs.
	Name string
}

// DefaultBackoff suits a hosted agent that answers in tens of seconds.
func DefaultBackoff() Backoff {
	return Backoff{Attempts: 3, Base: time.Second, Max: 20 * time.Second, Jitter: 0.2}
}

func (b Backoff) normalized() Backoff {
	d := DefaultBackoff()
	if b.Attempts <= 0 {
		b.Attempts = d.Attempts
	}
	if b.Base <= 0 {
		b.Base = d.Base
	}
	if b.Max <= 0 {
		b.Max = d.Max
	}
	if b.Jitter < 0 {
		b.Jitter = 0
	}
	if b.Retryable == nil {
		b.Retryable = IsRetryable
	}
	return b
}

// delay doubles Base per completed attempt, capped at Max, then jitters.
func (b Backoff) delay(attempt int) time.Duration {
	d := b.Base << min(attempt, 30)
	if d <= 0 || d > b.Max {
		d = b.Max
	}
	if b.Jitter > 0 {
		d += time.Duration((rand.Float64()*2 - 1) * b.Jitter * float64(d))
	}
	return max(d, 0)
}

// MaxWait is the longest total sleep between attempts, jitter included.
func (b Backoff) MaxWait() time.Duration {
	b = b.normalized()
	var total time.Duration
	for attempt := range b.Attempts - 1 {
		d := b.Base << min(attempt, 30)
		if d <= 0 || d > b.Max {
			d = b.Max
		}
		total += d + time.Duration(b.Jitter*float64(d))
	}
	return total
}

// Retry calls fn until it succeeds, returns a non-retryable error, runs out of
// attempts, or ctx ends. The last error is returned as is.
func Retry[T any](ctx context.Context, b Backoff, fn func(context.Context) (T, error)) (T, error) {
	b = b.normalized()

	var zero T
	var err error
	for attempt := range b.Attempts {
		var v T
		v, err = fn(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil || !b.Retryable(err) || attempt == b.Attempts-1 {
			return zero, err
		}

		wait := b.delay(attempt)
		zap.L().Warn("resilience: retrying",
			zap.String("name", b.Name),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, err
		case <-t.C:
		}
	}
	return zero, err
}
