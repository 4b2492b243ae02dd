package agent

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/agent-research/internal/resilience"
)

// Policy bounds how a Guarded agent calls its provider.
type Policy struct {
	// Timeout caps a single attempt. Zero means no cap.
	Timeout           time.Duration
	Backoff           resilience.Backoff
	RequestsPerMinute int
	CircuitThreshold  int
	CircuitCooldown   time.Duration
}

// Budget is the longest Ask can take under p: every attempt waiting out the
// rate limit and its timeout, plus the backoff sleeps. Zero means unbounded.
func (p Policy) Budget() time.Duration {
	if p.Timeout <= 0 {
		return 0
	}
	attempts := max(p.Backoff.Attempts, 1)
	var wait time.Duration
	if p.RequestsPerMinute > 0 {
		wait = time.Minute / time.Duration(p.RequestsPerMinute)
	}
	return time.Duration(attempts)*(p.Timeout+wait) + p.Backoff.MaxWait()
}

// Guarded decorates an Agent with a rate limit, retries on transient errors,
// a circuit breaker and a per-attempt deadline. An open circuit fails fast
// and is not retried.
type Guarded struct {
	inner   Agent
	policy  Policy
	limiter *rate.Limiter
	breaker *resilience.Breaker
}

// Guard wraps a with p.
func Guard(a Agent, p Policy) *Guarded {
	limit := rate.Inf
	if p.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(p.RequestsPerMinute))
	}
	if p.Backoff.Name == "" {
		p.Backoff.Name = a.Name()
	}
	return &Guarded{
		inner:   a,
		policy:  p,
		limiter: rate.NewLimiter(limit, 1),
		breaker: resilience.NewBreaker(a.Name(), p.CircuitThreshold, p.CircuitCooldown),
	}
}

func (g *Guarded) Name() string { return g.inner.Name() }

// Breaker exposes the circuit state for health reporting.
func (g *Guarded) Breaker() *resilience.Breaker { return g.breaker }

func (g *Guarded) Ask(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	reply, err := resilience.Retry(ctx, g.policy.Backoff, func(ctx context.Context) (string, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "agent: rate limit wait")
		}
		return resilience.Call(ctx, g.breaker, g.attempt(prompt))
	})
	if err != nil {
		zap.L().Warn("agent: ask failed",
			zap.String("provider", g.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}
	zap.L().Info("agent: ask complete",
		zap.String("provider", g.Name()),
		zap.Int("reply_len", len(reply)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return reply, nil
}

func (g *Guarded) attempt(prompt string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if g.policy.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.policy.Timeout)
			defer cancel()
		}
		return g.inner.Ask(ctx, prompt)
	}
}
