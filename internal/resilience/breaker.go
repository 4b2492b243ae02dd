package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned without calling the provider while the breaker
// is open.
var ErrCircuitOpen = eris.New("resilience: circuit open")

// State is a breaker state.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

// Breaker opens after Threshold consecutive failures and lets a single probe
// through once Cooldown has passed. A successful probe closes it again.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool

	now func() time.Time
}

// NewBreaker returns a closed breaker. Non-positive arguments fall back to
// five failures and a 30s cooldown.
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{name: name, threshold: threshold, cooldown: cooldown, now: time.Now}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Open && b.now().Sub(b.openedAt) >= b.cooldown {
		return HalfOpen
	}
	return b.state
}

// Call runs fn through b. Cancellation by the caller is not held against the
// provider.
func Call[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := b.admit(); err != nil {
		return zero, err
	}
	v, err := fn(ctx)
	b.record(err, ctx.Err() != nil)
	if err != nil {
		return zero, err
	}
	return v, nil
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return eris.Wrap(ErrCircuitOpen, b.name)
		}
		b.setState(HalfOpen)
		b.probing = true
		return nil
	case HalfOpen:
		if b.probing {
			return eris.Wrap(ErrCircuitOpen, b.name)
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) record(err error, cancelled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil && cancelled {
		b.probing = false
		return
	}
	failed := err != nil

	if b.state == HalfOpen {
		b.probing = false
		if failed {
			b.openedAt = b.now()
			b.setState(Open)
			return
		}
		b.failures = 0
		b.setState(Closed)
		return
	}

	if !failed {
		b.failures = 0
		return
	}
	b.failures++
	if b.state == Closed && b.failures >= b.threshold {
		b.openedAt = b.now()
		b.setState(Open)
	}
}

func (b *Breaker) setState(s State) {
	if b.state == s {
		return
	}
	zap.L().Info("resilience: breaker state change",
		zap.String("name", b.name),
		zap.Stringer("from", b.state),
		zap.Stringer("to", s),
	)
	b.state = s
}
