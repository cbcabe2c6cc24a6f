package connection

import (
	"math/rand"
	"sync"
	"time"
)

// Backoff defaults.
const (
	// DefaultInitialDelay is the delay before the second connect attempt.
	DefaultInitialDelay = 1 * time.Second

	// DefaultMaxDelay caps the delay between attempts.
	DefaultMaxDelay = 30 * time.Second

	// DefaultMultiplier is the factor the delay grows by per attempt.
	DefaultMultiplier = 2.0

	// DefaultJitter is the maximum jitter as a fraction of the base delay.
	DefaultJitter = 0.25
)

// Config customizes backoff behavior. The zero value selects all
// defaults except Initial: an explicit Initial of zero disables
// spacing between attempts.
type Config struct {
	// Initial is the delay before the second attempt. Zero disables
	// backoff spacing entirely.
	Initial time.Duration

	// Max caps the delay. Defaults to DefaultMaxDelay.
	Max time.Duration

	// Multiplier is the per-attempt growth factor. Values <= 1 select
	// DefaultMultiplier.
	Multiplier float64

	// Jitter is the maximum jitter fraction. Negative values select 0.
	Jitter float64
}

// DefaultConfig returns the default backoff configuration.
func DefaultConfig() Config {
	return Config{
		Initial:    DefaultInitialDelay,
		Max:        DefaultMaxDelay,
		Multiplier: DefaultMultiplier,
		Jitter:     DefaultJitter,
	}
}

// Backoff computes reconnect delays. It is safe for concurrent use.
type Backoff struct {
	mu sync.Mutex

	current  time.Duration
	attempts int

	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64

	rng *rand.Rand
}

// NewBackoff creates a backoff calculator with default settings.
func NewBackoff() *Backoff {
	return NewBackoffWithConfig(DefaultConfig())
}

// NewBackoffWithConfig creates a backoff calculator with custom
// settings. An Initial of zero yields a backoff whose delays are
// always zero.
func NewBackoffWithConfig(cfg Config) *Backoff {
	if cfg.Max <= 0 {
		cfg.Max = DefaultMaxDelay
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = DefaultMultiplier
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}

	return &Backoff{
		current:    cfg.Initial,
		initial:    cfg.Initial,
		max:        cfg.Max,
		multiplier: cfg.Multiplier,
		jitter:     cfg.Jitter,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay to wait before the next attempt (with jitter)
// and advances the backoff.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.addJitter(b.current)

	b.attempts++
	next := time.Duration(float64(b.current) * b.multiplier)
	if next > b.max {
		next = b.max
	}
	b.current = next

	return delay
}

// Reset restores the initial delay. Call after a successful connect.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.initial
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last
// reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

func (b *Backoff) addJitter(d time.Duration) time.Duration {
	if b.jitter <= 0 || d <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*b.jitter*b.rng.Float64())
}
