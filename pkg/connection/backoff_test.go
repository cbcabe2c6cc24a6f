package connection

import (
	"testing"
	"time"
)

func TestBackoffGrowth(t *testing.T) {
	b := NewBackoffWithConfig(Config{
		Initial:    time.Second,
		Max:        30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0,
	})

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // capped
		30 * time.Second,
	}

	for i, w := range want {
		if got := b.Next(); got != w {
			t.Errorf("Next() #%d = %v, want %v", i, got, w)
		}
	}

	if b.Attempts() != len(want) {
		t.Errorf("Attempts = %d, want %d", b.Attempts(), len(want))
	}
}

func TestBackoffReset(t *testing.T) {
	b := NewBackoffWithConfig(Config{Initial: time.Second, Jitter: 0})

	b.Next()
	b.Next()
	b.Reset()

	if got := b.Next(); got != time.Second {
		t.Errorf("Next after Reset = %v, want 1s", got)
	}
	if b.Attempts() != 1 {
		t.Errorf("Attempts after Reset+Next = %d, want 1", b.Attempts())
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	b := NewBackoffWithConfig(Config{
		Initial:    time.Second,
		Multiplier: 2.0,
		Jitter:     0.25,
	})

	for i := 0; i < 20; i++ {
		b.Reset()
		got := b.Next()
		if got < time.Second || got > 1250*time.Millisecond {
			t.Errorf("jittered delay %v outside [1s, 1.25s]", got)
		}
	}
}

func TestBackoffDisabled(t *testing.T) {
	b := NewBackoffWithConfig(Config{Initial: 0})

	for i := 0; i < 5; i++ {
		if got := b.Next(); got != 0 {
			t.Errorf("Next() = %v with spacing disabled, want 0", got)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Initial != DefaultInitialDelay {
		t.Errorf("Initial = %v, want %v", cfg.Initial, DefaultInitialDelay)
	}
	if cfg.Max != DefaultMaxDelay {
		t.Errorf("Max = %v, want %v", cfg.Max, DefaultMaxDelay)
	}
}
