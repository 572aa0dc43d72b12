package search

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time access so rate-limiter tests can simulate the
// passage of a window without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limiter admits at most maxCalls search-API requests per rolling window.
// State is in-memory only and resets on process start. A single Searcher
// owns one Limiter; concurrent callers serialize on the internal mutex.
type Limiter struct {
	mu          sync.Mutex
	maxCalls    int
	window      time.Duration
	clock       Clock
	windowStart time.Time
	count       int
}

// NewLimiter creates a limiter with the real clock.
func NewLimiter(maxCalls int, window time.Duration) *Limiter {
	return NewLimiterWithClock(maxCalls, window, realClock{})
}

// NewLimiterWithClock creates a limiter with an injected clock.
func NewLimiterWithClock(maxCalls int, window time.Duration, clock Clock) *Limiter {
	return &Limiter{
		maxCalls: maxCalls,
		window:   window,
		clock:    clock,
	}
}

// Admit blocks until a call may proceed without exceeding the limit, then
// counts it. The only way Admit fails is context cancellation while
// waiting for the window to elapse.
func (l *Limiter) Admit(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if l.windowStart.IsZero() {
		l.windowStart = now
	}

	// Window elapsed: start a fresh one
	if now.Sub(l.windowStart) > l.window {
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.maxCalls {
		remaining := l.window - now.Sub(l.windowStart)
		if err := l.clock.Sleep(ctx, remaining); err != nil {
			return err
		}
		l.count = 0
		l.windowStart = l.clock.Now()
	}

	l.count++
	return nil
}
