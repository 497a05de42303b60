package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget. Callers Wait with the
// number of tokens they are about to spend; the call blocks until the
// current window has room or the context is cancelled.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter allowing maxPerMin tokens per minute.
func NewTokenLimiter(maxPerMin int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxPerMin,
		windowStart: time.Now(),
	}
}

// Wait blocks until tokens fit in the current minute window. Requests larger
// than the whole budget are allowed through alone once the window is empty.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if now.Sub(l.windowStart) >= time.Minute {
			l.used = 0
			l.windowStart = now
		}
		if l.used+tokens <= l.maxPerMin || (l.used == 0 && tokens > l.maxPerMin) {
			l.used += tokens
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - now.Sub(l.windowStart)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// GetRemaining reports how many tokens are left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.windowStart) >= time.Minute {
		return l.maxPerMin
	}
	remaining := l.maxPerMin - l.used
	if remaining < 0 {
		return 0
	}
	return remaining
}
