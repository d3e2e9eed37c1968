package main

import (
	"context"
	"sync"
	"time"
)

// Throttle limits outgoing requests two ways: at most `concurrency` in
// flight, and at most `rate` started within any `window`.
type Throttle struct {
	rate   int
	window time.Duration
	ticker *time.Ticker
	tokens chan struct{}

	mu       sync.Mutex
	attempts []time.Time
}

func NewThrottle(rate int, window time.Duration, concurrency int) *Throttle {
	rate = max(rate, 1)
	concurrency = max(concurrency, 1)
	t := &Throttle{
		rate:   rate,
		window: window,
		ticker: time.NewTicker(max(window/time.Duration(rate), time.Millisecond)),
		tokens: make(chan struct{}, concurrency),
	}
	for range concurrency {
		t.tokens <- struct{}{}
	}
	return t
}

// Acquire blocks until a concurrency slot is free. The returned func
// gives the slot back.
func (t *Throttle) Acquire(ctx context.Context) (func(), error) {
	select {
	case <-t.tokens:
		var once sync.Once
		return func() {
			once.Do(func() { t.tokens <- struct{}{} })
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait blocks until another request may start within the rate window.
func (t *Throttle) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.ticker.C:
		}
		t.mu.Lock()
		att := t.attempts
		if len(att) < t.rate || time.Since(att[0]) > t.window {
			att = append(att, time.Now())
			if len(att) > t.rate {
				att = att[1:]
			}
			t.attempts = att
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()
	}
}

func (t *Throttle) Stop() { t.ticker.Stop() }
