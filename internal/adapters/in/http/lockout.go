package http

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// PickupLockout caps pickup attempts per parcel. Every attempt is counted
// before the code is checked, so concurrent guesses cannot overshoot max.
// The window opens on the first attempt; a successful pickup clears it and
// attempts that failed for reasons other than a wrong code are refunded.
type PickupLockout struct {
	attempts *cache.Cache
	max      int
	window   time.Duration
}

// NewPickupLockout disables the lockout when maxFailures is not positive.
func NewPickupLockout(maxFailures int, window time.Duration) *PickupLockout {
	return &PickupLockout{
		attempts: cache.New(window, 2*window),
		max:      maxFailures,
		window:   window,
	}
}

// Attempt counts one attempt on key and reports whether it may proceed.
func (l *PickupLockout) Attempt(key string) bool {
	if l.max <= 0 {
		return true
	}
	return l.increment(key) <= l.max
}

// Refund gives back an attempt that did not test a code.
func (l *PickupLockout) Refund(key string) {
	if l.max <= 0 {
		return
	}
	_, _ = l.attempts.DecrementInt(key, 1)
}

func (l *PickupLockout) Reset(key string) {
	l.attempts.Delete(key)
}

func (l *PickupLockout) increment(key string) int {
	if err := l.attempts.Add(key, 1, l.window); err == nil {
		return 1
	}

	n, err := l.attempts.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		l.attempts.Set(key, 1, l.window)
		return 1
	}
	return n
}
