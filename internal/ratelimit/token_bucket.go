// Package ratelimit implements token bucket rate limiting for report submissions.
//
// Each viewer address gets a bucket that allows a short burst of reports and
// then refills one token per interval, so a single account cannot flood the
// moderation backend.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket implements a thread-safe token bucket rate limiter.
//
// The bucket has a fixed capacity and gains one token every refill interval.
// Each request consumes one token. When the bucket is empty,
// requests are rejected until tokens refill.
//
// Example usage:
//
//	bucket := NewTokenBucket(5, 12*time.Second) // burst of 5, then 5 per minute
//	if bucket.Allow() {
//	    // Submit the report
//	}
type TokenBucket struct {
	capacity   int              // Maximum number of tokens the bucket can hold
	tokens     int              // Current number of tokens in the bucket
	interval   time.Duration    // Time to earn one token; zero never refills
	lastRefill time.Time        // Time up to which tokens have been credited
	lastUsed   time.Time        // Last call to Allow
	now        func() time.Time // Clock, replaceable in tests
	mu         sync.Mutex       // Protects all bucket state
	hitCount   int64            // Number of requests that were rate limited
	totalCount int64            // Total number of requests processed
}

// NewTokenBucket creates a full token bucket that refills one token per interval.
func NewTokenBucket(capacity int, interval time.Duration) *TokenBucket {
	return newTokenBucketWithClock(capacity, interval, time.Now)
}

func newTokenBucketWithClock(capacity int, interval time.Duration, now func() time.Time) *TokenBucket {
	t := now()
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		interval:   interval,
		lastRefill: t,
		lastUsed:   t,
		now:        now,
	}
}

// Allow attempts to consume one token from the bucket and reports whether
// the request may proceed.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.totalCount++

	now := tb.now()
	tb.lastUsed = now
	tb.refill(now)

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	tb.hitCount++
	return false
}

func (tb *TokenBucket) refill(now time.Time) {
	if tb.interval <= 0 {
		return
	}
	earned := int(now.Sub(tb.lastRefill) / tb.interval)
	if earned <= 0 {
		return
	}
	tb.tokens = min(tb.capacity, tb.tokens+earned)
	if tb.tokens == tb.capacity {
		tb.lastRefill = now
		return
	}
	// keep the partial interval already elapsed
	tb.lastRefill = tb.lastRefill.Add(time.Duration(earned) * tb.interval)
}

// idleSince reports when the bucket was last used.
func (tb *TokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastUsed
}

// Stats returns the number of rejected requests and the total processed.
func (tb *TokenBucket) Stats() (hits, total int64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.hitCount, tb.totalCount
}
