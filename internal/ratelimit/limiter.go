package ratelimit

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickwarner/pubreport/internal/observability"
)

// minIdleTimeout is the shortest time a bucket is kept after its last use.
const minIdleTimeout = time.Minute

// Config holds the configuration for rate limiting.
type Config struct {
	Capacity       int           // Token bucket capacity (burst allowance)
	RefillInterval time.Duration // Time to earn back one report
	Enabled        bool          // Whether rate limiting is active
}

// idleTimeout is how long an unused bucket is kept. It is never shorter than
// a full refill, so evicting a bucket cannot hand a viewer extra tokens.
func (c Config) idleTimeout() time.Duration {
	full := time.Duration(c.Capacity) * c.RefillInterval
	if c.RefillInterval <= 0 {
		// a bucket that never refills must not be forgotten either
		return 0
	}
	return max(full, minIdleTimeout)
}

// ViewerLimiter manages one token bucket per viewer address.
//
// Buckets are created lazily on first access and evicted once idle for
// longer than a full refill. Addresses are compared case-insensitively since
// wallet addresses may arrive checksummed or not.
type ViewerLimiter struct {
	buckets   map[string]*TokenBucket
	mu        sync.RWMutex
	config    Config
	metrics   observability.MetricsRegistry
	now       func() time.Time
	lastSweep time.Time
}

// NewViewerLimiter creates a limiter with the given configuration.
func NewViewerLimiter(config Config, metrics observability.MetricsRegistry) *ViewerLimiter {
	return &ViewerLimiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
		metrics: metrics,
		now:     time.Now,
	}
}

// Allow reports whether the viewer may submit another report. It always
// returns true when limiting is disabled.
func (l *ViewerLimiter) Allow(address string) bool {
	if !l.config.Enabled {
		return true
	}
	key := strings.ToLower(address)

	l.mu.RLock()
	bucket, exists := l.buckets[key]
	l.mu.RUnlock()

	if !exists {
		l.mu.Lock()
		l.sweepLocked()
		bucket, exists = l.buckets[key]
		if !exists {
			bucket = newTokenBucketWithClock(l.config.Capacity, l.config.RefillInterval, l.now)
			l.buckets[key] = bucket
		}
		l.mu.Unlock()
	}

	allowed := bucket.Allow()
	if !allowed {
		l.metrics.IncrementRateLimitHits()
	}
	return allowed
}

// sweepLocked drops idle buckets, at most once per idle timeout. Callers
// hold l.mu for writing.
func (l *ViewerLimiter) sweepLocked() {
	idle := l.config.idleTimeout()
	if idle <= 0 {
		return
	}
	now := l.now()
	if now.Sub(l.lastSweep) < idle {
		return
	}
	l.lastSweep = now
	for key, bucket := range l.buckets {
		if now.Sub(bucket.idleSince()) >= idle {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of tracked viewers.
func (l *ViewerLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

// Stats returns hit and total counts per viewer address.
func (l *ViewerLimiter) Stats() map[string][2]int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := make(map[string][2]int64, len(l.buckets))
	for addr, bucket := range l.buckets {
		hits, total := bucket.Stats()
		stats[addr] = [2]int64{hits, total}
	}
	return stats
}
