package ratelimit

import (
	"sync"
	"time"
)

// Operation identifies a guarded operation kind. Buckets are per operation,
// not per user.
type Operation string

const (
	OpProfileUpdate  Operation = "profile_update"
	OpPasswordChange Operation = "password_change"
)

// BucketConfig sets the admission policy for one operation kind.
type BucketConfig struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

// bucket is a token bucket refilled lazily in whole intervals. A call made in
// the same interval as the one that drained the bucket is denied; only once a
// full interval has elapsed does the bucket gain tokens again.
type bucket struct {
	capacity       int
	refillRate     int
	refillInterval time.Duration
	currentTokens  int
	lastRefillTime time.Time
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefillTime)
	if elapsed < b.refillInterval {
		return
	}
	intervals := int(elapsed / b.refillInterval)
	b.currentTokens += intervals * b.refillRate
	if b.currentTokens > b.capacity {
		b.currentTokens = b.capacity
	}
	b.lastRefillTime = b.lastRefillTime.Add(time.Duration(intervals) * b.refillInterval)
}

// Gate is a per-operation admission limiter. State lives for the life of the
// process and resets to full capacity on restart. All admission checks share
// one lock, so concurrent callers observe a consistent token count.
type Gate struct {
	mu      sync.Mutex
	buckets map[Operation]*bucket
	nowFunc func() time.Time // injectable clock for testing
}

// NewGate creates a gate with the given per-operation policies. Every bucket
// starts full.
func NewGate(configs map[Operation]BucketConfig) *Gate {
	g := &Gate{
		buckets: make(map[Operation]*bucket, len(configs)),
		nowFunc: time.Now,
	}
	now := time.Now()
	for op, cfg := range configs {
		g.buckets[op] = &bucket{
			capacity:       cfg.Capacity,
			refillRate:     cfg.RefillRate,
			refillInterval: cfg.RefillInterval,
			currentTokens:  cfg.Capacity,
			lastRefillTime: now,
		}
	}
	return g
}

// DefaultGate returns a gate with the reference policy: 5 profile updates and
// 3 password changes per minute.
func DefaultGate() *Gate {
	return NewGate(map[Operation]BucketConfig{
		OpProfileUpdate:  {Capacity: 5, RefillRate: 5, RefillInterval: time.Minute},
		OpPasswordChange: {Capacity: 3, RefillRate: 3, RefillInterval: time.Minute},
	})
}

// TryAdmit atomically checks and consumes one token for the operation,
// refilling lazily from elapsed time first. It returns false without side
// effect beyond bucket bookkeeping when the bucket is empty. Operations
// without a configured bucket are always admitted.
func (g *Gate) TryAdmit(op Operation) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.buckets[op]
	if !ok {
		return true
	}

	b.refill(g.nowFunc())
	if b.currentTokens <= 0 {
		return false
	}
	b.currentTokens--
	return true
}
