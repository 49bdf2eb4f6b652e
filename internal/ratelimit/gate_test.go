package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testGate(configs map[Operation]BucketConfig) (*Gate, *time.Time) {
	g := NewGate(configs)
	now := time.Now()
	g.nowFunc = func() time.Time { return now }
	for _, b := range g.buckets {
		b.lastRefillTime = now
	}
	return g, &now
}

func TestGate_SixthCallInSameMinuteDenied(t *testing.T) {
	g, now := testGate(map[Operation]BucketConfig{
		OpProfileUpdate: {Capacity: 5, RefillRate: 5, RefillInterval: time.Minute},
	})

	for i := 0; i < 5; i++ {
		*now = now.Add(time.Second)
		assert.True(t, g.TryAdmit(OpProfileUpdate), "call %d should be admitted", i+1)
	}

	*now = now.Add(time.Second)
	assert.False(t, g.TryAdmit(OpProfileUpdate), "6th call within the minute should be denied")

	// After a full minute the bucket refills and admits again.
	*now = now.Add(time.Minute)
	assert.True(t, g.TryAdmit(OpProfileUpdate), "call after refill interval should be admitted")
}

func TestGate_RefillCapsAtCapacity(t *testing.T) {
	g, now := testGate(map[Operation]BucketConfig{
		OpPasswordChange: {Capacity: 3, RefillRate: 3, RefillInterval: time.Minute},
	})

	// Long idle period must not accumulate more than capacity.
	*now = now.Add(time.Hour)
	for i := 0; i < 3; i++ {
		assert.True(t, g.TryAdmit(OpPasswordChange))
	}
	assert.False(t, g.TryAdmit(OpPasswordChange))
}

func TestGate_PartialIntervalDoesNotRefill(t *testing.T) {
	g, now := testGate(map[Operation]BucketConfig{
		OpPasswordChange: {Capacity: 1, RefillRate: 1, RefillInterval: time.Minute},
	})

	assert.True(t, g.TryAdmit(OpPasswordChange))

	*now = now.Add(59 * time.Second)
	assert.False(t, g.TryAdmit(OpPasswordChange))

	*now = now.Add(time.Second)
	assert.True(t, g.TryAdmit(OpPasswordChange))
}

func TestGate_OperationsHaveIndependentBuckets(t *testing.T) {
	g, _ := testGate(map[Operation]BucketConfig{
		OpProfileUpdate:  {Capacity: 1, RefillRate: 1, RefillInterval: time.Minute},
		OpPasswordChange: {Capacity: 1, RefillRate: 1, RefillInterval: time.Minute},
	})

	assert.True(t, g.TryAdmit(OpProfileUpdate))
	assert.False(t, g.TryAdmit(OpProfileUpdate))
	assert.True(t, g.TryAdmit(OpPasswordChange))
}

func TestGate_UnknownOperationAdmitted(t *testing.T) {
	g, _ := testGate(nil)
	assert.True(t, g.TryAdmit(Operation("unguarded")))
}

func TestGate_ConcurrentAdmissionsNeverExceedCapacity(t *testing.T) {
	g, _ := testGate(map[Operation]BucketConfig{
		OpProfileUpdate: {Capacity: 5, RefillRate: 5, RefillInterval: time.Minute},
	})

	var wg sync.WaitGroup
	admitted := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- g.TryAdmit(OpProfileUpdate)
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	assert.Equal(t, 5, count)
}

func TestDefaultGate_ReferencePolicy(t *testing.T) {
	g := DefaultGate()

	for i := 0; i < 5; i++ {
		assert.True(t, g.TryAdmit(OpProfileUpdate))
	}
	assert.False(t, g.TryAdmit(OpProfileUpdate))

	for i := 0; i < 3; i++ {
		assert.True(t, g.TryAdmit(OpPasswordChange))
	}
	assert.False(t, g.TryAdmit(OpPasswordChange))
}
