package ratelimit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurstSucceeds(t *testing.T) {
	l := New(1, 3)
	key := Key{Provider: "openai", Operation: "embedding"}

	for i := 0; i < 3; i++ {
		d := l.Allow(key)
		assert.True(t, d.Allowed, "call %d should fit within burst", i)
	}
}

func TestAllowBeyondBurstIsDenied(t *testing.T) {
	l := New(1, 1)
	key := Key{Provider: "openai", Operation: "embedding"}

	first := l.Allow(key)
	assert.True(t, first.Allowed)

	second := l.Allow(key)
	assert.False(t, second.Allowed)
	assert.Greater(t, second.Backoff.Nanoseconds(), int64(0))
}

func TestZeroBurstAlwaysDenies(t *testing.T) {
	l := New(0, 0)
	d := l.Allow(Key{Provider: "p", Operation: "op"})
	assert.False(t, d.Allowed)
}

func TestDistinctKeysGetIndependentBuckets(t *testing.T) {
	l := New(1, 1)
	a := Key{Provider: "openai", Operation: "embedding"}
	b := Key{Provider: "openai", Operation: "completion"}

	assert.True(t, l.Allow(a).Allowed)
	assert.True(t, l.Allow(b).Allowed)
	assert.False(t, l.Allow(a).Allowed)
	assert.False(t, l.Allow(b).Allowed)
}

func TestSetLimitOverridesBucket(t *testing.T) {
	l := New(1, 1)
	key := Key{Provider: "p", Operation: "op"}
	l.SetLimit(key, 100, 10)

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(key).Allowed)
	}
}

func TestBucketLookupIsConcurrencySafe(t *testing.T) {
	l := New(1000, 1000)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key{Provider: "p", Operation: "op"}
			l.Allow(key)
		}(i)
	}
	wg.Wait()
}
