package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"feedbackpulse/pkg/contracts/domain"
)

func TestDatasetCache_GetSet(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(t, time.Hour, clock)

	_, ok := cache.Get("a")
	assert.False(t, ok)

	ds := &domain.Dataset{Source: "a"}
	cache.Set("a", ds)

	got, ok := cache.Get("a")
	require.True(t, ok)
	assert.Same(t, ds, got)

	stats := cache.GetStats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.HitCount)
	assert.Equal(t, int64(1), stats.MissCount)
	assert.InDelta(t, 0.5, stats.HitRatio, 1e-9)
	assert.Equal(t, 3600.0, stats.TTLSeconds)
}

func TestDatasetCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(t, time.Hour, clock)

	cache.Set("a", &domain.Dataset{})

	clock.Advance(59 * time.Minute)
	_, ok := cache.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = cache.Get("a")
	assert.False(t, ok, "entry expires exactly at ttl")

	cache.sweep()
	assert.Equal(t, 0, cache.GetStats().Entries)
}

func TestDatasetCache_EvictsOldest(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(t, time.Hour, clock)

	for _, key := range []string{"a", "b", "c", "d"} {
		cache.Set(key, &domain.Dataset{Source: key})
		clock.Advance(time.Second)
	}
	cache.Set("e", &domain.Dataset{Source: "e"})

	_, ok := cache.Peek("a")
	assert.False(t, ok)
	_, ok = cache.Peek("e")
	assert.True(t, ok)
	assert.Equal(t, 4, cache.GetStats().Entries)
}

func TestDatasetCache_Invalidate(t *testing.T) {
	cache := newTestCache(t, time.Hour, nil)
	cache.Set("a", &domain.Dataset{})

	assert.True(t, cache.Invalidate("a"))
	assert.False(t, cache.Invalidate("a"))

	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestDatasetCache_ZeroSizeAndNil(t *testing.T) {
	cache := NewDatasetCache(time.Hour, 0)
	defer cache.Stop()

	cache.Set("a", &domain.Dataset{})
	assert.Equal(t, 0, cache.GetStats().Entries)

	sized := newTestCache(t, time.Hour, nil)
	sized.Set("nil", nil)
	assert.Equal(t, 0, sized.GetStats().Entries)
}

func TestDatasetCache_StopTwice(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cache := NewDatasetCache(time.Hour, 1)
	assert.NotPanics(t, func() {
		cache.Stop()
		cache.Stop()
	})
}
