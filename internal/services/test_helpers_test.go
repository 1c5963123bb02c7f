package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// fakeFetcher serves a fixed table and counts fetches
type fakeFetcher struct {
	location string
	records  [][]string
	err      error
	delay    time.Duration
	calls    atomic.Int32

	mu sync.Mutex
}

func (f *fakeFetcher) Location() string {
	return f.location
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([][]string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records, f.err
}

func (f *fakeFetcher) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(t interface{ Cleanup(func()) }, ttl time.Duration, clock *fakeClock) *DatasetCache {
	cache := NewDatasetCache(ttl, 4)
	if clock != nil {
		cache.now = clock.Now
	}
	t.Cleanup(cache.Stop)
	return cache
}
