// Package clock supplies the per-call time source consumed by time-gated
// contract operations. The platform guarantees a monotonically
// non-decreasing reading.
package clock

import (
	"sync/atomic"
	"time"
)

type Clock interface {
	// Now returns the current time in unix seconds.
	Now() int64
}

// System reads the wall clock.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() int64 {
	return time.Now().Unix()
}

// Manual is a settable clock for tests. It never moves backwards.
type Manual struct {
	now int64
}

func NewManual(start int64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() int64 {
	return atomic.LoadInt64(&m.now)
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d int64) {
	if d < 0 {
		return
	}
	atomic.AddInt64(&m.now, d)
}

// Set jumps the clock to ts. Readings below the current one are ignored.
func (m *Manual) Set(ts int64) {
	for {
		now := atomic.LoadInt64(&m.now)
		if ts <= now {
			return
		}
		if atomic.CompareAndSwapInt64(&m.now, now, ts) {
			return
		}
	}
}

// Days converts whole days to seconds.
func Days(n int64) int64 {
	return n * 24 * 60 * 60
}
