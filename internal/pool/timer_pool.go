// Package pool recycles timers used for read deadlines on link sockets.
package pool

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// GetTimer returns a timer that fires after d. Return it with PutTimer once the wait is over.
//
// Since Go 1.23 a stopped or reset timer never delivers a stale value, so recycled
// timers need no channel draining.
func GetTimer(d time.Duration) *time.Timer {
	if t, ok := timerPool.Get().(*time.Timer); ok {
		t.Reset(d)
		return t
	}

	return time.NewTimer(d)
}

// PutTimer stops t and returns it to the pool. t must not be used afterwards.
func PutTimer(t *time.Timer) {
	t.Stop()
	timerPool.Put(t)
}
