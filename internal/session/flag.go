package session

import (
	"sync"
	"time"
)

// TransientFlag is a boolean paired with a cancellable single-shot timer.
// Trip sets the flag and arms the timer; tripping again while a timer is
// pending resets it instead of stacking callbacks.
type TransientFlag struct {
	mu     sync.Mutex
	active bool
	gen    uint64
	timer  *time.Timer
}

// Trip sets the flag and arms (or re-arms) a timer that clears it after d.
func (f *TransientFlag) Trip(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = true
	// Stop cannot unblock a callback that already fired and is waiting on
	// the mutex, so each arm gets a generation; a stale callback sees a
	// newer generation and leaves the flag alone.
	f.gen++
	gen := f.gen
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(d, func() {
		f.mu.Lock()
		if f.gen == gen {
			f.active = false
			f.timer = nil
		}
		f.mu.Unlock()
	})
}

// Active reports whether the flag is currently set.
func (f *TransientFlag) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// Stop cancels any pending timer and clears the flag. Used on teardown.
func (f *TransientFlag) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.active = false
}
