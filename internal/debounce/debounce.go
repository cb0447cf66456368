// internal/debounce/debounce.go

// Package debounce provides a cancellable trailing-edge timer.
package debounce

import (
	"sync"
	"time"
)

/*
 * Trailing-edge debouncing over an injectable clock.
 *
 * Every Trigger cancels the pending call and schedules a new one after the
 * quiet period, so only the last of a burst runs. Flush runs the pending call
 * immediately (mode switches must not lose an edit); Cancel drops it.
 *
 * A generation counter guards against a timer that fired concurrently with
 * Stop: the callback checks that it is still the current generation before
 * running, so a superseded callback is a no-op even if Stop returned false.
 *
 * The callback runs outside the debouncer's lock and may call Trigger again.
 */

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. RealClock uses time.AfterFunc; tests use ManualClock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules on the runtime timer.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer coalesces bursts of calls into one.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	wait    time.Duration
	timer   Timer
	pending func()
	gen     uint64
}

// New creates a debouncer with the given quiet period. A nil clock means RealClock.
func New(wait time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{clock: clock, wait: wait}
}

// Wait returns the quiet period.
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// Trigger schedules fn to run after the quiet period, superseding any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Flush runs the pending call now, if any. Returns whether a call ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.stopLocked()
	d.gen++
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Cancel drops the pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
