// Package debounce coalesces bursts of triggers into one trailing call,
// bounded by a maximum wait so a steady stream still fires periodically.
package debounce

import (
	"sync"
	"time"
)

// Debouncer calls fn once a burst of Trigger calls has been quiet for wait,
// or at the latest maxWait after the first trigger of the burst.
type Debouncer struct {
	fn      func()
	wait    time.Duration
	maxWait time.Duration

	// running is held while fn executes so Stop can wait for it.
	running sync.Mutex

	mu       sync.Mutex
	timer    *time.Timer
	deadline time.Time
	pending  bool
	stopped  bool
	gen      uint64
}

// New returns a debouncer for fn. A maxWait <= 0 disables the ceiling; a
// maxWait below wait is raised to wait.
func New(fn func(), wait, maxWait time.Duration) *Debouncer {
	if maxWait > 0 && maxWait < wait {
		maxWait = wait
	}
	return &Debouncer{fn: fn, wait: wait, maxWait: maxWait}
}

// Trigger schedules (or reschedules) the trailing call. It never blocks.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	now := time.Now()
	if !d.pending {
		d.pending = true
		if d.maxWait > 0 {
			d.deadline = now.Add(d.maxWait)
		}
	}
	delay := d.wait
	if d.maxWait > 0 {
		if rem := d.deadline.Sub(now); rem < delay {
			delay = max(rem, 0)
		}
	}
	d.reset()
	gen := d.gen
	d.timer = time.AfterFunc(delay, func() { d.fire(gen) })
}

// Cancel drops a pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = false
	d.reset()
}

// Flush runs a pending call immediately on the caller's goroutine.
func (d *Debouncer) Flush() {
	d.running.Lock()
	defer d.running.Unlock()
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.reset()
	d.mu.Unlock()
	d.fn()
}

// Stop cancels any pending call and makes later triggers no-ops. A call
// already running is waited for, so fn never runs after Stop returns. Stop
// must not be called from fn.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.pending = false
	d.reset()
	d.mu.Unlock()

	d.running.Lock()
	d.running.Unlock()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// reset stops the current timer and invalidates its callback. d.mu is held.
func (d *Debouncer) reset() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.running.Lock()
	defer d.running.Unlock()
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
