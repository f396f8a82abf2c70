package search

import (
	"sync"
	"time"
)

// Default debounce windows for live input.
const (
	LocalDebounce  = 300 * time.Millisecond
	RemoteDebounce = 800 * time.Millisecond
)

// Debouncer collapses rapid calls into one callback, fired with the last
// value after the input has been quiet for the delay.
//
// All methods are safe for concurrent use. Callbacks are not serialized: a
// fire that arrives while an earlier callback is still running starts at
// once, so a blocking callback never delays the next value.
type Debouncer[T any] struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64 // detects stale timer callbacks
	value    T
	callback func(T)
}

func NewDebouncer[T any](delay time.Duration, callback func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, callback: callback}
}

// Call records value and restarts the quiet period.
func (d *Debouncer[T]) Call(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.value = value
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(seq)
	})
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if !d.pending || d.seq != seq {
		d.mu.Unlock()
		return
	}
	d.pending = false
	value := d.value
	d.mu.Unlock()

	d.callback(value)
}

// Flush runs a pending callback now instead of waiting.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	value := d.value
	d.mu.Unlock()

	d.callback(value)
}

// Cancel drops any pending call.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
