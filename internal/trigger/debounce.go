package trigger

import (
	"sync"
	"time"
)

// Debouncer runs at most one pending callback per key. Starting a key again
// supersedes the pending callback; Stop cancels everything for good.
//
// Callbacks are handed to post, which is expected to run them on the owner's
// event loop. A callback whose timer was cancelled or superseded after it
// fired, but before post ran it, is dropped.
type Debouncer struct {
	mu      sync.Mutex
	post    func(func())
	pending map[string]uint64
	timers  map[string]*time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer. A nil post runs callbacks on the timer
// goroutine.
func NewDebouncer(post func(func())) *Debouncer {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Debouncer{
		post:    post,
		pending: make(map[string]uint64),
		timers:  make(map[string]*time.Timer),
	}
}

// Start schedules fn to run after delay under key, cancelling any callback
// already pending for key.
func (d *Debouncer) Start(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked(key)

	d.gen++
	gen := d.gen
	d.pending[key] = gen
	d.timers[key] = time.AfterFunc(delay, func() {
		d.post(func() { d.fire(key, gen, fn) })
	})
}

// Cancel drops the callback pending for key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked(key)
}

// Pending reports whether a callback is scheduled for key.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Stop cancels every pending callback. Later Starts are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key := range d.timers {
		d.cancelLocked(key)
	}
}

func (d *Debouncer) fire(key string, gen uint64, fn func()) {
	d.mu.Lock()
	current, ok := d.pending[key]
	if d.stopped || !ok || current != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	delete(d.timers, key)
	d.mu.Unlock()

	fn()
}

func (d *Debouncer) cancelLocked(key string) {
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
	delete(d.pending, key)
}
