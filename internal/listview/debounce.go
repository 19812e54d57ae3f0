package listview

import (
	"sync"
	"time"
)

// DefaultDebounce is the search-box settle window.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer coalesces a burst of values into one trailing call: the fn fires
// once the input has been quiet for the full window, with the last value.
type Debouncer struct {
	window time.Duration
	fn     func(string)

	mu      sync.Mutex
	pending string
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration, fn func(string)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window, fn: fn}
}

// Trigger records a new value and restarts the window.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.timer = nil
	d.mu.Unlock()
	d.fn(value)
}

// Flush fires the pending value immediately, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	value := d.pending
	d.timer = nil
	d.mu.Unlock()
	d.fn(value)
}

// Stop cancels any pending fire. The debouncer is dead afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
