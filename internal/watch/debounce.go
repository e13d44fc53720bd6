package watch

import (
	"sync"
	"time"
)

// debouncer collapses bursts of calls into one callback after a quiet
// period. The callback never runs concurrently with itself.
type debouncer struct {
	mu       sync.Mutex
	run      sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	seq      uint64
	stopped  bool
	callback func()
}

func newDebouncer(delay time.Duration, callback func()) *debouncer {
	return &debouncer{delay: delay, callback: callback}
}

// call schedules the callback, restarting the quiet period.
func (d *debouncer) call() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.seq++
	current := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		stale := d.stopped || d.seq != current
		d.mu.Unlock()
		if stale {
			return
		}
		d.run.Lock()
		defer d.run.Unlock()
		d.callback()
	})
}

// stop cancels any pending callback and disables further calls.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
