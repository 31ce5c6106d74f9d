// Package debounce provides the trailing-edge debouncer that stands between
// a view's query state and its fetch callback: however fast the user types,
// the callback runs at most once per settled burst, with the most recent
// argument.
//
// Example:
//
//	trigger := debounce.New(func(q listview.ListQuery) { refetch(q) })
//	trigger.Call(state.Snapshot()) // on every keystroke
//	...
//	trigger.Cancel()               // on view teardown
//
// Optional leading-edge execution and a maximum-wait ceiling are
// independently configurable; the default is trailing-only with no ceiling.
// The debouncer never swallows or retries anything the callback itself
// does; error handling belongs to the callback.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the settle period used when none is configured.
const DefaultDelay = 500 * time.Millisecond

// Option configures a Debouncer.
type Option func(*settings)

type settings struct {
	delay   time.Duration
	leading bool
	maxWait time.Duration
}

// WithDelay sets the settle period. Non-positive values keep the default.
func WithDelay(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithLeading makes the first call of a burst execute immediately. Later
// calls in the same burst still execute once more on the trailing edge.
func WithLeading() Option {
	return func(s *settings) {
		s.leading = true
	}
}

// WithMaxWait forces execution if calls keep arriving faster than the
// settle period for longer than the ceiling.
func WithMaxWait(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.maxWait = d
		}
	}
}

// Debouncer wraps a callback so bursts of calls collapse into at most one
// execution per settled burst. The callback runs on the timer goroutine
// (or on the caller's goroutine for leading-edge and Flush executions).
//
// Type parameter A is the callback's argument type; the latest argument of
// a burst wins.
type Debouncer[A any] struct {
	mu       sync.Mutex
	fn       func(A)
	delay    time.Duration
	maxWait  time.Duration
	leading  bool
	timer    *time.Timer
	maxTimer *time.Timer
	trailing bool
	lastArg  A
}

// New wraps fn with trailing-edge debouncing at DefaultDelay.
func New[A any](fn func(A), opts ...Option) *Debouncer[A] {
	s := settings{delay: DefaultDelay}
	for _, opt := range opts {
		opt(&s)
	}

	return &Debouncer[A]{
		fn:      fn,
		delay:   s.delay,
		maxWait: s.maxWait,
		leading: s.leading,
	}
}

// Call records arg as the latest argument and (re)starts the settle timer.
// In leading mode the first call of a burst executes immediately instead of
// scheduling a trailing execution.
func (d *Debouncer[A]) Call(arg A) {
	d.mu.Lock()

	d.lastArg = arg
	inBurst := d.timer != nil

	d.stopTimer()
	d.timer = time.AfterFunc(d.delay, d.onSettle)

	if d.maxWait > 0 && d.maxTimer == nil {
		d.maxTimer = time.AfterFunc(d.maxWait, d.onCeiling)
	}

	if d.leading && !inBurst {
		d.mu.Unlock()
		d.fn(arg)
		return
	}

	d.trailing = true
	d.mu.Unlock()
}

// Cancel drops any pending execution and stops all timers. It is safe to
// call repeatedly and after the debouncer has gone quiet; views call it on
// teardown so the callback cannot fire against unmounted state.
func (d *Debouncer[A]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopTimer()
	d.stopMaxTimer()
	d.trailing = false
}

// Flush runs a pending execution immediately, if there is one, instead of
// waiting out the settle period.
func (d *Debouncer[A]) Flush() {
	d.mu.Lock()
	if !d.trailing {
		d.mu.Unlock()
		return
	}

	d.stopTimer()
	d.stopMaxTimer()
	d.trailing = false
	arg := d.lastArg
	d.mu.Unlock()

	d.fn(arg)
}

// Pending reports whether a trailing execution is scheduled.
func (d *Debouncer[A]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trailing
}

// onSettle fires when the burst has settled for the full delay.
func (d *Debouncer[A]) onSettle() {
	d.mu.Lock()
	d.timer = nil
	d.stopMaxTimer()

	fire := d.trailing
	d.trailing = false
	arg := d.lastArg
	d.mu.Unlock()

	if fire {
		d.fn(arg)
	}
}

// onCeiling fires when calls have kept arriving for longer than maxWait.
func (d *Debouncer[A]) onCeiling() {
	d.mu.Lock()
	d.maxTimer = nil

	if !d.trailing {
		d.mu.Unlock()
		return
	}

	d.stopTimer()
	d.trailing = false
	arg := d.lastArg
	d.mu.Unlock()

	d.fn(arg)
}

func (d *Debouncer[A]) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[A]) stopMaxTimer() {
	if d.maxTimer != nil {
		d.maxTimer.Stop()
		d.maxTimer = nil
	}
}
