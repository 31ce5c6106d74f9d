// Package toast implements the transient feedback channel used after list
// actions: one toast at a time, severity classified from the message text,
// auto-dismissed on a cancellable timer.
package toast

import (
	"strings"
	"sync"
	"time"
)

// Severity classifies a toast.
type Severity string

const (
	// SeveritySuccess marks a confirmation toast.
	SeveritySuccess Severity = "success"

	// SeverityError marks a failure toast.
	SeverityError Severity = "error"
)

// Semantic roles for assistive technology: errors interrupt, confirmations
// do not.
const (
	RoleStatus = "status"
	RoleAlert  = "alert"
)

// Default display durations. Errors stay up longer so they can be read.
const (
	DefaultSuccessDuration = 2 * time.Second
	DefaultErrorDuration   = 4 * time.Second
)

// failureWords is the fixed vocabulary of failure-indicating words matched
// case-insensitively against a message.
var failureWords = []string{
	"failed",
	"failure",
	"error",
	"invalid",
	"cannot",
	"unable",
	"unauthorized",
	"forbidden",
	"not found",
	"exception",
	"could not",
}

// Classify derives a toast severity from the message content.
func Classify(message string) Severity {
	lower := strings.ToLower(message)

	for _, word := range failureWords {
		if strings.Contains(lower, word) {
			return SeverityError
		}
	}

	return SeveritySuccess
}

// Toast is the renderable state of the feedback channel.
type Toast struct {
	Open     bool
	Message  string
	Severity Severity
	Role     string
	Duration time.Duration
}

// Option configures a Channel.
type Option func(*Channel)

// WithSuccessDuration overrides the success display duration.
func WithSuccessDuration(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.successDuration = d
		}
	}
}

// WithErrorDuration overrides the error display duration.
func WithErrorDuration(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.errorDuration = d
		}
	}
}

// WithOnChange registers a callback invoked with the channel state after
// every open and close. Renderers hook their re-render here. The callback
// may run on the auto-dismiss timer goroutine.
func WithOnChange(fn func(Toast)) Option {
	return func(c *Channel) {
		c.onChange = fn
	}
}

// Channel shows at most one toast at a time. Showing a new toast while one
// is open replaces it and restarts the auto-dismiss timer.
type Channel struct {
	mu              sync.Mutex
	current         Toast
	timer           *time.Timer
	gen             uint64
	successDuration time.Duration
	errorDuration   time.Duration
	onChange        func(Toast)
}

// NewChannel creates a feedback channel with the default durations.
func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		successDuration: DefaultSuccessDuration,
		errorDuration:   DefaultErrorDuration,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Show opens a toast for the message, classifying it by content. Any open
// toast is replaced and the auto-dismiss timer restarts.
func (c *Channel) Show(message string) {
	severity := Classify(message)

	duration := c.successDuration
	role := RoleStatus
	if severity == SeverityError {
		duration = c.errorDuration
		role = RoleAlert
	}

	c.mu.Lock()

	c.stopTimer()
	c.gen++
	gen := c.gen

	c.current = Toast{
		Open:     true,
		Message:  message,
		Severity: severity,
		Role:     role,
		Duration: duration,
	}

	c.timer = time.AfterFunc(duration, func() { c.expire(gen) })

	snapshot := c.current
	c.mu.Unlock()

	c.notify(snapshot)
}

// Close dismisses the current toast. Closing an already-closed channel is a
// no-op.
func (c *Channel) Close() {
	c.mu.Lock()

	if !c.current.Open {
		c.mu.Unlock()
		return
	}

	c.stopTimer()
	c.gen++
	c.current = Toast{}

	c.mu.Unlock()
	c.notify(Toast{})
}

// Stop cancels the auto-dismiss timer without emitting a change. Views call
// it on teardown so the timer cannot fire against unmounted state.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimer()
	c.gen++
	c.current = Toast{}
}

// Current returns the channel state.
func (c *Channel) Current() Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// expire auto-dismisses the toast the timer was armed for. The generation
// check makes a timer that lost the race to a newer Show harmless.
func (c *Channel) expire(gen uint64) {
	c.mu.Lock()

	if gen != c.gen || !c.current.Open {
		c.mu.Unlock()
		return
	}

	c.timer = nil
	c.current = Toast{}

	c.mu.Unlock()
	c.notify(Toast{})
}

func (c *Channel) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Channel) notify(t Toast) {
	if c.onChange != nil {
		c.onChange(t)
	}
}
