// Package view wires the pipeline together for one list screen: a query
// state holder, a debounced fetch trigger, a fetcher, a result projector,
// and a feedback channel, owned as one per-view controller.
//
// The controller carries the two guarantees the pieces cannot provide
// alone. Responses are applied only if the query state has not moved on
// since the fetch started, so a late response for an older query never
// flickers in over a newer page. And a failed fetch leaves the last
// known-good page visible instead of clearing the table; the error goes to
// the feedback channel.
//
//	ctrl := view.New(ctx, fetcher,
//	    project.New[*Household]().Mode(project.ModeServer))
//	defer ctrl.Close()
//
//	ctrl.SetSearch("rivera") // debounced refetch
//	ctrl.CycleSort("headName")
//	page := ctrl.Page()
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	listview "github.com/reliefops/go-listview"
	"github.com/reliefops/go-listview/debounce"
	"github.com/reliefops/go-listview/project"
	"github.com/reliefops/go-listview/query"
	"github.com/reliefops/go-listview/toast"
)

// Option configures a Controller.
type Option[T any] func(*config)

type config struct {
	settleDelay  time.Duration
	queryOptions []query.Option
	filters      map[string]any
	toasts       *toast.Channel
	onChange     func()
}

// WithSettleDelay overrides the debounce settle period.
func WithSettleDelay[T any](d time.Duration) Option[T] {
	return func(c *config) {
		if d > 0 {
			c.settleDelay = d
		}
	}
}

// WithQueryOptions forwards options to the controller's query state.
func WithQueryOptions[T any](opts ...query.Option) Option[T] {
	return func(c *config) {
		c.queryOptions = append(c.queryOptions, opts...)
	}
}

// WithFilters pins scope filters sent with every fetch (e.g. a center ID).
func WithFilters[T any](filters map[string]any) Option[T] {
	return func(c *config) {
		c.filters = filters
	}
}

// WithToasts shares an existing feedback channel instead of creating one.
func WithToasts[T any](ch *toast.Channel) Option[T] {
	return func(c *config) {
		c.toasts = ch
	}
}

// WithOnChange registers a callback invoked after a new page is applied.
// It may run on the debounce timer goroutine.
func WithOnChange[T any](fn func()) Option[T] {
	return func(c *config) {
		c.onChange = fn
	}
}

// Controller owns the derived state of one list screen. It is created per
// page-view and discarded via Close on navigation away.
//
// Type parameter T is the row type.
type Controller[T any] struct {
	mu        sync.Mutex
	state     *query.State
	projector *project.Projector[T]
	fetcher   listview.Fetcher[T]
	trigger   *debounce.Debouncer[listview.ListQuery]
	toasts    *toast.Channel
	ownToasts bool
	filters   map[string]any
	page      listview.ResultPage[T]
	onChange  func()
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a controller bound to ctx; cancelling ctx (or calling Close)
// tears the view down.
func New[T any](
	ctx context.Context,
	fetcher listview.Fetcher[T],
	projector *project.Projector[T],
	opts ...Option[T],
) *Controller[T] {
	cfg := config{settleDelay: debounce.DefaultDelay}
	for _, opt := range opts {
		opt(&cfg)
	}

	viewCtx, cancel := context.WithCancel(ctx)

	c := &Controller[T]{
		projector: projector,
		fetcher:   fetcher,
		filters:   cfg.filters,
		toasts:    cfg.toasts,
		onChange:  cfg.onChange,
		ctx:       viewCtx,
		cancel:    cancel,
		page:      listview.ResultPage[T]{PageIndex: 1, PageCount: 1},
	}

	if c.toasts == nil {
		c.toasts = toast.NewChannel()
		c.ownToasts = true
	}

	c.state = query.New(cfg.queryOptions...)
	c.trigger = debounce.New(func(listview.ListQuery) { c.refresh() },
		debounce.WithDelay(cfg.settleDelay))

	return c
}

// SetSearch updates the search text and schedules a debounced refetch.
func (c *Controller[T]) SetSearch(text string) {
	c.mutate(func() { c.state.SetSearch(text) })
}

// CycleSort advances the three-state sort cycle for a column and schedules
// a debounced refetch.
func (c *Controller[T]) CycleSort(key string) {
	c.mutate(func() { c.state.CycleSort(key) })
}

// SetPage moves to the given page and schedules a debounced refetch.
func (c *Controller[T]) SetPage(page int) {
	c.mutate(func() { c.state.SetPage(page) })
}

// SetPageSize changes the page size and schedules a debounced refetch.
func (c *Controller[T]) SetPageSize(size int) {
	c.mutate(func() { c.state.SetPageSize(size) })
}

// Refresh fetches immediately, flushing any pending debounced trigger.
// Workflow success handlers call this to reload the source list.
func (c *Controller[T]) Refresh() {
	c.trigger.Cancel()
	c.refresh()
}

// Page returns the last applied result page. After a failed fetch this is
// the last known-good page, not an empty one.
func (c *Controller[T]) Page() listview.ResultPage[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Query returns a snapshot of the current query state.
func (c *Controller[T]) Query() listview.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Toasts returns the controller's feedback channel.
func (c *Controller[T]) Toasts() *toast.Channel {
	return c.toasts
}

// Close cancels the pending debounce timer, the toast auto-dismiss timer
// (when the controller owns the channel), and any in-flight fetch context.
// Safe to call more than once.
func (c *Controller[T]) Close() {
	c.trigger.Cancel()
	if c.ownToasts {
		c.toasts.Stop()
	}
	c.cancel()
}

func (c *Controller[T]) mutate(fn func()) {
	c.mu.Lock()
	before := c.state.Version()
	fn()
	changed := c.state.Version() != before
	snapshot := c.state.Snapshot()
	c.mu.Unlock()

	if changed {
		c.trigger.Call(snapshot)
	}
}

// refresh performs one fetch for the current query state and applies the
// result, unless the state has moved on in the meantime.
func (c *Controller[T]) refresh() {
	c.mu.Lock()
	version := c.state.Version()
	q := c.state.Snapshot()
	req := c.state.Request(c.filters)
	ctx := c.ctx
	c.mu.Unlock()

	res, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			// Torn down mid-fetch; nothing to report.
			return
		}
		c.toasts.Show(fmt.Sprintf("Failed to load list: %v", err))
		return
	}

	c.mu.Lock()
	if c.state.Version() != version {
		// Stale response for an older query.
		c.mu.Unlock()
		return
	}
	c.page = c.projector.Project(*res, q)
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange()
	}
}
