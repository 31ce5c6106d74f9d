// Package query holds the per-view query state: search text, sort key and
// direction, page index, and page size.
//
// The state holder owns the coupling rules between those fields. Changing
// the search text, the sort, or the page size always resets the page index
// to 1; callers never have to remember that themselves. Repeated sorting on
// one column cycles through asc → desc → unsorted.
//
// A State is created per page-view, owned by that view for its lifetime,
// and discarded on navigation. It performs no I/O and starts no timers.
package query

import (
	listview "github.com/reliefops/go-listview"
)

const (
	// DefaultPageSize is the page size used when none is configured.
	DefaultPageSize = 10

	// DefaultMaxPageSize is the largest page size a view may select.
	// Larger requests are capped, not rejected.
	DefaultMaxPageSize = 100
)

// Option configures a State.
type Option func(*State)

// WithPageSize sets the initial page size.
func WithPageSize(size int) Option {
	return func(s *State) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithMaxPageSize sets the cap applied to SetPageSize.
func WithMaxPageSize(size int) Option {
	return func(s *State) {
		if size > 0 {
			s.maxPageSize = size
		}
	}
}

// WithOnChange registers a callback invoked after every effective mutation.
// Views hook their debounced fetch trigger here.
func WithOnChange(fn func()) Option {
	return func(s *State) {
		s.onChange = fn
	}
}

// State is a view's query-state bag. It is owned by a single view instance;
// there is no concurrent writer, so it carries no lock.
type State struct {
	search      string
	sort        *listview.SortConfig
	page        int
	pageSize    int
	maxPageSize int
	version     uint64
	onChange    func()
}

// New creates a State on page 1 with the default page size.
func New(opts ...Option) *State {
	s := &State{
		page:        1,
		pageSize:    DefaultPageSize,
		maxPageSize: DefaultMaxPageSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.pageSize > s.maxPageSize {
		s.pageSize = s.maxPageSize
	}

	return s
}

// SetSearch updates the search text and resets the page index to 1.
// Setting the current value is a no-op.
func (s *State) SetSearch(text string) {
	if s.search == text {
		return
	}

	s.search = text
	s.page = 1
	s.bump()
}

// CycleSort advances the three-state sort cycle for the given column and
// resets the page index to 1.
func (s *State) CycleSort(key string) {
	s.sort = listview.NextSort(s.sort, key)
	s.page = 1
	s.bump()
}

// SetSort replaces the sort outright and resets the page index to 1.
// An empty key clears the sort.
func (s *State) SetSort(key string, direction listview.SortDirection) {
	if key == "" {
		if s.sort == nil {
			return
		}
		s.sort = nil
	} else {
		if s.sort != nil && s.sort.Key == key && s.sort.Direction == direction {
			return
		}
		s.sort = &listview.SortConfig{Key: key, Direction: direction}
	}

	s.page = 1
	s.bump()
}

// SetPage moves to the given 1-based page. Values below 1 are clamped to 1.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}

	if s.page == page {
		return
	}

	s.page = page
	s.bump()
}

// SetPageSize updates the page size, capped to the configured maximum, and
// resets the page index to 1.
func (s *State) SetPageSize(size int) {
	if size < 1 {
		size = DefaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	if s.pageSize == size {
		return
	}

	s.pageSize = size
	s.page = 1
	s.bump()
}

// Search returns the current search text.
func (s *State) Search() string { return s.search }

// Sort returns the active sort, or nil when unsorted.
func (s *State) Sort() *listview.SortConfig { return s.sort }

// Page returns the current 1-based page index.
func (s *State) Page() int { return s.page }

// PageSize returns the current page size.
func (s *State) PageSize() int { return s.pageSize }

// Version returns a counter bumped on every effective mutation. Consumers
// snapshot it before a fetch and drop responses whose version no longer
// matches, so a late response for an older query never overwrites a newer
// page.
func (s *State) Version() uint64 { return s.version }

// Snapshot returns the current state as an immutable ListQuery.
func (s *State) Snapshot() listview.ListQuery {
	q := listview.ListQuery{
		Search:   s.search,
		Page:     s.page,
		PageSize: s.pageSize,
	}

	if s.sort != nil {
		sort := *s.sort
		q.Sort = &sort
	}

	return q
}

// Request translates the current state into the backend's list-fetch
// contract. Scope filters are passed through untouched.
func (s *State) Request(filters map[string]any) listview.ListRequest {
	req := listview.ListRequest{
		Search:  s.search,
		Page:    s.page,
		Limit:   s.pageSize,
		Filters: filters,
	}

	if s.sort != nil {
		req.SortBy = s.sort.Key
		req.SortOrder = s.sort.Direction
	}

	return req
}

func (s *State) bump() {
	s.version++
	if s.onChange != nil {
		s.onChange()
	}
}
