// Package listview provides the shared derived-state pipeline behind
// list-oriented administration screens: a query-state holder, a debounced
// fetch trigger, a filter/sort/paginate result projector, a selection
// workflow state machine, and a transient feedback channel.
//
// The root package holds the contracts shared by the subpackages. Row types
// are caller-defined; the pipeline only needs extractor functions for
// identity, searchable text, and sort values.
package listview

// SortDirection is the direction of an active sort.
type SortDirection string

const (
	// SortAsc sorts ascending.
	SortAsc SortDirection = "asc"

	// SortDesc sorts descending.
	SortDesc SortDirection = "desc"
)

// SortConfig describes the active sort for a list view.
// A nil *SortConfig means the list is unsorted.
type SortConfig struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// NextSort advances the three-state sort cycle for a column.
//
// Clicking the same column repeatedly cycles unsorted → asc → desc →
// unsorted. Clicking a different column always starts that column at asc,
// regardless of the previous column's direction.
//
// Example:
//
//	s := listview.NextSort(nil, "name")        // name asc
//	s = listview.NextSort(s, "name")           // name desc
//	s = listview.NextSort(s, "name")           // nil (unsorted)
//	s = listview.NextSort(s, "createdAt")      // createdAt asc
func NextSort(current *SortConfig, key string) *SortConfig {
	if current == nil || current.Key != key {
		return &SortConfig{Key: key, Direction: SortAsc}
	}

	if current.Direction == SortAsc {
		return &SortConfig{Key: key, Direction: SortDesc}
	}

	return nil
}

// ListQuery is an immutable snapshot of a view's query state: what the user
// typed, how the table is sorted, and which page window is visible.
type ListQuery struct {
	Search   string      `json:"search"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Sort     *SortConfig `json:"sort,omitempty"`
}

// ResultPage is the projected window of rows a view renders.
//
// Invariants: len(Rows) never exceeds the page size used to project it, and
// PageCount is at least 1 even when TotalCount is 0.
//
// Type parameter T is the caller's row type.
type ResultPage[T any] struct {
	// Rows contains the rows for the current page, in render order.
	Rows []T `json:"rows"`

	// TotalCount is the number of rows across all pages (after filtering).
	TotalCount int `json:"totalCount"`

	// PageIndex echoes the requested page, 1-based. It may point past
	// PageCount, in which case Rows is empty.
	PageIndex int `json:"pageIndex"`

	// PageCount is ceil(TotalCount / pageSize), minimum 1.
	PageCount int `json:"pageCount"`
}

// PageMeta is the pagination envelope returned by server-paginated list
// endpoints: { results, pagination: { currentPage, totalPages, totalItems,
// limit } }.
type PageMeta struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	Limit       int `json:"limit"`
}

// ListResult is what a Fetcher returns. A nil Meta marks a flat,
// client-mode collection: the caller received every row and the projector
// filters, sorts, and paginates locally. A non-nil Meta marks a
// server-paginated page: Rows is already the page to render.
type ListResult[T any] struct {
	Rows []T       `json:"results"`
	Meta *PageMeta `json:"pagination,omitempty"`
}

// SubmitResult is the response envelope of workflow submit operations
// (distribute, transfer, allocate).
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// PageCount returns ceil(totalCount / pageSize), minimum 1. A non-positive
// pageSize is treated as 1 to avoid a divide by zero.
func PageCount(totalCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = 1
	}

	count := (totalCount + pageSize - 1) / pageSize
	if count < 1 {
		count = 1
	}

	return count
}
