package listview

import "context"

// ListRequest carries the query parameters a list-fetch operation accepts.
// It mirrors the backend's query contract: search, page, limit, sortBy,
// sortOrder, plus any scope filters a screen pins (for example a center ID).
//
// Paginators, adapters, and fetchers consume ListRequest; views build it
// from their query state via query.State.Request.
type ListRequest struct {
	// Search is the free-text search term. Empty means no filtering.
	Search string

	// Page is the 1-based page index.
	Page int

	// Limit is the page size.
	Limit int

	// SortBy is the UI sort key. Empty means the endpoint's default order.
	SortBy string

	// SortOrder is "asc" or "desc". Ignored when SortBy is empty.
	SortOrder SortDirection

	// Filters contains scope filters passed through to the backend
	// untouched (for example {"centerId": "..."}).
	Filters map[string]any
}

// Fetcher abstracts the list-fetch operation of a backend endpoint.
//
// Implementations may return a flat collection (Meta nil, client mode) or a
// server-paginated page (Meta set). The pipeline supports both without
// changing its contract to consumers.
//
// Type parameter T is the row type (e.g. *Household, *AidItem).
type Fetcher[T any] interface {
	// Fetch retrieves rows for the given request.
	Fetch(ctx context.Context, req ListRequest) (*ListResult[T], error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, req ListRequest) (*ListResult[T], error)

// Fetch implements Fetcher.
func (f FetcherFunc[T]) Fetch(ctx context.Context, req ListRequest) (*ListResult[T], error) {
	return f(ctx, req)
}

// Submitter abstracts the submit operation of a workflow (distribute,
// transfer, allocate). It receives one fully-formed payload and returns the
// backend's response envelope.
//
// Type parameter P is the payload type.
type Submitter[P any] interface {
	// Submit sends the payload. A returned error or a response with
	// Success=false both count as a failed submission.
	Submit(ctx context.Context, payload P) (*SubmitResult, error)
}

// SubmitterFunc adapts a plain function to the Submitter interface.
type SubmitterFunc[P any] func(ctx context.Context, payload P) (*SubmitResult, error)

// Submit implements Submitter.
func (f SubmitterFunc[P]) Submit(ctx context.Context, payload P) (*SubmitResult, error) {
	return f(ctx, payload)
}
