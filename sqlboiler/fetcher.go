package sqlboiler

import (
	"context"
	"fmt"

	"github.com/aarondl/sqlboiler/v4/queries/qm"

	listview "github.com/reliefops/go-listview"
)

const defaultLimit = 10

// QueryFunc executes a SQLBoiler query and returns rows.
//
// Type parameter T is the SQLBoiler model type (e.g. *models.Household).
type QueryFunc[T any] func(ctx context.Context, mods ...qm.QueryMod) ([]T, error)

// CountFunc executes a SQLBoiler count query.
type CountFunc func(ctx context.Context, mods ...qm.QueryMod) (int64, error)

// Fetcher implements listview.Fetcher[T] over SQLBoiler query and count
// functions. Every result carries the server-pagination envelope, so it
// pairs with a projector in ModeServer.
type Fetcher[T any] struct {
	queryFunc QueryFunc[T]
	countFunc CountFunc
	columns   *Columns
}

// NewFetcher creates a server-mode fetcher from a query function, a count
// function, and the screen's column whitelist.
func NewFetcher[T any](queryFunc QueryFunc[T], countFunc CountFunc, columns *Columns) listview.Fetcher[T] {
	return &Fetcher[T]{
		queryFunc: queryFunc,
		countFunc: countFunc,
		columns:   columns,
	}
}

// Fetch runs the count and page queries for the request and assembles the
// ListResult with its pagination envelope.
func (f *Fetcher[T]) Fetch(ctx context.Context, req listview.ListRequest) (*listview.ListResult[T], error) {
	total, err := f.countFunc(ctx, f.columns.WhereMods(req)...)
	if err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	rows, err := f.queryFunc(ctx, f.columns.ToQueryMods(req)...)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	return &listview.ListResult[T]{
		Rows: rows,
		Meta: &listview.PageMeta{
			CurrentPage: page,
			TotalPages:  listview.PageCount(int(total), limit),
			TotalItems:  int(total),
			Limit:       limit,
		},
	}, nil
}
