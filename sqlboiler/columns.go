// Package sqlboiler adapts SQLBoiler-backed endpoints to the listview
// fetch contract. It translates a ListRequest into query mods (an ILIKE
// search across configured columns, a whitelisted ORDER BY, and
// offset/limit from the page window) and wraps query/count functions into
// a server-mode Fetcher that returns the pagination envelope.
//
// Example usage:
//
//	cols := sqlboiler.NewColumns().
//	    Searchable("head_name", "barangay").
//	    Sortable("headName", "head_name").
//	    Sortable("members", "member_count").
//	    DefaultOrder("created_at DESC")
//
//	fetcher := sqlboiler.NewFetcher(
//	    func(ctx context.Context, mods ...qm.QueryMod) ([]*models.Household, error) {
//	        return models.Households(mods...).All(ctx, db)
//	    },
//	    func(ctx context.Context, mods ...qm.QueryMod) (int64, error) {
//	        return models.Households(mods...).Count(ctx, db)
//	    },
//	    cols,
//	)
package sqlboiler

import (
	"strings"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/aarondl/strmangle"

	listview "github.com/reliefops/go-listview"
)

// Columns declares which columns a screen may search and sort. Sort keys
// arriving in a ListRequest are looked up in the whitelist; unknown keys
// fall back to the default order, so request input never reaches the ORDER
// BY clause as raw SQL.
type Columns struct {
	sortable     map[string]string
	searchable   []string
	defaultOrder string
}

// NewColumns creates an empty column whitelist.
func NewColumns() *Columns {
	return &Columns{
		sortable: make(map[string]string),
	}
}

// Sortable maps a UI sort key to its SQL column and returns the Columns for
// chaining. Qualified names ("households.head_name") are supported.
func (c *Columns) Sortable(key, column string) *Columns {
	c.sortable[key] = column
	return c
}

// Searchable registers the columns matched by the free-text search.
func (c *Columns) Searchable(columns ...string) *Columns {
	c.searchable = append(c.searchable, columns...)
	return c
}

// DefaultOrder sets the ORDER BY clause used when no (known) sort key is
// requested, e.g. "created_at DESC".
func (c *Columns) DefaultOrder(clause string) *Columns {
	c.defaultOrder = clause
	return c
}

// WhereMods returns the filter mods for a request: the ILIKE search across
// the searchable columns. These are the mods a count query needs.
func (c *Columns) WhereMods(req listview.ListRequest) []qm.QueryMod {
	if req.Search == "" || len(c.searchable) == 0 {
		return nil
	}

	clauses := make([]string, len(c.searchable))
	args := make([]any, len(c.searchable))
	pattern := "%" + req.Search + "%"

	for i, col := range c.searchable {
		clauses[i] = quoteIdent(col) + " ILIKE ?"
		args[i] = pattern
	}

	return []qm.QueryMod{qm.Where("("+strings.Join(clauses, " OR ")+")", args...)}
}

// ToQueryMods converts a full ListRequest into query mods: search filter,
// whitelisted order, and the page window.
func (c *Columns) ToQueryMods(req listview.ListRequest) []qm.QueryMod {
	mods := c.WhereMods(req)

	if clause := c.orderBy(req); clause != "" {
		mods = append(mods, qm.OrderBy(clause))
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	if req.Page > 1 {
		mods = append(mods, qm.Offset((req.Page-1)*limit))
	}

	mods = append(mods, qm.Limit(limit))

	return mods
}

// orderBy builds the ORDER BY clause from the whitelist. Unknown sort keys
// are ignored in favor of the default order.
func (c *Columns) orderBy(req listview.ListRequest) string {
	if req.SortBy != "" {
		if column, ok := c.sortable[req.SortBy]; ok {
			clause := quoteIdent(column)
			if req.SortOrder == listview.SortDesc {
				clause += " DESC"
			}
			return clause
		}
	}

	return c.defaultOrder
}

// quoteIdent quotes a possibly-qualified identifier for Postgres.
func quoteIdent(column string) string {
	return strmangle.IdentQuote('"', '"', column)
}
