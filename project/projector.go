// Package project implements the result projector: the pure
// filter → sort → paginate pipeline that turns a fetched row collection and
// a query snapshot into the page a view renders.
//
// A projector is configured once per screen with a fluent schema of
// searchable text and sortable fields, then applied on every query change:
//
//	proj := project.New[*Household]().
//	    SearchText(func(h *Household) string { return h.HeadName + " " + h.Barangay }).
//	    Field("headName", func(h *Household) any { return h.HeadName }).
//	    Field("members", func(h *Household) any { return h.MemberCount })
//
//	page := proj.Project(result, state.Snapshot())
//
// Projection is deterministic and side-effect free. In client mode the
// projector filters, sorts (stably, unknown keys ignored, nil values last
// regardless of direction), and slices locally. In server mode the rows
// pass through untouched and the counts come from the server's pagination
// envelope.
package project

import (
	"fmt"
	"sort"
	"strings"
	"time"

	listview "github.com/reliefops/go-listview"
)

// Mode selects where filtering, sorting, and slicing happen.
type Mode int

const (
	// ModeClient projects locally from the full row collection.
	ModeClient Mode = iota

	// ModeServer trusts the fetched rows as the already-filtered,
	// already-sorted page and reads counts from the envelope.
	ModeServer
)

// Comparator orders two extracted sort values. It returns a negative
// number, zero, or a positive number as a sorts before, equal to, or after
// b. Comparators never see nil values; those are handled by the projector
// and always sort last.
type Comparator func(a, b any) int

type field[T any] struct {
	extract func(T) any
	compare Comparator
}

// Projector projects fetched rows into a ResultPage.
//
// Type parameter T is the row type.
type Projector[T any] struct {
	mode       Mode
	searchText func(T) string
	fields     map[string]field[T]
}

// New creates a client-mode projector with no fields configured.
func New[T any]() *Projector[T] {
	return &Projector[T]{
		fields: make(map[string]field[T]),
	}
}

// Mode sets the projection mode and returns the projector for chaining.
func (p *Projector[T]) Mode(m Mode) *Projector[T] {
	p.mode = m
	return p
}

// SearchText registers the searchable-text extractor used by client-mode
// filtering. Without it, client-mode filtering is a no-op.
func (p *Projector[T]) SearchText(extract func(T) string) *Projector[T] {
	p.searchText = extract
	return p
}

// Field registers a sortable field under the given UI key using the default
// comparator (numbers numerically, strings bytewise, times chronologically).
func (p *Projector[T]) Field(key string, extract func(T) any) *Projector[T] {
	return p.FieldCmp(key, extract, defaultCompare)
}

// FieldCmp registers a sortable field with a caller-supplied comparator.
func (p *Projector[T]) FieldCmp(key string, extract func(T) any, compare Comparator) *Projector[T] {
	if compare == nil {
		compare = defaultCompare
	}

	p.fields[key] = field[T]{extract: extract, compare: compare}
	return p
}

// Project computes the rows to render for the given query snapshot.
//
// Client mode runs filter, stable sort, and slice, in that order. A page
// index past the last page yields an empty row slice; it never panics and
// never wraps around. Server mode returns the rows untouched with counts
// taken from the envelope; a missing envelope falls back to client math.
func (p *Projector[T]) Project(res listview.ListResult[T], q listview.ListQuery) listview.ResultPage[T] {
	if p.mode == ModeServer && res.Meta != nil {
		return serverPage(res, q)
	}

	rows := p.filter(res.Rows, q.Search)
	rows = p.sortRows(rows, q.Sort)

	return slicePage(rows, q)
}

func serverPage[T any](res listview.ListResult[T], q listview.ListQuery) listview.ResultPage[T] {
	meta := res.Meta

	page := meta.CurrentPage
	if page < 1 {
		page = q.Page
	}

	count := meta.TotalPages
	if count < 1 {
		count = listview.PageCount(meta.TotalItems, meta.Limit)
	}

	return listview.ResultPage[T]{
		Rows:       res.Rows,
		TotalCount: meta.TotalItems,
		PageIndex:  page,
		PageCount:  count,
	}
}

// filter keeps rows whose searchable text contains the search term as a
// case-insensitive substring.
func (p *Projector[T]) filter(rows []T, search string) []T {
	if search == "" || p.searchText == nil {
		return rows
	}

	term := strings.ToLower(search)
	kept := make([]T, 0, len(rows))

	for _, row := range rows {
		if strings.Contains(strings.ToLower(p.searchText(row)), term) {
			kept = append(kept, row)
		}
	}

	return kept
}

// sortRows orders rows by the configured field, stably, never mutating the
// input slice. Unknown sort keys leave the original order intact.
func (p *Projector[T]) sortRows(rows []T, cfg *listview.SortConfig) []T {
	if cfg == nil {
		return rows
	}

	f, ok := p.fields[cfg.Key]
	if !ok {
		return rows
	}

	desc := cfg.Direction == listview.SortDesc

	sorted := make([]T, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := f.extract(sorted[i]), f.extract(sorted[j])

		// Nil sorts last regardless of direction.
		if a == nil || b == nil {
			return b == nil && a != nil
		}

		c := f.compare(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})

	return sorted
}

func slicePage[T any](rows []T, q listview.ListQuery) listview.ResultPage[T] {
	size := q.PageSize
	if size < 1 {
		size = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	total := len(rows)

	start := (page - 1) * size
	if start > total {
		start = total
	}

	end := start + size
	if end > total {
		end = total
	}

	return listview.ResultPage[T]{
		Rows:       rows[start:end],
		TotalCount: total,
		PageIndex:  q.Page,
		PageCount:  listview.PageCount(total, size),
	}
}

// defaultCompare is a locale-naive comparison over the value types list
// screens sort by. Mixed or unsupported types fall back to their string
// forms so projection stays total and deterministic.
func defaultCompare(a, b any) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case bv:
				return -1
			default:
				return 1
			}
		}
	}

	return strings.Compare(stringify(a), stringify(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// stringify is the fallback for mixed or unsupported sort value types,
// which a correctly configured screen does not produce.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
