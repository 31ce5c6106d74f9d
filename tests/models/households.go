// Package models contains hand-trimmed SQLBoiler-style models for the
// integration suite: just the query paths the listview adapters exercise.
package models

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"
)

// Household is an object representing the database table.
type Household struct {
	ID          string      `boil:"id" json:"id"`
	HeadName    string      `boil:"head_name" json:"head_name"`
	Barangay    string      `boil:"barangay" json:"barangay"`
	MemberCount int         `boil:"member_count" json:"member_count"`
	Notes       null.String `boil:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time   `boil:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `boil:"updated_at" json:"updated_at"`
}

var dialect = drivers.Dialect{
	LQ: '"',
	RQ: '"',

	UseIndexPlaceholders: true,
}

// NewQuery creates a query against this package's dialect.
func NewQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

var householdColumns = []string{
	"id", "head_name", "barangay", "member_count", "notes", "created_at", "updated_at",
}

type householdQuery struct {
	*queries.Query
}

// Households retrieves all the records using the default query mods.
func Households(mods ...qm.QueryMod) householdQuery {
	mods = append(mods, qm.Select(householdColumns...), qm.From("households"))
	return householdQuery{NewQuery(mods...)}
}

// All returns all Household records from the query.
func (q householdQuery) All(ctx context.Context, exec boil.ContextExecutor) ([]*Household, error) {
	rows, err := q.QueryContext(ctx, exec)
	if err != nil {
		return nil, errors.Wrap(err, "models: failed to execute households query")
	}
	defer rows.Close()

	var o []*Household
	for rows.Next() {
		var h Household
		err := rows.Scan(
			&h.ID, &h.HeadName, &h.Barangay, &h.MemberCount,
			&h.Notes, &h.CreatedAt, &h.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "models: failed to scan household row")
		}
		o = append(o, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "models: failed to read household rows")
	}

	return o, nil
}

// Count returns the count of all Household records in the query.
func (q householdQuery) Count(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)

	if err := q.QueryRowContext(ctx, exec).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "models: failed to count households rows")
	}

	return count, nil
}
