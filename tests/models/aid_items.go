package models

import (
	"context"
	"time"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"
)

// AidItem is an object representing the database table.
type AidItem struct {
	ID                string    `boil:"id" json:"id"`
	Name              string    `boil:"name" json:"name"`
	Category          string    `boil:"category" json:"category"`
	QuantityAvailable int       `boil:"quantity_available" json:"quantity_available"`
	CreatedAt         time.Time `boil:"created_at" json:"created_at"`
	UpdatedAt         time.Time `boil:"updated_at" json:"updated_at"`
}

var aidItemColumns = []string{
	"id", "name", "category", "quantity_available", "created_at", "updated_at",
}

type aidItemQuery struct {
	*queries.Query
}

// AidItems retrieves all the records using the default query mods.
func AidItems(mods ...qm.QueryMod) aidItemQuery {
	mods = append(mods, qm.Select(aidItemColumns...), qm.From("aid_items"))
	return aidItemQuery{NewQuery(mods...)}
}

// All returns all AidItem records from the query.
func (q aidItemQuery) All(ctx context.Context, exec boil.ContextExecutor) ([]*AidItem, error) {
	rows, err := q.QueryContext(ctx, exec)
	if err != nil {
		return nil, errors.Wrap(err, "models: failed to execute aid_items query")
	}
	defer rows.Close()

	var o []*AidItem
	for rows.Next() {
		var a AidItem
		err := rows.Scan(
			&a.ID, &a.Name, &a.Category, &a.QuantityAvailable,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "models: failed to scan aid item row")
		}
		o = append(o, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "models: failed to read aid item rows")
	}

	return o, nil
}

// Count returns the count of all AidItem records in the query.
func (q aidItemQuery) Count(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)

	if err := q.QueryRowContext(ctx, exec).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "models: failed to count aid_items rows")
	}

	return count, nil
}
