package listview_test

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var headNames = []string{
	"Maria Rivera",
	"Jose Santos",
	"Ana Dela Cruz",
	"Pedro Bautista",
	"Luisa Ramos",
	"Carlos Aquino",
}

var barangays = []string{"San Roque", "Poblacion", "Bagong Silang"}

// SeedHouseholds creates test households and returns their IDs in insert
// order. Head names and barangays cycle through fixed lists so search
// terms hit a predictable subset.
func SeedHouseholds(ctx context.Context, db *sql.DB, count int) ([]string, error) {
	ids := make([]string, count)

	for i := 0; i < count; i++ {
		id := uuid.New().String()

		// Stagger created_at times to test ordering.
		createdAt := time.Now().Add(-time.Duration(count-i) * time.Hour)

		query := `
			INSERT INTO households (id, head_name, barangay, member_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		_, err := db.ExecContext(ctx, query,
			id,
			fmt.Sprintf("%s %02d", headNames[i%len(headNames)], i),
			barangays[i%len(barangays)],
			1+i%7,
			createdAt,
			createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to seed household %d: %w", i, err)
		}

		ids[i] = id
	}

	return ids, nil
}

// SeedAidItems creates test aid items and returns their IDs.
func SeedAidItems(ctx context.Context, db *sql.DB, count int) ([]string, error) {
	categories := []string{"food", "water", "hygiene", "shelter"}
	ids := make([]string, count)

	for i := 0; i < count; i++ {
		id := uuid.New().String()
		createdAt := time.Now().Add(-time.Duration(count-i) * time.Minute)

		query := `
			INSERT INTO aid_items (id, name, category, quantity_available, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		_, err := db.ExecContext(ctx, query,
			id,
			fmt.Sprintf("Relief Item %02d", i),
			categories[i%len(categories)],
			10+i*5,
			createdAt,
			createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to seed aid item %d: %w", i, err)
		}

		ids[i] = id
	}

	return ids, nil
}

// CleanupTables truncates all test tables between tests.
func CleanupTables(ctx context.Context, db *sql.DB) error {
	// Truncate distributions first due to FK constraints.
	tables := []string{"distributions", "aid_items", "households"}

	for _, table := range tables {
		query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}
