package listview_test

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container represents a running PostgreSQL testcontainer with the
// evacuation-center schema loaded.
type Container struct {
	Container *postgres.PostgresContainer
	DB        *sql.DB
	ConnStr   string
}

// SetupPostgres starts a PostgreSQL container with initialized tables.
func SetupPostgres(ctx context.Context) (*Container, error) {
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Container{
		Container: pgContainer,
		DB:        db,
		ConnStr:   connStr,
	}, nil
}

// Terminate closes the database connection and stops the container.
func (c *Container) Terminate(ctx context.Context) error {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Container != nil {
		return c.Container.Terminate(ctx)
	}
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	schema := `
		CREATE TABLE households (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			head_name TEXT NOT NULL,
			barangay TEXT NOT NULL,
			member_count INT NOT NULL DEFAULT 1,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE aid_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			quantity_available INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE distributions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			reference TEXT NOT NULL,
			household_id UUID NOT NULL REFERENCES households(id),
			item_id UUID NOT NULL REFERENCES aid_items(id),
			quantity INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX idx_households_head_name ON households(head_name);
		CREATE INDEX idx_households_created_at ON households(created_at);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}
