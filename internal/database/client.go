// Package database provides the PostgreSQL client and data access for the
// credits table.
package database

import (
	"context"
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// ErrMissingURL is returned by NewClient when no connection string is set.
var ErrMissingURL = errors.New("DATABASE_URL is required")

// Client wraps the database connection pool and provides data access methods.
type Client struct {
	db *sql.DB
}

// NewClient creates a new database client connected to the given PostgreSQL URL.
func NewClient(ctx context.Context, databaseURL string) (*Client, error) {
	if databaseURL == "" {
		return nil, ErrMissingURL
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Verify connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &Client{db: db}, nil
}

// NewWithDB wraps an already opened pool.
func NewWithDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the connection is still alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) migrator(migrationsPath string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(c.db, &postgres.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"postgres",
		driver,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migrator")
	}
	return m, nil
}

// Migrate runs database migrations from the given path.
func (c *Client) Migrate(migrationsPath string) error {
	m, err := c.migrator(migrationsPath)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "migration failed")
	}

	return nil
}

// MigrateDown rolls back every migration found at the given path.
func (c *Client) MigrateDown(migrationsPath string) error {
	m, err := c.migrator(migrationsPath)
	if err != nil {
		return err
	}

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "migration rollback failed")
	}

	return nil
}

// MigrationVersion reports the current schema version and whether the last
// migration left the schema dirty.
func (c *Client) MigrationVersion(migrationsPath string) (uint, bool, error) {
	m, err := c.migrator(migrationsPath)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to read migration version")
	}
	return version, dirty, nil
}
