package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/geo-auth-be/internal/database/migrations"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Supported values for the driver argument.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// New creates a new database connection pool and verifies it with a ping.
func New(driver, dataSourceName string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = sql.Open("sqlite", sqliteDSN(dataSourceName))
		if err == nil {
			// SQLite allows a single writer; serialize through one connection.
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		db, err = sql.Open("pgx", dataSourceName)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Migrate applies the embedded schema migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var dialect, dir string
	switch driver {
	case DriverSQLite:
		dialect, dir = "sqlite3", "sqlite"
	case DriverPostgres:
		dialect, dir = "pgx", "postgres"
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
